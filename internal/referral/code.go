package referral

import (
	"context"
	"crypto/rand"
	"encoding/binary"
	"errors"
	"strconv"
)

// ErrCodeExhausted means the generator could not find an unused code
// within its attempt budget. Surfaced to registration as a hard
// failure.
var ErrCodeExhausted = errors.New("referral code generation exhausted")

// DefaultCodeAttempts is the collision retry budget at registration.
const DefaultCodeAttempts = 5

// CodeChecker answers whether a referral code is already taken.
type CodeChecker interface {
	CodeExists(ctx context.Context, code string) (bool, error)
}

// GenerateCode produces a random 6-digit numeric code in
// 100000..999999. Uniqueness is the caller's problem; use AssignCode.
func GenerateCode() string {
	var buf [4]byte
	_, _ = rand.Read(buf[:])
	n := binary.BigEndian.Uint32(buf[:]) % 900000
	return strconv.Itoa(int(n) + 100000)
}

// AssignCode generates codes until one is unused, giving up with
// ErrCodeExhausted after attempts tries.
func AssignCode(ctx context.Context, codes CodeChecker, attempts int) (string, error) {
	if attempts <= 0 {
		attempts = DefaultCodeAttempts
	}
	for i := 0; i < attempts; i++ {
		code := GenerateCode()
		exists, err := codes.CodeExists(ctx, code)
		if err != nil {
			return "", err
		}
		if !exists {
			return code, nil
		}
	}
	return "", ErrCodeExhausted
}
