package referral

import (
	"context"
	"errors"
	"testing"
)

type fakeCodeChecker struct {
	taken map[string]bool
	calls int
	err   error

	// takenFirstN marks the first N checked codes as collisions
	// regardless of value.
	takenFirstN int
}

func (f *fakeCodeChecker) CodeExists(_ context.Context, code string) (bool, error) {
	f.calls++
	if f.err != nil {
		return false, f.err
	}
	if f.calls <= f.takenFirstN {
		return true, nil
	}
	return f.taken[code], nil
}

func TestGenerateCode_Format(t *testing.T) {
	for i := 0; i < 1000; i++ {
		code := GenerateCode()
		if len(code) != 6 {
			t.Fatalf("code %q is not 6 characters", code)
		}
		for _, r := range code {
			if r < '0' || r > '9' {
				t.Fatalf("code %q contains non-digit", code)
			}
		}
		if code[0] == '0' {
			t.Fatalf("code %q below 100000", code)
		}
	}
}

func TestAssignCode_FirstTry(t *testing.T) {
	f := &fakeCodeChecker{}
	code, err := AssignCode(context.Background(), f, DefaultCodeAttempts)
	if err != nil {
		t.Fatalf("assign: %v", err)
	}
	if code == "" {
		t.Fatalf("empty code")
	}
	if f.calls != 1 {
		t.Fatalf("expected 1 check, got %d", f.calls)
	}
}

func TestAssignCode_RetriesOnCollision(t *testing.T) {
	f := &fakeCodeChecker{takenFirstN: 3}
	code, err := AssignCode(context.Background(), f, DefaultCodeAttempts)
	if err != nil {
		t.Fatalf("assign: %v", err)
	}
	if code == "" {
		t.Fatalf("empty code")
	}
	if f.calls != 4 {
		t.Fatalf("expected 4 checks, got %d", f.calls)
	}
}

func TestAssignCode_Exhausted(t *testing.T) {
	f := &fakeCodeChecker{takenFirstN: 1 << 30}
	_, err := AssignCode(context.Background(), f, DefaultCodeAttempts)
	if !errors.Is(err, ErrCodeExhausted) {
		t.Fatalf("expected ErrCodeExhausted, got %v", err)
	}
	if f.calls != DefaultCodeAttempts {
		t.Fatalf("expected %d checks, got %d", DefaultCodeAttempts, f.calls)
	}
}

func TestAssignCode_CheckerErrorPropagates(t *testing.T) {
	f := &fakeCodeChecker{err: errors.New("db down")}
	_, err := AssignCode(context.Background(), f, DefaultCodeAttempts)
	if err == nil || errors.Is(err, ErrCodeExhausted) {
		t.Fatalf("expected store error, got %v", err)
	}
}
