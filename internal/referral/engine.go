package referral

import (
	"context"
	"fmt"

	"earnclub/internal/domain"
	"earnclub/internal/logger"
)

// Kind tags why a commission was paid.
type Kind string

const (
	KindLevel1               Kind = "level_1"
	KindLevel2               Kind = "level_2"
	KindLevel3               Kind = "level_3"
	KindLevel4               Kind = "level_4"
	KindLevel5               Kind = "level_5"
	KindAreaManagerBonus     Kind = "area_manager_bonus"
	KindRegionalManagerBonus Kind = "regional_manager_bonus"
)

// LevelKind returns the kind tag for an upline depth in 1..5.
func LevelKind(depth int) Kind {
	return Kind(fmt.Sprintf("level_%d", depth))
}

// Node is the slice of a user the engine needs to climb the upline.
type Node struct {
	ID         int64
	ReferredBy *int64
	Role       domain.Role
}

// UserSource resolves upline nodes. A missing user is (nil, nil),
// not an error.
type UserSource interface {
	Upline(ctx context.Context, userID int64) (*Node, error)
}

// Ledger applies a commission payout. Implementations must credit the
// beneficiary's referral balance and insert the commission record in
// one atomic operation; the engine itself does no locking.
type Ledger interface {
	AddCommission(ctx context.Context, beneficiaryID, sourceUserID int64, amount float64, kind Kind) error
}

const (
	maxLevels = 5

	// DefaultMaxHops bounds the manager search so a corrupted
	// referred_by chain cannot spin the walk forever.
	DefaultMaxHops = 1000
)

// Engine walks a user's upline and distributes level commissions and
// manager override bonuses according to the configured percentages.
type Engine struct {
	users   UserSource
	ledger  Ledger
	maxHops int
}

func NewEngine(users UserSource, ledger Ledger) *Engine {
	return &Engine{users: users, ledger: ledger, maxHops: DefaultMaxHops}
}

// NewEngineWithMaxHops overrides the hop ceiling, mainly for tests.
func NewEngineWithMaxHops(users UserSource, ledger Ledger, maxHops int) *Engine {
	if maxHops <= 0 {
		maxHops = DefaultMaxHops
	}
	return &Engine{users: users, ledger: ledger, maxHops: maxHops}
}

// Distribute pays out commissions for a value-generating transaction
// (package purchase, approved deposit) by sourceUserID of the given
// amount.
//
// Depths 1..5 earn the configured level percentage. The first area
// manager and the first regional manager found anywhere in the upline
// each earn their flat bonus exactly once; the search for them
// continues past depth 5 until both are paid or the upline ends. The
// same ancestor can collect a level commission and a manager bonus in
// one walk, as separate records.
//
// A source user that does not exist or has no referrer is a silent
// no-op. Individual credit failures are logged and the walk continues,
// so partial distribution is possible.
func (e *Engine) Distribute(ctx context.Context, sourceUserID int64, amount float64, s domain.ReferralSettings) error {
	src, err := e.users.Upline(ctx, sourceUserID)
	if err != nil {
		return fmt.Errorf("resolve source user %d: %w", sourceUserID, err)
	}
	if src == nil || src.ReferredBy == nil {
		return nil
	}

	visited := map[int64]bool{src.ID: true}
	hops := 0

	cur, err := e.step(ctx, *src.ReferredBy, visited, &hops)
	if err != nil {
		return err
	}

	areaPaid := false
	regionalPaid := false

	for depth := 1; depth <= maxLevels && cur != nil; depth++ {
		if c := amount * s.LevelPercent(depth) / 100; c > 0 {
			e.credit(ctx, cur.ID, sourceUserID, c, LevelKind(depth))
		}

		e.payManagerBonus(ctx, cur, sourceUserID, amount, s, &areaPaid, &regionalPaid)

		if cur.ReferredBy == nil {
			cur = nil
			break
		}
		cur, err = e.step(ctx, *cur.ReferredBy, visited, &hops)
		if err != nil {
			return err
		}
	}

	// Past the level cap, keep climbing only to find unpaid manager
	// overrides.
	for cur != nil && (!areaPaid || !regionalPaid) {
		e.payManagerBonus(ctx, cur, sourceUserID, amount, s, &areaPaid, &regionalPaid)

		if cur.ReferredBy == nil {
			break
		}
		cur, err = e.step(ctx, *cur.ReferredBy, visited, &hops)
		if err != nil {
			return err
		}
	}

	return nil
}

// step resolves the next upline node, refusing to revisit a user or to
// exceed the hop ceiling. Both conditions indicate corrupted referral
// data and end the walk.
func (e *Engine) step(ctx context.Context, userID int64, visited map[int64]bool, hops *int) (*Node, error) {
	if visited[userID] {
		logger.Warn("referral cycle detected, stopping walk", "user_id", userID)
		cycleStops.Inc()
		return nil, nil
	}
	*hops++
	if *hops > e.maxHops {
		logger.Warn("referral walk exceeded hop ceiling, stopping", "max_hops", e.maxHops)
		cycleStops.Inc()
		return nil, nil
	}

	n, err := e.users.Upline(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("resolve upline user %d: %w", userID, err)
	}
	if n != nil {
		visited[n.ID] = true
	}
	return n, nil
}

func (e *Engine) payManagerBonus(ctx context.Context, cur *Node, sourceUserID int64, amount float64, s domain.ReferralSettings, areaPaid, regionalPaid *bool) {
	if !*areaPaid && cur.Role == domain.RoleAreaManager {
		*areaPaid = true
		if c := amount * s.AreaManagerPercent / 100; c > 0 {
			e.credit(ctx, cur.ID, sourceUserID, c, KindAreaManagerBonus)
		}
	}
	if !*regionalPaid && cur.Role == domain.RoleRegionalManager {
		*regionalPaid = true
		if c := amount * s.RegionalManagerPercent / 100; c > 0 {
			e.credit(ctx, cur.ID, sourceUserID, c, KindRegionalManagerBonus)
		}
	}
}

// credit applies one payout. Failures do not abort the walk: later
// ancestors still get paid, the miss is logged and counted.
func (e *Engine) credit(ctx context.Context, beneficiaryID, sourceUserID int64, amount float64, kind Kind) {
	if err := e.ledger.AddCommission(ctx, beneficiaryID, sourceUserID, amount, kind); err != nil {
		logger.Error("commission credit failed",
			"beneficiary_id", beneficiaryID,
			"source_user_id", sourceUserID,
			"kind", string(kind),
			"amount", amount,
			"error", err,
		)
		creditFailures.WithLabelValues(string(kind)).Inc()
		return
	}
	commissionsPaid.WithLabelValues(string(kind)).Inc()
}
