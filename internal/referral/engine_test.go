package referral

import (
	"context"
	"errors"
	"testing"

	"earnclub/internal/domain"
)

// fakeGraph is an in-memory UserSource.
type fakeGraph struct {
	nodes map[int64]*Node
	fail  map[int64]bool
}

func newFakeGraph() *fakeGraph {
	return &fakeGraph{nodes: make(map[int64]*Node), fail: make(map[int64]bool)}
}

func (g *fakeGraph) add(id int64, referredBy *int64, role domain.Role) {
	g.nodes[id] = &Node{ID: id, ReferredBy: referredBy, Role: role}
}

func (g *fakeGraph) Upline(_ context.Context, userID int64) (*Node, error) {
	if g.fail[userID] {
		return nil, errors.New("store unavailable")
	}
	return g.nodes[userID], nil
}

type payout struct {
	beneficiary int64
	source      int64
	amount      float64
	kind        Kind
}

// recordingLedger captures payouts and can fail selected beneficiaries.
type recordingLedger struct {
	payouts []payout
	fail    map[int64]bool
}

func (l *recordingLedger) AddCommission(_ context.Context, beneficiaryID, sourceUserID int64, amount float64, kind Kind) error {
	if l.fail != nil && l.fail[beneficiaryID] {
		return errors.New("credit failed")
	}
	l.payouts = append(l.payouts, payout{beneficiary: beneficiaryID, source: sourceUserID, amount: amount, kind: kind})
	return nil
}

func ref(id int64) *int64 { return &id }

// buildChain links users so that user 1 is the source and user i+1 is
// the direct referrer of user i. Returns the graph with everyone as a
// plain user.
func buildChain(n int64) *fakeGraph {
	g := newFakeGraph()
	for i := int64(1); i < n; i++ {
		g.add(i, ref(i+1), domain.RoleUser)
	}
	g.add(n, nil, domain.RoleUser)
	return g
}

func fullSettings() domain.ReferralSettings {
	return domain.ReferralSettings{
		Level1Percent:          10,
		Level2Percent:          5,
		Level3Percent:          3,
		Level4Percent:          2,
		Level5Percent:          1,
		AreaManagerPercent:     4,
		RegionalManagerPercent: 6,
	}
}

func countKind(payouts []payout, kind Kind) int {
	n := 0
	for _, p := range payouts {
		if p.kind == kind {
			n++
		}
	}
	return n
}

func findKind(t *testing.T, payouts []payout, kind Kind) payout {
	t.Helper()
	for _, p := range payouts {
		if p.kind == kind {
			return p
		}
	}
	t.Fatalf("no payout of kind %s", kind)
	return payout{}
}

// Worked example: A(4) <- B(3) <- C(2) <- D(1), B is an area manager,
// D buys for 1000. C gets level_1 100, B gets level_2 50 plus area
// bonus 30, A gets level_3 20.
func TestDistribute_Example(t *testing.T) {
	g := newFakeGraph()
	g.add(1, ref(2), domain.RoleUser)        // D
	g.add(2, ref(3), domain.RoleUser)        // C
	g.add(3, ref(4), domain.RoleAreaManager) // B
	g.add(4, nil, domain.RoleUser)           // A

	s := domain.ReferralSettings{
		Level1Percent:      10,
		Level2Percent:      5,
		Level3Percent:      2,
		AreaManagerPercent: 3,
	}

	l := &recordingLedger{}
	e := NewEngine(g, l)
	if err := e.Distribute(context.Background(), 1, 1000, s); err != nil {
		t.Fatalf("distribute: %v", err)
	}

	if len(l.payouts) != 4 {
		t.Fatalf("expected 4 payouts, got %d: %v", len(l.payouts), l.payouts)
	}

	want := []payout{
		{beneficiary: 2, source: 1, amount: 100, kind: KindLevel1},
		{beneficiary: 3, source: 1, amount: 50, kind: KindLevel2},
		{beneficiary: 3, source: 1, amount: 30, kind: KindAreaManagerBonus},
		{beneficiary: 4, source: 1, amount: 20, kind: KindLevel3},
	}
	for i, w := range want {
		if l.payouts[i] != w {
			t.Fatalf("payout %d: got %+v, want %+v", i, l.payouts[i], w)
		}
	}

	var total float64
	for _, p := range l.payouts {
		total += p.amount
	}
	if total != 200 {
		t.Fatalf("expected total 200, got %v", total)
	}
}

func TestDistribute_LevelCapAtFive(t *testing.T) {
	g := buildChain(9) // 8 ancestors above the source

	l := &recordingLedger{}
	e := NewEngine(g, l)
	if err := e.Distribute(context.Background(), 1, 1000, fullSettings()); err != nil {
		t.Fatalf("distribute: %v", err)
	}

	if len(l.payouts) != 5 {
		t.Fatalf("expected 5 level payouts, got %d", len(l.payouts))
	}

	wantAmounts := map[Kind]float64{
		KindLevel1: 100,
		KindLevel2: 50,
		KindLevel3: 30,
		KindLevel4: 20,
		KindLevel5: 10,
	}
	for depth := 1; depth <= 5; depth++ {
		p := findKind(t, l.payouts, LevelKind(depth))
		if p.beneficiary != int64(depth+1) {
			t.Fatalf("level %d paid to %d, want %d", depth, p.beneficiary, depth+1)
		}
		if p.amount != wantAmounts[LevelKind(depth)] {
			t.Fatalf("level %d amount %v, want %v", depth, p.amount, wantAmounts[LevelKind(depth)])
		}
	}
}

func TestDistribute_ClosestAreaManagerWins(t *testing.T) {
	g := buildChain(6)
	g.nodes[3].Role = domain.RoleAreaManager
	g.nodes[5].Role = domain.RoleAreaManager

	l := &recordingLedger{}
	e := NewEngine(g, l)
	if err := e.Distribute(context.Background(), 1, 1000, fullSettings()); err != nil {
		t.Fatalf("distribute: %v", err)
	}

	if n := countKind(l.payouts, KindAreaManagerBonus); n != 1 {
		t.Fatalf("expected exactly 1 area manager bonus, got %d", n)
	}
	p := findKind(t, l.payouts, KindAreaManagerBonus)
	if p.beneficiary != 3 {
		t.Fatalf("bonus paid to %d, want closest manager 3", p.beneficiary)
	}
}

func TestDistribute_ManagerAndLevelAreIndependent(t *testing.T) {
	g := buildChain(6)
	g.nodes[4].Role = domain.RoleRegionalManager // sits at depth 3

	l := &recordingLedger{}
	e := NewEngine(g, l)
	if err := e.Distribute(context.Background(), 1, 1000, fullSettings()); err != nil {
		t.Fatalf("distribute: %v", err)
	}

	lvl := findKind(t, l.payouts, KindLevel3)
	bonus := findKind(t, l.payouts, KindRegionalManagerBonus)
	if lvl.beneficiary != 4 || bonus.beneficiary != 4 {
		t.Fatalf("expected both records on user 4, got level=%d bonus=%d", lvl.beneficiary, bonus.beneficiary)
	}
	if lvl.amount != 30 || bonus.amount != 60 {
		t.Fatalf("unexpected amounts: level=%v bonus=%v", lvl.amount, bonus.amount)
	}
}

func TestDistribute_NoReferrerIsNoop(t *testing.T) {
	g := newFakeGraph()
	g.add(1, nil, domain.RoleUser)

	l := &recordingLedger{}
	e := NewEngine(g, l)
	if err := e.Distribute(context.Background(), 1, 1000, fullSettings()); err != nil {
		t.Fatalf("distribute: %v", err)
	}
	if len(l.payouts) != 0 {
		t.Fatalf("expected no payouts, got %d", len(l.payouts))
	}
}

func TestDistribute_MissingSourceIsNoop(t *testing.T) {
	g := newFakeGraph()

	l := &recordingLedger{}
	e := NewEngine(g, l)
	if err := e.Distribute(context.Background(), 42, 1000, fullSettings()); err != nil {
		t.Fatalf("distribute: %v", err)
	}
	if len(l.payouts) != 0 {
		t.Fatalf("expected no payouts, got %d", len(l.payouts))
	}
}

func TestDistribute_Linearity(t *testing.T) {
	run := func(amount float64) []payout {
		g := buildChain(7)
		g.nodes[3].Role = domain.RoleAreaManager
		g.nodes[6].Role = domain.RoleRegionalManager
		l := &recordingLedger{}
		if err := NewEngine(g, l).Distribute(context.Background(), 1, amount, fullSettings()); err != nil {
			t.Fatalf("distribute: %v", err)
		}
		return l.payouts
	}

	base := run(500)
	doubled := run(1000)

	if len(base) != len(doubled) {
		t.Fatalf("payout counts differ: %d vs %d", len(base), len(doubled))
	}
	for i := range base {
		if doubled[i].amount != 2*base[i].amount {
			t.Fatalf("payout %d: %v is not double of %v", i, doubled[i].amount, base[i].amount)
		}
		if doubled[i].beneficiary != base[i].beneficiary || doubled[i].kind != base[i].kind {
			t.Fatalf("payout %d changed shape: %+v vs %+v", i, doubled[i], base[i])
		}
	}
}

func TestDistribute_ManagerBeyondLevelCap(t *testing.T) {
	g := buildChain(9)
	g.nodes[8].Role = domain.RoleAreaManager // depth 7, beyond the 5-level cap

	l := &recordingLedger{}
	e := NewEngine(g, l)
	if err := e.Distribute(context.Background(), 1, 1000, fullSettings()); err != nil {
		t.Fatalf("distribute: %v", err)
	}

	p := findKind(t, l.payouts, KindAreaManagerBonus)
	if p.beneficiary != 8 {
		t.Fatalf("bonus paid to %d, want deep manager 8", p.beneficiary)
	}
	if p.amount != 40 {
		t.Fatalf("bonus amount %v, want 40", p.amount)
	}
	// The deep manager earns no level commission.
	for _, pay := range l.payouts {
		if pay.beneficiary == 8 && pay.kind != KindAreaManagerBonus {
			t.Fatalf("unexpected payout to deep manager: %+v", pay)
		}
	}
}

func TestDistribute_CycleGuardTerminates(t *testing.T) {
	// 1 -> 2 -> 3 -> 1: corrupted data forms a cycle, and no manager
	// exists so the unbounded phase would never finish without the
	// guard.
	g := newFakeGraph()
	g.add(1, ref(2), domain.RoleUser)
	g.add(2, ref(3), domain.RoleUser)
	g.add(3, ref(1), domain.RoleUser)

	l := &recordingLedger{}
	e := NewEngine(g, l)
	if err := e.Distribute(context.Background(), 1, 1000, fullSettings()); err != nil {
		t.Fatalf("distribute: %v", err)
	}

	// Ancestors 2 and 3 are paid once each before the walk stops.
	if len(l.payouts) != 2 {
		t.Fatalf("expected 2 payouts before cycle stop, got %d: %v", len(l.payouts), l.payouts)
	}
	if l.payouts[0].beneficiary != 2 || l.payouts[1].beneficiary != 3 {
		t.Fatalf("unexpected beneficiaries: %v", l.payouts)
	}
}

func TestDistribute_HopCeiling(t *testing.T) {
	g := buildChain(50)

	l := &recordingLedger{}
	e := NewEngineWithMaxHops(g, l, 10)
	if err := e.Distribute(context.Background(), 1, 1000, fullSettings()); err != nil {
		t.Fatalf("distribute: %v", err)
	}

	// Five level payouts, then the manager search gives up at the
	// ceiling instead of walking all 49 ancestors.
	if len(l.payouts) != 5 {
		t.Fatalf("expected 5 payouts, got %d", len(l.payouts))
	}
}

func TestDistribute_CreditFailureContinuesWalk(t *testing.T) {
	g := buildChain(5)
	l := &recordingLedger{fail: map[int64]bool{2: true}} // depth 1 credit fails

	e := NewEngine(g, l)
	if err := e.Distribute(context.Background(), 1, 1000, fullSettings()); err != nil {
		t.Fatalf("distribute: %v", err)
	}

	if countKind(l.payouts, KindLevel1) != 0 {
		t.Fatalf("level_1 should have failed")
	}
	for depth := 2; depth <= 3; depth++ {
		findKind(t, l.payouts, LevelKind(depth))
	}
}

func TestDistribute_ZeroPercentSkipped(t *testing.T) {
	g := buildChain(4)
	s := domain.ReferralSettings{Level1Percent: 10} // levels 2+ pay nothing

	l := &recordingLedger{}
	if err := NewEngine(g, l).Distribute(context.Background(), 1, 1000, s); err != nil {
		t.Fatalf("distribute: %v", err)
	}

	if len(l.payouts) != 1 {
		t.Fatalf("expected only the level_1 payout, got %d: %v", len(l.payouts), l.payouts)
	}
	if l.payouts[0].kind != KindLevel1 {
		t.Fatalf("unexpected payout: %+v", l.payouts[0])
	}
}

func TestDistribute_SourceLookupErrorPropagates(t *testing.T) {
	g := buildChain(4)
	g.fail[1] = true

	l := &recordingLedger{}
	if err := NewEngine(g, l).Distribute(context.Background(), 1, 1000, fullSettings()); err == nil {
		t.Fatalf("expected error from failing user store")
	}
	if len(l.payouts) != 0 {
		t.Fatalf("expected no payouts, got %d", len(l.payouts))
	}
}
