package ws

import (
	"testing"

	"earnclub/internal/domain"
)

func agentsFixture() []*domain.Agent {
	return []*domain.Agent{
		{ID: 1, Provider: domain.ProviderBkash, Number: "01711111111"},
		{ID: 2, Provider: domain.ProviderBkash, Number: "01722222222"},
		{ID: 3, Provider: domain.ProviderBkash, Number: "01733333333"},
		{ID: 4, Provider: domain.ProviderNagad, Number: "01844444444"},
	}
}

func TestRotation_CurrentAfterReload(t *testing.T) {
	r := NewRotation()
	r.Reload(agentsFixture())

	current := r.Current()
	if len(current) != 2 {
		t.Fatalf("expected 2 providers, got %d", len(current))
	}
	if current[domain.ProviderBkash].Number != "01711111111" {
		t.Fatalf("unexpected bkash agent: %s", current[domain.ProviderBkash].Number)
	}
	if current[domain.ProviderNagad].Number != "01844444444" {
		t.Fatalf("unexpected nagad agent: %s", current[domain.ProviderNagad].Number)
	}
}

func TestRotation_AdvanceWrapsAround(t *testing.T) {
	r := NewRotation()
	r.Reload(agentsFixture())

	want := []string{"01722222222", "01733333333", "01711111111", "01722222222"}
	for i, w := range want {
		a, ok := r.Advance(domain.ProviderBkash)
		if !ok {
			t.Fatalf("advance %d failed", i)
		}
		if a.Number != w {
			t.Fatalf("advance %d: got %s, want %s", i, a.Number, w)
		}
	}

	// Single-agent provider keeps returning the same number.
	a, ok := r.Advance(domain.ProviderNagad)
	if !ok || a.Number != "01844444444" {
		t.Fatalf("nagad advance: got %v %v", a.Number, ok)
	}
}

func TestRotation_AdvanceUnknownProvider(t *testing.T) {
	r := NewRotation()
	r.Reload(agentsFixture())

	if _, ok := r.Advance(domain.ProviderBinance); ok {
		t.Fatalf("expected no agent for empty provider")
	}
}

func TestRotation_ReloadClampsCursor(t *testing.T) {
	r := NewRotation()
	r.Reload(agentsFixture())

	// Move the bkash cursor to the last slot, then shrink the pool.
	r.Advance(domain.ProviderBkash)
	r.Advance(domain.ProviderBkash)

	r.Reload([]*domain.Agent{
		{ID: 1, Provider: domain.ProviderBkash, Number: "01711111111"},
	})

	a, ok := r.CurrentFor(domain.ProviderBkash)
	if !ok || a.Number != "01711111111" {
		t.Fatalf("cursor not clamped: got %v %v", a.Number, ok)
	}
}
