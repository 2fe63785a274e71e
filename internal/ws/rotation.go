package ws

import (
	"sync"

	"earnclub/internal/domain"
)

// Rotation holds the round-robin state for agent numbers per payment
// provider. State lives in this object, never in package globals, so
// tests and multiple feeds can each have their own.
type Rotation struct {
	mu     sync.Mutex
	agents map[domain.Provider][]domain.Agent
	next   map[domain.Provider]int
}

func NewRotation() *Rotation {
	return &Rotation{
		agents: make(map[domain.Provider][]domain.Agent),
		next:   make(map[domain.Provider]int),
	}
}

// Reload replaces the agent pool, grouping by provider and keeping
// each provider's cursor in range.
func (r *Rotation) Reload(agents []*domain.Agent) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.agents = make(map[domain.Provider][]domain.Agent)
	for _, a := range agents {
		r.agents[a.Provider] = append(r.agents[a.Provider], *a)
	}
	for p, pos := range r.next {
		if n := len(r.agents[p]); n == 0 {
			delete(r.next, p)
		} else if pos >= n {
			r.next[p] = pos % n
		}
	}
}

// Current returns the agent each provider currently points at.
func (r *Rotation) Current() map[domain.Provider]domain.Agent {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make(map[domain.Provider]domain.Agent, len(r.agents))
	for p, list := range r.agents {
		if len(list) == 0 {
			continue
		}
		out[p] = list[r.next[p]]
	}
	return out
}

// CurrentFor returns the agent a provider currently points at.
func (r *Rotation) CurrentFor(p domain.Provider) (domain.Agent, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	list := r.agents[p]
	if len(list) == 0 {
		return domain.Agent{}, false
	}
	return list[r.next[p]], true
}

// Advance moves a provider's cursor to the next agent and returns it.
func (r *Rotation) Advance(p domain.Provider) (domain.Agent, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	list := r.agents[p]
	if len(list) == 0 {
		return domain.Agent{}, false
	}
	r.next[p] = (r.next[p] + 1) % len(list)
	return list[r.next[p]], true
}
