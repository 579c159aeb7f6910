package pipeline

import (
	"sync"

	"github.com/younglubz/Predictionarb/internal/domain"
)

// State holds the latest completed detection cycle for the API layer. The
// scanner swaps the whole snapshot atomically at the end of every cycle, so
// readers always see markets, pairs and opportunities from the same run.
type State struct {
	mu      sync.RWMutex
	markets []domain.Market
	pairs   []domain.Pair
	opps    []domain.Opportunity
	lastRun domain.RunSummary
	hasRun  bool
}

func NewState() *State {
	return &State{}
}

// Update replaces the snapshot with the results of one completed cycle.
func (s *State) Update(run domain.RunSummary, markets []domain.Market, pairs []domain.Pair, opps []domain.Opportunity) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.markets = markets
	s.pairs = pairs
	s.opps = opps
	s.lastRun = run
	s.hasRun = true
}

// Markets returns the market snapshot of the latest cycle.
func (s *State) Markets() []domain.Market {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Market, len(s.markets))
	copy(out, s.markets)
	return out
}

// Pairs returns the confirmed equivalent pairs of the latest cycle.
func (s *State) Pairs() []domain.Pair {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Pair, len(s.pairs))
	copy(out, s.pairs)
	return out
}

// Opportunities returns the latest cycle's opportunities, quality-sorted.
func (s *State) Opportunities() []domain.Opportunity {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Opportunity, len(s.opps))
	copy(out, s.opps)
	return out
}

// LastRun returns the latest run summary; ok is false before the first cycle
// completes.
func (s *State) LastRun() (domain.RunSummary, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastRun, s.hasRun
}
