package match

import (
	"sort"
	"strings"

	"github.com/younglubz/Predictionarb/internal/domain"
)

// minSharedKeywords is the cheap pre-filter bar: cross-venue pairs sharing
// fewer meaningful words never reach the full cascade.
const minSharedKeywords = 2

// FindPairs searches a market snapshot for equivalent cross-venue pairs. It
// groups markets by venue, pre-filters candidate pairs on shared keywords,
// then runs the full cascade on the survivors. Every cascade evaluation is
// returned alongside the confirmed pairs so callers can log rejection
// reasons. Each market identity pair is evaluated at most once regardless of
// how many snapshot rows carry it.
func (m *Matcher) FindPairs(markets []domain.Market) ([]domain.Pair, []domain.MatchResult) {
	byVenue := map[string][]domain.Market{}
	for _, mk := range markets {
		v := strings.ToLower(strings.TrimSpace(mk.Venue))
		byVenue[v] = append(byVenue[v], mk)
	}
	venues := make([]string, 0, len(byVenue))
	for v := range byVenue {
		venues = append(venues, v)
	}
	sort.Strings(venues)

	var (
		pairs   []domain.Pair
		results []domain.MatchResult
		seen    = map[string]bool{}
	)
	for i := 0; i < len(venues); i++ {
		for j := i + 1; j < len(venues); j++ {
			for _, a := range byVenue[venues[i]] {
				for _, b := range byVenue[venues[j]] {
					key := identityPairKey(a, b)
					if seen[key] {
						continue
					}
					seen[key] = true

					if !quickFilter(a.Question, b.Question) {
						continue
					}
					res := m.Evaluate(a, b)
					results = append(results, res)
					if res.Matched {
						pairs = append(pairs, domain.Pair{A: a, B: b, Confidence: res.Confidence})
					}
				}
			}
		}
	}
	return pairs, results
}

// quickFilter requires at least minSharedKeywords shared words longer than
// three characters after stop-word removal.
func quickFilter(q1, q2 string) bool {
	w1 := filterWords(q1)
	if len(w1) == 0 {
		return false
	}
	shared := 0
	for w := range filterWords(q2) {
		if w1[w] {
			shared++
			if shared >= minSharedKeywords {
				return true
			}
		}
	}
	return false
}

func filterWords(q string) map[string]bool {
	out := map[string]bool{}
	for _, w := range strings.Fields(strings.ToLower(q)) {
		w = stripNonWord(w)
		if len(w) > 3 && !stopWords[w] {
			out[w] = true
		}
	}
	return out
}

func identityPairKey(a, b domain.Market) string {
	ka := strings.ToLower(a.Venue) + ":" + a.MarketID
	kb := strings.ToLower(b.Venue) + ":" + b.MarketID
	if ka > kb {
		ka, kb = kb, ka
	}
	return ka + "|" + kb
}
