package match

import (
	"sort"
	"strings"
	"sync"

	"github.com/pmezard/go-difflib/difflib"
)

// Similarity weights. Entity agreement dominates, raw character similarity
// only breaks ties between otherwise comparable questions.
const (
	entityWeight   = 0.50
	termWeight     = 0.35
	sequenceWeight = 0.15
)

// Scorer computes the weighted similarity between two market questions.
// Scores are cached by unordered question pair, so Score(a, b) == Score(b, a)
// holds by construction. Like the Extractor, a Scorer lives for one detection
// cycle.
type Scorer struct {
	extractor *Extractor

	mu    sync.Mutex
	cache map[[2]string]float64
}

func NewScorer(extractor *Extractor) *Scorer {
	return &Scorer{
		extractor: extractor,
		cache:     make(map[[2]string]float64),
	}
}

// Score returns a similarity in [0, 1] combining entity overlap, expanded
// keyword overlap, and character sequence similarity.
func (s *Scorer) Score(q1, q2 string) float64 {
	key := pairKey(q1, q2)

	s.mu.Lock()
	if v, ok := s.cache[key]; ok {
		s.mu.Unlock()
		return v
	}
	s.mu.Unlock()

	e1 := s.extractor.Extract(q1)
	e2 := s.extractor.Extract(q2)

	score := entityWeight*entityOverlap(e1, e2) +
		termWeight*termOverlap(q1, q2) +
		sequenceWeight*sequenceRatio(q1, q2)
	score = clamp01(score)

	s.mu.Lock()
	s.cache[key] = score
	s.mu.Unlock()
	return score
}

func pairKey(q1, q2 string) [2]string {
	if q1 <= q2 {
		return [2]string{q1, q2}
	}
	return [2]string{q2, q1}
}

// entityOverlap is the fraction of entity categories, among those populated
// on both sides, that share at least one value. Question types count as a
// category when both questions were classified.
func entityOverlap(a, b EntitySet) float64 {
	total, matches := 0, 0

	cats := [][2][]string{
		{a.Years, b.Years},
		{a.States, b.States},
		{a.Parties, b.Parties},
		{a.Positions, b.Positions},
		{a.Countries, b.Countries},
		{a.Candidates, b.Candidates},
	}
	for _, c := range cats {
		if len(c[0]) > 0 && len(c[1]) > 0 {
			total++
			if sharesAny(c[0], c[1]) {
				matches++
			}
		}
	}
	if a.QuestionType != QuestionOpen && b.QuestionType != QuestionOpen {
		total++
		if a.QuestionType == b.QuestionType {
			matches++
		}
	}

	if total == 0 {
		return 0
	}
	return float64(matches) / float64(total)
}

// termOverlap is the Jaccard index of the two questions' synonym-expanded
// keyword sets.
func termOverlap(q1, q2 string) float64 {
	t1 := keyTerms(q1)
	t2 := keyTerms(q2)
	if len(t1) == 0 || len(t2) == 0 {
		return 0
	}

	inter, union := 0, len(t2)
	for w := range t1 {
		if t2[w] {
			inter++
		} else {
			union++
		}
	}
	return float64(inter) / float64(union)
}

// keyTerms tokenizes a question, drops stop words and short tokens, and
// expands each keyword through the synonym table in both directions.
func keyTerms(question string) map[string]bool {
	cleaned := strings.Map(func(r rune) rune {
		if r >= 'a' && r <= 'z' || r >= '0' && r <= '9' {
			return r
		}
		if r >= 'A' && r <= 'Z' {
			return r + ('a' - 'A')
		}
		return ' '
	}, question)

	terms := map[string]bool{}
	for _, w := range strings.Fields(cleaned) {
		if len(w) <= 2 || stopWords[w] {
			continue
		}
		terms[w] = true
		for _, syn := range synonyms[w] {
			terms[syn] = true
		}
		for key, syns := range synonyms {
			for _, syn := range syns {
				if syn == w {
					terms[key] = true
					for _, sibling := range syns {
						terms[sibling] = true
					}
					break
				}
			}
		}
	}
	return terms
}

// sequenceRatio is the classic difflib ratio over lowercase characters.
func sequenceRatio(q1, q2 string) float64 {
	m := difflib.NewMatcher(
		strings.Split(strings.ToLower(q1), ""),
		strings.Split(strings.ToLower(q2), ""),
	)
	return m.Ratio()
}

// SortedTerms returns the expanded keyword set of a question as a sorted
// slice, used by tests and diagnostics.
func SortedTerms(question string) []string {
	terms := keyTerms(question)
	out := make([]string, 0, len(terms))
	for t := range terms {
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
