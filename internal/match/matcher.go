package match

import (
	"math"
	"strings"

	"github.com/younglubz/Predictionarb/internal/domain"
)

// Config tunes the equivalence cascade.
type Config struct {
	// SimilarityThreshold is the minimum weighted similarity for a pair that
	// survived every veto rule.
	SimilarityThreshold float64
	// MaxExpiryGapDays rejects pairs whose expiry dates are further apart
	// than this many days. Pairs where either side has no expiry pass.
	MaxExpiryGapDays int
	// MaxCandidateListSize bounds the disjoint-candidate veto: with many
	// extracted candidates the lists are noise, so the rule only fires when
	// both sides stay under this size.
	MaxCandidateListSize int
}

// Matcher decides whether two markets from different venues describe the same
// real-world event. It runs a fixed cascade of veto rules over extracted
// entities and only falls through to similarity scoring when no rule fires.
// Create one Matcher per detection cycle: its extraction and similarity
// caches are scoped to a single market snapshot.
type Matcher struct {
	cfg       Config
	extractor *Extractor
	scorer    *Scorer
	rules     []rule
}

type pairEntities struct {
	a, b domain.Market
	ea   EntitySet
	eb   EntitySet
}

type rule struct {
	reason  domain.RejectReason
	rejects func(Config, pairEntities) bool
}

func New(cfg Config) *Matcher {
	ex := NewExtractor()
	m := &Matcher{
		cfg:       cfg,
		extractor: ex,
		scorer:    NewScorer(ex),
	}
	m.rules = []rule{
		{domain.RejectSameVenue, rejectSameVenue},
		{domain.RejectExpiryGap, rejectExpiryGap},
		{domain.RejectCountries, rejectDisjoint(func(p pairEntities) ([]string, []string) { return p.ea.Countries, p.eb.Countries })},
		{domain.RejectYears, rejectDisjoint(func(p pairEntities) ([]string, []string) { return p.ea.Years, p.eb.Years })},
		{domain.RejectStates, rejectDisjoint(func(p pairEntities) ([]string, []string) { return p.ea.States, p.eb.States })},
		{domain.RejectParties, rejectDisjoint(func(p pairEntities) ([]string, []string) { return p.ea.Parties, p.eb.Parties })},
		{domain.RejectPositions, rejectDisjoint(func(p pairEntities) ([]string, []string) { return p.ea.Positions, p.eb.Positions })},
		{domain.RejectQuestionTypes, rejectQuestionTypes},
		{domain.RejectCandidates, rejectCandidates},
	}
	return m
}

// Evaluate runs the cascade on a pair of markets. Rules are symmetric, so
// Evaluate(a, b) and Evaluate(b, a) always agree.
func (m *Matcher) Evaluate(a, b domain.Market) domain.MatchResult {
	res := domain.MatchResult{MarketA: a, MarketB: b}

	if !a.Tradable() || !b.Tradable() {
		res.Reason = domain.RejectUntradableMarket
		return res
	}

	p := pairEntities{
		a: a, b: b,
		ea: m.extractor.Extract(a.Question),
		eb: m.extractor.Extract(b.Question),
	}
	for _, r := range m.rules {
		if r.rejects(m.cfg, p) {
			res.Reason = r.reason
			return res
		}
	}

	score := m.scorer.Score(a.Question, b.Question)
	if score < m.cfg.SimilarityThreshold {
		res.Confidence = score
		res.Reason = domain.RejectBelowThreshold
		return res
	}

	res.Matched = true
	res.Confidence = score
	return res
}

// Similarity exposes the cycle-scoped similarity score for callers that need
// a confidence value outside the cascade, such as the classic strategy's
// complementary path.
func (m *Matcher) Similarity(q1, q2 string) float64 {
	return m.scorer.Score(q1, q2)
}

// Entities exposes the cycle-scoped entity extraction.
func (m *Matcher) Entities(question string) EntitySet {
	return m.extractor.Extract(question)
}

func rejectSameVenue(_ Config, p pairEntities) bool {
	return equalFoldTrim(p.a.Venue, p.b.Venue)
}

func rejectExpiryGap(cfg Config, p pairEntities) bool {
	if p.a.ExpiresAt == nil || p.b.ExpiresAt == nil {
		return false
	}
	gap := math.Abs(p.a.ExpiresAt.Sub(*p.b.ExpiresAt).Hours()) / 24
	return gap > float64(cfg.MaxExpiryGapDays)
}

// rejectDisjoint builds the shared veto shape: fire only when both sides
// extracted the category and the value sets are disjoint.
func rejectDisjoint(get func(pairEntities) ([]string, []string)) func(Config, pairEntities) bool {
	return func(_ Config, p pairEntities) bool {
		va, vb := get(p)
		return len(va) > 0 && len(vb) > 0 && !sharesAny(va, vb)
	}
}

// rejectQuestionTypes vetoes only the open-vs-will_x_win mismatch, in either
// direction. "Who will win X" against "X winner" phrasing is a wording
// difference, not an event difference.
func rejectQuestionTypes(_ Config, p pairEntities) bool {
	ta, tb := p.ea.QuestionType, p.eb.QuestionType
	return (ta == QuestionOpen && tb == QuestionWillXWin) ||
		(ta == QuestionWillXWin && tb == QuestionOpen)
}

func rejectCandidates(cfg Config, p pairEntities) bool {
	ca, cb := p.ea.Candidates, p.eb.Candidates
	if len(ca) == 0 || len(cb) == 0 {
		return false
	}
	if len(ca) >= cfg.MaxCandidateListSize || len(cb) >= cfg.MaxCandidateListSize {
		return false
	}
	return !sharesAny(ca, cb)
}

func equalFoldTrim(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}
