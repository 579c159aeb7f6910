package match

import (
	"regexp"
	"sort"
	"strings"
	"sync"
	"unicode"
)

// QuestionType classifies the grammatical form of a market question.
type QuestionType string

const (
	QuestionOpen      QuestionType = ""
	QuestionWillXWin  QuestionType = "will_x_win"
	QuestionWhoWins   QuestionType = "who_will_win"
	QuestionXWinner   QuestionType = "x_winner"
)

// EntitySet holds the political entities extracted from one question. All
// values are lowercase canonical forms; slices are sorted and de-duplicated.
type EntitySet struct {
	Years        []string
	States       []string
	Parties      []string
	Positions    []string
	Countries    []string
	Candidates   []string
	QuestionType QuestionType
}

var yearPattern = regexp.MustCompile(`\b(20\d{2})\b`)

// Extractor extracts EntitySets from market questions, caching results by
// question text. One Extractor is created per detection cycle so the cache
// never outlives the market snapshot it was built from.
type Extractor struct {
	mu    sync.Mutex
	cache map[string]EntitySet
}

func NewExtractor() *Extractor {
	return &Extractor{cache: make(map[string]EntitySet)}
}

// Extract parses question text into an EntitySet. Extraction never fails;
// text with no recognisable entities yields an empty set.
func (e *Extractor) Extract(question string) EntitySet {
	e.mu.Lock()
	if es, ok := e.cache[question]; ok {
		e.mu.Unlock()
		return es
	}
	e.mu.Unlock()

	es := extractEntities(question)

	e.mu.Lock()
	e.cache[question] = es
	e.mu.Unlock()
	return es
}

func extractEntities(question string) EntitySet {
	lower := strings.ToLower(question)

	es := EntitySet{
		Years:        extractYears(lower),
		Countries:    extractCountries(lower),
		States:       extractStates(question, lower),
		Parties:      extractParties(lower),
		Positions:    extractPositions(lower),
		QuestionType: classifyQuestion(question, lower),
	}
	es.Candidates = extractCandidates(question, lower, es.States)

	// A recognised US state implies a US market even when the country is
	// never named.
	if len(es.States) > 0 && !containsString(es.Countries, "united_states") {
		es.Countries = append(es.Countries, "united_states")
		sort.Strings(es.Countries)
	}
	return es
}

func extractYears(lower string) []string {
	seen := map[string]bool{}
	var years []string
	for _, m := range yearPattern.FindAllString(lower, -1) {
		if m >= "2020" && m <= "2039" && !seen[m] {
			seen[m] = true
			years = append(years, m)
		}
	}
	sort.Strings(years)
	return years
}

func extractCountries(lower string) []string {
	var out []string
	for canonical, aliases := range countryAliases {
		for _, alias := range aliases {
			if containsWord(lower, alias) {
				out = append(out, canonical)
				break
			}
		}
	}
	sort.Strings(out)
	return out
}

// extractStates runs two passes: abbreviation tokens against the original
// casing, then full state names against the lowercased text. Two-letter
// postal codes only count when the source token is fully uppercase, which
// keeps "in Indiana" from reading the preposition as a state.
func extractStates(original, lower string) []string {
	seen := map[string]bool{}
	for _, tok := range strings.Fields(original) {
		clean := stripNonWord(tok)
		if clean == "" {
			continue
		}
		full, ok := stateAbbreviations[strings.ToLower(clean)]
		if !ok {
			continue
		}
		if len(clean) == 2 && clean != strings.ToUpper(clean) {
			continue
		}
		seen[full] = true
	}
	for name := range stateNames {
		if containsWord(lower, name) {
			seen[name] = true
		}
	}
	return sortedKeys(seen)
}

func extractParties(lower string) []string {
	var out []string
	for _, kw := range democraticKeywords {
		if containsWord(lower, kw) {
			out = append(out, "democratic")
			break
		}
	}
	for _, kw := range republicanKeywords {
		if containsWord(lower, kw) {
			out = append(out, "republican")
			break
		}
	}
	sort.Strings(out)
	return out
}

func extractPositions(lower string) []string {
	var out []string
	for _, kw := range positionKeywords {
		if containsWord(lower, kw) {
			out = append(out, kw)
		}
	}
	return out
}

// extractCandidates resolves known aliases first; the capitalized-word
// fallback only runs when no alias hit, so alias-covered questions never
// pick up stray surnames.
func extractCandidates(original, lower string, states []string) []string {
	seen := map[string]bool{}
	for canonical, aliases := range candidateAliases {
		for _, alias := range aliases {
			if containsWord(lower, alias) {
				seen[canonical] = true
				break
			}
		}
	}
	if len(seen) > 0 {
		return sortedKeys(seen)
	}

	stateSet := map[string]bool{}
	for _, s := range states {
		stateSet[s] = true
	}
	for _, tok := range strings.Fields(original) {
		clean := stripNonWord(tok)
		if len(clean) <= 2 {
			continue
		}
		r := []rune(clean)
		if !unicode.IsUpper(r[0]) {
			continue
		}
		lc := strings.ToLower(clean)
		if candidateDenyList[lc] || stateSet[lc] || stateNames[lc] {
			continue
		}
		seen[lc] = true
	}
	return sortedKeys(seen)
}

// classifyQuestion tags the question form, most specific first. will_x_win
// requires a capitalized subject right after the leading "will"; a lowercase
// subject stays an open question.
func classifyQuestion(original, lower string) QuestionType {
	if strings.HasPrefix(lower, "will ") && strings.Contains(lower, " win") {
		fields := strings.Fields(original)
		if len(fields) > 1 {
			r := []rune(stripNonWord(fields[1]))
			if len(r) > 0 && unicode.IsUpper(r[0]) {
				return QuestionWillXWin
			}
		}
	}
	if strings.HasPrefix(lower, "who will") || strings.Contains(lower, "who will win") {
		return QuestionWhoWins
	}
	if strings.Contains(lower, " to win") || strings.Contains(lower, "winner") {
		return QuestionXWinner
	}
	return QuestionOpen
}

// containsWord reports whether phrase occurs in text bounded by non-word
// characters on both sides. It handles multi-word and dotted phrases that a
// \b regexp would mishandle.
func containsWord(text, phrase string) bool {
	for start := 0; ; {
		i := strings.Index(text[start:], phrase)
		if i < 0 {
			return false
		}
		i += start
		end := i + len(phrase)
		beforeOK := i == 0 || !isWordByte(text[i-1])
		afterOK := end == len(text) || !isWordByte(text[end])
		if beforeOK && afterOK {
			return true
		}
		start = i + 1
	}
}

func isWordByte(b byte) bool {
	return b == '_' ||
		(b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') || (b >= '0' && b <= '9')
}

func stripNonWord(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' {
			return r
		}
		return -1
	}, s)
}

func sortedKeys(m map[string]bool) []string {
	if len(m) == 0 {
		return nil
	}
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func containsString(xs []string, s string) bool {
	for _, x := range xs {
		if x == s {
			return true
		}
	}
	return false
}

func sharesAny(a, b []string) bool {
	set := map[string]bool{}
	for _, x := range a {
		set[x] = true
	}
	for _, y := range b {
		if set[y] {
			return true
		}
	}
	return false
}
