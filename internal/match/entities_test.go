package match

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractYears(t *testing.T) {
	ex := NewExtractor()

	es := ex.Extract("Will Trump win the 2024 presidential election?")
	assert.Equal(t, []string{"2024"}, es.Years)

	es = ex.Extract("Senate control after the 2024 and 2026 races")
	assert.Equal(t, []string{"2024", "2026"}, es.Years)

	// Out-of-range four-digit numbers are not election years.
	es = ex.Extract("Will bitcoin reach 2000 dollars by 2050?")
	assert.Empty(t, es.Years)
}

func TestExtractCountries(t *testing.T) {
	ex := NewExtractor()

	es := ex.Extract("Will the US economy enter recession?")
	assert.Equal(t, []string{"united_states"}, es.Countries)

	es = ex.Extract("Next UK prime minister after the election")
	assert.Equal(t, []string{"united_kingdom"}, es.Countries)

	// Alias matching is word-bounded: "us" inside another word is not a country.
	es = ex.Extract("Will the bus strike end this week?")
	assert.Empty(t, es.Countries)
}

func TestExtractStates(t *testing.T) {
	ex := NewExtractor()

	es := ex.Extract("Who will win the Texas governor race?")
	assert.Equal(t, []string{"texas"}, es.States)

	// Uppercase postal codes count; lowercase prepositions do not.
	es = ex.Extract("Senate race in PA polling update")
	assert.Equal(t, []string{"pennsylvania"}, es.States)

	es = ex.Extract("Will turnout in the midterms rise?")
	assert.Empty(t, es.States)

	// A recognised state implies a US market.
	es = ex.Extract("Arizona Senate winner 2024")
	assert.Contains(t, es.Countries, "united_states")
}

func TestExtractParties(t *testing.T) {
	ex := NewExtractor()

	es := ex.Extract("Will the Democratic nominee win the presidency?")
	assert.Equal(t, []string{"democratic"}, es.Parties)

	es = ex.Extract("GOP Senate majority in 2024?")
	assert.Equal(t, []string{"republican"}, es.Parties)

	es = ex.Extract("Will Democrats or Republicans control the House?")
	assert.Equal(t, []string{"democratic", "republican"}, es.Parties)
}

func TestExtractCandidatesAliases(t *testing.T) {
	ex := NewExtractor()

	es := ex.Extract("Will Donald Trump win the 2024 election?")
	assert.Equal(t, []string{"trump"}, es.Candidates)

	es = ex.Extract("Kamala Harris to win the Democratic nomination")
	assert.Equal(t, []string{"harris"}, es.Candidates)

	// Multiple aliases resolve to their canonical names.
	es = ex.Extract("Biden vs Trump rematch in 2024?")
	assert.Equal(t, []string{"biden", "trump"}, es.Candidates)
}

func TestExtractCandidatesFallback(t *testing.T) {
	ex := NewExtractor()

	// No alias matches, so capitalized tokens survive the deny list.
	es := ex.Extract("Will Fetterman win the Pennsylvania Senate race?")
	assert.Equal(t, []string{"fetterman"}, es.Candidates)

	// State names and question words never become candidates.
	es = ex.Extract("Who will win the Georgia runoff?")
	require.NotContains(t, es.Candidates, "georgia")
	require.NotContains(t, es.Candidates, "who")
}

func TestClassifyQuestion(t *testing.T) {
	ex := NewExtractor()

	cases := []struct {
		question string
		want     QuestionType
	}{
		{"Will Trump win the 2024 election?", QuestionWillXWin},
		{"Who will win the 2024 election?", QuestionWhoWins},
		{"2024 presidential election winner", QuestionXWinner},
		{"Harris to win the nomination", QuestionXWinner},
		// Lowercase subject after "will" stays open.
		{"Will the incumbent win reelection?", QuestionOpen},
		{"Will bitcoin exceed 100k this year?", QuestionOpen},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, ex.Extract(tc.question).QuestionType, tc.question)
	}
}

func TestExtractEmptyAndGarbage(t *testing.T) {
	ex := NewExtractor()

	for _, q := range []string{"", "???", "xyzzy plugh 42"} {
		es := ex.Extract(q)
		assert.Empty(t, es.Years, q)
		assert.Empty(t, es.Countries, q)
		assert.Empty(t, es.States, q)
		assert.Empty(t, es.Parties, q)
		assert.Equal(t, QuestionOpen, es.QuestionType, q)
	}
}

func TestExtractCached(t *testing.T) {
	ex := NewExtractor()
	q := "Will Trump win the 2024 election?"
	first := ex.Extract(q)
	second := ex.Extract(q)
	assert.Equal(t, first, second)
}

func TestContainsWord(t *testing.T) {
	assert.True(t, containsWord("the us economy", "us"))
	assert.False(t, containsWord("the bus arrived", "us"))
	assert.True(t, containsWord("u.s. election markets", "u.s."))
	assert.True(t, containsWord("prime minister vote", "prime minister"))
	assert.False(t, containsWord("represented widely", "rep"))
}
