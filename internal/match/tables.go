package match

// Static alias and synonym tables used by entity extraction and keyword
// expansion. These are plain declarative data; all matching logic lives in
// entities.go and similarity.go.

// synonyms maps a content word to surface forms that should be treated as the
// same keyword during term-overlap scoring. Lookup is bidirectional: a word
// that appears in a value list is also expanded to the key and its siblings.
var synonyms = map[string][]string{
	// Elections
	"nomination": {"primary", "primary winner", "nominee", "nominate"},
	"primary":    {"nomination", "primary election", "primary winner"},
	"election":   {"race", "contest"},
	"winner":     {"who will win", "victor", "victorious", "prevail"},

	// Political offices
	"senate":    {"senator", "senatorial"},
	"house":     {"representative", "congressman", "congresswoman"},
	"governor":  {"gubernatorial"},
	"president": {"presidential", "potus"},

	// Parties
	"democratic": {"democrat", "dem", "d"},
	"republican": {"gop", "rep", "r"},

	// Common verbs
	"win":  {"winner", "victory", "prevail", "triumph"},
	"lose": {"loser", "defeat", "beaten"},

	// Question forms
	"who will": {"which", "what", "winner"},
	"will":     {"going to", "gonna"},
}

// stopWords are dropped before keyword comparison.
var stopWords = map[string]bool{
	"the": true, "a": true, "an": true, "will": true, "be": true, "is": true,
	"are": true, "in": true, "of": true, "to": true, "for": true, "on": true,
	"at": true, "by": true, "with": true, "from": true, "as": true,
	"into": true, "during": true, "including": true, "who": true,
	"what": true, "which": true, "when": true, "where": true, "how": true,
	"why": true,
}

// candidateAliases maps a canonical candidate name to the surface forms that
// resolve to it. Alias matching is the preferred source of truth; the
// capitalized-word fallback only runs when no alias matched.
var candidateAliases = map[string][]string{
	"biden":     {"joe biden", "joseph biden", "biden", "joe", "joseph r biden"},
	"trump":     {"donald trump", "trump", "donald", "donald j trump"},
	"harris":    {"kamala harris", "harris", "kamala"},
	"obama":     {"barack obama", "obama", "barack"},
	"clinton":   {"hillary clinton", "clinton", "hillary"},
	"sanders":   {"bernie sanders", "sanders", "bernie", "bernard sanders"},
	"warren":    {"elizabeth warren", "warren", "elizabeth"},
	"desantis":  {"ron desantis", "desantis", "ron", "ronald desantis"},
	"pence":     {"mike pence", "pence", "mike", "michael pence"},
	"newsom":    {"gavin newsom", "newsom", "gavin"},
	"whitmer":   {"gretchen whitmer", "whitmer", "gretchen"},
	"booker":    {"cory booker", "booker", "cory"},
	"buttigieg": {"pete buttigieg", "buttigieg", "pete", "peter buttigieg"},
	"klobuchar": {"amy klobuchar", "klobuchar", "amy"},
	"cruz":      {"ted cruz", "cruz", "ted", "rafael cruz"},
	"rubio":     {"marco rubio", "rubio", "marco"},
	"haley":     {"nikki haley", "haley", "nikki"},
	"scott":     {"tim scott", "scott", "tim"},
	"ramaswamy": {"vivek ramaswamy", "ramaswamy", "vivek"},
	"vance":     {"jd vance", "vance", "j d vance", "james vance"},
	"walz":      {"tim walz", "walz", "tim"},
	"abbott":    {"greg abbott", "abbott", "greg"},
	"youngkin":  {"glenn youngkin", "youngkin", "glenn"},
}

// candidateParty maps canonical candidate names to their party, used by the
// combinatorial strategy's logical-consistency check.
var candidateParty = map[string]string{
	"biden": "democratic", "harris": "democratic", "newsom": "democratic",
	"whitmer": "democratic", "buttigieg": "democratic", "walz": "democratic",
	"booker": "democratic", "klobuchar": "democratic", "warren": "democratic",
	"sanders": "democratic",
	"trump":   "republican", "desantis": "republican", "haley": "republican",
	"ramaswamy": "republican", "pence": "republican", "cruz": "republican",
	"rubio": "republican", "vance": "republican", "abbott": "republican",
	"youngkin": "republican",
}

// CandidateParty returns the party of a canonical candidate name, if known.
func CandidateParty(candidate string) (string, bool) {
	p, ok := candidateParty[candidate]
	return p, ok
}

// stateAbbreviations maps postal codes and common short forms to full state
// names. Two-letter codes only match when the token is uppercase in the
// source text ("IN" the state vs "in" the preposition); longer forms match
// case-insensitively.
var stateAbbreviations = map[string]string{
	"al": "alabama", "ak": "alaska", "az": "arizona", "ar": "arkansas",
	"ca": "california", "co": "colorado", "ct": "connecticut", "de": "delaware",
	"fl": "florida", "ga": "georgia", "hi": "hawaii", "id": "idaho",
	"il": "illinois", "in": "indiana", "ia": "iowa", "ks": "kansas",
	"ky": "kentucky", "la": "louisiana", "me": "maine", "md": "maryland",
	"ma": "massachusetts", "mi": "michigan", "mn": "minnesota", "ms": "mississippi",
	"mo": "missouri", "mt": "montana", "ne": "nebraska", "nv": "nevada",
	"nh": "new hampshire", "nj": "new jersey", "nm": "new mexico", "ny": "new york",
	"nc": "north carolina", "nd": "north dakota", "oh": "ohio", "ok": "oklahoma",
	"or": "oregon", "pa": "pennsylvania", "ri": "rhode island", "sc": "south carolina",
	"sd": "south dakota", "tn": "tennessee", "tx": "texas", "ut": "utah",
	"vt": "vermont", "va": "virginia", "wa": "washington", "wv": "west virginia",
	"wi": "wisconsin", "wy": "wyoming", "dc": "district of columbia",

	"calif": "california", "mass": "massachusetts", "penn": "pennsylvania",
	"wash": "washington",
}

// stateNames is the set of full state names, derived once from the
// abbreviation table.
var stateNames = func() map[string]bool {
	names := make(map[string]bool, len(stateAbbreviations))
	for _, full := range stateAbbreviations {
		names[full] = true
	}
	return names
}()

// countryAliases maps a canonical country key to its surface forms.
// Disjoint country sets are the single strongest rejection signal in the
// equivalence cascade.
var countryAliases = map[string][]string{
	"united_states":  {"united states", "usa", "us", "america", "american", "u.s.", "u.s.a."},
	"united_kingdom": {"united kingdom", "uk", "britain", "british", "great britain", "u.k."},
	"canada":         {"canada", "canadian"},
	"australia":      {"australia", "australian", "aussie"},
	"brazil":         {"brazil", "brazilian", "brasil"},
	"mexico":         {"mexico", "mexican"},
	"argentina":      {"argentina", "argentinian"},
	"france":         {"france", "french"},
	"germany":        {"germany", "german", "deutschland"},
	"italy":          {"italy", "italian"},
	"spain":          {"spain", "spanish"},
	"portugal":       {"portugal", "portuguese"},
	"russia":         {"russia", "russian"},
	"china":          {"china", "chinese"},
	"japan":          {"japan", "japanese"},
	"south_korea":    {"south korea", "korea", "korean", "s. korea"},
	"india":          {"india", "indian"},
	"turkey":         {"turkey", "turkish"},
	"israel":         {"israel", "israeli"},
	"saudi_arabia":   {"saudi arabia", "saudi", "ksa"},
	"uae":            {"uae", "united arab emirates", "dubai", "emirates"},
	"south_africa":   {"south africa", "south african"},
	"nigeria":        {"nigeria", "nigerian"},
	"egypt":          {"egypt", "egyptian"},
}

// positionKeywords are the government offices recognised by extraction.
var positionKeywords = []string{
	"senate", "senator", "house", "representative", "governor",
	"president", "presidential", "congressional", "prime minister",
	"chancellor", "mayor",
}

// democraticKeywords / republicanKeywords trigger party extraction.
var (
	democraticKeywords = []string{"democratic", "democrat", "dem", "dems"}
	republicanKeywords = []string{"republican", "gop", "rep"}
)

// candidateDenyList contains capitalized words that are never candidate
// names, used by the fallback extractor when no alias matched.
var candidateDenyList = map[string]bool{
	"who": true, "will": true, "the": true, "what": true, "when": true,
	"where": true, "how": true, "why": true, "which": true, "would": true,
	"should": true, "could": true, "may": true, "might": true, "can": true,
	"democratic": true, "republican": true, "senate": true, "house": true,
	"president": true, "presidential": true, "governor": true,
	"gubernatorial": true, "election": true, "primary": true,
	"nomination": true, "winner": true, "candidate": true, "race": true,
	"contest": true, "party": true, "win": true, "wins": true,
}
