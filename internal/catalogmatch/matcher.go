// Package catalogmatch maps free-text product names from delivery platforms
// onto catalog combos by keyword scoring.
package catalogmatch

import (
	"strings"
	"unicode"

	"github.com/google/uuid"
)

// MatchStatus represents the status of a match operation
type MatchStatus int

const (
	Matched MatchStatus = iota
	Ambiguous
	Unmatched
)

func (s MatchStatus) String() string {
	switch s {
	case Matched:
		return "Matched"
	case Ambiguous:
		return "Ambiguous"
	case Unmatched:
		return "Unmatched"
	default:
		return "Unknown"
	}
}

// Item is a catalog combo with matching metadata.
type Item struct {
	ID       uuid.UUID
	Code     string // external code registered on the platform, usually the combo id
	Name     string
	Keywords string // CSV like "pizza,grande,calabresa"; derived from Name when empty
}

// MatchResult contains the result of a matching operation
type MatchResult struct {
	Status     MatchStatus
	Item       *Item  // when Matched
	Candidates []Item // when Ambiguous
}

// Matcher performs code and keyword based combo matching.
type Matcher struct {
	items          []Item
	itemKeywordMap [][]string
	byCode         map[string]int
}

const (
	variantWeight = 5
	regularWeight = 1
)

// Size words are hard filters: "pizza grande" never matches a "broto" combo.
var variantKeywords = map[string]bool{
	"broto":   true,
	"pequena": true,
	"media":   true,
	"grande":  true,
	"familia": true,
	"gigante": true,
}

// Words that carry no product identity.
var stopwords = map[string]bool{
	"de": true, "da": true, "do": true, "com": true, "e": true, "a": true, "o": true,
}

var accentFolder = strings.NewReplacer(
	"á", "a", "à", "a", "â", "a", "ã", "a",
	"é", "e", "ê", "e",
	"í", "i",
	"ó", "o", "ô", "o", "õ", "o",
	"ú", "u", "ü", "u",
	"ç", "c",
)

// New creates a new Matcher with pre-tokenized keywords
func New(items []Item) *Matcher {
	m := &Matcher{
		items:          items,
		itemKeywordMap: make([][]string, len(items)),
		byCode:         make(map[string]int),
	}

	for i, item := range items {
		if item.Code != "" {
			m.byCode[strings.ToLower(item.Code)] = i
		}

		source := item.Keywords
		if source == "" {
			source = strings.ReplaceAll(item.Name, " ", ",")
		}
		parts := strings.Split(source, ",")
		keywords := make([]string, 0, len(parts))
		for _, part := range parts {
			normalized := normalize(part)
			if normalized != "" && !stopwords[normalized] {
				keywords = append(keywords, normalized)
			}
		}
		m.itemKeywordMap[i] = keywords
	}

	return m
}

// Match resolves an external item. A known code always wins; otherwise the
// name is scored against every combo's keywords.
func (m *Matcher) Match(code, name string) MatchResult {
	if code != "" {
		if i, ok := m.byCode[strings.ToLower(code)]; ok {
			return MatchResult{Status: Matched, Item: &m.items[i]}
		}
	}

	inputTokens := make(map[string]bool)
	for _, tok := range tokenize(normalize(name)) {
		if !stopwords[tok] {
			inputTokens[tok] = true
		}
	}

	inputVariants := make(map[string]bool)
	for tok := range inputTokens {
		if variantKeywords[tok] {
			inputVariants[tok] = true
		}
	}

	type scoredItem struct {
		item  Item
		score int
	}

	var scored []scoredItem

	for i, item := range m.items {
		keywords := m.itemKeywordMap[i]

		// Hard filter: if input contains size keywords, candidate MUST have them
		if len(inputVariants) > 0 && !containsAll(keywords, inputVariants) {
			continue
		}

		score := 0
		for _, kw := range keywords {
			if inputTokens[kw] {
				if variantKeywords[kw] {
					score += variantWeight
				} else {
					score += regularWeight
				}
			}
		}

		if score > 0 {
			scored = append(scored, scoredItem{item: item, score: score})
		}
	}

	if len(scored) == 0 {
		return MatchResult{Status: Unmatched}
	}

	maxScore := 0
	for _, s := range scored {
		if s.score > maxScore {
			maxScore = s.score
		}
	}

	var topScorers []Item
	for _, s := range scored {
		if s.score == maxScore {
			topScorers = append(topScorers, s.item)
		}
	}

	if len(topScorers) == 1 {
		return MatchResult{
			Status: Matched,
			Item:   &topScorers[0],
		}
	}

	return MatchResult{
		Status:     Ambiguous,
		Candidates: topScorers,
	}
}

func containsAll(keywords []string, want map[string]bool) bool {
	for w := range want {
		found := false
		for _, kw := range keywords {
			if kw == w {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// normalize lowercases, folds Portuguese accents and replaces
// non-alphanumeric chars with spaces
func normalize(s string) string {
	s = accentFolder.Replace(strings.ToLower(s))

	var sb strings.Builder
	sb.Grow(len(s))
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			sb.WriteRune(r)
		} else {
			sb.WriteRune(' ')
		}
	}

	return strings.Join(strings.Fields(sb.String()), " ")
}

// tokenize splits a string on whitespace
func tokenize(s string) []string {
	return strings.Fields(s)
}
