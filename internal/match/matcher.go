// Package match ranks candidate target columns for a source column name
// using normalization, exact equality, fuzzy search and business-term
// semantics, and decides type compatibility between inferred column types.
package match

import (
	"regexp"
	"sort"
	"strings"

	"mergekit/internal/textutil"
)

// SemanticKeepThreshold is the minimum similarity a semantic-family hit
// must reach to be suggested.
const SemanticKeepThreshold = 0.6

// MatchKind tells how a suggestion was found.
type MatchKind string

const (
	MatchExact    MatchKind = "exact"
	MatchFuzzy    MatchKind = "fuzzy"
	MatchSemantic MatchKind = "semantic"
	MatchNone     MatchKind = "none"
)

var kindRank = map[MatchKind]int{
	MatchExact:    0,
	MatchFuzzy:    1,
	MatchSemantic: 2,
	MatchNone:     3,
}

// Suggestion pairs a source column with a ranked candidate target column.
type Suggestion struct {
	SourceColumn string    `json:"sourceColumn"`
	TargetColumn string    `json:"targetColumn"`
	Similarity   float64   `json:"similarity"`
	MatchKind    MatchKind `json:"matchType"`
}

// canonicalTerms folds token variants of well-known business terms into
// one canonical token before any comparison.
var canonicalTerms = map[string]string{
	"id": "identifier", "no": "identifier", "num": "identifier",
	"number": "identifier", "code": "identifier",

	"name": "name", "title": "name", "label": "name",

	"date": "date", "time": "date", "timestamp": "date",

	"amount": "amount", "value": "amount", "price": "amount", "cost": "amount",

	"email": "email", "mail": "email",

	"phone": "phone", "tel": "phone", "telephone": "phone", "mobile": "phone",
}

// semanticFamilies lists the variant keywords of each business-term
// family used for semantic matching, in a fixed scan order so results
// stay deterministic.
var semanticFamilies = []struct {
	name     string
	variants []string
}{
	{"identifier", []string{"identifier", "id", "code", "key", "no", "num", "number"}},
	{"name", []string{"name", "title", "label", "description"}},
	{"date", []string{"date", "time", "timestamp", "created", "updated", "modified"}},
	{"amount", []string{"amount", "value", "price", "cost", "total", "sum"}},
	{"contact", []string{"email", "mail", "phone", "tel", "mobile", "contact"}},
	{"status", []string{"status", "state", "flag", "active"}},
	{"count", []string{"count", "quantity", "qty"}},
	{"category", []string{"category", "type", "group", "class", "kind"}},
}

var separatorRun = regexp.MustCompile(`[\s_.\-]+`)

// Normalize lowercases a column name, collapses separators to single
// spaces and canonicalizes known business-term tokens.
func Normalize(name string) string {
	lowered := strings.ToLower(strings.TrimSpace(name))
	lowered = separatorRun.ReplaceAllString(lowered, " ")
	tokens := strings.Fields(lowered)
	for i, t := range tokens {
		if canon, ok := canonicalTerms[t]; ok {
			tokens[i] = canon
		}
	}
	return strings.Join(tokens, " ")
}

// ColumnMatcher ranks matches for source column names against a fixed
// candidate schema. Candidates are normalized once at construction.
type ColumnMatcher struct {
	candidates []string
	normalized []string
	searcher   Searcher
}

// Option configures a ColumnMatcher.
type Option func(*ColumnMatcher)

// WithSearcher swaps the fuzzy-search backend.
func WithSearcher(s Searcher) Option {
	return func(m *ColumnMatcher) { m.searcher = s }
}

// NewColumnMatcher builds a matcher over the candidate target columns.
func NewColumnMatcher(candidates []string, opts ...Option) *ColumnMatcher {
	m := &ColumnMatcher{
		candidates: candidates,
		normalized: make([]string, len(candidates)),
		searcher:   NewLevenshteinSearcher(),
	}
	for i, c := range candidates {
		m.normalized[i] = Normalize(c)
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// FindMatches returns up to limit suggestions for the source column,
// best first. Exact hits rank above fuzzy, fuzzy above semantic at equal
// similarity.
func (m *ColumnMatcher) FindMatches(sourceColumn string, limit int) []Suggestion {
	if limit <= 0 {
		limit = 1
	}
	normSource := Normalize(sourceColumn)

	var suggestions []Suggestion
	suggested := make(map[string]bool)

	// Exact matches on the normalized form.
	for i, nc := range m.normalized {
		if normSource == nc && !suggested[m.candidates[i]] {
			suggestions = append(suggestions, Suggestion{
				SourceColumn: sourceColumn,
				TargetColumn: m.candidates[i],
				Similarity:   1.0,
				MatchKind:    MatchExact,
			})
			suggested[m.candidates[i]] = true
		}
	}

	// Fuzzy search over normalized candidates.
	for _, hit := range m.searcher.Search(normSource, m.normalized, limit) {
		target := m.candidates[hit.Index]
		if suggested[target] {
			continue
		}
		suggestions = append(suggestions, Suggestion{
			SourceColumn: sourceColumn,
			TargetColumn: target,
			Similarity:   1.0 - hit.Dissimilarity,
			MatchKind:    MatchFuzzy,
		})
		suggested[target] = true
	}

	// Semantic matches by shared business-term family.
	for _, family := range semanticFamilies {
		if !containsVariant(normSource, family.variants) {
			continue
		}
		for i, nc := range m.normalized {
			target := m.candidates[i]
			if suggested[target] || !containsVariant(nc, family.variants) {
				continue
			}
			overlap := textutil.Jaccard(textutil.Tokenize(normSource), textutil.Tokenize(nc))
			sim := textutil.SimilarityRatio(normSource, nc) + 0.3 + 0.2*overlap
			if sim > 1.0 {
				sim = 1.0
			}
			if sim <= SemanticKeepThreshold {
				continue
			}
			suggestions = append(suggestions, Suggestion{
				SourceColumn: sourceColumn,
				TargetColumn: target,
				Similarity:   sim,
				MatchKind:    MatchSemantic,
			})
			suggested[target] = true
		}
	}

	sort.SliceStable(suggestions, func(i, j int) bool {
		if suggestions[i].Similarity != suggestions[j].Similarity {
			return suggestions[i].Similarity > suggestions[j].Similarity
		}
		return kindRank[suggestions[i].MatchKind] < kindRank[suggestions[j].MatchKind]
	})
	if len(suggestions) > limit {
		suggestions = suggestions[:limit]
	}
	return suggestions
}

func containsVariant(normalized string, variants []string) bool {
	for _, v := range variants {
		if strings.Contains(normalized, v) {
			return true
		}
	}
	return false
}
