package match

import (
	"sort"
	"strings"

	"mergekit/internal/textutil"
)

// FuzzyRejectThreshold is the dissimilarity above which a fuzzy
// candidate is discarded.
const FuzzyRejectThreshold = 0.6

// ScoredMatch is one fuzzy-search hit. Dissimilarity is in [0,1] with 0
// meaning identical.
type ScoredMatch struct {
	Candidate     string
	Index         int
	Dissimilarity float64
}

// Searcher is the fuzzy-search capability the column matcher depends on.
// Implementations rank candidates against a query and return at most
// limit hits, best first. Swapping the backend (edit-distance, n-gram,
// embedding) must not require touching matcher logic.
type Searcher interface {
	Search(query string, candidates []string, limit int) []ScoredMatch
}

// LevenshteinSearcher scores candidates with a token-aware mix of
// normalized edit distance, substring containment and token overlap,
// keeping the best of the three signals per candidate.
type LevenshteinSearcher struct {
	// Threshold rejects candidates whose dissimilarity exceeds it.
	Threshold float64
}

// NewLevenshteinSearcher returns a searcher with the default strictness.
func NewLevenshteinSearcher() *LevenshteinSearcher {
	return &LevenshteinSearcher{Threshold: FuzzyRejectThreshold}
}

const substringScore = 0.8

func fuzzyScore(query, candidate string) float64 {
	q := strings.ToLower(query)
	c := strings.ToLower(candidate)
	if q == c {
		return 1.0
	}

	best := textutil.SimilarityRatio(q, c)
	if (strings.Contains(q, c) || strings.Contains(c, q)) && best < substringScore {
		best = substringScore
	}
	if overlap := textutil.Jaccard(textutil.Tokenize(q), textutil.Tokenize(c)); overlap > best {
		best = overlap
	}
	return best
}

func (s *LevenshteinSearcher) Search(query string, candidates []string, limit int) []ScoredMatch {
	var hits []ScoredMatch
	for i, cand := range candidates {
		dissim := 1.0 - fuzzyScore(query, cand)
		if dissim > s.Threshold {
			continue
		}
		hits = append(hits, ScoredMatch{Candidate: cand, Index: i, Dissimilarity: dissim})
	}
	sort.SliceStable(hits, func(i, j int) bool {
		return hits[i].Dissimilarity < hits[j].Dissimilarity
	})
	if limit > 0 && len(hits) > limit {
		hits = hits[:limit]
	}
	return hits
}
