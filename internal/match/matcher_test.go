package match

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "lowercase and separators", input: "Customer_ID", want: "customer identifier"},
		{name: "identifier family", input: "order no", want: "order identifier"},
		{name: "name family", input: "product-title", want: "product name"},
		{name: "date family", input: "created.timestamp", want: "created date"},
		{name: "amount family", input: "unit price", want: "unit amount"},
		{name: "untouched", input: "region", want: "region"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.input))
		})
	}
}

func TestFindMatchesExact(t *testing.T) {
	m := NewColumnMatcher([]string{"customer_id", "order_date"})

	got := m.FindMatches("Customer ID", 5)
	require.NotEmpty(t, got)
	assert.Equal(t, "customer_id", got[0].TargetColumn)
	assert.Equal(t, MatchExact, got[0].MatchKind)
	assert.Equal(t, 1.0, got[0].Similarity)
}

func TestFindMatchesFuzzy(t *testing.T) {
	m := NewColumnMatcher([]string{"customer_id", "customer_name"})

	got := m.FindMatches("cust_id", 5)
	require.NotEmpty(t, got)
	assert.Equal(t, "customer_id", got[0].TargetColumn)
	assert.Contains(t, []MatchKind{MatchExact, MatchFuzzy, MatchSemantic}, got[0].MatchKind)
	assert.Greater(t, got[0].Similarity, 0.6)
}

func TestFindMatchesSemantic(t *testing.T) {
	// Too far apart for the fuzzy scorer, but both carry status-family
	// terms, so the semantic pass still relates them.
	m := NewColumnMatcher([]string{"user_flag"})

	got := m.FindMatches("order_status", 5)
	require.NotEmpty(t, got)
	assert.Equal(t, "user_flag", got[0].TargetColumn)
	assert.Equal(t, MatchSemantic, got[0].MatchKind)
	assert.Greater(t, got[0].Similarity, SemanticKeepThreshold)
}

func TestFindMatchesNoCandidates(t *testing.T) {
	m := NewColumnMatcher([]string{"zzz_qqq"})
	assert.Empty(t, m.FindMatches("region", 5))
}

func TestFindMatchesLimit(t *testing.T) {
	m := NewColumnMatcher([]string{"customer_id", "customer_code", "customer_key"})
	got := m.FindMatches("customer_id", 2)
	assert.LessOrEqual(t, len(got), 2)
	require.NotEmpty(t, got)
	assert.Equal(t, "customer_id", got[0].TargetColumn)
}

func TestFindMatchesRankedDescending(t *testing.T) {
	m := NewColumnMatcher([]string{"order_id", "order_total", "customer_id"})
	got := m.FindMatches("order_id", 5)
	for i := 1; i < len(got); i++ {
		assert.GreaterOrEqual(t, got[i-1].Similarity, got[i].Similarity)
	}
}

func TestFindMatchesDeterministic(t *testing.T) {
	m := NewColumnMatcher([]string{"customer_id", "client_code", "account_key", "user_number"})
	first := m.FindMatches("cust_id", 4)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, m.FindMatches("cust_id", 4))
	}
}

type stubSearcher struct{ hits []ScoredMatch }

func (s stubSearcher) Search(query string, candidates []string, limit int) []ScoredMatch {
	if limit < len(s.hits) {
		return s.hits[:limit]
	}
	return s.hits
}

func TestWithSearcher(t *testing.T) {
	m := NewColumnMatcher([]string{"alpha", "beta"},
		WithSearcher(stubSearcher{hits: []ScoredMatch{{Candidate: "beta", Index: 1, Dissimilarity: 0.25}}}))

	got := m.FindMatches("anything", 5)
	require.Len(t, got, 1)
	assert.Equal(t, "beta", got[0].TargetColumn)
	assert.Equal(t, MatchFuzzy, got[0].MatchKind)
	assert.InDelta(t, 0.75, got[0].Similarity, 1e-9)
}

func TestLevenshteinSearcherThreshold(t *testing.T) {
	s := NewLevenshteinSearcher()

	hits := s.Search("customer identifier", []string{"customer identifier", "completely unrelated zzz"}, 10)
	require.Len(t, hits, 1)
	assert.Equal(t, 0, hits[0].Index)
	assert.Equal(t, 0.0, hits[0].Dissimilarity)
}

func TestLevenshteinSearcherSubstring(t *testing.T) {
	s := NewLevenshteinSearcher()
	hits := s.Search("amount", []string{"total amount due"}, 10)
	require.Len(t, hits, 1)
	assert.InDelta(t, 0.2, hits[0].Dissimilarity, 1e-9)
}
