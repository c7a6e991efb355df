package textutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEditDistance(t *testing.T) {
	tests := []struct {
		name string
		a, b string
		want int
	}{
		{name: "identical", a: "customer", b: "customer", want: 0},
		{name: "classic kitten sitting", a: "kitten", b: "sitting", want: 3},
		{name: "empty vs word", a: "", b: "abc", want: 3},
		{name: "both empty", a: "", b: "", want: 0},
		{name: "single substitution", a: "cat", b: "car", want: 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, EditDistance(tt.a, tt.b))
		})
	}
}

func TestSimilarityRatio(t *testing.T) {
	tests := []struct {
		name string
		a, b string
		want float64
	}{
		{name: "identical", a: "amount", b: "amount", want: 1.0},
		{name: "case insensitive", a: "Amount", b: "aMOUNT", want: 1.0},
		{name: "both empty", a: "", b: "", want: 1.0},
		{name: "disjoint short", a: "ab", b: "cd", want: 0.0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, SimilarityRatio(tt.a, tt.b), 1e-9)
		})
	}

	// One substitution over four runes.
	assert.InDelta(t, 0.75, SimilarityRatio("date", "gate"), 1e-9)
}

func TestTokenize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{name: "snake case", input: "customer_id", want: []string{"customer", "id"}},
		{name: "camel case", input: "customerId", want: []string{"customer", "id"}},
		{name: "kebab and spaces", input: "order-date created", want: []string{"order", "date", "created"}},
		{name: "empty", input: "", want: nil},
		{name: "separator runs", input: "__a__b__", want: []string{"a", "b"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Tokenize(tt.input))
		})
	}
}

func TestJaccard(t *testing.T) {
	a := []string{"customer", "id"}
	b := []string{"customer", "id"}
	assert.Equal(t, 1.0, Jaccard(a, b))

	disjoint := []string{"order", "total"}
	assert.Equal(t, 0.0, Jaccard(a, disjoint))

	assert.Equal(t, 0.0, Jaccard(nil, nil))

	// {customer,id} vs {customer,name}: 1 shared of 3.
	assert.InDelta(t, 1.0/3.0, Jaccard(a, []string{"customer", "name"}), 1e-9)
}

func TestCosine(t *testing.T) {
	assert.InDelta(t, 1.0, Cosine("customer id", "customer id"), 1e-9)
	assert.Equal(t, 0.0, Cosine("alpha beta", "gamma delta"))
	assert.Equal(t, 0.0, Cosine("", "anything"))

	// Shared token "customer" out of two-token texts: 1/2.
	assert.InDelta(t, 0.5, Cosine("customer id", "customer name"), 1e-9)
}

func TestLCSLength(t *testing.T) {
	tests := []struct {
		name string
		a, b string
		want int
	}{
		{name: "identical", a: "abcde", b: "abcde", want: 5},
		{name: "subsequence", a: "abcde", b: "ace", want: 3},
		{name: "no overlap", a: "abc", b: "xyz", want: 0},
		{name: "empty", a: "", b: "abc", want: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, LCSLength(tt.a, tt.b))
		})
	}
}
