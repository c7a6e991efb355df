// Package textutil holds the pure string-similarity primitives the
// matching layers build on. Every function here is stateless and
// deterministic.
package textutil

import (
	"math"
	"strings"

	lev "github.com/texttheater/golang-levenshtein/levenshtein"
)

// unitCosts makes every edit operation cost 1.
var unitCosts = lev.Options{
	InsCost: 1,
	DelCost: 1,
	SubCost: 1,
	Matches: lev.IdenticalRunes,
}

// EditDistance is the classic insert/delete/substitute distance, each
// operation costing 1.
func EditDistance(a, b string) int {
	return lev.DistanceForStrings([]rune(a), []rune(b), unitCosts)
}

// SimilarityRatio maps edit distance into [0,1], case-insensitively.
// Two empty strings are identical.
func SimilarityRatio(a, b string) float64 {
	a = strings.ToLower(a)
	b = strings.ToLower(b)
	maxLen := len([]rune(a))
	if n := len([]rune(b)); n > maxLen {
		maxLen = n
	}
	if maxLen == 0 {
		return 1.0
	}
	dist := EditDistance(a, b)
	return float64(maxLen-dist) / float64(maxLen)
}

// Tokenize splits a column name into lowercase tokens on camelCase
// boundaries, underscores, hyphens and whitespace, dropping empties.
func Tokenize(name string) []string {
	parts := strings.FieldsFunc(name, func(r rune) bool {
		return r == '_' || r == '-' || r == ' ' || r == '\t'
	})
	var tokens []string
	for _, p := range parts {
		var cur strings.Builder
		for i, r := range p {
			if i > 0 && r >= 'A' && r <= 'Z' {
				if cur.Len() > 0 {
					tokens = append(tokens, strings.ToLower(cur.String()))
				}
				cur.Reset()
			}
			cur.WriteRune(r)
		}
		if cur.Len() > 0 {
			tokens = append(tokens, strings.ToLower(cur.String()))
		}
	}
	return tokens
}

// Jaccard is intersection over union of the two token sets, 0 when the
// union is empty.
func Jaccard(tokensA, tokensB []string) float64 {
	setA := make(map[string]struct{}, len(tokensA))
	for _, t := range tokensA {
		setA[t] = struct{}{}
	}
	setB := make(map[string]struct{}, len(tokensB))
	for _, t := range tokensB {
		setB[t] = struct{}{}
	}

	intersect := 0
	union := make(map[string]struct{}, len(setA)+len(setB))
	for t := range setA {
		union[t] = struct{}{}
		if _, ok := setB[t]; ok {
			intersect++
		}
	}
	for t := range setB {
		union[t] = struct{}{}
	}

	if len(union) == 0 {
		return 0.0
	}
	return float64(intersect) / float64(len(union))
}

// Cosine builds token-frequency vectors over the shared vocabulary of
// both texts and returns their cosine, 0 when either vector is zero.
func Cosine(textA, textB string) float64 {
	tokensA := Tokenize(textA)
	tokensB := Tokenize(textB)

	vocab := make(map[string]int)
	for _, t := range tokensA {
		if _, ok := vocab[t]; !ok {
			vocab[t] = len(vocab)
		}
	}
	for _, t := range tokensB {
		if _, ok := vocab[t]; !ok {
			vocab[t] = len(vocab)
		}
	}

	vecA := make([]float64, len(vocab))
	vecB := make([]float64, len(vocab))
	for _, t := range tokensA {
		vecA[vocab[t]]++
	}
	for _, t := range tokensB {
		vecB[vocab[t]]++
	}

	var dot, magA, magB float64
	for i := range vecA {
		dot += vecA[i] * vecB[i]
		magA += vecA[i] * vecA[i]
		magB += vecB[i] * vecB[i]
	}
	if magA == 0 || magB == 0 {
		return 0.0
	}
	return dot / (math.Sqrt(magA) * math.Sqrt(magB))
}

// LCSLength is the length of the longest common subsequence of a and b.
func LCSLength(a, b string) int {
	ra := []rune(a)
	rb := []rune(b)
	prev := make([]int, len(rb)+1)
	cur := make([]int, len(rb)+1)
	for i := 1; i <= len(ra); i++ {
		for j := 1; j <= len(rb); j++ {
			if ra[i-1] == rb[j-1] {
				cur[j] = prev[j-1] + 1
			} else if prev[j] >= cur[j-1] {
				cur[j] = prev[j]
			} else {
				cur[j] = cur[j-1]
			}
		}
		prev, cur = cur, prev
	}
	return prev[len(rb)]
}
