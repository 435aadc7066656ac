package trecsearch

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ═══════════════════════════════════════════════════════════════════════════════
// TERM QUERY TESTS
// ═══════════════════════════════════════════════════════════════════════════════

func TestQueryWithTerm(t *testing.T) {
	idx := indexBodies(t, "The cat sat", "The dog sat", "A bird")
	tok := newTestTokenizer("the", "on", "a", "and")

	tests := []struct {
		name  string
		query string
		want  []int
	}{
		{"single term", "cat", []int{1}},
		{"shared term", "sat", []int{1, 2}},
		{"union", "cat bird", []int{1, 3}},
		{"overlapping terms", "cat sat", []int{1, 2}},
		{"case insensitive", "CAT", []int{1}},
		{"unknown term", "zebra", []int{}},
		{"unknown and known", "zebra dog", []int{2}},
		{"only stopwords", "the a", []int{}},
		{"empty query", "", []int{}},
		{"repeated term", "cat cat", []int{1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ElementsMatch(t, tt.want, QueryWithTerm(idx, tok, tt.query))
		})
	}
}

func TestQueryWithTerm_CatDogCollection(t *testing.T) {
	collection := buildCollection("the cat sat", "the dog sat on the mat")
	tok := NewTokenizer(NewStopwordSet("the", "on"), PorterStemmer{})
	idx, err := IndexCollection(strings.NewReader(collection), tok)
	require.NoError(t, err)

	assert.Equal(t, []Posting{
		{DocID: 1, Positions: []int{2}},
		{DocID: 2, Positions: []int{2}},
	}, postingsOf(t, idx, "sat"))
	assert.ElementsMatch(t, []int{1, 2}, QueryWithTerm(idx, tok, "sat"))
	assert.ElementsMatch(t, []int{1}, QueryWithTerm(idx, tok, "cat"))
}

func TestQueryWithTerm_NoDuplicates(t *testing.T) {
	idx := indexBodies(t, "cat dog cat", "dog")
	tok := newTestTokenizer()

	got := QueryWithTerm(idx, tok, "cat dog")
	assert.Len(t, got, 2)
}

func TestAnyOf(t *testing.T) {
	idx := indexBodies(t, "cat", "dog", "cat dog")

	assert.Equal(t, []uint32{1, 2, 3}, AnyOf(idx, "cat", "dog").ToArray())
	assert.Equal(t, []uint32{1, 3}, AnyOf(idx, "cat").ToArray())
	assert.True(t, AnyOf(idx).IsEmpty())
	assert.True(t, AnyOf(idx, "zebra").IsEmpty())
}

func TestAnyOf_DoesNotModifyIndex(t *testing.T) {
	idx := indexBodies(t, "cat", "dog")

	AnyOf(idx, "cat").Add(99)
	AnyOf(idx, "cat", "dog").Add(99)

	assert.Equal(t, []uint32{1}, idx.DocIDs("cat").ToArray())
}
