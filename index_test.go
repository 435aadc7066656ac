package trecsearch

import (
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ═══════════════════════════════════════════════════════════════════════════════
// TEST HELPERS
// ═══════════════════════════════════════════════════════════════════════════════

// buildCollection wraps each body in a minimal document numbered from 1
func buildCollection(bodies ...string) string {
	var sb strings.Builder
	for i, body := range bodies {
		sb.WriteString("<DOC>\n<DOCNO> ")
		sb.WriteString(strconv.Itoa(i + 1))
		sb.WriteString(" </DOCNO>\n<TEXT>\n")
		sb.WriteString(body)
		sb.WriteString("\n</TEXT>\n</DOC>\n")
	}
	return sb.String()
}

func indexBodies(t *testing.T, bodies ...string) *InvertedIndex {
	t.Helper()
	idx, err := IndexCollection(strings.NewReader(buildCollection(bodies...)), newTestTokenizer("the", "on", "a", "and"))
	require.NoError(t, err)
	return idx
}

func postingsOf(t *testing.T, idx *InvertedIndex, term string) []Posting {
	t.Helper()
	pl, ok := idx.Lookup(term)
	require.True(t, ok, "term %q not indexed", term)

	var out []Posting
	for p := range pl.All() {
		out = append(out, *p)
	}
	return out
}

// ═══════════════════════════════════════════════════════════════════════════════
// INDEXING TESTS
// ═══════════════════════════════════════════════════════════════════════════════

func TestIndexCollection_Postings(t *testing.T) {
	idx := indexBodies(t, "The cat sat", "The dog sat")

	assert.Equal(t, []Posting{
		{DocID: 1, Positions: []int{2}},
		{DocID: 2, Positions: []int{2}},
	}, postingsOf(t, idx, "sat"))
	assert.Equal(t, []Posting{{DocID: 1, Positions: []int{1}}}, postingsOf(t, idx, "cat"))

	assert.Equal(t, 2, idx.DocumentFrequency["sat"])
	assert.Equal(t, 1, idx.DocumentFrequency["cat"])
	assert.Equal(t, 2, idx.TotalNumOfDoc)
	assert.Equal(t, []string{"cat", "dog", "sat"}, idx.Terms())
}

func TestIndexCollection_RepeatedTerm(t *testing.T) {
	idx := indexBodies(t, "cat cat dog cat")

	assert.Equal(t, []Posting{{DocID: 1, Positions: []int{1, 2, 4}}}, postingsOf(t, idx, "cat"))
	assert.Equal(t, 1, idx.DocumentFrequency["cat"])
}

func TestIndexCollection_HeadlineIsIndexedFirst(t *testing.T) {
	input := "<DOC><DOCNO>1</DOCNO><HEADLINE>zebra</HEADLINE><TEXT>fox</TEXT></DOC>"
	idx, err := IndexCollection(strings.NewReader(input), newTestTokenizer())
	require.NoError(t, err)

	assert.Equal(t, []Posting{{DocID: 1, Positions: []int{1}}}, postingsOf(t, idx, "zebra"))
	assert.Equal(t, []Posting{{DocID: 1, Positions: []int{2}}}, postingsOf(t, idx, "fox"))
}

func TestIndexCollection_CountsDocumentsWithoutTerms(t *testing.T) {
	idx := indexBodies(t, "cat", "the on a", "dog")

	assert.Equal(t, 3, idx.TotalNumOfDoc)
	assert.Equal(t, 2, idx.DistinctDocuments())
}

func TestIndexCollection_OutOfOrderDocIDs(t *testing.T) {
	input := "<DOCNO>9</DOCNO><TEXT>cat</TEXT><DOCNO>3</DOCNO><TEXT>cat</TEXT><DOCNO>5</DOCNO><TEXT>cat</TEXT>"
	idx, err := IndexCollection(strings.NewReader(input), newTestTokenizer())
	require.NoError(t, err)

	var ids []int
	for _, p := range postingsOf(t, idx, "cat") {
		ids = append(ids, p.DocID)
	}
	assert.Equal(t, []int{3, 5, 9}, ids)
}

func TestIndexCollection_MalformedDocNo(t *testing.T) {
	idx, err := IndexCollection(strings.NewReader("<DOCNO>x1</DOCNO><TEXT>cat</TEXT>"), newTestTokenizer())

	assert.Nil(t, idx)
	assert.ErrorIs(t, err, ErrMalformedCollection)
}

func TestInvertedIndex_AddTerm_KeepsBitmapInSync(t *testing.T) {
	idx := NewInvertedIndex()
	idx.AddTerm("cat", 4, 2)
	idx.AddTerm("cat", 1, 1)
	idx.AddTerm("cat", 4, 1)
	idx.Finalize(4)

	assert.Equal(t, []uint32{1, 4}, idx.DocIDs("cat").ToArray())
	assert.Equal(t, []Posting{
		{DocID: 1, Positions: []int{1}},
		{DocID: 4, Positions: []int{1, 2}},
	}, postingsOf(t, idx, "cat"))
	assert.Equal(t, 2, idx.DocumentFrequency["cat"])
	assert.Equal(t, 4, idx.TotalNumOfDoc)
}

func TestInvertedIndex_InsertionOrder(t *testing.T) {
	idx := NewInvertedIndex()
	idx.AddDocument(1, []TermPosition{{"zebra", 1}, {"ant", 2}, {"zebra", 3}, {"mole", 4}})

	assert.Equal(t, []string{"zebra", "ant", "mole"}, idx.insertionOrder())
	assert.Equal(t, []string{"ant", "mole", "zebra"}, idx.Terms())
}

func TestInvertedIndex_Lookup_Missing(t *testing.T) {
	idx := NewInvertedIndex()

	_, ok := idx.Lookup("cat")
	assert.False(t, ok)
	assert.Nil(t, idx.DocIDs("cat"))
	assert.Zero(t, idx.DistinctDocuments())
}
