package trecsearch

import (
	"math"
	"strings"
	"testing"

	"github.com/RoaringBitmap/roaring"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFeedbackTargets(t *testing.T) {
	ranked := []ScoredDocument{{DocID: 7, Score: 3}, {DocID: 2, Score: 2}, {DocID: 9, Score: 1}}

	assert.Equal(t, []uint32{2, 7}, FeedbackTargets(ranked, 2).ToArray())
	assert.Equal(t, []uint32{2, 7, 9}, FeedbackTargets(ranked, 10).ToArray())
	assert.True(t, FeedbackTargets(ranked, 0).IsEmpty())
	assert.True(t, FeedbackTargets(nil, 5).IsEmpty())
}

func TestBuildFeedbackIndex_OnlyTargets(t *testing.T) {
	collection := buildCollection("zebra fox", "fox bird", "fish")
	tok := newTestTokenizer()

	feedback, err := BuildFeedbackIndex(strings.NewReader(collection), tok, roaring.BitmapOf(2))
	require.NoError(t, err)

	assert.Equal(t, []string{"bird", "fox"}, feedback.Terms())
	assert.Equal(t, []uint32{2}, feedback.DocIDs("fox").ToArray())
}

func TestSuggestTerms_RareTermFirst(t *testing.T) {
	// Three documents; only the best match for "zebra" holds the rare term.
	collection := buildCollection("zebra fox", "fox bird", "fox bird")
	tok := newTestTokenizer()
	primary, err := IndexCollection(strings.NewReader(collection), tok)
	require.NoError(t, err)

	ranked := RankTfIdf(primary, tok.Tokenize("zebra"))
	require.Len(t, ranked, 1)

	feedback, err := BuildFeedbackIndex(strings.NewReader(collection), tok, FeedbackTargets(ranked, 1))
	require.NoError(t, err)

	got := SuggestTerms(primary, feedback, 5)
	require.Len(t, got, 2)
	assert.Equal(t, "zebra", got[0].Term)
	assert.InDelta(t, math.Log10(3), got[0].Score, 1e-9)
	assert.Equal(t, "fox", got[1].Term)
	assert.Zero(t, got[1].Score)
}

func TestSuggestTerms_SumsFrequencyAcrossFeedbackDocuments(t *testing.T) {
	collection := buildCollection("bird bird", "bird", "fish", "fish")
	tok := newTestTokenizer()
	primary, err := IndexCollection(strings.NewReader(collection), tok)
	require.NoError(t, err)

	feedback, err := BuildFeedbackIndex(strings.NewReader(collection), tok, roaring.BitmapOf(1, 2))
	require.NoError(t, err)

	got := SuggestTerms(primary, feedback, 5)
	require.Len(t, got, 1)
	assert.Equal(t, "bird", got[0].Term)
	assert.InDelta(t, 3*math.Log10(4.0/2.0), got[0].Score, 1e-9)
}

func TestSuggestTerms_Limit(t *testing.T) {
	primary := indexBodies(t, "cat", "dog", "fox", "bird")
	feedback := indexBodies(t, "cat dog fox bird")

	assert.Len(t, SuggestTerms(primary, feedback, 2), 2)
	assert.Empty(t, SuggestTerms(primary, feedback, 0))
	assert.Empty(t, SuggestTerms(primary, feedback, -1))
}

func TestSuggestTerms_TiesKeepFeedbackOrder(t *testing.T) {
	primary := indexBodies(t, "cat", "dog", "fox", "bird")
	feedback := indexBodies(t, "fox cat dog")

	got := SuggestTerms(primary, feedback, 5)
	var terms []string
	for _, s := range got {
		terms = append(terms, s.Term)
	}
	assert.Equal(t, []string{"fox", "cat", "dog"}, terms)
}

func TestSuggestTerms_SkipsTermsMissingFromPrimary(t *testing.T) {
	primary := indexBodies(t, "cat", "dog")
	feedback := indexBodies(t, "cat zebra")

	got := SuggestTerms(primary, feedback, 5)
	require.Len(t, got, 1)
	assert.Equal(t, "cat", got[0].Term)
}

func TestSuggestTerms_EmptyFeedback(t *testing.T) {
	primary := indexBodies(t, "cat")

	assert.Empty(t, SuggestTerms(primary, NewInvertedIndex(), 5))
}
