package trecsearch

import (
	"io"
	"math"
	"sort"

	"github.com/RoaringBitmap/roaring"
)

// ═══════════════════════════════════════════════════════════════════════════════
// PSEUDO-RELEVANCE FEEDBACK
// ═══════════════════════════════════════════════════════════════════════════════
// PRF treats the best-ranked documents of a query as if a user had marked them
// relevant, and suggests the terms that characterize them.
//
// ALGORITHM:
// ----------
//  1. Take the docIDs of the top K ranked documents as the target set
//  2. Scan the collection again, indexing ONLY the target documents into a
//     throwaway feedback index (same scanner, same tokenizer)
//  3. Score every feedback term:
//
//     score = tf_feedback × log10(N_primary / df_primary)
//
//     tf is summed over the feedback documents; N and df come from the
//     primary index, so rarity is judged against the whole collection.
//  4. Sort by descending score and keep the first numTerms
//
// A term that appears in the feedback documents but not in the primary index
// (a collection changed since the index was built) is skipped.
// ═══════════════════════════════════════════════════════════════════════════════

// FeedbackTargets returns the docIDs of the first numDocs ranked documents
func FeedbackTargets(ranked []ScoredDocument, numDocs int) *roaring.Bitmap {
	targets := roaring.New()
	for _, doc := range limitResults(ranked, numDocs) {
		targets.Add(uint32(doc.DocID))
	}
	return targets
}

// BuildFeedbackIndex indexes the target documents of a collection
func BuildFeedbackIndex(collection io.Reader, tokenizer *Tokenizer, targets *roaring.Bitmap) (*InvertedIndex, error) {
	return IndexCollection(collection, tokenizer, WithTargets(targets))
}

// SuggestTerms scores the terms of feedback against primary and returns the
// best numTerms. Ties keep the order in which terms entered the feedback index.
func SuggestTerms(primary, feedback *InvertedIndex, numTerms int) []ScoredTerm {
	n := float64(primary.TotalNumOfDoc)

	suggestions := make([]ScoredTerm, 0, feedback.Len())
	for _, term := range feedback.insertionOrder() {
		df, ok := primary.DocumentFrequency[term]
		if !ok || df == 0 {
			continue
		}

		tf := 0
		for posting := range feedback.Postings[term].All() {
			tf += posting.TermFrequency()
		}
		suggestions = append(suggestions, ScoredTerm{
			Term:  term,
			Score: float64(tf) * math.Log10(n/float64(df)),
		})
	}

	sort.SliceStable(suggestions, func(i, j int) bool {
		return suggestions[i].Score > suggestions[j].Score
	})
	return limitResults(suggestions, numTerms)
}
