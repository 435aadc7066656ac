package trecsearch

import (
	"github.com/RoaringBitmap/roaring"
)

// ═══════════════════════════════════════════════════════════════════════════════
// BOOLEAN TERM QUERIES
// ═══════════════════════════════════════════════════════════════════════════════
// A term query returns every document that contains at least one query term:
//
//	"cat dog" → bitmap("cat") OR bitmap("dog")
//
// Each term's document set is already a roaring bitmap, so the union is a
// single FastOr over the bitmaps of the terms that exist. Unknown terms are
// skipped; a query with no known term yields an empty set, not an error.
// ═══════════════════════════════════════════════════════════════════════════════

// AnyOf returns the documents containing at least one of terms
func AnyOf(index *InvertedIndex, terms ...string) *roaring.Bitmap {
	bitmaps := make([]*roaring.Bitmap, 0, len(terms))
	for _, term := range terms {
		if bm := index.DocIDs(term); bm != nil {
			bitmaps = append(bitmaps, bm)
		}
	}
	if len(bitmaps) == 0 {
		return roaring.New()
	}
	return roaring.FastOr(bitmaps...)
}

// QueryWithTerm tokenizes query and returns the union of the matching
// documents in ascending docID order. Callers must not rely on the order.
func QueryWithTerm(index *InvertedIndex, tokenizer *Tokenizer, query string) []int {
	matches := AnyOf(index, tokenizer.Tokenize(query)...)

	docIDs := make([]int, 0, matches.GetCardinality())
	it := matches.Iterator()
	for it.HasNext() {
		docIDs = append(docIDs, int(it.Next()))
	}
	return docIDs
}
