package trecsearch

import (
	"io"
	"slices"

	"github.com/RoaringBitmap/roaring"
)

// ═══════════════════════════════════════════════════════════════════════════════
// CORE DATA STRUCTURE: InvertedIndex with HYBRID STORAGE
// ═══════════════════════════════════════════════════════════════════════════════
// Architecture:
//
//	InvertedIndex
//	├── Postings: map[string]*PostingsList      (POSITION-LEVEL)
//	│   ├── "cat" → [(1,[2]), (4,[1,7])]
//	│   └── "sat" → [(1,[3]), (2,[2])]
//	├── DocBitmaps: map[string]*roaring.Bitmap  (DOCUMENT-LEVEL)
//	│   ├── "cat" → {1, 4}
//	│   └── "sat" → {1, 2}
//	├── DocumentFrequency: map[string]int
//	└── TotalNumOfDoc: int
//
// Postings carry positions and term frequencies for scoring and persistence.
// Bitmaps answer document-level questions (term-query unions, distinct
// document counts) without walking postings.
//
// INVARIANTS:
// -----------
//   - postings of a term are strictly ascending by docID
//   - positions of a posting are non-decreasing
//   - DocumentFrequency[term] == Postings[term].Len() once finalized
//
// The index is written only while it is being built or loaded. After that it
// is read-only and may be shared between goroutines without locking.
// ═══════════════════════════════════════════════════════════════════════════════
type InvertedIndex struct {
	Postings          map[string]*PostingsList   // Term → postings ordered by docID
	DocBitmaps        map[string]*roaring.Bitmap // Term → set of docIDs
	DocumentFrequency map[string]int             // Term → df
	TotalNumOfDoc     int                        // N used by the IDF component

	order []string // terms in first-insertion order
}

// NewInvertedIndex creates an empty index
func NewInvertedIndex() *InvertedIndex {
	return &InvertedIndex{
		Postings:          make(map[string]*PostingsList),
		DocBitmaps:        make(map[string]*roaring.Bitmap),
		DocumentFrequency: make(map[string]int),
	}
}

// AddTerm records one occurrence of term at position in docID
//
// HOW IT WORKS:
// -------------
// 1. Find the term's postings list (create it on first sight)
// 2. Find or splice in the posting for docID, keeping docIDs ascending
// 3. Insert the position keeping positions ascending
// 4. Set the docID bit in the term's bitmap
//
// docID must fit in a uint32; the scanner and the loader reject anything else.
func (idx *InvertedIndex) AddTerm(term string, docID, position int) {
	postings := idx.postingsFor(term)
	postings.Upsert(docID).Add(position)
	idx.DocBitmaps[term].Add(uint32(docID))
}

// AddDocument adds every analyzed term of one document
func (idx *InvertedIndex) AddDocument(docID int, terms []TermPosition) {
	for _, tp := range terms {
		idx.AddTerm(tp.Term, docID, tp.Position)
	}
}

func (idx *InvertedIndex) postingsFor(term string) *PostingsList {
	postings, ok := idx.Postings[term]
	if !ok {
		postings = NewPostingsList()
		idx.Postings[term] = postings
		idx.DocBitmaps[term] = roaring.New()
		idx.order = append(idx.order, term)
	}
	return postings
}

// Finalize closes a build pass: every document frequency is set to the length
// of its postings list and totalDocs becomes the document count
func (idx *InvertedIndex) Finalize(totalDocs int) {
	for term, postings := range idx.Postings {
		idx.DocumentFrequency[term] = postings.Len()
	}
	idx.TotalNumOfDoc = totalDocs
}

// Len returns the number of distinct terms
func (idx *InvertedIndex) Len() int {
	return len(idx.Postings)
}

// Terms returns every term in ascending byte order
func (idx *InvertedIndex) Terms() []string {
	terms := make([]string, 0, len(idx.Postings))
	for term := range idx.Postings {
		terms = append(terms, term)
	}
	slices.Sort(terms)
	return terms
}

// insertionOrder returns terms in the order they were first added
func (idx *InvertedIndex) insertionOrder() []string {
	return idx.order
}

// Lookup returns the postings list of term
func (idx *InvertedIndex) Lookup(term string) (*PostingsList, bool) {
	postings, ok := idx.Postings[term]
	return postings, ok
}

// DocIDs returns the document set of term (nil if the term is not indexed).
// The bitmap is shared with the index and must not be modified.
func (idx *InvertedIndex) DocIDs(term string) *roaring.Bitmap {
	return idx.DocBitmaps[term]
}

// DistinctDocuments counts the distinct docIDs appearing in any postings list
func (idx *InvertedIndex) DistinctDocuments() int {
	bitmaps := make([]*roaring.Bitmap, 0, len(idx.DocBitmaps))
	for _, bm := range idx.DocBitmaps {
		bitmaps = append(bitmaps, bm)
	}
	return int(roaring.FastOr(bitmaps...).GetCardinality())
}

// IndexCollection scans a collection and indexes every emitted document.
// The returned index is finalized with the number of documents the scanner
// closed, which includes documents that contributed no terms.
func IndexCollection(r io.Reader, tokenizer *Tokenizer, opts ...ScanOption) (*InvertedIndex, error) {
	idx := NewInvertedIndex()
	scanner := NewTagScanner(r, opts...)
	for scanner.Scan() {
		rec := scanner.Record()
		idx.AddDocument(rec.DocID, tokenizer.Preprocess(rec.Body))
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	idx.Finalize(scanner.Documents())
	return idx, nil
}
