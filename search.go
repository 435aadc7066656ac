package trecsearch

import (
	"math"
	"sort"
)

// ═══════════════════════════════════════════════════════════════════════════════
// TF-IDF RANKING
// ═══════════════════════════════════════════════════════════════════════════════
// Every posting of every query term adds to its document's score:
//
//	score[d] += (1 + log10(tf)) × log10(N / df)
//
// Where:
//
//	tf = positions of the term in d
//	df = documents containing the term
//	N  = TotalNumOfDoc of the index
//
// EXAMPLE:
// --------
// N = 3, query "cat mat"
//
//	"cat": df=3 → idf = log10(3/3) = 0    (appears everywhere, worthless)
//	"mat": df=1 → idf = log10(3/1) ≈ 0.477
//	Doc2 has "mat" twice → (1 + log10 2) × 0.477 ≈ 0.621
//
// ORDERING:
// ---------
// Documents are ranked by descending score. Equal scores keep the order in
// which the documents first received a score (query term order, then docID
// order within a postings list). The sort is stable for that reason.
//
// A query term listed twice contributes twice.
// ═══════════════════════════════════════════════════════════════════════════════

// ScoredDocument is a ranked search result
type ScoredDocument struct {
	DocID int     `json:"doc_id"`
	Score float64 `json:"score"`
}

// ScoredTerm is a suggested expansion term
type ScoredTerm struct {
	Term  string  `json:"term"`
	Score float64 `json:"score"`
}

// RankTfIdf scores every document containing one of terms and returns them
// all, best first
func RankTfIdf(index *InvertedIndex, terms []string) []ScoredDocument {
	n := float64(index.TotalNumOfDoc)

	scores := make(map[int]int) // docID → slot in ranked
	ranked := make([]ScoredDocument, 0)

	for _, term := range terms {
		postings, ok := index.Lookup(term)
		if !ok {
			continue
		}
		idf := math.Log10(n / float64(index.DocumentFrequency[term]))

		for posting := range postings.All() {
			weight := (1 + math.Log10(float64(posting.TermFrequency()))) * idf

			slot, seen := scores[posting.DocID]
			if !seen {
				slot = len(ranked)
				scores[posting.DocID] = slot
				ranked = append(ranked, ScoredDocument{DocID: posting.DocID})
			}
			ranked[slot].Score += weight
		}
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})
	return ranked
}

// limitResults returns at most maxResults items (none for a negative limit)
func limitResults[T any](items []T, maxResults int) []T {
	if maxResults < 0 {
		maxResults = 0
	}
	return items[:min(maxResults, len(items))]
}
