package trecsearch

import (
	"iter"
	"math/rand"
	"sort"
)

// ═══════════════════════════════════════════════════════════════════════════════
// POSTINGS LIST AS A SKIP LIST
// ═══════════════════════════════════════════════════════════════════════════════
// A postings list holds, for one term, every document containing it in
// ascending docID order. Documents arrive in collection order, which is not
// necessarily ascending, so a new posting may have to be spliced into the
// middle of the list. A skip list keeps that splice O(log n) while level 0 stays
// a plain sorted linked list for sequential reads.
//
// VISUAL REPRESENTATION:
// ----------------------
// Level 1: HEAD ----------> [3] ---------------> [9] -----> NULL
// Level 0: HEAD --> [1] --> [3] --> [5] --> [7] --> [9] --> NULL
//                    │       │       │       │       │
//                 Posting Posting Posting Posting Posting
//                 {1,[2]} {3,[1,4]} ...
//
// Each node owns exactly one Posting. The docID is the node key; positions
// live in the Posting and are kept sorted by Posting.Add.
// ═══════════════════════════════════════════════════════════════════════════════

const MaxHeight = 32 // Maximum tower height

// Posting records every 1-based position of a term within one document
type Posting struct {
	DocID     int
	Positions []int
}

// TermFrequency is the number of recorded positions
func (p *Posting) TermFrequency() int {
	return len(p.Positions)
}

// Add inserts position keeping the positions in ascending order.
// Equal positions are inserted after the existing ones; nothing is deduplicated.
func (p *Posting) Add(position int) {
	n := len(p.Positions)
	if n == 0 || p.Positions[n-1] <= position {
		p.Positions = append(p.Positions, position)
		return
	}
	i := sort.Search(n, func(i int) bool { return p.Positions[i] > position })
	p.Positions = append(p.Positions, 0)
	copy(p.Positions[i+1:], p.Positions[i:])
	p.Positions[i] = position
}

// Node is a skip list node. Tower[i] is the successor at level i.
type Node struct {
	Posting *Posting
	Tower   []*Node
}

func (n *Node) key() int {
	return n.Posting.DocID
}

// PostingsList is an ordered set of postings keyed by docID
type PostingsList struct {
	Head   *Node // Sentinel head node (holds no posting)
	Height int   // Current height of the tallest tower
	length int
}

// NewPostingsList creates an empty postings list
func NewPostingsList() *PostingsList {
	return &PostingsList{
		Head:   &Node{Tower: make([]*Node, MaxHeight)},
		Height: 1,
	}
}

// Len returns the number of postings, which is the term's document frequency
func (pl *PostingsList) Len() int {
	return pl.length
}

// search walks down from the highest level and returns the node with docID
// (nil if absent) together with the predecessor visited at each level.
func (pl *PostingsList) search(docID int) (*Node, [MaxHeight]*Node) {
	var journey [MaxHeight]*Node
	current := pl.Head
	for level := pl.Height - 1; level >= 0; level-- {
		for next := current.Tower[level]; next != nil && next.key() < docID; next = current.Tower[level] {
			current = next
		}
		journey[level] = current
	}

	next := current.Tower[0]
	if next != nil && next.key() == docID {
		return next, journey
	}
	return nil, journey
}

// Find returns the posting for docID
func (pl *PostingsList) Find(docID int) (*Posting, bool) {
	found, _ := pl.search(docID)
	if found == nil {
		return nil, false
	}
	return found.Posting, true
}

// Upsert returns the posting for docID, inserting an empty one at its sorted
// place when the document is not yet present
//
// EXAMPLE:
// --------
// List [1, 5], Upsert(3):
//
//	Search(3) → not found, journey[0] = node 1
//	Link new node after node 1 → [1, 3, 5]
func (pl *PostingsList) Upsert(docID int) *Posting {
	found, journey := pl.search(docID)
	if found != nil {
		return found.Posting
	}

	posting := &Posting{DocID: docID}
	pl.link(posting, journey)
	return posting
}

// Append links posting after the current last node without comparing keys.
// The loader uses it to keep file order exactly as written.
func (pl *PostingsList) Append(posting *Posting) {
	var journey [MaxHeight]*Node
	current := pl.Head
	for level := pl.Height - 1; level >= 0; level-- {
		for current.Tower[level] != nil {
			current = current.Tower[level]
		}
		journey[level] = current
	}
	pl.link(posting, journey)
}

func (pl *PostingsList) link(posting *Posting, journey [MaxHeight]*Node) {
	height := randomHeight()
	node := &Node{Posting: posting, Tower: make([]*Node, height)}

	for level := 0; level < height; level++ {
		predecessor := journey[level]
		if predecessor == nil {
			predecessor = pl.Head
		}
		node.Tower[level] = predecessor.Tower[level]
		predecessor.Tower[level] = node
	}

	if height > pl.Height {
		pl.Height = height
	}
	pl.length++
}

// All iterates postings in list order
func (pl *PostingsList) All() iter.Seq[*Posting] {
	return func(yield func(*Posting) bool) {
		for node := pl.Head.Tower[0]; node != nil; node = node.Tower[0] {
			if !yield(node.Posting) {
				return
			}
		}
	}
}

// Postings returns the postings as a slice in list order
func (pl *PostingsList) Postings() []*Posting {
	out := make([]*Posting, 0, pl.length)
	for p := range pl.All() {
		out = append(out, p)
	}
	return out
}

// randomHeight flips coins until tails: height h has probability 1/2^h
func randomHeight() int {
	height := 1
	for rand.Float64() < 0.5 && height < MaxHeight {
		height++
	}
	return height
}
