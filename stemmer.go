package trecsearch

import (
	"fmt"

	snowballeng "github.com/kljensen/snowball/english"
	porterstemmer "github.com/reiver/go-porterstemmer"
)

// ═══════════════════════════════════════════════════════════════════════════════
// STEMMING
// ═══════════════════════════════════════════════════════════════════════════════
// Stemming removes suffixes to find the word root:
//
//	"connection", "connected", "connecting" → "connect"
//
// The engine treats the stemmer as a pure function. Two implementations are
// available:
//   - porter:   the classic Porter algorithm (default)
//   - snowball: the Snowball English (Porter2) algorithm
//
// Every index must be queried with the stemmer it was built with; the terms in
// the index file are already stemmed.
// ═══════════════════════════════════════════════════════════════════════════════

// Stemmer reduces a normalized token to its root
type Stemmer interface {
	Stem(term string) string
}

// Stemmer names accepted by NewStemmer and the configuration file
const (
	StemmerPorter   = "porter"
	StemmerSnowball = "snowball"
)

// PorterStemmer applies the original Porter algorithm
type PorterStemmer struct{}

// Stem returns the Porter stem of term. Words the library cannot reduce
// (it fails on "eed" and "eing") are returned unchanged.
func (PorterStemmer) Stem(term string) string {
	return stemOrKeep(term, porterstemmer.StemString)
}

// SnowballStemmer applies the Snowball English stemmer.
// Stopwords are stemmed too, since stopword handling belongs to the tokenizer.
type SnowballStemmer struct{}

// Stem returns the Snowball English stem of term
func (SnowballStemmer) Stem(term string) string {
	return stemOrKeep(term, func(word string) string {
		return snowballeng.Stem(word, true)
	})
}

// stemOrKeep applies stem to term and falls back to term itself when the
// stemmer panics or reduces a non-empty word to nothing
func stemOrKeep(term string, stem func(string) string) (out string) {
	if term == "" {
		return term
	}
	defer func() {
		if recover() != nil {
			out = term
		}
	}()

	if out = stem(term); out == "" {
		return term
	}
	return out
}

// NewStemmer returns the stemmer registered under name.
// An empty name selects the Porter stemmer.
func NewStemmer(name string) (Stemmer, error) {
	switch name {
	case "", StemmerPorter:
		return PorterStemmer{}, nil
	case StemmerSnowball:
		return SnowballStemmer{}, nil
	default:
		return nil, fmt.Errorf("unknown stemmer %q", name)
	}
}
