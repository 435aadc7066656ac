// ═══════════════════════════════════════════════════════════════════════════════
// TEXT ANALYSIS OVERVIEW
// ═══════════════════════════════════════════════════════════════════════════════
// Text analysis transforms raw document or query text into index terms. The
// same pipeline runs at index time, at query time and during feedback
// indexing, so a query term and an indexed term always agree.
//
// ANALYSIS PIPELINE:
// ------------------
//  1. Lowercasing         → "The Cat-Flap." → "the cat-flap."
//  2. Word splitting      → newlines become spaces, split on single spaces
//  3. Punctuation trim    → drop ONE trailing . ? ! , ; : - – —
//  4. Separator split     → the FIRST separator found splits the word
//  5. Cleaning            → keep only letters and digits
//  6. Stop word removal   → drop words from the loaded stopword list
//  7. Stemming            → "flaps" → "flap"
//
// EXAMPLE TRANSFORMATION (stopwords {the}):
// -----------------------------------------
// Input:  "The cat-flap, U.S.A."
// Step 1: "the cat-flap, u.s.a."
// Step 2: ["the", "cat-flap,", "u.s.a."]
// Step 3: ["the", "cat-flap", "u.s.a"]
// Step 4: ["the", ["cat", "flap"], "u.s.a"]
// Step 5: ["the", ["cat", "flap"], "usa"]
// Step 6: [["cat", "flap"], "usa"]
// Step 7: ["cat", "flap", "usa"]
//
// Positions are assigned after analysis: they count surviving terms only.
// ═══════════════════════════════════════════════════════════════════════════════

package trecsearch

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode"
	"unicode/utf8"
)

// trailingPunctuation holds the characters removed from the end of a word.
// Only one character is ever removed.
var trailingPunctuation = map[rune]struct{}{
	'.': {}, '?': {}, '!': {}, ',': {}, ';': {}, ':': {}, '-': {}, '–': {}, '—': {},
}

var lineBreaks = strings.NewReplacer("\n", " ", "\r", " ")

// wordSeparators is checked in order; the first one present in a word is the
// only one used to split it.
var wordSeparators = []rune{'-', '–', '—', '/', '_', '$', '#', '@', '&'}

// ═══════════════════════════════════════════════════════════════════════════════
// STOPWORDS
// ═══════════════════════════════════════════════════════════════════════════════

// StopwordSet is a set of lowercase stopwords.
// The map uses struct{} values so membership costs no storage per entry.
type StopwordSet map[string]struct{}

// NewStopwordSet builds a set from the given words
func NewStopwordSet(words ...string) StopwordSet {
	set := make(StopwordSet, len(words))
	for _, w := range words {
		set[w] = struct{}{}
	}
	return set
}

// Contains reports whether word is a stopword. The lookup is case-sensitive.
func (s StopwordSet) Contains(word string) bool {
	_, ok := s[word]
	return ok
}

// ReadStopwords reads a newline-delimited stopword list.
// Surrounding whitespace is trimmed from every line.
func ReadStopwords(r io.Reader) (StopwordSet, error) {
	set := make(StopwordSet)
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		set[strings.TrimSpace(scanner.Text())] = struct{}{}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading stopwords: %w", err)
	}
	return set, nil
}

// LoadStopwords reads the stopword file at path
func LoadStopwords(path string) (StopwordSet, error) {
	f, err := os.Open(path) // #nosec G304 -- path comes from engine configuration
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrStopwordFileMissing, path, err)
	}
	defer f.Close()

	return ReadStopwords(f)
}

// ═══════════════════════════════════════════════════════════════════════════════
// TOKENIZER
// ═══════════════════════════════════════════════════════════════════════════════

// TermPosition is a term together with its 1-based position among the terms
// emitted for the same text
type TermPosition struct {
	Term     string
	Position int
}

// Tokenizer turns raw text into normalized, stemmed terms.
//
// A Tokenizer is immutable after construction and safe for concurrent use.
type Tokenizer struct {
	Stopwords       StopwordSet
	RemoveStopwords bool
	Stemmer         Stemmer
}

// NewTokenizer returns a tokenizer that removes the given stopwords.
// A nil stemmer selects the Porter stemmer.
func NewTokenizer(stopwords StopwordSet, stemmer Stemmer) *Tokenizer {
	if stopwords == nil {
		stopwords = make(StopwordSet)
	}
	if stemmer == nil {
		stemmer = PorterStemmer{}
	}
	return &Tokenizer{
		Stopwords:       stopwords,
		RemoveStopwords: true,
		Stemmer:         stemmer,
	}
}

// Tokenize returns the ordered sequence of terms for text
//
// Example (stopwords {the}):
//
//	tok.Tokenize("The quick-brown fox.")
//	// Returns: ["quick", "brown", "fox"]
func (t *Tokenizer) Tokenize(text string) []string {
	text = strings.ToLower(strings.TrimSpace(text))
	text = lineBreaks.Replace(text)

	terms := make([]string, 0)
	for _, word := range strings.Split(text, " ") {
		terms = append(terms, t.analyzeWord(word)...)
	}
	return terms
}

// Preprocess tokenizes text and numbers the terms from 1
func (t *Tokenizer) Preprocess(text string) []TermPosition {
	terms := t.Tokenize(text)
	out := make([]TermPosition, len(terms))
	for i, term := range terms {
		out[i] = TermPosition{Term: term, Position: i + 1}
	}
	return out
}

// analyzeWord runs steps 3-7 of the pipeline on one lowercased word
func (t *Tokenizer) analyzeWord(word string) []string {
	word = trimTrailingPunctuation(word)

	var candidates []string
	for _, sep := range wordSeparators {
		if !strings.ContainsRune(word, sep) {
			continue
		}
		for _, fragment := range strings.Split(word, string(sep)) {
			if term, ok := t.normalize(fragment); ok {
				candidates = append(candidates, term)
			}
		}
		break
	}

	// Nothing survived the split (or nothing was split): fall back to the
	// whole word.
	if len(candidates) == 0 {
		if term, ok := t.normalize(word); ok {
			candidates = append(candidates, term)
		}
	}
	return candidates
}

// normalize cleans, filters and stems a single candidate
func (t *Tokenizer) normalize(candidate string) (string, bool) {
	cleaned := cleanTerm(candidate)
	if cleaned == "" {
		return "", false
	}
	if t.RemoveStopwords && t.Stopwords.Contains(cleaned) {
		return "", false
	}
	return t.Stemmer.Stem(cleaned), true
}

func trimTrailingPunctuation(word string) string {
	if word == "" {
		return word
	}
	last, size := utf8.DecodeLastRuneInString(word)
	if _, ok := trailingPunctuation[last]; ok {
		return word[:len(word)-size]
	}
	return word
}

// cleanTerm drops every rune that is not a letter or a digit
func cleanTerm(term string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsNumber(r) {
			return r
		}
		return -1
	}, term)
}
