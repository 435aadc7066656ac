package trecsearch

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// ═══════════════════════════════════════════════════════════════════════════════
// SERIALIZATION: Saving and Loading the Index
// ═══════════════════════════════════════════════════════════════════════════════
// The index is stored as plain text so that other processes (and people) can
// read it:
//
//	cat:1
//		1: 2
//
//	sat:2
//		1: 3
//		2: 2
//
// FORMAT STRUCTURE:
// -----------------
// For each term, in ascending byte order:
//
//	<term>:<documentFrequency>
//	\t<docID>: <pos1>,<pos2>,...     (one line per posting, ascending docID)
//	<blank line>
//
// LOADING RULES:
// --------------
//   - entries end at blank lines; any number of blank lines may separate them
//   - postings are kept in file order (the loader does not sort)
//   - document frequencies are taken from the header lines as written
//   - TotalNumOfDoc is NOT stored: it is recomputed as the number of distinct
//     docIDs appearing in any postings list
//   - any line that does not fit the grammar aborts the whole load
// ═══════════════════════════════════════════════════════════════════════════════

// Encode writes the index in the text format
func (idx *InvertedIndex) Encode(w io.Writer) error {
	bw := bufio.NewWriter(w)
	for _, term := range idx.Terms() {
		if err := encodeTerm(bw, term, idx.DocumentFrequency[term], idx.Postings[term]); err != nil {
			return err
		}
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("writing index: %w", err)
	}
	return nil
}

func encodeTerm(w *bufio.Writer, term string, df int, postings *PostingsList) error {
	var line strings.Builder
	line.WriteString(term)
	line.WriteByte(':')
	line.WriteString(strconv.Itoa(df))
	line.WriteByte('\n')

	for posting := range postings.All() {
		line.WriteByte('\t')
		line.WriteString(strconv.Itoa(posting.DocID))
		line.WriteString(": ")
		for i, pos := range posting.Positions {
			if i > 0 {
				line.WriteByte(',')
			}
			line.WriteString(strconv.Itoa(pos))
		}
		line.WriteByte('\n')
	}
	line.WriteByte('\n')

	if _, err := w.WriteString(line.String()); err != nil {
		return fmt.Errorf("writing index term %q: %w", term, err)
	}
	return nil
}

// DecodeIndex reads an index in the text format.
// On error no partially loaded index is returned.
func DecodeIndex(r io.Reader) (*InvertedIndex, error) {
	idx := NewInvertedIndex()
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 64*1024*1024)

	var (
		current *PostingsList
		term    string
		lineNo  int
	)
	for scanner.Scan() {
		lineNo++
		text := scanner.Text()
		if strings.TrimSpace(text) == "" {
			current = nil
			continue
		}

		if current == nil {
			t, df, err := parseHeader(text)
			if err != nil {
				return nil, &IndexFormatError{Line: lineNo, Text: text, Reason: err.Error()}
			}
			if _, dup := idx.Postings[t]; dup {
				return nil, &IndexFormatError{Line: lineNo, Text: text, Reason: "duplicate term"}
			}
			term = t
			current = idx.postingsFor(term)
			idx.DocumentFrequency[term] = df
			continue
		}

		posting, err := parsePosting(text)
		if err != nil {
			return nil, &IndexFormatError{Line: lineNo, Text: text, Reason: err.Error()}
		}
		current.Append(posting)
		idx.DocBitmaps[term].Add(uint32(posting.DocID))
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading index: %w", err)
	}

	idx.TotalNumOfDoc = idx.DistinctDocuments()
	return idx, nil
}

// parseHeader parses "term:df"
func parseHeader(line string) (string, int, error) {
	term, rest, ok := strings.Cut(strings.TrimSpace(line), ":")
	if !ok {
		return "", 0, fmt.Errorf("header has no ':' separator")
	}
	if term == "" {
		return "", 0, fmt.Errorf("empty term")
	}
	df, err := strconv.Atoi(strings.TrimSpace(rest))
	if err != nil {
		return "", 0, fmt.Errorf("document frequency: %w", err)
	}
	if df < 1 {
		return "", 0, fmt.Errorf("document frequency %d is not positive", df)
	}
	return term, df, nil
}

// parsePosting parses "\tdocID: p1,p2,..."
func parsePosting(line string) (*Posting, error) {
	docPart, posPart, ok := strings.Cut(strings.TrimSpace(line), ":")
	if !ok {
		return nil, fmt.Errorf("posting has no ':' separator")
	}
	docID, err := strconv.Atoi(strings.TrimSpace(docPart))
	if err != nil {
		return nil, fmt.Errorf("docID: %w", err)
	}
	if !fitsDocID(docID) {
		return nil, fmt.Errorf("docID %d out of range", docID)
	}

	fields := strings.Split(strings.TrimSpace(posPart), ",")
	positions := make([]int, len(fields))
	for i, field := range fields {
		pos, err := strconv.Atoi(strings.TrimSpace(field))
		if err != nil {
			return nil, fmt.Errorf("position: %w", err)
		}
		positions[i] = pos
	}
	return &Posting{DocID: docID, Positions: positions}, nil
}

// SaveIndexFile writes idx to path, replacing any existing file.
// The file is written next to path first and renamed into place.
func SaveIndexFile(path string, idx *InvertedIndex) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create file for %s: %w", path, err)
	}
	defer os.Remove(tmp.Name())

	if err := idx.Encode(tmp); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", tmp.Name(), err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("failed to replace %s: %w", path, err)
	}
	return nil
}

// LoadIndexFile reads the index stored at path
func LoadIndexFile(path string) (*InvertedIndex, error) {
	f, err := os.Open(path) // #nosec G304 -- path comes from engine configuration
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s: %w", ErrIndexFileNotFound, path, err)
		}
		return nil, fmt.Errorf("failed to open index file %s: %w", path, err)
	}
	defer f.Close()

	idx, err := DecodeIndex(f)
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", path, err)
	}
	return idx, nil
}
