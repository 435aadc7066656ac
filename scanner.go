package trecsearch

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/RoaringBitmap/roaring"
)

// ═══════════════════════════════════════════════════════════════════════════════
// TAG SCANNER: Streaming Documents out of a Tagged Collection
// ═══════════════════════════════════════════════════════════════════════════════
// A collection is one large file of loosely tagged documents:
//
//	<DOC>
//	<DOCNO> 12 </DOCNO>
//	<HEADLINE> Cat sits </HEADLINE>
//	<TEXT>
//	The cat sat on the mat.
//	</TEXT>
//	</DOC>
//
// The scanner reads one rune at a time and never builds a tree. It keeps the
// most recent runes (lower-cased) and compares their suffix with the six tags
// it understands; every other tag is ordinary text or ignored.
//
// STATES:
// -------
//
//	Outside ──<headline>──> InHeadline ──</headline>──> Outside
//	Outside ──<text>──────> InText ──────</text>──────> Outside (+ emit)
//
// The DOCNO region is tracked separately and takes precedence: while inside
// it, runes feed the docID buffer instead of any text buffer.
//
// The states above drive Body, the text that gets indexed. Headline and
// Content follow their own open/close flags instead, and TEXT wins: a HEADLINE
// opened inside TEXT keeps feeding Content and leaves Headline empty.
//
// LEAKED TAG PREFIXES:
// --------------------
// A closing tag is only recognized when its final '>' arrives, so "</text"
// has already been appended to the text buffer by then. On every close the
// scanner removes that prefix, but only when the buffer actually ends with it.
//
// EMISSION:
// ---------
// Each </TEXT> closes one document. It is emitted only when a docID has been
// parsed for it (and, with WithTargets, only when the docID is a target).
// A </TEXT> without a docID silently drops the accumulated text.
// ═══════════════════════════════════════════════════════════════════════════════

type scanState int

const (
	stateOutside scanState = iota
	stateHeadline
	stateText
)

type tagKind int

const (
	tagNone tagKind = iota
	tagTextOpen
	tagTextClose
	tagHeadlineOpen
	tagHeadlineClose
	tagDocNoOpen
	tagDocNoClose
)

// recognizedTags is checked in order against the suffix of the window
var recognizedTags = []struct {
	kind tagKind
	text []rune
}{
	{tagTextOpen, []rune("<text>")},
	{tagTextClose, []rune("</text>")},
	{tagHeadlineOpen, []rune("<headline>")},
	{tagHeadlineClose, []rune("</headline>")},
	{tagDocNoOpen, []rune("<docno>")},
	{tagDocNoClose, []rune("</docno>")},
}

// windowSize covers the longest recognized tag
const windowSize = len("</headline>")

// Record is one document extracted from the collection
type Record struct {
	DocID    int
	Body     string // headline text, a newline, then the TEXT content; what gets indexed
	Headline string // content of the last HEADLINE region
	Content  string // content of the TEXT region
}

// ScanOption configures a TagScanner
type ScanOption func(*TagScanner)

// WithTargets restricts emission to documents whose docID is in targets
func WithTargets(targets *roaring.Bitmap) ScanOption {
	return func(s *TagScanner) {
		s.targets = targets
	}
}

// WithLenientDocNo makes an unparseable DOCNO clear the current docID instead
// of aborting the scan
func WithLenientDocNo() ScanOption {
	return func(s *TagScanner) {
		s.lenient = true
	}
}

// TagScanner extracts documents from a collection stream.
//
// Usage follows bufio.Scanner:
//
//	s := NewTagScanner(f)
//	for s.Scan() {
//	    rec := s.Record()
//	}
//	if err := s.Err(); err != nil { ... }
type TagScanner struct {
	r       *bufio.Reader
	targets *roaring.Bitmap
	lenient bool

	window       [windowSize]rune
	state        scanState
	inDoc        bool // inside a DOCNO region
	textOpen     bool
	headlineOpen bool

	docNo    []byte
	body     []byte
	headline []byte
	content  []byte

	docID     int
	hasDocID  bool
	documents int

	record Record
	err    error
	done   bool
}

// NewTagScanner returns a scanner reading from r
func NewTagScanner(r io.Reader, opts ...ScanOption) *TagScanner {
	s := &TagScanner{r: bufio.NewReader(r)}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Record returns the document produced by the last successful Scan
func (s *TagScanner) Record() Record {
	return s.record
}

// Err returns the first error that stopped the scan (nil at a clean EOF)
func (s *TagScanner) Err() error {
	return s.err
}

// Documents returns how many </TEXT> tags have been consumed so far,
// emitted or not
func (s *TagScanner) Documents() int {
	return s.documents
}

// Scan advances to the next emitted document
func (s *TagScanner) Scan() bool {
	if s.done {
		return false
	}

	for {
		r, _, err := s.r.ReadRune()
		if err != nil {
			if err != io.EOF {
				s.err = fmt.Errorf("reading collection: %w", err)
			}
			s.done = true
			return false
		}

		s.push(unicode.ToLower(r))

		switch s.matchTag() {
		case tagTextOpen:
			s.state = stateText
			s.textOpen = true
			s.content = s.content[:0]

		case tagTextClose:
			if s.closeDocument() {
				return true
			}

		case tagHeadlineOpen:
			if s.textOpen {
				s.content = trimLeaked(s.content, "<headline")
			}
			s.state = stateHeadline
			s.headlineOpen = true
			s.headline = s.headline[:0]

		case tagHeadlineClose:
			s.body = append(trimLeaked(s.body, "</headline"), '\n')
			s.headline = trimLeaked(s.headline, "</headline")
			if s.textOpen {
				s.content = trimLeaked(s.content, "</headline")
			}
			s.state = stateOutside
			s.headlineOpen = false

		case tagDocNoOpen:
			s.inDoc = true

		case tagDocNoClose:
			s.inDoc = false
			if err := s.parseDocNo(); err != nil {
				s.err = err
				s.done = true
				return false
			}

		default:
			s.accumulate(r)
		}
	}
}

// closeDocument handles </TEXT> and reports whether a record was produced
func (s *TagScanner) closeDocument() bool {
	s.state = stateOutside
	s.textOpen = false
	s.headlineOpen = false
	emit := s.hasDocID && s.wanted(s.docID)
	if emit {
		s.record = Record{
			DocID:    s.docID,
			Body:     string(trimLeaked(s.body, "</text")),
			Headline: string(s.headline),
			Content:  string(trimLeaked(s.content, "</text")),
		}
	}

	s.body = s.body[:0]
	s.headline = s.headline[:0]
	s.content = s.content[:0]
	s.docNo = s.docNo[:0]
	s.hasDocID = false
	s.documents++
	return emit
}

func (s *TagScanner) wanted(docID int) bool {
	if s.targets == nil {
		return true
	}
	return fitsDocID(docID) && s.targets.Contains(uint32(docID))
}

// parseDocNo turns the DOCNO buffer into the current docID.
// The buffer is not cleared here; it is reset when the document closes.
func (s *TagScanner) parseDocNo() error {
	raw := string(trimLeaked(s.docNo, "</docno"))
	trimmed := strings.TrimSpace(strings.ToLower(raw))

	id, err := strconv.Atoi(trimmed)
	if err == nil && !fitsDocID(id) {
		err = strconv.ErrRange
	}
	if err != nil {
		if s.lenient {
			s.hasDocID = false
			return nil
		}
		return &DocNoError{Raw: trimmed}
	}

	s.docID = id
	s.hasDocID = true
	return nil
}

func (s *TagScanner) accumulate(r rune) {
	switch {
	case s.inDoc:
		s.docNo = utf8.AppendRune(s.docNo, r)
		return
	case s.state != stateOutside:
		s.body = utf8.AppendRune(s.body, r)
	}

	switch {
	case s.textOpen:
		s.content = utf8.AppendRune(s.content, r)
	case s.headlineOpen:
		s.headline = utf8.AppendRune(s.headline, r)
	}
}

// fitsDocID reports whether id can be stored in a roaring bitmap
func fitsDocID(id int) bool {
	return id >= 0 && uint64(id) <= math.MaxUint32
}

// push shifts r into the window
func (s *TagScanner) push(r rune) {
	copy(s.window[:], s.window[1:])
	s.window[windowSize-1] = r
}

func (s *TagScanner) matchTag() tagKind {
	for _, tag := range recognizedTags {
		if s.windowEndsWith(tag.text) {
			return tag.kind
		}
	}
	return tagNone
}

func (s *TagScanner) windowEndsWith(tag []rune) bool {
	offset := windowSize - len(tag)
	for i, r := range tag {
		if s.window[offset+i] != r {
			return false
		}
	}
	return true
}

// trimLeaked removes prefix from the end of buf when buf ends with it
// (ASCII case-insensitively)
func trimLeaked(buf []byte, prefix string) []byte {
	if len(buf) < len(prefix) {
		return buf
	}
	tail := buf[len(buf)-len(prefix):]
	if !strings.EqualFold(string(tail), prefix) {
		return buf
	}
	return buf[:len(buf)-len(prefix)]
}
