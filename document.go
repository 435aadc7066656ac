package trecsearch

import (
	"errors"
	"strconv"
	"strings"

	"github.com/RoaringBitmap/roaring"
)

// Document is a collection document rebuilt from the raw file on demand
type Document struct {
	DocID    int    `json:"doc_id"`
	Headline string `json:"headline"`
	Content  string `json:"content"`
}

// ParseDocumentID parses a document ID supplied by a caller
func ParseDocumentID(raw string) (int, error) {
	id, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, &InvalidDocumentIDError{Raw: raw}
	}
	return id, nil
}

// LookupDocument parses raw and returns the document it names
func (e *Engine) LookupDocument(raw string) (Document, error) {
	docID, err := ParseDocumentID(raw)
	if err != nil {
		e.metrics.observeLookup("invalid")
		return Document{}, err
	}
	return e.GetDocument(docID)
}

// GetDocument scans the collection for docID and returns its headline and
// content. The collection is read afresh on every call; concurrent lookups of
// the same docID share one scan.
func (e *Engine) GetDocument(docID int) (Document, error) {
	v, err, _ := e.lookups.Do(strconv.Itoa(docID), func() (any, error) {
		return e.findDocument(docID)
	})
	if err != nil {
		if errors.Is(err, ErrDocumentNotFound) {
			e.metrics.observeLookup("not_found")
		} else {
			e.metrics.observeLookup("error")
		}
		return Document{}, err
	}

	e.metrics.observeLookup("found")
	return v.(Document), nil
}

func (e *Engine) findDocument(docID int) (Document, error) {
	if !fitsDocID(docID) {
		return Document{}, &DocumentNotFoundError{DocID: docID}
	}

	f, err := e.openCollection()
	if err != nil {
		return Document{}, err
	}
	defer f.Close()

	target := roaring.BitmapOf(uint32(docID))
	scanner := NewTagScanner(f, WithTargets(target), WithLenientDocNo())
	if scanner.Scan() {
		rec := scanner.Record()
		return Document{
			DocID:    rec.DocID,
			Headline: strings.TrimSpace(rec.Headline),
			Content:  strings.TrimSpace(rec.Content),
		}, nil
	}
	if err := scanner.Err(); err != nil {
		return Document{}, err
	}
	return Document{}, &DocumentNotFoundError{DocID: docID}
}
