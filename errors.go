package trecsearch

import (
	"errors"
	"fmt"
)

// Sentinel errors for the failure kinds the engine reports.
var (
	// ErrCollectionNotFound is returned when the collection file does not exist
	ErrCollectionNotFound = errors.New("collection not found")

	// ErrIndexFileNotFound is returned by a load when the index file does not exist
	ErrIndexFileNotFound = errors.New("index file not found")

	// ErrIndexFileMalformed is returned when a line of a persisted index violates the format
	ErrIndexFileMalformed = errors.New("index file malformed")

	// ErrInvalidDocumentID is returned when a document ID is not an integer
	ErrInvalidDocumentID = errors.New("invalid document id")

	// ErrDocumentNotFound is returned when a document ID is absent from the collection
	ErrDocumentNotFound = errors.New("document not found")

	// ErrStopwordFileMissing is returned when the stopword list cannot be opened
	ErrStopwordFileMissing = errors.New("stopword file missing")

	// ErrMalformedCollection is returned when a <DOCNO> region does not hold a document number
	ErrMalformedCollection = errors.New("malformed collection")

	// ErrIndexNotLoaded is returned when the engine is queried before a build or load succeeded
	ErrIndexNotLoaded = errors.New("index not loaded")
)

// IndexFormatError describes the offending line of a persisted index.
type IndexFormatError struct {
	Line   int
	Text   string
	Reason string
}

func (e *IndexFormatError) Error() string {
	return fmt.Sprintf("index file malformed at line %d (%q): %s", e.Line, e.Text, e.Reason)
}

func (e *IndexFormatError) Is(target error) bool {
	return target == ErrIndexFileMalformed
}

// DocumentNotFoundError represents a lookup for a docID the collection does not hold
type DocumentNotFoundError struct {
	DocID int
}

func (e *DocumentNotFoundError) Error() string {
	return fmt.Sprintf("document with ID %d not found", e.DocID)
}

func (e *DocumentNotFoundError) Is(target error) bool {
	return target == ErrDocumentNotFound
}

// InvalidDocumentIDError keeps the raw value that failed to parse
type InvalidDocumentIDError struct {
	Raw string
}

func (e *InvalidDocumentIDError) Error() string {
	return fmt.Sprintf("invalid document id %q: must be an integer", e.Raw)
}

func (e *InvalidDocumentIDError) Is(target error) bool {
	return target == ErrInvalidDocumentID
}

// DocNoError reports a <DOCNO> region whose content is not a document number.
type DocNoError struct {
	Raw string
}

func (e *DocNoError) Error() string {
	return fmt.Sprintf("malformed collection: docno %q is not a document number", e.Raw)
}

func (e *DocNoError) Is(target error) bool {
	return target == ErrMalformedCollection
}
