package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/wizenheimer/trecsearch"
)

// ErrorCode represents standardized error codes for the API
type ErrorCode string

const (
	// Client Error Codes (4xx)
	ErrorCodeMissingQuery      ErrorCode = "MISSING_QUERY"
	ErrorCodeInvalidMethod     ErrorCode = "INVALID_METHOD"
	ErrorCodeMissingDocumentID ErrorCode = "MISSING_DOCUMENT_ID"
	ErrorCodeInvalidDocumentID ErrorCode = "INVALID_DOCUMENT_ID"
	ErrorCodeDocumentNotFound  ErrorCode = "DOCUMENT_NOT_FOUND"

	// Server Error Codes (5xx)
	ErrorCodeIndexNotLoaded     ErrorCode = "INDEX_NOT_LOADED"
	ErrorCodeCollectionNotFound ErrorCode = "COLLECTION_NOT_FOUND"
	ErrorCodeInternalError      ErrorCode = "INTERNAL_ERROR"
)

// APIError is the body of every failed request.
// Error carries the human readable message so that simple clients can show it
// directly.
type APIError struct {
	Error     string    `json:"error"`
	Code      ErrorCode `json:"code"`
	RequestID string    `json:"request_id,omitempty"`
}

// SendError sends a standardized error response
func SendError(c *gin.Context, statusCode int, code ErrorCode, message string) {
	resp := APIError{Error: message, Code: code}
	if id, ok := c.Get(requestIDKey); ok {
		if s, ok := id.(string); ok {
			resp.RequestID = s
		}
	}
	c.AbortWithStatusJSON(statusCode, resp)
}

// SendEngineError maps an engine error onto a status code and error code
func SendEngineError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, trecsearch.ErrInvalidDocumentID):
		SendError(c, http.StatusBadRequest, ErrorCodeInvalidDocumentID, "Invalid document ID format. Must be an integer.")
	case errors.Is(err, trecsearch.ErrDocumentNotFound):
		SendError(c, http.StatusNotFound, ErrorCodeDocumentNotFound, err.Error())
	case errors.Is(err, trecsearch.ErrIndexNotLoaded):
		SendError(c, http.StatusServiceUnavailable, ErrorCodeIndexNotLoaded, err.Error())
	case errors.Is(err, trecsearch.ErrCollectionNotFound):
		SendError(c, http.StatusInternalServerError, ErrorCodeCollectionNotFound, err.Error())
	default:
		SendError(c, http.StatusInternalServerError, ErrorCodeInternalError, err.Error())
	}
}
