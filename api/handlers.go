package api

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/wizenheimer/trecsearch"
)

// API holds dependencies for API handlers
type API struct {
	engine *trecsearch.Engine
}

// NewAPI creates a new API handler structure.
func NewAPI(engine *trecsearch.Engine) *API {
	return &API{engine: engine}
}

// RouterOptions configures NewRouter
type RouterOptions struct {
	AllowedOrigin string
	Logger        *slog.Logger
	Gatherer      prometheus.Gatherer // exposes /metrics when set
}

// NewRouter returns a gin engine with middleware and every route installed
func NewRouter(engine *trecsearch.Engine, opts RouterOptions) *gin.Engine {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	router := gin.New()
	router.Use(gin.Recovery(), RequestIDMiddleware(), LoggingMiddleware(logger.With("component", "api")))
	if opts.AllowedOrigin != "" {
		router.Use(CORSMiddleware(opts.AllowedOrigin))
	}

	SetupRoutes(router, engine)

	if opts.Gatherer != nil {
		router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(opts.Gatherer, promhttp.HandlerOpts{})))
	}
	return router
}

// SetupRoutes defines the search and document routes.
func SetupRoutes(router *gin.Engine, engine *trecsearch.Engine) {
	apiHandler := NewAPI(engine)

	router.GET("/health", apiHandler.HealthCheckHandler)
	router.GET("/search", apiHandler.SearchHandler)
	router.GET("/document", apiHandler.GetDocumentHandler)
}

// SearchResponse is the body of a successful /search request
type SearchResponse struct {
	Method      string                  `json:"method"`
	Query       string                  `json:"query"`
	Results     []int                   `json:"results"`
	Suggestions []trecsearch.ScoredTerm `json:"suggestions,omitempty"`
}

// SearchHandler answers GET /search?q=<query>&method=term|tfidf.
// The method defaults to term. TF-IDF results are ranked best first and come
// with suggested expansion terms.
func (api *API) SearchHandler(c *gin.Context) {
	query := c.Query("q")
	method := c.DefaultQuery("method", trecsearch.MethodTerm)

	if query == "" {
		SendError(c, http.StatusBadRequest, ErrorCodeMissingQuery, `Missing query parameter "q"`)
		return
	}

	switch method {
	case trecsearch.MethodTerm:
		docIDs, err := api.engine.QueryWithTerm(query)
		if err != nil {
			SendEngineError(c, err)
			return
		}
		c.JSON(http.StatusOK, SearchResponse{Method: method, Query: query, Results: docIDs})

	case trecsearch.MethodTfIdf:
		result, err := api.engine.QueryWithTfIdf(query, api.engine.DefaultTfIdfOptions())
		if err != nil {
			SendEngineError(c, err)
			return
		}

		docIDs := make([]int, len(result.Documents))
		for i, doc := range result.Documents {
			docIDs[i] = doc.DocID
		}
		c.JSON(http.StatusOK, SearchResponse{
			Method:      method,
			Query:       query,
			Results:     docIDs,
			Suggestions: result.Suggestions,
		})

	default:
		SendError(c, http.StatusBadRequest, ErrorCodeInvalidMethod, `Invalid method. Use "term" or "tfidf".`)
	}
}

// GetDocumentHandler answers GET /document?id=<docID> with the document's
// headline and content, read from the collection file
func (api *API) GetDocumentHandler(c *gin.Context) {
	raw, ok := c.GetQuery("id")
	if !ok {
		SendError(c, http.StatusBadRequest, ErrorCodeMissingDocumentID, `Missing document ID parameter "id"`)
		return
	}

	doc, err := api.engine.LookupDocument(raw)
	if err != nil {
		SendEngineError(c, err)
		return
	}
	c.JSON(http.StatusOK, doc)
}

// HealthCheckHandler reports whether an index is installed
func (api *API) HealthCheckHandler(c *gin.Context) {
	idx := api.engine.Index()
	if idx == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "starting"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status":    "ok",
		"terms":     idx.Len(),
		"documents": idx.TotalNumOfDoc,
	})
}
