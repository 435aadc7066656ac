package trecsearch

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"sync/atomic"
	"time"

	"golang.org/x/sync/singleflight"
)

// ═══════════════════════════════════════════════════════════════════════════════
// ENGINE: The Single Owner of an Index
// ═══════════════════════════════════════════════════════════════════════════════
// The engine ties the pieces together for the serving and console glue:
//
//	collection file ──TagScanner──> Tokenizer ──> InvertedIndex ──> index file
//	                                                    │
//	query ──Tokenizer──> QueryWithTerm / QueryWithTfIdf ┘
//	                                 │
//	                                 └──> PRF re-scan of the collection
//
// LIFECYCLE:
// ----------
//  1. NewEngine loads the stopword list (fatal when missing)
//  2. BuildIndex or LoadIndex (or Open, which picks one) installs an index
//  3. Queries read the installed index; it is never mutated afterwards
//
// An index is installed only after the whole build or load succeeded, so a
// failed load leaves the engine without an index and every query reports
// ErrIndexNotLoaded. The collection file is opened and closed by each
// operation that needs it; no raw document text is kept between calls.
// ═══════════════════════════════════════════════════════════════════════════════

// Query method names used in logs and metrics
const (
	MethodTerm  = "term"
	MethodTfIdf = "tfidf"
)

// Engine builds, loads and queries one index over one collection
type Engine struct {
	cfg       Config
	tokenizer *Tokenizer
	logger    *slog.Logger
	metrics   *Metrics

	index   atomic.Pointer[InvertedIndex]
	lookups singleflight.Group
}

// Option configures an Engine
type Option func(*Engine)

// WithLogger sets the logger (slog.Default otherwise)
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithMetrics records engine activity on m
func WithMetrics(m *Metrics) Option {
	return func(e *Engine) {
		e.metrics = m
	}
}

// NewEngine creates an engine for cfg. It fails when the stopword file is
// missing, since tokenization depends on it.
func NewEngine(cfg Config, opts ...Option) (*Engine, error) {
	stemmer, err := NewStemmer(cfg.Stemmer)
	if err != nil {
		return nil, err
	}
	stopwords, err := LoadStopwords(cfg.StopwordPath)
	if err != nil {
		return nil, err
	}

	tokenizer := NewTokenizer(stopwords, stemmer)
	tokenizer.RemoveStopwords = cfg.RemoveStopwords

	e := &Engine{
		cfg:       cfg,
		tokenizer: tokenizer,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	e.logger = e.logger.With("component", "engine")
	return e, nil
}

// Config returns the engine configuration
func (e *Engine) Config() Config {
	return e.cfg
}

// Tokenizer returns the tokenizer shared by indexing and querying
func (e *Engine) Tokenizer() *Tokenizer {
	return e.tokenizer
}

// Index returns the installed index, or nil before a successful build or load
func (e *Engine) Index() *InvertedIndex {
	return e.index.Load()
}

func (e *Engine) install(idx *InvertedIndex) {
	e.index.Store(idx)
	e.metrics.observeIndex(idx)
}

// BuildIndex scans the whole collection, writes the index file and installs
// the new index
func (e *Engine) BuildIndex() error {
	started := time.Now()
	e.logger.Info("building index", slog.String("collection", e.cfg.CollectionPath))

	f, err := e.openCollection()
	if err != nil {
		return err
	}
	defer f.Close()

	idx, err := IndexCollection(f, e.tokenizer)
	if err != nil {
		return fmt.Errorf("building index from %s: %w", e.cfg.CollectionPath, err)
	}
	e.metrics.observeScan(idx.TotalNumOfDoc)

	if err := SaveIndexFile(e.cfg.IndexPath, idx); err != nil {
		return err
	}

	e.install(idx)
	e.logger.Info("index built",
		slog.Int("terms", idx.Len()),
		slog.Int("documents", idx.TotalNumOfDoc),
		slog.String("path", e.cfg.IndexPath),
		slog.Duration("took", time.Since(started)))
	return nil
}

// LoadIndex reads the index file and installs it.
// TotalNumOfDoc is recomputed from the loaded postings.
func (e *Engine) LoadIndex() error {
	started := time.Now()

	idx, err := LoadIndexFile(e.cfg.IndexPath)
	if err != nil {
		return err
	}

	e.install(idx)
	e.logger.Info("index loaded",
		slog.Int("terms", idx.Len()),
		slog.Int("documents", idx.TotalNumOfDoc),
		slog.String("path", e.cfg.IndexPath),
		slog.Duration("took", time.Since(started)))
	return nil
}

// Open loads the index file when it exists and builds it otherwise
func (e *Engine) Open() error {
	if _, err := os.Stat(e.cfg.IndexPath); err == nil {
		e.logger.Info("index file exists, skipping indexing", slog.String("path", e.cfg.IndexPath))
		return e.LoadIndex()
	} else if !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("checking index file %s: %w", e.cfg.IndexPath, err)
	}

	e.logger.Info("index file does not exist, building", slog.String("path", e.cfg.IndexPath))
	return e.BuildIndex()
}

// QueryWithTerm returns the documents containing any query term, in no
// particular order
func (e *Engine) QueryWithTerm(query string) ([]int, error) {
	idx := e.Index()
	if idx == nil {
		return nil, ErrIndexNotLoaded
	}
	defer e.metrics.observeQuery(MethodTerm, time.Now())

	docIDs := QueryWithTerm(idx, e.tokenizer, query)
	e.logger.Debug("term query", slog.String("query", query), slog.Int("matches", len(docIDs)))
	return docIDs, nil
}

// TfIdfOptions bounds a ranked query
type TfIdfOptions struct {
	TopDocs        int // ranked documents returned
	SuggestedTerms int // expansion terms returned
	PRFDocs        int // top documents used as feedback
}

// DefaultTfIdfOptions returns the configured query limits
func (e *Engine) DefaultTfIdfOptions() TfIdfOptions {
	return TfIdfOptions{
		TopDocs:        e.cfg.Search.TopDocs,
		SuggestedTerms: e.cfg.Search.SuggestedTerms,
		PRFDocs:        e.cfg.Search.PRFDocs,
	}
}

// TfIdfResult is the answer to a ranked query
type TfIdfResult struct {
	Documents   []ScoredDocument `json:"documents"`
	Suggestions []ScoredTerm     `json:"suggestions"`
}

// QueryWithTfIdf ranks documents for query and suggests expansion terms from
// the top PRFDocs documents of the full ranking
func (e *Engine) QueryWithTfIdf(query string, opts TfIdfOptions) (TfIdfResult, error) {
	idx := e.Index()
	if idx == nil {
		return TfIdfResult{}, ErrIndexNotLoaded
	}
	defer e.metrics.observeQuery(MethodTfIdf, time.Now())

	ranked := RankTfIdf(idx, e.tokenizer.Tokenize(query))

	suggestions, err := e.suggest(idx, ranked, opts)
	if err != nil {
		return TfIdfResult{}, err
	}

	e.logger.Debug("tfidf query",
		slog.String("query", query),
		slog.Int("matches", len(ranked)),
		slog.Int("suggestions", len(suggestions)))
	return TfIdfResult{
		Documents:   limitResults(ranked, opts.TopDocs),
		Suggestions: suggestions,
	}, nil
}

// suggest runs pseudo-relevance feedback over a fresh scan of the collection
func (e *Engine) suggest(idx *InvertedIndex, ranked []ScoredDocument, opts TfIdfOptions) ([]ScoredTerm, error) {
	targets := FeedbackTargets(ranked, opts.PRFDocs)
	if targets.IsEmpty() {
		return []ScoredTerm{}, nil
	}

	f, err := e.openCollection()
	if err != nil {
		return nil, err
	}
	defer f.Close()

	feedback, err := BuildFeedbackIndex(f, e.tokenizer, targets)
	if err != nil {
		return nil, fmt.Errorf("feedback scan of %s: %w", e.cfg.CollectionPath, err)
	}
	e.metrics.observeFeedbackScan()

	return SuggestTerms(idx, feedback, opts.SuggestedTerms), nil
}

func (e *Engine) openCollection() (*os.File, error) {
	f, err := os.Open(e.cfg.CollectionPath) // #nosec G304 -- path comes from engine configuration
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrCollectionNotFound, e.cfg.CollectionPath)
		}
		return nil, fmt.Errorf("opening collection %s: %w", e.cfg.CollectionPath, err)
	}
	return f, nil
}
