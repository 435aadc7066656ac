package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/wizenheimer/trecsearch"
)

var (
	cfgFile        string
	collectionPath string
	indexPath      string
	stopwordPath   string
)

var rootCmd = &cobra.Command{
	Use:           "trecsearch",
	Short:         "trecsearch indexes and searches a TREC-style collection",
	Long:          "trecsearch builds a positional inverted index over a TREC-style collection and answers term and TF-IDF queries from a console or over HTTP.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "YAML config file")
	rootCmd.PersistentFlags().StringVar(&collectionPath, "collection-path", "", "collection file to index")
	rootCmd.PersistentFlags().StringVar(&indexPath, "index-path", "", "index file to load or write")
	rootCmd.PersistentFlags().StringVar(&stopwordPath, "stopword-path", "", "newline-delimited stopword list")
}

// Execute runs the root command and exits non-zero on failure
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// app is what every subcommand needs once configuration is resolved
type app struct {
	cfg      trecsearch.Config
	logger   *slog.Logger
	registry *prometheus.Registry
	engine   *trecsearch.Engine
}

// newApp loads the configuration, applies command line overrides and creates
// the engine. No index is built or loaded yet.
func newApp() (*app, error) {
	cfg, err := trecsearch.LoadConfig(cfgFile)
	if err != nil {
		return nil, err
	}
	if collectionPath != "" {
		cfg.CollectionPath = collectionPath
	}
	if indexPath != "" {
		cfg.IndexPath = indexPath
	}
	if stopwordPath != "" {
		cfg.StopwordPath = stopwordPath
	}

	logger := trecsearch.NewLogger(cfg.Logging, os.Stderr)
	slog.SetDefault(logger)

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	engine, err := trecsearch.NewEngine(cfg,
		trecsearch.WithLogger(logger),
		trecsearch.WithMetrics(trecsearch.NewMetrics(registry)))
	if err != nil {
		return nil, err
	}

	return &app{cfg: cfg, logger: logger, registry: registry, engine: engine}, nil
}
