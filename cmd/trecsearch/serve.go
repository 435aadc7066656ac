package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/wizenheimer/trecsearch/api"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "serve /search and /document over HTTP",
	Long:  "serve loads the index (building it first when the index file does not exist) and answers HTTP queries until interrupted.",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		if servePort != 0 {
			a.cfg.Server.Port = servePort
		}
		if err := a.engine.Open(); err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return serve(ctx, a)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().IntVarP(&servePort, "port", "p", 0, "port to listen on (overrides the config file)")
}

func serve(ctx context.Context, a *app) error {
	gin.SetMode(gin.ReleaseMode)

	opts := api.RouterOptions{
		AllowedOrigin: a.cfg.Server.AllowedOrigin,
		Logger:        a.logger,
	}
	if a.cfg.Server.MetricsEnabled {
		opts.Gatherer = a.registry
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", a.cfg.Server.Port),
		Handler:           api.NewRouter(a.engine, opts),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("listening", slog.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	a.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
