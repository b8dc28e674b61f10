// Package app wires configuration, storage and transport into runnable components.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"

	"github.com/go-chi/httplog/v2"
	"github.com/vadimbarashkov/linkboard/internal/config"
	"github.com/vadimbarashkov/linkboard/internal/service"
	"golang.org/x/sync/errgroup"

	myhttp "github.com/vadimbarashkov/linkboard/internal/api/http"
)

// NewLogger builds the structured logger shared by the server and the session.
func NewLogger(cfg *config.Config, w io.Writer) *httplog.Logger {
	return httplog.NewLogger("linkboard", httplog.Options{
		JSON:           cfg.Env == config.EnvProd,
		LogLevel:       cfg.SlogLevel(),
		Concise:        cfg.Env == config.EnvDev,
		RequestHeaders: cfg.Env != config.EnvProd,
		Writer:         w,
	})
}

// NewServer builds the metadata HTTP server. BaseContext of the returned server is ctx.
func NewServer(ctx context.Context, cfg *config.Config, logger *httplog.Logger) *http.Server {
	fetcher := &http.Client{}
	metadataSvc := service.NewMetadataService(fetcher, cfg.Fetcher.UserAgent, cfg.Fetcher.MaxBodyBytes)

	return &http.Server{
		Addr:           cfg.HTTPServer.Addr(),
		Handler:        myhttp.NewRouter(logger, metadataSvc),
		ReadTimeout:    cfg.HTTPServer.ReadTimeout,
		WriteTimeout:   cfg.HTTPServer.WriteTimeout,
		IdleTimeout:    cfg.HTTPServer.IdleTimeout,
		MaxHeaderBytes: cfg.HTTPServer.MaxHeaderBytes,
		BaseContext: func(_ net.Listener) context.Context {
			return ctx
		},
	}
}

// Serve runs the metadata server until ctx is done.
func Serve(ctx context.Context, cfg *config.Config, logger *httplog.Logger) error {
	const op = "app.Serve"

	server := NewServer(ctx, cfg, logger)

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		var err error

		logger.Info("starting metadata server", "addr", server.Addr, "env", cfg.Env)

		switch cfg.Env {
		case config.EnvProd:
			err = server.ListenAndServeTLS(cfg.HTTPServer.CertFile, cfg.HTTPServer.KeyFile)
		default:
			err = server.ListenAndServe()
		}

		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("%s: server error occurred: %w", op, err)
		}

		return nil
	})

	g.Go(func() error {
		<-ctx.Done()

		if err := server.Shutdown(context.Background()); err != nil {
			return fmt.Errorf("%s: failed to shutdown server: %w", op, err)
		}

		logger.Info("metadata server stopped")

		return nil
	})

	return g.Wait()
}
