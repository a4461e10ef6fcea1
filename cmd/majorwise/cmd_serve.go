package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/majorwise/majorwise/internal/advisor"
	"github.com/majorwise/majorwise/internal/health"
	api "github.com/majorwise/majorwise/internal/http"
	"github.com/majorwise/majorwise/internal/processor"
	"github.com/majorwise/majorwise/internal/storage"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve recommendations over HTTP and NATS",
	Long: `Starts the HTTP API (recommend, rule administration, history, health and
metrics). When nats.enabled is set, fact messages on nats.subject_facts are
answered as well. Recommendation runs are written to Postgres when
storage.write_history is set.`,
	RunE: runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := storage.New(storage.Config{
		PostgresDSN:  cfg.Storage.PostgresDSN,
		WriteHistory: cfg.Storage.WriteHistory,
	})
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer store.Close()

	var opts []advisor.Option
	if store.Enabled() {
		opts = append(opts, advisor.WithRecorder(store))
	}
	adv, err := newAdvisor(opts...)
	if err != nil {
		return err
	}
	defer adv.Close()

	var proc *processor.Processor
	if cfg.NATS.Enabled {
		proc, err = processor.New(cfg.NATS, adv, log.With("component", "processor"))
		if err != nil {
			return err
		}
		defer proc.Close()
		if err := proc.Start(ctx); err != nil {
			return fmt.Errorf("start processor: %w", err)
		}
	}

	var history api.History
	if store.Enabled() {
		history = store
	}

	mux := http.NewServeMux()
	mux.Handle("/health", health.Handler(func() health.Status {
		st := health.Status{Service: cfg.Service.Name, Rules: len(adv.Rules())}
		if proc != nil {
			st.NATS = proc.Status()
		}
		return st
	}))
	mux.Handle("/metrics", promhttp.Handler())
	api.New(adv, history, log.With("component", "http")).Register(mux)

	srv := &http.Server{
		Addr:         cfg.Service.HTTPAddr,
		Handler:      mux,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: cfg.Timeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("majorwise listening", "addr", cfg.Service.HTTPAddr, "nats", cfg.NATS.Enabled, "history", store.Enabled())
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
	}

	ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()

	if err := srv.Shutdown(ctxShutdown); err != nil {
		log.Warn("shutdown", "error", err)
	}
	return nil
}
