package cli

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/dgallion1/timeliner/internal/api"
	"github.com/dgallion1/timeliner/internal/config"
	"github.com/dgallion1/timeliner/internal/pipeline"
	"github.com/dgallion1/timeliner/internal/store"
)

// ServeCmd starts the HTTP extraction service.
func ServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the timeliner HTTP service",
		RunE: func(cmd *cobra.Command, args []string) error {
			log := slog.New(slog.NewJSONHandler(os.Stdout, nil))

			cfg, err := config.Load()
			if err != nil {
				return err
			}
			gen, err := newGenerator(cfg)
			if err != nil {
				return err
			}

			ts, err := store.Open(cfg.DBPath)
			if err != nil {
				return err
			}

			ctx, cancel := context.WithCancel(cmd.Context())
			defer cancel()

			orch := pipeline.NewOrchestrator(cfg, gen, ts, log)
			orch.Start(ctx)

			srv := api.NewServer(orch, ts, gen, log, cfg)
			httpServer := &http.Server{
				Addr:         ":" + cfg.Port,
				Handler:      srv,
				ReadTimeout:  30 * time.Second,
				WriteTimeout: 120 * time.Second,
				IdleTimeout:  60 * time.Second,
			}

			// Graceful shutdown.
			go func() {
				sigCh := make(chan os.Signal, 1)
				signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
				<-sigCh
				log.Info("shutting down...")

				orch.Stop()

				shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
				defer shutdownCancel()
				httpServer.Shutdown(shutdownCtx)

				ts.Close()
			}()

			log.Info("starting timeliner", "port", cfg.Port, "provider", cfg.Provider, "model", gen.Model())
			if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				return err
			}
			return nil
		},
	}
}
