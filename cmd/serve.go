package main

import (
	"fmt"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/chris-donut/donut-investor-pipe/internal/api"
	"github.com/chris-donut/donut-investor-pipe/internal/outreach"
	"github.com/chris-donut/donut-investor-pipe/pkg/anthropic"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the pipeline HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		st, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		engine := newEngine()

		// Outreach endpoints need an API key; everything else works without.
		var gen *outreach.Generator
		if cfg.Anthropic.Key != "" {
			gen = outreach.NewGenerator(
				anthropic.NewClient(cfg.Anthropic.Key),
				st, engine, donutProfile,
				outreach.Config{
					Model:          cfg.Anthropic.Model,
					MaxTokens:      cfg.Anthropic.MaxTokens,
					ReportsDir:     cfg.Outreach.ReportsDir,
					RequestsPerMin: cfg.Outreach.RequestsPerMin,
					MaxRetries:     cfg.Outreach.MaxRetries,
				},
			)
		} else {
			zap.L().Warn("anthropic key not configured, outreach endpoints disabled")
		}

		port := servePort
		if port == 0 {
			port = cfg.Server.Port
		}

		srv := &http.Server{
			Addr:    fmt.Sprintf(":%d", port),
			Handler: api.NewServer(st, engine, gen, donutProfile).Router(),
		}

		go func() {
			<-ctx.Done()
			zap.L().Info("shutting down server")
			srv.Shutdown(ctx)
		}()

		zap.L().Info("starting server", zap.Int("port", port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return eris.Wrap(err, "server listen")
		}

		return nil
	},
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "server port (default from config)")
	rootCmd.AddCommand(serveCmd)
}
