package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/chris-donut/donut-investor-pipe/internal/config"
	"github.com/chris-donut/donut-investor-pipe/internal/match"
	"github.com/chris-donut/donut-investor-pipe/internal/model"
	"github.com/chris-donut/donut-investor-pipe/internal/profile"
	"github.com/chris-donut/donut-investor-pipe/internal/store"
)

var (
	cfg          *config.Config
	donutProfile *model.Profile
)

var rootCmd = &cobra.Command{
	Use:   "donut",
	Short: "Investor pipeline for the Donut Labs raise",
	Long:  "Tracks crypto funds and angels, scores them against the company profile, and generates personalized outreach via Claude.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = c

		if err := config.InitLogger(cfg.Log); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}

		p, err := profile.Load(cfg.Profile.Path)
		if err != nil {
			return fmt.Errorf("load profile: %w", err)
		}
		donutProfile = p

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
}

// openStore opens the configured backend and runs migrations.
func openStore(ctx context.Context) (store.Store, error) {
	return store.Open(ctx, cfg.Store.Driver, cfg.Store.DatabaseURL)
}

func newEngine() *match.Engine {
	return match.NewEngine(match.DefaultReferences())
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
