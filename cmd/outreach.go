package main

import (
	"context"
	"fmt"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/chris-donut/donut-investor-pipe/internal/match"
	"github.com/chris-donut/donut-investor-pipe/internal/model"
	"github.com/chris-donut/donut-investor-pipe/internal/outreach"
	"github.com/chris-donut/donut-investor-pipe/internal/store"
	"github.com/chris-donut/donut-investor-pipe/pkg/anthropic"
)

var (
	outreachType     string
	outreachID       string
	outreachTop      int
	outreachMutual   string
	outreachDays     int
	outreachPrevious string
)

var outreachCmd = &cobra.Command{
	Use:   "outreach",
	Short: "Generate personalized outreach for an investor or the top-ranked set",
	Long: `Generates outreach content via Claude and saves each piece as a markdown
report plus a logged interaction. Target one investor with --id or the
top-ranked N with --top.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		if cfg.Anthropic.Key == "" {
			return eris.New("anthropic key not configured (set DONUT_ANTHROPIC_KEY)")
		}
		if outreachID == "" && outreachTop <= 0 {
			return eris.New("either --id or --top is required")
		}

		st, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		engine := newEngine()
		gen := outreach.NewGenerator(
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

		targets, err := resolveTargets(ctx, st, engine)
		if err != nil {
			return err
		}

		for _, inv := range targets {
			if err := generateFor(ctx, gen, &inv); err != nil {
				zap.L().Error("outreach generation failed",
					zap.String("investor", inv.Name),
					zap.Error(err))
				continue
			}
		}
		return nil
	},
}

// resolveTargets picks the investors to generate for: a single one by id,
// or the top-ranked N.
func resolveTargets(ctx context.Context, st store.Store, engine *match.Engine) ([]model.Investor, error) {
	if outreachID != "" {
		inv, err := st.GetInvestor(ctx, outreachID)
		if err != nil {
			return nil, err
		}
		return []model.Investor{*inv}, nil
	}

	results, err := match.NewRanker(engine, st).Rank(ctx, donutProfile)
	if err != nil {
		return nil, err
	}
	if outreachTop < len(results) {
		results = results[:outreachTop]
	}
	targets := make([]model.Investor, len(results))
	for i, res := range results {
		targets[i] = *res.Investor
	}
	return targets, nil
}

func generateFor(ctx context.Context, gen *outreach.Generator, inv *model.Investor) error {
	var (
		out *outreach.Generated
		err error
	)
	switch outreach.Type(outreachType) {
	case outreach.TypeColdEmail:
		out, err = gen.ColdEmail(ctx, inv)
	case outreach.TypeTwitterDM:
		out, err = gen.TwitterDM(ctx, inv)
	case outreach.TypeIntroRequest:
		if outreachMutual == "" {
			return eris.New("--mutual is required for intro_request")
		}
		out, err = gen.IntroRequest(ctx, inv, outreachMutual)
	case outreach.TypeFollowUp:
		out, err = gen.FollowUp(ctx, inv, outreachDays, outreachPrevious)
	case outreach.TypeTalkingPoints:
		out, err = gen.TalkingPoints(ctx, inv)
	default:
		return eris.Errorf("unknown outreach type %q", outreachType)
	}
	if err != nil {
		return err
	}

	path, err := gen.SaveReport(out)
	if err != nil {
		return err
	}
	if err := gen.RecordInteraction(ctx, out, inv.ID); err != nil {
		return err
	}

	fmt.Printf("%s → %s\n", inv.Name, path)
	return nil
}

func init() {
	outreachCmd.Flags().StringVar(&outreachType, "type", "cold_email",
		"outreach type: cold_email, twitter_dm, intro_request, follow_up, talking_points")
	outreachCmd.Flags().StringVar(&outreachID, "id", "", "target a single investor by id")
	outreachCmd.Flags().IntVar(&outreachTop, "top", 0, "target the top-ranked N investors")
	outreachCmd.Flags().StringVar(&outreachMutual, "mutual", "", "mutual connection name (intro_request)")
	outreachCmd.Flags().IntVar(&outreachDays, "days", 7, "days since last contact (follow_up)")
	outreachCmd.Flags().StringVar(&outreachPrevious, "previous", "", "previous conversation context (follow_up)")
	rootCmd.AddCommand(outreachCmd)
}
