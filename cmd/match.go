package main

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/chris-donut/donut-investor-pipe/internal/match"
)

var (
	matchTop    int
	matchSave   bool
	matchFormat string
)

var matchCmd = &cobra.Command{
	Use:   "match",
	Short: "Score all tracked investors against the company profile",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		st, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		ranker := match.NewRanker(newEngine(), st)

		var results []match.MatchResult
		if matchSave {
			var report match.PersistReport
			results, report, err = ranker.RunAndPersist(ctx, donutProfile)
			if err != nil {
				return err
			}
			zap.L().Info("scores persisted",
				zap.Int("scored", report.Scored),
				zap.Int("persisted", report.Persisted),
				zap.Int("failed", report.Failed))
		} else {
			results, err = ranker.Rank(ctx, donutProfile)
			if err != nil {
				return err
			}
		}

		if matchTop > 0 && matchTop < len(results) {
			results = results[:matchTop]
		}

		switch matchFormat {
		case "csv":
			return writeMatchCSV(results)
		default:
			writeMatchTable(results)
			return nil
		}
	},
}

func writeMatchTable(results []match.MatchResult) {
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "RANK\tSCORE\tNAME\tTYPE\tSTATUS\tREASONS")
	for i, res := range results {
		fmt.Fprintf(w, "%d\t%d\t%s\t%s\t%s\t%s\n",
			i+1, res.Score, res.Investor.Name, res.Investor.Type,
			res.Investor.Status, strings.Join(res.Reasons, "; "))
	}
	w.Flush()
}

func writeMatchCSV(results []match.MatchResult) error {
	w := csv.NewWriter(os.Stdout)
	defer w.Flush()

	header := []string{"rank", "score", "name", "type", "status",
		"thesis", "stage", "check_size", "portfolio", "geo", "recency", "reasons"}
	if err := w.Write(header); err != nil {
		return err
	}
	for i, res := range results {
		b := res.Breakdown
		row := []string{
			strconv.Itoa(i + 1),
			strconv.Itoa(res.Score),
			res.Investor.Name,
			string(res.Investor.Type),
			string(res.Investor.Status),
			strconv.Itoa(b.ThesisMatch),
			strconv.Itoa(b.StageMatch),
			strconv.Itoa(b.CheckSizeMatch),
			strconv.Itoa(b.PortfolioSynergy),
			strconv.Itoa(b.GeoMatch),
			strconv.Itoa(b.ActivityRecency),
			strings.Join(res.Reasons, "; "),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	return nil
}

func init() {
	matchCmd.Flags().IntVar(&matchTop, "top", 0, "limit output to the top N investors")
	matchCmd.Flags().BoolVar(&matchSave, "save", false, "persist scores back to the store")
	matchCmd.Flags().StringVar(&matchFormat, "format", "table", "output format: table or csv")
	rootCmd.AddCommand(matchCmd)
}
