package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/chris-donut/donut-investor-pipe/internal/match"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Rescore investors and print pipeline statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		st, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		results, _, err := match.NewRanker(newEngine(), st).RunAndPersist(ctx, donutProfile)
		if err != nil {
			return err
		}

		var total int
		for _, res := range results {
			total += res.Score
		}
		avg := 0
		if len(results) > 0 {
			avg = (total + len(results)/2) / len(results)
		}

		counts, err := st.CountByStatus(ctx)
		if err != nil {
			return err
		}
		outreachStats, err := st.OutreachStats(ctx)
		if err != nil {
			return err
		}

		fmt.Println("\nPipeline Statistics:")
		fmt.Printf("  Total investors: %d\n", len(results))
		fmt.Printf("  Average score: %d\n", avg)
		fmt.Println("\n  By status:")
		for status, count := range counts {
			fmt.Printf("    %s: %d\n", status, count)
		}
		fmt.Println("\n  Outreach:")
		fmt.Printf("    total: %d sent: %d responded: %d response rate: %d%%\n",
			outreachStats.Total, outreachStats.Sent, outreachStats.Responded, outreachStats.ResponseRate)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(statsCmd)
}
