package main

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/chris-donut/donut-investor-pipe/internal/model"
)

var seedFile string

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load investors from a JSON file into the store",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		raw, err := os.ReadFile(seedFile)
		if err != nil {
			return eris.Wrapf(err, "read seed file %s", seedFile)
		}

		var investors []model.Investor
		if err := json.Unmarshal(raw, &investors); err != nil {
			return eris.Wrap(err, "parse seed file")
		}

		st, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		now := time.Now().UTC()
		var created int
		for i := range investors {
			inv := &investors[i]
			if inv.Type == "" {
				inv.Type = model.TypeVC
			}
			if inv.Source == "" {
				inv.Source = "seed-list"
			}
			if inv.LastActivity == nil {
				inv.LastActivity = &now
			}
			if err := st.CreateInvestor(ctx, inv); err != nil {
				return err
			}
			created++
		}

		fmt.Printf("Seeded %d investors.\n", created)
		return nil
	},
}

func init() {
	seedCmd.Flags().StringVar(&seedFile, "file", "data/seed-investors.json", "path to the seed JSON file")
	rootCmd.AddCommand(seedCmd)
}
