package cmd

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

// statsCmd represents the stats command
var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Prints usage statistics derived from the enhancement history.",
	Long:  "Prints usage statistics derived from the enhancement history.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		db, err := openDB(cmd)
		if err != nil {
			return err
		}
		defer db.Close()

		stats, err := db.Stats(context.Background())
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', tabwriter.AlignRight)
		fmt.Fprintln(w, "TOTAL ENHANCEMENTS\tSITES USED\tSUCCESS RATE\t")
		fmt.Fprintf(w, "%d\t%d\t%.0f%%\t\n", stats.TotalEnhancements, stats.SitesUsed, stats.SuccessRate*100)
		return w.Flush()
	},
}

func init() {
	rootCmd.AddCommand(statsCmd)
}
