package cmd

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/atotto/clipboard"
	"github.com/hasanabusheikh26/superprompt/internal/background"
	"github.com/hasanabusheikh26/superprompt/internal/utils"
	"github.com/hasanabusheikh26/superprompt/pkg/export"
	"github.com/hasanabusheikh26/superprompt/pkg/store"
	"github.com/spf13/cobra"
)

// historyCmd groups the enhancement history operations.
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Browse, search, export and clean up the enhancement history",
}

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List history entries, newest first (default 50)",
	RunE: func(cmd *cobra.Command, _ []string) error {
		search, _ := cmd.Flags().GetString("search")
		limit, _ := cmd.Flags().GetInt("limit")

		db, err := openDB(cmd)
		if err != nil {
			return err
		}
		defer db.Close()

		entries, err := db.ListHistory(context.Background(), store.ListOptions{Search: search, Limit: limit})
		if err != nil {
			return err
		}
		if len(entries) == 0 {
			fmt.Println("No history entries.")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
		fmt.Fprintln(w, "ID\tSITE\tORIGINAL\tWHEN\t")
		for _, e := range entries {
			site := e.Site
			if site == "" {
				site = "-"
			}
			fmt.Fprintf(w, "%s\t%s %s\t%s\t%s\t\n", e.ID, e.SiteIcon, site, utils.Truncate(e.OriginalText, 48), e.DisplayDate)
		}
		return w.Flush()
	},
}

var historyShowCmd = &cobra.Command{
	Use:   "show ID",
	Short: "Show one history entry in full",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDB(cmd)
		if err != nil {
			return err
		}
		defer db.Close()

		e, err := db.GetHistory(context.Background(), args[0])
		if err != nil {
			return err
		}
		fmt.Printf("ID:       %s\nSite:     %s %s\nWhen:     %s\n\nOriginal:\n%s\n\nEnhanced:\n%s\n",
			e.ID, e.SiteIcon, e.Site, e.DisplayDate, e.OriginalText, e.EnhancedText)
		return nil
	},
}

var historyCopyCmd = &cobra.Command{
	Use:   "copy ID",
	Short: "Copy an entry's enhanced text to the clipboard",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDB(cmd)
		if err != nil {
			return err
		}
		defer db.Close()

		e, err := db.GetHistory(context.Background(), args[0])
		if err != nil {
			return err
		}
		if err := clipboard.WriteAll(e.EnhancedText); err != nil {
			return fmt.Errorf("copying to clipboard: %w", err)
		}
		fmt.Println("Copied.")
		return nil
	},
}

var historyDeleteCmd = &cobra.Command{
	Use:   "delete ID",
	Short: "Delete one history entry",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		yes, _ := cmd.Flags().GetBool("yes")
		if !yes {
			return fmt.Errorf("deleting is permanent; re-run with --yes to confirm")
		}

		db, err := openDB(cmd)
		if err != nil {
			return err
		}
		defer db.Close()

		if err := db.DeleteHistory(context.Background(), args[0]); err != nil {
			return err
		}
		fmt.Println("Deleted.")
		return nil
	},
}

var historyClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete the entire history (requires --confirm CLEAR)",
	RunE: func(cmd *cobra.Command, _ []string) error {
		phrase, _ := cmd.Flags().GetString("confirm")

		db, err := openDB(cmd)
		if err != nil {
			return err
		}
		defer db.Close()

		dbPath, _ := cmd.Flags().GetString("dbpath")
		lock, lerr := utils.NewDBLock(dbPath)
		if lerr == nil && lock.Lock() == nil {
			defer lock.Unlock()
		}

		coord := background.New(db)
		if _, err := coord.Handle(context.Background(), background.ClearHistory{Confirmation: phrase}); err != nil {
			return err
		}
		fmt.Println("History cleared.")
		return nil
	},
}

var historyExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the full history to a file",
	RunE: func(cmd *cobra.Command, _ []string) error {
		format, _ := cmd.Flags().GetString("format")
		out, _ := cmd.Flags().GetString("out")

		exporter, err := export.NewExporter(format)
		if err != nil {
			return err
		}

		db, err := openDB(cmd)
		if err != nil {
			return err
		}
		defer db.Close()

		entries, err := db.ListHistory(context.Background(), store.ListOptions{})
		if err != nil {
			return err
		}
		doc := export.NewDocument(entries, time.Now())

		if out == "" {
			out = fmt.Sprintf("superprompt-history-%s.%s", time.Now().Format("2006-01-02"), exporter.Extension())
		}
		f, err := os.Create(out)
		if err != nil {
			return err
		}
		defer f.Close()

		if err := exporter.Export(doc, f); err != nil {
			return err
		}
		fmt.Printf("Exported %d entries to %s\n", doc.TotalItems, out)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(historyCmd)
	historyCmd.AddCommand(historyListCmd)
	historyCmd.AddCommand(historyShowCmd)
	historyCmd.AddCommand(historyCopyCmd)
	historyCmd.AddCommand(historyDeleteCmd)
	historyCmd.AddCommand(historyClearCmd)
	historyCmd.AddCommand(historyExportCmd)

	historyListCmd.Flags().StringP("search", "s", "", "Case-insensitive search over original, enhanced and site")
	historyListCmd.Flags().Int("limit", 50, "Number of entries to show (0 for all)")
	historyDeleteCmd.Flags().Bool("yes", false, "Confirm the deletion")
	historyClearCmd.Flags().String("confirm", "", "Type CLEAR to confirm wiping the history")
	historyExportCmd.Flags().StringP("format", "f", "json", "Export format: json, jsonl, md")
	historyExportCmd.Flags().StringP("out", "o", "", "Output file (default: superprompt-history-DATE.EXT)")
}
