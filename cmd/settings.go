package cmd

import (
	"context"
	"fmt"
	"os"
	"sort"
	"text/tabwriter"

	"github.com/hasanabusheikh26/superprompt/pkg/store"
	"github.com/spf13/cobra"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Read and change the stored user settings",
}

var settingsListCmd = &cobra.Command{
	Use:   "list",
	Short: "Show all settings (missing keys fall back to defaults)",
	RunE: func(cmd *cobra.Command, _ []string) error {
		db, err := openDB(cmd)
		if err != nil {
			return err
		}
		defer db.Close()

		settings, err := db.Settings(context.Background())
		if err != nil {
			return err
		}

		keys := make([]string, 0, len(settings))
		for k := range settings {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
		fmt.Fprintln(w, "SETTING\tVALUE\t")
		for _, k := range keys {
			fmt.Fprintf(w, "%s\t%s\t\n", k, settings[k])
		}
		return w.Flush()
	},
}

var settingsSetCmd = &cobra.Command{
	Use:   "set KEY VALUE",
	Short: "Set one setting; all other keys keep their value",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, value := args[0], args[1]
		if _, ok := store.DefaultSettings()[key]; !ok {
			return fmt.Errorf("unknown setting %q", key)
		}

		db, err := openDB(cmd)
		if err != nil {
			return err
		}
		defer db.Close()

		if err := db.MergeSettings(context.Background(), map[string]string{key: value}); err != nil {
			return err
		}
		fmt.Printf("%s = %s\n", key, value)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(settingsCmd)
	settingsCmd.AddCommand(settingsListCmd)
	settingsCmd.AddCommand(settingsSetCmd)
}
