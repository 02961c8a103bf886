package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/hasanabusheikh26/superprompt/internal/utils"
	"github.com/hasanabusheikh26/superprompt/pkg/enhance"
	"github.com/hasanabusheikh26/superprompt/pkg/sites"
	"github.com/hasanabusheikh26/superprompt/pkg/store"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// enhanceCmd sends text through the enhancement endpoint and records
// the accepted result in the local history.
var enhanceCmd = &cobra.Command{
	Use:   "enhance [text]",
	Short: "Enhance a piece of text (reads stdin when no argument is given)",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var text string
		if len(args) == 1 {
			text = args[0]
		} else {
			raw, err := io.ReadAll(os.Stdin)
			if err != nil {
				return err
			}
			text = strings.TrimRight(string(raw), "\n")
		}

		style, _ := cmd.Flags().GetString("style")
		instruction, _ := cmd.Flags().GetString("instruction")
		site, _ := cmd.Flags().GetString("site")
		copyResult, _ := cmd.Flags().GetBool("copy")
		noSave, _ := cmd.Flags().GetBool("no-save")
		if instruction == "" {
			instruction = style
		}

		client := enhance.New(enhance.Config{
			Endpoint:      viper.GetString("api.endpoint"),
			APIKey:        viper.GetString("provider.api_key"),
			MaxTextLength: viper.GetInt("limits.max_text_length"),
		})

		db, err := openDB(cmd)
		if err != nil {
			return err
		}
		defer db.Close()

		ctx := context.Background()
		result, err := client.Enhance(ctx, text, instruction)

		// Validation failures never reached the network; everything
		// else counts toward the measured success rate.
		switch enhance.Kind(err) {
		case enhance.ErrInvalidInput, enhance.ErrTooLong:
		default:
			if rerr := db.RecordAttempt(ctx, err == nil); rerr != nil {
				utils.Log.Debugf("recording attempt failed: %v", rerr)
			}
		}
		if err != nil {
			return err
		}

		fmt.Println(result)

		if copyResult {
			if cerr := clipboard.WriteAll(result); cerr != nil {
				utils.Log.Warnf("copying to clipboard failed: %v", cerr)
			}
		}

		if !noSave {
			dbPath, _ := cmd.Flags().GetString("dbpath")
			lock, lerr := utils.NewDBLock(dbPath)
			if lerr == nil && lock.Lock() == nil {
				defer lock.Unlock()
			}
			entry := store.NewHistoryEntry(text, result, site, sites.Glyph(site), time.Now())
			if serr := db.AppendHistory(ctx, entry); serr != nil {
				// A storage failure never blocks the result.
				utils.Log.Errorf("saving history entry failed: %v", serr)
			}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(enhanceCmd)
	enhanceCmd.Flags().StringP("style", "s", "improve", "Enhancement style: improve, professional, creative, engaging")
	enhanceCmd.Flags().StringP("instruction", "i", "", "Free-text instruction (overrides --style)")
	enhanceCmd.Flags().String("site", "", "Hostname the text came from, for the history entry")
	enhanceCmd.Flags().BoolP("copy", "c", false, "Copy the result to the clipboard")
	enhanceCmd.Flags().Bool("no-save", false, "Do not record the result in the history")
}
