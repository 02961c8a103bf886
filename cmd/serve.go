package cmd

import (
	"context"
	"time"

	"github.com/hasanabusheikh26/superprompt/internal/background"
	"github.com/hasanabusheikh26/superprompt/internal/server"
	"github.com/hasanabusheikh26/superprompt/internal/utils"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the enhancement API and dashboard",
	RunE: func(cmd *cobra.Command, _ []string) error {
		listenAddr, _ := cmd.Flags().GetString("listen")
		pruneInterval, _ := cmd.Flags().GetInt("prune-interval")

		db, err := openDB(cmd)
		if err != nil {
			return err
		}
		defer db.Close()

		coord := background.New(db)
		coord.RetentionDays = viper.GetInt("limits.retention_days")
		coord.OnOpenDashboard = func() error {
			utils.Log.Infof("dashboard available at http://localhost%s/dashboard", listenAddr)
			return nil
		}

		ctx := context.Background()
		if err := coord.OnInstall(ctx); err != nil {
			return err
		}
		if pruneInterval > 0 {
			go coord.RunPruner(ctx, time.Duration(pruneInterval)*time.Hour)
		}

		provider, err := server.NewProvider(server.ProviderConfig{
			Name:   viper.GetString("provider.name"),
			APIKey: viper.GetString("provider.api_key"),
			Model:  viper.GetString("provider.model"),
		})
		if err != nil {
			return err
		}

		return server.New(db, provider, viper.GetInt("server.rate_limit")).Start(listenAddr)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().String("listen", ":8080", "HTTP listen address")
	serveCmd.Flags().Int("prune-interval", 24, "Hours between history retention prunes (0 to disable)")
}
