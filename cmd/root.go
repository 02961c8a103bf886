package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/hasanabusheikh26/superprompt/internal/utils"
	"github.com/hasanabusheikh26/superprompt/pkg/store"
	"github.com/spf13/cobra"

	homedir "github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"
)

var cfgFile string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "superprompt",
	Short: "Select it, enhance it, keep the history.",
	Long: `superprompt rewrites selected text through an enhancement API and keeps
a local history of every accepted result, with settings and usage stats.

Run 'superprompt serve' to start the backend API and dashboard.`,
	CompletionOptions: cobra.CompletionOptions{
		DisableDefaultCmd: true,
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.superprompt.yaml)")

	// Global flags
	rootCmd.PersistentFlags().String("dbpath", "", "Path to SQLite DB file (default: ~/.config/superprompt/superprompt.sqlite)")
	rootCmd.PersistentFlags().StringP("loglevel", "l", "info", "Set log level. Available: debug, info, warn, error, fatal")
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := homedir.Dir()
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
		viper.AddConfigPath(home)
		viper.SetConfigName(".superprompt")
		viper.SetConfigType("yaml")
	}

	viper.SetEnvPrefix("superprompt")
	viper.AutomaticEnv()

	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			// Config file not found; create it with defaults.
			home, _ := homedir.Dir()
			configPath := home + "/.superprompt.yaml"
			if err := viper.SafeWriteConfigAs(configPath); err != nil {
				fmt.Printf("Error creating config file: %s", err)
			}
		}
	}

	// Set default values for all keys. The observed limits vary across
	// deployments, so they are configuration, not constants.
	viper.SetDefault("api.endpoint", "http://localhost:8080/api/enhance")
	viper.SetDefault("provider.name", "openai")
	viper.SetDefault("provider.api_key", "")
	viper.SetDefault("provider.model", "")
	viper.SetDefault("limits.max_text_length", 5000)
	viper.SetDefault("limits.history_cap", store.DefaultHistoryCap)
	viper.SetDefault("limits.min_selection_length", 5)
	viper.SetDefault("limits.retention_days", 180)
	viper.SetDefault("server.rate_limit", 1000)

	// Init log library
	levelString, _ := rootCmd.PersistentFlags().GetString("loglevel")
	utils.SetLogLevel(levelString)
}

// openDB opens (creating if needed) the local store honoring the
// --dbpath flag and the configured history cap.
func openDB(cmd *cobra.Command) (*store.DB, error) {
	dbPath, _ := cmd.Flags().GetString("dbpath")
	absPath, err := utils.GetAbsDBPath(dbPath)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(filepath.Dir(absPath), 0o755); err != nil {
		return nil, err
	}
	db, err := store.Open(absPath)
	if err != nil {
		return nil, err
	}
	db.SetHistoryCap(viper.GetInt("limits.history_cap"))
	return db, nil
}
