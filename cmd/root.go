package cmd

import (
	"fmt"
	"os"

	homedir "github.com/mitchellh/go-homedir"
	"github.com/spf13/cobra"

	"github.com/rankcraft/backend/config"
	"github.com/rankcraft/backend/logging"
)

const defaultConfigName = "~/.rankcraft.yaml"

var cfgFile string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "rankcraft",
	Short: "SEO scoring, keyword research and article drafting.",
	Long: `rankcraft scores titles, meta descriptions and body copy for search
engine optimization and serves the scoring engine, keyword suggestions and
LLM article drafting over an HTTP API.`,
	CompletionOptions: cobra.CompletionOptions{
		DisableDefaultCmd: true,
	},
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is "+defaultConfigName+" when present)")
	rootCmd.PersistentFlags().StringP("loglevel", "l", "", "Set log level. Available: debug, info, warn, error, fatal")
}

// configPath expands ~ in the --config flag, falling back to the default
// file only when it exists
func configPath() (string, error) {
	if cfgFile != "" {
		return homedir.Expand(cfgFile)
	}
	path, err := homedir.Expand(defaultConfigName)
	if err != nil {
		return "", nil
	}
	if _, err := os.Stat(path); err != nil {
		return "", nil
	}
	return path, nil
}

// loadConfig reads the configuration and applies logging settings
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	path, err := configPath()
	if err != nil {
		return config.Config{}, err
	}

	cfg, err := config.Load(path)
	if err != nil {
		return config.Config{}, err
	}

	if level, _ := cmd.Flags().GetString("loglevel"); level != "" {
		cfg.LogLevel = level
	}
	if err := logging.SetLogLevel(cfg.LogLevel); err != nil {
		return config.Config{}, err
	}
	logging.UseJSON(!cfg.DevMode)

	if cfg.DataDir, err = homedir.Expand(cfg.DataDir); err != nil {
		return config.Config{}, err
	}
	if cfg.Database, err = homedir.Expand(cfg.Database); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}
