package cli

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/capitalsync-io/capsync/internal/client"
	"github.com/capitalsync-io/capsync/internal/config"
	"github.com/capitalsync-io/capsync/internal/sessions"
)

// Global configuration instance
var cfg *config.Config
var sessionStore *sessions.Store

// loadConfig loads the configuration based on the --config flag or default locations
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	configFile, err := cmd.Flags().GetString("config")

	if err != nil {
		return nil, fmt.Errorf("failed to get config flag: %w", err)
	}

	return config.Load(configFile)
}

func preRunClientConfigE(cmd *cobra.Command, _ []string) error {
	var err error
	cfg, err = loadConfig(cmd)

	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// check if verbose flag is set
	verbose, err := cmd.Flags().GetBool("verbose")
	if err == nil && verbose {
		logrus.SetLevel(logrus.DebugLevel)
	}

	// Endpoint override from the flag
	endpoint, err := cmd.Flags().GetString("endpoint")
	if err == nil && len(endpoint) > 0 {
		cfg.API.Endpoint = endpoint
	}

	cacheDir := cfg.Cache.Dir
	if len(cacheDir) == 0 {
		cacheDir, err = sessions.DefaultDir()
		if err != nil {
			return fmt.Errorf("failed to resolve cache directory: %w", err)
		}
	}

	if cfg.Cache.Enabled {
		sessionStore, err = sessions.NewStore(cacheDir)
		if err != nil {
			return fmt.Errorf("failed to open session cache: %w", err)
		}
	}

	return nil
}

// newClient builds a dashboard client from the loaded configuration,
// with the interactive terminal as the two-factor code source.
func newClient() (*client.Client, error) {

	opts := []client.Option{
		client.WithCodeProvider(promptForCode),
	}
	if sessionStore != nil {
		opts = append(opts, client.WithStore(sessionStore))
	}

	return client.New(cfg, opts...)
}

var rootCmd = &cobra.Command{
	Use:   "capsync",
	Short: "CapitalSync - query your financial dashboard from the terminal",
	Long: `CapitalSync logs into your financial-aggregation dashboard and
queries account and transaction data over its private web API.

Sessions are cached locally so the two-factor challenge only runs
when the dashboard does not recognize this device.`,
	PersistentPreRunE: preRunClientConfigE,
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

func init() {

	// Add global flags
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().String("config", "", "Config file (default is $HOME/.config/capsync/config.yaml)")
	rootCmd.PersistentFlags().String("endpoint", "", "Override the dashboard API endpoint")

}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(errorStyle.Render(err.Error()))
		os.Exit(1)
	}
}
