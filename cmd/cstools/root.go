// Root command for the cstools CLI.
package main

import (
	"github.com/spf13/cobra"

	"github.com/paramify/client-success/internal/paths"
)

// Version is the CLI version, overridable at build time with
// -ldflags "-X main.Version=...".
var Version = "0.3.0"

// Exit codes.
const (
	exitSuccess   = 0
	exitUserError = 1
	exitSysError  = 2
)

// Global flag values.
var (
	flagConfigDir string
	flagDataDir   string
	flagJSON      bool
	flagLogLevel  string
	flagVerbose   bool
	flagQuiet     bool
)

// configDataDir holds the data_dir value loaded from config.yaml.
// Set by PersistentPreRunE so all subcommands can use it.
var configDataDir string

var rootCmd = &cobra.Command{
	Use:     "cstools",
	Short:   "Client-success tooling for Paramify capability and evidence data",
	Version: Version,
	Long: `cstools bundles the client-success utilities: syncing suggested
control mappings from the master solution capabilities CSV into target
files, reviewing past sync runs, and preparing evidence files for bulk
import.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		log = newLogger(resolveLogLevel())

		configDir, err := resolveConfigDir()
		if err != nil {
			return err
		}

		cfg, err := loadConfig(configDir)
		if err != nil {
			return err
		}

		appConfig = cfg
		configDataDir = cfg.GetString(cfgKeyDataDir)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfigDir, "config-dir", "", "configuration directory (default: platform config dir)")
	rootCmd.PersistentFlags().StringVar(&flagDataDir, "data-dir", "", "data directory (default: $(CWD)/.cstools)")
	rootCmd.PersistentFlags().BoolVar(&flagJSON, "json", false, "output as JSON")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "log level (trace, debug, info, warn, error)")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "verbose logging (debug level)")
	rootCmd.PersistentFlags().BoolVarP(&flagQuiet, "quiet", "q", false, "quiet logging (warn level)")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(syncCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(evidenceCmd)
}

// resolveConfigDir returns the configuration directory following the
// flag > env > platform default precedence.
func resolveConfigDir() (string, error) {
	return paths.ResolveConfigDir(flagConfigDir)
}

// resolveDataDir returns the data directory following the
// flag > config.yaml > env > default precedence.
func resolveDataDir() (string, error) {
	return paths.ResolveDataDir(flagDataDir, configDataDir)
}
