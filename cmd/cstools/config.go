// Config loading for the cstools CLI.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"

	"github.com/paramify/client-success/pkg/mapping"
)

const (
	configFileName = "config"
	configFileType = "yaml"
	configFileExt  = "config.yaml"

	// Config keys.
	cfgKeyDataDir           = "data_dir"
	cfgKeyPrimaryKeyColumn  = "mapping.primary_key_column"
	cfgKeyFallbackKeyColumn = "mapping.fallback_key_column"
	cfgKeyMappingColumn     = "mapping.mapping_column"
	cfgKeyEnvFile           = "evidence.env_file"
)

// appConfig is the loaded configuration, set by PersistentPreRunE.
var appConfig *viper.Viper

// defaultConfigYAML is the content written to config.yaml on first run.
const defaultConfigYAML = `# cstools configuration

# Data directory for sync run history (optional; overridable by --data-dir)
# data_dir:

mapping:
  # Column holding the capability name. Some exports use "3.5 Title".
  primary_key_column: "Solution Capability"
  # Legacy capability column probed when the primary misses.
  fallback_key_column: "Legacy Title"
  # Column holding the newline-separated control mappings.
  mapping_column: "Suggested Mappings"

evidence:
  # .env file holding PARAMIFY_API_URL / PARAMIFY_API_KEY
  env_file: ".env"
`

// loadConfig reads config.yaml from the resolved config directory using
// Viper, creating the directory and a default config.yaml on first run.
// A missing config.yaml is not an error.
func loadConfig(configDir string) (*viper.Viper, error) {
	if err := os.MkdirAll(configDir, 0o755); err != nil {
		return nil, fmt.Errorf("ensure config dir: %w", err)
	}

	if err := ensureDefaultConfigFile(configDir); err != nil {
		return nil, fmt.Errorf("ensure default config: %w", err)
	}

	v := viper.New()
	v.SetDefault(cfgKeyPrimaryKeyColumn, mapping.DefaultPrimaryKeyColumn)
	v.SetDefault(cfgKeyFallbackKeyColumn, mapping.DefaultFallbackKeyColumn)
	v.SetDefault(cfgKeyMappingColumn, mapping.DefaultMappingColumn)
	v.SetDefault(cfgKeyEnvFile, ".env")
	v.SetConfigName(configFileName)
	v.SetConfigType(configFileType)
	v.AddConfigPath(configDir)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return v, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}

	return v, nil
}

// ensureDefaultConfigFile creates a default config.yaml if the file does
// not exist in the config directory.
func ensureDefaultConfigFile(configDir string) error {
	path := filepath.Join(configDir, configFileExt)

	_, err := os.Stat(path)
	if err == nil {
		return nil
	}
	if !os.IsNotExist(err) {
		return fmt.Errorf("stat config file: %w", err)
	}

	return os.WriteFile(path, []byte(defaultConfigYAML), 0o644)
}
