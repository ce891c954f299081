package evidence

import (
	"errors"
	"os"

	"github.com/joho/godotenv"
)

// Environment variables holding the Paramify API credentials.
const (
	EnvAPIURL    = "PARAMIFY_API_URL"
	EnvAPIKey    = "PARAMIFY_API_KEY"
	EnvWorkspace = "PARAMIFY_WORKSPACE_NAME"
)

// Credential validation errors.
var (
	ErrAPIKeyNotSet = errors.New("PARAMIFY_API_KEY is not set; add it to your .env file")
	ErrAPIURLNotSet = errors.New("PARAMIFY_API_URL is not set; add it to your .env file")
)

// EnvConfig holds the Paramify connection settings a Client implementation
// needs.
type EnvConfig struct {
	APIURL    string
	APIKey    string
	Workspace string
}

// LoadEnv reads connection settings from a .env file, falling back to the
// process environment for any variable the file does not set. A missing
// .env file is not an error.
func LoadEnv(path string) (EnvConfig, error) {
	values := map[string]string{}
	if path != "" {
		if fileValues, err := godotenv.Read(path); err == nil {
			values = fileValues
		} else if !os.IsNotExist(err) {
			return EnvConfig{}, err
		}
	}

	get := func(key string) string {
		if v, ok := values[key]; ok && v != "" {
			return v
		}
		return os.Getenv(key)
	}

	return EnvConfig{
		APIURL:    get(EnvAPIURL),
		APIKey:    get(EnvAPIKey),
		Workspace: get(EnvWorkspace),
	}, nil
}

// Validate checks that the credentials required for API access are set.
func (c EnvConfig) Validate() error {
	if c.APIKey == "" {
		return ErrAPIKeyNotSet
	}
	if c.APIURL == "" {
		return ErrAPIURLNotSet
	}
	return nil
}
