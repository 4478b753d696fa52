package config

import (
	"errors"
	"os"

	"github.com/joho/godotenv"
)

// APIKeyEnv is the environment variable holding the API key.
const APIKeyEnv = "API_KEY"

// ErrMissingAPIKey is returned when no API key is configured.
var ErrMissingAPIKey = errors.New("API_KEY is not set; add it to the environment or a .env file")

// Credentials authenticate requests against the search API.
type Credentials struct {
	APIKey  string
	APIHost string
}

// Validate returns ErrMissingAPIKey if the key is empty.
func (c Credentials) Validate() error {
	if c.APIKey == "" {
		return ErrMissingAPIKey
	}
	return nil
}

// LoadCredentials reads the API key from the environment.
//
// When envFile is non-empty it is loaded first with godotenv; a missing
// file is ignored and variables already set in the process win. The host
// comes from settings.
func LoadCredentials(envFile string, settings *Settings) (Credentials, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !os.IsNotExist(err) {
			return Credentials{}, err
		}
	}

	creds := Credentials{
		APIKey:  os.Getenv(APIKeyEnv),
		APIHost: settings.APIHost,
	}
	if err := creds.Validate(); err != nil {
		return Credentials{}, err
	}
	return creds, nil
}
