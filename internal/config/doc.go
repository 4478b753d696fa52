// Package config provides configuration management for ebook-packager.
//
// This package handles:
//   - Loading and saving settings from JSON or YAML files
//   - Default configuration values
//   - Loading the API credential from the environment or a .env file
//
// # Default Settings
//
//	settings := config.DefaultSettings()
//	// Searches annas-archive-api.p.rapidapi.com for epub files
//	// 5 concurrent searches, 5 concurrent downloads, 60s per call
//
// # Loading from File
//
//	settings, err := config.Load("/path/to/config.yaml")
//	if err != nil {
//	    // Uses defaults if file doesn't exist
//	}
//
// # Credentials
//
// The API key is read once per batch and passed explicitly to the
// download manager:
//
//	creds, err := config.LoadCredentials(".env", settings)
//	if errors.Is(err, config.ErrMissingAPIKey) {
//	    // reject the batch before any network call
//	}
package config
