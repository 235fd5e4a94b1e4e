// Package config provides configuration management for covercluster.
//
// This package handles:
//   - Loading and saving settings from JSON or TOML files
//   - Default configuration values
//   - Conversion to cluster.Options and download.Options for other packages
//
// # Default Settings
//
// Use DefaultSettings() to get the standard values:
//
//	settings := config.DefaultSettings()
//	// 1920x1080 canvas on #141414
//	// covers between 50 and 300 pixels
//	// missing covers skipped
//
// # Loading from File
//
// The format follows the extension: ".toml" is read as TOML, anything else
// as JSON.
//
//	settings, err := config.Load("covercluster.toml")
//	if err != nil {
//	    // INVALID_CONFIG on a syntax error; defaults if the file doesn't exist
//	}
//
// # Saving Settings
//
//	settings.CanvasWidth = 3840
//	err := settings.Save("covercluster.json")
//
// # Configuration Options
//
// Settings includes options for:
//   - Index, cover directory and output paths
//   - Canvas size and colors
//   - Scale bounds and row alignment
//   - Missing cover policy and resampling
//   - Cover fetching concurrency and retries
package config
