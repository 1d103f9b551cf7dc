// Package config manages cargo-plumbing configuration and its location.
//
// Settings come from built-in defaults, an optional config file, and
// environment variables, in increasing order of precedence. Command-line
// flags override all three. The default config file lives in the user
// config directory under cargo-plumbing/, and can be moved with environment
// variables.
package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// Paths contains the filesystem paths used by cargo-plumbing.
type Paths struct {
	// Root is the base directory for cargo-plumbing settings
	// (default: <user config dir>/cargo-plumbing)
	Root string

	// Config is the path to the config file
	Config string
}

// DefaultPaths returns the default paths for cargo-plumbing.
// Paths can be overridden with environment variables:
// - CARGO_PLUMBING_HOME: Override the root directory
// - CARGO_PLUMBING_CONFIG: Override the config file path
func DefaultPaths() (*Paths, error) {
	root := os.Getenv("CARGO_PLUMBING_HOME")
	if root == "" {
		dir, err := os.UserConfigDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get user config directory: %w", err)
		}
		root = filepath.Join(dir, "cargo-plumbing")
	}

	configPath := os.Getenv("CARGO_PLUMBING_CONFIG")
	if configPath == "" {
		configPath = filepath.Join(root, "config.yaml")
	}

	return &Paths{
		Root:   root,
		Config: configPath,
	}, nil
}
