package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"

	"github.com/danieljhkim/cargo-plumbing/internal/engine"
	"github.com/danieljhkim/cargo-plumbing/internal/fsops"
	"github.com/danieljhkim/cargo-plumbing/internal/manifest"
	"github.com/danieljhkim/cargo-plumbing/internal/protocol"
)

// Config holds user-tunable settings.
type Config struct {
	// ManifestName is the manifest file name searched for.
	ManifestName string `yaml:"manifest_name" json:"manifest_name"`

	// WorkspaceMarker is the line prefix that declares a workspace.
	WorkspaceMarker string `yaml:"workspace_marker" json:"workspace_marker"`

	// MessageFormat is the default locate-project output (json or plain).
	MessageFormat string `yaml:"message_format" json:"message_format"`

	// Framing is the default message stream framing (json, lines or cbor).
	Framing string `yaml:"framing" json:"framing"`

	// UnknownReasons is the default policy for unknown message reasons
	// (reject or skip).
	UnknownReasons string `yaml:"unknown_reasons" json:"unknown_reasons"`

	// LogLevel is the slog level name (debug, info, warn, error).
	LogLevel string `yaml:"log_level" json:"log_level"`
}

// Environment variables that override file settings.
const (
	EnvManifestName    = "CARGO_PLUMBING_MANIFEST_NAME"
	EnvWorkspaceMarker = "CARGO_PLUMBING_WORKSPACE_MARKER"
	EnvMessageFormat   = "CARGO_PLUMBING_MESSAGE_FORMAT"
	EnvLogLevel        = "CARGO_PLUMBING_LOG"
)

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		ManifestName:    manifest.DefaultName,
		WorkspaceMarker: manifest.DefaultWorkspaceMarker,
		MessageFormat:   string(engine.MessageFormatJSON),
		Framing:         string(protocol.FramingJSON),
		UnknownReasons:  string(protocol.RejectUnknown),
		LogLevel:        "info",
	}
}

// Load returns the defaults overlaid with the config file at path. A
// missing file is not an error. The file format follows the extension:
// .json and .jsonc are JSON with comments, anything else is YAML.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := cfg.decode(data, filepath.Ext(path)); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return cfg, nil
}

// decode overlays data onto c. Unknown keys are rejected so typos do not
// silently fall back to defaults.
func (c *Config) decode(data []byte, ext string) error {
	switch strings.ToLower(ext) {
	case ".json", ".jsonc":
		dec := json.NewDecoder(bytes.NewReader(jsonc.ToJSON(data)))
		dec.DisallowUnknownFields()
		if err := dec.Decode(c); err != nil && !errors.Is(err, io.EOF) {
			return err
		}
	default:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(c); err != nil && !errors.Is(err, io.EOF) {
			return err
		}
	}
	return nil
}

// ApplyEnv overrides settings from environment variables read with getenv.
func (c *Config) ApplyEnv(getenv func(string) string) {
	if v := getenv(EnvManifestName); v != "" {
		c.ManifestName = v
	}
	if v := getenv(EnvWorkspaceMarker); v != "" {
		c.WorkspaceMarker = v
	}
	if v := getenv(EnvMessageFormat); v != "" {
		c.MessageFormat = v
	}
	if v := getenv(EnvLogLevel); v != "" {
		c.LogLevel = v
	}
}

// Validate checks every setting.
func (c *Config) Validate() error {
	if err := fsops.ValidateIdentifier(c.ManifestName); err != nil {
		return fmt.Errorf("manifest_name: %w", err)
	}
	if strings.TrimSpace(c.WorkspaceMarker) == "" {
		return fmt.Errorf("workspace_marker: must not be blank")
	}
	if _, err := engine.ParseMessageFormat(c.MessageFormat); err != nil {
		return fmt.Errorf("message_format: %w", err)
	}
	if _, err := protocol.ParseFraming(c.Framing); err != nil {
		return fmt.Errorf("framing: %w", err)
	}
	if _, err := protocol.ParseUnknownReasonPolicy(c.UnknownReasons); err != nil {
		return fmt.Errorf("unknown_reasons: %w", err)
	}
	if _, err := c.Level(); err != nil {
		return fmt.Errorf("log_level: %w", err)
	}
	return nil
}

// Level parses LogLevel.
func (c *Config) Level() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo, err
	}
	return level, nil
}
