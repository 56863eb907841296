// Package config loads backtick settings from an optional YAML file.
//
// Every setting has a default matching the helper's historical behaviour,
// so the file only needs to list what differs:
//
//	socket: /tmp/backtick-plus-plus-helper.sock
//	timeout: 5s
//	newWindowPosition: top
//	activationMode: automatic
//	editor:
//	  bundleID: com.microsoft.VSCode
//	  ownerNames: [Code, Visual Studio Code]
//	  titleMarkers: ["— ", Visual Studio Code]
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/mj1618/backtick/internal/model"
	"github.com/mj1618/backtick/internal/protocol"
)

// DefaultTimeout bounds a single helper round-trip.
const DefaultTimeout = 5 * time.Second

// DefaultStartTimeout bounds how long start waits for a new helper to answer.
const DefaultStartTimeout = 3 * time.Second

// Config holds all backtick settings.
type Config struct {
	Socket            string               `yaml:"socket"`
	Timeout           time.Duration        `yaml:"timeout"`
	StartTimeout      time.Duration        `yaml:"startTimeout"`
	NewWindowPosition model.Position       `yaml:"newWindowPosition"`
	ActivationMode    model.ActivationMode `yaml:"activationMode"`
	Editor            model.EditorFilter   `yaml:"editor"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Socket:            protocol.DefaultSocketPath,
		Timeout:           DefaultTimeout,
		StartTimeout:      DefaultStartTimeout,
		NewWindowPosition: model.PositionTop,
		ActivationMode:    model.ModeAutomatic,
		Editor:            model.DefaultEditorFilter(),
	}
}

// DefaultPath returns backtick/config.yaml under os.UserConfigDir, or ""
// when the config directory cannot be determined.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "backtick", "config.yaml")
}

// Load reads the file at path over the defaults. A missing file is not an
// error when path is the default location.
func Load(path string, explicit bool) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) && !explicit {
			return cfg, nil
		}
		return cfg, fmt.Errorf("read config: %w", err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks values that cannot be defaulted.
func (c Config) Validate() error {
	if c.Socket == "" {
		return fmt.Errorf("socket must not be empty")
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive, got %s", c.Timeout)
	}
	if c.StartTimeout <= 0 {
		return fmt.Errorf("startTimeout must be positive, got %s", c.StartTimeout)
	}
	if _, err := model.ParsePosition(string(c.NewWindowPosition)); err != nil {
		return err
	}
	if _, err := model.ParseActivationMode(string(c.ActivationMode)); err != nil {
		return err
	}
	if len(c.Editor.OwnerNames) == 0 {
		return fmt.Errorf("editor.ownerNames must list at least one application name")
	}
	return nil
}

// GetWindowsRequest returns the getWindows payload for these settings.
func (c Config) GetWindowsRequest() model.GetWindowsRequest {
	return model.GetWindowsRequest{
		NewWindowPosition: c.NewWindowPosition,
		ActivationMode:    c.ActivationMode,
	}
}
