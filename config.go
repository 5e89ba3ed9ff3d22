package tedit

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

const maxTabStop = 32

// Config holds the user settings read from config.toml.
type Config struct {
	// TabStop is the width a tab is expanded to.
	TabStop int `toml:"tab_stop"`
	// MessageSeconds is how long a status message stays visible.
	MessageSeconds int `toml:"message_seconds"`
	// LogFile receives diagnostics. Empty disables logging.
	LogFile string `toml:"log_file"`
	// AltScreen draws on the alternate screen buffer so the shell's
	// scrollback is left untouched.
	AltScreen bool `toml:"alt_screen"`
}

// DefaultConfig returns the settings used when there is no config file.
func DefaultConfig() Config {
	return Config{
		TabStop:        DefaultTabStop,
		MessageSeconds: int(DefaultMessageTimeout / time.Second),
		AltScreen:      true,
	}
}

// MessageTimeout returns MessageSeconds as a duration.
func (c Config) MessageTimeout() time.Duration {
	return time.Duration(c.MessageSeconds) * time.Second
}

// Validate checks that the settings are usable.
func (c Config) Validate() error {
	if c.TabStop < 1 || c.TabStop > maxTabStop {
		return fmt.Errorf("tab_stop must be between 1 and %d, got %d", maxTabStop, c.TabStop)
	}
	if c.MessageSeconds <= 0 {
		return fmt.Errorf("message_seconds must be positive, got %d", c.MessageSeconds)
	}
	return nil
}

// DefaultConfigPath returns $XDG_CONFIG_HOME/tedit/config.toml or the
// platform equivalent.
func DefaultConfigPath() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "tedit", "config.toml"), nil
}

// LoadConfig reads the config file at path on top of the defaults. A
// missing file is not an error. Keys that are not recognized are returned
// so the caller can warn about them.
func LoadConfig(path string) (Config, []string, error) {
	cfg := DefaultConfig()
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return DefaultConfig(), nil, nil
		}
		return cfg, nil, fmt.Errorf("config %s: %w", path, err)
	}
	var unknown []string
	for _, key := range md.Undecoded() {
		unknown = append(unknown, key.String())
	}
	if err := cfg.Validate(); err != nil {
		return cfg, unknown, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, unknown, nil
}

// String formats the config as it would appear in config.toml.
func (c Config) String() string {
	var sb strings.Builder
	if err := toml.NewEncoder(&sb).Encode(c); err != nil {
		return err.Error()
	}
	return sb.String()
}
