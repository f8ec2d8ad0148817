package core

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	// APIBaseURL comes from the CLI flag layer, see internal/config.
	APIBaseURL string `ignored:"true"`

	StateDir   string        `envconfig:"STATE_DIR"`
	SessionTTL time.Duration `envconfig:"SESSION_TTL" default:"24h"`
}

func (c *Config) Init(_ context.Context) error {
	if err := envconfig.Process("walletfeed", c); err != nil {
		return err
	}

	if c.StateDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return err
		}
		c.StateDir = filepath.Join(home, ".walletfeed")
	}

	return os.MkdirAll(c.StateDir, 0o700)
}
