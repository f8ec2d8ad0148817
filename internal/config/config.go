// Package config is the CLI flag layer; env-only settings live on core.Config.
package config

import "time"

type Config struct {
	APIURL   string        `flag:"api-url"`
	LogLevel string        `flag:"log-level"`
	Interval time.Duration `flag:"interval"`
}
