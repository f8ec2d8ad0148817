package flags

import (
	"fmt"
	"slices"
	"time"

	"github.com/urfave/cli/v3"
)

var validLogLevels = []string{"debug", "info", "warn", "error"}

var APIURL = &cli.StringFlag{
	Name:    "api-url",
	Aliases: []string{"u"},
	Usage:   "Base URL of the feed backend",
	Value:   "http://localhost:8787/api",
	Sources: cli.EnvVars("WALLETFEED_API_URL"),
}

var LogLevel = &cli.StringFlag{
	Name:    "log-level",
	Aliases: []string{"l"},
	Usage:   "The level of the logs",
	Value:   "warn",
	Validator: func(value string) error {
		if !slices.Contains(validLogLevels, value) {
			return fmt.Errorf("invalid log level: %s, allowed values are: %s", value, validLogLevels)
		}
		return nil
	},
	Sources: cli.EnvVars("WALLETFEED_LOG_LEVEL"),
}

var Interval = &cli.DurationFlag{
	Name:    "interval",
	Aliases: []string{"i"},
	Usage:   "Refresh interval for watch mode",
	Value:   30 * time.Second,
	Sources: cli.EnvVars("WALLETFEED_INTERVAL"),
}

var MetricsAddr = &cli.StringFlag{
	Name:    "metrics-addr",
	Usage:   "Expose Prometheus metrics on this address in watch mode",
	Sources: cli.EnvVars("WALLETFEED_METRICS_ADDR"),
}

var Media = &cli.StringFlag{
	Name:    "media",
	Aliases: []string{"m"},
	Usage:   "Path to an image or video to attach",
}

var NewAccount = &cli.BoolFlag{
	Name:  "new-account",
	Usage: "Rotate the wallet key and sign in with a fresh account",
}

var ForgetKey = &cli.BoolFlag{
	Name:  "forget-key",
	Usage: "Also delete the wallet key on sign-out",
}

var AllRead = &cli.BoolFlag{
	Name:  "all-read",
	Usage: "Mark every notification as read after listing",
}
