package cmd

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/urfave/cli/v3"
	"github.com/zhulik/pal"

	"walletfeed/internal/settings"
)

var themeCmd = &cli.Command{
	Name:      "theme",
	Usage:     "Show or set the UI theme preference",
	ArgsUsage: "[light|dark|system]",
	Action: func(ctx context.Context, c *cli.Command) error {
		return run(ctx, c, append(appServices(),
			pal.Provide(&themer{theme: c.Args().First()}),
		)...)
	},
}

type themer struct {
	Logger   *slog.Logger
	Settings *settings.Service

	theme string
}

func (t *themer) Run(ctx context.Context) error {
	if t.theme != "" {
		if err := t.Settings.SetTheme(ctx, t.theme); err != nil {
			return err
		}
	}

	fmt.Println(t.Settings.Theme(ctx))
	return nil
}
