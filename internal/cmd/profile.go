package cmd

import (
	"context"
	"errors"
	"log/slog"

	"github.com/k0kubun/pp"
	"github.com/urfave/cli/v3"
	"github.com/zhulik/pal"

	"walletfeed/internal/core"
	"walletfeed/internal/profile"
	"walletfeed/internal/session"
)

var profileCmd = &cli.Command{
	Name:      "profile",
	Usage:     "Show a profile (defaults to your own)",
	ArgsUsage: "[account-id]",
	Action: func(ctx context.Context, c *cli.Command) error {
		return run(ctx, c, append(appServices(),
			pal.Provide(&profileShower{accountID: c.Args().First()}),
		)...)
	},
}

type profileShower struct {
	Logger   *slog.Logger
	Sessions *session.Store
	Profiles *profile.Service

	accountID string
}

func (p *profileShower) Run(ctx context.Context) error {
	accountID := p.accountID
	if accountID == "" {
		sess := p.Sessions.Current(ctx)
		if sess == nil {
			return errors.New("no account given and not signed in")
		}
		accountID = sess.AccountID
	}

	prof, err := p.Profiles.Get(ctx, accountID)
	if err != nil {
		return err
	}

	pp.Println(prof)
	return nil
}

var setProfileCmd = &cli.Command{
	Name:  "set-profile",
	Usage: "Update your profile",
	Flags: []cli.Flag{
		&cli.StringFlag{Name: "handle"},
		&cli.StringFlag{Name: "name"},
		&cli.StringFlag{Name: "bio"},
		&cli.StringFlag{Name: "avatar"},
	},
	Action: func(ctx context.Context, c *cli.Command) error {
		return run(ctx, c, append(appServices(),
			pal.Provide(&profileUpdater{
				profile: core.Profile{
					Handle:      c.String("handle"),
					DisplayName: c.String("name"),
					Bio:         c.String("bio"),
					Avatar:      c.String("avatar"),
				},
			}),
		)...)
	},
}

type profileUpdater struct {
	Logger   *slog.Logger
	Profiles *profile.Service

	profile core.Profile
}

func (p *profileUpdater) Run(ctx context.Context) error {
	saved, err := p.Profiles.Save(ctx, p.profile)
	if err != nil {
		return err
	}

	pp.Println(saved)
	return nil
}
