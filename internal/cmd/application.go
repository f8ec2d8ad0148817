package cmd

import (
	"context"
	"fmt"
	"os"
	"syscall"
	"time"

	"github.com/urfave/cli/v3"
	"github.com/zhulik/pal"

	"walletfeed/internal/cache"
	"walletfeed/internal/chat"
	"walletfeed/internal/cmd/flags"
	"walletfeed/internal/config"
	"walletfeed/internal/coordinator"
	"walletfeed/internal/core"
	"walletfeed/internal/feed"
	"walletfeed/internal/gateway"
	"walletfeed/internal/kv"
	"walletfeed/internal/profile"
	"walletfeed/internal/session"
	"walletfeed/internal/settings"
	"walletfeed/internal/wallet"
	"walletfeed/pkg/clicfg"
)

const VERSION = "0.1.0"

var cmd = &cli.Command{
	Name:    "walletfeed",
	Usage:   "walletfeed is a wallet-authenticated social feed client",
	Version: VERSION,
	Before: func(ctx context.Context, c *cli.Command) (context.Context, error) {
		if err := initLogger(c.String("log-level")); err != nil {
			return ctx, err
		}
		return ctx, nil
	},
	Flags: []cli.Flag{
		flags.APIURL,
		flags.LogLevel,
	},
	Commands: []*cli.Command{
		loginCmd,
		logoutCmd,
		whoamiCmd,
		feedCmd,
		postCmd,
		rmPostCmd,
		likeCmd,
		commentCmd,
		rmCommentCmd,
		notificationsCmd,
		readCmd,
		profileCmd,
		setProfileCmd,
		chatCmd,
		themeCmd,
		watchCmd,
	},
}

func Run() {
	if err := cmd.Run(context.Background(), os.Args); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

// appServices is the client stack shared by every command.
func appServices() []pal.ServiceDef {
	return []pal.ServiceDef{
		pal.Provide[core.KeyValueStore](&kv.Store{}),
		pal.Provide[core.Gateway](&gateway.Client{}),
		pal.Provide(&wallet.Keystore{}),
		pal.Provide(&session.Store{}),
		pal.Provide(&cache.Store{}),
		pal.Provide(&coordinator.Coordinator{}),
		pal.Provide(&feed.Service{}),
		pal.Provide(&profile.Service{}),
		pal.Provide(&chat.Service{}),
		pal.Provide(&settings.Service{}),
	}
}

func run(ctx context.Context, c *cli.Command, services ...pal.ServiceDef) error {
	flagCfg := config.Config{}
	if err := clicfg.ParseFlags(c, &flagCfg); err != nil {
		return err
	}

	cfg := core.Config{APIBaseURL: flagCfg.APIURL}
	services = append(services, pal.Provide(&cfg))

	return pal.New(services...).
		InjectSlog().
		InitTimeout(5*time.Second).
		HealthCheckTimeout(1*time.Second).
		ShutdownTimeout(10*time.Second).
		Run(ctx, syscall.SIGINT, syscall.SIGTERM)
}
