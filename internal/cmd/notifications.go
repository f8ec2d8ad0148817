package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/urfave/cli/v3"
	"github.com/zhulik/pal"

	"walletfeed/internal/cache"
	"walletfeed/internal/cmd/flags"
	"walletfeed/internal/coordinator"
	"walletfeed/internal/core"
	"walletfeed/internal/feed"
)

var notificationsCmd = &cli.Command{
	Name:  "notifications",
	Usage: "List your notifications",
	Flags: []cli.Flag{
		flags.AllRead,
	},
	Action: func(ctx context.Context, c *cli.Command) error {
		return run(ctx, c, append(appServices(),
			pal.Provide(&notificationLister{markAllRead: c.Bool("all-read")}),
		)...)
	},
}

type notificationLister struct {
	Logger      *slog.Logger
	Feed        *feed.Service
	Cache       *cache.Store
	Coordinator *coordinator.Coordinator

	markAllRead bool
}

func (n *notificationLister) Run(ctx context.Context) error {
	if err := n.Feed.Refresh(ctx); err != nil {
		return err
	}

	for _, notification := range n.Cache.Notifications() {
		printNotification(notification)
	}

	if n.markAllRead {
		return n.Coordinator.MarkAllRead(ctx)
	}
	return nil
}

func printNotification(n core.Notification) {
	marker := "*"
	if n.Read {
		marker = " "
	}
	fmt.Printf("%s %s  [%s] %s\n", marker, n.ID, n.Type, n.Message)
}

var readCmd = &cli.Command{
	Name:      "read",
	Usage:     "Mark a notification as read",
	ArgsUsage: "<notification-id>",
	Action: func(ctx context.Context, c *cli.Command) error {
		if c.Args().First() == "" {
			return errors.New("notification id required")
		}
		return run(ctx, c, append(appServices(),
			pal.Provide(&notificationReader{notificationID: c.Args().First()}),
		)...)
	},
}

type notificationReader struct {
	Logger      *slog.Logger
	Feed        *feed.Service
	Coordinator *coordinator.Coordinator

	notificationID string
}

func (n *notificationReader) Run(ctx context.Context) error {
	if err := n.Feed.Refresh(ctx); err != nil {
		return err
	}

	return n.Coordinator.MarkRead(ctx, n.notificationID)
}
