package cmd

import (
	"context"
	"log/slog"
	"time"

	"github.com/urfave/cli/v3"
	"github.com/zhulik/pal"

	"walletfeed/internal/cache"
	"walletfeed/internal/cmd/flags"
	"walletfeed/internal/feed"
	"walletfeed/internal/metrics"
)

var watchCmd = &cli.Command{
	Name:  "watch",
	Usage: "Poll the feed and print notifications as they arrive",
	Flags: []cli.Flag{
		flags.Interval,
		flags.MetricsAddr,
	},
	Action: func(ctx context.Context, c *cli.Command) error {
		services := append(appServices(),
			pal.Provide(&watcher{interval: c.Duration("interval")}),
		)
		if addr := c.String("metrics-addr"); addr != "" {
			services = append(services, pal.Provide(&metrics.HTTPServer{Addr: addr}))
		}
		return run(ctx, c, services...)
	},
}

type watcher struct {
	Logger *slog.Logger
	Feed   *feed.Service
	Cache  *cache.Store

	interval time.Duration
}

func (w *watcher) Run(ctx context.Context) error {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	seen := map[string]bool{}

	for {
		if err := w.refresh(ctx, seen); err != nil {
			w.Logger.Error("refresh failed", "error", err)
		}

		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

func (w *watcher) refresh(ctx context.Context, seen map[string]bool) error {
	if err := w.Feed.Refresh(ctx); err != nil {
		return err
	}

	for _, notification := range w.Cache.Notifications() {
		if seen[notification.ID] {
			continue
		}
		seen[notification.ID] = true
		if !notification.Read {
			printNotification(notification)
		}
	}

	w.Logger.Debug("refreshed", "posts", len(w.Cache.Posts()), "unread", w.Cache.UnreadCount())
	return nil
}
