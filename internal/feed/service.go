// Package feed reconciles the entity cache against fresh server snapshots.
package feed

import (
	"context"
	"log/slog"

	"walletfeed/internal/cache"
	"walletfeed/internal/core"
	"walletfeed/internal/session"
	"walletfeed/pkg/async"
)

type Service struct {
	Logger   *slog.Logger
	Sessions *session.Store
	Cache    *cache.Store
	Gateway  core.Gateway
}

func (s *Service) Init(_ context.Context) error {
	s.Logger = s.Logger.With("component", "feed.Service")

	// Any session change invalidates account-scoped state; the next Refresh
	// repopulates it for the new identity.
	s.Sessions.Subscribe(func(event core.SessionEvent) {
		s.Logger.Debug("session changed, dropping cached view", "kind", event.Kind)
		s.Cache.Clear()
	})
	return nil
}

// Refresh fetches the feed, and notifications when authenticated, and
// installs both as the new confirmed baseline.
func (s *Service) Refresh(ctx context.Context) error {
	tasks := make(chan func(ctx context.Context) error, 2)

	tasks <- func(ctx context.Context) error {
		posts, err := s.Gateway.FetchPosts(ctx)
		if err != nil {
			return err
		}
		s.Cache.ReplacePosts(posts)
		return nil
	}

	if sess := s.Sessions.Current(ctx); sess != nil {
		accountID := sess.AccountID
		tasks <- func(ctx context.Context) error {
			notifications, err := s.Gateway.FetchNotifications(ctx, accountID)
			if err != nil {
				return err
			}
			s.Cache.ReplaceNotifications(notifications)
			return nil
		}
	}
	close(tasks)

	return async.WorkerPool(ctx, 2, tasks, func(ctx context.Context, task func(ctx context.Context) error) error {
		return task(ctx)
	})
}
