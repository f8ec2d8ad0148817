package feed_test

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"walletfeed/internal/cache"
	"walletfeed/internal/core"
	"walletfeed/internal/feed"
	"walletfeed/internal/kv"
	"walletfeed/internal/session"
)

type fakeGateway struct {
	core.Gateway

	fetchPosts         func(ctx context.Context) ([]core.Post, error)
	fetchNotifications func(ctx context.Context, accountID string) ([]core.Notification, error)
}

func (f *fakeGateway) FetchPosts(ctx context.Context) ([]core.Post, error) {
	return f.fetchPosts(ctx)
}

func (f *fakeGateway) FetchNotifications(ctx context.Context, accountID string) ([]core.Notification, error) {
	return f.fetchNotifications(ctx, accountID)
}

type fixture struct {
	sessions *session.Store
	cache    *cache.Store
	gateway  *fakeGateway
	service  *feed.Service
}

func setup(t *testing.T, signedIn bool) *fixture {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	ctx := t.Context()

	sessions := &session.Store{
		Logger: logger,
		Config: &core.Config{SessionTTL: 24 * time.Hour},
		KV:     kv.NewMemory(),
	}
	require.NoError(t, sessions.Init(ctx))
	if signedIn {
		_, err := sessions.Establish(ctx, "0xAAA")
		require.NoError(t, err)
	}

	store := &cache.Store{Logger: logger}
	require.NoError(t, store.Init(ctx))

	gateway := &fakeGateway{}
	s := &feed.Service{Logger: logger, Sessions: sessions, Cache: store, Gateway: gateway}
	require.NoError(t, s.Init(ctx))

	return &fixture{sessions: sessions, cache: store, gateway: gateway, service: s}
}

func TestRefreshInstallsPostsAndNotifications(t *testing.T) {
	t.Parallel()

	f := setup(t, true)
	f.gateway.fetchPosts = func(context.Context) ([]core.Post, error) {
		return []core.Post{{ID: "p1"}, {ID: "p2"}}, nil
	}
	f.gateway.fetchNotifications = func(_ context.Context, accountID string) ([]core.Notification, error) {
		require.Equal(t, "0xAAA", accountID)
		return []core.Notification{{ID: "n1"}}, nil
	}

	require.NoError(t, f.service.Refresh(t.Context()))
	require.Len(t, f.cache.Posts(), 2)
	require.Len(t, f.cache.Notifications(), 1)
}

func TestRefreshSignedOutSkipsNotifications(t *testing.T) {
	t.Parallel()

	f := setup(t, false)
	f.gateway.fetchPosts = func(context.Context) ([]core.Post, error) {
		return []core.Post{{ID: "p1"}}, nil
	}
	// fetchNotifications stays nil: calling it would panic the test.

	require.NoError(t, f.service.Refresh(t.Context()))
	require.Len(t, f.cache.Posts(), 1)
	require.Empty(t, f.cache.Notifications())
}

func TestRefreshPropagatesFetchError(t *testing.T) {
	t.Parallel()

	f := setup(t, false)
	f.gateway.fetchPosts = func(context.Context) ([]core.Post, error) {
		return nil, &core.RequestError{Status: 0, Message: "network error"}
	}

	err := f.service.Refresh(t.Context())

	var reqErr *core.RequestError
	require.ErrorAs(t, err, &reqErr)
	require.Empty(t, f.cache.Posts())
}

func TestSessionChangeClearsCache(t *testing.T) {
	t.Parallel()

	f := setup(t, true)
	f.cache.ReplacePosts([]core.Post{{ID: "p1"}})
	f.cache.ReplaceNotifications([]core.Notification{{ID: "n1"}})

	f.sessions.Clear(t.Context())

	require.Empty(t, f.cache.Posts())
	require.Empty(t, f.cache.Notifications())
}

func TestAccountSwitchClearsCache(t *testing.T) {
	t.Parallel()

	f := setup(t, true)
	f.cache.ReplacePosts([]core.Post{{ID: "p1"}})

	f.sessions.OnAccountsChanged([]string{"0xBBB"})

	require.Empty(t, f.cache.Posts())
}
