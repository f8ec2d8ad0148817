package coordinator_test

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/samber/lo"
	"github.com/stretchr/testify/require"

	"walletfeed/internal/cache"
	"walletfeed/internal/coordinator"
	"walletfeed/internal/core"
	"walletfeed/internal/kv"
	"walletfeed/internal/session"
	"walletfeed/pkg/async"
)

// fakeGateway scripts the remote side; unset operations fail the test.
type fakeGateway struct {
	core.Gateway

	toggleLike    func(ctx context.Context, accountID, postID string) (core.Post, error)
	createPost    func(ctx context.Context, accountID, content string, media *core.MediaRef) (core.Post, error)
	deletePost    func(ctx context.Context, accountID, postID string) error
	addComment    func(ctx context.Context, accountID, postID, content string, media *core.MediaRef) (core.Comment, error)
	deleteComment func(ctx context.Context, accountID, postID, commentID string) error
	markRead      func(ctx context.Context, accountID, notificationID string) error
	markAllRead   func(ctx context.Context, accountID string) error

	calls atomic.Int64
}

func (f *fakeGateway) ToggleLike(ctx context.Context, accountID, postID string) (core.Post, error) {
	f.calls.Add(1)
	return f.toggleLike(ctx, accountID, postID)
}

func (f *fakeGateway) CreatePost(ctx context.Context, accountID, content string, media *core.MediaRef) (core.Post, error) {
	f.calls.Add(1)
	return f.createPost(ctx, accountID, content, media)
}

func (f *fakeGateway) DeletePost(ctx context.Context, accountID, postID string) error {
	f.calls.Add(1)
	return f.deletePost(ctx, accountID, postID)
}

func (f *fakeGateway) AddComment(ctx context.Context, accountID, postID, content string, media *core.MediaRef) (core.Comment, error) {
	f.calls.Add(1)
	return f.addComment(ctx, accountID, postID, content, media)
}

func (f *fakeGateway) DeleteComment(ctx context.Context, accountID, postID, commentID string) error {
	f.calls.Add(1)
	return f.deleteComment(ctx, accountID, postID, commentID)
}

func (f *fakeGateway) MarkRead(ctx context.Context, accountID, notificationID string) error {
	f.calls.Add(1)
	return f.markRead(ctx, accountID, notificationID)
}

func (f *fakeGateway) MarkAllRead(ctx context.Context, accountID string) error {
	f.calls.Add(1)
	return f.markAllRead(ctx, accountID)
}

type fixture struct {
	sessions    *session.Store
	cache       *cache.Store
	gateway     *fakeGateway
	coordinator *coordinator.Coordinator
}

func setup(t *testing.T, signedIn bool, posts ...core.Post) *fixture {
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
	store.ReplacePosts(posts)

	gateway := &fakeGateway{}
	c := &coordinator.Coordinator{
		Logger:   logger,
		Sessions: sessions,
		Cache:    store,
		Gateway:  gateway,
	}
	require.NoError(t, c.Init(ctx))

	return &fixture{sessions: sessions, cache: store, gateway: gateway, coordinator: c}
}

func TestToggleLikeConfirmed(t *testing.T) {
	t.Parallel()

	f := setup(t, true, core.Post{ID: "p1"})
	f.gateway.toggleLike = func(_ context.Context, accountID, postID string) (core.Post, error) {
		return core.Post{ID: postID, Likes: []string{accountID}}, nil
	}

	require.NoError(t, f.coordinator.ToggleLike(t.Context(), "p1"))

	post, err := f.cache.Post("p1")
	require.NoError(t, err)
	require.Equal(t, []string{"0xAAA"}, post.Likes)
}

func TestToggleLikeRolledBackOnFailure(t *testing.T) {
	t.Parallel()

	f := setup(t, true, core.Post{ID: "p1"})
	f.gateway.toggleLike = func(context.Context, string, string) (core.Post, error) {
		return core.Post{}, &core.RequestError{Status: 500, Message: "boom"}
	}

	err := f.coordinator.ToggleLike(t.Context(), "p1")

	var reqErr *core.RequestError
	require.ErrorAs(t, err, &reqErr)
	require.Equal(t, "boom", reqErr.Message)

	post, err := f.cache.Post("p1")
	require.NoError(t, err)
	require.Empty(t, post.Likes)
}

func TestUnauthenticatedActionIsRejectedLocally(t *testing.T) {
	t.Parallel()

	f := setup(t, false, core.Post{ID: "p1"})

	err := f.coordinator.ToggleLike(t.Context(), "p1")
	require.ErrorIs(t, err, core.ErrUnauthenticated)

	// No network call, no cache change.
	require.Zero(t, f.gateway.calls.Load())
	post, err := f.cache.Post("p1")
	require.NoError(t, err)
	require.Empty(t, post.Likes)
}

func TestEmptyCommentRejectedBeforeNetwork(t *testing.T) {
	t.Parallel()

	f := setup(t, true, core.Post{ID: "p1"})

	err := f.coordinator.AddComment(t.Context(), "p1", "   ", nil)

	var validationErr *core.ValidationError
	require.ErrorAs(t, err, &validationErr)
	require.Zero(t, f.gateway.calls.Load())

	post, err := f.cache.Post("p1")
	require.NoError(t, err)
	require.Empty(t, post.Comments)
}

func TestCommentWithMediaOnlyIsValid(t *testing.T) {
	t.Parallel()

	f := setup(t, true, core.Post{ID: "p1"})
	f.gateway.addComment = func(_ context.Context, accountID, postID, content string, media *core.MediaRef) (core.Comment, error) {
		return core.Comment{ID: "c1", PostID: postID, Content: content, Media: media}, nil
	}

	media := &core.MediaRef{URL: "file:///tmp/cat.png", Kind: core.MediaImage}
	require.NoError(t, f.coordinator.AddComment(t.Context(), "p1", "", media))

	post, err := f.cache.Post("p1")
	require.NoError(t, err)
	require.Len(t, post.Comments, 1)
	require.Equal(t, "c1", post.Comments[0].ID)
}

func TestDeletePostRollbackRestoresPosition(t *testing.T) {
	t.Parallel()

	f := setup(t, true, core.Post{ID: "p1"}, core.Post{ID: "p2"}, core.Post{ID: "p3"})
	f.gateway.deletePost = func(context.Context, string, string) error {
		return &core.RequestError{Status: 403, Message: "not yours"}
	}

	err := f.coordinator.DeletePost(t.Context(), "p2")
	require.Error(t, err)

	ids := lo.Map(f.cache.Posts(), func(p core.Post, _ int) string { return p.ID })
	require.Equal(t, []string{"p1", "p2", "p3"}, ids)
}

func TestDeletePostConfirmedIsTerminal(t *testing.T) {
	t.Parallel()

	f := setup(t, true, core.Post{ID: "p1"})
	f.gateway.deletePost = func(context.Context, string, string) error { return nil }

	require.NoError(t, f.coordinator.DeletePost(t.Context(), "p1"))

	_, err := f.cache.Post("p1")
	require.ErrorIs(t, err, core.ErrNotFound)
}

func TestCreatePostConfirmSwapsDraft(t *testing.T) {
	t.Parallel()

	f := setup(t, true)
	f.gateway.createPost = func(_ context.Context, accountID, content string, media *core.MediaRef) (core.Post, error) {
		return core.Post{ID: "p42", Author: core.AccountRef{ID: accountID}, Content: content}, nil
	}

	_, err := f.coordinator.CreatePost(t.Context(), "hello", nil)
	require.NoError(t, err)

	posts := f.cache.Posts()
	require.Len(t, posts, 1)
	require.Equal(t, "p42", posts[0].ID)
}

func TestMarkReadAlreadyReadStillConfirms(t *testing.T) {
	t.Parallel()

	f := setup(t, true)
	f.cache.ReplaceNotifications([]core.Notification{{ID: "n1", Read: true}})
	f.gateway.markRead = func(context.Context, string, string) error { return nil }

	require.NoError(t, f.coordinator.MarkRead(t.Context(), "n1"))
	require.True(t, f.cache.Notifications()[0].Read)
}

func TestNotificationMutationsShareOneStripe(t *testing.T) {
	t.Parallel()

	f := setup(t, true)
	f.cache.ReplaceNotifications([]core.Notification{{ID: "n1"}, {ID: "n2"}})

	var inFlight atomic.Int32
	var overlapped atomic.Bool

	enter := func() {
		if inFlight.Add(1) > 1 {
			overlapped.Store(true)
		}
		time.Sleep(10 * time.Millisecond)
		inFlight.Add(-1)
	}

	f.gateway.markRead = func(context.Context, string, string) error {
		enter()
		return nil
	}
	f.gateway.markAllRead = func(context.Context, string) error {
		enter()
		return nil
	}

	single := async.Job(func(ctx context.Context) (any, error) {
		return nil, f.coordinator.MarkRead(context.Background(), "n1")
	})
	bulk := async.Job(func(ctx context.Context) (any, error) {
		return nil, f.coordinator.MarkAllRead(context.Background())
	})

	_, err := single.Wait()
	require.NoError(t, err)
	_, err = bulk.Wait()
	require.NoError(t, err)

	require.False(t, overlapped.Load(), "single and bulk mark-read must not interleave")
	require.Zero(t, f.cache.UnreadCount())
}

func TestSameEntityMutationsSerialize(t *testing.T) {
	t.Parallel()

	f := setup(t, true, core.Post{ID: "p1"})

	var mu sync.Mutex
	serverLikes := []string{}

	var inFlight atomic.Int32
	var overlapped atomic.Bool

	f.gateway.toggleLike = func(_ context.Context, accountID, postID string) (core.Post, error) {
		if inFlight.Add(1) > 1 {
			overlapped.Store(true)
		}
		defer inFlight.Add(-1)

		time.Sleep(10 * time.Millisecond)

		mu.Lock()
		defer mu.Unlock()
		if lo.Contains(serverLikes, accountID) {
			serverLikes = lo.Without(serverLikes, accountID)
		} else {
			serverLikes = append(serverLikes, accountID)
		}
		return core.Post{ID: postID, Likes: append([]string(nil), serverLikes...)}, nil
	}

	first := async.Job(func(ctx context.Context) (any, error) {
		return nil, f.coordinator.ToggleLike(context.Background(), "p1")
	})
	second := async.Job(func(ctx context.Context) (any, error) {
		return nil, f.coordinator.ToggleLike(context.Background(), "p1")
	})

	_, err := first.Wait()
	require.NoError(t, err)
	_, err = second.Wait()
	require.NoError(t, err)

	require.False(t, overlapped.Load(), "second toggle must queue behind the first")
	require.EqualValues(t, 2, f.gateway.calls.Load())

	// The pair nets out: back to the original like set.
	post, err := f.cache.Post("p1")
	require.NoError(t, err)
	require.Empty(t, post.Likes)

	// And the displayed count always tracks the set.
	require.Equal(t, len(post.Likes), post.LikeCount())
}
