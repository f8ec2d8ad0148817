// Package coordinator executes user intents against the entity cache with
// optimistic-then-confirm semantics. Each action moves Idle → Pending →
// Confirmed or RolledBack; a nil return is Confirmed, an error is either a
// local rejection (unauthenticated, validation, unknown entity) or a rolled
// back gateway failure.
package coordinator

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"walletfeed/internal/cache"
	"walletfeed/internal/core"
	"walletfeed/internal/session"
)

var actions = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "walletfeed_actions_total",
	Help: "The total number of user actions by outcome",
}, []string{"action", "outcome"})

const (
	outcomeConfirmed  = "confirmed"
	outcomeRolledBack = "rolled_back"
	outcomeRejected   = "rejected"
)

// notificationsStripe serializes every notification mutation, single or bulk.
// Mark-all-read touches an unbounded set of ids, so per-id locks cannot keep
// it from interleaving with a racing mark-read on one of them.
const notificationsStripe = "notifications"

type Coordinator struct {
	Logger   *slog.Logger
	Sessions *session.Store
	Cache    *cache.Store
	Gateway  core.Gateway

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func (c *Coordinator) Init(_ context.Context) error {
	c.Logger = c.Logger.With("component", "coordinator.Coordinator")
	return nil
}

// ToggleLike flips the caller's like on a post. Two toggles dispatched
// back-to-back on the same post serialize: the second waits for the first to
// resolve, so membership is always read post-resolution.
func (c *Coordinator) ToggleLike(ctx context.Context, postID string) error {
	return c.dispatch(ctx, "toggle_like", postID,
		func(sess *core.Session) (cache.Token, error) {
			return c.Cache.ToggleLike(postID, sess.AccountID)
		},
		func(ctx context.Context, sess *core.Session) (any, error) {
			return c.Gateway.ToggleLike(ctx, sess.AccountID, postID)
		})
}

func (c *Coordinator) CreatePost(ctx context.Context, content string, media *core.MediaRef) (string, error) {
	if err := validateSubmission(content, media); err != nil {
		actions.WithLabelValues("create_post", outcomeRejected).Inc()
		return "", err
	}

	draftID := "tmp-" + uuid.NewString()
	err := c.dispatch(ctx, "create_post", draftID,
		func(sess *core.Session) (cache.Token, error) {
			return c.Cache.PrependPost(core.Post{
				ID:        draftID,
				Author:    core.AccountRef{ID: sess.AccountID},
				Content:   content,
				Media:     media,
				CreatedAt: time.Now(),
			}), nil
		},
		func(ctx context.Context, sess *core.Session) (any, error) {
			return c.Gateway.CreatePost(ctx, sess.AccountID, content, media)
		})
	return draftID, err
}

// DeletePost is terminal once confirmed; a rolled back delete restores the
// post at its original position.
func (c *Coordinator) DeletePost(ctx context.Context, postID string) error {
	return c.dispatch(ctx, "delete_post", postID,
		func(*core.Session) (cache.Token, error) {
			return c.Cache.RemovePost(postID)
		},
		func(ctx context.Context, sess *core.Session) (any, error) {
			return nil, c.Gateway.DeletePost(ctx, sess.AccountID, postID)
		})
}

func (c *Coordinator) AddComment(ctx context.Context, postID, content string, media *core.MediaRef) error {
	if err := validateSubmission(content, media); err != nil {
		actions.WithLabelValues("add_comment", outcomeRejected).Inc()
		return err
	}

	draftID := "tmp-" + uuid.NewString()
	return c.dispatch(ctx, "add_comment", postID,
		func(sess *core.Session) (cache.Token, error) {
			return c.Cache.AppendComment(postID, core.Comment{
				ID:        draftID,
				PostID:    postID,
				Author:    core.AccountRef{ID: sess.AccountID},
				Content:   content,
				Media:     media,
				CreatedAt: time.Now(),
			})
		},
		func(ctx context.Context, sess *core.Session) (any, error) {
			return c.Gateway.AddComment(ctx, sess.AccountID, postID, content, media)
		})
}

func (c *Coordinator) DeleteComment(ctx context.Context, postID, commentID string) error {
	return c.dispatch(ctx, "delete_comment", postID,
		func(*core.Session) (cache.Token, error) {
			return c.Cache.RemoveComment(postID, commentID)
		},
		func(ctx context.Context, sess *core.Session) (any, error) {
			return nil, c.Gateway.DeleteComment(ctx, sess.AccountID, postID, commentID)
		})
}

func (c *Coordinator) MarkRead(ctx context.Context, notificationID string) error {
	return c.dispatch(ctx, "mark_read", notificationsStripe,
		func(*core.Session) (cache.Token, error) {
			return c.Cache.MarkRead(notificationID)
		},
		func(ctx context.Context, sess *core.Session) (any, error) {
			return nil, c.Gateway.MarkRead(ctx, sess.AccountID, notificationID)
		})
}

func (c *Coordinator) MarkAllRead(ctx context.Context) error {
	return c.dispatch(ctx, "mark_all_read", notificationsStripe,
		func(*core.Session) (cache.Token, error) {
			return c.Cache.MarkAllRead(), nil
		},
		func(ctx context.Context, sess *core.Session) (any, error) {
			return nil, c.Gateway.MarkAllRead(ctx, sess.AccountID)
		})
}

// dispatch runs the shared state machine: session gate, per-entity lock,
// optimistic apply, gateway call, confirm or rollback.
func (c *Coordinator) dispatch(
	ctx context.Context,
	action, entityID string,
	apply func(sess *core.Session) (cache.Token, error),
	call func(ctx context.Context, sess *core.Session) (any, error),
) error {
	sess := c.Sessions.Current(ctx)
	if sess == nil {
		actions.WithLabelValues(action, outcomeRejected).Inc()
		return core.ErrUnauthenticated
	}

	unlock := c.lockEntity(entityID)
	defer unlock()

	tok, err := apply(sess)
	if err != nil {
		actions.WithLabelValues(action, outcomeRejected).Inc()
		return err
	}

	payload, err := call(ctx, sess)
	if err != nil {
		if rbErr := c.Cache.Rollback(tok); rbErr != nil && !errors.Is(rbErr, core.ErrNotFound) {
			c.Logger.Error("rollback failed", "action", action, "entity", entityID, "error", rbErr)
		}
		actions.WithLabelValues(action, outcomeRolledBack).Inc()
		c.Logger.Warn("action rolled back", "action", action, "entity", entityID, "error", err)
		return err
	}

	if err := c.Cache.Confirm(tok, payload); err != nil {
		// The server accepted the mutation; a confirm miss only means the
		// view was reconciled underneath us.
		c.Logger.Debug("confirm skipped", "action", action, "entity", entityID, "error", err)
	}

	actions.WithLabelValues(action, outcomeConfirmed).Inc()
	return nil
}

// lockEntity serializes mutations per entity id. Locks are never removed;
// the id space of one interactive session is small.
func (c *Coordinator) lockEntity(id string) func() {
	c.mu.Lock()
	if c.locks == nil {
		c.locks = map[string]*sync.Mutex{}
	}
	lock, ok := c.locks[id]
	if !ok {
		lock = &sync.Mutex{}
		c.locks[id] = lock
	}
	c.mu.Unlock()

	lock.Lock()
	return lock.Unlock
}

func validateSubmission(content string, media *core.MediaRef) error {
	if strings.TrimSpace(content) == "" && media == nil {
		return &core.ValidationError{Reason: "content or media required"}
	}
	return nil
}
