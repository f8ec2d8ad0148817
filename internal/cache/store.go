// Package cache mirrors the posts and notifications of the current view.
// All mutation goes through optimistic tokens: applyOptimistic-style methods
// record a speculative change and return a Token that is later resolved by
// exactly one of Confirm or Rollback. At any observable point the cache is
// the last confirmed server state plus a well-defined speculative overlay.
package cache

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"
	"github.com/samber/lo"

	"walletfeed/internal/core"
)

// Token identifies one outstanding speculative mutation.
type Token struct {
	id string
}

type mutation struct {
	confirm  func(server any) error
	rollback func() error
}

// Store is the process-wide entity cache. The interaction coordinator is its
// only writer; everything else reads copies.
type Store struct {
	Logger *slog.Logger

	mu            sync.Mutex
	posts         []*core.Post
	notifications []*core.Notification
	tokens        map[string]*mutation

	// generation counts full reconciliations; removal tokens from an older
	// generation refuse to reinsert into a collection they no longer match.
	generation uint64
}

func (s *Store) Init(_ context.Context) error {
	s.Logger = s.Logger.With("component", "cache.Store")
	s.tokens = map[string]*mutation{}
	return nil
}

// ReplacePosts installs a fresh server snapshot, discarding the previous
// collection. Outstanding tokens survive but may now resolve to ErrNotFound.
func (s *Store) ReplacePosts(posts []core.Post) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.posts = lo.Map(posts, func(p core.Post, _ int) *core.Post {
		c := p.Clone()
		return &c
	})
	s.generation++
}

func (s *Store) ReplaceNotifications(notifications []core.Notification) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.notifications = lo.Map(notifications, func(n core.Notification, _ int) *core.Notification {
		c := n
		return &c
	})
	s.generation++
}

// Clear drops all account-scoped state, e.g. after a session change.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.posts = nil
	s.notifications = nil
	s.tokens = map[string]*mutation{}
	s.generation++
}

func (s *Store) Posts() []core.Post {
	s.mu.Lock()
	defer s.mu.Unlock()

	return lo.Map(s.posts, func(p *core.Post, _ int) core.Post {
		return p.Clone()
	})
}

func (s *Store) Post(id string) (core.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	post, _, ok := s.findPost(id)
	if !ok {
		return core.Post{}, core.ErrNotFound
	}
	return post.Clone(), nil
}

func (s *Store) Notifications() []core.Notification {
	s.mu.Lock()
	defer s.mu.Unlock()

	return lo.Map(s.notifications, func(n *core.Notification, _ int) core.Notification {
		return *n
	})
}

func (s *Store) UnreadCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return lo.CountBy(s.notifications, func(n *core.Notification) bool {
		return !n.Read
	})
}

// Confirm resolves a token with the authoritative server payload, replacing
// the speculative entity in place. A target evicted by an intervening
// reconciliation is silently skipped: the next snapshot is already truth.
func (s *Store) Confirm(tok Token, server any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, err := s.takeToken(tok)
	if err != nil {
		return err
	}
	return m.confirm(server)
}

// Rollback reverts exactly the change identified by the token. It targets the
// touched entity, not a global snapshot, so unrelated concurrent updates are
// preserved. An evicted target yields ErrNotFound.
func (s *Store) Rollback(tok Token) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, err := s.takeToken(tok)
	if err != nil {
		return err
	}
	return m.rollback()
}

func (s *Store) takeToken(tok Token) (*mutation, error) {
	m, ok := s.tokens[tok.id]
	if !ok {
		return nil, fmt.Errorf("%w: token already resolved or unknown", core.ErrNotFound)
	}
	delete(s.tokens, tok.id)
	return m, nil
}

func (s *Store) register(m *mutation) Token {
	tok := Token{id: uuid.NewString()}
	s.tokens[tok.id] = m
	return tok
}

func (s *Store) findPost(id string) (*core.Post, int, bool) {
	return lo.FindIndexOf(s.posts, func(p *core.Post) bool {
		return p.ID == id
	})
}

func (s *Store) findNotification(id string) (*core.Notification, int, bool) {
	return lo.FindIndexOf(s.notifications, func(n *core.Notification) bool {
		return n.ID == id
	})
}
