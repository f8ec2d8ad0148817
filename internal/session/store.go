// Package session owns the authenticated identity and its expiry. Everything
// else reads the session through Current; nothing else mutates it.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"sync"
	"time"

	"walletfeed/internal/core"
)

const sessionKey = "session"

// Store keeps the session both in memory and in the KV store. Expiry is
// checked lazily on every read; there is no background sweep.
type Store struct {
	Logger *slog.Logger
	Config *core.Config
	KV     core.KeyValueStore

	mu          sync.Mutex
	current     *core.Session
	subscribers []func(core.SessionEvent)

	now func() time.Time
}

func (s *Store) Init(ctx context.Context) error {
	s.Logger = s.Logger.With("component", "session.Store")
	s.now = time.Now

	raw, err := s.KV.Get(ctx, sessionKey)
	if err != nil {
		if !errors.Is(err, core.ErrNotFound) {
			s.Logger.Warn("failed to load persisted session", "error", err)
		}
		return nil
	}

	var sess core.Session
	if err := json.Unmarshal(raw, &sess); err != nil {
		// Unreadable state is "no session", never an error.
		s.Logger.Warn("discarding unreadable persisted session", "error", err)
		return nil
	}

	s.current = &sess
	return nil
}

// Establish records a new session for accountID, overwriting any prior one.
func (s *Store) Establish(ctx context.Context, accountID string) (core.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	sess := core.Session{
		AccountID:     accountID,
		EstablishedAt: now,
		ExpiresAt:     now.Add(s.Config.SessionTTL),
	}

	raw, err := json.Marshal(sess)
	if err != nil {
		return core.Session{}, err
	}
	if err := s.KV.Put(ctx, sessionKey, raw); err != nil {
		return core.Session{}, err
	}

	s.current = &sess
	s.Logger.Info("session established", "account", accountID, "expires", sess.ExpiresAt)
	s.emit(core.SessionEvent{Kind: core.SessionEstablished, AccountID: accountID})
	return sess, nil
}

// Current returns the active session, or nil when there is none. An expired
// session is cleared as a side effect of the read.
func (s *Store) Current(ctx context.Context) *core.Session {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current == nil {
		return nil
	}

	if s.current.Expired(s.now()) {
		s.Logger.Info("session expired", "account", s.current.AccountID)
		s.clearLocked(ctx)
		return nil
	}

	sess := *s.current
	return &sess
}

func (s *Store) IsActive(ctx context.Context) bool {
	return s.Current(ctx) != nil
}

// Clear unconditionally removes the session: sign-out, expiry, or the wallet
// reporting zero connected accounts.
func (s *Store) Clear(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.clearLocked(ctx)
}

// OnAccountsChanged matches the wallet provider's listener signature. A new
// primary account replaces the session; an empty account list is a sign-out.
func (s *Store) OnAccountsChanged(accounts []string) {
	ctx := context.Background()

	if len(accounts) == 0 {
		s.Clear(ctx)
		return
	}

	if sess := s.Current(ctx); sess != nil && sess.AccountID == accounts[0] {
		return
	}

	if _, err := s.Establish(ctx, accounts[0]); err != nil {
		s.Logger.Error("failed to re-establish session after account change", "error", err)
	}
}

// Subscribe registers for establish/clear events. Dependents use them to
// reload or drop account-scoped state.
func (s *Store) Subscribe(fn func(core.SessionEvent)) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.subscribers = append(s.subscribers, fn)
}

func (s *Store) clearLocked(ctx context.Context) {
	if err := s.KV.Delete(ctx, sessionKey); err != nil {
		s.Logger.Warn("failed to delete persisted session", "error", err)
	}

	if s.current == nil {
		return
	}

	account := s.current.AccountID
	s.current = nil
	s.emit(core.SessionEvent{Kind: core.SessionCleared, AccountID: account})
}

// emit is called with s.mu held; subscribers must not call back into the
// store synchronously.
func (s *Store) emit(event core.SessionEvent) {
	for _, fn := range s.subscribers {
		fn(event)
	}
}
