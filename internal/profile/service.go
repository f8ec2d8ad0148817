// Package profile fetches and saves user profiles with a per-account cache
// in the persisted client state.
package profile

import (
	"context"
	"encoding/json"
	"log/slog"

	"walletfeed/internal/core"
	"walletfeed/internal/session"
)

const keyPrefix = "profile:"

type Service struct {
	Logger   *slog.Logger
	Sessions *session.Store
	Gateway  core.Gateway
	KV       core.KeyValueStore
}

func (s *Service) Init(_ context.Context) error {
	s.Logger = s.Logger.With("component", "profile.Service")
	return nil
}

// Get returns the cached profile when present, otherwise fetches and caches
// it. A corrupt cache entry counts as a miss.
func (s *Service) Get(ctx context.Context, accountID string) (core.Profile, error) {
	if raw, err := s.KV.Get(ctx, keyPrefix+accountID); err == nil {
		var profile core.Profile
		if json.Unmarshal(raw, &profile) == nil {
			return profile, nil
		}
	}

	profile, err := s.Gateway.FetchProfile(ctx, accountID)
	if err != nil {
		return core.Profile{}, err
	}

	s.cache(ctx, profile)
	return profile, nil
}

// Save pushes the profile to the backend and refreshes the cached copy with
// the server's representation. Requires an active session for the account.
func (s *Service) Save(ctx context.Context, profile core.Profile) (core.Profile, error) {
	sess := s.Sessions.Current(ctx)
	if sess == nil {
		return core.Profile{}, core.ErrUnauthenticated
	}
	profile.AccountID = sess.AccountID

	saved, err := s.Gateway.SaveProfile(ctx, profile)
	if err != nil {
		return core.Profile{}, err
	}

	s.cache(ctx, saved)
	return saved, nil
}

func (s *Service) cache(ctx context.Context, profile core.Profile) {
	raw, err := json.Marshal(profile)
	if err != nil {
		return
	}
	if err := s.KV.Put(ctx, keyPrefix+profile.AccountID, raw); err != nil {
		s.Logger.Warn("failed to cache profile", "account", profile.AccountID, "error", err)
	}
}
