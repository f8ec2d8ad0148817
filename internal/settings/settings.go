// Package settings persists small UI preferences in the client state.
package settings

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"slices"

	"walletfeed/internal/core"
)

const themeKey = "settings.theme"

const DefaultTheme = "system"

var themes = []string{"light", "dark", "system"}

type Service struct {
	Logger *slog.Logger
	KV     core.KeyValueStore
}

func (s *Service) Init(_ context.Context) error {
	s.Logger = s.Logger.With("component", "settings.Service")
	return nil
}

// Theme returns the stored preference, falling back to the default when none
// is set. A corrupt or unknown stored value counts as unset.
func (s *Service) Theme(ctx context.Context) string {
	raw, err := s.KV.Get(ctx, themeKey)
	if err != nil {
		if !errors.Is(err, core.ErrNotFound) {
			s.Logger.Warn("failed to load theme preference", "error", err)
		}
		return DefaultTheme
	}

	var theme string
	if json.Unmarshal(raw, &theme) != nil || !slices.Contains(themes, theme) {
		return DefaultTheme
	}
	return theme
}

func (s *Service) SetTheme(ctx context.Context, theme string) error {
	if !slices.Contains(themes, theme) {
		return &core.ValidationError{Reason: fmt.Sprintf("unknown theme %q, allowed values are: %v", theme, themes)}
	}

	raw, err := json.Marshal(theme)
	if err != nil {
		return err
	}
	return s.KV.Put(ctx, themeKey, raw)
}
