package settings_test

import (
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"

	"walletfeed/internal/core"
	"walletfeed/internal/kv"
	"walletfeed/internal/settings"
)

func testService(t *testing.T, store core.KeyValueStore) *settings.Service {
	t.Helper()

	s := &settings.Service{
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		KV:     store,
	}
	require.NoError(t, s.Init(t.Context()))
	return s
}

func TestThemeDefaultsWhenUnset(t *testing.T) {
	t.Parallel()

	s := testService(t, kv.NewMemory())
	require.Equal(t, settings.DefaultTheme, s.Theme(t.Context()))
}

func TestSetThemeRoundTrip(t *testing.T) {
	t.Parallel()

	store := kv.NewMemory()
	s := testService(t, store)
	ctx := t.Context()

	require.NoError(t, s.SetTheme(ctx, "dark"))
	require.Equal(t, "dark", s.Theme(ctx))

	// The preference is persisted, not process state.
	require.Equal(t, "dark", testService(t, store).Theme(ctx))
}

func TestSetThemeRejectsUnknownValue(t *testing.T) {
	t.Parallel()

	s := testService(t, kv.NewMemory())

	err := s.SetTheme(t.Context(), "neon")

	var validationErr *core.ValidationError
	require.ErrorAs(t, err, &validationErr)
	require.Equal(t, settings.DefaultTheme, s.Theme(t.Context()))
}

func TestCorruptStoredThemeFallsBack(t *testing.T) {
	t.Parallel()

	store := kv.NewMemory()
	ctx := t.Context()
	require.NoError(t, store.Put(ctx, "settings.theme", []byte("{not json")))

	s := testService(t, store)
	require.Equal(t, settings.DefaultTheme, s.Theme(ctx))
}
