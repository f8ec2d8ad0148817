package chat_test

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"walletfeed/internal/chat"
	"walletfeed/internal/core"
	"walletfeed/internal/kv"
	"walletfeed/internal/session"
)

type fakeStream struct {
	chunks []string
	closed bool
}

func (s *fakeStream) Next() (string, error) {
	if len(s.chunks) == 0 {
		return "", io.EOF
	}
	chunk := s.chunks[0]
	s.chunks = s.chunks[1:]
	return chunk, nil
}

func (s *fakeStream) Close() error {
	s.closed = true
	return nil
}

type fakeGateway struct {
	core.Gateway

	stream *fakeStream
	err    error
}

func (f *fakeGateway) StreamChat(context.Context, string, string) (core.ChatStream, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.stream, nil
}

func setup(t *testing.T, signedIn bool, gateway *fakeGateway) *chat.Service {
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

	s := &chat.Service{Logger: logger, Sessions: sessions, Gateway: gateway}
	require.NoError(t, s.Init(ctx))
	return s
}

func TestAskConsolidatesChunks(t *testing.T) {
	t.Parallel()

	stream := &fakeStream{chunks: []string{"Hello", ", ", "world"}}
	s := setup(t, true, &fakeGateway{stream: stream})

	answer, err := s.Ask(t.Context(), "greet me")
	require.NoError(t, err)
	require.Equal(t, "Hello, world", answer)
	require.True(t, stream.closed, "stream must be released after assembly")
}

func TestAskRequiresSession(t *testing.T) {
	t.Parallel()

	s := setup(t, false, &fakeGateway{stream: &fakeStream{}})

	_, err := s.Ask(t.Context(), "hi")
	require.ErrorIs(t, err, core.ErrUnauthenticated)
}

func TestAskRejectsEmptyPrompt(t *testing.T) {
	t.Parallel()

	s := setup(t, true, &fakeGateway{stream: &fakeStream{}})

	_, err := s.Ask(t.Context(), "   ")

	var validationErr *core.ValidationError
	require.ErrorAs(t, err, &validationErr)
}

func TestAskReleasesStreamOnCancellation(t *testing.T) {
	t.Parallel()

	stream := &fakeStream{chunks: []string{"never", "delivered"}}
	s := setup(t, true, &fakeGateway{stream: stream})

	ctx, cancel := context.WithCancel(t.Context())
	cancel()

	_, err := s.Ask(ctx, "hi")
	require.ErrorIs(t, err, context.Canceled)
	require.True(t, stream.closed, "abandoned stream must be released")
}

func TestAskPropagatesGatewayError(t *testing.T) {
	t.Parallel()

	s := setup(t, true, &fakeGateway{err: &core.RequestError{Status: 502, Message: "assistant offline"}})

	_, err := s.Ask(t.Context(), "hi")

	var reqErr *core.RequestError
	require.ErrorAs(t, err, &reqErr)
	require.Equal(t, "assistant offline", reqErr.Message)
}
