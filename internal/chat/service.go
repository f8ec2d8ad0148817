// Package chat drives the streaming AI chat endpoint and assembles the
// response into a single string.
package chat

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"

	"walletfeed/internal/core"
	"walletfeed/internal/session"
)

type Service struct {
	Logger   *slog.Logger
	Sessions *session.Store
	Gateway  core.Gateway
}

func (s *Service) Init(_ context.Context) error {
	s.Logger = s.Logger.With("component", "chat.Service")
	return nil
}

// Ask streams an answer and returns it consolidated. The stream is always
// released, also when the context is cancelled mid-response.
func (s *Service) Ask(ctx context.Context, prompt string) (string, error) {
	sess := s.Sessions.Current(ctx)
	if sess == nil {
		return "", core.ErrUnauthenticated
	}

	if strings.TrimSpace(prompt) == "" {
		return "", &core.ValidationError{Reason: "prompt required"}
	}

	stream, err := s.Gateway.StreamChat(ctx, sess.AccountID, prompt)
	if err != nil {
		return "", err
	}
	defer stream.Close()

	var b strings.Builder
	for {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}

		chunk, err := stream.Next()
		if errors.Is(err, io.EOF) {
			return b.String(), nil
		}
		if err != nil {
			return "", err
		}
		b.WriteString(chunk)
	}
}
