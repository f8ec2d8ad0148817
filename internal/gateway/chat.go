package gateway

import (
	"bufio"
	"context"
	"encoding/json"
	"io"
	"strings"

	"walletfeed/internal/core"
)

const epChatStream = "/ai-chat/stream"

const streamDone = "[DONE]"

type chatBody struct {
	AccountID string `json:"accountId"`
	Prompt    string `json:"prompt"`
}

// StreamChat initiates the streaming chat call. The returned stream holds the
// response body open; the caller must Close it, also when abandoning the
// stream early.
func (c *Client) StreamChat(ctx context.Context, accountID, prompt string) (core.ChatStream, error) {
	res, err := c.r(ctx).
		SetBody(&chatBody{AccountID: accountID, Prompt: prompt}).
		SetDoNotParseResponse(true).
		Post(epChatStream)
	if err != nil {
		requests.WithLabelValues(epChatStream, "error").Inc()
		return nil, &core.RequestError{Status: 0, Message: genericMessage}
	}

	if res.IsError() {
		requests.WithLabelValues(epChatStream, "error").Inc()
		defer res.Body.Close()

		message := genericMessage
		raw, _ := io.ReadAll(io.LimitReader(res.Body, 4096))
		var body errorBody
		if json.Unmarshal(raw, &body) == nil && body.Message != "" {
			message = body.Message
		}
		return nil, &core.RequestError{Status: res.StatusCode(), Message: message}
	}

	requests.WithLabelValues(epChatStream, "ok").Inc()
	return &chatStream{body: res.Body, scanner: bufio.NewScanner(res.Body)}, nil
}

// chatStream reads SSE-style "data: ..." lines off the response body.
type chatStream struct {
	body    io.ReadCloser
	scanner *bufio.Scanner
	done    bool
}

func (s *chatStream) Next() (string, error) {
	if s.done {
		return "", io.EOF
	}

	for s.scanner.Scan() {
		line := strings.TrimSpace(s.scanner.Text())
		if line == "" {
			continue
		}

		chunk := strings.TrimSpace(strings.TrimPrefix(line, "data:"))
		if chunk == streamDone {
			s.done = true
			return "", io.EOF
		}
		return chunk, nil
	}

	s.done = true
	if err := s.scanner.Err(); err != nil {
		return "", err
	}
	return "", io.EOF
}

func (s *chatStream) Close() error {
	s.done = true
	return s.body.Close()
}
