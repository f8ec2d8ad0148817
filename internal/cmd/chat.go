package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/urfave/cli/v3"
	"github.com/zhulik/pal"

	"walletfeed/internal/chat"
)

var chatCmd = &cli.Command{
	Name:      "chat",
	Usage:     "Ask the AI assistant",
	ArgsUsage: "<prompt>",
	Action: func(ctx context.Context, c *cli.Command) error {
		if c.Args().First() == "" {
			return errors.New("prompt required")
		}
		return run(ctx, c, append(appServices(),
			pal.Provide(&chatRunner{prompt: c.Args().First()}),
		)...)
	},
}

type chatRunner struct {
	Logger *slog.Logger
	Chat   *chat.Service

	prompt string
}

func (c *chatRunner) Run(ctx context.Context) error {
	answer, err := c.Chat.Ask(ctx, c.prompt)
	if err != nil {
		return err
	}

	fmt.Println(answer)
	return nil
}
