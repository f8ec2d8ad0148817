package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/urfave/cli/v3"
	"github.com/zhulik/pal"

	"walletfeed/internal/cache"
	"walletfeed/internal/cmd/flags"
	"walletfeed/internal/coordinator"
	"walletfeed/internal/core"
	"walletfeed/internal/feed"
)

var likeCmd = &cli.Command{
	Name:      "like",
	Usage:     "Toggle your like on a post",
	ArgsUsage: "<post-id>",
	Action: func(ctx context.Context, c *cli.Command) error {
		if c.Args().First() == "" {
			return errors.New("post id required")
		}
		return run(ctx, c, append(appServices(),
			pal.Provide(&liker{postID: c.Args().First()}),
		)...)
	},
}

type liker struct {
	Logger      *slog.Logger
	Feed        *feed.Service
	Cache       *cache.Store
	Coordinator *coordinator.Coordinator

	postID string
}

func (l *liker) Run(ctx context.Context) error {
	if err := l.Feed.Refresh(ctx); err != nil {
		return err
	}

	if err := l.Coordinator.ToggleLike(ctx, l.postID); err != nil {
		return err
	}

	post, err := l.Cache.Post(l.postID)
	if err != nil {
		return err
	}
	fmt.Printf("%s  ♥ %d\n", post.ID, post.LikeCount())
	return nil
}

var commentCmd = &cli.Command{
	Name:      "comment",
	Usage:     "Comment on a post",
	ArgsUsage: "<post-id> <content>",
	Flags: []cli.Flag{
		flags.Media,
	},
	Action: func(ctx context.Context, c *cli.Command) error {
		if c.Args().First() == "" {
			return errors.New("post id required")
		}
		return run(ctx, c, append(appServices(),
			pal.Provide(&commenter{
				postID:    c.Args().First(),
				content:   c.Args().Get(1),
				mediaPath: c.String("media"),
			}),
		)...)
	},
}

type commenter struct {
	Logger      *slog.Logger
	Feed        *feed.Service
	Coordinator *coordinator.Coordinator

	postID    string
	content   string
	mediaPath string
}

func (c *commenter) Run(ctx context.Context) error {
	var media *core.MediaRef
	if c.mediaPath != "" {
		var err error
		if media, err = core.MediaRefForFile(c.mediaPath); err != nil {
			return err
		}
	}

	if err := c.Feed.Refresh(ctx); err != nil {
		return err
	}

	if err := c.Coordinator.AddComment(ctx, c.postID, c.content, media); err != nil {
		return err
	}

	fmt.Println("commented on", c.postID)
	return nil
}

var rmCommentCmd = &cli.Command{
	Name:      "rm-comment",
	Usage:     "Delete one of your comments",
	ArgsUsage: "<post-id> <comment-id>",
	Action: func(ctx context.Context, c *cli.Command) error {
		if c.Args().Get(0) == "" || c.Args().Get(1) == "" {
			return errors.New("post id and comment id required")
		}
		return run(ctx, c, append(appServices(),
			pal.Provide(&commentRemover{postID: c.Args().Get(0), commentID: c.Args().Get(1)}),
		)...)
	},
}

type commentRemover struct {
	Logger      *slog.Logger
	Feed        *feed.Service
	Coordinator *coordinator.Coordinator

	postID    string
	commentID string
}

func (c *commentRemover) Run(ctx context.Context) error {
	if err := c.Feed.Refresh(ctx); err != nil {
		return err
	}

	if err := c.Coordinator.DeleteComment(ctx, c.postID, c.commentID); err != nil {
		return err
	}

	fmt.Println("deleted comment", c.commentID)
	return nil
}
