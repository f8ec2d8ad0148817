package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/k0kubun/pp"
	"github.com/urfave/cli/v3"
	"github.com/zhulik/pal"

	"walletfeed/internal/cache"
	"walletfeed/internal/cmd/flags"
	"walletfeed/internal/coordinator"
	"walletfeed/internal/core"
	"walletfeed/internal/feed"
)

var feedCmd = &cli.Command{
	Name:  "feed",
	Usage: "Fetch and print the feed",
	Action: func(ctx context.Context, c *cli.Command) error {
		return run(ctx, c, append(appServices(), pal.Provide(&feedRunner{}))...)
	},
}

type feedRunner struct {
	Logger *slog.Logger
	Feed   *feed.Service
	Cache  *cache.Store
}

func (f *feedRunner) Run(ctx context.Context) error {
	if err := f.Feed.Refresh(ctx); err != nil {
		return err
	}

	for _, post := range f.Cache.Posts() {
		printPost(post)
	}
	return nil
}

func printPost(post core.Post) {
	fmt.Printf("%s  %s  ♥ %d\n", post.ID, post.Author.ID, post.LikeCount())
	fmt.Println(" ", post.Content)
	if post.Media != nil {
		fmt.Printf("  [%s] %s\n", post.Media.Kind, post.Media.URL)
	}
	for _, comment := range post.Comments {
		fmt.Printf("    %s  %s: %s\n", comment.ID, comment.Author.ID, comment.Content)
	}
}

var postCmd = &cli.Command{
	Name:      "post",
	Usage:     "Publish a post",
	ArgsUsage: "<content>",
	Flags: []cli.Flag{
		flags.Media,
	},
	Action: func(ctx context.Context, c *cli.Command) error {
		return run(ctx, c, append(appServices(),
			pal.Provide(&poster{content: c.Args().First(), mediaPath: c.String("media")}),
		)...)
	},
}

type poster struct {
	Logger      *slog.Logger
	Coordinator *coordinator.Coordinator
	Cache       *cache.Store

	content   string
	mediaPath string
}

func (p *poster) Run(ctx context.Context) error {
	var media *core.MediaRef
	if p.mediaPath != "" {
		var err error
		if media, err = core.MediaRefForFile(p.mediaPath); err != nil {
			return err
		}
	}

	draftID, err := p.Coordinator.CreatePost(ctx, p.content, media)
	if err != nil {
		return err
	}

	post, err := p.Cache.Post(draftID)
	if err != nil {
		// Confirm swapped in the server id; show whatever is on top.
		if posts := p.Cache.Posts(); len(posts) > 0 {
			post = posts[0]
		}
	}
	pp.Println(post)
	return nil
}

var rmPostCmd = &cli.Command{
	Name:      "rm-post",
	Usage:     "Delete one of your posts",
	ArgsUsage: "<post-id>",
	Action: func(ctx context.Context, c *cli.Command) error {
		if c.Args().First() == "" {
			return errors.New("post id required")
		}
		return run(ctx, c, append(appServices(),
			pal.Provide(&postRemover{postID: c.Args().First()}),
		)...)
	},
}

type postRemover struct {
	Logger      *slog.Logger
	Feed        *feed.Service
	Coordinator *coordinator.Coordinator

	postID string
}

func (p *postRemover) Run(ctx context.Context) error {
	if err := p.Feed.Refresh(ctx); err != nil {
		return err
	}

	if err := p.Coordinator.DeletePost(ctx, p.postID); err != nil {
		return err
	}

	fmt.Println("deleted", p.postID)
	return nil
}
