package gateway

import (
	"context"

	"walletfeed/internal/core"
)

const (
	epPosts       = "/posts"
	epPost        = "/posts/{id}"
	epPostLike    = "/posts/{id}/like"
	epPostComment = "/posts/{id}/comment"
	epComment     = "/posts/{id}/comments/{commentId}"
)

// mutationBody carries the acting account; authorization happens server-side.
type mutationBody struct {
	AccountID string         `json:"accountId"`
	Content   string         `json:"content,omitempty"`
	Media     *core.MediaRef `json:"media,omitempty"`
}

func (c *Client) FetchPosts(ctx context.Context) ([]core.Post, error) {
	type posts struct {
		Posts []core.Post `json:"posts"`
	}

	res, err := c.r(ctx).
		SetResult(&posts{}).
		Get(epPosts)
	if err := normalize(epPosts, res, err); err != nil {
		return nil, err
	}

	return res.Result().(*posts).Posts, nil
}

func (c *Client) CreatePost(ctx context.Context, accountID, content string, media *core.MediaRef) (core.Post, error) {
	res, err := c.r(ctx).
		SetBody(&mutationBody{AccountID: accountID, Content: content, Media: media}).
		SetResult(&core.Post{}).
		Post(epPosts)
	if err := normalize(epPosts, res, err); err != nil {
		return core.Post{}, err
	}

	return *res.Result().(*core.Post), nil
}

func (c *Client) DeletePost(ctx context.Context, accountID, postID string) error {
	res, err := c.r(ctx).
		SetPathParam("id", postID).
		SetBody(&mutationBody{AccountID: accountID}).
		Delete(epPost)
	return normalize(epPost, res, err)
}

// ToggleLike flips the caller's membership in the post's like set and returns
// the server's post, which is the authoritative like state.
func (c *Client) ToggleLike(ctx context.Context, accountID, postID string) (core.Post, error) {
	res, err := c.r(ctx).
		SetPathParam("id", postID).
		SetBody(&mutationBody{AccountID: accountID}).
		SetResult(&core.Post{}).
		Post(epPostLike)
	if err := normalize(epPostLike, res, err); err != nil {
		return core.Post{}, err
	}

	return *res.Result().(*core.Post), nil
}

func (c *Client) AddComment(ctx context.Context, accountID, postID, content string, media *core.MediaRef) (core.Comment, error) {
	res, err := c.r(ctx).
		SetPathParam("id", postID).
		SetBody(&mutationBody{AccountID: accountID, Content: content, Media: media}).
		SetResult(&core.Comment{}).
		Post(epPostComment)
	if err := normalize(epPostComment, res, err); err != nil {
		return core.Comment{}, err
	}

	return *res.Result().(*core.Comment), nil
}

func (c *Client) DeleteComment(ctx context.Context, accountID, postID, commentID string) error {
	res, err := c.r(ctx).
		SetPathParams(map[string]string{"id": postID, "commentId": commentID}).
		SetBody(&mutationBody{AccountID: accountID}).
		Delete(epComment)
	return normalize(epComment, res, err)
}
