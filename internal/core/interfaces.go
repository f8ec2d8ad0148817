package core

import (
	"context"
)

// KeyValueStore is the persisted client-side state: string keys, opaque
// JSON-serialized values. A missing key is ErrNotFound, never a fatal error.
type KeyValueStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Keys(ctx context.Context) ([]string, error)
}

// WalletProvider is the external wallet capability. RequestAccounts connects
// and returns the available account ids; listeners registered with
// OnAccountsChanged fire whenever that set changes, including to empty.
type WalletProvider interface {
	RequestAccounts(ctx context.Context) ([]string, error)
	OnAccountsChanged(fn func(accounts []string))
}

// ChatStream is a single in-flight streaming chat response. Next returns one
// chunk at a time and io.EOF when the stream is complete. Close releases the
// underlying connection and must be called even when the stream is abandoned.
type ChatStream interface {
	Next() (string, error)
	Close() error
}

// Gateway is the single chokepoint for remote calls. Every failure is a
// *RequestError; no method retries on its own.
type Gateway interface {
	FetchPosts(ctx context.Context) ([]Post, error)
	CreatePost(ctx context.Context, accountID, content string, media *MediaRef) (Post, error)
	DeletePost(ctx context.Context, accountID, postID string) error
	ToggleLike(ctx context.Context, accountID, postID string) (Post, error)
	AddComment(ctx context.Context, accountID, postID, content string, media *MediaRef) (Comment, error)
	DeleteComment(ctx context.Context, accountID, postID, commentID string) error

	FetchProfile(ctx context.Context, accountID string) (Profile, error)
	SaveProfile(ctx context.Context, profile Profile) (Profile, error)

	FetchNotifications(ctx context.Context, accountID string) ([]Notification, error)
	MarkRead(ctx context.Context, accountID, notificationID string) error
	MarkAllRead(ctx context.Context, accountID string) error

	StreamChat(ctx context.Context, accountID, prompt string) (ChatStream, error)
}
