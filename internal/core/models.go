package core

import (
	"time"

	"github.com/samber/lo"
)

// MediaKind distinguishes the two media attachment types the feed renders.
type MediaKind string

const (
	MediaImage MediaKind = "image"
	MediaVideo MediaKind = "video"
)

// MediaRef points at an attachment. A locally produced ref carries whatever
// URL the client made up for preview purposes; once the owning entity is
// confirmed the server-returned URL replaces it.
type MediaRef struct {
	URL  string    `json:"url"`
	Kind MediaKind `json:"kind"`
}

// AccountRef identifies the author of a post or comment.
type AccountRef struct {
	ID     string `json:"id"`
	Handle string `json:"handle,omitempty"`
	Avatar string `json:"avatar,omitempty"`
}

type Comment struct {
	ID        string     `json:"id"`
	PostID    string     `json:"postId"`
	Author    AccountRef `json:"author"`
	Content   string     `json:"content"`
	Media     *MediaRef  `json:"media,omitempty"`
	CreatedAt time.Time  `json:"createdAt"`
}

// Post is a feed entry. Likes is a set of account ids; the displayed like
// count is always derived from it, never stored separately.
type Post struct {
	ID        string     `json:"id"`
	Author    AccountRef `json:"author"`
	Content   string     `json:"content"`
	Media     *MediaRef  `json:"media,omitempty"`
	CreatedAt time.Time  `json:"createdAt"`
	Likes     []string   `json:"likes"`
	Comments  []Comment  `json:"comments"`
}

func (p *Post) LikedBy(accountID string) bool {
	return lo.Contains(p.Likes, accountID)
}

func (p *Post) LikeCount() int {
	return len(p.Likes)
}

// Clone returns a deep copy, so cache readers never alias cache-owned slices.
func (p *Post) Clone() Post {
	c := *p
	c.Likes = append([]string(nil), p.Likes...)
	c.Comments = append([]Comment(nil), p.Comments...)
	if p.Media != nil {
		m := *p.Media
		c.Media = &m
	}
	return c
}

type NotificationType string

const (
	NotificationLike    NotificationType = "like"
	NotificationComment NotificationType = "comment"
	NotificationMention NotificationType = "mention"
	NotificationFollow  NotificationType = "follow"
	NotificationSystem  NotificationType = "system"
)

// Notification's Read flag transitions false→true only; the sole way back is
// the rollback of a failed mark-read, which restores the pre-action value.
type Notification struct {
	ID        string           `json:"id"`
	Type      NotificationType `json:"type"`
	Message   string           `json:"message"`
	CreatedAt time.Time        `json:"createdAt"`
	Read      bool             `json:"read"`
	TargetRef string           `json:"targetRef,omitempty"`
}

type Profile struct {
	AccountID   string `json:"accountId"`
	Handle      string `json:"handle"`
	DisplayName string `json:"displayName"`
	Bio         string `json:"bio"`
	Avatar      string `json:"avatar"`
}

// Session binds the connected wallet account to a fixed validity window.
type Session struct {
	AccountID     string    `json:"accountId"`
	EstablishedAt time.Time `json:"establishedAt"`
	ExpiresAt     time.Time `json:"expiresAt"`
}

func (s *Session) Expired(now time.Time) bool {
	return now.After(s.ExpiresAt)
}

type SessionEventKind string

const (
	SessionEstablished SessionEventKind = "established"
	SessionCleared     SessionEventKind = "cleared"
)

// SessionEvent tells dependents to reload or drop account-scoped state.
type SessionEvent struct {
	Kind      SessionEventKind
	AccountID string
}
