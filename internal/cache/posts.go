package cache

import (
	"fmt"

	"github.com/samber/lo"

	"walletfeed/internal/core"
)

// ToggleLike flips accountID's membership in the post's like set. The count
// shown anywhere is derived from the set, so the two can never disagree.
func (s *Store) ToggleLike(postID, accountID string) (Token, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	post, _, ok := s.findPost(postID)
	if !ok {
		return Token{}, core.ErrNotFound
	}

	wasLiked := post.LikedBy(accountID)
	s.setLiked(post, accountID, !wasLiked)

	return s.register(&mutation{
		confirm: func(server any) error {
			return s.replacePostInPlace(postID, server)
		},
		rollback: func() error {
			post, _, ok := s.findPost(postID)
			if !ok {
				return core.ErrNotFound
			}
			s.setLiked(post, accountID, wasLiked)
			return nil
		},
	}), nil
}

// PrependPost inserts a local draft at the top of the feed. The draft carries
// a temporary id; Confirm swaps in the server post, server-assigned id and
// media URL included.
func (s *Store) PrependPost(draft core.Post) Token {
	s.mu.Lock()
	defer s.mu.Unlock()

	d := draft.Clone()
	s.posts = append([]*core.Post{&d}, s.posts...)

	return s.register(&mutation{
		confirm: func(server any) error {
			return s.replacePostInPlace(draft.ID, server)
		},
		rollback: func() error {
			_, idx, ok := s.findPost(draft.ID)
			if !ok {
				return core.ErrNotFound
			}
			s.posts = append(s.posts[:idx], s.posts[idx+1:]...)
			return nil
		},
	})
}

// RemovePost speculatively deletes a post, remembering its position so a
// rollback restores it exactly where it was.
func (s *Store) RemovePost(postID string) (Token, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	post, idx, ok := s.findPost(postID)
	if !ok {
		return Token{}, core.ErrNotFound
	}

	s.posts = append(s.posts[:idx], s.posts[idx+1:]...)
	generation := s.generation

	return s.register(&mutation{
		confirm: func(any) error {
			// Deletion is terminal, nothing to reconcile.
			return nil
		},
		rollback: func() error {
			if s.generation != generation {
				return core.ErrNotFound
			}
			at := min(idx, len(s.posts))
			s.posts = append(s.posts[:at], append([]*core.Post{post}, s.posts[at:]...)...)
			return nil
		},
	}), nil
}

// AppendComment attaches a draft comment (temporary id) to its parent post.
func (s *Store) AppendComment(postID string, draft core.Comment) (Token, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	post, _, ok := s.findPost(postID)
	if !ok {
		return Token{}, core.ErrNotFound
	}

	post.Comments = append(post.Comments, draft)

	return s.register(&mutation{
		confirm: func(server any) error {
			comment, ok := server.(core.Comment)
			if !ok {
				return fmt.Errorf("confirm: expected core.Comment, got %T", server)
			}

			post, _, found := s.findPost(postID)
			if !found {
				return nil
			}
			if _, idx, found := s.findComment(post, draft.ID); found {
				post.Comments[idx] = comment
			}
			return nil
		},
		rollback: func() error {
			post, _, found := s.findPost(postID)
			if !found {
				return core.ErrNotFound
			}
			if _, idx, found := s.findComment(post, draft.ID); found {
				post.Comments = append(post.Comments[:idx], post.Comments[idx+1:]...)
			}
			return nil
		},
	}), nil
}

// RemoveComment deletes a comment, leaving the parent post intact.
func (s *Store) RemoveComment(postID, commentID string) (Token, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	post, _, ok := s.findPost(postID)
	if !ok {
		return Token{}, core.ErrNotFound
	}

	comment, idx, ok := s.findComment(post, commentID)
	if !ok {
		return Token{}, core.ErrNotFound
	}

	post.Comments = append(post.Comments[:idx], post.Comments[idx+1:]...)
	generation := s.generation

	return s.register(&mutation{
		confirm: func(any) error {
			return nil
		},
		rollback: func() error {
			post, _, found := s.findPost(postID)
			if !found || s.generation != generation {
				return core.ErrNotFound
			}
			at := min(idx, len(post.Comments))
			post.Comments = append(post.Comments[:at], append([]core.Comment{comment}, post.Comments[at:]...)...)
			return nil
		},
	}), nil
}

// setLiked makes membership match liked, idempotently.
func (s *Store) setLiked(post *core.Post, accountID string, liked bool) {
	if liked && !post.LikedBy(accountID) {
		post.Likes = append(post.Likes, accountID)
	}
	if !liked {
		post.Likes = lo.Without(post.Likes, accountID)
	}
}

// replacePostInPlace swaps the cached post for the server representation,
// keeping its position. A missing target means an intervening reconciliation
// already installed newer truth; that is not an error.
func (s *Store) replacePostInPlace(postID string, server any) error {
	post, ok := server.(core.Post)
	if !ok {
		return fmt.Errorf("confirm: expected core.Post, got %T", server)
	}

	if _, idx, found := s.findPost(postID); found {
		c := post.Clone()
		s.posts[idx] = &c
	}
	return nil
}

func (s *Store) findComment(post *core.Post, commentID string) (core.Comment, int, bool) {
	return lo.FindIndexOf(post.Comments, func(c core.Comment) bool {
		return c.ID == commentID
	})
}
