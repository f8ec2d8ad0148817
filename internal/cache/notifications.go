package cache

import (
	"walletfeed/internal/core"
)

// MarkRead flips a notification to read. Marking an already-read notification
// is a visible no-op but still yields a resolvable token.
func (s *Store) MarkRead(notificationID string) (Token, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	notification, _, ok := s.findNotification(notificationID)
	if !ok {
		return Token{}, core.ErrNotFound
	}

	wasRead := notification.Read
	notification.Read = true

	return s.register(&mutation{
		confirm: func(any) error {
			// Read only ever transitions false→true; the optimistic flip is
			// already the server state.
			return nil
		},
		rollback: func() error {
			notification, _, ok := s.findNotification(notificationID)
			if !ok {
				return core.ErrNotFound
			}
			notification.Read = wasRead
			return nil
		},
	}), nil
}

// MarkAllRead flips every unread notification, remembering which ones it
// touched so a rollback reverts only those.
func (s *Store) MarkAllRead() Token {
	s.mu.Lock()
	defer s.mu.Unlock()

	var flipped []string
	for _, n := range s.notifications {
		if !n.Read {
			n.Read = true
			flipped = append(flipped, n.ID)
		}
	}

	return s.register(&mutation{
		confirm: func(any) error {
			return nil
		},
		rollback: func() error {
			for _, id := range flipped {
				if notification, _, ok := s.findNotification(id); ok {
					notification.Read = false
				}
			}
			return nil
		},
	})
}
