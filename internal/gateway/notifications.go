package gateway

import (
	"context"

	"walletfeed/internal/core"
)

const (
	epNotifications = "/notifications/{accountId}"
	epMarkRead      = "/notifications/{id}/mark-read"
	epMarkAllRead   = "/notifications/mark-all-read"
)

func (c *Client) FetchNotifications(ctx context.Context, accountID string) ([]core.Notification, error) {
	type notifications struct {
		Notifications []core.Notification `json:"notifications"`
	}

	res, err := c.r(ctx).
		SetPathParam("accountId", accountID).
		SetResult(&notifications{}).
		Get(epNotifications)
	if err := normalize(epNotifications, res, err); err != nil {
		return nil, err
	}

	return res.Result().(*notifications).Notifications, nil
}

func (c *Client) MarkRead(ctx context.Context, accountID, notificationID string) error {
	res, err := c.r(ctx).
		SetPathParam("id", notificationID).
		SetBody(&mutationBody{AccountID: accountID}).
		Post(epMarkRead)
	return normalize(epMarkRead, res, err)
}

func (c *Client) MarkAllRead(ctx context.Context, accountID string) error {
	res, err := c.r(ctx).
		SetBody(&mutationBody{AccountID: accountID}).
		Post(epMarkAllRead)
	return normalize(epMarkAllRead, res, err)
}
