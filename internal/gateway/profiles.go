package gateway

import (
	"context"

	"walletfeed/internal/core"
)

const (
	epProfile     = "/users/profile/{accountId}"
	epProfileSave = "/users/profile"
)

func (c *Client) FetchProfile(ctx context.Context, accountID string) (core.Profile, error) {
	res, err := c.r(ctx).
		SetPathParam("accountId", accountID).
		SetResult(&core.Profile{}).
		Get(epProfile)
	if err := normalize(epProfile, res, err); err != nil {
		return core.Profile{}, err
	}

	return *res.Result().(*core.Profile), nil
}

func (c *Client) SaveProfile(ctx context.Context, profile core.Profile) (core.Profile, error) {
	res, err := c.r(ctx).
		SetBody(&profile).
		SetResult(&core.Profile{}).
		Post(epProfileSave)
	if err := normalize(epProfileSave, res, err); err != nil {
		return core.Profile{}, err
	}

	return *res.Result().(*core.Profile), nil
}
