package licenseapi

import (
	"context"
	"errors"

	"github.com/leighmacdonald/roster-tui/internal/license"
	"github.com/leighmacdonald/roster-tui/internal/network"
)

var ErrRemote = errors.New("license server rejected the request")

// Client is a license.Gate backed by a remote license api.
type Client struct {
	http *network.Client
	url  string
}

var _ license.Gate = (*Client)(nil)

// NewClient returns a client posting to url, eg: http://127.0.0.1:8765/api/license.
func NewClient(http *network.Client, url string) *Client {
	return &Client{http: http, url: url}
}

func (c *Client) call(ctx context.Context, action string, key string, deviceID string) (Response, error) {
	key = license.NormalizeKey(key)
	if key == "" || deviceID == "" {
		return Response{}, license.ErrInvalidParams
	}

	resp, err := network.PostJSON[Response](ctx, c.http, c.url, Request{
		Action:     action,
		LicenseKey: key,
		HWID:       deviceID,
	})
	if resp == nil {
		return Response{}, err
	}

	if !resp.Success {
		if sentinel := errorOf(resp.Code); sentinel != nil {
			return *resp, sentinel
		}

		return *resp, errors.Join(errors.New(resp.Error), ErrRemote) //nolint:err113
	}

	if err != nil {
		return *resp, err
	}

	return *resp, nil
}

func (c *Client) Verify(ctx context.Context, key string, deviceID string) (license.Verification, error) {
	resp, err := c.call(ctx, ActionVerify, key, deviceID)
	verification := license.Verification{
		Registered:  err == nil && !resp.CanRegister,
		CanRegister: resp.CanRegister,
		MaxDevices:  resp.MaxDevices,
	}

	return verification, err
}

func (c *Client) Info(ctx context.Context, key string, deviceID string) (license.Info, error) {
	resp, err := c.call(ctx, ActionInfo, key, deviceID)
	if err != nil {
		return license.Info{}, err
	}

	if resp.License == nil {
		return license.Info{}, errors.Join(errors.New("missing license info"), ErrRemote) //nolint:err113
	}

	return *resp.License, nil
}

func (c *Client) Register(ctx context.Context, key string, deviceID string) error {
	_, err := c.call(ctx, ActionRegister, key, deviceID)

	return err
}
