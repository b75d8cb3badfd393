// Package network contains the shared http plumbing used to talk to json services.
package network

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/leighmacdonald/roster-tui/internal/network/encoding"
)

const maxErrorBody = 512

var (
	ErrRequest = errors.New("failed to perform request")
	ErrEncode  = errors.New("failed to encode request")
)

// StatusError is returned when a service responds with a non 2xx status code.
type StatusError struct {
	Status int
	Body   string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("unexpected status: %d %s", e.Status, http.StatusText(e.Status))
	}

	return fmt.Sprintf("unexpected status: %d %s: %s", e.Status, http.StatusText(e.Status), e.Body)
}

// Client wraps a http client, attaching a user agent to every request.
type Client struct {
	http      *http.Client
	userAgent string
}

func NewClient(timeout time.Duration, userAgent string) *Client {
	return &Client{
		http: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				Proxy:                 http.ProxyFromEnvironment,
				TLSHandshakeTimeout:   10 * time.Second,
				ResponseHeaderTimeout: timeout,
				ExpectContinueTimeout: 6 * time.Second,
				MaxIdleConnsPerHost:   2,
			},
		},
		userAgent: userAgent,
	}
}

func (c *Client) do(req *http.Request) (*http.Response, error) {
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, errors.Join(err, ErrRequest)
	}

	return resp, nil
}

// FetchJSON will query a json http service using a generic type for receiving results.
func FetchJSON[T any](ctx context.Context, client *Client, url string) (*T, error) {
	req, errReq := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if errReq != nil {
		return nil, errors.Join(errReq, ErrRequest)
	}

	return doJSON[T](client, req, false)
}

// PostJSON sends the payload as a json body and decodes the response. Unlike FetchJSON, the body of non 2xx
// responses is still decoded. The StatusError is then returned alongside the decoded value.
func PostJSON[T any](ctx context.Context, client *Client, url string, payload any) (*T, error) {
	body, errBody := encoding.MarshalJSON(payload)
	if errBody != nil {
		return nil, errors.Join(errBody, ErrEncode)
	}

	req, errReq := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if errReq != nil {
		return nil, errors.Join(errReq, ErrRequest)
	}

	req.Header.Set("Content-Type", "application/json")

	return doJSON[T](client, req, true)
}

func doJSON[T any](client *Client, req *http.Request, decodeErrors bool) (*T, error) {
	resp, errResp := client.do(req)
	if errResp != nil {
		return nil, errResp
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			slog.Error("failed to close response body", slog.String("error", err.Error()))
		}
	}()

	success := resp.StatusCode >= http.StatusOK && resp.StatusCode < http.StatusMultipleChoices
	if !success && !decodeErrors {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))

		return nil, &StatusError{Status: resp.StatusCode, Body: string(bytes.TrimSpace(body))}
	}

	value, errDecode := encoding.UnmarshalJSON[T](resp.Body)
	if errDecode != nil {
		if !success {
			return nil, errors.Join(&StatusError{Status: resp.StatusCode}, errDecode)
		}

		return nil, errDecode
	}

	if !success {
		return &value, &StatusError{Status: resp.StatusCode}
	}

	return &value, nil
}
