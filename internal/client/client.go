// Package client implements the initiating side of the rendezvous: create a
// session, hand the link out-of-band, poll until the remote user completes.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"verify-service/internal/session"
)

const (
	// DefaultPollInterval matches the reference UI's 2000ms timer.
	DefaultPollInterval = 2 * time.Second

	// DefaultPollTimeout bounds the whole wait; aligned with the session
	// TTL so the poller gives up no later than the session can expire.
	DefaultPollTimeout = 15 * time.Minute
)

var (
	ErrNotFound = errors.New("client: session not found")
	ErrExpired  = errors.New("client: session expired")

	// ErrPollTimeout means the session was still pending when the wait
	// deadline passed. Indistinguishable from a remote user who gave up.
	ErrPollTimeout = errors.New("client: gave up waiting for verification")
)

type Client struct {
	baseURL      string
	httpClient   *http.Client
	pollInterval time.Duration
	pollTimeout  time.Duration
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

func WithPollInterval(d time.Duration) Option {
	return func(c *Client) { c.pollInterval = d }
}

func WithPollTimeout(d time.Duration) Option {
	return func(c *Client) { c.pollTimeout = d }
}

func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:      baseURL,
		httpClient:   &http.Client{Timeout: 10 * time.Second},
		pollInterval: DefaultPollInterval,
		pollTimeout:  DefaultPollTimeout,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type beginResponse struct {
	SessionID        string `json:"sessionId"`
	VerificationLink string `json:"verificationLink"`
	Error            string `json:"error"`
}

// Begin creates a verification session for email and returns the session id
// and the shareable verification link.
func (c *Client) Begin(ctx context.Context, email string) (id, link string, err error) {
	body, err := json.Marshal(map[string]string{"email": email})
	if err != nil {
		return "", "", err
	}

	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		c.baseURL+"/session",
		bytes.NewReader(body),
	)
	if err != nil {
		return "", "", err
	}
	req.Header.Set("Content-Type", "application/json")

	var out beginResponse
	if err := c.do(req, http.StatusCreated, &out); err != nil {
		return "", "", err
	}
	if out.SessionID == "" {
		return "", "", errors.New("client: server returned no session id")
	}

	return out.SessionID, out.VerificationLink, nil
}

// Poll fetches the current session snapshot.
func (c *Client) Poll(ctx context.Context, id string) (*session.Session, error) {
	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodGet,
		c.baseURL+"/session/"+id,
		nil,
	)
	if err != nil {
		return nil, err
	}

	var s session.Session
	if err := c.do(req, http.StatusOK, &s); err != nil {
		return nil, err
	}
	s.ID = id

	return &s, nil
}

// Complete marks the session verified. Exposed for completeness; the normal
// completing path is the remote user's browser flow.
func (c *Client) Complete(ctx context.Context, id string) error {
	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		c.baseURL+"/session/"+id,
		nil,
	)
	if err != nil {
		return err
	}

	return c.do(req, http.StatusOK, nil)
}

// WaitVerified polls the session on a fixed interval until it observes
// verified=true, the context is cancelled, or the poll timeout elapses.
// Polling never outlives the returned call.
func (c *Client) WaitVerified(ctx context.Context, id string) (*session.Session, error) {
	ctx, cancel := context.WithTimeout(ctx, c.pollTimeout)
	defer cancel()

	ticker := time.NewTicker(c.pollInterval)
	defer ticker.Stop()

	for {
		s, err := c.Poll(ctx, id)
		if err != nil {
			// A vanished or expired session is terminal; transient
			// transport errors are retried on the next tick.
			if errors.Is(err, ErrNotFound) || errors.Is(err, ErrExpired) {
				return nil, err
			}
		} else if s.Verified {
			return s, nil
		}

		select {
		case <-ctx.Done():
			if errors.Is(ctx.Err(), context.DeadlineExceeded) {
				return nil, ErrPollTimeout
			}
			return nil, ctx.Err()
		case <-ticker.C:
		}
	}
}

func (c *Client) do(req *http.Request, wantStatus int, out any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case wantStatus:
	case http.StatusNotFound:
		return ErrNotFound
	case http.StatusGone:
		return ErrExpired
	default:
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("client: unexpected status %d: %s", resp.StatusCode, data)
	}

	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
