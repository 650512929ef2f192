package contact

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// ErrSubmitFailed wraps every failed submission. Failures are not
// classified further.
var ErrSubmitFailed = errors.New("contact submission failed")

// Submitter delivers a submission somewhere.
type Submitter interface {
	Submit(ctx context.Context, sub Submission) (Response, error)
}

// Client posts submissions to a portfolio server.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a client for the server at baseURL. A nil httpClient
// uses a client with a 10 second timeout.
func NewClient(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
	}
}

var _ Submitter = (*Client)(nil)

// Submit makes a single POST attempt. Transport errors, non-2xx statuses
// and undecodable bodies all return ErrSubmitFailed. There is no retry.
func (c *Client) Submit(ctx context.Context, sub Submission) (Response, error) {
	body, err := json.Marshal(sub)
	if err != nil {
		return Response{}, fmt.Errorf("%w: encoding body: %v", ErrSubmitFailed, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+Path, bytes.NewReader(body))
	if err != nil {
		return Response{}, fmt.Errorf("%w: %v", ErrSubmitFailed, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Response{}, fmt.Errorf("%w: %v", ErrSubmitFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return Response{}, fmt.Errorf("%w: status %d", ErrSubmitFailed, resp.StatusCode)
	}

	var out Response
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return Response{}, fmt.Errorf("%w: decoding response: %v", ErrSubmitFailed, err)
	}
	return out, nil
}
