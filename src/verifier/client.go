package verifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/mitraverify/verifyd/src/config"
	"github.com/mitraverify/verifyd/src/types"
)

// Client talks to the MitraVerify verification backend. The HTTP timeout
// doubles as the verification deadline: a request that outlives it is
// aborted and handled like any other network failure.
type Client struct {
	baseURL string
	client  *http.Client
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
	}
}

// Verify submits one piece of content. The payload fields are merged into
// the request body next to content_type.
func (c *Client) Verify(ctx context.Context, contentType string, payload map[string]interface{}) (types.VerificationResult, error) {
	body := make(map[string]interface{}, len(payload)+1)
	for k, v := range payload {
		body[k] = v
	}
	body["content_type"] = contentType

	var wire struct {
		Result types.VerificationResult `json:"result"`
	}
	if err := c.post(ctx, "/verify", body, &wire); err != nil {
		return types.VerificationResult{}, err
	}
	if wire.Result.Status == "" {
		return types.VerificationResult{}, fmt.Errorf("verify: response missing result")
	}
	return wire.Result, nil
}

// SendFeedback forwards user feedback about a verification.
func (c *Client) SendFeedback(ctx context.Context, feedback string) error {
	return c.post(ctx, "/feedback", map[string]interface{}{"feedback": feedback}, nil)
}

func (c *Client) post(ctx context.Context, path string, body interface{}, out interface{}) error {
	raw, err := json.Marshal(body)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(raw))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Client-Version", config.Version)

	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("%s: status %d: %s", path, resp.StatusCode, snippet)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%s: decode response: %w", path, err)
	}
	return nil
}
