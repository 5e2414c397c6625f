// internal/engine/client.go
package engine

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/solatis/encql/internal/types"
)

/*
 * HTTP engine client.
 *
 * JSON-over-HTTP implementation of the Engine interface:
 *   POST {base}/v1/encrypt                -> one payload
 *   POST {base}/v1/encrypt-bulk           -> ordered payload array
 *   POST {base}/v1/decrypt-bulk-fallible  -> ordered per-item outcomes
 *
 * Non-2xx responses carry {"code","message"}; the code is preserved
 * verbatim in the returned Error so callers can branch on it. Transport
 * failures and undecodable bodies get CodeTransport.
 *
 * Every request is tagged with an X-Request-Id (UUIDv7) for log
 * correlation on both sides of the boundary.
 */

const defaultRequestTimeout = 30 * time.Second

// Client talks to the encryption engine over HTTP.
type Client struct {
	baseURL     string
	workspaceID string
	accessKey   string
	client      *http.Client
}

// NewClient builds an engine client. accessKey authenticates the
// workspace; it is sent as a bearer token and never logged. A nil
// httpClient gets a timeout-bounded default.
func NewClient(baseURL, workspaceID, accessKey string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultRequestTimeout}
	}
	return &Client{
		baseURL:     baseURL,
		workspaceID: workspaceID,
		accessKey:   accessKey,
		client:      httpClient,
	}
}

// Encrypt implements Engine.
func (c *Client) Encrypt(ctx context.Context, req EncryptRequest) (*types.EncryptedPayload, error) {
	var out types.EncryptedPayload
	if err := c.post(ctx, "/v1/encrypt", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// EncryptBulk implements Engine.
func (c *Client) EncryptBulk(ctx context.Context, req BulkEncryptRequest) ([]*types.EncryptedPayload, error) {
	var out []*types.EncryptedPayload
	if err := c.post(ctx, "/v1/encrypt-bulk", req, &out); err != nil {
		return nil, err
	}
	if len(out) != len(req.Items) {
		return nil, NewError(CodeTransport, fmt.Sprintf(
			"engine returned %d payloads for %d items", len(out), len(req.Items)))
	}
	return out, nil
}

// DecryptBulkFallible implements Engine.
func (c *Client) DecryptBulkFallible(ctx context.Context, req BulkDecryptRequest) ([]DecryptOutcome, error) {
	var out []struct {
		ID    string `json:"id"`
		Data  any    `json:"data,omitempty"`
		Error string `json:"error,omitempty"`
	}
	if err := c.post(ctx, "/v1/decrypt-bulk-fallible", req, &out); err != nil {
		return nil, err
	}
	if len(out) != len(req.Items) {
		return nil, NewError(CodeTransport, fmt.Sprintf(
			"engine returned %d outcomes for %d items", len(out), len(req.Items)))
	}

	outcomes := make([]DecryptOutcome, len(out))
	for i, item := range out {
		outcomes[i] = DecryptOutcome{ID: types.ItemID(item.ID), Data: item.Data}
		if item.Error != "" {
			outcomes[i].Data = nil
			outcomes[i].Err = &DecryptionError{ItemID: item.ID, Message: item.Error}
		}
	}
	return outcomes, nil
}

func (c *Client) post(ctx context.Context, path string, in, out any) error {
	body, err := json.Marshal(in)
	if err != nil {
		return WrapTransport(err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return WrapTransport(err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.accessKey)
	req.Header.Set("X-Workspace-Id", c.workspaceID)
	req.Header.Set("X-Request-Id", string(types.NewRequestID()))

	resp, err := c.client.Do(req)
	if err != nil {
		return WrapTransport(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeError(resp)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return WrapTransport(err)
	}
	return nil
}

// decodeError maps a non-2xx response to a coded Error, preserving the
// engine's code verbatim. Responses without a parseable code become
// transport errors.
func decodeError(resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 64*1024))

	var coded struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &coded); err == nil && coded.Code != "" {
		return NewError(coded.Code, coded.Message)
	}
	return NewError(CodeTransport, fmt.Sprintf("engine returned %d: %s", resp.StatusCode, body))
}
