package lockctx

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

/*
 * Token service resolver.
 *
 * Exchanges a subject JWT for a session token scoped to the declared
 * identity claims. The exchange happens at operation execution time, once
 * per execution; tokens are never cached here, so revocation at the
 * authorizer takes effect on the next operation.
 */

const defaultResolveTimeout = 10 * time.Second

// TokenService resolves lock contexts against an external authorizer.
type TokenService struct {
	endpoint     string
	subjectToken string
	claims       []string
	client       *http.Client
}

// NewTokenService builds a resolver for the authorizer at endpoint.
// subjectToken is the caller's identity JWT; claims names the claims the
// session is scoped to. A nil client gets a timeout-bounded default.
func NewTokenService(endpoint, subjectToken string, claims []string, client *http.Client) *TokenService {
	if client == nil {
		client = &http.Client{Timeout: defaultResolveTimeout}
	}
	return &TokenService{
		endpoint:     endpoint,
		subjectToken: subjectToken,
		claims:       claims,
		client:       client,
	}
}

// Resolve exchanges the subject token for a session token.
func (s *TokenService) Resolve(ctx context.Context) (*Locked, error) {
	if s.subjectToken == "" {
		return nil, NewError("no subject token to exchange", nil)
	}

	body, err := json.Marshal(map[string]any{
		"subjectToken":  s.subjectToken,
		"identityClaim": s.claims,
	})
	if err != nil {
		return nil, NewError("encoding token exchange request", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, NewError("building token exchange request", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, NewError("token exchange request failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, NewError(fmt.Sprintf("authorizer returned %d: %s", resp.StatusCode, msg), nil)
	}

	var out struct {
		SessionToken string `json:"sessionToken"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, NewError("decoding token exchange response", err)
	}
	if out.SessionToken == "" {
		return nil, NewError("authorizer returned an empty session token", nil)
	}

	return &Locked{SessionToken: out.SessionToken, IdentityClaim: s.claims}, nil
}
