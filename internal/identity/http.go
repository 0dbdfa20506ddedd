package identity

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// IDResponse is the body of POST /identity/id.
type IDResponse struct {
	IdentityID string `json:"identity_id"`
}

// CredentialsRequest is the body sent to POST /identity/credentials.
type CredentialsRequest struct {
	IdentityID string `json:"identity_id"`
}

// HTTPProvider calls a referee's identity endpoints.
type HTTPProvider struct {
	base   string
	client *http.Client
}

// NewHTTPProvider targets the service at base, e.g. "http://localhost:9002".
func NewHTTPProvider(base string, timeout time.Duration) *HTTPProvider {
	return &HTTPProvider{
		base:   strings.TrimRight(base, "/"),
		client: &http.Client{Timeout: timeout},
	}
}

func (p *HTTPProvider) GetID(ctx context.Context) (string, error) {
	var out IDResponse
	if err := p.post(ctx, "/identity/id", nil, &out); err != nil {
		return "", err
	}
	if out.IdentityID == "" {
		return "", fmt.Errorf("%w: empty id in response", ErrUnknownIdentity)
	}
	return out.IdentityID, nil
}

func (p *HTTPProvider) GetCredentialsForIdentity(ctx context.Context, id string) (Credentials, error) {
	var out Credentials
	if err := p.post(ctx, "/identity/credentials", CredentialsRequest{IdentityID: id}, &out); err != nil {
		return Credentials{}, err
	}
	return out, nil
}

func (p *HTTPProvider) post(ctx context.Context, path string, in, out interface{}) error {
	var body bytes.Buffer
	if in != nil {
		if err := json.NewEncoder(&body).Encode(in); err != nil {
			return fmt.Errorf("encode %s request: %w", path, err)
		}
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.base+path, &body)
	if err != nil {
		return fmt.Errorf("build %s request: %w", path, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return fmt.Errorf("call %s: %w", path, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return fmt.Errorf("%w: %s returned 404", ErrUnknownIdentity, path)
	case resp.StatusCode != http.StatusOK:
		return fmt.Errorf("call %s: unexpected status %d", path, resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s response: %w", path, err)
	}
	return nil
}
