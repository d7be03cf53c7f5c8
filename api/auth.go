package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

// ErrUnauthenticated covers every way a bearer token can fail verification.
var ErrUnauthenticated = errors.New("unauthenticated")

// AuthClient verifies bearer tokens against the external auth server.
type AuthClient struct {
	BaseURL    string
	HTTPClient *http.Client
}

func NewAuthClient(baseURL string) *AuthClient {
	return &AuthClient{
		BaseURL:    baseURL,
		HTTPClient: &http.Client{Timeout: 10 * time.Second},
	}
}

type verifyResponse struct {
	UserID string `json:"userId"`
}

// VerifyToken resolves token to a user id. Any non-2xx answer, transport
// error or empty id is reported as ErrUnauthenticated.
func (a *AuthClient) VerifyToken(ctx context.Context, token string) (string, error) {
	if token == "" {
		return "", ErrUnauthenticated
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.BaseURL+"/verify", nil)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnauthenticated, err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")

	resp, err := a.HTTPClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnauthenticated, err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<16))
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("%w: auth server returned %d", ErrUnauthenticated, resp.StatusCode)
	}

	var out verifyResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnauthenticated, err)
	}
	if out.UserID == "" {
		return "", fmt.Errorf("%w: empty user id", ErrUnauthenticated)
	}
	return out.UserID, nil
}
