package igdb

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
)

var (
	// ErrCredentialsMissing means the client id or secret is not configured.
	ErrCredentialsMissing = errors.New("igdb: credentials not configured")
	// ErrAuthFailed means the token exchange or an authorized request was
	// rejected by the identity provider.
	ErrAuthFailed = errors.New("igdb: authentication failed")
)

const defaultTokenURL = "https://id.twitch.tv/oauth2/token"

// TokenSource performs the client-credentials exchange lazily and caches
// the bearer token in memory for the process lifetime. The token carries no
// tracked expiry; a downstream 401 invalidates it so the next request
// re-exchanges.
type TokenSource struct {
	clientID     string
	clientSecret string
	tokenURL     string
	httpClient   *http.Client

	mu    sync.Mutex
	token string
}

func NewTokenSource(clientID, clientSecret string, httpClient *http.Client) *TokenSource {
	return &TokenSource{
		clientID:     clientID,
		clientSecret: clientSecret,
		tokenURL:     defaultTokenURL,
		httpClient:   httpClient,
	}
}

// Token returns the cached bearer token, exchanging credentials on first
// use. Concurrent first callers perform a single exchange.
func (ts *TokenSource) Token(ctx context.Context) (string, error) {
	ts.mu.Lock()
	defer ts.mu.Unlock()

	if ts.token != "" {
		return ts.token, nil
	}

	if ts.clientID == "" || ts.clientSecret == "" {
		return "", ErrCredentialsMissing
	}

	form := url.Values{
		"client_id":     {ts.clientID},
		"client_secret": {ts.clientSecret},
		"grant_type":    {"client_credentials"},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, ts.tokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := ts.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("token exchange: %w", err)
	}
	defer resp.Body.Close()

	var body struct {
		AccessToken string `json:"access_token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil || body.AccessToken == "" {
		return "", ErrAuthFailed
	}

	ts.token = body.AccessToken
	return ts.token, nil
}

// Invalidate drops the cached token so the next Token call re-exchanges.
func (ts *TokenSource) Invalidate() {
	ts.mu.Lock()
	ts.token = ""
	ts.mu.Unlock()
}
