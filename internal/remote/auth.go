package remote

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/drive/v3"

	"github.com/tripfolio/tripfolio/internal/domain"
)

// Authenticator owns the Google OAuth session: the authorization-code flow,
// the persisted token, and silent refresh. The drive.file scope restricts
// access to files this app created, which is all the single trip file needs.
//
// Refresh is single-flight: the token source serializes refreshes behind a
// mutex, so concurrent API calls that find an expired token all wait for the
// same refresh instead of issuing duplicates. A failed refresh invalidates
// the session and forces a new login.
type Authenticator struct {
	config    *oauth2.Config
	tokenPath string

	mu     sync.Mutex
	source oauth2.TokenSource
}

// NewAuthenticator builds an Authenticator. tokenPath is the file the
// persisted token is read from and written to.
func NewAuthenticator(clientID, clientSecret, redirectURL, tokenPath string) *Authenticator {
	return &Authenticator{
		config: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  redirectURL,
			Scopes:       []string{drive.DriveFileScope},
			Endpoint:     google.Endpoint,
		},
		tokenPath: tokenPath,
	}
}

// LoginURL returns the Google consent URL for the authorization-code flow.
// AccessTypeOffline requests a refresh token so the session survives access
// token expiry without user interaction.
func (a *Authenticator) LoginURL(state string) string {
	return a.config.AuthCodeURL(state, oauth2.AccessTypeOffline)
}

// Exchange trades an authorization code for a token and persists it.
func (a *Authenticator) Exchange(ctx context.Context, code string) error {
	tok, err := a.config.Exchange(ctx, code)
	if err != nil {
		return fmt.Errorf("remote.Authenticator.Exchange: %w", err)
	}
	if err := a.saveToken(tok); err != nil {
		return fmt.Errorf("remote.Authenticator.Exchange: %w", err)
	}

	a.mu.Lock()
	a.source = nil // rebuild from the fresh token on next use
	a.mu.Unlock()
	return nil
}

// Logout discards the persisted token and the in-memory session.
func (a *Authenticator) Logout() error {
	a.mu.Lock()
	a.source = nil
	a.mu.Unlock()

	if err := os.Remove(a.tokenPath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remote.Authenticator.Logout: %w", err)
	}
	return nil
}

// IsAuthenticated reports whether a persisted token exists. The token may
// still be expired; expiry is handled by silent refresh on first use, and a
// failed refresh surfaces as ErrNotAuthenticated from the API call itself.
func (a *Authenticator) IsAuthenticated(ctx context.Context) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.source != nil {
		return true
	}
	_, err := a.loadToken()
	return err == nil
}

// TokenSource returns the refreshing, persisting token source for API
// clients. Returns ErrNotAuthenticated when no token has been stored.
func (a *Authenticator) TokenSource(ctx context.Context) (oauth2.TokenSource, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.source == nil {
		tok, err := a.loadToken()
		if err != nil {
			return nil, fmt.Errorf("remote.Authenticator.TokenSource: %w: %v", domain.ErrNotAuthenticated, err)
		}
		// ReuseTokenSource caches the token and serializes refreshes; the
		// persisting wrapper writes refreshed tokens back to disk.
		a.source = &persistingSource{
			auth:  a,
			inner: oauth2.ReuseTokenSource(tok, a.config.TokenSource(ctx, tok)),
			last:  tok.AccessToken,
		}
	}
	return a.source, nil
}

// invalidate drops the in-memory session after a hard refresh failure.
func (a *Authenticator) invalidate() {
	a.mu.Lock()
	a.source = nil
	a.mu.Unlock()
}

func (a *Authenticator) loadToken() (*oauth2.Token, error) {
	f, err := os.Open(a.tokenPath)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	tok := &oauth2.Token{}
	if err := json.NewDecoder(f).Decode(tok); err != nil {
		return nil, err
	}
	return tok, nil
}

func (a *Authenticator) saveToken(tok *oauth2.Token) error {
	f, err := os.OpenFile(a.tokenPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return err
	}
	defer f.Close()
	return json.NewEncoder(f).Encode(tok)
}

// persistingSource wraps the refreshing source to write refreshed tokens
// back to the token file, and to translate a failed refresh into
// ErrNotAuthenticated so callers know re-login is required.
type persistingSource struct {
	auth  *Authenticator
	inner oauth2.TokenSource

	mu   sync.Mutex
	last string // access token last written to disk
}

func (s *persistingSource) Token() (*oauth2.Token, error) {
	tok, err := s.inner.Token()
	if err != nil {
		s.auth.invalidate()
		return nil, fmt.Errorf("remote: token refresh failed: %w: %v", domain.ErrNotAuthenticated, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if tok.AccessToken != s.last {
		if err := s.auth.saveToken(tok); err != nil {
			return nil, fmt.Errorf("remote: persist refreshed token: %w", err)
		}
		s.last = tok.AccessToken
	}
	return tok, nil
}
