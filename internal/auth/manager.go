package auth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"log"
	"net/http"
	"sync"
	"time"

	"trend-herald/internal/domain"

	"golang.org/x/oauth2"
)

// twitterEndpoint is the X OAuth2 authorization-code endpoint pair.
var twitterEndpoint = oauth2.Endpoint{
	AuthURL:   "https://twitter.com/i/oauth2/authorize",
	TokenURL:  "https://api.twitter.com/2/oauth2/token",
	AuthStyle: oauth2.AuthStyleInHeader,
}

// DefaultScopes are the scopes the bot needs to read and write posts.
var DefaultScopes = []string{"tweet.read", "tweet.write", "users.read"}

var ErrNotAuthenticated = errors.New("not authenticated")

type pendingAttempt struct {
	verifier string
}

// Manager owns the OAuth2 authorization-code + PKCE lifecycle and the active
// credential. Pending attempts are keyed by state and single-use: completing
// an attempt consumes its record whether the exchange succeeds or fails, so a
// verifier is never reused. Manager implements oauth2.TokenSource, so HTTP
// clients built from it always authorize with the most recent credential.
type Manager struct {
	conf *oauth2.Config

	mu      sync.Mutex
	pending map[string]pendingAttempt
	cred    *domain.Credential
}

func NewManager(clientID, clientSecret, callbackURL string, scopes []string) *Manager {
	if len(scopes) == 0 {
		scopes = DefaultScopes
	}
	return &Manager{
		conf: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  callbackURL,
			Scopes:       scopes,
			Endpoint:     twitterEndpoint,
		},
		pending: make(map[string]pendingAttempt),
	}
}

// BeginAuthorization generates a fresh anti-CSRF state and PKCE verifier,
// records the pending attempt, and returns the authorization URL.
func (m *Manager) BeginAuthorization() (url, state string, err error) {
	state, err = randomState()
	if err != nil {
		return "", "", fmt.Errorf("generate state: %w", err)
	}
	verifier := oauth2.GenerateVerifier()

	m.mu.Lock()
	m.pending[state] = pendingAttempt{verifier: verifier}
	m.mu.Unlock()

	return m.conf.AuthCodeURL(state, oauth2.S256ChallengeOption(verifier)), state, nil
}

// CompleteAuthorization exchanges an authorization code for the pending
// attempt matching receivedState. An unknown state fails with
// domain.ErrStateMismatch; exchange failures wrap domain.ErrExchangeFailed.
// On success the active credential is replaced atomically.
func (m *Manager) CompleteAuthorization(ctx context.Context, code, receivedState string) (*domain.Credential, error) {
	m.mu.Lock()
	attempt, ok := m.pending[receivedState]
	delete(m.pending, receivedState)
	m.mu.Unlock()

	if !ok {
		return nil, domain.ErrStateMismatch
	}
	if attempt.verifier == "" {
		return nil, domain.ErrMissingVerifier
	}

	tok, err := m.conf.Exchange(ctx, code, oauth2.VerifierOption(attempt.verifier))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrExchangeFailed, err)
	}

	cred := &domain.Credential{
		AccessToken:  tok.AccessToken,
		RefreshToken: tok.RefreshToken,
	}
	m.mu.Lock()
	m.cred = cred
	m.mu.Unlock()

	log.Println("Authorization complete, credential active")
	return cred, nil
}

// Authenticated reports whether a credential is active.
func (m *Manager) Authenticated() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.cred != nil
}

// Token implements oauth2.TokenSource over the active credential.
func (m *Manager) Token() (*oauth2.Token, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.cred == nil {
		return nil, ErrNotAuthenticated
	}
	return &oauth2.Token{
		AccessToken:  m.cred.AccessToken,
		RefreshToken: m.cred.RefreshToken,
		TokenType:    "Bearer",
	}, nil
}

// APIClient returns an HTTP client that authorizes each request with the
// credential active at that moment.
func (m *Manager) APIClient() *http.Client {
	client := oauth2.NewClient(context.Background(), m)
	client.Timeout = 15 * time.Second
	return client
}

func randomState() (string, error) {
	b := make([]byte, 24)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
