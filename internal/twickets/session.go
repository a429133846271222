package twickets

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"sync"

	"github.com/google/uuid"

	"github.com/ZTwicket/Twicketer/internal/domain"
)

// SessionConfig carries the account and connection settings the
// session provider needs.
type SessionConfig struct {
	BaseURL   string
	APIKey    string
	User      string
	Password  string
	UserAgent string
}

// Session owns the authenticated marketplace credential. Acquire logs
// in on demand; Invalidate forces the next Acquire to re-authenticate.
// Safe for concurrent use.
type Session struct {
	cfg    SessionConfig
	http   *http.Client
	logger *slog.Logger

	mu    sync.Mutex
	cred  domain.Credential
	valid bool
}

// NewSession creates a session provider. The client id identifies this
// process to the marketplace for its whole lifetime, the way a browser
// session cookie would.
func NewSession(cfg SessionConfig, httpClient *http.Client, logger *slog.Logger) *Session {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Session{
		cfg:    cfg,
		http:   httpClient,
		logger: logger,
		cred:   domain.Credential{ClientID: uuid.NewString()},
	}
}

// Acquire returns a usable credential, logging in first if the held one
// is absent or was invalidated. Login rejection is domain.ErrLoginFailed
// and is not retried here; network faults map to domain.ErrTransient so
// the caller can back off.
func (s *Session) Acquire(ctx context.Context) (domain.Credential, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.valid {
		return s.cred, nil
	}

	s.logger.Info("logging in", "user", s.cfg.User)
	token, err := s.login(ctx)
	if err != nil {
		return domain.Credential{}, err
	}

	s.cred.Token = token
	s.valid = true
	s.logger.Info("login successful")
	return s.cred, nil
}

// Invalidate marks the held credential expired. The next Acquire will
// re-authenticate.
func (s *Session) Invalidate() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.valid = false
	s.cred.Token = ""
}

func (s *Session) login(ctx context.Context) (string, error) {
	body, err := json.Marshal(loginRequest{
		Login:       s.cfg.User,
		Password:    s.cfg.Password,
		AccountType: "U",
	})
	if err != nil {
		return "", fmt.Errorf("encode login request: %w", err)
	}

	url := fmt.Sprintf("%s/services/auth/login?api_key=%s", s.cfg.BaseURL, s.cfg.APIKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build login request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json, text/plain, */*")
	req.Header.Set("User-Agent", s.cfg.UserAgent)
	attachSessionCookies(req, s.cred.ClientID)

	resp, err := s.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: login: %v", domain.ErrTransient, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		return "", fmt.Errorf("%w: login throttled", domain.ErrRateLimited)
	case resp.StatusCode >= 500:
		return "", fmt.Errorf("%w: login status %d", domain.ErrTransient, resp.StatusCode)
	case resp.StatusCode >= 400:
		return "", fmt.Errorf("%w: status %d", domain.ErrLoginFailed, resp.StatusCode)
	}

	var decoded loginResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return "", fmt.Errorf("%w: decode login response: %v", domain.ErrTransient, err)
	}
	if decoded.ResponseData == "" {
		return "", fmt.Errorf("%w: no token in response", domain.ErrLoginFailed)
	}
	return decoded.ResponseData, nil
}

// attachSessionCookies sets the cookies the marketplace expects from a
// browser session.
func attachSessionCookies(req *http.Request, clientID string) {
	req.AddCookie(&http.Cookie{Name: "clientId", Value: clientID})
	req.AddCookie(&http.Cookie{Name: "territory", Value: "GB"})
	req.AddCookie(&http.Cookie{Name: "locale", Value: "en_GB"})
}
