package twickets

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ZTwicket/Twicketer/internal/domain"
)

func TestSessionAcquire(t *testing.T) {
	t.Parallel()

	sessionConfig := func(baseURL string) SessionConfig {
		return SessionConfig{
			BaseURL:   baseURL,
			APIKey:    "key",
			User:      "user@example.test",
			Password:  "hunter2",
			UserAgent: "test-agent",
		}
	}

	t.Run("logs in once and caches the credential", func(t *testing.T) {
		logins := 0
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/services/auth/login" {
				t.Errorf("unexpected path %s", r.URL.Path)
			}
			var req loginRequest
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				t.Errorf("decode login body: %v", err)
			}
			if req.Login != "user@example.test" || req.Password != "hunter2" || req.AccountType != "U" {
				t.Errorf("unexpected login body %+v", req)
			}
			logins++
			fmt.Fprint(w, `{"responseData": "token-abc"}`)
		}))
		defer server.Close()

		session := NewSession(sessionConfig(server.URL), server.Client(), discardLogger())

		cred, err := session.Acquire(context.Background())
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if cred.Token != "token-abc" {
			t.Fatalf("expected token-abc, got %q", cred.Token)
		}
		if cred.ClientID == "" {
			t.Fatalf("expected a client id")
		}

		again, err := session.Acquire(context.Background())
		if err != nil {
			t.Fatalf("expected no error on cached acquire, got %v", err)
		}
		if again != cred {
			t.Fatalf("expected cached credential, got %+v", again)
		}
		if logins != 1 {
			t.Fatalf("expected a single login request, got %d", logins)
		}
	})

	t.Run("invalidate forces re-authentication", func(t *testing.T) {
		logins := 0
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			logins++
			fmt.Fprintf(w, `{"responseData": "token-%d"}`, logins)
		}))
		defer server.Close()

		session := NewSession(sessionConfig(server.URL), server.Client(), discardLogger())

		first, err := session.Acquire(context.Background())
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		session.Invalidate()
		second, err := session.Acquire(context.Background())
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if logins != 2 {
			t.Fatalf("expected 2 login requests, got %d", logins)
		}
		if first.Token == second.Token {
			t.Fatalf("expected a fresh token after invalidation")
		}
		if first.ClientID != second.ClientID {
			t.Fatalf("expected the client id to survive re-authentication")
		}
	})

	t.Run("rejected credentials are a fatal login failure", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "bad credentials", http.StatusUnauthorized)
		}))
		defer server.Close()

		session := NewSession(sessionConfig(server.URL), server.Client(), discardLogger())
		if _, err := session.Acquire(context.Background()); !errors.Is(err, domain.ErrLoginFailed) {
			t.Fatalf("expected ErrLoginFailed, got %v", err)
		}
	})

	t.Run("missing token in response is a login failure", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, `{"responseData": ""}`)
		}))
		defer server.Close()

		session := NewSession(sessionConfig(server.URL), server.Client(), discardLogger())
		if _, err := session.Acquire(context.Background()); !errors.Is(err, domain.ErrLoginFailed) {
			t.Fatalf("expected ErrLoginFailed, got %v", err)
		}
	})

	t.Run("server fault during login is transient", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "down", http.StatusServiceUnavailable)
		}))
		defer server.Close()

		session := NewSession(sessionConfig(server.URL), server.Client(), discardLogger())
		if _, err := session.Acquire(context.Background()); !errors.Is(err, domain.ErrTransient) {
			t.Fatalf("expected ErrTransient, got %v", err)
		}
	})

	t.Run("throttled login backs off, not fatal", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "slow down", http.StatusTooManyRequests)
		}))
		defer server.Close()

		session := NewSession(sessionConfig(server.URL), server.Client(), discardLogger())
		if _, err := session.Acquire(context.Background()); !errors.Is(err, domain.ErrRateLimited) {
			t.Fatalf("expected ErrRateLimited, got %v", err)
		}
	})
}
