// Command mock-github runs a stand-in for the GitHub OAuth endpoints so
// the gateway can be exercised locally without a registered OAuth app.
// The authorize endpoint approves immediately and redirects back with a
// single-use code.
//
// Point the gateway at it with github.auth_url, github.token_url and
// github.api_base_url (http://localhost:9090/login/oauth/authorize,
// http://localhost:9090/login/oauth/access_token, http://localhost:9090/api/).
//
// Configuration:
//
//	MOCK_PORT  - Listen port (default: 9090)
//	MOCK_LOGIN - Login returned for every authorization (default: "octocat")
package main

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/google/uuid"
)

func main() {
	port := os.Getenv("MOCK_PORT")
	if port == "" {
		port = "9090"
	}
	login := os.Getenv("MOCK_LOGIN")
	if login == "" {
		login = "octocat"
	}

	gh := &mockGitHub{login: login, codes: make(map[string]string)}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /login/oauth/authorize", gh.handleAuthorize)
	mux.HandleFunc("POST /login/oauth/access_token", gh.handleToken)
	mux.HandleFunc("GET /api/user", gh.handleUser)
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok\n"))
	})

	srv := &http.Server{Addr: ":" + port, Handler: mux}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		slog.Info("mock github starting", "port", port, "login", login)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("mock github failed", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	slog.Info("mock github shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	srv.Shutdown(shutdownCtx)
}

type mockGitHub struct {
	login string

	mu    sync.Mutex
	codes map[string]string // code -> login
}

func (m *mockGitHub) handleAuthorize(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	target, err := url.Parse(q.Get("redirect_uri"))
	if err != nil || target.Scheme == "" {
		http.Error(w, "redirect_uri is required", http.StatusBadRequest)
		return
	}

	code := uuid.NewString()
	m.mu.Lock()
	m.codes[code] = m.login
	m.mu.Unlock()

	back := target.Query()
	back.Set("code", code)
	back.Set("state", q.Get("state"))
	target.RawQuery = back.Encode()

	slog.Info("authorization approved", "login", m.login, "client_id", q.Get("client_id"))
	http.Redirect(w, r, target.String(), http.StatusFound)
}

func (m *mockGitHub) handleToken(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid_request"})
		return
	}

	code := r.PostForm.Get("code")
	m.mu.Lock()
	login, ok := m.codes[code]
	delete(m.codes, code)
	m.mu.Unlock()

	if !ok {
		writeJSON(w, http.StatusBadRequest, map[string]string{
			"error":             "bad_verification_code",
			"error_description": "The code passed is incorrect or expired.",
		})
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"access_token": "mock-" + login,
		"token_type":   "bearer",
		"scope":        "user",
	})
}

func (m *mockGitHub) handleUser(w http.ResponseWriter, r *http.Request) {
	login, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer mock-")
	if !ok || login == "" {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "Bad credentials"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"login": login, "id": 1, "type": "User"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
