package integration

import (
	"net/http"
	"strings"
	"testing"
)

func TestHealthEndpoint(t *testing.T) {
	resp := get(t, newBrowser(t), "/healthz")

	if resp.StatusCode != http.StatusOK {
		t.Errorf("expected 200, got %d", resp.StatusCode)
	}

	body := readBody(t, resp)
	if !strings.Contains(body, "ok") {
		t.Errorf("body = %q, want to contain 'ok'", body)
	}
}

func TestOperationalEndpointsNoAuth(t *testing.T) {
	// None of these may redirect to the provider.
	for _, path := range []string{"/healthz", "/readyz", "/metrics"} {
		t.Run(path, func(t *testing.T) {
			resp := get(t, newBrowser(t), path)
			defer resp.Body.Close()

			if resp.StatusCode != http.StatusOK {
				t.Errorf("expected 200 without auth, got %d", resp.StatusCode)
			}
			if resp.Header.Get("Authorization") != "" {
				t.Error("operational endpoint issued a session")
			}
		})
	}
}
