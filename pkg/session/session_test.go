package session

import (
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

func newTestManager(t *testing.T, secret string) (*Manager, *fakeClock) {
	t.Helper()
	clock := &fakeClock{now: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
	m, err := NewManager(Config{Secret: []byte(secret), Now: clock.Now})
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}
	return m, clock
}

func TestNewManager_RequiresSecret(t *testing.T) {
	if _, err := NewManager(Config{}); err == nil {
		t.Error("expected error for empty secret")
	}
}

func TestNewManager_Defaults(t *testing.T) {
	m, _ := newTestManager(t, "s3cret")
	if m.TTL() != 600*time.Second {
		t.Errorf("TTL = %v, want 600s", m.TTL())
	}
}

func TestIssueVerify_RoundTrip(t *testing.T) {
	m, _ := newTestManager(t, "s3cret")

	tok, err := m.Issue("alice", "home", "gho_abc")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	claims, err := m.Verify(tok, "home")
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if claims.User != "alice" {
		t.Errorf("User = %q, want %q", claims.User, "alice")
	}
	if claims.Scope != "home" {
		t.Errorf("Scope = %q, want %q", claims.Scope, "home")
	}
	if claims.Token != "gho_abc" {
		t.Errorf("Token = %q, want %q", claims.Token, "gho_abc")
	}
	if claims.ID == "" {
		t.Error("jti should be set")
	}
	if claims.Issuer != DefaultIssuer {
		t.Errorf("Issuer = %q, want %q", claims.Issuer, DefaultIssuer)
	}
}

func TestIssue_ExpiryAndUniqueID(t *testing.T) {
	m, clock := newTestManager(t, "s3cret")

	a, _ := m.Issue("alice", "home", "t")
	b, _ := m.Issue("alice", "home", "t")
	if a == b {
		t.Error("two issued tokens should differ")
	}

	claims, err := m.Verify(a, "home")
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	want := clock.Now().Add(600 * time.Second)
	if !claims.ExpiresAt.Time.Equal(want) {
		t.Errorf("exp = %v, want %v", claims.ExpiresAt.Time, want)
	}
}

func TestIssue_RequiresUser(t *testing.T) {
	m, _ := newTestManager(t, "s3cret")
	if _, err := m.Issue("", "home", "t"); err == nil {
		t.Error("expected error for empty user")
	}
}

func TestVerify_Expired(t *testing.T) {
	m, clock := newTestManager(t, "s3cret")

	tok, _ := m.Issue("alice", "home", "t")
	clock.Advance(601 * time.Second)

	_, err := m.Verify(tok, "home")
	if !errors.Is(err, ErrExpired) {
		t.Errorf("expected ErrExpired, got %v", err)
	}
}

func TestVerify_ExpiredWinsOverSignature(t *testing.T) {
	issuer, clock := newTestManager(t, "other-secret")
	verifier, _ := NewManager(Config{Secret: []byte("s3cret"), Now: clock.Now})

	tok, _ := issuer.Issue("alice", "home", "t")
	clock.Advance(time.Hour)

	_, err := verifier.Verify(tok, "work")
	if !errors.Is(err, ErrExpired) {
		t.Errorf("expected ErrExpired, got %v", err)
	}
}

func TestVerify_WrongSecret(t *testing.T) {
	issuer, clock := newTestManager(t, "other-secret")
	verifier, _ := NewManager(Config{Secret: []byte("s3cret"), Now: clock.Now})

	tok, _ := issuer.Issue("alice", "home", "t")

	_, err := verifier.Verify(tok, "home")
	if !errors.Is(err, ErrMalformed) {
		t.Errorf("expected ErrMalformed, got %v", err)
	}
}

func TestVerify_ScopeMismatch(t *testing.T) {
	m, _ := newTestManager(t, "s3cret")

	tok, _ := m.Issue("alice", "home", "t")

	_, err := m.Verify(tok, "work")
	if !errors.Is(err, ErrScopeMismatch) {
		t.Errorf("expected ErrScopeMismatch, got %v", err)
	}
}

func TestVerify_Malformed(t *testing.T) {
	m, clock := newTestManager(t, "s3cret")
	exp := jwt.NewNumericDate(clock.Now().Add(time.Minute))

	hs256, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		User: "alice", Scope: "home",
		RegisteredClaims: jwt.RegisteredClaims{Issuer: DefaultIssuer, ExpiresAt: exp},
	}).SignedString([]byte("s3cret"))

	noExp, _ := jwt.NewWithClaims(jwt.SigningMethodHS512, Claims{
		User: "alice", Scope: "home",
		RegisteredClaims: jwt.RegisteredClaims{Issuer: DefaultIssuer},
	}).SignedString([]byte("s3cret"))

	noUser, _ := jwt.NewWithClaims(jwt.SigningMethodHS512, Claims{
		Scope:            "home",
		RegisteredClaims: jwt.RegisteredClaims{Issuer: DefaultIssuer, ExpiresAt: exp},
	}).SignedString([]byte("s3cret"))

	valid, _ := m.Issue("alice", "home", "t")
	parts := strings.Split(valid, ".")
	tampered := parts[0] + "." + parts[1] + "." + strings.Repeat("A", len(parts[2]))

	tests := []struct {
		name  string
		token string
	}{
		{"empty", ""},
		{"garbage", "not-a-jwt"},
		{"two segments", "a.b"},
		{"wrong algorithm", hs256},
		{"missing exp", noExp},
		{"missing user", noUser},
		{"tampered signature", tampered},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := m.Verify(tt.token, "home")
			if !errors.Is(err, ErrMalformed) {
				t.Errorf("expected ErrMalformed, got %v", err)
			}
		})
	}
}

func TestState_SingleUse(t *testing.T) {
	m, _ := newTestManager(t, "s3cret")

	state, err := m.IssueState()
	if err != nil {
		t.Fatalf("IssueState: %v", err)
	}

	if err := m.VerifyState(state); err != nil {
		t.Fatalf("first VerifyState: %v", err)
	}
	if err := m.VerifyState(state); !errors.Is(err, ErrStateReplayed) {
		t.Errorf("second VerifyState: expected ErrStateReplayed, got %v", err)
	}
}

func TestState_Expired(t *testing.T) {
	m, clock := newTestManager(t, "s3cret")

	state, _ := m.IssueState()
	clock.Advance(11 * time.Minute)

	if err := m.VerifyState(state); !errors.Is(err, ErrStateInvalid) {
		t.Errorf("expected ErrStateInvalid, got %v", err)
	}
}

func TestState_RejectsForeignTokens(t *testing.T) {
	m, _ := newTestManager(t, "s3cret")
	other, _ := newTestManager(t, "other-secret")

	sessionTok, _ := m.Issue("alice", "home", "t")
	foreignState, _ := other.IssueState()

	for name, state := range map[string]string{
		"literal":       "xyz",
		"session token": sessionTok,
		"other secret":  foreignState,
	} {
		t.Run(name, func(t *testing.T) {
			if err := m.VerifyState(state); !errors.Is(err, ErrStateInvalid) {
				t.Errorf("expected ErrStateInvalid, got %v", err)
			}
		})
	}
}

func TestState_NotAcceptedAsSession(t *testing.T) {
	m, _ := newTestManager(t, "s3cret")

	state, _ := m.IssueState()
	if _, err := m.Verify(state, "home"); !errors.Is(err, ErrMalformed) {
		t.Errorf("expected ErrMalformed, got %v", err)
	}
}

func TestState_ConcurrentReplay(t *testing.T) {
	m, _ := newTestManager(t, "s3cret")
	state, _ := m.IssueState()

	const n = 16
	var wg sync.WaitGroup
	var mu sync.Mutex
	accepted := 0

	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if m.VerifyState(state) == nil {
				mu.Lock()
				accepted++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	if accepted != 1 {
		t.Errorf("accepted = %d, want 1", accepted)
	}
}
