package session

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	gocache "github.com/patrickmn/go-cache"

	"github.com/sinabro/schedbird/pkg/debug"
)

const (
	// DefaultTTL is the lifetime of a session token.
	DefaultTTL = 600 * time.Second

	// DefaultStateTTL is the lifetime of an OAuth state token.
	DefaultStateTTL = 10 * time.Minute

	// DefaultIssuer is written to the iss claim.
	DefaultIssuer = "schedbird"

	stateAudience = "oauth_state"
)

// signingMethod is the only algorithm accepted by Verify.
var signingMethod = jwt.SigningMethodHS512

// Config configures a Manager. It is copied on construction.
type Config struct {
	// Secret is the HMAC signing key (required).
	Secret []byte

	// TTL is the session token lifetime. Default: 600s.
	TTL time.Duration

	// Issuer is the iss claim. Default: "schedbird".
	Issuer string

	// StateTTL is the OAuth state token lifetime. Default: 10 minutes.
	StateTTL time.Duration

	// Now overrides the clock (tests only).
	Now func() time.Time
}

func (c *Config) applyDefaults() {
	if c.TTL <= 0 {
		c.TTL = DefaultTTL
	}
	if c.Issuer == "" {
		c.Issuer = DefaultIssuer
	}
	if c.StateTTL <= 0 {
		c.StateTTL = DefaultStateTTL
	}
	if c.Now == nil {
		c.Now = time.Now
	}
}

// Claims is the payload of a session token.
type Claims struct {
	User  string `json:"user"`
	Scope string `json:"scope"`
	Token string `json:"token"`
	jwt.RegisteredClaims
}

// Manager issues and verifies session and state tokens.
// It is safe for concurrent use.
type Manager struct {
	cfg    Config
	secret []byte
	used   *gocache.Cache
}

// NewManager creates a Manager. An empty secret is rejected.
func NewManager(cfg Config) (*Manager, error) {
	if len(cfg.Secret) == 0 {
		return nil, errors.New("session: signing secret is required")
	}
	cfg.applyDefaults()

	secret := make([]byte, len(cfg.Secret))
	copy(secret, cfg.Secret)
	cfg.Secret = nil

	return &Manager{
		cfg:    cfg,
		secret: secret,
		used:   gocache.New(cfg.StateTTL, time.Minute),
	}, nil
}

// TTL returns the configured session lifetime.
func (m *Manager) TTL() time.Duration {
	return m.cfg.TTL
}

// Issue signs a new session token for the user in the given scope.
func (m *Manager) Issue(userID, scope, providerToken string) (string, error) {
	if userID == "" {
		return "", errors.New("session: user id is required")
	}

	now := m.cfg.Now()
	claims := Claims{
		User:  userID,
		Scope: scope,
		Token: providerToken,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    m.cfg.Issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.cfg.TTL)),
			ID:        uuid.NewString(),
		},
	}

	signed, err := jwt.NewWithClaims(signingMethod, claims).SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("signing session token: %w", err)
	}

	debug.Log("session", "token issued", "user", userID, "scope", scope, "jti", claims.ID)
	return signed, nil
}

// Verify checks a session token against the expected scope.
//
// Errors are reported in this order: ErrExpired, ErrMalformed,
// ErrScopeMismatch.
func (m *Manager) Verify(token, expectedScope string) (*Claims, error) {
	var peek Claims
	if _, _, err := jwt.NewParser().ParseUnverified(token, &peek); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if peek.ExpiresAt == nil {
		return nil, fmt.Errorf("%w: missing exp", ErrMalformed)
	}
	if !m.cfg.Now().Before(peek.ExpiresAt.Time) {
		return nil, ErrExpired
	}

	var claims Claims
	_, err := jwt.ParseWithClaims(token, &claims, m.keyFunc,
		jwt.WithValidMethods([]string{signingMethod.Alg()}),
		jwt.WithTimeFunc(m.cfg.Now),
		jwt.WithExpirationRequired(),
		jwt.WithIssuer(m.cfg.Issuer),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpired
		}
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if claims.User == "" {
		return nil, fmt.Errorf("%w: missing user", ErrMalformed)
	}

	if claims.Scope != expectedScope {
		debug.Log("session", "scope mismatch", "token_scope", claims.Scope, "request_scope", expectedScope)
		return nil, ErrScopeMismatch
	}

	return &claims, nil
}

// IssueState returns a signed OAuth state token with a random nonce.
func (m *Manager) IssueState() (string, error) {
	now := m.cfg.Now()
	claims := jwt.RegisteredClaims{
		Issuer:    m.cfg.Issuer,
		Audience:  jwt.ClaimStrings{stateAudience},
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(m.cfg.StateTTL)),
		ID:        uuid.NewString(),
	}

	signed, err := jwt.NewWithClaims(signingMethod, claims).SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("signing state token: %w", err)
	}
	return signed, nil
}

// VerifyState validates a state token and marks it consumed.
func (m *Manager) VerifyState(state string) error {
	var claims jwt.RegisteredClaims
	_, err := jwt.ParseWithClaims(state, &claims, m.keyFunc,
		jwt.WithValidMethods([]string{signingMethod.Alg()}),
		jwt.WithTimeFunc(m.cfg.Now),
		jwt.WithExpirationRequired(),
		jwt.WithIssuer(m.cfg.Issuer),
		jwt.WithAudience(stateAudience),
	)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrStateInvalid, err)
	}
	if claims.ID == "" {
		return fmt.Errorf("%w: missing nonce", ErrStateInvalid)
	}

	// Add fails if the nonce is already present.
	if err := m.used.Add(claims.ID, struct{}{}, m.cfg.StateTTL); err != nil {
		return ErrStateReplayed
	}
	return nil
}

func (m *Manager) keyFunc(t *jwt.Token) (any, error) {
	return m.secret, nil
}
