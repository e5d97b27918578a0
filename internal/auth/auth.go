// Package auth verifies that the caller presenting an owner token is the
// owner of the scope a mutation targets. Verification happens at the API
// boundary, before any store access.
package auth

import (
	"context"
	"crypto/ed25519"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// ErrUnauthorized indicates the token holder is not the scope's owner.
var ErrUnauthorized = errors.New("caller is not the scope owner")

// ErrInvalidToken indicates the owner token is missing, malformed, expired,
// or signed by an unknown key.
var ErrInvalidToken = errors.New("owner token is invalid")

// Verifier authorizes an owner token against a target scope.
type Verifier interface {
	VerifyOwner(ctx context.Context, token string, scope string) error
}

// VerifierFunc adapts a function to the Verifier interface.
type VerifierFunc func(ctx context.Context, token string, scope string) error

// VerifyOwner implements Verifier for VerifierFunc.
func (fn VerifierFunc) VerifyOwner(ctx context.Context, token string, scope string) error {
	return fn(ctx, token, scope)
}

// verifierEnv holds raw env values before post-parse validation.
type verifierEnv struct {
	Issuer    string `env:"PERMASTORE_AUTH_ISSUER"`
	Audience  string `env:"PERMASTORE_AUTH_AUDIENCE"`
	PublicKey string `env:"PERMASTORE_AUTH_PUBLIC_KEY"`
	Insecure  string `env:"PERMASTORE_AUTH_INSECURE"`
}

// Config defines how owner tokens are verified.
type Config struct {
	Issuer   string
	Audience string
	Key      ed25519.PublicKey
	Now      func() time.Time
}

// ownerClaims is the internal claims type used for JWT parsing.
type ownerClaims struct {
	jwt.RegisteredClaims
}

// LoadVerifierFromEnv builds a verifier from environment configuration.
//
// With PERMASTORE_AUTH_PUBLIC_KEY set, issuer and audience become required
// and tokens are verified as EdDSA JWTs. Without a key, the server refuses to
// start unless PERMASTORE_AUTH_INSECURE is "true", in which case the raw
// token must equal the scope name. The insecure mode exists for local
// development only.
func LoadVerifierFromEnv(now func() time.Time) (Verifier, error) {
	var raw verifierEnv
	if err := env.Parse(&raw); err != nil {
		return nil, fmt.Errorf("parse auth env: %w", err)
	}
	publicKey := strings.TrimSpace(raw.PublicKey)
	if publicKey == "" {
		if !strings.EqualFold(strings.TrimSpace(raw.Insecure), "true") {
			return nil, fmt.Errorf("PERMASTORE_AUTH_PUBLIC_KEY is required (or set PERMASTORE_AUTH_INSECURE=true for local development)")
		}
		return InsecureVerifier(), nil
	}
	issuer := strings.TrimSpace(raw.Issuer)
	audience := strings.TrimSpace(raw.Audience)
	if issuer == "" {
		return nil, fmt.Errorf("PERMASTORE_AUTH_ISSUER is required")
	}
	if audience == "" {
		return nil, fmt.Errorf("PERMASTORE_AUTH_AUDIENCE is required")
	}
	keyBytes, err := base64.StdEncoding.DecodeString(publicKey)
	if err != nil {
		return nil, fmt.Errorf("decode auth public key: %w", err)
	}
	if len(keyBytes) != ed25519.PublicKeySize {
		return nil, fmt.Errorf("auth public key must be %d bytes", ed25519.PublicKeySize)
	}
	if now == nil {
		now = time.Now
	}
	return NewJWTVerifier(Config{
		Issuer:   issuer,
		Audience: audience,
		Key:      ed25519.PublicKey(keyBytes),
		Now:      now,
	}), nil
}

// jwtVerifier verifies EdDSA owner tokens.
type jwtVerifier struct {
	cfg Config
}

// NewJWTVerifier creates a verifier for EdDSA owner tokens. The token subject
// must equal the target scope.
func NewJWTVerifier(cfg Config) Verifier {
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &jwtVerifier{cfg: cfg}
}

// VerifyOwner checks signature, issuer, audience, and expiry, then requires
// the token subject to equal the target scope.
func (v *jwtVerifier) VerifyOwner(ctx context.Context, token string, scope string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return fmt.Errorf("%w: token is required", ErrInvalidToken)
	}
	scope = strings.TrimSpace(scope)
	if scope == "" {
		return fmt.Errorf("%w: scope is required", ErrUnauthorized)
	}
	if len(v.cfg.Key) != ed25519.PublicKeySize {
		return errors.New("owner token verifier is not configured")
	}

	var parsed ownerClaims
	_, err := jwt.ParseWithClaims(token, &parsed, func(*jwt.Token) (any, error) {
		return v.cfg.Key, nil
	},
		jwt.WithValidMethods([]string{"EdDSA"}),
		jwt.WithIssuer(v.cfg.Issuer),
		jwt.WithAudience(v.cfg.Audience),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(v.cfg.Now),
	)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if parsed.ID == "" {
		return fmt.Errorf("%w: jti is required", ErrInvalidToken)
	}
	if parsed.Subject != scope {
		return fmt.Errorf("%w: token subject %q does not match scope %q", ErrUnauthorized, parsed.Subject, scope)
	}
	return nil
}

// InsecureVerifier accepts a token that literally equals the scope name.
// Local development only.
func InsecureVerifier() Verifier {
	return VerifierFunc(func(ctx context.Context, token string, scope string) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		if strings.TrimSpace(token) == "" {
			return fmt.Errorf("%w: token is required", ErrInvalidToken)
		}
		if strings.TrimSpace(token) != strings.TrimSpace(scope) {
			return fmt.Errorf("%w: token does not name the scope owner", ErrUnauthorized)
		}
		return nil
	})
}

// Issuer mints owner tokens. It lives on the client side; the server only
// ever verifies.
type Issuer struct {
	IssuerName string
	Audience   string
	Key        ed25519.PrivateKey
	TTL        time.Duration
	Now        func() time.Time
}

// Mint signs an owner token for a scope.
func (i Issuer) Mint(scope string) (string, error) {
	scope = strings.TrimSpace(scope)
	if scope == "" {
		return "", fmt.Errorf("scope is required")
	}
	if len(i.Key) != ed25519.PrivateKeySize {
		return "", fmt.Errorf("signing key must be %d bytes", ed25519.PrivateKeySize)
	}
	if i.IssuerName == "" || i.Audience == "" {
		return "", fmt.Errorf("issuer and audience are required")
	}
	now := time.Now
	if i.Now != nil {
		now = i.Now
	}
	ttl := i.TTL
	if ttl <= 0 {
		ttl = time.Hour
	}
	issuedAt := now()
	claims := ownerClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    i.IssuerName,
			Subject:   scope,
			Audience:  jwt.ClaimStrings{i.Audience},
			ExpiresAt: jwt.NewNumericDate(issuedAt.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ID:        uuid.NewString(),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodEdDSA, claims)
	signed, err := token.SignedString(i.Key)
	if err != nil {
		return "", fmt.Errorf("sign owner token: %w", err)
	}
	return signed, nil
}
