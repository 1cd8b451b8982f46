// internal/auth/auth.go
//
// Package auth signs and verifies the operator tokens that guard endpoints
// with side effects, such as starting an export.
package auth

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ScopeExport allows starting static exports.
const ScopeExport = "export"

var (
	ErrNoSecret         = errors.New("secret key is required")
	ErrInvalidToken     = errors.New("invalid token")
	ErrInvalidSignature = errors.New("invalid token signature")
	ErrExpired          = errors.New("token has expired")
	ErrScope            = errors.New("token scope not allowed")
)

// TokenConfig holds the signing key and token lifetime.
type TokenConfig struct {
	Secret     []byte
	Expiration time.Duration

	// now defaults to time.Now
	now func() time.Time
}

// NewTokenConfig builds a config from a shared secret. An empty secret
// yields nil, meaning tokens are not in use.
func NewTokenConfig(secret string, expiration time.Duration) *TokenConfig {
	if secret == "" {
		return nil
	}
	return &TokenConfig{Secret: []byte(secret), Expiration: expiration}
}

func (c *TokenConfig) clock() time.Time {
	if c.now != nil {
		return c.now()
	}
	return time.Now()
}

// Token is a verified operator token.
type Token struct {
	Subject   string   `json:"subject"`
	Scopes    []string `json:"scopes"`
	ExpiresAt int64    `json:"expires_at"`
	IssuedAt  int64    `json:"issued_at"`
}

// Allows reports whether the token carries scope.
func (t *Token) Allows(scope string) bool {
	for _, s := range t.Scopes {
		if s == scope {
			return true
		}
	}
	return false
}

func sign(secret []byte, payload []byte) []byte {
	h := hmac.New(sha256.New, secret)
	h.Write(payload)
	return h.Sum(nil)
}

// GenerateToken signs a token for subject with the given scopes.
// The format is base64(payload) "." base64(hmac-sha256(payload)) where
// payload is subject|scope,scope|expires|issued.
func GenerateToken(subject string, scopes []string, config *TokenConfig) (string, error) {
	if len(config.Secret) == 0 {
		return "", ErrNoSecret
	}
	if strings.ContainsAny(subject, "|") {
		return "", fmt.Errorf("subject must not contain '|'")
	}
	for _, scope := range scopes {
		if strings.ContainsAny(scope, "|,") {
			return "", fmt.Errorf("scope %q must not contain '|' or ','", scope)
		}
	}

	now := config.clock()
	payload := strings.Join([]string{
		subject,
		strings.Join(scopes, ","),
		strconv.FormatInt(now.Add(config.Expiration).Unix(), 10),
		strconv.FormatInt(now.Unix(), 10),
	}, "|")

	return base64.RawURLEncoding.EncodeToString([]byte(payload)) + "." +
		base64.RawURLEncoding.EncodeToString(sign(config.Secret, []byte(payload))), nil
}

// ParseToken verifies the signature and expiry of tokenString.
func ParseToken(tokenString string, config *TokenConfig) (*Token, error) {
	if len(config.Secret) == 0 {
		return nil, ErrNoSecret
	}

	encodedPayload, encodedSignature, ok := strings.Cut(tokenString, ".")
	if !ok {
		return nil, ErrInvalidToken
	}
	payload, err := base64.RawURLEncoding.DecodeString(encodedPayload)
	if err != nil {
		return nil, fmt.Errorf("%w: payload: %v", ErrInvalidToken, err)
	}
	signature, err := base64.RawURLEncoding.DecodeString(encodedSignature)
	if err != nil {
		return nil, fmt.Errorf("%w: signature: %v", ErrInvalidToken, err)
	}
	if !hmac.Equal(signature, sign(config.Secret, payload)) {
		return nil, ErrInvalidSignature
	}

	parts := strings.Split(string(payload), "|")
	if len(parts) != 4 {
		return nil, fmt.Errorf("%w: payload format", ErrInvalidToken)
	}
	expiresAt, err := strconv.ParseInt(parts[2], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: expiry: %v", ErrInvalidToken, err)
	}
	issuedAt, err := strconv.ParseInt(parts[3], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: issue time: %v", ErrInvalidToken, err)
	}
	if config.clock().Unix() > expiresAt {
		return nil, ErrExpired
	}

	var scopes []string
	if parts[1] != "" {
		scopes = strings.Split(parts[1], ",")
	}
	return &Token{Subject: parts[0], Scopes: scopes, ExpiresAt: expiresAt, IssuedAt: issuedAt}, nil
}

// Authorize parses tokenString and checks it carries scope.
func Authorize(tokenString, scope string, config *TokenConfig) (*Token, error) {
	token, err := ParseToken(tokenString, config)
	if err != nil {
		return nil, err
	}
	if !token.Allows(scope) {
		return nil, fmt.Errorf("%w: %s", ErrScope, scope)
	}
	return token, nil
}

// GenerateSecureKey returns length random bytes for a signing key.
func GenerateSecureKey(length int) ([]byte, error) {
	if length <= 0 {
		length = 32
	}
	key := make([]byte, length)
	if _, err := rand.Read(key); err != nil {
		return nil, err
	}
	return key, nil
}
