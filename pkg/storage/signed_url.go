package storage

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

var (
	ErrTokenInvalid = errors.New("invalid download token")
	ErrTokenExpired = errors.New("download token expired")
)

// SignedToken is an issued download token.
type SignedToken struct {
	Token     string
	ExpiresAt time.Time
}

// TokenClaims is what a verified token grants access to.
type TokenClaims struct {
	Subject   string
	Path      string
	ExpiresAt time.Time
}

// SignedURLSigner creates and validates signed download tokens.
type SignedURLSigner struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewSignedURLSigner constructs a signer with the provided secret and TTL.
func NewSignedURLSigner(secret string, ttl time.Duration) *SignedURLSigner {
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	return &SignedURLSigner{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// Sign returns a token granting read access to objectPath on behalf of subject
// (a lesson id).
func (s *SignedURLSigner) Sign(subject, objectPath string) (SignedToken, error) {
	if subject == "" || objectPath == "" {
		return SignedToken{}, fmt.Errorf("subject and path required")
	}
	if len(s.secret) == 0 {
		return SignedToken{}, fmt.Errorf("signing secret missing")
	}
	expiresAt := s.now().Add(s.ttl).Truncate(time.Second)
	encodedPath := base64.RawURLEncoding.EncodeToString([]byte(objectPath))
	exp := strconv.FormatInt(expiresAt.Unix(), 10)
	token := strings.Join([]string{subject, exp, encodedPath, s.mac(subject, exp, encodedPath)}, ".")
	return SignedToken{Token: token, ExpiresAt: expiresAt}, nil
}

// Verify checks the signature and expiry of token.
func (s *SignedURLSigner) Verify(token string) (TokenClaims, error) {
	parts := strings.Split(token, ".")
	if len(parts) != 4 {
		return TokenClaims{}, ErrTokenInvalid
	}
	subject, exp, encodedPath, signature := parts[0], parts[1], parts[2], parts[3]

	if !hmac.Equal([]byte(s.mac(subject, exp, encodedPath)), []byte(signature)) {
		return TokenClaims{}, ErrTokenInvalid
	}
	expUnix, err := strconv.ParseInt(exp, 10, 64)
	if err != nil {
		return TokenClaims{}, ErrTokenInvalid
	}
	rawPath, err := base64.RawURLEncoding.DecodeString(encodedPath)
	if err != nil {
		return TokenClaims{}, ErrTokenInvalid
	}
	expiresAt := time.Unix(expUnix, 0)
	if s.now().After(expiresAt) {
		return TokenClaims{}, ErrTokenExpired
	}
	return TokenClaims{Subject: subject, Path: string(rawPath), ExpiresAt: expiresAt}, nil
}

func (s *SignedURLSigner) mac(subject, exp, encodedPath string) string {
	h := hmac.New(sha256.New, s.secret)
	_, _ = h.Write([]byte(subject + "|" + exp + "|" + encodedPath))
	return hex.EncodeToString(h.Sum(nil))
}
