// Package csrf emite y valida tokens CSRF. El token es un JWT HS256 atado a un
// nonce por cliente que viaja en una cookie; un token robado no sirve sin la
// cookie del mismo cliente.
package csrf

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	jwtv5 "github.com/golang-jwt/jwt/v5"
)

var (
	ErrMissingToken  = errors.New("csrf: token missing")
	ErrInvalidToken  = errors.New("csrf: token invalid")
	ErrNonceMismatch = errors.New("csrf: token does not match client nonce")
)

const issuerName = "hellocms/csrf"

type claims struct {
	Nonce string `json:"nce"`
	jwtv5.RegisteredClaims
}

// Issuer firma y valida tokens.
type Issuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewIssuer crea un Issuer. El secreto debe tener al menos 32 bytes.
func NewIssuer(secret []byte, ttl time.Duration) (*Issuer, error) {
	if len(secret) < 32 {
		return nil, fmt.Errorf("csrf: secret must be at least 32 bytes, got %d", len(secret))
	}
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &Issuer{secret: secret, ttl: ttl, now: time.Now}, nil
}

// TTL devuelve la validez de los tokens emitidos.
func (i *Issuer) TTL() time.Duration { return i.ttl }

// Issue emite un token para el nonce del cliente.
func (i *Issuer) Issue(nonce string) (string, error) {
	if nonce == "" {
		return "", errors.New("csrf: empty nonce")
	}
	now := i.now()
	tok := jwtv5.NewWithClaims(jwtv5.SigningMethodHS256, claims{
		Nonce: nonce,
		RegisteredClaims: jwtv5.RegisteredClaims{
			Issuer:    issuerName,
			IssuedAt:  jwtv5.NewNumericDate(now),
			ExpiresAt: jwtv5.NewNumericDate(now.Add(i.ttl)),
		},
	})
	return tok.SignedString(i.secret)
}

// Validate verifica firma, expiración y que el token pertenezca al nonce.
func (i *Issuer) Validate(token, nonce string) error {
	if token == "" || nonce == "" {
		return ErrMissingToken
	}
	var c claims
	_, err := jwtv5.ParseWithClaims(token, &c, func(*jwtv5.Token) (any, error) { return i.secret, nil },
		jwtv5.WithValidMethods([]string{jwtv5.SigningMethodHS256.Alg()}),
		jwtv5.WithIssuer(issuerName),
		jwtv5.WithExpirationRequired(),
		jwtv5.WithTimeFunc(i.now),
	)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if subtle.ConstantTimeCompare([]byte(c.Nonce), []byte(nonce)) != 1 {
		return ErrNonceMismatch
	}
	return nil
}

// NewNonce genera un nonce aleatorio de 32 bytes en hex.
func NewNonce() (string, error) {
	var b [32]byte
	if _, err := rand.Read(b[:]); err != nil {
		return "", fmt.Errorf("csrf: nonce: %w", err)
	}
	return hex.EncodeToString(b[:]), nil
}

type nonceKey struct{}

// WithNonce guarda el nonce del cliente en el contexto del request.
func WithNonce(ctx context.Context, nonce string) context.Context {
	return context.WithValue(ctx, nonceKey{}, nonce)
}

// NonceFrom devuelve el nonce del contexto, si hay.
func NonceFrom(ctx context.Context) (string, bool) {
	s, ok := ctx.Value(nonceKey{}).(string)
	return s, ok && s != ""
}
