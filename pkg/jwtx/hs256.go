package jwtx

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// MinSecretBytes is the shortest HMAC secret accepted. Anything shorter than
// the SHA-256 block output makes brute forcing the secret practical.
const MinSecretBytes = 32

// HS256 signs and verifies tokens with a shared server secret. The same
// value serves as Signer and Verifier since HMAC is symmetric.
type HS256 struct {
	secret []byte
	issuer string
	now    func() time.Time
}

// NewHS256 returns an HMAC-SHA256 signer/verifier. Tokens are stamped with
// issuer and verification rejects tokens from any other issuer.
func NewHS256(secret []byte, issuer string) (*HS256, error) {
	if len(secret) < MinSecretBytes {
		return nil, ErrWeakSecret
	}
	key := make([]byte, len(secret))
	copy(key, secret)
	return &HS256{secret: key, issuer: issuer, now: time.Now}, nil
}

func (s *HS256) Alg() string { return jwt.SigningMethodHS256.Alg() }

// Issuer returns the issuer claim stamped on tokens.
func (s *HS256) Issuer() string { return s.issuer }

// Sign takes your claims and turns them into a signed JWT string.
func (s *HS256) Sign(claims Claims) (string, error) {
	if claims.Subject == "" {
		return "", ErrInvalidClaim
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

// Verify validates the JWT string and returns its parsed Claims.
func (s *HS256) Verify(tokenStr string) (Claims, error) {
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.now),
	)

	claims := &Claims{}
	token, err := parser.ParseWithClaims(tokenStr, claims, func(*jwt.Token) (any, error) {
		return s.secret, nil
	})
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenMalformed):
			return Claims{}, ErrMalformed
		case errors.Is(err, jwt.ErrTokenSignatureInvalid):
			return Claims{}, ErrInvalidSig
		case errors.Is(err, jwt.ErrTokenExpired):
			return Claims{}, ErrExpired
		case errors.Is(err, jwt.ErrTokenNotValidYet):
			return Claims{}, ErrNotYetValid
		}
		return Claims{}, fmt.Errorf("jwtx: parse or verify: %w", err)
	}
	if !token.Valid {
		return Claims{}, ErrInvalidClaim
	}

	if err := claims.ValidateIssuer(s.issuer); err != nil {
		return Claims{}, err
	}
	if claims.Subject == "" || claims.UserID != claims.Subject {
		return Claims{}, ErrInvalidClaim
	}

	return *claims, nil
}
