package tokens

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var ErrMalformedClaims = errors.New("malformed token claims")

type AccessClaims struct {
	jwt.RegisteredClaims
}

func NewJTI() string { return uuid.NewString() }

// Issue signs a bearer token for the given user. Every token carries a
// fresh jti so it can be revoked independently of any other token.
func Issue(userID uuid.UUID, secret []byte, ttl time.Duration, now time.Time) (string, *AccessClaims, error) {
	claims := AccessClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID.String(),
			ID:        NewJTI(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(secret)
	if err != nil {
		return "", nil, err
	}

	return signed, &claims, nil
}

// Parse verifies the signature and expiry of a token and returns its
// claims. The time source is injectable so expiry can be tested without
// waiting out real TTLs.
func Parse(tokenStr string, secret []byte, now func() time.Time) (*AccessClaims, error) {
	var claims AccessClaims
	_, err := jwt.ParseWithClaims(tokenStr, &claims, func(t *jwt.Token) (any, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, errors.New("unexpected sign method")
		}
		return secret, nil
	}, jwt.WithTimeFunc(now), jwt.WithExpirationRequired())
	if err != nil {
		return nil, err
	}
	if claims.ID == "" || claims.Subject == "" {
		return nil, ErrMalformedClaims
	}
	return &claims, nil
}
