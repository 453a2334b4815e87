package session

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// CookieCodec signs session ids into the session cookie, playing the role
// the framework secret key plays in cookie-session web stacks: the browser
// holds an opaque signed token, the state stays server-side.
type CookieCodec struct {
	secret []byte
	issuer string
	ttl    time.Duration
}

func NewCookieCodec(secret string) *CookieCodec {
	return &CookieCodec{
		secret: []byte(secret),
		issuer: "melonsite",
		ttl:    7 * 24 * time.Hour,
	}
}

// Encode signs the session id into a compact HS256 token.
func (c *CookieCodec) Encode(sessionID string) (string, error) {
	now := time.Now()

	claims := jwt.RegisteredClaims{
		Subject:   sessionID,
		Issuer:    c.issuer,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(c.ttl)),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(c.secret)
}

// Decode verifies a cookie token and returns the session id it carries.
func (c *CookieCodec) Decode(tokenStr string) (string, error) {
	var claims jwt.RegisteredClaims

	token, err := jwt.ParseWithClaims(tokenStr, &claims, func(token *jwt.Token) (any, error) {
		if token.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, errors.New("unexpected signing method")
		}
		return c.secret, nil
	})
	if err != nil || token == nil || !token.Valid {
		return "", errors.New("invalid session token")
	}

	if claims.Issuer != "" && claims.Issuer != c.issuer {
		return "", errors.New("invalid issuer")
	}
	if claims.Subject == "" {
		return "", errors.New("empty session id")
	}

	return claims.Subject, nil
}
