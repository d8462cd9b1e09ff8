package devserver

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

type stubClaims struct {
	jwt.RegisteredClaims
	UserID string `json:"user_id"`
}

// tokenMinter signs and verifies the stub's access tokens. The user_id claim
// uses the snake_case key the client's token codec expects.
type tokenMinter struct {
	secret []byte
	ttl    time.Duration
}

func newTokenMinter(secret string, ttl time.Duration) *tokenMinter {
	return &tokenMinter{secret: []byte(secret), ttl: ttl}
}

func (m *tokenMinter) mint(userID string) (string, error) {
	now := time.Now()
	claims := stubClaims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.secret)
}

func (m *tokenMinter) verify(token string) (string, error) {
	parsed, err := jwt.ParseWithClaims(token, &stubClaims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %s", t.Method.Alg())
		}
		return m.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return "", err
	}
	claims, ok := parsed.Claims.(*stubClaims)
	if !ok || !parsed.Valid {
		return "", fmt.Errorf("token invalid")
	}
	return claims.UserID, nil
}
