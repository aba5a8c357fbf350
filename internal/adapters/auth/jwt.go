package auth

import (
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"techmart/internal/domain"
)

// JWT issues and verifies HS256 bearer tokens carrying the user id and role.
type JWT struct {
	secret []byte
	ttl    time.Duration
}

func NewJWT(secret string, ttl time.Duration) *JWT {
	return &JWT{secret: []byte(secret), ttl: ttl}
}

func (j *JWT) Issue(id domain.Identity) (string, error) {
	claims := jwt.MapClaims{
		"user_id": strconv.FormatInt(id.ID, 10),
		"role":    id.Role,
		"exp":     time.Now().Add(j.ttl).Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(j.secret)
}

func (j *JWT) Verify(token string) (domain.Identity, error) {
	parsed, err := jwt.Parse(token, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return j.secret, nil
	})
	if err != nil || !parsed.Valid {
		return domain.Identity{}, fmt.Errorf("invalid token: %w", err)
	}
	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return domain.Identity{}, fmt.Errorf("invalid token claims")
	}
	idStr, _ := claims["user_id"].(string)
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		return domain.Identity{}, fmt.Errorf("invalid user id in token")
	}
	role, _ := claims["role"].(string)
	return domain.Identity{ID: id, Role: role}, nil
}
