package app

import (
	"context"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"techmart/internal/domain"
)

type AuthService struct {
	users  domain.UserRepository
	tokens domain.TokenIssuer
}

func NewAuthService(ur domain.UserRepository, t domain.TokenIssuer) *AuthService {
	return &AuthService{users: ur, tokens: t}
}

func (s *AuthService) Register(ctx context.Context, username, email, password string) (domain.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), 10)
	if err != nil {
		return domain.User{}, err
	}
	u := domain.User{
		Username:     strings.TrimSpace(username),
		Email:        strings.ToLower(strings.TrimSpace(email)),
		PasswordHash: string(hash),
		Role:         "user",
		UserType:     "other",
		Preferences:  domain.Preferences{Language: "en", Theme: "dark", Notifications: true},
		IsActive:     true,
	}
	if err := s.users.CreateUser(ctx, &u); err != nil {
		return domain.User{}, err // ErrConflict when the email is taken
	}
	return u, nil
}

// Login returns a signed token and the user. ErrNotFound means the email is
// unknown; ErrInvalid means the password did not match.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, domain.User, error) {
	u, err := s.users.GetUserByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return "", domain.User{}, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return "", domain.User{}, domain.ErrInvalid
	}
	token, err := s.tokens.Issue(domain.Identity{ID: u.ID, Role: u.Role})
	if err != nil {
		return "", domain.User{}, err
	}
	return token, u, nil
}
