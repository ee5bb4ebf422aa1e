package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Lachitha/EAD-Ecommerce-Backend/internal/hash"
	"github.com/Lachitha/EAD-Ecommerce-Backend/internal/models"
	"github.com/Lachitha/EAD-Ecommerce-Backend/internal/repo"
	"github.com/Lachitha/EAD-Ecommerce-Backend/pkg/tokens"
	"gorm.io/gorm"
)

const accessTokenTTL = 15 * time.Minute

var validRoles = map[string]bool{
	models.RoleCustomer:      true,
	models.RoleVendor:        true,
	models.RoleCSR:           true,
	models.RoleAdministrator: true,
}

// AuthService is the account directory: it resolves credentials to a user id
// and role, issued as a signed access token.
type AuthService struct {
	Repo      *repo.GormRepo
	JWTSecret []byte
}

func (s *AuthService) Register(ctx context.Context, username, password, role string) (*models.User, error) {
	if username == "" || password == "" {
		return nil, fmt.Errorf("%w: username and password are required", ErrValidation)
	}
	if role == "" {
		role = models.RoleCustomer
	}
	if !validRoles[role] {
		return nil, fmt.Errorf("%w: unknown role %q", ErrValidation, role)
	}

	if _, err := s.Repo.GetUserByUsername(ctx, username); err == nil {
		return nil, fmt.Errorf("%w: username already taken", ErrConflict)
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	passwordHash, err := hash.HashPassword(password)
	if err != nil {
		return nil, err
	}

	user := models.User{Username: username, PasswordHash: passwordHash, Role: role}
	if err := s.Repo.CreateUser(ctx, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

type LoginResult struct {
	AccessToken string       `json:"access_token"`
	ExpiresAt   int64        `json:"expires_at"`
	User        *models.User `json:"user"`
}

func (s *AuthService) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	if username == "" || password == "" {
		return nil, fmt.Errorf("%w: username and password are required", ErrValidation)
	}

	user, err := s.Repo.GetUserByUsername(ctx, username)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: invalid credentials", ErrValidation)
	}
	if err != nil {
		return nil, err
	}
	if !hash.CheckPassword(user.PasswordHash, password) {
		return nil, fmt.Errorf("%w: invalid credentials", ErrValidation)
	}

	exp := time.Now().Add(accessTokenTTL).UTC()
	token, err := tokens.NewAccessToken(user.ID.String(), user.Role, s.JWTSecret, exp)
	if err != nil {
		return nil, err
	}
	return &LoginResult{AccessToken: token, ExpiresAt: exp.Unix(), User: user}, nil
}
