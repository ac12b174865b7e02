package service

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/tteodorogustavo/athlos/internal/auth"
	"github.com/tteodorogustavo/athlos/internal/models"
	"github.com/tteodorogustavo/athlos/internal/repository"
	"github.com/tteodorogustavo/athlos/pkg/api"
	"github.com/tteodorogustavo/athlos/pkg/utils"
)

type AuthService struct {
	users  repository.UserRepository
	tokens *auth.Manager
}

func NewAuthService(users repository.UserRepository, tokens *auth.Manager) *AuthService {
	return &AuthService{users: users, tokens: tokens}
}

// Login checks the credentials and returns a token pair with the compact
// user record.
func (s *AuthService) Login(ctx context.Context, req api.LoginRequest) (*api.LoginResponse, error) {
	email := strings.TrimSpace(req.Email)
	if email == "" || req.Password == "" {
		return nil, ErrInvalidCredentials
	}
	user, err := s.users.FindByEmail(ctx, email)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	if !user.IsActive || !auth.CheckPassword(user.PasswordHash, req.Password) {
		return nil, ErrInvalidCredentials
	}

	pair, err := s.tokens.Issue(user.ID, user.UserType)
	if err != nil {
		return nil, err
	}
	utils.Log.Info("User logged in", zap.Uint("user_id", user.ID), zap.String("user_type", string(user.UserType)))

	compact := toUser(user)
	return &api.LoginResponse{Access: pair.Access, Refresh: pair.Refresh, User: &compact}, nil
}

// Refresh exchanges a refresh token for a new access token.
func (s *AuthService) Refresh(ctx context.Context, refresh string) (*api.RefreshResponse, error) {
	claims, err := s.tokens.Parse(refresh, auth.TokenRefresh)
	if err != nil {
		return nil, ErrTokenInvalid
	}
	id, _ := claims.UserID()
	user, err := s.users.FindByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrTokenInvalid
	}
	if err != nil {
		return nil, err
	}
	if !user.IsActive {
		return nil, ErrTokenInvalid
	}
	access, err := s.tokens.IssueAccess(user.ID, user.UserType)
	if err != nil {
		return nil, err
	}
	return &api.RefreshResponse{Access: access}, nil
}

// Authenticate resolves an access token to its active account.
func (s *AuthService) Authenticate(ctx context.Context, access string) (*models.User, error) {
	if access == "" {
		return nil, ErrUnauthenticated
	}
	claims, err := s.tokens.Parse(access, auth.TokenAccess)
	if err != nil {
		return nil, ErrTokenInvalid
	}
	id, _ := claims.UserID()
	user, err := s.users.FindByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrTokenInvalid
	}
	if err != nil {
		return nil, err
	}
	if !user.IsActive {
		return nil, ErrTokenInvalid
	}
	return user, nil
}

func (s *AuthService) Me(actor *models.User) api.UserDetail {
	return toUserDetail(actor)
}
