package services

import (
	"context"
	"fmt"

	"github.com/examdesk/examdesk/internal/app/models/dto"
	"github.com/examdesk/examdesk/internal/pkg/apperrors"
	"github.com/examdesk/examdesk/internal/pkg/auth"
	"github.com/examdesk/examdesk/internal/pkg/logger"
)

// AuthService defines credential verification and token issuance
type AuthService interface {
	Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error)
}

type authServiceImpl struct {
	userStore  userStore
	jwtService *auth.JWTService
}

// NewAuthService creates a new AuthService
func NewAuthService(userStore userStore, jwtService *auth.JWTService) AuthService {
	return &authServiceImpl{
		userStore:  userStore,
		jwtService: jwtService,
	}
}

// Login verifies the credentials and issues an access token
func (s *authServiceImpl) Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error) {
	user, err := s.userStore.GetByLogin(ctx, req.Login)
	if err != nil {
		return nil, fmt.Errorf("error looking up user: %w", err)
	}
	if user == nil || !auth.CheckPassword(user.Password, req.Password) {
		logger.Debug().Str("login", req.Login).Msg("Login rejected")
		return nil, apperrors.ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, apperrors.ErrAccountDisabled
	}

	token, expiresIn, err := s.jwtService.GenerateAccessToken(user)
	if err != nil {
		return nil, fmt.Errorf("error generating access token: %w", err)
	}

	return &dto.LoginResponse{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresIn:   expiresIn,
		Login:       user.Login,
		RoleType:    string(user.RoleType),
	}, nil
}
