package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"github.com/yigit/collabhub/internal/app/models"
	"github.com/yigit/collabhub/internal/app/models/dto"
	"github.com/yigit/collabhub/internal/app/repositories"
	"github.com/yigit/collabhub/internal/pkg/apperrors"
	"github.com/yigit/collabhub/internal/pkg/auth"
	"github.com/yigit/collabhub/internal/pkg/filestorage"
	"github.com/yigit/collabhub/internal/pkg/validation"
)

// Authentication failures
var (
	ErrInvalidCredentials = apperrors.NewCustomError(apperrors.ErrInvalidCredentials, "Invalid email or password")
	ErrInvalidEmail       = apperrors.NewCustomError(apperrors.ErrValidationFailed, "Invalid email format")
	ErrInvalidPassword    = apperrors.NewCustomError(apperrors.ErrValidationFailed, "Password must be between 8 and 72 characters")
	ErrInvalidUsername    = apperrors.NewCustomError(apperrors.ErrValidationFailed, "Username must be 3-30 letters, digits, '.', '_' or '-'")
)

// AuthService handles account registration, login and removal
type AuthService struct {
	userRepo    repositories.IUserRepository
	jwtService  *auth.JWTService
	fileStorage filestorage.FileStorage
	logger      zerolog.Logger
}

// NewAuthService creates a new AuthService
func NewAuthService(
	userRepo repositories.IUserRepository,
	jwtService *auth.JWTService,
	fileStorage filestorage.FileStorage,
	logger zerolog.Logger,
) *AuthService {
	return &AuthService{
		userRepo:    userRepo,
		jwtService:  jwtService,
		fileStorage: fileStorage,
		logger:      logger,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Signup registers a new free plan account and logs it in
func (s *AuthService) Signup(ctx context.Context, req *dto.SignupRequest) (*dto.AuthResponse, error) {
	email := normalizeEmail(req.Email)
	username := strings.TrimSpace(req.Username)

	if !validation.IsValidEmail(email) {
		return nil, ErrInvalidEmail
	}
	if !validation.IsValidPassword(req.Password) {
		return nil, ErrInvalidPassword
	}
	if !validation.IsValidUsername(username) {
		return nil, ErrInvalidUsername
	}

	exists, err := s.userRepo.ExistsByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("error checking if email exists: %w", err)
	}
	if exists {
		return nil, apperrors.ErrEmailAlreadyExists
	}

	hashed, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("error hashing password: %w", err)
	}

	user := &models.User{
		Email:    email,
		Password: hashed,
		Username: username,
		Role:     strings.TrimSpace(req.Role),
		Plan:     models.PlanFree,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info().Int64("userID", user.ID).Str("username", user.Username).Msg("User registered")
	return s.authResponse(user)
}

// Login verifies credentials and issues an access token
func (s *AuthService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.AuthResponse, error) {
	user, err := s.userRepo.GetByEmail(ctx, normalizeEmail(req.Email))
	if err != nil {
		if errors.Is(err, apperrors.ErrResourceNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("error finding user: %w", err)
	}

	if !auth.CheckPassword(user.Password, req.Password) {
		s.logger.Debug().Int64("userID", user.ID).Msg("Password mismatch")
		return nil, ErrInvalidCredentials
	}

	return s.authResponse(user)
}

// CheckUser reports whether an account exists for email
func (s *AuthService) CheckUser(ctx context.Context, email string) (bool, error) {
	exists, err := s.userRepo.ExistsByEmail(ctx, normalizeEmail(email))
	if err != nil {
		return false, fmt.Errorf("error checking if email exists: %w", err)
	}
	return exists, nil
}

// DeleteAccount removes the user; owned projects, memberships and messages go with it
func (s *AuthService) DeleteAccount(ctx context.Context, userID int64) error {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return err
	}

	if err := s.userRepo.Delete(ctx, userID); err != nil {
		return err
	}

	if user.ProfileImageURL != "" {
		if err := s.fileStorage.DeleteFile(ctx, filestorage.BucketProfileImages, user.ProfileImageURL); err != nil {
			s.logger.Warn().Err(err).Int64("userID", userID).Msg("Failed to delete profile image of removed account")
		}
	}

	s.logger.Info().Int64("userID", userID).Msg("Account deleted")
	return nil
}

func (s *AuthService) authResponse(user *models.User) (*dto.AuthResponse, error) {
	token, expiresIn, err := s.jwtService.GenerateAccessToken(user)
	if err != nil {
		return nil, fmt.Errorf("error generating access token: %w", err)
	}
	return &dto.AuthResponse{
		Token: dto.TokenResponse{
			AccessToken: token,
			TokenType:   "Bearer",
			ExpiresIn:   int64(expiresIn),
		},
		User: user,
	}, nil
}
