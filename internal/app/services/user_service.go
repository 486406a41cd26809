package services

import (
	"context"
	"fmt"
	"mime/multipart"

	"github.com/rs/zerolog"
	"github.com/yigit/collabhub/internal/app/models"
	"github.com/yigit/collabhub/internal/app/models/dto"
	"github.com/yigit/collabhub/internal/app/repositories"
	"github.com/yigit/collabhub/internal/pkg/apperrors"
	"github.com/yigit/collabhub/internal/pkg/filestorage"
)

// UserService defines the interface for user operations
type UserService interface {
	GetProfile(ctx context.Context, userID int64) (*models.User, error)
	UpdateProfile(ctx context.Context, userID int64, req *dto.UpdateProfileRequest) (*models.User, error)
	UpdateProfileImage(ctx context.Context, userID int64, file *multipart.FileHeader) (string, error)
	ListUsers(ctx context.Context, filter models.UserFilter) ([]*models.User, int64, error)
}

// userServiceImpl implements UserService
type userServiceImpl struct {
	userRepo    repositories.IUserRepository
	fileStorage filestorage.FileStorage
	logger      zerolog.Logger
}

// NewUserService creates a new UserService
func NewUserService(
	userRepo repositories.IUserRepository,
	fileStorage filestorage.FileStorage,
	logger zerolog.Logger,
) UserService {
	return &userServiceImpl{
		userRepo:    userRepo,
		fileStorage: fileStorage,
		logger:      logger,
	}
}

// GetProfile retrieves a user by ID
func (s *userServiceImpl) GetProfile(ctx context.Context, userID int64) (*models.User, error) {
	return s.userRepo.GetByID(ctx, userID)
}

// UpdateProfile applies the set fields of req to the user's profile
func (s *userServiceImpl) UpdateProfile(ctx context.Context, userID int64, req *dto.UpdateProfileRequest) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	req.Apply(user)
	if err := s.userRepo.UpdateProfile(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info().Int64("userID", userID).Msg("Profile updated")
	return user, nil
}

// UpdateProfileImage stores a new avatar and removes the previous one
func (s *userServiceImpl) UpdateProfileImage(ctx context.Context, userID int64, file *multipart.FileHeader) (string, error) {
	if _, err := filestorage.ValidateImage(file); err != nil {
		return "", apperrors.NewBadRequestError(err.Error())
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return "", err
	}

	url, err := s.fileStorage.SaveFile(ctx, filestorage.BucketProfileImages, file)
	if err != nil {
		s.logger.Error().Err(err).Int64("userID", userID).Msg("Failed to store profile image")
		return "", fmt.Errorf("%w: %v", apperrors.ErrStorageUnavailable, err)
	}

	if err := s.userRepo.UpdateProfileImage(ctx, userID, url); err != nil {
		_ = s.fileStorage.DeleteFile(ctx, filestorage.BucketProfileImages, url)
		return "", err
	}

	if user.ProfileImageURL != "" {
		if err := s.fileStorage.DeleteFile(ctx, filestorage.BucketProfileImages, user.ProfileImageURL); err != nil {
			s.logger.Warn().Err(err).Int64("userID", userID).Msg("Failed to delete previous profile image")
		}
	}
	return url, nil
}

// ListUsers returns a page of the users directory
func (s *userServiceImpl) ListUsers(ctx context.Context, filter models.UserFilter) ([]*models.User, int64, error) {
	return s.userRepo.List(ctx, filter)
}
