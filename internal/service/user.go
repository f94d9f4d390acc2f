package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/voyage-tours/voyage/internal/domain"
	"github.com/voyage-tours/voyage/internal/repository"
)

var (
	ErrUserNotFound    = repository.ErrUserNotFound
	ErrProfileNotFound = repository.ErrProfileNotFound
)

type UserRepository interface {
	FindByID(ctx context.Context, id uint) (domain.User, error)
	FindProfileByUserID(ctx context.Context, userID uint) (domain.Profile, error)
	UpdateProfile(ctx context.Context, profile domain.Profile) (domain.Profile, error)
}

// FileRemover deletes a stored upload by its public name.
type FileRemover interface {
	Delete(name string) error
}

type UserService struct {
	repo  UserRepository
	files FileRemover
}

func NewUserService(repo UserRepository, files FileRemover) *UserService {
	return &UserService{
		repo:  repo,
		files: files,
	}
}

func (s *UserService) GetUser(ctx context.Context, id uint) (domain.User, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return domain.User{}, fmt.Errorf("s.repo.FindByID -> %w", err)
	}

	return user, nil
}

func (s *UserService) GetProfile(ctx context.Context, userID uint) (domain.Profile, error) {
	profile, err := s.repo.FindProfileByUserID(ctx, userID)
	if err != nil {
		return domain.Profile{}, fmt.Errorf("s.repo.FindProfileByUserID -> %w", err)
	}

	return profile, nil
}

// UpdateProfile applies the submitted fields to the user's profile. A photo
// that gets replaced or cleared is removed from the media store afterwards.
func (s *UserService) UpdateProfile(ctx context.Context, userID uint, update domain.ProfileUpdate) (domain.Profile, error) {
	current, err := s.repo.FindProfileByUserID(ctx, userID)
	if err != nil {
		return domain.Profile{}, fmt.Errorf("s.repo.FindProfileByUserID -> %w", err)
	}

	updated, err := s.repo.UpdateProfile(ctx, current.Apply(update))
	if err != nil {
		return domain.Profile{}, fmt.Errorf("s.repo.UpdateProfile -> %w", err)
	}

	if current.Photo != "" && current.Photo != updated.Photo && s.files != nil {
		if err = s.files.Delete(current.Photo); err != nil {
			zap.L().Warn("failed to delete replaced profile photo",
				zap.Uint("user_id", userID),
				zap.String("photo", current.Photo),
				zap.Error(err))
		}
	}

	return updated, nil
}
