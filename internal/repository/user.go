package repository

import (
	"context"
	"fmt"

	"github.com/voyage-tours/voyage/internal/domain"
	"github.com/voyage-tours/voyage/internal/repository/dao"
)

var (
	ErrUsernameExists  = dao.ErrUsernameExists
	ErrUserNotFound    = dao.ErrUserNotFound
	ErrProfileNotFound = dao.ErrProfileNotFound
)

type UserDAO interface {
	Insert(ctx context.Context, user dao.User) (dao.User, error)
	Update(ctx context.Context, user dao.User) (dao.User, error)
	FindByID(ctx context.Context, id uint) (dao.User, error)
	FindByUsername(ctx context.Context, username string) (dao.User, error)
	FindProfileByUserID(ctx context.Context, userID uint) (dao.Profile, error)
	UpdateProfile(ctx context.Context, profile dao.Profile) (dao.Profile, error)
	ListProfiles(ctx context.Context, search string, married, license *bool, offset, limit int) ([]dao.Profile, int64, error)
}

type UserRepository struct {
	dao UserDAO
}

func NewUserRepository(dao UserDAO) *UserRepository {
	return &UserRepository{
		dao: dao,
	}
}

func (r *UserRepository) Create(ctx context.Context, user domain.User) (domain.User, error) {
	created, err := r.dao.Insert(ctx, dao.User{
		Username: user.Username,
		Email:    user.Email,
		Password: user.Password,
		IsStaff:  user.IsStaff,
	})
	if err != nil {
		return domain.User{}, fmt.Errorf("r.dao.Insert -> %w", err)
	}

	return userDaoToDomain(created), nil
}

func (r *UserRepository) Update(ctx context.Context, user domain.User) (domain.User, error) {
	updated, err := r.dao.Update(ctx, dao.User{
		ID:        user.ID,
		Username:  user.Username,
		Email:     user.Email,
		Password:  user.Password,
		IsStaff:   user.IsStaff,
		CreatedAt: user.CreatedAt,
	})
	if err != nil {
		return domain.User{}, fmt.Errorf("r.dao.Update -> %w", err)
	}

	return userDaoToDomain(updated), nil
}

func (r *UserRepository) FindByID(ctx context.Context, id uint) (domain.User, error) {
	found, err := r.dao.FindByID(ctx, id)
	if err != nil {
		return domain.User{}, fmt.Errorf("r.dao.FindByID -> %w", err)
	}

	return userDaoToDomain(found), nil
}

func (r *UserRepository) FindByUsername(ctx context.Context, username string) (domain.User, error) {
	found, err := r.dao.FindByUsername(ctx, username)
	if err != nil {
		return domain.User{}, fmt.Errorf("r.dao.FindByUsername -> %w", err)
	}

	return userDaoToDomain(found), nil
}

func (r *UserRepository) FindProfileByUserID(ctx context.Context, userID uint) (domain.Profile, error) {
	found, err := r.dao.FindProfileByUserID(ctx, userID)
	if err != nil {
		return domain.Profile{}, fmt.Errorf("r.dao.FindProfileByUserID -> %w", err)
	}

	return profileDaoToDomain(found), nil
}

func (r *UserRepository) UpdateProfile(ctx context.Context, profile domain.Profile) (domain.Profile, error) {
	updated, err := r.dao.UpdateProfile(ctx, dao.Profile{
		ID:      profile.ID,
		UserID:  profile.UserID,
		FIO:     profile.FIO,
		Age:     profile.Age,
		Photo:   profile.Photo,
		Married: profile.Married,
		License: profile.License,
	})
	if err != nil {
		return domain.Profile{}, fmt.Errorf("r.dao.UpdateProfile -> %w", err)
	}

	result := profileDaoToDomain(updated)
	result.Username = profile.Username

	return result, nil
}

func (r *UserRepository) ListProfiles(ctx context.Context, filter domain.ProfileFilter, offset, limit int) ([]domain.Profile, int64, error) {
	found, total, err := r.dao.ListProfiles(ctx, filter.Search, filter.Married, filter.License, offset, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("r.dao.ListProfiles -> %w", err)
	}

	profiles := make([]domain.Profile, 0, len(found))
	for _, p := range found {
		profiles = append(profiles, profileDaoToDomain(p))
	}

	return profiles, total, nil
}

func userDaoToDomain(u dao.User) domain.User {
	return domain.User{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		Password:  u.Password,
		IsStaff:   u.IsStaff,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

func profileDaoToDomain(p dao.Profile) domain.Profile {
	profile := domain.Profile{
		ID:      p.ID,
		UserID:  p.UserID,
		FIO:     p.FIO,
		Age:     p.Age,
		Photo:   p.Photo,
		Married: p.Married,
		License: p.License,
	}
	if p.User != nil {
		profile.Username = p.User.Username
	}

	return profile
}
