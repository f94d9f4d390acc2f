package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/voyage-tours/voyage/internal/domain"
	"github.com/voyage-tours/voyage/internal/repository"
)

type fakeUserRepo struct {
	profiles map[uint]domain.Profile
}

func (f *fakeUserRepo) FindByID(_ context.Context, id uint) (domain.User, error) {
	if _, ok := f.profiles[id]; !ok {
		return domain.User{}, repository.ErrUserNotFound
	}

	return domain.User{ID: id}, nil
}

func (f *fakeUserRepo) FindProfileByUserID(_ context.Context, userID uint) (domain.Profile, error) {
	profile, ok := f.profiles[userID]
	if !ok {
		return domain.Profile{}, repository.ErrProfileNotFound
	}

	return profile, nil
}

func (f *fakeUserRepo) UpdateProfile(_ context.Context, profile domain.Profile) (domain.Profile, error) {
	f.profiles[profile.UserID] = profile
	return profile, nil
}

func ptr[T any](v T) *T {
	return &v
}

func TestUserService_UpdateProfile(t *testing.T) {
	ctx := context.Background()

	t.Run("unset fields are preserved", func(t *testing.T) {
		repo := &fakeUserRepo{profiles: map[uint]domain.Profile{
			testUserID: {ID: 1, UserID: testUserID, FIO: "Ivan Petrov", Age: ptr(30), Married: true},
		}}
		svc := NewUserService(repo, &fakeFiles{})

		updated, err := svc.UpdateProfile(ctx, testUserID, domain.ProfileUpdate{License: ptr(true)})
		require.NoError(t, err)
		assert.Equal(t, "Ivan Petrov", updated.FIO)
		assert.Equal(t, 30, *updated.Age)
		assert.True(t, updated.Married)
		assert.True(t, updated.License)
	})

	t.Run("replaced photo is deleted", func(t *testing.T) {
		repo := &fakeUserRepo{profiles: map[uint]domain.Profile{
			testUserID: {ID: 1, UserID: testUserID, Photo: "profiles/old.png"},
		}}
		files := &fakeFiles{}
		svc := NewUserService(repo, files)

		updated, err := svc.UpdateProfile(ctx, testUserID, domain.ProfileUpdate{Photo: ptr("profiles/new.png")})
		require.NoError(t, err)
		assert.Equal(t, "profiles/new.png", updated.Photo)
		assert.Equal(t, []string{"profiles/old.png"}, files.deleted)
	})

	t.Run("unchanged photo is kept", func(t *testing.T) {
		repo := &fakeUserRepo{profiles: map[uint]domain.Profile{
			testUserID: {ID: 1, UserID: testUserID, Photo: "profiles/old.png"},
		}}
		files := &fakeFiles{}
		svc := NewUserService(repo, files)

		_, err := svc.UpdateProfile(ctx, testUserID, domain.ProfileUpdate{FIO: ptr("Anna")})
		require.NoError(t, err)
		assert.Empty(t, files.deleted)
	})

	t.Run("missing profile", func(t *testing.T) {
		svc := NewUserService(&fakeUserRepo{profiles: map[uint]domain.Profile{}}, nil)

		_, err := svc.UpdateProfile(ctx, testUserID, domain.ProfileUpdate{})
		assert.ErrorIs(t, err, ErrProfileNotFound)
	})
}
