package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFavoriteService_Toggle(t *testing.T) {
	ctx := context.Background()
	repo := newFakeFavoriteRepo()
	svc := NewFavoriteService(repo, newFakeTours(tourA))

	tour, added, err := svc.Toggle(ctx, testUserID, tourA.ID)
	require.NoError(t, err)
	assert.True(t, added)
	assert.Equal(t, "Alps", tour.Title)
	assert.Len(t, repo.favorites, 1)

	_, added, err = svc.Toggle(ctx, testUserID, tourA.ID)
	require.NoError(t, err)
	assert.False(t, added)
	assert.Empty(t, repo.favorites)

	_, _, err = svc.Toggle(ctx, testUserID, 404)
	assert.ErrorIs(t, err, ErrTourNotFound)
}

func TestFavoriteService_Remove(t *testing.T) {
	ctx := context.Background()
	repo := newFakeFavoriteRepo()
	svc := NewFavoriteService(repo, newFakeTours(tourA))

	_, removed, err := svc.Remove(ctx, testUserID, tourA.ID)
	require.NoError(t, err)
	assert.False(t, removed)

	_, _, err = svc.Toggle(ctx, testUserID, tourA.ID)
	require.NoError(t, err)

	favorites, err := svc.List(ctx, testUserID)
	require.NoError(t, err)
	assert.Len(t, favorites, 1)

	_, removed, err = svc.Remove(ctx, testUserID, tourA.ID)
	require.NoError(t, err)
	assert.True(t, removed)
	assert.Empty(t, repo.favorites)
}
