package repository

import (
	"context"
	"fmt"

	"github.com/voyage-tours/voyage/internal/domain"
	"github.com/voyage-tours/voyage/internal/repository/dao"
)

type FavoriteDAO interface {
	FirstOrCreate(ctx context.Context, userID, tourID uint) (dao.Favorite, bool, error)
	Delete(ctx context.Context, userID, tourID uint) (bool, error)
	FindByUser(ctx context.Context, userID uint) ([]dao.Favorite, error)
	FindTourIDsByUser(ctx context.Context, userID uint) ([]uint, error)
	ListForAdmin(ctx context.Context, search string, offset, limit int) ([]dao.Favorite, int64, error)
}

type FavoriteRepository struct {
	dao FavoriteDAO
}

func NewFavoriteRepository(dao FavoriteDAO) *FavoriteRepository {
	return &FavoriteRepository{
		dao: dao,
	}
}

func (r *FavoriteRepository) GetOrCreate(ctx context.Context, userID, tourID uint) (domain.Favorite, bool, error) {
	favorite, created, err := r.dao.FirstOrCreate(ctx, userID, tourID)
	if err != nil {
		return domain.Favorite{}, false, fmt.Errorf("r.dao.FirstOrCreate -> %w", err)
	}

	return favoriteDaoToDomain(favorite), created, nil
}

func (r *FavoriteRepository) Delete(ctx context.Context, userID, tourID uint) (bool, error) {
	removed, err := r.dao.Delete(ctx, userID, tourID)
	if err != nil {
		return false, fmt.Errorf("r.dao.Delete -> %w", err)
	}

	return removed, nil
}

func (r *FavoriteRepository) FindByUser(ctx context.Context, userID uint) ([]domain.Favorite, error) {
	found, err := r.dao.FindByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindByUser -> %w", err)
	}

	favorites := make([]domain.Favorite, 0, len(found))
	for _, f := range found {
		favorites = append(favorites, favoriteDaoToDomain(f))
	}

	return favorites, nil
}

func (r *FavoriteRepository) FindTourIDs(ctx context.Context, userID uint) ([]uint, error) {
	ids, err := r.dao.FindTourIDsByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindTourIDsByUser -> %w", err)
	}

	return ids, nil
}

func (r *FavoriteRepository) List(ctx context.Context, search string, offset, limit int) ([]domain.Favorite, int64, error) {
	found, total, err := r.dao.ListForAdmin(ctx, search, offset, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("r.dao.ListForAdmin -> %w", err)
	}

	favorites := make([]domain.Favorite, 0, len(found))
	for _, f := range found {
		favorites = append(favorites, favoriteDaoToDomain(f))
	}

	return favorites, total, nil
}

func favoriteDaoToDomain(f dao.Favorite) domain.Favorite {
	return domain.Favorite{
		ID:        f.ID,
		UserID:    f.UserID,
		Username:  f.User.Username,
		TourID:    f.TourID,
		Tour:      tourDaoToDomain(f.Tour),
		CreatedAt: f.CreatedAt,
	}
}
