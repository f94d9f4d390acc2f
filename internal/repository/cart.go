package repository

import (
	"context"
	"fmt"

	"github.com/voyage-tours/voyage/internal/domain"
	"github.com/voyage-tours/voyage/internal/repository/dao"
)

var (
	ErrCartItemNotFound = dao.ErrCartItemNotFound
	ErrPaymentNotFound  = dao.ErrPaymentNotFound
)

type CartDAO interface {
	FirstOrCreate(ctx context.Context, userID, tourID uint) (dao.CartItem, bool, error)
	IncrementQuantity(ctx context.Context, id uint) error
	Delete(ctx context.Context, userID, tourID uint) error
	DeleteByUser(ctx context.Context, userID uint) error
	FindByUser(ctx context.Context, userID uint) ([]dao.CartItem, error)
	ListForAdmin(ctx context.Context, search string, offset, limit int) ([]dao.CartItem, int64, error)
}

type PaymentDAO interface {
	FirstOrCreate(ctx context.Context, userID, tourID uint, defaults dao.Payment) (dao.Payment, bool, error)
	Update(ctx context.Context, payment dao.Payment) (dao.Payment, error)
	FindByUserAndStatus(ctx context.Context, userID uint, status string) ([]dao.Payment, error)
	ListForAdmin(ctx context.Context, search string, offset, limit int) ([]dao.Payment, int64, error)
}

type Transactor interface {
	WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// CartRepository covers cart items and the payments they turn into.
type CartRepository struct {
	cartDao    CartDAO
	paymentDao PaymentDAO
	tx         Transactor
}

func NewCartRepository(cartDao CartDAO, paymentDao PaymentDAO, tx Transactor) *CartRepository {
	return &CartRepository{
		cartDao:    cartDao,
		paymentDao: paymentDao,
		tx:         tx,
	}
}

func (r *CartRepository) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return r.tx.WithinTransaction(ctx, fn)
}

func (r *CartRepository) GetOrCreateItem(ctx context.Context, userID, tourID uint) (domain.CartItem, bool, error) {
	item, created, err := r.cartDao.FirstOrCreate(ctx, userID, tourID)
	if err != nil {
		return domain.CartItem{}, false, fmt.Errorf("r.cartDao.FirstOrCreate -> %w", err)
	}

	return cartItemDaoToDomain(item), created, nil
}

func (r *CartRepository) IncrementItemQuantity(ctx context.Context, id uint) error {
	if err := r.cartDao.IncrementQuantity(ctx, id); err != nil {
		return fmt.Errorf("r.cartDao.IncrementQuantity -> %w", err)
	}

	return nil
}

func (r *CartRepository) DeleteItem(ctx context.Context, userID, tourID uint) error {
	if err := r.cartDao.Delete(ctx, userID, tourID); err != nil {
		return fmt.Errorf("r.cartDao.Delete -> %w", err)
	}

	return nil
}

func (r *CartRepository) ClearCart(ctx context.Context, userID uint) error {
	if err := r.cartDao.DeleteByUser(ctx, userID); err != nil {
		return fmt.Errorf("r.cartDao.DeleteByUser -> %w", err)
	}

	return nil
}

func (r *CartRepository) FindItems(ctx context.Context, userID uint) ([]domain.CartItem, error) {
	found, err := r.cartDao.FindByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("r.cartDao.FindByUser -> %w", err)
	}

	items := make([]domain.CartItem, 0, len(found))
	for _, i := range found {
		items = append(items, cartItemDaoToDomain(i))
	}

	return items, nil
}

func (r *CartRepository) ListItems(ctx context.Context, search string, offset, limit int) ([]domain.CartItem, int64, error) {
	found, total, err := r.cartDao.ListForAdmin(ctx, search, offset, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("r.cartDao.ListForAdmin -> %w", err)
	}

	items := make([]domain.CartItem, 0, len(found))
	for _, i := range found {
		items = append(items, cartItemDaoToDomain(i))
	}

	return items, total, nil
}

// GetOrCreatePayment returns the (user, tour) payment, creating it from
// defaults when there is none.
func (r *CartRepository) GetOrCreatePayment(ctx context.Context, userID, tourID uint, defaults domain.Payment) (domain.Payment, bool, error) {
	payment, created, err := r.paymentDao.FirstOrCreate(ctx, userID, tourID, dao.Payment{
		Amount: defaults.Amount,
		Status: string(defaults.Status),
	})
	if err != nil {
		return domain.Payment{}, false, fmt.Errorf("r.paymentDao.FirstOrCreate -> %w", err)
	}

	return paymentDaoToDomain(payment), created, nil
}

func (r *CartRepository) UpdatePayment(ctx context.Context, payment domain.Payment) (domain.Payment, error) {
	updated, err := r.paymentDao.Update(ctx, dao.Payment{
		ID:        payment.ID,
		UserID:    payment.UserID,
		TourID:    payment.TourID,
		Amount:    payment.Amount,
		Status:    string(payment.Status),
		CreatedAt: payment.CreatedAt,
	})
	if err != nil {
		return domain.Payment{}, fmt.Errorf("r.paymentDao.Update -> %w", err)
	}

	return paymentDaoToDomain(updated), nil
}

func (r *CartRepository) FindPayments(ctx context.Context, userID uint, status domain.PaymentStatus) ([]domain.Payment, error) {
	found, err := r.paymentDao.FindByUserAndStatus(ctx, userID, string(status))
	if err != nil {
		return nil, fmt.Errorf("r.paymentDao.FindByUserAndStatus -> %w", err)
	}

	payments := make([]domain.Payment, 0, len(found))
	for _, p := range found {
		payments = append(payments, paymentDaoToDomain(p))
	}

	return payments, nil
}

func (r *CartRepository) ListPayments(ctx context.Context, search string, offset, limit int) ([]domain.Payment, int64, error) {
	found, total, err := r.paymentDao.ListForAdmin(ctx, search, offset, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("r.paymentDao.ListForAdmin -> %w", err)
	}

	payments := make([]domain.Payment, 0, len(found))
	for _, p := range found {
		payments = append(payments, paymentDaoToDomain(p))
	}

	return payments, total, nil
}

func cartItemDaoToDomain(i dao.CartItem) domain.CartItem {
	return domain.CartItem{
		ID:       i.ID,
		UserID:   i.UserID,
		Username: i.User.Username,
		TourID:   i.TourID,
		Tour:     tourDaoToDomain(i.Tour),
		Quantity: i.Quantity,
		AddedAt:  i.AddedAt,
	}
}

func paymentDaoToDomain(p dao.Payment) domain.Payment {
	return domain.Payment{
		ID:        p.ID,
		UserID:    p.UserID,
		Username:  p.User.Username,
		TourID:    p.TourID,
		Tour:      tourDaoToDomain(p.Tour),
		Amount:    p.Amount,
		Status:    domain.PaymentStatus(p.Status),
		CreatedAt: p.CreatedAt,
	}
}
