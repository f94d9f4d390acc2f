package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/voyage-tours/voyage/internal/domain"
)

var ErrEmptyCart = errors.New("cart is empty")

type CartRepository interface {
	WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error
	GetOrCreateItem(ctx context.Context, userID, tourID uint) (domain.CartItem, bool, error)
	IncrementItemQuantity(ctx context.Context, id uint) error
	DeleteItem(ctx context.Context, userID, tourID uint) error
	ClearCart(ctx context.Context, userID uint) error
	FindItems(ctx context.Context, userID uint) ([]domain.CartItem, error)
	GetOrCreatePayment(ctx context.Context, userID, tourID uint, defaults domain.Payment) (domain.Payment, bool, error)
	UpdatePayment(ctx context.Context, payment domain.Payment) (domain.Payment, error)
	FindPayments(ctx context.Context, userID uint, status domain.PaymentStatus) ([]domain.Payment, error)
}

type TourFinder interface {
	FindTourByID(ctx context.Context, id uint) (domain.Tour, error)
}

type CartService struct {
	repo  CartRepository
	tours TourFinder
}

func NewCartService(repo CartRepository, tours TourFinder) *CartService {
	return &CartService{
		repo:  repo,
		tours: tours,
	}
}

// AddToCart puts one more seat of the tour into the user's cart. It returns
// the tour so callers can name it.
func (s *CartService) AddToCart(ctx context.Context, userID, tourID uint) (domain.Tour, error) {
	tour, err := s.tours.FindTourByID(ctx, tourID)
	if err != nil {
		return domain.Tour{}, fmt.Errorf("s.tours.FindTourByID -> %w", err)
	}

	err = s.repo.WithinTransaction(ctx, func(ctx context.Context) error {
		item, created, err := s.repo.GetOrCreateItem(ctx, userID, tour.ID)
		if err != nil {
			return fmt.Errorf("s.repo.GetOrCreateItem -> %w", err)
		}
		if created {
			return nil
		}

		if err = s.repo.IncrementItemQuantity(ctx, item.ID); err != nil {
			return fmt.Errorf("s.repo.IncrementItemQuantity -> %w", err)
		}

		return nil
	})
	if err != nil {
		return domain.Tour{}, err
	}

	return tour, nil
}

// RemoveFromCart drops the tour from the cart; a tour that is not in the cart
// is not an error.
func (s *CartService) RemoveFromCart(ctx context.Context, userID, tourID uint) (domain.Tour, error) {
	tour, err := s.tours.FindTourByID(ctx, tourID)
	if err != nil {
		return domain.Tour{}, fmt.Errorf("s.tours.FindTourByID -> %w", err)
	}

	if err = s.repo.DeleteItem(ctx, userID, tour.ID); err != nil {
		return domain.Tour{}, fmt.Errorf("s.repo.DeleteItem -> %w", err)
	}

	return tour, nil
}

func (s *CartService) GetCart(ctx context.Context, userID uint) (domain.Cart, error) {
	items, err := s.repo.FindItems(ctx, userID)
	if err != nil {
		return domain.Cart{}, fmt.Errorf("s.repo.FindItems -> %w", err)
	}

	return domain.Cart{Items: items}, nil
}

// Checkout turns every cart item into a paid payment for its (user, tour)
// pair and empties the cart, all in one transaction. Buying a tour that was
// already paid for adds to the existing payment's amount. An empty cart
// yields ErrEmptyCart and changes nothing.
func (s *CartService) Checkout(ctx context.Context, userID uint) ([]domain.Payment, error) {
	var payments []domain.Payment

	err := s.repo.WithinTransaction(ctx, func(ctx context.Context) error {
		items, err := s.repo.FindItems(ctx, userID)
		if err != nil {
			return fmt.Errorf("s.repo.FindItems -> %w", err)
		}
		if len(items) == 0 {
			return ErrEmptyCart
		}

		payments = make([]domain.Payment, 0, len(items))
		for _, item := range items {
			amount := item.Subtotal()

			payment, created, err := s.repo.GetOrCreatePayment(ctx, userID, item.TourID, domain.Payment{
				Amount: amount,
				Status: domain.PaymentPaid,
			})
			if err != nil {
				return fmt.Errorf("s.repo.GetOrCreatePayment -> %w", err)
			}

			if !created {
				payment.Accumulate(amount)
				if payment, err = s.repo.UpdatePayment(ctx, payment); err != nil {
					return fmt.Errorf("s.repo.UpdatePayment -> %w", err)
				}
			}

			payments = append(payments, payment)
		}

		if err = s.repo.ClearCart(ctx, userID); err != nil {
			return fmt.Errorf("s.repo.ClearCart -> %w", err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return payments, nil
}

// Tickets lists the user's paid payments.
func (s *CartService) Tickets(ctx context.Context, userID uint) ([]domain.Payment, error) {
	payments, err := s.repo.FindPayments(ctx, userID, domain.PaymentPaid)
	if err != nil {
		return nil, fmt.Errorf("s.repo.FindPayments -> %w", err)
	}

	return payments, nil
}
