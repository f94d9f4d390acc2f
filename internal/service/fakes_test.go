package service

import (
	"context"
	"sort"
	"sync"

	"github.com/voyage-tours/voyage/internal/domain"
	"github.com/voyage-tours/voyage/internal/repository"
)

type pairKey struct {
	userID uint
	tourID uint
}

type fakeTours struct {
	tours map[uint]domain.Tour
}

func newFakeTours(tours ...domain.Tour) *fakeTours {
	f := &fakeTours{tours: make(map[uint]domain.Tour)}
	for _, t := range tours {
		f.tours[t.ID] = t
	}

	return f
}

func (f *fakeTours) FindTourByID(_ context.Context, id uint) (domain.Tour, error) {
	tour, ok := f.tours[id]
	if !ok {
		return domain.Tour{}, repository.ErrTourNotFound
	}

	return tour, nil
}

// fakeCartRepo keeps cart items and payments in maps. WithinTransaction
// snapshots both and restores them when fn fails.
type fakeCartRepo struct {
	tours    *fakeTours
	items    map[pairKey]domain.CartItem
	payments map[pairKey]domain.Payment
	nextID   uint

	failUpdatePayment error
}

func newFakeCartRepo(tours *fakeTours) *fakeCartRepo {
	return &fakeCartRepo{
		tours:    tours,
		items:    make(map[pairKey]domain.CartItem),
		payments: make(map[pairKey]domain.Payment),
	}
}

func (f *fakeCartRepo) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	items := make(map[pairKey]domain.CartItem, len(f.items))
	for k, v := range f.items {
		items[k] = v
	}
	payments := make(map[pairKey]domain.Payment, len(f.payments))
	for k, v := range f.payments {
		payments[k] = v
	}

	if err := fn(ctx); err != nil {
		f.items = items
		f.payments = payments

		return err
	}

	return nil
}

func (f *fakeCartRepo) GetOrCreateItem(_ context.Context, userID, tourID uint) (domain.CartItem, bool, error) {
	key := pairKey{userID, tourID}
	if item, ok := f.items[key]; ok {
		return item, false, nil
	}

	f.nextID++
	item := domain.CartItem{ID: f.nextID, UserID: userID, TourID: tourID, Quantity: 1}
	f.items[key] = item

	return item, true, nil
}

func (f *fakeCartRepo) IncrementItemQuantity(_ context.Context, id uint) error {
	for k, item := range f.items {
		if item.ID == id {
			item.Quantity++
			f.items[k] = item

			return nil
		}
	}

	return repository.ErrCartItemNotFound
}

func (f *fakeCartRepo) DeleteItem(_ context.Context, userID, tourID uint) error {
	delete(f.items, pairKey{userID, tourID})
	return nil
}

func (f *fakeCartRepo) ClearCart(_ context.Context, userID uint) error {
	for k := range f.items {
		if k.userID == userID {
			delete(f.items, k)
		}
	}

	return nil
}

func (f *fakeCartRepo) FindItems(_ context.Context, userID uint) ([]domain.CartItem, error) {
	var items []domain.CartItem
	for k, item := range f.items {
		if k.userID == userID {
			item.Tour = f.tours.tours[item.TourID]
			items = append(items, item)
		}
	}
	sort.Slice(items, func(i, j int) bool { return items[i].ID < items[j].ID })

	return items, nil
}

func (f *fakeCartRepo) GetOrCreatePayment(_ context.Context, userID, tourID uint, defaults domain.Payment) (domain.Payment, bool, error) {
	key := pairKey{userID, tourID}
	if payment, ok := f.payments[key]; ok {
		return payment, false, nil
	}

	f.nextID++
	payment := defaults
	payment.ID = f.nextID
	payment.UserID = userID
	payment.TourID = tourID
	f.payments[key] = payment

	return payment, true, nil
}

func (f *fakeCartRepo) UpdatePayment(_ context.Context, payment domain.Payment) (domain.Payment, error) {
	if f.failUpdatePayment != nil {
		return domain.Payment{}, f.failUpdatePayment
	}

	key := pairKey{payment.UserID, payment.TourID}
	if _, ok := f.payments[key]; !ok {
		return domain.Payment{}, repository.ErrPaymentNotFound
	}
	f.payments[key] = payment

	return payment, nil
}

func (f *fakeCartRepo) FindPayments(_ context.Context, userID uint, status domain.PaymentStatus) ([]domain.Payment, error) {
	var payments []domain.Payment
	for k, p := range f.payments {
		if k.userID == userID && p.Status == status {
			payments = append(payments, p)
		}
	}

	return payments, nil
}

type fakeFavoriteRepo struct {
	favorites map[pairKey]domain.Favorite
	nextID    uint
}

func newFakeFavoriteRepo() *fakeFavoriteRepo {
	return &fakeFavoriteRepo{favorites: make(map[pairKey]domain.Favorite)}
}

func (f *fakeFavoriteRepo) GetOrCreate(_ context.Context, userID, tourID uint) (domain.Favorite, bool, error) {
	key := pairKey{userID, tourID}
	if fav, ok := f.favorites[key]; ok {
		return fav, false, nil
	}

	f.nextID++
	fav := domain.Favorite{ID: f.nextID, UserID: userID, TourID: tourID}
	f.favorites[key] = fav

	return fav, true, nil
}

func (f *fakeFavoriteRepo) Delete(_ context.Context, userID, tourID uint) (bool, error) {
	key := pairKey{userID, tourID}
	if _, ok := f.favorites[key]; !ok {
		return false, nil
	}
	delete(f.favorites, key)

	return true, nil
}

func (f *fakeFavoriteRepo) FindByUser(_ context.Context, userID uint) ([]domain.Favorite, error) {
	var favorites []domain.Favorite
	for k, fav := range f.favorites {
		if k.userID == userID {
			favorites = append(favorites, fav)
		}
	}

	return favorites, nil
}

func (f *fakeFavoriteRepo) FindTourIDs(_ context.Context, userID uint) ([]uint, error) {
	var ids []uint
	for k := range f.favorites {
		if k.userID == userID {
			ids = append(ids, k.tourID)
		}
	}

	return ids, nil
}

type fakeFiles struct {
	mu      sync.Mutex
	deleted []string
}

func (f *fakeFiles) Delete(name string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, name)

	return nil
}
