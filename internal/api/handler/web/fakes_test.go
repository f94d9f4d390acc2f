package web

import (
	"context"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/voyage-tours/voyage/internal/api/middleware"
	"github.com/voyage-tours/voyage/internal/domain"
	"github.com/voyage-tours/voyage/internal/pkg/jwthelper"
	"github.com/voyage-tours/voyage/internal/service"
)

const (
	testKey       = "test-signing-key"
	testUserAgent = "web-test"

	loginBurst = 5
)

var (
	alice = domain.User{ID: 1, Username: "alice"}

	paris = domain.Tour{ID: 10, Title: "Paris Lights", Country: "France", Price: decimal.NewFromInt(100)}
	tokyo = domain.Tour{ID: 11, Title: "Tokyo Nights", Country: "Japan", Price: decimal.RequireFromString("49.50")}
)

type fakeUsers map[uint]domain.User

func (f fakeUsers) GetUser(_ context.Context, id uint) (domain.User, error) {
	u, ok := f[id]
	if !ok {
		return domain.User{}, service.ErrUserNotFound
	}
	return u, nil
}

type fakeCatalog struct {
	tours     map[uint]domain.Tour
	favorites map[uint][]uint
	lastPage  string
	filter    domain.TourFilter
}

func (f *fakeCatalog) ListTours(_ context.Context, filter domain.TourFilter, rawPage string) (domain.Page[domain.Tour], error) {
	f.filter, f.lastPage = filter, rawPage
	items := []domain.Tour{paris, tokyo}

	return domain.Page[domain.Tour]{Items: items, Number: 1, NumPages: 2, Total: 7}, nil
}

func (f *fakeCatalog) AllTours(context.Context) ([]domain.Tour, error) {
	return []domain.Tour{paris, tokyo}, nil
}

func (f *fakeCatalog) GetTour(_ context.Context, id uint) (domain.Tour, error) {
	t, ok := f.tours[id]
	if !ok {
		return domain.Tour{}, service.ErrTourNotFound
	}
	return t, nil
}

func (f *fakeCatalog) Categories(context.Context) ([]domain.Category, error) {
	return []domain.Category{{ID: 1, Name: "City", Slug: "city"}}, nil
}

func (f *fakeCatalog) FavoriteSet(_ context.Context, userID uint) (domain.FavoriteSet, error) {
	return domain.NewFavoriteSet(f.favorites[userID]), nil
}

type fakeComments struct {
	added []domain.Comment
}

func (f *fakeComments) AddComment(_ context.Context, c domain.Comment) (domain.Comment, error) {
	c.ID = uint(len(f.added) + 1)
	c.CreatedAt = time.Now()
	f.added = append(f.added, c)
	return c, nil
}

func (f *fakeComments) ListComments(_ context.Context, tourID uint) ([]domain.Comment, error) {
	var out []domain.Comment
	for _, c := range f.added {
		if c.TourID == tourID {
			out = append(out, c)
		}
	}
	return out, nil
}

type fakeCart struct {
	tours    map[uint]domain.Tour
	items    map[uint]int
	checkout int
}

func (f *fakeCart) AddToCart(_ context.Context, _, tourID uint) (domain.Tour, error) {
	t, ok := f.tours[tourID]
	if !ok {
		return domain.Tour{}, service.ErrTourNotFound
	}
	f.items[tourID]++
	return t, nil
}

func (f *fakeCart) RemoveFromCart(_ context.Context, _, tourID uint) (domain.Tour, error) {
	t, ok := f.tours[tourID]
	if !ok {
		return domain.Tour{}, service.ErrTourNotFound
	}
	delete(f.items, tourID)
	return t, nil
}

func (f *fakeCart) GetCart(context.Context, uint) (domain.Cart, error) {
	var cart domain.Cart
	for id, qty := range f.items {
		cart.Items = append(cart.Items, domain.CartItem{TourID: id, Tour: f.tours[id], Quantity: qty})
	}
	return cart, nil
}

func (f *fakeCart) Checkout(context.Context, uint) ([]domain.Payment, error) {
	if len(f.items) == 0 {
		return nil, service.ErrEmptyCart
	}
	f.checkout++
	payments := make([]domain.Payment, 0, len(f.items))
	for id := range f.items {
		payments = append(payments, domain.Payment{TourID: id, Status: domain.PaymentPaid})
	}
	f.items = map[uint]int{}
	return payments, nil
}

func (f *fakeCart) Tickets(context.Context, uint) ([]domain.Payment, error) {
	return []domain.Payment{{ID: 1, Tour: paris, Amount: decimal.NewFromInt(200), Status: domain.PaymentPaid}}, nil
}

type fakeFavorites struct {
	tours map[uint]domain.Tour
	set   map[uint]bool
}

func (f *fakeFavorites) Toggle(_ context.Context, _, tourID uint) (domain.Tour, bool, error) {
	t, ok := f.tours[tourID]
	if !ok {
		return domain.Tour{}, false, service.ErrTourNotFound
	}
	f.set[tourID] = !f.set[tourID]
	return t, f.set[tourID], nil
}

func (f *fakeFavorites) Remove(_ context.Context, _, tourID uint) (domain.Tour, bool, error) {
	t, ok := f.tours[tourID]
	if !ok {
		return domain.Tour{}, false, service.ErrTourNotFound
	}
	was := f.set[tourID]
	delete(f.set, tourID)
	return t, was, nil
}

func (f *fakeFavorites) List(context.Context, uint) ([]domain.Favorite, error) {
	var out []domain.Favorite
	for id, on := range f.set {
		if on {
			out = append(out, domain.Favorite{TourID: id, Tour: f.tours[id]})
		}
	}
	return out, nil
}

type fakeProfiles struct {
	profile domain.Profile
	updates []domain.ProfileUpdate
}

func (f *fakeProfiles) GetProfile(context.Context, uint) (domain.Profile, error) {
	return f.profile, nil
}

func (f *fakeProfiles) UpdateProfile(_ context.Context, _ uint, u domain.ProfileUpdate) (domain.Profile, error) {
	f.updates = append(f.updates, u)
	f.profile = f.profile.Apply(u)
	return f.profile, nil
}

type fakeStore struct {
	saved   []string
	deleted []string
}

func (f *fakeStore) SaveImage(fh *multipart.FileHeader, dir string) (string, error) {
	name := dir + "/" + fh.Filename
	f.saved = append(f.saved, name)
	return name, nil
}

func (f *fakeStore) Delete(name string) error {
	f.deleted = append(f.deleted, name)
	return nil
}

func (f *fakeStore) URL(name string) string {
	return "/media/" + name
}

type fakeAuth struct {
	users map[string]string
}

func (f *fakeAuth) Signup(_ context.Context, u domain.User) (domain.User, error) {
	if _, ok := f.users[u.Username]; ok {
		return domain.User{}, service.ErrUsernameExists
	}
	f.users[u.Username] = u.Password
	u.ID = alice.ID
	return u, nil
}

func (f *fakeAuth) Login(_ context.Context, username, password string) (domain.User, error) {
	stored, ok := f.users[username]
	if !ok {
		return domain.User{}, service.ErrUserNotFound
	}
	if stored != password {
		return domain.User{}, service.ErrWrongPassword
	}
	return domain.User{ID: alice.ID, Username: username}, nil
}

// testSite wires every web handler against in-memory fakes the same way the
// server does.
type testSite struct {
	router    *gin.Engine
	catalog   *fakeCatalog
	comments  *fakeComments
	cart      *fakeCart
	favorites *fakeFavorites
	profiles  *fakeProfiles
	store     *fakeStore
	auth      *fakeAuth
	hub       *CommentHub

	loginLimits *middleware.RateLimiter
}

func newTestSite(t *testing.T) *testSite {
	t.Helper()
	gin.SetMode(gin.TestMode)

	tours := map[uint]domain.Tour{paris.ID: paris, tokyo.ID: tokyo}
	site := &testSite{
		catalog:   &fakeCatalog{tours: tours, favorites: map[uint][]uint{alice.ID: {paris.ID}}},
		comments:  &fakeComments{},
		cart:      &fakeCart{tours: tours, items: map[uint]int{}},
		favorites: &fakeFavorites{tours: tours, set: map[uint]bool{}},
		profiles:  &fakeProfiles{profile: domain.Profile{ID: 1, UserID: alice.ID}},
		store:     &fakeStore{},
		auth:      &fakeAuth{users: map[string]string{"alice": "secret123"}},
		hub:       NewCommentHub(),

		loginLimits: middleware.NewRateLimiter(loginBurst),
	}
	t.Cleanup(site.loginLimits.Stop)

	r := gin.New()
	require.NoError(t, r.SetTrustedProxies(nil))
	r.SetHTMLTemplate(Templates(site.store))
	r.Use(middleware.NewAuthenticator(testKey, fakeUsers{alice.ID: alice}).Identify())

	catalog := NewCatalogHandler(site.catalog, site.comments)
	carts := NewCartHandler(site.cart)
	favorites := NewFavoriteHandler(site.favorites)
	profiles := NewProfileHandler(site.profiles, site.favorites, site.store)
	accounts := NewAccountHandler(site.auth, testKey, time.Hour)
	getPost := []string{http.MethodGet, http.MethodPost}

	r.GET("/", catalog.HandleIndex)
	r.GET("/catalog/", catalog.HandleCatalog)
	r.Match(getPost, "/tour/:id/", catalog.HandleTourDetail)
	r.GET("/tour/:id/comments/ws", site.hub.HandleComments)
	r.Match(getPost, "/accounts/register/", accounts.HandleRegister)
	r.GET("/accounts/login/", accounts.HandleLogin)
	r.POST("/accounts/login/", middleware.RateLimit(site.loginLimits, HandleLoginRateLimited), accounts.HandleLogin)
	r.Match(getPost, "/accounts/logout/", accounts.HandleLogout)

	private := r.Group("/", middleware.RequireLogin())
	private.GET("/cart/", carts.HandleCart)
	private.Match(getPost, "/cart/add/:id/", carts.HandleAdd)
	private.Match(getPost, "/cart/remove/:id/", carts.HandleRemove)
	private.Match(getPost, "/checkout/", carts.HandleCheckout)
	private.GET("/tickets/", carts.HandleTickets)
	private.GET("/favorites/", favorites.HandleFavorites)
	private.Match(getPost, "/favorites/add/:id/", favorites.HandleToggle)
	private.Match(getPost, "/favorites/remove/:id/", favorites.HandleRemove)
	private.Match(getPost, "/profile/", profiles.HandleProfile)

	site.router = r

	return site
}

type requestOption func(*http.Request)

func asAlice(t *testing.T) requestOption {
	token, err := jwthelper.GenerateToken([]byte(testKey), alice.ID, testUserAgent, time.Hour)
	require.NoError(t, err)

	return func(req *http.Request) {
		req.AddCookie(&http.Cookie{Name: middleware.SessionCookie, Value: token})
	}
}

func withReferer(ref string) requestOption {
	return func(req *http.Request) {
		req.Header.Set("Referer", ref)
	}
}

func fromAddr(addr string) requestOption {
	return func(req *http.Request) {
		req.RemoteAddr = addr
	}
}

func withCookies(cookies []*http.Cookie) requestOption {
	return func(req *http.Request) {
		for _, c := range cookies {
			req.AddCookie(c)
		}
	}
}

func (s *testSite) do(method, target string, form url.Values, opts ...requestOption) *httptest.ResponseRecorder {
	var req *http.Request
	if form != nil {
		req = httptest.NewRequest(method, target, strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	req.Header.Set("User-Agent", testUserAgent)
	for _, opt := range opts {
		opt(req)
	}

	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	return w
}

func cookieNamed(w *httptest.ResponseRecorder, name string) *http.Cookie {
	var found *http.Cookie
	for _, c := range w.Result().Cookies() {
		if c.Name == name {
			found = c
		}
	}

	return found
}
