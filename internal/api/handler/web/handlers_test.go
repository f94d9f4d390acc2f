package web

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/voyage-tours/voyage/internal/api/middleware"
)

func TestAnonymousIsSentToLogin(t *testing.T) {
	site := newTestSite(t)

	for _, path := range []string{"/cart/", "/cart/add/10/", "/checkout/", "/tickets/", "/favorites/", "/profile/"} {
		t.Run(path, func(t *testing.T) {
			w := site.do(http.MethodGet, path, nil)

			assert.Equal(t, http.StatusFound, w.Code)
			assert.Equal(t, "/accounts/login/?next="+url.QueryEscape(path), w.Header().Get("Location"))
		})
	}

	assert.Empty(t, site.cart.items)
}

func TestIndexMarksFavorites(t *testing.T) {
	site := newTestSite(t)

	w := site.do(http.MethodGet, "/", nil, asAlice(t))
	require.Equal(t, http.StatusOK, w.Code)

	body := w.Body.String()
	assert.Contains(t, body, "Paris Lights")
	assert.Contains(t, body, "Tokyo Nights")
	assert.Contains(t, body, "alice")
	assert.Equal(t, 1, bytes.Count(w.Body.Bytes(), []byte("Remove from favorites")))
}

func TestCatalogPassesFilters(t *testing.T) {
	site := newTestSite(t)

	w := site.do(http.MethodGet, "/catalog/?q=Paris&continent=Europe&page=abc", nil)
	require.Equal(t, http.StatusOK, w.Code)

	assert.Equal(t, "Paris", site.catalog.filter.Query)
	assert.Equal(t, "Europe", site.catalog.filter.Continent)
	assert.Equal(t, "abc", site.catalog.lastPage)

	body := w.Body.String()
	assert.Contains(t, body, "page=2")
	assert.Contains(t, body, "q=Paris")
	assert.NotContains(t, body, "Add to cart")
}

func TestAddToCart(t *testing.T) {
	site := newTestSite(t)

	t.Run("same-site referer", func(t *testing.T) {
		w := site.do(http.MethodGet, "/cart/add/10/", nil, asAlice(t), withReferer("http://example.com/catalog/?page=2"))

		assert.Equal(t, http.StatusFound, w.Code)
		assert.Equal(t, "/catalog/?page=2", w.Header().Get("Location"))
		require.NotNil(t, cookieNamed(w, flashCookie))

		next := site.do(http.MethodGet, "/cart/", nil, asAlice(t), withCookies([]*http.Cookie{cookieNamed(w, flashCookie)}))
		require.Equal(t, http.StatusOK, next.Code)
		assert.Contains(t, next.Body.String(), "Paris Lights added to cart")
		assert.Contains(t, next.Body.String(), "100.00")

		cleared := cookieNamed(next, flashCookie)
		require.NotNil(t, cleared)
		assert.Negative(t, cleared.MaxAge)
	})

	t.Run("foreign referer falls back to index", func(t *testing.T) {
		w := site.do(http.MethodPost, "/cart/add/10/", url.Values{}, asAlice(t), withReferer("https://evil.test/phish"))

		assert.Equal(t, http.StatusFound, w.Code)
		assert.Equal(t, "/", w.Header().Get("Location"))
		assert.Equal(t, 2, site.cart.items[paris.ID])
	})

	t.Run("unknown tour", func(t *testing.T) {
		w := site.do(http.MethodGet, "/cart/add/999/", nil, asAlice(t))
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("malformed id", func(t *testing.T) {
		w := site.do(http.MethodGet, "/cart/add/abc/", nil, asAlice(t))
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestRemoveFromCartRedirectsToCart(t *testing.T) {
	site := newTestSite(t)
	site.cart.items[tokyo.ID] = 1

	w := site.do(http.MethodGet, "/cart/remove/11/", nil, asAlice(t), withReferer("http://example.com/"))

	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/cart/", w.Header().Get("Location"))
	assert.Empty(t, site.cart.items)
}

func TestCheckout(t *testing.T) {
	site := newTestSite(t)

	w := site.do(http.MethodPost, "/checkout/", url.Values{}, asAlice(t))
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/cart/", w.Header().Get("Location"))
	assert.Zero(t, site.cart.checkout)

	site.cart.items[paris.ID] = 2
	w = site.do(http.MethodPost, "/checkout/", url.Values{}, asAlice(t))
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/tickets/", w.Header().Get("Location"))
	assert.Equal(t, 1, site.cart.checkout)
	assert.Empty(t, site.cart.items)

	tickets := site.do(http.MethodGet, "/tickets/", nil, asAlice(t))
	require.Equal(t, http.StatusOK, tickets.Code)
	assert.Contains(t, tickets.Body.String(), "200.00")
}

func TestFavoriteToggleAndRemove(t *testing.T) {
	site := newTestSite(t)

	w := site.do(http.MethodGet, "/favorites/add/10/", nil, asAlice(t))
	assert.Equal(t, "/catalog/", w.Header().Get("Location"))
	assert.True(t, site.favorites.set[paris.ID])
	assert.Equal(t, FlashSuccess, readFlashes(t, w)[0].Level)

	w = site.do(http.MethodGet, "/favorites/add/10/", nil, asAlice(t), withReferer("/tour/10/"))
	assert.Equal(t, "/tour/10/", w.Header().Get("Location"))
	assert.False(t, site.favorites.set[paris.ID])
	assert.Equal(t, FlashInfo, readFlashes(t, w)[0].Level)

	w = site.do(http.MethodGet, "/favorites/remove/10/", nil, asAlice(t))
	assert.Equal(t, "/favorites/", w.Header().Get("Location"))
	assert.Equal(t, FlashInfo, readFlashes(t, w)[0].Level)

	site.favorites.set[tokyo.ID] = true
	w = site.do(http.MethodGet, "/favorites/remove/11/", nil, asAlice(t))
	assert.Equal(t, FlashSuccess, readFlashes(t, w)[0].Level)
	assert.NotContains(t, site.favorites.set, tokyo.ID)
}

func readFlashes(t *testing.T, w *httptest.ResponseRecorder) []Flash {
	t.Helper()

	c := cookieNamed(w, flashCookie)
	require.NotNil(t, c)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(c)
	rec := httptest.NewRecorder()
	ctx, _ := ginTestContext(rec, req)

	flashes := readFlashCookie(ctx)
	require.NotEmpty(t, flashes)

	return flashes
}

func TestTourDetail(t *testing.T) {
	site := newTestSite(t)

	t.Run("missing tour", func(t *testing.T) {
		w := site.do(http.MethodGet, "/tour/404/", nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Contains(t, w.Body.String(), "Not found")
	})

	t.Run("anonymous comment is refused", func(t *testing.T) {
		w := site.do(http.MethodPost, "/tour/10/", url.Values{"text": {"hello"}})
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "You need to log in to leave comments!")
		assert.Empty(t, site.comments.added)
	})

	t.Run("empty comment re-renders", func(t *testing.T) {
		w := site.do(http.MethodPost, "/tour/10/", url.Values{"text": {"  "}}, asAlice(t))
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "write something first")
		assert.Empty(t, site.comments.added)
	})

	t.Run("comment is saved", func(t *testing.T) {
		w := site.do(http.MethodPost, "/tour/10/", url.Values{"text": {"Loved it"}}, asAlice(t))
		assert.Equal(t, http.StatusFound, w.Code)
		assert.Equal(t, "/tour/10/", w.Header().Get("Location"))
		require.Len(t, site.comments.added, 1)
		assert.Equal(t, alice.ID, site.comments.added[0].UserID)

		page := site.do(http.MethodGet, "/tour/10/", nil, asAlice(t))
		assert.Contains(t, page.Body.String(), "Loved it")
	})
}

func TestProfileUpdate(t *testing.T) {
	site := newTestSite(t)

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	require.NoError(t, mw.WriteField("fio", "Alice Liddell"))
	require.NoError(t, mw.WriteField("age", "30"))
	require.NoError(t, mw.WriteField("license", "on"))
	fw, err := mw.CreateFormFile("photo", "me.png")
	require.NoError(t, err)
	_, err = fw.Write([]byte("fake image bytes"))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/profile/", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("User-Agent", testUserAgent)
	asAlice(t)(req)

	w := httptest.NewRecorder()
	site.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/profile/", w.Header().Get("Location"))
	assert.Equal(t, []string{"profile_photos/me.png"}, site.store.saved)

	p := site.profiles.profile
	assert.Equal(t, "Alice Liddell", p.FIO)
	require.NotNil(t, p.Age)
	assert.Equal(t, 30, *p.Age)
	assert.True(t, p.License)
	assert.False(t, p.Married)
	assert.Equal(t, "profile_photos/me.png", p.Photo)

	t.Run("invalid age keeps the profile", func(t *testing.T) {
		w := site.do(http.MethodPost, "/profile/", url.Values{"age": {"200"}}, asAlice(t))
		require.Equal(t, http.StatusOK, w.Code)
		assert.Len(t, site.profiles.updates, 1)
	})
}

func TestLogin(t *testing.T) {
	site := newTestSite(t)

	tests := []struct {
		name     string
		form     url.Values
		location string
	}{
		{name: "next path", form: url.Values{"username": {"alice"}, "password": {"secret123"}, "next": {"/cart/"}}, location: "/cart/"},
		{name: "protocol relative next", form: url.Values{"username": {"alice"}, "password": {"secret123"}, "next": {"//evil.test/"}}, location: "/"},
		{name: "no next", form: url.Values{"username": {"alice"}, "password": {"secret123"}}, location: "/"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := site.do(http.MethodPost, "/accounts/login/", tt.form)

			assert.Equal(t, http.StatusFound, w.Code)
			assert.Equal(t, tt.location, w.Header().Get("Location"))

			session := cookieNamed(w, middleware.SessionCookie)
			require.NotNil(t, session)
			assert.True(t, session.HttpOnly)
			assert.NotEmpty(t, session.Value)

			cart := site.do(http.MethodGet, "/cart/", nil, withCookies([]*http.Cookie{session}))
			assert.Equal(t, http.StatusOK, cart.Code)
		})
	}

	t.Run("wrong password", func(t *testing.T) {
		w := site.do(http.MethodPost, "/accounts/login/", url.Values{"username": {"alice"}, "password": {"nope"}})
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "Please enter a correct username and password.")
		assert.Nil(t, cookieNamed(w, middleware.SessionCookie))
	})

	t.Run("logout clears the session", func(t *testing.T) {
		w := site.do(http.MethodGet, "/accounts/logout/", nil, asAlice(t))
		assert.Equal(t, "/", w.Header().Get("Location"))

		session := cookieNamed(w, middleware.SessionCookie)
		require.NotNil(t, session)
		assert.Negative(t, session.MaxAge)
	})
}

func TestLoginRateLimited(t *testing.T) {
	site := newTestSite(t)
	wrong := url.Values{"username": {"alice"}, "password": {"nope"}}

	for i := 0; i < loginBurst; i++ {
		w := site.do(http.MethodPost, "/accounts/login/", wrong, fromAddr("198.51.100.9:5000"))
		require.Equal(t, http.StatusOK, w.Code)
	}

	w := site.do(http.MethodPost, "/accounts/login/?next=/cart/", url.Values{"username": {"alice"}, "password": {"secret123"}},
		fromAddr("198.51.100.9:5000"))
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Contains(t, w.Body.String(), "Too many login attempts. Try again in a minute.")
	assert.Nil(t, cookieNamed(w, middleware.SessionCookie))

	other := site.do(http.MethodPost, "/accounts/login/", url.Values{"username": {"alice"}, "password": {"secret123"}},
		fromAddr("198.51.100.10:5000"))
	assert.Equal(t, http.StatusFound, other.Code)
}

func TestUnreadableFormIsReported(t *testing.T) {
	site := newTestSite(t)

	tests := []struct {
		name   string
		target string
		opts   []requestOption
	}{
		{name: "register", target: "/accounts/register/"},
		{name: "login", target: "/accounts/login/"},
		{name: "comment", target: "/tour/10/", opts: []requestOption{asAlice(t)}},
		{name: "profile", target: "/profile/", opts: []requestOption{asAlice(t)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, tt.target, strings.NewReader("username=%zz"))
			req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
			req.Header.Set("User-Agent", testUserAgent)
			for _, opt := range tt.opts {
				opt(req)
			}

			w := httptest.NewRecorder()
			site.router.ServeHTTP(w, req)

			assert.Equal(t, http.StatusOK, w.Code)
			assert.Contains(t, w.Body.String(), errUnreadableForm)
		})
	}

	assert.Empty(t, site.comments.added)
	assert.Empty(t, site.profiles.updates)
}

func TestRegister(t *testing.T) {
	site := newTestSite(t)

	w := site.do(http.MethodPost, "/accounts/register/", url.Values{
		"username":  {"bob"},
		"password1": {"hunter2hunter"},
		"password2": {"hunter2hunter"},
	})
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/", w.Header().Get("Location"))
	assert.NotNil(t, cookieNamed(w, middleware.SessionCookie))
	assert.Contains(t, site.auth.users, "bob")

	w = site.do(http.MethodPost, "/accounts/register/", url.Values{
		"username":  {"alice"},
		"password1": {"hunter2hunter"},
		"password2": {"hunter2hunter"},
	})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "already exists")

	w = site.do(http.MethodPost, "/accounts/register/", url.Values{
		"username":  {"carol"},
		"password1": {"short"},
		"password2": {"other"},
	})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotContains(t, site.auth.users, "carol")
}
