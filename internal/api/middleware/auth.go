package middleware

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/voyage-tours/voyage/internal/api/handler/v1/response"
	"github.com/voyage-tours/voyage/internal/domain"
	"github.com/voyage-tours/voyage/internal/pkg/jwthelper"
)

const (
	SessionCookie = "voyage_session"
	LoginPath     = "/accounts/login/"

	userKey = "user"
)

type UserGetter interface {
	GetUser(ctx context.Context, id uint) (domain.User, error)
}

type Authenticator struct {
	key   []byte
	users UserGetter
}

func NewAuthenticator(key string, users UserGetter) *Authenticator {
	return &Authenticator{
		key:   []byte(key),
		users: users,
	}
}

// Identify attaches the signed-in user, if any, to the request. It never
// rejects a request; an unusable token just leaves the visitor anonymous.
func (a *Authenticator) Identify() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		if user, err := a.authenticate(ctx); err == nil {
			ctx.Set(userKey, user)
		}

		ctx.Next()
	}
}

// VerifyJWT rejects API requests without a valid token.
func (a *Authenticator) VerifyJWT() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		if _, ok := CurrentUser(ctx); ok {
			ctx.Next()
			return
		}

		user, err := a.authenticate(ctx)
		if err != nil {
			response.RenderErr(ctx, response.ErrUnauthorized(err))
			return
		}
		ctx.Set(userKey, user)

		ctx.Next()
	}
}

// RequireStaff must run after VerifyJWT.
func RequireStaff() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		user, ok := CurrentUser(ctx)
		if !ok || !user.IsStaff {
			response.RenderErr(ctx, response.ErrPermissionDenied(fmt.Errorf("user %d is not staff", user.ID)))
			return
		}

		ctx.Next()
	}
}

// RequireLogin sends anonymous visitors of HTML pages to the login form,
// remembering where they were going. It must run after Identify.
func RequireLogin() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		if _, ok := CurrentUser(ctx); ok {
			ctx.Next()
			return
		}

		ctx.Redirect(http.StatusFound, LoginURL(ctx.Request.URL.RequestURI()))
		ctx.Abort()
	}
}

func LoginURL(next string) string {
	return LoginPath + "?" + url.Values{"next": {next}}.Encode()
}

func CurrentUser(ctx *gin.Context) (domain.User, bool) {
	v, ok := ctx.Get(userKey)
	if !ok {
		return domain.User{}, false
	}
	user, ok := v.(domain.User)

	return user, ok
}

var errMissingToken = errors.New("missing token")

func (a *Authenticator) authenticate(ctx *gin.Context) (domain.User, error) {
	token := bearerToken(ctx.GetHeader("Authorization"))
	if token == "" {
		token, _ = ctx.Cookie(SessionCookie)
	}
	if token == "" {
		return domain.User{}, errMissingToken
	}

	claims, err := jwthelper.ParseToken(a.key, token, ctx.Request.UserAgent())
	if err != nil {
		return domain.User{}, err
	}

	user, err := a.users.GetUser(ctx.Request.Context(), claims.UserID)
	if err != nil {
		zap.L().Debug("token user lookup failed",
			zap.Uint("user_id", claims.UserID),
			zap.Error(err))

		return domain.User{}, err
	}

	return user, nil
}

func bearerToken(header string) string {
	const prefix = "Bearer "
	if len(header) > len(prefix) && strings.EqualFold(header[:len(prefix)], prefix) {
		return strings.TrimSpace(header[len(prefix):])
	}

	return ""
}
