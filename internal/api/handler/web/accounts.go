package web

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/voyage-tours/voyage/internal/api/handler/web/form"
	"github.com/voyage-tours/voyage/internal/api/middleware"
	"github.com/voyage-tours/voyage/internal/domain"
	"github.com/voyage-tours/voyage/internal/metrics"
	"github.com/voyage-tours/voyage/internal/pkg/jwthelper"
	"github.com/voyage-tours/voyage/internal/service"
)

type AuthService interface {
	Signup(ctx context.Context, user domain.User) (domain.User, error)
	Login(ctx context.Context, username, password string) (domain.User, error)
}

// AccountHandler serves registration, login and logout. A session is a
// signed token kept in an HttpOnly cookie.
type AccountHandler struct {
	svc      AuthService
	key      []byte
	tokenTTL time.Duration
}

func NewAccountHandler(svc AuthService, signingKey string, tokenTTL time.Duration) *AccountHandler {
	return &AccountHandler{
		svc:      svc,
		key:      []byte(signingKey),
		tokenTTL: tokenTTL,
	}
}

func (h *AccountHandler) HandleRegister(ctx *gin.Context) {
	registerForm := &form.Register{}
	var formErrors form.Errors

	if ctx.Request.Method == http.MethodPost {
		if formErrors = bindForm(ctx, registerForm); len(formErrors) == 0 {
			formErrors = registerForm.Validate()
		}

		if len(formErrors) == 0 {
			user, err := h.svc.Signup(ctx.Request.Context(), domain.User{
				Username: registerForm.Username,
				Email:    registerForm.Email,
				Password: registerForm.Password1,
			})
			switch {
			case errors.Is(err, service.ErrUsernameExists):
				formErrors = form.Errors{"username": "a user with that username already exists"}
			case err != nil:
				renderServerError(ctx, fmt.Errorf("web.HandleRegister -> h.svc.Signup -> %w", err))
				return
			default:
				if err = h.startSession(ctx, user); err != nil {
					renderServerError(ctx, fmt.Errorf("web.HandleRegister -> h.startSession -> %w", err))
					return
				}

				ctx.Redirect(http.StatusFound, "/")
				return
			}
		}
	}

	registerForm.Password1, registerForm.Password2 = "", ""
	render(ctx, http.StatusOK, "register.tmpl", gin.H{
		"Form":       registerForm,
		"FormErrors": formErrors,
	})
}

func (h *AccountHandler) HandleLogin(ctx *gin.Context) {
	loginForm := &form.Login{Next: ctx.Query("next")}
	var formErrors form.Errors

	if ctx.Request.Method == http.MethodPost {
		if formErrors = bindForm(ctx, loginForm); len(formErrors) == 0 {
			formErrors = loginForm.Validate()
		}

		if len(formErrors) == 0 {
			user, err := h.svc.Login(ctx.Request.Context(), loginForm.Username, loginForm.Password)
			switch {
			case errors.Is(err, service.ErrUserNotFound), errors.Is(err, service.ErrWrongPassword):
				metrics.RecordLogin("failure")
				formErrors = form.Errors{"": "Please enter a correct username and password."}
			case err != nil:
				renderServerError(ctx, fmt.Errorf("web.HandleLogin -> h.svc.Login -> %w", err))
				return
			default:
				if err = h.startSession(ctx, user); err != nil {
					renderServerError(ctx, fmt.Errorf("web.HandleLogin -> h.startSession -> %w", err))
					return
				}
				metrics.RecordLogin("success")

				ctx.Redirect(http.StatusFound, safeNext(loginForm.Next))
				return
			}
		}
	}

	loginForm.Password = ""
	render(ctx, http.StatusOK, "login.tmpl", gin.H{
		"Form":       loginForm,
		"FormErrors": formErrors,
	})
}

// HandleLoginRateLimited answers login posts over the per-IP budget.
func HandleLoginRateLimited(ctx *gin.Context) {
	metrics.RecordLogin("rate_limited")

	render(ctx, http.StatusTooManyRequests, "login.tmpl", gin.H{
		"Form":       &form.Login{Next: ctx.Query("next")},
		"FormErrors": form.Errors{"": "Too many login attempts. Try again in a minute."},
	})
}

func (h *AccountHandler) HandleLogout(ctx *gin.Context) {
	setSessionCookie(ctx, "", -1)
	ctx.Redirect(http.StatusFound, "/")
}

func (h *AccountHandler) startSession(ctx *gin.Context, user domain.User) error {
	token, err := jwthelper.GenerateToken(h.key, user.ID, ctx.Request.UserAgent(), h.tokenTTL)
	if err != nil {
		return fmt.Errorf("jwthelper.GenerateToken -> %w", err)
	}
	setSessionCookie(ctx, token, int(h.tokenTTL.Seconds()))

	return nil
}

func setSessionCookie(ctx *gin.Context, value string, maxAge int) {
	ctx.SetSameSite(http.SameSiteLaxMode)
	ctx.SetCookie(middleware.SessionCookie, value, maxAge, "/", "", ctx.Request.TLS != nil, true)
}
