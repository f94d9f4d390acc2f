// Package web serves the server-rendered HTML site: catalog, cart,
// favorites, profile and account pages.
package web

import (
	"embed"
	"html/template"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/voyage-tours/voyage/internal/api/handler/web/form"
	"github.com/voyage-tours/voyage/internal/api/middleware"
	"github.com/voyage-tours/voyage/internal/domain"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

// MediaURLer turns a stored media name into a public URL.
type MediaURLer interface {
	URL(name string) string
}

// Templates parses the embedded page templates.
func Templates(media MediaURLer) *template.Template {
	funcs := template.FuncMap{
		"mediaURL": media.URL,
		"money": func(d decimal.Decimal) string {
			return d.StringFixed(2)
		},
		"date": func(t *time.Time) string {
			if t == nil {
				return ""
			}
			return t.Format("02.01.2006")
		},
		"datetime": func(t time.Time) string {
			return t.Format("02.01.2006 15:04")
		},
		"continents": func() []domain.Continent {
			return domain.Continents
		},
		"pageURL": func(filters url.Values, n int) template.URL {
			q := url.Values{}
			for k, v := range filters {
				q[k] = v
			}
			q.Set("page", strconv.Itoa(n))

			return template.URL("?" + q.Encode())
		},
		"cardData": func(user any, tour domain.Tour, favorite bool) map[string]any {
			return map[string]any{"User": user, "Tour": tour, "Favorite": favorite}
		},
	}

	return template.Must(template.New("").Funcs(funcs).ParseFS(templateFS, "templates/*.tmpl"))
}

// render writes an HTML page. Every page gets the signed-in user and the
// pending flash messages.
func render(ctx *gin.Context, status int, name string, data gin.H) {
	if data == nil {
		data = gin.H{}
	}
	if user, ok := middleware.CurrentUser(ctx); ok {
		data["User"] = user
	}
	data["Flashes"] = popFlashes(ctx)

	ctx.HTML(status, name, data)
}

const errUnreadableForm = "The form could not be read. Please try again."

func renderNotFound(ctx *gin.Context) {
	render(ctx, http.StatusNotFound, "not_found.tmpl", nil)
	ctx.Abort()
}

func renderServerError(ctx *gin.Context, err error) {
	zap.L().Error("request failed",
		zap.String("request_id", requestid.Get(ctx)),
		zap.String("method", ctx.Request.Method),
		zap.String("path", ctx.Request.URL.Path),
		zap.Error(err))

	render(ctx, http.StatusInternalServerError, "server_error.tmpl", nil)
	ctx.Abort()
}

// bindForm binds the request body into dst. A body that cannot be parsed is
// reported as a form-wide error so the page re-renders instead of validating
// an empty form.
func bindForm(ctx *gin.Context, dst any) form.Errors {
	if err := ctx.ShouldBind(dst); err != nil {
		logBindError(ctx, err)
		return form.Errors{"": errUnreadableForm}
	}

	return nil
}

func logBindError(ctx *gin.Context, err error) {
	zap.L().Debug("form binding failed",
		zap.String("request_id", requestid.Get(ctx)),
		zap.String("path", ctx.Request.URL.Path),
		zap.Error(err))
}

// mustUser is used behind RequireLogin, which guarantees the user is set.
func mustUser(ctx *gin.Context) domain.User {
	user, _ := middleware.CurrentUser(ctx)
	return user
}

// tourID parses the :id path parameter. A malformed id is answered with
// the not found page.
func tourID(ctx *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(ctx.Param("id"), 10, 32)
	if err != nil {
		renderNotFound(ctx)
		return 0, false
	}

	return uint(id), true
}

// redirectBack sends the browser to the page it came from when that page
// is on this site, otherwise to fallback.
func redirectBack(ctx *gin.Context, fallback string) {
	target := fallback
	if ref, err := url.Parse(ctx.Request.Referer()); err == nil && strings.HasPrefix(ref.Path, "/") {
		if ref.Host == "" || ref.Host == ctx.Request.Host {
			target = ref.RequestURI()
		}
	}

	ctx.Redirect(http.StatusFound, target)
}

// safeNext accepts only local absolute paths as post-login targets.
func safeNext(next string) string {
	if !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.HasPrefix(next, "/\\") {
		return "/"
	}

	return next
}
