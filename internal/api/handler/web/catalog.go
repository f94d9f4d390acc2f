package web

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/voyage-tours/voyage/internal/api/handler/web/form"
	"github.com/voyage-tours/voyage/internal/api/middleware"
	"github.com/voyage-tours/voyage/internal/domain"
	"github.com/voyage-tours/voyage/internal/service"
)

type CatalogService interface {
	ListTours(ctx context.Context, filter domain.TourFilter, rawPage string) (domain.Page[domain.Tour], error)
	AllTours(ctx context.Context) ([]domain.Tour, error)
	GetTour(ctx context.Context, id uint) (domain.Tour, error)
	Categories(ctx context.Context) ([]domain.Category, error)
	FavoriteSet(ctx context.Context, userID uint) (domain.FavoriteSet, error)
}

type CommentService interface {
	AddComment(ctx context.Context, comment domain.Comment) (domain.Comment, error)
	ListComments(ctx context.Context, tourID uint) ([]domain.Comment, error)
}

type CatalogHandler struct {
	catalog  CatalogService
	comments CommentService
}

func NewCatalogHandler(catalog CatalogService, comments CommentService) *CatalogHandler {
	return &CatalogHandler{
		catalog:  catalog,
		comments: comments,
	}
}

func (h *CatalogHandler) favorites(ctx *gin.Context) (domain.FavoriteSet, error) {
	user, _ := middleware.CurrentUser(ctx)

	return h.catalog.FavoriteSet(ctx.Request.Context(), user.ID)
}

func (h *CatalogHandler) HandleIndex(ctx *gin.Context) {
	tours, err := h.catalog.AllTours(ctx.Request.Context())
	if err != nil {
		renderServerError(ctx, fmt.Errorf("web.HandleIndex -> h.catalog.AllTours -> %w", err))
		return
	}

	favorites, err := h.favorites(ctx)
	if err != nil {
		renderServerError(ctx, fmt.Errorf("web.HandleIndex -> h.catalog.FavoriteSet -> %w", err))
		return
	}

	render(ctx, http.StatusOK, "index.tmpl", gin.H{
		"Tours":     tours,
		"Favorites": favorites,
	})
}

// HandleCatalog lists tours filtered by the category, continent and q query
// parameters, five per page.
func (h *CatalogHandler) HandleCatalog(ctx *gin.Context) {
	filter := domain.TourFilter{
		CategorySlug: ctx.Query("category"),
		Continent:    ctx.Query("continent"),
		Query:        ctx.Query("q"),
	}

	page, err := h.catalog.ListTours(ctx.Request.Context(), filter, ctx.Query("page"))
	if err != nil {
		renderServerError(ctx, fmt.Errorf("web.HandleCatalog -> h.catalog.ListTours -> %w", err))
		return
	}

	categories, err := h.catalog.Categories(ctx.Request.Context())
	if err != nil {
		renderServerError(ctx, fmt.Errorf("web.HandleCatalog -> h.catalog.Categories -> %w", err))
		return
	}

	favorites, err := h.favorites(ctx)
	if err != nil {
		renderServerError(ctx, fmt.Errorf("web.HandleCatalog -> h.catalog.FavoriteSet -> %w", err))
		return
	}

	filters := url.Values{}
	for key, value := range map[string]string{"category": filter.CategorySlug, "continent": filter.Continent, "q": filter.Query} {
		if value != "" {
			filters.Set(key, value)
		}
	}

	render(ctx, http.StatusOK, "catalog.tmpl", gin.H{
		"Page":             page,
		"Categories":       categories,
		"CurrentCategory":  filter.CategorySlug,
		"CurrentContinent": filter.Continent,
		"Query":            filter.Query,
		"Filters":          filters,
		"Favorites":        favorites,
	})
}

// HandleTourDetail shows a tour with its comments. On POST it also takes a
// new comment from a signed-in user.
func (h *CatalogHandler) HandleTourDetail(ctx *gin.Context) {
	id, ok := tourID(ctx)
	if !ok {
		return
	}

	tour, err := h.catalog.GetTour(ctx.Request.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrTourNotFound) {
			renderNotFound(ctx)
			return
		}

		renderServerError(ctx, fmt.Errorf("web.HandleTourDetail -> h.catalog.GetTour -> %w", err))
		return
	}

	commentForm := &form.Comment{}
	var formErrors form.Errors

	if ctx.Request.Method == http.MethodPost {
		user, signedIn := middleware.CurrentUser(ctx)
		if !signedIn {
			addFlash(ctx, FlashError, "You need to log in to leave comments!")
		} else {
			if formErrors = bindForm(ctx, commentForm); len(formErrors) == 0 {
				formErrors = commentForm.Validate()
			}

			if len(formErrors) == 0 {
				_, err = h.comments.AddComment(ctx.Request.Context(), domain.Comment{
					TourID:   tour.ID,
					UserID:   user.ID,
					Username: user.Username,
					Text:     commentForm.Text,
				})
				if err != nil {
					renderServerError(ctx, fmt.Errorf("web.HandleTourDetail -> h.comments.AddComment -> %w", err))
					return
				}

				addFlash(ctx, FlashSuccess, "Comment added!")
				ctx.Redirect(http.StatusFound, "/tour/"+strconv.FormatUint(uint64(tour.ID), 10)+"/")
				return
			}
		}
	}

	comments, err := h.comments.ListComments(ctx.Request.Context(), tour.ID)
	if err != nil {
		renderServerError(ctx, fmt.Errorf("web.HandleTourDetail -> h.comments.ListComments -> %w", err))
		return
	}

	favorites, err := h.favorites(ctx)
	if err != nil {
		renderServerError(ctx, fmt.Errorf("web.HandleTourDetail -> h.catalog.FavoriteSet -> %w", err))
		return
	}

	render(ctx, http.StatusOK, "detail.tmpl", gin.H{
		"Tour":       tour,
		"Comments":   comments,
		"Favorites":  favorites,
		"Form":       commentForm,
		"FormErrors": formErrors,
	})
}
