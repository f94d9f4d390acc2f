package web

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/voyage-tours/voyage/internal/domain"
	"github.com/voyage-tours/voyage/internal/service"
)

type FavoriteService interface {
	Toggle(ctx context.Context, userID, tourID uint) (domain.Tour, bool, error)
	Remove(ctx context.Context, userID, tourID uint) (domain.Tour, bool, error)
	List(ctx context.Context, userID uint) ([]domain.Favorite, error)
}

type FavoriteHandler struct {
	svc FavoriteService
}

func NewFavoriteHandler(svc FavoriteService) *FavoriteHandler {
	return &FavoriteHandler{svc: svc}
}

func (h *FavoriteHandler) HandleFavorites(ctx *gin.Context) {
	favorites, err := h.svc.List(ctx.Request.Context(), mustUser(ctx).ID)
	if err != nil {
		renderServerError(ctx, fmt.Errorf("web.HandleFavorites -> h.svc.List -> %w", err))
		return
	}

	render(ctx, http.StatusOK, "favorites.tmpl", gin.H{
		"Favorites": favorites,
	})
}

// HandleToggle adds the tour to the favorites, or removes it when it is
// already there.
func (h *FavoriteHandler) HandleToggle(ctx *gin.Context) {
	id, ok := tourID(ctx)
	if !ok {
		return
	}

	tour, added, err := h.svc.Toggle(ctx.Request.Context(), mustUser(ctx).ID, id)
	if err != nil {
		if errors.Is(err, service.ErrTourNotFound) {
			renderNotFound(ctx)
			return
		}

		renderServerError(ctx, fmt.Errorf("web.HandleToggle -> h.svc.Toggle -> %w", err))
		return
	}

	if added {
		addFlash(ctx, FlashSuccess, fmt.Sprintf("Tour «%s» added to favorites!", tour.Title))
	} else {
		addFlash(ctx, FlashInfo, fmt.Sprintf("Tour «%s» removed from favorites.", tour.Title))
	}
	redirectBack(ctx, "/catalog/")
}

func (h *FavoriteHandler) HandleRemove(ctx *gin.Context) {
	id, ok := tourID(ctx)
	if !ok {
		return
	}

	tour, removed, err := h.svc.Remove(ctx.Request.Context(), mustUser(ctx).ID, id)
	if err != nil {
		if errors.Is(err, service.ErrTourNotFound) {
			renderNotFound(ctx)
			return
		}

		renderServerError(ctx, fmt.Errorf("web.HandleRemove -> h.svc.Remove -> %w", err))
		return
	}

	if removed {
		addFlash(ctx, FlashSuccess, fmt.Sprintf("Tour «%s» removed from favorites!", tour.Title))
	} else {
		addFlash(ctx, FlashInfo, fmt.Sprintf("Tour «%s» is not in your favorites.", tour.Title))
	}
	ctx.Redirect(http.StatusFound, "/favorites/")
}
