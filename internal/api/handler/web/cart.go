package web

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/voyage-tours/voyage/internal/domain"
	"github.com/voyage-tours/voyage/internal/metrics"
	"github.com/voyage-tours/voyage/internal/service"
)

type CartService interface {
	AddToCart(ctx context.Context, userID, tourID uint) (domain.Tour, error)
	RemoveFromCart(ctx context.Context, userID, tourID uint) (domain.Tour, error)
	GetCart(ctx context.Context, userID uint) (domain.Cart, error)
	Checkout(ctx context.Context, userID uint) ([]domain.Payment, error)
	Tickets(ctx context.Context, userID uint) ([]domain.Payment, error)
}

// CartHandler serves the cart, checkout and tickets pages. All routes
// require a signed-in user.
type CartHandler struct {
	svc CartService
}

func NewCartHandler(svc CartService) *CartHandler {
	return &CartHandler{svc: svc}
}

func (h *CartHandler) HandleCart(ctx *gin.Context) {
	cart, err := h.svc.GetCart(ctx.Request.Context(), mustUser(ctx).ID)
	if err != nil {
		renderServerError(ctx, fmt.Errorf("web.HandleCart -> h.svc.GetCart -> %w", err))
		return
	}

	render(ctx, http.StatusOK, "cart.tmpl", gin.H{
		"Items":      cart.Items,
		"TotalPrice": cart.TotalPrice(),
		"TotalCount": cart.TotalCount(),
	})
}

func (h *CartHandler) HandleAdd(ctx *gin.Context) {
	id, ok := tourID(ctx)
	if !ok {
		return
	}

	tour, err := h.svc.AddToCart(ctx.Request.Context(), mustUser(ctx).ID, id)
	if err != nil {
		if errors.Is(err, service.ErrTourNotFound) {
			renderNotFound(ctx)
			return
		}

		renderServerError(ctx, fmt.Errorf("web.HandleAdd -> h.svc.AddToCart -> %w", err))
		return
	}

	addFlash(ctx, FlashSuccess, tour.Title+" added to cart")
	redirectBack(ctx, "/")
}

func (h *CartHandler) HandleRemove(ctx *gin.Context) {
	id, ok := tourID(ctx)
	if !ok {
		return
	}

	tour, err := h.svc.RemoveFromCart(ctx.Request.Context(), mustUser(ctx).ID, id)
	if err != nil {
		if errors.Is(err, service.ErrTourNotFound) {
			renderNotFound(ctx)
			return
		}

		renderServerError(ctx, fmt.Errorf("web.HandleRemove -> h.svc.RemoveFromCart -> %w", err))
		return
	}

	addFlash(ctx, FlashWarning, tour.Title+" removed from cart")
	ctx.Redirect(http.StatusFound, "/cart/")
}

// HandleCheckout pays for everything in the cart. An empty cart just goes
// back to the cart page.
func (h *CartHandler) HandleCheckout(ctx *gin.Context) {
	payments, err := h.svc.Checkout(ctx.Request.Context(), mustUser(ctx).ID)
	if err != nil {
		if errors.Is(err, service.ErrEmptyCart) {
			metrics.RecordCheckout("empty", 0)
			ctx.Redirect(http.StatusFound, "/cart/")
			return
		}

		metrics.RecordCheckout("error", 0)
		renderServerError(ctx, fmt.Errorf("web.HandleCheckout -> h.svc.Checkout -> %w", err))
		return
	}
	metrics.RecordCheckout("success", len(payments))

	ctx.Redirect(http.StatusFound, "/tickets/")
}

func (h *CartHandler) HandleTickets(ctx *gin.Context) {
	tickets, err := h.svc.Tickets(ctx.Request.Context(), mustUser(ctx).ID)
	if err != nil {
		renderServerError(ctx, fmt.Errorf("web.HandleTickets -> h.svc.Tickets -> %w", err))
		return
	}

	render(ctx, http.StatusOK, "tickets.tmpl", gin.H{
		"Tickets": tickets,
	})
}
