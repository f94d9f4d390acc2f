package v1

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/voyage-tours/voyage/internal/api/handler/v1/request"
	"github.com/voyage-tours/voyage/internal/api/handler/v1/response"
	"github.com/voyage-tours/voyage/internal/domain"
	"github.com/voyage-tours/voyage/internal/pkg/media"
	"github.com/voyage-tours/voyage/internal/service"
)

type AdminService interface {
	ListCategories(ctx context.Context, q domain.ListQuery) (domain.Page[domain.Category], error)
	CreateCategory(ctx context.Context, category domain.Category) (domain.Category, error)
	DeleteCategory(ctx context.Context, id uint) error
	ListTours(ctx context.Context, q domain.TourListQuery) (domain.Page[domain.Tour], error)
	CreateTour(ctx context.Context, tour domain.Tour) (domain.Tour, error)
	UpdateTour(ctx context.Context, tour domain.Tour) (domain.Tour, error)
	SetTourImage(ctx context.Context, id uint, image string) (domain.Tour, error)
	DeleteTour(ctx context.Context, id uint) error
	ListFAQs(ctx context.Context, q domain.ListQuery) (domain.Page[domain.FAQ], error)
	CreateFAQ(ctx context.Context, faq domain.FAQ) (domain.FAQ, error)
	DeleteFAQ(ctx context.Context, id uint) error
	ListReviews(ctx context.Context, q domain.ListQuery) (domain.Page[domain.Review], error)
	ListFavorites(ctx context.Context, q domain.ListQuery) (domain.Page[domain.Favorite], error)
	ListCartItems(ctx context.Context, q domain.ListQuery) (domain.Page[domain.CartItem], error)
	ListPayments(ctx context.Context, q domain.ListQuery) (domain.Page[domain.Payment], error)
	ListProfiles(ctx context.Context, filter domain.ProfileFilter, rawPage string) (domain.Page[domain.Profile], error)
}

type ImageStore interface {
	SaveImage(fh *multipart.FileHeader, dir string) (string, error)
	Delete(name string) error
}

// AdminHandler serves the staff-only back office.
type AdminHandler struct {
	svc   AdminService
	files ImageStore
}

func NewAdminHandler(svc AdminService, files ImageStore) *AdminHandler {
	return &AdminHandler{
		svc:   svc,
		files: files,
	}
}

func listQuery(ctx *gin.Context) domain.ListQuery {
	return domain.ListQuery{
		Search: ctx.Query("search"),
		Page:   ctx.Query("page"),
	}
}

func pathID(ctx *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(ctx.Param(name), 10, 32)
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(fmt.Errorf("invalid %s %q", name, ctx.Param(name))))
		return 0, false
	}

	return uint(id), true
}

// renderCatalogErr maps catalog sentinels to responses and reports whether
// err was one of them.
func renderCatalogErr(ctx *gin.Context, id uint, err error) bool {
	switch {
	case errors.Is(err, service.ErrTourNotFound):
		response.RenderErr(ctx, response.ErrNotFound("tour", "id", id))
	case errors.Is(err, service.ErrCategoryNotFound):
		response.RenderErr(ctx, response.ErrNotFound("category", "id", id))
	case errors.Is(err, service.ErrFAQNotFound):
		response.RenderErr(ctx, response.ErrNotFound("faq", "id", id))
	default:
		return false
	}

	return true
}

// HandleListCategories godoc
// @Summary      List categories
// @Tags         admin
// @Produce      json
// @Param        search  query     string  false  "name contains"
// @Param        page    query     string  false  "page number"
// @Success      200     {object}  response.Page[domain.Category]
// @Failure      401     {object}  response.Err
// @Failure      403     {object}  response.Err
// @Failure      500     {object}  response.Err
// @Router       /admin/categories [get]
// @Security BearerAuth
func (h *AdminHandler) HandleListCategories(ctx *gin.Context) {
	page, err := h.svc.ListCategories(ctx.Request.Context(), listQuery(ctx))
	if err != nil {
		err = fmt.Errorf("v1.HandleListCategories -> h.svc.ListCategories -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, response.NewPage(page))
}

// HandleCreateCategory godoc
// @Summary      Create a category
// @Description  The slug is derived from the name when omitted.
// @Tags         admin
// @Accept       json
// @Produce      json
// @Param        request  body      request.CreateCategoryRequest  true  "request body"
// @Success      201      {object}  domain.Category
// @Failure      400      {object}  response.Err
// @Failure      409      {object}  response.Err
// @Failure      500      {object}  response.Err
// @Router       /admin/categories [post]
// @Security BearerAuth
func (h *AdminHandler) HandleCreateCategory(ctx *gin.Context) {
	var req request.CreateCategoryRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}
	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	category, err := h.svc.CreateCategory(ctx.Request.Context(), domain.Category{Name: req.Name, Slug: req.Slug})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEmptySlug):
			response.RenderErr(ctx, response.ErrBadRequest(service.ErrEmptySlug))
		case errors.Is(err, service.ErrSlugExists):
			response.RenderErr(ctx, response.ErrConflict(service.ErrSlugExists))
		default:
			err = fmt.Errorf("v1.HandleCreateCategory -> h.svc.CreateCategory -> %w", err)
			response.RenderErr(ctx, response.ErrInternalServerError(err))
		}
		return
	}

	ctx.JSON(http.StatusCreated, category)
}

// HandleDeleteCategory godoc
// @Summary      Delete a category and its tours
// @Tags         admin
// @Param        categoryID  path  int  true  "category id"
// @Success      204
// @Failure      404  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /admin/categories/{categoryID} [delete]
// @Security BearerAuth
func (h *AdminHandler) HandleDeleteCategory(ctx *gin.Context) {
	id, ok := pathID(ctx, "categoryID")
	if !ok {
		return
	}

	if err := h.svc.DeleteCategory(ctx.Request.Context(), id); err != nil {
		if renderCatalogErr(ctx, id, err) {
			return
		}

		err = fmt.Errorf("v1.HandleDeleteCategory -> h.svc.DeleteCategory -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.Status(http.StatusNoContent)
}

// HandleListTours godoc
// @Summary      List tours
// @Tags         admin
// @Produce      json
// @Param        search       query     string  false  "title or country contains"
// @Param        category_id  query     int     false  "category filter"
// @Param        country      query     string  false  "exact country"
// @Param        page         query     string  false  "page number"
// @Success      200          {object}  response.Page[domain.Tour]
// @Failure      400          {object}  response.Err
// @Failure      500          {object}  response.Err
// @Router       /admin/tours [get]
// @Security BearerAuth
func (h *AdminHandler) HandleListTours(ctx *gin.Context) {
	q := domain.TourListQuery{
		ListQuery: listQuery(ctx),
		Country:   ctx.Query("country"),
	}
	if raw := ctx.Query("category_id"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			response.RenderErr(ctx, response.ErrBadRequest(fmt.Errorf("invalid category_id %q", raw)))
			return
		}
		q.CategoryID = uint(id)
	}

	page, err := h.svc.ListTours(ctx.Request.Context(), q)
	if err != nil {
		err = fmt.Errorf("v1.HandleListTours -> h.svc.ListTours -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, response.NewPage(page))
}

// HandleCreateTour godoc
// @Summary      Create a tour
// @Tags         admin
// @Accept       json
// @Produce      json
// @Param        request  body      request.TourRequest  true  "request body"
// @Success      201      {object}  domain.Tour
// @Failure      400      {object}  response.Err
// @Failure      404      {object}  response.Err
// @Failure      500      {object}  response.Err
// @Router       /admin/tours [post]
// @Security BearerAuth
func (h *AdminHandler) HandleCreateTour(ctx *gin.Context) {
	var req request.TourRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}
	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	tour, err := h.svc.CreateTour(ctx.Request.Context(), req.ToDomain())
	if err != nil {
		if renderCatalogErr(ctx, req.CategoryID, err) {
			return
		}

		err = fmt.Errorf("v1.HandleCreateTour -> h.svc.CreateTour -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusCreated, tour)
}

// HandleUpdateTour godoc
// @Summary      Update a tour
// @Tags         admin
// @Accept       json
// @Produce      json
// @Param        tourID   path      int                  true  "tour id"
// @Param        request  body      request.TourRequest  true  "request body"
// @Success      200      {object}  domain.Tour
// @Failure      400      {object}  response.Err
// @Failure      404      {object}  response.Err
// @Failure      500      {object}  response.Err
// @Router       /admin/tours/{tourID} [put]
// @Security BearerAuth
func (h *AdminHandler) HandleUpdateTour(ctx *gin.Context) {
	id, ok := pathID(ctx, "tourID")
	if !ok {
		return
	}

	var req request.TourRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}
	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	tour := req.ToDomain()
	tour.ID = id

	updated, err := h.svc.UpdateTour(ctx.Request.Context(), tour)
	if err != nil {
		if errors.Is(err, service.ErrCategoryNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("category", "id", req.CategoryID))
			return
		}
		if renderCatalogErr(ctx, id, err) {
			return
		}

		err = fmt.Errorf("v1.HandleUpdateTour -> h.svc.UpdateTour -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, updated)
}

// HandleUploadTourImage godoc
// @Summary      Upload a tour image
// @Tags         admin
// @Accept       multipart/form-data
// @Produce      json
// @Param        tourID  path      int   true  "tour id"
// @Param        image   formData  file  true  "jpeg, png, gif or webp"
// @Success      200     {object}  domain.Tour
// @Failure      400     {object}  response.Err
// @Failure      404     {object}  response.Err
// @Failure      500     {object}  response.Err
// @Router       /admin/tours/{tourID}/image [post]
// @Security BearerAuth
func (h *AdminHandler) HandleUploadTourImage(ctx *gin.Context) {
	id, ok := pathID(ctx, "tourID")
	if !ok {
		return
	}

	fh, err := ctx.FormFile("image")
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	name, err := h.files.SaveImage(fh, "tours")
	if err != nil {
		if errors.Is(err, media.ErrNotAnImage) || errors.Is(err, media.ErrFileTooLarge) {
			response.RenderErr(ctx, response.ErrBadRequest(err))
			return
		}

		err = fmt.Errorf("v1.HandleUploadTourImage -> h.files.SaveImage -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	tour, err := h.svc.SetTourImage(ctx.Request.Context(), id, name)
	if err != nil {
		_ = h.files.Delete(name)
		if renderCatalogErr(ctx, id, err) {
			return
		}

		err = fmt.Errorf("v1.HandleUploadTourImage -> h.svc.SetTourImage -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, tour)
}

// HandleDeleteTour godoc
// @Summary      Delete a tour
// @Tags         admin
// @Param        tourID  path  int  true  "tour id"
// @Success      204
// @Failure      404  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /admin/tours/{tourID} [delete]
// @Security BearerAuth
func (h *AdminHandler) HandleDeleteTour(ctx *gin.Context) {
	id, ok := pathID(ctx, "tourID")
	if !ok {
		return
	}

	if err := h.svc.DeleteTour(ctx.Request.Context(), id); err != nil {
		if renderCatalogErr(ctx, id, err) {
			return
		}

		err = fmt.Errorf("v1.HandleDeleteTour -> h.svc.DeleteTour -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.Status(http.StatusNoContent)
}

// HandleListFAQs godoc
// @Summary      List FAQ entries
// @Tags         admin
// @Produce      json
// @Param        search  query     string  false  "question contains"
// @Param        page    query     string  false  "page number"
// @Success      200     {object}  response.Page[domain.FAQ]
// @Failure      500     {object}  response.Err
// @Router       /admin/faqs [get]
// @Security BearerAuth
func (h *AdminHandler) HandleListFAQs(ctx *gin.Context) {
	page, err := h.svc.ListFAQs(ctx.Request.Context(), listQuery(ctx))
	if err != nil {
		err = fmt.Errorf("v1.HandleListFAQs -> h.svc.ListFAQs -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, response.NewPage(page))
}

// HandleCreateFAQ godoc
// @Summary      Create an FAQ entry
// @Tags         admin
// @Accept       json
// @Produce      json
// @Param        request  body      request.CreateFAQRequest  true  "request body"
// @Success      201      {object}  domain.FAQ
// @Failure      400      {object}  response.Err
// @Failure      500      {object}  response.Err
// @Router       /admin/faqs [post]
// @Security BearerAuth
func (h *AdminHandler) HandleCreateFAQ(ctx *gin.Context) {
	var req request.CreateFAQRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}
	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	faq, err := h.svc.CreateFAQ(ctx.Request.Context(), domain.FAQ{Question: req.Question, Answer: req.Answer})
	if err != nil {
		err = fmt.Errorf("v1.HandleCreateFAQ -> h.svc.CreateFAQ -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusCreated, faq)
}

// HandleDeleteFAQ godoc
// @Summary      Delete an FAQ entry
// @Tags         admin
// @Param        faqID  path  int  true  "faq id"
// @Success      204
// @Failure      404  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /admin/faqs/{faqID} [delete]
// @Security BearerAuth
func (h *AdminHandler) HandleDeleteFAQ(ctx *gin.Context) {
	id, ok := pathID(ctx, "faqID")
	if !ok {
		return
	}

	if err := h.svc.DeleteFAQ(ctx.Request.Context(), id); err != nil {
		if renderCatalogErr(ctx, id, err) {
			return
		}

		err = fmt.Errorf("v1.HandleDeleteFAQ -> h.svc.DeleteFAQ -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.Status(http.StatusNoContent)
}

// HandleListReviews godoc
// @Summary      List reviews
// @Tags         admin
// @Produce      json
// @Param        search  query     string  false  "username or tour title contains"
// @Param        page    query     string  false  "page number"
// @Success      200     {object}  response.Page[domain.Review]
// @Failure      500     {object}  response.Err
// @Router       /admin/reviews [get]
// @Security BearerAuth
func (h *AdminHandler) HandleListReviews(ctx *gin.Context) {
	page, err := h.svc.ListReviews(ctx.Request.Context(), listQuery(ctx))
	if err != nil {
		err = fmt.Errorf("v1.HandleListReviews -> h.svc.ListReviews -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, response.NewPage(page))
}

// HandleListFavorites godoc
// @Summary      List favorites
// @Tags         admin
// @Produce      json
// @Param        search  query     string  false  "username or tour title contains"
// @Param        page    query     string  false  "page number"
// @Success      200     {object}  response.Page[domain.Favorite]
// @Failure      500     {object}  response.Err
// @Router       /admin/favorites [get]
// @Security BearerAuth
func (h *AdminHandler) HandleListFavorites(ctx *gin.Context) {
	page, err := h.svc.ListFavorites(ctx.Request.Context(), listQuery(ctx))
	if err != nil {
		err = fmt.Errorf("v1.HandleListFavorites -> h.svc.ListFavorites -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, response.NewPage(page))
}

// HandleListCartItems godoc
// @Summary      List cart items
// @Tags         admin
// @Produce      json
// @Param        search  query     string  false  "username or tour title contains"
// @Param        page    query     string  false  "page number"
// @Success      200     {object}  response.Page[domain.CartItem]
// @Failure      500     {object}  response.Err
// @Router       /admin/cart-items [get]
// @Security BearerAuth
func (h *AdminHandler) HandleListCartItems(ctx *gin.Context) {
	page, err := h.svc.ListCartItems(ctx.Request.Context(), listQuery(ctx))
	if err != nil {
		err = fmt.Errorf("v1.HandleListCartItems -> h.svc.ListCartItems -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, response.NewPage(page))
}

// HandleListPayments godoc
// @Summary      List payments
// @Tags         admin
// @Produce      json
// @Param        search  query     string  false  "username or tour title contains"
// @Param        page    query     string  false  "page number"
// @Success      200     {object}  response.Page[domain.Payment]
// @Failure      500     {object}  response.Err
// @Router       /admin/payments [get]
// @Security BearerAuth
func (h *AdminHandler) HandleListPayments(ctx *gin.Context) {
	page, err := h.svc.ListPayments(ctx.Request.Context(), listQuery(ctx))
	if err != nil {
		err = fmt.Errorf("v1.HandleListPayments -> h.svc.ListPayments -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, response.NewPage(page))
}

// HandleListProfiles godoc
// @Summary      List profiles
// @Tags         admin
// @Produce      json
// @Param        search   query     string  false  "username or fio contains"
// @Param        married  query     bool    false  "married filter"
// @Param        license  query     bool    false  "license filter"
// @Param        page     query     string  false  "page number"
// @Success      200      {object}  response.Page[domain.Profile]
// @Failure      400      {object}  response.Err
// @Failure      500      {object}  response.Err
// @Router       /admin/profiles [get]
// @Security BearerAuth
func (h *AdminHandler) HandleListProfiles(ctx *gin.Context) {
	filter := domain.ProfileFilter{Search: ctx.Query("search")}

	for name, dst := range map[string]**bool{"married": &filter.Married, "license": &filter.License} {
		raw := ctx.Query(name)
		if raw == "" {
			continue
		}
		v, err := strconv.ParseBool(raw)
		if err != nil {
			response.RenderErr(ctx, response.ErrBadRequest(fmt.Errorf("invalid %s %q", name, raw)))
			return
		}
		*dst = &v
	}

	page, err := h.svc.ListProfiles(ctx.Request.Context(), filter, ctx.Query("page"))
	if err != nil {
		err = fmt.Errorf("v1.HandleListProfiles -> h.svc.ListProfiles -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, response.NewPage(page))
}
