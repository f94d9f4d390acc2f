package web

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"go.uber.org/zap"

	"github.com/voyage-tours/voyage/internal/api/handler/web/form"
	"github.com/voyage-tours/voyage/internal/domain"
	"github.com/voyage-tours/voyage/internal/pkg/media"
)

type ProfileService interface {
	GetProfile(ctx context.Context, userID uint) (domain.Profile, error)
	UpdateProfile(ctx context.Context, userID uint, update domain.ProfileUpdate) (domain.Profile, error)
}

type ImageStore interface {
	SaveImage(fh *multipart.FileHeader, dir string) (string, error)
	Delete(name string) error
}

const photoDir = "profile_photos"

type ProfileHandler struct {
	profiles  ProfileService
	favorites FavoriteService
	files     ImageStore
}

func NewProfileHandler(profiles ProfileService, favorites FavoriteService, files ImageStore) *ProfileHandler {
	return &ProfileHandler{
		profiles:  profiles,
		favorites: favorites,
		files:     files,
	}
}

// HandleProfile shows the profile form with the user's favorites and saves
// it on POST.
func (h *ProfileHandler) HandleProfile(ctx *gin.Context) {
	user := mustUser(ctx)

	profile, err := h.profiles.GetProfile(ctx.Request.Context(), user.ID)
	if err != nil {
		renderServerError(ctx, fmt.Errorf("web.HandleProfile -> h.profiles.GetProfile -> %w", err))
		return
	}

	profileForm := form.ProfileFrom(profile)
	var formErrors form.Errors

	if ctx.Request.Method == http.MethodPost {
		var saved bool
		profileForm, formErrors, saved = h.save(ctx, user.ID)
		if ctx.IsAborted() {
			return
		}
		if saved {
			addFlash(ctx, FlashSuccess, "Profile updated!")
			ctx.Redirect(http.StatusFound, "/profile/")
			return
		}
	}

	favorites, err := h.favorites.List(ctx.Request.Context(), user.ID)
	if err != nil {
		renderServerError(ctx, fmt.Errorf("web.HandleProfile -> h.favorites.List -> %w", err))
		return
	}

	render(ctx, http.StatusOK, "profile.tmpl", gin.H{
		"Profile":    profile,
		"Form":       profileForm,
		"FormErrors": formErrors,
		"Favorites":  favorites,
	})
}

// save binds and applies the submitted form. It aborts the request on
// server errors.
func (h *ProfileHandler) save(ctx *gin.Context, userID uint) (*form.Profile, form.Errors, bool) {
	if err := parseProfileForm(ctx); err != nil {
		logBindError(ctx, err)
		return form.NewProfile(ctx.Request.PostForm), form.Errors{"": errUnreadableForm}, false
	}

	profileForm := form.NewProfile(ctx.Request.PostForm)
	if errs := profileForm.Validate(); len(errs) > 0 {
		return profileForm, errs, false
	}

	var photo string
	fh, err := ctx.FormFile("photo")
	switch {
	case err == nil:
		photo, err = h.files.SaveImage(fh, photoDir)
		if errors.Is(err, media.ErrNotAnImage) || errors.Is(err, media.ErrFileTooLarge) {
			return profileForm, form.Errors{"photo": err.Error()}, false
		}
		if err != nil {
			renderServerError(ctx, fmt.Errorf("web.HandleProfile -> h.files.SaveImage -> %w", err))
			return profileForm, nil, false
		}
	case !errors.Is(err, http.ErrMissingFile) && !errors.Is(err, http.ErrNotMultipart):
		return profileForm, form.Errors{"photo": err.Error()}, false
	}

	if _, err = h.profiles.UpdateProfile(ctx.Request.Context(), userID, profileForm.Update(photo)); err != nil {
		if photo != "" {
			if derr := h.files.Delete(photo); derr != nil {
				zap.L().Warn("failed to delete orphaned photo", zap.String("photo", photo), zap.Error(derr))
			}
		}

		renderServerError(ctx, fmt.Errorf("web.HandleProfile -> h.profiles.UpdateProfile -> %w", err))
		return profileForm, nil, false
	}

	return profileForm, nil, true
}

// parseProfileForm accepts both multipart (with a photo) and urlencoded posts.
func parseProfileForm(ctx *gin.Context) error {
	if ctx.ContentType() == binding.MIMEMultipartPOSTForm {
		_, err := ctx.MultipartForm()
		return err
	}

	return ctx.Request.ParseForm()
}
