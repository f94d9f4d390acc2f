package web

import (
	"encoding/base64"
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	flashCookie = "voyage_flash"
	flashKey    = "flashes"
)

type FlashLevel string

const (
	FlashSuccess FlashLevel = "success"
	FlashInfo    FlashLevel = "info"
	FlashWarning FlashLevel = "warning"
	FlashError   FlashLevel = "error"
)

// Flash is a one-shot message shown on the next rendered page.
type Flash struct {
	Level   FlashLevel `json:"level"`
	Message string     `json:"message"`
}

// CSSClass maps the level to a bootstrap alert class.
func (f Flash) CSSClass() string {
	if f.Level == FlashError {
		return "danger"
	}

	return string(f.Level)
}

func addFlash(ctx *gin.Context, level FlashLevel, message string) {
	flashes := append(pendingFlashes(ctx), Flash{Level: level, Message: message})
	ctx.Set(flashKey, flashes)

	raw, err := json.Marshal(flashes)
	if err != nil {
		zap.L().Error("failed to encode flash", zap.Error(err))
		return
	}
	setFlashCookie(ctx, base64.RawURLEncoding.EncodeToString(raw), 0)
}

func pendingFlashes(ctx *gin.Context) []Flash {
	if v, ok := ctx.Get(flashKey); ok {
		if flashes, ok := v.([]Flash); ok {
			return flashes
		}
	}

	return readFlashCookie(ctx)
}

// popFlashes returns the flashes queued for this response and clears them.
func popFlashes(ctx *gin.Context) []Flash {
	flashes := pendingFlashes(ctx)
	if len(flashes) > 0 {
		ctx.Set(flashKey, []Flash{})
		setFlashCookie(ctx, "", -1)
	}

	return flashes
}

func readFlashCookie(ctx *gin.Context) []Flash {
	value, err := ctx.Cookie(flashCookie)
	if err != nil || value == "" {
		return nil
	}

	raw, err := base64.RawURLEncoding.DecodeString(value)
	if err != nil {
		return nil
	}

	var flashes []Flash
	if err = json.Unmarshal(raw, &flashes); err != nil {
		return nil
	}

	return flashes
}

func setFlashCookie(ctx *gin.Context, value string, maxAge int) {
	ctx.SetSameSite(http.SameSiteLaxMode)
	ctx.SetCookie(flashCookie, value, maxAge, "/", "", false, true)
}
