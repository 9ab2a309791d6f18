package echotransport

import (
	"errors"
	"log"
	"net/http"

	"media-gate/internal/imaging"
	"media-gate/internal/pipeline"
	apperrors "media-gate/pkg/errors"
	"media-gate/pkg/logger"

	"github.com/labstack/echo/v4"
)

const (
	queryQuality = "quality"
	queryText    = "text"

	headerCDNCacheControl       = "CDN-Cache-Control"
	headerVercelCDNCacheControl = "Vercel-CDN-Cache-Control"
	cdnCacheNoStore             = "no-store"

	badgeCacheControl = "public, max-age=3600"
)

type mediaHandler struct {
	pipeline *pipeline.Pipeline
}

// Load serves one media item through the access pipeline. A text query
// short-circuits into a rendered badge and never touches stored content.
//
// Error responses are deliberately flat: 404 and 500 carry empty bodies,
// 403 carries a fixed message, and nothing ever echoes internal detail.
func (h *mediaHandler) Load(c echo.Context) error {
	if text := c.QueryParam(queryText); text != "" {
		return h.badge(c, text)
	}

	result, err := h.pipeline.Load(
		c.Request().Context(),
		c.Request(),
		c.Param("*"),
		c.QueryParam(queryQuality),
	)
	if err != nil {
		return writeError(c, err)
	}

	header := c.Response().Header()
	header.Set(echo.HeaderCacheControl, result.CacheControl)
	header.Set(headerCDNCacheControl, cdnCacheNoStore)
	header.Set(headerVercelCDNCacheControl, cdnCacheNoStore)

	return c.Blob(http.StatusOK, result.ContentType, result.Body)
}

func (h *mediaHandler) badge(c echo.Context, text string) error {
	body, err := imaging.TextBadge(text)
	if err != nil {
		return writeError(c, err)
	}

	header := c.Response().Header()
	header.Set(echo.HeaderCacheControl, badgeCacheControl)
	header.Set(headerCDNCacheControl, cdnCacheNoStore)
	header.Set(headerVercelCDNCacheControl, cdnCacheNoStore)

	return c.Blob(http.StatusOK, "image/png", body)
}

func writeError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		return c.NoContent(http.StatusNotFound)
	case errors.Is(err, apperrors.ErrForbidden):
		return c.JSON(http.StatusForbidden, map[string]string{"error": "access denied"})
	case errors.Is(err, apperrors.ErrBadRequest):
		return c.NoContent(http.StatusBadRequest)
	default:
		log.Printf("request failed: %s", logger.SanitizeLogMessage(err.Error()))
		return c.NoContent(http.StatusInternalServerError)
	}
}
