package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gentlyventures/harboragent/internal/service"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

type DownloadHandler struct {
	downloadService service.DownloadService
	baseURL         string
	log             zerolog.Logger
}

func NewDownloadHandler(downloadService service.DownloadService, baseURL string, log zerolog.Logger) *DownloadHandler {
	return &DownloadHandler{
		downloadService: downloadService,
		baseURL:         baseURL,
		log:             log,
	}
}

// Download is the legacy unsigned entry point used by the success page.
func (h *DownloadHandler) Download(c echo.Context) error {
	ctx := c.Request().Context()

	sessionID := c.QueryParam("session_id")
	if sessionID == "" {
		return c.String(http.StatusBadRequest, "Missing session_id parameter")
	}

	location, err := h.downloadService.StartDownload(ctx, sessionID, requestOrigin(c, h.baseURL))
	if err != nil {
		if errors.Is(err, service.ErrSessionInvalid) {
			return c.String(http.StatusForbidden, "Invalid or expired session")
		}
		return fmt.Errorf("start download: %w", err)
	}

	return c.Redirect(http.StatusFound, location)
}

func (h *DownloadHandler) SignedDownload(c echo.Context) error {
	ctx := c.Request().Context()

	tok := c.QueryParam("token")
	if tok == "" {
		return c.String(http.StatusBadRequest, "Missing token parameter")
	}

	delivery, err := h.downloadService.SignedDownload(ctx, tok)
	if err != nil {
		var tokErr *service.TokenError
		switch {
		case errors.As(err, &tokErr):
			return c.String(http.StatusForbidden, tokErr.Reason)
		case errors.Is(err, service.ErrSessionInvalid):
			return c.String(http.StatusForbidden, "Session no longer valid")
		}
		h.log.Error().Err(err).Msg("signed download")
		return c.String(http.StatusInternalServerError, "Failed to retrieve session details")
	}

	if delivery.FallbackURL != "" {
		return c.Redirect(http.StatusFound, delivery.FallbackURL)
	}

	resp := c.Response()
	resp.Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", delivery.FileName))
	resp.Header().Set(echo.HeaderContentLength, strconv.Itoa(len(delivery.Archive)))
	return c.Blob(http.StatusOK, "application/zip", delivery.Archive)
}
