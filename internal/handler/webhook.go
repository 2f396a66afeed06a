package handler

import (
	"errors"
	"io"
	"net/http"

	"github.com/gentlyventures/harboragent/internal/dto"
	"github.com/gentlyventures/harboragent/internal/service"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

const HeaderStripeSignature = "Stripe-Signature"

type WebhookHandler struct {
	webhookService service.WebhookService
	baseURL        string
	log            zerolog.Logger
}

func NewWebhookHandler(webhookService service.WebhookService, baseURL string, log zerolog.Logger) *WebhookHandler {
	return &WebhookHandler{
		webhookService: webhookService,
		baseURL:        baseURL,
		log:            log,
	}
}

func (h *WebhookHandler) StripeWebhook(c echo.Context) error {
	ctx := c.Request().Context()

	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return c.JSON(http.StatusBadRequest, &dto.ErrorResponse{Error: "Failed to read request body"})
	}

	err = h.webhookService.HandleWebhook(ctx, body, c.Request().Header.Get(HeaderStripeSignature), requestOrigin(c, h.baseURL))
	if err != nil {
		h.log.Warn().Err(err).Msg("stripe webhook rejected")
		if errors.Is(err, service.ErrInvalidSignature) {
			return c.JSON(http.StatusBadRequest, &dto.ErrorResponse{Error: "Invalid signature"})
		}
		return c.JSON(http.StatusBadRequest, &dto.ErrorResponse{Error: "Webhook processing failed"})
	}

	return c.JSON(http.StatusOK, &dto.WebhookResponse{Received: true})
}
