package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gentlyventures/harboragent/internal/dto"
	"github.com/gentlyventures/harboragent/internal/service"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

type CheckoutHandler struct {
	checkoutService service.CheckoutService
	baseURL         string
	log             zerolog.Logger
}

func NewCheckoutHandler(checkoutService service.CheckoutService, baseURL string, log zerolog.Logger) *CheckoutHandler {
	return &CheckoutHandler{
		checkoutService: checkoutService,
		baseURL:         baseURL,
		log:             log,
	}
}

func (h *CheckoutHandler) VerifySession(c echo.Context) error {
	ctx := c.Request().Context()

	var req dto.VerifySessionRequest
	if err := json.NewDecoder(c.Request().Body).Decode(&req); err != nil {
		h.log.Warn().Err(err).Msg("verify session: decode body")
		return c.JSON(http.StatusBadRequest, &dto.VerifySessionResponse{
			Valid: false,
			Error: "Invalid request",
		})
	}

	if req.SessionID == "" {
		return c.JSON(http.StatusBadRequest, &dto.VerifySessionResponse{
			Valid: false,
			Error: "Missing session_id",
		})
	}

	check := h.checkoutService.VerifySession(ctx, req.SessionID)

	return c.JSON(http.StatusOK, &dto.VerifySessionResponse{
		Valid: check.Valid,
		Debug: check.Debug,
	})
}

func (h *CheckoutHandler) CreateCheckoutSession(c echo.Context) error {
	ctx := c.Request().Context()

	var req dto.CreateCheckoutSessionRequest
	if err := json.NewDecoder(c.Request().Body).Decode(&req); err != nil {
		return c.JSON(http.StatusBadRequest, &dto.ErrorResponse{Error: "Invalid request body"})
	}

	result, err := h.checkoutService.CreateCheckoutSession(ctx, req, requestOrigin(c, h.baseURL))
	if err != nil {
		if errors.Is(err, service.ErrPriceRequired) {
			return c.JSON(http.StatusBadRequest, &dto.ErrorResponse{Error: "Price ID is required"})
		}
		h.log.Error().Err(err).Msg("create checkout session")
		return c.JSON(http.StatusInternalServerError, &dto.ErrorResponse{Error: "Failed to create checkout session"})
	}

	return c.JSON(http.StatusOK, result)
}
