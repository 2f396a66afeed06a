package server

import (
	"context"
	"net/http"

	"github.com/gentlyventures/harboragent/internal/config"
	"github.com/gentlyventures/harboragent/internal/handler"
	appmw "github.com/gentlyventures/harboragent/internal/middleware"
	"github.com/gentlyventures/harboragent/internal/service"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

type Server struct {
	echo            *echo.Echo
	stripeLimit     []echo.MiddlewareFunc
	downloadHandler *handler.DownloadHandler
	checkoutHandler *handler.CheckoutHandler
	webhookHandler  *handler.WebhookHandler
}

func NewServer(
	cfg *config.Config,
	downloadService service.DownloadService,
	checkoutService service.CheckoutService,
	webhookService service.WebhookService,
	log zerolog.Logger,
) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.RequestID())
	e.Use(appmw.RequestLogger(log))
	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowHeaders: []string{echo.HeaderContentType},
	}))

	s := &Server{
		echo:            e,
		downloadHandler: handler.NewDownloadHandler(downloadService, cfg.BaseURL, log),
		checkoutHandler: handler.NewCheckoutHandler(checkoutService, cfg.BaseURL, log),
		webhookHandler:  handler.NewWebhookHandler(webhookService, cfg.BaseURL, log),
	}

	// webhooks and downloads are never rate limited
	if cfg.HTTP.RateLimit > 0 {
		s.stripeLimit = append(s.stripeLimit,
			middleware.RateLimiter(middleware.NewRateLimiterMemoryStore(rate.Limit(cfg.HTTP.RateLimit))))
	}

	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	s.echo.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	// -------- downloads --------
	s.echo.GET("/download", s.downloadHandler.Download)
	s.echo.GET("/download/*", s.downloadHandler.Download)
	s.echo.GET("/download-signed", s.downloadHandler.SignedDownload)
	s.echo.GET("/download-signed/*", s.downloadHandler.SignedDownload)

	// -------- stripe --------
	s.echo.POST("/verify-session", s.checkoutHandler.VerifySession, s.stripeLimit...)
	s.echo.POST("/create-checkout-session", s.checkoutHandler.CreateCheckoutSession, s.stripeLimit...)
	s.echo.POST("/webhook", s.webhookHandler.StripeWebhook, middleware.BodyLimit("1M"))
}

// Handler exposes the router for tests.
func (s *Server) Handler() http.Handler {
	return s.echo
}

func (s *Server) Start(address string) error {
	return s.echo.Start(address)
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}
