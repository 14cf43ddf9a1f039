// Package httpserver provides HTTP server and routing.
package httpserver

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/gofiber/template/html/v2"
	"go.uber.org/zap"

	"book-discovery-service/internal/app/service"
	"book-discovery-service/internal/transport/httpserver/dto"
	"book-discovery-service/internal/transport/httpserver/handler"
	"book-discovery-service/internal/transport/httpserver/middleware"
	"book-discovery-service/internal/validator"
)

// ServerConfig holds server configuration.
type ServerConfig struct {
	Port         int
	Debug        bool
	TemplatesDir string
	StaticDir    string
	Session      middleware.SessionConfig
}

// Services groups the application services exposed over HTTP.
type Services struct {
	Sessions *service.SessionRegistry
	Details  *service.DetailsService
	Activity *service.ActivityService
}

// Server wraps Fiber app with handlers.
type Server struct {
	App    *fiber.App
	Logger *zap.Logger
}

// NewServer creates a new HTTP server with all routes configured.
func NewServer(cfg ServerConfig, svc Services, v *validator.Validator, logger *zap.Logger) *Server {
	var views fiber.Views
	if cfg.TemplatesDir != "" {
		engine := html.New(cfg.TemplatesDir, ".html")
		engine.AddFunc("coverURL", coverURL)
		if cfg.Debug {
			engine.Reload(true)
		}
		views = engine
	}

	app := fiber.New(fiber.Config{
		AppName:      "book-discovery-service",
		ErrorHandler: errorHandler(logger),
		Views:        views,
	})

	// Health check middleware MUST be registered BEFORE other middleware
	// for Kubernetes probes to work even during high load
	app.Use(middleware.NewHealthCheck(svc.Activity))

	app.Use(requestid.New())
	app.Use(middleware.Recover(logger))
	app.Use(middleware.Logger(logger))
	app.Use(middleware.CORS())
	app.Use(compress.New())

	if cfg.StaticDir != "" {
		app.Static("/static", cfg.StaticDir)
	}

	registerRoutes(app, cfg, svc, v, logger)

	return &Server{
		App:    app,
		Logger: logger,
	}
}

// registerRoutes sets up all page and API routes.
func registerRoutes(app *fiber.App, cfg ServerConfig, svc Services, v *validator.Validator, logger *zap.Logger) {
	// Health checks are handled by middleware (/livez, /readyz)

	searchHandler := handler.NewSearchHandler(v, logger)
	bookHandler := handler.NewBookHandler(svc.Details, logger)
	activityHandler := handler.NewActivityHandler(svc.Activity, v, logger)
	pageHandler := handler.NewPageHandler(svc.Details, svc.Activity, v, logger)

	withSession := middleware.Session(svc.Sessions, cfg.Session)

	// Pages (HTML)
	app.Get("/", pageHandler.Home)
	app.Get("/search", withSession, pageHandler.Search)
	app.Get("/book/:id", pageHandler.Book)
	app.Get("/recent", pageHandler.Recent)

	// API v1 routes
	v1 := app.Group("/api/v1")

	v1.Get("/search", withSession, searchHandler.Search)
	v1.Get("/suggestions", withSession, searchHandler.Suggest)

	session := v1.Group("/session", withSession)
	session.Get("/", searchHandler.View)
	session.Get("/page/:page", searchHandler.GoToPage)
	session.Post("/refresh", searchHandler.Refresh)

	v1.Get("/books/:id", bookHandler.Book)
	v1.Get("/works/:id", bookHandler.Work)
	v1.Get("/authors/:id", bookHandler.Author)
	v1.Get("/recent-changes", activityHandler.Recent)
	v1.Get("/health", activityHandler.Health)
}

// errorHandler returns a custom error handler that logs based on HTTP status code.
// 404s are logged at DEBUG level (expected client behavior), 4xx at WARN, 5xx at ERROR.
func errorHandler(logger *zap.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		code := fiber.StatusInternalServerError

		if e, ok := err.(*fiber.Error); ok {
			code = e.Code
		}

		switch {
		case code == fiber.StatusNotFound:
			logger.Debug("resource not found",
				zap.String("path", c.Path()),
				zap.String("method", c.Method()),
			)
		case code >= 500:
			logger.Error("server error",
				zap.Error(err),
				zap.Int("status", code),
				zap.String("path", c.Path()),
			)
		default:
			logger.Warn("client error",
				zap.Error(err),
				zap.Int("status", code),
				zap.String("path", c.Path()),
			)
		}

		resp := dto.ErrorResponse{Error: err.Error(), Code: dto.CodeInternal}
		if code == fiber.StatusNotFound {
			resp.Code = dto.CodeNotFound
		}

		return c.Status(code).JSON(resp)
	}
}

// Start starts the HTTP server.
func (s *Server) Start(port int) error {
	s.Logger.Info("starting HTTP server", zap.Int("port", port))

	return s.App.Listen(fmt.Sprintf(":%d", port))
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown() error {
	s.Logger.Info("shutting down HTTP server")

	return s.App.Shutdown()
}
