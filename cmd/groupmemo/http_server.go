package main

import (
	"embed"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/template/html/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/kdudkov/groupmemo/internal/apperr"
	"github.com/kdudkov/groupmemo/internal/model"
	"github.com/kdudkov/groupmemo/pkg/log"
)

//go:embed templates
var templates embed.FS

const userKey = "user"

type HttpServer struct {
	f    *fiber.App
	addr string
}

func NewHttp(app *App, addr string) *HttpServer {
	engine := html.NewFileSystem(http.FS(templates), ".html")

	engine.Delims("[[", "]]")

	f := fiber.New(fiber.Config{
		EnablePrintRoutes:     false,
		DisableStartupMessage: true,
		Views:                 engine,
		ErrorHandler:          errorHandler(app.logger.With("logger", "http")),
	})

	f.Use(log.NewFiberLogger(&log.LoggerConfig{Name: "api", UserGetter: Username, DoMetrics: true, LogErrorsOnly: true}))

	f.Get("/health", getHealthHandler())
	f.Get("/metrics", getMetricsHandler())
	f.Get("/invite/:code", getInvitePageHandler(app))

	api := f.Group("/api")
	auth := authMiddleware(app)

	addAuthRoutes(app, api.Group("/auth"), auth)
	addUserRoutes(app, api.Group("/users", auth))
	addGroupRoutes(app, api.Group("/groups", auth))
	addInviteRoutes(app, api.Group("/invites"), auth)
	addMemoRoutes(app, api.Group("/memos", auth))

	return &HttpServer{f: f, addr: addr}
}

func (h *HttpServer) Address() string {
	return h.addr
}

func (h *HttpServer) Listen() error {
	return h.f.Listen(h.addr)
}

func (h *HttpServer) Shutdown() error {
	return h.f.Shutdown()
}

// errorHandler renders every error as {"error": ..., "kind": ...}.
func errorHandler(logger *slog.Logger) fiber.ErrorHandler {
	return func(ctx *fiber.Ctx, err error) error {
		var fe *fiber.Error

		switch {
		case errors.As(err, &fe):
			return ctx.Status(fe.Code).JSON(fiber.Map{"error": fe.Message, "kind": kindOfStatus(fe.Code)})
		case apperr.IsKnown(err):
			return ctx.Status(apperr.Status(err)).JSON(fiber.Map{"error": err.Error(), "kind": apperr.KindOf(err)})
		default:
			logger.Error("request failed", "method", ctx.Method(), "path", ctx.Path(), slog.Any("error", err))

			return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal server error", "kind": "internal"})
		}
	}
}

func kindOfStatus(code int) string {
	switch code {
	case fiber.StatusBadRequest, fiber.StatusUnprocessableEntity:
		return "validation"
	case fiber.StatusUnauthorized:
		return "unauthorized"
	case fiber.StatusForbidden:
		return "forbidden"
	case fiber.StatusNotFound, fiber.StatusMethodNotAllowed:
		return "not_found"
	case fiber.StatusConflict:
		return "conflict"
	case fiber.StatusGone:
		return "gone"
	default:
		return "internal"
	}
}

// authMiddleware accepts "Authorization: Bearer <token>" for a user that still exists.
func authMiddleware(app *App) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		s, ok := strings.CutPrefix(ctx.Get(fiber.HeaderAuthorization), "Bearer ")
		if !ok || strings.TrimSpace(s) == "" {
			return apperr.Unauthorized("access token required")
		}

		claims, err := app.tokens.Parse(strings.TrimSpace(s))
		if err != nil {
			return apperr.Unauthorized("invalid or expired token")
		}

		u := app.users.Load(claims.UserID)
		if u == nil {
			return apperr.Unauthorized("user not found")
		}

		ctx.Locals(userKey, u)

		return ctx.Next()
	}
}

func User(ctx *fiber.Ctx) *model.User {
	if u, ok := ctx.Locals(userKey).(*model.User); ok {
		return u
	}

	return nil
}

func Username(ctx *fiber.Ctx) string {
	return User(ctx).GetUsername()
}

// paramID reads a positive numeric path parameter.
func paramID(ctx *fiber.Ctx, name string) (uint, error) {
	n, err := strconv.ParseUint(ctx.Params(name), 10, 64)
	if err != nil || n == 0 {
		return 0, apperr.Validation("invalid " + name)
	}

	return uint(n), nil
}

func parseBody(ctx *fiber.Ctx, v any) error {
	if len(ctx.Body()) == 0 {
		return nil
	}

	if err := ctx.BodyParser(v); err != nil {
		return apperr.Validation("invalid request body")
	}

	return nil
}

func message(ctx *fiber.Ctx, msg string) error {
	return ctx.JSON(fiber.Map{"message": msg})
}

func getHealthHandler() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		return ctx.JSON(fiber.Map{"status": "ok", "version": gitRevision})
	}
}

func getMetricsHandler() fiber.Handler {
	return adaptor.HTTPHandler(promhttp.HandlerFor(
		prometheus.DefaultGatherer,
		promhttp.HandlerOpts{DisableCompression: true},
	))
}
