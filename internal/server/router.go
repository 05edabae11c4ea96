package server

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/recover"
	"github.com/gofiber/fiber/v3/middleware/static"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/any-hub/jsbrew/internal/assets"
)

// AppOptions controls how the Fiber application should behave.
type AppOptions struct {
	Logger   *logrus.Logger
	Pipeline *assets.Pipeline
	// StaticRoot 非空时，未被资源中间件处理的请求交给静态文件服务。
	StaticRoot string
	// Register 在 catch-all 之前注册额外路由（例如诊断接口）。
	Register func(app *fiber.App)
}

const contextKeyRequestID = "_jsbrew_request_id"

// NewApp builds a Fiber application with request-id, asset middleware and a
// fallback for delegated requests.
func NewApp(opts AppOptions) (*fiber.App, error) {
	if opts.Logger == nil {
		return nil, errors.New("logger is required")
	}
	if opts.Pipeline == nil {
		return nil, errors.New("asset pipeline is required")
	}

	app := fiber.New(fiber.Config{
		CaseSensitive: true,
	})

	app.Use(recover.New())
	app.Use(requestContextMiddleware())
	app.Use(AssetMiddleware(opts.Pipeline, opts.Logger))

	if opts.Register != nil {
		opts.Register(app)
	}

	if opts.StaticRoot != "" {
		app.Get("/*", static.New(opts.StaticRoot))
	}
	app.All("/*", func(c fiber.Ctx) error {
		return renderNotFound(c, opts.Logger)
	})

	return app, nil
}

// requestContextMiddleware 负责生成请求 ID 并写入响应头。
func requestContextMiddleware() fiber.Handler {
	return func(c fiber.Ctx) error {
		reqID := uuid.NewString()
		c.Locals(contextKeyRequestID, reqID)
		c.Set("X-Request-ID", reqID)
		return c.Next()
	}
}

func renderNotFound(c fiber.Ctx, logger *logrus.Logger) error {
	logger.WithFields(logrus.Fields{
		"action":     "fallback",
		"request_id": RequestID(c),
		"path":       c.Path(),
	}).Debug("asset not found")

	return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
		"error": "asset_not_found",
	})
}

// RequestID returns the request identifier stored by the router middleware.
func RequestID(c fiber.Ctx) string {
	if value := c.Locals(contextKeyRequestID); value != nil {
		if reqID, ok := value.(string); ok {
			return reqID
		}
	}
	return ""
}

func isDiagnosticsPath(path string) bool {
	return strings.HasPrefix(path, "/-/")
}
