package server

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/sirupsen/logrus"

	"github.com/any-hub/jsbrew/internal/assets"
	"github.com/any-hub/jsbrew/internal/logging"
)

// AssetMiddleware 把 Pipeline 挂到 Fiber 链上：Delegate 时调用 c.Next()，
// 其余终态直接写响应。编译错误记录后原样返回，由 Fiber 的 ErrorHandler 生成 5xx。
func AssetMiddleware(pipeline *assets.Pipeline, logger *logrus.Logger) fiber.Handler {
	return func(c fiber.Ctx) error {
		rawPath := string(c.Request().URI().PathOriginal())
		if isDiagnosticsPath(rawPath) {
			return c.Next()
		}

		started := time.Now()
		ims := c.Get(fiber.HeaderIfModifiedSince)

		ctx := c.Context()
		if ctx == nil {
			ctx = context.Background()
		}
		result, err := pipeline.Serve(ctx, rawPath, ims)

		fields := logging.AssetFields(RequestID(c), rawPath, result.Label())
		if result.File != nil {
			fields = logging.ServeFields(fields, result.File.Path, result.Compiled, result.CacheHit)
		}
		fields["elapsed_ms"] = time.Since(started).Milliseconds()

		if err != nil {
			logger.WithError(err).WithFields(fields).Warn("asset_failed")
			return err
		}

		if result.Outcome == assets.OutcomeDelegate {
			logger.WithFields(fields).Debug("asset_delegate")
			return c.Next()
		}

		logger.WithFields(fields).Info("asset")
		return writeResponse(c, result.Response)
	}
}

func writeResponse(c fiber.Ctx, resp assets.Response) error {
	for key, values := range resp.Header {
		for _, value := range values {
			c.Set(key, value)
		}
	}
	return c.Status(resp.Status).Send(resp.Body)
}
