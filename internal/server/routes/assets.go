package routes

import (
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/gofiber/fiber/v3"

	"github.com/any-hub/jsbrew/internal/assets"
)

// RegisterAssetRoutes 暴露 /-/assets 诊断接口，供排查资源挂载与编译缓存状态。
func RegisterAssetRoutes(app *fiber.App, pipeline *assets.Pipeline) {
	if app == nil || pipeline == nil {
		return
	}

	app.Get("/-/assets", func(c fiber.Ctx) error {
		return c.JSON(encodePipeline(pipeline))
	})

	app.Get("/-/assets/inspect", func(c fiber.Ctx) error {
		path := strings.TrimSpace(c.Query("path"))
		if path == "" {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "path_required"})
		}
		return c.JSON(pipeline.Inspect(path))
	})
}

type pipelinePayload struct {
	Prefix       string              `json:"prefix"`
	URLs         []string            `json:"urls"`
	Root         string              `json:"root"`
	SourceExt    string              `json:"source_ext"`
	CompiledExt  string              `json:"compiled_ext"`
	CacheControl string              `json:"cache_control,omitempty"`
	Compiler     string              `json:"compiler"`
	CompileCache compileCachePayload `json:"compile_cache"`
}

type compileCachePayload struct {
	Enabled   bool   `json:"enabled"`
	Dir       string `json:"dir,omitempty"`
	Entries   int    `json:"entries"`
	SizeBytes int64  `json:"size_bytes"`
	Size      string `json:"size"`
	Error     string `json:"error,omitempty"`
}

func encodePipeline(p *assets.Pipeline) pipelinePayload {
	opts := p.Options()
	return pipelinePayload{
		Prefix:       opts.Prefix,
		URLs:         opts.URLs,
		Root:         opts.Root,
		SourceExt:    opts.SourceExt,
		CompiledExt:  opts.CompiledExt,
		CacheControl: opts.CacheControl,
		Compiler:     p.CompileCache().CompilerName(),
		CompileCache: encodeCompileCache(p.CompileCache()),
	}
}

func encodeCompileCache(cc *assets.CompileCache) compileCachePayload {
	store := cc.Store()
	if store == nil {
		return compileCachePayload{Size: humanize.Bytes(0)}
	}
	payload := compileCachePayload{
		Enabled: true,
		Dir:     store.Dir(),
	}
	stats, err := store.Stats()
	if err != nil {
		payload.Error = err.Error()
	}
	payload.Entries = stats.Entries
	payload.SizeBytes = stats.SizeBytes
	payload.Size = humanize.Bytes(uint64(stats.SizeBytes))
	return payload
}
