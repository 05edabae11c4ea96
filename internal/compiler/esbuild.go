package compiler

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/evanw/esbuild/pkg/api"
)

// Esbuild 使用 esbuild 的 Transform API 在进程内转译 TypeScript/JSX。
type Esbuild struct {
	format api.Format
}

// NewEsbuild 构造 esbuild 编译器；非 Bare 模式输出 IIFE 包裹的代码。
func NewEsbuild(opts Options) *Esbuild {
	format := api.FormatIIFE
	if opts.Bare {
		format = api.FormatDefault
	}
	return &Esbuild{format: format}
}

func (e *Esbuild) Name() string {
	return "esbuild"
}

func (e *Esbuild) Compile(ctx context.Context, name string, source []byte) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	result := api.Transform(string(source), api.TransformOptions{
		Loader:     loaderFor(name),
		Format:     e.format,
		Sourcefile: filepath.Base(name),
		LogLevel:   api.LogLevelSilent,
	})
	if len(result.Errors) > 0 {
		return nil, &CompileError{File: name, Messages: formatMessages(result.Errors)}
	}
	return result.Code, nil
}

func loaderFor(name string) api.Loader {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".ts", ".mts", ".cts":
		return api.LoaderTS
	case ".tsx":
		return api.LoaderTSX
	case ".jsx":
		return api.LoaderJSX
	default:
		return api.LoaderJS
	}
}

func formatMessages(msgs []api.Message) []string {
	out := make([]string, 0, len(msgs))
	for _, m := range msgs {
		if m.Location != nil {
			out = append(out, fmt.Sprintf("%d:%d: %s", m.Location.Line, m.Location.Column, m.Text))
			continue
		}
		out = append(out, m.Text)
	}
	return out
}
