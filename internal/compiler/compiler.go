// Package compiler provides the transpile step used for source-form assets.
// The asset pipeline only depends on the Compiler interface; the concrete
// implementations wrap esbuild's in-process transform API or an external
// command that reads source on stdin and prints JavaScript on stdout.
package compiler

import (
	"context"
	"fmt"
	"strings"

	"github.com/any-hub/jsbrew/internal/config"
)

// Compiler 把源码形式的脚本转换成可直接下发的 JavaScript。
type Compiler interface {
	Compile(ctx context.Context, name string, source []byte) ([]byte, error)
	Name() string
}

// Options 是所有实现共享的编译参数。
type Options struct {
	// Bare 为 true 时不包裹顶层闭包。
	Bare bool
}

// Func adapts a plain function to the Compiler interface.
type Func func(ctx context.Context, name string, source []byte) ([]byte, error)

// Compile makes Func satisfy Compiler.
func (f Func) Compile(ctx context.Context, name string, source []byte) ([]byte, error) {
	return f(ctx, name, source)
}

// Name reports a generic label for ad-hoc compilers.
func (f Func) Name() string {
	return "func"
}

// CompileError 表示源码本身无法编译（语法错误等），调用方可用 errors.As 识别。
type CompileError struct {
	File     string
	Messages []string
	Err      error
}

func (e *CompileError) Error() string {
	msg := strings.Join(e.Messages, "; ")
	if msg == "" && e.Err != nil {
		msg = e.Err.Error()
	}
	return fmt.Sprintf("compile %s: %s", e.File, msg)
}

func (e *CompileError) Unwrap() error {
	return e.Err
}

// FromConfig 根据 [Assets] 配置选择编译器实现。
func FromConfig(a config.AssetsConfig) (Compiler, error) {
	opts := Options{Bare: a.Bare}
	switch a.Compiler {
	case "", config.CompilerEsbuild:
		return NewEsbuild(opts), nil
	case config.CompilerCommand:
		return NewCommand(a.CompilerCommand, opts)
	default:
		return nil, fmt.Errorf("unsupported compiler: %s", a.Compiler)
	}
}
