package config

import (
	"fmt"
	"strings"
)

// GlobalConfig 描述进程级运行参数（监听端口与日志输出）。
type GlobalConfig struct {
	ListenPort    int    `mapstructure:"ListenPort"`
	LogLevel      string `mapstructure:"LogLevel"`
	LogFilePath   string `mapstructure:"LogFilePath"`
	LogMaxSize    int    `mapstructure:"LogMaxSize"`
	LogMaxBackups int    `mapstructure:"LogMaxBackups"`
	LogCompress   bool   `mapstructure:"LogCompress"`
}

// AssetsConfig 对应 [Assets] 表，启动时构建一次，之后只读。
type AssetsConfig struct {
	Prefix             string       `mapstructure:"Prefix"`
	URLs               []string     `mapstructure:"URLs"`
	Root               string       `mapstructure:"Root"`
	CacheControl       CacheControl `mapstructure:"CacheControl"`
	CacheCompile       bool         `mapstructure:"CacheCompile"`
	CacheCompileDir    string       `mapstructure:"CacheCompileDir"`
	MemoryCacheEntries int          `mapstructure:"MemoryCacheEntries"`
	Bare               bool         `mapstructure:"Bare"`
	SourceExt          string       `mapstructure:"SourceExt"`
	CompiledExt        string       `mapstructure:"CompiledExt"`
	Compiler           string       `mapstructure:"Compiler"`
	CompilerCommand    []string     `mapstructure:"CompilerCommand"`
	StaticFallback     bool         `mapstructure:"StaticFallback"`
}

// Config 是 TOML 文件映射的整体结构。
type Config struct {
	Global GlobalConfig `mapstructure:",squash"`
	Assets AssetsConfig `mapstructure:"Assets"`
}

const (
	CompilerEsbuild = "esbuild"
	CompilerCommand = "command"
)

// CompileCacheMode 输出 `off`/`tempdir`/`dir`，供日志字段使用。
func (a AssetsConfig) CompileCacheMode() string {
	switch {
	case !a.CacheCompile:
		return "off"
	case a.CacheCompileDir != "":
		return "dir"
	default:
		return "tempdir"
	}
}

// Summary 返回一行可读的挂载描述，例如 /assets -> /srv/app[/javascripts]。
func (a AssetsConfig) Summary() string {
	return fmt.Sprintf("%s -> %s[%s]", a.Prefix, a.Root, strings.Join(a.URLs, ","))
}
