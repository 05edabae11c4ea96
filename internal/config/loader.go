package config

import (
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
)

// Load 读取并解析 TOML 配置文件，同时注入默认值与校验逻辑。
func Load(path string) (*Config, error) {
	if path == "" {
		path = "config.toml"
	}

	v := viper.New()
	v.SetConfigFile(path)
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("读取配置失败: %w", err)
	}

	var cfg Config
	hook := mapstructure.ComposeDecodeHookFunc(
		cacheControlDecodeHook(),
		mapstructure.StringToSliceHookFunc(","),
	)
	if err := v.Unmarshal(&cfg, viper.DecodeHook(hook)); err != nil {
		return nil, fmt.Errorf("解析配置失败: %w", err)
	}

	if err := applyAssetDefaults(&cfg.Assets); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ListenPort", 5000)
	v.SetDefault("LogLevel", "info")
	v.SetDefault("LogFilePath", "")
	v.SetDefault("LogMaxSize", 100)
	v.SetDefault("LogMaxBackups", 10)
	v.SetDefault("LogCompress", true)
	v.SetDefault("Assets.Prefix", "/assets")
	v.SetDefault("Assets.URLs", []string{"/javascripts"})
	v.SetDefault("Assets.CacheControl", false)
	v.SetDefault("Assets.SourceExt", ".ts")
	v.SetDefault("Assets.CompiledExt", ".js")
	v.SetDefault("Assets.Compiler", CompilerEsbuild)
}

// applyAssetDefaults 补齐 Root 等依赖运行环境的默认值，并将路径转为绝对路径。
func applyAssetDefaults(a *AssetsConfig) error {
	a.Compiler = strings.ToLower(strings.TrimSpace(a.Compiler))
	if a.Compiler == "" {
		a.Compiler = CompilerEsbuild
	}
	if len(a.URLs) == 0 {
		a.URLs = []string{"/javascripts"}
	}

	root := strings.TrimSpace(a.Root)
	if root == "" {
		wd, err := os.Getwd()
		if err != nil {
			return fmt.Errorf("无法获取工作目录: %w", err)
		}
		root = wd
	}
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return fmt.Errorf("无法解析 Root 目录: %w", err)
	}
	a.Root = absRoot

	if a.CacheCompileDir != "" {
		absDir, err := filepath.Abs(a.CacheCompileDir)
		if err != nil {
			return fmt.Errorf("无法解析编译缓存目录: %w", err)
		}
		a.CacheCompileDir = absDir
	}
	return nil
}

// cacheControlDecodeHook 把 CacheControl 的多种写法（bool/int/列表）折叠成头部值。
func cacheControlDecodeHook() mapstructure.DecodeHookFunc {
	targetType := reflect.TypeOf(CacheControl(""))

	return func(from reflect.Type, to reflect.Type, data interface{}) (interface{}, error) {
		if to != targetType {
			return data, nil
		}
		parsed, err := ParseCacheControl(data)
		if err != nil {
			return nil, newFieldError("Assets.CacheControl", err.Error())
		}
		return parsed, nil
	}
}
