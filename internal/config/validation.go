package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
)

// Validate 针对语义级别做进一步校验，防止非法配置启动服务。
func (c *Config) Validate() error {
	if c == nil {
		return errors.New("配置为空")
	}

	g := c.Global
	if g.ListenPort <= 0 || g.ListenPort > 65535 {
		return newFieldError("Global.ListenPort", "必须在 1-65535")
	}
	return c.Assets.Validate()
}

// Validate 校验 [Assets] 表；Root 必须是已存在的目录。
func (a *AssetsConfig) Validate() error {
	if a == nil {
		return errors.New("Assets 配置为空")
	}
	if !strings.HasPrefix(a.Prefix, "/") {
		return newFieldError(assetField("Prefix"), "必须以 / 开头")
	}
	if strings.Contains(a.Prefix, "..") {
		return newFieldError(assetField("Prefix"), "不允许包含 ..")
	}
	if len(a.URLs) == 0 {
		return newFieldError(assetField("URLs"), "至少需要一个目录")
	}
	for i, u := range a.URLs {
		if strings.TrimSpace(u) == "" {
			return newFieldError(fmt.Sprintf("%s[%d]", assetField("URLs"), i), "不能为空")
		}
		if strings.Contains(u, "..") {
			return newFieldError(fmt.Sprintf("%s[%d]", assetField("URLs"), i), "不允许包含 ..")
		}
	}

	info, err := os.Stat(a.Root)
	if err != nil {
		return newFieldError(assetField("Root"), fmt.Sprintf("无法访问: %v", err))
	}
	if !info.IsDir() {
		return newFieldError(assetField("Root"), "必须是目录")
	}

	if err := validateExt(assetField("SourceExt"), a.SourceExt); err != nil {
		return err
	}
	if err := validateExt(assetField("CompiledExt"), a.CompiledExt); err != nil {
		return err
	}
	if a.SourceExt == a.CompiledExt {
		return newFieldError(assetField("SourceExt"), "不能与 CompiledExt 相同")
	}

	if a.MemoryCacheEntries < 0 {
		return newFieldError(assetField("MemoryCacheEntries"), "不能为负数")
	}
	if a.CacheCompileDir != "" && !a.CacheCompile {
		return newFieldError(assetField("CacheCompileDir"), "需要同时开启 CacheCompile")
	}

	switch a.Compiler {
	case CompilerEsbuild:
	case CompilerCommand:
		if len(a.CompilerCommand) == 0 || strings.TrimSpace(a.CompilerCommand[0]) == "" {
			return newFieldError(assetField("CompilerCommand"), "Compiler=command 时不能为空")
		}
	default:
		return newFieldError(assetField("Compiler"), "仅支持 esbuild|command")
	}

	return nil
}

func validateExt(field, ext string) error {
	if !strings.HasPrefix(ext, ".") || len(ext) < 2 {
		return newFieldError(field, "必须形如 .js")
	}
	if strings.ContainsAny(ext, `/\`) {
		return newFieldError(field, "不允许包含路径分隔符")
	}
	return nil
}
