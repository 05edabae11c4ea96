package config

import (
	"fmt"
	"strings"

	"github.com/spf13/cast"
)

// DefaultCacheControlTTL 是仅开启 CacheControl 而未给出 TTL 时使用的秒数。
const DefaultCacheControlTTL = 86400

// CacheControl 保存解析后的 Cache-Control 头部值；空字符串表示不输出该头。
type CacheControl string

// Header 返回最终的头部值。
func (c CacheControl) Header() string {
	return string(c)
}

// Enabled 表示是否需要输出 Cache-Control。
func (c CacheControl) Enabled() bool {
	return c != ""
}

// ParseCacheControl 接受 false | ttl | ["public"] | [ttl, "public"] | true 等写法。
// 列表先被展开为字符串：首项为 false 或空时关闭；首项为正整数时作为 TTL 消费，
// 否则使用默认 TTL；随后首项为 public 时追加 ", public"。
func ParseCacheControl(raw interface{}) (CacheControl, error) {
	given, err := flattenStrings(raw)
	if err != nil {
		return "", err
	}
	if len(given) == 0 || given[0] == "false" || given[0] == "" {
		return "", nil
	}

	ttl := DefaultCacheControlTTL
	if n, err := cast.ToIntE(given[0]); err == nil && n > 0 {
		ttl = n
		given = given[1:]
	}

	public := ""
	if len(given) > 0 && given[0] == "public" {
		public = ", public"
	}
	return CacheControl(fmt.Sprintf("max-age=%d%s", ttl, public)), nil
}

func flattenStrings(raw interface{}) ([]string, error) {
	switch v := raw.(type) {
	case nil:
		return nil, nil
	case []interface{}:
		out := make([]string, 0, len(v))
		for _, item := range v {
			nested, err := flattenStrings(item)
			if err != nil {
				return nil, err
			}
			if len(nested) == 0 {
				nested = []string{""}
			}
			out = append(out, nested...)
		}
		return out, nil
	case []string:
		return append([]string(nil), v...), nil
	default:
		s, err := cast.ToStringE(v)
		if err != nil {
			return nil, fmt.Errorf("不支持的 CacheControl 类型: %T", raw)
		}
		return []string{strings.TrimSpace(s)}, nil
	}
}
