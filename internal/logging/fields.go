package logging

import "github.com/sirupsen/logrus"

// BaseFields 构建 action + 配置路径等基础字段，便于不同入口复用。
func BaseFields(action, configPath string) logrus.Fields {
	return logrus.Fields{
		"action":     action,
		"configPath": configPath,
	}
}

// AssetFields 提供单次资源请求的公共字段，供中间件日志复用。
func AssetFields(requestID, path, outcome string) logrus.Fields {
	return logrus.Fields{
		"action":     "asset",
		"request_id": requestID,
		"path":       path,
		"outcome":    outcome,
	}
}

// ServeFields 追加命中文件与编译/缓存状态。
func ServeFields(fields logrus.Fields, file string, compiled, cacheHit bool) logrus.Fields {
	fields["file"] = file
	fields["compiled"] = compiled
	fields["cache_hit"] = cacheHit
	return fields
}
