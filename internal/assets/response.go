package assets

import (
	"net/http"
	"time"
)

const (
	ContentTypeJavaScript = "application/javascript"
	ContentTypeText       = "text/plain"
)

// Outcome 描述一次请求在状态机中的终态类别。
type Outcome int

const (
	// OutcomeDelegate 表示交给下一个 handler（未命中前缀或找不到文件）。
	OutcomeDelegate Outcome = iota
	// OutcomeForbidden 表示路径包含 ..，直接返回 403。
	OutcomeForbidden
	// OutcomeHandled 表示已生成 200 或 304 响应。
	OutcomeHandled
)

// Response 是与框架无关的响应描述。
type Response struct {
	Status int
	Header http.Header
	Body   []byte
}

// Result 是 Pipeline.Serve 的三态结果。
type Result struct {
	Outcome  Outcome
	Response Response
	File     *ResolvedFile
	Compiled bool
	CacheHit bool
}

// Label 返回用于日志的终态名称。
func (r Result) Label() string {
	switch r.Outcome {
	case OutcomeForbidden:
		return "forbidden"
	case OutcomeHandled:
		if r.Response.Status == http.StatusNotModified {
			return "not_modified"
		}
		return "served"
	default:
		return "delegate"
	}
}

// Headers 构造 200 响应头；cacheControl 为空时不输出 Cache-Control。
func Headers(lastModified time.Time, cacheControl string) http.Header {
	h := http.Header{}
	h.Set("Content-Type", ContentTypeJavaScript)
	h.Set("Last-Modified", lastModified.UTC().Format(http.TimeFormat))
	if cacheControl != "" {
		h.Set("Cache-Control", cacheControl)
	}
	return h
}

func delegate() Result {
	return Result{Outcome: OutcomeDelegate}
}

func forbidden() Result {
	h := http.Header{}
	h.Set("Content-Type", ContentTypeText)
	return Result{
		Outcome: OutcomeForbidden,
		Response: Response{
			Status: http.StatusForbidden,
			Header: h,
			Body:   []byte("Forbidden\n"),
		},
	}
}

func notModified(file *ResolvedFile) Result {
	return Result{
		Outcome: OutcomeHandled,
		File:    file,
		Response: Response{
			Status: http.StatusNotModified,
			Header: http.Header{},
			Body:   []byte("Not modified"),
		},
	}
}
