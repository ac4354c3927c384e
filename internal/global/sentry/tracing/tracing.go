// Package tracing 把 GORM、Redis 与 Resty 的调用挂到当前请求的 Sentry span 下
package tracing

import (
	"context"

	"team-recruit/config"

	"github.com/getsentry/sentry-go"
)

// IsEnabled 是否配置了 Sentry
func IsEnabled() bool {
	return config.Get().Sentry.Dsn != ""
}

// StartSpan 在 ctx 当前 span 下开子 span，没有父 span 时返回 nil
// 调用方需判空：if span != nil { defer span.Finish() }
func StartSpan(ctx context.Context, operation, description string) *sentry.Span {
	parent := sentry.SpanFromContext(ctx)
	if parent == nil {
		return nil
	}
	span := parent.StartChild(operation)
	span.Description = description
	return span
}
