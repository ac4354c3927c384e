package httpclient

import (
	"time"

	"team-recruit/internal/global/sentry/tracing"

	"github.com/go-resty/resty/v2"
)

// New 创建出站 HTTP 客户端，失败重试两次
func New() *resty.Client {
	client := resty.New().
		SetTimeout(10 * time.Second).
		SetRetryCount(2).
		SetRetryWaitTime(500 * time.Millisecond)

	if tracing.IsEnabled() {
		tracing.SetupResty(client)
	}
	return client
}
