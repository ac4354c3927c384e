package tracing

import (
	"context"
	"net"
	"strings"
	"time"

	"team-recruit/config"

	"github.com/getsentry/sentry-go"
	"github.com/redis/go-redis/v9"
)

// RedisHook 实现 redis.Hook，为命令与 pipeline 创建 span
type RedisHook struct {
	slowThreshold time.Duration
}

func NewRedisHook() *RedisHook {
	return &RedisHook{
		slowThreshold: time.Duration(config.Get().Sentry.Tracing.RedisSlowThresholdMs) * time.Millisecond,
	}
}

func (h *RedisHook) DialHook(next redis.DialHook) redis.DialHook {
	return func(ctx context.Context, network, addr string) (net.Conn, error) {
		return next(ctx, network, addr)
	}
}

func (h *RedisHook) ProcessHook(next redis.ProcessHook) redis.ProcessHook {
	return func(ctx context.Context, cmd redis.Cmder) error {
		span, ctx := h.start(ctx, "db.redis", strings.ToUpper(cmd.Name()))
		startTime := time.Now()
		err := next(ctx, cmd)
		h.finish(span, startTime, err)
		return err
	}
}

func (h *RedisHook) ProcessPipelineHook(next redis.ProcessPipelineHook) redis.ProcessPipelineHook {
	return func(ctx context.Context, cmds []redis.Cmder) error {
		names := make([]string, 0, len(cmds))
		for _, cmd := range cmds {
			names = append(names, strings.ToUpper(cmd.Name()))
		}
		span, ctx := h.start(ctx, "db.redis.pipeline", "PIPELINE: "+strings.Join(names, ", "))
		startTime := time.Now()
		err := next(ctx, cmds)
		h.finish(span, startTime, err)
		return err
	}
}

func (h *RedisHook) start(ctx context.Context, op, desc string) (*sentry.Span, context.Context) {
	parent := sentry.SpanFromContext(ctx)
	if parent == nil {
		return nil, ctx
	}
	span := parent.StartChild(op)
	span.Description = desc
	span.SetData("db.system", "redis")
	return span, span.Context()
}

func (h *RedisHook) finish(span *sentry.Span, startTime time.Time, err error) {
	if span == nil {
		return
	}
	if h.slowThreshold > 0 && time.Since(startTime) < h.slowThreshold {
		span.Sampled = sentry.SampledFalse
	}
	if err != nil && err != redis.Nil {
		span.Status = sentry.SpanStatusInternalError
		span.SetData("redis.error", err.Error())
	} else {
		span.Status = sentry.SpanStatusOK
	}
	span.Finish()
}
