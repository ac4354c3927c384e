package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
)

// attemptScript 计数加一，第一次计数时设置窗口
var attemptScript = redis.NewScript(`
local n = redis.call('INCR', KEYS[1])
if n == 1 then
	redis.call('PEXPIRE', KEYS[1], ARGV[1])
end
return n
`)

// AttemptLimiter 按 项目+IP 统计窗口内的密码校验次数
// nil 值表示不限流
type AttemptLimiter struct {
	rdb    *redis.Client
	max    int64
	window time.Duration
}

// NewAttemptLimiter rdb 为 nil 或 max <= 0 时返回 nil
func NewAttemptLimiter(rdb *redis.Client, max int, window time.Duration) *AttemptLimiter {
	if rdb == nil || max <= 0 {
		return nil
	}
	return &AttemptLimiter{rdb: rdb, max: int64(max), window: window}
}

func (l *AttemptLimiter) key(projectID uint, ip string) string {
	return fmt.Sprintf("recruit:verify:%d:%s", projectID, ip)
}

// Attempt 占用一次校验机会，窗口内超过上限返回 false
// 计数与判断是同一次 redis 调用，并发请求不会超出上限
func (l *AttemptLimiter) Attempt(ctx context.Context, projectID uint, ip string) (bool, error) {
	if l == nil {
		return true, nil
	}
	n, err := attemptScript.Run(ctx, l.rdb, []string{l.key(projectID, ip)}, l.window.Milliseconds()).Int64()
	if err != nil {
		return false, errors.WithStack(err)
	}
	return n <= l.max, nil
}

// Reset 校验成功后清除计数
func (l *AttemptLimiter) Reset(ctx context.Context, projectID uint, ip string) error {
	if l == nil {
		return nil
	}
	return errors.WithStack(l.rdb.Del(ctx, l.key(projectID, ip)).Err())
}
