package redis

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	apperrors "github.com/xiebiao/library/pkg/errors"
)

// CodeThrottle 验证码发送频率限制
// SETNX verify:throttle:{email}，key存在期间拒绝再次发送
type CodeThrottle struct {
	client *redis.Client
}

// NewCodeThrottle 创建频率限制器
func NewCodeThrottle(client *redis.Client) *CodeThrottle {
	return &CodeThrottle{client: client}
}

// Acquire 在interval内对同一邮箱只返回一次true
func (t *CodeThrottle) Acquire(ctx context.Context, email string, interval time.Duration) (bool, error) {
	ok, err := t.client.SetNX(ctx, "verify:throttle:"+email, 1, interval).Result()
	if err != nil {
		return false, apperrors.ErrRedisError.WithCause(err)
	}
	return ok, nil
}
