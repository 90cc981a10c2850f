package verification

import (
	"context"
	"time"
)

// Repository 验证码仓储
type Repository interface {
	// Save 写入验证码，覆盖该邮箱已有的验证码
	Save(ctx context.Context, code *Code) error

	// Get 不存在返回ErrCodeNotFound
	Get(ctx context.Context, email string) (*Code, error)

	// Delete 验证成功后删除
	Delete(ctx context.Context, email string) error
}

// Throttle 发送频率限制
type Throttle interface {
	// Acquire 在interval内对同一邮箱只返回一次true
	Acquire(ctx context.Context, email string, interval time.Duration) (bool, error)
}
