package redis

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/xiebiao/library/internal/domain/user"
	"github.com/xiebiao/library/pkg/logger"
)

// cachedUserRepository 带读穿缓存的用户仓储
//
// 只缓存FindByID（user:{id}），写操作后删除缓存。
// 缓存只影响延迟：Redis出错时直接回源，不影响结果
type cachedUserRepository struct {
	user.Repository
	client *redis.Client
	ttl    time.Duration
}

// NewCachedUserRepository 包装用户仓储
func NewCachedUserRepository(next user.Repository, client *redis.Client, ttl time.Duration) user.Repository {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &cachedUserRepository{Repository: next, client: client, ttl: ttl}
}

func userKey(id string) string {
	return "user:" + id
}

func (r *cachedUserRepository) FindByID(ctx context.Context, id string) (*user.User, error) {
	data, err := r.client.Get(ctx, userKey(id)).Bytes()
	if err == nil {
		var u user.User
		if jerr := json.Unmarshal(data, &u); jerr == nil {
			return &u, nil
		}
	} else if !errors.Is(err, redis.Nil) {
		logger.L().WithError(err).WithField("user_id", id).Warn("读取用户缓存失败，回源查询")
	}

	u, err := r.Repository.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	r.set(ctx, u)
	return u, nil
}

func (r *cachedUserRepository) UpdateProfile(ctx context.Context, id string, patch user.ProfilePatch) error {
	if err := r.Repository.UpdateProfile(ctx, id, patch); err != nil {
		return err
	}
	r.invalidate(ctx, id)
	return nil
}

func (r *cachedUserRepository) UpdatePassword(ctx context.Context, email, hashedPassword string) error {
	if err := r.Repository.UpdatePassword(ctx, email, hashedPassword); err != nil {
		return err
	}
	r.invalidateEmail(ctx, email)
	return nil
}

func (r *cachedUserRepository) UpdateRole(ctx context.Context, email string, role user.Role) error {
	if err := r.Repository.UpdateRole(ctx, email, role); err != nil {
		return err
	}
	r.invalidateEmail(ctx, email)
	return nil
}

func (r *cachedUserRepository) set(ctx context.Context, u *user.User) {
	data, err := json.Marshal(u)
	if err != nil {
		return
	}
	if err := r.client.Set(ctx, userKey(u.ID), data, r.ttl).Err(); err != nil {
		logger.L().WithError(err).WithField("user_id", u.ID).Warn("写入用户缓存失败")
	}
}

func (r *cachedUserRepository) invalidate(ctx context.Context, id string) {
	if err := r.client.Del(ctx, userKey(id)).Err(); err != nil {
		logger.L().WithFields(logrus.Fields{"user_id": id}).WithError(err).Warn("删除用户缓存失败")
	}
}

func (r *cachedUserRepository) invalidateEmail(ctx context.Context, email string) {
	u, err := r.Repository.FindByEmail(ctx, email)
	if err != nil {
		return
	}
	r.invalidate(ctx, u.ID)
}
