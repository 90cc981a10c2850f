package redis

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	apperrors "github.com/xiebiao/library/pkg/errors"
)

// SessionStore 会话存储
// Key设计：
//   - session:{user_id}  最近一次登录信息（Hash）
//   - token:{jti}        Token → user_id，有效期与Token一致
//   - blacklist:{jti}    已登出的Token
type SessionStore struct {
	client *redis.Client
}

// NewSessionStore 创建会话存储
func NewSessionStore(client *redis.Client) *SessionStore {
	return &SessionStore{client: client}
}

// SaveSession 保存登录信息（登录时间、IP等），有效期与Refresh Token一致
func (s *SessionStore) SaveSession(ctx context.Context, userID string, sessionData map[string]interface{}, ttl time.Duration) error {
	key := "session:" + userID

	pipe := s.client.TxPipeline()
	pipe.HSet(ctx, key, sessionData)
	pipe.Expire(ctx, key, ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return apperrors.ErrRedisError.WithCause(err)
	}
	return nil
}

// GetSession 获取登录信息
func (s *SessionStore) GetSession(ctx context.Context, userID string) (map[string]string, error) {
	result, err := s.client.HGetAll(ctx, "session:"+userID).Result()
	if err != nil {
		return nil, apperrors.ErrRedisError.WithCause(err)
	}
	if len(result) == 0 {
		return nil, apperrors.ErrUnauthorized
	}
	return result, nil
}

// DeleteSession 删除登录信息（登出）
func (s *SessionStore) DeleteSession(ctx context.Context, userID string) error {
	if err := s.client.Del(ctx, "session:"+userID).Err(); err != nil {
		return apperrors.ErrRedisError.WithCause(err)
	}
	return nil
}

// SaveToken 缓存Token → user_id映射
func (s *SessionStore) SaveToken(ctx context.Context, jti, userID string, ttl time.Duration) error {
	if err := s.client.Set(ctx, "token:"+jti, userID, ttl).Err(); err != nil {
		return apperrors.ErrRedisError.WithCause(err)
	}
	return nil
}

// TokenUser 查询Token对应的user_id，未缓存时ok为false
func (s *SessionStore) TokenUser(ctx context.Context, jti string) (string, bool, error) {
	userID, err := s.client.Get(ctx, "token:"+jti).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", false, nil
		}
		return "", false, apperrors.ErrRedisError.WithCause(err)
	}
	return userID, true, nil
}

// AddToBlacklist 将Token加入黑名单，并删除其映射
// ttl取Token剩余有效期，过期后自动清理
func (s *SessionStore) AddToBlacklist(ctx context.Context, jti string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	pipe := s.client.TxPipeline()
	pipe.Set(ctx, "blacklist:"+jti, "revoked", ttl)
	pipe.Del(ctx, "token:"+jti)
	if _, err := pipe.Exec(ctx); err != nil {
		return apperrors.ErrRedisError.WithCause(err)
	}
	return nil
}

// IsInBlacklist 检查Token是否在黑名单中
func (s *SessionStore) IsInBlacklist(ctx context.Context, jti string) (bool, error) {
	exists, err := s.client.Exists(ctx, "blacklist:"+jti).Result()
	if err != nil {
		return false, apperrors.ErrRedisError.WithCause(err)
	}
	return exists > 0, nil
}
