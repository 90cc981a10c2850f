package comment

import (
	"context"
)

// Repository 评论仓储接口
type Repository interface {
	Create(ctx context.Context, c *Comment) error

	// FindByID 不存在返回ErrCommentNotFound
	FindByID(ctx context.Context, id string) (*Comment, error)

	// ListByBook 图书的全部评论(含回复)
	ListByBook(ctx context.Context, bookID string) ([]*Comment, error)

	// AdjustLikes 原子地调整点赞数(不低于0)并刷新作者快照，返回调整后的评论
	// 返回error时点赞数一定没有变化；写入成功但回读失败时返回(nil, nil)
	AdjustLikes(ctx context.Context, id string, delta int, displayName, avatarURL string) (*Comment, error)

	// SetLikes 直接写入点赞数，用于按点赞关系重算
	SetLikes(ctx context.Context, id string, likes int) error
}

// LikeRepository 点赞关系仓储
type LikeRepository interface {
	// Create 已存在返回ErrAlreadyLiked
	Create(ctx context.Context, like *Like) error

	// Delete 不存在返回ErrNotLiked
	Delete(ctx context.Context, commentID, userID string) error

	Exists(ctx context.Context, commentID, userID string) (bool, error)

	// LikedSet 用户在给定评论中点赞过的评论ID集合
	LikedSet(ctx context.Context, userID string, commentIDs []string) (map[string]bool, error)

	// Count 评论的点赞关系数
	Count(ctx context.Context, commentID string) (int64, error)
}
