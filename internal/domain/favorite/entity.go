package favorite

import (
	"context"
	"time"

	"github.com/google/uuid"

	apperrors "github.com/xiebiao/library/pkg/errors"
)

// Favorite 收藏，(UserID, BookID)唯一
type Favorite struct {
	ID        string
	UserID    string
	BookID    string
	CreatedAt int64
	UpdatedAt int64
}

// NewFavorite 创建收藏
func NewFavorite(userID, bookID string) *Favorite {
	now := time.Now().Unix()
	return &Favorite{
		ID:        uuid.NewString(),
		UserID:    userID,
		BookID:    bookID,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

var (
	// ErrAlreadyFavorited 重复收藏
	ErrAlreadyFavorited = apperrors.New(apperrors.ErrCodeDuplicateEntry, "已收藏")

	// ErrFavoriteNotFound 未收藏
	ErrFavoriteNotFound = apperrors.New(apperrors.ErrCodeNotFound, "未收藏该图书")
)

// Repository 收藏仓储
type Repository interface {
	// Create 已收藏返回ErrAlreadyFavorited
	Create(ctx context.Context, f *Favorite) error

	// Delete 未收藏返回ErrFavoriteNotFound
	Delete(ctx context.Context, userID, bookID string) error

	Exists(ctx context.Context, userID, bookID string) (bool, error)

	// ListByUser 按收藏时间倒序
	ListByUser(ctx context.Context, userID string) ([]*Favorite, error)
}
