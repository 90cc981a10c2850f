package history

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// DefaultLimit 浏览历史默认返回条数
const DefaultLimit = 100

// View 浏览记录，只追加不去重
type View struct {
	ID        string
	UserID    string
	BookID    string
	ViewTime  int64
	CreatedAt int64
	UpdatedAt int64
}

// NewView 创建浏览记录
func NewView(userID, bookID string, now time.Time) *View {
	ts := now.Unix()
	return &View{
		ID:        uuid.NewString(),
		UserID:    userID,
		BookID:    bookID,
		ViewTime:  ts,
		CreatedAt: ts,
		UpdatedAt: ts,
	}
}

// Repository 浏览历史仓储
type Repository interface {
	Create(ctx context.Context, v *View) error

	// ListByUser 按浏览时间倒序
	ListByUser(ctx context.Context, userID string, limit int) ([]*View, error)
}
