package database

import (
	"context"

	"gorm.io/gorm"

	"github.com/xiebiao/library/internal/domain/history"
)

type historyRepository struct {
	table *Table[ViewHistoryModel]
}

// NewHistoryRepository 创建浏览历史仓储
func NewHistoryRepository(db *gorm.DB) history.Repository {
	return &historyRepository{table: NewTable[ViewHistoryModel](db)}
}

func (r *historyRepository) Create(ctx context.Context, v *history.View) error {
	return r.table.Put(ctx, &ViewHistoryModel{
		HistoryID: v.ID,
		UserID:    v.UserID,
		BookID:    v.BookID,
		ViewTime:  v.ViewTime,
		CreatedAt: v.CreatedAt,
		UpdatedAt: v.UpdatedAt,
	}, ExpectNotExist)
}

func (r *historyRepository) ListByUser(ctx context.Context, userID string, limit int) ([]*history.View, error) {
	if limit <= 0 {
		limit = history.DefaultLimit
	}
	rows, err := r.table.Scan(ctx, ScanQuery{
		Filter:  Key{"user_id": userID},
		Limit:   limit,
		OrderBy: "view_time",
		Desc:    true,
	})
	if err != nil {
		return nil, err
	}
	out := make([]*history.View, len(rows))
	for i, m := range rows {
		out[i] = &history.View{
			ID:        m.HistoryID,
			UserID:    m.UserID,
			BookID:    m.BookID,
			ViewTime:  m.ViewTime,
			CreatedAt: m.CreatedAt,
			UpdatedAt: m.UpdatedAt,
		}
	}
	return out, nil
}
