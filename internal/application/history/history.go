package history

import (
	"context"
	"time"

	"github.com/xiebiao/library/internal/domain/book"
	"github.com/xiebiao/library/internal/domain/history"
	"github.com/xiebiao/library/pkg/logger"
)

// UseCase 浏览历史
type UseCase struct {
	historyRepo history.Repository
	bookRepo    book.Repository
}

// NewUseCase 创建浏览历史用例
func NewUseCase(historyRepo history.Repository, bookRepo book.Repository) *UseCase {
	return &UseCase{historyRepo: historyRepo, bookRepo: bookRepo}
}

// Item 浏览历史项
type Item struct {
	HistoryID string `json:"history_id"`
	BookID    string `json:"book_id"`
	Title     string `json:"title"`
	Author    string `json:"author"`
	Cover     string `json:"cover"`
	Category  string `json:"category"`
	ViewTime  int64  `json:"view_time"`
}

// Record 记录一次浏览，失败只记日志
func (uc *UseCase) Record(ctx context.Context, userID, bookID string) {
	if userID == "" {
		return
	}
	if err := uc.historyRepo.Create(ctx, history.NewView(userID, bookID, time.Now())); err != nil {
		logger.L().WithError(err).WithField("book_id", bookID).Warn("记录浏览历史失败")
	}
}

// List 最近浏览，按时间倒序
func (uc *UseCase) List(ctx context.Context, userID string) ([]Item, error) {
	views, err := uc.historyRepo.ListByUser(ctx, userID, history.DefaultLimit)
	if err != nil {
		return nil, err
	}
	ids := make([]string, len(views))
	for i, v := range views {
		ids[i] = v.BookID
	}
	books, err := uc.bookRepo.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	items := make([]Item, 0, len(views))
	for _, v := range views {
		b, ok := books[v.BookID]
		if !ok {
			continue
		}
		items = append(items, Item{
			HistoryID: v.ID,
			BookID:    v.BookID,
			Title:     b.Title,
			Author:    b.Author,
			Cover:     b.Cover,
			Category:  b.Category,
			ViewTime:  v.ViewTime,
		})
	}
	return items, nil
}
