package book

import (
	"context"

	"github.com/xiebiao/library/internal/application/history"
	"github.com/xiebiao/library/internal/application/reservation"
	"github.com/xiebiao/library/internal/domain/book"
	"github.com/xiebiao/library/internal/domain/borrow"
	"github.com/xiebiao/library/internal/domain/favorite"
)

// borrowHistoryLimit 详情页展示的借阅记录条数
const borrowHistoryLimit = 50

// GetBookUseCase 图书详情
// 1. 图书基本信息和借阅历史
// 2. 登录用户附带是否已收藏，并记录一次浏览
// 3. 库存为0时附带最早可借日期
type GetBookUseCase struct {
	bookService  book.Service
	borrowRepo   borrow.Repository
	favoriteRepo favorite.Repository
	history      *history.UseCase
}

// NewGetBookUseCase 创建详情用例
func NewGetBookUseCase(
	bookService book.Service,
	borrowRepo borrow.Repository,
	favoriteRepo favorite.Repository,
	history *history.UseCase,
) *GetBookUseCase {
	return &GetBookUseCase{
		bookService:  bookService,
		borrowRepo:   borrowRepo,
		favoriteRepo: favoriteRepo,
		history:      history,
	}
}

// BorrowHistoryItem 借阅历史项
type BorrowHistoryItem struct {
	BorrowID   string `json:"borrow_id"`
	UserID     string `json:"user_id"`
	BorrowDate int64  `json:"borrow_date"`
	DueDate    int64  `json:"due_date"`
	ReturnDate int64  `json:"return_date"`
	Status     string `json:"status"`
}

// BookDetail 图书详情响应
type BookDetail struct {
	BookView
	BorrowHistory         []BorrowHistoryItem `json:"borrow_history"`
	IsFavorite            bool                `json:"is_favorite"`
	EarliestAvailableDate string              `json:"earliest_available_date,omitempty"`
}

// Execute viewerID为空表示未登录
func (uc *GetBookUseCase) Execute(ctx context.Context, bookID, viewerID string) (*BookDetail, error) {
	b, err := uc.bookService.GetBook(ctx, bookID)
	if err != nil {
		return nil, err
	}

	records, err := uc.borrowRepo.ListByBook(ctx, bookID, borrowHistoryLimit)
	if err != nil {
		return nil, err
	}
	detail := &BookDetail{
		BookView:      ToView(b),
		BorrowHistory: make([]BorrowHistoryItem, len(records)),
	}
	for i, r := range records {
		detail.BorrowHistory[i] = BorrowHistoryItem{
			BorrowID:   r.ID,
			UserID:     r.UserID,
			BorrowDate: r.BorrowDate,
			DueDate:    r.DueDate,
			ReturnDate: r.ReturnDate,
			Status:     string(r.Status),
		}
	}

	if b.Stock <= 0 {
		if detail.EarliestAvailableDate, err = reservation.EarliestAvailableDate(ctx, uc.borrowRepo, bookID); err != nil {
			return nil, err
		}
	}

	if viewerID != "" {
		if detail.IsFavorite, err = uc.favoriteRepo.Exists(ctx, viewerID, bookID); err != nil {
			return nil, err
		}
		uc.history.Record(ctx, viewerID, bookID)
	}
	return detail, nil
}
