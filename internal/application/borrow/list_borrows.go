package borrow

import (
	"context"

	"github.com/xiebiao/library/internal/domain/book"
	"github.com/xiebiao/library/internal/domain/borrow"
)

// ListUserBorrowsUseCase 我的借阅
type ListUserBorrowsUseCase struct {
	bookRepo   book.Repository
	borrowRepo borrow.Repository
}

// NewListUserBorrowsUseCase 创建借阅列表用例
func NewListUserBorrowsUseCase(bookRepo book.Repository, borrowRepo borrow.Repository) *ListUserBorrowsUseCase {
	return &ListUserBorrowsUseCase{bookRepo: bookRepo, borrowRepo: borrowRepo}
}

// BorrowItem 借阅列表项，附带书名和封面
type BorrowItem struct {
	BorrowID      string `json:"borrow_id"`
	BookID        string `json:"book_id"`
	BookTitle     string `json:"book_title"`
	BookCover     string `json:"book_cover"`
	BorrowDate    int64  `json:"borrow_date"`
	DueDate       int64  `json:"due_date"`
	ReturnDate    int64  `json:"return_date"`
	Status        string `json:"status"`
	IsEarlyReturn bool   `json:"is_early_return"`
}

// ListUserBorrowsResponse 借阅列表
type ListUserBorrowsResponse struct {
	Items []BorrowItem `json:"items"`
}

// Execute 按借阅时间倒序返回
func (uc *ListUserBorrowsUseCase) Execute(ctx context.Context, userID string) (*ListUserBorrowsResponse, error) {
	records, err := uc.borrowRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	ids := make([]string, len(records))
	for i, r := range records {
		ids[i] = r.BookID
	}
	books, err := uc.bookRepo.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	items := make([]BorrowItem, len(records))
	for i, r := range records {
		item := BorrowItem{
			BorrowID:      r.ID,
			BookID:        r.BookID,
			BookTitle:     "未知图书",
			BorrowDate:    r.BorrowDate,
			DueDate:       r.DueDate,
			ReturnDate:    r.ReturnDate,
			Status:        string(r.Status),
			IsEarlyReturn: r.IsEarlyReturn,
		}
		if b, ok := books[r.BookID]; ok {
			item.BookTitle = b.Title
			item.BookCover = b.Cover
		}
		items[i] = item
	}
	return &ListUserBorrowsResponse{Items: items}, nil
}
