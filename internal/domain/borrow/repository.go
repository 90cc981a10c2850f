package borrow

import (
	"context"
)

// Repository 借阅记录仓储接口
type Repository interface {
	// Create 创建借阅记录
	// 同一用户对同一本书已有借阅中记录时返回ErrAlreadyBorrowed
	Create(ctx context.Context, borrow *Borrow) error

	// FindByID 不存在返回ErrBorrowNotFound
	FindByID(ctx context.Context, id string) (*Borrow, error)

	// FindActive 查询用户对某本书借阅中的记录，没有则返回ErrNotBorrowed
	FindActive(ctx context.Context, userID, bookID string) (*Borrow, error)

	// ListByUser 用户的借阅记录，按借阅时间倒序
	ListByUser(ctx context.Context, userID string) ([]*Borrow, error)

	// ListByBook 图书的借阅记录，按借阅时间倒序
	ListByBook(ctx context.Context, bookID string, limit int) ([]*Borrow, error)

	// EarliestDueDate 图书所有借阅中记录的最早应还时间
	// 没有借阅中记录时ok为false
	EarliestDueDate(ctx context.Context, bookID string) (due int64, ok bool, err error)

	// MarkReturned 条件更新: 仅当记录仍为borrowed时标记归还
	// 记录已归还返回ErrAlreadyReturned
	MarkReturned(ctx context.Context, b *Borrow) error

	// RevertReturn MarkReturned的补偿操作
	RevertReturn(ctx context.Context, b *Borrow) error

	// Delete 删除记录，仅用于借阅失败时的补偿
	Delete(ctx context.Context, id string) error
}
