package reservation

import (
	"context"
)

// Repository 预约仓储接口
type Repository interface {
	// Create 同一用户对同一本书已有进行中预约时返回ErrAlreadyReserved
	Create(ctx context.Context, r *Reservation) error

	// FindByID 不存在返回ErrReservationNotFound
	FindByID(ctx context.Context, id string) (*Reservation, error)

	// ListByUser 用户的预约，按创建时间倒序
	ListByUser(ctx context.Context, userID string) ([]*Reservation, error)

	// ListByBook 图书的预约，按创建时间倒序
	ListByBook(ctx context.Context, bookID string) ([]*Reservation, error)

	// ListActive 所有进行中的预约，用于过期任务
	ListActive(ctx context.Context, limit int) ([]*Reservation, error)

	// Transition 条件更新: 仅当当前状态为reserved时更新为target
	// 状态不是reserved时返回ErrNotActive
	Transition(ctx context.Context, id string, target Status) error
}
