package database

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/xiebiao/library/internal/domain/borrow"
)

type borrowRepository struct {
	table *Table[BorrowModel]
}

// NewBorrowRepository 创建借阅记录仓储
func NewBorrowRepository(db *gorm.DB) borrow.Repository {
	return &borrowRepository{table: NewTable[BorrowModel](db)}
}

// Create 插入借阅记录
// active_key唯一索引冲突即说明已有借阅中记录
func (r *borrowRepository) Create(ctx context.Context, b *borrow.Borrow) error {
	if err := r.table.Put(ctx, fromBorrowEntity(b), ExpectNotExist); err != nil {
		if errors.Is(err, ErrConditionFailed) {
			return borrow.ErrAlreadyBorrowed
		}
		return err
	}
	return nil
}

func (r *borrowRepository) FindByID(ctx context.Context, id string) (*borrow.Borrow, error) {
	m, err := r.table.Get(ctx, Key{"borrow_id": id})
	if err != nil {
		if errors.Is(err, ErrRowNotFound) {
			return nil, borrow.ErrBorrowNotFound
		}
		return nil, err
	}
	return toBorrowEntity(m), nil
}

func (r *borrowRepository) FindActive(ctx context.Context, userID, bookID string) (*borrow.Borrow, error) {
	m, err := r.table.Get(ctx, Key{"active_key": borrow.ActiveKey(userID, bookID)})
	if err != nil {
		if errors.Is(err, ErrRowNotFound) {
			return nil, borrow.ErrNotBorrowed
		}
		return nil, err
	}
	return toBorrowEntity(m), nil
}

func (r *borrowRepository) ListByUser(ctx context.Context, userID string) ([]*borrow.Borrow, error) {
	return r.list(ctx, Key{"user_id": userID}, -1)
}

func (r *borrowRepository) ListByBook(ctx context.Context, bookID string, limit int) ([]*borrow.Borrow, error) {
	return r.list(ctx, Key{"book_id": bookID}, limit)
}

func (r *borrowRepository) list(ctx context.Context, filter Key, limit int) ([]*borrow.Borrow, error) {
	rows, err := r.table.Scan(ctx, ScanQuery{
		Filter:  filter,
		Limit:   limit,
		OrderBy: "borrow_date",
		Desc:    true,
	})
	if err != nil {
		return nil, err
	}
	out := make([]*borrow.Borrow, len(rows))
	for i, m := range rows {
		out[i] = toBorrowEntity(m)
	}
	return out, nil
}

func (r *borrowRepository) EarliestDueDate(ctx context.Context, bookID string) (int64, bool, error) {
	rows, err := r.table.Scan(ctx, ScanQuery{
		Filter:  Key{"book_id": bookID, "status": string(borrow.StatusBorrowed)},
		Columns: []string{"borrow_id", "due_date"},
		OrderBy: "due_date",
		Limit:   1,
	})
	if err != nil {
		return 0, false, err
	}
	if len(rows) == 0 {
		return 0, false, nil
	}
	return rows[0].DueDate, true, nil
}

// MarkReturned borrowed → returned，同时释放active_key
func (r *borrowRepository) MarkReturned(ctx context.Context, b *borrow.Borrow) error {
	err := r.table.Update(ctx, Key{"borrow_id": b.ID}, map[string]any{
		"status":          string(borrow.StatusReturned),
		"return_date":     b.ReturnDate,
		"is_early_return": b.IsEarlyReturn,
		"active_key":      nil,
		"updated_at":      b.UpdatedAt,
	}, Where("status = ?", string(borrow.StatusBorrowed)))
	if errors.Is(err, ErrConditionFailed) {
		if _, ferr := r.FindByID(ctx, b.ID); ferr != nil {
			return ferr
		}
		return borrow.ErrAlreadyReturned
	}
	return err
}

// RevertReturn 归还的补偿: returned → borrowed
func (r *borrowRepository) RevertReturn(ctx context.Context, b *borrow.Borrow) error {
	return r.table.Update(ctx, Key{"borrow_id": b.ID}, map[string]any{
		"status":          string(borrow.StatusBorrowed),
		"return_date":     int64(0),
		"is_early_return": false,
		"active_key":      borrow.ActiveKey(b.UserID, b.BookID),
		"updated_at":      time.Now().Unix(),
	}, Where("status = ?", string(borrow.StatusReturned)))
}

func (r *borrowRepository) Delete(ctx context.Context, id string) error {
	removed, err := r.table.Delete(ctx, Key{"borrow_id": id})
	if err != nil {
		return err
	}
	if !removed {
		return borrow.ErrBorrowNotFound
	}
	return nil
}

func fromBorrowEntity(b *borrow.Borrow) *BorrowModel {
	m := &BorrowModel{
		BorrowID:      b.ID,
		BookID:        b.BookID,
		UserID:        b.UserID,
		BorrowDate:    b.BorrowDate,
		DueDate:       b.DueDate,
		ReturnDate:    b.ReturnDate,
		Status:        string(b.Status),
		IsEarlyReturn: b.IsEarlyReturn,
		CreatedAt:     b.CreatedAt,
		UpdatedAt:     b.UpdatedAt,
	}
	if b.IsActive() {
		m.ActiveKey = strPtr(borrow.ActiveKey(b.UserID, b.BookID))
	}
	return m
}

func toBorrowEntity(m *BorrowModel) *borrow.Borrow {
	return &borrow.Borrow{
		ID:            m.BorrowID,
		BookID:        m.BookID,
		UserID:        m.UserID,
		BorrowDate:    m.BorrowDate,
		DueDate:       m.DueDate,
		ReturnDate:    m.ReturnDate,
		Status:        borrow.Status(m.Status),
		IsEarlyReturn: m.IsEarlyReturn,
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
	}
}
