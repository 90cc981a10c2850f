package borrow

import (
	"time"

	"github.com/google/uuid"
)

// Status 借阅状态
type Status string

const (
	StatusBorrowed Status = "borrowed" // 借阅中
	StatusReturned Status = "returned" // 已归还(终态)
)

// DefaultDays 默认借期(天)
const DefaultDays = 30

// MaxDays 单次借期上限(天)
const MaxDays = 365

const daySeconds = 24 * 60 * 60

// Borrow 借阅记录(聚合根)
// 状态机: borrowed → returned，没有其他转换
// 同一(user, book)同时最多一条borrowed记录，由存储层唯一键保证
type Borrow struct {
	ID            string
	BookID        string
	UserID        string
	BorrowDate    int64 // unix秒
	DueDate       int64
	ReturnDate    int64 // 未归还时为0
	Status        Status
	IsEarlyReturn bool
	CreatedAt     int64
	UpdatedAt     int64
}

// NewBorrow 创建借阅记录(工厂方法)
// days由调用方先经过ValidateDays校验
func NewBorrow(userID, bookID string, days int, now time.Time) *Borrow {
	ts := now.Unix()
	return &Borrow{
		ID:         uuid.NewString(),
		BookID:     bookID,
		UserID:     userID,
		BorrowDate: ts,
		DueDate:    ts + int64(days)*daySeconds,
		Status:     StatusBorrowed,
		CreatedAt:  ts,
		UpdatedAt:  ts,
	}
}

// ValidateDays 借期校验，0表示使用默认值
func ValidateDays(days int) (int, error) {
	if days == 0 {
		return DefaultDays, nil
	}
	if days < 1 || days > MaxDays {
		return 0, ErrInvalidDays
	}
	return days, nil
}

// ActiveKey 借阅中记录的唯一键
func ActiveKey(userID, bookID string) string {
	return userID + ":" + bookID
}

// IsActive 是否借阅中
func (b *Borrow) IsActive() bool {
	return b.Status == StatusBorrowed
}

// IsOwnedBy 是否属于指定用户
func (b *Borrow) IsOwnedBy(userID string) bool {
	return b.UserID == userID
}

// IsOverdue 是否逾期
func (b *Borrow) IsOverdue(now time.Time) bool {
	return b.IsActive() && now.Unix() > b.DueDate
}

// MarkReturned 归还(领域行为)
func (b *Borrow) MarkReturned(early bool, now time.Time) error {
	if !b.IsActive() {
		return ErrAlreadyReturned
	}
	b.Status = StatusReturned
	b.ReturnDate = now.Unix()
	b.IsEarlyReturn = early
	b.UpdatedAt = b.ReturnDate
	return nil
}
