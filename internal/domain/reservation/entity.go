package reservation

import (
	"time"

	"github.com/google/uuid"
)

// Status 预约状态
// 状态机: reserved → fulfilled | cancelled | expired，三者均为终态
type Status string

const (
	StatusReserved  Status = "reserved"
	StatusFulfilled Status = "fulfilled"
	StatusCancelled Status = "cancelled"
	StatusExpired   Status = "expired"
)

// DefaultDays 默认借期(天)
const DefaultDays = 30

// DateLayout 预约日期格式
const DateLayout = time.DateOnly

// Reservation 预约记录
type Reservation struct {
	ID                 string
	BookID             string
	UserID             string
	ReserveDate        string // YYYY-MM-DD
	TimeSlot           string // 自由文本，如"上午 9:00-12:00"
	Days               int
	ExpectedReturnDate int64 // reserve_date + days天
	Status             Status
	CreatedAt          int64
	UpdatedAt          int64
}

// NewReservation 创建预约
// reserveDate格式错误返回ErrInvalidDate，不回退到当前时间
func NewReservation(userID, bookID, reserveDate, timeSlot string, days int, now time.Time) (*Reservation, error) {
	day, err := time.ParseInLocation(DateLayout, reserveDate, time.Local)
	if err != nil {
		return nil, ErrInvalidDate
	}
	if days == 0 {
		days = DefaultDays
	}
	if days < 1 || days > 365 {
		return nil, ErrInvalidDays
	}

	ts := now.Unix()
	return &Reservation{
		ID:                 uuid.NewString(),
		BookID:             bookID,
		UserID:             userID,
		ReserveDate:        reserveDate,
		TimeSlot:           timeSlot,
		Days:               days,
		ExpectedReturnDate: day.AddDate(0, 0, days).Unix(),
		Status:             StatusReserved,
		CreatedAt:          ts,
		UpdatedAt:          ts,
	}, nil
}

// ActiveKey 进行中预约的唯一键
func ActiveKey(userID, bookID string) string {
	return userID + ":" + bookID
}

// IsActive 是否进行中
func (r *Reservation) IsActive() bool {
	return r.Status == StatusReserved
}

// IsOwnedBy 是否属于指定用户
func (r *Reservation) IsOwnedBy(userID string) bool {
	return r.UserID == userID
}

// CanTransitionTo 只有reserved可以流转
func (r *Reservation) CanTransitionTo(target Status) bool {
	if r.Status != StatusReserved {
		return false
	}
	switch target {
	case StatusFulfilled, StatusCancelled, StatusExpired:
		return true
	}
	return false
}

// ExpiredBefore 预约日期早于cutoff(当天零点)时视为过期
func (r *Reservation) ExpiredBefore(cutoff time.Time) bool {
	day, err := time.ParseInLocation(DateLayout, r.ReserveDate, time.Local)
	if err != nil {
		return false
	}
	return day.Before(cutoff)
}
