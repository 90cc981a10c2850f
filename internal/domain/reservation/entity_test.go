package reservation

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestNewReservation 预计归还日期 = 预约日期 + days
func TestNewReservation(t *testing.T) {
	r, err := NewReservation("u1", "b1", "2025-03-01", "上午", 0, time.Now())
	require.NoError(t, err)

	day, _ := time.ParseInLocation(DateLayout, "2025-03-01", time.Local)
	assert.Equal(t, DefaultDays, r.Days)
	assert.Equal(t, day.AddDate(0, 0, 30).Unix(), r.ExpectedReturnDate)
	assert.Equal(t, StatusReserved, r.Status)
}

// TestNewReservationInvalidDate 日期格式错误直接拒绝
func TestNewReservationInvalidDate(t *testing.T) {
	_, err := NewReservation("u1", "b1", "2025/03/01", "", 7, time.Now())
	assert.ErrorIs(t, err, ErrInvalidDate)

	_, err = NewReservation("u1", "b1", "2025-03-01", "", 400, time.Now())
	assert.ErrorIs(t, err, ErrInvalidDays)
}

// TestCanTransitionTo 终态不能再流转
func TestCanTransitionTo(t *testing.T) {
	r := &Reservation{Status: StatusReserved}
	assert.True(t, r.CanTransitionTo(StatusCancelled))
	assert.True(t, r.CanTransitionTo(StatusFulfilled))
	assert.False(t, r.CanTransitionTo(StatusReserved))

	r.Status = StatusCancelled
	assert.False(t, r.CanTransitionTo(StatusFulfilled))
}

// TestExpiredBefore 预约日期早于截止日才算过期
func TestExpiredBefore(t *testing.T) {
	r := &Reservation{ReserveDate: "2025-03-01"}
	cutoff, _ := time.ParseInLocation(DateLayout, "2025-03-02", time.Local)
	assert.True(t, r.ExpiredBefore(cutoff))

	cutoff, _ = time.ParseInLocation(DateLayout, "2025-03-01", time.Local)
	assert.False(t, r.ExpiredBefore(cutoff))
}
