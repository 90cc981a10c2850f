package reservation

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"

	"github.com/xiebiao/library/internal/domain/reservation"
	"github.com/xiebiao/library/internal/infrastructure/messaging"
	"github.com/xiebiao/library/pkg/logger"
	"github.com/xiebiao/library/pkg/metrics"
)

// TransitionResponse 状态流转响应
type TransitionResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// CancelReservationUseCase 取消预约（仅预约人，且只能取消进行中的预约）
type CancelReservationUseCase struct {
	repo      reservation.Repository
	publisher messaging.Publisher
}

// NewCancelReservationUseCase 创建取消预约用例
func NewCancelReservationUseCase(repo reservation.Repository, publisher messaging.Publisher) *CancelReservationUseCase {
	return &CancelReservationUseCase{repo: repo, publisher: publisher}
}

// Execute 执行取消
func (uc *CancelReservationUseCase) Execute(ctx context.Context, userID, reservationID string) (resp *TransitionResponse, err error) {
	defer func() { metrics.ObserveLending("cancel", err) }()

	r, err := uc.repo.FindByID(ctx, reservationID)
	if err != nil {
		return nil, err
	}
	if !r.IsOwnedBy(userID) {
		return nil, reservation.ErrNotOwner
	}
	if !r.CanTransitionTo(reservation.StatusCancelled) {
		return nil, reservation.ErrNotActive
	}
	if err := uc.repo.Transition(ctx, r.ID, reservation.StatusCancelled); err != nil {
		return nil, err
	}

	logTransition(r, reservation.StatusCancelled)
	publishTransition(ctx, uc.publisher, messaging.RoutingReservationCancelled, r)
	return &TransitionResponse{Success: true, Message: "取消预约成功"}, nil
}

// FulfillReservationUseCase 标记预约完成（管理员）
type FulfillReservationUseCase struct {
	repo      reservation.Repository
	publisher messaging.Publisher
}

// NewFulfillReservationUseCase 创建完成预约用例
func NewFulfillReservationUseCase(repo reservation.Repository, publisher messaging.Publisher) *FulfillReservationUseCase {
	return &FulfillReservationUseCase{repo: repo, publisher: publisher}
}

// Execute 执行完成
// 权限由接口层的管理员中间件保证
func (uc *FulfillReservationUseCase) Execute(ctx context.Context, reservationID string) (resp *TransitionResponse, err error) {
	defer func() { metrics.ObserveLending("fulfill", err) }()

	r, err := uc.repo.FindByID(ctx, reservationID)
	if err != nil {
		return nil, err
	}
	if !r.CanTransitionTo(reservation.StatusFulfilled) {
		return nil, reservation.ErrNotFulfillable
	}
	if err := uc.repo.Transition(ctx, r.ID, reservation.StatusFulfilled); err != nil {
		// 并发下被别人先改了状态
		if errors.Is(err, reservation.ErrNotActive) {
			return nil, reservation.ErrNotFulfillable
		}
		return nil, err
	}

	logTransition(r, reservation.StatusFulfilled)
	publishTransition(ctx, uc.publisher, messaging.RoutingReservationFulfilled, r)
	return &TransitionResponse{Success: true, Message: "预约已完成标记"}, nil
}

func logTransition(r *reservation.Reservation, to reservation.Status) {
	logger.L().WithFields(logrus.Fields{
		"reservation_id": r.ID,
		"book_id":        r.BookID,
		"user_id":        r.UserID,
		"from":           r.Status,
		"to":             to,
	}).Info("预约状态变更")
}

func publishTransition(ctx context.Context, p messaging.Publisher, key string, r *reservation.Reservation) {
	messaging.PublishBestEffort(ctx, p, key, messaging.ReservationEvent{
		ReservationID: r.ID,
		BookID:        r.BookID,
		UserID:        r.UserID,
		ReserveDate:   r.ReserveDate,
		TimeSlot:      r.TimeSlot,
		Days:          r.Days,
	})
}
