package reservation

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"

	"github.com/xiebiao/library/internal/domain/book"
	"github.com/xiebiao/library/internal/domain/borrow"
	"github.com/xiebiao/library/internal/domain/reservation"
	"github.com/xiebiao/library/internal/domain/user"
	"github.com/xiebiao/library/internal/infrastructure/messaging"
	"github.com/xiebiao/library/pkg/logger"
	"github.com/xiebiao/library/pkg/metrics"
	"github.com/xiebiao/library/pkg/tracing"
)

// UnknownDate 没有借阅中记录时的最早可借日期
const UnknownDate = "unknown"

// ReserveBookUseCase 预约图书用例
// 1. 校验用户、图书存在
// 2. 同一本书只能有一个进行中的预约
// 3. 库存为0时拒绝，并返回最早可借日期
// 4. 写入预约，发布reservation.created事件（确认邮件由事件处理器发送）
type ReserveBookUseCase struct {
	userRepo        user.Repository
	bookRepo        book.Repository
	borrowRepo      borrow.Repository
	reservationRepo reservation.Repository
	publisher       messaging.Publisher
}

// NewReserveBookUseCase 创建预约用例
func NewReserveBookUseCase(
	userRepo user.Repository,
	bookRepo book.Repository,
	borrowRepo borrow.Repository,
	reservationRepo reservation.Repository,
	publisher messaging.Publisher,
) *ReserveBookUseCase {
	return &ReserveBookUseCase{
		userRepo:        userRepo,
		bookRepo:        bookRepo,
		borrowRepo:      borrowRepo,
		reservationRepo: reservationRepo,
		publisher:       publisher,
	}
}

// ReserveBookRequest 预约请求
type ReserveBookRequest struct {
	UserID      string
	BookID      string
	ReserveDate string // YYYY-MM-DD
	TimeSlot    string
	Days        int
}

// ReserveBookResponse 预约响应
type ReserveBookResponse struct {
	Success       bool   `json:"success"`
	ReservationID string `json:"reservation_id"`
	Message       string `json:"message"`
}

// Execute 执行预约
func (uc *ReserveBookUseCase) Execute(ctx context.Context, req ReserveBookRequest) (resp *ReserveBookResponse, err error) {
	ctx, span := tracing.StartSpan(ctx, "ReserveBook",
		attribute.String("book_id", req.BookID),
		attribute.String("user_id", req.UserID),
	)
	defer func() {
		metrics.ObserveLending("reserve", err)
		tracing.End(span, err)
	}()

	now := time.Now()
	r, err := reservation.NewReservation(req.UserID, req.BookID, req.ReserveDate, req.TimeSlot, req.Days, now)
	if err != nil {
		return nil, err
	}

	u, err := uc.userRepo.FindByID(ctx, req.UserID)
	if err != nil {
		return nil, err
	}
	b, err := uc.bookRepo.FindByID(ctx, req.BookID)
	if err != nil {
		return nil, err
	}

	active, err := uc.hasActive(ctx, req.UserID, req.BookID)
	if err != nil {
		return nil, err
	}
	if active {
		return nil, reservation.ErrAlreadyReserved
	}

	if b.Stock <= 0 {
		date, err := EarliestAvailableDate(ctx, uc.borrowRepo, b.ID)
		if err != nil {
			return nil, err
		}
		return nil, reservation.ErrNoStock.WithDetail("earliest_available_date", date)
	}

	// 唯一键兜住并发的重复预约
	if err := uc.reservationRepo.Create(ctx, r); err != nil {
		return nil, err
	}

	logger.L().WithFields(logrus.Fields{
		"reservation_id": r.ID,
		"book_id":        b.ID,
		"user_id":        u.ID,
		"reserve_date":   r.ReserveDate,
	}).Info("预约成功")

	messaging.PublishBestEffort(ctx, uc.publisher, messaging.RoutingReservationCreated, messaging.ReservationEvent{
		ReservationID:      r.ID,
		BookID:             b.ID,
		UserID:             u.ID,
		Email:              u.Email,
		BookTitle:          b.Title,
		BookAuthor:         b.Author,
		ReserveDate:        r.ReserveDate,
		TimeSlot:           r.TimeSlot,
		Days:               r.Days,
		ExpectedReturnDate: book.FormatDate(r.ExpectedReturnDate),
		OccurredAt:         now.Unix(),
	})

	return &ReserveBookResponse{Success: true, ReservationID: r.ID, Message: "预约成功"}, nil
}

func (uc *ReserveBookUseCase) hasActive(ctx context.Context, userID, bookID string) (bool, error) {
	list, err := uc.reservationRepo.ListByUser(ctx, userID)
	if err != nil {
		return false, err
	}
	for _, r := range list {
		if r.BookID == bookID && r.IsActive() {
			return true, nil
		}
	}
	return false, nil
}

// EarliestAvailableDate 图书最早可借日期：借阅中记录的最早应还日期
// 没有借阅中记录时返回UnknownDate
func EarliestAvailableDate(ctx context.Context, repo borrow.Repository, bookID string) (string, error) {
	due, ok, err := repo.EarliestDueDate(ctx, bookID)
	if err != nil {
		return "", err
	}
	if !ok {
		return UnknownDate, nil
	}
	return book.FormatDate(due), nil
}
