package borrow

import (
	"context"
	"errors"
	"time"

	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"

	"github.com/xiebiao/library/internal/domain/book"
	"github.com/xiebiao/library/internal/domain/borrow"
	"github.com/xiebiao/library/internal/infrastructure/messaging"
	"github.com/xiebiao/library/pkg/logger"
	"github.com/xiebiao/library/pkg/metrics"
	"github.com/xiebiao/library/pkg/saga"
	"github.com/xiebiao/library/pkg/tracing"
)

// sagaTimeout 单次借还Saga的整体超时
const sagaTimeout = 10 * time.Second

// BorrowBookUseCase 借阅图书用例
//
// 存储层没有跨表事务，借阅按Saga执行：
//  1. 插入借阅记录（active_key唯一索引挡住重复借阅）
//  2. 条件扣减库存（stock - 1 >= 0）
//
// 第2步失败时删除第1步插入的记录。并发借阅最后一本书时，
// 条件扣减保证只有一个请求成功，另一个拿到库存不足。
type BorrowBookUseCase struct {
	bookRepo   book.Repository
	borrowRepo borrow.Repository
	publisher  messaging.Publisher
}

// NewBorrowBookUseCase 创建借阅用例
func NewBorrowBookUseCase(
	bookRepo book.Repository,
	borrowRepo borrow.Repository,
	publisher messaging.Publisher,
) *BorrowBookUseCase {
	return &BorrowBookUseCase{
		bookRepo:   bookRepo,
		borrowRepo: borrowRepo,
		publisher:  publisher,
	}
}

// BorrowBookRequest 借阅请求
type BorrowBookRequest struct {
	UserID string
	BookID string
	Days   int // 0表示默认30天
}

// BorrowBookResponse 借阅响应
type BorrowBookResponse struct {
	Success  bool   `json:"success"`
	BorrowID string `json:"borrow_id"`
	DueDate  int64  `json:"due_date"`
}

// Execute 执行借阅
func (uc *BorrowBookUseCase) Execute(ctx context.Context, req BorrowBookRequest) (resp *BorrowBookResponse, err error) {
	ctx, span := tracing.StartSpan(ctx, "BorrowBook",
		attribute.String("book_id", req.BookID),
		attribute.String("user_id", req.UserID),
	)
	defer func() {
		metrics.ObserveLending("borrow", err)
		tracing.End(span, err)
	}()

	days, err := borrow.ValidateDays(req.Days)
	if err != nil {
		return nil, err
	}

	b, err := uc.bookRepo.FindByID(ctx, req.BookID)
	if err != nil {
		return nil, err
	}
	if b.Status == book.StatusMaintenance {
		return nil, book.ErrUnderMaintenance
	}

	// 先查重复借阅再查库存：已借走最后一本的用户应该看到"重复借阅"
	if _, err := uc.borrowRepo.FindActive(ctx, req.UserID, req.BookID); err == nil {
		return nil, borrow.ErrAlreadyBorrowed
	} else if !errors.Is(err, borrow.ErrNotBorrowed) {
		return nil, err
	}
	if b.Stock <= 0 {
		return nil, book.ErrInsufficientStock
	}

	record := borrow.NewBorrow(req.UserID, req.BookID, days, time.Now())

	s := saga.New("borrow", sagaTimeout).
		WithField("book_id", req.BookID).
		WithField("user_id", req.UserID).
		WithField("borrow_id", record.ID)
	s.AddStep("创建借阅记录",
		func(ctx context.Context) error { return uc.borrowRepo.Create(ctx, record) },
		func(ctx context.Context) error { return uc.borrowRepo.Delete(ctx, record.ID) },
	)
	s.AddStep("扣减库存",
		func(ctx context.Context) error {
			_, err := uc.bookRepo.UpdateStock(ctx, req.BookID, -1)
			return err
		},
		nil,
	)
	if err := s.Execute(ctx); err != nil {
		return nil, err
	}

	logger.L().WithFields(logrus.Fields{
		"borrow_id": record.ID,
		"book_id":   req.BookID,
		"user_id":   req.UserID,
		"days":      days,
	}).Info("借阅成功")

	messaging.PublishBestEffort(ctx, uc.publisher, messaging.RoutingBookBorrowed, messaging.BorrowEvent{
		BorrowID:   record.ID,
		BookID:     record.BookID,
		UserID:     record.UserID,
		DueDate:    record.DueDate,
		OccurredAt: record.BorrowDate,
	})

	return &BorrowBookResponse{
		Success:  true,
		BorrowID: record.ID,
		DueDate:  record.DueDate,
	}, nil
}
