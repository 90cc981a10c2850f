package borrow

import (
	"context"
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

// ReturnBookUseCase 归还图书用例
//
// Saga步骤：
//  1. 条件更新借阅记录 borrowed → returned（同时释放active_key）
//  2. 库存+1
//
// 第2步失败时把记录恢复为borrowed
type ReturnBookUseCase struct {
	bookRepo   book.Repository
	borrowRepo borrow.Repository
	publisher  messaging.Publisher
}

// NewReturnBookUseCase 创建归还用例
func NewReturnBookUseCase(
	bookRepo book.Repository,
	borrowRepo borrow.Repository,
	publisher messaging.Publisher,
) *ReturnBookUseCase {
	return &ReturnBookUseCase{
		bookRepo:   bookRepo,
		borrowRepo: borrowRepo,
		publisher:  publisher,
	}
}

// ReturnBookRequest 按图书归还
type ReturnBookRequest struct {
	UserID string
	BookID string
	Early  bool
}

// ReturnByIDRequest 按借阅记录归还
type ReturnByIDRequest struct {
	UserID   string
	BorrowID string
	Early    bool
}

// ReturnBookResponse 归还响应
type ReturnBookResponse struct {
	Success  bool   `json:"success"`
	Message  string `json:"message"`
	BorrowID string `json:"borrow_id"`
}

// Execute 归还当前用户对某本书的借阅
func (uc *ReturnBookUseCase) Execute(ctx context.Context, req ReturnBookRequest) (*ReturnBookResponse, error) {
	if _, err := uc.bookRepo.FindByID(ctx, req.BookID); err != nil {
		return nil, err
	}
	record, err := uc.borrowRepo.FindActive(ctx, req.UserID, req.BookID)
	if err != nil {
		return nil, err
	}
	return uc.complete(ctx, record, req.Early)
}

// ExecuteByID 按借阅ID归还，校验归属
func (uc *ReturnBookUseCase) ExecuteByID(ctx context.Context, req ReturnByIDRequest) (*ReturnBookResponse, error) {
	record, err := uc.borrowRepo.FindByID(ctx, req.BorrowID)
	if err != nil {
		return nil, err
	}
	if !record.IsOwnedBy(req.UserID) {
		return nil, borrow.ErrNotOwner
	}
	if !record.IsActive() {
		return nil, borrow.ErrAlreadyReturned
	}
	return uc.complete(ctx, record, req.Early)
}

func (uc *ReturnBookUseCase) complete(ctx context.Context, record *borrow.Borrow, early bool) (resp *ReturnBookResponse, err error) {
	ctx, span := tracing.StartSpan(ctx, "ReturnBook",
		attribute.String("borrow_id", record.ID),
		attribute.Bool("early", early),
	)
	defer func() {
		metrics.ObserveLending("return", err)
		tracing.End(span, err)
	}()

	if err := record.MarkReturned(early, time.Now()); err != nil {
		return nil, err
	}

	s := saga.New("return", sagaTimeout).
		WithField("borrow_id", record.ID).
		WithField("book_id", record.BookID)
	s.AddStep("标记归还",
		func(ctx context.Context) error { return uc.borrowRepo.MarkReturned(ctx, record) },
		func(ctx context.Context) error { return uc.borrowRepo.RevertReturn(ctx, record) },
	)
	s.AddStep("增加库存",
		func(ctx context.Context) error {
			_, err := uc.bookRepo.UpdateStock(ctx, record.BookID, 1)
			return err
		},
		nil,
	)
	if err := s.Execute(ctx); err != nil {
		return nil, err
	}

	logger.L().WithFields(logrus.Fields{
		"borrow_id": record.ID,
		"book_id":   record.BookID,
		"user_id":   record.UserID,
		"early":     early,
	}).Info("归还成功")

	messaging.PublishBestEffort(ctx, uc.publisher, messaging.RoutingBookReturned, messaging.BorrowEvent{
		BorrowID:   record.ID,
		BookID:     record.BookID,
		UserID:     record.UserID,
		DueDate:    record.DueDate,
		Early:      early,
		OccurredAt: record.ReturnDate,
	})

	msg := "归还成功"
	if early {
		msg = "归还成功（提前归还）"
	}
	return &ReturnBookResponse{Success: true, Message: msg, BorrowID: record.ID}, nil
}
