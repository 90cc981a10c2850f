package reservation

import (
	"context"
	"errors"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/xiebiao/library/internal/domain/reservation"
	"github.com/xiebiao/library/internal/infrastructure/messaging"
	"github.com/xiebiao/library/pkg/logger"
	"github.com/xiebiao/library/pkg/metrics"
)

// ExpireReservationsUseCase 过期预约清理
// 预约日期早于(今天 - graceDays)且仍为reserved的预约改为expired
// 由定时任务和libctl expire-reservations调用
type ExpireReservationsUseCase struct {
	repo       reservation.Repository
	publisher  messaging.Publisher
	graceDays  int
	batchLimit int
}

// NewExpireReservationsUseCase 创建过期清理用例
func NewExpireReservationsUseCase(repo reservation.Repository, publisher messaging.Publisher, graceDays, batchLimit int) *ExpireReservationsUseCase {
	if graceDays < 0 {
		graceDays = 0
	}
	if batchLimit <= 0 {
		batchLimit = 500
	}
	return &ExpireReservationsUseCase{
		repo:       repo,
		publisher:  publisher,
		graceDays:  graceDays,
		batchLimit: batchLimit,
	}
}

// ExpireResult 清理结果
type ExpireResult struct {
	Scanned int `json:"scanned"`
	Expired int `json:"expired"`
}

// Execute 执行一次清理
func (uc *ExpireReservationsUseCase) Execute(ctx context.Context, now time.Time) (*ExpireResult, error) {
	list, err := uc.repo.ListActive(ctx, uc.batchLimit)
	if err != nil {
		return nil, err
	}

	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.Local)
	cutoff := today.AddDate(0, 0, -uc.graceDays)

	result := &ExpireResult{Scanned: len(list)}
	for _, r := range list {
		if !r.ExpiredBefore(cutoff) {
			continue
		}
		err := uc.repo.Transition(ctx, r.ID, reservation.StatusExpired)
		metrics.ObserveLending("expire", err)
		if err != nil {
			// 扫描之后被取消或完成的预约直接跳过
			if errors.Is(err, reservation.ErrNotActive) {
				continue
			}
			return result, err
		}
		result.Expired++
		publishTransition(ctx, uc.publisher, messaging.RoutingReservationExpired, r)
	}

	logger.L().WithFields(logrus.Fields{
		"scanned": result.Scanned,
		"expired": result.Expired,
		"cutoff":  cutoff.Format(reservation.DateLayout),
	}).Info("过期预约清理完成")
	return result, nil
}
