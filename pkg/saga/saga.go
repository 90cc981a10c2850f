// Package saga 实现补偿式多步写入
//
// 存储层没有跨行事务，多步写入（借阅记录+库存、点赞行+计数）按Saga执行：
// 1. 按顺序执行每个步骤的Action
// 2. 某步失败时，按逆序执行已完成步骤的Compensate
// 3. 补偿失败只记录日志和指标，返回给调用方的仍是最初的失败原因
//
// 教学要点：
// - 补偿操作必须幂等（允许重试）
// - 补偿使用与请求解耦的Context，请求取消不能打断回滚
package saga

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/xiebiao/library/pkg/logger"
	"github.com/xiebiao/library/pkg/metrics"
)

// Step 表示Saga中的一个步骤
type Step struct {
	Name       string                          // 步骤名称（用于日志）
	Action     func(ctx context.Context) error // 正向操作
	Compensate func(ctx context.Context) error // 补偿操作，可为nil
}

// Saga 表示一次补偿式执行
type Saga struct {
	name     string
	steps    []Step
	executed []Step
	timeout  time.Duration
	fields   logrus.Fields
}

// New 创建Saga
//
// name用于日志和指标标签（如borrow、return、like）
// timeout<=0表示不限制整体耗时
//
//	s := saga.New("borrow", 10*time.Second)
//	s.AddStep("创建借阅记录", createBorrow, deleteBorrow)
//	s.AddStep("扣减库存", decrementStock, nil)
//	err := s.Execute(ctx)
func New(name string, timeout time.Duration) *Saga {
	return &Saga{
		name:    name,
		timeout: timeout,
		fields:  logrus.Fields{"saga": name},
	}
}

// WithField 为补偿日志附加业务字段（如book_id、user_id）
func (s *Saga) WithField(key string, value any) *Saga {
	s.fields[key] = value
	return s
}

// AddStep 添加一个步骤
func (s *Saga) AddStep(name string, action, compensate func(ctx context.Context) error) {
	s.steps = append(s.steps, Step{
		Name:       name,
		Action:     action,
		Compensate: compensate,
	})
}

// Execute 顺序执行所有步骤
//
// 返回的error通过%w包装了步骤自身的错误，调用方可用errors.Is/As识别业务错误
func (s *Saga) Execute(ctx context.Context) error {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	for i, step := range s.steps {
		if err := ctx.Err(); err != nil {
			s.compensate(context.WithoutCancel(ctx))
			metrics.SagaExecutionsTotal.WithLabelValues(s.name, "failure").Inc()
			return fmt.Errorf("saga[%s]超时: %w", s.name, err)
		}

		if step.Action != nil {
			if err := step.Action(ctx); err != nil {
				s.compensate(context.WithoutCancel(ctx))
				metrics.SagaExecutionsTotal.WithLabelValues(s.name, "failure").Inc()
				return fmt.Errorf("步骤[%d:%s]执行失败: %w", i, step.Name, err)
			}
		}

		s.executed = append(s.executed, step)
	}

	metrics.SagaExecutionsTotal.WithLabelValues(s.name, "success").Inc()
	return nil
}

// compensate 逆序补偿已执行的步骤
func (s *Saga) compensate(ctx context.Context) {
	for i := len(s.executed) - 1; i >= 0; i-- {
		step := s.executed[i]
		if step.Compensate == nil {
			continue
		}

		if err := step.Compensate(ctx); err != nil {
			metrics.SagaCompensationsTotal.WithLabelValues(s.name, "failure").Inc()
			logger.L().WithFields(s.fields).WithField("step", step.Name).WithError(err).
				Error("补偿失败，数据可能不一致")
			continue
		}
		metrics.SagaCompensationsTotal.WithLabelValues(s.name, "success").Inc()
		logger.L().WithFields(s.fields).WithField("step", step.Name).Warn("已执行补偿")
	}

	s.executed = nil
}
