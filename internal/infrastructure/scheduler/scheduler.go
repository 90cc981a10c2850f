// Package scheduler 定时任务（robfig/cron）
//
// 任务以名字注册，执行时带超时context。同一任务上一次还没跑完时跳过本次，
// panic被恢复并记录日志，不会拖垮整个进程。
package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"github.com/xiebiao/library/pkg/logger"
)

// defaultJobTimeout 单次任务的最长执行时间
const defaultJobTimeout = 5 * time.Minute

// JobFunc 定时执行的任务
type JobFunc func(ctx context.Context) error

// Scheduler cron调度器
type Scheduler struct {
	cron    *cron.Cron
	timeout time.Duration
}

// New 创建调度器，使用本地时区，cron表达式为标准5段格式
func New() *Scheduler {
	l := cronLogger{entry: logger.L().WithField("component", "scheduler")}
	return &Scheduler{
		cron: cron.New(
			cron.WithLogger(l),
			cron.WithChain(cron.Recover(l), cron.SkipIfStillRunning(l)),
		),
		timeout: defaultJobTimeout,
	}
}

// Add 注册任务
func (s *Scheduler) Add(name, spec string, job JobFunc) error {
	_, err := s.cron.AddFunc(spec, func() {
		s.run(name, job)
	})
	if err != nil {
		return fmt.Errorf("注册定时任务%s失败: %w", name, err)
	}
	logger.L().WithFields(logrus.Fields{"job": name, "spec": spec}).Info("定时任务已注册")
	return nil
}

func (s *Scheduler) run(name string, job JobFunc) {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	start := time.Now()
	err := job(ctx)
	entry := logger.L().WithFields(logrus.Fields{
		"job":      name,
		"duration": time.Since(start).String(),
	})
	if err != nil {
		entry.WithError(err).Error("定时任务执行失败")
		return
	}
	entry.Info("定时任务执行完成")
}

// Start 后台启动
func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop 停止调度并等待正在运行的任务结束（受ctx约束）
func (s *Scheduler) Stop(ctx context.Context) {
	done := s.cron.Stop()
	select {
	case <-done.Done():
	case <-ctx.Done():
		logger.L().Warn("等待定时任务结束超时")
	}
}

// cronLogger 把cron内部日志接到logrus
type cronLogger struct {
	entry *logrus.Entry
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.entry.WithFields(fields(keysAndValues)).Debug(msg)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.entry.WithFields(fields(keysAndValues)).WithError(err).Error(msg)
}

func fields(kv []interface{}) logrus.Fields {
	f := make(logrus.Fields, len(kv)/2)
	for i := 0; i+1 < len(kv); i += 2 {
		f[fmt.Sprint(kv[i])] = kv[i+1]
	}
	return f
}
