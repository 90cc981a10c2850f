// Package grpcserver gRPC健康检查服务
//
// 只注册grpc.health.v1和反射服务，状态由定期执行的依赖检查（数据库、Redis）决定，
// 与HTTP的/health保持一致。
package grpcserver

import (
	"context"
	"errors"
	"fmt"
	"net"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"

	"github.com/xiebiao/library/pkg/logger"
)

// ServiceName 对外的服务名，空字符串表示整体状态
const ServiceName = "library"

// CheckFunc 依赖检查
type CheckFunc func(ctx context.Context) error

// Server 健康检查服务
type Server struct {
	grpc     *grpc.Server
	health   *health.Server
	checks   map[string]CheckFunc
	interval time.Duration

	stopOnce sync.Once
	stop     chan struct{}
}

// New 创建服务，interval<=0时取10秒
func New(checks map[string]CheckFunc, interval time.Duration) *Server {
	if interval <= 0 {
		interval = 10 * time.Second
	}
	gs := grpc.NewServer(
		grpc.MaxRecvMsgSize(4*1024*1024),
	)
	hs := health.NewServer()
	healthpb.RegisterHealthServer(gs, hs)
	reflection.Register(gs)

	return &Server{
		grpc:     gs,
		health:   hs,
		checks:   checks,
		interval: interval,
		stop:     make(chan struct{}),
	}
}

// Check 执行一次所有依赖检查并更新状态
// 返回每个依赖的检查结果，nil表示正常
func (s *Server) Check(ctx context.Context) map[string]error {
	results := make(map[string]error, len(s.checks))
	var failed error
	for name, check := range s.checks {
		err := check(ctx)
		results[name] = err
		if err != nil {
			failed = errors.Join(failed, fmt.Errorf("%s: %w", name, err))
		}
	}

	status := healthpb.HealthCheckResponse_SERVING
	if failed != nil {
		status = healthpb.HealthCheckResponse_NOT_SERVING
		logger.L().WithError(failed).Warn("依赖检查失败")
	}
	s.health.SetServingStatus("", status)
	s.health.SetServingStatus(ServiceName, status)
	return results
}

// Serve 在lis上提供服务，阻塞直到Stop
func (s *Server) Serve(lis net.Listener) error {
	s.Check(context.Background())
	go s.watch()

	logger.L().WithFields(logrus.Fields{"addr": lis.Addr().String()}).Info("gRPC健康检查服务启动")
	if err := s.grpc.Serve(lis); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
		return err
	}
	return nil
}

func (s *Server) watch() {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	for {
		select {
		case <-s.stop:
			return
		case <-ticker.C:
			ctx, cancel := context.WithTimeout(context.Background(), s.interval/2)
			s.Check(ctx)
			cancel()
		}
	}
}

// Stop 标记为NOT_SERVING后优雅关闭
func (s *Server) Stop() {
	s.stopOnce.Do(func() {
		close(s.stop)
		s.health.Shutdown()
		s.grpc.GracefulStop()
	})
}
