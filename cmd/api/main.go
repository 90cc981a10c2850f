// @title           图书馆管理系统 API
// @version         1.0
// @description     图书借阅、预约、评论、收藏和AI图书助手
// @BasePath        /
// @securityDefinitions.apikey BearerAuth
// @in              header
// @name            Authorization
package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/xiebiao/library/internal/app"
	"github.com/xiebiao/library/internal/infrastructure/config"
	"github.com/xiebiao/library/internal/infrastructure/messaging"
	"github.com/xiebiao/library/internal/infrastructure/scheduler"
	"github.com/xiebiao/library/pkg/logger"
	"github.com/xiebiao/library/pkg/mq"
	"github.com/xiebiao/library/pkg/tracing"
)

func main() {
	// 1. 加载配置
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "加载配置失败: %v\n", err)
		os.Exit(1)
	}
	logger.Init(cfg.Log.Level, cfg.Log.Format)
	log := logger.L()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// 2. 链路追踪
	if cfg.Tracing.Enabled {
		shutdownTracer, err := tracing.InitTracer(ctx, cfg.Tracing.ServiceName, cfg.Tracing.Endpoint, cfg.Tracing.SampleRatio)
		if err != nil {
			log.WithError(err).Fatal("初始化链路追踪失败")
		}
		defer func() {
			sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = shutdownTracer(sctx)
		}()
	}

	// 3. 组装应用
	a, cleanup, err := app.New(cfg)
	if err != nil {
		log.WithError(err).Fatal("初始化应用失败")
	}
	defer cleanup()

	// 4. 确保管理员账号存在
	if cfg.Admin.Bootstrap && cfg.Admin.DefaultPassword != "" {
		view, created, err := a.BootstrapAdmin.Execute(ctx, cfg.Admin.Email, cfg.Admin.DefaultPassword)
		if err != nil {
			log.WithError(err).Error("初始化管理员失败")
		} else {
			log.WithFields(logrus.Fields{"email": view.Email, "created": created}).Info("管理员账号就绪")
		}
	}

	// 5. 定时任务：预约过期
	var cron *scheduler.Scheduler
	if cfg.Cron.Enabled {
		cron = scheduler.New()
		err := cron.Add("expire-reservations", cfg.Cron.ExpireSpec, func(ctx context.Context) error {
			_, err := a.ExpireReservations.Execute(ctx, time.Now())
			return err
		})
		if err != nil {
			log.WithError(err).Fatal("注册定时任务失败")
		}
		cron.Start()
	}

	// 6. 通知消费者（只在开启MQ时需要，未开启时事件在进程内处理）
	if cfg.MQ.Enabled {
		consumer, err := mq.NewConsumer(cfg.MQ.URL, cfg.MQ.Exchange, "topic", cfg.MQ.Queue, messaging.NotificationBindings)
		if err != nil {
			log.WithError(err).Fatal("创建消息消费者失败")
		}
		defer consumer.Close()
		notifier := messaging.NewNotificationHandler(app.ProvideMailSender(cfg), cfg.Mail.SiteName)
		go func() {
			if err := messaging.Consume(ctx, consumer, notifier.Handle); err != nil && !errors.Is(err, context.Canceled) {
				log.WithError(err).Error("消息消费中断")
			}
		}()
	}

	// 7. gRPC健康检查
	if a.GRPC != nil {
		lis, err := net.Listen("tcp", fmt.Sprintf(":%d", cfg.Server.GRPCPort))
		if err != nil {
			log.WithError(err).Fatal("gRPC端口监听失败")
		}
		go func() {
			if err := a.GRPC.Serve(lis); err != nil {
				log.WithError(err).Error("gRPC服务异常退出")
			}
		}()
	}

	// 8. HTTP服务
	srv := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      a.Engine,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}
	go func() {
		log.WithField("addr", srv.Addr).Info("HTTP服务启动")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("HTTP服务启动失败")
		}
	}()

	fmt.Printf("\n🚀 服务启动成功！\n")
	fmt.Printf("   访问地址: http://localhost%s\n", srv.Addr)
	fmt.Printf("   健康检查: http://localhost%s/health\n", srv.Addr)
	if cfg.Server.Mode != "release" {
		fmt.Printf("   接口文档: http://localhost%s/swagger/index.html\n", srv.Addr)
	}
	fmt.Printf("\n按Ctrl+C停止服务\n\n")

	// 9. 优雅关闭：先停止接收请求，再停定时任务和gRPC，最后由cleanup释放连接
	<-ctx.Done()
	log.Info("正在优雅关闭服务...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("HTTP服务强制关闭")
	}
	if cron != nil {
		cron.Stop(shutdownCtx)
	}
	if a.GRPC != nil {
		a.GRPC.Stop()
	}
	log.Info("服务已关闭")
}
