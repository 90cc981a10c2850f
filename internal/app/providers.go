package app

import (
	"context"
	"errors"

	"github.com/google/wire"
	goredis "github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	appaichat "github.com/xiebiao/library/internal/application/aichat"
	appannouncement "github.com/xiebiao/library/internal/application/announcement"
	appbook "github.com/xiebiao/library/internal/application/book"
	appborrow "github.com/xiebiao/library/internal/application/borrow"
	appcomment "github.com/xiebiao/library/internal/application/comment"
	appfavorite "github.com/xiebiao/library/internal/application/favorite"
	apphistory "github.com/xiebiao/library/internal/application/history"
	appreservation "github.com/xiebiao/library/internal/application/reservation"
	appuser "github.com/xiebiao/library/internal/application/user"
	"github.com/xiebiao/library/internal/domain/book"
	"github.com/xiebiao/library/internal/domain/reservation"
	"github.com/xiebiao/library/internal/domain/user"
	"github.com/xiebiao/library/internal/domain/verification"
	"github.com/xiebiao/library/internal/infrastructure/config"
	"github.com/xiebiao/library/internal/infrastructure/grpcserver"
	"github.com/xiebiao/library/internal/infrastructure/llm"
	"github.com/xiebiao/library/internal/infrastructure/mail"
	"github.com/xiebiao/library/internal/infrastructure/messaging"
	"github.com/xiebiao/library/internal/infrastructure/persistence/database"
	"github.com/xiebiao/library/internal/infrastructure/persistence/redis"
	"github.com/xiebiao/library/internal/infrastructure/storage"
	"github.com/xiebiao/library/internal/interface/http/handler"
	"github.com/xiebiao/library/internal/interface/http/middleware"
	"github.com/xiebiao/library/internal/interface/http/router"
	"github.com/xiebiao/library/pkg/jwt"
	"github.com/xiebiao/library/pkg/logger"
	"github.com/xiebiao/library/pkg/mq"
)

// 依赖注入链：Repository ← Service ← UseCase ← Handler ← Router
// New按这个顺序手动组装；cmd/api/wire.go用同一批Provider声明Wire注入器

// InfrastructureSet 数据库、Redis、邮件、对象存储、大模型、消息
var InfrastructureSet = wire.NewSet(
	ProvideDB,
	ProvideRedis,
	ProvideMailSender,
	ProvidePresigner,
	ProvideChatModel,
	ProvidePublisher,
	ProvideJWTManager,
	redis.NewSessionStore,
	redis.NewCodeThrottle,
	wire.Bind(new(verification.Throttle), new(*redis.CodeThrottle)),
)

// RepositorySet 仓储
var RepositorySet = wire.NewSet(
	ProvideUserRepository,
	database.NewBookRepository,
	database.NewBorrowRepository,
	database.NewReservationRepository,
	database.NewCommentRepository,
	database.NewCommentLikeRepository,
	database.NewFavoriteRepository,
	database.NewHistoryRepository,
	database.NewAnnouncementRepository,
	database.NewVerificationRepository,
)

// DomainSet 领域服务
var DomainSet = wire.NewSet(
	user.NewService,
	book.NewService,
)

// ApplicationSet 用例
var ApplicationSet = wire.NewSet(
	ProvideSendCodeUseCase,
	appuser.NewVerifyCodeUseCase,
	appuser.NewRegisterUseCase,
	ProvideLoginUseCase,
	appuser.NewLogoutUseCase,
	appuser.NewRefreshTokenUseCase,
	appuser.NewResetPasswordUseCase,
	appuser.NewProfileUseCase,
	appuser.NewBootstrapAdminUseCase,
	apphistory.NewUseCase,
	appfavorite.NewUseCase,
	appannouncement.NewUseCase,
	appbook.NewListBooksUseCase,
	appbook.NewGetBookUseCase,
	appbook.NewManageBookUseCase,
	ProvideCoverUploadUseCase,
	appborrow.NewBorrowBookUseCase,
	appborrow.NewReturnBookUseCase,
	appborrow.NewBatchBorrowUseCase,
	appborrow.NewBatchReturnUseCase,
	appborrow.NewListUserBorrowsUseCase,
	appreservation.NewReserveBookUseCase,
	appreservation.NewCancelReservationUseCase,
	appreservation.NewFulfillReservationUseCase,
	appreservation.NewQueryUseCase,
	ProvideExpireReservationsUseCase,
	appcomment.NewListCommentsUseCase,
	appcomment.NewCreateCommentUseCase,
	appcomment.NewToggleLikeUseCase,
	ProvideChatUseCase,
)

// InterfaceSet HTTP处理器、中间件、路由、gRPC健康检查
var InterfaceSet = wire.NewSet(
	middleware.NewAuthMiddleware,
	handler.NewUserHandler,
	handler.NewBookHandler,
	handler.NewLendingHandler,
	handler.NewReservationHandler,
	handler.NewCommentHandler,
	handler.NewFavoriteHandler,
	handler.NewHistoryHandler,
	handler.NewAnnouncementHandler,
	handler.NewChatHandler,
	ProvideHealthChecks,
	ProvideHealthHandler,
	ProvideGRPCHealth,
	wire.Struct(new(router.Handlers), "*"),
	router.New,
)

// ProvideDB 打开数据库
func ProvideDB(cfg *config.Config) (*gorm.DB, func(), error) {
	db, err := database.Open(cfg.Database, cfg.Server.Mode == "debug")
	if err != nil {
		return nil, nil, err
	}
	return db, func() { _ = database.Close(db) }, nil
}

// ProvideRedis 连接Redis
func ProvideRedis(cfg *config.Config) (*goredis.Client, func(), error) {
	client, err := redis.NewClient(cfg.Redis)
	if err != nil {
		return nil, nil, err
	}
	return client, func() { _ = client.Close() }, nil
}

// ProvideUserRepository 数据库仓储外面套一层user:{id}缓存
func ProvideUserRepository(cfg *config.Config, db *gorm.DB, client *goredis.Client) user.Repository {
	return redis.NewCachedUserRepository(database.NewUserRepository(db), client, cfg.Redis.UserTTL)
}

// ProvideJWTManager 从配置创建JWT管理器
func ProvideJWTManager(cfg *config.Config) *jwt.Manager {
	return jwt.NewManager(cfg.JWT.Secret, cfg.JWT.AccessTokenExpire, cfg.JWT.RefreshTokenExpire)
}

// ProvideMailSender provider=console时只打日志
func ProvideMailSender(cfg *config.Config) mail.Sender {
	return mail.NewSender(cfg.Mail)
}

// ProvidePresigner 未配置OSS时返回nil，封面上传接口返回"对象存储未配置"
func ProvidePresigner(cfg *config.Config) (storage.Presigner, error) {
	p, err := storage.NewOSSPresigner(cfg.Storage)
	if errors.Is(err, storage.ErrNotConfigured) {
		logger.L().Warn("对象存储未配置，封面上传不可用")
		return nil, nil
	}
	return p, err
}

// ProvideChatModel 大模型客户端
func ProvideChatModel(cfg *config.Config) llm.ChatModel {
	return llm.NewClient(cfg.AI)
}

// ProvidePublisher 事件发布者
// mq.enabled=true时发布到RabbitMQ，否则进程内直接交给通知处理器
func ProvidePublisher(cfg *config.Config, sender mail.Sender) (messaging.Publisher, func(), error) {
	if !cfg.MQ.Enabled {
		notifier := messaging.NewNotificationHandler(sender, cfg.Mail.SiteName)
		return messaging.NewLocalPublisher(notifier.Handle), func() {}, nil
	}
	p, err := mq.NewPublisher(cfg.MQ.URL, cfg.MQ.Exchange, "topic")
	if err != nil {
		return nil, nil, err
	}
	return p, func() { _ = p.Close() }, nil
}

// ProvideSendCodeUseCase 验证码邮件带站点名
func ProvideSendCodeUseCase(
	cfg *config.Config,
	userRepo user.Repository,
	codeRepo verification.Repository,
	throttle verification.Throttle,
	sender mail.Sender,
) *appuser.SendCodeUseCase {
	return appuser.NewSendCodeUseCase(userRepo, codeRepo, throttle, sender, cfg.Mail.SiteName)
}

// ProvideLoginUseCase 会话有效期与Refresh Token一致
func ProvideLoginUseCase(
	cfg *config.Config,
	userService user.Service,
	jwtManager *jwt.Manager,
	sessionStore *redis.SessionStore,
) *appuser.LoginUseCase {
	return appuser.NewLoginUseCase(userService, jwtManager, sessionStore, cfg.Admin.Code, cfg.JWT.RefreshTokenExpire)
}

// ProvideCoverUploadUseCase 封面直传
func ProvideCoverUploadUseCase(cfg *config.Config, presigner storage.Presigner) *appbook.CoverUploadUseCase {
	return appbook.NewCoverUploadUseCase(presigner, cfg.Storage.CoverPrefix, cfg.Storage.PresignExpire)
}

// ProvideExpireReservationsUseCase 预约过期扫描
func ProvideExpireReservationsUseCase(cfg *config.Config, repo reservation.Repository, publisher messaging.Publisher) *appreservation.ExpireReservationsUseCase {
	return appreservation.NewExpireReservationsUseCase(repo, publisher, cfg.Cron.ExpireGraceDays, cfg.Cron.ExpireBatchLimit)
}

// ProvideChatUseCase AI助手
func ProvideChatUseCase(cfg *config.Config, bookRepo book.Repository, model llm.ChatModel) *appaichat.ChatUseCase {
	return appaichat.NewChatUseCase(bookRepo, model, cfg.AI.MaxBooks)
}

// HealthChecks 依赖检查，HTTP和gRPC健康检查共用
type HealthChecks map[string]grpcserver.CheckFunc

// ProvideHealthChecks 数据库和Redis的Ping
func ProvideHealthChecks(db *gorm.DB, client *goredis.Client) HealthChecks {
	return HealthChecks{
		"database": func(ctx context.Context) error {
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			return sqlDB.PingContext(ctx)
		},
		"redis": func(ctx context.Context) error {
			return client.Ping(ctx).Err()
		},
	}
}

// ProvideHealthHandler HTTP健康检查
func ProvideHealthHandler(checks HealthChecks) *handler.HealthHandler {
	hc := make(map[string]handler.HealthCheck, len(checks))
	for name, check := range checks {
		hc[name] = handler.HealthCheck(check)
	}
	return handler.NewHealthHandler(hc)
}

// ProvideGRPCHealth gRPC健康检查服务，grpc_port=0时返回nil
func ProvideGRPCHealth(cfg *config.Config, checks HealthChecks) *grpcserver.Server {
	if cfg.Server.GRPCPort == 0 {
		return nil
	}
	return grpcserver.New(checks, 0)
}
