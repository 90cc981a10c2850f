// Package app 组装整个应用
package app

import (
	"github.com/gin-gonic/gin"
	goredis "github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	appannouncement "github.com/xiebiao/library/internal/application/announcement"
	appbook "github.com/xiebiao/library/internal/application/book"
	appborrow "github.com/xiebiao/library/internal/application/borrow"
	appcomment "github.com/xiebiao/library/internal/application/comment"
	appfavorite "github.com/xiebiao/library/internal/application/favorite"
	apphistory "github.com/xiebiao/library/internal/application/history"
	appreservation "github.com/xiebiao/library/internal/application/reservation"
	appuser "github.com/xiebiao/library/internal/application/user"
	"github.com/xiebiao/library/internal/domain/book"
	"github.com/xiebiao/library/internal/domain/user"
	"github.com/xiebiao/library/internal/infrastructure/config"
	"github.com/xiebiao/library/internal/infrastructure/grpcserver"
	"github.com/xiebiao/library/internal/infrastructure/persistence/database"
	"github.com/xiebiao/library/internal/infrastructure/persistence/redis"
	"github.com/xiebiao/library/internal/interface/http/handler"
	"github.com/xiebiao/library/internal/interface/http/middleware"
	"github.com/xiebiao/library/internal/interface/http/router"
)

// App 运行所需的全部组件
type App struct {
	Config *config.Config
	DB     *gorm.DB
	Redis  *goredis.Client
	Engine *gin.Engine

	// GRPC grpc_port=0时为nil
	GRPC *grpcserver.Server

	ExpireReservations *appreservation.ExpireReservationsUseCase
	BootstrapAdmin     *appuser.BootstrapAdminUseCase
}

// NewApp Wire的最终Provider
func NewApp(
	cfg *config.Config,
	db *gorm.DB,
	client *goredis.Client,
	engine *gin.Engine,
	grpcHealth *grpcserver.Server,
	expire *appreservation.ExpireReservationsUseCase,
	bootstrap *appuser.BootstrapAdminUseCase,
) *App {
	return &App{
		Config:             cfg,
		DB:                 db,
		Redis:              client,
		Engine:             engine,
		GRPC:               grpcHealth,
		ExpireReservations: expire,
		BootstrapAdmin:     bootstrap,
	}
}

// New 手动组装依赖，返回的cleanup按创建的逆序释放资源
func New(cfg *config.Config) (*App, func(), error) {
	var cleanups []func()
	cleanup := func() {
		for i := len(cleanups) - 1; i >= 0; i-- {
			cleanups[i]()
		}
	}
	fail := func(err error) (*App, func(), error) {
		cleanup()
		return nil, nil, err
	}

	// 基础设施层
	db, closeDB, err := ProvideDB(cfg)
	if err != nil {
		return fail(err)
	}
	cleanups = append(cleanups, closeDB)

	client, closeRedis, err := ProvideRedis(cfg)
	if err != nil {
		return fail(err)
	}
	cleanups = append(cleanups, closeRedis)

	sender := ProvideMailSender(cfg)
	presigner, err := ProvidePresigner(cfg)
	if err != nil {
		return fail(err)
	}
	publisher, closePublisher, err := ProvidePublisher(cfg, sender)
	if err != nil {
		return fail(err)
	}
	cleanups = append(cleanups, closePublisher)

	jwtManager := ProvideJWTManager(cfg)
	sessionStore := redis.NewSessionStore(client)
	throttle := redis.NewCodeThrottle(client)
	chatModel := ProvideChatModel(cfg)

	// 仓储
	userRepo := ProvideUserRepository(cfg, db, client)
	bookRepo := database.NewBookRepository(db)
	borrowRepo := database.NewBorrowRepository(db)
	reservationRepo := database.NewReservationRepository(db)
	commentRepo := database.NewCommentRepository(db)
	likeRepo := database.NewCommentLikeRepository(db)
	favoriteRepo := database.NewFavoriteRepository(db)
	historyRepo := database.NewHistoryRepository(db)
	announcementRepo := database.NewAnnouncementRepository(db)
	codeRepo := database.NewVerificationRepository(db)

	// 领域层
	userService := user.NewService(userRepo)
	bookService := book.NewService(bookRepo)

	// 应用层
	historyUseCase := apphistory.NewUseCase(historyRepo, bookRepo)
	borrowUseCase := appborrow.NewBorrowBookUseCase(bookRepo, borrowRepo, publisher)
	returnUseCase := appborrow.NewReturnBookUseCase(bookRepo, borrowRepo, publisher)
	sendCodeUseCase := ProvideSendCodeUseCase(cfg, userRepo, codeRepo, throttle, sender)

	// 接口层
	authMiddleware := middleware.NewAuthMiddleware(jwtManager, sessionStore, userRepo)
	checks := ProvideHealthChecks(db, client)
	handlers := &router.Handlers{
		User: handler.NewUserHandler(
			sendCodeUseCase,
			appuser.NewVerifyCodeUseCase(codeRepo),
			appuser.NewRegisterUseCase(userService, codeRepo),
			ProvideLoginUseCase(cfg, userService, jwtManager, sessionStore),
			appuser.NewLogoutUseCase(jwtManager, sessionStore),
			appuser.NewRefreshTokenUseCase(jwtManager, sessionStore),
			appuser.NewResetPasswordUseCase(userService, codeRepo),
			appuser.NewProfileUseCase(userRepo),
		),
		Book: handler.NewBookHandler(
			appbook.NewListBooksUseCase(bookService),
			appbook.NewGetBookUseCase(bookService, borrowRepo, favoriteRepo, historyUseCase),
			appbook.NewManageBookUseCase(bookService),
			ProvideCoverUploadUseCase(cfg, presigner),
		),
		Lending: handler.NewLendingHandler(
			borrowUseCase,
			returnUseCase,
			appborrow.NewBatchBorrowUseCase(borrowUseCase),
			appborrow.NewBatchReturnUseCase(returnUseCase),
			appborrow.NewListUserBorrowsUseCase(bookRepo, borrowRepo),
		),
		Reservation: handler.NewReservationHandler(
			appreservation.NewReserveBookUseCase(userRepo, bookRepo, borrowRepo, reservationRepo, publisher),
			appreservation.NewCancelReservationUseCase(reservationRepo, publisher),
			appreservation.NewFulfillReservationUseCase(reservationRepo, publisher),
			appreservation.NewQueryUseCase(reservationRepo, bookRepo, userRepo),
		),
		Comment: handler.NewCommentHandler(
			appcomment.NewListCommentsUseCase(commentRepo, likeRepo),
			appcomment.NewCreateCommentUseCase(commentRepo, bookRepo, userRepo),
			appcomment.NewToggleLikeUseCase(commentRepo, likeRepo, userRepo),
		),
		Favorite:     handler.NewFavoriteHandler(appfavorite.NewUseCase(favoriteRepo, bookRepo)),
		History:      handler.NewHistoryHandler(historyUseCase),
		Announcement: handler.NewAnnouncementHandler(appannouncement.NewUseCase(announcementRepo)),
		Chat:         handler.NewChatHandler(ProvideChatUseCase(cfg, bookRepo, chatModel)),
		Health:       ProvideHealthHandler(checks),
	}
	engine, err := router.New(cfg, handlers, authMiddleware)
	if err != nil {
		return fail(err)
	}

	a := NewApp(
		cfg,
		db,
		client,
		engine,
		ProvideGRPCHealth(cfg, checks),
		ProvideExpireReservationsUseCase(cfg, reservationRepo, publisher),
		appuser.NewBootstrapAdminUseCase(userService),
	)
	return a, cleanup, nil
}
