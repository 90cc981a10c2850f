// Package router 注册HTTP路由
package router

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/xiebiao/library/internal/infrastructure/config"
	"github.com/xiebiao/library/internal/interface/http/dto"
	"github.com/xiebiao/library/internal/interface/http/handler"
	"github.com/xiebiao/library/internal/interface/http/middleware"
	"github.com/xiebiao/library/pkg/metrics"
)

// Handlers 路由需要的全部处理器
type Handlers struct {
	User         *handler.UserHandler
	Book         *handler.BookHandler
	Lending      *handler.LendingHandler
	Reservation  *handler.ReservationHandler
	Comment      *handler.CommentHandler
	Favorite     *handler.FavoriteHandler
	History      *handler.HistoryHandler
	Announcement *handler.AnnouncementHandler
	Chat         *handler.ChatHandler
	Health       *handler.HealthHandler
}

// New 创建Gin引擎并注册全部路由
//
// 中间件顺序：Recovery → Logger → Tracing → Metrics → CORS
// Recovery放最外层，后面任何一层panic都能被兜住
func New(cfg *config.Config, h *Handlers, auth *middleware.AuthMiddleware) (*gin.Engine, error) {
	if err := dto.RegisterValidators(); err != nil {
		return nil, err
	}
	switch cfg.Server.Mode {
	case "release":
		gin.SetMode(gin.ReleaseMode)
	case "test":
		gin.SetMode(gin.TestMode)
	}

	r := gin.New()
	r.Use(middleware.Recovery(), middleware.Logger())
	if cfg.Tracing.Enabled {
		r.Use(middleware.Tracing())
	}
	if cfg.Metrics.Enabled {
		metrics.Register(prometheus.DefaultRegisterer)
		r.Use(middleware.Metrics())
		path := cfg.Metrics.Path
		if path == "" {
			path = "/metrics"
		}
		r.GET(path, gin.WrapH(promhttp.Handler()))
	}
	if cfg.CORS.Enabled {
		r.Use(middleware.CORS(cfg.CORS))
	}

	r.GET("/health", h.Health.Health)
	r.GET("/ping", h.Health.Ping)
	if cfg.Server.Mode != "release" {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group("/api")
	api.GET("/health", h.Health.Health)

	// 认证
	api.POST("/send-verification-code", h.User.SendVerificationCode)
	api.POST("/register", h.User.Register)
	api.POST("/login", h.User.Login)
	api.POST("/refresh-token", h.User.RefreshToken)
	api.POST("/logout", auth.RequireAuth(), h.User.Logout)
	forgot := api.Group("/forgot-password")
	{
		forgot.POST("/send-code", h.User.ForgotSendCode)
		forgot.POST("/verify-code", h.User.ForgotVerifyCode)
		forgot.POST("/reset", h.User.ForgotReset)
	}

	// 公开的读接口，登录时附带当前用户（收藏状态、点赞状态）
	public := api.Group("", auth.OptionalAuth())
	{
		public.GET("/books", h.Book.ListBooks)
		public.GET("/books/:id", h.Book.GetBook)
		public.GET("/books/:id/comments", h.Comment.List)
		public.GET("/announcements", h.Announcement.List)
		public.POST("/ai/chat", h.Chat.Chat)
	}

	authed := api.Group("", auth.RequireAuth())
	{
		authed.GET("/user/current", h.User.Current)
		authed.PUT("/user/profile", h.User.UpdateProfile)

		authed.POST("/books/:id/borrow", h.Lending.Borrow)
		authed.POST("/books/:id/return", h.Lending.Return)
		authed.POST("/books/:id/return-early", h.Lending.ReturnEarly)
		authed.POST("/books/batch-borrow", h.Lending.BatchBorrow)
		authed.POST("/batch-return", h.Lending.BatchReturn)
		authed.POST("/return/:borrow_id", h.Lending.ReturnByID)
		authed.GET("/user/borrows", h.Lending.ListMyBorrows)

		authed.POST("/books/:id/reserve", h.Reservation.Reserve)
		authed.POST("/reservations/:id/cancel", h.Reservation.Cancel)
		authed.GET("/reservations/:id", h.Reservation.Get)
		authed.GET("/user/reservations", h.Reservation.ListMine)

		authed.POST("/books/:id/comments", h.Comment.Create)
		authed.POST("/comments/:id/like", h.Comment.ToggleLike)

		authed.GET("/favorites", h.Favorite.List)
		authed.POST("/favorites/:book_id", h.Favorite.Add)
		authed.DELETE("/favorites/:book_id", h.Favorite.Remove)
		authed.GET("/favorites/:book_id/check", h.Favorite.Check)

		authed.GET("/history", h.History.List)
	}

	admin := api.Group("", auth.RequireAuth(), auth.RequireAdmin())
	{
		admin.POST("/books", h.Book.CreateBook)
		admin.PUT("/books/:id", h.Book.UpdateBook)
		admin.DELETE("/books/:id", h.Book.DeleteBook)
		admin.GET("/presigned-url", h.Book.PresignedURL)
		admin.GET("/books/:id/reservations", h.Reservation.ListByBook)
		admin.POST("/reservations/:id/fulfill", h.Reservation.Fulfill)
		admin.POST("/announcements", h.Announcement.Create)
		admin.DELETE("/announcements/:id", h.Announcement.Delete)
	}

	return r, nil
}
