package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/xiebiao/library/internal/domain/user"
	"github.com/xiebiao/library/internal/infrastructure/persistence/redis"
	apperrors "github.com/xiebiao/library/pkg/errors"
	"github.com/xiebiao/library/pkg/jwt"
	"github.com/xiebiao/library/pkg/response"
)

// Context中的键
const (
	ctxUserID  = "user_id"
	ctxEmail   = "email"
	ctxIsAdmin = "is_admin"
	ctxClaims  = "claims"
)

// AuthMiddleware JWT认证中间件
// 1. 从Header提取Bearer Token并校验签名和过期时间
// 2. 检查黑名单（已登出的Token）
// 3. 通过token→user缓存和带缓存的用户仓储确认用户仍然存在
// 4. 将用户信息注入Context
type AuthMiddleware struct {
	jwtManager   *jwt.Manager
	sessionStore *redis.SessionStore
	userRepo     user.Repository
}

// NewAuthMiddleware 创建认证中间件
func NewAuthMiddleware(jwtManager *jwt.Manager, sessionStore *redis.SessionStore, userRepo user.Repository) *AuthMiddleware {
	return &AuthMiddleware{
		jwtManager:   jwtManager,
		sessionStore: sessionStore,
		userRepo:     userRepo,
	}
}

// RequireAuth 要求登录
//
//	authorized := api.Group("")
//	authorized.Use(auth.RequireAuth())
func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c)
		if !ok {
			response.AbortWithError(c, apperrors.ErrUnauthorized)
			return
		}
		if err := m.authenticate(c, token); err != nil {
			response.AbortWithError(c, err)
			return
		}
		c.Next()
	}
}

// OptionalAuth 可选登录
// 没有Token或Token无效时按匿名用户继续处理（图书详情、评论列表）
func (m *AuthMiddleware) OptionalAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if token, ok := bearerToken(c); ok {
			_ = m.authenticate(c, token)
		}
		c.Next()
	}
}

// RequireAdmin 要求管理员，必须放在RequireAuth之后
// 管理员口令登录获得的临时管理员同样放行
func (m *AuthMiddleware) RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !IsAdmin(c) {
			response.AbortWithError(c, apperrors.ErrAdminRequired)
			return
		}
		c.Next()
	}
}

func (m *AuthMiddleware) authenticate(c *gin.Context, token string) error {
	ctx := c.Request.Context()

	claims, err := m.jwtManager.ParseToken(token)
	if err != nil {
		return err
	}

	revoked, err := m.sessionStore.IsInBlacklist(ctx, claims.ID)
	if err != nil {
		return err
	}
	if revoked {
		return apperrors.New(apperrors.ErrCodeTokenExpired, "Token已失效，请重新登录")
	}

	// 缓存中的映射与Token声明不一致说明Token被篡改或复用
	if cached, ok, err := m.sessionStore.TokenUser(ctx, claims.ID); err == nil && ok && cached != claims.UserID {
		return apperrors.ErrInvalidToken
	}

	u, err := m.userRepo.FindByID(ctx, claims.UserID)
	if err != nil {
		if apperrors.Is(err, user.ErrUserNotFound) {
			return apperrors.ErrInvalidToken
		}
		return err
	}

	c.Set(ctxUserID, u.ID)
	c.Set(ctxEmail, u.Email)
	c.Set(ctxIsAdmin, u.IsAdmin() || claims.Role == string(user.RoleAdmin))
	c.Set(ctxClaims, claims)
	return nil
}

// bearerToken 格式：Authorization: Bearer <token>
func bearerToken(c *gin.Context) (string, bool) {
	header := c.GetHeader("Authorization")
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

// =========================================
// Context辅助函数（供Handler使用）
// =========================================

// GetUserID 当前登录用户ID，未登录返回空串
func GetUserID(c *gin.Context) string {
	return c.GetString(ctxUserID)
}

// GetEmail 当前登录用户邮箱
func GetEmail(c *gin.Context) string {
	return c.GetString(ctxEmail)
}

// IsAdmin 当前用户是否有管理员权限
func IsAdmin(c *gin.Context) bool {
	return c.GetBool(ctxIsAdmin)
}

// GetClaims 当前请求的Token声明，登出时用于拉黑
func GetClaims(c *gin.Context) *jwt.Claims {
	if v, ok := c.Get(ctxClaims); ok {
		if claims, ok := v.(*jwt.Claims); ok {
			return claims
		}
	}
	return nil
}

// MustGetUserID 用于已经通过RequireAuth的Handler
func MustGetUserID(c *gin.Context) string {
	userID := GetUserID(c)
	if userID == "" {
		panic("user_id not found in context")
	}
	return userID
}
