package user

import (
	"context"
	"crypto/subtle"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/xiebiao/library/internal/domain/user"
	"github.com/xiebiao/library/internal/infrastructure/persistence/redis"
	"github.com/xiebiao/library/pkg/jwt"
	"github.com/xiebiao/library/pkg/logger"
)

// LoginUseCase 用户登录用例
// 1. 验证邮箱密码
// 2. 携带正确的管理员口令时，本次登录临时获得管理员权限
// 3. 生成JWT Token对，缓存token→user映射和登录信息
type LoginUseCase struct {
	userService  user.Service
	jwtManager   *jwt.Manager
	sessionStore *redis.SessionStore
	adminCode    string
	sessionTTL   time.Duration
}

// NewLoginUseCase 创建登录用例
// sessionTTL与Refresh Token有效期一致
func NewLoginUseCase(
	userService user.Service,
	jwtManager *jwt.Manager,
	sessionStore *redis.SessionStore,
	adminCode string,
	sessionTTL time.Duration,
) *LoginUseCase {
	return &LoginUseCase{
		userService:  userService,
		jwtManager:   jwtManager,
		sessionStore: sessionStore,
		adminCode:    adminCode,
		sessionTTL:   sessionTTL,
	}
}

// LoginRequest 登录请求
type LoginRequest struct {
	Email     string
	Password  string
	AdminCode string
	ClientIP  string
}

// LoginResponse 登录响应
type LoginResponse struct {
	UserID           string `json:"user_id"`
	Email            string `json:"email"`
	Role             string `json:"role"`
	IsAdmin          bool   `json:"is_admin"`
	IsTemporaryAdmin bool   `json:"is_temporary_admin"`
	DisplayName      string `json:"display_name"`
	AvatarURL        string `json:"avatar_url"`
	AccessToken      string `json:"access_token"`
	RefreshToken     string `json:"refresh_token"`
	ExpiresIn        int64  `json:"expires_in"`
}

// Execute 执行登录
func (uc *LoginUseCase) Execute(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	u, err := uc.userService.Authenticate(ctx, strings.TrimSpace(req.Email), req.Password)
	if err != nil {
		return nil, err
	}

	role := u.Role
	tempAdmin := false
	if !u.IsAdmin() && uc.checkAdminCode(req.AdminCode) {
		role = user.RoleAdmin
		tempAdmin = true
	}

	pair, err := uc.jwtManager.GenerateToken(jwt.Subject{
		UserID:    u.ID,
		Email:     u.Email,
		Role:      string(role),
		TempAdmin: tempAdmin,
	})
	if err != nil {
		return nil, err
	}

	claims, err := uc.jwtManager.ParseToken(pair.AccessToken)
	if err != nil {
		return nil, err
	}
	if err := uc.sessionStore.SaveToken(ctx, claims.ID, u.ID, uc.jwtManager.AccessTokenTTL()); err != nil {
		return nil, err
	}

	// 登录信息只用于审计，写失败不影响登录
	sessionData := map[string]interface{}{
		"user_id":    u.ID,
		"email":      u.Email,
		"role":       string(role),
		"temp_admin": tempAdmin,
		"login_at":   time.Now().Unix(),
		"ip":         req.ClientIP,
	}
	if err := uc.sessionStore.SaveSession(ctx, u.ID, sessionData, uc.sessionTTL); err != nil {
		logger.L().WithError(err).WithField("user_id", u.ID).Warn("保存登录信息失败")
	}

	logger.L().WithFields(logrus.Fields{
		"user_id":    u.ID,
		"temp_admin": tempAdmin,
	}).Info("用户登录")

	return &LoginResponse{
		UserID:           u.ID,
		Email:            u.Email,
		Role:             string(role),
		IsAdmin:          role == user.RoleAdmin,
		IsTemporaryAdmin: tempAdmin,
		DisplayName:      u.DisplayName,
		AvatarURL:        u.AvatarURL,
		AccessToken:      pair.AccessToken,
		RefreshToken:     pair.RefreshToken,
		ExpiresIn:        pair.ExpiresIn,
	}, nil
}

// checkAdminCode 未配置口令时永远不提权
func (uc *LoginUseCase) checkAdminCode(code string) bool {
	if uc.adminCode == "" || code == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(code), []byte(uc.adminCode)) == 1
}

// LogoutUseCase 用户登出用例
type LogoutUseCase struct {
	jwtManager   *jwt.Manager
	sessionStore *redis.SessionStore
}

// NewLogoutUseCase 创建登出用例
func NewLogoutUseCase(jwtManager *jwt.Manager, sessionStore *redis.SessionStore) *LogoutUseCase {
	return &LogoutUseCase{jwtManager: jwtManager, sessionStore: sessionStore}
}

// Execute 执行登出
// Access Token在剩余有效期内加入黑名单，防止过期前继续使用
func (uc *LogoutUseCase) Execute(ctx context.Context, claims *jwt.Claims) error {
	if err := uc.sessionStore.DeleteSession(ctx, claims.UserID); err != nil {
		return err
	}
	return uc.sessionStore.AddToBlacklist(ctx, claims.ID, uc.jwtManager.RemainingTTL(claims))
}

// RefreshTokenUseCase 刷新Access Token
type RefreshTokenUseCase struct {
	jwtManager   *jwt.Manager
	sessionStore *redis.SessionStore
}

// NewRefreshTokenUseCase 创建刷新用例
func NewRefreshTokenUseCase(jwtManager *jwt.Manager, sessionStore *redis.SessionStore) *RefreshTokenUseCase {
	return &RefreshTokenUseCase{jwtManager: jwtManager, sessionStore: sessionStore}
}

// RefreshTokenResponse 刷新响应
type RefreshTokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int64  `json:"expires_in"`
}

// Execute 用Refresh Token换取新的Access Token，要求登录信息仍然存在
func (uc *RefreshTokenUseCase) Execute(ctx context.Context, refreshToken string) (*RefreshTokenResponse, error) {
	access, refreshClaims, err := uc.jwtManager.RefreshAccessToken(refreshToken)
	if err != nil {
		return nil, err
	}
	// 登出会删除登录信息，之后的刷新一律拒绝
	if _, err := uc.sessionStore.GetSession(ctx, refreshClaims.UserID); err != nil {
		return nil, err
	}

	claims, err := uc.jwtManager.ParseToken(access)
	if err != nil {
		return nil, err
	}
	if err := uc.sessionStore.SaveToken(ctx, claims.ID, claims.UserID, uc.jwtManager.AccessTokenTTL()); err != nil {
		return nil, err
	}
	return &RefreshTokenResponse{
		AccessToken: access,
		ExpiresIn:   int64(uc.jwtManager.AccessTokenTTL().Seconds()),
	}, nil
}
