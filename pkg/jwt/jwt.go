// Package jwt 签发和校验访问令牌
//
// 令牌携带user_id、email、role三个声明，HS256签名，带过期时间。
// 每个令牌有唯一的jti（RegisteredClaims.ID），登出时以jti为键加入黑名单，
// Redis中的token→user缓存也以jti为键。
package jwt

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	apperrors "github.com/xiebiao/library/pkg/errors"
)

const issuer = "library"

// 令牌类型
const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"
)

// Manager JWT管理器
type Manager struct {
	secret             []byte
	accessTokenExpire  time.Duration
	refreshTokenExpire time.Duration
	now                func() time.Time
}

// NewManager 创建JWT管理器
func NewManager(secret string, accessTokenExpire, refreshTokenExpire time.Duration) *Manager {
	return &Manager{
		secret:             []byte(secret),
		accessTokenExpire:  accessTokenExpire,
		refreshTokenExpire: refreshTokenExpire,
		now:                time.Now,
	}
}

// Claims 令牌声明
// TempAdmin表示本次登录通过管理员口令临时提权，Role此时为admin
type Claims struct {
	UserID    string `json:"user_id"`
	Email     string `json:"email"`
	Role      string `json:"role"`
	TempAdmin bool   `json:"temp_admin,omitempty"`
	TokenType string `json:"token_type"`
	jwt.RegisteredClaims
}

// TokenPair 登录返回的令牌对
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"` // Access Token有效期（秒）
}

// Subject 令牌主体
type Subject struct {
	UserID    string
	Email     string
	Role      string
	TempAdmin bool
}

// GenerateToken 生成访问令牌和刷新令牌
func (m *Manager) GenerateToken(sub Subject) (*TokenPair, error) {
	access, err := m.sign(sub, TokenTypeAccess, m.accessTokenExpire)
	if err != nil {
		return nil, apperrors.Wrap(err, "生成Access Token失败")
	}

	refresh, err := m.sign(sub, TokenTypeRefresh, m.refreshTokenExpire)
	if err != nil {
		return nil, apperrors.Wrap(err, "生成Refresh Token失败")
	}

	return &TokenPair{
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresIn:    int64(m.accessTokenExpire.Seconds()),
	}, nil
}

func (m *Manager) sign(sub Subject, tokenType string, ttl time.Duration) (string, error) {
	now := m.now()
	claims := Claims{
		UserID:    sub.UserID,
		Email:     sub.Email,
		Role:      sub.Role,
		TempAdmin: sub.TempAdmin,
		TokenType: tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    issuer,
			Subject:   sub.UserID,
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
}

// ParseToken 校验并解析访问令牌
func (m *Manager) ParseToken(tokenString string) (*Claims, error) {
	claims, err := m.parse(tokenString)
	if err != nil {
		return nil, err
	}
	if claims.TokenType != TokenTypeAccess {
		return nil, apperrors.ErrInvalidToken
	}
	return claims, nil
}

func (m *Manager) parse(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("非法的签名算法: %v", token.Header["alg"])
		}
		return m.secret, nil
	}, jwt.WithIssuer(issuer), jwt.WithTimeFunc(m.now))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, apperrors.ErrTokenExpired
		}
		return nil, apperrors.ErrInvalidToken.WithCause(err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.UserID == "" {
		return nil, apperrors.ErrInvalidToken
	}
	return claims, nil
}

// RefreshAccessToken 用刷新令牌换取新的访问令牌
func (m *Manager) RefreshAccessToken(refreshToken string) (string, *Claims, error) {
	claims, err := m.parse(refreshToken)
	if err != nil {
		return "", nil, err
	}
	if claims.TokenType != TokenTypeRefresh {
		return "", nil, apperrors.ErrInvalidToken
	}

	sub := Subject{UserID: claims.UserID, Email: claims.Email, Role: claims.Role, TempAdmin: claims.TempAdmin}
	token, err := m.sign(sub, TokenTypeAccess, m.accessTokenExpire)
	if err != nil {
		return "", nil, apperrors.Wrap(err, "刷新Token失败")
	}
	return token, claims, nil
}

// AccessTokenTTL Access Token有效期
func (m *Manager) AccessTokenTTL() time.Duration {
	return m.accessTokenExpire
}

// RemainingTTL 令牌剩余有效期，用于设置黑名单过期时间
func (m *Manager) RemainingTTL(claims *Claims) time.Duration {
	if claims.ExpiresAt == nil {
		return m.accessTokenExpire
	}
	ttl := claims.ExpiresAt.Time.Sub(m.now())
	if ttl < 0 {
		return 0
	}
	return ttl
}
