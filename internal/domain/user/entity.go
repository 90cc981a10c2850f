package user

import (
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Role 用户角色
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// DefaultAvatarURL 默认头像(按显示名生成首字母头像)
const DefaultAvatarURL = "https://api.dicebear.com/7.x/initials/svg?seed="

// User 用户实体（聚合根）
// 1. 主键是Email，UserID是其他表引用的稳定外键
// 2. 密码只保存bcrypt哈希值
// 3. 领域实体不依赖GORM tag（infrastructure层的Repository实现时会处理映射）
type User struct {
	ID            string
	Email         string
	Password      string // bcrypt哈希值
	Role          Role
	IsVerified    bool
	DisplayName   string
	AvatarURL     string
	Gender        string
	BackgroundURL string
	Summary       string
	CreatedAt     int64
	UpdatedAt     int64
}

// NewUser 创建新用户（工厂方法）
// hashedPassword必须是bcrypt加密后的密码
// displayName为空时取邮箱@前的部分
func NewUser(email, hashedPassword, displayName string, role Role) *User {
	if displayName == "" {
		displayName, _, _ = strings.Cut(email, "@")
	}
	now := time.Now().Unix()
	return &User{
		ID:          uuid.NewString(),
		Email:       email,
		Password:    hashedPassword,
		Role:        role,
		IsVerified:  true,
		DisplayName: displayName,
		AvatarURL:   DefaultAvatarURL + url.QueryEscape(displayName),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// IsAdmin 是否管理员
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// ProfilePatch 个人资料部分更新
// nil字段表示不修改
type ProfilePatch struct {
	DisplayName   *string
	AvatarURL     *string
	Gender        *string
	BackgroundURL *string
	Summary       *string
}

// Empty 是否没有任何字段需要更新
func (p ProfilePatch) Empty() bool {
	return p.DisplayName == nil && p.AvatarURL == nil && p.Gender == nil &&
		p.BackgroundURL == nil && p.Summary == nil
}
