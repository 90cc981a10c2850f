package user

import (
	"github.com/xiebiao/library/internal/domain/user"
)

// UserView 对外的用户信息，不含密码
type UserView struct {
	UserID        string `json:"user_id"`
	Email         string `json:"email"`
	Role          string `json:"role"`
	IsAdmin       bool   `json:"is_admin"`
	IsVerified    bool   `json:"is_verified"`
	DisplayName   string `json:"display_name"`
	AvatarURL     string `json:"avatar_url"`
	Gender        string `json:"gender"`
	BackgroundURL string `json:"background_url"`
	Summary       string `json:"summary"`
	CreatedAt     int64  `json:"created_at"`
	UpdatedAt     int64  `json:"updated_at"`
}

// ToView 领域实体 → 响应结构
func ToView(u *user.User) *UserView {
	return &UserView{
		UserID:        u.ID,
		Email:         u.Email,
		Role:          string(u.Role),
		IsAdmin:       u.IsAdmin(),
		IsVerified:    u.IsVerified,
		DisplayName:   u.DisplayName,
		AvatarURL:     u.AvatarURL,
		Gender:        u.Gender,
		BackgroundURL: u.BackgroundURL,
		Summary:       u.Summary,
		CreatedAt:     u.CreatedAt,
		UpdatedAt:     u.UpdatedAt,
	}
}
