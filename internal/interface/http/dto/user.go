package dto

// SendCodeRequest 发送注册验证码
type SendCodeRequest struct {
	Email string `json:"email" binding:"required,email" example:"reader@example.com"`
}

// RegisterRequest 注册
type RegisterRequest struct {
	Email       string `json:"email" binding:"required,email" example:"reader@example.com"`
	Password    string `json:"password" binding:"required,min=6,max=72" example:"secret123"`
	Code        string `json:"code" binding:"required,len=6" example:"123456"`
	DisplayName string `json:"display_name" binding:"max=50"`
}

// LoginRequest 登录，admin_code可选
type LoginRequest struct {
	Email     string `json:"email" binding:"required" example:"reader@example.com"`
	Password  string `json:"password" binding:"required" example:"secret123"`
	AdminCode string `json:"admin_code"`
}

// RefreshTokenRequest 刷新Token
type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// ForgotSendCodeRequest 找回密码发送验证码
type ForgotSendCodeRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// VerifyCodeRequest 找回密码校验验证码
type VerifyCodeRequest struct {
	Email string `json:"email" binding:"required,email"`
	Code  string `json:"code" binding:"required"`
}

// ResetPasswordRequest 找回密码设置新密码
type ResetPasswordRequest struct {
	Email       string `json:"email" binding:"required,email"`
	Code        string `json:"code" binding:"required"`
	NewPassword string `json:"new_password" binding:"required,min=6,max=72"`
}

// UpdateProfileRequest 修改个人资料，只修改出现的字段
type UpdateProfileRequest struct {
	DisplayName   *string `json:"display_name" binding:"omitempty,max=50"`
	AvatarURL     *string `json:"avatar_url" binding:"omitempty,max=500"`
	Gender        *string `json:"gender" binding:"omitempty,max=10"`
	BackgroundURL *string `json:"background_url" binding:"omitempty,max=500"`
	Summary       *string `json:"summary" binding:"omitempty,max=500"`
}
