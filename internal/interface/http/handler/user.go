package handler

import (
	"github.com/gin-gonic/gin"

	appuser "github.com/xiebiao/library/internal/application/user"
	"github.com/xiebiao/library/internal/domain/user"
	"github.com/xiebiao/library/internal/domain/verification"
	"github.com/xiebiao/library/internal/interface/http/dto"
	"github.com/xiebiao/library/internal/interface/http/middleware"
	"github.com/xiebiao/library/pkg/response"
)

// UserHandler 注册登录、找回密码和个人资料
type UserHandler struct {
	sendCodeUseCase   *appuser.SendCodeUseCase
	verifyCodeUseCase *appuser.VerifyCodeUseCase
	registerUseCase   *appuser.RegisterUseCase
	loginUseCase      *appuser.LoginUseCase
	logoutUseCase     *appuser.LogoutUseCase
	refreshUseCase    *appuser.RefreshTokenUseCase
	resetUseCase      *appuser.ResetPasswordUseCase
	profileUseCase    *appuser.ProfileUseCase
}

// NewUserHandler 创建用户处理器
func NewUserHandler(
	sendCodeUseCase *appuser.SendCodeUseCase,
	verifyCodeUseCase *appuser.VerifyCodeUseCase,
	registerUseCase *appuser.RegisterUseCase,
	loginUseCase *appuser.LoginUseCase,
	logoutUseCase *appuser.LogoutUseCase,
	refreshUseCase *appuser.RefreshTokenUseCase,
	resetUseCase *appuser.ResetPasswordUseCase,
	profileUseCase *appuser.ProfileUseCase,
) *UserHandler {
	return &UserHandler{
		sendCodeUseCase:   sendCodeUseCase,
		verifyCodeUseCase: verifyCodeUseCase,
		registerUseCase:   registerUseCase,
		loginUseCase:      loginUseCase,
		logoutUseCase:     logoutUseCase,
		refreshUseCase:    refreshUseCase,
		resetUseCase:      resetUseCase,
		profileUseCase:    profileUseCase,
	}
}

// SendVerificationCode 发送注册验证码
// @Summary      发送注册验证码
// @Description  同一邮箱60秒内只能发送一次，验证码5分钟有效
// @Tags         用户
// @Accept       json
// @Produce      json
// @Param        request body dto.SendCodeRequest true "邮箱"
// @Success      200 {object} response.Response
// @Failure      400 {object} response.Response "邮箱已注册/发送过于频繁"
// @Router       /api/send-verification-code [post]
func (h *UserHandler) SendVerificationCode(c *gin.Context) {
	var req dto.SendCodeRequest
	if !bindJSON(c, &req) {
		return
	}
	if err := h.sendCodeUseCase.Execute(c.Request.Context(), req.Email, verification.TypeRegister); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, gin.H{"message": "验证码已发送"})
}

// Register 用户注册
// @Summary      用户注册
// @Tags         用户
// @Accept       json
// @Produce      json
// @Param        request body dto.RegisterRequest true "注册信息"
// @Success      201 {object} response.Response{data=appuser.UserView}
// @Failure      400 {object} response.Response "验证码错误/邮箱已注册"
// @Router       /api/register [post]
func (h *UserHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if !bindJSON(c, &req) {
		return
	}
	view, err := h.registerUseCase.Execute(c.Request.Context(), appuser.RegisterRequest{
		Email:       req.Email,
		Password:    req.Password,
		Code:        req.Code,
		DisplayName: req.DisplayName,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, view)
}

// Login 用户登录
// @Summary      用户登录
// @Description  admin_code正确时本次会话获得临时管理员权限
// @Tags         用户
// @Accept       json
// @Produce      json
// @Param        request body dto.LoginRequest true "登录信息"
// @Success      200 {object} response.Response{data=appuser.LoginResponse}
// @Failure      401 {object} response.Response "邮箱或密码错误"
// @Router       /api/login [post]
func (h *UserHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if !bindJSON(c, &req) {
		return
	}
	resp, err := h.loginUseCase.Execute(c.Request.Context(), appuser.LoginRequest{
		Email:     req.Email,
		Password:  req.Password,
		AdminCode: req.AdminCode,
		ClientIP:  c.ClientIP(),
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, resp)
}

// Logout 退出登录，当前Token加入黑名单
// @Summary      退出登录
// @Tags         用户
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} response.Response
// @Router       /api/logout [post]
func (h *UserHandler) Logout(c *gin.Context) {
	if err := h.logoutUseCase.Execute(c.Request.Context(), middleware.GetClaims(c)); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, gin.H{"message": "已退出登录"})
}

// RefreshToken 用Refresh Token换新的Access Token
// @Summary      刷新Token
// @Tags         用户
// @Accept       json
// @Produce      json
// @Param        request body dto.RefreshTokenRequest true "Refresh Token"
// @Success      200 {object} response.Response{data=appuser.RefreshTokenResponse}
// @Failure      401 {object} response.Response "Token无效或已退出登录"
// @Router       /api/refresh-token [post]
func (h *UserHandler) RefreshToken(c *gin.Context) {
	var req dto.RefreshTokenRequest
	if !bindJSON(c, &req) {
		return
	}
	resp, err := h.refreshUseCase.Execute(c.Request.Context(), req.RefreshToken)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, resp)
}

// ForgotSendCode 找回密码：发送验证码
// @Summary      找回密码发送验证码
// @Tags         找回密码
// @Accept       json
// @Produce      json
// @Param        request body dto.ForgotSendCodeRequest true "邮箱"
// @Success      200 {object} response.Response
// @Failure      404 {object} response.Response "用户不存在"
// @Router       /api/forgot-password/send-code [post]
func (h *UserHandler) ForgotSendCode(c *gin.Context) {
	var req dto.ForgotSendCodeRequest
	if !bindJSON(c, &req) {
		return
	}
	if err := h.sendCodeUseCase.Execute(c.Request.Context(), req.Email, verification.TypeResetPassword); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, gin.H{"message": "验证码已发送"})
}

// ForgotVerifyCode 找回密码：校验验证码（不消费）
// @Summary      找回密码校验验证码
// @Tags         找回密码
// @Accept       json
// @Produce      json
// @Param        request body dto.VerifyCodeRequest true "验证码"
// @Success      200 {object} response.Response
// @Failure      400 {object} response.Response "验证码错误或已过期"
// @Router       /api/forgot-password/verify-code [post]
func (h *UserHandler) ForgotVerifyCode(c *gin.Context) {
	var req dto.VerifyCodeRequest
	if !bindJSON(c, &req) {
		return
	}
	if err := h.verifyCodeUseCase.Execute(c.Request.Context(), req.Email, req.Code, verification.TypeResetPassword); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, gin.H{"message": "验证码正确"})
}

// ForgotReset 找回密码：设置新密码
// @Summary      重置密码
// @Tags         找回密码
// @Accept       json
// @Produce      json
// @Param        request body dto.ResetPasswordRequest true "新密码"
// @Success      200 {object} response.Response
// @Failure      400 {object} response.Response "验证码错误/密码强度不足"
// @Router       /api/forgot-password/reset [post]
func (h *UserHandler) ForgotReset(c *gin.Context) {
	var req dto.ResetPasswordRequest
	if !bindJSON(c, &req) {
		return
	}
	err := h.resetUseCase.Execute(c.Request.Context(), appuser.ResetPasswordRequest{
		Email:       req.Email,
		Code:        req.Code,
		NewPassword: req.NewPassword,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, gin.H{"message": "密码已重置"})
}

// Current 当前用户
// @Summary      当前用户信息
// @Tags         用户
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} response.Response{data=appuser.UserView}
// @Router       /api/user/current [get]
func (h *UserHandler) Current(c *gin.Context) {
	view, err := h.profileUseCase.Current(c.Request.Context(), middleware.MustGetUserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	view.IsAdmin = middleware.IsAdmin(c)
	response.Success(c, view)
}

// UpdateProfile 修改个人资料
// @Summary      修改个人资料
// @Tags         用户
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body dto.UpdateProfileRequest true "资料"
// @Success      200 {object} response.Response{data=appuser.UserView}
// @Router       /api/user/profile [put]
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	var req dto.UpdateProfileRequest
	if !bindJSON(c, &req) {
		return
	}
	view, err := h.profileUseCase.Update(c.Request.Context(), middleware.MustGetUserID(c), user.ProfilePatch{
		DisplayName:   req.DisplayName,
		AvatarURL:     req.AvatarURL,
		Gender:        req.Gender,
		BackgroundURL: req.BackgroundURL,
		Summary:       req.Summary,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, view)
}
