package user

import (
	"context"
	"strings"
	"time"

	"github.com/xiebiao/library/internal/domain/user"
	"github.com/xiebiao/library/internal/domain/verification"
	"github.com/xiebiao/library/pkg/logger"
)

// ResetPasswordUseCase 找回密码最后一步
// 用户缓存由带缓存的仓储在UpdatePassword时失效
type ResetPasswordUseCase struct {
	userService user.Service
	codeRepo    verification.Repository
	now         func() time.Time
}

// NewResetPasswordUseCase 创建重置密码用例
func NewResetPasswordUseCase(userService user.Service, codeRepo verification.Repository) *ResetPasswordUseCase {
	return &ResetPasswordUseCase{userService: userService, codeRepo: codeRepo, now: time.Now}
}

// ResetPasswordRequest 重置密码请求
type ResetPasswordRequest struct {
	Email       string
	Code        string
	NewPassword string
}

// Execute 校验验证码后设置新密码，并删除验证码
func (uc *ResetPasswordUseCase) Execute(ctx context.Context, req ResetPasswordRequest) error {
	email := strings.TrimSpace(req.Email)
	if err := user.ValidatePassword(req.NewPassword); err != nil {
		return err
	}
	if err := checkCode(ctx, uc.codeRepo, email, req.Code, verification.TypeResetPassword, uc.now()); err != nil {
		return err
	}
	if err := uc.userService.ResetPassword(ctx, email, req.NewPassword); err != nil {
		return err
	}
	consumeCode(ctx, uc.codeRepo, email)

	logger.L().WithField("email", email).Info("密码已重置")
	return nil
}
