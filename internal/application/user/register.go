package user

import (
	"context"
	"strings"
	"time"

	"github.com/xiebiao/library/internal/domain/user"
	"github.com/xiebiao/library/internal/domain/verification"
	"github.com/xiebiao/library/pkg/logger"
)

// RegisterUseCase 用户注册用例
// 先校验注册验证码，再由领域服务创建用户，成功后删除验证码
type RegisterUseCase struct {
	userService user.Service
	codeRepo    verification.Repository
	now         func() time.Time
}

// NewRegisterUseCase 创建注册用例
func NewRegisterUseCase(userService user.Service, codeRepo verification.Repository) *RegisterUseCase {
	return &RegisterUseCase{
		userService: userService,
		codeRepo:    codeRepo,
		now:         time.Now,
	}
}

// RegisterRequest 注册请求
type RegisterRequest struct {
	Email       string
	Password    string
	Code        string
	DisplayName string
}

// Execute 执行注册
func (uc *RegisterUseCase) Execute(ctx context.Context, req RegisterRequest) (*UserView, error) {
	email := strings.TrimSpace(req.Email)
	if !user.IsValidEmail(email) {
		return nil, user.ErrInvalidEmail
	}
	if err := user.ValidatePassword(req.Password); err != nil {
		return nil, err
	}
	if err := checkCode(ctx, uc.codeRepo, email, req.Code, verification.TypeRegister, uc.now()); err != nil {
		return nil, err
	}

	u, err := uc.userService.Register(ctx, email, req.Password, strings.TrimSpace(req.DisplayName))
	if err != nil {
		return nil, err
	}
	consumeCode(ctx, uc.codeRepo, email)

	logger.L().WithField("user_id", u.ID).Info("用户注册成功")
	return ToView(u), nil
}
