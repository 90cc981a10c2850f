package user

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/xiebiao/library/internal/domain/user"
	"github.com/xiebiao/library/internal/domain/verification"
	"github.com/xiebiao/library/internal/infrastructure/mail"
	"github.com/xiebiao/library/pkg/logger"
)

// SendCodeUseCase 发送验证码
// 1. 注册验证码要求邮箱未注册，找回密码要求邮箱已注册
// 2. 同一邮箱60秒内只能发送一次（Redis SETNX）
// 3. 新验证码覆盖旧验证码，5分钟有效
type SendCodeUseCase struct {
	userRepo user.Repository
	codeRepo verification.Repository
	throttle verification.Throttle
	sender   mail.Sender
	siteName string
	now      func() time.Time
}

// NewSendCodeUseCase 创建发送验证码用例，throttle为nil时不限频
func NewSendCodeUseCase(
	userRepo user.Repository,
	codeRepo verification.Repository,
	throttle verification.Throttle,
	sender mail.Sender,
	siteName string,
) *SendCodeUseCase {
	return &SendCodeUseCase{
		userRepo: userRepo,
		codeRepo: codeRepo,
		throttle: throttle,
		sender:   sender,
		siteName: siteName,
		now:      time.Now,
	}
}

// Execute 发送typ类型的验证码到email
func (uc *SendCodeUseCase) Execute(ctx context.Context, email string, typ verification.Type) error {
	email = strings.TrimSpace(email)
	if !user.IsValidEmail(email) {
		return user.ErrInvalidEmail
	}
	if !typ.Valid() {
		return verification.ErrInvalidType
	}

	_, err := uc.userRepo.FindByEmail(ctx, email)
	switch {
	case err == nil && typ == verification.TypeRegister:
		return user.ErrEmailDuplicate
	case errors.Is(err, user.ErrUserNotFound) && typ == verification.TypeResetPassword:
		return user.ErrEmailNotRegistered
	case err != nil && !errors.Is(err, user.ErrUserNotFound):
		return err
	}

	if uc.throttle != nil {
		ok, err := uc.throttle.Acquire(ctx, email, verification.ResendInterval)
		if err != nil {
			return err
		}
		if !ok {
			return verification.ErrTooFrequent
		}
	}

	code, err := verification.NewCode(email, typ, uc.now())
	if err != nil {
		return err
	}
	if err := uc.codeRepo.Save(ctx, code); err != nil {
		return err
	}

	msg := mail.VerificationCodeMessage(uc.siteName, email, code.Code)
	if typ == verification.TypeResetPassword {
		msg = mail.PasswordResetCodeMessage(uc.siteName, email, code.Code)
	}
	if err := uc.sender.Send(ctx, msg); err != nil {
		return err
	}

	logger.L().WithFields(logrus.Fields{
		"email": email,
		"type":  typ,
	}).Info("验证码已发送")
	return nil
}

// VerifyCodeUseCase 校验验证码但不删除（找回密码第二步）
type VerifyCodeUseCase struct {
	codeRepo verification.Repository
	now      func() time.Time
}

// NewVerifyCodeUseCase 创建校验用例
func NewVerifyCodeUseCase(codeRepo verification.Repository) *VerifyCodeUseCase {
	return &VerifyCodeUseCase{codeRepo: codeRepo, now: time.Now}
}

// Execute 校验验证码
func (uc *VerifyCodeUseCase) Execute(ctx context.Context, email, code string, typ verification.Type) error {
	return checkCode(ctx, uc.codeRepo, email, code, typ, uc.now())
}

func checkCode(ctx context.Context, repo verification.Repository, email, code string, typ verification.Type, now time.Time) error {
	stored, err := repo.Get(ctx, strings.TrimSpace(email))
	if err != nil {
		return err
	}
	return stored.Check(strings.TrimSpace(code), typ, now)
}

// consumeCode 业务成功后删除验证码，失败只记日志（验证码5分钟后自然过期）
func consumeCode(ctx context.Context, repo verification.Repository, email string) {
	if err := repo.Delete(ctx, email); err != nil {
		logger.L().WithError(err).WithField("email", email).Warn("删除验证码失败")
	}
}
