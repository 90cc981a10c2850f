package verification

import (
	apperrors "github.com/xiebiao/library/pkg/errors"
)

// 验证码错误定义
var (
	// ErrCodeNotFound 没有发送过或已被使用
	ErrCodeNotFound = apperrors.New(apperrors.ErrCodeVerificationCode, "验证码错误或已过期")

	ErrTypeMismatch = apperrors.New(apperrors.ErrCodeVerificationCode, "验证码类型错误")
	ErrCodeMismatch = apperrors.New(apperrors.ErrCodeVerificationCode, "验证码错误")
	ErrCodeExpired  = apperrors.New(apperrors.ErrCodeVerificationCode, "验证码已过期")

	// ErrTooFrequent 发送过于频繁
	ErrTooFrequent = apperrors.New(apperrors.ErrCodeTooFrequent, "发送过于频繁，请稍后再试")

	// ErrInvalidType 未知的验证码用途
	ErrInvalidType = apperrors.New(apperrors.ErrCodeInvalidParams, "无效的验证码类型")
)
