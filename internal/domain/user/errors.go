package user

import (
	apperrors "github.com/xiebiao/library/pkg/errors"
)

// 用户领域错误定义
var (
	// ErrUserNotFound 用户不存在
	ErrUserNotFound = apperrors.New(apperrors.ErrCodeUserNotFound, "用户不存在")

	// ErrEmailDuplicate 邮箱已注册
	ErrEmailDuplicate = apperrors.New(apperrors.ErrCodeEmailDuplicate, "该邮箱已注册")

	// ErrEmailNotRegistered 找回密码时邮箱未注册
	ErrEmailNotRegistered = apperrors.New(apperrors.ErrCodeUserNotFound, "该邮箱未注册，请先注册账号")

	// ErrInvalidEmail 邮箱格式错误
	ErrInvalidEmail = apperrors.New(apperrors.ErrCodeInvalidParams, "邮箱格式不正确")

	// ErrWeakPassword 密码太短
	ErrWeakPassword = apperrors.New(apperrors.ErrCodeWeakPassword, "密码长度不能少于6位")

	// ErrDisplayNameTooLong 显示名过长
	ErrDisplayNameTooLong = apperrors.New(apperrors.ErrCodeInvalidParams, "用户名长度不能超过50个字符")
)
