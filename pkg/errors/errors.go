// Package errors 定义应用统一错误类型
//
// 设计说明：
// 1. AppError携带业务错误码（Code）、用户可见的提示（Message）和内部原因（Err）
// 2. 业务错误码按区间划分，接口层据此映射HTTP状态码
// 3. 仓储层、领域层、应用层之间直接传递error值，不使用(bool, string)返回对
//
// 学习要点：
// - 预期内的业务拒绝（库存不足、重复借阅）用预定义的AppError表示
// - 非预期错误（数据库、网络）用Wrap包装，日志里保留完整原因，客户端只看到通用提示
package errors

import (
	"errors"
	"fmt"
)

// AppError 应用错误
type AppError struct {
	Code    int            `json:"code"`    // 业务错误码
	Message string         `json:"message"` // 用户友好的错误提示
	Err     error          `json:"-"`       // 内部错误（不序列化）
	Details map[string]any `json:"-"`       // 附加到错误响应体的字段
}

// Error 实现error接口
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%d] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%d] %s", e.Code, e.Message)
}

// Unwrap 支持errors.Is/As穿透到内部错误
func (e *AppError) Unwrap() error {
	return e.Err
}

// Is 按错误码和提示判等
// WithDetail/WithCause返回的是副本，判等不能依赖指针
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return e.Code == t.Code && e.Message == t.Message
}

// WithDetail 返回附带额外字段的副本
func (e *AppError) WithDetail(key string, value any) *AppError {
	cp := *e
	cp.Details = make(map[string]any, len(e.Details)+1)
	for k, v := range e.Details {
		cp.Details[k] = v
	}
	cp.Details[key] = value
	return &cp
}

// WithCause 返回附带内部原因的副本
func (e *AppError) WithCause(err error) *AppError {
	cp := *e
	cp.Err = err
	return &cp
}

// New 创建业务错误
func New(code int, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// Wrap 包装内部错误（错误码固定为ErrCodeInternal）
func Wrap(err error, message string) *AppError {
	return &AppError{
		Code:    ErrCodeInternal,
		Message: message,
		Err:     err,
	}
}

// Wrapf 格式化版本的Wrap
func Wrapf(err error, format string, args ...interface{}) *AppError {
	return &AppError{
		Code:    ErrCodeInternal,
		Message: fmt.Sprintf(format, args...),
		Err:     err,
	}
}

// 错误码定义
// 5xxxx: 系统错误
// 401xx: 认证错误（40104为授权错误）
// 404xx: 资源不存在
// 400xx: 业务规则错误
// 409xx: 参数错误
const (
	ErrCodeInternal      = 50000 // 内部错误
	ErrCodeDatabaseError = 50001 // 数据库错误
	ErrCodeRedisError    = 50002 // Redis错误
	ErrCodeExternal      = 50003 // 外部服务错误（邮件、对象存储、AI）

	ErrCodeUnauthorized    = 40100 // 未登录
	ErrCodeInvalidToken    = 40101 // Token无效
	ErrCodeTokenExpired    = 40102 // Token过期
	ErrCodeInvalidPassword = 40103 // 密码错误
	ErrCodeForbidden       = 40104 // 无权限

	ErrCodeNotFound             = 40400 // 资源不存在(通用)
	ErrCodeUserNotFound         = 40401 // 用户不存在
	ErrCodeBookNotFound         = 40402 // 图书不存在
	ErrCodeBorrowNotFound       = 40403 // 借阅记录不存在
	ErrCodeReservationNotFound  = 40404 // 预约不存在
	ErrCodeCommentNotFound      = 40405 // 评论不存在
	ErrCodeAnnouncementNotFound = 40406 // 公告不存在

	ErrCodeBusinessError     = 40000 // 业务错误(通用)
	ErrCodeInsufficientStock = 40001 // 库存不足
	ErrCodeInvalidStatus     = 40002 // 状态不允许此操作
	ErrCodeEmailDuplicate    = 40003 // 邮箱已存在
	ErrCodeAlreadyBorrowed   = 40004 // 重复借阅
	ErrCodeWeakPassword      = 40005 // 密码强度不足
	ErrCodeAlreadyReserved   = 40006 // 重复预约
	ErrCodeVerificationCode  = 40007 // 验证码错误
	ErrCodeTooFrequent       = 40008 // 操作过于频繁
	ErrCodeDuplicateEntry    = 40009 // 重复记录(通用)

	ErrCodeInvalidParams = 40900 // 参数错误
	ErrCodeBindError     = 40901 // 参数绑定失败
)

// 预定义错误
var (
	ErrInternal      = New(ErrCodeInternal, "系统内部错误")
	ErrDatabaseError = New(ErrCodeDatabaseError, "数据库错误")
	ErrRedisError    = New(ErrCodeRedisError, "缓存服务错误")

	ErrUnauthorized    = New(ErrCodeUnauthorized, "请先登录")
	ErrInvalidToken    = New(ErrCodeInvalidToken, "无效的Token")
	ErrTokenExpired    = New(ErrCodeTokenExpired, "Token已过期")
	ErrInvalidPassword = New(ErrCodeInvalidPassword, "邮箱或密码错误")
	ErrForbidden       = New(ErrCodeForbidden, "无权限访问")
	ErrAdminRequired   = New(ErrCodeForbidden, "需要管理员权限")

	ErrNotFound = New(ErrCodeNotFound, "资源不存在")

	ErrInvalidParams = New(ErrCodeInvalidParams, "参数错误")
	ErrBindError     = New(ErrCodeBindError, "参数格式错误")
)

// IsAppError 判断是否为AppError
func IsAppError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr)
}

// GetAppError 提取AppError，非AppError统一包装为内部错误
func GetAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return Wrap(err, "系统内部错误")
}

// Is 透传标准库errors.Is，调用方无需同时导入两个errors包
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// InvalidParams 构造带具体原因的参数错误
func InvalidParams(message string) *AppError {
	return New(ErrCodeInvalidParams, message)
}
