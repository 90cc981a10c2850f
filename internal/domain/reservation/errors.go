package reservation

import (
	apperrors "github.com/xiebiao/library/pkg/errors"
)

// 预约领域错误定义
var (
	// ErrReservationNotFound 预约不存在
	ErrReservationNotFound = apperrors.New(apperrors.ErrCodeReservationNotFound, "预约记录不存在")

	// ErrAlreadyReserved 已有进行中的预约
	ErrAlreadyReserved = apperrors.New(apperrors.ErrCodeAlreadyReserved, "您已有该图书的活跃预约")

	// ErrNotActive 非进行中的预约不能取消
	ErrNotActive = apperrors.New(apperrors.ErrCodeInvalidStatus, "只能取消进行中的预约")

	// ErrNotFulfillable 非进行中的预约不能完成
	ErrNotFulfillable = apperrors.New(apperrors.ErrCodeInvalidStatus, "只能完成进行中的预约")

	// ErrNotOwner 不是预约人
	ErrNotOwner = apperrors.New(apperrors.ErrCodeForbidden, "无权操作此预约")

	// ErrInvalidDate 日期格式错误
	ErrInvalidDate = apperrors.New(apperrors.ErrCodeInvalidParams, "预约日期格式错误")

	// ErrInvalidDays 借期不合法
	ErrInvalidDays = apperrors.New(apperrors.ErrCodeInvalidParams, "借阅天数必须在1-365之间")

	// ErrNoStock 库存不足
	// 响应里附带earliest_available_date
	ErrNoStock = apperrors.New(apperrors.ErrCodeInsufficientStock, "图书库存不足，无法预约")
)
