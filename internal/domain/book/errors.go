package book

import (
	apperrors "github.com/xiebiao/library/pkg/errors"
)

// 图书领域错误定义
var (
	// ErrBookNotFound 图书不存在
	ErrBookNotFound = apperrors.New(apperrors.ErrCodeBookNotFound, "图书不存在")

	// ErrTitleRequired 书名为空
	ErrTitleRequired = apperrors.New(apperrors.ErrCodeInvalidParams, "书名不能为空")

	// ErrInvalidPrice 无效的价格
	ErrInvalidPrice = apperrors.New(apperrors.ErrCodeInvalidParams, "价格不能为负数")

	// ErrInvalidStock 无效的库存
	ErrInvalidStock = apperrors.New(apperrors.ErrCodeInvalidParams, "库存不能为负数")

	// ErrInvalidStatus 无效的状态
	ErrInvalidStatus = apperrors.New(apperrors.ErrCodeInvalidParams, "无效的图书状态，可选值: available、borrowed、maintenance")

	// ErrInsufficientStock 库存不足
	ErrInsufficientStock = apperrors.New(apperrors.ErrCodeInsufficientStock, "图书库存不足")

	// ErrUnderMaintenance 维护中
	ErrUnderMaintenance = apperrors.New(apperrors.ErrCodeInvalidStatus, "图书维护中，暂不可借")
)
