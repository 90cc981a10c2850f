package borrow

import (
	apperrors "github.com/xiebiao/library/pkg/errors"
)

// 借阅领域错误定义
var (
	// ErrBorrowNotFound 借阅记录不存在
	ErrBorrowNotFound = apperrors.New(apperrors.ErrCodeBorrowNotFound, "借阅记录不存在")

	// ErrAlreadyBorrowed 重复借阅
	ErrAlreadyBorrowed = apperrors.New(apperrors.ErrCodeAlreadyBorrowed, "您已借阅该图书，无法重复借阅")

	// ErrNotBorrowed 没有借阅中的记录
	ErrNotBorrowed = apperrors.New(apperrors.ErrCodeInvalidStatus, "您未借阅该图书或已归还")

	// ErrAlreadyReturned 已归还
	ErrAlreadyReturned = apperrors.New(apperrors.ErrCodeInvalidStatus, "借阅记录已归还")

	// ErrNotOwner 不是借阅人
	ErrNotOwner = apperrors.New(apperrors.ErrCodeForbidden, "无权操作此借阅记录")

	// ErrInvalidDays 借期不合法
	ErrInvalidDays = apperrors.New(apperrors.ErrCodeInvalidParams, "借阅天数必须在1-365之间")

	// ErrEmptyBatch 批量借阅列表为空
	ErrEmptyBatch = apperrors.New(apperrors.ErrCodeInvalidParams, "请选择要借阅的图书")

	// ErrEmptyReturnBatch 批量归还列表为空
	ErrEmptyReturnBatch = apperrors.New(apperrors.ErrCodeInvalidParams, "请选择要归还的借阅记录")
)
