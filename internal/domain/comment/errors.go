package comment

import (
	apperrors "github.com/xiebiao/library/pkg/errors"
)

// 评论领域错误定义
var (
	// ErrCommentNotFound 评论不存在
	ErrCommentNotFound = apperrors.New(apperrors.ErrCodeCommentNotFound, "评论不存在")

	// ErrParentNotFound 回复的父评论不存在或不属于同一本书
	ErrParentNotFound = apperrors.New(apperrors.ErrCodeCommentNotFound, "回复的评论不存在")

	ErrEmptyContent   = apperrors.New(apperrors.ErrCodeInvalidParams, "评论内容不能为空")
	ErrContentTooLong = apperrors.New(apperrors.ErrCodeInvalidParams, "评论内容不能超过1000个字符")

	// ErrAlreadyLiked 点赞关系已存在
	ErrAlreadyLiked = apperrors.New(apperrors.ErrCodeDuplicateEntry, "已点赞")

	// ErrNotLiked 点赞关系不存在
	ErrNotLiked = apperrors.New(apperrors.ErrCodeInvalidStatus, "尚未点赞")
)
