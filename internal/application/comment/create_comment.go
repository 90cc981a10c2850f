package comment

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/xiebiao/library/internal/domain/book"
	"github.com/xiebiao/library/internal/domain/comment"
	"github.com/xiebiao/library/internal/domain/user"
	apperrors "github.com/xiebiao/library/pkg/errors"
	"github.com/xiebiao/library/pkg/logger"
)

// CreateCommentUseCase 发表评论
// 1. 图书必须存在
// 2. parent_id非空时必须是同一本书下的评论
// 3. 快照作者的显示名和头像
type CreateCommentUseCase struct {
	commentRepo comment.Repository
	bookRepo    book.Repository
	userRepo    user.Repository
}

// NewCreateCommentUseCase 创建发表评论用例
func NewCreateCommentUseCase(
	commentRepo comment.Repository,
	bookRepo book.Repository,
	userRepo user.Repository,
) *CreateCommentUseCase {
	return &CreateCommentUseCase{
		commentRepo: commentRepo,
		bookRepo:    bookRepo,
		userRepo:    userRepo,
	}
}

// CreateCommentRequest 发表评论请求
type CreateCommentRequest struct {
	BookID   string
	UserID   string
	Content  string
	ParentID string
}

// Execute 执行发表评论
func (uc *CreateCommentUseCase) Execute(ctx context.Context, req CreateCommentRequest) (*CommentView, error) {
	author, err := uc.userRepo.FindByID(ctx, req.UserID)
	if err != nil {
		return nil, err
	}

	c, err := comment.NewComment(req.BookID, author.ID, author.DisplayName, author.AvatarURL, req.Content, req.ParentID)
	if err != nil {
		return nil, err
	}

	if _, err := uc.bookRepo.FindByID(ctx, req.BookID); err != nil {
		return nil, err
	}
	if req.ParentID != "" {
		parent, err := uc.commentRepo.FindByID(ctx, req.ParentID)
		if err != nil {
			if apperrors.Is(err, comment.ErrCommentNotFound) {
				return nil, comment.ErrParentNotFound
			}
			return nil, err
		}
		if parent.BookID != req.BookID {
			return nil, comment.ErrParentNotFound
		}
	}

	if err := uc.commentRepo.Create(ctx, c); err != nil {
		return nil, err
	}

	logger.L().WithFields(logrus.Fields{
		"comment_id": c.ID,
		"book_id":    c.BookID,
		"user_id":    c.UserID,
		"reply":      c.ParentID != "",
	}).Info("评论已发表")
	return toView(c, nil), nil
}
