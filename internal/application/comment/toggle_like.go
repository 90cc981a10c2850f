package comment

import (
	"context"
	"errors"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/xiebiao/library/internal/domain/comment"
	"github.com/xiebiao/library/internal/domain/user"
	apperrors "github.com/xiebiao/library/pkg/errors"
	"github.com/xiebiao/library/pkg/logger"
	"github.com/xiebiao/library/pkg/metrics"
	"github.com/xiebiao/library/pkg/saga"
)

// ToggleLikeUseCase 点赞/取消点赞
//
// Saga步骤：
//  1. 写入或删除点赞关系（复合主键保证同一用户只能点赞一次）
//  2. 点赞数±1，同时刷新作者快照
//
// 第2步失败时撤销第1步
type ToggleLikeUseCase struct {
	commentRepo comment.Repository
	likeRepo    comment.LikeRepository
	userRepo    user.Repository
}

// NewToggleLikeUseCase 创建点赞用例
func NewToggleLikeUseCase(
	commentRepo comment.Repository,
	likeRepo comment.LikeRepository,
	userRepo user.Repository,
) *ToggleLikeUseCase {
	return &ToggleLikeUseCase{
		commentRepo: commentRepo,
		likeRepo:    likeRepo,
		userRepo:    userRepo,
	}
}

// ToggleLikeResponse 点赞响应
type ToggleLikeResponse struct {
	Success         bool   `json:"success"`
	Likes           int    `json:"likes"`
	Action          string `json:"action"`
	UserDisplayName string `json:"user_display_name"`
	UserAvatarURL   string `json:"user_avatar_url"`
}

// Execute 切换点赞状态
func (uc *ToggleLikeUseCase) Execute(ctx context.Context, commentID, userID string) (*ToggleLikeResponse, error) {
	c, err := uc.commentRepo.FindByID(ctx, commentID)
	if err != nil {
		return nil, err
	}

	liked, err := uc.likeRepo.Exists(ctx, commentID, userID)
	if err != nil {
		return nil, err
	}

	// 作者快照取作者当前资料，作者不存在时保留原快照
	var name, avatar string
	if author, err := uc.userRepo.FindByID(ctx, c.UserID); err == nil {
		name, avatar = author.DisplayName, author.AvatarURL
	} else if !errors.Is(err, user.ErrUserNotFound) {
		return nil, err
	}

	action := comment.ActionLike
	delta := 1
	relate := func(ctx context.Context) error {
		return uc.likeRepo.Create(ctx, &comment.Like{CommentID: commentID, UserID: userID, CreatedAt: time.Now().Unix()})
	}
	unrelate := func(ctx context.Context) error { return uc.likeRepo.Delete(ctx, commentID, userID) }
	if liked {
		action, delta = comment.ActionUnlike, -1
		relate, unrelate = unrelate, relate
	}

	var updated *comment.Comment
	s := saga.New("like", 5*time.Second).
		WithField("comment_id", commentID).
		WithField("user_id", userID).
		WithField("action", string(action))
	s.AddStep("更新点赞关系", relate, unrelate)
	s.AddStep("更新点赞数",
		func(ctx context.Context) error {
			updated, err = uc.commentRepo.AdjustLikes(ctx, commentID, delta, name, avatar)
			return err
		},
		nil,
	)
	if err := s.Execute(ctx); err != nil {
		// 并发重复点击：关系已被另一个请求写入/删除
		if apperrors.Is(err, comment.ErrAlreadyLiked) || apperrors.Is(err, comment.ErrNotLiked) {
			return nil, apperrors.New(apperrors.ErrCodeTooFrequent, "操作过于频繁，请稍后再试")
		}
		return nil, err
	}

	// 计数已写入但回读失败：按调整前的评论和delta推出结果
	if updated == nil {
		updated = c.WithLikeDelta(delta, name, avatar)
	}

	metrics.CommentLikesTotal.WithLabelValues(string(action)).Inc()
	logger.L().WithFields(logrus.Fields{
		"comment_id": commentID,
		"user_id":    userID,
		"action":     action,
		"likes":      updated.Likes,
	}).Debug("点赞状态已切换")

	return &ToggleLikeResponse{
		Success:         true,
		Likes:           updated.Likes,
		Action:          string(action),
		UserDisplayName: updated.UserDisplayName,
		UserAvatarURL:   updated.UserAvatarURL,
	}, nil
}

// RecountLikesUseCase 按点赞关系重算评论的点赞数
type RecountLikesUseCase struct {
	commentRepo comment.Repository
	likeRepo    comment.LikeRepository
}

// NewRecountLikesUseCase 创建重算用例
func NewRecountLikesUseCase(commentRepo comment.Repository, likeRepo comment.LikeRepository) *RecountLikesUseCase {
	return &RecountLikesUseCase{commentRepo: commentRepo, likeRepo: likeRepo}
}

// Execute 返回重算前后的点赞数
func (uc *RecountLikesUseCase) Execute(ctx context.Context, commentID string) (before, after int, err error) {
	c, err := uc.commentRepo.FindByID(ctx, commentID)
	if err != nil {
		return 0, 0, err
	}
	n, err := uc.likeRepo.Count(ctx, commentID)
	if err != nil {
		return 0, 0, err
	}
	if int(n) != c.Likes {
		if err := uc.commentRepo.SetLikes(ctx, commentID, int(n)); err != nil {
			return 0, 0, err
		}
		logger.L().WithFields(logrus.Fields{
			"comment_id": commentID,
			"before":     c.Likes,
			"after":      n,
		}).Warn("点赞数已按点赞关系修正")
	}
	return c.Likes, int(n), nil
}
