package database

import (
	"context"
	"errors"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/xiebiao/library/internal/domain/comment"
	"github.com/xiebiao/library/pkg/logger"
)

type commentRepository struct {
	table *Table[CommentModel]
}

// NewCommentRepository 创建评论仓储
func NewCommentRepository(db *gorm.DB) comment.Repository {
	return &commentRepository{table: NewTable[CommentModel](db)}
}

func (r *commentRepository) Create(ctx context.Context, c *comment.Comment) error {
	if err := r.table.Put(ctx, fromCommentEntity(c), ExpectNotExist); err != nil {
		if errors.Is(err, ErrConditionFailed) {
			return errDuplicate("评论ID冲突")
		}
		return err
	}
	return nil
}

func (r *commentRepository) FindByID(ctx context.Context, id string) (*comment.Comment, error) {
	m, err := r.table.Get(ctx, Key{"comment_id": id})
	if err != nil {
		if errors.Is(err, ErrRowNotFound) {
			return nil, comment.ErrCommentNotFound
		}
		return nil, err
	}
	return toCommentEntity(m), nil
}

func (r *commentRepository) ListByBook(ctx context.Context, bookID string) ([]*comment.Comment, error) {
	rows, err := r.table.Scan(ctx, ScanQuery{
		Filter:  Key{"book_id": bookID},
		Limit:   -1,
		OrderBy: "created_at",
	})
	if err != nil {
		return nil, err
	}
	out := make([]*comment.Comment, len(rows))
	for i, m := range rows {
		out[i] = toCommentEntity(m)
	}
	return out, nil
}

// AdjustLikes 列级更新点赞数，book_id和content不在patch中，不会被覆盖
func (r *commentRepository) AdjustLikes(ctx context.Context, id string, delta int, displayName, avatarURL string) (*comment.Comment, error) {
	cols := map[string]any{
		"likes":      gorm.Expr("CASE WHEN likes + ? < 0 THEN 0 ELSE likes + ? END", delta, delta),
		"updated_at": time.Now().Unix(),
	}
	if displayName != "" {
		cols["user_display_name"] = displayName
	}
	if avatarURL != "" {
		cols["user_avatar_url"] = avatarURL
	}
	if err := r.table.Update(ctx, Key{"comment_id": id}, cols); err != nil {
		if errors.Is(err, ErrConditionFailed) {
			return nil, comment.ErrCommentNotFound
		}
		return nil, err
	}

	c, err := r.FindByID(context.WithoutCancel(ctx), id)
	if err != nil {
		logger.L().WithFields(logrus.Fields{
			"comment_id": id,
			"delta":      delta,
		}).WithError(err).Warn("点赞数已调整，回读评论失败")
		return nil, nil
	}
	return c, nil
}

func (r *commentRepository) SetLikes(ctx context.Context, id string, likes int) error {
	err := r.table.Update(ctx, Key{"comment_id": id}, map[string]any{
		"likes":      likes,
		"updated_at": time.Now().Unix(),
	})
	if errors.Is(err, ErrConditionFailed) {
		return comment.ErrCommentNotFound
	}
	return err
}

type commentLikeRepository struct {
	table *Table[CommentLikeModel]
}

// NewCommentLikeRepository 创建点赞关系仓储
func NewCommentLikeRepository(db *gorm.DB) comment.LikeRepository {
	return &commentLikeRepository{table: NewTable[CommentLikeModel](db)}
}

func (r *commentLikeRepository) Create(ctx context.Context, like *comment.Like) error {
	err := r.table.Put(ctx, &CommentLikeModel{
		CommentID: like.CommentID,
		UserID:    like.UserID,
		CreatedAt: like.CreatedAt,
	}, ExpectNotExist)
	if errors.Is(err, ErrConditionFailed) {
		return comment.ErrAlreadyLiked
	}
	return err
}

func (r *commentLikeRepository) Delete(ctx context.Context, commentID, userID string) error {
	removed, err := r.table.Delete(ctx, Key{"comment_id": commentID, "user_id": userID})
	if err != nil {
		return err
	}
	if !removed {
		return comment.ErrNotLiked
	}
	return nil
}

func (r *commentLikeRepository) Exists(ctx context.Context, commentID, userID string) (bool, error) {
	_, err := r.table.Get(ctx, Key{"comment_id": commentID, "user_id": userID})
	if err != nil {
		if errors.Is(err, ErrRowNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (r *commentLikeRepository) LikedSet(ctx context.Context, userID string, commentIDs []string) (map[string]bool, error) {
	out := make(map[string]bool)
	if userID == "" || len(commentIDs) == 0 {
		return out, nil
	}
	rows, err := r.table.Scan(ctx, ScanQuery{
		Filter: Key{"user_id": userID},
		Conds:  []Cond{Where("comment_id IN ?", uniqueStrings(commentIDs))},
		Limit:  -1,
	})
	if err != nil {
		return nil, err
	}
	for _, m := range rows {
		out[m.CommentID] = true
	}
	return out, nil
}

func (r *commentLikeRepository) Count(ctx context.Context, commentID string) (int64, error) {
	return r.table.Count(ctx, Key{"comment_id": commentID})
}

func fromCommentEntity(c *comment.Comment) *CommentModel {
	return &CommentModel{
		CommentID:       c.ID,
		BookID:          c.BookID,
		UserID:          c.UserID,
		UserDisplayName: c.UserDisplayName,
		UserAvatarURL:   c.UserAvatarURL,
		Content:         c.Content,
		ParentID:        c.ParentID,
		Likes:           c.Likes,
		CreatedAt:       c.CreatedAt,
		UpdatedAt:       c.UpdatedAt,
	}
}

func toCommentEntity(m *CommentModel) *comment.Comment {
	return &comment.Comment{
		ID:              m.CommentID,
		BookID:          m.BookID,
		UserID:          m.UserID,
		UserDisplayName: m.UserDisplayName,
		UserAvatarURL:   m.UserAvatarURL,
		Content:         m.Content,
		ParentID:        m.ParentID,
		Likes:           m.Likes,
		CreatedAt:       m.CreatedAt,
		UpdatedAt:       m.UpdatedAt,
	}
}
