package comment

import (
	"context"

	"github.com/xiebiao/library/internal/domain/comment"
)

// ListCommentsUseCase 图书评论树
type ListCommentsUseCase struct {
	commentRepo comment.Repository
	likeRepo    comment.LikeRepository
}

// NewListCommentsUseCase 创建评论列表用例
func NewListCommentsUseCase(commentRepo comment.Repository, likeRepo comment.LikeRepository) *ListCommentsUseCase {
	return &ListCommentsUseCase{commentRepo: commentRepo, likeRepo: likeRepo}
}

// Execute 返回一层回复树
// viewerID非空时标记当前用户点赞过的评论
func (uc *ListCommentsUseCase) Execute(ctx context.Context, bookID, viewerID string) ([]*CommentView, error) {
	comments, err := uc.commentRepo.ListByBook(ctx, bookID)
	if err != nil {
		return nil, err
	}

	liked := map[string]bool{}
	if viewerID != "" && len(comments) > 0 {
		ids := make([]string, len(comments))
		for i, c := range comments {
			ids[i] = c.ID
		}
		if liked, err = uc.likeRepo.LikedSet(ctx, viewerID, ids); err != nil {
			return nil, err
		}
	}

	threads := comment.BuildTree(comments)
	out := make([]*CommentView, len(threads))
	for i, th := range threads {
		v := toView(th.Comment, liked)
		for _, r := range th.Replies {
			v.Replies = append(v.Replies, toView(r, liked))
		}
		out[i] = v
	}
	return out, nil
}
