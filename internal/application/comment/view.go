package comment

import (
	"github.com/xiebiao/library/internal/domain/comment"
)

// CommentView 评论响应
type CommentView struct {
	CommentID       string         `json:"comment_id"`
	BookID          string         `json:"book_id"`
	UserID          string         `json:"user_id"`
	UserDisplayName string         `json:"user_display_name"`
	UserAvatarURL   string         `json:"user_avatar_url"`
	Content         string         `json:"content"`
	ParentID        string         `json:"parent_id"`
	Likes           int            `json:"likes"`
	Liked           bool           `json:"liked"`
	CreatedAt       int64          `json:"created_at"`
	Replies         []*CommentView `json:"replies,omitempty"`
}

func toView(c *comment.Comment, liked map[string]bool) *CommentView {
	return &CommentView{
		CommentID:       c.ID,
		BookID:          c.BookID,
		UserID:          c.UserID,
		UserDisplayName: c.UserDisplayName,
		UserAvatarURL:   c.UserAvatarURL,
		Content:         c.Content,
		ParentID:        c.ParentID,
		Likes:           c.Likes,
		Liked:           liked[c.ID],
		CreatedAt:       c.CreatedAt,
	}
}
