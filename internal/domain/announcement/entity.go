package announcement

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	apperrors "github.com/xiebiao/library/pkg/errors"
)

// Announcement 公告
type Announcement struct {
	ID          string
	Title       string
	Content     string
	PublishTime int64
	CreatedAt   int64
	UpdatedAt   int64
}

var (
	// ErrAnnouncementNotFound 公告不存在
	ErrAnnouncementNotFound = apperrors.New(apperrors.ErrCodeAnnouncementNotFound, "公告不存在")

	// ErrTitleRequired 标题和内容必填
	ErrTitleRequired = apperrors.New(apperrors.ErrCodeInvalidParams, "标题和内容不能为空")
)

// NewAnnouncement 创建公告，发布时间取当前时间
func NewAnnouncement(title, content string, now time.Time) (*Announcement, error) {
	title = strings.TrimSpace(title)
	content = strings.TrimSpace(content)
	if title == "" || content == "" {
		return nil, ErrTitleRequired
	}
	ts := now.Unix()
	return &Announcement{
		ID:          uuid.NewString(),
		Title:       title,
		Content:     content,
		PublishTime: ts,
		CreatedAt:   ts,
		UpdatedAt:   ts,
	}, nil
}

// Repository 公告仓储
type Repository interface {
	Create(ctx context.Context, a *Announcement) error

	// Delete 不存在返回ErrAnnouncementNotFound
	Delete(ctx context.Context, id string) error

	// List 按发布时间倒序
	List(ctx context.Context, limit int) ([]*Announcement, error)
}
