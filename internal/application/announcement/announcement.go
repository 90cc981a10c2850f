package announcement

import (
	"context"
	"time"

	"github.com/xiebiao/library/internal/domain/announcement"
	"github.com/xiebiao/library/pkg/logger"
)

// listLimit 公告列表最多返回条数
const listLimit = 100

// UseCase 公告
type UseCase struct {
	repo announcement.Repository
}

// NewUseCase 创建公告用例
func NewUseCase(repo announcement.Repository) *UseCase {
	return &UseCase{repo: repo}
}

// View 公告响应
type View struct {
	AnnouncementID string `json:"announcement_id"`
	Title          string `json:"title"`
	Content        string `json:"content"`
	PublishTime    int64  `json:"publish_time"`
	CreatedAt      int64  `json:"created_at"`
}

func toView(a *announcement.Announcement) View {
	return View{
		AnnouncementID: a.ID,
		Title:          a.Title,
		Content:        a.Content,
		PublishTime:    a.PublishTime,
		CreatedAt:      a.CreatedAt,
	}
}

// List 按发布时间倒序
func (uc *UseCase) List(ctx context.Context) ([]View, error) {
	list, err := uc.repo.List(ctx, listLimit)
	if err != nil {
		return nil, err
	}
	out := make([]View, len(list))
	for i, a := range list {
		out[i] = toView(a)
	}
	return out, nil
}

// Create 发布公告（管理员）
func (uc *UseCase) Create(ctx context.Context, title, content string) (*View, error) {
	a, err := announcement.NewAnnouncement(title, content, time.Now())
	if err != nil {
		return nil, err
	}
	if err := uc.repo.Create(ctx, a); err != nil {
		return nil, err
	}
	logger.L().WithField("announcement_id", a.ID).Info("公告已发布")
	v := toView(a)
	return &v, nil
}

// Delete 删除公告（管理员），不存在返回ErrAnnouncementNotFound
func (uc *UseCase) Delete(ctx context.Context, id string) error {
	if err := uc.repo.Delete(ctx, id); err != nil {
		return err
	}
	logger.L().WithField("announcement_id", id).Info("公告已删除")
	return nil
}
