package database

import (
	"context"

	"gorm.io/gorm"

	"github.com/xiebiao/library/internal/domain/announcement"
)

type announcementRepository struct {
	table *Table[AnnouncementModel]
}

// NewAnnouncementRepository 创建公告仓储
func NewAnnouncementRepository(db *gorm.DB) announcement.Repository {
	return &announcementRepository{table: NewTable[AnnouncementModel](db)}
}

func (r *announcementRepository) Create(ctx context.Context, a *announcement.Announcement) error {
	return r.table.Put(ctx, &AnnouncementModel{
		AnnouncementID: a.ID,
		Title:          a.Title,
		Content:        a.Content,
		PublishTime:    a.PublishTime,
		CreatedAt:      a.CreatedAt,
		UpdatedAt:      a.UpdatedAt,
	}, ExpectNotExist)
}

func (r *announcementRepository) Delete(ctx context.Context, id string) error {
	removed, err := r.table.Delete(ctx, Key{"announcement_id": id})
	if err != nil {
		return err
	}
	if !removed {
		return announcement.ErrAnnouncementNotFound
	}
	return nil
}

func (r *announcementRepository) List(ctx context.Context, limit int) ([]*announcement.Announcement, error) {
	rows, err := r.table.Scan(ctx, ScanQuery{
		Limit:   limit,
		OrderBy: "publish_time",
		Desc:    true,
	})
	if err != nil {
		return nil, err
	}
	out := make([]*announcement.Announcement, len(rows))
	for i, m := range rows {
		out[i] = &announcement.Announcement{
			ID:          m.AnnouncementID,
			Title:       m.Title,
			Content:     m.Content,
			PublishTime: m.PublishTime,
			CreatedAt:   m.CreatedAt,
			UpdatedAt:   m.UpdatedAt,
		}
	}
	return out, nil
}
