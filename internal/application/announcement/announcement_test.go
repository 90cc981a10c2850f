package announcement

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xiebiao/library/internal/domain/announcement"
	"github.com/xiebiao/library/internal/infrastructure/persistence/database"
	"github.com/xiebiao/library/internal/infrastructure/persistence/database/dbtest"
)

// TestAnnouncements 发布、列表、删除
func TestAnnouncements(t *testing.T) {
	uc := NewUseCase(database.NewAnnouncementRepository(dbtest.New(t)))
	ctx := context.Background()

	_, err := uc.Create(ctx, "", "内容")
	assert.ErrorIs(t, err, announcement.ErrTitleRequired)

	v, err := uc.Create(ctx, "国庆闭馆通知", "10月1日至3日闭馆")
	require.NoError(t, err)

	list, err := uc.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "国庆闭馆通知", list[0].Title)

	require.NoError(t, uc.Delete(ctx, v.AnnouncementID))
	assert.ErrorIs(t, uc.Delete(ctx, v.AnnouncementID), announcement.ErrAnnouncementNotFound)
}
