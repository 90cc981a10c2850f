package database

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/xiebiao/library/internal/domain/favorite"
)

type favoriteRepository struct {
	table *Table[FavoriteModel]
}

// NewFavoriteRepository 创建收藏仓储
func NewFavoriteRepository(db *gorm.DB) favorite.Repository {
	return &favoriteRepository{table: NewTable[FavoriteModel](db)}
}

// Create (user_id, book_id)主键冲突即重复收藏
func (r *favoriteRepository) Create(ctx context.Context, f *favorite.Favorite) error {
	err := r.table.Put(ctx, &FavoriteModel{
		UserID:     f.UserID,
		BookID:     f.BookID,
		FavoriteID: f.ID,
		CreatedAt:  f.CreatedAt,
		UpdatedAt:  f.UpdatedAt,
	}, ExpectNotExist)
	if errors.Is(err, ErrConditionFailed) {
		return favorite.ErrAlreadyFavorited
	}
	return err
}

func (r *favoriteRepository) Delete(ctx context.Context, userID, bookID string) error {
	removed, err := r.table.Delete(ctx, Key{"user_id": userID, "book_id": bookID})
	if err != nil {
		return err
	}
	if !removed {
		return favorite.ErrFavoriteNotFound
	}
	return nil
}

func (r *favoriteRepository) Exists(ctx context.Context, userID, bookID string) (bool, error) {
	_, err := r.table.Get(ctx, Key{"user_id": userID, "book_id": bookID})
	if err != nil {
		if errors.Is(err, ErrRowNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (r *favoriteRepository) ListByUser(ctx context.Context, userID string) ([]*favorite.Favorite, error) {
	rows, err := r.table.Scan(ctx, ScanQuery{
		Filter:  Key{"user_id": userID},
		Limit:   -1,
		OrderBy: "created_at",
		Desc:    true,
	})
	if err != nil {
		return nil, err
	}
	out := make([]*favorite.Favorite, len(rows))
	for i, m := range rows {
		out[i] = &favorite.Favorite{
			ID:        m.FavoriteID,
			UserID:    m.UserID,
			BookID:    m.BookID,
			CreatedAt: m.CreatedAt,
			UpdatedAt: m.UpdatedAt,
		}
	}
	return out, nil
}
