package favorite

import (
	"context"

	"github.com/xiebiao/library/internal/domain/book"
	"github.com/xiebiao/library/internal/domain/favorite"
)

// UseCase 收藏的增删查
// 收藏没有跨实体的协调逻辑，四个操作放在一个用例里
type UseCase struct {
	favoriteRepo favorite.Repository
	bookRepo     book.Repository
}

// NewUseCase 创建收藏用例
func NewUseCase(favoriteRepo favorite.Repository, bookRepo book.Repository) *UseCase {
	return &UseCase{favoriteRepo: favoriteRepo, bookRepo: bookRepo}
}

// Item 收藏列表项
type Item struct {
	FavoriteID string `json:"favorite_id"`
	BookID     string `json:"book_id"`
	Title      string `json:"title"`
	Author     string `json:"author"`
	Cover      string `json:"cover"`
	CreatedAt  int64  `json:"created_at"`
}

// Add 收藏图书，重复收藏返回ErrAlreadyFavorited
func (uc *UseCase) Add(ctx context.Context, userID, bookID string) (*favorite.Favorite, error) {
	if _, err := uc.bookRepo.FindByID(ctx, bookID); err != nil {
		return nil, err
	}
	f := favorite.NewFavorite(userID, bookID)
	if err := uc.favoriteRepo.Create(ctx, f); err != nil {
		return nil, err
	}
	return f, nil
}

// Remove 取消收藏
func (uc *UseCase) Remove(ctx context.Context, userID, bookID string) error {
	return uc.favoriteRepo.Delete(ctx, userID, bookID)
}

// Check 是否已收藏
func (uc *UseCase) Check(ctx context.Context, userID, bookID string) (bool, error) {
	return uc.favoriteRepo.Exists(ctx, userID, bookID)
}

// List 我的收藏，按收藏时间倒序，已删除的图书不返回
func (uc *UseCase) List(ctx context.Context, userID string) ([]Item, error) {
	list, err := uc.favoriteRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	ids := make([]string, len(list))
	for i, f := range list {
		ids[i] = f.BookID
	}
	books, err := uc.bookRepo.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	items := make([]Item, 0, len(list))
	for _, f := range list {
		b, ok := books[f.BookID]
		if !ok {
			continue
		}
		items = append(items, Item{
			FavoriteID: f.ID,
			BookID:     f.BookID,
			Title:      b.Title,
			Author:     b.Author,
			Cover:      b.Cover,
			CreatedAt:  f.CreatedAt,
		})
	}
	return items, nil
}
