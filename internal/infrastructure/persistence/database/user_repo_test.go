package database

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/xiebiao/library/internal/domain/comment"
	"github.com/xiebiao/library/internal/domain/favorite"
	"github.com/xiebiao/library/internal/domain/user"
	"github.com/xiebiao/library/internal/domain/verification"
)

// TestUserRepository 邮箱主键唯一，资料部分更新
func TestUserRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepository(newTestDB(t))

	u := user.NewUser("a@x.com", "hash", "", user.RoleUser)
	require.NoError(t, repo.Create(ctx, u))
	assert.ErrorIs(t, repo.Create(ctx, user.NewUser("a@x.com", "hash", "", user.RoleUser)), user.ErrEmailDuplicate)

	byID, err := repo.FindByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "a@x.com", byID.Email)

	name := "Alice"
	require.NoError(t, repo.UpdateProfile(ctx, u.ID, user.ProfilePatch{DisplayName: &name}))
	require.NoError(t, repo.UpdatePassword(ctx, "a@x.com", "hash2"))

	got, err := repo.FindByEmail(ctx, "a@x.com")
	require.NoError(t, err)
	assert.Equal(t, "Alice", got.DisplayName)
	assert.Equal(t, "hash2", got.Password)
	assert.Equal(t, u.AvatarURL, got.AvatarURL)

	users, err := repo.FindByIDs(ctx, []string{u.ID, "missing"})
	require.NoError(t, err)
	assert.Len(t, users, 1)

	assert.ErrorIs(t, repo.UpdateRole(ctx, "none@x.com", user.RoleAdmin), user.ErrUserNotFound)
}

// TestVerificationRepository 新验证码覆盖旧验证码
func TestVerificationRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewVerificationRepository(newTestDB(t))

	require.NoError(t, repo.Save(ctx, &verification.Code{Email: "a@x.com", Code: "111111", Type: verification.TypeRegister, ExpireTime: 1}))
	require.NoError(t, repo.Save(ctx, &verification.Code{Email: "a@x.com", Code: "222222", Type: verification.TypeResetPassword, ExpireTime: 2}))

	got, err := repo.Get(ctx, "a@x.com")
	require.NoError(t, err)
	assert.Equal(t, "222222", got.Code)
	assert.Equal(t, verification.TypeResetPassword, got.Type)

	require.NoError(t, repo.Delete(ctx, "a@x.com"))
	_, err = repo.Get(ctx, "a@x.com")
	assert.ErrorIs(t, err, verification.ErrCodeNotFound)
}

// TestAdjustLikesRereadFailure 计数写入后回读失败，不返回错误，计数已生效
func TestAdjustLikesRereadFailure(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	comments := NewCommentRepository(db)

	c, err := comment.NewComment("b1", "u1", "Alice", "", "好书", "")
	require.NoError(t, err)
	require.NoError(t, comments.Create(ctx, c))

	var armed atomic.Bool
	require.NoError(t, db.Callback().Update().After("gorm:update").Register("test:arm_comments", func(tx *gorm.DB) {
		if tx.Statement.Table == "comments" && tx.Error == nil {
			armed.Store(true)
		}
	}))
	require.NoError(t, db.Callback().Query().Before("gorm:query").Register("test:fail_comments", func(tx *gorm.DB) {
		if tx.Statement.Table == "comments" && armed.CompareAndSwap(true, false) {
			_ = tx.AddError(errors.New("connection reset"))
		}
	}))

	got, err := comments.AdjustLikes(ctx, c.ID, 1, "", "")
	require.NoError(t, err)
	assert.Nil(t, got)

	after, err := comments.FindByID(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, after.Likes)
}

// TestCommentLikes 点赞数不低于0，点赞关系唯一
func TestCommentLikes(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	comments := NewCommentRepository(db)
	likes := NewCommentLikeRepository(db)

	c, err := comment.NewComment("b1", "u1", "Alice", "", "好书", "")
	require.NoError(t, err)
	require.NoError(t, comments.Create(ctx, c))

	got, err := comments.AdjustLikes(ctx, c.ID, -1, "", "")
	require.NoError(t, err)
	assert.Equal(t, 0, got.Likes)
	assert.Equal(t, "好书", got.Content)
	assert.Equal(t, "b1", got.BookID)

	got, err = comments.AdjustLikes(ctx, c.ID, 1, "Alice2", "")
	require.NoError(t, err)
	assert.Equal(t, 1, got.Likes)
	assert.Equal(t, "Alice2", got.UserDisplayName)

	require.NoError(t, likes.Create(ctx, &comment.Like{CommentID: c.ID, UserID: "u2"}))
	assert.ErrorIs(t, likes.Create(ctx, &comment.Like{CommentID: c.ID, UserID: "u2"}), comment.ErrAlreadyLiked)

	set, err := likes.LikedSet(ctx, "u2", []string{c.ID, "other"})
	require.NoError(t, err)
	assert.True(t, set[c.ID])
	assert.False(t, set["other"])

	n, err := likes.Count(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	require.NoError(t, likes.Delete(ctx, c.ID, "u2"))
	assert.ErrorIs(t, likes.Delete(ctx, c.ID, "u2"), comment.ErrNotLiked)
}

// TestFavoriteRepository (user, book)唯一
func TestFavoriteRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewFavoriteRepository(newTestDB(t))

	require.NoError(t, repo.Create(ctx, favorite.NewFavorite("u1", "b1")))
	assert.ErrorIs(t, repo.Create(ctx, favorite.NewFavorite("u1", "b1")), favorite.ErrAlreadyFavorited)

	ok, err := repo.Exists(ctx, "u1", "b1")
	require.NoError(t, err)
	assert.True(t, ok)

	list, err := repo.ListByUser(ctx, "u1")
	require.NoError(t, err)
	assert.Len(t, list, 1)

	require.NoError(t, repo.Delete(ctx, "u1", "b1"))
	assert.ErrorIs(t, repo.Delete(ctx, "u1", "b1"), favorite.ErrFavoriteNotFound)
}
