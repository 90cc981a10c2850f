package comment

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/xiebiao/library/internal/domain/book"
	"github.com/xiebiao/library/internal/domain/comment"
	"github.com/xiebiao/library/internal/domain/user"
	"github.com/xiebiao/library/internal/infrastructure/persistence/database"
	"github.com/xiebiao/library/internal/infrastructure/persistence/database/dbtest"
)

type fixture struct {
	db       *gorm.DB
	users    user.Repository
	books    book.Repository
	comments comment.Repository
	likes    comment.LikeRepository
	create   *CreateCommentUseCase
	toggle   *ToggleLikeUseCase
	list     *ListCommentsUseCase
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := dbtest.New(t)
	f := &fixture{
		db:       db,
		users:    database.NewUserRepository(db),
		books:    database.NewBookRepository(db),
		comments: database.NewCommentRepository(db),
		likes:    database.NewCommentLikeRepository(db),
	}
	f.create = NewCreateCommentUseCase(f.comments, f.books, f.users)
	f.toggle = NewToggleLikeUseCase(f.comments, f.likes, f.users)
	f.list = NewListCommentsUseCase(f.comments, f.likes)
	return f
}

func (f *fixture) addUser(t *testing.T, email string) *user.User {
	t.Helper()
	u := user.NewUser(email, "hash", "", user.RoleUser)
	require.NoError(t, f.users.Create(context.Background(), u))
	return u
}

func (f *fixture) addBook(t *testing.T) *book.Book {
	t.Helper()
	b := book.NewBook("围城", "钱钟书", "", "", 30, "文学", 1)
	require.NoError(t, f.books.Create(context.Background(), b))
	return b
}

// TestCreateComment 快照作者信息，校验内容和父评论
func TestCreateComment(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u := f.addUser(t, "writer@x.com")
	b := f.addBook(t)
	other := f.addBook(t)

	c, err := f.create.Execute(ctx, CreateCommentRequest{BookID: b.ID, UserID: u.ID, Content: "  好书  "})
	require.NoError(t, err)
	assert.Equal(t, "好书", c.Content)
	assert.Equal(t, "writer", c.UserDisplayName)
	assert.Equal(t, u.AvatarURL, c.UserAvatarURL)

	_, err = f.create.Execute(ctx, CreateCommentRequest{BookID: b.ID, UserID: u.ID, Content: "   "})
	assert.ErrorIs(t, err, comment.ErrEmptyContent)

	_, err = f.create.Execute(ctx, CreateCommentRequest{BookID: "missing", UserID: u.ID, Content: "x"})
	assert.ErrorIs(t, err, book.ErrBookNotFound)

	_, err = f.create.Execute(ctx, CreateCommentRequest{BookID: b.ID, UserID: u.ID, Content: "回复", ParentID: "missing"})
	assert.ErrorIs(t, err, comment.ErrParentNotFound)

	_, err = f.create.Execute(ctx, CreateCommentRequest{BookID: other.ID, UserID: u.ID, Content: "跨书回复", ParentID: c.CommentID})
	assert.ErrorIs(t, err, comment.ErrParentNotFound)

	reply, err := f.create.Execute(ctx, CreateCommentRequest{BookID: b.ID, UserID: u.ID, Content: "回复", ParentID: c.CommentID})
	require.NoError(t, err)
	assert.Equal(t, c.CommentID, reply.ParentID)
}

// TestToggleLike 点赞→取消→点赞，计数与点赞关系一致
func TestToggleLike(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	author := f.addUser(t, "author@x.com")
	fan := f.addUser(t, "fan@x.com")
	b := f.addBook(t)

	c, err := f.create.Execute(ctx, CreateCommentRequest{BookID: b.ID, UserID: author.ID, Content: "第一"})
	require.NoError(t, err)

	r, err := f.toggle.Execute(ctx, c.CommentID, fan.ID)
	require.NoError(t, err)
	assert.Equal(t, "like", r.Action)
	assert.Equal(t, 1, r.Likes)
	assert.Equal(t, "author", r.UserDisplayName)

	r, err = f.toggle.Execute(ctx, c.CommentID, fan.ID)
	require.NoError(t, err)
	assert.Equal(t, "unlike", r.Action)
	assert.Equal(t, 0, r.Likes)

	r, err = f.toggle.Execute(ctx, c.CommentID, fan.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, r.Likes)

	exists, err := f.likes.Exists(ctx, c.CommentID, fan.ID)
	require.NoError(t, err)
	assert.True(t, exists)

	_, err = f.toggle.Execute(ctx, "missing", fan.ID)
	assert.ErrorIs(t, err, comment.ErrCommentNotFound)
}

// failingCounter 点赞数更新失败
type failingCounter struct {
	comment.Repository
}

func (failingCounter) AdjustLikes(context.Context, string, int, string, string) (*comment.Comment, error) {
	return nil, errors.New("store unavailable")
}

// TestToggleLikeCompensation 计数失败时撤销点赞关系
func TestToggleLikeCompensation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u := f.addUser(t, "a@x.com")
	b := f.addBook(t)

	c, err := f.create.Execute(ctx, CreateCommentRequest{BookID: b.ID, UserID: u.ID, Content: "hi"})
	require.NoError(t, err)

	uc := NewToggleLikeUseCase(failingCounter{f.comments}, f.likes, f.users)
	_, err = uc.Execute(ctx, c.CommentID, u.ID)
	require.Error(t, err)

	exists, err := f.likes.Exists(ctx, c.CommentID, u.ID)
	require.NoError(t, err)
	assert.False(t, exists)
}

// TestToggleLikeRereadFailure 计数写入后回读评论失败，点赞仍然成功，计数与点赞关系一致
func TestToggleLikeRereadFailure(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	author := f.addUser(t, "author@x.com")
	fan := f.addUser(t, "fan@x.com")
	b := f.addBook(t)

	c, err := f.create.Execute(ctx, CreateCommentRequest{BookID: b.ID, UserID: author.ID, Content: "第一"})
	require.NoError(t, err)

	injected := dbtest.FailReadAfterUpdate(t, f.db, "comments")

	r, err := f.toggle.Execute(ctx, c.CommentID, fan.ID)
	require.NoError(t, err)
	assert.Equal(t, int32(1), injected.Load())
	assert.Equal(t, "like", r.Action)
	assert.Equal(t, 1, r.Likes)
	assert.Equal(t, "author", r.UserDisplayName)

	stored, err := f.comments.FindByID(ctx, c.CommentID)
	require.NoError(t, err)
	n, err := f.likes.Count(ctx, c.CommentID)
	require.NoError(t, err)
	assert.Equal(t, int64(stored.Likes), n)
	assert.Equal(t, 1, stored.Likes)

	r, err = f.toggle.Execute(ctx, c.CommentID, fan.ID)
	require.NoError(t, err)
	assert.Equal(t, int32(2), injected.Load())
	assert.Equal(t, "unlike", r.Action)
	assert.Equal(t, 0, r.Likes)

	stored, err = f.comments.FindByID(ctx, c.CommentID)
	require.NoError(t, err)
	n, err = f.likes.Count(ctx, c.CommentID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), n)
	assert.Equal(t, 0, stored.Likes)
}

// TestListComments 树形结构和当前用户点赞标记
func TestListComments(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u := f.addUser(t, "a@x.com")
	v := f.addUser(t, "b@x.com")
	b := f.addBook(t)

	top1, err := f.create.Execute(ctx, CreateCommentRequest{BookID: b.ID, UserID: u.ID, Content: "一楼"})
	require.NoError(t, err)
	top2, err := f.create.Execute(ctx, CreateCommentRequest{BookID: b.ID, UserID: u.ID, Content: "二楼"})
	require.NoError(t, err)
	reply, err := f.create.Execute(ctx, CreateCommentRequest{BookID: b.ID, UserID: v.ID, Content: "回复一楼", ParentID: top1.CommentID})
	require.NoError(t, err)
	_, err = f.create.Execute(ctx, CreateCommentRequest{BookID: b.ID, UserID: u.ID, Content: "回复的回复", ParentID: reply.CommentID})
	require.NoError(t, err)

	_, err = f.toggle.Execute(ctx, top1.CommentID, v.ID)
	require.NoError(t, err)

	threads, err := f.list.Execute(ctx, b.ID, v.ID)
	require.NoError(t, err)
	require.Len(t, threads, 2)
	assert.Equal(t, top1.CommentID, threads[0].CommentID)
	assert.True(t, threads[0].Liked)
	assert.Len(t, threads[0].Replies, 2)
	assert.Equal(t, top2.CommentID, threads[1].CommentID)
	assert.False(t, threads[1].Liked)

	anon, err := f.list.Execute(ctx, b.ID, "")
	require.NoError(t, err)
	assert.False(t, anon[0].Liked)
}

// TestRecountLikes 计数被改坏后按点赞关系修正
func TestRecountLikes(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u := f.addUser(t, "a@x.com")
	b := f.addBook(t)

	c, err := f.create.Execute(ctx, CreateCommentRequest{BookID: b.ID, UserID: u.ID, Content: "hi"})
	require.NoError(t, err)
	_, err = f.toggle.Execute(ctx, c.CommentID, u.ID)
	require.NoError(t, err)
	require.NoError(t, f.comments.SetLikes(ctx, c.CommentID, 7))

	before, after, err := NewRecountLikesUseCase(f.comments, f.likes).Execute(ctx, c.CommentID)
	require.NoError(t, err)
	assert.Equal(t, 7, before)
	assert.Equal(t, 1, after)

	got, err := f.comments.FindByID(ctx, c.CommentID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.Likes)
}
