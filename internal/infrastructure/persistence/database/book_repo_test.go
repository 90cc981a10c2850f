package database

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/xiebiao/library/internal/domain/book"
)

func seedBook(t *testing.T, repo book.Repository, title string, stock int) *book.Book {
	t.Helper()
	b := book.NewBook(title, "作者", "出版社", "978", 39.9, "小说", stock)
	require.NoError(t, repo.Create(context.Background(), b))
	return b
}

// TestBookRoundTrip 创建后读取，字段原样返回
func TestBookRoundTrip(t *testing.T) {
	repo := NewBookRepository(newTestDB(t))
	b := seedBook(t, repo, "三体", 3)

	got, err := repo.FindByID(context.Background(), b.ID)
	require.NoError(t, err)
	assert.Equal(t, "三体", got.Title)
	assert.InDelta(t, 39.9, got.Price, 1e-9)
	assert.Equal(t, 3, got.Stock)
	assert.Equal(t, book.StatusAvailable, got.Status)
	assert.NotZero(t, got.CreatedAt)

	_, err = repo.FindByID(context.Background(), "missing")
	assert.ErrorIs(t, err, book.ErrBookNotFound)
}

// TestBookUpdatePatch 只更新提供的字段
func TestBookUpdatePatch(t *testing.T) {
	ctx := context.Background()
	repo := NewBookRepository(newTestDB(t))
	b := seedBook(t, repo, "三体", 3)

	author := "刘慈欣"
	require.NoError(t, repo.Update(ctx, b.ID, book.Patch{Author: &author}))

	got, err := repo.FindByID(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, "刘慈欣", got.Author)
	assert.Equal(t, "三体", got.Title)
	assert.Equal(t, 3, got.Stock)

	assert.ErrorIs(t, repo.Update(ctx, "missing", book.Patch{Author: &author}), book.ErrBookNotFound)
}

// TestBookList 分类过滤、关键词、分页与总数
func TestBookList(t *testing.T) {
	ctx := context.Background()
	repo := NewBookRepository(newTestDB(t))
	seedBook(t, repo, "三体", 1)
	seedBook(t, repo, "球状闪电", 1)
	other := book.NewBook("算法导论", "CLRS", "", "", 100, "计算机", 1)
	require.NoError(t, repo.Create(ctx, other))

	books, total, err := repo.List(ctx, book.ListParams{Category: "小说", PageSize: 1})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Len(t, books, 1)

	books, total, err = repo.List(ctx, book.ListParams{Keyword: "CLRS"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, "算法导论", books[0].Title)
}

// TestUpdateStock 库存归零时状态变为borrowed，恢复后变回available
func TestUpdateStock(t *testing.T) {
	ctx := context.Background()
	repo := NewBookRepository(newTestDB(t))
	b := seedBook(t, repo, "三体", 1)

	got, err := repo.UpdateStock(ctx, b.ID, -1)
	require.NoError(t, err)
	assert.Equal(t, 0, got.Stock)
	assert.Equal(t, book.StatusBorrowed, got.Status)

	_, err = repo.UpdateStock(ctx, b.ID, -1)
	assert.ErrorIs(t, err, book.ErrInsufficientStock)

	got, err = repo.UpdateStock(ctx, b.ID, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, got.Stock)
	assert.Equal(t, book.StatusAvailable, got.Status)

	_, err = repo.UpdateStock(ctx, "missing", 1)
	assert.ErrorIs(t, err, book.ErrBookNotFound)
}

// TestUpdateStockKeepsMaintenance 维护状态不随库存变化
func TestUpdateStockKeepsMaintenance(t *testing.T) {
	ctx := context.Background()
	repo := NewBookRepository(newTestDB(t))
	b := seedBook(t, repo, "三体", 2)

	status := book.StatusMaintenance
	require.NoError(t, repo.Update(ctx, b.ID, book.Patch{Status: &status}))

	got, err := repo.UpdateStock(ctx, b.ID, -1)
	require.NoError(t, err)
	assert.Equal(t, book.StatusMaintenance, got.Status)
}

// TestUpdateStockSingleStatement 库存和状态由同一条UPDATE写入
func TestUpdateStockSingleStatement(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	repo := NewBookRepository(db)
	b := seedBook(t, repo, "三体", 1)

	var updates atomic.Int32
	require.NoError(t, db.Callback().Update().After("gorm:update").Register("test:count_books", func(tx *gorm.DB) {
		if tx.Statement.Table == "books" {
			updates.Add(1)
		}
	}))

	_, err := repo.UpdateStock(ctx, b.ID, -1)
	require.NoError(t, err)
	assert.Equal(t, int32(1), updates.Load())

	got, err := repo.FindByID(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, got.Stock)
	assert.Equal(t, book.StatusBorrowed, got.Status)
}

// TestUpdateStockRereadFailure 写入成功后回读失败，不返回错误
func TestUpdateStockRereadFailure(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	repo := NewBookRepository(db)
	b := seedBook(t, repo, "三体", 2)

	var armed atomic.Bool
	require.NoError(t, db.Callback().Update().After("gorm:update").Register("test:arm_books", func(tx *gorm.DB) {
		if tx.Statement.Table == "books" && tx.Error == nil {
			armed.Store(true)
		}
	}))
	require.NoError(t, db.Callback().Query().Before("gorm:query").Register("test:fail_books", func(tx *gorm.DB) {
		if tx.Statement.Table == "books" && armed.CompareAndSwap(true, false) {
			_ = tx.AddError(errors.New("connection reset"))
		}
	}))

	got, err := repo.UpdateStock(ctx, b.ID, -1)
	require.NoError(t, err)
	assert.Nil(t, got)

	after, err := repo.FindByID(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, after.Stock)
	assert.Equal(t, book.StatusAvailable, after.Status)
}

// TestUpdateStockConcurrent 库存为1时并发扣减只有一个成功
func TestUpdateStockConcurrent(t *testing.T) {
	ctx := context.Background()
	repo := NewBookRepository(newTestDB(t))
	b := seedBook(t, repo, "三体", 1)

	const workers = 10
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		successes int
		failures  int
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := repo.UpdateStock(ctx, b.ID, -1)
			mu.Lock()
			defer mu.Unlock()
			if err == nil {
				successes++
			} else if assert.ErrorIs(t, err, book.ErrInsufficientStock) {
				failures++
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, successes)
	assert.Equal(t, workers-1, failures)

	got, err := repo.FindByID(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, got.Stock)
}
