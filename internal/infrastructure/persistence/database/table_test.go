package database

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// TestTablePut 主键冲突时ExpectNotExist失败，ExpectIgnore覆盖
func TestTablePut(t *testing.T) {
	ctx := context.Background()
	table := NewTable[VerificationCodeModel](newTestDB(t))
	assert.Equal(t, "verification_codes", table.Name())

	row := &VerificationCodeModel{Email: "a@x.com", Code: "111111", Type: "register", ExpireTime: 1}
	require.NoError(t, table.Put(ctx, row, ExpectNotExist))

	dup := &VerificationCodeModel{Email: "a@x.com", Code: "222222", Type: "register", ExpireTime: 2}
	assert.ErrorIs(t, table.Put(ctx, dup, ExpectNotExist), ErrConditionFailed)

	require.NoError(t, table.Put(ctx, dup, ExpectIgnore))
	got, err := table.Get(ctx, Key{"email": "a@x.com"})
	require.NoError(t, err)
	assert.Equal(t, "222222", got.Code)

	_, err = table.Get(ctx, Key{"email": "none@x.com"})
	assert.ErrorIs(t, err, ErrRowNotFound)
}

// TestTableUpdate 列级更新只改patch中的列，条件不满足返回ErrConditionFailed
func TestTableUpdate(t *testing.T) {
	ctx := context.Background()
	table := NewTable[BookModel](newTestDB(t))
	require.NoError(t, table.Put(ctx, &BookModel{BookID: "b1", Title: "T", Status: "available", Stock: 1}, ExpectNotExist))

	require.NoError(t, table.Update(ctx, Key{"book_id": "b1"}, map[string]any{"author": "A"}))
	got, err := table.Get(ctx, Key{"book_id": "b1"})
	require.NoError(t, err)
	assert.Equal(t, "T", got.Title)
	assert.Equal(t, "A", got.Author)

	err = table.Update(ctx, Key{"book_id": "b1"},
		map[string]any{"stock": gorm.Expr("stock + ?", -2)},
		Where("stock + ? >= 0", -2))
	assert.ErrorIs(t, err, ErrConditionFailed)

	err = table.Update(ctx, Key{"book_id": "missing"}, map[string]any{"author": "B"})
	assert.ErrorIs(t, err, ErrConditionFailed)
}

// TestTableScan 主键区间、过滤、排序、分页
func TestTableScan(t *testing.T) {
	ctx := context.Background()
	table := NewTable[BookModel](newTestDB(t))
	for i := 0; i < 5; i++ {
		category := "a"
		if i%2 == 1 {
			category = "b"
		}
		require.NoError(t, table.Put(ctx, &BookModel{
			BookID:    fmt.Sprintf("b%d", i),
			Title:     "T",
			Category:  category,
			Status:    "available",
			CreatedAt: int64(100 + i),
		}, ExpectNotExist))
	}

	rows, err := table.Scan(ctx, ScanQuery{Start: "b1", End: "b4"})
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "b1", rows[0].BookID)
	assert.Equal(t, "b3", rows[2].BookID)

	rows, err = table.Scan(ctx, ScanQuery{Filter: Key{"category": "a"}, OrderBy: "created_at", Desc: true, Limit: 2})
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "b4", rows[0].BookID)
	assert.Equal(t, "b2", rows[1].BookID)

	rows, err = table.Scan(ctx, ScanQuery{Columns: []string{"book_id"}, Offset: 4})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Empty(t, rows[0].Title)

	n, err := table.Count(ctx, Key{"category": "b"})
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
}

// TestTableDelete 删除返回是否真的删除了
func TestTableDelete(t *testing.T) {
	ctx := context.Background()
	table := NewTable[AnnouncementModel](newTestDB(t))
	require.NoError(t, table.Put(ctx, &AnnouncementModel{AnnouncementID: "a1", Title: "t", Content: "c", PublishTime: 1}, ExpectNotExist))

	removed, err := table.Delete(ctx, Key{"announcement_id": "a1"})
	require.NoError(t, err)
	assert.True(t, removed)

	removed, err = table.Delete(ctx, Key{"announcement_id": "a1"})
	require.NoError(t, err)
	assert.False(t, removed)
}
