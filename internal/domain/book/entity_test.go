package book

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestStatusForStock 库存为0时状态为borrowed
func TestStatusForStock(t *testing.T) {
	assert.Equal(t, StatusBorrowed, StatusForStock(0))
	assert.Equal(t, StatusAvailable, StatusForStock(3))
}

// TestResolveStatus 只有maintenance能覆盖库存推导的状态
func TestResolveStatus(t *testing.T) {
	assert.Equal(t, StatusBorrowed, ResolveStatus(StatusAvailable, 0))
	assert.Equal(t, StatusAvailable, ResolveStatus(StatusBorrowed, 2))
	assert.Equal(t, StatusMaintenance, ResolveStatus(StatusMaintenance, 0))
	assert.Equal(t, StatusMaintenance, ResolveStatus(StatusMaintenance, 5))
}

// TestNewBook 新书状态由库存推导
func TestNewBook(t *testing.T) {
	b := NewBook(" T ", "A", "P", "978", 12.5, "小说", 0)
	assert.NotEmpty(t, b.ID)
	assert.Equal(t, "T", b.Title)
	assert.Equal(t, StatusBorrowed, b.Status)
	assert.NoError(t, b.Validate())
	assert.False(t, b.Available())
}

// TestValidate 书名、价格、库存、状态校验
func TestValidate(t *testing.T) {
	cases := []struct {
		name string
		mod  func(b *Book)
		want error
	}{
		{"书名为空", func(b *Book) { b.Title = " " }, ErrTitleRequired},
		{"价格为负", func(b *Book) { b.Price = -1 }, ErrInvalidPrice},
		{"库存为负", func(b *Book) { b.Stock = -1 }, ErrInvalidStock},
		{"状态非法", func(b *Book) { b.Status = "lost" }, ErrInvalidStatus},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			b := NewBook("T", "", "", "", 1, "", 1)
			tc.mod(b)
			assert.ErrorIs(t, b.Validate(), tc.want)
		})
	}
}

// TestPatchValidate 部分更新只校验提供的字段
func TestPatchValidate(t *testing.T) {
	assert.True(t, Patch{}.Empty())
	assert.NoError(t, Patch{}.Validate())

	bad := Status("lost")
	assert.ErrorIs(t, Patch{Status: &bad}.Validate(), ErrInvalidStatus)

	stock := -2
	assert.ErrorIs(t, Patch{Stock: &stock}.Validate(), ErrInvalidStock)
}

// TestListParamsNormalize 分页默认值与上限
func TestListParamsNormalize(t *testing.T) {
	p := ListParams{}
	p.Normalize()
	assert.Equal(t, 1, p.Page)
	assert.Equal(t, 20, p.PageSize)

	p = ListParams{Page: 3, PageSize: 1000}
	p.Normalize()
	assert.Equal(t, 100, p.PageSize)
	assert.Equal(t, 200, p.Offset())
}
