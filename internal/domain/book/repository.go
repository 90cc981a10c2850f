package book

import (
	"context"
)

// Repository 图书仓储接口
type Repository interface {
	// Create 创建图书
	Create(ctx context.Context, book *Book) error

	// FindByID 根据ID查询，不存在返回ErrBookNotFound
	FindByID(ctx context.Context, id string) (*Book, error)

	// FindByIDs 批量查询，用于借阅/收藏/预约列表补全图书信息
	// 不存在的ID不出现在结果中
	FindByIDs(ctx context.Context, ids []string) (map[string]*Book, error)

	// Update 部分更新
	Update(ctx context.Context, id string, patch Patch) error

	// Delete 删除图书
	Delete(ctx context.Context, id string) error

	// List 分页查询
	List(ctx context.Context, params ListParams) ([]*Book, int64, error)

	// UpdateStock 原子地调整库存并重算状态
	//
	// 条件写入: stock + delta >= 0，否则返回ErrInsufficientStock
	// 维护状态不随库存变化
	// 返回error时库存一定没有变化；写入成功但回读失败时返回(nil, nil)
	UpdateStock(ctx context.Context, id string, delta int) (*Book, error)
}

// ListParams 列表查询参数
type ListParams struct {
	Page     int    // 页码(从1开始)
	PageSize int    // 每页数量
	Category string // 分类精确匹配
	Keyword  string // 书名/作者模糊匹配
}

// Normalize 填充分页默认值
// 默认第1页、每页20条，每页最多100条
func (p *ListParams) Normalize() {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.PageSize < 1 {
		p.PageSize = 20
	}
	if p.PageSize > 100 {
		p.PageSize = 100
	}
}

// Offset 当前页偏移量
func (p ListParams) Offset() int {
	return (p.Page - 1) * p.PageSize
}
