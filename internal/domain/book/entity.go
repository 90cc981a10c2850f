package book

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Status 图书状态
type Status string

const (
	StatusAvailable   Status = "available"   // 可借
	StatusBorrowed    Status = "borrowed"    // 已全部借出（库存为0）
	StatusMaintenance Status = "maintenance" // 维护中（管理员手动设置，不随库存变化）
)

// Valid 是否为合法状态
func (s Status) Valid() bool {
	switch s {
	case StatusAvailable, StatusBorrowed, StatusMaintenance:
		return true
	}
	return false
}

// StatusForStock 根据库存推导状态
// 库存为0时为borrowed，否则为available
func StatusForStock(stock int) Status {
	if stock == 0 {
		return StatusBorrowed
	}
	return StatusAvailable
}

// ResolveStatus 手动指定的状态与库存对齐
// 只有maintenance可以覆盖库存推导出的状态
func ResolveStatus(requested Status, stock int) Status {
	if requested == StatusMaintenance {
		return StatusMaintenance
	}
	return StatusForStock(stock)
}

// Book 图书实体(聚合根)
// 不变量:
// 1. Stock永不为负
// 2. 非维护状态下Stock==0 ⇔ Status==borrowed
type Book struct {
	ID          string
	Title       string
	Author      string
	Publisher   string
	ISBN        string
	Price       float64
	Category    string
	Description string
	Cover       string // 封面URL
	Summary     string
	Status      Status
	Stock       int
	CreatedAt   int64 // unix秒
	UpdatedAt   int64
}

// NewBook 创建新图书(工厂方法)
// 价格、库存由调用方先经过Validate校验
func NewBook(title, author, publisher, isbn string, price float64, category string, stock int) *Book {
	now := time.Now().Unix()
	return &Book{
		ID:        uuid.NewString(),
		Title:     strings.TrimSpace(title),
		Author:    author,
		Publisher: publisher,
		ISBN:      isbn,
		Price:     price,
		Category:  category,
		Stock:     stock,
		Status:    StatusForStock(stock),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Validate 校验基本约束
func (b *Book) Validate() error {
	if strings.TrimSpace(b.Title) == "" {
		return ErrTitleRequired
	}
	if b.Price < 0 {
		return ErrInvalidPrice
	}
	if b.Stock < 0 {
		return ErrInvalidStock
	}
	if !b.Status.Valid() {
		return ErrInvalidStatus
	}
	return nil
}

// Available 是否可借
func (b *Book) Available() bool {
	return b.Stock > 0 && b.Status != StatusMaintenance
}

// Patch 图书部分更新
// nil字段表示不修改
type Patch struct {
	Title       *string
	Author      *string
	Publisher   *string
	ISBN        *string
	Price       *float64
	Category    *string
	Description *string
	Cover       *string
	Summary     *string
	Status      *Status
	Stock       *int
}

// Empty 是否没有任何字段需要更新
func (p Patch) Empty() bool {
	return p.Title == nil && p.Author == nil && p.Publisher == nil && p.ISBN == nil &&
		p.Price == nil && p.Category == nil && p.Description == nil && p.Cover == nil &&
		p.Summary == nil && p.Status == nil && p.Stock == nil
}

// Validate 校验待更新字段
func (p Patch) Validate() error {
	if p.Title != nil && strings.TrimSpace(*p.Title) == "" {
		return ErrTitleRequired
	}
	if p.Price != nil && *p.Price < 0 {
		return ErrInvalidPrice
	}
	if p.Stock != nil && *p.Stock < 0 {
		return ErrInvalidStock
	}
	if p.Status != nil && !p.Status.Valid() {
		return ErrInvalidStatus
	}
	return nil
}

// FormatDate unix秒 → YYYY-MM-DD（本地时区）
func FormatDate(ts int64) string {
	return time.Unix(ts, 0).Format(time.DateOnly)
}
