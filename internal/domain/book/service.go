package book

import (
	"context"
)

// Service 图书领域服务
// 负责校验，持久化交给Repository
type Service interface {
	// CreateBook 上架图书
	CreateBook(ctx context.Context, book *Book) (*Book, error)

	// GetBook 查询图书
	GetBook(ctx context.Context, id string) (*Book, error)

	// UpdateBook 部分更新图书，返回更新后的图书
	UpdateBook(ctx context.Context, id string, patch Patch) (*Book, error)

	// DeleteBook 删除图书
	DeleteBook(ctx context.Context, id string) error

	// ListBooks 分页查询
	ListBooks(ctx context.Context, params ListParams) ([]*Book, int64, error)
}

type service struct {
	repo Repository
}

// NewService 创建图书领域服务
func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) CreateBook(ctx context.Context, book *Book) (*Book, error) {
	if book.Status == "" {
		book.Status = StatusForStock(book.Stock)
	}
	if err := book.Validate(); err != nil {
		return nil, err
	}
	book.Status = ResolveStatus(book.Status, book.Stock)
	if err := s.repo.Create(ctx, book); err != nil {
		return nil, err
	}
	return book, nil
}

func (s *service) GetBook(ctx context.Context, id string) (*Book, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *service) UpdateBook(ctx context.Context, id string, patch Patch) (*Book, error) {
	if err := patch.Validate(); err != nil {
		return nil, err
	}

	// 库存或状态变化时按修改后的值重算状态，只有maintenance保留
	if patch.Stock != nil || patch.Status != nil {
		current, err := s.repo.FindByID(ctx, id)
		if err != nil {
			return nil, err
		}
		stock, status := current.Stock, current.Status
		if patch.Stock != nil {
			stock = *patch.Stock
		}
		if patch.Status != nil {
			status = *patch.Status
		}
		status = ResolveStatus(status, stock)
		patch.Status = &status
	}

	if !patch.Empty() {
		if err := s.repo.Update(ctx, id, patch); err != nil {
			return nil, err
		}
	}
	return s.repo.FindByID(ctx, id)
}

func (s *service) DeleteBook(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

func (s *service) ListBooks(ctx context.Context, params ListParams) ([]*Book, int64, error) {
	params.Normalize()
	return s.repo.List(ctx, params)
}
