package book

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/xiebiao/library/internal/domain/book"
	"github.com/xiebiao/library/pkg/logger"
)

// ManageBookUseCase 图书上架、编辑、下架（管理员）
// 权限由接口层的管理员中间件保证，校验规则在领域服务里
type ManageBookUseCase struct {
	bookService book.Service
}

// NewManageBookUseCase 创建图书管理用例
func NewManageBookUseCase(bookService book.Service) *ManageBookUseCase {
	return &ManageBookUseCase{bookService: bookService}
}

// CreateBookRequest 上架请求
type CreateBookRequest struct {
	Title       string
	Author      string
	Publisher   string
	ISBN        string
	Price       float64
	Category    string
	Description string
	Cover       string
	Summary     string
	Stock       int
	Status      string // 为空时按库存推导
}

// Create 上架图书
func (uc *ManageBookUseCase) Create(ctx context.Context, req CreateBookRequest) (*BookView, error) {
	b := book.NewBook(req.Title, req.Author, req.Publisher, req.ISBN, req.Price, req.Category, req.Stock)
	b.Description = req.Description
	b.Cover = req.Cover
	b.Summary = req.Summary
	if req.Status != "" {
		b.Status = book.Status(req.Status)
	}

	created, err := uc.bookService.CreateBook(ctx, b)
	if err != nil {
		return nil, err
	}
	logger.L().WithFields(logrus.Fields{"book_id": created.ID, "title": created.Title}).Info("图书已上架")
	v := ToView(created)
	return &v, nil
}

// Update 部分更新，只修改请求中出现的字段
func (uc *ManageBookUseCase) Update(ctx context.Context, id string, patch book.Patch) (*BookView, error) {
	updated, err := uc.bookService.UpdateBook(ctx, id, patch)
	if err != nil {
		return nil, err
	}
	v := ToView(updated)
	return &v, nil
}

// Delete 下架图书
func (uc *ManageBookUseCase) Delete(ctx context.Context, id string) error {
	if err := uc.bookService.DeleteBook(ctx, id); err != nil {
		return err
	}
	logger.L().WithField("book_id", id).Info("图书已删除")
	return nil
}
