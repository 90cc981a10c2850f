package book

import (
	"context"

	"github.com/xiebiao/library/internal/domain/book"
)

// ListBooksUseCase 图书列表查询用例
// 1. 分页参数默认值：第1页、每页20条，每页最多100条
// 2. 按分类精确过滤，按关键词匹配书名和作者
// 3. 总数与列表使用同一个过滤条件
type ListBooksUseCase struct {
	bookService book.Service
}

// NewListBooksUseCase 创建列表查询用例
func NewListBooksUseCase(bookService book.Service) *ListBooksUseCase {
	return &ListBooksUseCase{
		bookService: bookService,
	}
}

// ListBooksRequest 列表查询请求
type ListBooksRequest struct {
	Page     int
	PageSize int
	Category string
	Keyword  string
}

// ListBooksResponse 列表查询响应
type ListBooksResponse struct {
	List     []BookView
	Total    int64
	Page     int
	PageSize int
}

// Execute 执行列表查询
func (uc *ListBooksUseCase) Execute(ctx context.Context, req ListBooksRequest) (*ListBooksResponse, error) {
	params := book.ListParams{
		Page:     req.Page,
		PageSize: req.PageSize,
		Category: req.Category,
		Keyword:  req.Keyword,
	}
	params.Normalize()

	books, total, err := uc.bookService.ListBooks(ctx, params)
	if err != nil {
		return nil, err
	}

	list := make([]BookView, len(books))
	for i, b := range books {
		list[i] = ToView(b)
	}
	return &ListBooksResponse{
		List:     list,
		Total:    total,
		Page:     params.Page,
		PageSize: params.PageSize,
	}, nil
}
