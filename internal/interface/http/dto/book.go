package dto

import (
	"github.com/xiebiao/library/internal/domain/book"
)

// CreateBookRequest 新增图书
// price/stock同时接受数字和数字字符串
type CreateBookRequest struct {
	Title       string    `json:"title" binding:"required,max=200" example:"三体"`
	Author      string    `json:"author" binding:"max=100" example:"刘慈欣"`
	Publisher   string    `json:"publisher" binding:"max=100" example:"重庆出版社"`
	ISBN        string    `json:"isbn" binding:"max=20" example:"9787536692930"`
	Price       FlexFloat `json:"price" swaggertype:"number" example:"23.5"`
	Category    string    `json:"category" binding:"max=50" example:"科幻"`
	Description string    `json:"description" binding:"max=5000"`
	Cover       string    `json:"cover" binding:"omitempty,url,max=500"`
	Summary     string    `json:"summary" binding:"max=2000"`
	Stock       FlexInt   `json:"stock" swaggertype:"integer" example:"3"`
	Status      string    `json:"status" binding:"omitempty,oneof=available borrowed maintenance"`
}

// UpdateBookRequest 修改图书，只修改出现的字段
type UpdateBookRequest struct {
	Title       *string    `json:"title" binding:"omitempty,max=200"`
	Author      *string    `json:"author" binding:"omitempty,max=100"`
	Publisher   *string    `json:"publisher" binding:"omitempty,max=100"`
	ISBN        *string    `json:"isbn" binding:"omitempty,max=20"`
	Price       *FlexFloat `json:"price" swaggertype:"number"`
	Category    *string    `json:"category" binding:"omitempty,max=50"`
	Description *string    `json:"description" binding:"omitempty,max=5000"`
	Cover       *string    `json:"cover" binding:"omitempty,max=500"`
	Summary     *string    `json:"summary" binding:"omitempty,max=2000"`
	Stock       *FlexInt   `json:"stock" swaggertype:"integer"`
	Status      *string    `json:"status"`
}

// ListBooksQuery 图书列表查询参数，size与page_size等价
type ListBooksQuery struct {
	Page     int    `form:"page" binding:"omitempty,min=1" example:"1"`
	Size     int    `form:"size" binding:"omitempty,min=1" example:"20"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1"`
	Category string `form:"category" binding:"omitempty,max=50"`
	Keyword  string `form:"keyword" binding:"omitempty,max=100" example:"三体"`
}

// PresignQuery 封面上传URL
type PresignQuery struct {
	FileName    string `form:"file_name" binding:"required,max=200" example:"cover.jpg"`
	ContentType string `form:"content_type" binding:"omitempty,max=100" example:"image/jpeg"`
}

// ToPatch 转换为领域层的部分更新
func (r UpdateBookRequest) ToPatch() book.Patch {
	p := book.Patch{
		Title:       r.Title,
		Author:      r.Author,
		Publisher:   r.Publisher,
		ISBN:        r.ISBN,
		Category:    r.Category,
		Description: r.Description,
		Cover:       r.Cover,
		Summary:     r.Summary,
	}
	if r.Price != nil {
		price := float64(*r.Price)
		p.Price = &price
	}
	if r.Stock != nil {
		stock := int(*r.Stock)
		p.Stock = &stock
	}
	if r.Status != nil {
		status := book.Status(*r.Status)
		p.Status = &status
	}
	return p
}
