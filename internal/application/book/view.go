package book

import (
	"github.com/xiebiao/library/internal/domain/book"
)

// BookView 图书响应
// price统一为浮点数、stock统一为整数
type BookView struct {
	BookID      string  `json:"book_id"`
	Title       string  `json:"title"`
	Author      string  `json:"author"`
	Publisher   string  `json:"publisher"`
	ISBN        string  `json:"isbn"`
	Price       float64 `json:"price"`
	Category    string  `json:"category"`
	Description string  `json:"description"`
	Cover       string  `json:"cover"`
	Summary     string  `json:"summary"`
	Status      string  `json:"status"`
	Stock       int     `json:"stock"`
	CreatedAt   int64   `json:"created_at"`
	UpdatedAt   int64   `json:"updated_at"`
}

// ToView 领域对象 → 响应
func ToView(b *book.Book) BookView {
	return BookView{
		BookID:      b.ID,
		Title:       b.Title,
		Author:      b.Author,
		Publisher:   b.Publisher,
		ISBN:        b.ISBN,
		Price:       b.Price,
		Category:    b.Category,
		Description: b.Description,
		Cover:       b.Cover,
		Summary:     b.Summary,
		Status:      string(b.Status),
		Stock:       b.Stock,
		CreatedAt:   b.CreatedAt,
		UpdatedAt:   b.UpdatedAt,
	}
}
