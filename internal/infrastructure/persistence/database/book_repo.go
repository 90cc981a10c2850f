package database

import (
	"context"
	"errors"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/xiebiao/library/internal/domain/book"
	"github.com/xiebiao/library/pkg/logger"
)

// bookRepository 图书仓储实现
// 1. 实现domain/book/repository.go定义的接口
// 2. 负责领域实体与数据模型之间的转换
// 3. 把ErrRowNotFound/ErrConditionFailed转换为业务错误
type bookRepository struct {
	table *Table[BookModel]
}

// NewBookRepository 创建图书仓储
func NewBookRepository(db *gorm.DB) book.Repository {
	return &bookRepository{table: NewTable[BookModel](db)}
}

func (r *bookRepository) Create(ctx context.Context, b *book.Book) error {
	model := fromBookEntity(b)
	if err := r.table.Put(ctx, model, ExpectNotExist); err != nil {
		if errors.Is(err, ErrConditionFailed) {
			return errDuplicate("图书ID冲突")
		}
		return err
	}
	b.CreatedAt = model.CreatedAt
	b.UpdatedAt = model.UpdatedAt
	return nil
}

func (r *bookRepository) FindByID(ctx context.Context, id string) (*book.Book, error) {
	model, err := r.table.Get(ctx, Key{"book_id": id})
	if err != nil {
		if errors.Is(err, ErrRowNotFound) {
			return nil, book.ErrBookNotFound
		}
		return nil, err
	}
	return toBookEntity(model), nil
}

func (r *bookRepository) FindByIDs(ctx context.Context, ids []string) (map[string]*book.Book, error) {
	out := make(map[string]*book.Book, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	rows, err := r.table.Scan(ctx, ScanQuery{
		Conds: []Cond{Where("book_id IN ?", uniqueStrings(ids))},
		Limit: -1,
	})
	if err != nil {
		return nil, err
	}
	for _, m := range rows {
		out[m.BookID] = toBookEntity(m)
	}
	return out, nil
}

func (r *bookRepository) Update(ctx context.Context, id string, patch book.Patch) error {
	cols := map[string]any{"updated_at": time.Now().Unix()}
	setIf(cols, "title", patch.Title)
	setIf(cols, "author", patch.Author)
	setIf(cols, "publisher", patch.Publisher)
	setIf(cols, "isbn", patch.ISBN)
	setIf(cols, "price", patch.Price)
	setIf(cols, "category", patch.Category)
	setIf(cols, "description", patch.Description)
	setIf(cols, "cover", patch.Cover)
	setIf(cols, "summary", patch.Summary)
	setIf(cols, "stock", patch.Stock)
	if patch.Status != nil {
		cols["status"] = string(*patch.Status)
	}

	if err := r.table.Update(ctx, Key{"book_id": id}, cols); err != nil {
		if errors.Is(err, ErrConditionFailed) {
			return book.ErrBookNotFound
		}
		return err
	}
	return nil
}

func (r *bookRepository) Delete(ctx context.Context, id string) error {
	removed, err := r.table.Delete(ctx, Key{"book_id": id})
	if err != nil {
		return err
	}
	if !removed {
		return book.ErrBookNotFound
	}
	return nil
}

// List 分页查询，默认按上架时间倒序
func (r *bookRepository) List(ctx context.Context, params book.ListParams) ([]*book.Book, int64, error) {
	params.Normalize()

	filter := Key{}
	if params.Category != "" {
		filter["category"] = params.Category
	}
	var conds []Cond
	if params.Keyword != "" {
		kw := "%" + params.Keyword + "%"
		conds = append(conds, Where("(title LIKE ? OR author LIKE ?)", kw, kw))
	}

	total, err := r.table.Count(ctx, filter, conds...)
	if err != nil {
		return nil, 0, err
	}

	rows, err := r.table.Scan(ctx, ScanQuery{
		Filter:  filter,
		Conds:   conds,
		Limit:   params.PageSize,
		Offset:  params.Offset(),
		OrderBy: "created_at",
		Desc:    true,
	})
	if err != nil {
		return nil, 0, err
	}

	books := make([]*book.Book, len(rows))
	for i, m := range rows {
		books[i] = toBookEntity(m)
	}
	return books, total, nil
}

// UpdateStock 库存和状态在同一条UPDATE里调整
//
//	UPDATE books SET status = CASE ... stock + ? ... END, stock = stock + ?, updated_at = ?
//	WHERE book_id = ? AND stock + ? >= 0
//
// gorm按列名排序生成SET，status排在stock前面：MySQL从左到右求值、SQLite读取旧值，
// 两者中status看到的都是调整前的stock，所以都用stock + ?计算。
// 写入成功后回读失败不算失败，返回nil图书，调用方只关心写入结果
func (r *bookRepository) UpdateStock(ctx context.Context, id string, delta int) (*book.Book, error) {
	key := Key{"book_id": id}

	err := r.table.Update(ctx, key,
		map[string]any{
			"status": gorm.Expr("CASE WHEN status = ? THEN status WHEN stock + ? = 0 THEN ? ELSE ? END",
				string(book.StatusMaintenance), delta, string(book.StatusBorrowed), string(book.StatusAvailable)),
			"stock":      gorm.Expr("stock + ?", delta),
			"updated_at": time.Now().Unix(),
		},
		Where("stock + ? >= 0", delta),
	)
	if err != nil {
		if !errors.Is(err, ErrConditionFailed) {
			return nil, err
		}
		// 图书不存在，或者库存不足，再查一次确定原因
		if _, ferr := r.FindByID(ctx, id); ferr != nil {
			return nil, ferr
		}
		return nil, book.ErrInsufficientStock
	}

	b, err := r.FindByID(context.WithoutCancel(ctx), id)
	if err != nil {
		logger.L().WithFields(logrus.Fields{
			"book_id": id,
			"delta":   delta,
		}).WithError(err).Warn("库存已调整，回读图书失败")
		return nil, nil
	}
	return b, nil
}

func fromBookEntity(b *book.Book) *BookModel {
	return &BookModel{
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

func toBookEntity(m *BookModel) *book.Book {
	return &book.Book{
		ID:          m.BookID,
		Title:       m.Title,
		Author:      m.Author,
		Publisher:   m.Publisher,
		ISBN:        m.ISBN,
		Price:       m.Price,
		Category:    m.Category,
		Description: m.Description,
		Cover:       m.Cover,
		Summary:     m.Summary,
		Status:      book.Status(m.Status),
		Stock:       m.Stock,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}
