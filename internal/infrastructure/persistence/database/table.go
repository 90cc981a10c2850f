package database

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/schema"

	apperrors "github.com/xiebiao/library/pkg/errors"
)

var (
	// ErrRowNotFound 行不存在
	ErrRowNotFound = errors.New("row not found")

	// ErrConditionFailed 条件写入失败: 主键/唯一键冲突，或没有满足条件的行
	ErrConditionFailed = errors.New("condition check failed")
)

// Expectation 写入时对行存在性的预期
type Expectation int

const (
	// ExpectNotExist 行必须不存在，否则返回ErrConditionFailed
	ExpectNotExist Expectation = iota
	// ExpectIgnore 不关心是否存在，存在则覆盖
	ExpectIgnore
)

// DefaultScanLimit Scan未指定Limit时的默认条数
const DefaultScanLimit = 100

// Key 主键或唯一键的列值
type Key map[string]any

// Cond 额外的SQL条件，如 Cond{"stock + ? >= 0", []any{-1}}
type Cond struct {
	Query string
	Args  []any
}

// Where 构造Cond
func Where(query string, args ...any) Cond {
	return Cond{Query: query, Args: args}
}

// ScanQuery 范围扫描参数
//
// Start/End是主键区间[Start, End)，nil表示不限
// Filter是等值AND过滤，Conds是额外条件
// Limit为0时取DefaultScanLimit，小于0时不限制
type ScanQuery struct {
	Start   any
	End     any
	Filter  Key
	Conds   []Cond
	Limit   int
	Offset  int
	Columns []string
	OrderBy string // 为空时按主键升序
	Desc    bool
}

// Table 单表访问封装
//
// 所有实体仓储都通过它读写，只暴露单行的条件写入、点查和范围扫描，
// 业务层不直接拼接gorm链式调用
type Table[T any] struct {
	db   *gorm.DB
	name string
	pk   string
}

var schemaCache sync.Map

// NewTable 创建T对应的表访问对象
func NewTable[T any](db *gorm.DB) *Table[T] {
	s, err := schema.Parse(new(T), &schemaCache, db.NamingStrategy)
	if err != nil {
		panic(fmt.Sprintf("解析表结构失败: %v", err))
	}
	pk := ""
	if s.PrioritizedPrimaryField != nil {
		pk = s.PrioritizedPrimaryField.DBName
	} else if len(s.PrimaryFieldDBNames) > 0 {
		pk = s.PrimaryFieldDBNames[0]
	}
	return &Table[T]{db: db, name: s.Table, pk: pk}
}

// Name 表名
func (t *Table[T]) Name() string {
	return t.name
}

// Get 点查，不存在返回ErrRowNotFound
func (t *Table[T]) Get(ctx context.Context, key Key) (*T, error) {
	var row T
	err := t.db.WithContext(ctx).Where(map[string]any(key)).Take(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRowNotFound
		}
		return nil, t.wrap("get", err)
	}
	return &row, nil
}

// Put 写入一行
func (t *Table[T]) Put(ctx context.Context, row *T, exp Expectation) error {
	tx := t.db.WithContext(ctx)
	if exp == ExpectIgnore {
		tx = tx.Clauses(clause.OnConflict{UpdateAll: true})
	}
	if err := tx.Create(row).Error; err != nil {
		if isDuplicateError(err) {
			return ErrConditionFailed
		}
		return t.wrap("put", err)
	}
	return nil
}

// Update 列级部分更新
//
// patch的值可以是gorm.Expr（如"stock + ?"），conds追加到WHERE中；
// 没有任何行匹配时返回ErrConditionFailed
func (t *Table[T]) Update(ctx context.Context, key Key, patch map[string]any, conds ...Cond) error {
	if len(patch) == 0 {
		return nil
	}
	tx := t.db.WithContext(ctx).Model(new(T)).Where(map[string]any(key))
	for _, c := range conds {
		tx = tx.Where(c.Query, c.Args...)
	}
	result := tx.Updates(patch)
	if result.Error != nil {
		if isDuplicateError(result.Error) {
			return ErrConditionFailed
		}
		return t.wrap("update", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrConditionFailed
	}
	return nil
}

// Delete 删除一行，返回是否真的删除了
func (t *Table[T]) Delete(ctx context.Context, key Key, conds ...Cond) (bool, error) {
	tx := t.db.WithContext(ctx).Where(map[string]any(key))
	for _, c := range conds {
		tx = tx.Where(c.Query, c.Args...)
	}
	result := tx.Delete(new(T))
	if result.Error != nil {
		return false, t.wrap("delete", result.Error)
	}
	return result.RowsAffected > 0, nil
}

// Scan 范围扫描
func (t *Table[T]) Scan(ctx context.Context, q ScanQuery) ([]*T, error) {
	tx := t.query(ctx, q.Filter, q.Conds)
	if q.Start != nil {
		tx = tx.Where(clause.Gte{Column: clause.Column{Name: t.pk}, Value: q.Start})
	}
	if q.End != nil {
		tx = tx.Where(clause.Lt{Column: clause.Column{Name: t.pk}, Value: q.End})
	}
	if len(q.Columns) > 0 {
		tx = tx.Select(q.Columns)
	}

	if q.OrderBy != "" {
		tx = tx.Order(clause.OrderByColumn{Column: clause.Column{Name: q.OrderBy}, Desc: q.Desc})
	}
	if t.pk != "" && q.OrderBy != t.pk {
		tx = tx.Order(clause.OrderByColumn{Column: clause.Column{Name: t.pk}, Desc: q.OrderBy != "" && q.Desc})
	}

	limit := q.Limit
	if limit == 0 {
		limit = DefaultScanLimit
	}
	if limit > 0 {
		tx = tx.Limit(limit)
	}
	if q.Offset > 0 {
		tx = tx.Offset(q.Offset)
	}

	var rows []*T
	if err := tx.Find(&rows).Error; err != nil {
		return nil, t.wrap("scan", err)
	}
	return rows, nil
}

// Count 按条件计数
func (t *Table[T]) Count(ctx context.Context, filter Key, conds ...Cond) (int64, error) {
	var n int64
	if err := t.query(ctx, filter, conds).Count(&n).Error; err != nil {
		return 0, t.wrap("count", err)
	}
	return n, nil
}

func (t *Table[T]) query(ctx context.Context, filter Key, conds []Cond) *gorm.DB {
	tx := t.db.WithContext(ctx).Model(new(T))
	if len(filter) > 0 {
		tx = tx.Where(map[string]any(filter))
	}
	for _, c := range conds {
		tx = tx.Where(c.Query, c.Args...)
	}
	return tx
}

// wrap 非预期的存储错误: 状态未知，调用方按"未生效"处理
func (t *Table[T]) wrap(op string, err error) error {
	return apperrors.ErrDatabaseError.WithCause(fmt.Errorf("%s %s: %w", op, t.name, err))
}

// isDuplicateError 判断是否为唯一索引冲突
// MySQL: 1062 Duplicate entry；SQLite: UNIQUE constraint failed
func isDuplicateError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "Duplicate entry") || strings.Contains(msg, "UNIQUE constraint failed")
}
