package database

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/xiebiao/library/internal/domain/verification"
)

type verificationRepository struct {
	table *Table[VerificationCodeModel]
}

// NewVerificationRepository 创建验证码仓储
func NewVerificationRepository(db *gorm.DB) verification.Repository {
	return &verificationRepository{table: NewTable[VerificationCodeModel](db)}
}

// Save 覆盖写入，每个邮箱只保留最新的验证码
func (r *verificationRepository) Save(ctx context.Context, c *verification.Code) error {
	return r.table.Put(ctx, &VerificationCodeModel{
		Email:      c.Email,
		Code:       c.Code,
		Type:       string(c.Type),
		ExpireTime: c.ExpireTime,
	}, ExpectIgnore)
}

func (r *verificationRepository) Get(ctx context.Context, email string) (*verification.Code, error) {
	m, err := r.table.Get(ctx, Key{"email": email})
	if err != nil {
		if errors.Is(err, ErrRowNotFound) {
			return nil, verification.ErrCodeNotFound
		}
		return nil, err
	}
	return &verification.Code{
		Email:      m.Email,
		Code:       m.Code,
		Type:       verification.Type(m.Type),
		ExpireTime: m.ExpireTime,
	}, nil
}

func (r *verificationRepository) Delete(ctx context.Context, email string) error {
	_, err := r.table.Delete(ctx, Key{"email": email})
	return err
}
