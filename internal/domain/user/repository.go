package user

import (
	"context"
)

// Repository 用户仓储接口
// 1. 接口定义在domain层（依赖倒置原则）
// 2. 具体实现在infrastructure/persistence/database
type Repository interface {
	// Create 创建用户
	// 邮箱已存在返回ErrEmailDuplicate（由主键冲突判定）
	Create(ctx context.Context, user *User) error

	// FindByID 根据UserID查找，不存在返回ErrUserNotFound
	FindByID(ctx context.Context, id string) (*User, error)

	// FindByEmail 根据邮箱查找，不存在返回ErrUserNotFound
	FindByEmail(ctx context.Context, email string) (*User, error)

	// FindByIDs 批量查询，不存在的ID不出现在结果中
	FindByIDs(ctx context.Context, ids []string) (map[string]*User, error)

	// UpdateProfile 更新个人资料
	UpdateProfile(ctx context.Context, id string, patch ProfilePatch) error

	// UpdatePassword 更新密码哈希
	UpdatePassword(ctx context.Context, email, hashedPassword string) error

	// UpdateRole 更新角色
	UpdateRole(ctx context.Context, email string, role Role) error
}
