package user

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/xiebiao/library/internal/domain/user"
	"github.com/xiebiao/library/pkg/logger"
)

// BootstrapAdminUseCase 确保管理员账号存在
// 服务启动和 libctl create-admin 共用
type BootstrapAdminUseCase struct {
	userService user.Service
}

// NewBootstrapAdminUseCase 创建用例
func NewBootstrapAdminUseCase(userService user.Service) *BootstrapAdminUseCase {
	return &BootstrapAdminUseCase{userService: userService}
}

// Execute 邮箱不存在时创建管理员，已存在的普通用户提升为管理员
// changed为false表示账号已经是管理员
func (uc *BootstrapAdminUseCase) Execute(ctx context.Context, email, password string) (*UserView, bool, error) {
	u, changed, err := uc.userService.EnsureAdmin(ctx, email, password)
	if err != nil {
		return nil, false, err
	}
	if changed {
		logger.L().WithFields(logrus.Fields{
			"user_id": u.ID,
			"email":   u.Email,
		}).Info("管理员账号已就绪")
	}
	return ToView(u), changed, nil
}
