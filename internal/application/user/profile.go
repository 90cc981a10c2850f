package user

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/xiebiao/library/internal/domain/user"
	apperrors "github.com/xiebiao/library/pkg/errors"
)

// ProfileUseCase 当前用户信息查询和修改
type ProfileUseCase struct {
	userRepo user.Repository
}

// NewProfileUseCase 创建用例
func NewProfileUseCase(userRepo user.Repository) *ProfileUseCase {
	return &ProfileUseCase{userRepo: userRepo}
}

// Current 当前登录用户
func (uc *ProfileUseCase) Current(ctx context.Context, userID string) (*UserView, error) {
	u, err := uc.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return ToView(u), nil
}

// Update 只修改给出的字段
func (uc *ProfileUseCase) Update(ctx context.Context, userID string, patch user.ProfilePatch) (*UserView, error) {
	if patch.DisplayName != nil {
		name := strings.TrimSpace(*patch.DisplayName)
		if name == "" {
			return nil, apperrors.InvalidParams("用户名不能为空")
		}
		if utf8.RuneCountInString(name) > 50 {
			return nil, user.ErrDisplayNameTooLong
		}
		patch.DisplayName = &name
	}

	if !patch.Empty() {
		if err := uc.userRepo.UpdateProfile(ctx, userID, patch); err != nil {
			return nil, err
		}
	}
	return uc.Current(ctx, userID)
}
