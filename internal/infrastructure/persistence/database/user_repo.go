package database

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/xiebiao/library/internal/domain/user"
)

// userRepository 用户仓储实现
// 邮箱唯一性由主键保证，不在Service层先查后写
type userRepository struct {
	table *Table[UserModel]
}

// NewUserRepository 创建用户仓储
func NewUserRepository(db *gorm.DB) user.Repository {
	return &userRepository{table: NewTable[UserModel](db)}
}

func (r *userRepository) Create(ctx context.Context, u *user.User) error {
	model := fromUserEntity(u)
	if err := r.table.Put(ctx, model, ExpectNotExist); err != nil {
		if errors.Is(err, ErrConditionFailed) {
			return user.ErrEmailDuplicate
		}
		return err
	}
	u.CreatedAt = model.CreatedAt
	u.UpdatedAt = model.UpdatedAt
	return nil
}

func (r *userRepository) FindByID(ctx context.Context, id string) (*user.User, error) {
	return r.get(ctx, Key{"user_id": id})
}

func (r *userRepository) FindByEmail(ctx context.Context, email string) (*user.User, error) {
	return r.get(ctx, Key{"email": email})
}

func (r *userRepository) get(ctx context.Context, key Key) (*user.User, error) {
	m, err := r.table.Get(ctx, key)
	if err != nil {
		if errors.Is(err, ErrRowNotFound) {
			return nil, user.ErrUserNotFound
		}
		return nil, err
	}
	return toUserEntity(m), nil
}

func (r *userRepository) FindByIDs(ctx context.Context, ids []string) (map[string]*user.User, error) {
	out := make(map[string]*user.User, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	rows, err := r.table.Scan(ctx, ScanQuery{
		Conds: []Cond{Where("user_id IN ?", uniqueStrings(ids))},
		Limit: -1,
	})
	if err != nil {
		return nil, err
	}
	for _, m := range rows {
		out[m.UserID] = toUserEntity(m)
	}
	return out, nil
}

func (r *userRepository) UpdateProfile(ctx context.Context, id string, patch user.ProfilePatch) error {
	cols := map[string]any{"updated_at": time.Now().Unix()}
	setIf(cols, "display_name", patch.DisplayName)
	setIf(cols, "avatar_url", patch.AvatarURL)
	setIf(cols, "gender", patch.Gender)
	setIf(cols, "background_url", patch.BackgroundURL)
	setIf(cols, "summary", patch.Summary)
	return r.update(ctx, Key{"user_id": id}, cols)
}

func (r *userRepository) UpdatePassword(ctx context.Context, email, hashedPassword string) error {
	return r.update(ctx, Key{"email": email}, map[string]any{
		"password":   hashedPassword,
		"updated_at": time.Now().Unix(),
	})
}

func (r *userRepository) UpdateRole(ctx context.Context, email string, role user.Role) error {
	return r.update(ctx, Key{"email": email}, map[string]any{
		"role":       string(role),
		"updated_at": time.Now().Unix(),
	})
}

func (r *userRepository) update(ctx context.Context, key Key, cols map[string]any) error {
	if err := r.table.Update(ctx, key, cols); err != nil {
		if errors.Is(err, ErrConditionFailed) {
			return user.ErrUserNotFound
		}
		return err
	}
	return nil
}

func fromUserEntity(u *user.User) *UserModel {
	return &UserModel{
		Email:         u.Email,
		UserID:        u.ID,
		Password:      u.Password,
		Role:          string(u.Role),
		IsVerified:    u.IsVerified,
		DisplayName:   u.DisplayName,
		AvatarURL:     u.AvatarURL,
		Gender:        u.Gender,
		BackgroundURL: u.BackgroundURL,
		Summary:       u.Summary,
		CreatedAt:     u.CreatedAt,
		UpdatedAt:     u.UpdatedAt,
	}
}

func toUserEntity(m *UserModel) *user.User {
	return &user.User{
		ID:            m.UserID,
		Email:         m.Email,
		Password:      m.Password,
		Role:          user.Role(m.Role),
		IsVerified:    m.IsVerified,
		DisplayName:   m.DisplayName,
		AvatarURL:     m.AvatarURL,
		Gender:        m.Gender,
		BackgroundURL: m.BackgroundURL,
		Summary:       m.Summary,
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
	}
}
