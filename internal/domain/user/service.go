package user

import (
	"context"
	"errors"
	"regexp"
	"unicode/utf8"

	"golang.org/x/crypto/bcrypt"

	apperrors "github.com/xiebiao/library/pkg/errors"
)

// HashCost bcrypt cost
const HashCost = 12

var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// Service 用户领域服务
// 密码加密、校验、注册规则这些不属于单个实体的逻辑放在这里
type Service interface {
	// Register 用户注册(验证码校验由应用层完成)
	Register(ctx context.Context, email, password, displayName string) (*User, error)

	// Authenticate 邮箱+密码登录
	Authenticate(ctx context.Context, email, password string) (*User, error)

	// ResetPassword 重置密码
	ResetPassword(ctx context.Context, email, password string) error

	// EnsureAdmin 确保管理员账号存在
	// 账号不存在时创建，已存在但不是管理员时提升角色
	EnsureAdmin(ctx context.Context, email, password string) (*User, bool, error)
}

type service struct {
	repo Repository
}

// NewService 创建用户服务
func NewService(repo Repository) Service {
	return &service{repo: repo}
}

// Register 用户注册
// 业务规则：
// 1. 邮箱格式校验
// 2. 密码至少6位
// 3. 密码bcrypt加密（cost=12）
// 4. 邮箱唯一性由主键保证
func (s *service) Register(ctx context.Context, email, password, displayName string) (*User, error) {
	if !IsValidEmail(email) {
		return nil, ErrInvalidEmail
	}
	if err := ValidatePassword(password); err != nil {
		return nil, err
	}
	if utf8.RuneCountInString(displayName) > 50 {
		return nil, ErrDisplayNameTooLong
	}

	hashed, err := HashPassword(password)
	if err != nil {
		return nil, err
	}

	user := NewUser(email, hashed, displayName, RoleUser)
	if err := s.repo.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Authenticate 登录校验
// 邮箱不存在和密码错误返回同一个错误，避免探测已注册邮箱
func (s *service) Authenticate(ctx context.Context, email, password string) (*User, error) {
	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, apperrors.ErrInvalidPassword
		}
		return nil, err
	}
	if err := ComparePassword(user.Password, password); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *service) ResetPassword(ctx context.Context, email, password string) error {
	if err := ValidatePassword(password); err != nil {
		return err
	}
	hashed, err := HashPassword(password)
	if err != nil {
		return err
	}
	return s.repo.UpdatePassword(ctx, email, hashed)
}

func (s *service) EnsureAdmin(ctx context.Context, email, password string) (*User, bool, error) {
	existing, err := s.repo.FindByEmail(ctx, email)
	switch {
	case err == nil:
		if existing.IsAdmin() {
			return existing, false, nil
		}
		if err := s.repo.UpdateRole(ctx, email, RoleAdmin); err != nil {
			return nil, false, err
		}
		existing.Role = RoleAdmin
		return existing, true, nil
	case !errors.Is(err, ErrUserNotFound):
		return nil, false, err
	}

	if !IsValidEmail(email) {
		return nil, false, ErrInvalidEmail
	}
	if err := ValidatePassword(password); err != nil {
		return nil, false, err
	}
	hashed, err := HashPassword(password)
	if err != nil {
		return nil, false, err
	}
	admin := NewUser(email, hashed, "管理员", RoleAdmin)
	if err := s.repo.Create(ctx, admin); err != nil {
		return nil, false, err
	}
	return admin, true, nil
}

// IsValidEmail 邮箱格式校验
func IsValidEmail(email string) bool {
	return emailPattern.MatchString(email)
}

// ValidatePassword 密码长度校验
func ValidatePassword(password string) error {
	if len(password) < 6 {
		return ErrWeakPassword
	}
	return nil
}

// HashPassword bcrypt加密
// bcrypt自动加盐，相同密码每次结果不同
func HashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), HashCost)
	if err != nil {
		return "", apperrors.Wrap(err, "密码加密失败")
	}
	return string(hashed), nil
}

// ComparePassword 校验明文密码与哈希值是否匹配
func ComparePassword(hashed, plain string) error {
	err := bcrypt.CompareHashAndPassword([]byte(hashed), []byte(plain))
	if err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return apperrors.ErrInvalidPassword
		}
		return apperrors.Wrap(err, "密码验证失败")
	}
	return nil
}
