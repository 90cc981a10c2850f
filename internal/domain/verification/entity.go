package verification

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"time"
)

// Type 验证码用途
type Type string

const (
	TypeRegister      Type = "register"
	TypeResetPassword Type = "reset_password"
)

// Valid 是否为合法用途
func (t Type) Valid() bool {
	return t == TypeRegister || t == TypeResetPassword
}

// TTL 验证码有效期
const TTL = 5 * time.Minute

// ResendInterval 同一邮箱两次发送的最小间隔
const ResendInterval = 60 * time.Second

// Code 验证码，每个邮箱同时只有一个
type Code struct {
	Email      string
	Code       string
	Type       Type
	ExpireTime int64 // unix秒
}

// NewCode 生成6位数字验证码
func NewCode(email string, typ Type, now time.Time) (*Code, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return nil, err
	}
	return &Code{
		Email:      email,
		Code:       fmt.Sprintf("%06d", n.Int64()),
		Type:       typ,
		ExpireTime: now.Add(TTL).Unix(),
	}, nil
}

// Check 校验用途、验证码与有效期
func (c *Code) Check(code string, typ Type, now time.Time) error {
	if c.Type != typ {
		return ErrTypeMismatch
	}
	if c.Code != code {
		return ErrCodeMismatch
	}
	if now.Unix() > c.ExpireTime {
		return ErrCodeExpired
	}
	return nil
}
