package dto

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	apperrors "github.com/xiebiao/library/pkg/errors"
)

// DateLayout 日期格式
const DateLayout = "2006-01-02"

// RegisterValidators 在gin的validator上注册自定义tag
//   - date: YYYY-MM-DD
func RegisterValidators() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return errors.New("binding validator不是validator/v10")
	}
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "" || name == "-" {
			name, _, _ = strings.Cut(f.Tag.Get("form"), ",")
		}
		if name == "-" {
			return ""
		}
		return name
	})
	return v.RegisterValidation("date", func(fl validator.FieldLevel) bool {
		s := fl.Field().String()
		if s == "" {
			return true
		}
		_, err := time.Parse(DateLayout, s)
		return err == nil
	})
}

// fieldMessages 个别字段的固定提示
var fieldMessages = map[string]string{
	"reserve_date": "预约日期格式错误",
}

// BindError 把绑定/校验错误转换为40900参数错误，提示取第一个失败字段
func BindError(err error) *apperrors.AppError {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return apperrors.ErrBindError.WithCause(err)
	}

	fe := verrs[0]
	field := fe.Field()
	if msg, ok := fieldMessages[field]; ok && fe.Tag() != "required" {
		return apperrors.InvalidParams(msg)
	}
	switch fe.Tag() {
	case "required":
		return apperrors.InvalidParams(field + "不能为空")
	case "email":
		return apperrors.InvalidParams("邮箱格式不正确")
	case "date":
		return apperrors.InvalidParams(field + "格式错误，应为YYYY-MM-DD")
	case "min", "gte":
		return apperrors.InvalidParams(fmt.Sprintf("%s不能小于%s", field, fe.Param()))
	case "max", "lte":
		return apperrors.InvalidParams(fmt.Sprintf("%s不能超过%s", field, fe.Param()))
	case "oneof":
		return apperrors.InvalidParams(fmt.Sprintf("%s可选值: %s", field, fe.Param()))
	default:
		return apperrors.InvalidParams(field + "不合法")
	}
}
