package dto

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// FlexFloat 接受JSON数字或数字字符串（"12.5"），前端表单提交的价格常是字符串
type FlexFloat float64

func (f *FlexFloat) UnmarshalJSON(data []byte) error {
	v, err := parseFlex(data, func(s string) (float64, error) {
		return strconv.ParseFloat(s, 64)
	})
	if err != nil {
		return fmt.Errorf("价格必须是数字: %w", err)
	}
	*f = FlexFloat(v)
	return nil
}

// FlexInt 接受JSON整数或整数字符串（"3"）
type FlexInt int

func (i *FlexInt) UnmarshalJSON(data []byte) error {
	v, err := parseFlex(data, func(s string) (int, error) {
		n, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, err
		}
		if n != float64(int(n)) {
			return 0, fmt.Errorf("%s不是整数", s)
		}
		return int(n), nil
	})
	if err != nil {
		return fmt.Errorf("库存必须是整数: %w", err)
	}
	*i = FlexInt(v)
	return nil
}

func parseFlex[T any](data []byte, parse func(string) (T, error)) (T, error) {
	var zero T
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		return zero, nil
	}
	s := string(data)
	if len(data) > 0 && data[0] == '"' {
		if err := json.Unmarshal(data, &s); err != nil {
			return zero, err
		}
		s = strings.TrimSpace(s)
		if s == "" {
			return zero, nil
		}
	}
	return parse(s)
}
