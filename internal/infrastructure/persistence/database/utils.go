package database

import (
	apperrors "github.com/xiebiao/library/pkg/errors"
)

// setIf 指针非nil时写入patch
func setIf[V any](patch map[string]any, column string, v *V) {
	if v != nil {
		patch[column] = *v
	}
}

// strPtr 用于ActiveKey这类可空唯一列
func strPtr(s string) *string {
	return &s
}

// uniqueStrings 去重并保持顺序
func uniqueStrings(in []string) []string {
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}

func errDuplicate(msg string) error {
	return apperrors.New(apperrors.ErrCodeDuplicateEntry, msg)
}
