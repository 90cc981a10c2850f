// Package handler HTTP处理器
//
// Handler只负责HTTP相关的事情：解析请求、取当前用户、调用应用层、返回响应。
// 业务规则在domain和application层。
package handler

import (
	"errors"
	"io"

	"github.com/gin-gonic/gin"

	"github.com/xiebiao/library/internal/interface/http/dto"
	"github.com/xiebiao/library/pkg/response"
)

// bindJSON 绑定并校验JSON请求体，失败时已写入400响应
func bindJSON(c *gin.Context, obj interface{}) bool {
	if err := c.ShouldBindJSON(obj); err != nil {
		response.Error(c, dto.BindError(err))
		return false
	}
	return true
}

// bindQuery 绑定并校验查询参数
func bindQuery(c *gin.Context, obj interface{}) bool {
	if err := c.ShouldBindQuery(obj); err != nil {
		response.Error(c, dto.BindError(err))
		return false
	}
	return true
}

// bindOptionalJSON 请求体可以为空（借阅天数、提前归还等）
func bindOptionalJSON(c *gin.Context, obj interface{}) bool {
	if err := c.ShouldBindJSON(obj); err != nil && !errors.Is(err, io.EOF) {
		response.Error(c, dto.BindError(err))
		return false
	}
	return true
}
