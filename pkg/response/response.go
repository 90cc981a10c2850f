package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	apperrors "github.com/xiebiao/library/pkg/errors"
	"github.com/xiebiao/library/pkg/logger"
)

// Response 成功响应结构
// Code恒为0，Data为业务数据
type Response struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// Success 成功响应
func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{
		Code:    0,
		Message: "success",
		Data:    data,
	})
}

// Created 创建成功响应（201）
func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, Response{
		Code:    0,
		Message: "success",
		Data:    data,
	})
}

// Error 错误响应
//
// 响应体格式：{"code": 40001, "error": "库存不足"}
// HTTP状态码由业务错误码区间决定，见StatusOf
// 内部错误只记录日志，客户端看到的是AppError.Message
func Error(c *gin.Context, err error) {
	appErr := apperrors.GetAppError(err)
	status := StatusOf(appErr.Code)

	if appErr.Err != nil || status >= http.StatusInternalServerError {
		logger.L().WithFields(logrus.Fields{
			"code":       appErr.Code,
			"method":     c.Request.Method,
			"path":       c.Request.URL.Path,
			"request_id": c.GetString("request_id"),
		}).WithError(err).Error("请求处理失败")
	}

	body := gin.H{
		"code":  appErr.Code,
		"error": appErr.Message,
	}
	for k, v := range appErr.Details {
		body[k] = v
	}
	c.JSON(status, body)
}

// ErrorWithCode 自定义错误码和消息
func ErrorWithCode(c *gin.Context, code int, message string) {
	Error(c, apperrors.New(code, message))
}

// AbortWithError 写入错误响应并终止后续中间件
func AbortWithError(c *gin.Context, err error) {
	Error(c, err)
	c.Abort()
}

// StatusOf 业务错误码 → HTTP状态码
//
//	400xx、409xx → 400
//	40104       → 403
//	401xx       → 401
//	404xx       → 404
//	其他        → 500
func StatusOf(code int) int {
	switch {
	case code == apperrors.ErrCodeForbidden:
		return http.StatusForbidden
	case code >= 40100 && code < 40200:
		return http.StatusUnauthorized
	case code >= 40400 && code < 40500:
		return http.StatusNotFound
	case code >= 40000 && code < 40100, code >= 40900 && code < 41000:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// =========================================
// 分页响应结构
// =========================================

// PageData 分页数据封装
type PageData struct {
	List       interface{} `json:"list"`
	Total      int64       `json:"total"`
	Page       int         `json:"page"`
	PageSize   int         `json:"page_size"`
	TotalPages int         `json:"total_pages"`
}

// NewPageData 创建分页数据
func NewPageData(list interface{}, total int64, page, pageSize int) *PageData {
	totalPages := 0
	if pageSize > 0 {
		totalPages = int(total) / pageSize
		if int(total)%pageSize != 0 {
			totalPages++
		}
	}

	return &PageData{
		List:       list,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages,
	}
}

// SuccessWithPage 分页成功响应
func SuccessWithPage(c *gin.Context, list interface{}, total int64, page, pageSize int) {
	Success(c, NewPageData(list, total, page, pageSize))
}
