package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/xiebiao/library/pkg/logger"
	"github.com/xiebiao/library/pkg/tracing"
)

// slowRequestThreshold 慢请求阈值
const slowRequestThreshold = 3 * time.Second

// RequestIDHeader 请求ID响应头
const RequestIDHeader = "X-Request-ID"

// Logger 访问日志
// 生成请求ID（客户端传入时沿用），请求结束后记录方法、路径、状态码、耗时和客户端IP
func Logger() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(RequestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Set("request_id", requestID)
		c.Header(RequestIDHeader, requestID)

		start := time.Now()
		c.Next()
		latency := time.Since(start)

		fields := logrus.Fields{
			"request_id": requestID,
			"method":     c.Request.Method,
			"path":       c.Request.URL.Path,
			"status":     c.Writer.Status(),
			"latency":    latency.String(),
			"client_ip":  c.ClientIP(),
		}
		if userID := GetUserID(c); userID != "" {
			fields["user_id"] = userID
		}
		if traceID := tracing.ExtractTraceID(c.Request.Context()); traceID != "" {
			fields["trace_id"] = traceID
		}
		entry := logger.L().WithFields(fields)
		if len(c.Errors) > 0 {
			entry = entry.WithField("errors", c.Errors.String())
		}

		switch {
		case latency > slowRequestThreshold:
			entry.Warn("慢请求")
		case c.Writer.Status() >= 500:
			entry.Error("请求失败")
		default:
			entry.Info("请求完成")
		}
	}
}
