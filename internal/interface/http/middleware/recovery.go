package middleware

import (
	"runtime/debug"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	apperrors "github.com/xiebiao/library/pkg/errors"
	"github.com/xiebiao/library/pkg/logger"
	"github.com/xiebiao/library/pkg/response"
)

// Recovery 捕获Handler中的panic，记录堆栈并返回500
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				logger.L().WithFields(logrus.Fields{
					"request_id": c.GetString("request_id"),
					"path":       c.Request.URL.Path,
					"panic":      r,
					"stack":      string(debug.Stack()),
				}).Error("请求处理发生panic")
				response.AbortWithError(c, apperrors.ErrInternal)
			}
		}()
		c.Next()
	}
}
