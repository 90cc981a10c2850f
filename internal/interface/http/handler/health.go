package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// HealthCheck 单项依赖检查
type HealthCheck func(ctx context.Context) error

// HealthHandler 健康检查
type HealthHandler struct {
	checks map[string]HealthCheck
}

// NewHealthHandler 创建健康检查处理器，checks的key为依赖名（database、redis）
func NewHealthHandler(checks map[string]HealthCheck) *HealthHandler {
	return &HealthHandler{checks: checks}
}

// Health 健康检查
// @Summary      健康检查
// @Description  所有依赖正常时status=ok，否则503和status=degraded
// @Tags         系统
// @Produce      json
// @Success      200 {object} map[string]interface{}
// @Failure      503 {object} map[string]interface{}
// @Router       /health [get]
func (h *HealthHandler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
	defer cancel()

	status := "ok"
	results := make(map[string]string, len(h.checks))
	for name, check := range h.checks {
		if err := check(ctx); err != nil {
			results[name] = err.Error()
			status = "degraded"
			continue
		}
		results[name] = "ok"
	}

	code := http.StatusOK
	if status != "ok" {
		code = http.StatusServiceUnavailable
	}
	c.JSON(code, gin.H{
		"status": status,
		"checks": results,
		"time":   time.Now().Unix(),
	})
}

// Ping 存活探针
// @Summary      存活探针
// @Tags         系统
// @Produce      json
// @Success      200 {object} map[string]interface{}
// @Router       /ping [get]
func (h *HealthHandler) Ping(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "pong"})
}
