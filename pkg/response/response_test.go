package response

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/xiebiao/library/pkg/errors"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func serve(t *testing.T, h gin.HandlerFunc) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	r := gin.New()
	r.GET("/x", h)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))

	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return w, body
}

// TestStatusOf 测试错误码到HTTP状态码的映射
func TestStatusOf(t *testing.T) {
	cases := map[int]int{
		apperrors.ErrCodeInsufficientStock: http.StatusBadRequest,
		apperrors.ErrCodeInvalidParams:     http.StatusBadRequest,
		apperrors.ErrCodeUnauthorized:      http.StatusUnauthorized,
		apperrors.ErrCodeTokenExpired:      http.StatusUnauthorized,
		apperrors.ErrCodeForbidden:         http.StatusForbidden,
		apperrors.ErrCodeBookNotFound:      http.StatusNotFound,
		apperrors.ErrCodeInternal:          http.StatusInternalServerError,
		apperrors.ErrCodeRedisError:        http.StatusInternalServerError,
	}
	for code, want := range cases {
		assert.Equal(t, want, StatusOf(code), "code=%d", code)
	}
}

// TestError_BusinessError 测试业务错误响应体
func TestError_BusinessError(t *testing.T) {
	w, body := serve(t, func(c *gin.Context) {
		Error(c, apperrors.New(apperrors.ErrCodeInsufficientStock, "库存不足").
			WithDetail("earliest_available_date", "2026-01-02"))
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "库存不足", body["error"])
	assert.EqualValues(t, apperrors.ErrCodeInsufficientStock, body["code"])
	assert.Equal(t, "2026-01-02", body["earliest_available_date"])
}

// TestError_PlainError 测试非AppError按500处理且不泄露内部信息
func TestError_PlainError(t *testing.T) {
	w, body := serve(t, func(c *gin.Context) {
		Error(c, errors.New("dial tcp 10.0.0.1:3306: connection refused"))
	})

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "系统内部错误", body["error"])
}

// TestSuccessWithPage 测试分页响应
func TestSuccessWithPage(t *testing.T) {
	w, body := serve(t, func(c *gin.Context) {
		SuccessWithPage(c, []int{1, 2}, 21, 1, 10)
	})

	assert.Equal(t, http.StatusOK, w.Code)
	data := body["data"].(map[string]any)
	assert.EqualValues(t, 3, data["total_pages"])
	assert.EqualValues(t, 21, data["total"])
}
