package app

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xiebiao/library/internal/infrastructure/config"
	"github.com/xiebiao/library/internal/infrastructure/persistence/database"
)

const testAdminCode = "ADMIN-CODE"

// newTestApp 内存SQLite + miniredis组装完整应用
func newTestApp(t *testing.T) *App {
	t.Helper()
	mr := miniredis.RunT(t)
	port, err := strconv.Atoi(mr.Port())
	require.NoError(t, err)

	cfg := config.Default()
	cfg.Server.Mode = "test"
	cfg.Database.Driver = "sqlite"
	cfg.Database.SQLitePath = ":memory:"
	cfg.Redis.Host = mr.Host()
	cfg.Redis.Port = port
	cfg.Admin.Code = testAdminCode
	cfg.Metrics.Enabled = false
	cfg.Mail.Provider = "console"

	a, cleanup, err := New(cfg)
	require.NoError(t, err)
	t.Cleanup(cleanup)
	return a
}

type apiResult struct {
	Status int
	Body   map[string]any
}

func (r apiResult) data() map[string]any {
	d, _ := r.Body["data"].(map[string]any)
	return d
}

func call(t *testing.T, a *App, method, path, token string, body any) apiResult {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	a.Engine.ServeHTTP(w, req)

	res := apiResult{Status: w.Code}
	if w.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res.Body), w.Body.String())
	}
	return res
}

// registerAndLogin 发验证码 → 从库里取码 → 注册 → 登录，返回access token
func registerAndLogin(t *testing.T, a *App, email, adminCode string) string {
	t.Helper()
	res := call(t, a, http.MethodPost, "/api/send-verification-code", "", map[string]any{"email": email})
	require.Equal(t, http.StatusOK, res.Status, res.Body)

	code, err := database.NewVerificationRepository(a.DB).Get(context.Background(), email)
	require.NoError(t, err)

	res = call(t, a, http.MethodPost, "/api/register", "", map[string]any{
		"email":    email,
		"password": "secret123",
		"code":     code.Code,
	})
	require.Equal(t, http.StatusCreated, res.Status, res.Body)

	res = call(t, a, http.MethodPost, "/api/login", "", map[string]any{
		"email":      email,
		"password":   "secret123",
		"admin_code": adminCode,
	})
	require.Equal(t, http.StatusOK, res.Status, res.Body)
	token, _ := res.data()["access_token"].(string)
	require.NotEmpty(t, token)
	return token
}

func createBook(t *testing.T, a *App, adminToken string, stock int) string {
	t.Helper()
	res := call(t, a, http.MethodPost, "/api/books", adminToken, map[string]any{
		"title":    "三体",
		"author":   "刘慈欣",
		"category": "科幻",
		"price":    "23.5",
		"stock":    stock,
	})
	require.Equal(t, http.StatusCreated, res.Status, res.Body)
	id, _ := res.data()["book_id"].(string)
	require.NotEmpty(t, id)
	return id
}

// TestLendingFlow 注册登录 → 管理员上架 → 借阅 → 重复借阅被拒 → 归还 → 再借
func TestLendingFlow(t *testing.T) {
	a := newTestApp(t)

	admin := registerAndLogin(t, a, "admin@example.com", testAdminCode)
	reader := registerAndLogin(t, a, "reader@example.com", "")

	// 普通用户不能上架
	res := call(t, a, http.MethodPost, "/api/books", reader, map[string]any{"title": "x", "stock": 1})
	assert.Equal(t, http.StatusForbidden, res.Status)

	bookID := createBook(t, a, admin, 1)

	res = call(t, a, http.MethodPost, "/api/books/"+bookID+"/borrow", reader, map[string]any{"days": 14})
	require.Equal(t, http.StatusOK, res.Status, res.Body)
	assert.NotEmpty(t, res.data()["borrow_id"])

	res = call(t, a, http.MethodGet, "/api/books/"+bookID, "", nil)
	require.Equal(t, http.StatusOK, res.Status)
	assert.EqualValues(t, 0, res.data()["stock"])
	assert.Equal(t, "borrowed", res.data()["status"])

	// 最后一本已被自己借走：提示重复借阅而不是库存不足
	res = call(t, a, http.MethodPost, "/api/books/"+bookID+"/borrow", reader, nil)
	assert.Equal(t, http.StatusBadRequest, res.Status)
	assert.EqualValues(t, 40004, res.Body["code"])
	assert.Equal(t, "您已借阅该图书，无法重复借阅", res.Body["error"])

	res = call(t, a, http.MethodPost, "/api/books/"+bookID+"/return", reader, nil)
	require.Equal(t, http.StatusOK, res.Status, res.Body)

	res = call(t, a, http.MethodGet, "/api/books/"+bookID, "", nil)
	require.Equal(t, http.StatusOK, res.Status)
	assert.EqualValues(t, 1, res.data()["stock"])
	assert.Equal(t, "available", res.data()["status"])

	res = call(t, a, http.MethodPost, "/api/books/"+bookID+"/borrow", reader, nil)
	assert.Equal(t, http.StatusOK, res.Status, res.Body)

	res = call(t, a, http.MethodGet, "/api/user/borrows", reader, nil)
	require.Equal(t, http.StatusOK, res.Status)
}

// TestConcurrentBorrow 库存为1时并发借阅只有一个成功
func TestConcurrentBorrow(t *testing.T) {
	a := newTestApp(t)
	admin := registerAndLogin(t, a, "admin@example.com", testAdminCode)
	bookID := createBook(t, a, admin, 1)

	const readers = 5
	tokens := make([]string, readers)
	for i := range tokens {
		tokens[i] = registerAndLogin(t, a, fmt.Sprintf("reader%d@example.com", i), "")
	}

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		success int
	)
	for _, token := range tokens {
		wg.Add(1)
		go func(token string) {
			defer wg.Done()
			req := httptest.NewRequest(http.MethodPost, "/api/books/"+bookID+"/borrow", nil)
			req.Header.Set("Authorization", "Bearer "+token)
			w := httptest.NewRecorder()
			a.Engine.ServeHTTP(w, req)
			if w.Code == http.StatusOK {
				mu.Lock()
				success++
				mu.Unlock()
			}
		}(token)
	}
	wg.Wait()

	assert.Equal(t, 1, success)
	res := call(t, a, http.MethodGet, "/api/books/"+bookID, "", nil)
	assert.EqualValues(t, 0, res.data()["stock"])
}

// TestAuthSession 登出后Token和Refresh Token都失效
func TestAuthSession(t *testing.T) {
	a := newTestApp(t)
	registerAndLogin(t, a, "reader@example.com", "")

	res := call(t, a, http.MethodPost, "/api/login", "", map[string]any{"email": "reader@example.com", "password": "secret123"})
	require.Equal(t, http.StatusOK, res.Status)
	access := res.data()["access_token"].(string)
	refresh := res.data()["refresh_token"].(string)

	res = call(t, a, http.MethodGet, "/api/user/current", access, nil)
	require.Equal(t, http.StatusOK, res.Status)
	assert.Equal(t, "reader@example.com", res.data()["email"])
	assert.Equal(t, false, res.data()["is_admin"])

	res = call(t, a, http.MethodPost, "/api/refresh-token", "", map[string]any{"refresh_token": refresh})
	require.Equal(t, http.StatusOK, res.Status, res.Body)

	res = call(t, a, http.MethodPost, "/api/logout", access, nil)
	require.Equal(t, http.StatusOK, res.Status)

	res = call(t, a, http.MethodGet, "/api/user/current", access, nil)
	assert.Equal(t, http.StatusUnauthorized, res.Status)

	res = call(t, a, http.MethodPost, "/api/refresh-token", "", map[string]any{"refresh_token": refresh})
	assert.Equal(t, http.StatusUnauthorized, res.Status)
}

// TestReserveWithBadDate 预约日期格式错误返回400和固定提示
func TestReserveWithBadDate(t *testing.T) {
	a := newTestApp(t)
	admin := registerAndLogin(t, a, "admin@example.com", testAdminCode)
	bookID := createBook(t, a, admin, 1)

	res := call(t, a, http.MethodPost, "/api/books/"+bookID+"/reserve", admin, map[string]any{
		"reserve_date": "2026/01/01",
		"time_slot":    "上午",
	})
	assert.Equal(t, http.StatusBadRequest, res.Status)
	assert.Equal(t, "预约日期格式错误", res.Body["error"])
}

// TestHealth 依赖都正常时返回ok
func TestHealth(t *testing.T) {
	a := newTestApp(t)

	res := call(t, a, http.MethodGet, "/health", "", nil)
	require.Equal(t, http.StatusOK, res.Status)
	assert.Equal(t, "ok", res.Body["status"])

	res = call(t, a, http.MethodGet, "/ping", "", nil)
	assert.Equal(t, "pong", res.Body["message"])
}
