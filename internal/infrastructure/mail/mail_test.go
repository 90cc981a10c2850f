package mail

import (
	"bytes"
	"context"
	"encoding/base64"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xiebiao/library/internal/infrastructure/config"
	"github.com/xiebiao/library/pkg/logger"
)

// TestVerificationCodeMessage 验证码邮件内容
func TestVerificationCodeMessage(t *testing.T) {
	msg := VerificationCodeMessage("FluxLib泛集库", "a@x.com", "123456")
	assert.Equal(t, "FluxLib泛集库注册验证码", msg.Subject)
	assert.Equal(t, "欢迎来到FluxLib泛集库，您的验证码是: 123456，5分钟内有效。", msg.TextBody)
}

// TestReservationMessage 预约确认邮件，缺失的书名作者显示"未知"
func TestReservationMessage(t *testing.T) {
	msg, err := ReservationMessage("FluxLib泛集库", "a@x.com", ReservationInfo{
		Title:              "三体",
		ReserveDate:        "2025-03-01",
		TimeSlot:           "上午",
		Days:               7,
		ExpectedReturnDate: "2025-03-08",
	})
	require.NoError(t, err)
	assert.Equal(t, "FluxLib泛集库图书预约确认", msg.Subject)
	assert.Contains(t, msg.TextBody, "书名: 三体")
	assert.Contains(t, msg.TextBody, "作者: 未知")
	assert.Contains(t, msg.TextBody, "预计归还日期: 2025-03-08")
}

// TestBuildMessage 主题编码、正文base64
func TestBuildMessage(t *testing.T) {
	raw := string(buildMessage("lib@x.com", Message{To: "a@x.com", Subject: "验证码", TextBody: "你好"}))

	assert.Contains(t, raw, "From: lib@x.com\r\n")
	assert.Contains(t, raw, "To: a@x.com\r\n")
	assert.Contains(t, raw, "Subject: =?UTF-8?b?")
	assert.Contains(t, raw, "Content-Type: text/plain")

	_, body, ok := strings.Cut(raw, "\r\n\r\n")
	require.True(t, ok)
	decoded, err := base64.StdEncoding.DecodeString(strings.TrimSpace(body))
	require.NoError(t, err)
	assert.Equal(t, "你好", string(decoded))
}

// TestNewSender 按provider选择实现
func TestNewSender(t *testing.T) {
	assert.IsType(t, &ConsoleSender{}, NewSender(config.MailConfig{Provider: "console"}))
	assert.IsType(t, &SMTPSender{}, NewSender(config.MailConfig{Provider: "smtp", Host: "smtp.qq.com", Port: 465}))
}

// TestConsoleSender 邮件内容写入日志
func TestConsoleSender(t *testing.T) {
	var buf bytes.Buffer
	logger.SetOutput(&buf)
	t.Cleanup(func() { logger.Init("info", "text") })

	err := (&ConsoleSender{}).Send(context.Background(), Message{To: "a@x.com", Subject: "s", TextBody: "body-123"})
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "body-123")
	assert.Contains(t, buf.String(), "a@x.com")
}
