// Package mail 邮件发送
//
// 开发环境用ConsoleSender把邮件打印到日志，生产环境用SMTPSender。
// 465端口使用隐式TLS（连接建立即握手），其他端口走STARTTLS
package mail

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/base64"
	"fmt"
	"mime"
	"net"
	"net/smtp"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/xiebiao/library/internal/infrastructure/config"
	"github.com/xiebiao/library/pkg/logger"
)

// Message 一封邮件
type Message struct {
	To       string
	Subject  string
	TextBody string
	HTMLBody string // 为空时只发送纯文本
}

// Sender 邮件发送接口
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// NewSender 按配置创建发送器
func NewSender(cfg config.MailConfig) Sender {
	if cfg.Provider == "smtp" {
		return NewSMTPSender(cfg)
	}
	return &ConsoleSender{}
}

// ConsoleSender 只打印日志，不真正发送
type ConsoleSender struct{}

func (s *ConsoleSender) Send(_ context.Context, msg Message) error {
	logger.L().WithFields(logrus.Fields{
		"to":      msg.To,
		"subject": msg.Subject,
	}).Info("模拟发送邮件:\n" + msg.TextBody)
	return nil
}

// SMTPSender 通过SMTP发送
type SMTPSender struct {
	cfg config.MailConfig
}

// NewSMTPSender 创建SMTP发送器
func NewSMTPSender(cfg config.MailConfig) *SMTPSender {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	if cfg.From == "" {
		cfg.From = cfg.User
	}
	return &SMTPSender{cfg: cfg}
}

func (s *SMTPSender) Send(ctx context.Context, msg Message) error {
	addr := net.JoinHostPort(s.cfg.Host, strconv.Itoa(s.cfg.Port))

	deadline := time.Now().Add(s.cfg.Timeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}
	dialer := &net.Dialer{Deadline: deadline}

	var (
		conn net.Conn
		err  error
	)
	tlsConfig := &tls.Config{ServerName: s.cfg.Host}
	if s.cfg.SSL {
		conn, err = tls.DialWithDialer(dialer, "tcp", addr, tlsConfig)
	} else {
		conn, err = dialer.DialContext(ctx, "tcp", addr)
	}
	if err != nil {
		return fmt.Errorf("连接SMTP服务器失败: %w", err)
	}
	_ = conn.SetDeadline(deadline)

	client, err := smtp.NewClient(conn, s.cfg.Host)
	if err != nil {
		_ = conn.Close()
		return fmt.Errorf("创建SMTP会话失败: %w", err)
	}
	defer client.Close()

	if !s.cfg.SSL {
		if ok, _ := client.Extension("STARTTLS"); ok {
			if err := client.StartTLS(tlsConfig); err != nil {
				return fmt.Errorf("STARTTLS失败: %w", err)
			}
		}
	}

	if s.cfg.User != "" {
		auth := smtp.PlainAuth("", s.cfg.User, s.cfg.Password, s.cfg.Host)
		if err := client.Auth(auth); err != nil {
			return fmt.Errorf("SMTP认证失败: %w", err)
		}
	}

	if err := client.Mail(s.cfg.From); err != nil {
		return fmt.Errorf("MAIL FROM失败: %w", err)
	}
	if err := client.Rcpt(msg.To); err != nil {
		return fmt.Errorf("RCPT TO失败: %w", err)
	}
	w, err := client.Data()
	if err != nil {
		return fmt.Errorf("DATA失败: %w", err)
	}
	if _, err := w.Write(buildMessage(s.cfg.From, msg)); err != nil {
		_ = w.Close()
		return fmt.Errorf("写入邮件内容失败: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("发送邮件失败: %w", err)
	}
	return client.Quit()
}

// buildMessage 组装邮件头和正文
// 主题按RFC 2047编码，正文base64编码
func buildMessage(from string, msg Message) []byte {
	contentType := "text/plain"
	body := msg.TextBody
	if msg.HTMLBody != "" {
		contentType = "text/html"
		body = msg.HTMLBody
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, "From: %s\r\n", from)
	fmt.Fprintf(&buf, "To: %s\r\n", msg.To)
	fmt.Fprintf(&buf, "Subject: %s\r\n", mime.BEncoding.Encode("UTF-8", msg.Subject))
	fmt.Fprintf(&buf, "Date: %s\r\n", time.Now().Format(time.RFC1123Z))
	buf.WriteString("MIME-Version: 1.0\r\n")
	fmt.Fprintf(&buf, "Content-Type: %s; charset=\"UTF-8\"\r\n", contentType)
	buf.WriteString("Content-Transfer-Encoding: base64\r\n\r\n")

	encoded := base64.StdEncoding.EncodeToString([]byte(body))
	for len(encoded) > 76 {
		buf.WriteString(encoded[:76] + "\r\n")
		encoded = encoded[76:]
	}
	buf.WriteString(encoded + "\r\n")
	return buf.Bytes()
}
