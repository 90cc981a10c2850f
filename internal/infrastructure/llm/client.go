// Package llm OpenAI兼容的对话接口（默认DeepSeek）
package llm

import (
	"context"
	"errors"
	"net/http"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"github.com/sirupsen/logrus"

	"github.com/xiebiao/library/internal/infrastructure/config"
	"github.com/xiebiao/library/pkg/circuitbreaker"
	"github.com/xiebiao/library/pkg/logger"
)

// Role 消息角色
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message 一条对话消息
type Message struct {
	Role    Role
	Content string
}

// ErrEmptyReply 模型没有返回内容
var ErrEmptyReply = errors.New("模型返回内容为空")

// ErrNotConfigured 未配置API Key
var ErrNotConfigured = errors.New("AI服务未配置")

// ChatModel 对话模型
type ChatModel interface {
	Complete(ctx context.Context, messages []Message) (string, error)
}

// Client go-openai实现，外层套熔断器
type Client struct {
	api         *openai.Client
	model       string
	temperature float32
	maxTokens   int
	timeout     time.Duration
	breaker     *circuitbreaker.CircuitBreaker
}

// NewClient 创建对话客户端
func NewClient(cfg config.AIConfig) *Client {
	oc := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		oc.BaseURL = cfg.BaseURL
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	oc.HTTPClient = &http.Client{Timeout: timeout}

	var api *openai.Client
	if cfg.APIKey != "" {
		api = openai.NewClientWithConfig(oc)
	}
	return &Client{
		api:         api,
		model:       cfg.Model,
		temperature: cfg.Temperature,
		maxTokens:   cfg.MaxTokens,
		timeout:     timeout,
		breaker:     circuitbreaker.New("llm", circuitbreaker.DefaultConfig()),
	}
}

// Complete 发送对话请求，返回助手回复
// 熔断器打开时直接返回circuitbreaker.ErrOpenState
func (c *Client) Complete(ctx context.Context, messages []Message) (string, error) {
	if c.api == nil {
		return "", ErrNotConfigured
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req := openai.ChatCompletionRequest{
		Model:       c.model,
		Temperature: c.temperature,
		MaxTokens:   c.maxTokens,
		Messages:    make([]openai.ChatCompletionMessage, 0, len(messages)),
	}
	for _, m := range messages {
		req.Messages = append(req.Messages, openai.ChatCompletionMessage{Role: string(m.Role), Content: m.Content})
	}

	var reply string
	start := time.Now()
	err := c.breaker.Do(ctx, func(ctx context.Context) error {
		resp, err := c.api.CreateChatCompletion(ctx, req)
		if err != nil {
			return err
		}
		if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
			return ErrEmptyReply
		}
		reply = resp.Choices[0].Message.Content
		return nil
	})

	entry := logger.L().WithFields(logrus.Fields{
		"model":    c.model,
		"messages": len(messages),
		"latency":  time.Since(start).String(),
	})
	if err != nil {
		entry.WithError(err).Warn("AI对话请求失败")
		return "", err
	}
	entry.Debug("AI对话请求完成")
	return reply, nil
}

// BreakerState 熔断器当前状态
func (c *Client) BreakerState() circuitbreaker.State {
	return c.breaker.State()
}
