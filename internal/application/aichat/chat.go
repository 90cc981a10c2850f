// Package aichat 图书馆AI助手
//
// 每次对话把馆藏清单和借阅规则拼进系统提示词，再调用对话模型。
// 模型不可用（未配置、超时、熔断）时返回固定的降级回复，HTTP仍然是200。
package aichat

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/sirupsen/logrus"

	"github.com/xiebiao/library/internal/domain/book"
	"github.com/xiebiao/library/internal/infrastructure/llm"
	apperrors "github.com/xiebiao/library/pkg/errors"
	"github.com/xiebiao/library/pkg/logger"
)

const (
	defaultMaxBooks   = 1000
	descriptionRunes  = 200
	maxHistoryTurns   = 10
	maxMessageRunes   = 2000
	catalogPageSize   = 100
	fallbackReply     = "抱歉，我现在遇到了一些技术问题，请稍后再试。"
	fallbackTimeout   = "请求超时，请稍后再试。"
	assistantIdentity = "图书馆助手"
)

// ErrEmptyMessage 消息为空
var ErrEmptyMessage = apperrors.InvalidParams("消息不能为空")

// ErrMessageTooLong 消息过长
var ErrMessageTooLong = apperrors.InvalidParams(fmt.Sprintf("消息长度不能超过%d个字符", maxMessageRunes))

// ChatUseCase AI对话
type ChatUseCase struct {
	bookRepo book.Repository
	model    llm.ChatModel
	maxBooks int
	now      func() time.Time
}

// NewChatUseCase maxBooks<=0时取1000
func NewChatUseCase(bookRepo book.Repository, model llm.ChatModel, maxBooks int) *ChatUseCase {
	if maxBooks <= 0 {
		maxBooks = defaultMaxBooks
	}
	return &ChatUseCase{bookRepo: bookRepo, model: model, maxBooks: maxBooks, now: time.Now}
}

// Turn 前端保留的历史对话
type Turn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatRequest 对话请求
type ChatRequest struct {
	UserID  string
	Message string
	History []Turn
}

// ChatResponse 对话响应
type ChatResponse struct {
	Reply    string `json:"reply"`
	Fallback bool   `json:"fallback"`
}

// catalogEntry 提示词中的图书条目
type catalogEntry struct {
	Title       string `json:"title"`
	Author      string `json:"author"`
	Category    string `json:"category"`
	Description string `json:"description"`
	Status      string `json:"status"`
	Stock       int    `json:"stock"`
}

// Execute 执行一次对话
func (uc *ChatUseCase) Execute(ctx context.Context, req ChatRequest) (*ChatResponse, error) {
	message := strings.TrimSpace(req.Message)
	if message == "" {
		return nil, ErrEmptyMessage
	}
	if utf8.RuneCountInString(message) > maxMessageRunes {
		return nil, ErrMessageTooLong
	}

	catalog, err := uc.catalog(ctx)
	if err != nil {
		// 馆藏读取失败时仍然可以回答规则类问题
		logger.L().WithError(err).Warn("读取馆藏失败，提示词中不含图书列表")
	}

	messages := []llm.Message{{Role: llm.RoleSystem, Content: uc.systemPrompt(catalog)}}
	messages = append(messages, historyMessages(req.History)...)
	messages = append(messages, llm.Message{Role: llm.RoleUser, Content: message})

	reply, err := uc.model.Complete(ctx, messages)
	if err != nil {
		logger.L().WithFields(logrus.Fields{
			"user_id": req.UserID,
		}).WithError(err).Warn("AI对话失败，返回降级回复")
		return &ChatResponse{Reply: fallbackFor(err), Fallback: true}, nil
	}
	return &ChatResponse{Reply: reply}, nil
}

func (uc *ChatUseCase) catalog(ctx context.Context) ([]catalogEntry, error) {
	entries := make([]catalogEntry, 0, catalogPageSize)
	for page := 1; len(entries) < uc.maxBooks; page++ {
		books, total, err := uc.bookRepo.List(ctx, book.ListParams{Page: page, PageSize: catalogPageSize})
		if err != nil {
			return entries, err
		}
		for _, b := range books {
			if len(entries) >= uc.maxBooks {
				break
			}
			entries = append(entries, catalogEntry{
				Title:       b.Title,
				Author:      b.Author,
				Category:    b.Category,
				Description: truncate(b.Description, descriptionRunes),
				Status:      string(b.Status),
				Stock:       b.Stock,
			})
		}
		if len(books) < catalogPageSize || int64(page*catalogPageSize) >= total {
			break
		}
	}
	return entries, nil
}

func (uc *ChatUseCase) systemPrompt(catalog []catalogEntry) string {
	data, err := json.MarshalIndent(catalog, "", "  ")
	if err != nil {
		data = []byte("[]")
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "你是一个图书管理AI助手，名为\"%s\"。请根据以下图书信息回答用户问题：\n", assistantIdentity)
	sb.WriteString("可用图书列表:\n")
	sb.Write(data)
	sb.WriteString(`
请遵循以下规则:
1. 只能推荐上述列表中的图书，不能编造不存在的图书
2. 对于图书内容相关问题，基于图书描述信息回答
3. 图书馆运营时间: 周一至周五 9:00-21:00, 周末 10:00-18:00
4. 借阅规则: 每次最多借阅5本，借期30天，可续借一次
5. 保持友好、专业的语气
6. 如果问题与图书无关，礼貌地表示你专注于图书相关问题
7. 回答要简洁明了，突出重点信息
`)
	fmt.Fprintf(&sb, "当前时间: %s\n", uc.now().Format("2006-01-02 15:04:05"))
	return sb.String()
}

// historyMessages 只保留最近几轮user/assistant消息
func historyMessages(history []Turn) []llm.Message {
	if len(history) > maxHistoryTurns {
		history = history[len(history)-maxHistoryTurns:]
	}
	out := make([]llm.Message, 0, len(history))
	for _, t := range history {
		role := llm.Role(t.Role)
		if role != llm.RoleUser && role != llm.RoleAssistant {
			continue
		}
		if content := strings.TrimSpace(t.Content); content != "" {
			out = append(out, llm.Message{Role: role, Content: content})
		}
	}
	return out
}

func fallbackFor(err error) string {
	if errors.Is(err, context.DeadlineExceeded) {
		return fallbackTimeout
	}
	return fallbackReply
}

func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n]) + "..."
}
