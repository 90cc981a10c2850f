package handler

import (
	"github.com/gin-gonic/gin"

	appaichat "github.com/xiebiao/library/internal/application/aichat"
	"github.com/xiebiao/library/internal/interface/http/dto"
	"github.com/xiebiao/library/internal/interface/http/middleware"
	"github.com/xiebiao/library/pkg/response"
)

// ChatHandler AI图书助手
type ChatHandler struct {
	chatUseCase *appaichat.ChatUseCase
}

// NewChatHandler 创建AI对话处理器
func NewChatHandler(chatUseCase *appaichat.ChatUseCase) *ChatHandler {
	return &ChatHandler{chatUseCase: chatUseCase}
}

// Chat AI对话
// @Summary      AI图书助手
// @Description  模型不可用时返回200和fallback=true的兜底回复
// @Tags         AI
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body dto.ChatRequest true "对话内容"
// @Success      200 {object} response.Response{data=appaichat.ChatResponse}
// @Failure      400 {object} response.Response "消息为空或过长"
// @Router       /api/ai/chat [post]
func (h *ChatHandler) Chat(c *gin.Context) {
	var req dto.ChatRequest
	if !bindJSON(c, &req) {
		return
	}
	history := make([]appaichat.Turn, 0, len(req.History))
	for _, t := range req.History {
		history = append(history, appaichat.Turn{Role: t.Role, Content: t.Content})
	}
	resp, err := h.chatUseCase.Execute(c.Request.Context(), appaichat.ChatRequest{
		UserID:  middleware.GetUserID(c),
		Message: req.Message,
		History: history,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, resp)
}
