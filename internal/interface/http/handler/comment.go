package handler

import (
	"github.com/gin-gonic/gin"

	appcomment "github.com/xiebiao/library/internal/application/comment"
	"github.com/xiebiao/library/internal/interface/http/dto"
	"github.com/xiebiao/library/internal/interface/http/middleware"
	"github.com/xiebiao/library/pkg/response"
)

// CommentHandler 评论和点赞
type CommentHandler struct {
	listUseCase   *appcomment.ListCommentsUseCase
	createUseCase *appcomment.CreateCommentUseCase
	likeUseCase   *appcomment.ToggleLikeUseCase
}

// NewCommentHandler 创建评论处理器
func NewCommentHandler(
	listUseCase *appcomment.ListCommentsUseCase,
	createUseCase *appcomment.CreateCommentUseCase,
	likeUseCase *appcomment.ToggleLikeUseCase,
) *CommentHandler {
	return &CommentHandler{
		listUseCase:   listUseCase,
		createUseCase: createUseCase,
		likeUseCase:   likeUseCase,
	}
}

// List 图书评论（回复挂在父评论下）
// @Summary      评论列表
// @Tags         评论
// @Produce      json
// @Param        id path string true "图书ID"
// @Success      200 {object} response.Response{data=[]appcomment.CommentView}
// @Router       /api/books/{id}/comments [get]
func (h *CommentHandler) List(c *gin.Context) {
	views, err := h.listUseCase.Execute(c.Request.Context(), c.Param("id"), middleware.GetUserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, views)
}

// Create 发表评论或回复
// @Summary      发表评论
// @Tags         评论
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id      path string                   true "图书ID"
// @Param        request body dto.CreateCommentRequest true "评论内容"
// @Success      201 {object} response.Response{data=appcomment.CommentView}
// @Failure      404 {object} response.Response "图书或父评论不存在"
// @Router       /api/books/{id}/comments [post]
func (h *CommentHandler) Create(c *gin.Context) {
	var req dto.CreateCommentRequest
	if !bindJSON(c, &req) {
		return
	}
	view, err := h.createUseCase.Execute(c.Request.Context(), appcomment.CreateCommentRequest{
		BookID:   c.Param("id"),
		UserID:   middleware.MustGetUserID(c),
		Content:  req.Content,
		ParentID: req.ParentID,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, view)
}

// ToggleLike 点赞/取消点赞
// @Summary      点赞或取消点赞
// @Tags         评论
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "评论ID"
// @Success      200 {object} response.Response{data=appcomment.ToggleLikeResponse}
// @Failure      404 {object} response.Response "评论不存在"
// @Router       /api/comments/{id}/like [post]
func (h *CommentHandler) ToggleLike(c *gin.Context) {
	result, err := h.likeUseCase.Execute(c.Request.Context(), c.Param("id"), middleware.MustGetUserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}
