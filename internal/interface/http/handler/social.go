package handler

import (
	"github.com/gin-gonic/gin"

	appannouncement "github.com/xiebiao/library/internal/application/announcement"
	appfavorite "github.com/xiebiao/library/internal/application/favorite"
	apphistory "github.com/xiebiao/library/internal/application/history"
	"github.com/xiebiao/library/internal/interface/http/dto"
	"github.com/xiebiao/library/internal/interface/http/middleware"
	"github.com/xiebiao/library/pkg/response"
)

// FavoriteHandler 收藏
type FavoriteHandler struct {
	useCase *appfavorite.UseCase
}

// NewFavoriteHandler 创建收藏处理器
func NewFavoriteHandler(useCase *appfavorite.UseCase) *FavoriteHandler {
	return &FavoriteHandler{useCase: useCase}
}

// List 我的收藏
// @Summary      我的收藏
// @Tags         收藏
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} response.Response{data=[]appfavorite.Item}
// @Router       /api/favorites [get]
func (h *FavoriteHandler) List(c *gin.Context) {
	items, err := h.useCase.List(c.Request.Context(), middleware.MustGetUserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, items)
}

// Add 收藏图书
// @Summary      收藏图书
// @Tags         收藏
// @Produce      json
// @Security     BearerAuth
// @Param        book_id path string true "图书ID"
// @Success      200 {object} response.Response
// @Failure      400 {object} response.Response "已收藏"
// @Router       /api/favorites/{book_id} [post]
func (h *FavoriteHandler) Add(c *gin.Context) {
	fav, err := h.useCase.Add(c.Request.Context(), middleware.MustGetUserID(c), c.Param("book_id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, gin.H{"favorite_id": fav.ID, "book_id": fav.BookID})
}

// Remove 取消收藏
// @Summary      取消收藏
// @Tags         收藏
// @Produce      json
// @Security     BearerAuth
// @Param        book_id path string true "图书ID"
// @Success      200 {object} response.Response
// @Router       /api/favorites/{book_id} [delete]
func (h *FavoriteHandler) Remove(c *gin.Context) {
	if err := h.useCase.Remove(c.Request.Context(), middleware.MustGetUserID(c), c.Param("book_id")); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

// Check 是否已收藏
// @Summary      是否已收藏
// @Tags         收藏
// @Produce      json
// @Security     BearerAuth
// @Param        book_id path string true "图书ID"
// @Success      200 {object} response.Response
// @Router       /api/favorites/{book_id}/check [get]
func (h *FavoriteHandler) Check(c *gin.Context) {
	ok, err := h.useCase.Check(c.Request.Context(), middleware.MustGetUserID(c), c.Param("book_id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, gin.H{"is_favorite": ok})
}

// HistoryHandler 浏览历史
type HistoryHandler struct {
	useCase *apphistory.UseCase
}

// NewHistoryHandler 创建浏览历史处理器
func NewHistoryHandler(useCase *apphistory.UseCase) *HistoryHandler {
	return &HistoryHandler{useCase: useCase}
}

// List 浏览历史，按最近浏览排序
// @Summary      浏览历史
// @Tags         浏览历史
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} response.Response{data=[]apphistory.Item}
// @Router       /api/history [get]
func (h *HistoryHandler) List(c *gin.Context) {
	items, err := h.useCase.List(c.Request.Context(), middleware.MustGetUserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, items)
}

// AnnouncementHandler 公告
type AnnouncementHandler struct {
	useCase *appannouncement.UseCase
}

// NewAnnouncementHandler 创建公告处理器
func NewAnnouncementHandler(useCase *appannouncement.UseCase) *AnnouncementHandler {
	return &AnnouncementHandler{useCase: useCase}
}

// List 公告列表
// @Summary      公告列表
// @Tags         公告
// @Produce      json
// @Success      200 {object} response.Response{data=[]appannouncement.View}
// @Router       /api/announcements [get]
func (h *AnnouncementHandler) List(c *gin.Context) {
	views, err := h.useCase.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, views)
}

// Create 发布公告
// @Summary      发布公告
// @Tags         公告
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body dto.CreateAnnouncementRequest true "公告"
// @Success      201 {object} response.Response{data=appannouncement.View}
// @Failure      403 {object} response.Response "需要管理员权限"
// @Router       /api/announcements [post]
func (h *AnnouncementHandler) Create(c *gin.Context) {
	var req dto.CreateAnnouncementRequest
	if !bindJSON(c, &req) {
		return
	}
	view, err := h.useCase.Create(c.Request.Context(), req.Title, req.Content)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, view)
}

// Delete 删除公告
// @Summary      删除公告
// @Tags         公告
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "公告ID"
// @Success      200 {object} response.Response
// @Failure      404 {object} response.Response "公告不存在"
// @Router       /api/announcements/{id} [delete]
func (h *AnnouncementHandler) Delete(c *gin.Context) {
	if err := h.useCase.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}
