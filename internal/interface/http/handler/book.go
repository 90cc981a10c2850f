package handler

import (
	"github.com/gin-gonic/gin"

	appbook "github.com/xiebiao/library/internal/application/book"
	"github.com/xiebiao/library/internal/interface/http/dto"
	"github.com/xiebiao/library/internal/interface/http/middleware"
	"github.com/xiebiao/library/pkg/response"
)

// BookHandler 图书HTTP处理器
type BookHandler struct {
	listUseCase   *appbook.ListBooksUseCase
	getUseCase    *appbook.GetBookUseCase
	manageUseCase *appbook.ManageBookUseCase
	coverUseCase  *appbook.CoverUploadUseCase
}

// NewBookHandler 创建图书处理器
func NewBookHandler(
	listUseCase *appbook.ListBooksUseCase,
	getUseCase *appbook.GetBookUseCase,
	manageUseCase *appbook.ManageBookUseCase,
	coverUseCase *appbook.CoverUploadUseCase,
) *BookHandler {
	return &BookHandler{
		listUseCase:   listUseCase,
		getUseCase:    getUseCase,
		manageUseCase: manageUseCase,
		coverUseCase:  coverUseCase,
	}
}

// ListBooks 图书列表
// @Summary      图书列表
// @Description  分页查询，支持分类和关键词（书名/作者）过滤
// @Tags         图书
// @Produce      json
// @Param        page      query int    false "页码，默认1"
// @Param        size      query int    false "每页数量，默认20，最大100"
// @Param        category  query string false "分类"
// @Param        keyword   query string false "关键词"
// @Success      200 {object} response.Response{data=response.PageData{list=[]appbook.BookView}}
// @Router       /api/books [get]
func (h *BookHandler) ListBooks(c *gin.Context) {
	var q dto.ListBooksQuery
	if !bindQuery(c, &q) {
		return
	}
	size := q.Size
	if size == 0 {
		size = q.PageSize
	}

	result, err := h.listUseCase.Execute(c.Request.Context(), appbook.ListBooksRequest{
		Page:     q.Page,
		PageSize: size,
		Category: q.Category,
		Keyword:  q.Keyword,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.SuccessWithPage(c, result.List, result.Total, result.Page, result.PageSize)
}

// GetBook 图书详情
// @Summary      图书详情
// @Description  包含借阅历史；登录用户附带收藏状态并记录浏览历史；无库存时附带最早可借日期
// @Tags         图书
// @Produce      json
// @Param        id path string true "图书ID"
// @Success      200 {object} response.Response{data=appbook.BookDetail}
// @Failure      404 {object} response.Response "图书不存在"
// @Router       /api/books/{id} [get]
func (h *BookHandler) GetBook(c *gin.Context) {
	detail, err := h.getUseCase.Execute(c.Request.Context(), c.Param("id"), middleware.GetUserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, detail)
}

// CreateBook 新增图书
// @Summary      新增图书
// @Tags         图书
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body dto.CreateBookRequest true "图书信息"
// @Success      201 {object} response.Response{data=appbook.BookView}
// @Failure      400 {object} response.Response "参数错误"
// @Failure      403 {object} response.Response "需要管理员权限"
// @Router       /api/books [post]
func (h *BookHandler) CreateBook(c *gin.Context) {
	var req dto.CreateBookRequest
	if !bindJSON(c, &req) {
		return
	}

	view, err := h.manageUseCase.Create(c.Request.Context(), appbook.CreateBookRequest{
		Title:       req.Title,
		Author:      req.Author,
		Publisher:   req.Publisher,
		ISBN:        req.ISBN,
		Price:       float64(req.Price),
		Category:    req.Category,
		Description: req.Description,
		Cover:       req.Cover,
		Summary:     req.Summary,
		Stock:       int(req.Stock),
		Status:      req.Status,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, view)
}

// UpdateBook 修改图书
// @Summary      修改图书
// @Description  只修改请求中出现的字段
// @Tags         图书
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id      path string                true "图书ID"
// @Param        request body dto.UpdateBookRequest true "待修改字段"
// @Success      200 {object} response.Response{data=appbook.BookView}
// @Failure      404 {object} response.Response "图书不存在"
// @Router       /api/books/{id} [put]
func (h *BookHandler) UpdateBook(c *gin.Context) {
	var req dto.UpdateBookRequest
	if !bindJSON(c, &req) {
		return
	}
	view, err := h.manageUseCase.Update(c.Request.Context(), c.Param("id"), req.ToPatch())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, view)
}

// DeleteBook 删除图书
// @Summary      删除图书
// @Tags         图书
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "图书ID"
// @Success      200 {object} response.Response
// @Failure      404 {object} response.Response "图书不存在"
// @Router       /api/books/{id} [delete]
func (h *BookHandler) DeleteBook(c *gin.Context) {
	if err := h.manageUseCase.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, gin.H{"success": true, "message": "删除成功"})
}

// PresignedURL 封面直传URL
// @Summary      获取封面上传URL
// @Description  返回OSS签名的PUT地址，浏览器直接上传
// @Tags         图书
// @Produce      json
// @Security     BearerAuth
// @Param        file_name    query string true  "文件名"
// @Param        content_type query string false "Content-Type"
// @Success      200 {object} response.Response{data=appbook.CoverUploadResponse}
// @Failure      500 {object} response.Response "对象存储未配置"
// @Router       /api/presigned-url [get]
func (h *BookHandler) PresignedURL(c *gin.Context) {
	var q dto.PresignQuery
	if !bindQuery(c, &q) {
		return
	}
	result, err := h.coverUseCase.Execute(c.Request.Context(), q.FileName, q.ContentType)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}
