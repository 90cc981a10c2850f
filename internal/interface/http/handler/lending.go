package handler

import (
	"github.com/gin-gonic/gin"

	appborrow "github.com/xiebiao/library/internal/application/borrow"
	"github.com/xiebiao/library/internal/interface/http/dto"
	"github.com/xiebiao/library/internal/interface/http/middleware"
	"github.com/xiebiao/library/pkg/response"
)

// LendingHandler 借阅和归还
type LendingHandler struct {
	borrowUseCase      *appborrow.BorrowBookUseCase
	returnUseCase      *appborrow.ReturnBookUseCase
	batchBorrowUseCase *appborrow.BatchBorrowUseCase
	batchReturnUseCase *appborrow.BatchReturnUseCase
	listUseCase        *appborrow.ListUserBorrowsUseCase
}

// NewLendingHandler 创建借阅处理器
func NewLendingHandler(
	borrowUseCase *appborrow.BorrowBookUseCase,
	returnUseCase *appborrow.ReturnBookUseCase,
	batchBorrowUseCase *appborrow.BatchBorrowUseCase,
	batchReturnUseCase *appborrow.BatchReturnUseCase,
	listUseCase *appborrow.ListUserBorrowsUseCase,
) *LendingHandler {
	return &LendingHandler{
		borrowUseCase:      borrowUseCase,
		returnUseCase:      returnUseCase,
		batchBorrowUseCase: batchBorrowUseCase,
		batchReturnUseCase: batchReturnUseCase,
		listUseCase:        listUseCase,
	}
}

// Borrow 借阅图书
// @Summary      借阅图书
// @Description  扣减库存并创建借阅记录，同一本书不能重复借阅
// @Tags         借阅
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id      path string            true  "图书ID"
// @Param        request body dto.BorrowRequest false "借阅天数，默认30"
// @Success      200 {object} response.Response{data=appborrow.BorrowBookResponse}
// @Failure      400 {object} response.Response "库存不足/重复借阅"
// @Failure      404 {object} response.Response "图书不存在"
// @Router       /api/books/{id}/borrow [post]
func (h *LendingHandler) Borrow(c *gin.Context) {
	var req dto.BorrowRequest
	if !bindOptionalJSON(c, &req) {
		return
	}
	result, err := h.borrowUseCase.Execute(c.Request.Context(), appborrow.BorrowBookRequest{
		UserID: middleware.MustGetUserID(c),
		BookID: c.Param("id"),
		Days:   req.Days,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// Return 归还图书
// @Summary      归还图书
// @Tags         借阅
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "图书ID"
// @Success      200 {object} response.Response{data=appborrow.ReturnBookResponse}
// @Failure      400 {object} response.Response "未借阅该图书"
// @Router       /api/books/{id}/return [post]
func (h *LendingHandler) Return(c *gin.Context) {
	h.returnBook(c, false)
}

// ReturnEarly 提前归还
// @Summary      提前归还
// @Tags         借阅
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "图书ID"
// @Success      200 {object} response.Response{data=appborrow.ReturnBookResponse}
// @Router       /api/books/{id}/return-early [post]
func (h *LendingHandler) ReturnEarly(c *gin.Context) {
	h.returnBook(c, true)
}

func (h *LendingHandler) returnBook(c *gin.Context, early bool) {
	result, err := h.returnUseCase.Execute(c.Request.Context(), appborrow.ReturnBookRequest{
		UserID: middleware.MustGetUserID(c),
		BookID: c.Param("id"),
		Early:  early,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// ReturnByID 按借阅记录归还
// @Summary      按借阅记录归还
// @Tags         借阅
// @Produce      json
// @Security     BearerAuth
// @Param        borrow_id path  string true  "借阅记录ID"
// @Param        early     query bool   false "是否提前归还"
// @Success      200 {object} response.Response{data=appborrow.ReturnBookResponse}
// @Failure      403 {object} response.Response "无权操作"
// @Failure      404 {object} response.Response "借阅记录不存在"
// @Router       /api/return/{borrow_id} [post]
func (h *LendingHandler) ReturnByID(c *gin.Context) {
	result, err := h.returnUseCase.ExecuteByID(c.Request.Context(), appborrow.ReturnByIDRequest{
		UserID:   middleware.MustGetUserID(c),
		BorrowID: c.Param("borrow_id"),
		Early:    c.Query("early") == "true",
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// BatchBorrow 批量借阅
// @Summary      批量借阅
// @Description  逐本借阅，单本失败不影响其他图书
// @Tags         借阅
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body dto.BatchBorrowRequest true "图书ID列表"
// @Success      200 {object} response.Response{data=appborrow.BatchBorrowResponse}
// @Router       /api/books/batch-borrow [post]
func (h *LendingHandler) BatchBorrow(c *gin.Context) {
	var req dto.BatchBorrowRequest
	if !bindJSON(c, &req) {
		return
	}
	result, err := h.batchBorrowUseCase.Execute(c.Request.Context(), appborrow.BatchBorrowRequest{
		UserID:  middleware.MustGetUserID(c),
		BookIDs: req.BookIDs,
		Days:    req.Days,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// BatchReturn 批量归还
// @Summary      批量归还
// @Tags         借阅
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body dto.BatchReturnRequest true "借阅记录ID列表"
// @Success      200 {object} response.Response{data=appborrow.BatchReturnResponse}
// @Router       /api/batch-return [post]
func (h *LendingHandler) BatchReturn(c *gin.Context) {
	var req dto.BatchReturnRequest
	if !bindJSON(c, &req) {
		return
	}
	result, err := h.batchReturnUseCase.Execute(c.Request.Context(), appborrow.BatchReturnRequest{
		UserID:    middleware.MustGetUserID(c),
		BorrowIDs: req.BorrowIDs,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// ListMyBorrows 我的借阅
// @Summary      我的借阅记录
// @Tags         借阅
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} response.Response{data=appborrow.ListUserBorrowsResponse}
// @Router       /api/user/borrows [get]
func (h *LendingHandler) ListMyBorrows(c *gin.Context) {
	result, err := h.listUseCase.Execute(c.Request.Context(), middleware.MustGetUserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}
