package handler

import (
	"github.com/gin-gonic/gin"

	appreservation "github.com/xiebiao/library/internal/application/reservation"
	"github.com/xiebiao/library/internal/interface/http/dto"
	"github.com/xiebiao/library/internal/interface/http/middleware"
	"github.com/xiebiao/library/pkg/response"
)

// ReservationHandler 预约
type ReservationHandler struct {
	reserveUseCase *appreservation.ReserveBookUseCase
	cancelUseCase  *appreservation.CancelReservationUseCase
	fulfillUseCase *appreservation.FulfillReservationUseCase
	queryUseCase   *appreservation.QueryUseCase
}

// NewReservationHandler 创建预约处理器
func NewReservationHandler(
	reserveUseCase *appreservation.ReserveBookUseCase,
	cancelUseCase *appreservation.CancelReservationUseCase,
	fulfillUseCase *appreservation.FulfillReservationUseCase,
	queryUseCase *appreservation.QueryUseCase,
) *ReservationHandler {
	return &ReservationHandler{
		reserveUseCase: reserveUseCase,
		cancelUseCase:  cancelUseCase,
		fulfillUseCase: fulfillUseCase,
		queryUseCase:   queryUseCase,
	}
}

// Reserve 预约图书
// @Summary      预约图书
// @Description  无库存时返回400和earliest_available_date；同一本书只能有一个有效预约
// @Tags         预约
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id      path string             true "图书ID"
// @Param        request body dto.ReserveRequest true "预约信息"
// @Success      200 {object} response.Response{data=appreservation.ReserveBookResponse}
// @Failure      400 {object} response.Response "日期格式错误/重复预约/无库存"
// @Router       /api/books/{id}/reserve [post]
func (h *ReservationHandler) Reserve(c *gin.Context) {
	var req dto.ReserveRequest
	if !bindJSON(c, &req) {
		return
	}
	result, err := h.reserveUseCase.Execute(c.Request.Context(), appreservation.ReserveBookRequest{
		UserID:      middleware.MustGetUserID(c),
		BookID:      c.Param("id"),
		ReserveDate: req.ReserveDate,
		TimeSlot:    req.TimeSlot,
		Days:        req.Days,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// Cancel 取消预约
// @Summary      取消预约
// @Tags         预约
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "预约ID"
// @Success      200 {object} response.Response{data=appreservation.TransitionResponse}
// @Failure      403 {object} response.Response "不是本人的预约"
// @Router       /api/reservations/{id}/cancel [post]
func (h *ReservationHandler) Cancel(c *gin.Context) {
	result, err := h.cancelUseCase.Execute(c.Request.Context(), middleware.MustGetUserID(c), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// Fulfill 标记预约完成
// @Summary      标记预约完成
// @Tags         预约
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "预约ID"
// @Success      200 {object} response.Response{data=appreservation.TransitionResponse}
// @Failure      403 {object} response.Response "需要管理员权限"
// @Router       /api/reservations/{id}/fulfill [post]
func (h *ReservationHandler) Fulfill(c *gin.Context) {
	result, err := h.fulfillUseCase.Execute(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// Get 预约详情，本人或管理员可见
// @Summary      预约详情
// @Tags         预约
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "预约ID"
// @Success      200 {object} response.Response{data=appreservation.ReservationItem}
// @Failure      404 {object} response.Response "预约不存在"
// @Router       /api/reservations/{id} [get]
func (h *ReservationHandler) Get(c *gin.Context) {
	item, err := h.queryUseCase.Get(c.Request.Context(), middleware.MustGetUserID(c), middleware.IsAdmin(c), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, item)
}

// ListMine 我的预约
// @Summary      我的预约
// @Tags         预约
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} response.Response{data=[]appreservation.ReservationItem}
// @Router       /api/user/reservations [get]
func (h *ReservationHandler) ListMine(c *gin.Context) {
	items, err := h.queryUseCase.ListByUser(c.Request.Context(), middleware.MustGetUserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, items)
}

// ListByBook 图书的预约列表
// @Summary      图书的预约列表
// @Tags         预约
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "图书ID"
// @Success      200 {object} response.Response{data=[]appreservation.ReservationItem}
// @Router       /api/books/{id}/reservations [get]
func (h *ReservationHandler) ListByBook(c *gin.Context) {
	items, err := h.queryUseCase.ListByBook(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, items)
}
