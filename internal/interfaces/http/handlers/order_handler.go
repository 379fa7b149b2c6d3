package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"shelf-market.backend/internal/domain/entities"
	domainerrors "shelf-market.backend/internal/domain/errors"
	domainRepos "shelf-market.backend/internal/domain/repositories"
	"shelf-market.backend/internal/interfaces/http/middleware"
	"shelf-market.backend/internal/interfaces/http/response"
	"shelf-market.backend/internal/usecases"
	"shelf-market.backend/pkg/utils"
)

type OrderHandler struct {
	usecase *usecases.OrderUsecase
}

func NewOrderHandler(usecase *usecases.OrderUsecase) *OrderHandler {
	return &OrderHandler{usecase: usecase}
}

// CreateOrder creates a purchase order and reserves the company
// POST /api/v1/orders
func (h *OrderHandler) CreateOrder(c *gin.Context) {
	var input entities.CreateOrderInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}

	order, err := h.usecase.CreateOrder(c.Request.Context(), &input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusCreated, order)
}

// GetOrder gets an order by internal id or orderId
// GET /api/v1/orders/:id
func (h *OrderHandler) GetOrder(c *gin.Context) {
	order, err := h.usecase.GetOrder(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, order)
}

// ListOrders lists orders
// GET /api/v1/orders
func (h *OrderHandler) ListOrders(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	params := utils.GetPaginationParams(page, limit)

	filter := domainRepos.OrderFilter{
		CompanyID:     c.Query("companyId"),
		CustomerEmail: c.Query("customerEmail"),
		Status:        entities.OrderStatus(c.Query("status")),
	}
	if filter.Status != "" && !filter.Status.IsValid() {
		response.Error(c, domainerrors.BadRequest("unknown order status: "+string(filter.Status)))
		return
	}

	orders, total, err := h.usecase.ListOrders(c.Request.Context(), filter, params.Limit, params.CalculateOffset())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.List(c, http.StatusOK, orders, utils.CalculateMeta(int64(total), params.Page, params.Limit))
}

// UpdateOrder merges non-status fields into an order
// PATCH /api/v1/orders/:id
func (h *OrderHandler) UpdateOrder(c *gin.Context) {
	var input entities.UpdateOrderInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}

	order, err := h.usecase.UpdateOrder(c.Request.Context(), c.Param("id"), &input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, order)
}

type UpdateOrderStatusRequest struct {
	Status string `json:"status" binding:"required"`
	Reason string `json:"reason"`
	Notes  string `json:"notes"`
}

// UpdateOrderStatus sets the order status and runs its side effects
// PATCH /api/v1/orders/:id/status
func (h *OrderHandler) UpdateOrderStatus(c *gin.Context) {
	var req UpdateOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}

	changedBy, ok := middleware.GetUserEmail(c)
	if !ok {
		changedBy = "admin"
	}

	order, err := h.usecase.UpdateStatus(c.Request.Context(), c.Param("id"),
		entities.OrderStatus(req.Status), changedBy, req.Reason, req.Notes)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, order)
}

type RequestRefundRequest struct {
	Reason string `json:"reason" binding:"required"`
}

// RequestRefund opens a refund sub-record on an order
// POST /api/v1/orders/:id/refund
func (h *OrderHandler) RequestRefund(c *gin.Context) {
	var req RequestRefundRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}

	order, err := h.usecase.RequestRefund(c.Request.Context(), c.Param("id"), req.Reason)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusCreated, order)
}

type ResolveRefundRequest struct {
	Approve    *bool  `json:"approve" binding:"required"`
	AdminNotes string `json:"adminNotes"`
}

// ResolveRefund approves or rejects an open refund
// POST /api/v1/orders/:id/refund/resolve
func (h *OrderHandler) ResolveRefund(c *gin.Context) {
	var req ResolveRefundRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}

	resolvedBy, ok := middleware.GetUserEmail(c)
	if !ok {
		resolvedBy = "admin"
	}

	order, err := h.usecase.ResolveRefund(c.Request.Context(), c.Param("id"), *req.Approve, resolvedBy, req.AdminNotes)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, order)
}
