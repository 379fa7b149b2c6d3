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

type TransferFormHandler struct {
	usecase *usecases.TransferFormUsecase
}

func NewTransferFormHandler(usecase *usecases.TransferFormUsecase) *TransferFormHandler {
	return &TransferFormHandler{usecase: usecase}
}

// CreateForm submits a new transfer form
// POST /api/v1/transfer-forms
func (h *TransferFormHandler) CreateForm(c *gin.Context) {
	var input entities.CreateTransferFormInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}

	result, err := h.usecase.CreateForm(c.Request.Context(), &input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusCreated, result)
}

// GetForm gets a transfer form by internal id or formId
// GET /api/v1/transfer-forms/:id
func (h *TransferFormHandler) GetForm(c *gin.Context) {
	form, err := h.usecase.GetForm(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, form)
}

// ListForms lists transfer forms
// GET /api/v1/transfer-forms
func (h *TransferFormHandler) ListForms(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	params := utils.GetPaginationParams(page, limit)

	filter := domainRepos.FormFilter{
		OrderID:     c.Query("orderId"),
		CompanyID:   c.Query("companyId"),
		CompanyName: c.Query("companyName"),
		Status:      entities.FormStatus(c.Query("status")),
	}
	if filter.Status != "" && !filter.Status.IsValid() {
		response.Error(c, domainerrors.BadRequest("unknown form status: "+string(filter.Status)))
		return
	}

	forms, total, err := h.usecase.ListForms(c.Request.Context(), filter, params.Limit, params.CalculateOffset())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.List(c, http.StatusOK, forms, utils.CalculateMeta(int64(total), params.Page, params.Limit))
}

// UpdateForm merges submitted fields into a transfer form
// PATCH /api/v1/transfer-forms/:id
func (h *TransferFormHandler) UpdateForm(c *gin.Context) {
	var input entities.UpdateTransferFormInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}

	result, err := h.usecase.UpdateForm(c.Request.Context(), c.Param("id"), &input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, result)
}

type UpdateFormStatusRequest struct {
	Status string `json:"status" binding:"required"`
	Reason string `json:"reason"`
	Notes  string `json:"notes"`
}

// UpdateFormStatus moves a form through the review workflow
// PATCH /api/v1/transfer-forms/:id/status
func (h *TransferFormHandler) UpdateFormStatus(c *gin.Context) {
	var req UpdateFormStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}

	changedBy, ok := middleware.GetUserEmail(c)
	if !ok {
		changedBy = "admin"
	}

	form, err := h.usecase.UpdateStatus(c.Request.Context(), c.Param("id"),
		entities.FormStatus(req.Status), changedBy, req.Reason, req.Notes)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, form)
}

type AddCommentRequest struct {
	Author      string `json:"author"`
	Text        string `json:"text" binding:"required"`
	IsAdminOnly bool   `json:"isAdminOnly"`
}

// AddComment appends a comment to a form
// POST /api/v1/transfer-forms/:id/comments
func (h *TransferFormHandler) AddComment(c *gin.Context) {
	var req AddCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}

	author := req.Author
	if author == "" {
		if email, ok := middleware.GetUserEmail(c); ok {
			author = email
		} else {
			author = "customer"
		}
	}

	form, err := h.usecase.AddComment(c.Request.Context(), c.Param("id"), author, req.Text, req.IsAdminOnly)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusCreated, form)
}

type AddAttachmentRequest struct {
	Name string `json:"name" binding:"required"`
	Type string `json:"type"`
	Size int64  `json:"size"`
	URL  string `json:"url"`
}

// AddAttachment registers attachment metadata on a form
// POST /api/v1/transfer-forms/:id/attachments
func (h *TransferFormHandler) AddAttachment(c *gin.Context) {
	var req AddAttachmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}

	form, err := h.usecase.AddAttachment(c.Request.Context(), c.Param("id"), entities.FormAttachment{
		Name: req.Name,
		Type: req.Type,
		Size: req.Size,
		URL:  req.URL,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusCreated, form)
}

// DeleteAttachment removes attachment metadata from a form
// DELETE /api/v1/transfer-forms/:id/attachments/:attachmentId
func (h *TransferFormHandler) DeleteAttachment(c *gin.Context) {
	form, err := h.usecase.DeleteAttachment(c.Request.Context(), c.Param("id"), c.Param("attachmentId"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, form)
}
