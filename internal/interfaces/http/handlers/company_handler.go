package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"shelf-market.backend/internal/domain/entities"
	domainerrors "shelf-market.backend/internal/domain/errors"
	"shelf-market.backend/internal/interfaces/http/response"
	"shelf-market.backend/internal/usecases"
	"shelf-market.backend/pkg/utils"
)

type CompanyHandler struct {
	usecase *usecases.CompanyUsecase
}

func NewCompanyHandler(usecase *usecases.CompanyUsecase) *CompanyHandler {
	return &CompanyHandler{usecase: usecase}
}

// CreateCompany lists a new shelf company
// POST /api/v1/companies
func (h *CompanyHandler) CreateCompany(c *gin.Context) {
	var input usecases.CreateCompanyInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}

	company, err := h.usecase.CreateCompany(c.Request.Context(), &input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusCreated, company)
}

// GetCompany gets a company by companyId
// GET /api/v1/companies/:id
func (h *CompanyHandler) GetCompany(c *gin.Context) {
	company, err := h.usecase.GetCompany(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, company)
}

// ListCompanies lists companies, available ones by default
// GET /api/v1/companies
func (h *CompanyHandler) ListCompanies(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	params := utils.GetPaginationParams(page, limit)

	status := entities.CompanyStatus(c.DefaultQuery("status", string(entities.CompanyStatusAvailable)))
	if c.Query("status") == "all" {
		status = ""
	}

	companies, total, err := h.usecase.ListCompanies(c.Request.Context(), status, params.Limit, params.CalculateOffset())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.List(c, http.StatusOK, companies, utils.CalculateMeta(int64(total), params.Page, params.Limit))
}
