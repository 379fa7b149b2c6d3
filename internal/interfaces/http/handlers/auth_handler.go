package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	domainerrors "shelf-market.backend/internal/domain/errors"
	"shelf-market.backend/internal/interfaces/http/middleware"
	"shelf-market.backend/internal/interfaces/http/response"
	"shelf-market.backend/internal/usecases"
)

type AuthHandler struct {
	usecase *usecases.AuthUsecase
}

func NewAuthHandler(usecase *usecases.AuthUsecase) *AuthHandler {
	return &AuthHandler{usecase: usecase}
}

// Login verifies credentials and issues tokens
// POST /api/v1/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var input usecases.LoginInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}

	result, err := h.usecase.Login(c.Request.Context(), &input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, result)
}

// Me returns the authenticated account
// GET /api/v1/auth/me
func (h *AuthHandler) Me(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Error(c, domainerrors.Unauthorized("unauthorized"))
		return
	}

	user, err := h.usecase.Me(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, user)
}
