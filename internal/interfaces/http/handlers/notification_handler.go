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

type NotificationHandler struct {
	dispatcher *usecases.NotificationDispatcher
}

func NewNotificationHandler(dispatcher *usecases.NotificationDispatcher) *NotificationHandler {
	return &NotificationHandler{dispatcher: dispatcher}
}

var deliveryStatuses = map[entities.DeliveryStatus]struct{}{
	entities.DeliveryStatusPending: {},
	entities.DeliveryStatusSent:    {},
	entities.DeliveryStatusFailed:  {},
	entities.DeliveryStatusSkipped: {},
}

// ListDeliveries lists recorded notification deliveries for auditing
// GET /api/v1/notifications
func (h *NotificationHandler) ListDeliveries(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	params := utils.GetPaginationParams(page, limit)

	status := entities.DeliveryStatus(c.Query("status"))
	if status != "" {
		if _, ok := deliveryStatuses[status]; !ok {
			response.Error(c, domainerrors.BadRequest("unknown delivery status: "+string(status)))
			return
		}
	}

	deliveries, total, err := h.dispatcher.ListDeliveries(c.Request.Context(), status, params.Limit, params.CalculateOffset())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.List(c, http.StatusOK, deliveries, utils.CalculateMeta(int64(total), params.Page, params.Limit))
}
