package handler

import (
	"github.com/clubtryara/pos/internal/application/service"
	"github.com/clubtryara/pos/internal/presentation/http/dto/request"
	"github.com/clubtryara/pos/internal/presentation/http/dto/response"
	"github.com/gin-gonic/gin"
)

// StockHandler handles post-sale inventory adjustments
type StockHandler struct {
	stockService *service.StockService
}

// NewStockHandler creates a new stock handler
func NewStockHandler(stockService *service.StockService) *StockHandler {
	return &StockHandler{stockService: stockService}
}

// Adjust handles POST /stock/adjust
func (h *StockHandler) Adjust(c *gin.Context) {
	var req request.AdjustStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	if err := h.stockService.Adjust(c.Request.Context(), req.Items); err != nil {
		response.Error(c, err)
		return
	}

	response.StockAdjusted(c)
}
