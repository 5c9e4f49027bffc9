package handler

import (
	"github.com/clubtryara/pos/internal/application/service"
	"github.com/clubtryara/pos/internal/presentation/http/dto/request"
	"github.com/clubtryara/pos/internal/presentation/http/dto/response"
	"github.com/clubtryara/pos/pkg/pagination"
	"github.com/gin-gonic/gin"
)

// SaleHandler handles checkout persistence and sale listings
type SaleHandler struct {
	saleService *service.SaleService
}

// NewSaleHandler creates a new sale handler
func NewSaleHandler(saleService *service.SaleService) *SaleHandler {
	return &SaleHandler{saleService: saleService}
}

// Create handles POST /sales
func (h *SaleHandler) Create(c *gin.Context) {
	var req request.SaveSaleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	cashierID := GetUserID(c)
	if cashierID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	input := &service.SaveSaleInput{
		Payload:     req.Payload(),
		CashierID:   *cashierID,
		CashierName: GetUserName(c),
	}
	// The payload's cashier name is advisory; the authenticated identity wins
	if input.CashierName == "" {
		input.CashierName = req.Meta.Cashier
	}

	saleID, err := h.saleService.SaveSale(c.Request.Context(), input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SaleSaved(c, saleID)
}

// List handles GET /sales with pagination
func (h *SaleHandler) List(c *gin.Context) {
	params := pagination.DefaultPagination()
	if err := c.ShouldBindQuery(params); err != nil {
		response.BadRequest(c, "Invalid pagination parameters")
		return
	}

	result, err := h.saleService.ListSales(c.Request.Context(), params)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, 200, "Sales retrieved", result)
}

// Get handles GET /sales/:id
func (h *SaleHandler) Get(c *gin.Context) {
	var uri struct {
		ID int64 `uri:"id" binding:"required"`
	}
	if err := c.ShouldBindUri(&uri); err != nil {
		response.BadRequest(c, "Invalid sale ID")
		return
	}

	sale, err := h.saleService.GetSale(c.Request.Context(), uri.ID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Sale retrieved", sale)
}
