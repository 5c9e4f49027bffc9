package response

import "github.com/gin-gonic/gin"

// SaleSaveResponse is the terminal-facing verdict on a checkout submission.
// The terminal reads success and saleId straight off the top level.
type SaleSaveResponse struct {
	Success bool   `json:"success"`
	SaleID  int64  `json:"saleId,omitempty"`
	Message string `json:"message,omitempty"`
}

// SaleSaved sends the flat checkout response the terminals expect
func SaleSaved(c *gin.Context, saleID int64) {
	c.JSON(201, SaleSaveResponse{
		Success: true,
		SaleID:  saleID,
	})
}

// StockAdjusted confirms an inventory adjustment in the same flat shape
func StockAdjusted(c *gin.Context) {
	c.JSON(200, SaleSaveResponse{
		Success: true,
		Message: "Stock adjusted",
	})
}
