package handler

import (
	"github.com/clubtryara/pos/internal/application/service"
	"github.com/clubtryara/pos/internal/presentation/http/dto/response"
	"github.com/gin-gonic/gin"
)

// TableHandler serves venue table listings
type TableHandler struct {
	tableService *service.TableService
}

// NewTableHandler creates a new table handler
func NewTableHandler(tableService *service.TableService) *TableHandler {
	return &TableHandler{tableService: tableService}
}

// List handles GET /tables?type=available|reserved|all
//
// The terminal consumes the rows directly, so the body is the bare JSON array
// rather than the standard envelope.
func (h *TableHandler) List(c *gin.Context) {
	tables, err := h.tableService.List(c.Request.Context(), c.Query("type"))
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(200, tables)
}
