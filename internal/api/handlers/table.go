package handlers

import (
	"fmt"
	"net/http"

	"uk-demand-dashboard/internal/api/models"
	"uk-demand-dashboard/internal/export"
	"uk-demand-dashboard/internal/table"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// TableHandler serves the paginated table view.
type TableHandler struct {
	table    *table.Table
	pageSize int
}

// NewTableHandler creates a table handler. A non-positive page size falls
// back to table.DefaultPageSize.
func NewTableHandler(t *table.Table, pageSize int) *TableHandler {
	if pageSize <= 0 {
		pageSize = table.DefaultPageSize
	}
	return &TableHandler{table: t, pageSize: pageSize}
}

// ListColumns handles GET /api/v1/columns
func (h *TableHandler) ListColumns(c *gin.Context) {
	cols := h.table.Columns()
	var group string
	if len(cols) > 0 {
		group = cols[0]
	}
	c.JSON(http.StatusOK, models.ColumnsResponse{
		Columns:        cols,
		NumericColumns: h.table.NumericColumns(),
		DefaultGroup:   group,
		Rows:           h.table.Len(),
		PageSize:       h.pageSize,
		PageCount:      h.table.PageCount(h.pageSize),
	})
}

// GetPage handles GET /api/v1/table
func (h *TableHandler) GetPage(c *gin.Context) {
	p, ok := h.page(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, models.TableResponse{
		Page:      p.Number,
		PageSize:  p.Size,
		PageCount: p.Count,
		Rows:      h.table.Len(),
		Columns:   h.table.Columns(),
		Records:   p.Records(),
	})
}

// ExportPage handles GET /api/v1/table/export.xlsx
func (h *TableHandler) ExportPage(c *gin.Context) {
	p, ok := h.page(c)
	if !ok {
		return
	}
	buf, err := export.BuildPageXLSX(p)
	if err != nil {
		log.Error("xlsx export failed", "page", p.Number, "err", err)
		respondError(c, http.StatusInternalServerError, CodeExportError, err.Error())
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="table-page-%d.xlsx"`, p.Number))
	c.Data(http.StatusOK, xlsxContentType, buf)
}

func (h *TableHandler) page(c *gin.Context) (table.Page, bool) {
	var q models.TableQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		respondError(c, http.StatusBadRequest, CodeInvalidPage, "page must be an integer")
		return table.Page{}, false
	}
	return h.table.Page(q.Page, h.pageSize), true
}
