package handlers

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"

	"uk-demand-dashboard/internal/api/models"
	"uk-demand-dashboard/internal/chart"
	"uk-demand-dashboard/internal/export"
	"uk-demand-dashboard/internal/metrics"
	"uk-demand-dashboard/internal/table"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"
)

// ChartHandler serves the chart view: the figure payload, a server-side
// image and a PDF of the aggregated values.
type ChartHandler struct {
	table    *table.Table
	pageSize int
	width    int
	height   int
	metrics  *metrics.Metrics
}

// NewChartHandler creates a chart handler. m may be nil.
func NewChartHandler(t *table.Table, pageSize, width, height int, m *metrics.Metrics) *ChartHandler {
	if pageSize <= 0 {
		pageSize = table.DefaultPageSize
	}
	return &ChartHandler{table: t, pageSize: pageSize, width: width, height: height, metrics: m}
}

// chartRequest is a parsed and aggregated chart query.
type chartRequest struct {
	query models.ChartQuery
	kind  chart.Kind
	page  table.Page
	agg   chart.Aggregation
}

// GetFigure handles GET /api/v1/chart
func (h *ChartHandler) GetFigure(c *gin.Context) {
	req, ok := h.parse(c)
	if !ok {
		return
	}
	h.metrics.ChartBuilt(string(req.kind), "json")
	c.JSON(http.StatusOK, models.ChartResponse{
		Page:      req.page.Number,
		PageCount: req.page.Count,
		Type:      string(req.kind),
		Group:     req.agg.GroupColumn,
		Series:    req.agg.Series,
		Figure:    chart.BuildFigure(req.agg, req.kind, h.width, h.height),
	})
}

// GetImage handles GET /api/v1/chart/image
func (h *ChartHandler) GetImage(c *gin.Context) {
	req, ok := h.parse(c)
	if !ok {
		return
	}
	format, err := chart.ParseFormat(req.query.Format)
	if err != nil {
		respondRequestError(c, err)
		return
	}

	var buf bytes.Buffer
	if err := chart.Render(&buf, req.agg, req.kind, format, h.width, h.height); err != nil {
		if errors.Is(err, chart.ErrNothingToRender) {
			respondRequestError(c, err)
			return
		}
		log.Error("chart render failed", "group", req.agg.GroupColumn, "series", req.agg.Series, "err", err)
		respondError(c, http.StatusInternalServerError, CodeRenderError, err.Error())
		return
	}
	h.metrics.ChartBuilt(string(req.kind), string(format))
	c.Data(http.StatusOK, format.ContentType(), buf.Bytes())
}

// ExportPDF handles GET /api/v1/chart/export.pdf
func (h *ChartHandler) ExportPDF(c *gin.Context) {
	req, ok := h.parse(c)
	if !ok {
		return
	}
	buf, err := export.BuildAggregatePDF(req.agg, req.page.Len())
	if err != nil {
		log.Error("pdf export failed", "page", req.page.Number, "err", err)
		respondError(c, http.StatusInternalServerError, CodeExportError, err.Error())
		return
	}
	h.metrics.ChartBuilt(string(req.kind), "pdf")
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="chart-page-%d.pdf"`, req.page.Number))
	c.Data(http.StatusOK, "application/pdf", buf)
}

// parse binds the query, resolves the page and aggregates it. On failure the
// error response has already been written.
func (h *ChartHandler) parse(c *gin.Context) (chartRequest, bool) {
	var q models.ChartQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		respondError(c, http.StatusBadRequest, CodeInvalidPage, "page must be an integer")
		return chartRequest{}, false
	}
	kind, err := chart.ParseKind(q.Type)
	if err != nil {
		respondRequestError(c, err)
		return chartRequest{}, false
	}
	if q.Group == "" {
		if cols := h.table.Columns(); len(cols) > 0 {
			q.Group = cols[0]
		}
	}

	p := h.table.Page(q.Page, h.pageSize)
	agg, err := chart.Aggregate(p, q.Group, q.SeriesList())
	if err != nil {
		respondRequestError(c, err)
		return chartRequest{}, false
	}
	return chartRequest{query: q, kind: kind, page: p, agg: agg}, true
}
