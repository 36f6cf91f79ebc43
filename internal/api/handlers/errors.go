package handlers

import (
	"errors"
	"net/http"

	"uk-demand-dashboard/internal/api/models"
	"uk-demand-dashboard/internal/chart"
	"uk-demand-dashboard/internal/table"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"
)

const (
	CodeInvalidPage      = "INVALID_PAGE"
	CodeUnknownColumn    = "UNKNOWN_COLUMN"
	CodeInvalidSeries    = "INVALID_SERIES"
	CodeInvalidChartType = "INVALID_CHART_TYPE"
	CodeInvalidFormat    = "INVALID_FORMAT"
	CodeRenderError      = "RENDER_ERROR"
	CodeExportError      = "EXPORT_ERROR"
	CodeInternalError    = "INTERNAL_ERROR"
)

func respondError(c *gin.Context, status int, code, message string) {
	c.AbortWithStatusJSON(status, models.ErrorResponse{
		Error: models.ErrorDetail{
			Code:    code,
			Message: message,
		},
	})
}

// respondRequestError maps errors from the table and chart packages onto
// error responses. Anything unrecognised is a 500.
func respondRequestError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, table.ErrUnknownColumn):
		respondError(c, http.StatusBadRequest, CodeUnknownColumn, err.Error())
	case errors.Is(err, chart.ErrNonNumericSeries),
		errors.Is(err, chart.ErrGroupAsSeries),
		errors.Is(err, chart.ErrNothingToRender):
		respondError(c, http.StatusBadRequest, CodeInvalidSeries, err.Error())
	case errors.Is(err, chart.ErrInvalidKind):
		respondError(c, http.StatusBadRequest, CodeInvalidChartType, err.Error())
	case errors.Is(err, chart.ErrInvalidFormat):
		respondError(c, http.StatusBadRequest, CodeInvalidFormat, err.Error())
	default:
		log.Error("request failed", "path", c.Request.URL.Path, "err", err)
		respondError(c, http.StatusInternalServerError, CodeInternalError, "An unexpected error occurred")
	}
}
