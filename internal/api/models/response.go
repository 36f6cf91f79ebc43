package models

import "uk-demand-dashboard/internal/chart"

// ColumnsResponse describes the loaded dataset for the group dropdown and
// series checklist.
type ColumnsResponse struct {
	Columns        []string `json:"columns"`
	NumericColumns []string `json:"numeric_columns"`
	DefaultGroup   string   `json:"default_group"`
	Rows           int      `json:"rows"`
	PageSize       int      `json:"page_size"`
	PageCount      int      `json:"page_count"`
}

// TableResponse is one page of the table view.
type TableResponse struct {
	Page      int              `json:"page"`
	PageSize  int              `json:"page_size"`
	PageCount int              `json:"page_count"`
	Rows      int              `json:"rows"` // total rows in the dataset
	Columns   []string         `json:"columns"`
	Records   []map[string]any `json:"records"`
}

// ChartResponse wraps the figure built from one page.
type ChartResponse struct {
	Page      int          `json:"page"`
	PageCount int          `json:"page_count"`
	Type      string       `json:"type"`
	Group     string       `json:"group"`
	Series    []string     `json:"series"`
	Figure    chart.Figure `json:"figure"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail contains error information
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
