package models

import "strings"

// TableQuery holds the query parameters of the table endpoints.
type TableQuery struct {
	Page int `form:"page"` // 1-indexed; 0 or out of range means page 1
}

// ChartQuery holds the query parameters of the chart endpoints.
type ChartQuery struct {
	Page   int      `form:"page"`
	Type   string   `form:"type"`   // "line" (default) or "bar"
	Group  string   `form:"group"`  // default: first column
	Series []string `form:"series"` // repeated or comma-separated
	Format string   `form:"format"` // image endpoint only: "svg" (default) or "png"
}

// SeriesList flattens repeated and comma-separated series values.
func (q ChartQuery) SeriesList() []string {
	var out []string
	for _, s := range q.Series {
		for _, part := range strings.Split(s, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}
