package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"uk-demand-dashboard/internal/api/models"
	"uk-demand-dashboard/internal/config"
	"uk-demand-dashboard/internal/metrics"
	"uk-demand-dashboard/internal/table"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/suite"
	"github.com/xuri/excelize/v2"
)

type ServerTestSuite struct {
	suite.Suite
	cfg    config.Config
	table  *table.Table
	server *Server
}

func TestServerTestSuite(t *testing.T) {
	suite.Run(t, new(ServerTestSuite))
}

// cleanedTable builds n rows shaped like the consolidated CSV: four 6-hour
// buckets per settlement date, temp_c 5 and TSD 1000+i.
func cleanedTable(n int) ([]string, [][]string) {
	base := time.Date(2017, 1, 1, 0, 0, 0, 0, time.UTC)
	cols := []string{"SETTLEMENT_DATE", "observation_dtg_utc", "temp_c", "TSD"}
	rows := make([][]string, n)
	for i := range rows {
		ts := base.Add(time.Duration(i) * 6 * time.Hour)
		rows[i] = []string{
			strings.ToUpper(ts.Format("02-Jan-2006")),
			ts.Format("2006-01-02 15:04:05"),
			"5.00",
			fmt.Sprintf("%d.00", 1000+i),
		}
	}
	return cols, rows
}

func (s *ServerTestSuite) SetupTest() {
	cols, rows := cleanedTable(250)
	tbl, err := table.New(cols, rows)
	s.Require().NoError(err)

	s.cfg = config.Default()
	s.cfg.Dashboard.Debug = false
	s.cfg.Dashboard.StaticDir = ""
	s.table = tbl
	s.server = New(s.cfg, tbl, metrics.New(), log.New(io.Discard))
}

func (s *ServerTestSuite) get(path string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	s.server.Engine().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func (s *ServerTestSuite) decode(rec *httptest.ResponseRecorder, v any) {
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), v), rec.Body.String())
}

func (s *ServerTestSuite) requireError(rec *httptest.ResponseRecorder, status int, code string) {
	s.Require().Equal(status, rec.Code, rec.Body.String())
	var body models.ErrorResponse
	s.decode(rec, &body)
	s.Equal(code, body.Error.Code)
	s.NotEmpty(body.Error.Message)
}

func (s *ServerTestSuite) TestHealth() {
	rec := s.get("/health")
	s.Require().Equal(http.StatusOK, rec.Code)
	s.Contains(rec.Body.String(), `"status":"ok"`)
}

func (s *ServerTestSuite) TestColumns() {
	rec := s.get("/api/v1/columns")
	s.Require().Equal(http.StatusOK, rec.Code)

	var body models.ColumnsResponse
	s.decode(rec, &body)
	s.Equal([]string{"SETTLEMENT_DATE", "observation_dtg_utc", "temp_c", "TSD"}, body.Columns)
	s.Equal([]string{"temp_c", "TSD"}, body.NumericColumns)
	s.Equal("SETTLEMENT_DATE", body.DefaultGroup)
	s.Equal(250, body.Rows)
	s.Equal(100, body.PageSize)
	s.Equal(3, body.PageCount)
}

func (s *ServerTestSuite) TestTablePages() {
	cases := []struct {
		query    string
		page     int
		rows     int
		firstTSD float64
	}{
		{"", 1, 100, 1000},
		{"?page=2", 2, 100, 1100},
		{"?page=3", 3, 50, 1200},
		{"?page=0", 1, 100, 1000},
		{"?page=-4", 1, 100, 1000},
		{"?page=99", 1, 100, 1000},
	}
	for _, tc := range cases {
		rec := s.get("/api/v1/table" + tc.query)
		s.Require().Equal(http.StatusOK, rec.Code, tc.query)

		var body models.TableResponse
		s.decode(rec, &body)
		s.Equal(tc.page, body.Page, tc.query)
		s.Equal(3, body.PageCount, tc.query)
		s.Equal(250, body.Rows, tc.query)
		s.Require().Len(body.Records, tc.rows, tc.query)
		s.Equal(tc.firstTSD, body.Records[0]["TSD"], tc.query)
	}
}

func (s *ServerTestSuite) TestTableRejectsNonIntegerPage() {
	s.requireError(s.get("/api/v1/table?page=abc"), http.StatusBadRequest, "INVALID_PAGE")
}

func (s *ServerTestSuite) TestTableExportXLSX() {
	rec := s.get("/api/v1/table/export.xlsx?page=3")
	s.Require().Equal(http.StatusOK, rec.Code, rec.Body.String())
	s.Contains(rec.Header().Get("Content-Disposition"), "table-page-3.xlsx")

	f, err := excelize.OpenReader(bytes.NewReader(rec.Body.Bytes()))
	s.Require().NoError(err)
	defer f.Close()
	rows, err := f.GetRows("page")
	s.Require().NoError(err)
	s.Len(rows, 51)
	s.Equal("TSD", rows[0][3])
}

func (s *ServerTestSuite) TestChartFigure() {
	rec := s.get("/api/v1/chart?type=bar&group=SETTLEMENT_DATE&series=TSD,temp_c")
	s.Require().Equal(http.StatusOK, rec.Code, rec.Body.String())

	var body models.ChartResponse
	s.decode(rec, &body)
	s.Equal(1, body.Page)
	s.Equal("bar", body.Type)
	s.Equal([]string{"TSD", "temp_c"}, body.Series)
	s.Equal("TSD, temp_c by SETTLEMENT_DATE", body.Figure.Layout.Title)
	s.Equal("TSD, temp_c", body.Figure.Layout.YAxis.Title)
	s.Require().Len(body.Figure.Data, 2)

	tsd := body.Figure.Data[0]
	s.Equal("bar", tsd.Type)
	s.Require().Len(tsd.Y, 25)
	s.Equal("01-JAN-2017", tsd.X[0])
	s.InDelta(4006.0, tsd.Y[0], 1e-9)
	s.InDelta(20.0, body.Figure.Data[1].Y[0], 1e-9)
}

func (s *ServerTestSuite) TestChartDefaults() {
	rec := s.get("/api/v1/chart?page=2&series=TSD")
	s.Require().Equal(http.StatusOK, rec.Code, rec.Body.String())

	var body models.ChartResponse
	s.decode(rec, &body)
	s.Equal(2, body.Page)
	s.Equal("line", body.Type)
	s.Equal("SETTLEMENT_DATE", body.Group)
	s.Require().Len(body.Figure.Data, 1)
	s.Equal("lines+markers", body.Figure.Data[0].Mode)
	s.Len(body.Figure.Data[0].Y, 25)

	// Sums over groups add back up to the page total of TSD 1100..1199.
	total := 0.0
	for _, y := range body.Figure.Data[0].Y {
		total += y
	}
	s.InDelta(114950.0, total, 1e-6)
}

func (s *ServerTestSuite) TestChartWithoutSeries() {
	rec := s.get("/api/v1/chart")
	s.Require().Equal(http.StatusOK, rec.Code, rec.Body.String())

	var body models.ChartResponse
	s.decode(rec, &body)
	s.Empty(body.Figure.Data)
}

func (s *ServerTestSuite) TestChartErrors() {
	s.requireError(s.get("/api/v1/chart?group=nope&series=TSD"), http.StatusBadRequest, "UNKNOWN_COLUMN")
	s.requireError(s.get("/api/v1/chart?series=missing"), http.StatusBadRequest, "UNKNOWN_COLUMN")
	s.requireError(s.get("/api/v1/chart?series=observation_dtg_utc"), http.StatusBadRequest, "INVALID_SERIES")
	s.requireError(s.get("/api/v1/chart?group=TSD&series=TSD"), http.StatusBadRequest, "INVALID_SERIES")
	s.requireError(s.get("/api/v1/chart?type=pie&series=TSD"), http.StatusBadRequest, "INVALID_CHART_TYPE")
	s.requireError(s.get("/api/v1/chart?page=x"), http.StatusBadRequest, "INVALID_PAGE")
}

func (s *ServerTestSuite) TestChartImage() {
	rec := s.get("/api/v1/chart/image?series=TSD&series=temp_c")
	s.Require().Equal(http.StatusOK, rec.Code, rec.Body.String())
	s.Equal("image/svg+xml", rec.Header().Get("Content-Type"))
	s.Contains(rec.Body.String(), "<svg")

	rec = s.get("/api/v1/chart/image?format=png&type=bar&series=TSD")
	s.Require().Equal(http.StatusOK, rec.Code, rec.Body.String())
	s.Equal("image/png", rec.Header().Get("Content-Type"))
	s.True(bytes.HasPrefix(rec.Body.Bytes(), []byte("\x89PNG")))
}

func (s *ServerTestSuite) TestChartImageErrors() {
	s.requireError(s.get("/api/v1/chart/image?format=gif&series=TSD"), http.StatusBadRequest, "INVALID_FORMAT")
	s.requireError(s.get("/api/v1/chart/image"), http.StatusBadRequest, "INVALID_SERIES")
}

func (s *ServerTestSuite) TestChartExportPDF() {
	rec := s.get("/api/v1/chart/export.pdf?series=TSD")
	s.Require().Equal(http.StatusOK, rec.Code, rec.Body.String())
	s.Equal("application/pdf", rec.Header().Get("Content-Type"))
	s.True(bytes.HasPrefix(rec.Body.Bytes(), []byte("%PDF")))
}

func (s *ServerTestSuite) TestMetricsEndpoint() {
	s.get("/api/v1/table?page=2")
	s.get("/api/v1/chart?series=TSD")

	rec := s.get("/metrics")
	s.Require().Equal(http.StatusOK, rec.Code)
	body := rec.Body.String()
	s.Contains(body, `demand_dashboard_http_requests_total{route="/api/v1/table",status="200"} 1`)
	s.Contains(body, `demand_dashboard_chart_renders_total{kind="line",output="json"} 1`)
	s.Contains(body, "demand_dashboard_table_rows 250")
}

func (s *ServerTestSuite) TestCORS() {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/columns", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	rec := httptest.NewRecorder()
	s.server.Engine().ServeHTTP(rec, req)

	s.Equal(http.StatusOK, rec.Code)
	s.Equal("*", rec.Header().Get("Access-Control-Allow-Origin"))
}

func (s *ServerTestSuite) TestUnknownRoute() {
	s.requireError(s.get("/api/v2/nothing"), http.StatusNotFound, "NOT_FOUND")
}

func (s *ServerTestSuite) TestStaticFallback() {
	dir := s.T().TempDir()
	s.Require().NoError(os.WriteFile(filepath.Join(dir, "index.html"), []byte("<html>dashboard</html>"), 0o644))
	s.Require().NoError(os.MkdirAll(filepath.Join(dir, "assets"), 0o755))
	s.Require().NoError(os.WriteFile(filepath.Join(dir, "assets", "app.js"), []byte("console.log(1)"), 0o644))

	cfg := s.cfg
	cfg.Dashboard.StaticDir = dir
	s.server = New(cfg, s.table, nil, log.New(io.Discard))

	rec := s.get("/charts/page/2")
	s.Equal(http.StatusOK, rec.Code)
	s.Contains(rec.Body.String(), "dashboard")

	rec = s.get("/assets/app.js")
	s.Equal(http.StatusOK, rec.Code)
	s.Contains(rec.Body.String(), "console.log")

	s.requireError(s.get("/api/v1/unknown"), http.StatusNotFound, "NOT_FOUND")

	rec = s.get("/metrics")
	s.Equal(http.StatusOK, rec.Code)
	s.Contains(rec.Body.String(), "dashboard")
}

func (s *ServerTestSuite) TestPanicIsRecoveredLoggedAndCounted() {
	s.server.Engine().GET("/api/v1/explode", func(c *gin.Context) {
		panic("table exploded")
	})

	s.requireError(s.get("/api/v1/explode"), http.StatusInternalServerError, "INTERNAL_ERROR")

	rec := s.get("/metrics")
	s.Require().Equal(http.StatusOK, rec.Code)
	s.Contains(rec.Body.String(), `demand_dashboard_http_requests_total{route="/api/v1/explode",status="500"} 1`)
}
