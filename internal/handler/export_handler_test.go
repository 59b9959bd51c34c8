package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rpxanalytics/portfolio-api/internal/domain"
	"github.com/rpxanalytics/portfolio-api/internal/logger"
)

func TestMain(m *testing.M) {
	logger.InitLogging("")
	os.Exit(m.Run())
}

type stubReportService struct {
	lastLoans     domain.LoansReportOptions
	lastPricing   domain.PricingReportOptions
	lastPortfolio domain.PortfolioReportOptions
	data          []byte
	err           error
}

func (s *stubReportService) LoansReport(_ context.Context, opts domain.LoansReportOptions) ([]byte, error) {
	s.lastLoans = opts
	return s.data, s.err
}

func (s *stubReportService) PricingResultsReport(_ context.Context, opts domain.PricingReportOptions) ([]byte, error) {
	s.lastPricing = opts
	return s.data, s.err
}

func (s *stubReportService) PortfolioAnalysisReport(_ context.Context, opts domain.PortfolioReportOptions) ([]byte, error) {
	s.lastPortfolio = opts
	return s.data, s.err
}

func (s *stubReportService) CompleteReport(_ context.Context) ([]byte, error) {
	return s.data, s.err
}

func doRequest(t *testing.T, target string, handle echo.HandlerFunc) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	require.NoError(t, handle(e.NewContext(req, rec)))
	return rec
}

func TestLoansExcelHandler(t *testing.T) {
	stub := &stubReportService{data: []byte("workbook")}
	h := NewExportHandler(stub)

	rec := doRequest(t, "/export/loans/excel?skip=10&limit=50&include_properties=false", h.LoansExcelHandler)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, contentTypeXLSX, rec.Header().Get(echo.HeaderContentType))

	wantName := "loans_export_" + time.Now().Format("20060102") + ".xlsx"
	assert.Equal(t, "attachment; filename="+wantName, rec.Header().Get(echo.HeaderContentDisposition))

	assert.Equal(t, 10, stub.lastLoans.Filter.Skip)
	assert.Equal(t, 50, stub.lastLoans.Filter.Limit)
	assert.False(t, stub.lastLoans.IncludeProperties)
}

func TestLoansExcelHandlerDefaults(t *testing.T) {
	stub := &stubReportService{data: []byte("workbook")}
	h := NewExportHandler(stub)

	rec := doRequest(t, "/export/loans/excel", h.LoansExcelHandler)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 0, stub.lastLoans.Filter.Skip)
	assert.True(t, stub.lastLoans.IncludeProperties)
}

func TestLoansExcelHandlerBadSkip(t *testing.T) {
	stub := &stubReportService{}
	h := NewExportHandler(stub)

	rec := doRequest(t, "/export/loans/excel?skip=abc", h.LoansExcelHandler)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestPricingResultsExcelHandlerFlags(t *testing.T) {
	stub := &stubReportService{data: []byte("workbook")}
	h := NewExportHandler(stub)

	rec := doRequest(t, "/export/pricing-results/excel?include_risk_metrics=false", h.PricingResultsExcelHandler)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.False(t, stub.lastPricing.IncludeRiskMetrics)
	assert.True(t, stub.lastPricing.IncludeMarketData)
	assert.True(t, strings.HasPrefix(rec.Header().Get(echo.HeaderContentDisposition), "attachment; filename=pricing_results_"))
}

func TestCompleteReportExcelHandlerError(t *testing.T) {
	stub := &stubReportService{err: assert.AnError}
	h := NewExportHandler(stub)

	rec := doRequest(t, "/export/complete-report/excel", h.CompleteReportExcelHandler)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestPortfolioAnalysisExcelHandlerFlags(t *testing.T) {
	stub := &stubReportService{data: []byte("workbook")}
	h := NewExportHandler(stub)

	rec := doRequest(t, "/export/portfolio-analysis/excel?include_individual_loans=false&include_portfolio_breakdown=true", h.PortfolioAnalysisExcelHandler)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.False(t, stub.lastPortfolio.IncludeIndividualLoans)
	assert.True(t, stub.lastPortfolio.IncludePortfolioBreakdown)
}
