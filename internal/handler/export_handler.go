package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/rpxanalytics/portfolio-api/internal/domain"
	"github.com/rpxanalytics/portfolio-api/internal/service"
	"github.com/rpxanalytics/portfolio-api/internal/service/serviceutils"
)

// MIME type for Office Open XML spreadsheets.
const contentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type ExportHandler struct {
	svc service.ReportService
}

func NewExportHandler(svc service.ReportService) *ExportHandler {
	return &ExportHandler{svc: svc}
}

// LoansExcelHandler handles GET /export/loans/excel.
func (h *ExportHandler) LoansExcelHandler(c echo.Context) error {
	skip, err := queryInt(c, "skip", 0)
	if err != nil || skip < 0 {
		return serviceutils.ResponseError(c, http.StatusBadRequest, "Invalid skip parameter", err)
	}
	limit, err := queryInt(c, "limit", 0)
	if err != nil || limit < 0 {
		return serviceutils.ResponseError(c, http.StatusBadRequest, "Invalid limit parameter", err)
	}

	opts := domain.LoansReportOptions{
		Filter:            domain.LoanFilter{Skip: skip, Limit: limit},
		IncludeProperties: queryBool(c, "include_properties", true),
	}

	data, err := h.svc.LoansReport(c.Request().Context(), opts)
	if err != nil {
		return serviceutils.ResponseError(c, http.StatusInternalServerError, "Failed to export loans", err)
	}
	return h.attachment(c, domain.ReportLoans, data)
}

// PricingResultsExcelHandler handles GET /export/pricing-results/excel.
func (h *ExportHandler) PricingResultsExcelHandler(c echo.Context) error {
	opts := domain.PricingReportOptions{
		IncludeRiskMetrics: queryBool(c, "include_risk_metrics", true),
		IncludeMarketData:  queryBool(c, "include_market_data", true),
	}

	data, err := h.svc.PricingResultsReport(c.Request().Context(), opts)
	if err != nil {
		return serviceutils.ResponseError(c, http.StatusInternalServerError, "Failed to export pricing results", err)
	}
	return h.attachment(c, domain.ReportPricingResults, data)
}

// PortfolioAnalysisExcelHandler handles GET /export/portfolio-analysis/excel.
func (h *ExportHandler) PortfolioAnalysisExcelHandler(c echo.Context) error {
	opts := domain.PortfolioReportOptions{
		IncludeIndividualLoans:    queryBool(c, "include_individual_loans", true),
		IncludePortfolioBreakdown: queryBool(c, "include_portfolio_breakdown", true),
	}

	data, err := h.svc.PortfolioAnalysisReport(c.Request().Context(), opts)
	if err != nil {
		return serviceutils.ResponseError(c, http.StatusInternalServerError, "Failed to export portfolio analysis", err)
	}
	return h.attachment(c, domain.ReportPortfolioAnalysis, data)
}

// CompleteReportExcelHandler handles GET /export/complete-report/excel.
func (h *ExportHandler) CompleteReportExcelHandler(c echo.Context) error {
	data, err := h.svc.CompleteReport(c.Request().Context())
	if err != nil {
		return serviceutils.ResponseError(c, http.StatusInternalServerError, "Failed to export complete report", err)
	}
	return h.attachment(c, domain.ReportComplete, data)
}

func (h *ExportHandler) attachment(c echo.Context, kind domain.ReportKind, data []byte) error {
	filename := service.ReportFilename(kind)
	c.Response().Header().Set(echo.HeaderContentDisposition, "attachment; filename="+filename)
	return c.Blob(http.StatusOK, contentTypeXLSX, data)
}

func queryInt(c echo.Context, name string, fallback int) (int, error) {
	raw := c.QueryParam(name)
	if raw == "" {
		return fallback, nil
	}
	return strconv.Atoi(raw)
}

func queryBool(c echo.Context, name string, fallback bool) bool {
	raw := c.QueryParam(name)
	if raw == "" {
		return fallback
	}
	b, err := strconv.ParseBool(raw)
	if err != nil {
		return fallback
	}
	return b
}
