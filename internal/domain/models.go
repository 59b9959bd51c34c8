package domain

// LoanFilter defines pagination for loan-level queries.
type LoanFilter struct {
	Skip  int
	Limit int
}

// ReportKind names the export recipes the service can produce. The
// string value is the filename prefix of the generated document.
type ReportKind string

const (
	ReportLoans             ReportKind = "loans_export"
	ReportPricingResults    ReportKind = "pricing_results"
	ReportPortfolioAnalysis ReportKind = "portfolio_analysis"
	ReportComplete          ReportKind = "rpx_complete_report"
)

// LoansReportOptions selects the optional sheets of the loans export.
type LoansReportOptions struct {
	Filter            LoanFilter
	IncludeProperties bool
}

// PricingReportOptions selects the optional sheets of the pricing
// results export.
type PricingReportOptions struct {
	IncludeRiskMetrics bool
	IncludeMarketData  bool
}

// PortfolioReportOptions selects the optional sheets of the portfolio
// analysis export.
type PortfolioReportOptions struct {
	IncludeIndividualLoans    bool
	IncludePortfolioBreakdown bool
}
