package domain

import (
	"context"

	"github.com/rpxanalytics/portfolio-api/pkg/xlbook"
)

// PortfolioStore defines read access to the loan portfolio data the
// exports are built from. Every method returns an empty dataset, not
// an error, when no rows match.
type PortfolioStore interface {
	// PricingRows returns fully priced loan rows from the layered
	// pricing materialized view, ordered by loan id.
	PricingRows(ctx context.Context, filter LoanFilter) (*xlbook.Dataset, error)

	// SourceLoans returns the raw loans table.
	SourceLoans(ctx context.Context) (*xlbook.Dataset, error)

	// PropertiesForLoans returns property locations for the given loan
	// ids. PropertiesAll returns every property on record.
	PropertiesForLoans(ctx context.Context, loanIDs []int64) (*xlbook.Dataset, error)
	PropertiesAll(ctx context.Context) (*xlbook.Dataset, error)

	// RiskMetrics returns the LTV/DSCR projection for loans that carry
	// at least one of the two ratios, largest balance first.
	RiskMetrics(ctx context.Context) (*xlbook.Dataset, error)

	// BenchmarkRates and CreditSpreads return the current market data
	// views.
	BenchmarkRates(ctx context.Context) (*xlbook.Dataset, error)
	CreditSpreads(ctx context.Context) (*xlbook.Dataset, error)

	// PortfolioSummary returns the single-row portfolio aggregate.
	PortfolioSummary(ctx context.Context) (*xlbook.Dataset, error)

	// BreakdownByPropertyType and BreakdownByLoanStatus return
	// per-category aggregates, largest balance first.
	BreakdownByPropertyType(ctx context.Context) (*xlbook.Dataset, error)
	BreakdownByLoanStatus(ctx context.Context) (*xlbook.Dataset, error)
}
