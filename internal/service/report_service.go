package service

import (
	"context"
	"time"

	"github.com/rpxanalytics/portfolio-api/internal/domain"
	"github.com/rpxanalytics/portfolio-api/internal/logger"
	"github.com/rpxanalytics/portfolio-api/pkg/auditfmt"
	"github.com/rpxanalytics/portfolio-api/pkg/xlbook"
)

// ReportService fetches portfolio data and hands it to the workbook
// builders. It owns the fetch orchestration per report kind; sheet
// composition lives in xlbook.
type ReportService interface {
	LoansReport(ctx context.Context, opts domain.LoansReportOptions) ([]byte, error)
	PricingResultsReport(ctx context.Context, opts domain.PricingReportOptions) ([]byte, error)
	PortfolioAnalysisReport(ctx context.Context, opts domain.PortfolioReportOptions) ([]byte, error)
	CompleteReport(ctx context.Context) ([]byte, error)
}

type reportService struct {
	store   domain.PortfolioStore
	builder *xlbook.ReportBuilder
}

// NewReportService creates a new instance of ReportService
func NewReportService(store domain.PortfolioStore, builder *xlbook.ReportBuilder) ReportService {
	return &reportService{store: store, builder: builder}
}

func (s *reportService) LoansReport(ctx context.Context, opts domain.LoansReportOptions) ([]byte, error) {
	loans, err := s.store.PricingRows(ctx, opts.Filter)
	if err != nil {
		return nil, err
	}

	var properties *xlbook.Dataset
	if opts.IncludeProperties {
		ids := loanIDs(loans)
		properties, err = s.store.PropertiesForLoans(ctx, ids)
		if err != nil {
			return nil, err
		}
	}

	logger.InfoLog(ctx, "Building loans report: %d loans, %d properties", datasetLen(loans), datasetLen(properties))
	return s.builder.LoansReport(loans.Records, properties)
}

func (s *reportService) PricingResultsReport(ctx context.Context, opts domain.PricingReportOptions) ([]byte, error) {
	pricing, err := s.store.PricingRows(ctx, domain.LoanFilter{})
	if err != nil {
		return nil, err
	}

	var risk *xlbook.Dataset
	if opts.IncludeRiskMetrics {
		risk, err = s.store.RiskMetrics(ctx)
		if err != nil {
			return nil, err
		}
	}

	var benchmarks, spreads []auditfmt.Record
	if opts.IncludeMarketData {
		benchmarks, spreads, err = s.marketData(ctx, false)
		if err != nil {
			return nil, err
		}
	}

	logger.InfoLog(ctx, "Building pricing results report: %d pricing rows", datasetLen(pricing))
	return s.builder.PricingResultsReport(pricing.Records, nil, risk, benchmarks, spreads)
}

func (s *reportService) PortfolioAnalysisReport(ctx context.Context, opts domain.PortfolioReportOptions) ([]byte, error) {
	summary, err := s.store.PortfolioSummary(ctx)
	if err != nil {
		return nil, err
	}

	var loans []auditfmt.Record
	if opts.IncludeIndividualLoans {
		ds, err := s.store.PricingRows(ctx, domain.LoanFilter{})
		if err != nil {
			return nil, err
		}
		loans = ds.Records
	}

	var breakdowns []xlbook.Breakdown
	if opts.IncludePortfolioBreakdown {
		byType, err := s.store.BreakdownByPropertyType(ctx)
		if err != nil {
			return nil, err
		}
		byStatus, err := s.store.BreakdownByLoanStatus(ctx)
		if err != nil {
			return nil, err
		}
		breakdowns = []xlbook.Breakdown{
			{Name: "Property Type", Data: byType},
			{Name: "Loan Status", Data: byStatus},
		}
	}

	logger.InfoLog(ctx, "Building portfolio analysis report: %d loans", len(loans))
	return s.builder.PortfolioAnalysisReport(summary, loans, breakdowns)
}

func (s *reportService) CompleteReport(ctx context.Context) ([]byte, error) {
	loans, err := s.store.SourceLoans(ctx)
	if err != nil {
		return nil, err
	}
	properties, err := s.store.PropertiesAll(ctx)
	if err != nil {
		return nil, err
	}
	pricing, err := s.store.PricingRows(ctx, domain.LoanFilter{})
	if err != nil {
		return nil, err
	}

	// Risk metrics and market data are best effort here: the complete
	// snapshot still ships without them when their views are missing.
	risk, err := s.store.RiskMetrics(ctx)
	if err != nil {
		logger.WarnLog(ctx, "Skipping risk metrics sheet: %v", err)
		risk = nil
	}
	benchmarks, spreads, err := s.marketData(ctx, true)
	if err != nil {
		return nil, err
	}

	logger.InfoLog(ctx, "Building complete report: %d loans, %d properties, %d pricing rows",
		datasetLen(loans), datasetLen(properties), datasetLen(pricing))
	return s.builder.CompleteReport(xlbook.CompleteReportInput{
		Loans:      loans,
		Properties: properties,
		Pricing:    pricing.Records,
		Summary:    summarize(pricing),
		Risk:       risk,
		Benchmarks: benchmarks,
		Spreads:    spreads,
	})
}

// marketData fetches the two current market views. With bestEffort
// set, a failing view is logged and skipped instead of failing the
// whole report.
func (s *reportService) marketData(ctx context.Context, bestEffort bool) (benchmarks, spreads []auditfmt.Record, err error) {
	bench, err := s.store.BenchmarkRates(ctx)
	if err != nil {
		if !bestEffort {
			return nil, nil, err
		}
		logger.WarnLog(ctx, "Skipping benchmark rates: %v", err)
	} else {
		benchmarks = bench.Records
	}

	sprd, err := s.store.CreditSpreads(ctx)
	if err != nil {
		if !bestEffort {
			return nil, nil, err
		}
		logger.WarnLog(ctx, "Skipping credit spreads: %v", err)
	} else {
		spreads = sprd.Records
	}
	return benchmarks, spreads, nil
}

// summarize derives the single-row portfolio summary from the pricing
// rows themselves. The complete report aggregates in process rather
// than leaning on a summary view.
func summarize(pricing *xlbook.Dataset) *xlbook.Dataset {
	if pricing.Empty() {
		return nil
	}

	var totalBalance, totalFairValue float64
	for _, rec := range pricing.Records {
		totalBalance += floatField(rec, "current_balance")
		totalFairValue += floatField(rec, "fair_value_clean")
	}

	avgPrice := 0.0
	if totalBalance > 0 {
		avgPrice = totalFairValue / totalBalance * 100
	}

	return &xlbook.Dataset{
		Columns: []string{"total_loans", "total_balance", "total_fair_value", "avg_price"},
		Records: []auditfmt.Record{{
			"total_loans":      len(pricing.Records),
			"total_balance":    totalBalance,
			"total_fair_value": totalFairValue,
			"avg_price":        avgPrice,
		}},
	}
}

func floatField(rec auditfmt.Record, name string) float64 {
	v, ok := rec.Field(name)
	if !ok {
		return 0
	}
	f, _ := v.Float()
	return f
}

func loanIDs(ds *xlbook.Dataset) []int64 {
	if ds == nil {
		return nil
	}
	ids := make([]int64, 0, len(ds.Records))
	for _, rec := range ds.Records {
		v, ok := rec.Field("loan_id")
		if !ok {
			continue
		}
		if id, ok := v.Int(); ok {
			ids = append(ids, id)
		}
	}
	return ids
}

func datasetLen(ds *xlbook.Dataset) int {
	if ds == nil {
		return 0
	}
	return len(ds.Records)
}

// ReportFilename names the generated document for download, stamping
// the current date.
func ReportFilename(kind domain.ReportKind) string {
	return string(kind) + "_" + time.Now().Format("20060102") + ".xlsx"
}
