package service

import (
	"bytes"
	"context"
	"errors"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/rpxanalytics/portfolio-api/internal/domain"
	"github.com/rpxanalytics/portfolio-api/internal/logger"
	"github.com/rpxanalytics/portfolio-api/pkg/auditfmt"
	"github.com/rpxanalytics/portfolio-api/pkg/xlbook"
)

func TestMain(m *testing.M) {
	logger.InitLogging("")
	os.Exit(m.Run())
}

type stubStore struct {
	pricing        *xlbook.Dataset
	loans          *xlbook.Dataset
	properties     *xlbook.Dataset
	risk           *xlbook.Dataset
	benchmarks     *xlbook.Dataset
	spreads        *xlbook.Dataset
	summary        *xlbook.Dataset
	byType         *xlbook.Dataset
	byStatus       *xlbook.Dataset
	riskErr        error
	benchErr       error
	lastFilter     domain.LoanFilter
	lastPropertyID []int64
}

func (s *stubStore) PricingRows(_ context.Context, f domain.LoanFilter) (*xlbook.Dataset, error) {
	s.lastFilter = f
	return orEmpty(s.pricing), nil
}

func (s *stubStore) SourceLoans(context.Context) (*xlbook.Dataset, error) {
	return orEmpty(s.loans), nil
}

func (s *stubStore) PropertiesForLoans(_ context.Context, ids []int64) (*xlbook.Dataset, error) {
	s.lastPropertyID = ids
	return orEmpty(s.properties), nil
}

func (s *stubStore) PropertiesAll(context.Context) (*xlbook.Dataset, error) {
	return orEmpty(s.properties), nil
}

func (s *stubStore) RiskMetrics(context.Context) (*xlbook.Dataset, error) {
	return orEmpty(s.risk), s.riskErr
}

func (s *stubStore) BenchmarkRates(context.Context) (*xlbook.Dataset, error) {
	return orEmpty(s.benchmarks), s.benchErr
}

func (s *stubStore) CreditSpreads(context.Context) (*xlbook.Dataset, error) {
	return orEmpty(s.spreads), nil
}

func (s *stubStore) PortfolioSummary(context.Context) (*xlbook.Dataset, error) {
	return orEmpty(s.summary), nil
}

func (s *stubStore) BreakdownByPropertyType(context.Context) (*xlbook.Dataset, error) {
	return orEmpty(s.byType), nil
}

func (s *stubStore) BreakdownByLoanStatus(context.Context) (*xlbook.Dataset, error) {
	return orEmpty(s.byStatus), nil
}

func orEmpty(ds *xlbook.Dataset) *xlbook.Dataset {
	if ds == nil {
		return &xlbook.Dataset{}
	}
	return ds
}

func newTestService(t *testing.T, store *stubStore) ReportService {
	t.Helper()
	reg, err := auditfmt.NewRegistry()
	require.NoError(t, err)
	return NewReportService(store, xlbook.NewReportBuilder(reg, xlbook.DefaultOptions()))
}

func sheetNames(t *testing.T, data []byte) []string {
	t.Helper()
	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()
	return f.GetSheetList()
}

func TestLoansReportPropertyLookupUsesLoanIDs(t *testing.T) {
	store := &stubStore{
		pricing: &xlbook.Dataset{
			Columns: []string{"loan_id"},
			Records: []auditfmt.Record{{"loan_id": int64(1001)}, {"loan_id": int64(1002)}},
		},
		properties: &xlbook.Dataset{
			Columns: []string{"rp_system_id"},
			Records: []auditfmt.Record{{"rp_system_id": int64(1001)}},
		},
	}
	svc := newTestService(t, store)

	data, err := svc.LoansReport(context.Background(), domain.LoansReportOptions{
		Filter:            domain.LoanFilter{Skip: 5, Limit: 10},
		IncludeProperties: true,
	})
	require.NoError(t, err)

	assert.Equal(t, domain.LoanFilter{Skip: 5, Limit: 10}, store.lastFilter)
	assert.Equal(t, []int64{1001, 1002}, store.lastPropertyID)
	assert.Equal(t, []string{"Loans", "Properties"}, sheetNames(t, data))
}

func TestLoansReportWithoutProperties(t *testing.T) {
	store := &stubStore{}
	svc := newTestService(t, store)

	data, err := svc.LoansReport(context.Background(), domain.LoansReportOptions{})
	require.NoError(t, err)

	assert.Nil(t, store.lastPropertyID)
	assert.Equal(t, []string{"Loans"}, sheetNames(t, data))
}

func TestPricingResultsReportFlags(t *testing.T) {
	store := &stubStore{
		pricing: &xlbook.Dataset{Columns: []string{"loan_id"}, Records: []auditfmt.Record{{"loan_id": 1}}},
		risk:    &xlbook.Dataset{Columns: []string{"loan_id"}, Records: []auditfmt.Record{{"loan_id": 1}}},
		benchmarks: &xlbook.Dataset{
			Columns: []string{"benchmark_type", "rate"},
			Records: []auditfmt.Record{{"benchmark_type": "SOFR", "rate": 0.05}},
		},
	}
	svc := newTestService(t, store)

	data, err := svc.PricingResultsReport(context.Background(), domain.PricingReportOptions{
		IncludeRiskMetrics: true,
		IncludeMarketData:  true,
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"Pricing Results", "Risk Metrics", "Market Data"}, sheetNames(t, data))

	data, err = svc.PricingResultsReport(context.Background(), domain.PricingReportOptions{})
	require.NoError(t, err)
	assert.Equal(t, []string{"Pricing Results"}, sheetNames(t, data))
}

func TestPricingResultsReportMarketDataFailure(t *testing.T) {
	store := &stubStore{
		pricing:  &xlbook.Dataset{Columns: []string{"loan_id"}, Records: []auditfmt.Record{{"loan_id": 1}}},
		benchErr: errors.New("view missing"),
	}
	svc := newTestService(t, store)

	// The dedicated pricing report surfaces market data failures.
	_, err := svc.PricingResultsReport(context.Background(), domain.PricingReportOptions{IncludeMarketData: true})
	require.Error(t, err)
}

func TestCompleteReportToleratesMissingViews(t *testing.T) {
	store := &stubStore{
		loans: &xlbook.Dataset{
			Columns: []string{"rp_system_id"},
			Records: []auditfmt.Record{{"rp_system_id": 1001}},
		},
		pricing: &xlbook.Dataset{
			Columns: []string{"loan_id", "current_balance", "fair_value_clean"},
			Records: []auditfmt.Record{{"loan_id": 1001, "current_balance": 500000.0, "fair_value_clean": 480000.0}},
		},
		riskErr:  errors.New("view missing"),
		benchErr: errors.New("view missing"),
	}
	svc := newTestService(t, store)

	// The complete snapshot still ships without the optional views.
	data, err := svc.CompleteReport(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"Report Info", "Source Loans", "Pricing Results", "Portfolio Summary"}, sheetNames(t, data))
}

func TestSummarize(t *testing.T) {
	pricing := &xlbook.Dataset{
		Columns: []string{"current_balance", "fair_value_clean"},
		Records: []auditfmt.Record{
			{"current_balance": 500000.0, "fair_value_clean": 480000.0},
			{"current_balance": 250000.0, "fair_value_clean": 255000.0},
		},
	}

	ds := summarize(pricing)
	require.NotNil(t, ds)
	require.Len(t, ds.Records, 1)

	rec := ds.Records[0]
	assert.Equal(t, 2, rec["total_loans"])
	assert.Equal(t, 750000.0, rec["total_balance"])
	assert.Equal(t, 735000.0, rec["total_fair_value"])
	assert.InDelta(t, 98.0, rec["avg_price"].(float64), 1e-9)

	assert.Nil(t, summarize(&xlbook.Dataset{}))
}
