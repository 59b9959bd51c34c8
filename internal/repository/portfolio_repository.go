package repository

import (
	"context"
	"database/sql"

	"github.com/lib/pq"

	"github.com/rpxanalytics/portfolio-api/internal/domain"
	"github.com/rpxanalytics/portfolio-api/internal/repository/builder"
	"github.com/rpxanalytics/portfolio-api/pkg/auditfmt"
	"github.com/rpxanalytics/portfolio-api/pkg/xlbook"
)

// pricingView is the layered materialized view holding one fully
// priced row per loan. The pricing engine refreshes it out of band;
// this repository only reads it.
const pricingView = "mv_pricing_engine_output_complete_v4_layered"

type portfolioRepository struct {
	db *sql.DB
}

// NewPortfolioRepository creates a new instance of PortfolioStore
func NewPortfolioRepository(db *sql.DB) domain.PortfolioStore {
	return &portfolioRepository{db: db}
}

func (r *portfolioRepository) PricingRows(ctx context.Context, filter domain.LoanFilter) (*xlbook.Dataset, error) {
	b := builder.NewSQLBuilder()
	b.Select("*").
		From(pricingView).
		OrderBy("loan_id ASC")

	if filter.Skip > 0 {
		b.Offset(filter.Skip)
	}
	if filter.Limit > 0 {
		b.Limit(filter.Limit)
	}

	query, args := b.Build()
	return r.queryDataset(ctx, query, args...)
}

func (r *portfolioRepository) SourceLoans(ctx context.Context) (*xlbook.Dataset, error) {
	b := builder.NewSQLBuilder()
	query, args := b.Select("*").
		From("loans").
		OrderBy("rp_system_id ASC").
		Build()
	return r.queryDataset(ctx, query, args...)
}

func (r *portfolioRepository) PropertiesForLoans(ctx context.Context, loanIDs []int64) (*xlbook.Dataset, error) {
	if len(loanIDs) == 0 {
		return &xlbook.Dataset{}, nil
	}
	b := builder.NewSQLBuilder()
	query, args := b.Select("*").
		From("loan_properties").
		Where("rp_system_id = ANY(?)", pq.Array(loanIDs)).
		OrderBy("rp_system_id ASC, property_number ASC").
		Build()
	return r.queryDataset(ctx, query, args...)
}

func (r *portfolioRepository) PropertiesAll(ctx context.Context) (*xlbook.Dataset, error) {
	b := builder.NewSQLBuilder()
	query, args := b.Select("*").
		From("loan_properties").
		OrderBy("rp_system_id ASC, property_number ASC").
		Build()
	return r.queryDataset(ctx, query, args...)
}

func (r *portfolioRepository) RiskMetrics(ctx context.Context) (*xlbook.Dataset, error) {
	b := builder.NewSQLBuilder()
	query, args := b.Select(
		"loan_id",
		"loan_name",
		"current_balance",
		"sector AS property_sector",
		"property_type",
		"loan_status",
		"borrower",
		"ltv_current",
		"dscr_current",
		"rpx_total_spread_bps AS total_rpx_adjustment_bps",
		"rpx_base_spread_bps AS effective_spread_bps",
		"fair_value_clean AS fair_value",
		"fair_value_dirty AS market_value",
	).
		From(pricingView).
		Where("ltv_current IS NOT NULL OR dscr_current IS NOT NULL").
		OrderBy("current_balance DESC").
		Build()
	return r.queryDataset(ctx, query, args...)
}

func (r *portfolioRepository) BenchmarkRates(ctx context.Context) (*xlbook.Dataset, error) {
	b := builder.NewSQLBuilder()
	query, args := b.Select("*").From("v_benchmark_current").Build()
	return r.queryDataset(ctx, query, args...)
}

func (r *portfolioRepository) CreditSpreads(ctx context.Context) (*xlbook.Dataset, error) {
	b := builder.NewSQLBuilder()
	query, args := b.Select("*").From("v_current_pricing_spreads").Build()
	return r.queryDataset(ctx, query, args...)
}

func (r *portfolioRepository) PortfolioSummary(ctx context.Context) (*xlbook.Dataset, error) {
	b := builder.NewSQLBuilder()
	query, args := b.Select(
		"COUNT(*) AS total_loans",
		"SUM(current_balance) AS total_current_balance",
		"SUM(original_balance) AS total_original_balance",
		"SUM(fair_value_clean) AS total_fair_value",
		"SUM(fair_value_dirty) AS total_market_value",
		"SUM(accrued_interest) AS total_accrued_interest",
		"SUM(gross_proceeds) AS total_investment_value",
		"AVG(price_clean_decimal) AS avg_price",
		"AVG(price_clean_pct) AS avg_price_pct",
		"AVG(wal_years) AS avg_wal_years",
		"AVG(modified_duration_years) AS avg_modified_duration",
		"AVG(rpx_total_spread_bps) AS avg_effective_spread_bps",
		"AVG(rpx_base_spread_bps) AS avg_rpx_adjustment_bps",
		"AVG(ltv_current) AS avg_ltv_current",
		"AVG(dscr_current) AS avg_dscr_current",
		"COUNT(CASE WHEN loan_status = 'Performing' THEN 1 END) AS performing_loans",
		"COUNT(CASE WHEN loan_status != 'Performing' THEN 1 END) AS non_performing_loans",
		"MAX(last_updated) AS last_update",
	).
		From(pricingView).
		Build()
	return r.queryDataset(ctx, query, args...)
}

func (r *portfolioRepository) BreakdownByPropertyType(ctx context.Context) (*xlbook.Dataset, error) {
	return r.breakdown(ctx, "COALESCE(property_type, 'Unknown')", "property_type")
}

func (r *portfolioRepository) BreakdownByLoanStatus(ctx context.Context) (*xlbook.Dataset, error) {
	return r.breakdown(ctx, "loan_status", "loan_status")
}

func (r *portfolioRepository) breakdown(ctx context.Context, categoryExpr, groupBy string) (*xlbook.Dataset, error) {
	b := builder.NewSQLBuilder()
	query, args := b.Select(
		categoryExpr+" AS category",
		"COUNT(*) AS loan_count",
		"SUM(current_balance) AS total_current_balance",
		"SUM(fair_value_clean) AS total_fair_value",
		"AVG(price_clean_pct) AS avg_price_pct",
		"AVG(wal_years) AS avg_wal_years",
		"AVG(rpx_total_spread_bps) AS avg_effective_spread_bps",
		"AVG(rpx_base_spread_bps) AS avg_rpx_adjustment_bps",
		"AVG(ltv_current) AS avg_ltv_current",
		"AVG(dscr_current) AS avg_dscr_current",
	).
		From(pricingView).
		GroupBy(groupBy).
		OrderBy("total_current_balance DESC").
		Build()
	return r.queryDataset(ctx, query, args...)
}

// queryDataset runs a query and scans every row into a field-name to
// value record, keeping the result set's column order. Column sets
// vary across views, so scanning is fully dynamic.
func (r *portfolioRepository) queryDataset(ctx context.Context, query string, args ...interface{}) (*xlbook.Dataset, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	ds := &xlbook.Dataset{Columns: cols}
	for rows.Next() {
		vals := make([]interface{}, len(cols))
		ptrs := make([]interface{}, len(cols))
		for i := range vals {
			ptrs[i] = &vals[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, err
		}
		rec := make(auditfmt.Record, len(cols))
		for i, col := range cols {
			rec[col] = vals[i]
		}
		ds.Records = append(ds.Records, rec)
	}
	return ds, rows.Err()
}
