package xlbook

import (
	"fmt"
	"time"

	"github.com/rpxanalytics/portfolio-api/pkg/auditfmt"
)

// Breakdown is one per-category analysis table, e.g. "Property Type"
// with one row per property type. The name becomes the sheet title
// with an "Analysis" suffix.
type Breakdown struct {
	Name string
	Data *Dataset
}

// ReportBuilder composes pre-fetched record sets into workbooks. It
// never fetches data itself and never errors on missing optional
// inputs; an empty optional dataset simply drops that sheet.
type ReportBuilder struct {
	asm    *auditfmt.Assembler
	writer *Writer
}

func NewReportBuilder(reg *auditfmt.Registry, opts Options) *ReportBuilder {
	return &ReportBuilder{
		asm:    auditfmt.NewAssembler(reg),
		writer: NewWriter(opts),
	}
}

// LoansReport builds the loans workbook: the audit-format loans sheet
// plus an optional property locations sheet. Zero loans still produce
// a headed, zero-row loans sheet.
func (b *ReportBuilder) LoansReport(loans []auditfmt.Record, properties *Dataset) ([]byte, error) {
	table, err := b.asm.Assemble(loans)
	if err != nil {
		return nil, fmt.Errorf("assemble loans: %w", err)
	}

	sheets := []Sheet{AuditSheet("Loans", table)}
	if !properties.Empty() {
		sheets = append(sheets, PlainSheet("Properties", GridFromDataset(properties)))
	}
	return b.writer.Write(sheets, nil)
}

// PricingResultsReport builds the pricing workbook: the audit-format
// pricing sheet plus optional summary, risk metrics and market data.
func (b *ReportBuilder) PricingResultsReport(pricing []auditfmt.Record, summary, risk *Dataset, benchmarks, spreads []auditfmt.Record) ([]byte, error) {
	table, err := b.asm.Assemble(pricing)
	if err != nil {
		return nil, fmt.Errorf("assemble pricing results: %w", err)
	}

	sheets := []Sheet{AuditSheet("Pricing Results", table)}
	if !summary.Empty() {
		sheets = append(sheets, PlainSheet("Portfolio Summary", GridFromDataset(summary)))
	}
	if !risk.Empty() {
		sheets = append(sheets, PlainSheet("Risk Metrics", GridFromDataset(risk)))
	}
	if market := marketDataGrid(benchmarks, spreads); len(market.Rows) > 0 {
		sheets = append(sheets, PlainSheet("Market Data", market))
	}
	return b.writer.Write(sheets, nil)
}

// PortfolioAnalysisReport builds the portfolio analysis workbook:
// summary, optional audit-format individual loans, and per-category
// breakdown sheets in the order supplied.
func (b *ReportBuilder) PortfolioAnalysisReport(summary *Dataset, loans []auditfmt.Record, breakdowns []Breakdown) ([]byte, error) {
	var sheets []Sheet
	if !summary.Empty() {
		sheets = append(sheets, PlainSheet("Portfolio Summary", GridFromDataset(summary)))
	}
	if len(loans) > 0 {
		table, err := b.asm.Assemble(loans)
		if err != nil {
			return nil, fmt.Errorf("assemble individual loans: %w", err)
		}
		sheets = append(sheets, AuditSheet("Individual Loans", table))
	}
	for _, bd := range breakdowns {
		if bd.Data.Empty() {
			continue
		}
		sheets = append(sheets, PlainSheet(bd.Name+" Analysis", GridFromDataset(bd.Data)))
	}
	return b.writer.Write(sheets, nil)
}

// CompleteReportInput carries everything the comprehensive report can
// include. All fields are optional except Pricing, which drives the
// audit-format sheet.
type CompleteReportInput struct {
	Loans      *Dataset
	Properties *Dataset
	Pricing    []auditfmt.Record
	Summary    *Dataset
	Risk       *Dataset
	Benchmarks []auditfmt.Record
	Spreads    []auditfmt.Record
}

// CompleteReport builds the full portfolio snapshot: a metadata sheet,
// raw source data, the audit-format pricing results and every analysis
// sheet that has rows.
func (b *ReportBuilder) CompleteReport(in CompleteReportInput) ([]byte, error) {
	table, err := b.asm.Assemble(in.Pricing)
	if err != nil {
		return nil, fmt.Errorf("assemble pricing results: %w", err)
	}

	var sheets []Sheet
	if !in.Loans.Empty() {
		sheets = append(sheets, PlainSheet("Source Loans", GridFromDataset(in.Loans)))
	}
	if !in.Properties.Empty() {
		sheets = append(sheets, PlainSheet("Properties", GridFromDataset(in.Properties)))
	}
	sheets = append(sheets, AuditSheet("Pricing Results", table))
	if !in.Summary.Empty() {
		sheets = append(sheets, PlainSheet("Portfolio Summary", GridFromDataset(in.Summary)))
	}
	if !in.Risk.Empty() {
		sheets = append(sheets, PlainSheet("Risk Metrics", GridFromDataset(in.Risk)))
	}
	if market := marketDataGrid(in.Benchmarks, in.Spreads); len(market.Rows) > 0 {
		sheets = append(sheets, PlainSheet("Market Data", market))
	}

	metadata := map[string]interface{}{
		"Report":           "RPX Loan Portfolio Analysis",
		"Total Loans":      loanCount(in),
		"Total Properties": 0,
		"Analysis Date":    time.Now().Format("2006-01-02"),
	}
	if in.Properties != nil {
		metadata["Total Properties"] = len(in.Properties.Records)
	}
	return b.writer.Write(sheets, metadata)
}

func loanCount(in CompleteReportInput) int {
	if in.Loans != nil {
		return len(in.Loans.Records)
	}
	return len(in.Pricing)
}

// marketDataGrid merges benchmark rates and credit spreads into one
// uniform sheet. Benchmark rates arriving as decimals (at or below 1)
// are scaled
// to the 0-100 display scale; spread rates arrive in basis points and
// are converted to decimals.
func marketDataGrid(benchmarks, spreads []auditfmt.Record) *Grid {
	grid := &Grid{Headers: []string{"Type", "Name", "Tenor", "Rate", "Effective Date"}}

	for _, bench := range benchmarks {
		grid.Rows = append(grid.Rows, []interface{}{
			"Benchmark",
			fieldString(bench, "benchmark_type"),
			fieldString(bench, "tenor"),
			benchmarkRate(bench),
			fieldCell(bench, "effective_date"),
		})
	}
	for _, spread := range spreads {
		grid.Rows = append(grid.Rows, []interface{}{
			"Credit Spread",
			fmt.Sprintf("%s - %s", fieldString(spread, "property_sector"), fieldString(spread, "term_bucket")),
			"",
			spreadRate(spread),
			fieldCell(spread, "effective_date"),
		})
	}
	return grid
}

func benchmarkRate(rec auditfmt.Record) interface{} {
	v, ok := rec.Field("rate")
	if !ok || v.IsAbsent() {
		return nil
	}
	f, ok := v.Float()
	if !ok {
		return nil
	}
	if f <= 1 {
		return f * 100
	}
	return f
}

func spreadRate(rec auditfmt.Record) interface{} {
	v, ok := rec.Field("spread_bps")
	if !ok || v.IsAbsent() {
		return nil
	}
	f, ok := v.Float()
	if !ok {
		return nil
	}
	return f / 10000
}

func fieldString(rec auditfmt.Record, name string) string {
	v, ok := rec.Field(name)
	if !ok {
		return ""
	}
	return v.DisplayString()
}

func fieldCell(rec auditfmt.Record, name string) interface{} {
	v, ok := rec.Field(name)
	if !ok {
		return nil
	}
	return v.Interface()
}
