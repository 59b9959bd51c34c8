package auditfmt

import "testing"

func TestNewRegistry(t *testing.T) {
	reg, err := NewRegistry()
	if err != nil {
		t.Fatalf("NewRegistry: %v", err)
	}
	if reg.Len() != AuditColumnCount {
		t.Fatalf("expected %d columns, got %d", AuditColumnCount, reg.Len())
	}

	// Positions are attached in order.
	for i, col := range reg.Columns() {
		if col.Position != i+1 {
			t.Errorf("column %d has position %d", i, col.Position)
		}
	}
}

func TestDuplicateAccruedInterestLabel(t *testing.T) {
	reg, err := NewRegistry()
	if err != nil {
		t.Fatalf("NewRegistry: %v", err)
	}

	var positions []int
	for _, col := range reg.Columns() {
		if col.Label == "Accrued Interest" {
			positions = append(positions, col.Position)
		}
	}
	if len(positions) != 2 || positions[0] != PosAccruedInterestAmount || positions[1] != PosAccruedInterestPct {
		t.Fatalf("expected Accrued Interest at positions %d and %d, got %v",
			PosAccruedInterestAmount, PosAccruedInterestPct, positions)
	}

	amount, _ := reg.ColumnAt(PosAccruedInterestAmount)
	pct, _ := reg.ColumnAt(PosAccruedInterestPct)
	if amount.Type != TypeCurrency {
		t.Errorf("position %d should be currency, got %s", PosAccruedInterestAmount, amount.Type)
	}
	if pct.Type != TypePercentage {
		t.Errorf("position %d should be percentage, got %s", PosAccruedInterestPct, pct.Type)
	}
	if amount.Strategy != StrategyOverride || pct.Strategy != StrategyOverride {
		t.Error("both Accrued Interest positions must use the override strategy")
	}

	// Label lookup is ambiguous for the duplicate; it reports the first
	// position only.
	pos, ok := reg.PositionOf("Accrued Interest")
	if !ok || pos != PosAccruedInterestAmount {
		t.Errorf("PositionOf(Accrued Interest) = %d, %v", pos, ok)
	}
}

func TestRegistryLabelsExact(t *testing.T) {
	reg, err := NewRegistry()
	if err != nil {
		t.Fatalf("NewRegistry: %v", err)
	}
	labels := reg.Labels()

	// The audit layout is an external contract; spot-check positions
	// whose exact spelling consumers depend on, misspellings included.
	want := map[int]string{
		1:  "Loan ID",
		20: "Current Balance - Includes Accrued Interest & PIK Interest",
		28: "Propoerty & Loan Commentary",
		39: "Becnhmark",
		47: "Upper  Fair Value Range - FV",
		56: "Conponent Yield",
		87: "New Loan to Portfolio?",
	}
	for pos, label := range want {
		if labels[pos-1] != label {
			t.Errorf("position %d: expected %q, got %q", pos, label, labels[pos-1])
		}
	}
}

func TestStrategyAssignment(t *testing.T) {
	reg, err := NewRegistry()
	if err != nil {
		t.Fatalf("NewRegistry: %v", err)
	}

	cases := []struct {
		position int
		want     Strategy
	}{
		{1, StrategyTransform},    // Loan ID: falls back to rp_system_id
		{2, StrategyDirect},       // Pricing Scenario: plain source field
		{3, StrategyTransform},    // Maturity Assumption: has a default
		{33, StrategyOverride},    // Accrued Interest dollar
		{36, StrategyOverride},    // Accrued Interest percentage
		{57, StrategyPlaceholder}, // delta columns carry no source yet
	}
	for _, tc := range cases {
		col, ok := reg.ColumnAt(tc.position)
		if !ok {
			t.Fatalf("missing column at %d", tc.position)
		}
		if col.Strategy != tc.want {
			t.Errorf("position %d: strategy %d, want %d", tc.position, col.Strategy, tc.want)
		}
	}
}

func TestColumnRangesCoverLayout(t *testing.T) {
	next := 1
	for _, r := range ColumnRanges {
		if r.Start != next {
			t.Errorf("range %s starts at %d, expected %d", r.Name, r.Start, next)
		}
		next = r.End + 1
	}
	if next != AuditColumnCount+1 {
		t.Errorf("ranges end at %d, expected %d", next-1, AuditColumnCount)
	}

	if _, ok := RangeForPosition(0); ok {
		t.Error("position 0 should have no range")
	}
	r, ok := RangeForPosition(36)
	if !ok || r.Name != "pricing" {
		t.Errorf("position 36: got range %q", r.Name)
	}
}
