package builder

import (
	"strings"
	"testing"
	"time"
)

func TestSQLBuilder(t *testing.T) {
	t.Run("Select", func(t *testing.T) {
		b := NewSQLBuilder()
		query, args := b.Select("loan_id", "loan_name").From("loans").Where("loan_id = ?", 1001).Build()
		expected := "SELECT loan_id, loan_name FROM loans WHERE loan_id = $1"
		if query != expected {
			t.Errorf("expected %s, got %s", expected, query)
		}
		if len(args) != 1 || args[0] != 1001 {
			t.Errorf("expected args [1001], got %v", args)
		}
	})

	t.Run("Insert", func(t *testing.T) {
		b := NewSQLBuilder()
		query, args := b.Insert("loans", "loan_name", "current_balance").Values("Main St Office", 500000).Build()
		expected := "INSERT INTO loans (loan_name, current_balance) VALUES ($1, $2)"
		if query != expected {
			t.Errorf("expected %s, got %s", expected, query)
		}
		if len(args) != 2 || args[0] != "Main St Office" || args[1] != 500000 {
			t.Errorf("expected args [Main St Office 500000], got %v", args)
		}
	})

	t.Run("Update", func(t *testing.T) {
		b := NewSQLBuilder()
		query, args := b.Update("loans").Set("loan_status", "Performing").Where("loan_id = ?", 1001).Build()
		expected := "UPDATE loans SET loan_status = $1 WHERE loan_id = $2"
		if query != expected {
			t.Errorf("expected %s, got %s", expected, query)
		}
		if len(args) != 2 || args[0] != "Performing" || args[1] != 1001 {
			t.Errorf("expected args [Performing 1001], got %v", args)
		}
	})

	t.Run("Select with pagination", func(t *testing.T) {
		b := NewSQLBuilder()
		query, _ := b.Select("*").
			From("mv_pricing_engine_output_complete_v4_layered").
			OrderBy("loan_id ASC").
			Offset(20).
			Limit(50).
			Build()

		expected := "SELECT * FROM mv_pricing_engine_output_complete_v4_layered ORDER BY loan_id ASC LIMIT 50 OFFSET 20"
		if query != expected {
			t.Errorf("expected %s, got %s", expected, query)
		}
	})

	t.Run("GroupBy", func(t *testing.T) {
		b := NewSQLBuilder()
		query, _ := b.Select("property_type", "COUNT(*) AS loan_count").
			From("loans").
			GroupBy("property_type").
			OrderBy("loan_count DESC").
			Build()

		expected := "SELECT property_type, COUNT(*) AS loan_count FROM loans GROUP BY property_type ORDER BY loan_count DESC"
		if query != expected {
			t.Errorf("expected %s, got %s", expected, query)
		}
	})
}

// Test enhancement features
func TestSQLBuilderEnhancements(t *testing.T) {
	t.Run("Or Operator", func(t *testing.T) {
		b := NewSQLBuilder()
		query, args := b.Select("loan_id", "loan_name", "sector").
			From("loans").
			Or("sector = ?", "Office").
			Or("sector = ?", "Retail").
			Build()

		expected := "SELECT loan_id, loan_name, sector FROM loans WHERE sector = $1 OR sector = $2"
		if query != expected {
			t.Errorf("expected %s, got %s", expected, query)
		}
		if len(args) != 2 || args[0] != "Office" || args[1] != "Retail" {
			t.Errorf("expected args [Office Retail], got %v", args)
		}
	})

	t.Run("WhereGroup with And conditions", func(t *testing.T) {
		testTime := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
		b := NewSQLBuilder()
		query, args := b.Select("l.loan_id", "l.loan_name", "p.property_name").
			From("loans l").
			Join("INNER", "loan_properties p", "l.rp_system_id = p.rp_system_id").
			WhereGroup(func(g *SQLBuilder) *SQLBuilder {
				return g.
					Where("loan_status = ?", "Performing").
					Where("origination_date > ?", testTime)
			}).
			Or("current_balance > ?", 1000000).
			Build()

		if !strings.Contains(query, "(loan_status = $1 AND origination_date > $2)") {
			t.Errorf("expected grouped condition, got %s", query)
		}
		if !strings.Contains(query, "OR current_balance > $3") {
			t.Errorf("expected OR condition, got %s", query)
		}
		if len(args) != 3 {
			t.Errorf("expected 3 args, got %d: %v", len(args), args)
		}
	})

	t.Run("WhereRaw with complex expression", func(t *testing.T) {
		b := NewSQLBuilder()
		query, args := b.Select("*").
			From("loans").
			WhereRaw("(current_balance BETWEEN ? AND ?) OR (loan_status = ?)", 500000, 1000000, "Watchlist").
			Build()

		expected := "SELECT * FROM loans WHERE (current_balance BETWEEN $1 AND $2) OR (loan_status = $3)"
		if query != expected {
			t.Errorf("expected %s, got %s", expected, query)
		}
		if len(args) != 3 || args[0] != 500000 || args[1] != 1000000 || args[2] != "Watchlist" {
			t.Errorf("expected args [500000 1000000 Watchlist], got %v", args)
		}
	})

	t.Run("BuildSafe with valid query", func(t *testing.T) {
		b := NewSQLBuilder()
		sql, args, err := b.Select("*").
			From("loans").
			Where("loan_id = ?", 1001).
			Where("loan_status = ?", "Performing").
			BuildSafe()

		if err != nil {
			t.Errorf("expected no error, got %v", err)
		}
		if len(args) != 2 {
			t.Errorf("expected 2 args, got %d", len(args))
		}
		if !strings.Contains(sql, "$1") || !strings.Contains(sql, "$2") {
			t.Errorf("expected placeholders $1 and $2 in %s", sql)
		}
	})

	t.Run("Combined Where and Or conditions", func(t *testing.T) {
		b := NewSQLBuilder()
		query, args := b.Select("*").
			From("loans").
			Where("loan_status = ?", "Performing").
			Or("sector = ?", "Office").
			Or("sector = ?", "Retail").
			Build()

		if !strings.Contains(query, "WHERE") {
			t.Errorf("expected WHERE clause in %s", query)
		}
		if len(args) != 3 {
			t.Errorf("expected 3 args, got %d: %v", len(args), args)
		}
	})

	t.Run("Multiple WhereRaw conditions", func(t *testing.T) {
		b := NewSQLBuilder()
		query, args := b.Select("*").
			From("loans").
			WhereRaw("current_balance > ?", 500000).
			WhereRaw("origination_date < ?", time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)).
			Build()

		if !strings.Contains(query, "WHERE") {
			t.Errorf("expected WHERE clause in %s", query)
		}
		if len(args) != 2 {
			t.Errorf("expected 2 args, got %d: %v", len(args), args)
		}
	})

	t.Run("Complex nested groups", func(t *testing.T) {
		b := NewSQLBuilder()
		query, args := b.Select("*").
			From("loans").
			Where("loan_status = ?", "Performing").
			WhereGroup(func(g *SQLBuilder) *SQLBuilder {
				return g.
					Where("sector = ?", "Office").
					Or("sector = ?", "Retail")
			}).
			Build()

		if !strings.Contains(query, "WHERE") {
			t.Errorf("expected WHERE clause in %s", query)
		}
		if len(args) != 3 {
			t.Errorf("expected 3 args, got %d: %v", len(args), args)
		}
	})

	t.Run("Update with Or conditions", func(t *testing.T) {
		b := NewSQLBuilder()
		query, args := b.Update("loans").
			Set("loan_status", "Matured").
			Or("sector = ?", "Office").
			Or("sector = ?", "Retail").
			Build()

		expected := "UPDATE loans SET loan_status = $1 WHERE sector = $2 OR sector = $3"
		if query != expected {
			t.Errorf("expected %s, got %s", expected, query)
		}
		if len(args) != 3 {
			t.Errorf("expected 3 args, got %d: %v", len(args), args)
		}
	})
}
