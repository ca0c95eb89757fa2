package common

import (
	"strings"
	"testing"

	"github.com/quotelab/yfin-mcp/internal/yfin/models"
)

func TestFormatCurrency(t *testing.T) {
	tests := []struct {
		name     string
		value    models.Opt[float64]
		expected string
	}{
		{"absent", models.None[float64](), "N/A"},
		{"zero", models.Some(0.0), "$0.00"},
		{"small", models.Some(1.5), "$1.50"},
		{"grouped", models.Some(1234567.89), "$1,234,567.89"},
		{"negative", models.Some(-1.5), "-$1.50"},
		{"cents", models.Some(0.99), "$0.99"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatCurrency(tt.value); got != tt.expected {
				t.Errorf("FormatCurrency(%v) = %q, want %q", tt.value, got, tt.expected)
			}
		})
	}
}

func TestFormatLargeNumber(t *testing.T) {
	tests := []struct {
		name     string
		value    models.Opt[float64]
		expected string
	}{
		{"absent", models.None[float64](), "N/A"},
		{"below thousand", models.Some(999.99), "$999.99"},
		{"exactly thousand", models.Some(1000.0), "$1.00K"},
		{"thousands", models.Some(12340.0), "$12.34K"},
		{"exactly million", models.Some(1e6), "$1.00M"},
		{"millions", models.Some(987654321.0), "$987.65M"},
		{"billions", models.Some(2.5e9), "$2.50B"},
		{"trillions stay in B", models.Some(3.1e12), "$3100.00B"},
		{"negative billions", models.Some(-1.5e9), "$-1.50B"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatLargeNumber(tt.value); got != tt.expected {
				t.Errorf("FormatLargeNumber(%v) = %q, want %q", tt.value, got, tt.expected)
			}
		})
	}
}

func TestFormatPercent(t *testing.T) {
	if got := FormatPercent(models.Some(0.0056)); got != "0.56%" {
		t.Errorf("FormatPercent(0.0056) = %q, want 0.56%%", got)
	}
	if got := FormatPercent(models.Some(0.25)); got != "25.00%" {
		t.Errorf("FormatPercent(0.25) = %q, want 25.00%%", got)
	}
	if got := FormatPercent(models.None[float64]()); got != "N/A" {
		t.Errorf("FormatPercent(absent) = %q, want N/A", got)
	}
}

func TestFormatSignedPct(t *testing.T) {
	if got := FormatSignedPct(12.345); got != "+12.35%" {
		t.Errorf("FormatSignedPct(12.345) = %q, want +12.35%%", got)
	}
	if got := FormatSignedPct(-4.2); got != "-4.20%" {
		t.Errorf("FormatSignedPct(-4.2) = %q, want -4.20%%", got)
	}
	if got := FormatSignedPct(0); got != "+0.00%" {
		t.Errorf("FormatSignedPct(0) = %q, want +0.00%%", got)
	}
}

func TestFormatCount(t *testing.T) {
	if got := FormatCount(models.Some(int64(1234567))); got != "1,234,567" {
		t.Errorf("FormatCount(1234567) = %q, want 1,234,567", got)
	}
	if got := FormatCount(models.Some(int64(999))); got != "999" {
		t.Errorf("FormatCount(999) = %q, want 999", got)
	}
	if got := FormatCount(models.Some(int64(-12345))); got != "-12,345" {
		t.Errorf("FormatCount(-12345) = %q, want -12,345", got)
	}
	if got := FormatCount(models.None[int64]()); got != "N/A" {
		t.Errorf("FormatCount(absent) = %q, want N/A", got)
	}
}

func TestMarkdownTable_Empty(t *testing.T) {
	got := MarkdownTable([]string{"A", "B"}, nil, 10)
	if got != "No data available" {
		t.Errorf("MarkdownTable with no rows = %q, want 'No data available'", got)
	}
}

func TestMarkdownTable_Basic(t *testing.T) {
	got := MarkdownTable([]string{"Ticker", "Price"}, [][]string{
		{"AAPL", "$190.50"},
		{"MSFT", "$410.00"},
	}, 10)

	if !strings.Contains(got, "| Ticker | Price |") {
		t.Error("Table should contain header row")
	}
	if !strings.Contains(got, "|---|---|") {
		t.Error("Table should contain separator row")
	}
	if !strings.Contains(got, "| AAPL | $190.50 |") {
		t.Error("Table should contain data row")
	}
	if strings.Contains(got, "Showing first") {
		t.Error("Table under the cap should not carry a truncation footer")
	}
}

func TestMarkdownTable_RowCap(t *testing.T) {
	rows := make([][]string, 40)
	for i := range rows {
		rows[i] = []string{"row"}
	}
	got := MarkdownTable([]string{"Item"}, rows, 30)

	if !strings.Contains(got, "*Showing first 30 rows of 40 total*") {
		t.Errorf("Capped table should disclose omission, got %q", got)
	}
	if strings.Count(got, "| row |") != 30 {
		t.Errorf("Capped table should contain exactly 30 data rows, got %d", strings.Count(got, "| row |"))
	}
}

func TestMarkdownTable_ZeroCapMeansUnbounded(t *testing.T) {
	rows := make([][]string, 15)
	for i := range rows {
		rows[i] = []string{"row"}
	}
	got := MarkdownTable([]string{"Item"}, rows, 0)
	if strings.Contains(got, "Showing first") {
		t.Error("Unbounded table should never carry a truncation footer")
	}
	if strings.Count(got, "| row |") != 15 {
		t.Errorf("Unbounded table should contain all rows, got %d", strings.Count(got, "| row |"))
	}
}
