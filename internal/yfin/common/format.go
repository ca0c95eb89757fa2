package common

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/quotelab/yfin-mcp/internal/yfin/models"
)

// groupThousands renders an absolute float as "1,234.56".
func groupThousands(v float64) string {
	whole := int64(v)
	cents := int64((v-float64(whole))*100 + 0.5)
	if cents >= 100 {
		whole++
		cents -= 100
	}

	s := fmt.Sprintf("%d", whole)
	if len(s) > 3 {
		var parts []string
		for len(s) > 3 {
			parts = append([]string{s[len(s)-3:]}, parts...)
			s = s[:len(s)-3]
		}
		parts = append([]string{s}, parts...)
		s = strings.Join(parts, ",")
	}

	return fmt.Sprintf("%s.%02d", s, cents)
}

// FormatCurrency formats a value as a dollar amount with comma separators.
// Absent values render as the unavailable marker, unchanged.
func FormatCurrency(v models.Opt[float64]) string {
	if !v.Present {
		return models.Unavailable
	}
	f := v.Value
	if f < 0 {
		return "-$" + groupThousands(-f)
	}
	return "$" + groupThousands(f)
}

// FormatLargeNumber formats a value with a K/M/B suffix chosen so the scaled
// magnitude lands in [1, 1000); exactly 1000 rolls to the next suffix.
// Values below 1000 render as plain currency.
func FormatLargeNumber(v models.Opt[float64]) string {
	if !v.Present {
		return models.Unavailable
	}
	num := v.Value
	abs := num
	if abs < 0 {
		abs = -abs
	}
	switch {
	case abs >= 1e9:
		return fmt.Sprintf("$%.2fB", num/1e9)
	case abs >= 1e6:
		return fmt.Sprintf("$%.2fM", num/1e6)
	case abs >= 1e3:
		return fmt.Sprintf("$%.2fK", num/1e3)
	default:
		return fmt.Sprintf("$%.2f", num)
	}
}

// FormatPercent formats a numeric fraction as a percentage (x100, 2 decimals).
func FormatPercent(v models.Opt[float64]) string {
	if !v.Present {
		return models.Unavailable
	}
	return fmt.Sprintf("%.2f%%", v.Value*100)
}

// FormatSignedPct formats an already-scaled percentage with a +/- prefix.
func FormatSignedPct(v float64) string {
	if v >= 0 {
		return fmt.Sprintf("+%.2f%%", v)
	}
	return fmt.Sprintf("%.2f%%", v)
}

// FormatCount formats an integer count with comma separators.
func FormatCount(v models.Opt[int64]) string {
	if !v.Present {
		return models.Unavailable
	}
	n := v.Value
	neg := n < 0
	if neg {
		n = -n
	}
	s := strconv.FormatInt(n, 10)
	if len(s) > 3 {
		var parts []string
		for len(s) > 3 {
			parts = append([]string{s[len(s)-3:]}, parts...)
			s = s[:len(s)-3]
		}
		parts = append([]string{s}, parts...)
		s = strings.Join(parts, ",")
	}
	if neg {
		return "-" + s
	}
	return s
}

// FormatNumber renders a bare numeric value (ratios, beta) without a symbol.
func FormatNumber(v models.Opt[float64]) string {
	if !v.Present {
		return models.Unavailable
	}
	return strconv.FormatFloat(v.Value, 'f', -1, 64)
}

// MarkdownTable renders a rectangular record set as a markdown pipe table,
// bounded to maxRows. Over the cap only the head slice is emitted, with a
// footer disclosing the omission and the true total.
func MarkdownTable(headers []string, rows [][]string, maxRows int) string {
	if len(rows) == 0 {
		return "No data available"
	}

	total := len(rows)
	truncated := ""
	if maxRows > 0 && total > maxRows {
		rows = rows[:maxRows]
		truncated = fmt.Sprintf("\n\n*Showing first %d rows of %d total*", maxRows, total)
	}

	var sb strings.Builder
	sb.WriteString("| " + strings.Join(headers, " | ") + " |\n")
	seps := make([]string, len(headers))
	for i := range seps {
		seps[i] = "---"
	}
	sb.WriteString("|" + strings.Join(seps, "|") + "|\n")
	for _, row := range rows {
		sb.WriteString("| " + strings.Join(row, " | ") + " |\n")
	}
	return strings.TrimRight(sb.String(), "\n") + truncated
}
