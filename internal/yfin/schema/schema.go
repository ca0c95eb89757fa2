// Package schema validates and normalizes caller-supplied tool arguments.
// Schemas are strict: unknown parameters are rejected outright so a typoed
// argument name surfaces immediately instead of being silently ignored.
// Validation happens before any upstream activity.
package schema

import (
	"fmt"
	"sort"
	"strings"
)

// Format selects the rendered output shape.
type Format string

const (
	FormatMarkdown Format = "markdown"
	FormatJSON     Format = "json"
)

// Period is a closed enumeration of upstream-recognized history spans.
type Period string

// Interval is a closed enumeration of upstream-recognized bar widths.
type Interval string

var validPeriods = []Period{"1d", "5d", "1mo", "3mo", "6mo", "1y", "2y", "5y", "10y", "ytd", "max"}

var validIntervals = []Interval{"1m", "2m", "5m", "15m", "30m", "60m", "90m", "1h", "1d", "5d", "1wk", "1mo", "3mo"}

// TickerInput is the normalized argument set for single-ticker tools.
type TickerInput struct {
	Ticker string
	Format Format
}

// HistoricalPriceInput is the normalized argument set for get_historical_prices.
type HistoricalPriceInput struct {
	Ticker   string
	Period   Period
	Interval Interval
	Format   Format
}

// MultiTickerInput is the normalized argument set for generic multi-ticker
// tools (1-20 symbols).
type MultiTickerInput struct {
	Tickers []string
	Format  Format
}

// CompareInput is the normalized argument set for compare_stocks (2-10 symbols).
type CompareInput struct {
	Tickers []string
	Format  Format
}

// NormalizeTicker trims, uppercases, and bounds-checks a ticker symbol.
// Normalization is idempotent.
func NormalizeTicker(raw string) (string, error) {
	t := strings.ToUpper(strings.TrimSpace(raw))
	if t == "" {
		return "", fmt.Errorf("ticker must not be empty")
	}
	if len(t) > 10 {
		return "", fmt.Errorf("ticker %q exceeds 10 characters", t)
	}
	return t, nil
}

// ParseTickerInput validates arguments for single-ticker tools.
func ParseTickerInput(args map[string]any) (TickerInput, error) {
	var in TickerInput
	if err := rejectUnknown(args, "ticker", "response_format"); err != nil {
		return in, err
	}

	ticker, err := tickerArg(args)
	if err != nil {
		return in, err
	}
	format, err := formatArg(args)
	if err != nil {
		return in, err
	}

	in.Ticker = ticker
	in.Format = format
	return in, nil
}

// ParseHistoricalPriceInput validates arguments for get_historical_prices.
func ParseHistoricalPriceInput(args map[string]any) (HistoricalPriceInput, error) {
	var in HistoricalPriceInput
	if err := rejectUnknown(args, "ticker", "period", "interval", "response_format"); err != nil {
		return in, err
	}

	ticker, err := tickerArg(args)
	if err != nil {
		return in, err
	}
	format, err := formatArg(args)
	if err != nil {
		return in, err
	}

	period := Period("1mo")
	if raw, ok, err := optionalString(args, "period"); err != nil {
		return in, err
	} else if ok {
		period = Period(raw)
		if !containsPeriod(period) {
			return in, fmt.Errorf("period must be one of %s, got %q", enumList(validPeriods), raw)
		}
	}

	interval := Interval("1d")
	if raw, ok, err := optionalString(args, "interval"); err != nil {
		return in, err
	} else if ok {
		interval = Interval(raw)
		if !containsInterval(interval) {
			return in, fmt.Errorf("interval must be one of %s, got %q", enumList(validIntervals), raw)
		}
	}

	in.Ticker = ticker
	in.Period = period
	in.Interval = interval
	in.Format = format
	return in, nil
}

// ParseMultiTickerInput validates arguments for multi-ticker tools (1-20 symbols).
func ParseMultiTickerInput(args map[string]any) (MultiTickerInput, error) {
	var in MultiTickerInput
	if err := rejectUnknown(args, "tickers", "response_format"); err != nil {
		return in, err
	}

	tickers, err := tickerListArg(args, 1, 20)
	if err != nil {
		return in, err
	}
	format, err := formatArg(args)
	if err != nil {
		return in, err
	}

	in.Tickers = tickers
	in.Format = format
	return in, nil
}

// ParseCompareInput validates arguments for compare_stocks (2-10 symbols).
func ParseCompareInput(args map[string]any) (CompareInput, error) {
	var in CompareInput
	if err := rejectUnknown(args, "tickers", "response_format"); err != nil {
		return in, err
	}

	tickers, err := tickerListArg(args, 2, 10)
	if err != nil {
		return in, err
	}
	format, err := formatArg(args)
	if err != nil {
		return in, err
	}

	in.Tickers = tickers
	in.Format = format
	return in, nil
}

// --- helpers ---

// rejectUnknown fails when args contains any key outside the allowed set.
func rejectUnknown(args map[string]any, allowed ...string) error {
	allowedSet := make(map[string]bool, len(allowed))
	for _, k := range allowed {
		allowedSet[k] = true
	}
	var unknown []string
	for k := range args {
		if !allowedSet[k] {
			unknown = append(unknown, k)
		}
	}
	if len(unknown) == 0 {
		return nil
	}
	sort.Strings(unknown)
	return fmt.Errorf("unknown parameter %q (allowed: %s)", unknown[0], strings.Join(allowed, ", "))
}

func tickerArg(args map[string]any) (string, error) {
	raw, ok := args["ticker"]
	if !ok {
		return "", fmt.Errorf("ticker parameter is required")
	}
	s, ok := raw.(string)
	if !ok {
		return "", fmt.Errorf("ticker must be a string")
	}
	return NormalizeTicker(s)
}

func tickerListArg(args map[string]any, min, max int) ([]string, error) {
	raw, ok := args["tickers"]
	if !ok {
		return nil, fmt.Errorf("tickers parameter is required")
	}

	var items []string
	switch v := raw.(type) {
	case []string:
		items = v
	case []any:
		items = make([]string, 0, len(v))
		for _, e := range v {
			s, ok := e.(string)
			if !ok {
				return nil, fmt.Errorf("tickers must be a list of strings")
			}
			items = append(items, s)
		}
	default:
		return nil, fmt.Errorf("tickers must be a list of strings")
	}

	if len(items) < min || len(items) > max {
		return nil, fmt.Errorf("tickers must contain between %d and %d symbols, got %d", min, max, len(items))
	}

	out := make([]string, 0, len(items))
	for _, raw := range items {
		t, err := NormalizeTicker(raw)
		if err != nil {
			return nil, fmt.Errorf("tickers: %w", err)
		}
		out = append(out, t)
	}
	return out, nil
}

func formatArg(args map[string]any) (Format, error) {
	raw, ok, err := optionalString(args, "response_format")
	if err != nil {
		return "", err
	}
	if !ok {
		return FormatMarkdown, nil
	}
	switch Format(raw) {
	case FormatMarkdown, FormatJSON:
		return Format(raw), nil
	default:
		return "", fmt.Errorf("response_format must be %q or %q, got %q", FormatMarkdown, FormatJSON, raw)
	}
}

func optionalString(args map[string]any, key string) (string, bool, error) {
	raw, ok := args[key]
	if !ok {
		return "", false, nil
	}
	s, ok := raw.(string)
	if !ok {
		return "", false, fmt.Errorf("%s must be a string", key)
	}
	return s, true, nil
}

func containsPeriod(p Period) bool {
	for _, v := range validPeriods {
		if v == p {
			return true
		}
	}
	return false
}

func containsInterval(i Interval) bool {
	for _, v := range validIntervals {
		if v == i {
			return true
		}
	}
	return false
}

func enumList[T ~string](vals []T) string {
	parts := make([]string, len(vals))
	for i, v := range vals {
		parts[i] = string(v)
	}
	return strings.Join(parts, "|")
}
