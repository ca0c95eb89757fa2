package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/quotelab/yfin-mcp/internal/yfin/common"
	"github.com/quotelab/yfin-mcp/internal/yfin/models"
)

// --- Quote ---

// quoteChange derives the absolute and percentage change from the previous
// close. Both come back absent unless both prices are known and the previous
// close is nonzero.
func quoteChange(snap *models.QuoteSnapshot) (models.Opt[float64], models.Opt[float64]) {
	if !snap.CurrentPrice.Present || !snap.PreviousClose.Present || snap.PreviousClose.Value == 0 {
		return models.None[float64](), models.None[float64]()
	}
	change := snap.CurrentPrice.Value - snap.PreviousClose.Value
	return models.Some(change), models.Some(change / snap.PreviousClose.Value * 100)
}

func renderQuoteMarkdown(snap *models.QuoteSnapshot) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "# %s (%s)\n\n", snap.LongName.Or(snap.Ticker), snap.Ticker)
	fmt.Fprintf(&sb, "**Current Price:** %s\n", common.FormatCurrency(snap.CurrentPrice))

	if change, changePct, ok := changeValues(snap); ok {
		symbol := "🔺"
		if change < 0 {
			symbol = "🔻"
		}
		fmt.Fprintf(&sb, "**Change:** %s %s (%.2f%%)\n", symbol, common.FormatCurrency(models.Some(change)), changePct)
	}

	sb.WriteString("\n## Market Data\n")
	fmt.Fprintf(&sb, "- **Previous Close:** %s\n", common.FormatCurrency(snap.PreviousClose))
	fmt.Fprintf(&sb, "- **Open:** %s\n", common.FormatCurrency(snap.Open))
	fmt.Fprintf(&sb, "- **Day's Range:** %s - %s\n", common.FormatCurrency(snap.DayLow), common.FormatCurrency(snap.DayHigh))
	fmt.Fprintf(&sb, "- **52 Week Range:** %s - %s\n", common.FormatCurrency(snap.Week52Low), common.FormatCurrency(snap.Week52High))
	fmt.Fprintf(&sb, "- **Volume:** %s\n", common.FormatCount(snap.Volume))
	fmt.Fprintf(&sb, "- **Avg Volume:** %s\n", common.FormatCount(snap.AvgVolume))
	fmt.Fprintf(&sb, "- **Market Cap:** %s\n", common.FormatLargeNumber(snap.MarketCap))
	fmt.Fprintf(&sb, "- **Beta:** %s\n", common.FormatNumber(snap.Beta))
	fmt.Fprintf(&sb, "- **PE Ratio:** %s\n", common.FormatNumber(snap.TrailingPE))
	fmt.Fprintf(&sb, "- **EPS:** %s\n", common.FormatCurrency(snap.TrailingEPS))
	fmt.Fprintf(&sb, "- **Dividend Yield:** %s\n", common.FormatPercent(snap.DividendYield))

	sb.WriteString("\n## Company Info\n")
	fmt.Fprintf(&sb, "- **Sector:** %s\n", snap.Sector.Or(models.Unavailable))
	fmt.Fprintf(&sb, "- **Industry:** %s\n", snap.Industry.Or(models.Unavailable))
	fmt.Fprintf(&sb, "- **Website:** %s\n", snap.Website.Or(models.Unavailable))

	return sb.String()
}

func changeValues(snap *models.QuoteSnapshot) (float64, float64, bool) {
	change, changePct := quoteChange(snap)
	if !change.Present {
		return 0, 0, false
	}
	return change.Value, changePct.Value, true
}

func renderQuoteJSON(snap *models.QuoteSnapshot) (string, error) {
	change, changePct := quoteChange(snap)
	out := struct {
		Ticker           string              `json:"ticker"`
		LongName         models.Opt[string]  `json:"longName"`
		CurrentPrice     models.Opt[float64] `json:"currentPrice"`
		PreviousClose    models.Opt[float64] `json:"previousClose"`
		Change           models.Opt[float64] `json:"change"`
		ChangePercent    models.Opt[float64] `json:"changePercent"`
		Open             models.Opt[float64] `json:"open"`
		DayLow           models.Opt[float64] `json:"dayLow"`
		DayHigh          models.Opt[float64] `json:"dayHigh"`
		FiftyTwoWeekLow  models.Opt[float64] `json:"fiftyTwoWeekLow"`
		FiftyTwoWeekHigh models.Opt[float64] `json:"fiftyTwoWeekHigh"`
		Volume           models.Opt[int64]   `json:"volume"`
		AverageVolume    models.Opt[int64]   `json:"averageVolume"`
		MarketCap        models.Opt[float64] `json:"marketCap"`
		Beta             models.Opt[float64] `json:"beta"`
		TrailingPE       models.Opt[float64] `json:"trailingPE"`
		TrailingEps      models.Opt[float64] `json:"trailingEps"`
		DividendYield    models.Opt[float64] `json:"dividendYield"`
		Sector           models.Opt[string]  `json:"sector"`
		Industry         models.Opt[string]  `json:"industry"`
		Website          models.Opt[string]  `json:"website"`
	}{
		Ticker:           snap.Ticker,
		LongName:         snap.LongName,
		CurrentPrice:     snap.CurrentPrice,
		PreviousClose:    snap.PreviousClose,
		Change:           change,
		ChangePercent:    changePct,
		Open:             snap.Open,
		DayLow:           snap.DayLow,
		DayHigh:          snap.DayHigh,
		FiftyTwoWeekLow:  snap.Week52Low,
		FiftyTwoWeekHigh: snap.Week52High,
		Volume:           snap.Volume,
		AverageVolume:    snap.AvgVolume,
		MarketCap:        snap.MarketCap,
		Beta:             snap.Beta,
		TrailingPE:       snap.TrailingPE,
		TrailingEps:      snap.TrailingEPS,
		DividendYield:    snap.DividendYield,
		Sector:           snap.Sector,
		Industry:         snap.Industry,
		Website:          snap.Website,
	}
	data, err := json.MarshalIndent(out, "", "  ")
	return string(data), err
}

// --- Historical prices ---

func renderHistoryMarkdown(series *models.HistoricalSeries) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "# Historical Prices: %s\n\n", series.Ticker)
	fmt.Fprintf(&sb, "**Period:** %s | **Interval:** %s\n\n", series.Period, series.Interval)
	fmt.Fprintf(&sb, "**Date Range:** %s to %s\n",
		series.Bars[0].Time.Format("2006-01-02"),
		series.Bars[len(series.Bars)-1].Time.Format("2006-01-02"))
	fmt.Fprintf(&sb, "**Total Records:** %d\n\n", len(series.Bars))

	if summary, ok := series.Summary(); ok {
		sb.WriteString("## Summary Statistics\n\n")
		fmt.Fprintf(&sb, "- **Highest Close:** %s on %s\n",
			common.FormatCurrency(models.Some(summary.HighestClose)), summary.HighestCloseDate.Format("2006-01-02"))
		fmt.Fprintf(&sb, "- **Lowest Close:** %s on %s\n",
			common.FormatCurrency(models.Some(summary.LowestClose)), summary.LowestCloseDate.Format("2006-01-02"))
		fmt.Fprintf(&sb, "- **Average Close:** %s\n", common.FormatCurrency(models.Some(summary.MeanClose)))
		fmt.Fprintf(&sb, "- **Average Volume:** %s\n", common.FormatCount(models.Some(int64(summary.MeanVolume+0.5))))
		if summary.TotalReturnPct.Present {
			fmt.Fprintf(&sb, "- **Total Return:** %.2f%%\n", summary.TotalReturnPct.Value)
		}
	}

	sb.WriteString("\n## Recent Data\n\n")

	recent := series.Bars
	if len(recent) > 10 {
		recent = recent[len(recent)-10:]
	}
	rows := make([][]string, 0, len(recent))
	for _, bar := range recent {
		rows = append(rows, []string{
			bar.Time.Format("2006-01-02 15:04"),
			fmt.Sprintf("%.2f", bar.Open),
			fmt.Sprintf("%.2f", bar.High),
			fmt.Sprintf("%.2f", bar.Low),
			fmt.Sprintf("%.2f", bar.Close),
			common.FormatCount(models.Some(bar.Volume)),
		})
	}
	sb.WriteString(common.MarkdownTable([]string{"Date", "Open", "High", "Low", "Close", "Volume"}, rows, 0))

	if len(series.Bars) > 10 {
		fmt.Fprintf(&sb, "\n\n*Showing last 10 of %d records. Request more data if needed or use JSON format for complete data.*", len(series.Bars))
	}

	return sb.String()
}

func renderHistoryJSON(series *models.HistoricalSeries) (string, error) {
	type barJSON struct {
		Date   string  `json:"date"`
		Open   float64 `json:"open"`
		High   float64 `json:"high"`
		Low    float64 `json:"low"`
		Close  float64 `json:"close"`
		Volume int64   `json:"volume"`
	}
	bars := make([]barJSON, 0, len(series.Bars))
	for _, bar := range series.Bars {
		bars = append(bars, barJSON{
			Date:   bar.Time.Format("2006-01-02T15:04:05Z07:00"),
			Open:   bar.Open,
			High:   bar.High,
			Low:    bar.Low,
			Close:  bar.Close,
			Volume: bar.Volume,
		})
	}

	out := struct {
		Ticker       string    `json:"ticker"`
		Period       string    `json:"period"`
		Interval     string    `json:"interval"`
		TotalRecords int       `json:"totalRecords"`
		Data         []barJSON `json:"data"`
	}{series.Ticker, series.Period, series.Interval, len(bars), bars}

	data, err := json.MarshalIndent(out, "", "  ")
	return string(data), err
}

// --- Company profile ---

func renderProfileMarkdown(p *models.CompanyProfile) string {
	var sb strings.Builder
	q := &p.Quote

	fmt.Fprintf(&sb, "# %s (%s)\n\n", q.LongName.Or(q.Ticker), q.Ticker)

	sb.WriteString("## Business Summary\n\n")
	fmt.Fprintf(&sb, "%s\n\n", p.BusinessSummary.Or("No description available"))

	sb.WriteString("## Company Details\n\n")
	fmt.Fprintf(&sb, "- **Sector:** %s\n", q.Sector.Or(models.Unavailable))
	fmt.Fprintf(&sb, "- **Industry:** %s\n", q.Industry.Or(models.Unavailable))
	fmt.Fprintf(&sb, "- **Full Time Employees:** %s\n", common.FormatCount(p.Employees))
	fmt.Fprintf(&sb, "- **Website:** %s\n", q.Website.Or(models.Unavailable))
	fmt.Fprintf(&sb, "- **Address:** %s, %s, %s %s\n",
		p.Address.Or(models.Unavailable), p.City.Or(models.Unavailable),
		p.State.Or(models.Unavailable), p.Zip.Or(models.Unavailable))
	fmt.Fprintf(&sb, "- **Country:** %s\n", p.Country.Or(models.Unavailable))
	fmt.Fprintf(&sb, "- **Phone:** %s\n\n", p.Phone.Or(models.Unavailable))

	if len(p.Officers) > 0 {
		sb.WriteString("## Key Executives\n\n")
		officers := p.Officers
		if len(officers) > 5 {
			officers = officers[:5]
		}
		for _, o := range officers {
			fmt.Fprintf(&sb, "- **%s** - %s", o.Name, o.Title)
			if o.TotalPay.Present && o.TotalPay.Value != 0 {
				fmt.Fprintf(&sb, " (Compensation: %s)", common.FormatLargeNumber(o.TotalPay))
			}
			sb.WriteString("\n")
		}
		sb.WriteString("\n")
	}

	sb.WriteString("## Key Statistics\n\n")
	fmt.Fprintf(&sb, "- **Market Cap:** %s\n", common.FormatLargeNumber(q.MarketCap))
	fmt.Fprintf(&sb, "- **Enterprise Value:** %s\n", common.FormatLargeNumber(p.EnterpriseValue))
	fmt.Fprintf(&sb, "- **PE Ratio (Trailing):** %s\n", common.FormatNumber(q.TrailingPE))
	fmt.Fprintf(&sb, "- **PE Ratio (Forward):** %s\n", common.FormatNumber(p.ForwardPE))
	fmt.Fprintf(&sb, "- **PEG Ratio:** %s\n", common.FormatNumber(p.PegRatio))
	fmt.Fprintf(&sb, "- **Price to Book:** %s\n", common.FormatNumber(p.PriceToBook))
	fmt.Fprintf(&sb, "- **Price to Sales:** %s\n", common.FormatNumber(p.PriceToSales))
	fmt.Fprintf(&sb, "- **EPS (Trailing):** %s\n", common.FormatCurrency(q.TrailingEPS))
	fmt.Fprintf(&sb, "- **EPS (Forward):** %s\n", common.FormatCurrency(p.ForwardEPS))
	fmt.Fprintf(&sb, "- **Dividend Rate:** %s\n", common.FormatCurrency(p.DividendRate))
	fmt.Fprintf(&sb, "- **Dividend Yield:** %s\n", common.FormatPercent(q.DividendYield))
	fmt.Fprintf(&sb, "- **Ex-Dividend Date:** %s\n", p.ExDividendDate.Or(models.Unavailable))
	fmt.Fprintf(&sb, "- **Beta:** %s\n", common.FormatNumber(q.Beta))
	fmt.Fprintf(&sb, "- **52 Week High:** %s\n", common.FormatCurrency(q.Week52High))
	fmt.Fprintf(&sb, "- **52 Week Low:** %s\n", common.FormatCurrency(q.Week52Low))
	fmt.Fprintf(&sb, "- **50 Day Avg:** %s\n", common.FormatCurrency(p.FiftyDayAvg))
	fmt.Fprintf(&sb, "- **200 Day Avg:** %s\n", common.FormatCurrency(p.TwoHundredDayAvg))
	fmt.Fprintf(&sb, "- **Shares Outstanding:** %s\n", common.FormatCount(p.SharesOutstanding))
	fmt.Fprintf(&sb, "- **Float Shares:** %s\n", common.FormatCount(p.FloatShares))

	sb.WriteString("\n## Financial Highlights\n\n")
	fmt.Fprintf(&sb, "- **Revenue:** %s\n", common.FormatLargeNumber(p.TotalRevenue))
	fmt.Fprintf(&sb, "- **Revenue Per Share:** %s\n", common.FormatCurrency(p.RevenuePerShare))
	fmt.Fprintf(&sb, "- **Profit Margin:** %s\n", common.FormatPercent(p.ProfitMargins))
	fmt.Fprintf(&sb, "- **Operating Margin:** %s\n", common.FormatPercent(p.OperatingMargins))
	fmt.Fprintf(&sb, "- **ROA (Return on Assets):** %s\n", common.FormatPercent(p.ReturnOnAssets))
	fmt.Fprintf(&sb, "- **ROE (Return on Equity):** %s\n", common.FormatPercent(p.ReturnOnEquity))
	fmt.Fprintf(&sb, "- **Total Cash:** %s\n", common.FormatLargeNumber(p.TotalCash))
	fmt.Fprintf(&sb, "- **Total Debt:** %s\n", common.FormatLargeNumber(p.TotalDebt))
	fmt.Fprintf(&sb, "- **Debt to Equity:** %s\n", common.FormatNumber(p.DebtToEquity))
	fmt.Fprintf(&sb, "- **Current Ratio:** %s\n", common.FormatNumber(p.CurrentRatio))
	fmt.Fprintf(&sb, "- **Free Cash Flow:** %s\n", common.FormatLargeNumber(p.FreeCashflow))

	return sb.String()
}

func renderProfileJSON(p *models.CompanyProfile) (string, error) {
	type officerJSON struct {
		Name     string              `json:"name"`
		Title    string              `json:"title"`
		TotalPay models.Opt[float64] `json:"totalPay"`
	}
	officers := make([]officerJSON, 0, len(p.Officers))
	for _, o := range p.Officers {
		officers = append(officers, officerJSON{o.Name, o.Title, o.TotalPay})
	}
	q := &p.Quote

	out := struct {
		Ticker            string              `json:"ticker"`
		LongName          models.Opt[string]  `json:"longName"`
		BusinessSummary   models.Opt[string]  `json:"longBusinessSummary"`
		Sector            models.Opt[string]  `json:"sector"`
		Industry          models.Opt[string]  `json:"industry"`
		Website           models.Opt[string]  `json:"website"`
		Address           models.Opt[string]  `json:"address1"`
		City              models.Opt[string]  `json:"city"`
		State             models.Opt[string]  `json:"state"`
		Zip               models.Opt[string]  `json:"zip"`
		Country           models.Opt[string]  `json:"country"`
		Phone             models.Opt[string]  `json:"phone"`
		FullTimeEmployees models.Opt[int64]   `json:"fullTimeEmployees"`
		CompanyOfficers   []officerJSON       `json:"companyOfficers"`
		CurrentPrice      models.Opt[float64] `json:"currentPrice"`
		MarketCap         models.Opt[float64] `json:"marketCap"`
		EnterpriseValue   models.Opt[float64] `json:"enterpriseValue"`
		TrailingPE        models.Opt[float64] `json:"trailingPE"`
		ForwardPE         models.Opt[float64] `json:"forwardPE"`
		PegRatio          models.Opt[float64] `json:"pegRatio"`
		PriceToBook       models.Opt[float64] `json:"priceToBook"`
		PriceToSales      models.Opt[float64] `json:"priceToSalesTrailing12Months"`
		TrailingEps       models.Opt[float64] `json:"trailingEps"`
		ForwardEps        models.Opt[float64] `json:"forwardEps"`
		DividendRate      models.Opt[float64] `json:"dividendRate"`
		DividendYield     models.Opt[float64] `json:"dividendYield"`
		ExDividendDate    models.Opt[string]  `json:"exDividendDate"`
		Beta              models.Opt[float64] `json:"beta"`
		FiftyTwoWeekHigh  models.Opt[float64] `json:"fiftyTwoWeekHigh"`
		FiftyTwoWeekLow   models.Opt[float64] `json:"fiftyTwoWeekLow"`
		FiftyDayAverage   models.Opt[float64] `json:"fiftyDayAverage"`
		TwoHundredDayAvg  models.Opt[float64] `json:"twoHundredDayAverage"`
		SharesOutstanding models.Opt[int64]   `json:"sharesOutstanding"`
		FloatShares       models.Opt[int64]   `json:"floatShares"`
		TotalRevenue      models.Opt[float64] `json:"totalRevenue"`
		RevenuePerShare   models.Opt[float64] `json:"revenuePerShare"`
		ProfitMargins     models.Opt[float64] `json:"profitMargins"`
		OperatingMargins  models.Opt[float64] `json:"operatingMargins"`
		ReturnOnAssets    models.Opt[float64] `json:"returnOnAssets"`
		ReturnOnEquity    models.Opt[float64] `json:"returnOnEquity"`
		TotalCash         models.Opt[float64] `json:"totalCash"`
		TotalDebt         models.Opt[float64] `json:"totalDebt"`
		DebtToEquity      models.Opt[float64] `json:"debtToEquity"`
		CurrentRatio      models.Opt[float64] `json:"currentRatio"`
		FreeCashflow      models.Opt[float64] `json:"freeCashflow"`
	}{
		Ticker:            q.Ticker,
		LongName:          q.LongName,
		BusinessSummary:   p.BusinessSummary,
		Sector:            q.Sector,
		Industry:          q.Industry,
		Website:           q.Website,
		Address:           p.Address,
		City:              p.City,
		State:             p.State,
		Zip:               p.Zip,
		Country:           p.Country,
		Phone:             p.Phone,
		FullTimeEmployees: p.Employees,
		CompanyOfficers:   officers,
		CurrentPrice:      q.CurrentPrice,
		MarketCap:         q.MarketCap,
		EnterpriseValue:   p.EnterpriseValue,
		TrailingPE:        q.TrailingPE,
		ForwardPE:         p.ForwardPE,
		PegRatio:          p.PegRatio,
		PriceToBook:       p.PriceToBook,
		PriceToSales:      p.PriceToSales,
		TrailingEps:       q.TrailingEPS,
		ForwardEps:        p.ForwardEPS,
		DividendRate:      p.DividendRate,
		DividendYield:     q.DividendYield,
		ExDividendDate:    p.ExDividendDate,
		Beta:              q.Beta,
		FiftyTwoWeekHigh:  q.Week52High,
		FiftyTwoWeekLow:   q.Week52Low,
		FiftyDayAverage:   p.FiftyDayAvg,
		TwoHundredDayAvg:  p.TwoHundredDayAvg,
		SharesOutstanding: p.SharesOutstanding,
		FloatShares:       p.FloatShares,
		TotalRevenue:      p.TotalRevenue,
		RevenuePerShare:   p.RevenuePerShare,
		ProfitMargins:     p.ProfitMargins,
		OperatingMargins:  p.OperatingMargins,
		ReturnOnAssets:    p.ReturnOnAssets,
		ReturnOnEquity:    p.ReturnOnEquity,
		TotalCash:         p.TotalCash,
		TotalDebt:         p.TotalDebt,
		DebtToEquity:      p.DebtToEquity,
		CurrentRatio:      p.CurrentRatio,
		FreeCashflow:      p.FreeCashflow,
	}
	data, err := json.MarshalIndent(out, "", "  ")
	return string(data), err
}

// --- Financial statements ---

func statementTable(stmt models.Statement) string {
	headers := append([]string{"Item"}, stmt.Columns...)
	rows := make([][]string, 0, len(stmt.Rows))
	for _, row := range stmt.Rows {
		cells := make([]string, 0, len(row.Values)+1)
		cells = append(cells, row.Item)
		for _, v := range row.Values {
			cells = append(cells, common.FormatLargeNumber(v))
		}
		rows = append(rows, cells)
	}
	return common.MarkdownTable(headers, rows, 30)
}

func renderStatementsMarkdown(s *models.FinancialStatements) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "# Financial Statements: %s\n\n", s.Ticker)

	// Empty statements are omitted entirely rather than rendered as empty
	// tables.
	if !s.Income.Empty() {
		sb.WriteString("## Income Statement (Annual)\n\n")
		sb.WriteString(statementTable(s.Income))
		sb.WriteString("\n\n")
	}
	if !s.BalanceSheet.Empty() {
		sb.WriteString("## Balance Sheet (Annual)\n\n")
		sb.WriteString(statementTable(s.BalanceSheet))
		sb.WriteString("\n\n")
	}
	if !s.CashFlow.Empty() {
		sb.WriteString("## Cash Flow Statement (Annual)\n\n")
		sb.WriteString(statementTable(s.CashFlow))
		sb.WriteString("\n\n")
	}

	sb.WriteString("*Note: Use JSON format for complete data export.*")
	return sb.String()
}

// statementMap flattens a statement to column -> line item -> value.
func statementMap(stmt models.Statement) map[string]map[string]models.Opt[float64] {
	out := make(map[string]map[string]models.Opt[float64], len(stmt.Columns))
	for i, col := range stmt.Columns {
		items := make(map[string]models.Opt[float64], len(stmt.Rows))
		for _, row := range stmt.Rows {
			if i < len(row.Values) && row.Values[i].Present {
				items[row.Item] = row.Values[i]
			}
		}
		out[col] = items
	}
	return out
}

func renderStatementsJSON(s *models.FinancialStatements) (string, error) {
	// All three keys are always present; an empty statement is an empty map.
	out := struct {
		Ticker          string                                    `json:"ticker"`
		IncomeStatement map[string]map[string]models.Opt[float64] `json:"incomeStatement"`
		BalanceSheet    map[string]map[string]models.Opt[float64] `json:"balanceSheet"`
		CashFlow        map[string]map[string]models.Opt[float64] `json:"cashFlow"`
	}{
		Ticker:          s.Ticker,
		IncomeStatement: statementMap(s.Income),
		BalanceSheet:    statementMap(s.BalanceSheet),
		CashFlow:        statementMap(s.CashFlow),
	}
	data, err := json.MarshalIndent(out, "", "  ")
	return string(data), err
}

// --- Comparison ---

func renderComparisonMarkdown(tickers []string, rows []models.ComparisonRow) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "# Stock Comparison: %s\n\n", strings.Join(tickers, ", "))

	headers := []string{"Ticker", "Name", "Price", "Change%", "Market Cap", "PE", "EPS", "Div Yield", "Beta", "52Wk High", "52Wk Low", "Volume", "Avg Volume", "Sector", "Industry"}
	tableRows := make([][]string, 0, len(rows))
	for i := range rows {
		row := &rows[i]
		if row.Failed() {
			cells := make([]string, len(headers))
			cells[0] = row.Ticker
			for j := 1; j < len(cells); j++ {
				cells[j] = models.Unavailable
			}
			tableRows = append(tableRows, cells)
			continue
		}
		q := row.Quote
		tableRows = append(tableRows, []string{
			q.Ticker,
			q.LongName.Or(q.Ticker),
			common.FormatCurrency(q.CurrentPrice),
			common.FormatNumber(q.ChangePct),
			common.FormatLargeNumber(q.MarketCap),
			common.FormatNumber(q.TrailingPE),
			common.FormatCurrency(q.TrailingEPS),
			common.FormatPercent(q.DividendYield),
			common.FormatNumber(q.Beta),
			common.FormatCurrency(q.Week52High),
			common.FormatCurrency(q.Week52Low),
			common.FormatCount(q.Volume),
			common.FormatCount(q.AvgVolume),
			q.Sector.Or(models.Unavailable),
			q.Industry.Or(models.Unavailable),
		})
	}
	sb.WriteString(common.MarkdownTable(headers, tableRows, 0))

	var failed []*models.ComparisonRow
	for i := range rows {
		if rows[i].Failed() {
			failed = append(failed, &rows[i])
		}
	}
	if len(failed) > 0 {
		sb.WriteString("\n\n**Errors:**\n")
		for _, row := range failed {
			fmt.Fprintf(&sb, "- **%s:** %s\n", row.Ticker, row.Err)
		}
	}

	sb.WriteString("\n\n## Key Insights\n\n")
	sb.WriteString(comparisonInsights(rows))

	return sb.String()
}

// comparisonInsights derives superlatives over the error-free rows. Ties keep
// the first-seen ticker.
func comparisonInsights(rows []models.ComparisonRow) string {
	var sb strings.Builder

	best := func(pick func(q *models.QuoteSnapshot) models.Opt[float64]) (*models.QuoteSnapshot, bool) {
		var winner *models.QuoteSnapshot
		var winning float64
		for i := range rows {
			if rows[i].Failed() {
				continue
			}
			q := rows[i].Quote
			v := pick(q)
			if !v.Present {
				continue
			}
			if winner == nil || v.Value > winning {
				winner = q
				winning = v.Value
			}
		}
		return winner, winner != nil
	}

	if q, ok := best(func(q *models.QuoteSnapshot) models.Opt[float64] { return q.CurrentPrice }); ok {
		fmt.Fprintf(&sb, "- **Highest Price:** %s at %s\n", q.Ticker, common.FormatCurrency(q.CurrentPrice))
	}
	if q, ok := best(func(q *models.QuoteSnapshot) models.Opt[float64] { return q.MarketCap }); ok {
		fmt.Fprintf(&sb, "- **Largest Market Cap:** %s at %s\n", q.Ticker, common.FormatLargeNumber(q.MarketCap))
	}
	if q, ok := best(func(q *models.QuoteSnapshot) models.Opt[float64] { return q.DividendYield }); ok {
		fmt.Fprintf(&sb, "- **Highest Dividend Yield:** %s at %s\n", q.Ticker, common.FormatPercent(q.DividendYield))
	}

	return sb.String()
}

func renderComparisonJSON(tickers []string, rows []models.ComparisonRow) (string, error) {
	type errorRow struct {
		Ticker string `json:"ticker"`
		Error  string `json:"error"`
	}
	type dataRow struct {
		Ticker           string              `json:"ticker"`
		Name             models.Opt[string]  `json:"name"`
		Price            models.Opt[float64] `json:"price"`
		ChangePercent    models.Opt[float64] `json:"changePercent"`
		MarketCap        models.Opt[float64] `json:"marketCap"`
		PE               models.Opt[float64] `json:"pe"`
		Eps              models.Opt[float64] `json:"eps"`
		DividendYield    models.Opt[float64] `json:"dividendYield"`
		Beta             models.Opt[float64] `json:"beta"`
		FiftyTwoWeekHigh models.Opt[float64] `json:"fiftyTwoWeekHigh"`
		FiftyTwoWeekLow  models.Opt[float64] `json:"fiftyTwoWeekLow"`
		Volume           models.Opt[int64]   `json:"volume"`
		AverageVolume    models.Opt[int64]   `json:"averageVolume"`
		Sector           models.Opt[string]  `json:"sector"`
		Industry         models.Opt[string]  `json:"industry"`
	}

	comparison := make([]any, 0, len(rows))
	for i := range rows {
		row := &rows[i]
		if row.Failed() {
			comparison = append(comparison, errorRow{Ticker: row.Ticker, Error: row.Err})
			continue
		}
		q := row.Quote
		comparison = append(comparison, dataRow{
			Ticker:           q.Ticker,
			Name:             q.LongName,
			Price:            q.CurrentPrice,
			ChangePercent:    q.ChangePct,
			MarketCap:        q.MarketCap,
			PE:               q.TrailingPE,
			Eps:              q.TrailingEPS,
			DividendYield:    q.DividendYield,
			Beta:             q.Beta,
			FiftyTwoWeekHigh: q.Week52High,
			FiftyTwoWeekLow:  q.Week52Low,
			Volume:           q.Volume,
			AverageVolume:    q.AvgVolume,
			Sector:           q.Sector,
			Industry:         q.Industry,
		})
	}

	out := struct {
		Tickers    []string `json:"tickers"`
		Comparison []any    `json:"comparison"`
	}{tickers, comparison}

	data, err := json.MarshalIndent(out, "", "  ")
	return string(data), err
}

// --- Analyst recommendations ---

func renderOutlookMarkdown(a *models.AnalystOutlook) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "# Analyst Recommendations: %s\n\n", a.Ticker)

	sb.WriteString("## Price Targets\n\n")
	fmt.Fprintf(&sb, "- **Target High:** %s\n", common.FormatCurrency(a.TargetHigh))
	fmt.Fprintf(&sb, "- **Target Mean:** %s\n", common.FormatCurrency(a.TargetMean))
	fmt.Fprintf(&sb, "- **Target Low:** %s\n", common.FormatCurrency(a.TargetLow))
	fmt.Fprintf(&sb, "- **Target Median:** %s\n", common.FormatCurrency(a.TargetMedian))
	fmt.Fprintf(&sb, "- **Current Price:** %s\n\n", common.FormatCurrency(a.CurrentPrice))

	if upside := a.UpsidePct(); upside.Present {
		fmt.Fprintf(&sb, "**Potential from Mean Target:** %s\n\n", common.FormatSignedPct(upside.Value))
	}

	sb.WriteString("## Analyst Consensus\n\n")
	fmt.Fprintf(&sb, "- **Number of Analysts:** %s\n", common.FormatCount(a.AnalystCount))
	fmt.Fprintf(&sb, "- **Recommendation Mean:** %s", common.FormatNumber(a.RecommendationMean))
	if label := a.ConsensusLabel(); label.Present {
		fmt.Fprintf(&sb, " (%s)", label.Value)
	}
	sb.WriteString("\n")
	fmt.Fprintf(&sb, "- **Recommendation Key:** %s\n\n", a.RecommendationKey.Or(models.Unavailable))

	if len(a.Changes) == 0 {
		sb.WriteString("No recent recommendation data available.\n")
		return sb.String()
	}

	sb.WriteString("## Recent Recommendations (Last 10)\n\n")
	recent := a.Changes
	if len(recent) > 10 {
		recent = recent[len(recent)-10:]
	}
	rows := make([][]string, 0, len(recent))
	for _, c := range recent {
		rows = append(rows, []string{
			c.Date.Format("2006-01-02"),
			c.Firm,
			c.ToGrade,
			c.FromGrade,
			c.Action,
		})
	}
	sb.WriteString(common.MarkdownTable([]string{"Date", "Firm", "To Grade", "From Grade", "Action"}, rows, 0))

	if len(a.Changes) > 10 {
		fmt.Fprintf(&sb, "\n\n*Showing last 10 of %d recommendations. Request more if needed.*", len(a.Changes))
	}

	return sb.String()
}

func renderOutlookJSON(a *models.AnalystOutlook) (string, error) {
	type changeJSON struct {
		Date      string `json:"date"`
		Firm      string `json:"firm"`
		ToGrade   string `json:"toGrade"`
		FromGrade string `json:"fromGrade"`
		Action    string `json:"action"`
	}
	changes := make([]changeJSON, 0, len(a.Changes))
	for _, c := range a.Changes {
		changes = append(changes, changeJSON{
			Date:      c.Date.Format("2006-01-02"),
			Firm:      c.Firm,
			ToGrade:   c.ToGrade,
			FromGrade: c.FromGrade,
			Action:    c.Action,
		})
	}

	out := struct {
		Ticker       string `json:"ticker"`
		PriceTargets struct {
			High         models.Opt[float64] `json:"high"`
			Mean         models.Opt[float64] `json:"mean"`
			Low          models.Opt[float64] `json:"low"`
			Median       models.Opt[float64] `json:"median"`
			CurrentPrice models.Opt[float64] `json:"currentPrice"`
		} `json:"priceTargets"`
		Consensus struct {
			NumberOfAnalysts   models.Opt[int64]   `json:"numberOfAnalysts"`
			RecommendationMean models.Opt[float64] `json:"recommendationMean"`
			RecommendationKey  models.Opt[string]  `json:"recommendationKey"`
		} `json:"consensus"`
		RecentRecommendations []changeJSON `json:"recentRecommendations"`
	}{
		Ticker:                a.Ticker,
		RecentRecommendations: changes,
	}
	out.PriceTargets.High = a.TargetHigh
	out.PriceTargets.Mean = a.TargetMean
	out.PriceTargets.Low = a.TargetLow
	out.PriceTargets.Median = a.TargetMedian
	out.PriceTargets.CurrentPrice = a.CurrentPrice
	out.Consensus.NumberOfAnalysts = a.AnalystCount
	out.Consensus.RecommendationMean = a.RecommendationMean
	out.Consensus.RecommendationKey = a.RecommendationKey

	data, err := json.MarshalIndent(out, "", "  ")
	return string(data), err
}
