package yahoo

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/quotelab/yfin-mcp/internal/yfin/common"
)

func newTestClient(baseURL string) *Client {
	return NewClient(common.YahooConfig{
		BaseURL: baseURL,
		Timeout: "5s",
	}, common.NewSilentLogger())
}

const chartBody = `{
  "chart": {
    "result": [{
      "meta": {
        "symbol": "AAPL",
        "currency": "USD",
        "regularMarketPrice": 190.5,
        "previousClose": 188.0
      },
      "timestamp": [1704207600, 1704294000, 1704380400],
      "indicators": {
        "quote": [{
          "open": [186.0, 187.5, null],
          "high": [188.0, 190.0, 191.0],
          "low": [185.0, 186.5, 188.5],
          "close": [187.0, 189.5, null],
          "volume": [52000000, 48000000, 45000000]
        }]
      }
    }],
    "error": null
  }
}`

const summaryBody = `{
  "quoteSummary": {
    "result": [{
      "price": {
        "longName": "Apple Inc.",
        "regularMarketPrice": {"raw": 189.0, "fmt": "189.00"},
        "regularMarketPreviousClose": {"raw": 187.0, "fmt": "187.00"},
        "regularMarketChangePercent": {"raw": 0.0107, "fmt": "1.07%"},
        "marketCap": {"raw": 2950000000000, "fmt": "2.95T"}
      },
      "summaryDetail": {
        "previousClose": {"raw": 187.0},
        "open": {"raw": 187.5},
        "dayLow": {"raw": 186.0},
        "dayHigh": {"raw": 190.2},
        "fiftyTwoWeekLow": {"raw": 164.0},
        "fiftyTwoWeekHigh": {"raw": 199.6},
        "volume": {"raw": 52000000},
        "averageVolume": {"raw": 57000000},
        "beta": {"raw": 1.29},
        "trailingPE": {"raw": 29.5},
        "dividendYield": {"raw": 0.0051}
      },
      "assetProfile": {
        "address1": "One Apple Park Way",
        "city": "Cupertino",
        "state": "CA",
        "zip": "95014",
        "country": "United States",
        "phone": "408 996 1010",
        "website": "https://www.apple.com",
        "sector": "Technology",
        "industry": "Consumer Electronics",
        "longBusinessSummary": "Apple Inc. designs, manufactures, and markets smartphones.",
        "fullTimeEmployees": 161000,
        "companyOfficers": [
          {"name": "Mr. Timothy D. Cook", "title": "CEO & Director", "totalPay": {"raw": 16239562}},
          {"name": "Mr. Luca Maestri", "title": "CFO", "totalPay": {"raw": 0}}
        ]
      },
      "defaultKeyStatistics": {
        "trailingEps": {"raw": 6.42},
        "forwardEps": {"raw": 7.1},
        "enterpriseValue": {"raw": 3000000000000},
        "sharesOutstanding": {"raw": 15500000000}
      },
      "financialData": {
        "currentPrice": {"raw": 189.2},
        "targetHighPrice": {"raw": 250.0},
        "targetLowPrice": {"raw": 158.0},
        "targetMeanPrice": {"raw": 205.9},
        "targetMedianPrice": {"raw": 210.0},
        "recommendationMean": {"raw": 1.8},
        "recommendationKey": "buy",
        "numberOfAnalystOpinions": {"raw": 39},
        "totalRevenue": {"raw": 383000000000},
        "returnOnEquity": {"raw": 1.56}
      },
      "upgradeDowngradeHistory": {
        "history": [
          {"epochGradeDate": 1704067200, "firm": "Barclays", "toGrade": "Underweight", "fromGrade": "Equal-Weight", "action": "down"},
          {"epochGradeDate": 1701388800, "firm": "Piper Sandler", "toGrade": "Overweight", "fromGrade": "Overweight", "action": "main"}
        ]
      }
    }],
    "error": null
  }
}`

const statementsBody = `{
  "quoteSummary": {
    "result": [{
      "incomeStatementHistory": {
        "incomeStatementHistory": [
          {
            "maxAge": 1,
            "endDate": {"raw": 1696032000, "fmt": "2023-09-30"},
            "totalRevenue": {"raw": 383285000000},
            "netIncome": {"raw": 96995000000}
          },
          {
            "maxAge": 1,
            "endDate": {"raw": 1664409600, "fmt": "2022-09-24"},
            "totalRevenue": {"raw": 394328000000},
            "netIncome": {"raw": 99803000000}
          }
        ]
      },
      "balanceSheetHistory": {
        "balanceSheetStatements": [
          {
            "maxAge": 1,
            "endDate": {"raw": 1696032000, "fmt": "2023-09-30"},
            "totalAssets": {"raw": 352583000000}
          }
        ]
      },
      "cashflowStatementHistory": {
        "cashflowStatements": []
      }
    }],
    "error": null
  }
}`

func serveFixtures(t *testing.T) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch {
		case strings.HasPrefix(r.URL.Path, "/v8/finance/chart/"):
			w.Write([]byte(chartBody))
		case strings.HasPrefix(r.URL.Path, "/v10/finance/quoteSummary/"):
			if strings.Contains(r.URL.Query().Get("modules"), "incomeStatementHistory") {
				w.Write([]byte(statementsBody))
				return
			}
			w.Write([]byte(summaryBody))
		default:
			t.Errorf("Unexpected request path: %s", r.URL.Path)
			w.WriteHeader(http.StatusNotFound)
		}
	}))
}

func TestClientQuote(t *testing.T) {
	server := serveFixtures(t)
	defer server.Close()

	client := newTestClient(server.URL)
	snap, err := client.Quote(context.Background(), "AAPL")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if snap.Ticker != "AAPL" {
		t.Errorf("Ticker = %q, want AAPL", snap.Ticker)
	}
	if snap.LongName.Or("") != "Apple Inc." {
		t.Errorf("LongName = %v, want Apple Inc.", snap.LongName)
	}
	// The chart meta fast path overrides the summary price.
	if !snap.CurrentPrice.Present || snap.CurrentPrice.Value != 190.5 {
		t.Errorf("CurrentPrice = %v, want 190.5 from chart meta", snap.CurrentPrice)
	}
	if !snap.PreviousClose.Present || snap.PreviousClose.Value != 188.0 {
		t.Errorf("PreviousClose = %v, want 188.0 from chart meta", snap.PreviousClose)
	}
	if snap.Volume.Or(0) != 52000000 {
		t.Errorf("Volume = %v, want 52000000", snap.Volume)
	}
	if snap.TrailingEPS.Or(0) != 6.42 {
		t.Errorf("TrailingEPS = %v, want 6.42", snap.TrailingEPS)
	}
	if snap.Sector.Or("") != "Technology" {
		t.Errorf("Sector = %v, want Technology", snap.Sector)
	}
	if snap.Week52High.Or(0) != 199.6 {
		t.Errorf("Week52High = %v, want 199.6", snap.Week52High)
	}
}

func TestClientQuote_ChartFastPathFailureIsNotFatal(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if strings.HasPrefix(r.URL.Path, "/v8/finance/chart/") {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte(summaryBody))
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	snap, err := client.Quote(context.Background(), "AAPL")
	if err != nil {
		t.Fatalf("Quote should succeed when only the chart fast path fails: %v", err)
	}
	if snap.CurrentPrice.Or(0) != 189.0 {
		t.Errorf("CurrentPrice = %v, want 189.0 from summary", snap.CurrentPrice)
	}
}

func TestClientHistory(t *testing.T) {
	server := serveFixtures(t)
	defer server.Close()

	client := newTestClient(server.URL)
	series, err := client.History(context.Background(), "AAPL", "1mo", "1d")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	// The third bar has a null close and must be dropped.
	if len(series.Bars) != 2 {
		t.Fatalf("Bars = %d, want 2 (null close dropped)", len(series.Bars))
	}
	if series.Bars[0].Close != 187.0 || series.Bars[1].Close != 189.5 {
		t.Errorf("Close prices = %v/%v, want 187.0/189.5", series.Bars[0].Close, series.Bars[1].Close)
	}
	if series.Bars[0].Volume != 52000000 {
		t.Errorf("Volume = %d, want 52000000", series.Bars[0].Volume)
	}
	if series.Period != "1mo" || series.Interval != "1d" {
		t.Errorf("Period/Interval = %q/%q, want 1mo/1d", series.Period, series.Interval)
	}
}

func TestClientHistory_EmptySeriesIsSuccess(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"chart":{"result":[{"meta":{"symbol":"AAPL"},"timestamp":[],"indicators":{"quote":[]}}],"error":null}}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	series, err := client.History(context.Background(), "AAPL", "1d", "1m")
	if err != nil {
		t.Fatalf("Empty window should not be an error: %v", err)
	}
	if !series.Empty() {
		t.Error("Series should be empty")
	}
}

func TestClientHistory_SymbolError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"chart":{"result":null,"error":{"code":"Not Found","description":"No data found, symbol may be delisted"}}}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	_, err := client.History(context.Background(), "NOPE", "1mo", "1d")
	if err == nil {
		t.Fatal("Expected error for unknown symbol")
	}
	if !strings.Contains(err.Error(), "delisted") {
		t.Errorf("Error should carry the upstream description, got %v", err)
	}
}

func TestClientProfile(t *testing.T) {
	server := serveFixtures(t)
	defer server.Close()

	client := newTestClient(server.URL)
	profile, err := client.Profile(context.Background(), "AAPL")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if profile.BusinessSummary.Or("") == "" {
		t.Error("BusinessSummary should be present")
	}
	if profile.Employees.Or(0) != 161000 {
		t.Errorf("Employees = %v, want 161000", profile.Employees)
	}
	if len(profile.Officers) != 2 {
		t.Fatalf("Officers = %d, want 2", len(profile.Officers))
	}
	if profile.Officers[0].Name != "Mr. Timothy D. Cook" {
		t.Errorf("First officer = %q", profile.Officers[0].Name)
	}
	if !profile.Officers[0].TotalPay.Present {
		t.Error("First officer pay should be present")
	}
	if profile.EnterpriseValue.Or(0) != 3000000000000 {
		t.Errorf("EnterpriseValue = %v", profile.EnterpriseValue)
	}
	if profile.ReturnOnEquity.Or(0) != 1.56 {
		t.Errorf("ReturnOnEquity = %v, want 1.56", profile.ReturnOnEquity)
	}
	if profile.PegRatio.Present {
		t.Error("PegRatio was not supplied and should be absent")
	}
}

func TestClientStatements(t *testing.T) {
	server := serveFixtures(t)
	defer server.Close()

	client := newTestClient(server.URL)
	stmts, err := client.Statements(context.Background(), "AAPL")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if stmts.Income.Empty() {
		t.Fatal("Income statement should not be empty")
	}
	if len(stmts.Income.Columns) != 2 {
		t.Fatalf("Income columns = %v, want 2 periods", stmts.Income.Columns)
	}
	if stmts.Income.Columns[0] != "2023-09-30" {
		t.Errorf("First column = %q, want 2023-09-30 (upstream order preserved)", stmts.Income.Columns[0])
	}

	var revenue *float64
	for _, row := range stmts.Income.Rows {
		if row.Item == "Total Revenue" {
			if row.Values[0].Present {
				v := row.Values[0].Value
				revenue = &v
			}
		}
	}
	if revenue == nil {
		t.Fatal("Income statement should contain a humanized 'Total Revenue' row")
	}
	if *revenue != 383285000000 {
		t.Errorf("Total Revenue = %v, want 383285000000", *revenue)
	}

	if stmts.BalanceSheet.Empty() {
		t.Error("Balance sheet should not be empty")
	}
	if !stmts.CashFlow.Empty() {
		t.Error("Cash flow statement should be empty")
	}
}

func TestClientRecommendations(t *testing.T) {
	server := serveFixtures(t)
	defer server.Close()

	client := newTestClient(server.URL)
	outlook, err := client.Recommendations(context.Background(), "AAPL")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if outlook.TargetMean.Or(0) != 205.9 {
		t.Errorf("TargetMean = %v, want 205.9", outlook.TargetMean)
	}
	if outlook.AnalystCount.Or(0) != 39 {
		t.Errorf("AnalystCount = %v, want 39", outlook.AnalystCount)
	}
	if outlook.RecommendationKey.Or("") != "buy" {
		t.Errorf("RecommendationKey = %v, want buy", outlook.RecommendationKey)
	}
	if len(outlook.Changes) != 2 {
		t.Fatalf("Changes = %d, want 2", len(outlook.Changes))
	}
	// Sorted chronologically ascending regardless of upstream order.
	if !outlook.Changes[0].Date.Before(outlook.Changes[1].Date) {
		t.Error("Changes should be sorted ascending by date")
	}
	if outlook.Changes[0].Firm != "Piper Sandler" {
		t.Errorf("Oldest change firm = %q, want Piper Sandler", outlook.Changes[0].Firm)
	}
}

func TestClientSummary_NoResult(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"quoteSummary":{"result":[],"error":null}}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	if _, err := client.Recommendations(context.Background(), "NOPE"); err == nil {
		t.Fatal("Expected error when the provider returns no result")
	}
}
