// Package yahoo implements the upstream market-data gateway. Every field the
// provider returns is treated as optional; a fetch only fails when the
// transport fails or the provider reports an explicit error for the symbol.
package yahoo

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"
	"unicode"

	"github.com/quotelab/yfin-mcp/internal/yfin/common"
	"github.com/quotelab/yfin-mcp/internal/yfin/models"
)

const (
	defaultBaseURL   = "https://query1.finance.yahoo.com"
	defaultUserAgent = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36"

	quoteModules          = "price,summaryDetail,assetProfile,defaultKeyStatistics,financialData"
	statementModules      = "incomeStatementHistory,balanceSheetHistory,cashflowStatementHistory"
	recommendationModules = "price,financialData,upgradeDowngradeHistory"
)

// Gateway is the read-only market data surface the tool handlers depend on.
type Gateway interface {
	Quote(ctx context.Context, ticker string) (*models.QuoteSnapshot, error)
	History(ctx context.Context, ticker, period, interval string) (*models.HistoricalSeries, error)
	Profile(ctx context.Context, ticker string) (*models.CompanyProfile, error)
	Statements(ctx context.Context, ticker string) (*models.FinancialStatements, error)
	Recommendations(ctx context.Context, ticker string) (*models.AnalystOutlook, error)
}

// Client talks to the provider's chart and quoteSummary endpoints over HTTP.
type Client struct {
	baseURL    string
	userAgent  string
	httpClient *http.Client
	logger     *common.Logger
}

// NewClient creates a gateway client from configuration. Zero-value config
// fields fall back to service defaults.
func NewClient(cfg common.YahooConfig, logger *common.Logger) *Client {
	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	userAgent := cfg.UserAgent
	if userAgent == "" {
		userAgent = defaultUserAgent
	}
	if logger == nil {
		logger = common.NewSilentLogger()
	}
	return &Client{
		baseURL:   baseURL,
		userAgent: userAgent,
		httpClient: &http.Client{
			Timeout: cfg.GetTimeout(),
		},
		logger: logger,
	}
}

// Quote fetches the point-in-time snapshot for one ticker. The summary
// endpoint is authoritative; the chart endpoint is consulted afterwards as a
// best-effort fast path for the live price and never fails the call.
func (c *Client) Quote(ctx context.Context, ticker string) (*models.QuoteSnapshot, error) {
	res, err := c.fetchSummary(ctx, ticker, quoteModules)
	if err != nil {
		return nil, err
	}
	snap := buildSnapshot(ticker, res)

	if meta, err := c.fetchChartMeta(ctx, ticker); err != nil {
		c.logger.Debug().Err(err).Str("ticker", ticker).Msg("chart fast path unavailable")
	} else {
		if meta.Meta.RegularMarketPrice != nil {
			snap.CurrentPrice = models.Some(*meta.Meta.RegularMarketPrice)
		}
		if meta.Meta.PreviousClose != nil {
			snap.PreviousClose = models.Some(*meta.Meta.PreviousClose)
		} else if meta.Meta.ChartPreviousClose != nil {
			snap.PreviousClose = models.Some(*meta.Meta.ChartPreviousClose)
		}
	}
	return snap, nil
}

// History fetches OHLCV bars for the requested span. A symbol that resolves
// but has no bars in the window yields an empty series, not an error.
func (c *Client) History(ctx context.Context, ticker, period, interval string) (*models.HistoricalSeries, error) {
	q := url.Values{}
	q.Set("range", period)
	q.Set("interval", interval)

	var resp chartResponse
	if err := c.getJSON(ctx, "/v8/finance/chart/"+url.PathEscape(ticker), q, &resp); err != nil {
		return nil, err
	}
	if resp.Chart.Error != nil {
		return nil, fmt.Errorf("%s: %s", resp.Chart.Error.Code, resp.Chart.Error.Description)
	}
	if len(resp.Chart.Result) == 0 {
		return nil, fmt.Errorf("no chart data returned for %s", ticker)
	}

	series := &models.HistoricalSeries{
		Ticker:   ticker,
		Period:   period,
		Interval: interval,
	}
	result := resp.Chart.Result[0]
	if len(result.Timestamp) == 0 || len(result.Indicators.Quote) == 0 {
		return series, nil
	}

	quote := result.Indicators.Quote[0]
	for i, ts := range result.Timestamp {
		closePx := at(quote.Close, i)
		if closePx == nil {
			continue
		}
		bar := models.Bar{
			Time:  time.Unix(ts, 0).UTC(),
			Close: *closePx,
		}
		if v := at(quote.Open, i); v != nil {
			bar.Open = *v
		}
		if v := at(quote.High, i); v != nil {
			bar.High = *v
		}
		if v := at(quote.Low, i); v != nil {
			bar.Low = *v
		}
		if v := at(quote.Volume, i); v != nil {
			bar.Volume = int64(*v)
		}
		series.Bars = append(series.Bars, bar)
	}
	return series, nil
}

// Profile fetches the company profile, officers, and extended statistics.
func (c *Client) Profile(ctx context.Context, ticker string) (*models.CompanyProfile, error) {
	res, err := c.fetchSummary(ctx, ticker, quoteModules)
	if err != nil {
		return nil, err
	}

	profile := &models.CompanyProfile{Quote: *buildSnapshot(ticker, res)}

	if ap := res.AssetProfile; ap != nil {
		profile.BusinessSummary = optString(ap.LongBusinessSummary)
		profile.Address = optString(ap.Address1)
		profile.City = optString(ap.City)
		profile.State = optString(ap.State)
		profile.Zip = optString(ap.Zip)
		profile.Country = optString(ap.Country)
		profile.Phone = optString(ap.Phone)
		profile.Employees = models.FromPtr(ap.FullTimeEmployees)
		for _, o := range ap.CompanyOfficers {
			profile.Officers = append(profile.Officers, models.Officer{
				Name:     o.Name,
				Title:    o.Title,
				TotalPay: o.TotalPay.opt(),
			})
		}
	}
	if ks := res.DefaultKeyStatistics; ks != nil {
		profile.EnterpriseValue = ks.EnterpriseValue.opt()
		profile.ForwardPE = ks.ForwardPE.opt()
		profile.PegRatio = ks.PegRatio.opt()
		profile.PriceToBook = ks.PriceToBook.opt()
		profile.ForwardEPS = ks.ForwardEps.opt()
		profile.SharesOutstanding = ks.SharesOutstanding.optInt()
		profile.FloatShares = ks.FloatShares.optInt()
	}
	if sd := res.SummaryDetail; sd != nil {
		profile.PriceToSales = sd.PriceToSales.opt()
		profile.DividendRate = sd.DividendRate.opt()
		profile.FiftyDayAvg = sd.FiftyDayAverage.opt()
		profile.TwoHundredDayAvg = sd.TwoHundredDayAverage.opt()
		if sd.ExDividendDate != nil && sd.ExDividendDate.Raw != nil {
			profile.ExDividendDate = models.Some(time.Unix(int64(*sd.ExDividendDate.Raw), 0).UTC().Format("2006-01-02"))
		}
	}
	if fd := res.FinancialData; fd != nil {
		profile.TotalRevenue = fd.TotalRevenue.opt()
		profile.RevenuePerShare = fd.RevenuePerShare.opt()
		profile.ProfitMargins = fd.ProfitMargins.opt()
		profile.OperatingMargins = fd.OperatingMargins.opt()
		profile.ReturnOnAssets = fd.ReturnOnAssets.opt()
		profile.ReturnOnEquity = fd.ReturnOnEquity.opt()
		profile.TotalCash = fd.TotalCash.opt()
		profile.TotalDebt = fd.TotalDebt.opt()
		profile.DebtToEquity = fd.DebtToEquity.opt()
		profile.CurrentRatio = fd.CurrentRatio.opt()
		profile.FreeCashflow = fd.FreeCashflow.opt()
	}
	return profile, nil
}

// Statements fetches the three annual financial statements. A statement the
// provider has no data for comes back empty; only transport or symbol-level
// failures return an error.
func (c *Client) Statements(ctx context.Context, ticker string) (*models.FinancialStatements, error) {
	res, err := c.fetchSummary(ctx, ticker, statementModules)
	if err != nil {
		return nil, err
	}

	out := &models.FinancialStatements{Ticker: ticker}
	if res.IncomeStatementHistory != nil {
		out.Income = buildStatement(res.IncomeStatementHistory.Statements)
	}
	if res.BalanceSheetHistory != nil {
		out.BalanceSheet = buildStatement(res.BalanceSheetHistory.Statements)
	}
	if res.CashflowStatementHist != nil {
		out.CashFlow = buildStatement(res.CashflowStatementHist.Statements)
	}
	return out, nil
}

// Recommendations fetches analyst price targets, the consensus block, and the
// upgrade/downgrade history, sorted chronologically ascending.
func (c *Client) Recommendations(ctx context.Context, ticker string) (*models.AnalystOutlook, error) {
	res, err := c.fetchSummary(ctx, ticker, recommendationModules)
	if err != nil {
		return nil, err
	}

	out := &models.AnalystOutlook{Ticker: ticker}
	if fd := res.FinancialData; fd != nil {
		out.TargetHigh = fd.TargetHighPrice.opt()
		out.TargetMean = fd.TargetMeanPrice.opt()
		out.TargetLow = fd.TargetLowPrice.opt()
		out.TargetMedian = fd.TargetMedianPrice.opt()
		out.CurrentPrice = fd.CurrentPrice.opt()
		out.AnalystCount = fd.NumberOfAnalystOpinions.optInt()
		out.RecommendationMean = fd.RecommendationMean.opt()
		out.RecommendationKey = optString(fd.RecommendationKey)
	}
	if !out.CurrentPrice.Present && res.Price != nil {
		out.CurrentPrice = res.Price.RegularMarketPrice.opt()
	}
	if h := res.UpgradeDowngradeHistory; h != nil {
		for _, e := range h.History {
			out.Changes = append(out.Changes, models.RecommendationChange{
				Date:      time.Unix(e.EpochGradeDate, 0).UTC(),
				Firm:      e.Firm,
				ToGrade:   e.ToGrade,
				FromGrade: e.FromGrade,
				Action:    e.Action,
			})
		}
		sort.Slice(out.Changes, func(i, j int) bool {
			return out.Changes[i].Date.Before(out.Changes[j].Date)
		})
	}
	return out, nil
}

// --- transport ---

func (c *Client) fetchSummary(ctx context.Context, ticker, modules string) (*summaryResult, error) {
	q := url.Values{}
	q.Set("modules", modules)

	var resp quoteSummaryResponse
	if err := c.getJSON(ctx, "/v10/finance/quoteSummary/"+url.PathEscape(ticker), q, &resp); err != nil {
		return nil, err
	}
	if resp.QuoteSummary.Error != nil {
		return nil, fmt.Errorf("%s: %s", resp.QuoteSummary.Error.Code, resp.QuoteSummary.Error.Description)
	}
	if len(resp.QuoteSummary.Result) == 0 {
		return nil, fmt.Errorf("no data returned for %s", ticker)
	}
	return &resp.QuoteSummary.Result[0], nil
}

func (c *Client) fetchChartMeta(ctx context.Context, ticker string) (*chartResult, error) {
	q := url.Values{}
	q.Set("range", "1d")
	q.Set("interval", "1d")

	var resp chartResponse
	if err := c.getJSON(ctx, "/v8/finance/chart/"+url.PathEscape(ticker), q, &resp); err != nil {
		return nil, err
	}
	if resp.Chart.Error != nil {
		return nil, fmt.Errorf("%s: %s", resp.Chart.Error.Code, resp.Chart.Error.Description)
	}
	if len(resp.Chart.Result) == 0 {
		return nil, fmt.Errorf("no chart data returned for %s", ticker)
	}
	return &resp.Chart.Result[0], nil
}

func (c *Client) getJSON(ctx context.Context, path string, query url.Values, out any) error {
	reqURL := c.baseURL + path
	if len(query) > 0 {
		reqURL += "?" + query.Encode()
	}

	c.logger.Debug().Str("url", reqURL).Msg("upstream request")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("upstream request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read upstream response: %w", err)
	}

	c.logger.Debug().Str("url", reqURL).Int("status", resp.StatusCode).Int("bytes", len(body)).Msg("upstream response")

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		// Error bodies often carry a structured description worth surfacing.
		if msg := extractAPIError(body); msg != "" {
			return fmt.Errorf("upstream returned %d: %s", resp.StatusCode, msg)
		}
		return fmt.Errorf("upstream returned %d", resp.StatusCode)
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to decode upstream response: %w", err)
	}
	return nil
}

func extractAPIError(body []byte) string {
	var chart chartResponse
	if err := json.Unmarshal(body, &chart); err == nil && chart.Chart.Error != nil {
		return chart.Chart.Error.Description
	}
	var summary quoteSummaryResponse
	if err := json.Unmarshal(body, &summary); err == nil && summary.QuoteSummary.Error != nil {
		return summary.QuoteSummary.Error.Description
	}
	return ""
}

// --- mapping ---

func buildSnapshot(ticker string, res *summaryResult) *models.QuoteSnapshot {
	snap := &models.QuoteSnapshot{Ticker: ticker}

	var price priceModule
	if res.Price != nil {
		price = *res.Price
	}
	var detail summaryDetailModule
	if res.SummaryDetail != nil {
		detail = *res.SummaryDetail
	}

	snap.LongName = optString(price.LongName)
	if !snap.LongName.Present {
		snap.LongName = optString(price.ShortName)
	}
	snap.CurrentPrice = firstOpt(price.RegularMarketPrice.opt())
	if res.FinancialData != nil {
		snap.CurrentPrice = firstOpt(snap.CurrentPrice, res.FinancialData.CurrentPrice.opt())
	}
	snap.PreviousClose = firstOpt(detail.PreviousClose.opt(), price.RegularMarketPreviousClose.opt())
	snap.Open = firstOpt(detail.Open.opt(), price.RegularMarketOpen.opt())
	snap.DayLow = firstOpt(detail.DayLow.opt(), price.RegularMarketDayLow.opt())
	snap.DayHigh = firstOpt(detail.DayHigh.opt(), price.RegularMarketDayHigh.opt())
	snap.Week52Low = detail.FiftyTwoWeekLow.opt()
	snap.Week52High = detail.FiftyTwoWeekHigh.opt()
	snap.Volume = firstOptInt(detail.Volume.optInt(), price.RegularMarketVolume.optInt())
	snap.AvgVolume = detail.AverageVolume.optInt()
	snap.MarketCap = firstOpt(detail.MarketCap.opt(), price.MarketCap.opt())
	snap.Beta = detail.Beta.opt()
	snap.TrailingPE = detail.TrailingPE.opt()
	snap.DividendYield = detail.DividendYield.opt()
	snap.ChangePct = price.RegularMarketChangePct.opt()

	if ks := res.DefaultKeyStatistics; ks != nil {
		snap.TrailingEPS = ks.TrailingEps.opt()
		snap.Beta = firstOpt(snap.Beta, ks.Beta.opt())
	}
	if ap := res.AssetProfile; ap != nil {
		snap.Sector = optString(ap.Sector)
		snap.Industry = optString(ap.Industry)
		snap.Website = optString(ap.Website)
	}
	return snap
}

// buildStatement flattens period maps into a rectangular statement. Columns
// keep the upstream order (most recent first); line items are sorted by label
// so output is deterministic across fetches.
func buildStatement(periods []statementPeriod) models.Statement {
	var stmt models.Statement
	if len(periods) == 0 {
		return stmt
	}

	itemSet := make(map[string]bool)
	values := make([]map[string]models.Opt[float64], 0, len(periods))

	for _, period := range periods {
		col := ""
		vals := make(map[string]models.Opt[float64])
		for key, raw := range period {
			if key == "maxAge" {
				continue
			}
			var rv rawValue
			if err := json.Unmarshal(raw, &rv); err != nil {
				continue
			}
			if key == "endDate" {
				if rv.Fmt != "" {
					col = rv.Fmt
				} else if rv.Raw != nil {
					col = time.Unix(int64(*rv.Raw), 0).UTC().Format("2006-01-02")
				}
				continue
			}
			if rv.Raw == nil {
				continue
			}
			label := humanizeItem(key)
			itemSet[label] = true
			vals[label] = models.Some(*rv.Raw)
		}
		if col == "" {
			continue
		}
		stmt.Columns = append(stmt.Columns, col)
		values = append(values, vals)
	}

	items := make([]string, 0, len(itemSet))
	for item := range itemSet {
		items = append(items, item)
	}
	sort.Strings(items)

	for _, item := range items {
		row := models.StatementRow{Item: item, Values: make([]models.Opt[float64], len(values))}
		for i, vals := range values {
			row.Values[i] = vals[item]
		}
		stmt.Rows = append(stmt.Rows, row)
	}
	return stmt
}

// humanizeItem turns a camelCase field name into a spaced title, so
// "totalRevenue" renders as "Total Revenue".
func humanizeItem(key string) string {
	var sb strings.Builder
	for i, r := range key {
		if i == 0 {
			sb.WriteRune(unicode.ToUpper(r))
			continue
		}
		if unicode.IsUpper(r) {
			sb.WriteRune(' ')
		}
		sb.WriteRune(r)
	}
	return sb.String()
}

func firstOpt(opts ...models.Opt[float64]) models.Opt[float64] {
	for _, o := range opts {
		if o.Present {
			return o
		}
	}
	return models.None[float64]()
}

func firstOptInt(opts ...models.Opt[int64]) models.Opt[int64] {
	for _, o := range opts {
		if o.Present {
			return o
		}
	}
	return models.None[int64]()
}

func at(vals []*float64, i int) *float64 {
	if i >= len(vals) {
		return nil
	}
	return vals[i]
}
