package yahoo

import (
	"encoding/json"

	"github.com/quotelab/yfin-mcp/internal/yfin/models"
)

// rawValue is the upstream numeric envelope. Most numeric fields arrive as
// {"raw": 123.45, "fmt": "123.45"}; either key may be missing or null.
type rawValue struct {
	Raw *float64 `json:"raw"`
	Fmt string   `json:"fmt"`
}

func (v *rawValue) opt() models.Opt[float64] {
	if v == nil || v.Raw == nil {
		return models.None[float64]()
	}
	return models.Some(*v.Raw)
}

func (v *rawValue) optInt() models.Opt[int64] {
	if v == nil || v.Raw == nil {
		return models.None[int64]()
	}
	return models.Some(int64(*v.Raw))
}

func optString(s string) models.Opt[string] {
	if s == "" {
		return models.None[string]()
	}
	return models.Some(s)
}

// --- chart endpoint (/v8/finance/chart/{ticker}) ---

type chartResponse struct {
	Chart struct {
		Result []chartResult `json:"result"`
		Error  *apiError     `json:"error"`
	} `json:"chart"`
}

type chartResult struct {
	Meta struct {
		Symbol               string   `json:"symbol"`
		Currency             string   `json:"currency"`
		RegularMarketPrice   *float64 `json:"regularMarketPrice"`
		ChartPreviousClose   *float64 `json:"chartPreviousClose"`
		PreviousClose        *float64 `json:"previousClose"`
		RegularMarketDayHigh *float64 `json:"regularMarketDayHigh"`
		RegularMarketDayLow  *float64 `json:"regularMarketDayLow"`
		RegularMarketVolume  *float64 `json:"regularMarketVolume"`
		FiftyTwoWeekHigh     *float64 `json:"fiftyTwoWeekHigh"`
		FiftyTwoWeekLow      *float64 `json:"fiftyTwoWeekLow"`
	} `json:"meta"`
	Timestamp  []int64 `json:"timestamp"`
	Indicators struct {
		Quote []struct {
			Open   []*float64 `json:"open"`
			High   []*float64 `json:"high"`
			Low    []*float64 `json:"low"`
			Close  []*float64 `json:"close"`
			Volume []*float64 `json:"volume"`
		} `json:"quote"`
	} `json:"indicators"`
}

// --- quoteSummary endpoint (/v10/finance/quoteSummary/{ticker}) ---

type apiError struct {
	Code        string `json:"code"`
	Description string `json:"description"`
}

type quoteSummaryResponse struct {
	QuoteSummary struct {
		Result []summaryResult `json:"result"`
		Error  *apiError       `json:"error"`
	} `json:"quoteSummary"`
}

type summaryResult struct {
	Price                   *priceModule           `json:"price"`
	SummaryDetail           *summaryDetailModule   `json:"summaryDetail"`
	AssetProfile            *assetProfileModule    `json:"assetProfile"`
	DefaultKeyStatistics    *keyStatisticsModule   `json:"defaultKeyStatistics"`
	FinancialData           *financialDataModule   `json:"financialData"`
	UpgradeDowngradeHistory *upgradeHistoryModule  `json:"upgradeDowngradeHistory"`
	IncomeStatementHistory  *incomeHistoryModule   `json:"incomeStatementHistory"`
	BalanceSheetHistory     *balanceHistoryModule  `json:"balanceSheetHistory"`
	CashflowStatementHist   *cashflowHistoryModule `json:"cashflowStatementHistory"`
}

type priceModule struct {
	LongName                   string    `json:"longName"`
	ShortName                  string    `json:"shortName"`
	RegularMarketPrice         *rawValue `json:"regularMarketPrice"`
	RegularMarketPreviousClose *rawValue `json:"regularMarketPreviousClose"`
	RegularMarketOpen          *rawValue `json:"regularMarketOpen"`
	RegularMarketDayLow        *rawValue `json:"regularMarketDayLow"`
	RegularMarketDayHigh       *rawValue `json:"regularMarketDayHigh"`
	RegularMarketVolume        *rawValue `json:"regularMarketVolume"`
	RegularMarketChangePct     *rawValue `json:"regularMarketChangePercent"`
	MarketCap                  *rawValue `json:"marketCap"`
}

type summaryDetailModule struct {
	PreviousClose        *rawValue `json:"previousClose"`
	Open                 *rawValue `json:"open"`
	DayLow               *rawValue `json:"dayLow"`
	DayHigh              *rawValue `json:"dayHigh"`
	FiftyTwoWeekLow      *rawValue `json:"fiftyTwoWeekLow"`
	FiftyTwoWeekHigh     *rawValue `json:"fiftyTwoWeekHigh"`
	Volume               *rawValue `json:"volume"`
	AverageVolume        *rawValue `json:"averageVolume"`
	MarketCap            *rawValue `json:"marketCap"`
	Beta                 *rawValue `json:"beta"`
	TrailingPE           *rawValue `json:"trailingPE"`
	DividendYield        *rawValue `json:"dividendYield"`
	DividendRate         *rawValue `json:"dividendRate"`
	ExDividendDate       *rawValue `json:"exDividendDate"`
	FiftyDayAverage      *rawValue `json:"fiftyDayAverage"`
	TwoHundredDayAverage *rawValue `json:"twoHundredDayAverage"`
	PriceToSales         *rawValue `json:"priceToSalesTrailing12Months"`
}

type companyOfficer struct {
	Name     string    `json:"name"`
	Title    string    `json:"title"`
	TotalPay *rawValue `json:"totalPay"`
}

type assetProfileModule struct {
	Address1            string           `json:"address1"`
	City                string           `json:"city"`
	State               string           `json:"state"`
	Zip                 string           `json:"zip"`
	Country             string           `json:"country"`
	Phone               string           `json:"phone"`
	Website             string           `json:"website"`
	Sector              string           `json:"sector"`
	Industry            string           `json:"industry"`
	LongBusinessSummary string           `json:"longBusinessSummary"`
	FullTimeEmployees   *int64           `json:"fullTimeEmployees"`
	CompanyOfficers     []companyOfficer `json:"companyOfficers"`
}

type keyStatisticsModule struct {
	TrailingEps       *rawValue `json:"trailingEps"`
	ForwardEps        *rawValue `json:"forwardEps"`
	EnterpriseValue   *rawValue `json:"enterpriseValue"`
	ForwardPE         *rawValue `json:"forwardPE"`
	PegRatio          *rawValue `json:"pegRatio"`
	PriceToBook       *rawValue `json:"priceToBook"`
	SharesOutstanding *rawValue `json:"sharesOutstanding"`
	FloatShares       *rawValue `json:"floatShares"`
	Beta              *rawValue `json:"beta"`
}

type financialDataModule struct {
	CurrentPrice             *rawValue `json:"currentPrice"`
	TargetHighPrice          *rawValue `json:"targetHighPrice"`
	TargetLowPrice           *rawValue `json:"targetLowPrice"`
	TargetMeanPrice          *rawValue `json:"targetMeanPrice"`
	TargetMedianPrice        *rawValue `json:"targetMedianPrice"`
	RecommendationMean       *rawValue `json:"recommendationMean"`
	RecommendationKey        string    `json:"recommendationKey"`
	NumberOfAnalystOpinions  *rawValue `json:"numberOfAnalystOpinions"`
	TotalRevenue             *rawValue `json:"totalRevenue"`
	RevenuePerShare          *rawValue `json:"revenuePerShare"`
	ProfitMargins            *rawValue `json:"profitMargins"`
	OperatingMargins         *rawValue `json:"operatingMargins"`
	ReturnOnAssets           *rawValue `json:"returnOnAssets"`
	ReturnOnEquity           *rawValue `json:"returnOnEquity"`
	TotalCash                *rawValue `json:"totalCash"`
	TotalDebt                *rawValue `json:"totalDebt"`
	DebtToEquity             *rawValue `json:"debtToEquity"`
	CurrentRatio             *rawValue `json:"currentRatio"`
	FreeCashflow             *rawValue `json:"freeCashflow"`
}

type gradeEntry struct {
	EpochGradeDate int64  `json:"epochGradeDate"`
	Firm           string `json:"firm"`
	ToGrade        string `json:"toGrade"`
	FromGrade      string `json:"fromGrade"`
	Action         string `json:"action"`
}

type upgradeHistoryModule struct {
	History []gradeEntry `json:"history"`
}

// statementPeriod is one reporting period of a financial statement. Line items
// vary by company and by upstream revision, so they are kept as raw messages
// and decoded generically.
type statementPeriod map[string]json.RawMessage

type incomeHistoryModule struct {
	Statements []statementPeriod `json:"incomeStatementHistory"`
}

type balanceHistoryModule struct {
	Statements []statementPeriod `json:"balanceSheetStatements"`
}

type cashflowHistoryModule struct {
	Statements []statementPeriod `json:"cashflowStatements"`
}
