package models

import "time"

// QuoteSnapshot is the point-in-time view of a single instrument, assembled
// from one upstream fetch. Any field may be absent without the fetch failing.
type QuoteSnapshot struct {
	Ticker        string
	LongName      Opt[string]
	CurrentPrice  Opt[float64]
	PreviousClose Opt[float64]
	Open          Opt[float64]
	DayLow        Opt[float64]
	DayHigh       Opt[float64]
	Week52Low     Opt[float64]
	Week52High    Opt[float64]
	Volume        Opt[int64]
	AvgVolume     Opt[int64]
	MarketCap     Opt[float64]
	Beta          Opt[float64]
	TrailingPE    Opt[float64]
	TrailingEPS   Opt[float64]
	DividendYield Opt[float64]
	ChangePct     Opt[float64] // regular market change percent as reported upstream
	Sector        Opt[string]
	Industry      Opt[string]
	Website       Opt[string]
}

// Bar is one OHLCV record in a historical series.
type Bar struct {
	Time   time.Time
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume int64
}

// HistoricalSeries holds chronologically ascending bars for one ticker.
// A series with zero bars is a successful, structurally-empty result, not an
// error; callers decide how to surface it.
type HistoricalSeries struct {
	Ticker   string
	Period   string
	Interval string
	Bars     []Bar
}

// Empty reports whether the series carries no bars.
func (s *HistoricalSeries) Empty() bool { return len(s.Bars) == 0 }

// SeriesSummary is the derived statistics block for a historical series.
type SeriesSummary struct {
	HighestClose     float64
	HighestCloseDate time.Time
	LowestClose      float64
	LowestCloseDate  time.Time
	MeanClose        float64
	MeanVolume       float64
	TotalReturnPct   Opt[float64] // set only when the series has >= 2 bars
}

// Summary computes max/min/mean close, mean volume, and the simple return
// over the span. Returns false when the series is empty.
func (s *HistoricalSeries) Summary() (SeriesSummary, bool) {
	if s.Empty() {
		return SeriesSummary{}, false
	}

	sum := SeriesSummary{
		HighestClose:     s.Bars[0].Close,
		HighestCloseDate: s.Bars[0].Time,
		LowestClose:      s.Bars[0].Close,
		LowestCloseDate:  s.Bars[0].Time,
	}
	var closeSum, volSum float64
	for _, b := range s.Bars {
		if b.Close > sum.HighestClose {
			sum.HighestClose = b.Close
			sum.HighestCloseDate = b.Time
		}
		if b.Close < sum.LowestClose {
			sum.LowestClose = b.Close
			sum.LowestCloseDate = b.Time
		}
		closeSum += b.Close
		volSum += float64(b.Volume)
	}
	n := float64(len(s.Bars))
	sum.MeanClose = closeSum / n
	sum.MeanVolume = volSum / n

	if len(s.Bars) > 1 {
		first := s.Bars[0].Close
		last := s.Bars[len(s.Bars)-1].Close
		if first != 0 {
			sum.TotalReturnPct = Some((last - first) / first * 100)
		}
	}
	return sum, true
}

// Officer is one entry in a company's executive list.
type Officer struct {
	Name     string
	Title    string
	TotalPay Opt[float64]
}

// CompanyProfile extends the quote-level fields with the business description,
// contact details, officer list, and the extended statistics block.
type CompanyProfile struct {
	Quote QuoteSnapshot

	BusinessSummary Opt[string]
	Address         Opt[string]
	City            Opt[string]
	State           Opt[string]
	Zip             Opt[string]
	Country         Opt[string]
	Phone           Opt[string]
	Employees       Opt[int64]
	Officers        []Officer

	EnterpriseValue   Opt[float64]
	ForwardPE         Opt[float64]
	PegRatio          Opt[float64]
	PriceToBook       Opt[float64]
	PriceToSales      Opt[float64]
	ForwardEPS        Opt[float64]
	DividendRate      Opt[float64]
	ExDividendDate    Opt[string]
	FiftyDayAvg       Opt[float64]
	TwoHundredDayAvg  Opt[float64]
	SharesOutstanding Opt[int64]
	FloatShares       Opt[int64]

	TotalRevenue     Opt[float64]
	RevenuePerShare  Opt[float64]
	ProfitMargins    Opt[float64]
	OperatingMargins Opt[float64]
	ReturnOnAssets   Opt[float64]
	ReturnOnEquity   Opt[float64]
	TotalCash        Opt[float64]
	TotalDebt        Opt[float64]
	DebtToEquity     Opt[float64]
	CurrentRatio     Opt[float64]
	FreeCashflow     Opt[float64]
}

// ComparisonRow is one ticker's projection in a multi-stock comparison.
// A failed fetch sets Err and leaves the snapshot empty; the comparison as a
// whole never aborts because one ticker fails.
type ComparisonRow struct {
	Ticker string
	Quote  *QuoteSnapshot
	Err    string
}

// Failed reports whether this row carries an error marker instead of metrics.
func (r *ComparisonRow) Failed() bool { return r.Err != "" }

// RecommendationChange is one entry in the upgrade/downgrade history.
type RecommendationChange struct {
	Date      time.Time
	Firm      string
	ToGrade   string
	FromGrade string
	Action    string
}

// AnalystOutlook holds price-target statistics, consensus fields, and the
// recent recommendation-change log for one ticker.
type AnalystOutlook struct {
	Ticker             string
	TargetHigh         Opt[float64]
	TargetMean         Opt[float64]
	TargetLow          Opt[float64]
	TargetMedian       Opt[float64]
	CurrentPrice       Opt[float64]
	AnalystCount       Opt[int64]
	RecommendationMean Opt[float64]
	RecommendationKey  Opt[string]
	Changes            []RecommendationChange // chronological ascending
}

// ConsensusLabel maps the mean recommendation score to a qualitative bucket:
// <=2.0 buy-leaning, <=3.0 hold, above that sell-leaning.
func (a *AnalystOutlook) ConsensusLabel() Opt[string] {
	if !a.RecommendationMean.Present {
		return None[string]()
	}
	switch m := a.RecommendationMean.Value; {
	case m <= 2.0:
		return Some("Strong Buy/Buy")
	case m <= 3.0:
		return Some("Hold")
	default:
		return Some("Sell/Underperform")
	}
}

// UpsidePct returns the percentage difference between the mean target and the
// current price, when both are available and the current price is nonzero.
func (a *AnalystOutlook) UpsidePct() Opt[float64] {
	if !a.CurrentPrice.Present || !a.TargetMean.Present || a.CurrentPrice.Value == 0 {
		return None[float64]()
	}
	return Some((a.TargetMean.Value - a.CurrentPrice.Value) / a.CurrentPrice.Value * 100)
}
