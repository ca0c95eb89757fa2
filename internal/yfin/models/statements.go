package models

// Statement is one financial statement as a rectangular mapping: period
// columns (most recent first, as supplied upstream) by line-item rows.
type Statement struct {
	Columns []string
	Rows    []StatementRow
}

// StatementRow is one line item with a value per period column. Values align
// with Statement.Columns; a period the upstream omitted is absent.
type StatementRow struct {
	Item   string
	Values []Opt[float64]
}

// Empty reports whether the statement carries no usable data.
func (s Statement) Empty() bool { return len(s.Columns) == 0 || len(s.Rows) == 0 }

// FinancialStatements groups the three independently-optional statements for
// one ticker. Any of them may be empty without the fetch failing.
type FinancialStatements struct {
	Ticker       string
	Income       Statement
	BalanceSheet Statement
	CashFlow     Statement
}
