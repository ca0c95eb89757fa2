package main

import (
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/quotelab/yfin-mcp/internal/yfin/common"
	"github.com/quotelab/yfin-mcp/internal/yfin/yahoo"
)

// registerTools registers all MCP tools on the server, wiring each to a handler
// that calls the upstream market data gateway.
func registerTools(s *server.MCPServer, g yahoo.Gateway, logger *common.Logger) {
	s.AddTool(createGetStockQuoteTool(), handleGetStockQuote(g, logger))
	s.AddTool(createGetHistoricalPricesTool(), handleGetHistoricalPrices(g, logger))
	s.AddTool(createGetCompanyInfoTool(), handleGetCompanyInfo(g, logger))
	s.AddTool(createGetFinancialStatementsTool(), handleGetFinancialStatements(g, logger))
	s.AddTool(createCompareStocksTool(), handleCompareStocks(g, logger))
	s.AddTool(createGetAnalystRecommendationsTool(), handleGetAnalystRecommendations(g, logger))
}

// --- Tool definitions ---

func createGetStockQuoteTool() mcp.Tool {
	return mcp.NewTool("get_stock_quote",
		mcp.WithDescription("Get current stock quote with real-time price, volume, and market data. Includes day's range, 52-week range, market cap, PE ratio, and dividend yield."),
		mcp.WithTitleAnnotation("Get Current Stock Quote"),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithDestructiveHintAnnotation(false),
		mcp.WithIdempotentHintAnnotation(true),
		mcp.WithOpenWorldHintAnnotation(true),
		mcp.WithString("ticker", mcp.Required(),
			mcp.Description("Stock ticker symbol (e.g., 'AAPL' for Apple, 'MSFT' for Microsoft, 'TSLA' for Tesla)")),
		mcp.WithString("response_format",
			mcp.Description("Output format: 'markdown' for human-readable or 'json' for machine-readable"),
			mcp.Enum("markdown", "json")),
	)
}

func createGetHistoricalPricesTool() mcp.Tool {
	return mcp.NewTool("get_historical_prices",
		mcp.WithDescription("Get historical stock price data with OHLCV (Open, High, Low, Close, Volume). Includes summary statistics and total return over the requested span."),
		mcp.WithTitleAnnotation("Get Historical Stock Prices"),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithDestructiveHintAnnotation(false),
		mcp.WithIdempotentHintAnnotation(true),
		mcp.WithOpenWorldHintAnnotation(true),
		mcp.WithString("ticker", mcp.Required(),
			mcp.Description("Stock ticker symbol (e.g., 'AAPL', 'GOOGL', 'MSFT')")),
		mcp.WithString("period",
			mcp.Description("Time period for historical data (default: 1mo)"),
			mcp.Enum("1d", "5d", "1mo", "3mo", "6mo", "1y", "2y", "5y", "10y", "ytd", "max")),
		mcp.WithString("interval",
			mcp.Description("Data interval (default: 1d)"),
			mcp.Enum("1m", "2m", "5m", "15m", "30m", "60m", "90m", "1h", "1d", "5d", "1wk", "1mo", "3mo")),
		mcp.WithString("response_format",
			mcp.Description("Output format: 'markdown' for human-readable or 'json' for machine-readable"),
			mcp.Enum("markdown", "json")),
	)
}

func createGetCompanyInfoTool() mcp.Tool {
	return mcp.NewTool("get_company_info",
		mcp.WithDescription("Get comprehensive company information including business description, officers, address, employee count, and key financial statistics."),
		mcp.WithTitleAnnotation("Get Detailed Company Information"),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithDestructiveHintAnnotation(false),
		mcp.WithIdempotentHintAnnotation(true),
		mcp.WithOpenWorldHintAnnotation(true),
		mcp.WithString("ticker", mcp.Required(),
			mcp.Description("Stock ticker symbol (e.g., 'AAPL', 'MSFT', 'TSLA')")),
		mcp.WithString("response_format",
			mcp.Description("Output format: 'markdown' for human-readable or 'json' for machine-readable"),
			mcp.Enum("markdown", "json")),
	)
}

func createGetFinancialStatementsTool() mcp.Tool {
	return mcp.NewTool("get_financial_statements",
		mcp.WithDescription("Get comprehensive financial statements including income statement, balance sheet, and cash flow. Essential for fundamental analysis."),
		mcp.WithTitleAnnotation("Get Company Financial Statements"),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithDestructiveHintAnnotation(false),
		mcp.WithIdempotentHintAnnotation(true),
		mcp.WithOpenWorldHintAnnotation(true),
		mcp.WithString("ticker", mcp.Required(),
			mcp.Description("Stock ticker symbol (e.g., 'AAPL', 'MSFT', 'TSLA')")),
		mcp.WithString("response_format",
			mcp.Description("Output format: 'markdown' for human-readable or 'json' for machine-readable"),
			mcp.Enum("markdown", "json")),
	)
}

func createCompareStocksTool() mcp.Tool {
	return mcp.NewTool("compare_stocks",
		mcp.WithDescription("Compare key metrics across multiple stocks side-by-side: price, market cap, PE, EPS, dividend yield, beta, and 52-week range."),
		mcp.WithTitleAnnotation("Compare Multiple Stocks"),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithDestructiveHintAnnotation(false),
		mcp.WithIdempotentHintAnnotation(true),
		mcp.WithOpenWorldHintAnnotation(true),
		mcp.WithArray("tickers", mcp.WithStringItems(), mcp.Required(),
			mcp.Description("List of 2-10 stock ticker symbols to compare (e.g., ['AAPL', 'MSFT', 'GOOGL'])")),
		mcp.WithString("response_format",
			mcp.Description("Output format: 'markdown' for human-readable or 'json' for machine-readable"),
			mcp.Enum("markdown", "json")),
	)
}

func createGetAnalystRecommendationsTool() mcp.Tool {
	return mcp.NewTool("get_analyst_recommendations",
		mcp.WithDescription("Get analyst recommendations, price targets, and upgrade/downgrade history to understand professional sentiment."),
		mcp.WithTitleAnnotation("Get Analyst Recommendations and Price Targets"),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithDestructiveHintAnnotation(false),
		mcp.WithIdempotentHintAnnotation(true),
		mcp.WithOpenWorldHintAnnotation(true),
		mcp.WithString("ticker", mcp.Required(),
			mcp.Description("Stock ticker symbol (e.g., 'AAPL', 'MSFT', 'TSLA')")),
		mcp.WithString("response_format",
			mcp.Description("Output format: 'markdown' for human-readable or 'json' for machine-readable"),
			mcp.Enum("markdown", "json")),
	)
}
