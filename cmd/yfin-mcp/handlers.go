package main

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/quotelab/yfin-mcp/internal/yfin/common"
	"github.com/quotelab/yfin-mcp/internal/yfin/models"
	"github.com/quotelab/yfin-mcp/internal/yfin/schema"
	"github.com/quotelab/yfin-mcp/internal/yfin/yahoo"
)

// --- Helpers ---

func textResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.NewTextContent(text),
		},
	}
}

func errorResult(message string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.NewTextContent(message),
		},
		IsError: true,
	}
}

// toolLogger returns a request-scoped logger with a fresh correlation ID.
func toolLogger(logger *common.Logger, tool string) *common.Logger {
	l := logger.WithCorrelationId(uuid.New().String())
	l.Debug().Str("tool", tool).Msg("tool call received")
	return l
}

// --- Handlers ---

// Handlers never return a Go error for upstream faults: a failed fetch becomes
// a diagnostic text payload with troubleshooting hints, so the conversation can
// continue. Only malformed arguments produce an IsError result.

func handleGetStockQuote(g yahoo.Gateway, logger *common.Logger) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		in, err := schema.ParseTickerInput(request.GetArguments())
		if err != nil {
			return errorResult(fmt.Sprintf("Error: %v", err)), nil
		}

		log := toolLogger(logger, "get_stock_quote")
		snap, err := g.Quote(ctx, in.Ticker)
		if err != nil {
			log.Warn().Err(err).Str("ticker", in.Ticker).Msg("quote fetch failed")
			msg := fmt.Sprintf("Error fetching quote for %s: %v\n\n", in.Ticker, err)
			msg += "**Troubleshooting:**\n"
			msg += "- Verify the ticker symbol is correct\n"
			msg += "- Check if the market is open (some data may be delayed)\n"
			msg += "- Try again in a moment if it's a temporary issue"
			return textResult(msg), nil
		}

		if in.Format == schema.FormatJSON {
			out, err := renderQuoteJSON(snap)
			if err != nil {
				return errorResult(fmt.Sprintf("Error encoding response: %v", err)), nil
			}
			return textResult(common.Truncate(out, "")), nil
		}
		out := renderQuoteMarkdown(snap)
		return textResult(common.Truncate(out, "Use get_company_info for more detailed information.")), nil
	}
}

func handleGetHistoricalPrices(g yahoo.Gateway, logger *common.Logger) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		in, err := schema.ParseHistoricalPriceInput(request.GetArguments())
		if err != nil {
			return errorResult(fmt.Sprintf("Error: %v", err)), nil
		}

		log := toolLogger(logger, "get_historical_prices")
		series, err := g.History(ctx, in.Ticker, string(in.Period), string(in.Interval))
		if err != nil {
			log.Warn().Err(err).Str("ticker", in.Ticker).Msg("history fetch failed")
			msg := fmt.Sprintf("Error fetching historical prices for %s: %v\n\n", in.Ticker, err)
			msg += "**Troubleshooting:**\n"
			msg += "- Verify ticker symbol is correct\n"
			msg += "- Some intervals may not be available for all periods\n"
			msg += "- Try a different period/interval combination"
			return textResult(msg), nil
		}

		if series.Empty() {
			return textResult(fmt.Sprintf("No historical data available for %s with period=%s and interval=%s",
				in.Ticker, in.Period, in.Interval)), nil
		}

		if in.Format == schema.FormatJSON {
			out, err := renderHistoryJSON(series)
			if err != nil {
				return errorResult(fmt.Sprintf("Error encoding response: %v", err)), nil
			}
			return textResult(common.Truncate(out, "Consider using a shorter period.")), nil
		}
		out := renderHistoryMarkdown(series)
		return textResult(common.Truncate(out, "Request smaller time period or use JSON format for complete data.")), nil
	}
}

func handleGetCompanyInfo(g yahoo.Gateway, logger *common.Logger) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		in, err := schema.ParseTickerInput(request.GetArguments())
		if err != nil {
			return errorResult(fmt.Sprintf("Error: %v", err)), nil
		}

		log := toolLogger(logger, "get_company_info")
		profile, err := g.Profile(ctx, in.Ticker)
		if err != nil {
			log.Warn().Err(err).Str("ticker", in.Ticker).Msg("profile fetch failed")
			msg := fmt.Sprintf("Error fetching company info for %s: %v\n\n", in.Ticker, err)
			msg += "**Troubleshooting:**\n"
			msg += "- Verify ticker symbol is correct\n"
			msg += "- Some data may not be available for all companies"
			return textResult(msg), nil
		}

		if in.Format == schema.FormatJSON {
			out, err := renderProfileJSON(profile)
			if err != nil {
				return errorResult(fmt.Sprintf("Error encoding response: %v", err)), nil
			}
			return textResult(common.Truncate(out, "")), nil
		}
		out := renderProfileMarkdown(profile)
		return textResult(common.Truncate(out, "")), nil
	}
}

func handleGetFinancialStatements(g yahoo.Gateway, logger *common.Logger) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		in, err := schema.ParseTickerInput(request.GetArguments())
		if err != nil {
			return errorResult(fmt.Sprintf("Error: %v", err)), nil
		}

		log := toolLogger(logger, "get_financial_statements")
		stmts, err := g.Statements(ctx, in.Ticker)
		if err != nil {
			log.Warn().Err(err).Str("ticker", in.Ticker).Msg("statements fetch failed")
			msg := fmt.Sprintf("Error fetching financial statements for %s: %v\n\n", in.Ticker, err)
			msg += "**Troubleshooting:**\n"
			msg += "- Verify ticker symbol is correct\n"
			msg += "- Financial statements may not be available for all companies\n"
			msg += "- Try get_company_info for basic financial metrics"
			return textResult(msg), nil
		}

		if in.Format == schema.FormatJSON {
			out, err := renderStatementsJSON(stmts)
			if err != nil {
				return errorResult(fmt.Sprintf("Error encoding response: %v", err)), nil
			}
			return textResult(common.Truncate(out, "")), nil
		}
		out := renderStatementsMarkdown(stmts)
		return textResult(common.Truncate(out, "Request specific statement types separately if needed.")), nil
	}
}

func handleCompareStocks(g yahoo.Gateway, logger *common.Logger) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		in, err := schema.ParseCompareInput(request.GetArguments())
		if err != nil {
			return errorResult(fmt.Sprintf("Error: %v", err)), nil
		}

		log := toolLogger(logger, "compare_stocks")

		// One failed ticker never aborts the comparison; it becomes an error
		// row alongside the successful ones.
		rows := make([]models.ComparisonRow, 0, len(in.Tickers))
		for _, ticker := range in.Tickers {
			snap, err := g.Quote(ctx, ticker)
			if err != nil {
				log.Warn().Err(err).Str("ticker", ticker).Msg("comparison fetch failed")
				rows = append(rows, models.ComparisonRow{Ticker: ticker, Err: err.Error()})
				continue
			}
			rows = append(rows, models.ComparisonRow{Ticker: ticker, Quote: snap})
		}

		if in.Format == schema.FormatJSON {
			out, err := renderComparisonJSON(in.Tickers, rows)
			if err != nil {
				return errorResult(fmt.Sprintf("Error encoding response: %v", err)), nil
			}
			return textResult(common.Truncate(out, "")), nil
		}
		out := renderComparisonMarkdown(in.Tickers, rows)
		return textResult(common.Truncate(out, "")), nil
	}
}

func handleGetAnalystRecommendations(g yahoo.Gateway, logger *common.Logger) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		in, err := schema.ParseTickerInput(request.GetArguments())
		if err != nil {
			return errorResult(fmt.Sprintf("Error: %v", err)), nil
		}

		log := toolLogger(logger, "get_analyst_recommendations")
		outlook, err := g.Recommendations(ctx, in.Ticker)
		if err != nil {
			log.Warn().Err(err).Str("ticker", in.Ticker).Msg("recommendations fetch failed")
			msg := fmt.Sprintf("Error fetching analyst recommendations for %s: %v\n\n", in.Ticker, err)
			msg += "**Troubleshooting:**\n"
			msg += "- Verify ticker symbol is correct\n"
			msg += "- Analyst data may not be available for all stocks"
			return textResult(msg), nil
		}

		if in.Format == schema.FormatJSON {
			out, err := renderOutlookJSON(outlook)
			if err != nil {
				return errorResult(fmt.Sprintf("Error encoding response: %v", err)), nil
			}
			return textResult(common.Truncate(out, "")), nil
		}
		out := renderOutlookMarkdown(outlook)
		return textResult(common.Truncate(out, "")), nil
	}
}
