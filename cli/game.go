package cli

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/google/subcommands"

	"github.com/status-im/market-game/apperrors"
	"github.com/status-im/market-game/backend"
	"github.com/status-im/market-game/core"
	"github.com/status-im/market-game/leaderboard"
	"github.com/status-im/market-game/portfolio"
)

type portfolioCmd struct{}

func (*portfolioCmd) Name() string     { return "portfolio" }
func (*portfolioCmd) Synopsis() string { return "value your positions at current prices" }
func (*portfolioCmd) Usage() string {
	return `marketgame portfolio
`
}
func (*portfolioCmd) SetFlags(*flag.FlagSet) {}

func (*portfolioCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return run(ctx, func(app *core.App) error {
		if !app.Session.IsAuthenticated() {
			return apperrors.New(apperrors.KindAuthRequired, "not signed in")
		}
		if _, err := app.Session.RefreshPortfolio(ctx); err != nil {
			if apperrors.Is(err, apperrors.KindAuthRequired) {
				return err
			}
			fmt.Fprintln(out, "Backend unreachable, showing the last known portfolio")
		}
		user := app.Session.CurrentUser()
		if user == nil {
			return apperrors.New(apperrors.KindAuthRequired, "not signed in")
		}
		snapshot := app.Market.FetchTopCryptos(ctx, 0)
		renderSummary(out, portfolio.Summarize(*user, snapshot, app.Config.Game.StartingBalance))
		return nil
	})
}

type leaderboardCmd struct{}

func (*leaderboardCmd) Name() string     { return "leaderboard" }
func (*leaderboardCmd) Synopsis() string { return "show the standings" }
func (*leaderboardCmd) Usage() string {
	return `marketgame leaderboard
`
}
func (*leaderboardCmd) SetFlags(*flag.FlagSet) {}

func (*leaderboardCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return run(ctx, func(app *core.App) error {
		renderLeaderboard(out, app.Leaderboard.Load(ctx, app.Session.CurrentUser()))
		return nil
	})
}

// tradeCmd prices the order at the current market price
type tradeCmd struct {
	kind backend.TradeType
}

type buyCmd struct{ tradeCmd }
type sellCmd struct{ tradeCmd }

func (*buyCmd) Name() string      { return "buy" }
func (*buyCmd) Synopsis() string  { return "buy a cryptocurrency at the current price" }
func (*sellCmd) Name() string     { return "sell" }
func (*sellCmd) Synopsis() string { return "sell a cryptocurrency at the current price" }

func (*buyCmd) Usage() string {
	return `marketgame buy <id> <amount>
`
}

func (*sellCmd) Usage() string {
	return `marketgame sell <id> <amount>
`
}

func (c *buyCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	c.kind = backend.TradeBuy
	return c.execute(ctx, f)
}

func (c *sellCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	c.kind = backend.TradeSell
	return c.execute(ctx, f)
}

func (*tradeCmd) SetFlags(*flag.FlagSet) {}

func (c *tradeCmd) execute(ctx context.Context, f *flag.FlagSet) subcommands.ExitStatus {
	if f.NArg() != 2 {
		fmt.Fprintf(os.Stderr, "%s requires an asset id and an amount\n", c.kind)
		return subcommands.ExitUsageError
	}
	qty, err := strconv.ParseFloat(f.Arg(1), 64)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Please enter a valid amount.")
		return subcommands.ExitUsageError
	}

	return run(ctx, func(app *core.App) error {
		details, err := app.Market.FetchCryptoDetails(ctx, f.Arg(0))
		if err != nil {
			return err
		}
		req := backend.TradeRequest{
			CryptoID:   details.ID,
			CryptoName: details.Name,
			Amount:     qty,
			Price:      details.CurrentPrice,
		}

		var user backend.User
		if c.kind == backend.TradeBuy {
			user, err = app.Trading.Buy(ctx, req)
		} else {
			user, err = app.Trading.Sell(ctx, req)
		}
		if err != nil {
			return err
		}

		fmt.Fprintf(out, "%s %s %s at %s (%s)\n", c.kind, amount(qty), details.Symbol,
			usd(details.CurrentPrice), usd(qty*details.CurrentPrice))
		fmt.Fprintf(out, "Balance: %s\n", usd(user.Balance))
		return nil
	})
}

type transactionsCmd struct{}

func (*transactionsCmd) Name() string     { return "transactions" }
func (*transactionsCmd) Synopsis() string { return "list your trade history" }
func (*transactionsCmd) Usage() string {
	return `marketgame transactions
`
}
func (*transactionsCmd) SetFlags(*flag.FlagSet) {}

func (*transactionsCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return run(ctx, func(app *core.App) error {
		history, err := app.Trading.History(ctx)
		if err != nil {
			return err
		}
		renderTransactions(out, history)
		return nil
	})
}

func renderSummary(w io.Writer, s portfolio.Summary) {
	t := newTable(w)
	fmt.Fprintln(t, "ASSET\tAMOUNT\tAVG PRICE\tPRICE\tVALUE\tP/L\t%\t")
	for _, p := range s.Positions {
		fmt.Fprintf(t, "%s\t%s\t%s\t%s\t%s\t%s\t%s\t\n", p.Symbol, amount(p.Amount), usd(p.AverageBuyPrice),
			usd(p.CurrentPrice), usd(p.TotalValue), signedUSD(p.ProfitLoss), percent(p.ProfitLossPercentage))
	}
	t.Flush()

	fmt.Fprintf(w, "\nCash balance:    %s\n", usd(s.Balance))
	fmt.Fprintf(w, "Positions value: %s\n", usd(s.PositionsValue))
	fmt.Fprintf(w, "Total value:     %s\n", usd(s.TotalValue))
	fmt.Fprintf(w, "Overall:         %s (%s) since %s\n", signedUSD(s.ProfitLoss), percent(s.ProfitPercentage), usd(s.StartingBalance))
}

func renderLeaderboard(w io.Writer, board leaderboard.Board) {
	if board.Degraded {
		fmt.Fprintln(w, "Showing sample standings, the leaderboard is unavailable.")
	}
	t := newTable(w)
	fmt.Fprintln(t, "RANK\tPLAYER\tTOTAL\tPROFIT\t\t")
	for _, e := range board.Entries {
		marker := ""
		if e.IsCurrentUser {
			marker = "(you)"
		}
		fmt.Fprintf(t, "%d\t%s\t%s\t%s\t%s\t\n", e.Rank, e.Username, usd(e.TotalValue), percent(e.ProfitPercentage), marker)
	}
	t.Flush()
}

func renderTransactions(w io.Writer, history []backend.Transaction) {
	if len(history) == 0 {
		fmt.Fprintln(w, "No transactions yet.")
		return
	}
	t := newTable(w)
	fmt.Fprintln(t, "DATE\tTYPE\tASSET\tAMOUNT\tPRICE\tTOTAL\t")
	for _, tx := range history {
		asset := tx.CryptoSymbol
		if asset == "" {
			asset = tx.CryptoName
		}
		fmt.Fprintf(t, "%s\t%s\t%s\t%s\t%s\t%s\t\n", tx.Date, tx.Type, asset, amount(tx.Amount),
			usd(tx.Price), usd(tx.Amount*tx.Price))
	}
	t.Flush()
}
