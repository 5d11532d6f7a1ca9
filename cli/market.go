package cli

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/google/subcommands"

	"github.com/status-im/market-game/core"
	"github.com/status-im/market-game/market"
)

var out io.Writer = os.Stdout

type marketCmd struct {
	limit  int
	search string
}

func (*marketCmd) Name() string     { return "market" }
func (*marketCmd) Synopsis() string { return "list the top cryptocurrencies by market cap" }
func (*marketCmd) Usage() string {
	return `marketgame market [-limit <n>] [-search <text>]

  Lists the market snapshot. Served from the cache while fresh, then from
  the price API, then from stale cache, and finally from a built-in list.
`
}

func (c *marketCmd) SetFlags(f *flag.FlagSet) {
	f.IntVar(&c.limit, "limit", 0, "Number of assets, the configured top limit when 0")
	f.StringVar(&c.search, "search", "", "Filter by name or symbol")
}

func (c *marketCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return run(ctx, func(app *core.App) error {
		cryptos := app.Market.FetchTopCryptos(ctx, c.limit)
		renderMarket(out, search(cryptos, c.search))
		return nil
	})
}

type detailsCmd struct{}

func (*detailsCmd) Name() string     { return "details" }
func (*detailsCmd) Synopsis() string { return "show one cryptocurrency" }
func (*detailsCmd) Usage() string {
	return `marketgame details <id>
`
}
func (*detailsCmd) SetFlags(*flag.FlagSet) {}

func (*detailsCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "details requires exactly one asset id")
		return subcommands.ExitUsageError
	}
	return run(ctx, func(app *core.App) error {
		details, err := app.Market.FetchCryptoDetails(ctx, f.Arg(0))
		if err != nil {
			return err
		}
		renderDetails(out, details)
		return nil
	})
}

type historyCmd struct {
	days int
}

func (*historyCmd) Name() string     { return "history" }
func (*historyCmd) Synopsis() string { return "show a simulated price history" }
func (*historyCmd) Usage() string {
	return `marketgame history [-days <n>] <id>

  The price API has no history endpoint. The series is synthesized from the
  current price and the 24h change, it is not real data.
`
}

func (c *historyCmd) SetFlags(f *flag.FlagSet) {
	f.IntVar(&c.days, "days", 7, "Number of days, at most 365")
}

func (c *historyCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 || c.days <= 0 {
		fmt.Fprintln(os.Stderr, "history requires one asset id and a positive -days")
		return subcommands.ExitUsageError
	}
	return run(ctx, func(app *core.App) error {
		points := app.Market.FetchCryptoPriceHistory(ctx, f.Arg(0), c.days)
		renderHistory(out, points)
		return nil
	})
}

type refreshCmd struct{}

func (*refreshCmd) Name() string     { return "refresh" }
func (*refreshCmd) Synopsis() string { return "drop the cached market data" }
func (*refreshCmd) Usage() string {
	return `marketgame refresh
`
}
func (*refreshCmd) SetFlags(*flag.FlagSet) {}

func (*refreshCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return run(ctx, func(app *core.App) error {
		return app.Market.ClearCryptoCache(ctx)
	})
}

func search(cryptos []market.Cryptocurrency, query string) []market.Cryptocurrency {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return cryptos
	}
	result := []market.Cryptocurrency{}
	for _, c := range cryptos {
		if strings.Contains(strings.ToLower(c.Name), query) || strings.Contains(strings.ToLower(c.Symbol), query) {
			result = append(result, c)
		}
	}
	return result
}

func renderMarket(w io.Writer, cryptos []market.Cryptocurrency) {
	t := newTable(w)
	fmt.Fprintln(t, "#\tNAME\tSYMBOL\tPRICE\t24H\tMARKET CAP\t")
	for i, c := range cryptos {
		fmt.Fprintf(t, "%d\t%s\t%s\t%s\t%s\t%s\t\n", i+1, c.Name, c.Symbol,
			usd(c.CurrentPrice), percent(c.PriceChangePercentage24h), usd(c.MarketCap))
	}
	t.Flush()
}

func renderDetails(w io.Writer, d market.CryptoDetails) {
	t := newTable(w)
	fmt.Fprintf(t, "Name\t%s (%s)\n", d.Name, d.Symbol)
	fmt.Fprintf(t, "Rank\t%d\n", d.Rank)
	fmt.Fprintf(t, "Price\t%s\n", usd(d.CurrentPrice))
	fmt.Fprintf(t, "Change 1h / 24h / 7d\t%s / %s / %s\n",
		percent(d.PriceChangePercentage1h), percent(d.PriceChangePercentage24h), percent(d.PriceChangePercentage7d))
	fmt.Fprintf(t, "Market cap\t%s\n", usd(d.MarketCap))
	fmt.Fprintf(t, "Volume 24h\t%s\n", usd(d.Volume24h))
	fmt.Fprintf(t, "Circulating supply\t%s\n", amount(d.CirculatingSupply))
	if d.MaxSupply > 0 {
		fmt.Fprintf(t, "Max supply\t%s\n", amount(d.MaxSupply))
	}
	t.Flush()
}

func renderHistory(w io.Writer, points []market.PriceHistoryPoint) {
	t := newTable(w)
	fmt.Fprintln(t, "TIME (UTC)\tPRICE\t")
	for _, p := range points {
		fmt.Fprintf(t, "%s\t%s\t\n", formatMillis(p.Timestamp), usd(p.Price))
	}
	t.Flush()
	fmt.Fprintln(w, "Simulated series, not real historical data.")
}
