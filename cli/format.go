package cli

import (
	"fmt"
	"io"
	"math"
	"text/tabwriter"
	"time"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"

	"github.com/status-im/market-game/apperrors"
	"github.com/status-im/market-game/trading"
)

// usd renders an amount in dollars, e.g. $1,234.56
func usd(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		v = 0
	}
	cents := decimal.NewFromFloat(v).Shift(2).Round(0).IntPart()
	return money.New(cents, money.USD).Display()
}

// signedUSD prefixes gains with a plus sign
func signedUSD(v float64) string {
	if v > 0 {
		return "+" + usd(v)
	}
	return usd(v)
}

func percent(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		v = 0
	}
	return fmt.Sprintf("%+.2f%%", v)
}

// amount renders a coin quantity without trailing zeros
func amount(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return "0"
	}
	return decimal.NewFromFloat(v).String()
}

func newTable(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
}

// errorMessage is the text shown for a failed command
func errorMessage(err error) string {
	if apperrors.KindOf(err) == apperrors.KindInternal {
		return err.Error()
	}
	return trading.UserMessage(err)
}

func formatMillis(ms int64) string {
	return time.UnixMilli(ms).UTC().Format("2006-01-02 15:04")
}
