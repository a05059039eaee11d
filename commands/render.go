package commands

import (
	"fmt"
	"io"
	"time"

	"github.com/olekukonko/tablewriter"
	"gitlab.com/aoterocom/AOCryptomarket/models"
	"gitlab.com/aoterocom/AOCryptomarket/services"
)

func renderCoins(w io.Writer, title string, coins []models.Coin) {
	fmt.Fprintf(w, "%s (%d)\n", title, len(coins))

	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"#", "ID", "Symbol", "Name", "Price", "24h %", "Updated"})
	table.SetAlignment(tablewriter.ALIGN_RIGHT)
	table.SetAutoWrapText(false)
	for i, coin := range coins {
		id := coin.ID
		if id == "" {
			id = "-"
		}
		table.Append([]string{
			fmt.Sprintf("%d", i+1),
			id,
			coin.Symbol,
			coin.Name,
			coin.CurrentPrice.String(),
			coin.PriceChangePercentage24h.StringFixed(2),
			coin.LastUpdated,
		})
	}
	table.Render()
}

func renderSummary(w io.Writer, symbol string, interval models.Interval, summary services.HistorySummary) {
	fmt.Fprintf(w, "%s history (%s)\n", symbol, interval)

	table := tablewriter.NewWriter(w)
	table.SetColumnSeparator("")
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.AppendBulk([][]string{
		{"Points", fmt.Sprintf("%d", summary.Points)},
		{"From", summary.From.UTC().Format(time.RFC3339)},
		{"To", summary.To.UTC().Format(time.RFC3339)},
		{"Last close", summary.LastClose.FormattedString(4)},
		{"High", summary.High.FormattedString(4)},
		{"Low", summary.Low.FormattedString(4)},
		{"Change", summary.ChangePct.FormattedString(2) + "%"},
		{fmt.Sprintf("SMA(%d)", summary.SMAWindow), summary.SMA.FormattedString(4)},
	})
	table.Render()
}
