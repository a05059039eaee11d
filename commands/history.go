package commands

import (
	"strings"
	"time"

	"github.com/urfave/cli/v2"
	"gitlab.com/aoterocom/AOCryptomarket/helpers"
	"gitlab.com/aoterocom/AOCryptomarket/models"
	"gitlab.com/aoterocom/AOCryptomarket/services"
)

func historyCommand() *cli.Command {
	return &cli.Command{
		Name:      "history",
		Usage:     "assemble the candle history of a symbol",
		ArgsUsage: "SYMBOL",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "since", Value: "24h", Usage: "how far back to go, e.g. 6h or 7d"},
			&cli.StringFlag{Name: "interval", Value: "1m", Usage: "candle interval: 1m, 1h or 1d"},
			&cli.IntFlag{Name: "sma", Value: services.DefaultSMAWindow, Usage: "closes averaged by the SMA"},
		},
		Action: withSession(func(c *cli.Context, s *session) error {
			symbol := strings.ToUpper(strings.TrimSpace(c.Args().First()))
			if symbol == "" {
				return cli.Exit("missing SYMBOL", 1)
			}
			since, err := helpers.StringIntervalToDuration(c.String("since"))
			if err != nil {
				return cli.Exit("invalid since: "+err.Error(), 1)
			}
			interval, err := models.ParseInterval(c.String("interval"))
			if err != nil {
				return cli.Exit(err.Error(), 1)
			}

			if err := wait(c.Context, s.coordinator.LoadHistory(symbol, time.Now().Add(-since), interval)); err != nil {
				return err
			}

			summary, err := services.Summarize(s.coordinator.History().Snapshot(), interval, c.Int("sma"))
			if err != nil {
				return cli.Exit(err.Error(), 1)
			}
			renderSummary(c.App.Writer, symbol, interval, summary)
			return nil
		}),
	}
}
