package commands

import (
	"strings"

	"github.com/urfave/cli/v2"
	"gitlab.com/aoterocom/AOCryptomarket/helpers"
)

func marketsCommand() *cli.Command {
	return &cli.Command{
		Name:  "markets",
		Usage: "load listing pages and print the merged listing",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "pages", Value: 1, Usage: "number of pages to load"},
		},
		Action: withSession(func(c *cli.Context, s *session) error {
			pages := c.Int("pages")
			if pages < 1 {
				return cli.Exit("pages must be positive", 1)
			}

			if err := wait(c.Context, s.coordinator.LoadPage(1)); err != nil {
				return err
			}
			for page := 2; page <= pages; page++ {
				if err := wait(c.Context, s.coordinator.LoadMore()); err != nil {
					return err
				}
			}

			helpers.Logger.WithField("pages", s.coordinator.Page()).Infoln("listing loaded")
			renderCoins(c.App.Writer, "Markets", s.coordinator.Listing().Snapshot())
			return nil
		}),
	}
}

func searchCommand() *cli.Command {
	return &cli.Command{
		Name:      "search",
		Usage:     "search coins by free text",
		ArgsUsage: "QUERY",
		Action: withSession(func(c *cli.Context, s *session) error {
			query := strings.TrimSpace(strings.Join(c.Args().Slice(), " "))
			if query == "" {
				return cli.Exit("missing QUERY", 1)
			}

			if err := wait(c.Context, s.coordinator.Search(query)); err != nil {
				return err
			}
			renderCoins(c.App.Writer, "Results for "+query, s.coordinator.SearchResults().Snapshot())
			return nil
		}),
	}
}
