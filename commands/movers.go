package commands

import "github.com/urfave/cli/v2"

func moversCommand() *cli.Command {
	return &cli.Command{
		Name:  "movers",
		Usage: "scrape the top gainers and losers",
		Action: withSession(func(c *cli.Context, s *session) error {
			if err := wait(c.Context, s.coordinator.RefreshGainersLosers()); err != nil {
				return err
			}
			renderCoins(c.App.Writer, "Gainers", s.coordinator.Gainers().Snapshot())
			renderCoins(c.App.Writer, "Losers", s.coordinator.Losers().Snapshot())
			return nil
		}),
	}
}
