package commands

import (
	"github.com/urfave/cli/v2"
	"gitlab.com/aoterocom/AOCryptomarket/helpers"
	"gitlab.com/aoterocom/AOCryptomarket/models"
	"gitlab.com/aoterocom/AOCryptomarket/services"
)

func saveCommand() *cli.Command {
	return &cli.Command{
		Name:      "save",
		Usage:     "save coins by id",
		ArgsUsage: "ID...",
		Action: withSession(func(c *cli.Context, s *session) error {
			ids := helpers.UniqueStrings(c.Args().Slice())
			if len(ids) == 0 {
				return cli.Exit("missing ID", 1)
			}

			lookup := s.coordinator.LookupByIds(ids)
			if err := wait(c.Context, lookup); err != nil {
				return err
			}

			found := lookup.Result()
			if len(found) < len(ids) {
				helpers.Logger.WithField("requested", len(ids)).WithField("found", len(found)).
					Warnln("some ids were not found")
			}

			var tasks []*services.Task
			for _, coin := range found {
				tasks = append(tasks, s.coordinator.Save(coin))
			}
			tasks = append(tasks, s.coordinator.LoadSaved())
			if err := wait(c.Context, services.WaitAll(tasks...)); err != nil {
				return err
			}
			renderCoins(c.App.Writer, "Saved", s.coordinator.Saved().Snapshot())
			return nil
		}),
	}
}

func deleteCommand() *cli.Command {
	return &cli.Command{
		Name:      "delete",
		Usage:     "delete saved coins by id",
		ArgsUsage: "ID...",
		Action: withSession(func(c *cli.Context, s *session) error {
			ids := helpers.UniqueStrings(c.Args().Slice())
			if len(ids) == 0 {
				return cli.Exit("missing ID", 1)
			}

			if err := wait(c.Context, s.coordinator.LoadSaved()); err != nil {
				return err
			}
			var tasks []*services.Task
			for _, id := range ids {
				tasks = append(tasks, s.coordinator.Delete(models.Coin{ID: id}))
			}
			if err := wait(c.Context, services.WaitAll(tasks...)); err != nil {
				return err
			}
			renderCoins(c.App.Writer, "Saved", s.coordinator.Saved().Snapshot())
			return nil
		}),
	}
}

func savedCommand() *cli.Command {
	return &cli.Command{
		Name:  "saved",
		Usage: "print the saved coins",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "refresh", Usage: "fetch fresh market data for the saved coins"},
		},
		Action: withSession(func(c *cli.Context, s *session) error {
			if err := wait(c.Context, s.coordinator.LoadSaved()); err != nil {
				return err
			}
			if c.Bool("refresh") {
				if err := wait(c.Context, s.coordinator.RefreshSaved()); err != nil {
					return err
				}
			}
			renderCoins(c.App.Writer, "Saved", s.coordinator.Saved().Snapshot())
			return nil
		}),
	}
}
