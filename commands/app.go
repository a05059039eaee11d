package commands

import "github.com/urfave/cli/v2"

// NewApp builds the cryptomarket command line.
func NewApp() *cli.App {
	return &cli.App{
		Name:  "cryptomarket",
		Usage: "browse cryptocurrency markets, movers and candle history",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "conf",
				Usage:   "env file with the configuration",
				EnvVars: []string{"CONF_FILE"},
			},
		},
		Commands: []*cli.Command{
			marketsCommand(),
			searchCommand(),
			moversCommand(),
			historyCommand(),
			saveCommand(),
			deleteCommand(),
			savedCommand(),
		},
	}
}
