package main

import "github.com/urfave/cli/v2"

func (s *srv) loadApp() {
	s.app = cli.NewApp()
	s.app.Action = cli.ShowAppHelp
	s.app.Name = "nav-rewards"
	s.app.Usage = "Recognition and rewards platform"
	s.app.Flags = []cli.Flag{
		&cli.StringFlag{
			Name:    "config",
			Usage:   "Path to the configuration file",
			Value:   "config.toml",
			EnvVars: []string{"CONFIG_PATH"},
		},
	}
	s.app.Commands = []*cli.Command{
		{
			Action:      s.startApi,
			Name:        "api",
			Usage:       "Start the api server",
			Category:    "Api",
			Description: "Serves the reward, marketplace, and feedback APIs.",
		},
		{
			Action:      s.startCron,
			Name:        "cron",
			Usage:       "Start the cron worker",
			Category:    "Worker",
			Description: "Runs computed rewards, scheduled mystery boxes, award expiry, and the notification outbox.",
		},
		{
			Action:      s.startMigrate,
			Name:        "migrate",
			Usage:       "Migrate the database schema",
			Category:    "Database",
			Description: "Creates or updates all tables.",
		},
	}
}
