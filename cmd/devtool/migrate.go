package main

import (
	"github.com/urfave/cli/v2"

	"github.com/abeleng/shemeta/internal/database"
)

var migrateCmd = &cli.Command{
	Name:      "migrate",
	Usage:     "Manage database migrations",
	ArgsUsage: "up|down|status",
	Action: func(c *cli.Context) error {
		command, err := requireArg(c.Args().Slice(), "up|down|status")
		if err != nil {
			return err
		}
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		ui.Step("migrate %s against %s/%s", command, cfg.DBHost, cfg.DBName)
		pool, err := database.NewPool(c.Context, cfg.GetDBConnString(), database.PoolOptions{
			MaxConns:        cfg.DBMaxConns,
			MaxConnIdleTime: cfg.DBMaxConnIdleTime,
			MaxConnLifetime: cfg.DBMaxConnLifetime,
		})
		if err != nil {
			return err
		}
		defer pool.Close()

		if err := database.Migrate(c.Context, pool, command); err != nil {
			return err
		}
		ui.Success("migrate %s done", command)
		return nil
	},
}
