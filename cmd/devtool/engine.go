package main

import (
	"errors"
	"os"
	"time"

	"github.com/urfave/cli/v2"
)

var rankCmd = &cli.Command{
	Name:  "rank",
	Usage: "Print the crop ranking of a geo unit",
	Flags: []cli.Flag{
		&cli.StringFlag{Name: "geo-unit", Aliases: []string{"g"}, Required: true, Usage: "geo unit id"},
	},
	Action: func(c *cli.Context) error {
		e, err := openEnv(c.Context)
		if err != nil {
			return err
		}
		defer e.Close()

		ranking, err := e.services.Profiles.Ranking(c.Context, c.String("geo-unit"))
		if err != nil {
			return err
		}
		return printJSON(os.Stdout, ranking)
	},
}

var matchCmd = &cli.Command{
	Name:  "match",
	Usage: "Print the matched farmers of a requirement",
	Flags: []cli.Flag{
		&cli.StringFlag{Name: "requirement", Aliases: []string{"r"}, Required: true, Usage: "requirement id"},
	},
	Action: func(c *cli.Context) error {
		e, err := openEnv(c.Context)
		if err != nil {
			return err
		}
		defer e.Close()

		req, err := e.storage.Requirements.GetRequirement(c.Context, c.String("requirement"))
		if err != nil {
			return err
		}
		matches, err := e.services.Market.MatchRequirement(c.Context, *req)
		if err != nil {
			return err
		}
		return printJSON(os.Stdout, matches)
	},
}

var tokenCmd = &cli.Command{
	Name:  "token",
	Usage: "Issue a bearer token for an existing user",
	Flags: []cli.Flag{
		&cli.StringFlag{Name: "user", Aliases: []string{"u"}, Required: true, Usage: "user id"},
	},
	Action: func(c *cli.Context) error {
		e, err := openEnv(c.Context)
		if err != nil {
			return err
		}
		defer e.Close()

		session, err := e.services.Auth.IssueToken(c.Context, c.String("user"))
		if err != nil {
			return err
		}
		return printJSON(os.Stdout, session)
	},
}

var expireCmd = &cli.Command{
	Name:  "expire",
	Usage: "Expire proposed offers past their deadline",
	Flags: []cli.Flag{
		&cli.IntFlag{Name: "limit", Value: 500, Usage: "maximum offers to expire"},
	},
	Action: func(c *cli.Context) error {
		limit := c.Int("limit")
		if limit <= 0 {
			return errors.New("limit must be positive")
		}
		e, err := openEnv(c.Context)
		if err != nil {
			return err
		}
		defer e.Close()

		n, err := e.services.Offers.ExpireDue(c.Context, time.Now().UTC(), limit)
		if err != nil {
			return err
		}
		ui.Success("expired %d offers", n)
		return nil
	},
}
