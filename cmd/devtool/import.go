package main

import (
	"github.com/urfave/cli/v2"

	"github.com/abeleng/shemeta/internal/refdata"
)

var fileFlag = &cli.StringFlag{
	Name:     "file",
	Aliases:  []string{"f"},
	Required: true,
	Usage:    "CSV, XLSX or YAML file to import",
}

var importCmd = &cli.Command{
	Name:  "import",
	Usage: "Import reference data or a farmer roster",
	Subcommands: []*cli.Command{
		{
			Name:  "geo",
			Usage: "Upsert geo units",
			Flags: []cli.Flag{fileFlag},
			Action: func(c *cli.Context) error {
				return runImport(c, func(e *env, im *refdata.Importer) (int, error) {
					return im.ImportGeoUnits(c.Context, c.String("file"))
				})
			},
		},
		{
			Name:  "features",
			Usage: "Replace feature records of the geo units in the file",
			Flags: []cli.Flag{fileFlag},
			Action: func(c *cli.Context) error {
				return runImport(c, func(e *env, im *refdata.Importer) (int, error) {
					return im.ImportFeatures(c.Context, c.String("file"))
				})
			},
		},
		{
			Name:  "farmers",
			Usage: "Create farmers and parcels; known ids are skipped",
			Flags: []cli.Flag{fileFlag},
			Action: func(c *cli.Context) error {
				return runImport(c, func(e *env, im *refdata.Importer) (int, error) {
					return im.ImportFarmers(c.Context, c.String("file"), e.ref.Resolver.Resolve)
				})
			},
		},
	},
}

func runImport(c *cli.Context, do func(*env, *refdata.Importer) (int, error)) error {
	e, err := openEnv(c.Context)
	if err != nil {
		return err
	}
	defer e.Close()

	repos := e.storage.Repositories
	n, err := do(e, refdata.NewImporter(repos.Geo, repos.Users, repos.Lands))
	if err != nil {
		return err
	}
	ui.Success("%s %s: %d rows stored", c.Command.Name, c.String("file"), n)
	return nil
}
