// Command devtool runs maintenance tasks against the configured storage:
// migrations, reference imports, one-off engine queries and dead-letter
// inspection.
package main

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"
)

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	app := &cli.App{
		Name:  "devtool",
		Usage: "Maintenance tasks for the shemeta service",
		Commands: []*cli.Command{
			migrateCmd,
			importCmd,
			rankCmd,
			matchCmd,
			tokenCmd,
			expireCmd,
			deadLettersCmd,
		},
	}

	if err := app.Run(os.Args); err != nil {
		ui.Fail("%v", err)
		os.Exit(1)
	}
}
