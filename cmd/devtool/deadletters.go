package main

import (
	"os"
	"sort"

	"github.com/urfave/cli/v2"

	"github.com/abeleng/shemeta/internal/event"
)

type deadLetterSummary struct {
	Type     event.Type `json:"type"`
	Count    int        `json:"count"`
	LastSeen string     `json:"last_seen"`
}

var deadLettersCmd = &cli.Command{
	Name:  "deadletters",
	Usage: "Inspect events the publisher gave up on",
	Flags: []cli.Flag{
		&cli.StringFlag{Name: "file", Aliases: []string{"f"}, Usage: "dead-letter file (default EVENT_DEADLETTER_PATH)"},
		&cli.BoolFlag{Name: "summary", Aliases: []string{"s"}, Usage: "count entries per event type instead of listing them"},
	},
	Action: func(c *cli.Context) error {
		path := c.String("file")
		if path == "" {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			path = cfg.EventDeadLetterPath
		}

		entries, err := event.ReadDeadLetters(path)
		if err != nil {
			return err
		}
		if len(entries) == 0 {
			ui.Success("%s: no undelivered events", path)
			return nil
		}
		if !c.Bool("summary") {
			return printJSON(os.Stdout, entries)
		}
		return printJSON(os.Stdout, summarizeDeadLetters(entries))
	},
}

// summarizeDeadLetters groups entries by type, most frequent first
func summarizeDeadLetters(entries []event.DeadLetterEntry) []deadLetterSummary {
	byType := make(map[event.Type]*deadLetterSummary)
	for _, e := range entries {
		s, ok := byType[e.Type]
		if !ok {
			s = &deadLetterSummary{Type: e.Type}
			byType[e.Type] = s
		}
		s.Count++
		if ts := e.Timestamp.UTC().Format("2006-01-02T15:04:05Z"); ts > s.LastSeen {
			s.LastSeen = ts
		}
	}

	out := make([]deadLetterSummary, 0, len(byType))
	for _, s := range byType {
		out = append(out, *s)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Type < out[j].Type
	})
	return out
}
