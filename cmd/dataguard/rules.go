package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/dmitrymomot/dataguard/pkg/quality"
	"github.com/dmitrymomot/dataguard/pkg/report"
)

func rulesCmd() *cli.Command {
	return &cli.Command{
		Name:  "rules",
		Usage: "List the rule catalog",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "category",
				Aliases: []string{"c"},
				Usage:   "only list rules of this category",
			},
			formatFlag,
			outputFlag,
		},
		Action: func(_ context.Context, cmd *cli.Command) error {
			if _, err := report.ParseFormat(cmd.String("format")); err != nil {
				return err
			}
			catalog, _, err := loadCatalog()
			if err != nil {
				return err
			}

			rules := catalog.Rules()
			if c := cmd.String("category"); c != "" {
				rules = catalog.ByCategory(quality.Category(c))
				if len(rules) == 0 {
					return fmt.Errorf("no rules in category %q", c)
				}
			}
			return writeOutput(cmd, rules)
		},
	}
}
