package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fyrsmithlabs/forge/internal/history"
	"github.com/fyrsmithlabs/forge/internal/ui"
)

var flagLimit int

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "List past implementation runs",
	RunE:  runRuns,
}

func init() {
	runsCmd.Flags().IntVar(&flagLimit, "limit", 20, "maximum runs to list")
}

func runRuns(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.close(ctx)

	path := a.cfg.History.Path
	if path == "" {
		path, err = history.DefaultPath()
		if err != nil {
			return err
		}
	}

	hist, err := history.Open(path)
	if err != nil {
		return err
	}
	defer hist.Close()

	runs, err := hist.ListRuns(ctx, flagLimit)
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println(ui.Warn("No recorded runs"))
		return nil
	}

	fmt.Println(ui.RenderRuns(runs))
	return nil
}
