package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/charmbracelet/glamour"
	"github.com/urfave/cli/v3"
	"golang.org/x/term"

	"github.com/colonyops/metajudge/internal/core/stats"
	statsview "github.com/colonyops/metajudge/internal/tui/views/stats"
	"github.com/colonyops/metajudge/pkg/iojson"
)

type StatsCmd struct {
	flags *Flags

	// flags
	savePath   string
	latest     bool
	jsonOutput bool
	plain      bool
}

// NewStatsCmd creates a new stats command
func NewStatsCmd(flags *Flags) *StatsCmd {
	return &StatsCmd{flags: flags}
}

// Register adds the stats command to the application
func (cmd *StatsCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "stats",
		Usage:     "Show statistics for a save file",
		UsageText: "metajudge stats (--save <path> | --latest) [--json] [--plain]",
		Description: `Aggregates a save file's recorded reviews into overall and
per-category statistics. Output renders as styled markdown when stdout
is a terminal, plain text otherwise.`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "save",
				Usage:       "path to a save file",
				Destination: &cmd.savePath,
			},
			&cli.BoolFlag{
				Name:        "latest",
				Usage:       "use the most recently modified save",
				Destination: &cmd.latest,
			},
			&cli.BoolFlag{
				Name:        "json",
				Usage:       "output the raw report as JSON",
				Destination: &cmd.jsonOutput,
			},
			&cli.BoolFlag{
				Name:        "plain",
				Usage:       "skip terminal rendering",
				Destination: &cmd.plain,
			},
		},
		Action: cmd.run,
	})

	return app
}

func (cmd *StatsCmd) run(ctx context.Context, c *cli.Command) error {
	snap, err := resolveSnapshot(cmd.flags, cmd.savePath, cmd.latest)
	if err != nil {
		return err
	}

	report := stats.Compute(
		snap.Reviews,
		snap.Data.TotalInsights,
		snap.Data.TotalJudges,
		cmd.flags.Config.JudgeCategories,
	)

	out := c.Root().Writer

	if cmd.jsonOutput {
		return iojson.WriteWith(out, os.Stderr, report)
	}

	md := statsview.Markdown(report)

	if cmd.plain || !term.IsTerminal(int(os.Stdout.Fd())) {
		_, err = fmt.Fprint(out, md)
		return err
	}

	rendered, err := glamour.Render(md, "dark")
	if err != nil {
		// Fall back to the raw markdown rather than failing the command.
		_, err = fmt.Fprint(out, md)
		return err
	}

	_, err = fmt.Fprint(out, rendered)
	return err
}
