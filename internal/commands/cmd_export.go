package commands

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"

	"github.com/colonyops/metajudge/internal/core/export"
	"github.com/colonyops/metajudge/internal/core/stats"
	"github.com/colonyops/metajudge/internal/data/dataset"
)

type ExportCmd struct {
	flags *Flags

	// flags
	savePath  string
	latest    bool
	out       string
	sortBy    string
	statsOnly bool
}

// NewExportCmd creates a new export command
func NewExportCmd(flags *Flags) *ExportCmd {
	return &ExportCmd{flags: flags}
}

// Register adds the export command to the application
func (cmd *ExportCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "export",
		Usage:     "Export a save's reviews or statistics to CSV",
		UsageText: "metajudge export (--save <path> | --latest) [--out <file>] [--sort-by insight|judge] [--stats]",
		Description: `Exports the recorded reviews of a save file as CSV, joined with the
insight text and judge scores from the insights dataset the save points
at. With --stats the per-category statistics are exported instead.`,
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
			&cli.StringFlag{
				Name:        "out",
				Aliases:     []string{"o"},
				Usage:       "output file (defaults to a timestamped name, - for stdout)",
				Destination: &cmd.out,
			},
			&cli.StringFlag{
				Name:        "sort-by",
				Usage:       "review sort order: insight or judge",
				Value:       string(export.SortByInsight),
				Destination: &cmd.sortBy,
			},
			&cli.BoolFlag{
				Name:        "stats",
				Usage:       "export per-category statistics instead of reviews",
				Destination: &cmd.statsOnly,
			},
		},
		Action: cmd.run,
	})

	return app
}

func (cmd *ExportCmd) run(ctx context.Context, c *cli.Command) error {
	snap, err := resolveSnapshot(cmd.flags, cmd.savePath, cmd.latest)
	if err != nil {
		return err
	}

	now := time.Now()
	categories := cmd.flags.Config.JudgeCategories

	out := cmd.out
	if out == "" {
		kind := "reviews"
		if cmd.statsOnly {
			kind = "statistics"
		}
		out = fmt.Sprintf("metajudge_%s_%s.csv", kind, now.Format("20060102_150405"))
	}

	w := c.Root().Writer
	if out != "-" {
		f, err := os.Create(out)
		if err != nil {
			return fmt.Errorf("create output file: %w", err)
		}
		defer func() { _ = f.Close() }()
		w = f
	}

	if cmd.statsOnly {
		report := stats.Compute(snap.Reviews, snap.Data.TotalInsights, snap.Data.TotalJudges, categories)
		if err := export.WriteStatistics(w, export.StatisticsRows(report, now)); err != nil {
			return err
		}
	} else {
		sortBy, err := export.ParseSortBy(cmd.sortBy)
		if err != nil {
			return err
		}

		// The insight join is best effort: a moved dataset still exports
		// the recorded assessments, just without text and scores.
		var insights *dataset.Insights
		if snap.Data.InsightsFile != "" {
			insights, _, err = dataset.LoadInsights(snap.Data.InsightsFile, categories)
			if err != nil {
				log.Warn().Err(err).Str("path", snap.Data.InsightsFile).
					Msg("exporting without insight context")
				insights = nil
			}
		}

		rows := export.ReviewRows(snap.Reviews, insights, categories, sortBy, now)
		if err := export.WriteReviews(w, rows); err != nil {
			return err
		}
	}

	if out != "-" {
		fmt.Fprintf(os.Stderr, "Exported %s\n", out)
	}
	return nil
}
