package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/charmbracelet/huh"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"

	"github.com/colonyops/metajudge/internal/metajudge"
	"github.com/colonyops/metajudge/internal/store/savefile"
	"github.com/colonyops/metajudge/internal/tui"
)

type ReviewCmd struct {
	flags *Flags

	// flags
	insightsPath string
	workoutsPath string
	savePath     string
	latest       bool
	fresh        bool
}

// NewReviewCmd creates a new review command
func NewReviewCmd(flags *Flags) *ReviewCmd {
	return &ReviewCmd{flags: flags}
}

// Register adds the review command to the application
func (cmd *ReviewCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "review",
		Usage:     "Open the review session",
		UsageText: "metajudge review --insights <csv> [--workouts <csv>] | (--save <path> | --latest)",
		Description: `Opens the interactive review session for an insights dataset.

When a save file already exists for the dataset pairing you are asked
whether to resume it or start fresh; starting fresh deletes the save.
Passing --save or --latest resumes a specific save directly.`,
		Flags:  cmd.Flags(),
		Action: cmd.Run,
	})

	return app
}

// Flags returns the review command's flag set so the root command can
// share them when review runs as the default action.
func (cmd *ReviewCmd) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "insights",
			Aliases:     []string{"i"},
			Usage:       "path to the insights CSV",
			Destination: &cmd.insightsPath,
		},
		&cli.StringFlag{
			Name:        "workouts",
			Aliases:     []string{"w"},
			Usage:       "path to the workout-history CSV",
			Destination: &cmd.workoutsPath,
		},
		&cli.StringFlag{
			Name:        "save",
			Usage:       "resume a specific save file",
			Destination: &cmd.savePath,
		},
		&cli.BoolFlag{
			Name:        "latest",
			Usage:       "resume the most recently modified save",
			Destination: &cmd.latest,
		},
		&cli.BoolFlag{
			Name:        "fresh",
			Usage:       "discard any existing save for this dataset pairing",
			Destination: &cmd.fresh,
		},
	}
}

// Run is the review command action.
func (cmd *ReviewCmd) Run(ctx context.Context, c *cli.Command) error {
	snap, err := cmd.pickSave()
	if err != nil {
		return err
	}

	opts := cmd.flags.App.SessionOptions()
	opts.Logger = log.With().Str("component", "session").Logger()

	var (
		sess   *metajudge.Session
		report *metajudge.LoadReport
	)
	if snap != nil {
		if err := cmd.relinkMissing(snap); err != nil {
			return err
		}
		sess, report, err = metajudge.Resume(opts, snap)
	} else {
		if cmd.insightsPath == "" {
			return fmt.Errorf("no dataset selected: pass --insights, --save, or --latest")
		}
		sess, report, err = metajudge.Start(opts, cmd.insightsPath, cmd.workoutsPath)
	}
	if err != nil {
		return err
	}
	defer func() {
		if err := sess.Close(); err != nil {
			fmt.Fprintf(os.Stderr, "final save failed: %v\n", err)
		}
	}()

	return tui.Run(sess, report, cmd.flags.Config)
}

// pickSave decides which save file, if any, the session resumes from.
func (cmd *ReviewCmd) pickSave() (*savefile.Snapshot, error) {
	if cmd.savePath != "" || cmd.latest {
		return resolveSnapshot(cmd.flags, cmd.savePath, cmd.latest)
	}
	if cmd.insightsPath == "" {
		return nil, nil
	}

	saves := cmd.flags.App.Saves
	path, exists := saves.Find(cmd.insightsPath, cmd.workoutsPath)
	if !exists {
		return nil, nil
	}

	if cmd.fresh {
		return nil, saves.Delete(path)
	}

	const (
		choiceResume = "resume"
		choiceFresh  = "fresh"
		choiceCancel = "cancel"
	)

	choice := choiceResume
	err := huh.NewSelect[string]().
		Title("A save already exists for these datasets.").
		Options(
			huh.NewOption("Resume previous progress", choiceResume),
			huh.NewOption("Start fresh (deletes the save)", choiceFresh),
			huh.NewOption("Cancel", choiceCancel),
		).
		Value(&choice).
		Run()
	if err != nil {
		return nil, err
	}

	switch choice {
	case choiceResume:
		return saves.Load(path)
	case choiceFresh:
		return nil, saves.Delete(path)
	default:
		return nil, fmt.Errorf("cancelled")
	}
}

// relinkMissing prompts for replacement dataset paths when the save's
// recorded files no longer exist, preferring paths given on the command
// line.
func (cmd *ReviewCmd) relinkMissing(snap *savefile.Snapshot) error {
	missing := snap.MissingPaths()
	if !missing.Any() {
		return nil
	}

	newInsights := ""
	newWorkouts := ""

	if missing.Insights {
		if cmd.insightsPath != "" {
			newInsights = cmd.insightsPath
		} else {
			err := huh.NewInput().
				Title(fmt.Sprintf("Insights dataset not found: %s", snap.Data.InsightsFile)).
				Description("Enter the new path to the insights CSV.").
				Value(&newInsights).
				Run()
			if err != nil {
				return err
			}
		}
	}

	if missing.Workout {
		if cmd.workoutsPath != "" {
			newWorkouts = cmd.workoutsPath
		} else {
			err := huh.NewInput().
				Title(fmt.Sprintf("Workout dataset not found: %s", snap.Data.WorkoutFile)).
				Description("Enter the new path, or leave empty to continue without it.").
				Value(&newWorkouts).
				Run()
			if err != nil {
				return err
			}
			if newWorkouts == "" {
				snap.Data.WorkoutFile = ""
			}
		}
	}

	return cmd.flags.App.Saves.Relink(snap, newInsights, newWorkouts)
}
