package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/charmbracelet/huh"
	"github.com/urfave/cli/v3"

	"github.com/colonyops/metajudge/pkg/iojson"
)

type SavesCmd struct {
	flags *Flags

	// flags
	jsonOutput bool
	watch      bool
	yes        bool
}

// NewSavesCmd creates a new saves command
func NewSavesCmd(flags *Flags) *SavesCmd {
	return &SavesCmd{flags: flags}
}

// Register adds the saves command to the application
func (cmd *SavesCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "saves",
		Usage:     "List review save files",
		UsageText: "metajudge saves [--json] [--watch]",
		Description: `Displays the save files in the save directory, most recently
modified first.

Use --watch to keep the listing open and reprint whenever a save file
changes on disk.`,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:        "json",
				Usage:       "output as JSON lines",
				Destination: &cmd.jsonOutput,
			},
			&cli.BoolFlag{
				Name:        "watch",
				Usage:       "reprint the listing when saves change",
				Destination: &cmd.watch,
			},
		},
		Action: cmd.run,
		Commands: []*cli.Command{
			{
				Name:      "rm",
				Usage:     "Delete a save file",
				UsageText: "metajudge saves rm <path>",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:        "yes",
						Aliases:     []string{"y"},
						Usage:       "skip the confirmation prompt",
						Destination: &cmd.yes,
					},
				},
				Action: cmd.runRm,
			},
		},
	})

	return app
}

func (cmd *SavesCmd) run(ctx context.Context, c *cli.Command) error {
	out := c.Root().Writer

	if err := cmd.print(out); err != nil {
		return err
	}

	if !cmd.watch {
		return nil
	}

	watcher, err := cmd.flags.App.Saves.Watch()
	if err != nil {
		return fmt.Errorf("watch save directory: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-watcher.Events():
			if err := cmd.print(out); err != nil {
				return err
			}
		}
	}
}

// saveInfo is the JSON output format for metajudge saves --json.
type saveInfo struct {
	Name     string `json:"name"`
	Path     string `json:"path"`
	Modified string `json:"modified"`
}

func (cmd *SavesCmd) print(out io.Writer) error {
	entries, err := cmd.flags.App.Saves.List()
	if err != nil {
		return fmt.Errorf("list saves: %w", err)
	}

	if len(entries) == 0 {
		if !cmd.jsonOutput {
			fmt.Fprintf(os.Stderr, "No saves found in %s\n", cmd.flags.App.Saves.Dir())
		}
		return nil
	}

	if cmd.jsonOutput {
		for _, e := range entries {
			info := saveInfo{
				Name:     e.Name,
				Path:     e.Path,
				Modified: e.ModTime.Format("2006-01-02 15:04:05"),
			}
			if err := iojson.WriteLine(out, info); err != nil {
				return fmt.Errorf("encode save entry: %w", err)
			}
		}
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "NAME\tMODIFIED\tPATH")
	for _, e := range entries {
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\n", e.Name, e.ModTime.Format("2006-01-02 15:04"), e.Path)
	}
	return w.Flush()
}

func (cmd *SavesCmd) runRm(ctx context.Context, c *cli.Command) error {
	path := c.Args().First()
	if path == "" {
		return fmt.Errorf("usage: metajudge saves rm <path>")
	}

	if !cmd.yes {
		var confirmed bool
		err := huh.NewConfirm().
			Title(fmt.Sprintf("Delete %s?", path)).
			Description("All recorded reviews in this save will be lost.").
			Value(&confirmed).
			Run()
		if err != nil {
			return err
		}
		if !confirmed {
			return nil
		}
	}

	if err := cmd.flags.App.Saves.Delete(path); err != nil {
		return err
	}

	fmt.Fprintf(os.Stderr, "Deleted %s\n", path)
	return nil
}
