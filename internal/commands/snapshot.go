package commands

import (
	"fmt"

	"github.com/colonyops/metajudge/internal/store/savefile"
)

// resolveSnapshot loads the save selected by --save or --latest.
func resolveSnapshot(flags *Flags, savePath string, latest bool) (*savefile.Snapshot, error) {
	switch {
	case savePath != "":
		return flags.App.Saves.Load(savePath)
	case latest:
		entry, err := flags.App.Saves.MostRecent()
		if err != nil {
			return nil, err
		}
		return flags.App.Saves.Load(entry.Path)
	default:
		return nil, fmt.Errorf("no save selected: pass --save <path> or --latest")
	}
}
