package metajudge

import (
	"github.com/colonyops/metajudge/internal/core/config"
	"github.com/colonyops/metajudge/internal/store/savefile"
)

// App bundles the long-lived collaborators the commands share.
type App struct {
	Config *config.Config
	Saves  *savefile.Store
}

// NewApp wires the save store from the loaded configuration.
func NewApp(cfg *config.Config) *App {
	return &App{
		Config: cfg,
		Saves:  savefile.NewStore(cfg.SaveDir),
	}
}

// SessionOptions builds the Options a new Session needs from the app's
// configuration.
func (a *App) SessionOptions() Options {
	return Options{
		Categories:    a.Config.JudgeCategories,
		Saves:         a.Saves,
		AutosaveDelay: a.Config.AutosaveDelay(),
	}
}
