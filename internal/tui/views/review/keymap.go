package review

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	NextUnit    key.Binding
	PrevUnit    key.Binding
	NextInsight key.Binding
	PrevInsight key.Binding
	NextJudge   key.Binding
	PrevJudge   key.Binding

	LevelNo    key.Binding
	LevelMinor key.Binding
	LevelMajor key.Binding

	Explain   key.Binding
	Save      key.Binding
	Stats     key.Binding
	JumpIns   key.Binding
	JumpJudge key.Binding

	Search    key.Binding
	NextMatch key.Binding
	PrevMatch key.Binding

	Back key.Binding
	Help key.Binding
	Quit key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		NextUnit: key.NewBinding(
			key.WithKeys("n", "tab"),
			key.WithHelp("n", "next unit"),
		),
		PrevUnit: key.NewBinding(
			key.WithKeys("p", "shift+tab"),
			key.WithHelp("p", "prev unit"),
		),
		NextInsight: key.NewBinding(
			key.WithKeys("N", "ctrl+right"),
			key.WithHelp("N", "next insight"),
		),
		PrevInsight: key.NewBinding(
			key.WithKeys("P", "ctrl+left"),
			key.WithHelp("P", "prev insight"),
		),
		NextJudge: key.NewBinding(
			key.WithKeys("j", "ctrl+down"),
			key.WithHelp("j", "next judge"),
		),
		PrevJudge: key.NewBinding(
			key.WithKeys("k", "ctrl+up"),
			key.WithHelp("k", "prev judge"),
		),

		LevelNo: key.NewBinding(
			key.WithKeys("1"),
			key.WithHelp("1", "no issues"),
		),
		LevelMinor: key.NewBinding(
			key.WithKeys("2"),
			key.WithHelp("2", "minor issues"),
		),
		LevelMajor: key.NewBinding(
			key.WithKeys("3"),
			key.WithHelp("3", "major issues"),
		),

		Explain: key.NewBinding(
			key.WithKeys("e", "enter"),
			key.WithHelp("e", "edit explanation"),
		),
		Save: key.NewBinding(
			key.WithKeys("ctrl+s"),
			key.WithHelp("ctrl+s", "save"),
		),
		Stats: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "statistics"),
		),
		JumpIns: key.NewBinding(
			key.WithKeys("g"),
			key.WithHelp("g", "go to insight"),
		),
		JumpJudge: key.NewBinding(
			key.WithKeys("G"),
			key.WithHelp("G", "go to judge"),
		),

		Search: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "search workouts"),
		),
		NextMatch: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "next match"),
		),
		PrevMatch: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "prev match"),
		),

		Back: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "back"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{
		k.NextUnit, k.PrevUnit, k.LevelNo, k.LevelMinor, k.LevelMajor,
		k.Explain, k.Save, k.Stats, k.Help, k.Quit,
	}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.NextUnit, k.PrevUnit, k.NextInsight, k.PrevInsight, k.NextJudge, k.PrevJudge},
		{k.LevelNo, k.LevelMinor, k.LevelMajor, k.Explain, k.Save},
		{k.JumpIns, k.JumpJudge, k.Search, k.NextMatch, k.PrevMatch},
		{k.Stats, k.Back, k.Quit},
	}
}
