package tui

import (
	"github.com/charmbracelet/bubbles/key"

	"modelconsole/internal/console"
	"modelconsole/internal/models"
)

// Focus identifies which pane receives key input
type Focus string

const (
	// FocusModels is the installed model table
	FocusModels Focus = "models"
	// FocusCatalog is the installable model pane
	FocusCatalog Focus = "catalog"
	// FocusQuery is the query textarea
	FocusQuery Focus = "query"
)

// Messages produced by backend commands. Only Update applies them to state.
type (
	modelsLoadedMsg struct {
		models []models.Model
		err    error
	}

	catalogLoadedMsg struct {
		entries []models.CatalogEntry
		err     error
	}

	infoFetchedMsg struct {
		gen  uint64
		info models.InfoMap
	}

	queryDoneMsg struct {
		response string
		err      error
	}

	pullDoneMsg struct {
		result models.PullResult
		err    error
	}

	pullProgressMsg struct {
		progress models.PullProgress
	}

	infoSavedMsg struct {
		notice console.Notice
	}
)

// KeyMap lists every binding the console reacts to
type KeyMap struct {
	Up        key.Binding
	Down      key.Binding
	Select    key.Binding
	Info      key.Binding
	Pull      key.Binding
	Refresh   key.Binding
	Catalog   key.Binding
	Focus     key.Binding
	Submit    key.Binding
	Escape    key.Binding
	PageUp    key.Binding
	PageDown  key.Binding
	Help      key.Binding
	Quit      key.Binding
	ForceQuit key.Binding
}

// DefaultKeyMap returns the console key bindings
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "move up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "move down"),
		),
		Select: key.NewBinding(
			key.WithKeys(" ", "enter"),
			key.WithHelp("space/enter", "select model (pull in catalog)"),
		),
		Info: key.NewBinding(
			key.WithKeys("i"),
			key.WithHelp("i", "download licence and info"),
		),
		Pull: key.NewBinding(
			key.WithKeys("u"),
			key.WithHelp("u", "pull / update model"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "refresh models"),
		),
		Catalog: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "add models (catalog)"),
		),
		Focus: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "switch focus"),
		),
		Submit: key.NewBinding(
			key.WithKeys("ctrl+s"),
			key.WithHelp("ctrl+s", "submit query"),
		),
		Escape: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "dismiss notice / leave input"),
		),
		PageUp: key.NewBinding(
			key.WithKeys("pgup"),
			key.WithHelp("pgup", "scroll response up"),
		),
		PageDown: key.NewBinding(
			key.WithKeys("pgdown"),
			key.WithHelp("pgdn", "scroll response down"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "toggle help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q"),
			key.WithHelp("q", "quit"),
		),
		ForceQuit: key.NewBinding(
			key.WithKeys("ctrl+c"),
			key.WithHelp("ctrl+c", "quit"),
		),
	}
}

// HelpSections groups bindings for the help overlay
func (k KeyMap) HelpSections() []HelpSection {
	return []HelpSection{
		{Title: "Navigation", Bindings: []key.Binding{k.Up, k.Down, k.Focus, k.PageUp, k.PageDown, k.Escape}},
		{Title: "Models", Bindings: []key.Binding{k.Select, k.Info, k.Pull, k.Refresh, k.Catalog}},
		{Title: "Query", Bindings: []key.Binding{k.Submit}},
		{Title: "General", Bindings: []key.Binding{k.Help, k.Quit, k.ForceQuit}},
	}
}

// HelpSection is one titled block of the help overlay
type HelpSection struct {
	Title    string
	Bindings []key.Binding
}
