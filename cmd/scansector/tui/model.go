// Package tui implements the interactive save browser.
//
// Flow: pick a save file, filter and select a star system, then read the
// rendered map. The loaded save is watched on disk so the map refreshes
// after each in-game save. Split across files:
//   - model.go: types, construction, Init
//   - update.go: the Update loop and key handling
//   - view.go: rendering
//   - commands.go: tea.Cmd producers (parsing, watch plumbing)
//   - help.go: the help overlay
package tui

import (
	"context"
	"fmt"
	"os"

	"github.com/charmbracelet/bubbles/filepicker"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"scansector/cmd/scansector/ui"
	"scansector/internal/config"
	"scansector/internal/query"
	"scansector/internal/save"
	"scansector/internal/store"
	"scansector/internal/watch"
)

// viewState determines which screen is active.
type viewState int

const (
	statePicker  viewState = iota // choosing a save file
	stateSystems                  // choosing a star system
	stateMap                      // reading the rendered map
)

// systemItem adapts a star system for the bubbles list.
type systemItem struct {
	sys save.System
}

func (i systemItem) Title() string { return i.sys.Name }
func (i systemItem) Description() string {
	return fmt.Sprintf("%d objects, %d mission", len(i.sys.Objects), len(i.sys.MissionObjects()))
}
func (i systemItem) FilterValue() string { return i.sys.Name }

// Model is the main model for the interactive browser.
type Model struct {
	// UI components
	filepicker filepicker.Model
	list       list.Model
	viewport   viewport.Model
	spinner    spinner.Model
	filterIn   textinput.Model
	styles     ui.Styles

	state viewState

	// Loaded data
	cfg      *config.Config
	savePath string
	save     *save.Save
	selected save.System

	// Map state
	objIndex  int           // index into selected.Objects, -1 when none
	filter    *query.Filter // nil when no filter active
	filtering bool          // filter input focused
	labels    bool
	axes      bool

	// Plumbing
	history *store.History
	watcher *watch.Watcher
	cancel  context.CancelFunc

	// Transient state
	isLoading bool
	message   string
	showHelp  bool
	width     int
	height    int
	ready     bool
}

// NewModel assembles the browser. A nil history disables bookmarking.
func NewModel(cfg *config.Config, history *store.History) Model {
	styles := ui.NewStyles(ui.ThemeByName(cfg.Theme))

	fp := filepicker.New()
	fp.AllowedTypes = []string{".xml"}
	if cfg.SavesDir != "" {
		fp.CurrentDirectory = cfg.SavesDir
	} else if home, err := os.UserHomeDir(); err == nil {
		fp.CurrentDirectory = home
	}

	delegate := list.NewDefaultDelegate()
	l := list.New(nil, delegate, 0, 0)
	l.Title = "Select a System"
	l.SetShowStatusBar(false)

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	fi := textinput.New()
	fi.Placeholder = `filter: Mission || Name contains "Derelict"`
	fi.CharLimit = 200

	return Model{
		filepicker: fp,
		list:       l,
		spinner:    sp,
		filterIn:   fi,
		styles:     styles,
		state:      statePicker,
		cfg:        cfg,
		history:    history,
		objIndex:   -1,
		labels:     cfg.Grid.Labels,
		axes:       cfg.Grid.Axes,
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.filepicker.Init(), m.spinner.Tick)
}

// Run launches the interactive browser and blocks until it exits.
func Run(cfg *config.Config) error {
	var history *store.History
	if cfg.History.Enabled {
		h, err := store.NewHistory(cfg.History.Path)
		if err == nil {
			history = h
			defer h.Close()
		}
		// A broken history database should not keep the browser from
		// starting; bookmarking is simply unavailable.
	}

	m := NewModel(cfg, history)
	p := tea.NewProgram(m, tea.WithAltScreen())
	final, err := p.Run()
	if err != nil {
		return fmt.Errorf("browser error: %w", err)
	}
	if fm, ok := final.(Model); ok {
		fm.shutdown()
	}
	return nil
}

// shutdown releases the watcher.
func (m *Model) shutdown() {
	if m.watcher != nil {
		m.watcher.Stop()
		m.watcher = nil
	}
	if m.cancel != nil {
		m.cancel()
		m.cancel = nil
	}
}

// currentSystem returns the selected system with any active filter
// applied.
func (m *Model) currentSystem() save.System {
	if m.filter == nil {
		return m.selected
	}
	sys, err := m.filter.Select(m.selected)
	if err != nil {
		// Compile already vetted the expression, so runtime errors are
		// unexpected; fall back to the unfiltered view.
		return m.selected
	}
	return sys
}
