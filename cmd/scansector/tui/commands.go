package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"scansector/internal/save"
	"scansector/internal/watch"
)

// saveLoadedMsg carries a freshly parsed save.
type saveLoadedMsg struct {
	save   *save.Save
	reload bool // true when triggered by the file watcher
}

// loadFailedMsg carries a parse or IO failure.
type loadFailedMsg struct {
	err error
}

// saveChangedMsg reports that the watched save was rewritten on disk.
type saveChangedMsg struct{}

// watchStoppedMsg reports that the watch channel closed.
type watchStoppedMsg struct{}

// loadSave parses the save file off the UI goroutine.
func loadSave(path string, reload bool) tea.Cmd {
	return func() tea.Msg {
		s, err := save.ParseFile(path)
		if err != nil {
			return loadFailedMsg{err: err}
		}
		return saveLoadedMsg{save: s, reload: reload}
	}
}

// waitForChange blocks on the watcher until the save is rewritten.
func waitForChange(w *watch.Watcher) tea.Cmd {
	return func() tea.Msg {
		if _, ok := <-w.Events(); !ok {
			return watchStoppedMsg{}
		}
		return saveChangedMsg{}
	}
}
