package tui

import (
	"context"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"scansector/internal/query"
	"scansector/internal/watch"
)

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true

		m.list.SetSize(msg.Width-4, msg.Height-4)
		m.filepicker.Height = msg.Height - 6
		m.viewport.Width = msg.Width
		m.viewport.Height = msg.Height - 6
		if m.state == stateMap {
			m.renderMap()
		}
		return m, nil

	case spinner.TickMsg:
		if !m.isLoading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case saveLoadedMsg:
		return m.handleSaveLoaded(msg)

	case loadFailedMsg:
		m.isLoading = false
		m.message = msg.err.Error()
		return m, nil

	case saveChangedMsg:
		// The game rewrote the save; parse it again and keep listening.
		return m, tea.Batch(loadSave(m.savePath, true), waitForChange(m.watcher))

	case watchStoppedMsg:
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m.updateComponents(msg)
}

// handleSaveLoaded installs a parsed save and moves to system selection,
// or refreshes the current view on a watch-triggered reload.
func (m Model) handleSaveLoaded(msg saveLoadedMsg) (tea.Model, tea.Cmd) {
	m.isLoading = false
	m.message = ""
	m.save = msg.save

	items := make([]list.Item, len(msg.save.Systems))
	for i, sys := range msg.save.Systems {
		items[i] = systemItem{sys: sys}
	}
	m.list.SetItems(items)

	if m.history != nil && !msg.reload {
		_, _ = m.history.RecordScan(msg.save)
	}

	var cmds []tea.Cmd
	if m.watcher == nil && m.savePath != "" {
		if w, err := watch.New(m.savePath, nil); err == nil {
			ctx, cancel := context.WithCancel(context.Background())
			if err := w.Start(ctx); err == nil {
				m.watcher = w
				m.cancel = cancel
				cmds = append(cmds, waitForChange(w))
			} else {
				cancel()
			}
		}
	}

	if msg.reload && m.state == stateMap {
		// Keep the user on the system they were reading if it still
		// exists after the reload.
		if sys, ok := msg.save.FindSystem(m.selected.Name); ok {
			m.selected = sys
			m.clampObjIndex()
			m.renderMap()
		} else {
			m.state = stateSystems
			m.message = "system " + m.selected.Name + " disappeared from the save"
		}
	} else if !msg.reload {
		m.state = stateSystems
	}

	return m, tea.Batch(cmds...)
}

// handleKey routes keys by screen.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		m.shutdown()
		return m, tea.Quit
	}

	if m.showHelp {
		// Any key dismisses the overlay.
		m.showHelp = false
		return m, nil
	}

	switch m.state {
	case statePicker:
		return m.handlePickerKey(msg)
	case stateSystems:
		return m.handleSystemsKey(msg)
	case stateMap:
		return m.handleMapKey(msg)
	}
	return m, nil
}

func (m Model) handlePickerKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "q" {
		m.shutdown()
		return m, tea.Quit
	}

	var cmd tea.Cmd
	m.filepicker, cmd = m.filepicker.Update(msg)

	if ok, path := m.filepicker.DidSelectFile(msg); ok {
		m.savePath = path
		m.isLoading = true
		m.message = ""
		return m, tea.Batch(cmd, loadSave(path, false), m.spinner.Tick)
	}
	return m, cmd
}

func (m Model) handleSystemsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// While the list's fuzzy filter is active it owns the keyboard.
	if m.list.FilterState() == list.Filtering {
		var cmd tea.Cmd
		m.list, cmd = m.list.Update(msg)
		return m, cmd
	}

	switch msg.String() {
	case "q":
		m.shutdown()
		return m, tea.Quit
	case "esc":
		m.state = statePicker
		return m, nil
	case "?":
		m.showHelp = true
		return m, nil
	case "enter":
		if item, ok := m.list.SelectedItem().(systemItem); ok {
			m.selected = item.sys
			m.filter = nil
			m.filterIn.SetValue("")
			m.objIndex = -1
			m.state = stateMap
			m.renderMap()
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) handleMapKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.filtering {
		switch msg.Type {
		case tea.KeyEsc:
			m.filtering = false
			m.filterIn.Blur()
			return m, nil
		case tea.KeyEnter:
			m.filtering = false
			m.filterIn.Blur()
			return m.applyFilter()
		}
		var cmd tea.Cmd
		m.filterIn, cmd = m.filterIn.Update(msg)
		return m, cmd
	}

	switch msg.String() {
	case "q":
		m.shutdown()
		return m, tea.Quit
	case "esc":
		m.state = stateSystems
		return m, nil
	case "?":
		m.showHelp = true
		return m, nil
	case "/":
		m.filtering = true
		m.filterIn.Focus()
		return m, nil
	case "c":
		// Clear the active filter.
		m.filter = nil
		m.filterIn.SetValue("")
		m.clampObjIndex()
		m.renderMap()
		return m, nil
	case "l":
		m.labels = !m.labels
		m.renderMap()
		return m, nil
	case "a":
		m.axes = !m.axes
		m.renderMap()
		return m, nil
	case "tab":
		m.cycleObject(1)
		return m, nil
	case "shift+tab":
		m.cycleObject(-1)
		return m, nil
	case "m":
		m.cycleMission()
		return m, nil
	case "b":
		return m.toggleBookmark()
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// applyFilter compiles the entered expression and narrows the map to
// matching objects.
func (m Model) applyFilter() (tea.Model, tea.Cmd) {
	src := m.filterIn.Value()
	if src == "" {
		m.filter = nil
		m.clampObjIndex()
		m.renderMap()
		return m, nil
	}

	f, err := query.Compile(src)
	if err != nil {
		m.message = err.Error()
		return m, nil
	}
	m.filter = f
	m.message = ""
	m.objIndex = -1
	m.renderMap()
	return m, nil
}

// cycleObject moves the object cursor through the visible objects.
func (m *Model) cycleObject(dir int) {
	objs := m.currentSystem().Objects
	if len(objs) == 0 {
		m.objIndex = -1
		return
	}
	m.objIndex = ((m.objIndex+dir)%len(objs) + len(objs)) % len(objs)
	m.renderMap()
}

// cycleMission jumps the cursor to the next mission target.
func (m *Model) cycleMission() {
	objs := m.currentSystem().Objects
	for step := 1; step <= len(objs); step++ {
		i := ((m.objIndex+step)%len(objs) + len(objs)) % len(objs)
		if objs[i].Mission {
			m.objIndex = i
			m.renderMap()
			return
		}
	}
	m.message = "no mission targets in this system"
}

// clampObjIndex keeps the cursor in range after the object set changes.
func (m *Model) clampObjIndex() {
	if n := len(m.currentSystem().Objects); m.objIndex >= n {
		m.objIndex = n - 1
	}
}

// toggleBookmark flags or unflags the object under the cursor.
func (m Model) toggleBookmark() (tea.Model, tea.Cmd) {
	objs := m.currentSystem().Objects
	if m.history == nil || m.objIndex < 0 || m.objIndex >= len(objs) {
		return m, nil
	}
	obj := objs[m.objIndex]

	marked, err := m.history.IsBookmarked(m.savePath, m.selected.Name, obj.Name)
	if err != nil {
		m.message = err.Error()
		return m, nil
	}
	if marked {
		err = m.history.RemoveBookmark(m.savePath, m.selected.Name, obj.Name)
	} else {
		err = m.history.AddBookmark(m.savePath, m.selected.Name, obj)
	}
	if err != nil {
		m.message = err.Error()
		return m, nil
	}
	if marked {
		m.message = "removed bookmark: " + obj.Name
	} else {
		m.message = "bookmarked: " + obj.Name
	}
	return m, nil
}

// updateComponents forwards messages that belong to whichever component
// is active.
func (m Model) updateComponents(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.state {
	case statePicker:
		m.filepicker, cmd = m.filepicker.Update(msg)
		if ok, path := m.filepicker.DidSelectFile(msg); ok {
			m.savePath = path
			m.isLoading = true
			return m, tea.Batch(cmd, loadSave(path, false), m.spinner.Tick)
		}
	case stateSystems:
		m.list, cmd = m.list.Update(msg)
	case stateMap:
		m.viewport, cmd = m.viewport.Update(msg)
	}
	return m, cmd
}
