package tui

import (
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"scansector/internal/config"
	"scansector/internal/save"
)

func testModel(t *testing.T) Model {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.Theme = "dark"
	cfg.History.Enabled = false
	m := NewModel(cfg, nil)

	// Pretend the terminal reported its size.
	next, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	return next.(Model)
}

func testSave() *save.Save {
	return &save.Save{
		Path: "/saves/campaign.xml",
		Systems: []save.System{
			{Name: "Askonia", Objects: []save.Object{
				{Name: "Sindria", Kind: save.KindPlanet, Pos: save.Position{X: 100, Y: -100}},
			}},
			{Name: "Corvus", Objects: []save.Object{
				{Name: "Corvus Prime", Kind: save.KindPlanet},
				{Name: "Derelict", Kind: save.KindEntity, Pos: save.Position{X: -3500, Y: 4200}, Mission: true},
			}},
		},
	}
}

func TestModel_StartsOnPicker(t *testing.T) {
	m := testModel(t)
	if m.state != statePicker {
		t.Errorf("initial state = %v, want picker", m.state)
	}
	if !strings.Contains(m.View(), "Pick a save") {
		t.Error("picker view missing prompt")
	}
}

func TestModel_SaveLoadedShowsSystems(t *testing.T) {
	m := testModel(t)

	next, _ := m.Update(saveLoadedMsg{save: testSave()})
	m = next.(Model)

	if m.state != stateSystems {
		t.Fatalf("state = %v, want systems", m.state)
	}
	if len(m.list.Items()) != 2 {
		t.Errorf("expected 2 list items, got %d", len(m.list.Items()))
	}

	view := m.View()
	for _, name := range []string{"Askonia", "Corvus"} {
		if !strings.Contains(view, name) {
			t.Errorf("systems view missing %q", name)
		}
	}
}

func TestModel_LoadFailureShowsMessage(t *testing.T) {
	m := testModel(t)
	m.isLoading = true

	next, _ := m.Update(loadFailedMsg{err: errors.New("decode save: unexpected EOF")})
	m = next.(Model)

	if m.isLoading {
		t.Error("still loading after failure")
	}
	if !strings.Contains(m.View(), "unexpected EOF") {
		t.Error("view missing load error")
	}
}

func TestModel_EnterOpensMap(t *testing.T) {
	m := testModel(t)
	next, _ := m.Update(saveLoadedMsg{save: testSave()})
	m = next.(Model)

	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = next.(Model)

	if m.state != stateMap {
		t.Fatalf("state = %v, want map", m.state)
	}
	if m.selected.Name != "Askonia" {
		t.Errorf("selected = %q, want Askonia (first list item)", m.selected.Name)
	}
	if !strings.Contains(m.View(), "Current System: Askonia") {
		t.Error("map view missing system heading")
	}
}

func TestModel_EscReturnsToSystems(t *testing.T) {
	m := testModel(t)
	next, _ := m.Update(saveLoadedMsg{save: testSave()})
	m = next.(Model)
	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = next.(Model)

	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	m = next.(Model)
	if m.state != stateSystems {
		t.Errorf("state = %v, want systems after esc", m.state)
	}
}

func TestModel_ObjectCursor(t *testing.T) {
	m := testModel(t)
	next, _ := m.Update(saveLoadedMsg{save: testSave()})
	m = next.(Model)

	// Select Corvus (second item).
	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyDown})
	m = next.(Model)
	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = next.(Model)
	if m.selected.Name != "Corvus" {
		t.Fatalf("selected = %q, want Corvus", m.selected.Name)
	}

	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyTab})
	m = next.(Model)
	if m.objIndex != 0 {
		t.Errorf("objIndex = %d, want 0 after tab", m.objIndex)
	}

	// 'm' jumps to the mission target.
	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'m'}})
	m = next.(Model)
	objs := m.currentSystem().Objects
	if m.objIndex < 0 || !objs[m.objIndex].Mission {
		t.Errorf("cursor not on a mission target: index %d", m.objIndex)
	}
	if !strings.Contains(m.View(), "Derelict") {
		t.Error("status line missing cursor object")
	}
}

func TestModel_FilterNarrowsMap(t *testing.T) {
	m := testModel(t)
	next, _ := m.Update(saveLoadedMsg{save: testSave()})
	m = next.(Model)
	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyDown})
	m = next.(Model)
	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = next.(Model)

	// Open the filter prompt and apply an expression.
	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'/'}})
	m = next.(Model)
	if !m.filtering {
		t.Fatal("filter prompt not active after /")
	}
	m.filterIn.SetValue("Mission")
	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = next.(Model)

	if m.filter == nil {
		t.Fatal("filter not applied")
	}
	if got := len(m.currentSystem().Objects); got != 1 {
		t.Errorf("filtered system has %d objects, want 1", got)
	}

	// 'c' clears it again.
	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'c'}})
	m = next.(Model)
	if m.filter != nil {
		t.Error("filter still active after clear")
	}
}

func TestModel_BadFilterShowsError(t *testing.T) {
	m := testModel(t)
	next, _ := m.Update(saveLoadedMsg{save: testSave()})
	m = next.(Model)
	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = next.(Model)

	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'/'}})
	m = next.(Model)
	m.filterIn.SetValue("Name +")
	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = next.(Model)

	if m.filter != nil {
		t.Error("malformed filter was applied")
	}
	if m.message == "" {
		t.Error("no error message for malformed filter")
	}
}

func TestModel_ReloadKeepsSelection(t *testing.T) {
	m := testModel(t)
	next, _ := m.Update(saveLoadedMsg{save: testSave()})
	m = next.(Model)
	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyDown})
	m = next.(Model)
	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = next.(Model)

	// A reload with the system still present keeps the map open.
	next, _ = m.Update(saveLoadedMsg{save: testSave(), reload: true})
	m = next.(Model)
	if m.state != stateMap || m.selected.Name != "Corvus" {
		t.Errorf("reload lost selection: state=%v selected=%q", m.state, m.selected.Name)
	}

	// A reload without it falls back to the system list.
	smaller := &save.Save{Systems: []save.System{{Name: "Askonia"}}}
	next, _ = m.Update(saveLoadedMsg{save: smaller, reload: true})
	m = next.(Model)
	if m.state != stateSystems {
		t.Errorf("state = %v, want systems after system vanished", m.state)
	}
}

func TestModel_HelpOverlay(t *testing.T) {
	m := testModel(t)
	next, _ := m.Update(saveLoadedMsg{save: testSave()})
	m = next.(Model)

	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'?'}})
	m = next.(Model)
	if !m.showHelp {
		t.Fatal("help overlay not shown")
	}

	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'x'}})
	m = next.(Model)
	if m.showHelp {
		t.Error("help overlay not dismissed by keypress")
	}
}

func TestSystemItem(t *testing.T) {
	item := systemItem{sys: save.System{
		Name: "Corvus",
		Objects: []save.Object{
			{Name: "a", Mission: true},
			{Name: "b"},
		},
	}}
	if item.Title() != "Corvus" || item.FilterValue() != "Corvus" {
		t.Errorf("unexpected title/filter: %q/%q", item.Title(), item.FilterValue())
	}
	if item.Description() != "2 objects, 1 mission" {
		t.Errorf("unexpected description: %q", item.Description())
	}
}
