package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"scansector/internal/grid"
)

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Initializing..."
	}
	if m.showHelp {
		return m.helpView()
	}

	switch m.state {
	case statePicker:
		return m.pickerView()
	case stateSystems:
		return m.systemsView()
	case stateMap:
		return m.mapView()
	}
	return ""
}

func (m Model) pickerView() string {
	var b strings.Builder
	b.WriteString(m.styles.Title.Render("Scansector - Starsector System Scanner"))
	b.WriteString("\n")
	b.WriteString(m.styles.Status.Render("Pick a save (campaign.xml)"))
	b.WriteString("\n\n")

	if m.isLoading {
		b.WriteString(m.spinner.View())
		b.WriteString(" Parsing save, this can take a while for big campaigns...")
		b.WriteString("\n\n")
	}
	if m.message != "" {
		b.WriteString(m.styles.Error.Render(m.message))
		b.WriteString("\n\n")
	}

	b.WriteString(m.filepicker.View())
	b.WriteString("\n")
	b.WriteString(m.styles.Help.Render("enter: open  ·  q: quit"))
	return b.String()
}

func (m Model) systemsView() string {
	var b strings.Builder
	if m.savePath != "" {
		b.WriteString(m.styles.Status.Render(m.savePath))
		b.WriteString("\n")
	}
	if m.message != "" {
		b.WriteString(m.styles.Error.Render(m.message))
		b.WriteString("\n")
	}
	b.WriteString(m.list.View())
	b.WriteString("\n")
	b.WriteString(m.styles.Help.Render("enter: view map  ·  /: filter  ·  esc: pick save  ·  ?: help  ·  q: quit"))
	return b.String()
}

func (m Model) mapView() string {
	var b strings.Builder
	b.WriteString(m.styles.Title.Render("Current System: " + m.selected.Name))
	if m.filter != nil {
		b.WriteString(m.styles.Status.Render("  [filter: " + m.filter.String() + "]"))
	}
	b.WriteString("\n")

	b.WriteString(m.viewport.View())
	b.WriteString("\n")

	if m.filtering {
		b.WriteString(m.filterIn.View())
		b.WriteString("\n")
	} else {
		b.WriteString(m.statusLine())
		b.WriteString("\n")
	}

	b.WriteString(m.styles.Help.Render(
		"tab: next object  ·  m: next mission  ·  b: bookmark  ·  /: filter  ·  c: clear  ·  l: labels  ·  a: axes  ·  esc: back  ·  ?: help"))
	return b.String()
}

// statusLine shows the legend, the object cursor and any message.
func (m Model) statusLine() string {
	r := m.renderer()
	parts := []string{r.Legend()}

	objs := m.currentSystem().Objects
	if m.objIndex >= 0 && m.objIndex < len(objs) {
		o := objs[m.objIndex]
		info := fmt.Sprintf("▸ %s (%s", o.Name, o.Kind)
		if o.Mission {
			info += ", mission"
		}
		info += fmt.Sprintf(") at %.0f, %.0f", o.Pos.X, o.Pos.Y)
		if o.Mission {
			parts = append(parts, m.styles.Highlight.Render(info))
		} else {
			parts = append(parts, m.styles.Subtitle.Render(info))
		}
	}
	if m.message != "" {
		parts = append(parts, m.styles.Error.Render(m.message))
	}
	return strings.Join(parts, "   ")
}

// renderer builds the grid renderer sized to the window.
func (m Model) renderer() *grid.Renderer {
	gcfg := grid.Config{
		Width:   m.cfg.Grid.Width,
		Height:  m.cfg.Grid.Height,
		Labels:  m.labels,
		Axes:    m.axes,
		Padding: grid.BoundsPadding,
	}
	if m.ready {
		if w := m.width - 2; w > 20 {
			gcfg.Width = w
		}
		if h := m.height - 6; h > 10 {
			gcfg.Height = h
		}
	}
	return grid.New(gcfg, m.styles.GridStyles())
}

// renderMap redraws the selected system into the viewport.
func (m *Model) renderMap() {
	content := m.renderer().Render(m.currentSystem())
	m.viewport.SetContent(content)
	m.viewport.GotoTop()
}

// helpView renders the keybinding reference with glamour.
func (m Model) helpView() string {
	width := 72
	if m.width > 0 && m.width < width+4 {
		width = m.width - 4
	}

	rendered, err := renderHelp(width, m.styles.Theme.IsDark)
	if err != nil {
		rendered = helpText
	}
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center,
		m.styles.Border.Render(rendered))
}
