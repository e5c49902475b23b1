// Package grid renders a star system as a character-cell map.
//
// World coordinates are projected onto a fixed-size cell grid with
// symmetric bounds padded the same way the game map pads them, so the
// system center stays centered and outer objects keep a margin.
package grid

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"scansector/internal/save"
)

// Marker runes, one per object class.
const (
	MarkerPlanet  = '●'
	MarkerMission = '✦'
	MarkerEntity  = '✚'
)

// EmptySystemNotice is shown for systems with no extracted objects.
const EmptySystemNotice = "Spooky empty system"

// BoundsPadding is the world-unit margin added around the outermost
// object before projecting.
const BoundsPadding = 2000.0

// Config controls grid geometry and annotation.
type Config struct {
	Width   int  // cells per row
	Height  int  // rows
	Labels  bool // draw object names next to markers
	Axes    bool // draw faint center axes
	Padding float64
}

// DefaultConfig returns the geometry used when nothing is configured.
func DefaultConfig() Config {
	return Config{Width: 96, Height: 32, Labels: true, Axes: true, Padding: BoundsPadding}
}

// Styles holds the lipgloss styles applied per cell class.
type Styles struct {
	Planet  lipgloss.Style
	Mission lipgloss.Style
	Entity  lipgloss.Style
	Label   lipgloss.Style
	Axis    lipgloss.Style
	Notice  lipgloss.Style
}

// DefaultStyles returns a palette that reads on dark terminals.
func DefaultStyles() Styles {
	return Styles{
		Planet:  lipgloss.NewStyle().Foreground(lipgloss.Color("75")),
		Mission: lipgloss.NewStyle().Foreground(lipgloss.Color("220")).Bold(true),
		Entity:  lipgloss.NewStyle().Foreground(lipgloss.Color("246")),
		Label:   lipgloss.NewStyle().Foreground(lipgloss.Color("250")),
		Axis:    lipgloss.NewStyle().Foreground(lipgloss.Color("238")),
		Notice:  lipgloss.NewStyle().Foreground(lipgloss.Color("213")).Italic(true),
	}
}

// cell classes for the style pass
const (
	classEmpty byte = iota
	classAxis
	classPlanet
	classMission
	classEntity
	classLabel
)

// Renderer projects and draws systems with a fixed config.
type Renderer struct {
	cfg    Config
	styles Styles
}

// New returns a renderer. Zero or negative dimensions fall back to the
// defaults.
func New(cfg Config, styles Styles) *Renderer {
	def := DefaultConfig()
	if cfg.Width <= 0 {
		cfg.Width = def.Width
	}
	if cfg.Height <= 0 {
		cfg.Height = def.Height
	}
	if cfg.Padding <= 0 {
		cfg.Padding = def.Padding
	}
	return &Renderer{cfg: cfg, styles: styles}
}

// Bounds returns the symmetric world half-extent used to project sys.
func (r *Renderer) Bounds(sys save.System) float64 {
	b := 0.0
	for _, o := range sys.Objects {
		b = math.Max(b, math.Max(math.Abs(o.Pos.X), math.Abs(o.Pos.Y)))
	}
	return b + r.cfg.Padding
}

// project maps a world position into cell coordinates. World y grows up,
// rows grow down.
func (r *Renderer) project(p save.Position, bounds float64) (col, row int) {
	w, h := r.cfg.Width, r.cfg.Height
	col = int(math.Round((p.X + bounds) / (2 * bounds) * float64(w-1)))
	row = int(math.Round((bounds - p.Y) / (2 * bounds) * float64(h-1)))
	return clamp(col, 0, w-1), clamp(row, 0, h-1)
}

// markerFor picks the marker rune for an object. Planets keep their shape
// even when they are mission targets; color marks the mission instead.
func markerFor(o save.Object) (rune, byte) {
	switch {
	case o.IsPlanet() && o.Mission:
		return MarkerPlanet, classMission
	case o.IsPlanet():
		return MarkerPlanet, classPlanet
	case o.Mission:
		return MarkerMission, classMission
	default:
		return MarkerEntity, classEntity
	}
}

// priority orders objects for cell collisions: mission targets beat
// planets beat plain entities.
func priority(o save.Object) int {
	switch {
	case o.Mission:
		return 2
	case o.IsPlanet():
		return 1
	default:
		return 0
	}
}

// Render draws the system into a styled multi-line string.
func (r *Renderer) Render(sys save.System) string {
	if len(sys.Objects) == 0 {
		return r.styles.Notice.Render(EmptySystemNotice)
	}

	w, h := r.cfg.Width, r.cfg.Height
	runes := make([][]rune, h)
	classes := make([][]byte, h)
	prio := make([][]int, h)
	for y := range runes {
		runes[y] = make([]rune, w)
		classes[y] = make([]byte, w)
		prio[y] = make([]int, w)
		for x := range runes[y] {
			runes[y][x] = ' '
			prio[y][x] = -1
		}
	}

	if r.cfg.Axes {
		cy, cx := h/2, w/2
		for x := 0; x < w; x++ {
			runes[cy][x] = '·'
			classes[cy][x] = classAxis
		}
		for y := 0; y < h; y++ {
			runes[y][cx] = '·'
			classes[y][cx] = classAxis
		}
	}

	bounds := r.Bounds(sys)

	type placed struct {
		obj      save.Object
		col, row int
	}
	var markers []placed

	for _, o := range sys.Objects {
		col, row := r.project(o.Pos, bounds)
		p := priority(o)
		if p <= prio[row][col] {
			continue // occluded by a more important object
		}
		mark, class := markerFor(o)
		runes[row][col] = mark
		classes[row][col] = class
		prio[row][col] = p
		markers = append(markers, placed{obj: o, col: col, row: row})
	}

	if r.cfg.Labels {
		for _, m := range markers {
			r.placeLabel(runes, classes, m.obj.Name, m.col, m.row)
		}
	}

	var b strings.Builder
	for y := 0; y < h; y++ {
		b.WriteString(r.styleRow(runes[y], classes[y]))
		if y < h-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

// placeLabel writes name to the right of a marker if every target cell is
// still empty; crowded neighborhoods stay unlabeled.
func (r *Renderer) placeLabel(runes [][]rune, classes [][]byte, name string, col, row int) {
	label := []rune(" " + name)
	if col+1+len(label) > r.cfg.Width {
		return
	}
	for i := range label {
		if classes[row][col+1+i] != classEmpty && classes[row][col+1+i] != classAxis {
			return
		}
	}
	for i, ch := range label {
		runes[row][col+1+i] = ch
		classes[row][col+1+i] = classLabel
	}
}

// styleRow applies styles over runs of equal cell class.
func (r *Renderer) styleRow(runes []rune, classes []byte) string {
	var b strings.Builder
	for i := 0; i < len(runes); {
		j := i
		for j < len(runes) && classes[j] == classes[i] {
			j++
		}
		run := string(runes[i:j])
		switch classes[i] {
		case classAxis:
			b.WriteString(r.styles.Axis.Render(run))
		case classPlanet:
			b.WriteString(r.styles.Planet.Render(run))
		case classMission:
			b.WriteString(r.styles.Mission.Render(run))
		case classEntity:
			b.WriteString(r.styles.Entity.Render(run))
		case classLabel:
			b.WriteString(r.styles.Label.Render(run))
		default:
			b.WriteString(run)
		}
		i = j
	}
	return b.String()
}

// Legend returns the marker key shown under the map.
func (r *Renderer) Legend() string {
	parts := []string{
		r.styles.Planet.Render(string(MarkerPlanet)) + " planet",
		r.styles.Mission.Render(string(MarkerMission)) + " mission",
		r.styles.Entity.Render(string(MarkerEntity)) + " entity",
	}
	return strings.Join(parts, "   ")
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
