// Package save parses Starsector campaign save files.
//
// Saves are large XML documents. The parser streams the document and pulls
// out star systems (Sstm elements) and the positioned objects inside them:
// planets and moons (Plnt) plus campaign entities such as stations, jump
// points and derelicts (CCEnt). Objects tagged with an MReq descendant are
// mission targets.
package save

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Kind classifies a celestial object.
type Kind string

const (
	KindPlanet Kind = "planet"
	KindEntity Kind = "entity"
)

// Position is a world-space coordinate inside a star system.
type Position struct {
	X float64
	Y float64
}

// Object is a positioned celestial object inside a star system.
type Object struct {
	Name    string
	Kind    Kind
	Pos     Position
	Mission bool
}

// IsPlanet reports whether the object came from a Plnt element.
func (o Object) IsPlanet() bool { return o.Kind == KindPlanet }

// System is a named star system and its objects, in document order.
type System struct {
	Name    string
	Objects []Object
}

// MissionObjects returns the objects flagged as mission targets.
func (s System) MissionObjects() []Object {
	var out []Object
	for _, o := range s.Objects {
		if o.Mission {
			out = append(out, o)
		}
	}
	return out
}

// Stats counts what the parser saw and what it had to skip.
type Stats struct {
	Systems        int
	Objects        int
	MissionObjects int
	SkippedSystems int // Sstm elements without a bN name attribute
	SkippedObjects int // objects missing loc, j0 or a usable name
	Elapsed        time.Duration
}

// Save is a fully parsed save file.
type Save struct {
	Path    string
	Systems []System
	Stats   Stats
}

// FindSystem returns the system with the given name, matched
// case-insensitively.
func (s *Save) FindSystem(name string) (System, bool) {
	for _, sys := range s.Systems {
		if strings.EqualFold(sys.Name, name) {
			return sys, true
		}
	}
	return System{}, false
}

// ParseVector parses the save file's "x|y" coordinate notation.
func ParseVector(v string) (Position, error) {
	xs, ys, ok := strings.Cut(v, "|")
	if !ok {
		return Position{}, fmt.Errorf("malformed vector %q: missing separator", v)
	}
	x, err := strconv.ParseFloat(strings.TrimSpace(xs), 64)
	if err != nil {
		return Position{}, fmt.Errorf("malformed vector %q: %w", v, err)
	}
	y, err := strconv.ParseFloat(strings.TrimSpace(ys), 64)
	if err != nil {
		return Position{}, fmt.Errorf("malformed vector %q: %w", v, err)
	}
	return Position{X: x, Y: y}, nil
}
