package save

import (
	"encoding/json"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"time"
)

// Element names used by the Starsector save format.
const (
	elemSystem  = "Sstm"
	elemPlanet  = "Plnt"
	elemEntity  = "CCEnt"
	elemLoc     = "loc"
	elemJSON    = "j0"
	elemMission = "MReq"

	attrName = "bN"
)

// ErrNoSystems is returned when a document parses cleanly but contains no
// named star systems.
var ErrNoSystems = errors.New("save contains no named star systems")

// ParseFile parses the save file at path.
func ParseFile(path string) (*Save, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open save: %w", err)
	}
	defer f.Close()

	s, err := Parse(f)
	if err != nil {
		return nil, err
	}
	s.Path = path
	return s, nil
}

// Parse reads a save document and extracts its star systems. Systems are
// returned sorted by name. Objects that are missing a position or a name
// are skipped and counted in Stats.
func Parse(r io.Reader) (*Save, error) {
	start := time.Now()
	dec := xml.NewDecoder(r)

	s := &Save{}
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("decode save: %w", err)
		}

		el, ok := tok.(xml.StartElement)
		if !ok || el.Name.Local != elemSystem {
			continue
		}
		if err := s.parseSystem(dec, el); err != nil {
			return nil, err
		}
	}

	sort.Slice(s.Systems, func(i, j int) bool {
		return s.Systems[i].Name < s.Systems[j].Name
	})

	s.Stats.Systems = len(s.Systems)
	s.Stats.Elapsed = time.Since(start)
	return s, nil
}

// parseSystem consumes an Sstm subtree. Unnamed systems are skipped but
// their subtree is still walked so nested systems are not lost.
func (s *Save) parseSystem(dec *xml.Decoder, start xml.StartElement) error {
	name := attrValue(start, attrName)

	sys := System{Name: name}
	for {
		tok, err := dec.Token()
		if err != nil {
			return fmt.Errorf("decode system %q: %w", name, err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case elemSystem:
				// Hyperspace wrappers can hold nested systems.
				if err := s.parseSystem(dec, t); err != nil {
					return err
				}
			case elemPlanet:
				if err := s.parseObject(dec, t, KindPlanet, &sys); err != nil {
					return err
				}
			case elemEntity:
				if err := s.parseObject(dec, t, KindEntity, &sys); err != nil {
					return err
				}
			}
		case xml.EndElement:
			if t.Name.Local == elemSystem {
				if name == "" {
					s.Stats.SkippedSystems++
					return nil
				}
				s.Systems = append(s.Systems, sys)
				s.Stats.Objects += len(sys.Objects)
				for _, o := range sys.Objects {
					if o.Mission {
						s.Stats.MissionObjects++
					}
				}
				return nil
			}
		}
	}
}

// parseObject consumes a Plnt or CCEnt subtree and appends the extracted
// object to sys. Nested objects inside the subtree are extracted as their
// own objects, matching a full-document descendant search.
func (s *Save) parseObject(dec *xml.Decoder, start xml.StartElement, kind Kind, sys *System) error {
	var (
		loc     string
		payload string
		mission bool
		capture string // element name whose text is being collected
		depth   int    // nesting depth of the capture element
	)

	for {
		tok, err := dec.Token()
		if err != nil {
			return fmt.Errorf("decode %s object: %w", start.Name.Local, err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case elemPlanet:
				if err := s.parseObject(dec, t, KindPlanet, sys); err != nil {
					return err
				}
			case elemEntity:
				if err := s.parseObject(dec, t, KindEntity, sys); err != nil {
					return err
				}
			case elemMission:
				mission = true
				if err := dec.Skip(); err != nil {
					return fmt.Errorf("skip %s: %w", elemMission, err)
				}
			case elemLoc:
				switch {
				case capture != "":
					depth++
				case loc != "":
					if err := dec.Skip(); err != nil {
						return fmt.Errorf("skip %s: %w", elemLoc, err)
					}
				default:
					capture = elemLoc
					depth = 0
				}
			case elemJSON:
				switch {
				case capture != "":
					depth++
				case payload != "":
					if err := dec.Skip(); err != nil {
						return fmt.Errorf("skip %s: %w", elemJSON, err)
					}
				default:
					capture = elemJSON
					depth = 0
				}
			default:
				if capture != "" {
					depth++
				}
			}
		case xml.CharData:
			if capture == elemLoc {
				loc += string(t)
			} else if capture == elemJSON {
				payload += string(t)
			}
		case xml.EndElement:
			if t.Name.Local == start.Name.Local && capture == "" {
				obj, ok := buildObject(kind, loc, payload, mission)
				if !ok {
					s.Stats.SkippedObjects++
					return nil
				}
				sys.Objects = append(sys.Objects, obj)
				return nil
			}
			if capture != "" {
				if depth == 0 {
					capture = ""
				} else {
					depth--
				}
			}
		}
	}
}

// buildObject assembles an Object from its raw pieces. Any missing piece
// disqualifies the object.
func buildObject(kind Kind, loc, payload string, mission bool) (Object, bool) {
	if loc == "" || payload == "" {
		return Object{}, false
	}

	pos, err := ParseVector(loc)
	if err != nil {
		return Object{}, false
	}

	name, ok := nameFromPayload(payload)
	if !ok {
		return Object{}, false
	}

	return Object{Name: name, Kind: kind, Pos: pos, Mission: mission}, true
}

// nameFromPayload extracts the display name from the j0 JSON blob. The
// save format stores it under the "f0" key.
func nameFromPayload(payload string) (string, bool) {
	var fields map[string]any
	if err := json.Unmarshal([]byte(payload), &fields); err != nil {
		return "", false
	}
	name, ok := fields["f0"].(string)
	if !ok || name == "" {
		return "", false
	}
	return name, true
}

func attrValue(el xml.StartElement, name string) string {
	for _, a := range el.Attr {
		if a.Name.Local == name {
			return a.Value
		}
	}
	return ""
}
