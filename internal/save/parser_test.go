package save

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

const sampleSave = `<?xml version="1.0" encoding="UTF-8"?>
<CampaignEngine>
  <hyperspace>
    <Sstm bN="Corvus">
      <Plnt z="101">
        <loc>0.0|0.0</loc>
        <j0>{"f0":"Corvus Prime","f1":"star"}</j0>
        <Plnt z="102">
          <loc>2400.5|-1200.25</loc>
          <j0>{"f0":"Asharu"}</j0>
        </Plnt>
      </Plnt>
      <CCEnt z="103">
        <loc>-3500|4200</loc>
        <MReq q="1"></MReq>
        <j0>{"f0":"Derelict Mothership"}</j0>
      </CCEnt>
      <CCEnt z="104">
        <loc>900|900</loc>
        <j0>{"f0":"Corvus Jump-Point"}</j0>
      </CCEnt>
      <CCEnt z="105">
        <j0>{"f0":"No Position"}</j0>
      </CCEnt>
    </Sstm>
    <Sstm bN="Askonia">
      <Plnt z="201">
        <loc>100|-100</loc>
        <j0>{"f0":"Sindria"}</j0>
      </Plnt>
    </Sstm>
    <Sstm>
      <Plnt z="301">
        <loc>1|1</loc>
        <j0>{"f0":"Orphan"}</j0>
      </Plnt>
    </Sstm>
  </hyperspace>
</CampaignEngine>`

func TestParse(t *testing.T) {
	s, err := Parse(strings.NewReader(sampleSave))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	if len(s.Systems) != 2 {
		t.Fatalf("expected 2 named systems, got %d", len(s.Systems))
	}

	// Sorted by name: Askonia before Corvus.
	if s.Systems[0].Name != "Askonia" || s.Systems[1].Name != "Corvus" {
		t.Errorf("systems not sorted by name: %q, %q", s.Systems[0].Name, s.Systems[1].Name)
	}

	corvus := s.Systems[1]
	if len(corvus.Objects) != 4 {
		t.Fatalf("expected 4 objects in Corvus, got %d", len(corvus.Objects))
	}

	want := []Object{
		{Name: "Asharu", Kind: KindPlanet, Pos: Position{X: 2400.5, Y: -1200.25}},
		{Name: "Corvus Prime", Kind: KindPlanet, Pos: Position{X: 0, Y: 0}},
		{Name: "Derelict Mothership", Kind: KindEntity, Pos: Position{X: -3500, Y: 4200}, Mission: true},
		{Name: "Corvus Jump-Point", Kind: KindEntity, Pos: Position{X: 900, Y: 900}},
	}
	if diff := cmp.Diff(want, corvus.Objects); diff != "" {
		t.Errorf("Corvus objects mismatch (-want +got):\n%s", diff)
	}
}

func TestParse_NestedObjectsAreSeparate(t *testing.T) {
	s, err := Parse(strings.NewReader(sampleSave))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	corvus, ok := s.FindSystem("corvus")
	if !ok {
		t.Fatal("FindSystem(corvus) not found")
	}

	// The moon nested inside the star's Plnt subtree must come out as its
	// own object.
	found := false
	for _, o := range corvus.Objects {
		if o.Name == "Asharu" && o.IsPlanet() {
			found = true
		}
	}
	if !found {
		t.Error("nested planet Asharu not extracted")
	}
}

func TestParse_Stats(t *testing.T) {
	s, err := Parse(strings.NewReader(sampleSave))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	if s.Stats.Systems != 2 {
		t.Errorf("Stats.Systems = %d, want 2", s.Stats.Systems)
	}
	if s.Stats.SkippedSystems != 1 {
		t.Errorf("Stats.SkippedSystems = %d, want 1", s.Stats.SkippedSystems)
	}
	if s.Stats.SkippedObjects != 1 {
		t.Errorf("Stats.SkippedObjects = %d, want 1", s.Stats.SkippedObjects)
	}
	if s.Stats.Objects != 5 {
		t.Errorf("Stats.Objects = %d, want 5", s.Stats.Objects)
	}
	if s.Stats.MissionObjects != 1 {
		t.Errorf("Stats.MissionObjects = %d, want 1", s.Stats.MissionObjects)
	}
}

func TestParse_MalformedXML(t *testing.T) {
	_, err := Parse(strings.NewReader("<Sstm bN='Broken'><Plnt>"))
	if err == nil {
		t.Fatal("expected error for truncated document")
	}
}

func TestParse_EmptyDocument(t *testing.T) {
	s, err := Parse(strings.NewReader("<CampaignEngine></CampaignEngine>"))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if len(s.Systems) != 0 {
		t.Errorf("expected no systems, got %d", len(s.Systems))
	}
}

func TestParseVector(t *testing.T) {
	cases := []struct {
		in      string
		want    Position
		wantErr bool
	}{
		{"100|200", Position{X: 100, Y: 200}, false},
		{"-1.5|2.25", Position{X: -1.5, Y: 2.25}, false},
		{"1.0E4|-2.5E3", Position{X: 10000, Y: -2500}, false},
		{" 3 | 4 ", Position{X: 3, Y: 4}, false},
		{"100", Position{}, true},
		{"a|b", Position{}, true},
		{"", Position{}, true},
	}

	for _, tc := range cases {
		got, err := ParseVector(tc.in)
		if tc.wantErr {
			if err == nil {
				t.Errorf("ParseVector(%q): expected error", tc.in)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseVector(%q): %v", tc.in, err)
			continue
		}
		if got != tc.want {
			t.Errorf("ParseVector(%q) = %+v, want %+v", tc.in, got, tc.want)
		}
	}
}

func TestSystem_MissionObjects(t *testing.T) {
	sys := System{
		Name: "Test",
		Objects: []Object{
			{Name: "a", Mission: true},
			{Name: "b"},
			{Name: "c", Mission: true},
		},
	}
	got := sys.MissionObjects()
	if len(got) != 2 {
		t.Fatalf("expected 2 mission objects, got %d", len(got))
	}
	if got[0].Name != "a" || got[1].Name != "c" {
		t.Errorf("unexpected mission objects: %+v", got)
	}
}
