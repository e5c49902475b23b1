package ui

import "testing"

func TestThemeByName(t *testing.T) {
	if !ThemeByName("dark").IsDark {
		t.Error("dark theme should be dark")
	}
	if ThemeByName("light").IsDark {
		t.Error("light theme should not be dark")
	}
}

func TestDetectTheme(t *testing.T) {
	tests := []struct {
		colorfgbg string
		wantDark  bool
	}{
		{"", true},
		{"15;0", true},
		{"0;15", false},
		{"0;7", false},
		{"0;8", true},
		{"garbage", true},
	}
	for _, tt := range tests {
		t.Setenv("COLORFGBG", tt.colorfgbg)
		got := DetectTheme()
		if got.IsDark != tt.wantDark {
			t.Errorf("DetectTheme() with COLORFGBG=%q: IsDark = %v, want %v",
				tt.colorfgbg, got.IsDark, tt.wantDark)
		}
	}
}

func TestNewStyles(t *testing.T) {
	s := NewStyles(DarkTheme())
	if !s.Theme.IsDark {
		t.Error("styles should carry the theme")
	}
	if s.Title.GetForeground() != DarkTheme().Accent {
		t.Error("title should use the accent color")
	}

	gs := s.GridStyles()
	if gs.Mission.GetForeground() != ColorMission {
		t.Error("mission cells should use the mission color")
	}
}
