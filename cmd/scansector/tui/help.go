package tui

import (
	"github.com/charmbracelet/glamour"
)

const helpText = `# Scansector

Browse a Starsector campaign save without alt-tabbing out of the game.

## Screens

| Screen  | Purpose                                    |
|---------|--------------------------------------------|
| Picker  | Choose a save file (campaign.xml)          |
| Systems | Filter and select a star system            |
| Map     | Read the system map with mission markers   |

## Map keys

| Key       | Action                                   |
|-----------|------------------------------------------|
| tab       | Cycle through objects                    |
| m         | Jump to the next mission target          |
| b         | Bookmark / unbookmark the cursor object  |
| /         | Filter objects with an expression        |
| c         | Clear the filter                         |
| l         | Toggle labels                            |
| a         | Toggle axes                              |
| esc       | Back to system selection                 |

## Filter expressions

Variables: ` + "`Name`, `Kind`, `Mission`, `X`, `Y`, `System`" + `.
Helpers: ` + "`abs(n)`, `dist(x, y)`" + `.

    Mission && Kind == "entity"
    Name contains "Derelict" || dist(X, Y) > 10000

The map refreshes automatically when the game rewrites the save.
`

// renderHelp renders the help markdown for the terminal.
func renderHelp(width int, dark bool) (string, error) {
	style := glamour.WithStandardStyle("light")
	if dark {
		style = glamour.WithStandardStyle("dark")
	}
	r, err := glamour.NewTermRenderer(style, glamour.WithWordWrap(width))
	if err != nil {
		return "", err
	}
	return r.Render(helpText)
}
