package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"scansector/cmd/scansector/ui"
	"scansector/internal/grid"
	"scansector/internal/save"
)

var (
	renderWidth    int
	renderHeight   int
	renderNoLabels bool
	renderNoAxes   bool
)

// renderCmd draws one system's map to stdout
var renderCmd = &cobra.Command{
	Use:   "render <save.xml> <system>",
	Short: "Render a system's map to the terminal",
	Long: `Parses a campaign save and renders the grid map of one star system.
The system name is matched case-insensitively.

Example:
  scansector render campaign.xml Corvus --width 120 --height 40`,
	Args: cobra.ExactArgs(2),
	RunE: runRender,
}

func init() {
	renderCmd.Flags().IntVar(&renderWidth, "width", 0, "Grid width in cells (default from config)")
	renderCmd.Flags().IntVar(&renderHeight, "height", 0, "Grid height in rows (default from config)")
	renderCmd.Flags().BoolVar(&renderNoLabels, "no-labels", false, "Hide object names")
	renderCmd.Flags().BoolVar(&renderNoAxes, "no-axes", false, "Hide the center axes")
}

func runRender(cmd *cobra.Command, args []string) error {
	s, err := save.ParseFile(args[0])
	if err != nil {
		return err
	}

	if len(s.Systems) == 0 {
		return save.ErrNoSystems
	}

	sys, ok := s.FindSystem(args[1])
	if !ok {
		return fmt.Errorf("system %q not found (try 'scansector systems %s')", args[1], args[0])
	}

	gcfg := gridConfig()
	if renderWidth > 0 {
		gcfg.Width = renderWidth
	}
	if renderHeight > 0 {
		gcfg.Height = renderHeight
	}
	if renderNoLabels {
		gcfg.Labels = false
	}
	if renderNoAxes {
		gcfg.Axes = false
	}

	styles := ui.NewStyles(ui.ThemeByName(cfg.Theme))
	r := grid.New(gcfg, styles.GridStyles())

	fmt.Println(styles.Title.Render("Current System: " + sys.Name))
	fmt.Println(r.Render(sys))
	if len(sys.Objects) > 0 {
		fmt.Println(r.Legend())
	}
	return nil
}

// gridConfig maps the config file's grid section onto the renderer.
func gridConfig() grid.Config {
	return grid.Config{
		Width:  cfg.Grid.Width,
		Height: cfg.Grid.Height,
		Labels: cfg.Grid.Labels,
		Axes:   cfg.Grid.Axes,
	}
}
