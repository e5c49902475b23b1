package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"scansector/internal/query"
	"scansector/internal/save"
)

// queryCmd filters objects across every system of a save
var queryCmd = &cobra.Command{
	Use:   "query <save.xml> <expression>",
	Short: "Filter celestial objects with an expression",
	Long: `Evaluates a boolean expression against every object in the save and
lists the matches. Available variables: Name, Kind, Mission, X, Y,
System. Helper functions: abs(n), dist(x, y).

Examples:
  scansector query campaign.xml 'Mission'
  scansector query campaign.xml 'Kind == "planet" && abs(X) > 5000'
  scansector query campaign.xml 'Name contains "Derelict"'`,
	Args: cobra.ExactArgs(2),
	RunE: runQuery,
}

func runQuery(cmd *cobra.Command, args []string) error {
	f, err := query.Compile(args[1])
	if err != nil {
		return err
	}

	s, err := save.ParseFile(args[0])
	if err != nil {
		return err
	}

	matches, err := f.Apply(s.Systems)
	if err != nil {
		return err
	}
	logger.Debug("query evaluated",
		zap.String("filter", f.String()),
		zap.Int("matches", len(matches)))

	if len(matches) == 0 {
		fmt.Println("No objects match.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "SYSTEM\tOBJECT\tKIND\tPOSITION\tMISSION")
	for _, m := range matches {
		mission := ""
		if m.Object.Mission {
			mission = "yes"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%.0f, %.0f\t%s\n",
			m.System, m.Object.Name, m.Object.Kind, m.Object.Pos.X, m.Object.Pos.Y, mission)
	}
	return w.Flush()
}
