package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"scansector/internal/store"
)

var historyLimit int

// historyCmd lists recent scans and bookmarks
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recent scans",
	RunE:  runHistory,
}

// historyBookmarksCmd lists bookmarked objects for a save
var historyBookmarksCmd = &cobra.Command{
	Use:   "bookmarks <save.xml>",
	Short: "List bookmarked objects for a save",
	Args:  cobra.ExactArgs(1),
	RunE:  runHistoryBookmarks,
}

func init() {
	historyCmd.Flags().IntVar(&historyLimit, "limit", 20, "Maximum scans to list")
	historyCmd.AddCommand(historyBookmarksCmd)
}

func openHistory() (*store.History, error) {
	if !cfg.History.Enabled {
		return nil, fmt.Errorf("history is disabled in the config")
	}
	return store.NewHistory(cfg.History.Path)
}

func runHistory(cmd *cobra.Command, args []string) error {
	h, err := openHistory()
	if err != nil {
		return err
	}
	defer h.Close()

	scans, err := h.RecentScans(historyLimit)
	if err != nil {
		return err
	}
	if len(scans) == 0 {
		fmt.Println("No scans recorded yet.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "WHEN\tSAVE\tSYSTEMS\tOBJECTS\tMISSION")
	for _, s := range scans {
		fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%d\n",
			s.ScannedAt.Local().Format("2006-01-02 15:04"),
			s.SavePath, s.Systems, s.Objects, s.MissionObjects)
	}
	return w.Flush()
}

func runHistoryBookmarks(cmd *cobra.Command, args []string) error {
	h, err := openHistory()
	if err != nil {
		return err
	}
	defer h.Close()

	marks, err := h.Bookmarks(args[0])
	if err != nil {
		return err
	}
	if len(marks) == 0 {
		fmt.Println("No bookmarks for this save.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "SYSTEM\tOBJECT\tKIND\tPOSITION\tMISSION")
	for _, b := range marks {
		mission := ""
		if b.Mission {
			mission = "yes"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%.0f, %.0f\t%s\n",
			b.System, b.Object, b.Kind, b.X, b.Y, mission)
	}
	return w.Flush()
}
