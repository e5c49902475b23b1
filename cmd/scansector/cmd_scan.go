package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"scansector/internal/save"
	"scansector/internal/scanner"
	"scansector/internal/store"
)

var (
	scanDir     string
	scanWorkers int
)

// scanCmd parses saves and emits a yaml summary
var scanCmd = &cobra.Command{
	Use:   "scan [save.xml]",
	Short: "Scan saves and emit a yaml summary",
	Long: `Parses one save file, or every save under a directory, and writes a
yaml summary to stdout. Scans are recorded in the history database
unless history is disabled in the config.

Examples:
  scansector scan campaign.xml
  scansector scan --dir ~/starsector/saves`,
	Args: cobra.MaximumNArgs(1),
	RunE: runScan,
}

func init() {
	scanCmd.Flags().StringVar(&scanDir, "dir", "", "Scan every save under this directory")
	scanCmd.Flags().IntVar(&scanWorkers, "workers", scanner.DefaultWorkers, "Concurrent parser workers for --dir")
}

func runScan(cmd *cobra.Command, args []string) error {
	if (scanDir == "") == (len(args) == 0) {
		return fmt.Errorf("provide either a save file or --dir, not both")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		logger.Info("received shutdown signal")
		cancel()
	}()

	var summaries []scanner.Summary
	if scanDir != "" {
		dirSums, err := scanner.New(scanWorkers).ScanDir(ctx, scanDir)
		if err != nil {
			return err
		}
		summaries = dirSums
	} else {
		s, err := save.ParseFile(args[0])
		if err != nil {
			return err
		}
		summaries = append(summaries, scanner.Summarize(s))
	}

	recordScans(summaries)
	logger.Info("scan complete", zap.Int("saves", len(summaries)))

	enc := yaml.NewEncoder(os.Stdout)
	defer enc.Close()
	return enc.Encode(struct {
		Saves []scanner.Summary `yaml:"saves"`
	}{Saves: summaries})
}

// recordScans best-effort records every successfully parsed save in the
// history database.
func recordScans(summaries []scanner.Summary) {
	if !cfg.History.Enabled {
		return
	}
	h, err := store.NewHistory(cfg.History.Path)
	if err != nil {
		logger.Warn("history unavailable", zap.Error(err))
		return
	}
	defer h.Close()

	for _, sum := range summaries {
		if sum.Error != "" {
			continue
		}
		s := &save.Save{
			Path: sum.Path,
			Stats: save.Stats{
				Systems:        sum.Systems,
				Objects:        sum.Objects,
				MissionObjects: sum.MissionObjects,
				Elapsed:        sum.Elapsed,
			},
		}
		if _, err := h.RecordScan(s); err != nil {
			logger.Warn("failed to record scan",
				zap.String("path", sum.Path), zap.Error(err))
		}
	}
}
