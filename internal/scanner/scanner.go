// Package scanner walks a Starsector saves directory and parses every
// campaign save it finds.
//
// Each save directory holds a campaign.xml; files are parsed concurrently
// with a bounded worker pool since a single save can run to hundreds of
// megabytes.
package scanner

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"scansector/internal/save"
)

// SaveFileName is the campaign file inside each save directory.
const SaveFileName = "campaign.xml"

// DefaultWorkers bounds concurrent parses.
const DefaultWorkers = 4

// Summary describes one scanned save file.
type Summary struct {
	Path           string    `yaml:"path"`
	Systems        int       `yaml:"systems"`
	Objects        int       `yaml:"objects"`
	MissionObjects int           `yaml:"mission_objects"`
	Modified       time.Time     `yaml:"modified"`
	Elapsed        time.Duration `yaml:"elapsed"`
	Error          string        `yaml:"error,omitempty"`
}

// Summarize condenses a parsed save.
func Summarize(s *save.Save) Summary {
	sum := Summary{
		Path:           s.Path,
		Systems:        s.Stats.Systems,
		Objects:        s.Stats.Objects,
		MissionObjects: s.Stats.MissionObjects,
		Elapsed:        s.Stats.Elapsed,
	}
	if fi, err := os.Stat(s.Path); err == nil {
		sum.Modified = fi.ModTime()
	}
	return sum
}

// Scanner parses saves under a directory tree.
type Scanner struct {
	workers int
}

// New returns a scanner with the given worker bound; zero or negative
// means DefaultWorkers.
func New(workers int) *Scanner {
	if workers <= 0 {
		workers = DefaultWorkers
	}
	return &Scanner{workers: workers}
}

// ScanDir walks dir, parses every campaign.xml found and returns one
// summary per save, sorted by path. A save that fails to parse gets a
// summary carrying the error; the walk itself only fails on filesystem
// errors or context cancellation.
func (sc *Scanner) ScanDir(ctx context.Context, dir string) ([]Summary, error) {
	workers, wctx := errgroup.WithContext(ctx)
	tokens := make(chan struct{}, sc.workers)
	results := make(chan Summary, sc.workers)

	collected := make(chan []Summary, 1)
	go func() {
		var all []Summary
		for sum := range results {
			all = append(all, sum)
		}
		collected <- all
	}()

	walkErr := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() || info.Name() != SaveFileName {
			return nil
		}

		select {
		case tokens <- struct{}{}:
		case <-wctx.Done():
			return wctx.Err()
		}
		workers.Go(parseSave(path, info.ModTime(), tokens, results))
		return nil
	})

	err := workers.Wait()
	close(results)
	all := <-collected

	if walkErr != nil {
		return nil, walkErr
	}
	if err != nil {
		return nil, err
	}

	sort.Slice(all, func(i, j int) bool { return all[i].Path < all[j].Path })
	return all, nil
}

// parseSave parses one save file and reports its summary.
func parseSave(path string, modified time.Time, tokens <-chan struct{}, results chan<- Summary) func() error {
	return func() error {
		defer func() {
			<-tokens // release our token
		}()

		sum := Summary{Path: path, Modified: modified}
		s, err := save.ParseFile(path)
		if err != nil {
			sum.Error = err.Error()
		} else {
			sum.Systems = s.Stats.Systems
			sum.Objects = s.Stats.Objects
			sum.MissionObjects = s.Stats.MissionObjects
			sum.Elapsed = s.Stats.Elapsed
		}

		results <- sum
		return nil
	}
}
