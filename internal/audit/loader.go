package audit

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/techiemmk/job-portal-scrapper/internal/model"
)

// RunFile describes one saved scrape run on disk.
type RunFile struct {
	Path     string
	Portal   string
	ModTime  time.Time
	Postings int
}

// ListRuns scans dir for saved run files, newest first.
func ListRuns(dir string) ([]RunFile, error) {
	matches, err := filepath.Glob(filepath.Join(dir, "*_rag_*.json"))
	if err != nil {
		return nil, fmt.Errorf("scan runs: %w", err)
	}
	if len(matches) == 0 {
		return nil, fmt.Errorf("no saved runs in %s", dir)
	}

	runs := make([]RunFile, 0, len(matches))
	for _, path := range matches {
		info, err := os.Stat(path)
		if err != nil {
			continue
		}
		portal, _, _ := strings.Cut(filepath.Base(path), "_rag_")
		batch, err := LoadRun(path)
		if err != nil {
			// Unreadable files still show up in the picker.
			runs = append(runs, RunFile{Path: path, Portal: portal, ModTime: info.ModTime()})
			continue
		}
		runs = append(runs, RunFile{
			Path:     path,
			Portal:   portal,
			ModTime:  info.ModTime(),
			Postings: len(batch.Data),
		})
	}

	sort.Slice(runs, func(i, j int) bool {
		return runs[i].ModTime.After(runs[j].ModTime)
	})
	return runs, nil
}

// LoadRun parses a saved run file.
func LoadRun(path string) (model.ScraperRunBatch, error) {
	var batch model.ScraperRunBatch
	raw, err := os.ReadFile(path)
	if err != nil {
		return batch, fmt.Errorf("read run: %w", err)
	}
	if err := json.Unmarshal(raw, &batch); err != nil {
		return batch, fmt.Errorf("parse run %s: %w", filepath.Base(path), err)
	}
	return batch, nil
}
