// Package sink writes per-run output files. Every file carries the run's
// timestamp in its name, and JSON payloads are fully marshalled before a
// single temp-file write plus rename, so a fault mid-run never leaves a
// truncated file behind.
package sink

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/techiemmk/job-portal-scrapper/internal/model"
)

// timestampLayout matches the HHMM_DD-Mon-YYYY filename convention.
const timestampLayout = "1504_02-Jan-2006"

type Sink struct {
	dir    string
	logger *slog.Logger
}

func New(dir string, logger *slog.Logger) *Sink {
	return &Sink{dir: dir, logger: logger}
}

// WriteRAG writes the retrieval-format batch to
// <portal>_rag_<timestamp>.json and returns the path.
func (s *Sink) WriteRAG(portal string, batch model.ScraperRunBatch, now time.Time) (string, error) {
	name := fmt.Sprintf("%s_rag_%s.json", portal, now.Format(timestampLayout))
	path, err := s.writeJSON(name, batch)
	if err != nil {
		return "", err
	}
	s.logger.Info("wrote rag batch", "path", path, "jobs", len(batch.Data))
	return path, nil
}

// WriteInterchange writes the schema.org batch to
// <portal>_schema_<timestamp>.json and returns the path.
func (s *Sink) WriteInterchange(portal string, batch model.InterchangeBatch, now time.Time) (string, error) {
	name := fmt.Sprintf("%s_schema_%s.json", portal, now.Format(timestampLayout))
	path, err := s.writeJSON(name, batch)
	if err != nil {
		return "", err
	}
	s.logger.Info("wrote interchange batch", "path", path, "jobs", len(batch.Data))
	return path, nil
}

// WriteCSV writes the canonical records to <portal>_jobs_<timestamp>.csv
// in the fixed column order and returns the path.
func (s *Sink) WriteCSV(portal string, records []model.JobRecord, now time.Time) (string, error) {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", fmt.Errorf("creating data dir: %w", err)
	}
	name := fmt.Sprintf("%s_jobs_%s.csv", portal, now.Format(timestampLayout))
	path := filepath.Join(s.dir, name)

	tmp, err := os.CreateTemp(s.dir, name+".tmp")
	if err != nil {
		return "", fmt.Errorf("creating temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	w := csv.NewWriter(tmp)
	if err := w.Write(model.CSVColumns); err != nil {
		tmp.Close()
		return "", fmt.Errorf("writing csv header: %w", err)
	}
	for _, record := range records {
		if err := w.Write(record.CSVRow()); err != nil {
			tmp.Close()
			return "", fmt.Errorf("writing csv row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		tmp.Close()
		return "", fmt.Errorf("flushing csv: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return "", fmt.Errorf("renaming csv into place: %w", err)
	}
	s.logger.Info("wrote csv", "path", path, "jobs", len(records))
	return path, nil
}

// LoadLatestCSV reloads records from the portal's largest CSV, favoring
// full datasets over small test runs. The chosen path is returned with the
// records.
func (s *Sink) LoadLatestCSV(portal string) ([]model.JobRecord, string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, "", fmt.Errorf("reading data dir: %w", err)
	}

	prefix := portal + "_jobs_"
	var best string
	var bestSize int64 = -1
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || filepath.Ext(name) != ".csv" || len(name) < len(prefix) || name[:len(prefix)] != prefix {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		if info.Size() > bestSize {
			bestSize = info.Size()
			best = name
		}
	}
	if best == "" {
		return nil, "", fmt.Errorf("no csv data found for %s", portal)
	}

	path := filepath.Join(s.dir, best)
	f, err := os.Open(path)
	if err != nil {
		return nil, "", fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, "", fmt.Errorf("reading %s: %w", path, err)
	}
	if len(rows) < 1 {
		return nil, path, nil
	}

	records := make([]model.JobRecord, 0, len(rows)-1)
	for _, row := range rows[1:] {
		if len(row) < len(model.CSVColumns) {
			continue
		}
		records = append(records, recordFromRow(row))
	}
	return records, path, nil
}

func recordFromRow(row []string) model.JobRecord {
	return model.JobRecord{
		JobName:                 row[0],
		JobLocation:             model.Str(row[1]),
		JobDepartment:           row[2],
		JobDescription:          row[3],
		JobResponsibilities:     row[4],
		MinimumQualifications:   row[5],
		PreferredQualifications: row[6],
		AboutCompany:            row[7],
		Salary:                  row[8],
		CompensationDetails:     row[9],
		EEO:                     row[10],
		AdditionalLinks:         model.Str(row[11]),
		JobLink:                 row[12],
	}
}

func (s *Sink) writeJSON(name string, payload any) (string, error) {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", fmt.Errorf("creating data dir: %w", err)
	}
	encoded, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encoding %s: %w", name, err)
	}

	path := filepath.Join(s.dir, name)
	tmp, err := os.CreateTemp(s.dir, name+".tmp")
	if err != nil {
		return "", fmt.Errorf("creating temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(encoded); err != nil {
		tmp.Close()
		return "", fmt.Errorf("writing %s: %w", name, err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return "", fmt.Errorf("renaming %s into place: %w", name, err)
	}
	return path, nil
}
