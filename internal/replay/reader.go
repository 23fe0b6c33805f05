// Package replay reads captured match data: combat log records and
// periodic world-state snapshots, stored as JSONL (optionally gzipped) by
// the capture tooling.
package replay

import (
	"bufio"
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"strings"

	"dota-analyzer/internal/events"

	"github.com/goccy/go-json"
)

// Snapshot is one periodic world-state sample for a single hero.
type Snapshot struct {
	Time     float64 `json:"game_time"`
	Hero     string  `json:"hero"`
	Team     string  `json:"team"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Gold     int     `json:"gold"`
	LastHits int     `json:"last_hits"`
	Level    int     `json:"level"`
	Health   int     `json:"health"`
}

// scanLimit caps a single JSONL line; replay lines are small, but a
// corrupted file should fail cleanly instead of exhausting memory.
const scanLimit = 1 << 20

func openMaybeGzip(path string) (io.ReadCloser, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	if !strings.HasSuffix(path, ".gz") {
		return f, nil
	}

	gz, err := gzip.NewReader(f)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to open gzip stream %s: %w", path, err)
	}
	return &gzipFile{gz: gz, f: f}, nil
}

type gzipFile struct {
	gz *gzip.Reader
	f  *os.File
}

func (g *gzipFile) Read(p []byte) (int, error) { return g.gz.Read(p) }

func (g *gzipFile) Close() error {
	if err := g.gz.Close(); err != nil {
		g.f.Close()
		return err
	}
	return g.f.Close()
}

func readLines(path string, decode func(line []byte, lineNo int) error) error {
	r, err := openMaybeGzip(path)
	if err != nil {
		return err
	}
	defer r.Close()

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), scanLimit)

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		if err := decode(line, lineNo); err != nil {
			return err
		}
	}
	return scanner.Err()
}

// ReadLog reads raw combat log records from a JSONL file. Records are
// returned in file order; normalization handles sorting and validation.
func ReadLog(path string) ([]events.RawRecord, error) {
	var records []events.RawRecord
	err := readLines(path, func(line []byte, lineNo int) error {
		var rec events.RawRecord
		if err := json.Unmarshal(line, &rec); err != nil {
			return fmt.Errorf("bad log record at %s:%d: %w", path, lineNo, err)
		}
		records = append(records, rec)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return records, nil
}

// ReadSnapshots reads world-state snapshots from a JSONL file.
func ReadSnapshots(path string) ([]Snapshot, error) {
	var snaps []Snapshot
	err := readLines(path, func(line []byte, lineNo int) error {
		var s Snapshot
		if err := json.Unmarshal(line, &s); err != nil {
			return fmt.Errorf("bad snapshot at %s:%d: %w", path, lineNo, err)
		}
		snaps = append(snaps, s)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return snaps, nil
}
