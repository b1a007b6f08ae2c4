package services

import (
	"fmt"

	"github.com/vvka-141/dbseed/internal/fixtures/reader"
	"github.com/vvka-141/dbseed/pkg/dbseed"
)

// InspectedFile is one fixture file and the fixtures it produced.
type InspectedFile struct {
	Path     string
	Fixtures []dbseed.Fixture
}

// TableCounts returns the number of fixtures per table in first-seen order.
func (f InspectedFile) TableCounts() []TableCount {
	return countTables(f.Fixtures)
}

// TableCount pairs a table with a fixture count.
type TableCount struct {
	Table string
	Count int
}

// Inspection is the result of reading sources without loading them.
type Inspection struct {
	Files    []InspectedFile
	Fixtures []dbseed.Fixture
}

// TableCounts totals fixtures per table across all files in first-seen order.
func (i *Inspection) TableCounts() []TableCount {
	return countTables(i.Fixtures)
}

func countTables(fixtures []dbseed.Fixture) []TableCount {
	var counts []TableCount
	index := make(map[string]int)
	for _, f := range fixtures {
		i, ok := index[f.Table]
		if !ok {
			i = len(counts)
			index[f.Table] = i
			counts = append(counts, TableCount{Table: f.Table})
		}
		counts[i].Count++
	}
	return counts
}

// Inspect reads cfg.Sources and returns the fixture sequence grouped by file.
// No connection is opened; only Sources, Encoding and Timeout are used.
func (s *SeedService) Inspect(cfg dbseed.SeedConfig) (*Inspection, error) {
	if len(cfg.Sources) == 0 {
		return nil, fmt.Errorf("%w: at least one fixture source is required", dbseed.ErrInvalidArgument)
	}
	encoding := cfg.Encoding
	if encoding == "" {
		encoding = dbseed.DefaultEncoding
	}

	files := &fileRecorder{}
	r, err := reader.New(
		reader.WithEncoding(encoding),
		reader.WithFileSystem(s.fsProvider),
		reader.WithObserver(s.observer(files)),
		reader.WithFormat(".tengo", reader.NewScriptFormat(cfg.Timeout)),
	)
	if err != nil {
		return nil, err
	}

	fixtures, err := r.ReadFiles(cfg.Sources)
	if err != nil {
		return nil, err
	}

	inspection := &Inspection{Fixtures: fixtures}
	offset := 0
	for _, file := range files.files {
		inspection.Files = append(inspection.Files, InspectedFile{
			Path:     file.path,
			Fixtures: fixtures[offset : offset+file.count],
		})
		offset += file.count
	}
	return inspection, nil
}

// fileRecorder remembers the fixture count of each file in read order.
type fileRecorder struct {
	dbseed.NopObserver
	files []struct {
		path  string
		count int
	}
}

func (r *fileRecorder) FileRead(filename string, count int) {
	r.files = append(r.files, struct {
		path  string
		count int
	}{filename, count})
}
