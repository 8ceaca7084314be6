package collection

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// ErrMissingColumn is returned when the header lacks a required column.
var ErrMissingColumn = errors.New("missing required column")

// Read parses a collection from CSV. Columns are matched by header name;
// unknown columns are ignored and missing optional columns stay empty.
func Read(r io.Reader) (Collection, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err == io.EOF {
		return Collection{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	columns := make(map[int]Field)
	seen := make(map[Field]bool)
	for i, name := range header {
		f := Field(strings.TrimSpace(strings.TrimPrefix(name, "\ufeff")))
		if f.IsValid() {
			columns[i] = f
			seen[f] = true
		}
	}
	for _, required := range []Field{FieldArtist, FieldTitle} {
		if !seen[required] {
			return nil, fmt.Errorf("%w: %s", ErrMissingColumn, required)
		}
	}

	coll := Collection{}
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read row: %w", err)
		}

		item := &Item{}
		for i, value := range record {
			if f, ok := columns[i]; ok {
				item.Set(f, value)
			}
		}
		if item.Artist == "" || item.Title == "" {
			line, _ := reader.FieldPos(0)
			return nil, fmt.Errorf("line %d: artist and title are required", line)
		}
		coll = append(coll, item)
	}

	return coll, nil
}

// ReadFile opens path and parses it with Read.
func ReadFile(path string) (Collection, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open collection file: %w", err)
	}
	defer f.Close()

	coll, err := Read(f)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return coll, nil
}

// Write sorts c and serializes it with a header row.
func Write(w io.Writer, c Collection) error {
	c.Sort()

	writer := csv.NewWriter(w)
	header := make([]string, len(Fields))
	for i, f := range Fields {
		header[i] = string(f)
	}
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	row := make([]string, len(Fields))
	for _, item := range c {
		for i, f := range Fields {
			row[i] = item.Get(f)
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write row %s: %w", item, err)
		}
	}

	writer.Flush()
	return writer.Error()
}

// WriteFile writes c to path through a temporary file in the same directory,
// renaming it into place only after every row was written.
func WriteFile(path string, c Collection) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".collection-*.csv")
	if err != nil {
		return fmt.Errorf("failed to create temporary file: %w", err)
	}
	tmpName := tmp.Name()
	if err := tmp.Chmod(0644); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to set file mode: %w", err)
	}

	if err := Write(tmp, c); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to close temporary file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to replace collection file: %w", err)
	}
	return nil
}
