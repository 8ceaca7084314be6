package rym

import (
	"encoding/csv"
	"errors"
	"fmt"
	"html"
	"io"
	"os"
	"strings"
)

// Column names of the export header.
const (
	ColumnAlbumID     = "RYM Album"
	ColumnFirstName   = "First Name"
	ColumnLastName    = "Last Name"
	ColumnTitle       = "Title"
	ColumnReleaseDate = "Release_Date"
	ColumnRating      = "Rating"
)

// ErrMalformedExport is returned when the export header lacks a required column.
var ErrMalformedExport = errors.New("malformed catalog export")

// Record is one row of the catalog export.
type Record struct {
	AlbumID     string
	FirstName   string
	LastName    string
	Title       string
	ReleaseDate string
	Rating      string
}

// Artist composes the display artist from the name columns.
func (r Record) Artist() string {
	if r.FirstName == "" {
		return r.LastName
	}
	return r.FirstName + " " + r.LastName
}

// ReadExport parses every record of an export. Values are trimmed and HTML
// entities decoded; unknown columns are ignored.
func ReadExport(r io.Reader) ([]Record, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true
	reader.LazyQuotes = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read export header: %w", err)
	}

	columns := make(map[string]int, len(header))
	for i, name := range header {
		columns[strings.TrimSpace(strings.TrimPrefix(name, "\ufeff"))] = i
	}
	for _, required := range []string{ColumnAlbumID, ColumnLastName, ColumnTitle} {
		if _, ok := columns[required]; !ok {
			return nil, fmt.Errorf("%w: missing column %q", ErrMalformedExport, required)
		}
	}

	value := func(row []string, column string) string {
		i, ok := columns[column]
		if !ok || i >= len(row) {
			return ""
		}
		return html.UnescapeString(strings.TrimSpace(row[i]))
	}

	var records []Record
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read export row: %w", err)
		}
		records = append(records, Record{
			AlbumID:     value(row, ColumnAlbumID),
			FirstName:   value(row, ColumnFirstName),
			LastName:    value(row, ColumnLastName),
			Title:       value(row, ColumnTitle),
			ReleaseDate: value(row, ColumnReleaseDate),
			Rating:      value(row, ColumnRating),
		})
	}
	return records, nil
}

// ReadExportFile opens path and parses it with ReadExport.
func ReadExportFile(path string) ([]Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open catalog export: %w", err)
	}
	defer f.Close()

	records, err := ReadExport(f)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return records, nil
}
