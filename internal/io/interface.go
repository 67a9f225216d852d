// Package io reads and writes data frames in the wire formats the chart
// pipeline consumes: CSV and JSON, both column-major and record-major.
//
// Readers parse cells through the engine's type inference so a CSV column of
// digits comes back Integer, not String. Writers render null cells as empty
// (CSV) or JSON null. All readers take a memory.Allocator; everything they
// return owns freshly allocated storage.
package io

import (
	"io"

	"github.com/apache/arrow-go/v18/arrow/memory"

	"github.com/chartkit/tabular/internal/dataframe"
)

// DataReader reads a frame from some source.
type DataReader interface {
	Read() (*dataframe.DataFrame, error)
}

// DataWriter writes a frame to some destination.
type DataWriter interface {
	Write(df *dataframe.DataFrame) error
}

// CSVOptions configures CSV reading and writing.
type CSVOptions struct {
	// Delimiter is the field delimiter (default comma).
	Delimiter rune
	// Comment is the comment character (0 disables comments).
	Comment rune
	// Header marks the first row as column names; without it columns are
	// named column_0, column_1, and so on.
	Header bool
	// SkipInitialSpace trims leading whitespace in fields.
	SkipInitialSpace bool
	// ParseDates lets string cells that look like dates become Date cells.
	ParseDates bool
	// NullValues lists cell texts treated as null besides the empty string.
	NullValues []string
	// Raw makes the writer emit fields joined by the delimiter with no
	// quoting or escaping, matching the legacy chart exporter byte for byte.
	// Reading is always done through encoding/csv.
	Raw bool
}

// DefaultCSVOptions returns the standard CSV configuration: comma-delimited,
// first row headers, quoted output.
func DefaultCSVOptions() CSVOptions {
	return CSVOptions{
		Delimiter: ',',
		Header:    true,
	}
}

// JSONFormat selects the JSON layout.
type JSONFormat int

const (
	// JSONRecords is a top-level array of row objects.
	JSONRecords JSONFormat = iota
	// JSONColumns is a top-level object mapping column names to cell arrays.
	JSONColumns
	// JSONLines is one row object per line.
	JSONLines
)

// JSONOptions configures JSON reading and writing.
type JSONOptions struct {
	// Format selects the layout (default JSONRecords).
	Format JSONFormat
	// MaxRecords caps how many rows the reader keeps (0 means no cap).
	MaxRecords int
	// NullValues lists string cells treated as null.
	NullValues []string
	// Indent is the writer's indentation string; empty writes compact JSON.
	Indent string
}

// DefaultJSONOptions returns the standard JSON configuration.
func DefaultJSONOptions() JSONOptions {
	return JSONOptions{Format: JSONRecords}
}

// CSVReader reads CSV into a frame.
type CSVReader struct {
	reader  io.Reader
	options CSVOptions
	mem     memory.Allocator
}

// NewCSVReader creates a CSV reader.
func NewCSVReader(reader io.Reader, options CSVOptions, mem memory.Allocator) *CSVReader {
	return &CSVReader{reader: reader, options: options, mem: mem}
}

// CSVWriter writes a frame as CSV.
type CSVWriter struct {
	writer  io.Writer
	options CSVOptions
}

// NewCSVWriter creates a CSV writer.
func NewCSVWriter(writer io.Writer, options CSVOptions) *CSVWriter {
	return &CSVWriter{writer: writer, options: options}
}

// JSONReader reads JSON into a frame.
type JSONReader struct {
	reader  io.Reader
	options JSONOptions
	mem     memory.Allocator
}

// NewJSONReader creates a JSON reader.
func NewJSONReader(reader io.Reader, options JSONOptions, mem memory.Allocator) *JSONReader {
	return &JSONReader{reader: reader, options: options, mem: mem}
}

// JSONWriter writes a frame as JSON.
type JSONWriter struct {
	writer  io.Writer
	options JSONOptions
}

// NewJSONWriter creates a JSON writer.
func NewJSONWriter(writer io.Writer, options JSONOptions) *JSONWriter {
	return &JSONWriter{writer: writer, options: options}
}
