package io

import (
	"encoding/csv"
	"fmt"
	"strconv"
	"strings"

	"github.com/chartkit/tabular/internal/column"
	"github.com/chartkit/tabular/internal/dataframe"
)

// Read parses the CSV stream into a frame. Each column runs through cell
// parsing (null texts, integers, floats, booleans, optionally dates) and the
// engine's sample-based dtype inference.
func (r *CSVReader) Read() (*dataframe.DataFrame, error) {
	csvReader := csv.NewReader(r.reader)
	if r.options.Delimiter != 0 {
		csvReader.Comma = r.options.Delimiter
	}
	csvReader.Comment = r.options.Comment
	csvReader.TrimLeadingSpace = r.options.SkipInitialSpace
	csvReader.FieldsPerRecord = -1 // short rows pad with nulls

	rows, err := csvReader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading csv: %w", err)
	}
	if len(rows) == 0 {
		return dataframe.New(nil, dataframe.Options{}, r.mem)
	}

	var headers []string
	var dataRows [][]string
	if r.options.Header {
		headers = rows[0]
		dataRows = rows[1:]
	} else {
		headers = make([]string, len(rows[0]))
		for i := range headers {
			headers[i] = fmt.Sprintf("column_%d", i)
		}
		dataRows = rows
	}

	data := make(map[string][]column.Value, len(headers))
	for j, header := range headers {
		vals := make([]column.Value, len(dataRows))
		for i, row := range dataRows {
			if j < len(row) {
				vals[i] = r.parseCell(row[j])
			} else {
				vals[i] = column.Null()
			}
		}
		data[header] = vals
	}
	return dataframe.New(data, dataframe.Options{Columns: headers}, r.mem)
}

// parseCell maps one CSV field to a tagged value: null texts first, then
// integer, float, boolean, date (when enabled), and finally raw string.
func (r *CSVReader) parseCell(cell string) column.Value {
	if cell == "" {
		return column.Null()
	}
	for _, nullText := range r.options.NullValues {
		if cell == nullText {
			return column.Null()
		}
	}

	if n, err := strconv.ParseInt(cell, 10, 64); err == nil {
		return column.Int(n)
	}
	if f, err := strconv.ParseFloat(cell, 64); err == nil {
		return column.FloatVal(f)
	}
	if strings.EqualFold(cell, "true") {
		return column.Bool(true)
	}
	if strings.EqualFold(cell, "false") {
		return column.Bool(false)
	}
	if r.options.ParseDates {
		if t, ok := column.ParseTime(cell); ok {
			return column.DateVal(t)
		}
	}
	return column.Str(cell)
}

// Write renders the frame as CSV: an optional header row, then one line per
// row with nulls as empty fields. Raw mode joins fields with the delimiter
// and no quoting, reproducing the legacy exporter.
func (w *CSVWriter) Write(df *dataframe.DataFrame) error {
	if w.options.Raw {
		return w.writeRaw(df)
	}

	csvWriter := csv.NewWriter(w.writer)
	if w.options.Delimiter != 0 {
		csvWriter.Comma = w.options.Delimiter
	}
	defer csvWriter.Flush()

	if w.options.Header {
		if err := csvWriter.Write(df.Columns()); err != nil {
			return fmt.Errorf("writing header: %w", err)
		}
	}
	for i := 0; i < df.Len(); i++ {
		row, err := df.Row(i)
		if err != nil {
			return err
		}
		fields := make([]string, len(row))
		for j, v := range row {
			fields[j] = v.String()
		}
		if err := csvWriter.Write(fields); err != nil {
			return fmt.Errorf("writing row %d: %w", i, err)
		}
	}
	return csvWriter.Error()
}

func (w *CSVWriter) writeRaw(df *dataframe.DataFrame) error {
	delim := ","
	if w.options.Delimiter != 0 {
		delim = string(w.options.Delimiter)
	}

	var sb strings.Builder
	if w.options.Header {
		sb.WriteString(strings.Join(df.Columns(), delim))
		sb.WriteByte('\n')
	}
	for i := 0; i < df.Len(); i++ {
		row, err := df.Row(i)
		if err != nil {
			return err
		}
		fields := make([]string, len(row))
		for j, v := range row {
			fields[j] = v.String()
		}
		sb.WriteString(strings.Join(fields, delim))
		sb.WriteByte('\n')
	}
	_, err := w.writer.Write([]byte(sb.String()))
	return err
}
