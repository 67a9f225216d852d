package io

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/chartkit/tabular/internal/column"
	"github.com/chartkit/tabular/internal/dataframe"
	"github.com/chartkit/tabular/internal/errors"
)

// Read parses the JSON stream into a frame according to the configured
// layout.
func (r *JSONReader) Read() (*dataframe.DataFrame, error) {
	switch r.options.Format {
	case JSONRecords:
		return r.readRecords()
	case JSONColumns:
		return r.readColumns()
	case JSONLines:
		return r.readLines()
	default:
		return nil, errors.NewUnsupportedError("json", fmt.Sprintf("unknown format %d", int(r.options.Format)))
	}
}

func (r *JSONReader) readRecords() (*dataframe.DataFrame, error) {
	dec := json.NewDecoder(r.reader)
	dec.UseNumber()

	var rows []map[string]any
	if err := dec.Decode(&rows); err != nil {
		return nil, fmt.Errorf("decoding json records: %w", err)
	}
	if r.options.MaxRecords > 0 && len(rows) > r.options.MaxRecords {
		rows = rows[:r.options.MaxRecords]
	}
	return r.recordsToFrame(rows)
}

func (r *JSONReader) readColumns() (*dataframe.DataFrame, error) {
	dec := json.NewDecoder(r.reader)
	dec.UseNumber()

	var cols map[string][]any
	if err := dec.Decode(&cols); err != nil {
		return nil, fmt.Errorf("decoding json columns: %w", err)
	}

	data := make(map[string][]column.Value, len(cols))
	for name, cells := range cols {
		vals := make([]column.Value, len(cells))
		for i, cell := range cells {
			vals[i] = r.cellValue(cell)
		}
		data[name] = vals
	}
	return dataframe.New(data, dataframe.Options{}, r.mem)
}

func (r *JSONReader) readLines() (*dataframe.DataFrame, error) {
	scanner := bufio.NewScanner(r.reader)
	var rows []map[string]any
	line := 0
	for scanner.Scan() {
		text := strings.TrimSpace(scanner.Text())
		line++
		if text == "" {
			continue
		}

		dec := json.NewDecoder(strings.NewReader(text))
		dec.UseNumber()
		var row map[string]any
		if err := dec.Decode(&row); err != nil {
			return nil, fmt.Errorf("decoding json line %d: %w", line, err)
		}
		rows = append(rows, row)
		if r.options.MaxRecords > 0 && len(rows) >= r.options.MaxRecords {
			break
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scanning json lines: %w", err)
	}
	return r.recordsToFrame(rows)
}

func (r *JSONReader) recordsToFrame(rows []map[string]any) (*dataframe.DataFrame, error) {
	records := make([]map[string]column.Value, len(rows))
	for i, row := range rows {
		rec := make(map[string]column.Value, len(row))
		for name, cell := range row {
			rec[name] = r.cellValue(cell)
		}
		records[i] = rec
	}
	return dataframe.FromRecords(records, dataframe.Options{}, r.mem)
}

// cellValue maps a decoded JSON value to a tagged cell. Numbers keep integer
// precision when they have no fractional part; strings stay strings apart
// from the configured null texts.
func (r *JSONReader) cellValue(v any) column.Value {
	switch val := v.(type) {
	case nil:
		return column.Null()
	case json.Number:
		if n, err := val.Int64(); err == nil {
			return column.Int(n)
		}
		if f, err := val.Float64(); err == nil {
			return column.FloatVal(f)
		}
		return column.Str(val.String())
	case bool:
		return column.Bool(val)
	case string:
		for _, nullText := range r.options.NullValues {
			if val == nullText {
				return column.Null()
			}
		}
		return column.Str(val)
	default:
		return column.CoerceValue(val)
	}
}

// Write renders the frame in the configured JSON layout. Dates serialize as
// RFC 3339 strings and nulls as JSON null.
func (w *JSONWriter) Write(df *dataframe.DataFrame) error {
	switch w.options.Format {
	case JSONRecords:
		return w.marshal(recordsPayload(df))
	case JSONColumns:
		return w.marshal(columnsPayload(df))
	case JSONLines:
		return w.writeLines(df)
	default:
		return errors.NewUnsupportedError("json", fmt.Sprintf("unknown format %d", int(w.options.Format)))
	}
}

func (w *JSONWriter) marshal(payload any) error {
	var (
		data []byte
		err  error
	)
	if w.options.Indent != "" {
		data, err = json.MarshalIndent(payload, "", w.options.Indent)
	} else {
		data, err = json.Marshal(payload)
	}
	if err != nil {
		return fmt.Errorf("marshaling json: %w", err)
	}
	_, err = w.writer.Write(data)
	return err
}

func (w *JSONWriter) writeLines(df *dataframe.DataFrame) error {
	var buf bytes.Buffer
	for _, rec := range recordsPayload(df) {
		data, err := json.Marshal(rec)
		if err != nil {
			return fmt.Errorf("marshaling json line: %w", err)
		}
		buf.Write(data)
		buf.WriteByte('\n')
	}
	_, err := io.Copy(w.writer, &buf)
	return err
}

// recordsPayload converts a frame to row objects with plain Go values.
func recordsPayload(df *dataframe.DataFrame) []map[string]any {
	names := df.Columns()
	out := make([]map[string]any, df.Len())
	for i := range out {
		rec := make(map[string]any, len(names))
		for _, name := range names {
			col, _ := df.Column(name)
			rec[name] = cellJSON(col.Value(i))
		}
		out[i] = rec
	}
	return out
}

// columnsPayload converts a frame to a name-to-cells object. Key order in the
// output is encoding/json's sorted map order.
func columnsPayload(df *dataframe.DataFrame) map[string][]any {
	names := df.Columns()
	out := make(map[string][]any, len(names))
	for _, name := range names {
		col, _ := df.Column(name)
		cells := make([]any, col.Len())
		for i := range cells {
			cells[i] = cellJSON(col.Value(i))
		}
		out[name] = cells
	}
	return out
}

// cellJSON maps one tagged cell to its JSON-marshalable Go value.
func cellJSON(v column.Value) any {
	if v.IsNull() {
		return nil
	}
	switch kind, _ := v.Kind(); kind {
	case column.Integer:
		n, _ := v.Int64()
		return n
	case column.Float:
		f, _ := v.Float64()
		return f
	case column.Boolean:
		b, _ := v.Bool()
		return b
	default:
		// String and Date both render through the value's text form.
		return v.String()
	}
}
