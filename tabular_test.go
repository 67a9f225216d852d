package tabular_test

import (
	"math"
	"strings"
	"testing"
	"time"

	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/chartkit/tabular"
)

func TestNewDataFrame_FromColumnMap(t *testing.T) {
	df, err := tabular.NewDataFrame(map[string][]any{
		"a": {1, 2, 3},
		"b": {"x", "y", "z"},
	}, tabular.Options{})
	if err != nil {
		t.Fatalf("NewDataFrame failed: %v", err)
	}
	defer df.Release()

	if df.Len() != 3 || df.Width() != 2 {
		t.Errorf("Expected 3x2 frame, got %dx%d", df.Len(), df.Width())
	}
	dtypes := df.DTypes()
	if dtypes["a"] != tabular.Integer {
		t.Errorf("Expected column a to infer Integer, got %v", dtypes["a"])
	}
	if dtypes["b"] != tabular.String {
		t.Errorf("Expected column b to infer String, got %v", dtypes["b"])
	}
}

func TestNewDataFrame_FromJSONShapes(t *testing.T) {
	// Shapes as encoding/json decodes them: objects of arrays and arrays
	// of objects.
	byColumns, err := tabular.NewDataFrame(map[string]any{
		"v": []any{1.5, 2.5},
	}, tabular.Options{})
	if err != nil {
		t.Fatalf("NewDataFrame from map[string]any failed: %v", err)
	}
	defer byColumns.Release()
	if byColumns.Len() != 2 {
		t.Errorf("Expected 2 rows, got %d", byColumns.Len())
	}

	byRecords, err := tabular.NewDataFrame([]any{
		map[string]any{"v": 1.5},
		map[string]any{"v": 2.5},
	}, tabular.Options{})
	if err != nil {
		t.Fatalf("NewDataFrame from []any of objects failed: %v", err)
	}
	defer byRecords.Release()
	if byRecords.Len() != 2 {
		t.Errorf("Expected 2 rows, got %d", byRecords.Len())
	}
}

func TestNewDataFrame_UnsupportedContainer(t *testing.T) {
	if _, err := tabular.NewDataFrame(42, tabular.Options{}); !tabular.IsTypeMismatchError(err) {
		t.Errorf("Expected type mismatch for int input, got %v", err)
	}
	if _, err := tabular.NewDataFrame(map[string]any{"v": "scalar"}, tabular.Options{}); !tabular.IsTypeMismatchError(err) {
		t.Errorf("Expected type mismatch for scalar column, got %v", err)
	}
	if _, err := tabular.NewDataFrame([]any{1, 2, 3}, tabular.Options{}); !tabular.IsTypeMismatchError(err) {
		t.Errorf("Expected type mismatch for scalar rows, got %v", err)
	}
}

func TestFromRecords_RoundTrip(t *testing.T) {
	records := []map[string]any{
		{"name": "alpha", "count": 1},
		{"name": "beta", "count": 2},
		{"name": "gamma", "count": 3},
	}
	df, err := tabular.FromRecords(records, tabular.Options{})
	if err != nil {
		t.Fatalf("FromRecords failed: %v", err)
	}
	defer df.Release()

	out := df.Records()
	if len(out) != len(records) {
		t.Fatalf("Expected %d records back, got %d", len(records), len(out))
	}
	for i, rec := range out {
		if rec["name"] != records[i]["name"] {
			t.Errorf("Row %d: expected name %v, got %v", i, records[i]["name"], rec["name"])
		}
		if rec["count"] != int64(i+1) {
			t.Errorf("Row %d: expected count %d, got %v", i, i+1, rec["count"])
		}
	}
}

func TestFromRows_NamesColumns(t *testing.T) {
	df, err := tabular.FromRows([][]any{
		{1, "x"},
		{2, "y"},
	}, tabular.Options{Columns: []string{"id", "tag"}})
	if err != nil {
		t.Fatalf("FromRows failed: %v", err)
	}
	defer df.Release()

	cols := df.Columns()
	if len(cols) != 2 || cols[0] != "id" || cols[1] != "tag" {
		t.Errorf("Expected columns [id tag], got %v", cols)
	}
}

func TestDataFrame_HeadClamps(t *testing.T) {
	df, err := tabular.FromColumns(map[string][]any{"v": {1, 2, 3}}, tabular.Options{})
	if err != nil {
		t.Fatalf("FromColumns failed: %v", err)
	}
	defer df.Release()

	head := df.Head(10)
	defer head.Release()
	if head.Len() != 3 {
		t.Errorf("Expected head(10) to clamp to 3 rows, got %d", head.Len())
	}

	two := df.Head(2)
	defer two.Release()
	if two.Len() != 2 {
		t.Errorf("Expected 2 rows, got %d", two.Len())
	}
	s, err := two.Column("v")
	if err != nil {
		t.Fatalf("Column failed: %v", err)
	}
	defer s.Release()
	if v, _ := s.At(1); v != int64(2) {
		t.Errorf("Expected second head row to hold 2, got %v", v)
	}
}

func TestDataFrame_SetIndexAndLoc(t *testing.T) {
	df, err := tabular.FromColumns(map[string][]any{
		"key": {"a", "b", "c"},
		"v":   {10, 20, 30},
	}, tabular.Options{Columns: []string{"key", "v"}})
	if err != nil {
		t.Fatalf("FromColumns failed: %v", err)
	}
	defer df.Release()

	indexed, err := df.SetIndex("key")
	if err != nil {
		t.Fatalf("SetIndex failed: %v", err)
	}
	defer indexed.Release()

	s, err := indexed.Column("v")
	if err != nil {
		t.Fatalf("Column failed: %v", err)
	}
	defer s.Release()

	got, err := s.Loc("b")
	if err != nil {
		t.Fatalf("Loc failed: %v", err)
	}
	if got != int64(20) {
		t.Errorf("Expected 20 under label b, got %v", got)
	}
}

func TestDataFrame_SortByColumn(t *testing.T) {
	df, err := tabular.FromColumns(map[string][]any{"v": {3, 1, 2}}, tabular.Options{})
	if err != nil {
		t.Fatalf("FromColumns failed: %v", err)
	}
	defer df.Release()

	sorted, err := df.Sort([]string{"v"}, []bool{true})
	if err != nil {
		t.Fatalf("Sort failed: %v", err)
	}
	defer sorted.Release()

	s, err := sorted.Column("v")
	if err != nil {
		t.Fatalf("Column failed: %v", err)
	}
	defer s.Release()
	for i, want := range []int64{1, 2, 3} {
		if v, _ := s.At(i); v != want {
			t.Errorf("Position %d: expected %d, got %v", i, want, v)
		}
	}
}

func TestDataFrame_DropNA(t *testing.T) {
	df, err := tabular.FromColumns(map[string][]any{
		"a": {1.5, nil, nil},
		"b": {"x", "y", nil},
	}, tabular.Options{Columns: []string{"a", "b"}})
	if err != nil {
		t.Fatalf("FromColumns failed: %v", err)
	}
	defer df.Release()

	clean, err := df.DropNA("any")
	if err != nil {
		t.Fatalf("DropNA(any) failed: %v", err)
	}
	defer clean.Release()
	if clean.Len() != 1 {
		t.Errorf("Expected 1 fully populated row, got %d", clean.Len())
	}

	partial, err := df.DropNA("all")
	if err != nil {
		t.Fatalf("DropNA(all) failed: %v", err)
	}
	defer partial.Release()
	if partial.Len() != 2 {
		t.Errorf("Expected 2 rows with at least one value, got %d", partial.Len())
	}
	if clean.Len() > partial.Len() || partial.Len() > df.Len() {
		t.Errorf("Row counts out of order: %d, %d, %d", clean.Len(), partial.Len(), df.Len())
	}

	if _, err := df.DropNA("some"); !tabular.IsUnsupportedError(err) {
		t.Errorf("Expected unsupported error for mode some, got %v", err)
	}
}

func TestDataFrame_To(t *testing.T) {
	df, err := tabular.FromColumns(map[string][]any{
		"a": {1, 2},
		"b": {"x", "y"},
	}, tabular.Options{Columns: []string{"a", "b"}})
	if err != nil {
		t.Fatalf("FromColumns failed: %v", err)
	}
	defer df.Release()

	csvOut, err := df.To("csv")
	if err != nil {
		t.Fatalf("To(csv) failed: %v", err)
	}
	if !strings.Contains(csvOut, "a,b") || !strings.Contains(csvOut, "1,x") {
		t.Errorf("Unexpected csv output: %q", csvOut)
	}

	jsonOut, err := df.To("json")
	if err != nil {
		t.Fatalf("To(json) failed: %v", err)
	}
	if !strings.Contains(jsonOut, `"a":[1,2]`) {
		t.Errorf("Unexpected json output: %q", jsonOut)
	}

	recordsOut, err := df.To("records")
	if err != nil {
		t.Fatalf("To(records) failed: %v", err)
	}
	if !strings.Contains(recordsOut, `{"a":1,"b":"x"}`) {
		t.Errorf("Unexpected records output: %q", recordsOut)
	}

	if _, err := df.To("xml"); !tabular.IsUnsupportedError(err) {
		t.Errorf("Expected unsupported error for xml, got %v", err)
	}
}

func TestReadCSV_InfersTypes(t *testing.T) {
	input := "name,count\nalpha,1\nbeta,\ngamma,3\n"
	df, err := tabular.ReadCSV(strings.NewReader(input), tabular.DefaultCSVOptions(), nil)
	if err != nil {
		t.Fatalf("ReadCSV failed: %v", err)
	}
	defer df.Release()

	if df.Len() != 3 {
		t.Fatalf("Expected 3 rows, got %d", df.Len())
	}
	if df.DTypes()["count"] != tabular.Integer {
		t.Errorf("Expected count to infer Integer, got %v", df.DTypes()["count"])
	}
	s, err := df.Column("count")
	if err != nil {
		t.Fatalf("Column failed: %v", err)
	}
	defer s.Release()
	if v, _ := s.At(1); v != nil {
		t.Errorf("Expected empty cell to read as null, got %v", v)
	}
}

func TestWriteCSV_RawMode(t *testing.T) {
	df, err := tabular.FromColumns(map[string][]any{
		"text": {`say "hi"`},
	}, tabular.Options{})
	if err != nil {
		t.Fatalf("FromColumns failed: %v", err)
	}
	defer df.Release()

	var quoted strings.Builder
	opts := tabular.DefaultCSVOptions()
	if err := df.WriteCSV(&quoted, opts); err != nil {
		t.Fatalf("WriteCSV failed: %v", err)
	}
	if !strings.Contains(quoted.String(), `"say ""hi"""`) {
		t.Errorf("Expected quoted output, got %q", quoted.String())
	}

	var raw strings.Builder
	opts.Raw = true
	if err := df.WriteCSV(&raw, opts); err != nil {
		t.Fatalf("WriteCSV raw failed: %v", err)
	}
	if !strings.Contains(raw.String(), `say "hi"`) || strings.Contains(raw.String(), `""`) {
		t.Errorf("Expected unquoted raw output, got %q", raw.String())
	}
}

func TestNewSeries_Stats(t *testing.T) {
	mem := memory.NewGoAllocator()
	s := tabular.NewSeries("v", []float64{1, 2, 3, 4}, mem)
	defer s.Release()

	if s.Len() != 4 || s.Count() != 4 {
		t.Errorf("Expected 4 elements, got len %d count %d", s.Len(), s.Count())
	}
	mean, err := s.Mean()
	if err != nil {
		t.Fatalf("Mean failed: %v", err)
	}
	if mean != 2.5 {
		t.Errorf("Expected mean 2.5, got %v", mean)
	}
	std, err := s.Std()
	if err != nil {
		t.Fatalf("Std failed: %v", err)
	}
	if math.Abs(std-1.2909944487358056) > 1e-12 {
		t.Errorf("Expected sample std ~1.291, got %v", std)
	}
}

func TestSeries_FillNA(t *testing.T) {
	mem := memory.NewGoAllocator()
	s := tabular.NewSeries("v", []any{1.0, nil, 3.0}, mem)
	defer s.Release()

	filled, err := s.FillNA(tabular.FillOptions{Value: 0.0})
	if err != nil {
		t.Fatalf("FillNA scalar failed: %v", err)
	}
	defer filled.Release()
	if v, _ := filled.At(1); v != 0.0 {
		t.Errorf("Expected filled 0, got %v", v)
	}

	forward, err := s.FillNA(tabular.FillOptions{Method: "ffill"})
	if err != nil {
		t.Fatalf("FillNA ffill failed: %v", err)
	}
	defer forward.Release()
	if v, _ := forward.At(1); v != 1.0 {
		t.Errorf("Expected forward fill 1, got %v", v)
	}

	if _, err := s.FillNA(tabular.FillOptions{Value: 0.0, Method: "ffill"}); !tabular.IsValidationError(err) {
		t.Errorf("Expected validation error for conflicting options, got %v", err)
	}
	if _, err := s.FillNA(tabular.FillOptions{}); !tabular.IsValidationError(err) {
		t.Errorf("Expected validation error for empty options, got %v", err)
	}
}

func TestSeries_RollingMean(t *testing.T) {
	mem := memory.NewGoAllocator()
	s := tabular.NewSeries("v", []float64{1, 2, 3}, mem)
	defer s.Release()

	roll, err := s.Rolling(tabular.RollingOptions{Window: 3, MinPeriods: 3})
	if err != nil {
		t.Fatalf("Rolling failed: %v", err)
	}
	means, err := roll.Mean()
	if err != nil {
		t.Fatalf("Rolling mean failed: %v", err)
	}
	defer means.Release()

	if v, _ := means.At(0); v != nil {
		t.Errorf("Expected null before the window fills, got %v", v)
	}
	if v, _ := means.At(2); v != 2.0 {
		t.Errorf("Expected mean 2 over the full window, got %v", v)
	}
}

func TestDataFrame_Scale(t *testing.T) {
	df, err := tabular.FromColumns(map[string][]any{
		"v": {1000, 2000, 3000},
	}, tabular.Options{})
	if err != nil {
		t.Fatalf("FromColumns failed: %v", err)
	}
	defer df.Release()

	scaled, info, err := df.Scale()
	if err != nil {
		t.Fatalf("Scale failed: %v", err)
	}
	defer scaled.Release()

	if info["v"].Suffix != "K" {
		t.Errorf("Expected K suffix, got %q", info["v"].Suffix)
	}
	s, err := scaled.Column("v")
	if err != nil {
		t.Fatalf("Column failed: %v", err)
	}
	defer s.Release()
	if v, _ := s.At(2); v != 3.0 {
		t.Errorf("Expected 3000 to scale to 3, got %v", v)
	}
}

func TestYAxisGrid_Facade(t *testing.T) {
	grid, err := tabular.YAxisGrid([]float64{10, 25, 30, 45, 50}, tabular.DefaultAxisOptions())
	if err != nil {
		t.Fatalf("YAxisGrid failed: %v", err)
	}
	if grid.Range[0] != 0 {
		t.Errorf("Expected axis to anchor at 0, got %v", grid.Range[0])
	}
	if grid.Range[1] < 50 {
		t.Errorf("Expected axis top to cover 50, got %v", grid.Range[1])
	}
	if grid.TickMode != "linear" {
		t.Errorf("Expected linear tick mode, got %q", grid.TickMode)
	}
}

func TestNiceNumber_Facade(t *testing.T) {
	if got := tabular.NiceNumber(12, true); got != 10 {
		t.Errorf("NiceNumber(12, true): expected 10, got %v", got)
	}
	if got := tabular.NiceNumber(4.8, false); got != 5 {
		t.Errorf("NiceNumber(4.8, false): expected 5, got %v", got)
	}
}

func TestRoundAndAlignDates_Facade(t *testing.T) {
	day := func(d int) time.Time {
		return time.Date(2024, time.January, d, 0, 0, 0, 0, time.UTC)
	}
	at := func(d, hour int) time.Time {
		return time.Date(2024, time.January, d, hour, 0, 0, 0, time.UTC)
	}

	a, err := tabular.FromColumns(map[string][]any{"v": {1.0, 2.0}},
		tabular.Options{Index: []any{at(1, 8), at(2, 8)}})
	if err != nil {
		t.Fatalf("FromColumns failed: %v", err)
	}
	defer a.Release()
	b, err := tabular.FromColumns(map[string][]any{"v": {10.0, 20.0}},
		tabular.Options{Index: []any{at(2, 15), at(3, 15)}})
	if err != nil {
		t.Fatalf("FromColumns failed: %v", err)
	}
	defer b.Release()

	aligned, report, err := tabular.RoundAndAlignDates([]*tabular.DataFrame{a, b}, tabular.AlignOptions{})
	if err != nil {
		t.Fatalf("RoundAndAlignDates failed: %v", err)
	}
	for _, f := range aligned {
		defer f.Release()
	}

	if !report.Aligned {
		t.Fatal("Expected frames to align")
	}
	if !report.Start.Equal(day(1)) || !report.End.Equal(day(3)) {
		t.Errorf("Expected range day1..day3, got %v..%v", report.Start, report.End)
	}
	for i, f := range aligned {
		if f.Len() != 3 {
			t.Errorf("Frame %d: expected 3 aligned rows, got %d", i, f.Len())
		}
	}
	idxA := aligned[0].Index()
	idxB := aligned[1].Index()
	for i := range idxA {
		ta, ok := idxA[i].(time.Time)
		if !ok {
			t.Fatalf("Expected time labels, got %T", idxA[i])
		}
		tb := idxB[i].(time.Time)
		if !ta.Equal(tb) || !ta.Equal(day(i+1)) {
			t.Errorf("Position %d: expected matching label %v, got %v and %v", i, day(i+1), ta, tb)
		}
	}
}

func TestVersion_NotEmpty(t *testing.T) {
	if tabular.Version() == "" {
		t.Error("Expected a version string")
	}
	if tabular.Build().GoVersion == "" {
		t.Error("Expected build info to carry the Go version")
	}
}
