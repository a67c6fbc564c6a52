package tabular

import (
	"reflect"
	"testing"
)

func TestNewFrame(t *testing.T) {
	frame := NewFrame([][]string{
		{"Name", "", "Name"},
		{"Alice", "30"},
		{"Bob", "25", "x", "extra"},
	})

	wantCols := []string{"Name", "Unnamed: 1", "Name.1", "Unnamed: 3"}
	if !reflect.DeepEqual(frame.Columns, wantCols) {
		t.Errorf("Columns = %v, want %v", frame.Columns, wantCols)
	}
	if len(frame.Rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(frame.Rows))
	}
	if !reflect.DeepEqual(frame.Rows[0], []string{"Alice", "30", "", ""}) {
		t.Errorf("row 0 not padded: %v", frame.Rows[0])
	}
	if frame.Empty() {
		t.Error("frame with rows should not be empty")
	}

	table := frame.Table()
	if len(table.Rows) != 3 || table.Rows[0][0] != "Name" {
		t.Errorf("unexpected table %v", table.Rows)
	}
}

func TestNewFrameHeaderOnly(t *testing.T) {
	frame := NewFrame([][]string{{"a", "b"}})
	if !frame.Empty() {
		t.Error("header-only frame should be empty")
	}
	if len(frame.Columns) != 2 {
		t.Errorf("Columns = %v", frame.Columns)
	}
	if NewFrame(nil).Columns != nil {
		t.Error("nil records should give a zero frame")
	}
}

func TestDescribeRow(t *testing.T) {
	cols := []string{"Name", "Age", "City"}

	tests := []struct {
		name string
		row  []string
		want string
	}{
		{"all values", []string{"Alice", "30", "NYC"}, "Name: Alice, Age: 30, City: NYC"},
		{"skips empty", []string{"Bob", "", "LA"}, "Name: Bob, City: LA"},
		{"blank row", []string{"", " ", ""}, ""},
		{"short row", []string{"Cy"}, "Name: Cy"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DescribeRow(cols, tt.row); got != tt.want {
				t.Errorf("DescribeRow = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestIsUnnamedColumn(t *testing.T) {
	if !IsUnnamedColumn("Unnamed: 2") {
		t.Error("expected placeholder column to be unnamed")
	}
	if IsUnnamedColumn("Revenue") {
		t.Error("named column reported as unnamed")
	}
}

func TestRuleAndJoin(t *testing.T) {
	if Rule("=", 3) != "===" || Rule("-", 0) != "" {
		t.Error("Rule produced unexpected output")
	}
	if JoinRow([]string{"a", "", "c"}) != "a |  | c" {
		t.Errorf("JoinRow = %q", JoinRow([]string{"a", "", "c"}))
	}
}

func TestIsMissing(t *testing.T) {
	tests := []struct {
		value string
		want  bool
	}{
		{"", true},
		{"NA", true},
		{"N/A", true},
		{"#N/A", true},
		{"null", true},
		{"NULL", true},
		{"NaN", true},
		{"nan", true},
		{"None", true},
		{"<NA>", true},
		{" NA", false},
		{"na", false},
		{"0", false},
		{"Nancy", false},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			if got := IsMissing(tt.value); got != tt.want {
				t.Errorf("IsMissing(%q) = %v, want %v", tt.value, got, tt.want)
			}
		})
	}
}

func TestNewFrameClearsMissingValues(t *testing.T) {
	records := [][]string{
		{"id", "NA"},
		{"1", "null"},
		{"NaN", "ok"},
	}
	frame := NewFrame(records)

	if !reflect.DeepEqual(frame.Columns, []string{"id", "NA"}) {
		t.Errorf("header names should be kept, got %v", frame.Columns)
	}
	want := [][]string{{"1", ""}, {"", "ok"}}
	if !reflect.DeepEqual(frame.Rows, want) {
		t.Errorf("Rows = %v, want %v", frame.Rows, want)
	}
	if records[1][1] != "null" {
		t.Error("NewFrame must not modify its input")
	}
}
