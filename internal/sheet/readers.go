package sheet

import (
	"fmt"
	"os"
	"strings"

	"github.com/extrame/xls"
	"github.com/xuri/excelize/v2"
)

func readXLSX(path string) ([]Sheet, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	names := f.GetSheetList()
	sheets := make([]Sheet, 0, len(names))
	for _, name := range names {
		rows, err := f.GetRows(name)
		if err != nil {
			return nil, fmt.Errorf("failed to read sheet %q: %w", name, err)
		}
		sheets = append(sheets, Sheet{Name: name, Records: dropLeadingBlankRows(rows)})
	}
	return sheets, nil
}

// readXLS reads legacy BIFF workbooks. The xls package panics on some
// malformed inputs, so panics are turned into errors.
func readXLS(path string) (sheets []Sheet, err error) {
	defer func() {
		if r := recover(); r != nil {
			sheets = nil
			err = fmt.Errorf("malformed xls workbook: %v", r)
		}
	}()

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer file.Close()

	wb, err := xls.OpenReader(file, "utf-8")
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}

	for i := range wb.NumSheets() {
		ws := wb.GetSheet(i)
		if ws == nil {
			continue
		}
		var records [][]string
		for r := 0; r <= int(ws.MaxRow); r++ {
			records = append(records, xlsRow(ws, r))
		}
		sheets = append(sheets, Sheet{Name: ws.Name, Records: dropLeadingBlankRows(trimRecords(records))})
	}
	return sheets, nil
}

// xlsRow returns the cell values of row r, or nil for rows the sheet does
// not store.
func xlsRow(ws *xls.WorkSheet, r int) (cells []string) {
	defer func() {
		if recover() != nil {
			cells = nil
		}
	}()

	row := ws.Row(r)
	if row == nil {
		return nil
	}
	for c := 0; c < row.LastCol(); c++ {
		cells = append(cells, row.Col(c))
	}
	return cells
}

// trimRecords drops trailing empty cells and trailing empty rows, matching
// the shape excelize returns.
func trimRecords(records [][]string) [][]string {
	for i, rec := range records {
		end := len(rec)
		for end > 0 && strings.TrimSpace(rec[end-1]) == "" {
			end--
		}
		records[i] = rec[:end]
	}
	end := len(records)
	for end > 0 && len(records[end-1]) == 0 {
		end--
	}
	return records[:end]
}

// dropLeadingBlankRows skips empty rows above the first used row, so a
// table that starts lower on the sheet still has its own header. Blank
// rows after the header are data and stay.
func dropLeadingBlankRows(records [][]string) [][]string {
	for len(records) > 0 && isBlankRow(records[0]) {
		records = records[1:]
	}
	return records
}

func isBlankRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
