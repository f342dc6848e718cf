// Package workbook reads multi-sheet Excel workbooks in the SNMC layout:
// row 0 carries the column headers, physical row 1 carries a unit label and
// is always discarded, data starts at row 2.
package workbook

import (
	"fmt"
	"os"

	"github.com/pkg/errors"
	"github.com/xuri/excelize/v2"

	"eeg-loaders/eeg"
)

// MinColumns is the expected minimum column count per sheet: one time
// column plus 16 bipolar channels. Narrower sheets load with a warning.
const MinColumns = 17

// Sheet is one loaded worksheet. Rows holds raw cell strings with the
// header and the discarded label row already removed.
type Sheet struct {
	Name    string
	Columns []string
	Rows    [][]string
}

// Book is one loaded workbook. Sheets that failed to parse are absent and
// reported in Warnings; the rest of the book still loads.
type Book struct {
	Path       string
	SheetNames []string
	Sheets     map[string]*Sheet
	Warnings   []string
}

// Open loads every sheet of the workbook at path. A missing file yields
// eeg.ErrNotFound; an unreadable workbook yields a wrapped load failure
// carrying the path and original cause. Structural anomalies (short or
// unparsable sheets) are non-fatal and land in Book.Warnings.
func Open(path string) (*Book, error) {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrapf(eeg.ErrNotFound, "workbook %s", path)
		}
		return nil, errors.Wrapf(err, "stat workbook %s", path)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "open workbook %s", path)
	}
	defer f.Close()

	book := &Book{
		Path:   path,
		Sheets: make(map[string]*Sheet),
	}

	for _, name := range f.GetSheetList() {
		rows, err := f.GetRows(name)
		if err != nil {
			book.Warnings = append(book.Warnings,
				fmt.Sprintf("sheet %q: %v", name, err))
			continue
		}

		sheet := &Sheet{Name: name}
		if len(rows) > 0 {
			sheet.Columns = rows[0]
		}
		// Row 1 is the "(HH-MM-SS)" label row, dropped regardless of
		// content.
		if len(rows) > 2 {
			sheet.Rows = rows[2:]
		}

		if len(sheet.Columns) < MinColumns {
			book.Warnings = append(book.Warnings,
				fmt.Sprintf("sheet %q has only %d columns", name, len(sheet.Columns)))
		}

		book.SheetNames = append(book.SheetNames, name)
		book.Sheets[name] = sheet
	}

	return book, nil
}
