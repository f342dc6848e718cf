package workbook

import (
	"archive/zip"
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"

	"eeg-loaders/eeg"
)

// snmcColumns is the standard layout: one time column plus 16 bipolar
// channels.
var snmcColumns = []string{
	"Time",
	"FP2-F4", "F4-C4", "C4-P4", "P4-O2",
	"FP2-F8", "F8-T4", "T4-T6", "T6-O2",
	"FP1-F3", "F3-C3", "C3-P3", "P3-O1",
	"FP1-F7", "F7-T3", "T3-T5", "T5-O1",
}

// writeBook builds a workbook fixture where every sheet has the header
// row, the "(HH-MM-SS)" label row, and dataRows rows of data.
func writeBook(t *testing.T, path string, sheets []string, columns []string, dataRows int) {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	for i, sheet := range sheets {
		if i == 0 {
			if err := f.SetSheetName("Sheet1", sheet); err != nil {
				t.Fatalf("rename sheet: %v", err)
			}
		} else {
			if _, err := f.NewSheet(sheet); err != nil {
				t.Fatalf("new sheet: %v", err)
			}
		}

		header := make([]interface{}, len(columns))
		label := make([]interface{}, len(columns))
		for c, name := range columns {
			header[c] = name
			label[c] = "(HH-MM-SS)"
		}
		if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
			t.Fatalf("set header: %v", err)
		}
		if err := f.SetSheetRow(sheet, "A2", &label); err != nil {
			t.Fatalf("set label row: %v", err)
		}

		for r := 0; r < dataRows; r++ {
			row := make([]interface{}, len(columns))
			for c := range columns {
				if c == 0 {
					row[c] = fmt.Sprintf("00-00-%02d", r%60)
					continue
				}
				row[c] = float64(r*len(columns) + c)
			}
			cell, err := excelize.CoordinatesToCellName(1, r+3)
			if err != nil {
				t.Fatalf("cell name: %v", err)
			}
			if err := f.SetSheetRow(sheet, cell, &row); err != nil {
				t.Fatalf("set data row: %v", err)
			}
		}
	}

	if err := f.SaveAs(path); err != nil {
		t.Fatalf("save workbook: %v", err)
	}
}

func TestOpenSkipsLabelRow(t *testing.T) {
	path := filepath.Join(t.TempDir(), "Patient1_Book1.xlsx")
	writeBook(t, path, []string{"Record1", "Record2"}, snmcColumns, 100)

	book, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}

	if len(book.Sheets) != 2 {
		t.Fatalf("expected 2 sheets, got %d", len(book.Sheets))
	}
	for _, name := range book.SheetNames {
		sheet := book.Sheets[name]
		if len(sheet.Rows) != 100 {
			t.Fatalf("sheet %q: expected 100 data rows, got %d", name, len(sheet.Rows))
		}
		if len(sheet.Columns) != 17 {
			t.Fatalf("sheet %q: expected 17 columns, got %d", name, len(sheet.Columns))
		}
		// The second physical row is dropped regardless of content.
		for _, row := range sheet.Rows {
			if len(row) > 0 && row[0] == "(HH-MM-SS)" {
				t.Fatalf("sheet %q: label row leaked into data", name)
			}
		}
	}
	if len(book.Warnings) != 0 {
		t.Fatalf("expected no warnings, got %v", book.Warnings)
	}
}

func TestOpenWarnsOnShortSheet(t *testing.T) {
	path := filepath.Join(t.TempDir(), "Patient2_Book1.xlsx")
	writeBook(t, path, []string{"Record1"}, []string{"Time", "FP2-F4", "F4-C4"}, 5)

	book, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}

	if len(book.Warnings) != 1 {
		t.Fatalf("expected 1 warning, got %v", book.Warnings)
	}
	// The short sheet is still returned.
	sheet, ok := book.Sheets["Record1"]
	if !ok {
		t.Fatalf("short sheet missing from book")
	}
	if len(sheet.Rows) != 5 {
		t.Fatalf("expected 5 rows, got %d", len(sheet.Rows))
	}
}

// corruptZipMember rewrites the xlsx archive at path, replacing the named
// member with truncated XML.
func corruptZipMember(t *testing.T, path, member string) {
	t.Helper()

	r, err := zip.OpenReader(path)
	if err != nil {
		t.Fatalf("open archive: %v", err)
	}
	defer r.Close()

	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	found := false
	for _, f := range r.File {
		out, err := w.Create(f.Name)
		if err != nil {
			t.Fatalf("create member %q: %v", f.Name, err)
		}
		if f.Name == member {
			found = true
			if _, err := out.Write([]byte("<worksheet")); err != nil {
				t.Fatalf("write corrupt member: %v", err)
			}
			continue
		}
		rc, err := f.Open()
		if err != nil {
			t.Fatalf("open member %q: %v", f.Name, err)
		}
		if _, err := io.Copy(out, rc); err != nil {
			t.Fatalf("copy member %q: %v", f.Name, err)
		}
		rc.Close()
	}
	if !found {
		t.Fatalf("member %q not found in archive", member)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close archive: %v", err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatalf("rewrite archive: %v", err)
	}
}

func TestOpenWarnsOnCorruptSheet(t *testing.T) {
	path := filepath.Join(t.TempDir(), "Patient3_Book1.xlsx")
	writeBook(t, path, []string{"Record1", "Record2"}, snmcColumns, 5)
	corruptZipMember(t, path, "xl/worksheets/sheet2.xml")

	book, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}

	if len(book.Warnings) != 1 {
		t.Fatalf("expected 1 warning, got %v", book.Warnings)
	}
	if !strings.Contains(book.Warnings[0], "Record2") {
		t.Fatalf("expected warning to name the bad sheet, got %q", book.Warnings[0])
	}
	if _, ok := book.Sheets["Record2"]; ok {
		t.Fatalf("corrupt sheet should not be in the book")
	}
	sheet, ok := book.Sheets["Record1"]
	if !ok {
		t.Fatalf("intact sheet missing from book")
	}
	if len(sheet.Rows) != 5 {
		t.Fatalf("expected 5 rows in the intact sheet, got %d", len(sheet.Rows))
	}
}

func TestOpenMissingFile(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "absent.xlsx"))
	if err == nil {
		t.Fatalf("expected error for missing workbook")
	}
	if !errors.Is(err, eeg.ErrNotFound) {
		t.Fatalf("expected eeg.ErrNotFound, got %v", err)
	}
}

func TestSheetInfo(t *testing.T) {
	path := filepath.Join(t.TempDir(), "Patient1_Book1.xlsx")
	writeBook(t, path, []string{"Record1"}, snmcColumns, 100)

	book, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}

	info := book.Sheets["Record1"].Info()
	if info.Rows != 100 {
		t.Fatalf("expected 100 rows, got %d", info.Rows)
	}
	if info.Channels != 16 {
		t.Fatalf("expected 16 channels, got %d", info.Channels)
	}
	if !info.HasTimeColumn {
		t.Fatalf("expected a time column")
	}
	if info.TimeColumn != "Time" {
		t.Fatalf("expected time column %q, got %q", "Time", info.TimeColumn)
	}
}

func TestSheetInfoTimeStampMatchesBothAxes(t *testing.T) {
	// A column named "time-stamp" matches the hyphen heuristic and the
	// time heuristic. Both claims are preserved.
	sheet := &Sheet{
		Name:    "Record1",
		Columns: []string{"time-stamp", "FP2-F4"},
	}

	info := sheet.Info()
	if info.Channels != 2 {
		t.Fatalf("expected the time-stamp column to also count as a channel, got %d channels", info.Channels)
	}
	if !info.HasTimeColumn || info.TimeColumn != "time-stamp" {
		t.Fatalf("expected time-stamp to be the time column, got %q", info.TimeColumn)
	}
}

func TestExtractEEG(t *testing.T) {
	path := filepath.Join(t.TempDir(), "Patient1_Book1.xlsx")
	writeBook(t, path, []string{"Record1", "Record2"}, snmcColumns, 100)

	book, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}

	data := book.Sheets["Record1"].ExtractEEG()
	if len(data.Time) != 100 {
		t.Fatalf("expected time series of length 100, got %d", len(data.Time))
	}
	rows, cols := data.Data.Dims()
	if rows != 100 || cols != 16 {
		t.Fatalf("expected channel frame of shape (100, 16), got (%d, %d)", rows, cols)
	}
	if len(data.Channels) != 16 {
		t.Fatalf("expected 16 channel names, got %d", len(data.Channels))
	}
	if data.Channels[0] != "FP2-F4" {
		t.Fatalf("expected first channel FP2-F4, got %q", data.Channels[0])
	}
}

func TestExtractEEGUnparsableCellsBecomeNaN(t *testing.T) {
	sheet := &Sheet{
		Name:    "Record1",
		Columns: []string{"Time", "FP2-F4"},
		Rows: [][]string{
			{"00-00-00", "1.5"},
			{"00-00-01", "artifact"},
		},
	}

	data := sheet.ExtractEEG()
	if got := data.Data.At(0, 0); got != 1.5 {
		t.Fatalf("expected 1.5, got %v", got)
	}
	if got := data.Data.At(1, 0); !math.IsNaN(got) {
		t.Fatalf("expected NaN for unparsable cell, got %v", got)
	}
}

func TestExtractEEGNoChannels(t *testing.T) {
	sheet := &Sheet{
		Name:    "Notes",
		Columns: []string{"Comment"},
		Rows:    [][]string{{"ok"}},
	}

	data := sheet.ExtractEEG()
	if data.Data != nil {
		t.Fatalf("expected nil frame for a sheet without channel columns")
	}
	if data.Time != nil {
		t.Fatalf("expected nil time series for a sheet without a time column")
	}
}
