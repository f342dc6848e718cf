// Package snmc loads the SNMC Excel dataset: patient-wise workbooks named
// Patient<N>_Book<M>.xlsx, each holding multiple sheets of one time column
// plus 16 bipolar EEG channels.
package snmc

import (
	"log"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"eeg-loaders/config"
	"eeg-loaders/eeg"
	"eeg-loaders/workbook"
)

// Pattern is the file glob for this dataset.
const Pattern = "Patient*.xlsx"

// ParseBookName extracts the patient and book numbers from a workbook file
// name like "Patient1_Book3.xlsx". ok is false when the name does not
// follow the convention.
func ParseBookName(name string) (patient, book int, ok bool) {
	stem := strings.TrimSuffix(name, filepath.Ext(name))
	head, tail, found := strings.Cut(stem, "_Book")
	if !found || !strings.HasPrefix(head, "Patient") {
		return 0, 0, false
	}
	patient, err := strconv.Atoi(strings.TrimPrefix(head, "Patient"))
	if err != nil {
		return 0, 0, false
	}
	book, err = strconv.Atoi(tail)
	if err != nil {
		return 0, 0, false
	}
	return patient, book, true
}

// ListBooks groups the workbook paths under root by patient number, each
// list in stable lexical order. A missing root returns an empty grouping.
// Pass "" for the configured default root.
func ListBooks(root string) (map[int][]string, error) {
	if root == "" {
		root = config.SNMCDir()
	}

	entries, _, err := scanBooks(root)
	if err != nil {
		return nil, err
	}

	files := make(map[int][]string)
	for _, e := range entries {
		files[e.patient] = append(files[e.patient], e.path)
	}
	for _, paths := range files {
		sort.Strings(paths)
	}
	return files, nil
}

type bookEntry struct {
	path    string
	patient int
	book    int
}

// scanBooks lists the matching workbooks under root. Files whose names do
// not follow the naming convention come back in skipped.
func scanBooks(root string) (entries []bookEntry, skipped []string, err error) {
	matches, err := filepath.Glob(filepath.Join(root, Pattern))
	if err != nil {
		return nil, nil, err
	}
	sort.Strings(matches)

	for _, path := range matches {
		patient, book, ok := ParseBookName(filepath.Base(path))
		if !ok {
			skipped = append(skipped, filepath.Base(path))
			continue
		}
		entries = append(entries, bookEntry{path: path, patient: patient, book: book})
	}
	return entries, skipped, nil
}

// PatientData is everything loaded for one patient: all requested books
// keyed by book number, plus the seizure status from the static table.
type PatientData struct {
	Patient     int
	HasSeizures bool
	SeizureID   *int
	Books       map[int]*workbook.Book
	TotalSheets int
}

// Loader binds the dataset root, the seizure table, and a logger for
// best-effort bulk operations.
type Loader struct {
	Root   string
	Table  eeg.SeizureTable
	Logger *log.Logger
}

// NewLoader builds a Loader. Zero arguments fall back to the configured
// default root, the default seizure table, and the default logger.
func NewLoader(root string, table eeg.SeizureTable, logger *log.Logger) *Loader {
	if root == "" {
		root = config.SNMCDir()
	}
	if table == nil {
		table = config.DefaultSeizureTable()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Loader{Root: root, Table: table, Logger: logger}
}

// HasSeizures reports the seizure status of a patient from the table.
func (l *Loader) HasSeizures(patient int) bool {
	return l.Table.Positive(patient)
}

// LoadBook loads a single workbook, logging any per-sheet warnings.
func (l *Loader) LoadBook(path string) (*workbook.Book, error) {
	book, err := workbook.Open(path)
	if err != nil {
		return nil, err
	}
	for _, warning := range book.Warnings {
		l.Logger.Printf("%s: %s", filepath.Base(path), warning)
	}
	return book, nil
}

// LoadPatient loads all books for one patient, or only the given book
// numbers. Individual books that fail to load are logged and skipped; the
// patient load fails only when no files exist at all, wrapping
// eeg.ErrNotFound.
func (l *Loader) LoadPatient(patient int, books ...int) (*PatientData, error) {
	entries, skipped, err := scanBooks(l.Root)
	if err != nil {
		return nil, err
	}
	for _, name := range skipped {
		l.Logger.Printf("ignoring %s: unrecognized book name", name)
	}

	wanted := make(map[int]bool, len(books))
	for _, b := range books {
		wanted[b] = true
	}

	var selected []bookEntry
	for _, e := range entries {
		if e.patient != patient {
			continue
		}
		if len(wanted) > 0 && !wanted[e.book] {
			continue
		}
		selected = append(selected, e)
	}
	if len(selected) == 0 {
		return nil, errors.Wrapf(eeg.ErrNotFound, "patient %d under %s", patient, l.Root)
	}

	data := &PatientData{
		Patient:     patient,
		HasSeizures: l.Table.Positive(patient),
		Books:       make(map[int]*workbook.Book, len(selected)),
	}
	if id, ok := l.Table.SecondaryID(patient); ok {
		data.SeizureID = &id
	}

	for _, e := range selected {
		book, err := l.LoadBook(e.path)
		if err != nil {
			l.Logger.Printf("skipping %s: %v", e.path, err)
			continue
		}
		data.Books[e.book] = book
		data.TotalSheets += len(book.Sheets)
	}

	return data, nil
}
