package csveeg

import (
	"encoding/csv"
	"log"
	"math"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"

	"eeg-loaders/config"
	"eeg-loaders/eeg"
)

// fallbackChannelCount is how many numeric columns are assumed to be
// channels when no column name matches the channel vocabulary.
const fallbackChannelCount = 14

var filenameRate = regexp.MustCompile(`(\d+)hz`)

// Recording is one loaded CSV file.
type Recording struct {
	// Columns preserves the header order of the source file.
	Columns []string
	// Rows holds the raw records, header excluded.
	Rows [][]string
	// Channels is the channel frame, samples x channels, nil when no
	// channel columns were found.
	Channels *mat.Dense
	// Spectral is the spectral-feature frame, nil when the file carries
	// none.
	Spectral *mat.Dense
	// SpectralNames lists the spectral columns in band order.
	SpectralNames []string
	// SpectralGroups maps each band to its columns.
	SpectralGroups map[string][]string
	Metadata       eeg.Metadata
	// Sources lists every file that contributed rows; one entry except
	// after Concat.
	Sources []string
}

// Summary returns basic statistics over the channel frame.
func (r *Recording) Summary() eeg.Summary {
	return eeg.Summarize(r.Channels)
}

// List returns the CSV files under root in stable lexical order. A missing
// root returns an empty list. Pass "" for the configured default root.
func List(root string) ([]string, error) {
	if root == "" {
		root = config.CSVDir()
	}
	matches, err := filepath.Glob(filepath.Join(root, "*.csv"))
	if err != nil {
		return nil, err
	}
	sort.Strings(matches)
	return matches, nil
}

// Load reads one CSV recording. Channel columns are found by name, falling
// back to the first numeric columns; the sampling rate is inferred from a
// time column, then a "<N>hz" filename tag, then the dataset default.
// Errors wrap eeg.ErrNotFound for a missing file and eeg.ErrEmptyTable for
// a file without data rows.
func Load(path string) (*Recording, error) {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrapf(eeg.ErrNotFound, "csv %s", path)
		}
		return nil, errors.Wrapf(err, "stat csv %s", path)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "open csv %s", path)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	if err != nil {
		return nil, errors.Wrapf(err, "parse csv %s", path)
	}
	if len(records) < 2 {
		return nil, errors.Wrapf(eeg.ErrEmptyTable, "csv %s", path)
	}

	columns := records[0]
	rows := records[1:]

	channelCols := ChannelColumns(columns)
	if len(channelCols) == 0 {
		channelCols = fallbackNumericColumns(columns, rows)
	}

	spectralGroups := SpectralColumns(columns)
	var spectralCols []string
	for _, band := range append(append([]string{}, spectralBands...), "other") {
		spectralCols = append(spectralCols, spectralGroups[band]...)
	}

	rate := inferSamplingRate(path, columns, rows)

	rec := &Recording{
		Columns:        columns,
		Rows:           rows,
		Channels:       extract(columns, rows, channelCols),
		Spectral:       extract(columns, rows, spectralCols),
		SpectralNames:  spectralCols,
		SpectralGroups: spectralGroups,
		Sources:        []string{path},
		Metadata: eeg.Metadata{
			SamplingRate:    rate,
			Channels:        len(channelCols),
			Samples:         len(rows),
			DurationSeconds: eeg.Duration(len(rows), rate),
			SourcePath:      path,
			Filename:        filepath.Base(path),
			Identity:        eeg.Identity{Label: eeg.LabelUnknown},
			ChannelNames:    channelCols,
		},
	}
	return rec, nil
}

// LoadMany loads up to max files best-effort: a file that is missing or
// fails to parse is logged and skipped. max <= 0 loads all. A nil logger
// falls back to the default logger.
func LoadMany(paths []string, max int, logger *log.Logger) []*Recording {
	if logger == nil {
		logger = log.Default()
	}
	if max > 0 && len(paths) > max {
		paths = paths[:max]
	}

	out := make([]*Recording, 0, len(paths))
	for _, path := range paths {
		rec, err := Load(path)
		if err != nil {
			logger.Printf("skipping %s: %v", path, err)
			continue
		}
		out = append(out, rec)
	}
	return out
}

// Concat stacks multiple recordings into one. All inputs must share the
// same channel and spectral columns; the duration is recomputed from the
// combined sample count.
func Concat(recs []*Recording) (*Recording, error) {
	if len(recs) == 0 {
		return nil, errors.Wrap(eeg.ErrEmptyTable, "nothing to concatenate")
	}

	first := recs[0]
	for i, rec := range recs[1:] {
		if !equalStrings(rec.Metadata.ChannelNames, first.Metadata.ChannelNames) {
			return nil, errors.Wrapf(eeg.ErrChannelMismatch,
				"file 0 has %v, file %d has %v",
				first.Metadata.ChannelNames, i+1, rec.Metadata.ChannelNames)
		}
		if !equalStrings(rec.SpectralNames, first.SpectralNames) {
			return nil, errors.Wrapf(eeg.ErrChannelMismatch,
				"file 0 has spectral columns %v, file %d has %v",
				first.SpectralNames, i+1, rec.SpectralNames)
		}
	}

	combined := &Recording{
		Columns:        first.Columns,
		SpectralNames:  first.SpectralNames,
		SpectralGroups: first.SpectralGroups,
		Metadata:       first.Metadata,
	}
	for _, rec := range recs {
		combined.Rows = append(combined.Rows, rec.Rows...)
		combined.Sources = append(combined.Sources, rec.Sources...)
	}
	combined.Channels = vstack(collectChannels(recs))
	combined.Spectral = vstack(collectSpectral(recs))

	combined.Metadata.Samples = len(combined.Rows)
	combined.Metadata.DurationSeconds = eeg.Duration(len(combined.Rows), first.Metadata.SamplingRate)
	return combined, nil
}

func collectChannels(recs []*Recording) []*mat.Dense {
	var out []*mat.Dense
	for _, rec := range recs {
		if rec.Channels != nil {
			out = append(out, rec.Channels)
		}
	}
	return out
}

func collectSpectral(recs []*Recording) []*mat.Dense {
	var out []*mat.Dense
	for _, rec := range recs {
		if rec.Spectral != nil {
			out = append(out, rec.Spectral)
		}
	}
	return out
}

func vstack(blocks []*mat.Dense) *mat.Dense {
	if len(blocks) == 0 {
		return nil
	}
	total := 0
	_, cols := blocks[0].Dims()
	for _, b := range blocks {
		r, _ := b.Dims()
		total += r
	}
	out := mat.NewDense(total, cols, nil)
	offset := 0
	for _, b := range blocks {
		r, _ := b.Dims()
		for i := 0; i < r; i++ {
			out.SetRow(offset+i, b.RawRowView(i))
		}
		offset += r
	}
	return out
}

func extract(columns []string, rows [][]string, wanted []string) *mat.Dense {
	if len(wanted) == 0 || len(rows) == 0 {
		return nil
	}

	idx := make([]int, 0, len(wanted))
	for _, name := range wanted {
		for i, col := range columns {
			if col == name {
				idx = append(idx, i)
				break
			}
		}
	}
	if len(idx) == 0 {
		return nil
	}

	out := mat.NewDense(len(rows), len(idx), nil)
	for r, row := range rows {
		for c, i := range idx {
			out.Set(r, c, parseField(row, i))
		}
	}
	return out
}

func fallbackNumericColumns(columns []string, rows [][]string) []string {
	var numeric []string
	for i, col := range columns {
		if _, err := strconv.ParseFloat(strings.TrimSpace(field(rows[0], i)), 64); err == nil {
			numeric = append(numeric, col)
		}
	}
	if len(numeric) >= fallbackChannelCount {
		return numeric[:fallbackChannelCount]
	}
	return numeric
}

func inferSamplingRate(path string, columns []string, rows [][]string) float64 {
	timeIdx := -1
	for i, col := range columns {
		lower := strings.ToLower(col)
		if strings.Contains(lower, "time") || strings.Contains(lower, "timestamp") {
			timeIdx = i
			break
		}
	}
	if timeIdx >= 0 && len(rows) > 1 {
		t0, err0 := strconv.ParseFloat(strings.TrimSpace(field(rows[0], timeIdx)), 64)
		t1, err1 := strconv.ParseFloat(strings.TrimSpace(field(rows[1], timeIdx)), 64)
		if err0 == nil && err1 == nil && t1-t0 > 0 {
			return 1.0 / (t1 - t0)
		}
	}

	if m := filenameRate.FindStringSubmatch(strings.ToLower(filepath.Base(path))); m != nil {
		if rate, err := strconv.ParseFloat(m[1], 64); err == nil {
			return rate
		}
	}

	return config.DefaultPatientRate
}

func field(row []string, idx int) string {
	if idx < len(row) {
		return row[idx]
	}
	return ""
}

func parseField(row []string, idx int) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(field(row, idx)), 64)
	if err != nil {
		return math.NaN()
	}
	return v
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
