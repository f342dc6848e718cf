package patientmat

import (
	"log"
	"strings"

	"github.com/pkg/errors"

	"eeg-loaders/config"
	"eeg-loaders/eeg"
	"eeg-loaders/matrix"
	"eeg-loaders/scan"
)

// Pattern is the extension glob for this dataset.
const Pattern = "*.npz"

// List groups the container files under root by subject. Files whose name
// yields no subject are ignored. A missing root returns an empty grouping.
// Pass "" for the configured default root.
func List(root string) (map[string][]scan.Entry, error) {
	if root == "" {
		root = config.PatientMatDir()
	}
	entries, err := scan.Dir(root, Pattern, Classify)
	if err != nil {
		return nil, err
	}
	return scan.GroupBy(entries, func(e scan.Entry) string {
		return e.Identity.Subject
	}), nil
}

// Recording is one loaded patient file: the payload plus its canonical
// metadata.
type Recording struct {
	Payload  eeg.Payload
	Metadata eeg.Metadata
	// AvailableBands lists the filter variants present for the subject
	// at load time, in file order.
	AvailableBands []string
}

// Summary returns basic statistics over the payload matrix.
func (r *Recording) Summary() eeg.Summary {
	return eeg.Summarize(r.Payload.Data)
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
		root = config.PatientMatDir()
	}
	if table == nil {
		table = config.DefaultSeizureTable()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Loader{Root: root, Table: table, Logger: logger}
}

// Find returns the path of the first file for the subject, optionally
// restricted to a filter band. The second return value is false when the
// dataset holds no such file; absence is not an error here.
func (l *Loader) Find(subject, band string) (string, bool) {
	matches, _ := l.matches(subject, band)
	if len(matches) == 0 {
		return "", false
	}
	return matches[0].Path, true
}

// Load reads the first matching file for the subject. band "" means the
// first available variant. The error wraps eeg.ErrNotFound when the
// subject (or the requested band) is absent.
func (l *Loader) Load(subject, band string) (*Recording, error) {
	matches, err := l.matches(subject, band)
	if err != nil {
		return nil, err
	}
	if len(matches) == 0 {
		if band != "" {
			return nil, errors.Wrapf(eeg.ErrNotFound, "subject %s band %s under %s", subject, band, l.Root)
		}
		return nil, errors.Wrapf(eeg.ErrNotFound, "subject %s under %s", subject, l.Root)
	}

	chosen := matches[0]
	container, err := matrix.Open(chosen.Path)
	if err != nil {
		return nil, err
	}

	payloadKey, data, err := container.Payload(matrix.DefaultPayloadKeys, matrix.LargestMatrix)
	if err != nil {
		return nil, err
	}

	rate := container.SamplingRate(config.DefaultPatientRate)
	channels, samples := data.Dims()

	rec := &Recording{
		Payload: eeg.Payload{
			Data:    data,
			Extra:   container.Extras(payloadKey),
			Vectors: container.Vectors,
		},
		Metadata: eeg.Metadata{
			SamplingRate:    rate,
			Channels:        channels,
			Samples:         samples,
			DurationSeconds: eeg.Duration(samples, rate),
			SourcePath:      chosen.Path,
			Filename:        chosen.Name,
			Identity:        chosen.Identity,
		},
	}
	for _, m := range matches {
		rec.AvailableBands = append(rec.AvailableBands, m.Identity.Band)
	}

	if l.Table.Positive(chosen.Identity.SubjectNum) {
		rec.Metadata.HasSeizure = true
		if id, ok := l.Table.SecondaryID(chosen.Identity.SubjectNum); ok {
			rec.Metadata.SeizureID = &id
		}
	}

	return rec, nil
}

// LoadMany loads a batch of subjects best-effort: a subject that is missing
// or fails to parse is logged and skipped, never aborting the batch.
func (l *Loader) LoadMany(subjects []string, band string) map[string]*Recording {
	out := make(map[string]*Recording, len(subjects))
	for _, subject := range subjects {
		rec, err := l.Load(subject, band)
		if err != nil {
			l.Logger.Printf("skipping %s: %v", subject, err)
			continue
		}
		out[subject] = rec
	}
	return out
}

func (l *Loader) matches(subject, band string) ([]scan.Entry, error) {
	entries, err := scan.Dir(l.Root, Pattern, Classify)
	if err != nil {
		return nil, err
	}
	var matches []scan.Entry
	for _, entry := range entries {
		if entry.Identity.Subject == "" {
			continue
		}
		if !strings.EqualFold(entry.Identity.Subject, subject) {
			continue
		}
		if band != "" && entry.Identity.Band != strings.ToLower(band) {
			continue
		}
		matches = append(matches, entry)
	}
	return matches, nil
}
