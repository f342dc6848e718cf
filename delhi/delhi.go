// Package delhi loads the Delhi hospital dataset: pre-segmented matrix
// files whose clinical label (pre-ictal, interictal, ictal) is carried in
// the file name.
package delhi

import (
	"log"
	"path/filepath"
	"strings"

	"eeg-loaders/config"
	"eeg-loaders/eeg"
	"eeg-loaders/matrix"
	"eeg-loaders/scan"
)

// Clinical labels for recorded segments.
const (
	LabelPreIctal   = "pre-ictal"
	LabelInterictal = "interictal"
	LabelIctal      = "ictal"
)

// Pattern is the extension glob for this dataset.
const Pattern = "*.npz"

// labelRules is the ordered rule list for the label axis. The pre-ictal
// spellings must be checked before the bare "ictal" substring, which they
// contain.
var labelRules = []struct {
	label      string
	substrings []string
}{
	{LabelPreIctal, []string{"preictal", "pre_ictal", "pre-ictal"}},
	{LabelInterictal, []string{"interictal", "inter-ictal"}},
	{LabelIctal, []string{"ictal"}},
}

// ClassifyLabel maps a file name to its clinical label, or
// eeg.LabelUnknown when no rule matches. Matching is case-insensitive,
// first rule wins.
func ClassifyLabel(name string) string {
	lower := strings.ToLower(name)
	for _, rule := range labelRules {
		for _, sub := range rule.substrings {
			if strings.Contains(lower, sub) {
				return rule.label
			}
		}
	}
	return eeg.LabelUnknown
}

// Classify derives the identity for one segment file name.
func Classify(name string) eeg.Identity {
	return eeg.Identity{Label: ClassifyLabel(name)}
}

// List buckets the segment files under root by clinical label. All three
// label keys are always present, so a missing root yields an
// empty-but-well-formed grouping. Files with an unknown label are skipped.
// Pass "" for the configured default root.
func List(root string) (map[string][]string, error) {
	if root == "" {
		root = config.DelhiDir()
	}

	files := map[string][]string{
		LabelPreIctal:   {},
		LabelInterictal: {},
		LabelIctal:      {},
	}

	entries, err := scan.Dir(root, Pattern, Classify)
	if err != nil {
		return nil, err
	}
	for _, entry := range entries {
		if _, ok := files[entry.Identity.Label]; ok {
			files[entry.Identity.Label] = append(files[entry.Identity.Label], entry.Path)
		}
	}
	return files, nil
}

// Segment is one loaded labeled recording.
type Segment struct {
	Payload  eeg.Payload
	Metadata eeg.Metadata
}

// Summary returns basic statistics over the payload matrix.
func (s *Segment) Summary() eeg.Summary {
	return eeg.Summarize(s.Payload.Data)
}

// LoadSegment reads one segment file. The payload is located by the
// conventional key names, then the sole remaining key, then the largest
// 2-D array. Errors wrap eeg.ErrNotFound or eeg.ErrNoPayload.
func LoadSegment(path string) (*Segment, error) {
	container, err := matrix.Open(path)
	if err != nil {
		return nil, err
	}

	payloadKey, data, err := container.Payload(matrix.DefaultPayloadKeys, matrix.SoleKey)
	if err != nil {
		return nil, err
	}

	rate := container.SamplingRate(config.DefaultDelhiRate)
	channels, samples := data.Dims()
	name := filepath.Base(path)

	return &Segment{
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
			SourcePath:      path,
			Filename:        name,
			Identity:        Classify(name),
		},
	}, nil
}

// LoadSegments loads up to max segments best-effort: a file that is
// missing or fails to parse is logged and skipped. max <= 0 loads all.
// A nil logger falls back to the default logger.
func LoadSegments(paths []string, max int, logger *log.Logger) []*Segment {
	if logger == nil {
		logger = log.Default()
	}
	if max > 0 && len(paths) > max {
		paths = paths[:max]
	}

	segments := make([]*Segment, 0, len(paths))
	for _, path := range paths {
		segment, err := LoadSegment(path)
		if err != nil {
			logger.Printf("skipping %s: %v", path, err)
			continue
		}
		segments = append(segments, segment)
	}
	return segments
}
