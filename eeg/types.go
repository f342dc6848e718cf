// Package eeg holds the shared data model for the dataset loaders: the
// identity derived from a file name, the canonical metadata record attached
// to a loaded payload, and the seizure lookup table.
package eeg

import "gonum.org/v1/gonum/mat"

// LabelUnknown is returned by clinical-label classification when no rule
// matches. Callers must tolerate it.
const LabelUnknown = "unknown"

// Identity is the set of classification tags derived purely from a file
// name. Fields that could not be derived are left at their zero value,
// except Label which uses LabelUnknown.
type Identity struct {
	// Subject is the normalized subject identifier, e.g. "Patient1".
	// Empty when no subject pattern matched.
	Subject string
	// SubjectNum is the numeric part of Subject, 0 when unknown.
	SubjectNum int
	// Band is the filter-band tag (alpha, beta, ...), empty when absent.
	Band string
	// Label is the clinical label (pre-ictal, interictal, ictal) or
	// LabelUnknown.
	Label string
}

// Metadata is the canonical attribute record attached to a loaded payload.
// Channel and sample counts are always derived from the actual payload
// shape, and DurationSeconds is always recomputed from SamplingRate and
// Samples. Records are constructed fresh per load and never mutated after
// return.
type Metadata struct {
	SamplingRate    float64
	Channels        int
	Samples         int
	DurationSeconds float64
	SourcePath      string
	Filename        string
	Identity        Identity
	HasSeizure      bool
	SeizureID       *int
	ChannelNames    []string
}

// Payload is the primary numeric array extracted from a structured file,
// plus any auxiliary named arrays carried verbatim from the source
// container. Immutable once read.
type Payload struct {
	// Data is the primary matrix, conventionally channels x samples for
	// the matrix-container datasets.
	Data *mat.Dense
	// Extra holds additional 2-D arrays from the container, keyed by
	// their container key, excluding the key the payload came from.
	Extra map[string]*mat.Dense
	// Vectors holds 1-D auxiliary arrays from the container.
	Vectors map[string][]float64
}

// Duration returns the recording duration in seconds for the given sample
// count and sampling rate. A non-positive rate yields zero.
func Duration(samples int, rate float64) float64 {
	if rate <= 0 {
		return 0
	}
	return float64(samples) / rate
}

// SeizureTable maps a subject number to its seizure secondary id. Subjects
// absent from the table are seizure-negative. The table is plain static
// configuration passed into classification, not inferred from files.
type SeizureTable map[int]int

// Positive reports whether the subject is known seizure-positive.
func (t SeizureTable) Positive(subject int) bool {
	_, ok := t[subject]
	return ok
}

// SecondaryID returns the seizure secondary id for the subject. The second
// return value is false for seizure-negative subjects.
func (t SeizureTable) SecondaryID(subject int) (int, bool) {
	id, ok := t[subject]
	return id, ok
}
