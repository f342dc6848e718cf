package matrix

import (
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"

	"eeg-loaders/eeg"
)

// DefaultPayloadKeys is the conventional priority order for locating the
// primary payload array.
var DefaultPayloadKeys = []string{"data", "eeg", "signal"}

// RateKeys is the alias priority order for the sampling-rate field.
var RateKeys = []string{"sampling_rate", "fs", "srate", "freq", "frequency"}

// LabelKeys is the alias priority order for the channel-label field.
var LabelKeys = []string{"labels", "channels", "channel_names"}

// FallbackPolicy picks a payload when no priority key matched. It returns
// the chosen key and matrix, or false when it has no candidate.
type FallbackPolicy func(c *Container) (string, *mat.Dense, bool)

// LargestMatrix is the fallback that picks the 2-D array with the most
// elements, scanning keys in archive order so ties resolve stably.
func LargestMatrix(c *Container) (string, *mat.Dense, bool) {
	var (
		bestKey  string
		best     *mat.Dense
		bestSize int
	)
	for _, key := range c.Keys {
		m := c.Matrices[key]
		rows, cols := m.Dims()
		if size := rows * cols; best == nil || size > bestSize {
			bestKey, best, bestSize = key, m, size
		}
	}
	if best == nil {
		return "", nil, false
	}
	return bestKey, best, true
}

// SoleKey is the fallback that accepts the single remaining key when the
// container holds exactly one decoded array, composed with LargestMatrix
// for the multi-key case.
func SoleKey(c *Container) (string, *mat.Dense, bool) {
	if len(c.Keys) == 1 && len(c.Vectors) == 0 {
		key := c.Keys[0]
		return key, c.Matrices[key], true
	}
	return LargestMatrix(c)
}

// Payload locates the primary payload: the first priority key present, then
// whatever the fallback policy picks. It returns the key the payload was
// found under. When nothing qualifies the error wraps eeg.ErrNoPayload.
func (c *Container) Payload(priority []string, fallback FallbackPolicy) (string, *mat.Dense, error) {
	for _, key := range priority {
		if m, ok := c.Matrices[key]; ok {
			return key, m, nil
		}
	}
	if fallback != nil {
		if key, m, ok := fallback(c); ok {
			return key, m, nil
		}
	}
	return "", nil, errors.Wrapf(eeg.ErrNoPayload, "container %s", c.Path)
}

// SamplingRate scans the rate aliases and returns the first value found,
// or fallback when the container declares none.
func (c *Container) SamplingRate(fallback float64) float64 {
	for _, key := range RateKeys {
		if vec, ok := c.Vectors[key]; ok && len(vec) > 0 {
			return vec[0]
		}
		if m, ok := c.Matrices[key]; ok {
			if rows, cols := m.Dims(); rows > 0 && cols > 0 {
				return m.At(0, 0)
			}
		}
	}
	return fallback
}

// ChannelLabels scans the label aliases and returns the first numeric label
// vector found. String label arrays cannot be decoded and end up in
// Skipped; they report false here.
func (c *Container) ChannelLabels() ([]float64, bool) {
	for _, key := range LabelKeys {
		if vec, ok := c.Vectors[key]; ok {
			return vec, true
		}
	}
	return nil, false
}

// Extras returns the 2-D arrays other than the payload key, preserving the
// container's key order in the iteration-independent map.
func (c *Container) Extras(payloadKey string) map[string]*mat.Dense {
	extras := make(map[string]*mat.Dense)
	for _, key := range c.Keys {
		if key == payloadKey {
			continue
		}
		extras[key] = c.Matrices[key]
	}
	return extras
}
