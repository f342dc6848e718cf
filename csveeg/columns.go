// Package csveeg loads the CSV dataset: recordings of 14 EEG channels plus
// derived spectral features, one file per recording.
package csveeg

import (
	"regexp"
	"strings"
)

// electrodes is the standard 10-20 electrode vocabulary used to recognize
// channel columns by name.
var electrodes = []string{
	"Fp1", "Fp2", "F3", "F4", "F7", "F8", "Fz",
	"C3", "C4", "Cz", "T3", "T4", "T5", "T6",
	"P3", "P4", "Pz", "O1", "O2", "Oz",
	"A1", "A2", "M1", "M2",
}

var channelPatterns = []*regexp.Regexp{
	regexp.MustCompile(`^ch\d+$`),
	regexp.MustCompile(`^channel[\s_-]*\d+$`),
	regexp.MustCompile(`^eeg[\s_-]*\d+$`),
}

// spectralBands is the ordered band vocabulary for spectral-feature
// columns.
var spectralBands = []string{"delta", "theta", "alpha", "beta", "gamma"}

var spectralKeywords = []string{"power", "amplitude", "energy", "frequency", "psd", "spectral"}

// ChannelColumns returns the column names identified as EEG channels:
// standard electrode names or ch<N>/channel_<N>/eeg_<N> patterns, matched
// case-insensitively.
func ChannelColumns(columns []string) []string {
	var channels []string
	for _, col := range columns {
		lower := strings.ToLower(col)
		if isElectrode(lower) || isChannelPattern(lower) {
			channels = append(channels, col)
		}
	}
	return channels
}

func isElectrode(lower string) bool {
	for _, e := range electrodes {
		if strings.ToLower(e) == lower {
			return true
		}
	}
	return false
}

func isChannelPattern(lower string) bool {
	for _, p := range channelPatterns {
		if p.MatchString(lower) {
			return true
		}
	}
	return false
}

// SpectralColumns groups spectral-feature columns by frequency band. A
// column naming a band lands in that band's bucket; otherwise a column
// naming a spectral keyword (power, psd, ...) lands under "other". Empty
// buckets are omitted.
func SpectralColumns(columns []string) map[string][]string {
	groups := make(map[string][]string)
	for _, col := range columns {
		lower := strings.ToLower(col)

		matched := false
		for _, band := range spectralBands {
			if strings.Contains(lower, band) {
				groups[band] = append(groups[band], col)
				matched = true
				break
			}
		}
		if matched {
			continue
		}
		for _, keyword := range spectralKeywords {
			if strings.Contains(lower, keyword) {
				groups["other"] = append(groups["other"], col)
				break
			}
		}
	}
	return groups
}
