// Package patientmat loads the patient-wise matrix dataset: one container
// per patient and filter variant, named like Patient1_alpha.npz.
package patientmat

import (
	"regexp"
	"strconv"
	"strings"

	"eeg-loaders/eeg"
)

// subjectPatterns is the ordered rule list for the subject axis; the first
// match wins. The long form must precede the bare "P<N>" form so that
// "Patient11" is not clipped to "P1...".
var subjectPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)patient(\d+)`),
	regexp.MustCompile(`(?i)p(\d+)`),
}

// Bands is the ordered rule list for the filter-band axis.
var Bands = []string{"alpha", "beta", "gamma", "delta", "theta", "raw", "filtered"}

// Subject extracts the normalized subject identifier ("Patient<N>") from a
// file name. It returns ("", 0) when no pattern matches.
func Subject(name string) (string, int) {
	for _, pattern := range subjectPatterns {
		m := pattern.FindStringSubmatch(name)
		if m == nil {
			continue
		}
		num, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		return "Patient" + m[1], num
	}
	return "", 0
}

// Band extracts the filter-band tag from a file name, or "" when none of
// the known bands appears.
func Band(name string) string {
	lower := strings.ToLower(name)
	for _, band := range Bands {
		if strings.Contains(lower, band) {
			return band
		}
	}
	return ""
}

// Classify derives the identity for one patient-wise file name.
func Classify(name string) eeg.Identity {
	subject, num := Subject(name)
	return eeg.Identity{
		Subject:    subject,
		SubjectNum: num,
		Band:       Band(name),
		Label:      eeg.LabelUnknown,
	}
}
