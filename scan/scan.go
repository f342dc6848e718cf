// Package scan enumerates dataset files under a root directory, classifies
// each by name, and groups the results. Scanning the same directory twice
// yields identical groupings and ordering.
package scan

import (
	"os"
	"path/filepath"
	"sort"

	"eeg-loaders/eeg"
)

// Entry is one candidate file found under a dataset root.
type Entry struct {
	Path     string
	Name     string
	Identity eeg.Identity
}

// Classifier maps a file name to its identity.
type Classifier func(name string) eeg.Identity

// Dir enumerates files under root matching the extension glob pattern and
// classifies each. A missing root is "no data available yet": it returns an
// empty result, not an error. Entries come back in stable lexical order.
func Dir(root, pattern string, classify Classifier) ([]Entry, error) {
	if _, err := os.Stat(root); err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	matches, err := filepath.Glob(filepath.Join(root, pattern))
	if err != nil {
		return nil, err
	}
	sort.Strings(matches)

	entries := make([]Entry, 0, len(matches))
	for _, path := range matches {
		name := filepath.Base(path)
		var identity eeg.Identity
		if classify != nil {
			identity = classify(name)
		}
		entries = append(entries, Entry{
			Path:     path,
			Name:     name,
			Identity: identity,
		})
	}
	return entries, nil
}

// GroupBy buckets entries by the given identity axis, keeping each bucket
// in stable lexical order by file name. Entries whose key is empty are
// dropped.
func GroupBy(entries []Entry, key func(Entry) string) map[string][]Entry {
	groups := make(map[string][]Entry)
	for _, entry := range entries {
		k := key(entry)
		if k == "" {
			continue
		}
		groups[k] = append(groups[k], entry)
	}
	for _, group := range groups {
		sort.SliceStable(group, func(i, j int) bool {
			return group[i].Name < group[j].Name
		})
	}
	return groups
}
