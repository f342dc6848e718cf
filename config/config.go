// Package config resolves dataset locations and per-dataset defaults. Values
// come from built-in defaults, an optional YAML file, and environment
// variable overrides, in that order.
package config

import (
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"eeg-loaders/eeg"
)

// Default sampling rates applied when a source file carries none.
const (
	// DefaultPatientRate is the fallback rate for the patient-wise
	// matrix dataset and the CSV dataset.
	DefaultPatientRate = 256.0
	// DefaultDelhiRate is the fallback rate for the Delhi hospital
	// segment dataset.
	DefaultDelhiRate = 178.0
)

const (
	defaultPatientMatDir = "data/raw/patient_mat"
	defaultCSVDir        = "data/raw/csv_eeg"
	defaultDelhiDir      = "data/raw/delhi_hospital_mat"
	defaultSNMCDir       = "data/raw/patient_wise_mat"
)

// DefaultSeizureTable returns the static seizure mapping for the SNMC and
// patient-wise datasets: subjects 1 and 11 are seizure-positive with
// secondary ids 363 and 1306.
func DefaultSeizureTable() eeg.SeizureTable {
	return eeg.SeizureTable{
		1:  363,
		11: 1306,
	}
}

// BaseDir returns the dataset base directory: EEG_DATA_DIR when set,
// otherwise the current working directory.
func BaseDir() string {
	dir := strings.TrimSpace(os.Getenv("EEG_DATA_DIR"))
	if dir == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return "."
		}
		return cwd
	}
	return expandHome(dir)
}

// PatientMatDir returns the patient-wise matrix dataset directory.
func PatientMatDir() string {
	return resolveDir("EEG_PATIENT_MAT_DIR", defaultPatientMatDir)
}

// CSVDir returns the CSV dataset directory.
func CSVDir() string {
	return resolveDir("EEG_CSV_DIR", defaultCSVDir)
}

// DelhiDir returns the Delhi hospital dataset directory.
func DelhiDir() string {
	return resolveDir("EEG_DELHI_DIR", defaultDelhiDir)
}

// SNMCDir returns the SNMC Excel dataset directory.
func SNMCDir() string {
	return resolveDir("EEG_SNMC_DIR", defaultSNMCDir)
}

func resolveDir(envVar, fallback string) string {
	dir := strings.TrimSpace(os.Getenv(envVar))
	if dir != "" {
		return expandHome(dir)
	}
	return filepath.Join(BaseDir(), filepath.FromSlash(fallback))
}

func expandHome(path string) string {
	if strings.HasPrefix(path, "~") {
		home, err := os.UserHomeDir()
		if err == nil {
			return filepath.Join(home, path[1:])
		}
	}
	return path
}

// Datasets describes an explicit dataset layout, loadable from YAML. Zero
// fields fall back to the environment/default resolution above.
type Datasets struct {
	PatientMatDir   string      `yaml:"patient_mat_dir"`
	CSVDir          string      `yaml:"csv_dir"`
	DelhiDir        string      `yaml:"delhi_dir"`
	SNMCDir         string      `yaml:"snmc_dir"`
	SeizureSubjects map[int]int `yaml:"seizure_subjects"`
}

// Load reads a Datasets configuration from a YAML file.
func Load(path string) (Datasets, error) {
	data, err := os.ReadFile(expandHome(path))
	if err != nil {
		return Datasets{}, err
	}
	var ds Datasets
	if err := yaml.Unmarshal(data, &ds); err != nil {
		return Datasets{}, err
	}
	return ds, nil
}

// Resolve returns the dataset layout after applying defaults, the YAML file
// named by EEG_DATASET_CONFIG (when set), and environment overrides.
func Resolve() (Datasets, error) {
	ds := Datasets{
		PatientMatDir: PatientMatDir(),
		CSVDir:        CSVDir(),
		DelhiDir:      DelhiDir(),
		SNMCDir:       SNMCDir(),
	}

	configPath := strings.TrimSpace(os.Getenv("EEG_DATASET_CONFIG"))
	if configPath != "" {
		loaded, err := Load(configPath)
		if err != nil {
			return Datasets{}, err
		}
		if loaded.PatientMatDir != "" {
			ds.PatientMatDir = expandHome(loaded.PatientMatDir)
		}
		if loaded.CSVDir != "" {
			ds.CSVDir = expandHome(loaded.CSVDir)
		}
		if loaded.DelhiDir != "" {
			ds.DelhiDir = expandHome(loaded.DelhiDir)
		}
		if loaded.SNMCDir != "" {
			ds.SNMCDir = expandHome(loaded.SNMCDir)
		}
		ds.SeizureSubjects = loaded.SeizureSubjects
	}

	return ds, nil
}

// SeizureTable returns the configured seizure table, falling back to the
// built-in default when the configuration names none.
func (d Datasets) SeizureTable() eeg.SeizureTable {
	if len(d.SeizureSubjects) == 0 {
		return DefaultSeizureTable()
	}
	table := make(eeg.SeizureTable, len(d.SeizureSubjects))
	for subject, id := range d.SeizureSubjects {
		table[subject] = id
	}
	return table
}
