// Package matrix reads scientific matrix containers: NPZ archives mapping
// keys to numeric arrays. It strips housekeeping keys, locates the primary
// payload through an ordered candidate list with an explicit fallback
// policy, and scans the remaining keys for sampling-rate and channel-label
// fields.
package matrix

import (
	"archive/zip"
	"os"
	"strings"

	"github.com/pkg/errors"
	"github.com/sbinet/npyio"
	"gonum.org/v1/gonum/mat"

	"eeg-loaders/eeg"
)

// housekeepingPrefix marks container-internal keys that carry no data.
const housekeepingPrefix = "__"

// Container is the decoded content of one matrix file. Keys preserve the
// archive order of the members they index.
type Container struct {
	Path string
	// Keys lists decoded matrix keys in archive order.
	Keys []string
	// Matrices holds the 2-D arrays by key.
	Matrices map[string]*mat.Dense
	// Vectors holds the 1-D numeric arrays by key.
	Vectors map[string][]float64
	// Skipped lists keys whose members could not be decoded as numeric
	// arrays. Non-fatal; the rest of the container is still usable.
	Skipped []string
}

// Open reads the container at path. A missing file yields eeg.ErrNotFound;
// an unreadable archive yields a wrapped load failure carrying the path and
// original cause.
func Open(path string) (*Container, error) {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrapf(eeg.ErrNotFound, "container %s", path)
		}
		return nil, errors.Wrapf(err, "stat container %s", path)
	}

	archive, err := zip.OpenReader(path)
	if err != nil {
		return nil, errors.Wrapf(err, "open container %s", path)
	}
	defer archive.Close()

	c := &Container{
		Path:     path,
		Matrices: make(map[string]*mat.Dense),
		Vectors:  make(map[string][]float64),
	}

	for _, member := range archive.File {
		key := normalizeKey(member.Name)
		if key == "" || strings.HasPrefix(key, housekeepingPrefix) {
			continue
		}
		if err := c.readMember(key, member); err != nil {
			c.Skipped = append(c.Skipped, key)
		}
	}

	return c, nil
}

// readMember decodes one archive member, splitting on the declared rank:
// rank-2 arrays are matrices and payload candidates, rank-0/1 arrays are
// auxiliary vectors (sampling rates, label indices).
func (c *Container) readMember(key string, member *zip.File) error {
	f, err := member.Open()
	if err != nil {
		return err
	}
	defer f.Close()

	r, err := npyio.NewReader(f)
	if err != nil {
		return err
	}

	switch len(r.Header.Descr.Shape) {
	case 2:
		var dense mat.Dense
		if err := r.Read(&dense); err != nil {
			return err
		}
		c.Matrices[key] = &dense
		c.Keys = append(c.Keys, key)
	case 0, 1:
		var vec []float64
		if err := r.Read(&vec); err != nil {
			return err
		}
		c.Vectors[key] = vec
	default:
		return errors.Errorf("unsupported rank %d for key %s", len(r.Header.Descr.Shape), key)
	}
	return nil
}

func normalizeKey(name string) string {
	key := strings.TrimSuffix(name, ".npy")
	return strings.TrimSpace(key)
}
