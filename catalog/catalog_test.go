package catalog

import (
	"io"
	"log"
	"os"
	"path/filepath"
	"testing"
	"time"

	"eeg-loaders/delhi"
	"eeg-loaders/scan"
)

func labelAxis(e scan.Entry) string {
	return e.Identity.Label
}

func newTestCatalog(t *testing.T, root string) *Catalog {
	t.Helper()

	logger := log.New(io.Discard, "", 0)
	c, err := New(root, "*.npz", delhi.Classify, labelAxis, 10*time.Millisecond, logger)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(func() {
		if err := c.Close(); err != nil {
			t.Fatalf("Close: %v", err)
		}
	})
	return c
}

func TestCatalogWatchesAndRefreshes(t *testing.T) {
	root := t.TempDir()
	initial := filepath.Join(root, "ictal_01.npz")
	if err := os.WriteFile(initial, []byte("one"), 0o644); err != nil {
		t.Fatalf("write initial file: %v", err)
	}

	c := newTestCatalog(t, root)
	waitFor(t, func() bool { return c.Len() == 1 }, "initial scan")

	second := filepath.Join(root, "preictal_01.npz")
	if err := os.WriteFile(second, []byte("two"), 0o644); err != nil {
		t.Fatalf("write second file: %v", err)
	}
	waitFor(t, func() bool { return c.Len() == 2 }, "detect second file")

	groups := c.Groups()
	if len(groups[delhi.LabelIctal]) != 1 || len(groups[delhi.LabelPreIctal]) != 1 {
		t.Fatalf("unexpected grouping: %v", groups)
	}

	if err := os.Remove(initial); err != nil {
		t.Fatalf("remove file: %v", err)
	}
	waitFor(t, func() bool { return c.Len() == 1 }, "reflect removal")
}

func TestCatalogGroupsReturnsCopy(t *testing.T) {
	root := t.TempDir()
	if err := os.WriteFile(filepath.Join(root, "interictal_01.npz"), []byte("x"), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}

	c := newTestCatalog(t, root)
	waitFor(t, func() bool { return c.Len() == 1 }, "initial scan")

	groups := c.Groups()
	groups[delhi.LabelInterictal][0].Name = "mutated"
	if c.Groups()[delhi.LabelInterictal][0].Name == "mutated" {
		t.Fatalf("expected Groups to return a defensive copy")
	}
}

func TestCatalogIgnoresOtherExtensions(t *testing.T) {
	root := t.TempDir()
	if err := os.WriteFile(filepath.Join(root, "notes.txt"), []byte("text"), 0o644); err != nil {
		t.Fatalf("write txt: %v", err)
	}
	if err := os.WriteFile(filepath.Join(root, "ictal_01.npz"), []byte("x"), 0o644); err != nil {
		t.Fatalf("write npz: %v", err)
	}

	c := newTestCatalog(t, root)
	waitFor(t, func() bool { return c.Len() == 1 }, "initial scan")

	// Another non-matching file should not change the count.
	if err := os.WriteFile(filepath.Join(root, "readme.md"), []byte("doc"), 0o644); err != nil {
		t.Fatalf("write md: %v", err)
	}
	time.Sleep(100 * time.Millisecond)

	if c.Len() != 1 {
		t.Fatalf("expected still 1 file, got %d", c.Len())
	}
}

func TestCatalogMissingRootStartsEmpty(t *testing.T) {
	root := filepath.Join(t.TempDir(), "not-created-yet")

	c := newTestCatalog(t, root)
	if c.Len() != 0 {
		t.Fatalf("expected empty catalog for missing root, got %d", c.Len())
	}
}

func waitFor(t *testing.T, predicate func() bool, label string) {
	t.Helper()
	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		if predicate() {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("timeout waiting for %s", label)
}
