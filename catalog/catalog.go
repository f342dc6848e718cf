// Package catalog keeps a live grouped inventory of a dataset root. The
// core loaders are pure per-call functions; a Catalog layers a filesystem
// watcher on top for callers who want the grouping kept current without
// rescanning on every access.
package catalog

import (
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"eeg-loaders/scan"
)

// Axis extracts the grouping key for an entry, e.g. its subject or its
// clinical label. Entries with an empty key are dropped from the grouping.
type Axis func(scan.Entry) string

// Catalog watches a dataset root and keeps an in-memory grouped snapshot
// of the classified files under it.
type Catalog struct {
	root     string
	pattern  string
	classify scan.Classifier
	axis     Axis
	watcher  *fsnotify.Watcher
	logger   *log.Logger

	mu     sync.RWMutex
	groups map[string][]scan.Entry

	refreshMu    sync.Mutex
	refreshTimer *time.Timer
	refreshDelay time.Duration

	done      chan struct{}
	wg        sync.WaitGroup
	closeOnce sync.Once
	closeErr  error
}

// New creates a Catalog over root and starts watching it. pattern is the
// file glob (e.g. "*.npz"), classify derives each entry's identity, and
// axis picks the grouping key. A root that does not exist yields an empty
// catalog that stays empty: watching is registered at creation, so the
// root must exist before New for later changes to be picked up.
func New(root, pattern string, classify scan.Classifier, axis Axis, debounce time.Duration, logger *log.Logger) (*Catalog, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	if logger == nil {
		logger = log.Default()
	}

	c := &Catalog{
		root:         root,
		pattern:      pattern,
		classify:     classify,
		axis:         axis,
		watcher:      watcher,
		logger:       logger,
		refreshDelay: debounce,
		done:         make(chan struct{}),
	}

	c.addWatchRecursive(root)

	if err := c.refresh(); err != nil {
		watcher.Close()
		return nil, err
	}

	c.wg.Add(1)
	go c.run()

	return c, nil
}

// Close stops the watcher and cleans up resources.
func (c *Catalog) Close() error {
	c.closeOnce.Do(func() {
		close(c.done)

		c.refreshMu.Lock()
		if c.refreshTimer != nil {
			c.refreshTimer.Stop()
			c.refreshTimer = nil
		}
		c.refreshMu.Unlock()

		c.closeErr = c.watcher.Close()
		c.wg.Wait()
	})
	return c.closeErr
}

// Groups returns a snapshot of the current grouping. The result is a deep
// copy; mutating it does not affect the catalog.
func (c *Catalog) Groups() map[string][]scan.Entry {
	c.mu.RLock()
	defer c.mu.RUnlock()

	result := make(map[string][]scan.Entry, len(c.groups))
	for key, entries := range c.groups {
		copied := make([]scan.Entry, len(entries))
		copy(copied, entries)
		result[key] = copied
	}
	return result
}

// Len returns the number of files currently cataloged.
func (c *Catalog) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	n := 0
	for _, entries := range c.groups {
		n += len(entries)
	}
	return n
}

func (c *Catalog) run() {
	defer c.wg.Done()

	for {
		select {
		case event, ok := <-c.watcher.Events:
			if !ok {
				return
			}
			c.handleEvent(event)
		case err, ok := <-c.watcher.Errors:
			if !ok {
				return
			}
			c.logger.Printf("watcher error: %v", err)
		case <-c.done:
			return
		}
	}
}

func (c *Catalog) handleEvent(event fsnotify.Event) {
	if event.Op&fsnotify.Create == fsnotify.Create {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			c.addWatchRecursive(event.Name)
		}
	}

	if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) != 0 {
		if c.matches(event.Name) || event.Op&(fsnotify.Remove|fsnotify.Rename) != 0 {
			c.scheduleRefresh()
		}
	}
}

func (c *Catalog) refresh() error {
	entries, err := scan.Dir(c.root, c.pattern, c.classify)
	if err != nil {
		return err
	}
	groups := scan.GroupBy(entries, c.axis)

	c.mu.Lock()
	c.groups = groups
	c.mu.Unlock()

	c.logger.Printf("catalog refreshed with %d files", len(entries))
	return nil
}

func (c *Catalog) scheduleRefresh() {
	select {
	case <-c.done:
		return
	default:
	}

	c.refreshMu.Lock()
	defer c.refreshMu.Unlock()

	if c.refreshTimer != nil {
		c.refreshTimer.Stop()
	}

	var timer *time.Timer
	timer = time.AfterFunc(c.refreshDelay, func() {
		if err := c.refresh(); err != nil {
			c.logger.Printf("refresh error: %v", err)
		}

		c.refreshMu.Lock()
		if c.refreshTimer == timer {
			c.refreshTimer = nil
		}
		c.refreshMu.Unlock()
	})

	c.refreshTimer = timer
}

func (c *Catalog) addWatchRecursive(path string) {
	filepath.WalkDir(path, func(p string, d os.DirEntry, err error) error {
		if err != nil {
			return nil
		}

		if d.IsDir() {
			if err := c.watcher.Add(p); err != nil {
				c.logger.Printf("watcher add failure for %s: %v", p, err)
			}
		}
		return nil
	})
}

func (c *Catalog) matches(path string) bool {
	ok, err := filepath.Match(c.pattern, filepath.Base(path))
	return err == nil && ok
}
