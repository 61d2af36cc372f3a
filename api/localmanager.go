package api

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/fsnotify/fsnotify"

	"github.com/aouyang1/portfolio/api/client"
	"github.com/aouyang1/portfolio/store"
	"github.com/aouyang1/portfolio/util"
)

const (
	localCheckInterval = 24 * time.Hour
	localDebounce      = 500 * time.Millisecond
)

// LocalManager keeps the photos directory and the photo records in sync.
// Files dropped into the directory are registered, and records whose file
// disappeared are removed. Subdirectories, including the remote sync
// directory, are left alone.
type LocalManager struct {
	path     string
	category string
	debounce time.Duration

	photoClient  *client.PhotoClient
	trackedFiles mapset.Set[string]
}

func NewLocalManager(path string, photoClient *client.PhotoClient) (*LocalManager, error) {
	if err := os.MkdirAll(path, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create photos directory: %w", err)
	}

	l := &LocalManager{
		path:        path,
		category:    store.CategoryProfessional,
		debounce:    localDebounce,
		photoClient: photoClient,
	}

	currentFiles, err := l.getCurrentFiles()
	if err != nil {
		slog.Warn("error reading local directory on initialization", "path", l.path, "error", err)
		return nil, err
	}
	l.trackedFiles = currentFiles

	return l, nil
}

func (l *LocalManager) getCurrentFiles() (mapset.Set[string], error) {
	dirs, err := os.ReadDir(l.path)
	if err != nil {
		return nil, err
	}

	currentFiles := mapset.NewThreadUnsafeSet[string]()
	for _, dir := range dirs {
		if dir.IsDir() || !util.IsSupported(dir.Name()) {
			continue
		}
		currentFiles.Add(dir.Name())
	}
	return currentFiles, nil
}

// Run scans once, then rescans whenever the directory settles after a change
// and once per check interval in case an event was missed.
func (l *LocalManager) Run(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create photo watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(l.path); err != nil {
		return fmt.Errorf("failed to watch %s: %w", l.path, err)
	}
	slog.Info("watching photos directory", "path", l.path)

	// Initial scan
	l.scanAndRegister()

	ticker := time.NewTicker(localCheckInterval)
	defer ticker.Stop()

	var settle *time.Timer
	var settled <-chan time.Time
	defer func() {
		if settle != nil {
			settle.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op == fsnotify.Chmod || !util.IsSupported(event.Name) {
				continue
			}
			slog.Debug("photo directory changed", "name", event.Name, "op", event.Op.String())
			if settle == nil {
				settle = time.NewTimer(l.debounce)
			} else {
				settle.Reset(l.debounce)
			}
			settled = settle.C
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			slog.Warn("photo directory watcher error", "path", l.path, "error", err)
		case <-settled:
			settled = nil
			l.scanAndRegister()
		case <-ticker.C:
			l.scanAndRegister()
		}
	}
}

func (l *LocalManager) scanAndRegister() {
	currentFiles, err := l.getCurrentFiles()
	if err != nil {
		slog.Warn("error reading local directory", "path", l.path, "error", err)
		return
	}

	if newFiles := currentFiles.Difference(l.trackedFiles); newFiles.Cardinality() > 0 {
		slog.Info("found new local photos", "count", newFiles.Cardinality(), "names", mapset.Sorted(newFiles))
	}
	l.trackedFiles = currentFiles

	// Ensure all local files are registered
	for _, name := range mapset.Sorted(currentFiles) {
		if _, err := l.photoClient.RegisterPhoto(name, l.category); err != nil {
			slog.Warn("error while registering local photo", "name", name, "error", err)
		}
	}

	registeredPhotos, err := l.photoClient.GetPhotos("")
	if err != nil {
		slog.Warn("error getting registered photos from DB", "error", err)
		return
	}

	// only records served from this directory are ours to remove; imported
	// photos may point at external sources
	registered := make(map[string]string)
	for _, photo := range registeredPhotos {
		if photo.Category == store.CategoryRemote || photo.Src != "/photos/"+photo.Filename {
			continue
		}
		if filepath.Base(photo.Filename) != photo.Filename {
			continue
		}
		registered[photo.Filename] = photo.ID
	}
	registeredNames := mapset.NewThreadUnsafeSetFromMapKeys(registered)

	// Find photos registered in DB but not present locally
	toDeregister := mapset.Sorted(registeredNames.Difference(currentFiles))
	if len(toDeregister) > 0 {
		slog.Info("deregistering photos not present locally", "count", len(toDeregister), "names", toDeregister)
		for _, name := range toDeregister {
			if err := l.photoClient.DeletePhoto(registered[name]); err != nil {
				slog.Warn("error while deregistering photo", "name", name, "error", err)
			}
		}
	}
}
