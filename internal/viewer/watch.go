package viewer

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/Faultbox/gltfview/internal/logger"
)

// settleDelay is how long the directory must stay quiet before a change is
// reported, so exporters writing several files trigger one reload.
const settleDelay = 250 * time.Millisecond

// watchedExt lists the file kinds a model can be built from. Editor swap
// files and other directory noise are ignored.
var watchedExt = map[string]bool{
	".gltf": true, ".glb": true, ".bin": true,
	".png": true, ".jpg": true, ".jpeg": true, ".webp": true,
	".bmp": true, ".gif": true, ".tif": true, ".tiff": true,
}

func watched(name string) bool {
	return watchedExt[strings.ToLower(filepath.Ext(name))]
}

// Watcher reports changes to the files in a model's directory. It is polled
// from the render loop and never blocks.
type Watcher struct {
	fsnotify *fsnotify.Watcher
	dir      string
	pending  bool
	last     time.Time
}

// NewWatcher watches the directory containing path.
func NewWatcher(path string) (*Watcher, error) {
	fsWatch, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating watcher: %w", err)
	}
	dir := filepath.Dir(path)
	if err := fsWatch.Add(dir); err != nil {
		fsWatch.Close()
		return nil, fmt.Errorf("watching %s: %w", dir, err)
	}
	return &Watcher{fsnotify: fsWatch, dir: dir}, nil
}

// Poll drains pending notifications and reports whether a change has
// settled as of now.
func (w *Watcher) Poll(now time.Time) bool {
	for {
		select {
		case e, ok := <-w.fsnotify.Events:
			if !ok {
				return false
			}
			if e.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Rename) != 0 && watched(e.Name) {
				w.pending = true
				w.last = now
			}
		case err, ok := <-w.fsnotify.Errors:
			if ok {
				logger.Warn("watch error", zap.String("dir", w.dir), zap.Error(err))
			}
		default:
			if w.pending && now.Sub(w.last) >= settleDelay {
				w.pending = false
				return true
			}
			return false
		}
	}
}

// Close stops watching.
func (w *Watcher) Close() error {
	return w.fsnotify.Close()
}
