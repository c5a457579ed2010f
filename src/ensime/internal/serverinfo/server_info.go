// Package serverinfo locates a running analysis server through the port file
// it drops in its cache directory. The file holds the HTTP port of the
// websocket endpoint and disappears when the server shuts down.
package serverinfo

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/uber/ensime-client/src/ensime/entity"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

const (
	_portFileName = "http"
	_addressFmt   = "ws://127.0.0.1:%d/jerky"
)

// Module is the Fx module for this package.
var Module = fx.Provide(New)

// Locator resolves cache directories to server descriptors.
type Locator interface {
	// Locate returns a Server descriptor for the given cache directory. The
	// descriptor is live: IsRunning and Address reflect the port file's
	// current state on every call.
	Locate(cacheDir string) entity.Server
}

// Params define values to be used by Locator.
type Params struct {
	fx.In

	Lifecycle fx.Lifecycle `optional:"true"`
	Logger    *zap.SugaredLogger
}

type locator struct {
	logger *zap.SugaredLogger

	mu       sync.Mutex
	watchers []*fsnotify.Watcher
}

// New creates a new Locator.
func New(p Params) Locator {
	l := &locator{logger: p.Logger}
	if p.Lifecycle != nil {
		p.Lifecycle.Append(fx.Hook{OnStop: l.onStop})
	}
	return l
}

func (l *locator) Locate(cacheDir string) entity.Server {
	s := &server{
		portFile: filepath.Join(cacheDir, _portFileName),
		logger:   l.logger,
	}
	if w := s.watch(cacheDir); w != nil {
		l.mu.Lock()
		l.watchers = append(l.watchers, w)
		l.mu.Unlock()
	}
	return s
}

func (l *locator) onStop(ctx context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, w := range l.watchers {
		w.Close()
	}
	l.watchers = nil
	return nil
}

// server implements entity.Server on top of the port file. A filesystem
// watcher keeps the cached port current; if the watcher cannot be set up the
// descriptor degrades to reading the file on every call.
type server struct {
	portFile string
	logger   *zap.SugaredLogger

	mu      sync.Mutex
	watched bool
	port    int
}

var _ entity.Server = (*server)(nil)

func (s *server) IsRunning() bool {
	_, err := s.readPort()
	return err == nil
}

func (s *server) Address() string {
	port, err := s.readPort()
	if err != nil {
		return ""
	}
	return fmt.Sprintf(_addressFmt, port)
}

func (s *server) readPort() (int, error) {
	s.mu.Lock()
	if s.watched {
		port := s.port
		s.mu.Unlock()
		if port == 0 {
			return 0, fmt.Errorf("no port recorded in %q", s.portFile)
		}
		return port, nil
	}
	s.mu.Unlock()
	return readPortFile(s.portFile)
}

func (s *server) watch(cacheDir string) *fsnotify.Watcher {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		s.logger.Infow("port file watcher unavailable, falling back to polling", "error", err)
		return nil
	}
	// Watch the directory, not the file: the file may not exist yet and most
	// servers write it with a rename.
	if err := watcher.Add(cacheDir); err != nil {
		s.logger.Infow("cannot watch cache directory, falling back to polling", "dir", cacheDir, "error", err)
		watcher.Close()
		return nil
	}

	s.mu.Lock()
	s.watched = true
	if port, err := readPortFile(s.portFile); err == nil {
		s.port = port
	}
	s.mu.Unlock()

	go func() {
		defer watcher.Close()
		for {
			select {
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if event.Name != s.portFile {
					continue
				}
				s.mu.Lock()
				if event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename) {
					s.port = 0
				} else if port, err := readPortFile(s.portFile); err == nil {
					s.port = port
				}
				s.mu.Unlock()
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				s.logger.Infow("port file watcher error", "error", err)
			}
		}
	}()
	return watcher
}

func readPortFile(path string) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("reading port file: %w", err)
	}
	port, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil {
		return 0, fmt.Errorf("parsing port file %q: %w", path, err)
	}
	return port, nil
}
