package automata

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/jeeftor/tether/internal/filesystem"
)

// DefaultPattern names captures capture-0001, capture-0002, ...
const DefaultPattern = "capture-%04d"

// Session is the directory captures are downloaded into
type Session struct {
	dir     string
	pattern string

	mu   sync.Mutex
	next int
}

// NewSession creates dir if needed. The pattern must contain one integer verb.
func NewSession(dir, pattern string) (*Session, error) {
	if dir == "" {
		return nil, fmt.Errorf("session directory is required")
	}
	dir, err := filesystem.ExpandPath(dir)
	if err != nil {
		return nil, err
	}
	if pattern == "" {
		pattern = DefaultPattern
	}
	if strings.Contains(fmt.Sprintf(pattern, 1), "%!") {
		return nil, fmt.Errorf("invalid session pattern %q: needs exactly one integer verb like %%04d", pattern)
	}
	if err := filesystem.EnsureDirectory(dir); err != nil {
		return nil, fmt.Errorf("failed to create session directory: %w", err)
	}

	return &Session{dir: dir, pattern: pattern, next: 1}, nil
}

// Dir returns the session directory
func (s *Session) Dir() string {
	return s.dir
}

// NextFilename returns the next unused path for a file with extension ext
func (s *Session) NextFilename(ext string) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	ext = strings.TrimPrefix(ext, ".")
	for {
		name := fmt.Sprintf(s.pattern, s.next)
		if ext != "" {
			name += "." + ext
		}
		s.next++

		path := filepath.Join(s.dir, name)
		if !filesystem.Exists(path) {
			return path
		}
	}
}

// Files lists the images in the session directory, sorted by name
func (s *Session) Files() ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read session directory: %w", err)
	}

	files := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.Type().IsRegular() && !strings.HasPrefix(e.Name(), ".") && filesystem.IsImageFile(e.Name()) {
			files = append(files, filepath.Join(s.dir, e.Name()))
		}
	}
	sort.Strings(files)
	return files, nil
}
