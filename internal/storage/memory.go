package storage

import (
	"fmt"
	"path"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/starford/mdxoutline/internal/apperr"
	"github.com/starford/mdxoutline/internal/models"
)

// Memory is an in-process Provider. Directories are implicit for files and
// explicit when created with CreateDir. Failures can be injected per path.
type Memory struct {
	mu    sync.Mutex
	files map[string][]byte
	mtime map[string]time.Time
	dirs  map[string]struct{}

	// FailRead, FailWrite: path → error returned by Read / Create / Modify.
	FailRead  map[string]error
	FailWrite map[string]error
}

// NewMemory returns an empty in-memory vault.
func NewMemory() *Memory {
	return &Memory{
		files:     make(map[string][]byte),
		mtime:     make(map[string]time.Time),
		dirs:      make(map[string]struct{}),
		FailRead:  make(map[string]error),
		FailWrite: make(map[string]error),
	}
}

// Put stores content at p unconditionally.
func (m *Memory) Put(p string, content string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.files[p] = []byte(content)
	m.mtime[p] = time.Now()
}

// Get returns the stored content and whether it exists.
func (m *Memory) Get(p string) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.files[p]
	return string(b), ok
}

// List returns all files outside hidden directories, sorted by path.
func (m *Memory) List() ([]models.Document, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]models.Document, 0, len(m.files))
	for p := range m.files {
		if hiddenPath(p) {
			continue
		}
		d := models.NewDocument(p)
		d.UpdatedAt = m.mtime[p]
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Path < out[j].Path })
	return out, nil
}

func (m *Memory) Read(p string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.FailRead[p]; err != nil {
		return nil, err
	}
	b, ok := m.files[p]
	if !ok {
		return nil, fmt.Errorf("storage: read %s: %w", p, apperr.ErrNotFound)
	}
	return append([]byte(nil), b...), nil
}

func (m *Memory) Stat(p string) (models.Entry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.files[p]; ok {
		return models.Entry{Path: p}, nil
	}
	if m.isDir(p) {
		return models.Entry{Path: p, IsDir: true}, nil
	}
	return models.Entry{}, fmt.Errorf("storage: stat %s: %w", p, apperr.ErrNotFound)
}

func (m *Memory) Create(p string, content []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.FailWrite[p]; err != nil {
		return err
	}
	if _, ok := m.files[p]; ok || m.isDir(p) {
		return fmt.Errorf("storage: create %s: %w", p, apperr.ErrAlreadyExists)
	}
	m.files[p] = append([]byte(nil), content...)
	m.mtime[p] = time.Now()
	return nil
}

func (m *Memory) Modify(p string, content []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.FailWrite[p]; err != nil {
		return err
	}
	if _, ok := m.files[p]; !ok {
		return fmt.Errorf("storage: modify %s: %w", p, apperr.ErrNotFound)
	}
	m.files[p] = append([]byte(nil), content...)
	m.mtime[p] = time.Now()
	return nil
}

func (m *Memory) CreateDir(p string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.FailWrite[p]; err != nil {
		return err
	}
	if _, ok := m.files[p]; ok || m.isDir(p) {
		return fmt.Errorf("storage: mkdir %s: %w", p, apperr.ErrAlreadyExists)
	}
	m.dirs[p] = struct{}{}
	return nil
}

// isDir reports an explicit directory or an implicit parent of a stored file.
// Callers must hold m.mu.
func (m *Memory) isDir(p string) bool {
	if _, ok := m.dirs[p]; ok {
		return true
	}
	prefix := p + "/"
	for f := range m.files {
		if strings.HasPrefix(f, prefix) {
			return true
		}
	}
	for d := range m.dirs {
		if strings.HasPrefix(d, prefix) {
			return true
		}
	}
	return false
}

func hiddenPath(p string) bool {
	for _, seg := range strings.Split(path.Dir(p), "/") {
		if strings.HasPrefix(seg, ".") && seg != "." {
			return true
		}
	}
	return false
}

var (
	_ Provider = (*FS)(nil)
	_ Provider = (*Memory)(nil)
)
