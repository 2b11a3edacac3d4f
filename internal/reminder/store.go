package reminder

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"io/fs"
	log "log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// Store owns the reminder list shared by the dispatch loop and the scheduler.
// Every mutation rewrites the whole file.
type Store struct {
	path string

	mu    sync.RWMutex
	items []Reminder
}

// Open loads reminders from path. A missing file yields an empty store.
func Open(path string) (*Store, error) {
	s := &Store{path: path}

	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		log.Debug("No reminders file yet", "path", path)
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("open reminders: %w", err)
	}
	defer f.Close()

	items, err := Load(f)
	if err != nil {
		return nil, fmt.Errorf("read reminders: %w", err)
	}
	s.items = items

	log.Debug("Loaded reminders", "path", path, "count", len(items))
	return s, nil
}

// Load parses one reminder per line. Lines that do not split into exactly
// two fields are skipped, however long they are.
func Load(r io.Reader) ([]Reminder, error) {
	var out []Reminder
	br := bufio.NewReader(r)
	for {
		line, err := br.ReadString('\n')
		if rem, ok := parseLine(line); ok {
			out = append(out, rem)
		}
		if errors.Is(err, io.EOF) {
			return out, nil
		}
		if err != nil {
			return out, err
		}
	}
}

// Add appends r and persists the full list. A reminder that would not
// reload unchanged is refused with ErrBadTask or ErrBadTime. On a write
// failure the reminder is kept in memory and the error is returned.
func (s *Store) Add(r Reminder) error {
	if err := r.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.items = append(s.items, r)
	return s.persist()
}

// List returns a copy of the reminders in insertion order.
func (s *Store) List() []Reminder {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return append([]Reminder(nil), s.items...)
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.items)
}

func (s *Store) Path() string {
	return s.path
}

// persist must be called with mu held.
func (s *Store) persist() error {
	var b strings.Builder
	for _, r := range s.items {
		b.WriteString(r.String())
		b.WriteByte('\n')
	}

	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(s.path)+".*")
	if err != nil {
		return fmt.Errorf("persist reminders: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.WriteString(b.String()); err != nil {
		tmp.Close()
		return fmt.Errorf("persist reminders: %w", err)
	}
	if err := tmp.Chmod(s.fileMode()); err != nil {
		tmp.Close()
		return fmt.Errorf("persist reminders: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("persist reminders: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("persist reminders: %w", err)
	}

	log.Debug("Persisted reminders", "path", s.path, "count", len(s.items))
	return nil
}

// fileMode keeps the permissions of an existing reminders file.
func (s *Store) fileMode() fs.FileMode {
	if fi, err := os.Stat(s.path); err == nil {
		return fi.Mode().Perm()
	}
	return 0o644
}
