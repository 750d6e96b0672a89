// Package session persists logged-in cookie jars per user.
package session

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"go-internship-automation/internal/browser"
	"go-internship-automation/internal/logging"
)

// ErrNotFound means there is no usable jar for the user. A corrupt jar is
// reported the same way; callers treat both as "not logged in".
var ErrNotFound = errors.New("session: no stored cookies")

// Store loads and saves cookie jars keyed by user identity.
type Store interface {
	Load(ctx context.Context, user string) ([]browser.Cookie, error)
	// Save overwrites whatever is stored for user.
	Save(ctx context.Context, user string, cookies []browser.Cookie) error
}

// Key normalizes a user identity. The empty key addresses the shared jar.
func Key(user string) string {
	return strings.ToLower(strings.TrimSpace(user))
}

// FileStore keeps one JSON file per user under dir.
type FileStore struct {
	dir string
	log *logging.Logger

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func NewFileStore(dir string, log *logging.Logger) *FileStore {
	if log == nil {
		log = logging.Nop()
	}
	return &FileStore{
		dir:   dir,
		log:   log,
		locks: make(map[string]*sync.Mutex),
	}
}

func (s *FileStore) Load(ctx context.Context, user string) ([]browser.Cookie, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	key := Key(user)
	l := s.lock(key)
	l.Lock()
	defer l.Unlock()

	cookies, err := browser.LoadCookies(s.path(key))
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			s.log.Warn("⚠️ Ignoring unreadable cookie jar", "error", err)
		}
		return nil, ErrNotFound
	}
	if len(cookies) == 0 {
		return nil, ErrNotFound
	}
	return cookies, nil
}

func (s *FileStore) Save(ctx context.Context, user string, cookies []browser.Cookie) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	key := Key(user)
	l := s.lock(key)
	l.Lock()
	defer l.Unlock()

	if err := browser.SaveCookies(s.path(key), cookies); err != nil {
		return fmt.Errorf("save cookies: %w", err)
	}
	s.log.Info("💾 Saved cookies", "count", len(cookies))
	return nil
}

// path hashes the key so emails never end up in file names.
func (s *FileStore) path(key string) string {
	if key == "" {
		return filepath.Join(s.dir, "cookies.json")
	}
	sum := sha256.Sum256([]byte(key))
	return filepath.Join(s.dir, "cookies-"+hex.EncodeToString(sum[:8])+".json")
}

func (s *FileStore) lock(key string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.locks[key]
	if !ok {
		l = &sync.Mutex{}
		s.locks[key] = l
	}
	return l
}

// MemoryStore is an in-process Store, used when nothing durable is configured
// and in tests.
type MemoryStore struct {
	mu   sync.RWMutex
	jars map[string][]browser.Cookie
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{jars: make(map[string][]browser.Cookie)}
}

func (m *MemoryStore) Load(ctx context.Context, user string) ([]browser.Cookie, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	cookies, ok := m.jars[Key(user)]
	if !ok || len(cookies) == 0 {
		return nil, ErrNotFound
	}
	return append([]browser.Cookie(nil), cookies...), nil
}

func (m *MemoryStore) Save(ctx context.Context, user string, cookies []browser.Cookie) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.jars[Key(user)] = append([]browser.Cookie(nil), cookies...)
	return nil
}
