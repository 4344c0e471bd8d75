// Package session holds the signed-in owner's bearer token and profile and
// persists them between runs.
package session

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"pasale-dashboard/internal/models"
)

const (
	tokenKey = "auth_token"
	userKey  = "user_data"
)

// Store persists the two session keys.
type Store interface {
	Load() (token string, user *models.User, err error)
	Save(token string, user *models.User) error
	Clear() error
}

// FileStore keeps the session as a small JSON object on disk. The profile
// is stored as an encoded JSON string under user_data.
type FileStore struct {
	path string
}

func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

func (s *FileStore) Load() (string, *models.User, error) {
	raw, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return "", nil, nil
	}
	if err != nil {
		return "", nil, fmt.Errorf("read session file: %w", err)
	}

	var kv map[string]string
	if err := json.Unmarshal(raw, &kv); err != nil {
		return "", nil, fmt.Errorf("decode session file: %w", err)
	}

	token := kv[tokenKey]
	if blob := kv[userKey]; blob != "" {
		var u models.User
		if err := json.Unmarshal([]byte(blob), &u); err != nil {
			return "", nil, fmt.Errorf("decode user data: %w", err)
		}
		return token, &u, nil
	}
	return token, nil, nil
}

func (s *FileStore) Save(token string, user *models.User) error {
	kv := map[string]string{tokenKey: token}
	if user != nil {
		blob, err := json.Marshal(user)
		if err != nil {
			return fmt.Errorf("encode user data: %w", err)
		}
		kv[userKey] = string(blob)
	}

	raw, err := json.Marshal(kv)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("create session dir: %w", err)
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o600); err != nil {
		return fmt.Errorf("write session file: %w", err)
	}
	return os.Rename(tmp, s.path)
}

func (s *FileStore) Clear() error {
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove session file: %w", err)
	}
	return nil
}

// AppState is the in-memory session owned by the composition root and
// passed to whatever needs it.
type AppState struct {
	mu    sync.RWMutex
	store Store
	token string
	user  *models.User
}

func NewAppState(store Store) *AppState {
	return &AppState{store: store}
}

// Restore loads any persisted session.
func (a *AppState) Restore() error {
	token, user, err := a.store.Load()
	if err != nil {
		return err
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	a.token = token
	a.user = user
	return nil
}

func (a *AppState) SignIn(token string, user *models.User) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.token = token
	a.user = user
	return a.store.Save(token, user)
}

func (a *AppState) SignOut() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.token = ""
	a.user = nil
	return a.store.Clear()
}

func (a *AppState) Token() string {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.token
}

// User returns a copy of the current profile, or nil.
func (a *AppState) User() *models.User {
	a.mu.RLock()
	defer a.mu.RUnlock()
	if a.user == nil {
		return nil
	}
	u := *a.user
	return &u
}

func (a *AppState) Authenticated() bool {
	return a.Token() != ""
}
