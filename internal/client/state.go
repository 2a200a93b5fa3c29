package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/erp/backoffice/internal/domain/identity"
)

// Themes accepted by SetTheme
const (
	ThemeLight  = "light"
	ThemeDark   = "dark"
	ThemeSystem = "system"
)

// AuthState is the signed-in session
type AuthState struct {
	Token string         `json:"token,omitempty"`
	User  *identity.User `json:"user,omitempty"`
	// LastError is the message of the last failed sign-in; never persisted
	LastError string `json:"lastError,omitempty"`
}

// UIState holds presentation preferences
type UIState struct {
	Theme string `json:"theme,omitempty"`
	// SidebarCollapsed only lives for the current process
	SidebarCollapsed bool `json:"sidebarCollapsed,omitempty"`
}

// State is the client-side state tree
type State struct {
	Auth AuthState `json:"auth"`
	UI   UIState   `json:"ui"`
}

// persisted lists the keys of each slice that reach the state file
var persisted = map[string][]string{
	"auth": {"token", "user"},
	"ui":   {"theme"},
}

// StateStore guards the state tree and writes the persisted keys to a JSON
// file after every change. An empty path keeps the state in memory.
type StateStore struct {
	mu    sync.RWMutex
	path  string
	state State
}

// OpenState loads the persisted state from path. A missing file yields an
// empty state.
func OpenState(path string) (*StateStore, error) {
	s := &StateStore{path: path, state: State{UI: UIState{Theme: ThemeSystem}}}
	if path == "" {
		return s, nil
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read state: %w", err)
	}
	if err := json.Unmarshal(data, &s.state); err != nil {
		return nil, fmt.Errorf("decode state %s: %w", path, err)
	}
	return s, nil
}

// Snapshot returns a copy of the current state
func (s *StateStore) Snapshot() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Token returns the bearer token, or ""
func (s *StateStore) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Auth.Token
}

// SetSession stores a freshly issued token and its user
func (s *StateStore) SetSession(token string, user *identity.User) error {
	return s.update(func(st *State) {
		st.Auth = AuthState{Token: token, User: user}
	})
}

// SetAuthError records a failed sign-in without touching the session
func (s *StateStore) SetAuthError(msg string) error {
	return s.update(func(st *State) { st.Auth.LastError = msg })
}

// ClearSession drops the token and user
func (s *StateStore) ClearSession() error {
	return s.update(func(st *State) { st.Auth = AuthState{} })
}

// SetTheme changes the UI theme
func (s *StateStore) SetTheme(theme string) error {
	switch theme {
	case ThemeLight, ThemeDark, ThemeSystem:
	default:
		return fmt.Errorf("unknown theme %q", theme)
	}
	return s.update(func(st *State) { st.UI.Theme = theme })
}

// SetSidebarCollapsed toggles the sidebar for the current process
func (s *StateStore) SetSidebarCollapsed(collapsed bool) error {
	return s.update(func(st *State) { st.UI.SidebarCollapsed = collapsed })
}

func (s *StateStore) update(fn func(*State)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(&s.state)
	return s.save()
}

// save writes the whitelisted keys; callers hold the lock
func (s *StateStore) save() error {
	if s.path == "" {
		return nil
	}
	data, err := whitelist(s.state)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("create state dir: %w", err)
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("write state: %w", err)
	}
	return os.Rename(tmp, s.path)
}

// whitelist encodes only the persisted keys of each slice
func whitelist(st State) ([]byte, error) {
	raw, err := json.Marshal(st)
	if err != nil {
		return nil, err
	}
	var slices map[string]map[string]json.RawMessage
	if err := json.Unmarshal(raw, &slices); err != nil {
		return nil, err
	}
	out := make(map[string]map[string]json.RawMessage, len(persisted))
	for slice, keys := range persisted {
		kept := map[string]json.RawMessage{}
		for _, k := range keys {
			if v, ok := slices[slice][k]; ok {
				kept[k] = v
			}
		}
		out[slice] = kept
	}
	return json.MarshalIndent(out, "", "  ")
}
