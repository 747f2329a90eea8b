package auth

import (
	"errors"
	"strings"

	"github.com/bytedance/sonic"
)

// Storage keys.
const (
	sessionKey = "authUser"
	themeKey   = "theme"
)

// DefaultName is used when a login supplies a blank name.
const DefaultName = "Guest"

// Session is the signed-in user.
type Session struct {
	Name string `json:"name"`
	Role Role   `json:"role"`
}

// NewSession trims name (defaulting to DefaultName) and normalizes role.
func NewSession(name, role string) Session {
	name = strings.TrimSpace(name)
	if name == "" {
		name = DefaultName
	}
	return Session{Name: name, Role: ParseRole(role)}
}

// SessionStore persists the current session in a KV.
type SessionStore struct {
	kv KV
}

// NewSessionStore returns a SessionStore on kv.
func NewSessionStore(kv KV) *SessionStore {
	return &SessionStore{kv: kv}
}

// Load returns the stored session, or nil when signed out. Unreadable or
// malformed values are treated as signed out.
func (s *SessionStore) Load() *Session {
	raw, err := s.kv.Get(sessionKey)
	if err != nil {
		return nil
	}
	var sess Session
	if err := sonic.Unmarshal([]byte(raw), &sess); err != nil {
		return nil
	}
	sess = NewSession(sess.Name, string(sess.Role))
	return &sess
}

// Save stores sess.
func (s *SessionStore) Save(sess Session) error {
	data, err := sonic.Marshal(sess)
	if err != nil {
		return err
	}
	return s.kv.Set(sessionKey, string(data))
}

// Clear signs out.
func (s *SessionStore) Clear() error {
	return s.kv.Delete(sessionKey)
}

// Role returns the signed-in role, or RoleViewer when signed out.
func (s *SessionStore) Role() Role {
	if sess := s.Load(); sess != nil {
		return sess.Role
	}
	return RoleViewer
}

// Theme is the UI color scheme.
type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

// ParseTheme returns the theme named s.
func ParseTheme(s string) (Theme, bool) {
	switch Theme(strings.TrimSpace(strings.ToLower(s))) {
	case ThemeLight:
		return ThemeLight, true
	case ThemeDark:
		return ThemeDark, true
	}
	return "", false
}

// ThemeStore persists the theme preference in a KV.
type ThemeStore struct {
	kv KV
}

// NewThemeStore returns a ThemeStore on kv.
func NewThemeStore(kv KV) *ThemeStore {
	return &ThemeStore{kv: kv}
}

// Load returns the stored theme, defaulting to light.
func (t *ThemeStore) Load() Theme {
	raw, err := t.kv.Get(themeKey)
	if err != nil {
		return ThemeLight
	}
	if theme, ok := ParseTheme(raw); ok {
		return theme
	}
	return ThemeLight
}

// Save stores theme.
func (t *ThemeStore) Save(theme Theme) error {
	if _, ok := ParseTheme(string(theme)); !ok {
		return errors.New("theme must be light or dark")
	}
	return t.kv.Set(themeKey, string(theme))
}
