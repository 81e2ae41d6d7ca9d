package history

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
)

const (
	tokenKey     = "auth_token"
	installIDKey = "install_id"
)

func (s *Store) getKV(key string) (string, bool) {
	var value string
	err := s.db.QueryRow(`SELECT value FROM kv WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false
	}
	if err != nil {
		s.log.Warn("kv read failed", "key", key, "error", err)
		return "", false
	}
	return value, true
}

func (s *Store) setKV(key, value string) error {
	_, err := s.db.Exec(
		`INSERT OR REPLACE INTO kv (key, value) VALUES (?, ?)`, key, value)
	if err != nil {
		return fmt.Errorf("writing kv %s: %w", key, err)
	}
	return nil
}

func (s *Store) deleteKV(key string) error {
	if _, err := s.db.Exec(`DELETE FROM kv WHERE key = ?`, key); err != nil {
		return fmt.Errorf("deleting kv %s: %w", key, err)
	}
	return nil
}

// Token returns the persisted bearer token, if any.
func (s *Store) Token() (string, bool) {
	return s.getKV(tokenKey)
}

// SetToken persists the bearer token.
func (s *Store) SetToken(token string) error {
	return s.setKV(tokenKey, token)
}

// ClearToken removes the persisted bearer token. Idempotent.
func (s *Store) ClearToken() error {
	return s.deleteKV(tokenKey)
}

// InstallID returns this installation's stable identifier, generating and
// persisting one on first use.
func (s *Store) InstallID() (string, error) {
	if id, ok := s.getKV(installIDKey); ok {
		return id, nil
	}
	id := uuid.NewString()
	if err := s.setKV(installIDKey, id); err != nil {
		return "", err
	}
	return id, nil
}
