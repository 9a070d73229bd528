package database

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/mattn/go-sqlite3"

	"exifimage/logging"
	"exifimage/types"
	"exifimage/utils"
)

// UploadKeyLength is the length of generated upload keys
const UploadKeyLength = 512

const maxKeyAttempts = 5

// GetOrCreateUser returns the user called username, creating it on first use
func (s *Store) GetOrCreateUser(ctx context.Context, username string) (*types.User, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, &types.ValidationError{Field: "username", Reason: "required"}
	}

	if _, err := s.db.ExecContext(ctx, "INSERT OR IGNORE INTO users (username) VALUES (?)", username); err != nil {
		return nil, &types.PersistenceError{Op: "create user", Err: err}
	}
	return s.UserByName(ctx, username)
}

// UserByName looks a user up by name
func (s *Store) UserByName(ctx context.Context, username string) (*types.User, error) {
	var u types.User
	err := s.db.QueryRowContext(ctx, "SELECT id, username FROM users WHERE username = ?", username).Scan(&u.ID, &u.Username)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, types.ErrNotFound
	}
	if err != nil {
		return nil, &types.PersistenceError{Op: "load user", Err: err}
	}
	return &u, nil
}

// UserByUploadKey resolves the owner of an upload key
func (s *Store) UserByUploadKey(ctx context.Context, key string) (*types.User, error) {
	if key == "" {
		return nil, types.ErrNotFound
	}

	var u types.User
	err := s.db.QueryRowContext(ctx, `
		SELECT u.id, u.username FROM users u JOIN upload_keys k ON k.user_id = u.id
		WHERE k.key = ?`, key).Scan(&u.ID, &u.Username)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, types.ErrNotFound
	}
	if err != nil {
		return nil, &types.PersistenceError{Op: "load upload key", Err: err}
	}
	return &u, nil
}

// GetOrCreateUploadKey returns the user's upload key, generating one if the user has none.
// A generated key that collides with an existing one is regenerated.
func (s *Store) GetOrCreateUploadKey(ctx context.Context, userID int64) (string, error) {
	var key string
	err := s.db.QueryRowContext(ctx, "SELECT key FROM upload_keys WHERE user_id = ?", userID).Scan(&key)
	if err == nil {
		return key, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return "", &types.PersistenceError{Op: "load upload key", Err: err}
	}

	for attempt := 1; attempt <= maxKeyAttempts; attempt++ {
		key, err = utils.GenerateRandomString(UploadKeyLength)
		if err != nil {
			return "", err
		}

		_, err = s.db.ExecContext(ctx, "INSERT INTO upload_keys (user_id, key) VALUES (?, ?)", userID, key)
		if err == nil {
			return key, nil
		}

		var sqliteErr sqlite3.Error
		if !errors.As(err, &sqliteErr) || sqliteErr.Code != sqlite3.ErrConstraint {
			return "", &types.PersistenceError{Op: "create upload key", Err: err}
		}

		// Either the key collided or another caller created one for this user first
		if err := s.db.QueryRowContext(ctx, "SELECT key FROM upload_keys WHERE user_id = ?", userID).Scan(&key); err == nil {
			return key, nil
		}
		logging.DebugLog("Upload key collision for user %d, attempt %d", userID, attempt)
	}

	return "", &types.PersistenceError{Op: "create upload key", Err: errors.New("too many key collisions")}
}
