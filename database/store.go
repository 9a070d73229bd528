package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"exifimage/logging"
	"exifimage/types"
	"exifimage/utils"
)

// querier is satisfied by both *sql.DB and *sql.Tx
type querier interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

// Store is the sqlite backed persistence and rule store
type Store struct {
	db     *sql.DB
	locker *utils.PathLocker
}

// NewStore wraps an initialized database
func NewStore(db *sql.DB) *Store {
	return &Store{
		db:     db,
		locker: utils.NewPathLocker(),
	}
}

// DB returns the underlying connection
func (s *Store) DB() *sql.DB {
	return s.db
}

// withTx runs fn inside a transaction
func (s *Store) withTx(ctx context.Context, fn func(q querier) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	if err := fn(tx); err != nil {
		tx.Rollback()
		return err
	}
	return tx.Commit()
}

func scanCollection(row interface{ Scan(...interface{}) error }) (types.CollectionNode, error) {
	var node types.CollectionNode
	var parent sql.NullInt64
	if err := row.Scan(&node.ID, &parent, &node.Name, &node.Depth); err != nil {
		return node, err
	}
	node.ParentID = parent.Int64
	return node, nil
}

// GetRoot returns the root of the collection tree
func (s *Store) GetRoot(ctx context.Context) (types.CollectionNode, error) {
	row := s.db.QueryRowContext(ctx, "SELECT id, parent_id, name, depth FROM collections WHERE id = ?", RootCollectionID)
	node, err := scanCollection(row)
	if err != nil {
		return node, &types.PersistenceError{Op: "get root collection", Err: err}
	}
	return node, nil
}

// GetOrCreateChild returns the direct child of parent called name, creating it if needed.
// Names match exactly and case-sensitively.
func (s *Store) GetOrCreateChild(ctx context.Context, parent types.CollectionNode, name string) (types.CollectionNode, error) {
	key := fmt.Sprintf("%d/%s", parent.ID, name)
	s.locker.Lock(key)
	defer s.locker.Unlock(key)

	res, err := s.db.ExecContext(ctx,
		"INSERT INTO collections (parent_id, name, depth) VALUES (?, ?, ?) ON CONFLICT(parent_id, name) DO NOTHING",
		parent.ID, name, parent.Depth+1)
	if err != nil {
		return types.CollectionNode{}, &types.PersistenceError{Op: "create collection " + name, Err: err}
	}
	if n, _ := res.RowsAffected(); n > 0 {
		logging.DebugLog("Created collection %q under %d", name, parent.ID)
	}

	row := s.db.QueryRowContext(ctx,
		"SELECT id, parent_id, name, depth FROM collections WHERE parent_id = ? AND name = ?", parent.ID, name)
	node, err := scanCollection(row)
	if err != nil {
		return node, &types.PersistenceError{Op: "find collection " + name, Err: err}
	}
	return node, nil
}

// Children lists the direct children of a collection ordered by name
func (s *Store) Children(ctx context.Context, parentID int64) ([]types.CollectionNode, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, parent_id, name, depth FROM collections WHERE parent_id = ? ORDER BY name", parentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var nodes []types.CollectionNode
	for rows.Next() {
		node, err := scanCollection(rows)
		if err != nil {
			return nil, err
		}
		nodes = append(nodes, node)
	}
	return nodes, rows.Err()
}

// CollectionPath returns the names from below the root down to the collection
func (s *Store) CollectionPath(ctx context.Context, id int64) ([]string, error) {
	var names []string
	for id != 0 && id != RootCollectionID {
		row := s.db.QueryRowContext(ctx, "SELECT id, parent_id, name, depth FROM collections WHERE id = ?", id)
		node, err := scanCollection(row)
		if errors.Is(err, sql.ErrNoRows) {
			return nil, types.ErrNotFound
		}
		if err != nil {
			return nil, err
		}
		names = append([]string{node.Name}, names...)
		id = node.ParentID
	}
	return names, nil
}

// AddTag attaches a tag to a stored image. Attaching an existing tag is a no-op.
func (s *Store) AddTag(ctx context.Context, rec *types.ImageRecord, tag string) error {
	tag = strings.TrimSpace(tag)
	if tag == "" {
		return nil
	}
	if rec.ID == 0 {
		return &types.PersistenceError{Op: "add tag " + tag, Err: errors.New("image has not been saved")}
	}

	err := s.withTx(ctx, func(q querier) error {
		if _, err := q.ExecContext(ctx, "INSERT OR IGNORE INTO tags (name) VALUES (?)", tag); err != nil {
			return err
		}
		var tagID int64
		if err := q.QueryRowContext(ctx, "SELECT id FROM tags WHERE name = ?", tag).Scan(&tagID); err != nil {
			return err
		}
		_, err := q.ExecContext(ctx, "INSERT OR IGNORE INTO image_tags (image_id, tag_id) VALUES (?, ?)", rec.ID, tagID)
		return err
	})
	if err != nil {
		return &types.PersistenceError{Op: "add tag " + tag, Err: err}
	}

	for _, t := range rec.Tags {
		if t == tag {
			return nil
		}
	}
	rec.Tags = append(rec.Tags, tag)
	return nil
}

// TagsFor returns the tags of an image ordered by name
func (s *Store) TagsFor(ctx context.Context, imageID int64) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT t.name FROM tags t JOIN image_tags it ON it.tag_id = t.id WHERE it.image_id = ? ORDER BY t.name", imageID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tags := make([]string, 0)
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		tags = append(tags, name)
	}
	return tags, rows.Err()
}

// ClearTags detaches every tag from a stored image
func (s *Store) ClearTags(ctx context.Context, imageID int64) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM image_tags WHERE image_id = ?", imageID); err != nil {
		return &types.PersistenceError{Op: "clear tags", Err: err}
	}
	return nil
}
