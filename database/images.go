package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"exifimage/types"
)

func allImageColumns() []string {
	return append(append([]string{}, imageColumns...), types.StringFields...)
}

func imageValues(rec *types.ImageRecord) ([]interface{}, error) {
	var collectionID, takenAt, extra interface{}
	if rec.CollectionID != 0 {
		collectionID = rec.CollectionID
	}
	if rec.TakenAt != nil {
		takenAt = rec.TakenAt.Format(time.RFC3339)
	}
	if len(rec.Extra) > 0 {
		data, err := json.Marshal(rec.Extra)
		if err != nil {
			return nil, err
		}
		extra = string(data)
	}

	values := []interface{}{
		rec.OwnerID, rec.FilePath, rec.Format, rec.Width, rec.Height, rec.Size, rec.CreatedAt, rec.ModifiedAt,
		rec.AverageHash, rec.PerceptualHash, collectionID, takenAt,
		rec.HasProcessedMetadata, extra,
	}
	for _, field := range types.StringFields {
		v, _ := rec.Get(field)
		values = append(values, v)
	}
	return values, nil
}

// SaveImage inserts a new image or updates a stored one
func (s *Store) SaveImage(ctx context.Context, rec *types.ImageRecord) error {
	if rec.CreatedAt == "" {
		rec.CreatedAt = time.Now().Format(time.RFC3339)
	}

	values, err := imageValues(rec)
	if err != nil {
		return &types.PersistenceError{Op: "save image", Err: err}
	}
	columns := allImageColumns()

	if rec.ID == 0 {
		query := fmt.Sprintf("INSERT INTO images (%s) VALUES (%s)",
			strings.Join(columns, ", "),
			strings.TrimSuffix(strings.Repeat("?, ", len(columns)), ", "))
		res, err := s.db.ExecContext(ctx, query, values...)
		if err != nil {
			return &types.PersistenceError{Op: "insert image " + rec.FilePath, Err: err}
		}
		if rec.ID, err = res.LastInsertId(); err != nil {
			return &types.PersistenceError{Op: "insert image " + rec.FilePath, Err: err}
		}
		return nil
	}

	assignments := make([]string, len(columns))
	for i, c := range columns {
		assignments[i] = c + " = ?"
	}
	query := fmt.Sprintf("UPDATE images SET %s WHERE id = ?", strings.Join(assignments, ", "))
	res, err := s.db.ExecContext(ctx, query, append(values, rec.ID)...)
	if err != nil {
		return &types.PersistenceError{Op: "update image " + rec.FilePath, Err: err}
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return &types.PersistenceError{Op: "update image " + rec.FilePath, Err: types.ErrNotFound}
	}
	return nil
}

// GetImage loads a stored image with its tags
func (s *Store) GetImage(ctx context.Context, id int64) (*types.ImageRecord, error) {
	return s.loadImage(ctx, "id = ?", id)
}

// ImageByPath loads the image an owner stored at path
func (s *Store) ImageByPath(ctx context.Context, ownerID int64, path string) (*types.ImageRecord, error) {
	return s.loadImage(ctx, "owner_id = ? AND path = ?", ownerID, path)
}

func (s *Store) loadImage(ctx context.Context, where string, args ...interface{}) (*types.ImageRecord, error) {
	columns := allImageColumns()
	query := fmt.Sprintf("SELECT id, %s FROM images WHERE %s", strings.Join(columns, ", "), where)

	var (
		rec                                   types.ImageRecord
		format, created, modified, avg, phash sql.NullString
		width, height, size, collectionID     sql.NullInt64
		takenAt, extra                        sql.NullString
	)
	fields := make([]string, len(types.StringFields))

	dest := []interface{}{
		&rec.ID, &rec.OwnerID, &rec.FilePath, &format, &width, &height, &size, &created, &modified,
		&avg, &phash, &collectionID, &takenAt, &rec.HasProcessedMetadata, &extra,
	}
	for i := range fields {
		dest = append(dest, &fields[i])
	}

	err := s.db.QueryRowContext(ctx, query, args...).Scan(dest...)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, types.ErrNotFound
	}
	if err != nil {
		return nil, &types.PersistenceError{Op: "load image", Err: err}
	}

	rec.Format = format.String
	rec.Width = int(width.Int64)
	rec.Height = int(height.Int64)
	rec.Size = size.Int64
	rec.CreatedAt = created.String
	rec.ModifiedAt = modified.String
	rec.AverageHash = avg.String
	rec.PerceptualHash = phash.String
	rec.CollectionID = collectionID.Int64
	if takenAt.Valid {
		if t, err := time.Parse(time.RFC3339, takenAt.String); err == nil {
			rec.TakenAt = &t
		}
	}
	if extra.Valid && extra.String != "" {
		if err := json.Unmarshal([]byte(extra.String), &rec.Extra); err != nil {
			return nil, &types.PersistenceError{Op: "decode extra fields", Err: err}
		}
	}
	for i, name := range types.StringFields {
		rec.Set(name, fields[i])
	}

	if rec.Tags, err = s.TagsFor(ctx, rec.ID); err != nil {
		return nil, &types.PersistenceError{Op: "load tags", Err: err}
	}
	return &rec, nil
}

// ResetProcessed clears the processed flag so the next save runs the pipeline again
func (s *Store) ResetProcessed(ctx context.Context, id int64) error {
	_, err := s.db.ExecContext(ctx, "UPDATE images SET has_processed_metadata = 0 WHERE id = ?", id)
	if err != nil {
		return &types.PersistenceError{Op: "reset processed flag", Err: err}
	}
	return nil
}
