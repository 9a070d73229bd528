package database

import (
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/mattn/go-sqlite3"

	"exifimage/logging"
	"exifimage/types"
)

// InitDatabase opens the database and creates any missing tables and columns
func InitDatabase(dbPath string) (*sql.DB, error) {
	db, err := OpenDatabase(dbPath)
	if err != nil {
		return nil, err
	}

	if _, err = db.Exec(createImagesSQL()); err != nil {
		db.Close()
		return nil, fmt.Errorf("error creating images table: %w", err)
	}
	if _, err = db.Exec(createTablesSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("error creating tables: %w", err)
	}

	// Databases created by an older build may lack some field columns
	for _, field := range types.StringFields {
		if err := addColumnIfMissing(db, "images", field, "TEXT NOT NULL DEFAULT ''"); err != nil {
			db.Close()
			return nil, err
		}
	}

	return db, nil
}

// OpenDatabase opens an existing database connection
func OpenDatabase(dbPath string) (*sql.DB, error) {
	dsn := dbPath
	if !strings.Contains(dsn, "?") {
		dsn += "?_foreign_keys=on&_busy_timeout=5000&_journal_mode=WAL&_txlock=immediate"
	}
	return sql.Open("sqlite3", dsn)
}

func addColumnIfMissing(db *sql.DB, table, column, definition string) error {
	var hasColumn bool
	err := db.QueryRow("SELECT COUNT(*) FROM pragma_table_info(?) WHERE name = ?", table, column).Scan(&hasColumn)
	if err != nil {
		return fmt.Errorf("error checking for %s column: %w", column, err)
	}
	if hasColumn {
		return nil
	}

	if _, err = db.Exec(fmt.Sprintf("ALTER TABLE %s ADD COLUMN %s %s", table, column, definition)); err != nil {
		return fmt.Errorf("error adding %s column: %w", column, err)
	}
	logging.DebugLog("Added '%s' column to existing %s table", column, table)
	return nil
}

// CheckImageExists reports whether an owner already has an image at path,
// together with its stored modification time and processed flag.
func CheckImageExists(db *sql.DB, path string, ownerID int64) (bool, string, bool, error) {
	var modTime sql.NullString
	var processed bool
	err := db.QueryRow("SELECT modified_at, has_processed_metadata FROM images WHERE path = ? AND owner_id = ?", path, ownerID).
		Scan(&modTime, &processed)
	if err == sql.ErrNoRows {
		return false, "", false, nil
	}
	if err != nil {
		return false, "", false, fmt.Errorf("database error for %s: %w", path, err)
	}
	return true, modTime.String, processed, nil
}

// ScanStats contains statistics about the stored images of an owner
type ScanStats struct {
	TotalImages     int
	ProcessedImages int
	UniqueHashes    int
	Collections     int
	Tags            int
}

// GetScanStats retrieves statistics about stored images
func GetScanStats(db *sql.DB, ownerID int64) (*ScanStats, error) {
	var stats ScanStats

	queries := []struct {
		query string
		dest  *int
		args  []interface{}
	}{
		{"SELECT COUNT(*) FROM images WHERE owner_id = ?", &stats.TotalImages, []interface{}{ownerID}},
		{"SELECT COUNT(*) FROM images WHERE owner_id = ? AND has_processed_metadata = 1", &stats.ProcessedImages, []interface{}{ownerID}},
		{"SELECT COUNT(DISTINCT average_hash) FROM images WHERE owner_id = ? AND average_hash != ''", &stats.UniqueHashes, []interface{}{ownerID}},
		{"SELECT COUNT(*) FROM collections WHERE parent_id IS NOT NULL", &stats.Collections, nil},
		{"SELECT COUNT(DISTINCT it.tag_id) FROM image_tags it JOIN images i ON i.id = it.image_id WHERE i.owner_id = ?", &stats.Tags, []interface{}{ownerID}},
	}

	for _, q := range queries {
		if err := db.QueryRow(q.query, q.args...).Scan(q.dest); err != nil {
			return nil, fmt.Errorf("failed to get scan stats: %w", err)
		}
	}

	return &stats, nil
}
