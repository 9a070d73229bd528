package database

import (
	"strings"

	"exifimage/types"
)

// RootCollectionID is the id of the single collection tree root
const RootCollectionID = 1

const createTablesSQL = `
	CREATE TABLE IF NOT EXISTS users (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		username TEXT NOT NULL UNIQUE
	);

	CREATE TABLE IF NOT EXISTS upload_keys (
		user_id INTEGER NOT NULL UNIQUE REFERENCES users(id) ON DELETE CASCADE,
		key TEXT NOT NULL UNIQUE
	);

	CREATE TABLE IF NOT EXISTS collections (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		parent_id INTEGER REFERENCES collections(id),
		name TEXT NOT NULL,
		depth INTEGER NOT NULL DEFAULT 0,
		UNIQUE(parent_id, name)
	);
	INSERT OR IGNORE INTO collections (id, parent_id, name, depth) VALUES (1, NULL, 'Root', 0);

	CREATE TABLE IF NOT EXISTS tags (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL UNIQUE
	);

	CREATE TABLE IF NOT EXISTS image_tags (
		image_id INTEGER NOT NULL REFERENCES images(id) ON DELETE CASCADE,
		tag_id INTEGER NOT NULL REFERENCES tags(id) ON DELETE CASCADE,
		PRIMARY KEY (image_id, tag_id)
	);

	CREATE TABLE IF NOT EXISTS transformation_rules (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		user_id INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		source_field TEXT NOT NULL,
		keywords TEXT NOT NULL,
		target_value TEXT NOT NULL,
		target_field TEXT NOT NULL,
		UNIQUE(user_id, source_field, keywords, target_field)
	);

	CREATE TABLE IF NOT EXISTS default_values (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		user_id INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		camera_make TEXT NOT NULL,
		camera_model TEXT NOT NULL,
		target_field TEXT NOT NULL,
		target_value TEXT NOT NULL,
		UNIQUE(user_id, camera_make, camera_model, target_field)
	);

	CREATE TABLE IF NOT EXISTS transformation_setups (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		user_id INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		camera_make TEXT NOT NULL,
		camera_model TEXT NOT NULL,
		convert_categories_to_collections INTEGER NOT NULL DEFAULT 0,
		category_divider TEXT NOT NULL DEFAULT '/',
		convert_camera_make_to_tag INTEGER NOT NULL DEFAULT 0,
		convert_camera_model_to_tag INTEGER NOT NULL DEFAULT 0,
		convert_lens_make_to_tag INTEGER NOT NULL DEFAULT 0,
		convert_lens_model_to_tag INTEGER NOT NULL DEFAULT 0,
		copy_caption_headline_to_title INTEGER NOT NULL DEFAULT 0,
		keywords_to_ignore TEXT NOT NULL DEFAULT '',
		characters_to_trim TEXT NOT NULL DEFAULT '~'
	);
	CREATE UNIQUE INDEX IF NOT EXISTS idx_setup_camera
		ON transformation_setups(user_id, lower(camera_make), lower(camera_model));`

// imageColumns lists the fixed columns of the images table in insert order
var imageColumns = []string{
	"owner_id", "path", "format", "width", "height", "size", "created_at", "modified_at",
	"average_hash", "perceptual_hash", "collection_id", "date_time_original",
	"has_processed_metadata", "extra",
}

// createImagesSQL builds the images table with one TEXT column per record field
func createImagesSQL() string {
	var b strings.Builder
	b.WriteString(`
	CREATE TABLE IF NOT EXISTS images (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		owner_id INTEGER NOT NULL REFERENCES users(id),
		path TEXT NOT NULL,
		format TEXT,
		width INTEGER,
		height INTEGER,
		size INTEGER,
		created_at TEXT,
		modified_at TEXT,
		average_hash TEXT,
		perceptual_hash TEXT,
		collection_id INTEGER REFERENCES collections(id),
		date_time_original TEXT,
		has_processed_metadata INTEGER NOT NULL DEFAULT 0,
		extra TEXT`)
	for _, field := range types.StringFields {
		b.WriteString(",\n\t\t")
		b.WriteString(field)
		b.WriteString(" TEXT NOT NULL DEFAULT ''")
	}
	b.WriteString(`,
		UNIQUE(owner_id, path)
	);
	CREATE INDEX IF NOT EXISTS idx_path ON images(path);
	CREATE INDEX IF NOT EXISTS idx_average_hash ON images(average_hash);
	CREATE INDEX IF NOT EXISTS idx_perceptual_hash ON images(perceptual_hash);`)
	return b.String()
}
