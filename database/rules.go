package database

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"exifimage/types"
)

// RulesFor returns a user's transformation rules in creation order
func (s *Store) RulesFor(ctx context.Context, userID int64) ([]types.TransformationRule, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, user_id, source_field, keywords, target_value, target_field
		FROM transformation_rules WHERE user_id = ? ORDER BY id`, userID)
	if err != nil {
		return nil, &types.PersistenceError{Op: "load rules", Err: err}
	}
	defer rows.Close()

	rules := make([]types.TransformationRule, 0)
	for rows.Next() {
		var r types.TransformationRule
		var keywords string
		if err := rows.Scan(&r.ID, &r.UserID, &r.SourceField, &keywords, &r.TargetValue, &r.TargetField); err != nil {
			return nil, &types.PersistenceError{Op: "load rules", Err: err}
		}
		r.Keywords = types.ParseKeywordList(keywords)
		rules = append(rules, r)
	}
	return rules, rows.Err()
}

// DefaultsFor returns a user's default values in creation order
func (s *Store) DefaultsFor(ctx context.Context, userID int64) ([]types.DefaultValue, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, user_id, camera_make, camera_model, target_field, target_value
		FROM default_values WHERE user_id = ? ORDER BY id`, userID)
	if err != nil {
		return nil, &types.PersistenceError{Op: "load defaults", Err: err}
	}
	defer rows.Close()

	defaults := make([]types.DefaultValue, 0)
	for rows.Next() {
		var d types.DefaultValue
		if err := rows.Scan(&d.ID, &d.UserID, &d.CameraMake, &d.CameraModel, &d.TargetField, &d.TargetValue); err != nil {
			return nil, &types.PersistenceError{Op: "load defaults", Err: err}
		}
		defaults = append(defaults, d)
	}
	return defaults, rows.Err()
}

const setupColumns = `id, user_id, camera_make, camera_model, convert_categories_to_collections, category_divider,
	convert_camera_make_to_tag, convert_camera_model_to_tag, convert_lens_make_to_tag, convert_lens_model_to_tag,
	copy_caption_headline_to_title, keywords_to_ignore, characters_to_trim`

func scanSetup(row interface{ Scan(...interface{}) error }) (types.TransformationSetup, error) {
	var t types.TransformationSetup
	err := row.Scan(&t.ID, &t.UserID, &t.CameraMake, &t.CameraModel, &t.ConvertCategoriesToCollections, &t.CategoryDivider,
		&t.ConvertCameraMakeToTag, &t.ConvertCameraModelToTag, &t.ConvertLensMakeToTag, &t.ConvertLensModelToTag,
		&t.CopyCaptionHeadlineToTitleIfMissing, &t.KeywordsToIgnore, &t.CharactersToTrimFromKeywords)
	return t, err
}

// SetupFor returns the setup for a camera, matched case-insensitively, or types.ErrNoSetup
func (s *Store) SetupFor(ctx context.Context, userID int64, cameraMake, cameraModel string) (*types.TransformationSetup, error) {
	if strings.TrimSpace(cameraMake) == "" || strings.TrimSpace(cameraModel) == "" {
		return nil, types.ErrNoSetup
	}

	row := s.db.QueryRowContext(ctx, "SELECT "+setupColumns+` FROM transformation_setups
		WHERE user_id = ? AND lower(camera_make) = lower(?) AND lower(camera_model) = lower(?)`,
		userID, strings.TrimSpace(cameraMake), strings.TrimSpace(cameraModel))
	setup, err := scanSetup(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, types.ErrNoSetup
	}
	if err != nil {
		return nil, &types.PersistenceError{Op: "load setup", Err: err}
	}
	return &setup, nil
}

// SetupsFor returns every setup of a user
func (s *Store) SetupsFor(ctx context.Context, userID int64) ([]types.TransformationSetup, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT "+setupColumns+" FROM transformation_setups WHERE user_id = ? ORDER BY id", userID)
	if err != nil {
		return nil, &types.PersistenceError{Op: "load setups", Err: err}
	}
	defer rows.Close()

	setups := make([]types.TransformationSetup, 0)
	for rows.Next() {
		setup, err := scanSetup(rows)
		if err != nil {
			return nil, &types.PersistenceError{Op: "load setups", Err: err}
		}
		setups = append(setups, setup)
	}
	return setups, rows.Err()
}

// AddRule normalizes and stores a rule. Storing the same rule again updates its target value.
func (s *Store) AddRule(ctx context.Context, userID int64, rule types.TransformationRule) (types.TransformationRule, error) {
	return addRule(ctx, s.db, userID, rule)
}

func addRule(ctx context.Context, q querier, userID int64, rule types.TransformationRule) (types.TransformationRule, error) {
	rule, err := types.NormalizeRule(rule)
	if err != nil {
		return rule, err
	}
	rule.UserID = userID
	keywords := strings.Join(rule.Keywords, ",")

	_, err = q.ExecContext(ctx, `
		INSERT INTO transformation_rules (user_id, source_field, keywords, target_value, target_field)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(user_id, source_field, keywords, target_field) DO UPDATE SET target_value = excluded.target_value`,
		userID, rule.SourceField, keywords, rule.TargetValue, rule.TargetField)
	if err != nil {
		return rule, &types.PersistenceError{Op: "save rule", Err: err}
	}

	err = q.QueryRowContext(ctx, `
		SELECT id FROM transformation_rules
		WHERE user_id = ? AND source_field = ? AND keywords = ? AND target_field = ?`,
		userID, rule.SourceField, keywords, rule.TargetField).Scan(&rule.ID)
	if err != nil {
		return rule, &types.PersistenceError{Op: "save rule", Err: err}
	}
	return rule, nil
}

// AddDefault normalizes and stores a default value, replacing the value of an existing one
func (s *Store) AddDefault(ctx context.Context, userID int64, d types.DefaultValue) (types.DefaultValue, error) {
	return addDefault(ctx, s.db, userID, d)
}

func addDefault(ctx context.Context, q querier, userID int64, d types.DefaultValue) (types.DefaultValue, error) {
	d, err := types.NormalizeDefault(d)
	if err != nil {
		return d, err
	}
	d.UserID = userID

	_, err = q.ExecContext(ctx, `
		INSERT INTO default_values (user_id, camera_make, camera_model, target_field, target_value)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(user_id, camera_make, camera_model, target_field) DO UPDATE SET target_value = excluded.target_value`,
		userID, d.CameraMake, d.CameraModel, d.TargetField, d.TargetValue)
	if err != nil {
		return d, &types.PersistenceError{Op: "save default", Err: err}
	}

	err = q.QueryRowContext(ctx, `
		SELECT id FROM default_values
		WHERE user_id = ? AND camera_make = ? AND camera_model = ? AND target_field = ?`,
		userID, d.CameraMake, d.CameraModel, d.TargetField).Scan(&d.ID)
	if err != nil {
		return d, &types.PersistenceError{Op: "save default", Err: err}
	}
	return d, nil
}

// SaveSetup normalizes and stores a setup; one setup exists per user and camera
func (s *Store) SaveSetup(ctx context.Context, userID int64, setup types.TransformationSetup) (types.TransformationSetup, error) {
	var saved types.TransformationSetup
	err := s.withTx(ctx, func(q querier) error {
		var err error
		saved, err = saveSetup(ctx, q, userID, setup)
		return err
	})
	return saved, err
}

func saveSetup(ctx context.Context, q querier, userID int64, setup types.TransformationSetup) (types.TransformationSetup, error) {
	setup, err := types.NormalizeSetup(setup)
	if err != nil {
		return setup, err
	}
	setup.UserID = userID

	err = q.QueryRowContext(ctx, `
		SELECT id FROM transformation_setups
		WHERE user_id = ? AND lower(camera_make) = lower(?) AND lower(camera_model) = lower(?)`,
		userID, setup.CameraMake, setup.CameraModel).Scan(&setup.ID)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return setup, &types.PersistenceError{Op: "save setup", Err: err}
	}

	values := []interface{}{
		setup.CameraMake, setup.CameraModel, setup.ConvertCategoriesToCollections, setup.CategoryDivider,
		setup.ConvertCameraMakeToTag, setup.ConvertCameraModelToTag, setup.ConvertLensMakeToTag, setup.ConvertLensModelToTag,
		setup.CopyCaptionHeadlineToTitleIfMissing, setup.KeywordsToIgnore, setup.CharactersToTrimFromKeywords,
	}

	if setup.ID != 0 {
		_, err = q.ExecContext(ctx, `
			UPDATE transformation_setups SET camera_make = ?, camera_model = ?, convert_categories_to_collections = ?,
				category_divider = ?, convert_camera_make_to_tag = ?, convert_camera_model_to_tag = ?,
				convert_lens_make_to_tag = ?, convert_lens_model_to_tag = ?, copy_caption_headline_to_title = ?,
				keywords_to_ignore = ?, characters_to_trim = ?
			WHERE id = ?`, append(values, setup.ID)...)
		if err != nil {
			return setup, &types.PersistenceError{Op: "save setup", Err: err}
		}
		return setup, nil
	}

	res, err := q.ExecContext(ctx, `
		INSERT INTO transformation_setups (user_id, camera_make, camera_model, convert_categories_to_collections,
			category_divider, convert_camera_make_to_tag, convert_camera_model_to_tag, convert_lens_make_to_tag,
			convert_lens_model_to_tag, copy_caption_headline_to_title, keywords_to_ignore, characters_to_trim)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`, append([]interface{}{userID}, values...)...)
	if err != nil {
		return setup, &types.PersistenceError{Op: "save setup", Err: err}
	}
	setup.ID, err = res.LastInsertId()
	return setup, err
}

// ImportRules stores rules, defaults and setups for a user in one transaction
func (s *Store) ImportRules(ctx context.Context, userID int64, rules []types.TransformationRule, defaults []types.DefaultValue, setups []types.TransformationSetup) error {
	return s.withTx(ctx, func(q querier) error {
		for _, r := range rules {
			if _, err := addRule(ctx, q, userID, r); err != nil {
				return err
			}
		}
		for _, d := range defaults {
			if _, err := addDefault(ctx, q, userID, d); err != nil {
				return err
			}
		}
		for _, setup := range setups {
			if _, err := saveSetup(ctx, q, userID, setup); err != nil {
				return err
			}
		}
		return nil
	})
}
