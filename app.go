package main

import (
	"context"
	"database/sql"
	"fmt"

	"exifimage/database"
	"exifimage/extractor"
	"exifimage/imageprocessor"
	"exifimage/pipeline"
	"exifimage/scanner"
	"exifimage/types"
)

// app wires the stores and services used by the commands
type app struct {
	db         *sql.DB
	store      *database.Store
	extractors *extractor.Registry
	processor  *pipeline.Processor
	scanner    *scanner.Scanner
}

func openApp() (*app, error) {
	db, err := database.InitDatabase(cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	store := database.NewStore(db)
	extractors := extractor.NewRegistry(cfg.Exiftool)
	processor := pipeline.NewProcessor(store, store, extractors)

	return &app{
		db:         db,
		store:      store,
		extractors: extractors,
		processor:  processor,
		scanner:    scanner.New(store, processor, imageprocessor.NewFingerprinter()),
	}, nil
}

func (a *app) user(ctx context.Context) (*types.User, error) {
	return a.store.GetOrCreateUser(ctx, username)
}

func (a *app) Close() {
	a.extractors.Close()
	a.db.Close()
}
