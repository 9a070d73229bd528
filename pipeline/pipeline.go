// Package pipeline runs the metadata processing state machine for a stored image.
package pipeline

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"exifimage/extractor"
	"exifimage/logging"
	"exifimage/metadata"
	"exifimage/transform"
	"exifimage/types"
)

// Persistence stores images, tags and the collection tree
type Persistence interface {
	GetRoot(ctx context.Context) (types.CollectionNode, error)
	GetOrCreateChild(ctx context.Context, parent types.CollectionNode, name string) (types.CollectionNode, error)
	SaveImage(ctx context.Context, rec *types.ImageRecord) error
	AddTag(ctx context.Context, rec *types.ImageRecord, tag string) error
}

// RuleStore gives read access to a user's rules, defaults and setups
type RuleStore interface {
	RulesFor(ctx context.Context, userID int64) ([]types.TransformationRule, error)
	DefaultsFor(ctx context.Context, userID int64) ([]types.DefaultValue, error)
	SetupFor(ctx context.Context, userID int64, cameraMake, cameraModel string) (*types.TransformationSetup, error)
	SetupsFor(ctx context.Context, userID int64) ([]types.TransformationSetup, error)
}

// Request carries what the caller knows about an upload
type Request struct {
	// Raw replaces extraction from the file when non-nil
	Raw types.RawMetadata
	// Collections is an explicit collection path that wins over the category
	Collections []string
}

// Run describes a completed pipeline pass
type Run struct {
	Stage      Stage
	Metadata   types.Metadata
	Keywords   []string
	Tags       []string
	Collection []string
	Setup      *types.TransformationSetup
}

// Processor sequences extraction, defaults, rules, tagging and collection assignment
type Processor struct {
	store     Persistence
	rules     RuleStore
	extractor extractor.Extractor
	log       *zap.SugaredLogger
}

// NewProcessor creates a Processor
func NewProcessor(store Persistence, rules RuleStore, ex extractor.Extractor) *Processor {
	return &Processor{
		store:     store,
		rules:     rules,
		extractor: ex,
		log:       logging.Named("pipeline"),
	}
}

// Save persists rec and, unless its metadata has already been processed, runs the pipeline.
// The pipeline finalizes by calling Save again; the processed flag stops that second pass.
func (p *Processor) Save(ctx context.Context, rec *types.ImageRecord, req Request) (*Run, error) {
	if err := p.store.SaveImage(ctx, rec); err != nil {
		return nil, err
	}
	if rec.HasProcessedMetadata {
		return nil, nil
	}
	return p.Process(ctx, rec, req)
}

// Snapshot reads a user's rules, defaults and setups once
func (p *Processor) Snapshot(ctx context.Context, userID int64) (*transform.Snapshot, error) {
	rules, err := p.rules.RulesFor(ctx, userID)
	if err != nil {
		return nil, err
	}
	defaults, err := p.rules.DefaultsFor(ctx, userID)
	if err != nil {
		return nil, err
	}
	setups, err := p.rules.SetupsFor(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &transform.Snapshot{Rules: rules, Defaults: defaults, Setups: setups}, nil
}

// Process runs every stage on a stored record. Only extraction and persistence errors are returned.
func (p *Processor) Process(ctx context.Context, rec *types.ImageRecord, req Request) (*Run, error) {
	if rec.ID == 0 {
		if err := p.store.SaveImage(ctx, rec); err != nil {
			return nil, err
		}
	}

	run := &Run{Stage: StageUploaded}
	log := p.log.With("image", rec.ID, "path", rec.FilePath)
	advance := func(stage Stage) {
		run.Stage = stage
		log.Debugw("stage reached", "stage", stage.String())
	}
	advance(StageUploaded)

	raw := req.Raw
	if raw == nil {
		var err error
		if raw, err = p.extractor.Extract(ctx, rec.FilePath); err != nil {
			var extractionErr *types.ExtractionError
			if !errors.As(err, &extractionErr) {
				err = &types.ExtractionError{Path: rec.FilePath, Err: err}
			}
			log.Warnw("extraction failed", "error", err)
			return run, err
		}
	}
	md := metadata.Remap(raw)
	advance(StageMetadataExtracted)

	snapshot, err := p.Snapshot(ctx, rec.OwnerID)
	if err != nil {
		return run, err
	}

	md = transform.ApplyDefaults(md, snapshot.Defaults)
	advance(StageDefaultsApplied)

	// The setup is chosen by the camera as reported, before rules rename it
	setup, err := snapshot.SetupFor(md.String("camera_make"), md.String("camera_model"))
	if err != nil {
		log.Debugw("no transformation setup", "make", md.String("camera_make"), "model", md.String("camera_model"))
	}
	run.Setup = setup

	md = transform.Transform(md, snapshot.Rules)
	advance(StageTransformed)

	keywords := transform.SplitKeywords(md.String("keywords"))
	if setup != nil {
		keywords = transform.CleanKeywords(keywords, setup.TrimCharacters(), setup.IgnoreList())
	}
	run.Keywords = keywords
	run.Tags = transform.ComputeTags(md, keywords, setup)
	run.Collection = transform.ComputeCollectionPath(req.Collections, md.String("category"), setup)

	if err := attachTags(ctx, p.store, rec, run.Tags); err != nil {
		return run, err
	}
	if len(run.Collection) > 0 {
		node, err := resolveCollection(ctx, p.store, run.Collection)
		if err != nil {
			return run, err
		}
		rec.CollectionID = node.ID
	}
	transform.FillMissingTitle(md, setup)
	advance(StageTaggedAndCollected)

	for field, value := range md {
		rec.Set(field, value)
	}
	rec.Keywords = transform.JoinKeywords(keywords)
	run.Metadata = md

	rec.HasProcessedMetadata = true
	if _, err := p.Save(ctx, rec, req); err != nil {
		rec.HasProcessedMetadata = false
		log.Errorw("finalize failed", "error", err)
		var persistenceErr *types.PersistenceError
		if !errors.As(err, &persistenceErr) {
			err = &types.PersistenceError{Op: "finalize image", Err: err}
		}
		return run, err
	}
	advance(StageFinalized)

	logging.LogImageProcessed(rec.FilePath, true, "")
	return run, nil
}
