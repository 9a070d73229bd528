package pipeline

import (
	"context"

	"exifimage/types"
)

// attachTags adds every tag to the stored image
func attachTags(ctx context.Context, store Persistence, rec *types.ImageRecord, tags []string) error {
	for _, tag := range tags {
		if err := store.AddTag(ctx, rec, tag); err != nil {
			return err
		}
	}
	return nil
}

// resolveCollection walks path from the root, creating missing nodes, and returns the last node
func resolveCollection(ctx context.Context, store Persistence, path []string) (types.CollectionNode, error) {
	node, err := store.GetRoot(ctx)
	if err != nil {
		return node, err
	}
	for _, name := range path {
		if node, err = store.GetOrCreateChild(ctx, node, name); err != nil {
			return node, err
		}
	}
	return node, nil
}
