package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"exifimage/database"
	"exifimage/types"
)

var collectionsCmd = &cobra.Command{
	Use:   "collections",
	Short: "Print the collection tree",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.Close()

		root, err := a.store.GetRoot(cmd.Context())
		if err != nil {
			return err
		}
		return printCollections(cmd.Context(), a.store, root)
	},
}

func printCollections(ctx context.Context, store *database.Store, node types.CollectionNode) error {
	if node.IsRoot() {
		fmt.Println(node.Name)
	} else {
		path, err := store.CollectionPath(ctx, node.ID)
		if err != nil {
			return err
		}
		fmt.Printf("%s%s  (%s)\n", strings.Repeat("  ", node.Depth), node.Name, strings.Join(path, "/"))
	}

	children, err := store.Children(ctx, node.ID)
	if err != nil {
		return err
	}
	for _, child := range children {
		if err := printCollections(ctx, store, child); err != nil {
			return err
		}
	}
	return nil
}

func init() {
	rootCmd.AddCommand(collectionsCmd)
}
