package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"exifimage/pipeline"
)

var processForce bool

var processCmd = &cobra.Command{
	Use:   "process <image-id>",
	Short: "Run the metadata pipeline on a stored image",
	Long: `Saves a stored image, which runs the pipeline unless the image was already processed.
Use --force to clear the processed flag first.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid image id %q: %w", args[0], err)
		}

		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.Close()

		ctx := cmd.Context()
		if processForce {
			if err := a.store.ResetProcessed(ctx, id); err != nil {
				return err
			}
		}
		rec, err := a.store.GetImage(ctx, id)
		if err != nil {
			return fmt.Errorf("cannot load image %d: %w", id, err)
		}

		run, err := a.processor.Save(ctx, rec, pipeline.Request{})
		if err != nil {
			return err
		}
		if run == nil {
			fmt.Printf("Image %d was already processed (use --force)\n", id)
			return nil
		}

		fmt.Printf("Image %d: %s\n", id, run.Stage)
		fmt.Printf("  title:      %s\n", rec.Title)
		fmt.Printf("  tags:       %v\n", run.Tags)
		fmt.Printf("  collection: %v\n", run.Collection)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(processCmd)
	processCmd.Flags().BoolVar(&processForce, "force", false, "Clear the processed flag and run the pipeline again")
}
