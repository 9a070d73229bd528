package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var uploadKeyCmd = &cobra.Command{
	Use:   "upload-key <username>",
	Short: "Print the upload key of a user, creating the user and key if needed",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.Close()

		user, err := a.store.GetOrCreateUser(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		key, err := a.store.GetOrCreateUploadKey(cmd.Context(), user.ID)
		if err != nil {
			return err
		}

		fmt.Println(key)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(uploadKeyCmd)
}
