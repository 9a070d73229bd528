package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"exifimage/transform"
	"exifimage/types"
)

var (
	listMake  string
	listModel string
)

var rulesCmd = &cobra.Command{
	Use:   "rules",
	Short: "Manage transformation rules, camera defaults and setups",
}

var rulesImportCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Import rules, defaults and setups from a YAML file",
	Long: `Imports a YAML rule file. The file's username wins over --user.
Existing entries with the same keys are updated; the import is all or nothing.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		file, err := transform.LoadRuleFile(args[0])
		if err != nil {
			return err
		}

		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.Close()

		name := file.Username
		if name == "" {
			name = username
		}
		user, err := a.store.GetOrCreateUser(cmd.Context(), name)
		if err != nil {
			return err
		}

		if err := a.store.ImportRules(cmd.Context(), user.ID, file.Rules, file.Defaults, file.Setups); err != nil {
			return err
		}
		fmt.Printf("Imported %d rules, %d defaults and %d setups for %s\n",
			len(file.Rules), len(file.Defaults), len(file.Setups), user.Username)
		return nil
	},
}

var rulesListCmd = &cobra.Command{
	Use:   "list",
	Short: "Print a user's rules as YAML, or the setup of one camera",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.Close()

		user, err := a.user(cmd.Context())
		if err != nil {
			return err
		}

		if listMake != "" || listModel != "" {
			setup, err := a.store.SetupFor(cmd.Context(), user.ID, listMake, listModel)
			if errors.Is(err, types.ErrNoSetup) {
				fmt.Printf("No setup for %s %s\n", listMake, listModel)
				return nil
			}
			if err != nil {
				return err
			}
			return yaml.NewEncoder(os.Stdout).Encode(setup)
		}

		snapshot, err := a.processor.Snapshot(cmd.Context(), user.ID)
		if err != nil {
			return err
		}
		data, err := snapshot.Marshal(user.Username)
		if err != nil {
			return err
		}
		_, err = os.Stdout.Write(data)
		return err
	},
}

func init() {
	rootCmd.AddCommand(rulesCmd)
	rulesCmd.AddCommand(rulesImportCmd, rulesListCmd)
	rulesListCmd.Flags().StringVar(&listMake, "make", "", "Camera make of the setup to show")
	rulesListCmd.Flags().StringVar(&listModel, "model", "", "Camera model of the setup to show")
}
