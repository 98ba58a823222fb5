package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abelbrown/tend/internal/prefs"
)

var prefsPath string

var prefsCmd = &cobra.Command{
	Use:   "prefs",
	Short: "Read and write the preference store",
}

var prefsGetCmd = &cobra.Command{
	Use:   "get <namespace> <key>",
	Short: "Print a preference value",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := prefs.Open(prefsStorePath())
		if err != nil {
			return err
		}
		fmt.Println(store.Get(args[0], args[1], ""))
		return nil
	},
}

var prefsSetCmd = &cobra.Command{
	Use:   "set <namespace> <key> <value>",
	Short: "Set a preference value",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := prefs.Open(prefsStorePath())
		if err != nil {
			return err
		}
		return store.Set(args[0], args[1], args[2])
	},
}

func prefsStorePath() string {
	if prefsPath != "" {
		return prefsPath
	}
	return prefs.DefaultPath()
}

func init() {
	prefsCmd.PersistentFlags().StringVar(&prefsPath, "path", "", "Preference file path (default: ~/.tend/prefs.json)")
	prefsCmd.AddCommand(prefsGetCmd, prefsSetCmd)
	RootCmd.AddCommand(prefsCmd)
}
