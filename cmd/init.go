package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// initCmd represents the init command.
var initCmd = newInitCmd()

func newInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Generate a default algomate.yaml configuration file",
		Long: `Create an algomate.yaml in the current working directory populated with the
current defaults (source layout, marker names, stub template) so it can be
edited manually.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			targetPath := filepath.Join(configFolderPath, configFileName)

			err := viper.SafeWriteConfigAs(targetPath)
			if err != nil {
				return fmt.Errorf("failed to write config file: %w", err)
			}

			cmd.Printf("Wrote %s (sources in %s, package root %s)\n",
				targetPath, viper.GetString(sourceDirKey), viper.GetString(sourcePackageRootKey))

			return nil
		},
	}
}

func init() {
	rootCmd.AddCommand(initCmd)
}
