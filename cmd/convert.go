package cmd

import (
	"context"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"algomate.dev/pkg/algomate/internal/domain"
)

var dryRunFlag bool
var diffFlag bool
var convertParallelFlag int

// convertCmd represents the convert command.
var convertCmd = newConvertCmd()

func newConvertCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "convert [repositories...]",
		Short: "Convert instructor repositories into student skeletons",
		Long:  convertLongDescription,
		RunE: func(_ *cobra.Command, args []string) error {
			if converterErr != nil {
				return converterErr
			}

			return workflow.Convert(context.Background(), domain.ConvertArgs{
				Paths:    parsePaths(args),
				DryRun:   dryRunFlag,
				Diff:     diffFlag,
				Parallel: viper.GetInt(runParallelConfigKey),
			})
		},
	}

	configureConvertFlags(cmd)

	return cmd
}

func init() {
	rootCmd.AddCommand(convertCmd)
}

func configureConvertFlags(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&dryRunFlag, dryRunFlagName, false, "render the result without writing or deleting files")
	cmd.Flags().BoolVar(&diffFlag, diffFlagName, false, "print a unified diff of every changed file")
	cmd.Flags().IntVarP(&convertParallelFlag, runParallelFlagName, "p", viper.GetInt(runParallelConfigKey), "number of repositories converted in parallel")
	bindFlagToConfig(cmd.Flags().Lookup(runParallelFlagName), runParallelConfigKey)
}
