package cmd

import (
	"context"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"algomate.dev/pkg/algomate/internal/domain"
	m "algomate.dev/pkg/algomate/internal/model"
)

var reportFlag string

// planCmd represents the plan command.
var planCmd = newPlanCmd()

func newPlanCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "plan [repository]",
		Short: "Show the redaction plan of a repository",
		Long:  planLongDescription,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			if converterErr != nil {
				return converterErr
			}

			root := m.Path(".")
			if len(args) == 1 {
				root = m.Path(args[0])
			}

			return workflow.Plan(context.Background(), domain.PlanArgs{
				Path:   root,
				Report: m.Path(viper.GetString(reportConfigKey)),
			})
		},
	}

	cmd.Flags().StringVarP(&reportFlag, reportFlagName, "r", viper.GetString(reportConfigKey), "save the plan as a YAML report to this file")
	bindFlagToConfig(cmd.Flags().Lookup(reportFlagName), reportConfigKey)

	return cmd
}

func init() {
	rootCmd.AddCommand(planCmd)
}
