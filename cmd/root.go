// Package cmd provides the root command and CLI setup for algomate.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"algomate.dev/pkg/algomate/internal/adapter"
	"algomate.dev/pkg/algomate/internal/controller"
	"algomate.dev/pkg/algomate/internal/domain"
	m "algomate.dev/pkg/algomate/internal/model"
)

var javaFileAdapter adapter.JavaFileAdapter
var fsAdapter adapter.SourceFSAdapter
var reportStore adapter.ReportStore
var converter domain.Converter
var workflow domain.Workflow
var ui controller.UI

// converterErr holds a configuration problem found while wiring the
// converter; commands that need the converter report it.
var converterErr error

// verboseFlag switches logging to debug level.
var verboseFlag bool

func init() {
	configureRootFlags(rootCmd)

	// Initialize shared dependencies.
	ui = controller.NewUI(rootCmd, controller.IsTTY(os.Stdout))
	javaFileAdapter = adapter.NewLocalJavaFileAdapter()
	fsAdapter = adapter.NewLocalSourceFSAdapter()
	reportStore = adapter.NewReportStore()
	converter, converterErr = domain.NewConverter(fsAdapter, javaFileAdapter, settingsFromConfig())
	workflow = domain.NewWorkflow(reportStore, ui, converter)
}

const layoutHelp = `Sources are read from <repository>/src/main/java. The qualified name of a
file starts at the first directory matching the package root pattern
(one letter followed by two digits, e.g. h09). Both are configurable in
algomate.yaml or through ALGOMATE_* environment variables.`

const rootLongDescription = `Algomate turns an instructor repository of reference solutions into the
student skeleton: types and members annotated with @SolutionOnly are removed
and methods annotated with @StudentImplementationRequired get a failing stub.

` + layoutHelp

const convertLongDescription = `Convert the given repositories in place (default: current directory).

Rewritten files are fully overwritten, files of solution-only types are
deleted. A failure while writing leaves the files handled so far converted.

` + layoutHelp

const planLongDescription = `Show what a conversion would do without touching the repository.

` + layoutHelp

// rootCmd represents the base command when called without any subcommands.
var rootCmd = newRootCmd()

func newRootCmd() *cobra.Command {
	return &cobra.Command{
		Use:          "algomate",
		Short:        "Derive student skeletons from instructor solutions",
		Long:         rootLongDescription,
		SilenceUsage: true,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			configureLogger(viper.GetString(logFilenameKey), viper.GetBool(logVerboseKey))
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}
}

func configureRootFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().BoolVarP(&verboseFlag, verboseFlagName, "v", viper.GetBool(logVerboseKey), "log at debug level")
	bindFlagToConfig(cmd.PersistentFlags().Lookup(verboseFlagName), logVerboseKey)
}

// bindFlagToConfig wires a Cobra flag to a Viper key so config/env values feed the flag.
func bindFlagToConfig(flag *pflag.Flag, key string) {
	if flag == nil {
		cobra.CheckErr(fmt.Errorf("flag for config key %q not found", key))
		return
	}

	cobra.CheckErr(viper.BindPFlag(key, flag))
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func parsePaths(args []string) []m.Path {
	paths := make([]m.Path, 0, len(args))
	for _, arg := range args {
		paths = append(paths, m.Path(arg))
	}

	return paths
}
