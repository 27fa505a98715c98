package cmd

import (
	"runtime/debug"

	"github.com/spf13/cobra"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show the version information",
		Long:  "Displays the build version, VCS revision and Go version used to build algomate.",
		Run: func(cmd *cobra.Command, _ []string) {
			info, ok := debug.ReadBuildInfo()
			for _, line := range versionLines(info, ok) {
				cmd.Println(line)
			}
		},
	}
}

// versionLines renders the build information of the running binary.
func versionLines(info *debug.BuildInfo, ok bool) []string {
	if !ok || info == nil || info.Main.Version == "" {
		return []string{"algomate version: unknown"}
	}

	lines := []string{"algomate\t" + info.Main.Version}

	var revision, modified string
	for _, setting := range info.Settings {
		switch setting.Key {
		case "vcs.revision":
			revision = setting.Value
		case "vcs.modified":
			modified = setting.Value
		}
	}

	if revision != "" {
		if modified == "true" {
			revision += " (modified)"
		}

		lines = append(lines, "commit\t"+revision)
	}

	return append(lines, "go version\t"+info.GoVersion)
}

// versionCmd represents the version command.
var versionCmd = newVersionCmd()

func init() {
	rootCmd.AddCommand(versionCmd)
}
