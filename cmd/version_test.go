package cmd

import (
	"bytes"
	"runtime/debug"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVersionCmd_Output(t *testing.T) {
	cmd := newVersionCmd()

	out := &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{})

	err := cmd.Execute()
	require.NoError(t, err)

	info, ok := debug.ReadBuildInfo()
	assert.Equal(t, strings.Join(versionLines(info, ok), "\n")+"\n", out.String())
}

func TestVersionLines(t *testing.T) {
	tests := []struct {
		name string
		info *debug.BuildInfo
		ok   bool
		want []string
	}{
		{
			name: "no build info",
			want: []string{"algomate version: unknown"},
		},
		{
			name: "empty main version",
			info: &debug.BuildInfo{GoVersion: "go1.25.1"},
			ok:   true,
			want: []string{"algomate version: unknown"},
		},
		{
			name: "release build",
			info: &debug.BuildInfo{
				GoVersion: "go1.25.1",
				Main:      debug.Module{Path: "algomate.dev/pkg/algomate", Version: "v0.3.0"},
			},
			ok:   true,
			want: []string{"algomate\tv0.3.0", "go version\tgo1.25.1"},
		},
		{
			name: "dirty checkout",
			info: &debug.BuildInfo{
				GoVersion: "go1.25.1",
				Main:      debug.Module{Path: "algomate.dev/pkg/algomate", Version: "(devel)"},
				Settings: []debug.BuildSetting{
					{Key: "vcs", Value: "git"},
					{Key: "vcs.revision", Value: "3f2c1ab"},
					{Key: "vcs.modified", Value: "true"},
				},
			},
			ok:   true,
			want: []string{"algomate\t(devel)", "commit\t3f2c1ab (modified)", "go version\tgo1.25.1"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, versionLines(tt.info, tt.ok))
		})
	}
}
