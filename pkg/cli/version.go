package cli

import (
	"fmt"
	"runtime"
	"runtime/debug"

	"github.com/spf13/cobra"

	"github.com/getchaosd/chaosd/pkg/cli/internal/output"
)

// VersionInfo is the resolved build information for this binary.
type VersionInfo struct {
	Version  string `json:"version"`
	Commit   string `json:"commit"`
	Dirty    bool   `json:"dirty,omitempty"`
	BuiltAt  string `json:"builtAt"`
	Go       string `json:"go"`
	Platform string `json:"platform"`
}

// resolveVersion merges the ldflags-injected values with whatever the Go
// toolchain embedded. ldflags win when set; VCS stamps fill the gaps for
// plain `go build` / `go install` binaries.
func resolveVersion() VersionInfo {
	v := VersionInfo{
		Version:  Version,
		Commit:   Commit,
		BuiltAt:  BuildDate,
		Go:       runtime.Version(),
		Platform: runtime.GOOS + "/" + runtime.GOARCH,
	}

	info, ok := debug.ReadBuildInfo()
	if !ok {
		return v
	}
	if v.Version == "dev" && info.Main.Version != "" {
		v.Version = info.Main.Version
	}
	for _, setting := range info.Settings {
		switch setting.Key {
		case "vcs.revision":
			if v.Commit == "none" {
				v.Commit = shortCommit(setting.Value)
			}
		case "vcs.time":
			if v.BuiltAt == "unknown" {
				v.BuiltAt = setting.Value
			}
		case "vcs.modified":
			v.Dirty = setting.Value == "true"
		}
	}
	return v
}

// shortCommit trims a full VCS revision to the familiar short form.
func shortCommit(rev string) string {
	if len(rev) > 12 {
		return rev[:12]
	}
	return rev
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show chaosd version information",
	RunE: func(cmd *cobra.Command, args []string) error {
		v := resolveVersion()

		if jsonOutput {
			return output.JSON(v)
		}

		commit := v.Commit
		if v.Dirty {
			commit += " (modified)"
		}
		fmt.Printf("chaosd %s\n", v.Version)
		fmt.Printf("  commit: %s\n", commit)
		fmt.Printf("  built:  %s\n", v.BuiltAt)
		fmt.Printf("  %s, %s\n", v.Go, v.Platform)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
