package cli

import (
	"fmt"
	"runtime/debug"

	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Run: func(cmd *cobra.Command, args []string) {
		version := "dev"
		commit := ""

		if info, ok := debug.ReadBuildInfo(); ok {
			if len(info.Main.Version) > 0 && info.Main.Version != "(devel)" {
				version = info.Main.Version
			}
			for _, setting := range info.Settings {
				if setting.Key == "vcs.revision" {
					commit = setting.Value
				}
			}
		}

		fmt.Printf("CapitalSync %s", version)
		if len(commit) > 8 {
			fmt.Printf(" (git: %s)", commit[:8])
		}
		fmt.Println()
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
