package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/msto63/sexpad/pkg/core/version"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		info := version.Get()
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "sexpad v%s\n", info.Version)
		fmt.Fprintf(out, "  Git Commit: %s\n", info.Commit)
		fmt.Fprintf(out, "  Build Date: %s\n", info.BuildDate)
		fmt.Fprintf(out, "  Go Version: %s\n", info.GoVersion)
		fmt.Fprintf(out, "  OS/Arch:    %s\n", info.Platform)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
