package cli

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/eungjin-cigro/cursorflow-sub004/internal/buildinfo"
)

var versionCmd = &cobra.Command{
	Use:     "version",
	Aliases: []string{"v"},
	Short:   "Show version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("Cursorflow %s (%s)\n", buildinfo.Version, buildinfo.CommitHash)
		fmt.Printf("  OS/Arch: %s/%s\n", runtime.GOOS, runtime.GOARCH)
		fmt.Printf("  Go: %s\n", runtime.Version())
	},
}
