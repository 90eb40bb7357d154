package cmd

import (
	"runtime"

	"github.com/spf13/cobra"
)

// Set at build time with -ldflags "-X github.com/researchaccelerator-hub/media-gateway/cmd.Version=..."
var (
	Version  = "dev"
	Revision = "unknown"
)

func init() {
	rootCmd.AddCommand(versionCmd)
	versionCmd.Flags().BoolP("short", "s", false, "Print only the version")
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		if short, _ := cmd.Flags().GetBool("short"); short {
			cmd.Println(Version)
			return
		}
		cmd.Printf("media-gateway %s (revision %s, %s, %s/%s)\n",
			Version, Revision, runtime.Version(), runtime.GOOS, runtime.GOARCH)
	},
}
