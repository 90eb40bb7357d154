package cmd

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/researchaccelerator-hub/media-gateway/aggregator"
	"github.com/researchaccelerator-hub/media-gateway/extractor/backend"
	"github.com/researchaccelerator-hub/media-gateway/model"
)

func init() {
	rootCmd.AddCommand(streamsCmd)
}

var streamsCmd = &cobra.Command{
	Use:   "streams <videoId>",
	Short: "List the stream renditions of a video",
	Long:  "Resolve a video and print every rendition with its itag. Adaptive renditions marked fetchable can be requested from /vid/{videoId}/{itag}.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		backends, err := backend.NewDefaultFactory().Create(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		defer backends.Close(cmd.Context())

		set, err := backends.Resolver.Streams(cmd.Context(), args[0])
		if err != nil {
			return fmt.Errorf("failed to resolve streams for %s: %w", args[0], err)
		}
		return printCandidates(cmd.OutOrStdout(), aggregator.StreamCandidates(set))
	},
}

func printCandidates(out io.Writer, candidates []model.StreamCandidate) error {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ITAG\tKIND\tBITRATE\tRESOLUTION\tMIME\tFETCHABLE")
	for _, c := range candidates {
		fmt.Fprintf(w, "%d\t%s\t%d\t%s\t%s\t%t\n",
			c.Itag, c.Kind, c.Bitrate, c.Resolution.OrElse("-"), c.MimeType, c.Fetchable())
	}
	return w.Flush()
}
