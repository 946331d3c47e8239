package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/reelscribe/backend/internal/urldetect"
)

func newProcessCommand(flags *clientFlags) *cobra.Command {
	var outputFile string

	cmd := &cobra.Command{
		Use:   "process [URL]",
		Short: "Turn a social-video URL into a transcript",
		Example: `  # Transcribe a video (subtitles first, speech recognition fallback)
  reelscribe process "https://www.youtube.com/watch?v=dQw4w9WgXcQ"

  # Save the transcript text to a file
  reelscribe process "https://youtu.be/dQw4w9WgXcQ" -o transcript.txt`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			videoURL := args[0]
			if !urldetect.Validate(videoURL) {
				return fmt.Errorf("unsupported video URL: %s", videoURL)
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), flags.timeout)
			defer cancel()

			c := flags.newClient()
			defer c.Close()

			result, err := c.ProcessVideo(ctx, videoURL)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.ErrOrStderr(), "run %s (source: %s)\n", result.RunID, result.Source)

			if outputFile != "" {
				return os.WriteFile(outputFile, []byte(result.Transcript.Text), 0644)
			}
			fmt.Fprintln(cmd.OutOrStdout(), result.Transcript.Text)
			return nil
		},
	}

	cmd.Flags().StringVarP(&outputFile, "output", "o", "", "Output file path (default: stdout)")
	return cmd
}
