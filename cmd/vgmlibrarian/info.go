package main

import (
	"errors"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/dewi-tim/vgmlibrarian/internal/app"
	"github.com/dewi-tim/vgmlibrarian/internal/logger"
)

var infoCmd = &cobra.Command{
	Use:   "info [flags] {files or directories}",
	Short: "Print the tags of music files.",
	Long: `Print the tags of VGM, VGZ, SPC and RSN files. Directories are
expanded to the supported files they contain. Archives list every SPC
they hold.`,
	Args: cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()

		output, _ := cmd.Flags().GetString("output")
		recursive, _ := cmd.Flags().GetBool("recursive")

		// The progress bar shares stderr with the log, so it is only shown
		// when the log is not chattier than info.
		var progress io.Writer
		if logger.Level() >= zap.InfoLevel {
			progress = os.Stderr
		}

		err := newApp(ctx).Info(ctx, cmd.OutOrStdout(), args, app.InfoOptions{
			Output:    output,
			Recursive: recursive,
			Progress:  progress,
		})
		switch {
		case errors.Is(err, app.ErrUnreadable):
			logger.Fatalf(ctx, "%v", err)
		case err != nil:
			logger.Fatalf(ctx, "Failed to read metadata: %v", err)
		}
	},
}

func init() {
	infoCmd.Flags().StringP("output", "o", app.OutputText, "output format: text or yaml.")
	infoCmd.Flags().BoolP("recursive", "r", false, "descend into subdirectories.")
}
