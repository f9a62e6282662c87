package main

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	"github.com/dewi-tim/vgmlibrarian/internal/app"
	"github.com/dewi-tim/vgmlibrarian/internal/logger"
)

var playCmd = &cobra.Command{
	Use:   "play [flags] {files or directories}",
	Short: "Play music files without the interface.",
	Long: `Queue the given files and play them in order. Directories are
expanded to the supported files they contain and archives to their SPC
members. With --loop the queue repeats until interrupted with Ctrl-C.`,
	Args: cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()
		recursive, _ := cmd.Flags().GetBool("recursive")

		a := newApp(ctx)

		// Play drives the queue itself.
		autoAdvance := false
		ctrl := newController(context.WithoutCancel(ctx), a, &autoAdvance)

		err := a.Play(ctx, ctrl, args, recursive)
		if cerr := ctrl.Close(); cerr != nil {
			logger.ErrorKV(ctx, "Failed to shut down playback", "error", cerr)
		}

		switch {
		case errors.Is(err, app.ErrNothingToPlay):
			logger.Fatalf(ctx, "No playable tracks in the given paths")
		case err != nil:
			logger.Fatalf(ctx, "Playback failed: %v", err)
		}
	},
}

func init() {
	playCmd.Flags().BoolP("recursive", "r", false, "descend into subdirectories.")
}
