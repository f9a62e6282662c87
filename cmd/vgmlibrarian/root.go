package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/dewi-tim/vgmlibrarian/internal/app"
	"github.com/dewi-tim/vgmlibrarian/internal/config"
	"github.com/dewi-tim/vgmlibrarian/internal/logger"
	"github.com/dewi-tim/vgmlibrarian/internal/player"
)

var (
	configFilenameFromFlag string

	// appConfig is loaded once before any command runs.
	appConfig *config.Config

	rootCmd = &cobra.Command{
		Use:   "vgmlibrarian [flags] [dir]",
		Short: "Browse, inspect and play VGM, VGZ, SPC and RSN files.",
		Long: `vgmlibrarian is a terminal music player for video game music rips.
It reads the tags of:
- VGM and gzip-compressed VGZ files (GD3 tags)
- SPC files (ID666 and extended Xid6 tags)
- RSN archives of SPC files

Without a subcommand it opens a file browser at dir with a play queue.`,
		Args:             cobra.MaximumNArgs(1),
		PersistentPreRun: initConfig,
		Run:              runInterface,
	}
)

// execute runs the root command until it returns or a signal arrives.
func execute() {
	signals := []os.Signal{syscall.SIGHUP, syscall.SIGINT, syscall.SIGTERM}
	ctx, stop := signal.NotifyContext(context.Background(), signals...)

	defer func() {
		_ = logger.Logger().Sync()
	}()

	defer stop()

	done := make(chan struct{})
	go func() {
		defer close(done)
		defer stop()

		err := rootCmd.ExecuteContext(ctx)
		cobra.CheckErr(err)
	}()

	// Commands clean up temporary files on cancellation; wait for them.
	<-done
}

func init() {
	rootCmd.PersistentFlags().StringVarP(
		&configFilenameFromFlag,
		"config",
		"c",
		"",
		fmt.Sprintf("path to the configuration file (default is '%s')", config.DefaultConfigPath()))

	registerConfigFlags(rootCmd.PersistentFlags())

	rootCmd.AddCommand(infoCmd, playCmd)
}

// registerConfigFlags declares the flags that override configuration values.
func registerConfigFlags(flags *pflag.FlagSet) {
	flags.String("log-level", "", "log level: debug, info, warn, error.")
	flags.String("log-file", "", "file receiving log output while the interface is open.")
	flags.String("temp-dir", "", "directory for decompressed and extracted tracks.")
	flags.BoolP("loop", "l", false, "re-queue every track after it plays.")
	flags.Bool("auto-advance", true, "start the next queued track when one finishes.")
	flags.Int("sample-rate", 0, "audio output rate in Hz.")
	flags.String("buffer-size", "", "audio output buffer, for example: 100ms.")
	flags.String("charset", "", "encoding of SPC tag text, for example: shift_jis, windows-1252.")
	flags.Int("cache-size", 0, "number of metadata records kept in memory.")
	flags.Int("workers", 0, "number of files read concurrently.")
}

func initConfig(cmd *cobra.Command, _ []string) {
	var err error

	appConfig, err = config.LoadConfig(configFilenameFromFlag)
	if err != nil {
		logger.Fatalf(cmd.Context(), "Failed to load configuration: %v", err)
	}

	if err = bindFlagsToConfig(cmd.Flags(), appConfig); err != nil {
		logger.Fatalf(cmd.Context(), "Failed to parse flags: %v", err)
	}

	logger.SetLevel(appConfig.ParsedLogLevel)
}

func bindFlagsToConfig(flags *pflag.FlagSet, cfg *config.Config) error {
	if flag := flags.Lookup("log-level"); flag != nil && flag.Changed {
		cfg.LogLevel, _ = flags.GetString("log-level")
	}

	if flag := flags.Lookup("log-file"); flag != nil && flag.Changed {
		cfg.LogFile, _ = flags.GetString("log-file")
	}

	if flag := flags.Lookup("temp-dir"); flag != nil && flag.Changed {
		cfg.TempDir, _ = flags.GetString("temp-dir")
	}

	if flag := flags.Lookup("loop"); flag != nil && flag.Changed {
		cfg.LoopPlaylist, _ = flags.GetBool("loop")
	}

	if flag := flags.Lookup("auto-advance"); flag != nil && flag.Changed {
		cfg.AutoAdvance, _ = flags.GetBool("auto-advance")
	}

	if flag := flags.Lookup("sample-rate"); flag != nil && flag.Changed {
		cfg.SampleRate, _ = flags.GetInt("sample-rate")
	}

	if flag := flags.Lookup("buffer-size"); flag != nil && flag.Changed {
		cfg.BufferSize, _ = flags.GetString("buffer-size")
	}

	if flag := flags.Lookup("charset"); flag != nil && flag.Changed {
		cfg.Charset, _ = flags.GetString("charset")
	}

	if flag := flags.Lookup("cache-size"); flag != nil && flag.Changed {
		cfg.CacheSize, _ = flags.GetInt("cache-size")
	}

	if flag := flags.Lookup("workers"); flag != nil && flag.Changed {
		cfg.Workers, _ = flags.GetInt("workers")
	}

	return config.ValidateConfig(cfg)
}

// newApp builds the app over the real filesystem.
func newApp(ctx context.Context) *app.App {
	a, err := app.New(appConfig, afero.NewOsFs())
	if err != nil {
		logger.Fatalf(ctx, "Failed to initialize: %v", err)
	}
	return a
}

// newController creates a controller with audio output.
func newController(ctx context.Context, a *app.App, autoAdvance *bool) *player.Controller {
	return a.NewController(ctx,
		player.NewDecoderFactory(appConfig.SampleRate),
		player.NewOtoSinkFactory(appConfig.SampleRate, appConfig.ParsedBufferSize),
		autoAdvance,
	)
}

func runInterface(cmd *cobra.Command, args []string) {
	ctx := cmd.Context()

	// The interface owns the terminal, so logs go to a file.
	restore, err := logger.ToFile(appConfig.LogFile)
	if err != nil {
		logger.Fatalf(ctx, "Failed to open log file: %v", err)
	}
	defer restore()

	a := newApp(ctx)
	ctrl := newController(context.WithoutCancel(ctx), a, nil)
	defer func() {
		if err := ctrl.Close(); err != nil {
			logger.ErrorKV(ctx, "Failed to shut down playback", "error", err)
		}
	}()

	var dir string
	if len(args) > 0 {
		dir = args[0]
	}

	if err := a.RunTUI(ctx, ctrl, dir); err != nil {
		logger.ErrorKV(ctx, "Interface failed", "error", err)
		cmd.PrintErrln(err)
	}
}
