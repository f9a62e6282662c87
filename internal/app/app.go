package app

import (
	"context"
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/afero"

	"github.com/dewi-tim/vgmlibrarian/internal/config"
	"github.com/dewi-tim/vgmlibrarian/internal/library"
	"github.com/dewi-tim/vgmlibrarian/internal/metadata"
	"github.com/dewi-tim/vgmlibrarian/internal/player"
	"github.com/dewi-tim/vgmlibrarian/internal/playlist"
	"github.com/dewi-tim/vgmlibrarian/internal/ui"
)

// ErrNothingToPlay is returned when none of the given paths holds a
// playable track.
var ErrNothingToPlay = errors.New("nothing to play")

// App holds the shared services of one run.
type App struct {
	cfg     *config.Config
	fs      afero.Fs
	reader  *metadata.Reader
	scanner *library.Scanner
}

// New builds the metadata services described by cfg over fs. cfg must have
// been validated.
func New(cfg *config.Config, fs afero.Fs) (*App, error) {
	cache, err := metadata.NewCache(cfg.CacheSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create metadata cache: %w", err)
	}

	opts := []metadata.Option{metadata.WithCache(cache)}
	if cfg.ParsedCharset != nil {
		opts = append(opts, metadata.WithCharset(cfg.ParsedCharset))
	}
	reader := metadata.NewReader(fs, opts...)

	return &App{
		cfg:     cfg,
		fs:      fs,
		reader:  reader,
		scanner: library.NewScanner(reader, cfg.Workers),
	}, nil
}

// Reader returns the metadata reader.
func (a *App) Reader() *metadata.Reader {
	return a.reader
}

// NewController creates a playback controller configured from the app's
// settings. autoAdvance overrides the configured value when not nil.
func (a *App) NewController(ctx context.Context, newDecoder player.DecoderFactory, newSink player.SinkFactory, autoAdvance *bool) *player.Controller {
	advance := a.cfg.AutoAdvance
	if autoAdvance != nil {
		advance = *autoAdvance
	}

	return player.NewController(newDecoder, newSink,
		player.WithFs(a.fs),
		player.WithQueue(playlist.New(a.cfg.LoopPlaylist)),
		player.WithTempDir(a.cfg.TempDir),
		player.WithAutoAdvance(advance),
		player.WithContext(ctx),
	)
}

// RunTUI runs the terminal interface until the user quits or ctx ends.
func (a *App) RunTUI(ctx context.Context, ctrl *player.Controller, dir string) error {
	if dir == "" {
		dir = a.cfg.StartDir
	}

	m := ui.New(ctx, ui.Options{
		Fs:         a.fs,
		Controller: ctrl,
		Reader:     a.reader,
		Scanner:    a.scanner,
		StartDir:   dir,
		Watch:      true,
	})
	defer func() { _ = m.Close() }()

	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
			return nil
		}
		return fmt.Errorf("failed to run interface: %w", err)
	}
	return nil
}
