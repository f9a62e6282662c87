package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/schollz/progressbar/v3"
	"gopkg.in/yaml.v3"

	"github.com/dewi-tim/vgmlibrarian/internal/logger"
	"github.com/dewi-tim/vgmlibrarian/internal/metadata"
	"github.com/dewi-tim/vgmlibrarian/internal/track"
)

// Output formats of the info report.
const (
	OutputText = "text"
	OutputYAML = "yaml"
)

var (
	// ErrUnknownOutput is returned for an output format other than text or yaml.
	ErrUnknownOutput = errors.New("unknown output format")
	// ErrUnreadable is returned when at least one file could not be read.
	ErrUnreadable = errors.New("some files could not be read")
)

// InfoOptions control the info report.
type InfoOptions struct {
	// Output is OutputText or OutputYAML.
	Output string
	// Recursive descends into subdirectories of directory arguments.
	Recursive bool
	// Progress receives a progress bar when more than one file is read.
	Progress io.Writer
}

// LocalizedRecord is the report form of an English/Japanese text pair.
type LocalizedRecord struct {
	English  string `yaml:"en,omitempty"`
	Japanese string `yaml:"ja,omitempty"`
}

// ChunkRecord is the report form of one extended SPC tag.
type ChunkRecord struct {
	ID    string `yaml:"id"`
	Name  string `yaml:"name"`
	Value string `yaml:"value"`
}

// InfoRecord is the report of one file or archive member.
type InfoRecord struct {
	Path        string          `yaml:"path"`
	Format      string          `yaml:"format"`
	Size        string          `yaml:"size,omitempty"`
	Title       LocalizedRecord `yaml:"title,omitempty"`
	Game        LocalizedRecord `yaml:"game,omitempty"`
	System      LocalizedRecord `yaml:"system,omitempty"`
	Author      LocalizedRecord `yaml:"author,omitempty"`
	ReleaseDate string          `yaml:"release_date,omitempty"`
	Converter   string          `yaml:"converter,omitempty"`
	Notes       string          `yaml:"notes,omitempty"`
	Length      string          `yaml:"length,omitempty"`
	LoopStart   string          `yaml:"loop_start,omitempty"`
	Chunks      []ChunkRecord   `yaml:"chunks,omitempty"`
	Members     []InfoRecord    `yaml:"members,omitempty"`
	Warning     string          `yaml:"warning,omitempty"`
	Error       string          `yaml:"error,omitempty"`
}

// Info reads every file named by paths, directories expanded, and writes a
// report to w. Files that fail are reported in place; the run then returns
// ErrUnreadable after the whole report is written.
func (a *App) Info(ctx context.Context, w io.Writer, paths []string, opts InfoOptions) error {
	if opts.Output == "" {
		opts.Output = OutputText
	}
	if opts.Output != OutputText && opts.Output != OutputYAML {
		return fmt.Errorf("%w: '%s'", ErrUnknownOutput, opts.Output)
	}

	files, err := a.scanner.Expand(paths, opts.Recursive)
	if err != nil {
		return err
	}

	var onResult func(metadata.Result)
	if opts.Progress != nil && len(files) > 1 {
		bar := progressbar.NewOptions(len(files),
			progressbar.OptionSetWriter(opts.Progress),
			progressbar.OptionSetDescription("Reading"),
			progressbar.OptionShowCount(),
			progressbar.OptionClearOnFinish(),
		)
		defer func() { _ = bar.Finish() }()
		onResult = func(metadata.Result) { _ = bar.Add(1) }
	}

	results := a.reader.ReadMany(ctx, files, a.cfg.Workers, onResult)
	if err := ctx.Err(); err != nil {
		return err
	}

	records := make([]InfoRecord, 0, len(results))
	failed := 0
	for _, res := range results {
		rec := a.record(res)
		if rec.Error != "" {
			failed++
			logger.WarnKV(ctx, "Failed to read metadata", "path", res.Path, "error", res.Err)
		}
		records = append(records, rec)
	}

	switch opts.Output {
	case OutputYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(records); err != nil {
			return fmt.Errorf("failed to encode report: %w", err)
		}
		if err := enc.Close(); err != nil {
			return fmt.Errorf("failed to encode report: %w", err)
		}
	default:
		for i, rec := range records {
			if i > 0 {
				fmt.Fprintln(w)
			}
			writeText(w, rec, "")
		}
	}

	if failed > 0 {
		return fmt.Errorf("%w: %d of %d", ErrUnreadable, failed, len(results))
	}
	return nil
}

// record builds the report of one read.
func (a *App) record(res metadata.Result) InfoRecord {
	if res.Track == nil {
		return InfoRecord{
			Path:   res.Path,
			Format: track.DetectFormat(res.Path).String(),
			Error:  res.Err.Error(),
		}
	}

	rec := trackRecord(res.Track)
	if info, err := a.fs.Stat(res.Path); err == nil {
		rec.Size = humanize.Bytes(uint64(info.Size()))
	}
	if res.Err != nil {
		if errors.Is(res.Err, track.ErrNoGD3Tag) {
			rec.Warning = res.Err.Error()
		} else {
			rec.Error = res.Err.Error()
		}
	}
	return rec
}

func trackRecord(t *track.Track) InfoRecord {
	rec := InfoRecord{
		Path:        t.Path(),
		Format:      t.Format().String(),
		Title:       localized(t.Title),
		Game:        localized(t.Game),
		System:      localized(t.System),
		Author:      localized(t.Author),
		ReleaseDate: t.ReleaseDate,
		Converter:   t.Converter,
		Notes:       t.Notes,
	}
	if t.IsMember() {
		rec.Path = t.Entry()
	}
	if d := t.Duration(); d > 0 {
		rec.Length = formatLength(d)
		if t.HasLoop() {
			rec.LoopStart = formatLength(t.LoopPoint())
		}
	}
	for _, c := range t.Chunks() {
		rec.Chunks = append(rec.Chunks, ChunkRecord{
			ID:    fmt.Sprintf("0x%02X", uint8(c.ID())),
			Name:  c.ID().String(),
			Value: c.String(),
		})
	}
	for _, m := range t.Members() {
		rec.Members = append(rec.Members, trackRecord(m))
	}
	return rec
}

func localized(l track.Localized) LocalizedRecord {
	return LocalizedRecord{English: l.English, Japanese: l.Japanese}
}

func formatLength(d time.Duration) string {
	return d.Round(time.Millisecond).String()
}

// writeText writes rec as aligned label/value lines.
func writeText(w io.Writer, rec InfoRecord, indent string) {
	line := func(label, value string) {
		if value == "" {
			return
		}
		fmt.Fprintf(w, "%s  %-14s %s\n", indent, label+":", value)
	}

	header := rec.Path + " [" + rec.Format
	if rec.Size != "" {
		header += ", " + rec.Size
	}
	fmt.Fprintf(w, "%s%s]\n", indent, header)

	line("Error", rec.Error)
	line("Warning", rec.Warning)
	line("Title", rec.Title.English)
	line("Title (JP)", rec.Title.Japanese)
	line("Game", rec.Game.English)
	line("Game (JP)", rec.Game.Japanese)
	line("System", rec.System.English)
	line("System (JP)", rec.System.Japanese)
	line("Author", rec.Author.English)
	line("Author (JP)", rec.Author.Japanese)
	line("Date", rec.ReleaseDate)
	line("Converter", rec.Converter)
	line("Notes", strings.ReplaceAll(rec.Notes, "\n", " "))
	line("Length", rec.Length)
	line("Loop start", rec.LoopStart)
	for _, c := range rec.Chunks {
		line(c.Name, c.Value)
	}

	if len(rec.Members) > 0 {
		line("Tracks", fmt.Sprintf("%d", len(rec.Members)))
		for _, m := range rec.Members {
			writeText(w, m, indent+"    ")
		}
	}
}
