// Package library collects playable tracks from files and directories.
package library

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"

	"github.com/dewi-tim/vgmlibrarian/internal/logger"
	"github.com/dewi-tim/vgmlibrarian/internal/metadata"
	"github.com/dewi-tim/vgmlibrarian/internal/track"
)

// Scanner walks directories for supported files and reads their metadata.
type Scanner struct {
	reader  *metadata.Reader
	workers int
}

// NewScanner creates a Scanner that reads metadata with reader, using at
// most workers goroutines per batch.
func NewScanner(reader *metadata.Reader, workers int) *Scanner {
	return &Scanner{reader: reader, workers: workers}
}

// Files lists supported files under root in lexical order. Hidden files and
// directories are skipped. Subdirectories are only entered when recursive
// is set.
func (s *Scanner) Files(root string, recursive bool) ([]string, error) {
	var files []string

	err := afero.Walk(s.reader.Fs(), root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			if path == root {
				return err
			}
			return nil // Skip entries we can't access
		}

		hidden := path != root && strings.HasPrefix(info.Name(), ".")
		if info.IsDir() {
			if path != root && (hidden || !recursive) {
				return filepath.SkipDir
			}
			return nil
		}

		if hidden || track.DetectFormat(info.Name()) == track.FormatUnknown {
			return nil
		}
		files = append(files, path)
		return nil
	})
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%s: %w", root, track.ErrFileNotFound)
		}
		return nil, fmt.Errorf("scan %s: %w", root, err)
	}

	return files, nil
}

// Expand replaces directories in paths with the supported files they
// contain, keeping the order of the arguments.
func (s *Scanner) Expand(paths []string, recursive bool) ([]string, error) {
	var out []string
	for _, path := range paths {
		info, err := s.reader.Fs().Stat(path)
		if err != nil || !info.IsDir() {
			// Missing files are reported by the metadata reader.
			out = append(out, path)
			continue
		}

		files, err := s.Files(path, recursive)
		if err != nil {
			return nil, err
		}
		out = append(out, files...)
	}
	return out, nil
}

// Collect reads every path and returns the playable tracks in order, with
// archives replaced by their members. Files that could not be read are
// returned separately; an untagged VGM file is still playable. onResult, if
// not nil, is called once per file as it finishes.
func (s *Scanner) Collect(ctx context.Context, paths []string, onResult func(metadata.Result)) ([]*track.Track, []metadata.Result) {
	results := s.reader.ReadMany(ctx, paths, s.workers, onResult)

	var (
		tracks []*track.Track
		failed []metadata.Result
	)
	for _, res := range results {
		if res.Err != nil && (res.Track == nil || !errors.Is(res.Err, track.ErrNoGD3Tag)) {
			failed = append(failed, res)
			continue
		}
		if res.Err != nil {
			logger.DebugKV(ctx, "Track has no tag", "path", res.Path)
		}
		tracks = append(tracks, Playable(res.Track)...)
	}

	return tracks, failed
}

// Playable returns the tracks to enqueue for t: the members of an archive,
// or t itself.
func Playable(t *track.Track) []*track.Track {
	if t.Format() == track.FormatArchive {
		return t.Members()
	}
	return []*track.Track{t}
}
