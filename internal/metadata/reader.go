// Package metadata is the single entry point for reading track metadata
// from any supported file.
package metadata

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/afero"
	"golang.org/x/text/encoding"

	"github.com/dewi-tim/vgmlibrarian/internal/rsn"
	"github.com/dewi-tim/vgmlibrarian/internal/spc"
	"github.com/dewi-tim/vgmlibrarian/internal/track"
	"github.com/dewi-tim/vgmlibrarian/internal/vgm"
)

// Reader dispatches files to the parser for their format.
type Reader struct {
	fs      afero.Fs
	spcOpts []spc.Option
	cache   *Cache
}

// Option configures a Reader.
type Option func(*Reader)

// WithCharset sets the encoding of SPC tag text.
func WithCharset(enc encoding.Encoding) Option {
	return func(r *Reader) {
		r.spcOpts = append(r.spcOpts, spc.WithCharset(enc))
	}
}

// WithCache keeps parsed tracks in c.
func WithCache(c *Cache) Option {
	return func(r *Reader) {
		r.cache = c
	}
}

// NewReader creates a Reader over fs.
func NewReader(fs afero.Fs, opts ...Option) *Reader {
	r := &Reader{fs: fs}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Fs returns the filesystem the reader works on.
func (r *Reader) Fs() afero.Fs {
	return r.fs
}

// Read returns the metadata of the file at path.
//
// A VGM file without a GD3 tag fails with track.ErrNoGD3Tag; the track is
// still returned in that case, holding the header timing, so it can be
// played.
func (r *Reader) Read(ctx context.Context, path string) (*track.Track, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	info, err := r.fs.Stat(path)
	if err != nil {
		if errors.Is(err, afero.ErrFileNotFound) {
			return nil, fmt.Errorf("%s: %w", path, track.ErrFileNotFound)
		}
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%s is a directory: %w", path, track.ErrUnsupportedFormat)
	}

	if r.cache != nil {
		if t, ok := r.cache.get(path, info); ok {
			return t, nil
		}
	}

	t, err := r.read(path)
	if err != nil {
		if t != nil && errors.Is(err, track.ErrNoGD3Tag) {
			return t, track.WithPath(err, path)
		}
		return nil, track.WithPath(err, path)
	}

	if r.cache != nil {
		r.cache.add(path, info, t)
	}
	return t, nil
}

func (r *Reader) read(path string) (*track.Track, error) {
	t := track.New(path)
	if t.Format() == track.FormatUnknown {
		return nil, fmt.Errorf("%s: %w", path, track.ErrUnsupportedFormat)
	}

	f, err := r.fs.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	switch t.Format() {
	case track.FormatVGM:
		err = vgm.Read(f, t)
	case track.FormatGzippedVGM:
		err = vgm.ReadCompressed(f, t)
	case track.FormatSPC:
		err = spc.Read(f, t, r.spcOpts...)
	case track.FormatArchive:
		err = rsn.Read(f, path, t, r.spcOpts...)
	}
	return t, err
}
