package player

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/afero"

	"github.com/dewi-tim/vgmlibrarian/internal/rsn"
	"github.com/dewi-tim/vgmlibrarian/internal/track"
	"github.com/dewi-tim/vgmlibrarian/internal/vgm"
)

const tempPrefix = "vgmlibrarian-"

// materialize returns a track the decoder can open directly. Compressed VGM
// and archive members are written to a temporary file first; other tracks are
// returned unchanged.
func (c *Controller) materialize(t *track.Track) (*track.Track, error) {
	switch {
	case t.IsMember():
		data, err := c.readWith(t.Archive(), func(r io.Reader) ([]byte, error) {
			return rsn.Extract(r, t.Entry())
		})
		if err != nil {
			return nil, err
		}
		return c.writeTemp(t, ".spc", data)

	case t.Format() == track.FormatGzippedVGM:
		data, err := c.readWith(t.Path(), vgm.Decompress)
		if err != nil {
			return nil, err
		}
		return c.writeTemp(t, ".vgm", data)

	case t.Format() == track.FormatArchive:
		return nil, fmt.Errorf("%s: enqueue the archive's members: %w", t.Path(), track.ErrUnsupportedFormat)

	case t.Format() == track.FormatUnknown:
		return nil, fmt.Errorf("%s: %w", t.Path(), track.ErrUnsupportedFormat)
	}
	return t, nil
}

func (c *Controller) readWith(path string, fn func(io.Reader) ([]byte, error)) ([]byte, error) {
	f, err := c.fs.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%s: %w", path, track.ErrFileNotFound)
		}
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	data, err := fn(f)
	if err != nil {
		return nil, track.WithPath(err, path)
	}
	return data, nil
}

func (c *Controller) writeTemp(origin *track.Track, ext string, data []byte) (*track.Track, error) {
	f, err := afero.TempFile(c.fs, c.tempDir, tempPrefix+"*"+ext)
	if err != nil {
		return nil, fmt.Errorf("create temporary file: %w", err)
	}
	name := f.Name()

	_, err = f.Write(data)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		_ = c.fs.Remove(name)
		return nil, fmt.Errorf("write temporary file %s: %w", name, err)
	}

	return track.NewTemporary(name, origin), nil
}

// removeTemp deletes the session's file when it is a temporary one.
func (c *Controller) removeTemp(s *session) error {
	if s.track == nil || !s.track.IsTemporary() {
		return nil
	}
	if err := c.fs.Remove(s.track.Path()); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove temporary file %s: %w", s.track.Path(), err)
	}
	return nil
}
