// Package rsn reads RSN archives, RAR collections of SPC files.
package rsn

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/nwaples/rardecode/v2"

	"github.com/dewi-tim/vgmlibrarian/internal/spc"
	"github.com/dewi-tim/vgmlibrarian/internal/track"
)

// Entry describes the archive member a Source is positioned on.
type Entry struct {
	Name  string
	IsDir bool
}

// Source iterates archive members in order. Read returns the data of the
// member returned by the last Next; Next returns io.EOF after the last one.
type Source interface {
	io.Reader
	Next() (Entry, error)
}

type rarSource struct {
	r *rardecode.Reader
}

// Open starts streaming entry iteration over a RAR archive.
func Open(r io.Reader) (Source, error) {
	rr, err := rardecode.NewReader(r)
	if err != nil {
		return nil, track.NewFormatError(track.StageArchive, 0, track.ErrBadArchive, err)
	}
	return &rarSource{r: rr}, nil
}

func (s *rarSource) Read(p []byte) (int, error) {
	return s.r.Read(p)
}

func (s *rarSource) Next() (Entry, error) {
	h, err := s.r.Next()
	if err != nil {
		return Entry{}, err
	}
	return Entry{Name: h.Name, IsDir: h.IsDir}, nil
}

// Read opens the archive in r and adds one member track to t for every SPC
// entry, in entry order. Other entries are skipped. An archive without SPC
// entries leaves t without members.
func Read(r io.Reader, archivePath string, t *track.Track, opts ...spc.Option) error {
	src, err := Open(r)
	if err != nil {
		return err
	}
	return ReadSource(src, archivePath, t, opts...)
}

// ReadSource is Read over an already open Source.
func ReadSource(src Source, archivePath string, t *track.Track, opts ...spc.Option) error {
	for {
		entry, err := src.Next()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return track.NewFormatError(track.StageArchive, 0, track.ErrBadArchive, err)
		}
		if entry.IsDir || track.DetectFormat(entry.Name) != track.FormatSPC {
			continue
		}

		buf, err := io.ReadAll(src)
		if err != nil {
			return track.NewFormatError(track.StageArchive, 0, track.ErrBadArchive,
				fmt.Errorf("entry %q: %w", entry.Name, err))
		}

		member := track.NewMember(archivePath, entry.Name)
		if err := spc.Read(bytes.NewReader(buf), member, opts...); err != nil {
			return fmt.Errorf("archive entry %q: %w", entry.Name, err)
		}
		t.AddMember(member)
	}
}

// Extract returns the bytes of the named entry.
func Extract(r io.Reader, name string) ([]byte, error) {
	src, err := Open(r)
	if err != nil {
		return nil, err
	}
	return ExtractSource(src, name)
}

// ExtractSource is Extract over an already open Source.
func ExtractSource(src Source, name string) ([]byte, error) {
	for {
		entry, err := src.Next()
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("archive entry %q: %w", name, track.ErrFileNotFound)
		}
		if err != nil {
			return nil, track.NewFormatError(track.StageArchive, 0, track.ErrBadArchive, err)
		}
		if entry.IsDir || entry.Name != name {
			continue
		}
		buf, err := io.ReadAll(src)
		if err != nil {
			return nil, track.NewFormatError(track.StageArchive, 0, track.ErrBadArchive,
				fmt.Errorf("entry %q: %w", name, err))
		}
		return buf, nil
	}
}
