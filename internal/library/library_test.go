package library

import (
	"context"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dewi-tim/vgmlibrarian/internal/fixture"
	"github.com/dewi-tim/vgmlibrarian/internal/metadata"
	"github.com/dewi-tim/vgmlibrarian/internal/track"
)

func newTestScanner(t *testing.T) *Scanner {
	t.Helper()

	fs := afero.NewMemMapFs()
	files := map[string][]byte{
		"/music/01 intro.vgm":         fixture.VGM(fixture.Tags("Intro"), 44100, 0),
		"/music/02 stage.vgz":         fixture.Gzip(fixture.VGM(fixture.Tags("Stage"), 44100, 0)),
		"/music/03 untagged.vgm":      fixture.VGM(nil, 44100, 0),
		"/music/boss.spc":             fixture.SPC("Boss", "Quest"),
		"/music/broken.spc":           []byte("junk"),
		"/music/notes.txt":            []byte("liner notes"),
		"/music/.hidden.vgm":          fixture.VGM(fixture.Tags("Hidden"), 44100, 0),
		"/music/.cache/x.vgm":         fixture.VGM(fixture.Tags("Cached"), 44100, 0),
		"/music/disc2/01 credits.vgm": fixture.VGM(fixture.Tags("Credits"), 44100, 0),
	}
	for name, data := range files {
		require.NoError(t, afero.WriteFile(fs, name, data, 0o644))
	}

	return NewScanner(metadata.NewReader(fs), 2)
}

func TestFiles(t *testing.T) {
	t.Parallel()

	s := newTestScanner(t)

	flat, err := s.Files("/music", false)
	require.NoError(t, err)
	assert.Equal(t, []string{
		"/music/01 intro.vgm",
		"/music/02 stage.vgz",
		"/music/03 untagged.vgm",
		"/music/boss.spc",
		"/music/broken.spc",
	}, flat)

	deep, err := s.Files("/music", true)
	require.NoError(t, err)
	assert.Len(t, deep, len(flat)+1)
	assert.Contains(t, deep, "/music/disc2/01 credits.vgm")

	_, err = s.Files("/nowhere", true)
	require.ErrorIs(t, err, track.ErrFileNotFound)
}

func TestExpand(t *testing.T) {
	t.Parallel()

	s := newTestScanner(t)

	got, err := s.Expand([]string{"/music/boss.spc", "/music/disc2", "/music/missing.vgm"}, false)
	require.NoError(t, err)
	assert.Equal(t, []string{
		"/music/boss.spc",
		"/music/disc2/01 credits.vgm",
		"/music/missing.vgm",
	}, got)
}

func TestCollect(t *testing.T) {
	t.Parallel()

	s := newTestScanner(t)
	paths, err := s.Files("/music", false)
	require.NoError(t, err)

	var seen int
	tracks, failed := s.Collect(context.Background(), paths, func(metadata.Result) { seen++ })
	assert.Equal(t, len(paths), seen)

	titles := make([]string, 0, len(tracks))
	for _, tr := range tracks {
		titles = append(titles, tr.DisplayTitle())
	}
	assert.Equal(t, []string{"Intro", "Stage", "03 untagged", "Boss"}, titles)

	require.Len(t, failed, 1)
	assert.Equal(t, "/music/broken.spc", failed[0].Path)
	assert.ErrorIs(t, failed[0].Err, track.ErrBadSignature)
}

func TestPlayable(t *testing.T) {
	t.Parallel()

	single := track.New("/music/a.vgm")
	assert.Equal(t, []*track.Track{single}, Playable(single))

	archive := track.New("/music/set.rsn")
	first := track.NewMember("/music/set.rsn", "01.spc")
	second := track.NewMember("/music/set.rsn", "02.spc")
	archive.AddMember(first)
	archive.AddMember(second)
	assert.Equal(t, []*track.Track{first, second}, Playable(archive))

	assert.Empty(t, Playable(track.New("/music/empty.rsn")))
}
