package app

import (
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"

	"github.com/dewi-tim/vgmlibrarian/internal/config"
	"github.com/dewi-tim/vgmlibrarian/internal/fixture"
)

func newTestApp(t *testing.T, files map[string][]byte) *App {
	t.Helper()

	fs := afero.NewMemMapFs()
	require.NoError(t, fs.MkdirAll("/tmp", 0o755))
	for name, data := range files {
		require.NoError(t, afero.WriteFile(fs, name, data, 0o644))
	}

	a, err := New(&config.Config{
		TempDir:   "/tmp",
		CacheSize: 16,
		Workers:   2,
	}, fs)
	require.NoError(t, err)

	return a
}

func musicFiles() map[string][]byte {
	return map[string][]byte{
		"/music/intro.vgm":  fixture.VGM(fixture.Tags("Intro"), 44100, 0),
		"/music/stage.vgz":  fixture.Gzip(fixture.VGM(fixture.Tags("Stage"), 88200, 44100)),
		"/music/boss.spc":   fixture.SPC("Boss", "Quest"),
		"/music/broken.spc": []byte("junk"),
	}
}
