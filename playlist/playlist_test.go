package playlist_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	genode "github.com/SirusDoma/genode-go"
	"github.com/SirusDoma/genode-go/audio"
	_ "github.com/SirusDoma/genode-go/decoders/wav"
	"github.com/SirusDoma/genode-go/internal/audiotest"
	"github.com/SirusDoma/genode-go/playlist"
)

func installFakeDevice(t *testing.T) *audiotest.Device {
	t.Helper()
	d := audiotest.NewDevice()
	require.NoError(t, audio.Install(d))
	t.Cleanup(func() {
		playlist.Stop()
		_ = audio.Close()
	})
	return d
}

// writeTone writes a short stereo WAV file into dir.
func writeTone(t *testing.T, dir, name string, frames int) {
	t.Helper()
	sb, err := genode.NewSoundBuffer(make([]int16, frames*2), 2, 400)
	require.NoError(t, err)
	require.NoError(t, sb.SaveToFile(filepath.Join(dir, name)))
}

func writeRegistry(t *testing.T, dir, contents string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "playlist.json"), []byte(contents), 0o644))
}

func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s", what)
}

func playingSource(dev *audiotest.Device) *audiotest.Source {
	for _, s := range dev.Sources() {
		if s.State() == audio.Playing {
			return s
		}
	}
	return nil
}

func TestLoadAndPlay(t *testing.T) {
	dev := installFakeDevice(t)
	dir := t.TempDir()
	writeTone(t, dir, "a.wav", 200)
	writeTone(t, dir, "b.wav", 200)
	writeRegistry(t, dir, `[
		{"Id": "menu", "Tracks": [
			{"Path": "a.wav", "Name": "A", "Volume": 1},
			{"Path": "b.wav", "Name": "B", "Volume": 0.8}
		]}
	]`)

	require.NoError(t, playlist.LoadFolder(dir))
	// one stream source per track
	assert.Len(t, dev.Sources(), 2)

	id, track := playlist.Current()
	assert.Equal(t, playlist.Id(""), id)
	assert.Nil(t, track)

	playlist.Id("menu").Play()
	id, track = playlist.Current()
	assert.Equal(t, playlist.Id("menu"), id)
	require.NotNil(t, track)
	assert.Equal(t, "A", track.Name)
	waitFor(t, "first track to start", func() bool { return playingSource(dev) != nil })
}

func TestPlayUnknownPlaylistIsNoop(t *testing.T) {
	installFakeDevice(t)
	dir := t.TempDir()
	writeRegistry(t, dir, `[]`)
	require.NoError(t, playlist.LoadFolder(dir))

	playlist.Id("nope").Play()
	id, _ := playlist.Current()
	assert.Equal(t, playlist.Id(""), id)
}

func TestPauseAndResume(t *testing.T) {
	dev := installFakeDevice(t)
	dir := t.TempDir()
	writeTone(t, dir, "a.wav", 2000)
	writeRegistry(t, dir, `[
		{"Id": "game", "Tracks": [
			{"Path": "a.wav", "Name": "A", "Volume": 1},
			{"Path": "a.wav", "Name": "A2", "Volume": 1}
		]}
	]`)
	require.NoError(t, playlist.LoadFolder(dir))

	playlist.Id("game").Play()
	waitFor(t, "track to start", func() bool { return playingSource(dev) != nil })

	playlist.Pause()
	waitFor(t, "track to pause", func() bool { return playingSource(dev) == nil })

	playlist.Resume()
	waitFor(t, "track to resume", func() bool { return playingSource(dev) != nil })
}

func TestSingleTrackPlaylistLoops(t *testing.T) {
	dev := installFakeDevice(t)
	dir := t.TempDir()
	writeTone(t, dir, "a.wav", 200)
	writeRegistry(t, dir, `[
		{"Id": "solo", "Tracks": [{"Path": "a.wav", "Name": "A", "Volume": 1}]}
	]`)
	require.NoError(t, playlist.LoadFolder(dir))

	playlist.Id("solo").Play()
	waitFor(t, "track to start", func() bool { return playingSource(dev) != nil })
	assert.True(t, playingSource(dev).Looping())
}

func TestProcessAdvancesToNextTrack(t *testing.T) {
	dev := installFakeDevice(t)
	dir := t.TempDir()
	writeTone(t, dir, "a.wav", 200)
	writeTone(t, dir, "b.wav", 200)
	writeRegistry(t, dir, `[
		{"Id": "menu", "Tracks": [
			{"Path": "a.wav", "Name": "A", "Volume": 1},
			{"Path": "b.wav", "Name": "B", "Volume": 1}
		]}
	]`)
	require.NoError(t, playlist.LoadFolder(dir))

	playlist.Id("menu").Play()
	waitFor(t, "first track to start", func() bool { return playingSource(dev) != nil })
	first := playingSource(dev)

	// drain the first track, then pump until the playlist moves on
	waitFor(t, "second track to start", func() bool {
		first.Advance(400)
		playlist.Process()
		cur := playingSource(dev)
		return cur != nil && cur != first
	})
	_, track := playlist.Current()
	require.NotNil(t, track)
	assert.Equal(t, "B", track.Name)
}

func TestStopForgetsTheCurrentPlaylist(t *testing.T) {
	dev := installFakeDevice(t)
	dir := t.TempDir()
	writeTone(t, dir, "a.wav", 2000)
	writeRegistry(t, dir, `[
		{"Id": "menu", "Tracks": [{"Path": "a.wav", "Name": "A", "Volume": 1}]}
	]`)
	require.NoError(t, playlist.LoadFolder(dir))

	playlist.Id("menu").Play()
	waitFor(t, "track to start", func() bool { return playingSource(dev) != nil })

	playlist.Stop()
	id, track := playlist.Current()
	assert.Equal(t, playlist.Id(""), id)
	assert.Nil(t, track)
	waitFor(t, "track to stop", func() bool { return playingSource(dev) == nil })
}

func TestLoadFailsWithoutRegistry(t *testing.T) {
	installFakeDevice(t)
	assert.Error(t, playlist.LoadFolder(t.TempDir()))
}
