package genode_test

import (
	"bytes"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	genode "github.com/SirusDoma/genode-go"
	"github.com/SirusDoma/genode-go/decoders"
	_ "github.com/SirusDoma/genode-go/decoders/wav"
	"github.com/SirusDoma/genode-go/internal/audiotest"
)

func TestMusicChunking(t *testing.T) {
	installFakeDevice(t)
	// 1000 stereo frames at 400 Hz: two full one-second chunks of 800
	// samples, then a partial one
	dec := audiotest.NewDecoder(1000, 2, 400)
	m, err := genode.NewMusic(dec)
	require.NoError(t, err)
	defer m.Close()

	assert.Equal(t, 2500*time.Millisecond, m.Duration())
	assert.Equal(t, 2, m.ChannelCount())
	assert.Equal(t, 400, m.SampleRate())

	chunk, ok := m.ReadChunk()
	require.True(t, ok)
	require.Len(t, chunk, 800)
	assert.Equal(t, int16(0), chunk[0])

	chunk, ok = m.ReadChunk()
	require.True(t, ok)
	require.Len(t, chunk, 800)
	assert.Equal(t, int16(800), chunk[0])

	chunk, ok = m.ReadChunk()
	assert.False(t, ok)
	assert.Len(t, chunk, 400)

	chunk, ok = m.ReadChunk()
	assert.False(t, ok)
	assert.Empty(t, chunk)
}

func TestMusicSeek(t *testing.T) {
	installFakeDevice(t)
	dec := audiotest.NewDecoder(1000, 2, 400)
	m, err := genode.NewMusic(dec)
	require.NoError(t, err)
	defer m.Close()

	m.Seek(time.Second)
	chunk, ok := m.ReadChunk()
	require.True(t, ok)
	assert.Equal(t, int16(800), chunk[0])

	m.Seek(0)
	chunk, _ = m.ReadChunk()
	assert.Equal(t, int16(0), chunk[0])
}

func TestOpenMusicRejectsUnknownFormats(t *testing.T) {
	installFakeDevice(t)
	_, err := genode.OpenMusic(bytes.NewReader([]byte("definitely not an audio stream")))
	assert.ErrorIs(t, err, decoders.ErrUnknownFormat)
}

func TestOpenMusicFilePlaysThrough(t *testing.T) {
	dev := installFakeDevice(t)

	samples := make([]int16, 2000)
	for i := range samples {
		samples[i] = int16(i)
	}
	sb, err := genode.NewSoundBuffer(samples, 2, 400)
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "tone.wav")
	require.NoError(t, sb.SaveToFile(path))

	m, err := genode.OpenMusicFile(path)
	require.NoError(t, err)
	defer m.Close()
	assert.Equal(t, 2500*time.Millisecond, m.Duration())

	require.NoError(t, m.Play())
	out := dev.Sources()[0]
	waitFor(t, "playback to drain", func() bool {
		out.Advance(800)
		return m.Status() == genode.Stopped
	})
	assert.Equal(t, uint64(2000), out.TotalPlayed())
	assert.NoError(t, m.Err())
}
