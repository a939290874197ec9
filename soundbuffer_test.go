package genode_test

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	genode "github.com/SirusDoma/genode-go"
	_ "github.com/SirusDoma/genode-go/decoders/wav"
)

func TestNewSoundBufferValidatesParameters(t *testing.T) {
	_, err := genode.NewSoundBuffer([]int16{1, 2}, 0, 44100)
	assert.ErrorIs(t, err, genode.ErrInvalidParameter)
	_, err = genode.NewSoundBuffer([]int16{1, 2}, 2, 0)
	assert.ErrorIs(t, err, genode.ErrInvalidParameter)
}

func TestSoundBufferCopiesItsSamples(t *testing.T) {
	samples := []int16{1, 2, 3, 4}
	sb, err := genode.NewSoundBuffer(samples, 2, 44100)
	require.NoError(t, err)

	samples[0] = 99
	assert.Equal(t, int16(1), sb.Samples()[0])
	assert.Equal(t, 2, sb.ChannelCount())
	assert.Equal(t, 44100, sb.SampleRate())
}

func TestSoundBufferDuration(t *testing.T) {
	sb, err := genode.NewSoundBuffer(make([]int16, 88200), 2, 44100)
	require.NoError(t, err)
	assert.Equal(t, time.Second, sb.Duration())
}

func TestSoundBufferSaveAndReload(t *testing.T) {
	samples := make([]int16, 1234)
	for i := range samples {
		samples[i] = int16(i*7 - 4000)
	}
	sb, err := genode.NewSoundBuffer(samples, 2, 22050)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "clip.wav")
	require.NoError(t, sb.SaveToFile(path))

	got, err := genode.LoadSoundBufferFile(path)
	require.NoError(t, err)
	assert.Equal(t, sb.Samples(), got.Samples())
	assert.Equal(t, sb.ChannelCount(), got.ChannelCount())
	assert.Equal(t, sb.SampleRate(), got.SampleRate())
}
