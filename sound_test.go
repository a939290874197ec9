package genode_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	genode "github.com/SirusDoma/genode-go"
)

func makeBuffer(t *testing.T, frames, channelCount, sampleRate int) *genode.SoundBuffer {
	t.Helper()
	samples := make([]int16, frames*channelCount)
	for i := range samples {
		samples[i] = int16(i % 32768)
	}
	sb, err := genode.NewSoundBuffer(samples, channelCount, sampleRate)
	require.NoError(t, err)
	return sb
}

func TestSoundPlaybackLifecycle(t *testing.T) {
	dev := installFakeDevice(t)
	// one second of stereo at 100 Hz
	sb := makeBuffer(t, 100, 2, 100)
	snd, err := genode.NewSound(sb)
	require.NoError(t, err)
	defer snd.Close()

	assert.Equal(t, genode.Stopped, snd.Status())
	assert.Equal(t, time.Duration(0), snd.PlayingOffset())

	snd.Play()
	out := dev.Sources()[0]
	assert.Equal(t, genode.Playing, snd.Status())
	assert.Equal(t, 1, out.QueuedBuffers())

	out.Advance(100)
	assert.Equal(t, 500*time.Millisecond, snd.PlayingOffset())

	snd.Pause()
	assert.Equal(t, genode.Paused, snd.Status())

	// resuming from pause keeps the position
	snd.Play()
	assert.Equal(t, genode.Playing, snd.Status())
	assert.Equal(t, 500*time.Millisecond, snd.PlayingOffset())

	// draining the rest plus one starved tick stops the voice
	out.Advance(100)
	out.Advance(1)
	assert.Equal(t, genode.Stopped, snd.Status())
	assert.Equal(t, time.Duration(0), snd.PlayingOffset())
}

func TestSoundPlayRestartsFromTheBeginning(t *testing.T) {
	dev := installFakeDevice(t)
	sb := makeBuffer(t, 100, 2, 100)
	snd, err := genode.NewSound(sb)
	require.NoError(t, err)
	defer snd.Close()

	snd.Play()
	out := dev.Sources()[0]
	out.Advance(100)

	snd.Play()
	assert.Equal(t, genode.Playing, snd.Status())
	assert.Equal(t, time.Duration(0), snd.PlayingOffset())
	// the single device buffer is requeued, not duplicated
	assert.Equal(t, 1, out.QueuedBuffers())
	assert.Equal(t, 1, dev.BuffersAllocated())
}

func TestSoundLooping(t *testing.T) {
	dev := installFakeDevice(t)
	sb := makeBuffer(t, 100, 2, 100)
	snd, err := genode.NewSound(sb)
	require.NoError(t, err)
	defer snd.Close()

	snd.SetLooping(true)
	assert.True(t, snd.Looping())
	snd.Play()

	out := dev.Sources()[0]
	out.Advance(500)
	assert.Equal(t, genode.Playing, snd.Status())
	assert.Equal(t, uint64(500), out.TotalPlayed())
}

func TestSoundSharesItsBuffer(t *testing.T) {
	installFakeDevice(t)
	sb := makeBuffer(t, 100, 2, 100)

	a, err := genode.NewSound(sb)
	require.NoError(t, err)
	defer a.Close()
	b, err := genode.NewSound(sb)
	require.NoError(t, err)
	defer b.Close()

	assert.Same(t, sb, a.Buffer())
	assert.Same(t, sb, b.Buffer())
	assert.Equal(t, time.Second, sb.Duration())
}

func TestSoundRejectsUnsupportedLayouts(t *testing.T) {
	installFakeDevice(t)
	sb := makeBuffer(t, 10, 3, 100)
	_, err := genode.NewSound(sb)
	assert.ErrorIs(t, err, genode.ErrUnsupportedFormat)
}

func TestSoundRequiresDevice(t *testing.T) {
	sb := makeBuffer(t, 10, 2, 100)
	_, err := genode.NewSound(sb)
	assert.ErrorIs(t, err, genode.ErrNoDevice)
}
