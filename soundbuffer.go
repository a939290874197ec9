package genode

import (
	"fmt"
	"io"
	"os"
	"time"

	goaudio "github.com/go-audio/audio"
	wavenc "github.com/go-audio/wav"

	"github.com/SirusDoma/genode-go/decoders"
)

// SoundBuffer holds a fully decoded sound in memory. It is immutable once
// created and can back any number of Sounds.
type SoundBuffer struct {
	samples      []int16
	channelCount int
	sampleRate   int
}

// NewSoundBuffer wraps raw interleaved 16-bit PCM.
func NewSoundBuffer(samples []int16, channelCount, sampleRate int) (*SoundBuffer, error) {
	if channelCount <= 0 || sampleRate <= 0 {
		return nil, ErrInvalidParameter
	}
	return &SoundBuffer{
		samples:      append([]int16(nil), samples...),
		channelCount: channelCount,
		sampleRate:   sampleRate,
	}, nil
}

// LoadSoundBuffer decodes the whole stream into memory.
func LoadSoundBuffer(src io.ReadSeeker) (*SoundBuffer, error) {
	dec, err := decoders.Open(src)
	if err != nil {
		return nil, err
	}
	defer dec.Close()

	info := dec.Info()
	samples := make([]int16, 0, info.SampleCount)
	buf := make([]int16, info.SampleRate*info.ChannelCount)
	for {
		n, err := dec.Read(buf)
		samples = append(samples, buf[:n]...)
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		if n == 0 {
			break
		}
	}
	return &SoundBuffer{
		samples:      samples,
		channelCount: info.ChannelCount,
		sampleRate:   info.SampleRate,
	}, nil
}

// LoadSoundBufferFile decodes a whole file into memory.
func LoadSoundBufferFile(path string) (*SoundBuffer, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return LoadSoundBuffer(f)
}

// Samples returns the interleaved PCM data. The slice must not be modified.
func (b *SoundBuffer) Samples() []int16 { return b.samples }

func (b *SoundBuffer) ChannelCount() int { return b.channelCount }

func (b *SoundBuffer) SampleRate() int { return b.sampleRate }

func (b *SoundBuffer) Duration() time.Duration {
	if b.sampleRate == 0 || b.channelCount == 0 {
		return 0
	}
	seconds := float64(len(b.samples)) / float64(b.sampleRate) / float64(b.channelCount)
	return time.Duration(seconds * float64(time.Second))
}

// SaveToFile writes the buffer as a 16-bit PCM WAV file.
func (b *SoundBuffer) SaveToFile(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("genode: failed to create %s: %w", path, err)
	}
	defer f.Close()

	enc := wavenc.NewEncoder(f, b.sampleRate, 16, b.channelCount, 1)
	data := make([]int, len(b.samples))
	for i, s := range b.samples {
		data[i] = int(s)
	}
	buf := &goaudio.IntBuffer{
		Format: &goaudio.Format{
			NumChannels: b.channelCount,
			SampleRate:  b.sampleRate,
		},
		Data:           data,
		SourceBitDepth: 16,
	}
	if err := enc.Write(buf); err != nil {
		return fmt.Errorf("genode: failed to encode %s: %w", path, err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("genode: failed to finalize %s: %w", path, err)
	}
	return nil
}
