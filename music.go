package genode

import (
	"io"
	"os"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/SirusDoma/genode-go/decoders"
)

// Music streams a decoded audio file through a SoundStream, decoding one
// second of samples per chunk. The decoder is owned by the Music and closed
// with it.
type Music struct {
	*SoundStream

	mu       sync.Mutex // guards the decoder cursor
	dec      decoders.Decoder
	chunk    []int16
	duration time.Duration
}

// OpenMusic binds a decoder resolved from the default registry to a new
// stream. The source is read incrementally; it must stay open for the
// lifetime of the Music.
func OpenMusic(src io.ReadSeeker) (*Music, error) {
	dec, err := decoders.Open(src)
	if err != nil {
		return nil, err
	}
	return NewMusic(dec)
}

// OpenMusicFile opens path and streams it. The file is closed together with
// the Music.
func OpenMusicFile(path string) (*Music, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	m, err := OpenMusic(f)
	if err != nil {
		_ = f.Close()
		return nil, err
	}
	return m, nil
}

// NewMusic streams from an already opened decoder.
func NewMusic(dec decoders.Decoder) (*Music, error) {
	info := dec.Info()
	m := &Music{
		dec: dec,
		// one second of samples per chunk
		chunk:    make([]int16, info.SampleRate*info.ChannelCount),
		duration: time.Duration(info.Duration() * float64(time.Second)),
	}
	stream, err := NewSoundStream(m, info.ChannelCount, info.SampleRate)
	if err != nil {
		return nil, err
	}
	m.SoundStream = stream
	return m, nil
}

// Duration of the underlying content.
func (m *Music) Duration() time.Duration {
	return m.duration
}

// ReadChunk implements SampleSource.
func (m *Music) ReadChunk() ([]int16, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	n, err := m.dec.Read(m.chunk)
	if err != nil && err != io.EOF {
		log.Error("music: decode failed", "err", err)
		return nil, false
	}
	// a short read means the decoder is exhausted
	return m.chunk[:n], err == nil && n == len(m.chunk)
}

// Seek implements SampleSource.
func (m *Music) Seek(offset time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()

	info := m.dec.Info()
	sample := uint64(offset.Seconds() * float64(info.SampleRate) * float64(info.ChannelCount))
	if err := m.dec.Seek(sample); err != nil {
		log.Error("music: seek failed", "offset", offset, "err", err)
	}
}

// Close stops playback and releases both the stream and the decoder.
func (m *Music) Close() error {
	err := m.SoundStream.Close()
	if cerr := m.dec.Close(); err == nil {
		err = cerr
	}
	return err
}
