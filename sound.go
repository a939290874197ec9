package genode

import (
	"time"

	"github.com/SirusDoma/genode-go/audio"
)

// Sound plays a fully decoded SoundBuffer on a device source. Unlike a
// SoundStream there is no worker goroutine: the whole buffer is uploaded
// once and the device plays it on its own.
type Sound struct {
	buffer *SoundBuffer
	out    audio.Source
	hw     audio.Buffer
}

// NewSound binds buffer to a fresh source on the current output device.
func NewSound(buffer *SoundBuffer) (*Sound, error) {
	dev := audio.Current()
	if dev == nil {
		return nil, ErrNoDevice
	}
	format := dev.ResolveFormat(buffer.ChannelCount())
	if format == audio.FormatNone {
		return nil, ErrUnsupportedFormat
	}
	out, err := dev.NewSource()
	if err != nil {
		return nil, err
	}
	hw, err := dev.NewBuffer()
	if err != nil {
		_ = out.Close()
		return nil, err
	}
	if err := hw.Fill(buffer.Samples(), format, buffer.SampleRate()); err != nil {
		_ = hw.Close()
		_ = out.Close()
		return nil, err
	}
	return &Sound{buffer: buffer, out: out, hw: hw}, nil
}

// Play starts playback from the beginning, or resumes it when paused.
func (s *Sound) Play() {
	if s.out.State() == audio.Paused {
		s.out.Play()
		return
	}
	// rewind: reclaim the buffer and queue it again
	s.out.Stop()
	for {
		if _, err := s.out.Unqueue(); err != nil {
			break
		}
	}
	_ = s.out.Queue(s.hw)
	s.out.Play()
}

func (s *Sound) Pause() {
	s.out.Pause()
}

func (s *Sound) Stop() {
	s.out.Stop()
}

func (s *Sound) Status() Status {
	return s.out.State()
}

func (s *Sound) SetLooping(looping bool) {
	s.out.SetLooping(looping)
}

func (s *Sound) Looping() bool {
	return s.out.Looping()
}

// SetVolume scales this sound in [0, 1], multiplied with the listener
// volume.
func (s *Sound) SetVolume(volume float64) {
	s.out.SetVolume(volume)
}

// PlayingOffset returns the position within the buffer.
func (s *Sound) PlayingOffset() time.Duration {
	rate := s.buffer.SampleRate() * s.buffer.ChannelCount()
	if rate == 0 {
		return 0
	}
	seconds := float64(s.out.SampleOffset()) / float64(rate)
	return time.Duration(seconds * float64(time.Second))
}

// Buffer returns the bound SoundBuffer.
func (s *Sound) Buffer() *SoundBuffer {
	return s.buffer
}

// Close releases the device source and buffer. The SoundBuffer itself stays
// usable.
func (s *Sound) Close() error {
	s.out.Stop()
	err := s.out.Close()
	if cerr := s.hw.Close(); err == nil {
		err = cerr
	}
	return err
}
