package audio

import (
	"sync/atomic"
	"time"
)

// nullDevice plays everything into the void at real-time speed. It keeps the
// full queue and state bookkeeping of a real device, so headless setups and
// machines without an audio device behave the same as everyone else.
type nullDevice struct {
	sampleRate int
	closed     atomic.Bool
}

// NewNullDevice creates a silent output device running at the given sample
// rate. Pass it to Install for headless operation.
func NewNullDevice(sampleRate int) Device {
	return &nullDevice{sampleRate: sampleRate}
}

func (d *nullDevice) ResolveFormat(channelCount int) Format {
	return ResolveFormat(channelCount)
}

func (d *nullDevice) NewSource() (Source, error) {
	if d.closed.Load() {
		return nil, ErrDeviceClosed
	}
	s := &nullSource{dev: d}
	s.volume = 1
	go s.loop()
	return s, nil
}

func (d *nullDevice) NewBuffer() (Buffer, error) {
	if d.closed.Load() {
		return nil, ErrDeviceClosed
	}
	return &softBuffer{}, nil
}

func (d *nullDevice) Closed() bool { return d.closed.Load() }

func (d *nullDevice) Close() error {
	d.closed.Store(true)
	return nil
}

type nullSource struct {
	softSource
	dev *nullDevice
}

func (s *nullSource) loop() {
	// consume 10ms of mixed output per tick
	frames := s.dev.sampleRate / 100
	if frames < 1 {
		frames = 1
	}
	buf := make([]float32, frames*mixChannelCount)
	sleep := time.Duration(float64(time.Second) * float64(frames) / float64(s.dev.sampleRate))
	for {
		if s.dev.closed.Load() {
			return
		}
		s.mu.Lock()
		closed := s.closed
		s.mu.Unlock()
		if closed {
			return
		}
		s.pull(buf)
		time.Sleep(sleep)
	}
}
