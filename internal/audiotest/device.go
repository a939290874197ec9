// Package audiotest provides deterministic fakes for the audio device and
// decoder capabilities: the fake device plays only when its sample clock is
// advanced by the test, so timing-sensitive playback behavior can be checked
// without real time or real hardware.
package audiotest

import (
	"sync"

	"github.com/SirusDoma/genode-go/audio"
)

// Device implements audio.Device with a manually advanced sample clock.
type Device struct {
	mu      sync.Mutex
	sources []*Source
	buffers []*Buffer
	closed  bool
}

func NewDevice() *Device {
	return &Device{}
}

func (d *Device) ResolveFormat(channelCount int) audio.Format {
	return audio.ResolveFormat(channelCount)
}

func (d *Device) NewSource() (audio.Source, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return nil, audio.ErrDeviceClosed
	}
	s := &Source{}
	d.sources = append(d.sources, s)
	return s, nil
}

func (d *Device) NewBuffer() (audio.Buffer, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return nil, audio.ErrDeviceClosed
	}
	b := &Buffer{}
	d.buffers = append(d.buffers, b)
	return b, nil
}

func (d *Device) Closed() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.closed
}

func (d *Device) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.closed = true
	return nil
}

// BuffersAllocated returns how many buffers were ever created on the device.
func (d *Device) BuffersAllocated() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.buffers)
}

// Buffers returns every buffer created on the device, in creation order.
func (d *Device) Buffers() []*Buffer {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]*Buffer(nil), d.buffers...)
}

// Sources returns every source created on the device, in creation order.
func (d *Device) Sources() []*Source {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]*Source(nil), d.sources...)
}

// Buffer is an in-memory device buffer. SetZeroBits makes Bits report 0,
// which streaming workers treat as fatal corruption.
type Buffer struct {
	mu       sync.Mutex
	data     []int16
	format   audio.Format
	rate     int
	released bool
	zeroBits bool
}

func (b *Buffer) SetZeroBits(v bool) {
	b.mu.Lock()
	b.zeroBits = v
	b.mu.Unlock()
}

func (b *Buffer) Fill(samples []int16, format audio.Format, rate int) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.released {
		return audio.ErrBufferReleased
	}
	if format == audio.FormatNone || rate <= 0 {
		return audio.ErrInvalidFormat
	}
	b.data = append(b.data[:0], samples...)
	b.format = format
	b.rate = rate
	return nil
}

func (b *Buffer) Samples() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.data)
}

func (b *Buffer) Bits() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.released || b.zeroBits {
		return 0
	}
	return 16
}

func (b *Buffer) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.released = true
	b.data = nil
	return nil
}

// Source implements audio.Source with queue bookkeeping identical to a real
// device, except that samples are only consumed through Advance.
type Source struct {
	mu      sync.Mutex
	queue   []*Buffer
	cur     int // queue index currently playing
	pos     int // interleaved samples consumed of queue[cur]
	state   audio.State
	looping bool
	volume  float64
	played  uint64 // total interleaved samples ever consumed
}

func (s *Source) Play() {
	s.mu.Lock()
	s.state = audio.Playing
	s.mu.Unlock()
}

func (s *Source) Pause() {
	s.mu.Lock()
	if s.state == audio.Playing {
		s.state = audio.Paused
	}
	s.mu.Unlock()
}

func (s *Source) Stop() {
	s.mu.Lock()
	s.state = audio.Stopped
	s.cur = len(s.queue)
	s.pos = 0
	s.mu.Unlock()
}

func (s *Source) State() audio.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *Source) Queue(b audio.Buffer) error {
	fb, ok := b.(*Buffer)
	if !ok {
		return audio.ErrForeignBuffer
	}
	s.mu.Lock()
	s.queue = append(s.queue, fb)
	s.mu.Unlock()
	return nil
}

func (s *Source) Processed() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cur
}

func (s *Source) Unqueue() (audio.Buffer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cur == 0 || len(s.queue) == 0 {
		return nil, audio.ErrNoProcessed
	}
	b := s.queue[0]
	s.queue = s.queue[1:]
	s.cur--
	return b, nil
}

func (s *Source) SampleOffset() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == audio.Stopped {
		return 0
	}
	n := s.pos
	for i := 0; i < s.cur && i < len(s.queue); i++ {
		n += s.queue[i].Samples()
	}
	return n
}

func (s *Source) SetLooping(looping bool) {
	s.mu.Lock()
	s.looping = looping
	s.mu.Unlock()
}

func (s *Source) Looping() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.looping
}

func (s *Source) SetVolume(volume float64) {
	s.mu.Lock()
	s.volume = volume
	s.mu.Unlock()
}

func (s *Source) Close() error {
	s.Stop()
	return nil
}

// Advance consumes up to n interleaved samples from the queue, as if the
// device had played them. Consumption stops early on starvation, flipping
// the source to Stopped like a real starved voice.
func (s *Source) Advance(n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != audio.Playing {
		return
	}
	for n > 0 {
		if s.cur >= len(s.queue) {
			if s.looping && len(s.queue) > 0 {
				s.cur, s.pos = 0, 0
				continue
			}
			s.state = audio.Stopped
			s.pos = 0
			return
		}
		b := s.queue[s.cur]
		avail := b.Samples() - s.pos
		if avail <= 0 {
			s.cur++
			s.pos = 0
			continue
		}
		take := avail
		if take > n {
			take = n
		}
		s.pos += take
		s.played += uint64(take)
		n -= take
		if s.pos >= b.Samples() {
			s.cur++
			s.pos = 0
		}
	}
}

// TotalPlayed returns the total number of interleaved samples ever consumed
// by the source.
func (s *Source) TotalPlayed() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.played
}

// QueuedBuffers returns how many buffers are currently in the queue,
// including processed ones that have not been unqueued yet.
func (s *Source) QueuedBuffers() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.queue)
}
