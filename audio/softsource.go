package audio

import "sync"

// softBuffer holds one uploaded chunk of interleaved 16-bit PCM.
type softBuffer struct {
	mu       sync.Mutex
	data     []int16
	format   Format
	rate     int
	released bool
}

func (b *softBuffer) Fill(samples []int16, format Format, rate int) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.released {
		return ErrBufferReleased
	}
	if format == FormatNone || rate <= 0 {
		return ErrInvalidFormat
	}
	b.data = append(b.data[:0], samples...)
	b.format = format
	b.rate = rate
	return nil
}

func (b *softBuffer) Samples() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.data)
}

func (b *softBuffer) Bits() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.released {
		return 0
	}
	return 16
}

func (b *softBuffer) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.released = true
	b.data = nil
	return nil
}

func (b *softBuffer) pcm() (data []int16, channels int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.data, b.format.Channels()
}

// softSource implements the queue bookkeeping shared by the software-mixed
// drivers. Queued buffers are consumed in order through pull; a fully
// consumed buffer counts as processed until it is unqueued.
type softSource struct {
	mu      sync.Mutex
	queue   []*softBuffer
	cur     int // queue index currently being played
	pos     int // interleaved samples consumed of queue[cur]
	state   State
	looping bool
	volume  float64
	closed  bool
}

func (s *softSource) Play() {
	s.mu.Lock()
	if !s.closed {
		s.state = Playing
	}
	s.mu.Unlock()
}

func (s *softSource) Pause() {
	s.mu.Lock()
	if s.state == Playing {
		s.state = Paused
	}
	s.mu.Unlock()
}

// Stop halts playback and marks every queued buffer as processed so the
// owner can reclaim them.
func (s *softSource) Stop() {
	s.mu.Lock()
	s.state = Stopped
	s.cur = len(s.queue)
	s.pos = 0
	s.mu.Unlock()
}

func (s *softSource) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *softSource) Queue(b Buffer) error {
	sb, ok := b.(*softBuffer)
	if !ok {
		return ErrForeignBuffer
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrDeviceClosed
	}
	s.queue = append(s.queue, sb)
	return nil
}

func (s *softSource) Processed() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cur
}

func (s *softSource) Unqueue() (Buffer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cur == 0 || len(s.queue) == 0 {
		return nil, ErrNoProcessed
	}
	b := s.queue[0]
	s.queue = s.queue[1:]
	s.cur--
	return b, nil
}

func (s *softSource) SampleOffset() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == Stopped {
		return 0
	}
	n := s.pos
	for i := 0; i < s.cur && i < len(s.queue); i++ {
		n += len(s.queue[i].data)
	}
	return n
}

func (s *softSource) SetLooping(looping bool) {
	s.mu.Lock()
	s.looping = looping
	s.mu.Unlock()
}

func (s *softSource) Looping() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.looping
}

func (s *softSource) SetVolume(volume float64) {
	s.mu.Lock()
	s.volume = volume
	s.mu.Unlock()
}

func (s *softSource) Close() error {
	s.mu.Lock()
	s.closed = true
	s.state = Stopped
	s.queue = nil
	s.cur, s.pos = 0, 0
	s.mu.Unlock()
	return nil
}

// pull mixes up to len(dst)/2 stereo float32 frames out of the queue,
// applying the source and listener volumes, and advances the play cursor.
// It returns the number of float32 values written. Starvation while playing
// flips the source to Stopped, mirroring how a starved hardware voice stops.
func (s *softSource) pull(dst []float32) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != Playing {
		return 0
	}
	gain := float32(s.volume * GlobalVolume())
	written := 0
	for written+1 < len(dst) {
		if s.cur >= len(s.queue) {
			if s.looping && len(s.queue) > 0 {
				s.cur, s.pos = 0, 0
				continue
			}
			// underrun
			s.state = Stopped
			s.pos = 0
			break
		}
		data, ch := s.queue[s.cur].pcm()
		if ch == 0 || s.pos >= len(data) {
			s.cur++
			s.pos = 0
			continue
		}
		for written+1 < len(dst) && s.pos+ch <= len(data) {
			frame := data[s.pos : s.pos+ch]
			var l, r float32
			switch ch {
			case 1:
				v := float32(frame[0]) / 32768 * gain
				l, r = v, v
			case 2:
				l = float32(frame[0]) / 32768 * gain
				r = float32(frame[1]) / 32768 * gain
			default:
				// cheap fold-down for surround layouts
				var sum float32
				for _, v := range frame {
					sum += float32(v)
				}
				v := sum / float32(ch) / 32768 * gain
				l, r = v, v
			}
			dst[written] = l
			dst[written+1] = r
			written += 2
			s.pos += ch
		}
		if s.pos+ch > len(data) {
			s.cur++
			s.pos = 0
		}
	}
	return written
}
