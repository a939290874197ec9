// Package genode offers streaming and one-shot audio playback on top of a
// pluggable output device.
package genode

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"

	"github.com/SirusDoma/genode-go/audio"
)

// Status of a playback object.
type Status = audio.State

const (
	Stopped = audio.Stopped
	Paused  = audio.Paused
	Playing = audio.Playing
)

// bufferCount is the size of the playback buffer ring: one buffer being
// refilled while two are already queued ahead of the device.
const bufferCount = 3

// pollInterval paces the worker between buffer reclaim passes.
const pollInterval = 10 * time.Millisecond

// maxRestarts bounds the self-heal path that re-issues a play command after
// a spurious device stop; past it the session is aborted.
const maxRestarts = 8

// SampleSource supplies interleaved 16-bit PCM chunks to a SoundStream.
//
// ReadChunk may return a partial final chunk together with ok == false; ok
// is false exactly when the source cannot produce more data without seeking
// back. The returned slice is only valid until the next ReadChunk call.
type SampleSource interface {
	ReadChunk() (samples []int16, ok bool)
	// Seek moves the source's read cursor to the given time offset.
	Seek(offset time.Duration)
}

// SoundStream plays an arbitrary-length PCM stream by cycling a small ring
// of device buffers from a worker goroutine. One worker is alive per stream
// at most; it is spawned by Play and joined by Stop.
//
// Play, Pause, Stop, Status and the offset accessors are safe to call from
// the client goroutine while the worker is running.
type SoundStream struct {
	src SampleSource
	dev audio.Device
	out audio.Source

	channelCount int
	sampleRate   int
	format       audio.Format

	mu         sync.Mutex
	state      Status
	streaming  bool
	startState Status
	done       chan struct{}

	samplesProcessed atomic.Uint64
	looping          atomic.Bool
	err              atomicError

	// ring state below is owned by the worker goroutine while streaming,
	// and by the client goroutine otherwise; Stop's join is the handoff.
	buffers    [bufferCount]audio.Buffer
	endMarkers [bufferCount]bool
}

// NewSoundStream binds src to the current output device. It fails with
// ErrInvalidParameter for non-positive channel counts or sample rates and
// with ErrUnsupportedFormat when the device has no matching buffer format
// (3 and 5 channel layouts, notably).
func NewSoundStream(src SampleSource, channelCount, sampleRate int) (*SoundStream, error) {
	dev := audio.Current()
	if dev == nil {
		return nil, ErrNoDevice
	}
	if channelCount <= 0 || sampleRate <= 0 {
		return nil, ErrInvalidParameter
	}
	format := dev.ResolveFormat(channelCount)
	if format == audio.FormatNone {
		return nil, ErrUnsupportedFormat
	}
	out, err := dev.NewSource()
	if err != nil {
		return nil, err
	}
	return &SoundStream{
		src:          src,
		dev:          dev,
		out:          out,
		channelCount: channelCount,
		sampleRate:   sampleRate,
		format:       format,
	}, nil
}

// Play starts or resumes playback.
//
// A paused stream resumes in place. A playing stream restarts from the
// beginning. A stopped stream seeks its source to zero and spawns the
// streaming worker.
func (s *SoundStream) Play() error {
	if s.out == nil || s.format == audio.FormatNone {
		return ErrNotInitialized
	}

	s.mu.Lock()
	if s.streaming {
		if s.state == Paused {
			s.state = Playing
			s.mu.Unlock()
			s.out.Play()
			return nil
		}
		s.mu.Unlock()
		s.Stop()
	} else {
		s.mu.Unlock()
	}

	s.src.Seek(0)
	s.samplesProcessed.Store(0)
	s.err.Clear()
	s.launch(Playing)
	return nil
}

// Pause suspends playback in place. It is a no-op unless the stream is
// currently streaming.
func (s *SoundStream) Pause() {
	s.mu.Lock()
	if !s.streaming {
		s.mu.Unlock()
		return
	}
	s.state = Paused
	s.mu.Unlock()
	s.out.Pause()
}

// Stop signals the worker, blocks until it has fully drained, then rewinds
// the source. Stopping a stopped stream is a no-op.
func (s *SoundStream) Stop() {
	s.mu.Lock()
	s.streaming = false
	s.state = Stopped
	done := s.done
	s.mu.Unlock()

	if done != nil {
		<-done
	}

	// the worker is gone; ring and counters belong to this goroutine again
	s.src.Seek(0)
	s.samplesProcessed.Store(0)
}

// Status reports the playback state. When the device lags behind a freshly
// issued play command and still reports Stopped, the stream's own state
// wins.
func (s *SoundStream) Status() Status {
	status := Stopped
	if s.out != nil {
		status = s.out.State()
	}
	if status == Stopped {
		s.mu.Lock()
		if s.streaming {
			status = s.state
		}
		s.mu.Unlock()
	}
	return status
}

// PlayingOffset returns the elapsed playback position: whole buffers
// reclaimed so far plus the device's sub-queue sample offset.
func (s *SoundStream) PlayingOffset() time.Duration {
	if s.out == nil || s.sampleRate == 0 || s.channelCount == 0 {
		return 0
	}
	samples := s.samplesProcessed.Load() + uint64(s.out.SampleOffset())
	seconds := float64(samples) / float64(s.sampleRate) / float64(s.channelCount)
	return time.Duration(seconds * float64(time.Second))
}

// SetPlayingOffset seeks to the given position. A playing or paused stream
// is restarted there in its previous state; a stopped stream stays stopped.
func (s *SoundStream) SetPlayingOffset(offset time.Duration) {
	if s.out == nil || s.format == audio.FormatNone {
		return
	}
	prev := s.Status()
	s.Stop()

	s.src.Seek(offset)
	s.samplesProcessed.Store(uint64(offset.Seconds() * float64(s.sampleRate) * float64(s.channelCount)))
	if prev != Stopped {
		s.launch(prev)
	}
}

// SetLooping makes the stream restart from the beginning once the source is
// exhausted.
func (s *SoundStream) SetLooping(looping bool) {
	s.looping.Store(looping)
}

func (s *SoundStream) Looping() bool {
	return s.looping.Load()
}

// SetVolume scales this stream in [0, 1], multiplied with the listener
// volume.
func (s *SoundStream) SetVolume(volume float64) {
	if s.out != nil {
		s.out.SetVolume(volume)
	}
}

func (s *SoundStream) ChannelCount() int { return s.channelCount }

func (s *SoundStream) SampleRate() int { return s.sampleRate }

// Err returns the error that aborted the last streaming session, if any.
// Worker errors are never rethrown into the client goroutine; poll Status
// and check Err after an unexpected stop.
func (s *SoundStream) Err() error {
	return s.err.Load()
}

// Close stops the stream and releases its device source.
func (s *SoundStream) Close() error {
	s.Stop()
	if s.out == nil {
		return nil
	}
	err := s.out.Close()
	s.out = nil
	return err
}

func (s *SoundStream) launch(start Status) {
	s.mu.Lock()
	s.streaming = true
	s.state = start
	s.startState = start
	s.done = make(chan struct{})
	go s.streamData(s.done)
	s.mu.Unlock()
}

func (s *SoundStream) isStreaming() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.streaming
}

// streamData is the worker loop. It owns the buffer ring and the processed
// sample counter for its whole lifetime.
func (s *SoundStream) streamData(done chan struct{}) {
	defer close(done)

	s.mu.Lock()
	start := s.startState
	if !s.streaming || start == Stopped {
		// stopped before the first instruction ran
		s.streaming = false
		s.mu.Unlock()
		return
	}
	s.mu.Unlock()

	if err := s.allocateRing(); err != nil {
		log.Error("sound stream: buffer allocation failed", "err", err)
		s.abort(err)
		return
	}

	requestStop := false
	for i := range s.buffers {
		if s.fillAndQueue(i) {
			requestStop = true
			break
		}
	}

	// the client may have paused or resumed while the ring was filling, so
	// the current state decides here, not the one captured at launch
	s.out.Play()
	s.mu.Lock()
	if s.state == Paused {
		s.out.Pause()
	}
	s.mu.Unlock()

	restarts := 0
	for s.isStreaming() {
		if s.dev.Closed() {
			break
		}

		if s.out.State() == Stopped {
			if requestStop {
				break
			}
			// the device stopped on its own, usually scheduling lag
			// right after the play command; kick it back on
			restarts++
			if restarts > maxRestarts {
				log.Error("sound stream: device keeps stopping, aborting session")
				s.err.TryStore(ErrDeviceUnresponsive)
				break
			}
			s.out.Play()
		}

		n := s.out.Processed()
		for i := 0; i < n; i++ {
			buf, err := s.out.Unqueue()
			if err != nil {
				break
			}
			slot := s.slotOf(buf)
			if slot < 0 {
				continue
			}

			if s.endMarkers[slot] {
				// the content wrapped around: restart position tracking
				s.samplesProcessed.Store(0)
				s.endMarkers[slot] = false
			} else {
				if buf.Bits() == 0 {
					log.Error("sound stream: bit depth is 0, aborting session")
					s.err.TryStore(ErrCorruptBuffer)
					s.mu.Lock()
					s.streaming = false
					s.mu.Unlock()
					requestStop = true
					break
				}
				s.samplesProcessed.Add(uint64(buf.Samples()))
			}

			if !requestStop && s.fillAndQueue(slot) {
				requestStop = true
			}
		}

		if s.out.State() != Stopped {
			restarts = 0
			time.Sleep(pollInterval)
		}
	}

	s.out.Stop()
	s.drainRing()

	s.mu.Lock()
	s.streaming = false
	s.mu.Unlock()
}

// fillAndQueue pulls one chunk into the given ring slot and queues it.
// It returns true when the stream should stop once this slot has played.
func (s *SoundStream) fillAndQueue(slot int) bool {
	requestStop := false

	samples, ok := s.src.ReadChunk()
	if !ok {
		// this slot carries the last chunk of the content
		s.endMarkers[slot] = true
		if !s.looping.Load() {
			requestStop = true
		} else {
			s.src.Seek(0)
			if len(samples) == 0 {
				// a source may legitimately have nothing left right at the
				// seam; fetch once more from the start
				samples, _ = s.src.ReadChunk()
			}
		}
	}

	if len(samples) > 0 {
		b := s.buffers[slot]
		if err := b.Fill(samples, s.format, s.sampleRate); err != nil {
			log.Error("sound stream: buffer upload failed", "err", err)
			s.err.TryStore(err)
			return true
		}
		if err := s.out.Queue(b); err != nil {
			log.Error("sound stream: buffer enqueue failed", "err", err)
			s.err.TryStore(err)
			return true
		}
	}
	return requestStop
}

func (s *SoundStream) allocateRing() error {
	for i := range s.buffers {
		b, err := s.dev.NewBuffer()
		if err != nil {
			for j := 0; j < i; j++ {
				_ = s.buffers[j].Close()
				s.buffers[j] = nil
			}
			return err
		}
		s.buffers[i] = b
		s.endMarkers[i] = false
	}
	return nil
}

func (s *SoundStream) drainRing() {
	for {
		if _, err := s.out.Unqueue(); err != nil {
			break
		}
	}
	for i := range s.buffers {
		if s.buffers[i] != nil {
			_ = s.buffers[i].Close()
			s.buffers[i] = nil
		}
	}
}

func (s *SoundStream) slotOf(b audio.Buffer) int {
	for i := range s.buffers {
		if s.buffers[i] == b {
			return i
		}
	}
	return -1
}

func (s *SoundStream) abort(err error) {
	s.err.TryStore(err)
	s.mu.Lock()
	s.streaming = false
	s.mu.Unlock()
}
