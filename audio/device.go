package audio

// State reports what a playback source is doing right now, as seen by the
// device. It may lag behind the logical transport state for a short while
// after a play command is issued.
type State int

const (
	Stopped State = iota
	Paused
	Playing
)

func (s State) String() string {
	switch s {
	case Stopped:
		return "Stopped"
	case Paused:
		return "Paused"
	case Playing:
		return "Playing"
	default:
		return "Unknown"
	}
}

// Format identifies a device buffer layout for a given channel count.
// The zero Format means the layout is not supported by the device.
type Format int

const FormatNone Format = 0

// Channels returns the channel count encoded in the format token.
func (f Format) Channels() int { return int(f) }

// Buffer is a device-side chunk of interleaved 16-bit PCM samples, queued
// onto a Source for playback and reclaimed once fully played.
type Buffer interface {
	// Fill replaces the buffer contents with interleaved samples.
	Fill(samples []int16, format Format, sampleRate int) error
	// Samples returns the number of interleaved samples currently uploaded.
	Samples() int
	// Bits returns the sample bit depth, or 0 if the buffer was released.
	Bits() int
	// Close releases the device memory backing the buffer.
	Close() error
}

// Source is a playback voice on the device. Buffers are played in queue
// order; a fully played buffer counts as processed until it is unqueued.
//
// Transport commands and State/SampleOffset reads may arrive from a client
// goroutine while a streaming worker queues and reclaims buffers, so
// implementations must be safe for concurrent use.
type Source interface {
	Play()
	Pause()
	Stop()
	State() State

	// Queue appends a filled buffer to the playback queue.
	Queue(Buffer) error
	// Processed returns how many queued buffers have finished playing.
	Processed() int
	// Unqueue removes and returns the oldest processed buffer.
	Unqueue() (Buffer, error)
	// SampleOffset returns the number of interleaved samples played within
	// the currently queued buffers. It resets as buffers are unqueued and
	// reads zero while the source is stopped.
	SampleOffset() int

	SetLooping(bool)
	Looping() bool
	SetVolume(float64)

	Close() error
}

// Device is an audio output context. It owns the hardware handle, maps
// channel counts to buffer formats and creates sources and buffers.
type Device interface {
	// ResolveFormat maps a channel count to a device buffer format.
	// It returns FormatNone for unsupported layouts.
	ResolveFormat(channelCount int) Format
	NewSource() (Source, error)
	NewBuffer() (Buffer, error)
	// Closed reports whether the device has been shut down. Streaming
	// workers poll this and bail out once it turns true.
	Closed() bool
	Close() error
}

// ResolveFormat maps a channel count to a buffer format token. Mono, stereo,
// quad, 5.1, 6.1 and 7.1 layouts are supported; anything else (notably 3 and
// 5 channels) resolves to FormatNone.
func ResolveFormat(channelCount int) Format {
	switch channelCount {
	case 1, 2, 4, 6, 7, 8:
		return Format(channelCount)
	default:
		return FormatNone
	}
}
