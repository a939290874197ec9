package genode

import "errors"

var (
	// ErrNoDevice is returned when no output device has been initialized.
	ErrNoDevice = errors.New("genode: no audio device; call audio.Init first")

	// ErrNotInitialized is returned by Play when the stream has no resolved
	// device format.
	ErrNotInitialized = errors.New("genode: sound stream is not initialized")

	// ErrUnsupportedFormat is returned when the device has no buffer format
	// for the requested channel count.
	ErrUnsupportedFormat = errors.New("genode: unsupported channel count")

	// ErrInvalidParameter is returned for non-positive channel counts or
	// sample rates.
	ErrInvalidParameter = errors.New("genode: channel count and sample rate must be positive")

	// ErrCorruptBuffer aborts a streaming session when the device reports a
	// zero bit depth for a played buffer.
	ErrCorruptBuffer = errors.New("genode: device buffer reports zero bit depth")

	// ErrDeviceUnresponsive aborts a streaming session after the device
	// repeatedly refused to keep playing.
	ErrDeviceUnresponsive = errors.New("genode: device keeps stopping playback")
)
