// Package decoders turns encoded audio streams into interleaved 16-bit PCM.
//
// Concrete formats live in subpackages and register themselves with the
// default registry on import:
//
//	import (
//	    _ "github.com/SirusDoma/genode-go/decoders/mp3"
//	    _ "github.com/SirusDoma/genode-go/decoders/vorbis"
//	    _ "github.com/SirusDoma/genode-go/decoders/wav"
//	)
//
//	dec, err := decoders.Open(file)
package decoders

import (
	"errors"
	"io"
	"sync"
)

var ErrUnknownFormat = errors.New("decoders: unrecognized audio format")

// SampleInfo describes a decoded stream.
type SampleInfo struct {
	// SampleCount is the total number of interleaved samples in the stream
	// (frames * channels).
	SampleCount  uint64
	ChannelCount int
	SampleRate   int
}

// Duration of the stream in seconds.
func (i SampleInfo) Duration() float64 {
	if i.SampleRate <= 0 || i.ChannelCount <= 0 {
		return 0
	}
	return float64(i.SampleCount) / float64(i.SampleRate) / float64(i.ChannelCount)
}

// Decoder reads interleaved 16-bit PCM out of an encoded stream. Decoders
// are not safe for concurrent use.
type Decoder interface {
	Info() SampleInfo
	// Read fills dst with interleaved samples and returns how many were
	// produced. It returns io.EOF once the stream is exhausted.
	Read(dst []int16) (int, error)
	// Seek repositions the cursor to the given interleaved sample offset.
	Seek(offset uint64) error
	Close() error
}

// Format opens decoders for one encoding.
type Format interface {
	// Probe reports whether the header bytes look like this encoding.
	Probe(header []byte) bool
	Open(r io.ReadSeeker) (Decoder, error)
}

const probeSize = 64

// Registry maps format names to openers and resolves streams by sniffing
// their headers.
type Registry struct {
	mtx     sync.Mutex
	formats map[string]Format
	order   []string
}

func NewRegistry() *Registry {
	return &Registry{formats: make(map[string]Format)}
}

func (r *Registry) Register(name string, f Format) {
	r.mtx.Lock()
	defer r.mtx.Unlock()

	if _, ok := r.formats[name]; !ok {
		r.order = append(r.order, name)
	}
	r.formats[name] = f
}

func (r *Registry) Get(name string) (Format, bool) {
	r.mtx.Lock()
	defer r.mtx.Unlock()

	f, ok := r.formats[name]
	return f, ok
}

// Open sniffs the stream header and opens a decoder with the first format
// that recognizes it. The stream is rewound before the decoder sees it, and
// rewound as well when no format matches. A stream too short to probe is an
// unknown format, not a read error.
func (r *Registry) Open(src io.ReadSeeker) (Decoder, error) {
	header := make([]byte, probeSize)
	n, err := io.ReadFull(src, header)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return nil, err
	}
	header = header[:n]

	r.mtx.Lock()
	names := append([]string(nil), r.order...)
	r.mtx.Unlock()

	for _, name := range names {
		f, ok := r.Get(name)
		if !ok || !f.Probe(header) {
			continue
		}
		if _, err := src.Seek(0, io.SeekStart); err != nil {
			return nil, err
		}
		return f.Open(src)
	}
	if _, err := src.Seek(0, io.SeekStart); err != nil {
		return nil, err
	}
	return nil, ErrUnknownFormat
}

var defaultRegistry = NewRegistry()

// Register adds a format to the default registry. It is meant to be called
// from format subpackage init functions.
func Register(name string, f Format) {
	defaultRegistry.Register(name, f)
}

// Open resolves and opens a decoder from the default registry.
func Open(src io.ReadSeeker) (Decoder, error) {
	return defaultRegistry.Open(src)
}
