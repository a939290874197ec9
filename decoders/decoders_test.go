package decoders_test

import (
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SirusDoma/genode-go/decoders"
)

type stubDecoder struct {
	name string
}

func (d *stubDecoder) Info() decoders.SampleInfo     { return decoders.SampleInfo{} }
func (d *stubDecoder) Read(dst []int16) (int, error) { return 0, io.EOF }
func (d *stubDecoder) Seek(offset uint64) error      { return nil }
func (d *stubDecoder) Close() error                  { return nil }

type stubFormat struct {
	name  string
	magic []byte
}

func (f stubFormat) Probe(header []byte) bool {
	return bytes.HasPrefix(header, f.magic)
}

func (f stubFormat) Open(r io.ReadSeeker) (decoders.Decoder, error) {
	return &stubDecoder{name: f.name}, nil
}

func TestRegistryDispatchesOnHeader(t *testing.T) {
	r := decoders.NewRegistry()
	r.Register("aaa", stubFormat{name: "aaa", magic: []byte("AAAA")})
	r.Register("bbb", stubFormat{name: "bbb", magic: []byte("BBBB")})

	dec, err := r.Open(bytes.NewReader([]byte("BBBB and then a payload")))
	require.NoError(t, err)
	assert.Equal(t, "bbb", dec.(*stubDecoder).name)
}

func TestRegistryPrefersEarlierRegistration(t *testing.T) {
	r := decoders.NewRegistry()
	r.Register("first", stubFormat{name: "first", magic: []byte("XX")})
	r.Register("second", stubFormat{name: "second", magic: []byte("XX")})

	dec, err := r.Open(bytes.NewReader([]byte("XX payload")))
	require.NoError(t, err)
	assert.Equal(t, "first", dec.(*stubDecoder).name)
}

func TestRegistryRejectsUnknownStreams(t *testing.T) {
	r := decoders.NewRegistry()
	r.Register("aaa", stubFormat{name: "aaa", magic: []byte("AAAA")})

	src := bytes.NewReader([]byte("something else entirely"))
	_, err := r.Open(src)
	assert.ErrorIs(t, err, decoders.ErrUnknownFormat)

	// the stream is rewound, not left at the probe offset
	pos, err := src.Seek(0, io.SeekCurrent)
	require.NoError(t, err)
	assert.Equal(t, int64(0), pos)
}

func TestRegistryRejectsEmptyAndShortStreams(t *testing.T) {
	r := decoders.NewRegistry()
	r.Register("aaa", stubFormat{name: "aaa", magic: []byte("AAAA")})

	_, err := r.Open(bytes.NewReader(nil))
	assert.ErrorIs(t, err, decoders.ErrUnknownFormat)

	_, err = r.Open(bytes.NewReader([]byte("ab")))
	assert.ErrorIs(t, err, decoders.ErrUnknownFormat)
}

func TestRegistryGet(t *testing.T) {
	r := decoders.NewRegistry()
	f := stubFormat{name: "aaa", magic: []byte("AAAA")}
	r.Register("aaa", f)

	got, ok := r.Get("aaa")
	assert.True(t, ok)
	assert.Equal(t, f, got)

	_, ok = r.Get("missing")
	assert.False(t, ok)
}

func TestSampleInfoDuration(t *testing.T) {
	info := decoders.SampleInfo{SampleCount: 88200, ChannelCount: 2, SampleRate: 44100}
	assert.InDelta(t, 1.0, info.Duration(), 1e-9)
	assert.Zero(t, decoders.SampleInfo{}.Duration())
}
