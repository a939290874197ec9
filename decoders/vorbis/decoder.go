// Package vorbis provides a streaming Ogg Vorbis decoder backed by
// github.com/jfreymuth/oggvorbis.
package vorbis

import (
	"bytes"
	"fmt"
	"io"

	"github.com/jfreymuth/oggvorbis"

	"github.com/SirusDoma/genode-go/decoders"
)

func init() {
	decoders.Register("vorbis", Format{})
}

type Format struct{}

func (Format) Probe(header []byte) bool {
	return bytes.HasPrefix(header, []byte("OggS"))
}

func (Format) Open(r io.ReadSeeker) (decoders.Decoder, error) {
	or, err := oggvorbis.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("vorbis: %w", err)
	}
	return &decoder{
		r:   or,
		src: r,
		info: decoders.SampleInfo{
			SampleCount:  uint64(or.Length()) * uint64(or.Channels()),
			ChannelCount: or.Channels(),
			SampleRate:   or.SampleRate(),
		},
	}, nil
}

type decoder struct {
	r    *oggvorbis.Reader
	src  io.ReadSeeker
	info decoders.SampleInfo
	buf  []float32
}

func (d *decoder) Info() decoders.SampleInfo { return d.info }

func (d *decoder) Read(dst []int16) (int, error) {
	if len(d.buf) < len(dst) {
		d.buf = make([]float32, len(dst))
	}
	// oggvorbis returns whole frames only; dst is always sized in whole
	// frames by callers.
	n, err := d.r.Read(d.buf[:len(dst)])
	for i := 0; i < n; i++ {
		v := d.buf[i]
		if v > 1 {
			v = 1
		} else if v < -1 {
			v = -1
		}
		dst[i] = int16(v * 32767)
	}
	if err == io.EOF && n > 0 {
		err = nil
	}
	return n, err
}

func (d *decoder) Seek(offset uint64) error {
	frames := int64(offset) / int64(d.info.ChannelCount)
	if err := d.r.SetPosition(frames); err != nil {
		return fmt.Errorf("vorbis: seek: %w", err)
	}
	return nil
}

func (d *decoder) Close() error {
	if c, ok := d.src.(io.Closer); ok {
		return c.Close()
	}
	return nil
}
