// Package mp3 provides a streaming MP3 decoder backed by
// github.com/hajimehoshi/go-mp3. Decoded output is always stereo.
package mp3

import (
	"bytes"
	"fmt"
	"io"

	gomp3 "github.com/hajimehoshi/go-mp3"

	"github.com/SirusDoma/genode-go/decoders"
)

func init() {
	decoders.Register("mp3", Format{})
}

type Format struct{}

func (Format) Probe(header []byte) bool {
	if bytes.HasPrefix(header, []byte("ID3")) {
		return true
	}
	// frame sync: 11 set bits
	return len(header) >= 2 && header[0] == 0xFF && header[1]&0xE0 == 0xE0
}

func (Format) Open(r io.ReadSeeker) (decoders.Decoder, error) {
	dec, err := gomp3.NewDecoder(r)
	if err != nil {
		return nil, fmt.Errorf("mp3: %w", err)
	}
	return &decoder{
		r:   dec,
		src: r,
		info: decoders.SampleInfo{
			// go-mp3 reports the decoded length in bytes of 16-bit stereo PCM
			SampleCount:  uint64(dec.Length() / 2),
			ChannelCount: 2,
			SampleRate:   dec.SampleRate(),
		},
	}, nil
}

type decoder struct {
	r    *gomp3.Decoder
	src  io.ReadSeeker
	info decoders.SampleInfo
	buf  []byte
}

func (d *decoder) Info() decoders.SampleInfo { return d.info }

func (d *decoder) Read(dst []int16) (int, error) {
	if len(d.buf) < len(dst)*2 {
		d.buf = make([]byte, len(dst)*2)
	}
	n, err := d.r.Read(d.buf[:len(dst)*2])
	samples := n / 2
	for i := 0; i < samples; i++ {
		dst[i] = int16(d.buf[2*i]) | int16(d.buf[2*i+1])<<8
	}
	if err == io.EOF && samples > 0 {
		err = nil
	}
	return samples, err
}

func (d *decoder) Seek(offset uint64) error {
	// go-mp3 seeks in decoded bytes, which must land on a whole frame
	byteOffset := int64(offset) * 2
	byteOffset -= byteOffset % 4
	if _, err := d.r.Seek(byteOffset, io.SeekStart); err != nil {
		return fmt.Errorf("mp3: seek: %w", err)
	}
	return nil
}

func (d *decoder) Close() error {
	if c, ok := d.src.(io.Closer); ok {
		return c.Close()
	}
	return nil
}
