// Package wav provides a streaming WAV (RIFF) decoder.
package wav

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/SirusDoma/genode-go/decoders"
)

func init() {
	decoders.Register("wav", Format{})
}

type Format struct{}

func (Format) Probe(header []byte) bool {
	return len(header) >= 12 &&
		bytes.Equal(header[0:4], []byte("RIFF")) &&
		bytes.Equal(header[8:12], []byte("WAVE"))
}

// Open walks the RIFF chunks until the data chunk. Only 16-bit linear PCM
// is supported.
func (Format) Open(r io.ReadSeeker) (decoders.Decoder, error) {
	header := make([]byte, 12)
	if _, err := io.ReadFull(r, header); err != nil {
		return nil, fmt.Errorf("wav: %w", err)
	}
	if !bytes.Equal(header[0:4], []byte("RIFF")) || !bytes.Equal(header[8:12], []byte("WAVE")) {
		return nil, fmt.Errorf("wav: invalid header: 'RIFF'/'WAVE' not found")
	}

	var (
		channels   int
		sampleRate int
		haveFmt    bool
	)
	chunk := make([]byte, 8)
	offset := int64(12)
	for {
		if _, err := io.ReadFull(r, chunk); err != nil {
			return nil, fmt.Errorf("wav: missing data chunk: %w", err)
		}
		offset += 8
		size := int64(binary.LittleEndian.Uint32(chunk[4:8]))
		switch {
		case bytes.Equal(chunk[0:4], []byte("fmt ")):
			// Size of 'fmt' header is usually 16, but can be more than 16.
			if size < 16 {
				return nil, fmt.Errorf("wav: invalid header: maybe non-PCM file?")
			}
			buf := make([]byte, size)
			if _, err := io.ReadFull(r, buf); err != nil {
				return nil, fmt.Errorf("wav: %w", err)
			}
			format := int(binary.LittleEndian.Uint16(buf[0:2]))
			if format != 1 {
				return nil, fmt.Errorf("wav: format must be linear PCM")
			}
			channels = int(binary.LittleEndian.Uint16(buf[2:4]))
			sampleRate = int(binary.LittleEndian.Uint32(buf[4:8]))
			bitsPerSample := int(binary.LittleEndian.Uint16(buf[14:16]))
			if bitsPerSample != 16 {
				return nil, fmt.Errorf("wav: bits per sample must be 16 but was %d", bitsPerSample)
			}
			haveFmt = true
			offset += size
		case bytes.Equal(chunk[0:4], []byte("data")):
			if !haveFmt {
				return nil, fmt.Errorf("wav: data chunk before fmt chunk")
			}
			return &decoder{
				r:         r,
				dataStart: offset,
				info: decoders.SampleInfo{
					SampleCount:  uint64(size / 2),
					ChannelCount: channels,
					SampleRate:   sampleRate,
				},
			}, nil
		default:
			if _, err := r.Seek(size, io.SeekCurrent); err != nil {
				return nil, fmt.Errorf("wav: %w", err)
			}
			offset += size
		}
	}
}

type decoder struct {
	r         io.ReadSeeker
	dataStart int64
	info      decoders.SampleInfo
	read      uint64 // interleaved samples consumed
	buf       []byte
}

func (d *decoder) Info() decoders.SampleInfo { return d.info }

func (d *decoder) Read(dst []int16) (int, error) {
	remaining := d.info.SampleCount - d.read
	if remaining == 0 {
		return 0, io.EOF
	}
	want := len(dst)
	if uint64(want) > remaining {
		want = int(remaining)
	}
	if len(d.buf) < want*2 {
		d.buf = make([]byte, want*2)
	}
	n, err := io.ReadFull(d.r, d.buf[:want*2])
	samples := n / 2
	for i := 0; i < samples; i++ {
		dst[i] = int16(binary.LittleEndian.Uint16(d.buf[2*i : 2*i+2]))
	}
	d.read += uint64(samples)
	if err == io.ErrUnexpectedEOF {
		err = nil
	}
	if samples == 0 && err == nil {
		err = io.EOF
	}
	if err == io.EOF && samples > 0 {
		err = nil
	}
	return samples, err
}

func (d *decoder) Seek(offset uint64) error {
	if offset > d.info.SampleCount {
		offset = d.info.SampleCount
	}
	if _, err := d.r.Seek(d.dataStart+int64(offset)*2, io.SeekStart); err != nil {
		return fmt.Errorf("wav: seek: %w", err)
	}
	d.read = offset
	return nil
}

func (d *decoder) Close() error {
	if c, ok := d.r.(io.Closer); ok {
		return c.Close()
	}
	return nil
}
