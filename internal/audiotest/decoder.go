package audiotest

import (
	"io"

	"github.com/SirusDoma/genode-go/decoders"
)

// Decoder is a deterministic in-memory decoder: sample i carries the value
// i % 32768, so tests can verify positions by value.
type Decoder struct {
	info decoders.SampleInfo
	pos  uint64
}

// NewDecoder creates a decoder producing the given number of frames.
func NewDecoder(frames, channelCount, sampleRate int) *Decoder {
	return &Decoder{
		info: decoders.SampleInfo{
			SampleCount:  uint64(frames * channelCount),
			ChannelCount: channelCount,
			SampleRate:   sampleRate,
		},
	}
}

func (d *Decoder) Info() decoders.SampleInfo { return d.info }

func (d *Decoder) Read(dst []int16) (int, error) {
	remaining := d.info.SampleCount - d.pos
	if remaining == 0 {
		return 0, io.EOF
	}
	n := len(dst)
	if uint64(n) > remaining {
		n = int(remaining)
	}
	for i := 0; i < n; i++ {
		dst[i] = int16((d.pos + uint64(i)) % 32768)
	}
	d.pos += uint64(n)
	return n, nil
}

func (d *Decoder) Seek(offset uint64) error {
	if offset > d.info.SampleCount {
		offset = d.info.SampleCount
	}
	d.pos = offset
	return nil
}

func (d *Decoder) Close() error { return nil }
