// Copyright 2021 The Oto Authors
// Copyright 2025 SirusDoma
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package audio

import (
	"sync"
	"sync/atomic"

	"github.com/ebitengine/oto/v3"
)

// mixChannelCount is the layout of the final mix fed to the OS. Sources with
// other layouts are folded down or duplicated into it.
const mixChannelCount = 2

// otoDevice drives the platform audio API through ebitengine/oto. Each
// source owns an oto player pulling the final mix from the source's queue.
type otoDevice struct {
	ctx        *oto.Context
	sampleRate int
	closed     atomic.Bool

	mu      sync.Mutex
	sources []*otoSource
}

func newOtoDevice(options *ContextOptions) (*otoDevice, chan struct{}, error) {
	op := &oto.NewContextOptions{
		SampleRate:   options.SampleRate,
		ChannelCount: mixChannelCount,
		Format:       oto.FormatSignedInt16LE,
		BufferSize:   options.BufferSize,
	}
	ctx, ready, err := oto.NewContext(op)
	if err != nil {
		return nil, nil, err
	}
	return &otoDevice{ctx: ctx, sampleRate: options.SampleRate}, ready, nil
}

func (d *otoDevice) ResolveFormat(channelCount int) Format {
	return ResolveFormat(channelCount)
}

func (d *otoDevice) NewSource() (Source, error) {
	if d.closed.Load() {
		return nil, ErrDeviceClosed
	}
	s := &otoSource{dev: d}
	s.volume = 1
	s.player = d.ctx.NewPlayer(s)
	s.player.Play()

	d.mu.Lock()
	d.sources = append(d.sources, s)
	d.mu.Unlock()
	return s, nil
}

func (d *otoDevice) NewBuffer() (Buffer, error) {
	if d.closed.Load() {
		return nil, ErrDeviceClosed
	}
	return &softBuffer{}, nil
}

func (d *otoDevice) Closed() bool {
	return d.closed.Load()
}

func (d *otoDevice) removeSource(target *otoSource) {
	d.mu.Lock()
	defer d.mu.Unlock()
	for i, s := range d.sources {
		if s == target {
			d.sources = append(d.sources[:i], d.sources[i+1:]...)
			return
		}
	}
}

func (d *otoDevice) Close() error {
	d.closed.Store(true)

	d.mu.Lock()
	sources := d.sources
	d.sources = nil
	d.mu.Unlock()

	var first error
	for _, s := range sources {
		if err := s.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// otoSource feeds its buffer queue into an oto player. The player keeps
// pulling even while the source is paused or stopped; pull then yields
// nothing and Read pads with silence.
type otoSource struct {
	softSource
	dev     *otoDevice
	player  *oto.Player
	scratch []float32
}

// Read implements io.Reader for the oto player, producing 16-bit little
// endian stereo frames.
func (s *otoSource) Read(p []byte) (int, error) {
	frames := len(p) / (mixChannelCount * 2)
	want := frames * mixChannelCount
	if cap(s.scratch) < want {
		s.scratch = make([]float32, want)
	}
	buf := s.scratch[:want]
	n := s.pull(buf)

	for i := 0; i < n; i++ {
		v := buf[i]
		if v > 1 {
			v = 1
		} else if v < -1 {
			v = -1
		}
		u := int16(v * 32767)
		p[2*i] = byte(u)
		p[2*i+1] = byte(u >> 8)
	}
	for i := n * 2; i < len(p); i++ {
		p[i] = 0
	}
	return len(p), nil
}

func (s *otoSource) Close() error {
	s.dev.removeSource(s)
	if err := s.softSource.Close(); err != nil {
		return err
	}
	if s.player == nil {
		return nil
	}
	return s.player.Close()
}
