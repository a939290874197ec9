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
	"fmt"
	"sync"
	"time"
)

var (
	contextCreationMutex sync.Mutex
	device               Device
)

// ContextOptions represents options for Init.
type ContextOptions struct {
	// SampleRate specifies the number of samples that should be played during one second.
	// Usual numbers are 44100 or 48000. One context has only one sample rate.
	SampleRate int

	// BufferSize specifies a buffer size in the underlying device.
	//
	// If 0 is specified, the driver's default buffer size is used.
	// Set BufferSize to adjust the buffer size if you want to adjust latency or reduce noises.
	// Too big buffer size can increase the latency time.
	// On the other hand, too small buffer size can cause glitch noises due to buffer shortage.
	BufferSize time.Duration
}

// Init creates the process-wide output device with the given options.
// It returns a channel that is closed when the device is ready, and an
// error if it exists.
//
// Creating multiple devices is NOT supported.
func Init(options *ContextOptions) (chan struct{}, error) {
	contextCreationMutex.Lock()
	defer contextCreationMutex.Unlock()

	if device != nil {
		return nil, fmt.Errorf("audio: device was already created")
	}

	d, ready, err := newOtoDevice(options)
	if err != nil {
		return nil, err
	}
	device = d
	return ready, nil
}

// Install makes d the process-wide output device. It is meant for headless
// setups and tests that bring their own Device implementation.
func Install(d Device) error {
	contextCreationMutex.Lock()
	defer contextCreationMutex.Unlock()

	if device != nil {
		return fmt.Errorf("audio: device was already created")
	}
	device = d
	return nil
}

// Close shuts the current device down. Active streaming workers observe the
// shutdown on their next poll and terminate.
func Close() error {
	contextCreationMutex.Lock()
	defer contextCreationMutex.Unlock()

	if device == nil {
		return nil
	}
	err := device.Close()
	device = nil
	return err
}

// Current returns the installed output device, or nil before Init.
func Current() Device {
	contextCreationMutex.Lock()
	defer contextCreationMutex.Unlock()
	return device
}
