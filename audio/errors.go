package audio

import "errors"

var (
	ErrDeviceClosed   = errors.New("audio: device is closed")
	ErrBufferReleased = errors.New("audio: buffer was released")
	ErrNoProcessed    = errors.New("audio: no processed buffer to unqueue")
	ErrInvalidFormat  = errors.New("audio: invalid buffer format")
	ErrForeignBuffer  = errors.New("audio: buffer belongs to another device")
)
