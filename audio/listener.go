package audio

import "sync"

// Vector3 is a position or direction in the listener's 3D space.
type Vector3 struct {
	X, Y, Z float32
}

type listenerState struct {
	volume    float64
	position  Vector3
	direction Vector3
	up        Vector3
}

var listener = listenerState{
	volume:    1,
	direction: Vector3{Z: -1},
	up:        Vector3{Y: 1},
}

var listenerLock sync.RWMutex

// SetGlobalVolume sets the listener volume in [0, 1], applied on top of
// every source's own volume.
func SetGlobalVolume(volume float64) {
	listenerLock.Lock()
	listener.volume = volume
	listenerLock.Unlock()
}

func GlobalVolume() float64 {
	listenerLock.RLock()
	defer listenerLock.RUnlock()
	return listener.volume
}

func SetListenerPosition(position Vector3) {
	listenerLock.Lock()
	listener.position = position
	listenerLock.Unlock()
}

func ListenerPosition() Vector3 {
	listenerLock.RLock()
	defer listenerLock.RUnlock()
	return listener.position
}

func SetListenerDirection(direction Vector3) {
	listenerLock.Lock()
	listener.direction = direction
	listenerLock.Unlock()
}

func ListenerDirection() Vector3 {
	listenerLock.RLock()
	defer listenerLock.RUnlock()
	return listener.direction
}

func SetListenerUpVector(up Vector3) {
	listenerLock.Lock()
	listener.up = up
	listenerLock.Unlock()
}

func ListenerUpVector() Vector3 {
	listenerLock.RLock()
	defer listenerLock.RUnlock()
	return listener.up
}
