package audio

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestListenerDefaults(t *testing.T) {
	assert.Equal(t, Vector3{}, ListenerPosition())
	assert.Equal(t, Vector3{Z: -1}, ListenerDirection())
	assert.Equal(t, Vector3{Y: 1}, ListenerUpVector())
}

func TestListenerAccessors(t *testing.T) {
	defer func() {
		SetGlobalVolume(1)
		SetListenerPosition(Vector3{})
		SetListenerDirection(Vector3{Z: -1})
		SetListenerUpVector(Vector3{Y: 1})
	}()

	SetGlobalVolume(0.25)
	assert.Equal(t, 0.25, GlobalVolume())

	SetListenerPosition(Vector3{X: 1, Y: 2, Z: 3})
	assert.Equal(t, Vector3{X: 1, Y: 2, Z: 3}, ListenerPosition())

	SetListenerDirection(Vector3{X: 1})
	assert.Equal(t, Vector3{X: 1}, ListenerDirection())

	SetListenerUpVector(Vector3{Z: 1})
	assert.Equal(t, Vector3{Z: 1}, ListenerUpVector())
}
