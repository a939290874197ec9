package sfx

import (
	"github.com/charmbracelet/log"
)

// Id is used to identify a specific sound effect.
// Use Play to play the sounds after loading them.
type Id string

func (id Id) Play() bool {
	lock.RLock()
	defer lock.RUnlock()
	if effect, ok := loadedSfx[id]; ok {
		return effect.play()
	}
	log.Warn("sfx not loaded", "id", id)
	return false
}
