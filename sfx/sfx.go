package sfx

import (
	"math/rand"
	"time"

	genode "github.com/SirusDoma/genode-go"
)

var loadedSfx map[Id]*Sfx

type Sfx struct {
	Id           Id
	Volume       float64
	ThrottlingMs int
	Variations   []*SfxVariant
	lastPlayed   time.Time
}

type SfxVariant struct {
	Path         string
	Probability  float64
	Volume       float64
	ThrottlingMs int
	sound        *genode.Sound
	lastPlayed   time.Time
}

func (e *Sfx) play() bool {
	if len(e.Variations) == 0 {
		return false
	}

	if time.Since(e.lastPlayed) <= time.Duration(e.ThrottlingMs)*time.Millisecond {
		return false
	}
	unThrottled := make([]*SfxVariant, 0, len(e.Variations))
	probabilitySum := 0.0
	for _, v := range e.Variations {
		if time.Since(v.lastPlayed) > time.Duration(v.ThrottlingMs)*time.Millisecond {
			unThrottled = append(unThrottled, v)
			probabilitySum += v.Probability
		}
	}
	if len(unThrottled) == 0 {
		return false
	}
	random := rand.Float64() * probabilitySum

	for _, v := range unThrottled {
		if random <= v.Probability+0.001 {
			v.play()
			e.lastPlayed = time.Now()
			return true
		}
		random -= v.Probability
	}
	return false
}

func (e *SfxVariant) play() {
	e.sound.Play()
	e.lastPlayed = time.Now()
}
