package sfx

// Scheduler lets you register sounds that should play in the future.
//
// The time notion is up to the caller. In a simulation the time is likely
// virtual; with real time, pass something like time.Since(start).Seconds().
//
// Remember to call Scheduler.Process() from your game loop.
type Scheduler struct {
	sounds []queuedSound
}

type queuedSound struct {
	id         Id
	whenToPlay float64
}

func NewScheduler() *Scheduler {
	return &Scheduler{
		sounds: make([]queuedSound, 0, 100),
	}
}

func (fs *Scheduler) PlaySoundEffectAt(id Id, at float64) {
	fs.sounds = append(fs.sounds, queuedSound{
		whenToPlay: at,
		id:         id,
	})
}

func (fs *Scheduler) Clear() {
	fs.sounds = fs.sounds[:0]
}

// Process plays all sounds that are due. Sounds more than 3 time units
// overdue are dropped silently, which avoids a burst after a long stall.
func (fs *Scheduler) Process(now float64) {
	i := 0
	for i < len(fs.sounds) {
		if fs.sounds[i].whenToPlay <= now {
			if fs.sounds[i].whenToPlay >= now-3 {
				fs.sounds[i].id.Play()
			}
			// clean array by moving the last element to the now free position
			fs.sounds[i] = fs.sounds[len(fs.sounds)-1]
			fs.sounds = fs.sounds[:len(fs.sounds)-1]
			continue
		} else {
			i++
		}
	}
}
