package playlist

import (
	"github.com/charmbracelet/log"

	genode "github.com/SirusDoma/genode-go"
)

var (
	playLists       map[Id]*PlayList
	currentPlayList *PlayList
)

type Id string

type PlayList struct {
	Id           Id
	Tracks       []*Track
	currentTrack int
}

// Play switches to this playlist and starts its current track. Playing the
// playlist that is already current resumes it instead of restarting.
func (playListId Id) Play() {
	lock.Lock()
	defer lock.Unlock()
	if currentPlayList != nil && currentPlayList.Id == playListId {
		currentPlayList.resume()
		return
	}
	if currentPlayList != nil {
		currentPlayList.stop()
	}
	currentPlayList = nil
	if pl, ok := playLists[playListId]; ok {
		currentPlayList = pl
		pl.play()
	}
}

// Pause suspends the current playlist in place.
func Pause() {
	lock.RLock()
	defer lock.RUnlock()
	if currentPlayList != nil {
		currentPlayList.pause()
	}
}

// Resume continues the current playlist where Pause left it.
func Resume() {
	lock.RLock()
	defer lock.RUnlock()
	if currentPlayList != nil {
		currentPlayList.resume()
	}
}

// Stop stops the current playlist and forgets it.
func Stop() {
	lock.Lock()
	defer lock.Unlock()
	if currentPlayList != nil {
		currentPlayList.stop()
		currentPlayList = nil
	}
}

// Process advances to the next track once the current one has finished.
// Call it from your game loop.
func Process() {
	lock.RLock()
	defer lock.RUnlock()
	if currentPlayList != nil {
		currentPlayList.process()
	}
}

func (pl *PlayList) track() *Track {
	if len(pl.Tracks) == 0 {
		return nil
	}
	return pl.Tracks[pl.currentTrack]
}

func (pl *PlayList) play() {
	track := pl.track()
	if track == nil || track.music == nil {
		return
	}
	track.music.SetLooping(len(pl.Tracks) == 1)
	track.music.SetVolume(track.Volume)
	if err := track.music.Play(); err != nil {
		log.Error("playlist: failed to start track", "path", track.Path, "err", err)
	}
}

func (pl *PlayList) pause() {
	if track := pl.track(); track != nil && track.music != nil {
		track.music.Pause()
	}
}

func (pl *PlayList) resume() {
	track := pl.track()
	if track == nil || track.music == nil {
		return
	}
	switch track.music.Status() {
	case genode.Paused:
		if err := track.music.Play(); err != nil {
			log.Error("playlist: failed to resume track", "path", track.Path, "err", err)
		}
	case genode.Stopped:
		pl.play()
	}
}

func (pl *PlayList) stop() {
	if track := pl.track(); track != nil && track.music != nil {
		track.music.Stop()
	}
}

func (pl *PlayList) process() {
	track := pl.track()
	if track == nil || track.music == nil {
		return
	}
	if track.music.Status() == genode.Stopped {
		pl.currentTrack = (pl.currentTrack + 1) % len(pl.Tracks)
		pl.play()
	}
}

// Current returns the id of the current playlist and the track it is on.
func Current() (Id, *Track) {
	lock.RLock()
	defer lock.RUnlock()
	if currentPlayList == nil {
		return "", nil
	}
	return currentPlayList.Id, currentPlayList.track()
}
