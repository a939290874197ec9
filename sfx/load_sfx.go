package sfx

import (
	"encoding/json"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/tools/godoc/vfs"

	genode "github.com/SirusDoma/genode-go"
)

var lock sync.RWMutex

// LoadFolder loads sound effects from a regular folder.
// See Load for more information.
func LoadFolder(folder string) error {
	fs := vfs.OS(folder)
	return Load(fs)
}

// Load loads sound effects from a virtual filesystem. At the root of the
// filesystem there must be a "sfx.json" file, which references any files to
// be loaded. Each variant is decoded into memory once; variants sharing a
// path share the decoded buffer.
func Load(fileSystem vfs.Opener) error {
	lock.Lock()
	defer lock.Unlock()
	cachedDiskReads := make(map[string]*genode.SoundBuffer)
	start := time.Now()
	soundEffects, err := loadRegistry(fileSystem, "sfx.json")
	if err != nil {
		return err
	}
	effects := make(map[Id]*Sfx, len(soundEffects))
	for _, e := range soundEffects {
		loaded := make([]*SfxVariant, 0, len(e.Variations))
		for _, v := range e.Variations {
			buffer, ok := cachedDiskReads[v.Path]
			if !ok {
				buffer, err = readBuffer(fileSystem, v.Path)
				if err != nil {
					log.Error("failed to load sound effect", "path", v.Path, "err", err)
					continue
				}
				cachedDiskReads[v.Path] = buffer
			}
			sound, err := genode.NewSound(buffer)
			if err != nil {
				log.Error("failed to create sound", "path", v.Path, "err", err)
				continue
			}
			sound.SetVolume(e.Volume * v.Volume)
			v.sound = sound
			loaded = append(loaded, v)
		}
		e.Variations = loaded
		effects[e.Id] = e
	}
	loadedSfx = effects

	log.Info("sound effects loaded", "count", len(loadedSfx), "elapsed", time.Since(start))
	return nil
}

func readBuffer(fs vfs.Opener, path string) (*genode.SoundBuffer, error) {
	file, err := fs.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return genode.LoadSoundBuffer(file)
}

func loadRegistry(fs vfs.Opener, path string) (registry []*Sfx, err error) {
	data, err := readFile(fs, path)
	if err != nil {
		err = fmt.Errorf("failed to open %s: %w", path, err)
		return
	}
	err = json.Unmarshal(data, &registry)
	if err != nil {
		err = fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return
}

func readFile(fs vfs.Opener, path string) (data []byte, err error) {
	file, err := fs.Open(path)
	if err != nil {
		return
	}
	data, err = io.ReadAll(file)
	_ = file.Close()
	return
}
