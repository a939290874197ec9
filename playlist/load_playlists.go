package playlist

import (
	"encoding/json"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"
	"golang.org/x/tools/godoc/vfs"

	genode "github.com/SirusDoma/genode-go"
)

var lock sync.RWMutex

type Track struct {
	Path   string
	Name   string
	Author string
	Volume float64
	music  *genode.Music
}

// LoadFolder loads playlists from a regular folder.
// See Load for more information.
func LoadFolder(folder string) error {
	fs := vfs.OS(folder)
	return Load(fs)
}

// Load loads playlists from a virtual filesystem. At the root of the
// filesystem there must be a "playlist.json" file, which references any
// files to be loaded. Tracks are opened as streams, not decoded up front;
// the filesystem stays in use as long as the playlists are.
func Load(fileSystem vfs.Opener) error {
	lock.Lock()
	defer lock.Unlock()
	start := time.Now()
	registry, err := loadRegistry(fileSystem, "playlist.json")
	if err != nil {
		return err
	}

	var g errgroup.Group
	for _, pl := range registry {
		for _, track := range pl.Tracks {
			track := track
			g.Go(func() error {
				file, err := fileSystem.Open(track.Path)
				if err != nil {
					log.Error("playlist: failed to open music track", "path", track.Path, "err", err)
					return nil
				}
				m, err := genode.OpenMusic(file)
				if err != nil {
					log.Error("playlist: failed to open music stream", "path", track.Path, "err", err)
					_ = file.Close()
					return nil
				}
				track.music = m
				return nil
			})
		}
	}
	_ = g.Wait()

	lists := make(map[Id]*PlayList, len(registry))
playlistLoop:
	for _, pl := range registry {
		for _, track := range pl.Tracks {
			if track.music == nil {
				continue playlistLoop
			}
		}
		lists[pl.Id] = pl
	}
	playLists = lists
	currentPlayList = nil

	log.Info("playlists loaded", "count", len(lists), "elapsed", time.Since(start))
	return nil
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

func loadRegistry(fs vfs.Opener, path string) (registry []*PlayList, err error) {
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
