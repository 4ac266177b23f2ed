// Command waves is a headless command-line front end for the playloop
// playback core: it loads config, builds a queue from the paths given
// on the command line, and drives playback from stdin until the queue
// drains or the user quits. The terminal UI that historically sat on
// top of this core is out of scope here (see spec.md §1); this is the
// minimal real wiring the playloop, playback service, mpris and notify
// packages are built to serve.
package main

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/rowanwave/waves/internal/config"
	"github.com/rowanwave/waves/internal/errmsg"
	"github.com/rowanwave/waves/internal/mpris"
	"github.com/rowanwave/waves/internal/notify"
	"github.com/rowanwave/waves/internal/playback"
	"github.com/rowanwave/waves/internal/player"
	"github.com/rowanwave/waves/internal/playlist"
	"github.com/rowanwave/waves/internal/tags"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, errmsg.Format(errmsg.OpInitialize, err))
		os.Exit(1)
	}

	paths := os.Args[1:]
	if len(paths) == 0 {
		if cfg.DefaultFolder == "" {
			fmt.Fprintln(os.Stderr, "usage: waves <file-or-folder>...")
			os.Exit(1)
		}
		paths = []string{cfg.DefaultFolder}
	}

	tracks, err := collectTracks(paths)
	if err != nil {
		fmt.Fprintln(os.Stderr, errmsg.Format(errmsg.OpImportFile, err))
		os.Exit(1)
	}
	if len(tracks) == 0 {
		fmt.Fprintln(os.Stderr, "no playable tracks found")
		os.Exit(1)
	}

	p := player.New()
	queue := playlist.NewQueue()
	queue.Add(tracks...)

	service := playback.NewWithOptions(p, queue, cfg.Playback.ToPlayloopOptions())
	defer service.Close()

	notifier, err := notify.New()
	if err != nil {
		fmt.Fprintln(os.Stderr, errmsg.Format(errmsg.OpInitialize, err))
	} else {
		defer notifier.Close(0)
		go notifyOnTrackChange(service, notifier, cfg)
	}

	if adapter, err := mpris.New(service); err != nil {
		fmt.Fprintln(os.Stderr, errmsg.Format(errmsg.OpInitialize, err))
	} else {
		defer adapter.Close()
	}

	if err := service.JumpTo(0); err != nil {
		fmt.Fprintln(os.Stderr, errmsg.Format(errmsg.OpPlaybackStart, err))
		os.Exit(1)
	}
	if err := service.Play(); err != nil {
		fmt.Fprintln(os.Stderr, errmsg.Format(errmsg.OpPlaybackStart, err))
		os.Exit(1)
	}

	runREPL(service)
}

// collectTracks expands files and directories into a sorted list of
// playlist tracks, reading tags for every supported music file found.
func collectTracks(paths []string) ([]playlist.Track, error) {
	var files []string
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			if tags.IsMusicFile(p) {
				files = append(files, p)
			}
			continue
		}
		err = filepath.WalkDir(p, func(path string, d os.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !d.IsDir() && tags.IsMusicFile(path) {
				files = append(files, path)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	sort.Strings(files)

	tracks := make([]playlist.Track, 0, len(files))
	for _, f := range files {
		info, err := tags.ReadWithAudio(f)
		if err != nil {
			fmt.Fprintln(os.Stderr, errmsg.FormatWith(errmsg.OpImportTags, f, err))
			continue
		}
		title := info.Title
		if title == "" {
			title = filepath.Base(f)
		}
		tracks = append(tracks, playlist.Track{
			Path:        f,
			Title:       title,
			Artist:      info.Artist,
			Album:       info.Album,
			TrackNumber: info.TrackNumber,
			Duration:    info.Duration,
		})
	}
	return tracks, nil
}

// notifyOnTrackChange forwards playloop track-change events to the
// desktop notifier, honoring the notifications config the way the
// mpris adapter honors the playback service directly.
func notifyOnTrackChange(service playback.Service, notifier notify.Notifier, cfg *config.Config) {
	sub := service.Subscribe()

	var lastID uint32
	for {
		select {
		case change, ok := <-sub.TrackChanged:
			if !ok {
				return
			}
			ncfg := cfg.GetNotificationsConfig()
			if !*ncfg.Enabled || !*ncfg.NowPlaying || change.Current == nil {
				continue
			}
			id, err := notifier.Notify(notify.Notification{
				Title:   change.Current.Title,
				Body:    strings.TrimSpace(change.Current.Artist + " — " + change.Current.Album),
				Timeout: ncfg.Timeout,
			})
			if err == nil {
				if lastID != 0 {
					notifier.Close(lastID)
				}
				lastID = id
			}
		case <-sub.Done:
			return
		}
	}
}

// runREPL reads single-letter commands from stdin until the user quits.
func runREPL(service playback.Service) {
	fmt.Println("waves: space=toggle n=next p=previous s=stop q=quit")
	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		switch strings.TrimSpace(scanner.Text()) {
		case "", " ":
			_ = service.Toggle()
		case "n":
			_ = service.Next()
		case "p":
			_ = service.Previous()
		case "s":
			_ = service.Stop()
		case "q":
			return
		}
	}
}
