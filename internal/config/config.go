package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/rowanwave/waves/internal/playloop"
)

type Config struct {
	DefaultFolder string `koanf:"default_folder"`

	// Desktop notifications
	Notifications NotificationsConfig `koanf:"notifications"`

	// Playback core options (spec.md §6's "recognized playback options")
	Playback PlaybackConfig `koanf:"playback"`
}

// PlaybackConfig mirrors spec.md §6's recognized playback options,
// unmarshaled straight from the same TOML document as the rest of
// Config and converted to playloop.Options at startup.
type PlaybackConfig struct {
	CorrectPTS          *bool `koanf:"correct_pts"`
	HrSeek              int   `koanf:"hr_seek"` // <0 off, 0 default, >0 on
	HrSeekFramedrop     bool  `koanf:"hr_seek_framedrop"`
	HrSeekDemuxerOffset int   `koanf:"hr_seek_demuxer_offset_ms"`

	CachePause        *bool `koanf:"cache_pause"`
	CachePauseWaitMs  int   `koanf:"cache_pause_wait_ms"`
	CachePauseInitial bool  `koanf:"cache_pause_initial"`

	LoopFile  int `koanf:"loop_file"` // -1 = infinite
	LoopTimes int `koanf:"loop_times"`

	KeepOpen      int  `koanf:"keep_open"` // 0 off, 1 on, 2 always
	KeepOpenPause bool `koanf:"keep_open_pause"`

	StepSecMs int `koanf:"step_sec_ms"`

	CursorAutohideDelay int   `koanf:"cursor_autohide_delay"` // -2 force hide, -1 force show, ms otherwise
	CursorAutohideFS    bool  `koanf:"cursor_autohide_fs"`
	StopScreensaver     *bool `koanf:"stop_screensaver"`

	ForceVO int `koanf:"force_vo"` // 0 never, 1 if-loaded, 2 always

	PlayingMsg    string `koanf:"playing_msg"`
	OSDPlayingMsg string `koanf:"osd_playing_msg"`

	PlayFrames int `koanf:"play_frames"`
}

// ToPlayloopOptions converts the TOML-sourced PlaybackConfig into
// playloop.Options, applying playloop.DefaultOptions() for anything
// left at its TOML zero value that has a non-zero default.
func (c PlaybackConfig) ToPlayloopOptions() playloop.Options {
	opts := playloop.DefaultOptions()

	if c.CorrectPTS != nil {
		opts.CorrectPTS = *c.CorrectPTS
	}
	if c.HrSeek != 0 {
		opts.HrSeek = playloop.HrSeekMode(c.HrSeek)
	}
	opts.HrSeekFramedrop = c.HrSeekFramedrop
	if c.HrSeekDemuxerOffset != 0 {
		opts.HrSeekDemuxerOffset = time.Duration(c.HrSeekDemuxerOffset) * time.Millisecond
	}

	if c.CachePause != nil {
		opts.CachePause = *c.CachePause
	}
	if c.CachePauseWaitMs != 0 {
		opts.CachePauseWait = time.Duration(c.CachePauseWaitMs) * time.Millisecond
	}
	opts.CachePauseInitial = c.CachePauseInitial

	if c.LoopFile != 0 {
		opts.LoopFile = playloop.LoopCount(c.LoopFile)
	}
	if c.LoopTimes != 0 {
		opts.LoopTimes = c.LoopTimes
	}

	opts.KeepOpen = playloop.KeepOpenMode(c.KeepOpen)
	opts.KeepOpenPause = c.KeepOpenPause

	if c.StepSecMs != 0 {
		opts.StepSec = time.Duration(c.StepSecMs) * time.Millisecond
	}

	opts.CursorAutohideDelay = playloop.CursorAutohide(c.CursorAutohideDelay)
	opts.CursorAutohideFS = c.CursorAutohideFS
	if c.StopScreensaver != nil {
		opts.StopScreensaver = *c.StopScreensaver
	}

	opts.ForceVO = playloop.ForceVOMode(c.ForceVO)
	opts.PlayingMsg = c.PlayingMsg
	opts.OSDPlayingMsg = c.OSDPlayingMsg
	opts.PlayFrames = c.PlayFrames

	return opts
}

// NotificationsConfig holds desktop notification settings.
type NotificationsConfig struct {
	Enabled      *bool `koanf:"enabled"`        // Master toggle (default: false)
	NowPlaying   *bool `koanf:"now_playing"`    // On track change (default: true)
	Errors       *bool `koanf:"errors"`         // On errors (default: true)
	ShowAlbumArt *bool `koanf:"show_album_art"` // Include album art (default: true)
	Timeout      int32 `koanf:"timeout"`        // ms; 0 or unset means 5000
}

func Load() (*Config, error) {
	k := koanf.New(".")

	// Try config files in order of priority (last wins)
	configPaths := getConfigPaths()

	for _, path := range configPaths {
		if _, err := os.Stat(path); err == nil {
			if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
				return nil, err
			}
		}
	}

	cfg := &Config{
		DefaultFolder: "", // empty means use cwd
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, err
	}

	// Expand ~ in default_folder
	if cfg.DefaultFolder != "" {
		cfg.DefaultFolder = expandPath(cfg.DefaultFolder)
	}

	return cfg, nil
}

func getConfigPaths() []string {
	paths := []string{}

	// 1. ~/.config/waves/config.toml
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".config", "waves", "config.toml"))
	}

	// 2. ./config.toml (pwd, highest priority)
	paths = append(paths, "config.toml")

	return paths
}

func expandPath(path string) string {
	if path != "" && path[0] == '~' {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[1:])
		}
	}
	return path
}

// GetNotificationsConfig returns the notification configuration with defaults applied.
func (c *Config) GetNotificationsConfig() NotificationsConfig {
	cfg := c.Notifications

	// Apply defaults for nil pointers
	// Notifications are opt-in (disabled by default)
	if cfg.Enabled == nil {
		f := false
		cfg.Enabled = &f
	}
	if cfg.NowPlaying == nil {
		t := true
		cfg.NowPlaying = &t
	}
	if cfg.Errors == nil {
		t := true
		cfg.Errors = &t
	}
	if cfg.ShowAlbumArt == nil {
		t := true
		cfg.ShowAlbumArt = &t
	}

	// Apply default timeout
	if cfg.Timeout == 0 {
		cfg.Timeout = 5000
	}

	return cfg
}
