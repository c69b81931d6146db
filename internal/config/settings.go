package config

import (
	"fyne.io/fyne/v2"

	"github.com/tubegrab/tubegrab/internal/model"
	"github.com/tubegrab/tubegrab/internal/platform"
)

// Settings keys for Fyne preferences
const (
	KeyOutputDir        = "output_directory"
	KeyMode             = "last_mode"
	KeyVideoQuality     = "last_video_quality"
	KeyContainer        = "last_container"
	KeyAudioFormat      = "last_audio_format"
	KeyAudioBitrate     = "last_audio_bitrate"
	KeyFilenameTemplate = "filename_template"
	KeyAllowPlaylist    = "allow_playlist"
)

// Default values
const (
	DefaultAllowPlaylist = true
	FallbackOutputDir    = "/tmp/downloads"
)

// Settings manages persisted UI state between sessions
type Settings struct {
	app fyne.App
}

// NewSettings creates a new settings manager
func NewSettings(app fyne.App) *Settings {
	return &Settings{app: app}
}

// GetOutputDirectory returns the configured output directory, seeding the
// user's Downloads folder on first use.
func (s *Settings) GetOutputDirectory() string {
	dir := s.app.Preferences().String(KeyOutputDir)
	if dir == "" {
		defaultDir, err := platform.HomeDownloadsDir()
		if err != nil {
			defaultDir = FallbackOutputDir
		}
		s.SetOutputDirectory(defaultDir)
		return defaultDir
	}
	return dir
}

// SetOutputDirectory sets the output directory
func (s *Settings) SetOutputDirectory(dir string) {
	s.app.Preferences().SetString(KeyOutputDir, dir)
}

// GetMode returns the last used download mode
func (s *Settings) GetMode() model.Mode {
	mode := s.app.Preferences().String(KeyMode)
	if mode != string(model.ModeAudio) && mode != string(model.ModeVideo) {
		return model.ModeVideo
	}
	return model.Mode(mode)
}

// SetMode sets the last used download mode
func (s *Settings) SetMode(mode model.Mode) {
	s.app.Preferences().SetString(KeyMode, string(mode))
}

// GetVideoQuality returns the last used video quality tier
func (s *Settings) GetVideoQuality() string {
	return s.app.Preferences().StringWithFallback(KeyVideoQuality, model.DefaultQuality)
}

// SetVideoQuality sets the last used video quality tier
func (s *Settings) SetVideoQuality(quality string) {
	s.app.Preferences().SetString(KeyVideoQuality, quality)
}

// GetContainer returns the last used video container
func (s *Settings) GetContainer() string {
	return s.app.Preferences().StringWithFallback(KeyContainer, model.DefaultContainer)
}

// SetContainer sets the last used video container
func (s *Settings) SetContainer(container string) {
	s.app.Preferences().SetString(KeyContainer, container)
}

// GetAudioFormat returns the last used audio format
func (s *Settings) GetAudioFormat() string {
	return s.app.Preferences().StringWithFallback(KeyAudioFormat, model.DefaultAudioFormat)
}

// SetAudioFormat sets the last used audio format
func (s *Settings) SetAudioFormat(format string) {
	s.app.Preferences().SetString(KeyAudioFormat, format)
}

// GetAudioBitrate returns the last used audio bitrate in kbps
func (s *Settings) GetAudioBitrate() string {
	return s.app.Preferences().StringWithFallback(KeyAudioBitrate, model.DefaultBitrateKbps)
}

// SetAudioBitrate sets the last used audio bitrate in kbps
func (s *Settings) SetAudioBitrate(bitrate string) {
	s.app.Preferences().SetString(KeyAudioBitrate, bitrate)
}

// GetFilenameTemplate returns the filename template
func (s *Settings) GetFilenameTemplate() string {
	return s.app.Preferences().StringWithFallback(KeyFilenameTemplate, model.DefaultFilenameTemplate)
}

// SetFilenameTemplate sets the filename template
func (s *Settings) SetFilenameTemplate(template string) {
	if template == "" {
		template = model.DefaultFilenameTemplate
	}
	s.app.Preferences().SetString(KeyFilenameTemplate, template)
}

// GetAllowPlaylist returns whether playlists are allowed by default
func (s *Settings) GetAllowPlaylist() bool {
	return s.app.Preferences().BoolWithFallback(KeyAllowPlaylist, DefaultAllowPlaylist)
}

// SetAllowPlaylist sets whether playlists are allowed by default
func (s *Settings) SetAllowPlaylist(allow bool) {
	s.app.Preferences().SetBool(KeyAllowPlaylist, allow)
}
