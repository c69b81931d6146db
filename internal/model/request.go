package model

import (
	"fmt"
	"strings"
)

// Mode selects which option group of a request is active
type Mode string

const (
	ModeVideo Mode = "video"
	ModeAudio Mode = "audio"
)

// Video quality tiers
const (
	QualityBest    = "Best"
	Quality8K      = "8K"
	Quality4K      = "4K"
	Quality1440p   = "1440p"
	Quality1080p   = "1080p"
	Quality720p    = "720p"
	Quality480p    = "480p"
	Quality360p    = "360p"
	DefaultQuality = QualityBest
)

// Default values
const (
	DefaultContainer        = "mp4"
	DefaultAudioFormat      = "mp3"
	DefaultBitrateKbps      = "192"
	DefaultFlacCompression  = 5
	DefaultOggOpusQuality   = "q5"
	DefaultAACProfile       = "LC"
	DefaultChannels         = "auto"
	DefaultFilenameTemplate = "%(title)s.%(ext)s"
)

// Option lists exposed to the UI selects and CLI flag help
var (
	VideoQualities = []string{QualityBest, Quality8K, Quality4K, Quality1440p, Quality1080p, Quality720p, Quality480p, Quality360p}
	Containers     = []string{"mp4", "webm"}
	AudioFormats   = []string{"mp3", "m4a", "opus", "ogg", "flac", "wav"}
	AudioBitrates  = []string{"128", "192", "256", "320"}
	OggQualities   = []string{"q0", "q1", "q2", "q3", "q4", "q5", "q6", "q7", "q8", "q9", "q10"}
	AACProfiles    = []string{"LC", "HE"}
	SampleRates    = []string{"", "22050", "32000", "44100", "48000", "96000"}
	Channels       = []string{"auto", "mono", "stereo"}
)

// QualityHeights maps a named video tier to its maximum pixel height.
// QualityBest has no entry: it carries no height constraint.
var QualityHeights = map[string]string{
	Quality8K:    "4320",
	Quality4K:    "2160",
	Quality1440p: "1440",
	Quality1080p: "1080",
	Quality720p:  "720",
	Quality480p:  "480",
	Quality360p:  "360",
}

// DownloadRequest captures one run's worth of user-chosen options. It is
// built fresh from UI or CLI state when a run starts and never mutated
// afterwards. Mode determines which option group the command builder reads;
// the inactive group's values are ignored regardless of their contents.
type DownloadRequest struct {
	SourceURL string
	Mode      Mode

	// Video mode
	Quality   string
	Container string

	// Audio mode
	Format               string
	BitrateKbps          string
	NormalizeLoudness    bool
	FlacCompressionLevel int
	OggOpusQuality       string
	AACProfile           string
	SampleRateHz         string
	AudioChannels        string

	OutputDirectory  string
	AllowPlaylist    bool
	ForceSingleItem  bool
	FilenameTemplate string

	TitleOverride string
	Artist        string
	Album         string

	ExtraPostProcessorArgs string
}

// Validate checks the request before any process is spawned. It covers the
// failures a front-end cannot rule out through widget choices alone.
func (r *DownloadRequest) Validate() error {
	url := strings.TrimSpace(r.SourceURL)
	if url == "" {
		return fmt.Errorf("URL is required")
	}
	if !strings.HasPrefix(url, "http://") && !strings.HasPrefix(url, "https://") {
		return fmt.Errorf("URL must start with http:// or https://")
	}

	switch r.Mode {
	case ModeVideo:
		if !contains(VideoQualities, r.Quality) {
			return fmt.Errorf("invalid video quality: %q", r.Quality)
		}
		if !contains(Containers, r.Container) {
			return fmt.Errorf("invalid container: %q", r.Container)
		}
	case ModeAudio:
		if !contains(AudioFormats, r.Format) {
			return fmt.Errorf("invalid audio format: %q", r.Format)
		}
		if !contains(AudioBitrates, r.BitrateKbps) {
			return fmt.Errorf("invalid bitrate: %q", r.BitrateKbps)
		}
		if r.FlacCompressionLevel < 0 || r.FlacCompressionLevel > 8 {
			return fmt.Errorf("FLAC compression level must be 0-8, got %d", r.FlacCompressionLevel)
		}
	default:
		return fmt.Errorf("invalid mode: %q", r.Mode)
	}

	if r.OutputDirectory == "" {
		return fmt.Errorf("output directory is required")
	}
	return nil
}

func contains(list []string, value string) bool {
	for _, v := range list {
		if v == value {
			return true
		}
	}
	return false
}
