package download

import (
	"strings"
	"testing"

	"github.com/tubegrab/tubegrab/internal/model"
)

func videoRequest() *model.DownloadRequest {
	return &model.DownloadRequest{
		SourceURL:       "https://example.com/watch?v=abc",
		Mode:            model.ModeVideo,
		Quality:         model.QualityBest,
		Container:       "mp4",
		OutputDirectory: "/downloads",
		AllowPlaylist:   true,
	}
}

func audioRequest() *model.DownloadRequest {
	return &model.DownloadRequest{
		SourceURL:       "https://example.com/watch?v=abc",
		Mode:            model.ModeAudio,
		Format:          "mp3",
		BitrateKbps:     "320",
		AudioChannels:   "auto",
		OutputDirectory: "/downloads",
	}
}

// flagValue returns the argument following the given flag, or "" if absent.
func flagValue(args []string, flag string) string {
	for i, arg := range args {
		if arg == flag && i+1 < len(args) {
			return args[i+1]
		}
	}
	return ""
}

func hasArg(args []string, want string) bool {
	for _, arg := range args {
		if arg == want {
			return true
		}
	}
	return false
}

func TestBuildArgsAudioMode(t *testing.T) {
	args := BuildArgs(audioRequest())

	if !hasArg(args, FlagExtractAudio) {
		t.Error("Expected audio request to contain --extract-audio")
	}
	if got := flagValue(args, FlagAudioFormat); got != "mp3" {
		t.Errorf("Expected audio format mp3, got %q", got)
	}
	if got := flagValue(args, FlagAudioQuality); got != "320k" {
		t.Errorf("Expected audio quality 320k, got %q", got)
	}
	if got := flagValue(args, FlagFormat); got != SelectorBestAudio {
		t.Errorf("Expected selector %q, got %q", SelectorBestAudio, got)
	}
}

func TestBuildArgsVideoBest(t *testing.T) {
	args := BuildArgs(videoRequest())

	if got := flagValue(args, FlagFormat); got != SelectorBestVideoAudio {
		t.Errorf("Expected selector %q, got %q", SelectorBestVideoAudio, got)
	}
	if got := flagValue(args, FlagMergeFormat); got != "mp4" {
		t.Errorf("Expected merge format mp4, got %q", got)
	}
	if strings.Contains(strings.Join(args, " "), "height") {
		t.Error("Best quality must not carry a height constraint")
	}
}

func TestBuildArgsVideoTier(t *testing.T) {
	req := videoRequest()
	req.Quality = model.Quality1080p
	req.Container = "webm"
	args := BuildArgs(req)

	selector := flagValue(args, FlagFormat)
	if strings.Count(selector, "height<=1080") != 2 {
		t.Errorf("Expected both stream selectors constrained to 1080, got %q", selector)
	}
	if got := flagValue(args, FlagMergeFormat); got != "webm" {
		t.Errorf("Expected merge format webm, got %q", got)
	}
}

func TestBuildArgsUnknownTierFallsBack(t *testing.T) {
	req := videoRequest()
	req.Quality = "999p"
	args := BuildArgs(req)

	if got := flagValue(args, FlagFormat); got != SelectorBestVideoAudio {
		t.Errorf("Expected unconstrained fallback selector, got %q", got)
	}
}

func TestBuildArgsTitleOverrideWinsOverTemplate(t *testing.T) {
	req := audioRequest()
	req.FilenameTemplate = "%(uploader)s - %(title)s.%(ext)s"
	req.TitleOverride = "My Song"
	args := BuildArgs(req)

	if got := flagValue(args, FlagOutput); got != "/downloads/My Song.%(ext)s" {
		t.Errorf("Expected override template, got %q", got)
	}
}

func TestBuildArgsBlankTemplateUsesDefault(t *testing.T) {
	req := videoRequest()
	req.FilenameTemplate = "  "
	args := BuildArgs(req)

	if got := flagValue(args, FlagOutput); got != "/downloads/"+model.DefaultFilenameTemplate {
		t.Errorf("Expected default template, got %q", got)
	}
}

func TestBuildArgsPlaylistFlags(t *testing.T) {
	tests := []struct {
		name        string
		allow       bool
		forceSingle bool
		want        string
	}{
		{"allowed", true, false, FlagYesPlaylist},
		{"force single overrides allow", true, true, FlagNoPlaylist},
		{"not allowed", false, false, FlagNoPlaylist},
		{"neither", false, true, FlagNoPlaylist},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := videoRequest()
			req.AllowPlaylist = tt.allow
			req.ForceSingleItem = tt.forceSingle
			args := BuildArgs(req)
			if !hasArg(args, tt.want) {
				t.Errorf("Expected %s in args %v", tt.want, args)
			}
		})
	}
}

func TestBuildArgsMetadataOrder(t *testing.T) {
	req := audioRequest()
	req.Artist = "Artist Name"
	req.Album = "Album Name"
	req.TitleOverride = "Title Name"
	args := BuildArgs(req)

	pp := flagValue(args, FlagPostProcessorArgs)
	artistIdx := strings.Index(pp, "artist=Artist Name")
	albumIdx := strings.Index(pp, "album=Album Name")
	titleIdx := strings.Index(pp, "title=Title Name")
	if artistIdx < 0 || albumIdx < 0 || titleIdx < 0 {
		t.Fatalf("Expected all metadata tokens, got %q", pp)
	}
	if !(artistIdx < albumIdx && albumIdx < titleIdx) {
		t.Errorf("Expected artist, album, title in order, got %q", pp)
	}
}

func TestBuildArgsAudioProcessingTokens(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*model.DownloadRequest)
		want   string
	}{
		{"mp3 loudness", func(r *model.DownloadRequest) {
			r.Format = "mp3"
			r.NormalizeLoudness = true
		}, "-filter:a loudnorm"},
		{"flac compression", func(r *model.DownloadRequest) {
			r.Format = "flac"
			r.FlacCompressionLevel = 7
		}, "-compression_level 7"},
		{"ogg quality", func(r *model.DownloadRequest) {
			r.Format = "ogg"
			r.OggOpusQuality = "q3"
		}, "-q:a 3"},
		{"opus quality", func(r *model.DownloadRequest) {
			r.Format = "opus"
			r.OggOpusQuality = "q10"
		}, "-q:a 10"},
		{"m4a LC profile", func(r *model.DownloadRequest) {
			r.Format = "m4a"
			r.AACProfile = "LC"
		}, "-profile:a aac_low"},
		{"m4a HE profile", func(r *model.DownloadRequest) {
			r.Format = "m4a"
			r.AACProfile = "HE"
		}, "-profile:a aac_he"},
		{"sample rate", func(r *model.DownloadRequest) {
			r.SampleRateHz = "44100"
		}, "-ar 44100"},
		{"mono", func(r *model.DownloadRequest) {
			r.AudioChannels = "mono"
		}, "-ac 1"},
		{"stereo", func(r *model.DownloadRequest) {
			r.AudioChannels = "stereo"
		}, "-ac 2"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := audioRequest()
			tt.mutate(req)
			pp := flagValue(BuildArgs(req), FlagPostProcessorArgs)
			if !strings.Contains(pp, tt.want) {
				t.Errorf("Expected %q in postprocessor args %q", tt.want, pp)
			}
		})
	}
}

func TestBuildArgsSkipsInactiveTokens(t *testing.T) {
	req := audioRequest()
	req.Format = "wav"
	req.NormalizeLoudness = true   // mp3 only
	req.FlacCompressionLevel = 7   // flac only
	req.OggOpusQuality = "q3"      // ogg/opus only
	req.AACProfile = "HE"          // m4a only
	req.SampleRateHz = "not-a-num" // must be numeric
	req.AudioChannels = "auto"     // auto emits nothing
	args := BuildArgs(req)

	if hasArg(args, FlagPostProcessorArgs) {
		t.Errorf("Expected no postprocessor args, got %q", flagValue(args, FlagPostProcessorArgs))
	}
}

func TestBuildArgsVideoModeIgnoresAudioFields(t *testing.T) {
	req := videoRequest()
	req.Format = "flac"
	req.FlacCompressionLevel = 8
	req.NormalizeLoudness = true
	args := BuildArgs(req)

	if hasArg(args, FlagExtractAudio) {
		t.Error("Video request must not extract audio")
	}
	if hasArg(args, FlagPostProcessorArgs) {
		t.Error("Video request without metadata must carry no postprocessor args")
	}
}

func TestBuildArgsExtraArgsVerbatim(t *testing.T) {
	req := audioRequest()
	req.ExtraPostProcessorArgs = "  -af volume=2.0  "
	args := BuildArgs(req)

	pp := flagValue(args, FlagPostProcessorArgs)
	if pp != "-af volume=2.0" {
		t.Errorf("Expected trimmed extra args verbatim, got %q", pp)
	}
}

// Multi-word metadata is joined without escaping; the resulting string is
// exactly what ffmpeg receives. This pins the current pass-through behavior.
func TestBuildArgsNoEscapingInJoinedTokens(t *testing.T) {
	req := audioRequest()
	req.Artist = "Two Words"
	req.ExtraPostProcessorArgs = "-metadata comment=free form text"
	args := BuildArgs(req)

	pp := flagValue(args, FlagPostProcessorArgs)
	want := "-metadata artist=Two Words -metadata comment=free form text"
	if pp != want {
		t.Errorf("Expected %q, got %q", want, pp)
	}
}

func TestBuildArgsOrdering(t *testing.T) {
	req := audioRequest()
	req.SourceURL = "  https://example.com/watch?v=abc  "
	args := BuildArgs(req)

	if args[0] != FlagNewline {
		t.Errorf("Expected --newline first, got %q", args[0])
	}
	if args[len(args)-1] != "https://example.com/watch?v=abc" {
		t.Errorf("Expected trimmed URL last, got %q", args[len(args)-1])
	}
}

func TestFormatCommandLine(t *testing.T) {
	got := FormatCommandLine("yt-dlp", []string{"-o", "/tmp/My Song.%(ext)s", "https://example.com"})
	want := `yt-dlp -o "/tmp/My Song.%(ext)s" https://example.com`
	if got != want {
		t.Errorf("Expected %q, got %q", want, got)
	}
}
