package download

import (
	"path/filepath"
	"strconv"
	"strings"

	"github.com/tubegrab/tubegrab/internal/model"
)

// yt-dlp flags
const (
	FlagNewline           = "--newline"
	FlagYesPlaylist       = "--yes-playlist"
	FlagNoPlaylist        = "--no-playlist"
	FlagOutput            = "-o"
	FlagFormat            = "-f"
	FlagPostProcessorArgs = "--postprocessor-args"
	FlagExtractAudio      = "--extract-audio"
	FlagAudioFormat       = "--audio-format"
	FlagAudioQuality      = "--audio-quality"
	FlagMergeFormat       = "--merge-output-format"
)

// Format selectors
const (
	SelectorBestAudio      = "bestaudio/best"
	SelectorBestVideoAudio = "bestvideo+bestaudio/best"
)

// ExtensionPlaceholder is the yt-dlp output-template token for the final
// file extension; it is kept even when the title is overridden so the tool
// still picks the extension matching the chosen format.
const ExtensionPlaceholder = "%(ext)s"

// BuildArgs translates a request into the yt-dlp argument vector. It is a
// pure transform: no I/O, no side effects. Flag order is fixed; the source
// URL is always the final positional argument.
func BuildArgs(req *model.DownloadRequest) []string {
	args := []string{FlagNewline}

	if req.AllowPlaylist && !req.ForceSingleItem {
		args = append(args, FlagYesPlaylist)
	} else {
		args = append(args, FlagNoPlaylist)
	}

	args = append(args, FlagOutput, outputTemplate(req))

	if tokens := postProcessorTokens(req); len(tokens) > 0 {
		args = append(args, FlagPostProcessorArgs, strings.Join(tokens, " "))
	}

	args = append(args, formatArgs(req)...)
	args = append(args, strings.TrimSpace(req.SourceURL))
	return args
}

// outputTemplate resolves the filename template joined with the output
// directory. A non-blank title override wins over any template text.
func outputTemplate(req *model.DownloadRequest) string {
	if title := strings.TrimSpace(req.TitleOverride); title != "" {
		return filepath.Join(req.OutputDirectory, title+"."+ExtensionPlaceholder)
	}
	template := strings.TrimSpace(req.FilenameTemplate)
	if template == "" {
		template = model.DefaultFilenameTemplate
	}
	return filepath.Join(req.OutputDirectory, template)
}

// postProcessorTokens assembles the ffmpeg argument string handed to yt-dlp
// as an ordered token list: metadata first (artist, album, title), then the
// audio-mode processing tokens, then the free-form extra arguments verbatim.
// Embedded spaces in metadata values and extra arguments are not escaped
// when the list is joined.
func postProcessorTokens(req *model.DownloadRequest) []string {
	var tokens []string

	if artist := strings.TrimSpace(req.Artist); artist != "" {
		tokens = append(tokens, "-metadata", "artist="+artist)
	}
	if album := strings.TrimSpace(req.Album); album != "" {
		tokens = append(tokens, "-metadata", "album="+album)
	}
	if title := strings.TrimSpace(req.TitleOverride); title != "" {
		tokens = append(tokens, "-metadata", "title="+title)
	}

	if req.Mode == model.ModeAudio {
		tokens = append(tokens, audioProcessingTokens(req)...)
	}

	if extra := strings.TrimSpace(req.ExtraPostProcessorArgs); extra != "" {
		tokens = append(tokens, extra)
	}
	return tokens
}

func audioProcessingTokens(req *model.DownloadRequest) []string {
	var tokens []string
	format := strings.ToLower(req.Format)

	if format == "mp3" && req.NormalizeLoudness {
		tokens = append(tokens, "-filter:a", "loudnorm")
	}
	if format == "flac" {
		tokens = append(tokens, "-compression_level", strconv.Itoa(req.FlacCompressionLevel))
	}
	if format == "ogg" || format == "opus" {
		quality := strings.ToLower(req.OggOpusQuality)
		if strings.HasPrefix(quality, "q") {
			tokens = append(tokens, "-q:a", quality[1:])
		}
	}
	if format == "m4a" {
		switch strings.ToUpper(req.AACProfile) {
		case "LC":
			tokens = append(tokens, "-profile:a", "aac_low")
		case "HE":
			tokens = append(tokens, "-profile:a", "aac_he")
		}
	}
	if req.SampleRateHz != "" && isDigits(req.SampleRateHz) {
		tokens = append(tokens, "-ar", req.SampleRateHz)
	}
	switch req.AudioChannels {
	case "mono":
		tokens = append(tokens, "-ac", "1")
	case "stereo":
		tokens = append(tokens, "-ac", "2")
	}
	return tokens
}

// formatArgs picks the stream selection flags for the request's mode.
func formatArgs(req *model.DownloadRequest) []string {
	if req.Mode == model.ModeAudio {
		return []string{
			FlagFormat, SelectorBestAudio,
			FlagExtractAudio,
			FlagAudioFormat, strings.ToLower(req.Format),
			FlagAudioQuality, req.BitrateKbps + "k",
		}
	}

	selector := SelectorBestVideoAudio
	if req.Quality != model.QualityBest {
		if height, ok := model.QualityHeights[req.Quality]; ok {
			selector = "bestvideo[height<=" + height + "]+bestaudio/best[height<=" + height + "]"
		}
	}
	return []string{
		FlagFormat, selector,
		FlagMergeFormat, strings.ToLower(req.Container),
	}
}

// FormatCommandLine renders an executable and its arguments for the log,
// quoting arguments that contain whitespace or quotes.
func FormatCommandLine(exe string, args []string) string {
	parts := make([]string, 0, len(args)+1)
	parts = append(parts, quoteArg(exe))
	for _, arg := range args {
		parts = append(parts, quoteArg(arg))
	}
	return strings.Join(parts, " ")
}

func quoteArg(arg string) string {
	if arg == "" {
		return `""`
	}
	if strings.ContainsAny(arg, " \t\n\"") {
		return strconv.Quote(arg)
	}
	return arg
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
