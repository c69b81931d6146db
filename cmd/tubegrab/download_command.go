package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/tubegrab/tubegrab/internal/download"
	"github.com/tubegrab/tubegrab/internal/logging"
	"github.com/tubegrab/tubegrab/internal/model"
	"github.com/tubegrab/tubegrab/internal/platform"
)

type downloadOptions struct {
	mode          string
	quality       string
	container     string
	audioFormat   string
	bitrate       string
	normalize     bool
	flacLevel     int
	oggQuality    string
	aacProfile    string
	sampleRate    string
	channels      string
	outputDir     string
	noPlaylist    bool
	forceSingle   bool
	template      string
	titleOverride string
	artist        string
	album         string
	extraArgs     string
}

func newDownloadCommand(configFlag *string) *cobra.Command {
	opts := downloadOptions{}

	cmd := &cobra.Command{
		Use:   "download <url>",
		Short: "Download a video or audio track via yt-dlp",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDownload(cmd, *configFlag, opts, args[0])
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&opts.mode, "mode", "m", "video", "Download mode: video or audio")
	flags.StringVarP(&opts.quality, "quality", "q", model.DefaultQuality,
		"Video quality tier: "+strings.Join(model.VideoQualities, ", "))
	flags.StringVar(&opts.container, "container", model.DefaultContainer,
		"Video container: "+strings.Join(model.Containers, ", "))
	flags.StringVarP(&opts.audioFormat, "audio-format", "f", model.DefaultAudioFormat,
		"Audio format: "+strings.Join(model.AudioFormats, ", "))
	flags.StringVarP(&opts.bitrate, "bitrate", "b", model.DefaultBitrateKbps,
		"Audio bitrate in kbps: "+strings.Join(model.AudioBitrates, ", "))
	flags.BoolVar(&opts.normalize, "normalize", false, "Normalize MP3 loudness (loudnorm)")
	flags.IntVar(&opts.flacLevel, "flac-level", model.DefaultFlacCompression, "FLAC compression level (0-8)")
	flags.StringVar(&opts.oggQuality, "ogg-quality", model.DefaultOggOpusQuality, "OGG/Opus quality (q0-q10)")
	flags.StringVar(&opts.aacProfile, "aac-profile", model.DefaultAACProfile, "AAC profile for m4a: LC or HE")
	flags.StringVar(&opts.sampleRate, "sample-rate", "", "Audio sample rate in Hz")
	flags.StringVar(&opts.channels, "channels", model.DefaultChannels, "Audio channels: auto, mono or stereo")
	flags.StringVarP(&opts.outputDir, "output", "o", "", "Output directory (default: Downloads folder)")
	flags.BoolVar(&opts.noPlaylist, "no-playlist", false, "Download only the single item")
	flags.BoolVar(&opts.forceSingle, "force-single", false, "Force single item even for playlist URLs")
	flags.StringVar(&opts.template, "template", "", "Filename template (yt-dlp output template)")
	flags.StringVar(&opts.titleOverride, "title", "", "Title override for filename and metadata")
	flags.StringVar(&opts.artist, "artist", "", "Artist metadata")
	flags.StringVar(&opts.album, "album", "", "Album metadata")
	flags.StringVar(&opts.extraArgs, "postprocessor-args", "", "Extra ffmpeg arguments, passed verbatim")

	return cmd
}

func runDownload(cmd *cobra.Command, configFlag string, opts downloadOptions, url string) error {
	cfg, err := loadConfig(configFlag)
	if err != nil {
		return err
	}

	logger, closeLog, err := logging.New(cfg.Logging.Level, cfg.Logging.File)
	if err != nil {
		return err
	}
	defer closeLog()

	toolPath, err := platform.LookupTool(cfg.Tool.YtDlpPath)
	if err != nil {
		return err
	}

	req, err := buildRequest(opts, url, cfg.Defaults.OutputDir, cfg.Defaults.FilenameTemplate)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	renderSummary(out, req)

	tty := isatty.IsTerminal(os.Stdout.Fd())

	service := download.NewService(toolPath, logger)
	done := make(chan model.Outcome, 1)

	service.SetLineCallback(func(line string) {
		// On a terminal the percent lines are folded into the inline
		// status; everything else streams through verbatim.
		if tty && download.ParseProgressLine(line).HasPercent {
			return
		}
		fmt.Fprintln(out, line)
	})
	service.SetProgressCallback(func(event model.ProgressEvent) {
		if !tty {
			return
		}
		status := fmt.Sprintf("Downloading %3d%%", event.Percent)
		if event.Speed != "" {
			status += " at " + event.Speed
		}
		if event.ETA != "" {
			status += " ETA " + event.ETA
		}
		fmt.Fprintf(out, "\r%-60s", status)
	})
	service.SetFinishedCallback(func(outcome model.Outcome) {
		done <- outcome
	})

	if _, err := service.Start(req); err != nil {
		return err
	}

	// Ctrl-C requests cooperative cancellation; the run still delivers
	// its terminal outcome.
	interrupts := make(chan os.Signal, 1)
	signal.Notify(interrupts, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(interrupts)

	for {
		select {
		case <-interrupts:
			service.Cancel()
		case outcome := <-done:
			if tty {
				fmt.Fprintln(out)
			}
			fmt.Fprintln(out, outcome.Message)
			switch outcome.Kind {
			case model.OutcomeSuccess:
				return nil
			case model.OutcomeCanceled:
				return errors.New("download canceled")
			default:
				return errors.New(outcome.Message)
			}
		}
	}
}

func buildRequest(opts downloadOptions, url, defaultOutputDir, defaultTemplate string) (*model.DownloadRequest, error) {
	var mode model.Mode
	switch strings.ToLower(opts.mode) {
	case "video":
		mode = model.ModeVideo
	case "audio":
		mode = model.ModeAudio
	default:
		return nil, fmt.Errorf("invalid mode %q: must be video or audio", opts.mode)
	}

	outputDir := opts.outputDir
	if outputDir == "" {
		outputDir = defaultOutputDir
	}
	if outputDir == "" {
		dir, err := platform.HomeDownloadsDir()
		if err != nil {
			return nil, err
		}
		outputDir = dir
	}

	template := opts.template
	if template == "" {
		template = defaultTemplate
	}

	return &model.DownloadRequest{
		SourceURL:              strings.TrimSpace(url),
		Mode:                   mode,
		Quality:                opts.quality,
		Container:              strings.ToLower(opts.container),
		Format:                 strings.ToLower(opts.audioFormat),
		BitrateKbps:            opts.bitrate,
		NormalizeLoudness:      opts.normalize,
		FlacCompressionLevel:   opts.flacLevel,
		OggOpusQuality:         strings.ToLower(opts.oggQuality),
		AACProfile:             strings.ToUpper(opts.aacProfile),
		SampleRateHz:           strings.TrimSpace(opts.sampleRate),
		AudioChannels:          strings.ToLower(opts.channels),
		OutputDirectory:        outputDir,
		AllowPlaylist:          !opts.noPlaylist,
		ForceSingleItem:        opts.forceSingle,
		FilenameTemplate:       template,
		TitleOverride:          strings.TrimSpace(opts.titleOverride),
		Artist:                 strings.TrimSpace(opts.artist),
		Album:                  strings.TrimSpace(opts.album),
		ExtraPostProcessorArgs: strings.TrimSpace(opts.extraArgs),
	}, nil
}

func renderSummary(out io.Writer, req *model.DownloadRequest) {
	t := table.NewWriter()
	t.SetOutputMirror(out)
	t.SetStyle(table.StyleLight)
	t.AppendRow(table.Row{"URL", req.SourceURL})
	t.AppendRow(table.Row{"Mode", string(req.Mode)})
	if req.Mode == model.ModeAudio {
		t.AppendRow(table.Row{"Audio", fmt.Sprintf("%s @ %sk", req.Format, req.BitrateKbps)})
		if req.SampleRateHz != "" {
			t.AppendRow(table.Row{"Sample rate", req.SampleRateHz + " Hz"})
		}
		if req.AudioChannels != "" && req.AudioChannels != model.DefaultChannels {
			t.AppendRow(table.Row{"Channels", req.AudioChannels})
		}
	} else {
		t.AppendRow(table.Row{"Video", fmt.Sprintf("%s in %s", req.Quality, req.Container)})
	}
	if req.Artist != "" {
		t.AppendRow(table.Row{"Artist", req.Artist})
	}
	if req.Album != "" {
		t.AppendRow(table.Row{"Album", req.Album})
	}
	if req.TitleOverride != "" {
		t.AppendRow(table.Row{"Title", req.TitleOverride})
	}
	t.AppendRow(table.Row{"Output", req.OutputDirectory})
	t.Render()
}
