package ui

import (
	"errors"
	"fmt"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"

	"github.com/tubegrab/tubegrab/internal/config"
	"github.com/tubegrab/tubegrab/internal/download"
	"github.com/tubegrab/tubegrab/internal/model"
	"github.com/tubegrab/tubegrab/internal/platform"
)

// Mode labels shown in the mode select
const (
	ModeLabelVideo = "Video"
	ModeLabelAudio = "Audio"
)

// Tab indexes
const (
	TabDownload = 0
	TabLog      = 1
)

// RootUI represents the main UI structure
type RootUI struct {
	window     fyne.Window
	app        fyne.App
	settings   *config.Settings
	downloader download.Downloader

	urlEntry        *widget.Entry
	modeSelect      *widget.Select
	qualitySelect   *widget.Select
	containerSelect *widget.Select
	formatSelect    *widget.Select
	bitrateSelect   *widget.Select

	// Advanced audio options
	normalizeCheck   *widget.Check
	flacLabel        *widget.Label
	flacSlider       *widget.Slider
	oggSelect        *widget.Select
	aacSelect        *widget.Select
	sampleRateSelect *widget.Select
	channelsSelect   *widget.Select
	advancedCard     *widget.Card

	artistEntry *widget.Entry
	albumEntry  *widget.Entry
	titleEntry  *widget.Entry

	outputDir     string
	outputLabel   *widget.Label
	chooseButton  *widget.Button
	openButton    *widget.Button
	templateEntry *widget.Entry

	allowPlaylistCheck *widget.Check
	forceSingleCheck   *widget.Check
	extraArgsEntry     *widget.Entry

	topProgress *widget.ProgressBar
	logProgress *widget.ProgressBar
	statusLabel *widget.Label
	logView     *widget.Entry
	logText     strings.Builder

	startButton  *widget.Button
	cancelButton *widget.Button
	tabs         *container.AppTabs
}

// NewRootUI creates and initializes the main UI
func NewRootUI(window fyne.Window, app fyne.App, downloader download.Downloader) *RootUI {
	ui := &RootUI{
		window:     window,
		app:        app,
		settings:   config.NewSettings(app),
		downloader: downloader,
	}

	ui.outputDir = ui.settings.GetOutputDirectory()
	platform.CreateDirectoryIfNotExists(ui.outputDir)

	ui.createWidgets()
	ui.wireCallbacks()
	window.SetContent(ui.createLayout())
	window.SetCloseIntercept(ui.confirmClose)

	ui.applyMode()
	ui.applyAudioFormat()
	ui.toggleControls(false)
	return ui
}

func (ui *RootUI) createWidgets() {
	ui.urlEntry = widget.NewEntry()
	ui.urlEntry.SetPlaceHolder("https://...")

	ui.modeSelect = widget.NewSelect([]string{ModeLabelVideo, ModeLabelAudio}, func(string) {
		ui.applyMode()
	})
	if ui.settings.GetMode() == model.ModeAudio {
		ui.modeSelect.SetSelected(ModeLabelAudio)
	} else {
		ui.modeSelect.SetSelected(ModeLabelVideo)
	}

	ui.qualitySelect = widget.NewSelect(model.VideoQualities, func(string) {})
	ui.qualitySelect.SetSelected(ui.settings.GetVideoQuality())
	ui.containerSelect = widget.NewSelect(model.Containers, func(string) {})
	ui.containerSelect.SetSelected(ui.settings.GetContainer())

	ui.formatSelect = widget.NewSelect(model.AudioFormats, func(string) {
		ui.applyAudioFormat()
	})
	ui.formatSelect.SetSelected(ui.settings.GetAudioFormat())
	ui.bitrateSelect = widget.NewSelect(model.AudioBitrates, func(string) {})
	ui.bitrateSelect.SetSelected(ui.settings.GetAudioBitrate())

	ui.normalizeCheck = widget.NewCheck("Normalize MP3 volume (loudnorm)", func(bool) {})
	ui.flacLabel = widget.NewLabel(flacLabelText(model.DefaultFlacCompression))
	ui.flacSlider = widget.NewSlider(0, 8)
	ui.flacSlider.Step = 1
	ui.flacSlider.SetValue(model.DefaultFlacCompression)
	ui.flacSlider.OnChanged = func(value float64) {
		ui.flacLabel.SetText(flacLabelText(int(value)))
	}
	ui.oggSelect = widget.NewSelect(model.OggQualities, func(string) {})
	ui.oggSelect.SetSelected(model.DefaultOggOpusQuality)
	ui.aacSelect = widget.NewSelect(model.AACProfiles, func(string) {})
	ui.aacSelect.SetSelected(model.DefaultAACProfile)
	ui.sampleRateSelect = widget.NewSelect(model.SampleRates, func(string) {})
	ui.channelsSelect = widget.NewSelect(model.Channels, func(string) {})
	ui.channelsSelect.SetSelected(model.DefaultChannels)

	ui.advancedCard = widget.NewCard("Advanced audio options", "", container.NewVBox(
		ui.normalizeCheck,
		ui.flacLabel,
		ui.flacSlider,
		container.NewBorder(nil, nil, widget.NewLabel("OGG/Opus quality"), nil, ui.oggSelect),
		container.NewBorder(nil, nil, widget.NewLabel("M4A (AAC) profile"), nil, ui.aacSelect),
		container.NewBorder(nil, nil, widget.NewLabel("Sample rate (Hz)"), nil, ui.sampleRateSelect),
		container.NewBorder(nil, nil, widget.NewLabel("Channels"), nil, ui.channelsSelect),
	))

	ui.artistEntry = widget.NewEntry()
	ui.artistEntry.SetPlaceHolder("Artist")
	ui.albumEntry = widget.NewEntry()
	ui.albumEntry.SetPlaceHolder("Album")
	ui.titleEntry = widget.NewEntry()
	ui.titleEntry.SetPlaceHolder("Title override")

	ui.outputLabel = widget.NewLabel(ui.outputDir)
	ui.chooseButton = widget.NewButton("Choose...", ui.chooseOutputDir)
	ui.openButton = widget.NewButton("Open folder", func() {
		if err := platform.OpenFolder(ui.outputDir); err != nil {
			ui.appendLog(fmt.Sprintf("Failed to open folder: %v", err))
		}
	})

	ui.templateEntry = widget.NewEntry()
	ui.templateEntry.SetText(ui.settings.GetFilenameTemplate())

	ui.allowPlaylistCheck = widget.NewCheck("Allow playlist", func(bool) {})
	ui.allowPlaylistCheck.SetChecked(ui.settings.GetAllowPlaylist())
	ui.forceSingleCheck = widget.NewCheck("Force single", func(bool) {})

	ui.extraArgsEntry = widget.NewEntry()
	ui.extraArgsEntry.SetPlaceHolder("Extra FFmpeg args")

	ui.topProgress = widget.NewProgressBar()
	ui.logProgress = widget.NewProgressBar()
	ui.statusLabel = widget.NewLabel("Idle")
	ui.logView = widget.NewMultiLineEntry()
	ui.logView.Wrapping = fyne.TextWrapWord

	ui.startButton = widget.NewButton("Download", ui.startDownload)
	ui.startButton.Importance = widget.HighImportance
	ui.cancelButton = widget.NewButton("Cancel", ui.cancelDownload)
}

// wireCallbacks routes worker notifications onto the UI thread. The worker
// goroutine never touches widgets directly.
func (ui *RootUI) wireCallbacks() {
	ui.downloader.SetLineCallback(func(line string) {
		fyne.Do(func() { ui.appendLog(line) })
	})
	ui.downloader.SetProgressCallback(func(event model.ProgressEvent) {
		fyne.Do(func() { ui.applyProgress(event) })
	})
	ui.downloader.SetFinishedCallback(func(outcome model.Outcome) {
		fyne.Do(func() { ui.finishRun(outcome) })
	})
}

func (ui *RootUI) createLayout() fyne.CanvasObject {
	form := widget.NewForm(
		widget.NewFormItem("URL", ui.urlEntry),
		widget.NewFormItem("Mode", ui.modeSelect),
		widget.NewFormItem("Video quality", ui.qualitySelect),
		widget.NewFormItem("Container", ui.containerSelect),
		widget.NewFormItem("Audio format", ui.formatSelect),
		widget.NewFormItem("Bitrate (kbps)", ui.bitrateSelect),
	)

	metadataRow := container.NewGridWithColumns(3, ui.artistEntry, ui.albumEntry, ui.titleEntry)
	outputRow := container.NewBorder(nil, nil, widget.NewLabel("Output folder"),
		container.NewHBox(ui.chooseButton, ui.openButton), ui.outputLabel)
	templateRow := container.NewBorder(nil, nil, widget.NewLabel("Filename template"), nil, ui.templateEntry)
	playlistRow := container.NewHBox(ui.allowPlaylistCheck, ui.forceSingleCheck)
	extraRow := container.NewBorder(nil, nil, widget.NewLabel("FFmpeg extra args"), nil, ui.extraArgsEntry)

	downloadTab := container.NewVScroll(container.NewVBox(
		form,
		ui.advancedCard,
		metadataRow,
		outputRow,
		templateRow,
		playlistRow,
		extraRow,
	))

	logTab := container.NewBorder(
		container.NewVBox(ui.logProgress, ui.statusLabel), nil, nil, nil,
		ui.logView,
	)

	ui.tabs = container.NewAppTabs(
		container.NewTabItem("Download", downloadTab),
		container.NewTabItem("Log", logTab),
	)

	buttons := container.NewHBox(ui.startButton, ui.cancelButton)
	return container.NewBorder(ui.topProgress, container.NewCenter(buttons), nil, nil, ui.tabs)
}

// selectedMode maps the mode select label to the request mode.
func (ui *RootUI) selectedMode() model.Mode {
	if ui.modeSelect.Selected == ModeLabelAudio {
		return model.ModeAudio
	}
	return model.ModeVideo
}

// applyMode enables the option group matching the selected mode and hides
// the advanced audio card in video mode; the inactive group keeps its
// values but is ignored when the request is built.
func (ui *RootUI) applyMode() {
	isVideo := ui.selectedMode() == model.ModeVideo

	setEnabled(ui.qualitySelect, isVideo)
	setEnabled(ui.containerSelect, isVideo)
	setEnabled(ui.formatSelect, !isVideo)
	setEnabled(ui.bitrateSelect, !isVideo)

	if isVideo {
		ui.advancedCard.Hide()
	} else {
		ui.advancedCard.Show()
		ui.applyAudioFormat()
	}
}

// applyAudioFormat enables the advanced widgets relevant to the chosen
// audio format, mirroring which ffmpeg tokens the format can carry.
func (ui *RootUI) applyAudioFormat() {
	format := strings.ToLower(ui.formatSelect.Selected)

	setEnabled(ui.normalizeCheck, format == "mp3")
	setEnabled(ui.flacSlider, format == "flac")
	setEnabled(ui.oggSelect, format == "ogg" || format == "opus")
	setEnabled(ui.aacSelect, format == "m4a")
	setEnabled(ui.sampleRateSelect, format == "wav" || format == "flac" || format == "m4a" || format == "mp3")
	setEnabled(ui.channelsSelect, format != "")
}

func setEnabled(w fyne.Disableable, enabled bool) {
	if enabled {
		w.Enable()
	} else {
		w.Disable()
	}
}

func flacLabelText(level int) string {
	return fmt.Sprintf("FLAC compression level: %d", level)
}

func (ui *RootUI) chooseOutputDir() {
	dialog.ShowFolderOpen(func(uri fyne.ListableURI, err error) {
		if err != nil || uri == nil {
			return
		}
		ui.outputDir = uri.Path()
		ui.outputLabel.SetText(ui.outputDir)
		ui.settings.SetOutputDirectory(ui.outputDir)
	}, ui.window)
}

// buildRequest snapshots the form into an immutable request for this run.
func (ui *RootUI) buildRequest() *model.DownloadRequest {
	return &model.DownloadRequest{
		SourceURL:              strings.TrimSpace(ui.urlEntry.Text),
		Mode:                   ui.selectedMode(),
		Quality:                ui.qualitySelect.Selected,
		Container:              ui.containerSelect.Selected,
		Format:                 ui.formatSelect.Selected,
		BitrateKbps:            ui.bitrateSelect.Selected,
		NormalizeLoudness:      ui.normalizeCheck.Checked,
		FlacCompressionLevel:   int(ui.flacSlider.Value),
		OggOpusQuality:         ui.oggSelect.Selected,
		AACProfile:             ui.aacSelect.Selected,
		SampleRateHz:           strings.TrimSpace(ui.sampleRateSelect.Selected),
		AudioChannels:          ui.channelsSelect.Selected,
		OutputDirectory:        ui.outputDir,
		AllowPlaylist:          ui.allowPlaylistCheck.Checked,
		ForceSingleItem:        ui.forceSingleCheck.Checked,
		FilenameTemplate:       strings.TrimSpace(ui.templateEntry.Text),
		TitleOverride:          strings.TrimSpace(ui.titleEntry.Text),
		Artist:                 strings.TrimSpace(ui.artistEntry.Text),
		Album:                  strings.TrimSpace(ui.albumEntry.Text),
		ExtraPostProcessorArgs: strings.TrimSpace(ui.extraArgsEntry.Text),
	}
}

func (ui *RootUI) startDownload() {
	req := ui.buildRequest()

	ui.logText.Reset()
	ui.logView.SetText("")
	ui.topProgress.SetValue(0)
	ui.logProgress.SetValue(0)
	ui.statusLabel.SetText("Starting...")

	if _, err := ui.downloader.Start(req); err != nil {
		ui.statusLabel.SetText("Idle")
		dialog.ShowError(err, ui.window)
		return
	}

	ui.persistSettings(req)
	ui.toggleControls(true)
	ui.appendSummary(req)
	ui.tabs.SelectIndex(TabLog)
}

func (ui *RootUI) cancelDownload() {
	if err := ui.downloader.Cancel(); err != nil {
		return
	}
	ui.appendLog("Cancel requested...")
	ui.statusLabel.SetText("Canceling...")
}

func (ui *RootUI) persistSettings(req *model.DownloadRequest) {
	ui.settings.SetMode(req.Mode)
	ui.settings.SetVideoQuality(req.Quality)
	ui.settings.SetContainer(req.Container)
	ui.settings.SetAudioFormat(req.Format)
	ui.settings.SetAudioBitrate(req.BitrateKbps)
	ui.settings.SetFilenameTemplate(req.FilenameTemplate)
	ui.settings.SetAllowPlaylist(req.AllowPlaylist)
}

// toggleControls locks the form while a run is active.
func (ui *RootUI) toggleControls(running bool) {
	controls := []fyne.Disableable{
		ui.urlEntry, ui.modeSelect, ui.qualitySelect, ui.containerSelect,
		ui.formatSelect, ui.bitrateSelect, ui.normalizeCheck, ui.flacSlider,
		ui.oggSelect, ui.aacSelect, ui.sampleRateSelect, ui.channelsSelect,
		ui.artistEntry, ui.albumEntry, ui.titleEntry, ui.chooseButton,
		ui.templateEntry, ui.allowPlaylistCheck, ui.forceSingleCheck,
		ui.extraArgsEntry,
	}
	for _, c := range controls {
		setEnabled(c, !running)
	}
	setEnabled(ui.startButton, !running)
	setEnabled(ui.cancelButton, running)

	if !running {
		ui.applyMode()
	}
}

func (ui *RootUI) appendLog(text string) {
	ui.logText.WriteString(text)
	ui.logText.WriteByte('\n')
	ui.logView.SetText(ui.logText.String())
	ui.logView.CursorRow = strings.Count(ui.logView.Text, "\n")
}

func (ui *RootUI) appendSummary(req *model.DownloadRequest) {
	ui.appendLog("=== Summary ===")
	ui.appendLog("URL: " + req.SourceURL)
	ui.appendLog("Mode: " + string(req.Mode))
	if req.Mode == model.ModeAudio {
		ui.appendLog(fmt.Sprintf("Audio: %s @ %sk", req.Format, req.BitrateKbps))
		if req.SampleRateHz != "" {
			ui.appendLog("Sample rate: " + req.SampleRateHz + " Hz")
		}
		if req.AudioChannels != "" && req.AudioChannels != model.DefaultChannels {
			ui.appendLog("Channels: " + req.AudioChannels)
		}
	} else {
		ui.appendLog(fmt.Sprintf("Video: %s in %s", req.Quality, req.Container))
	}
	if req.Artist != "" {
		ui.appendLog("Artist: " + req.Artist)
	}
	if req.Album != "" {
		ui.appendLog("Album: " + req.Album)
	}
	if req.TitleOverride != "" {
		ui.appendLog("Title override: " + req.TitleOverride)
	}
	if req.ExtraPostProcessorArgs != "" {
		ui.appendLog("FFmpeg extra: " + req.ExtraPostProcessorArgs)
	}
	ui.appendLog("================")
}

func (ui *RootUI) applyProgress(event model.ProgressEvent) {
	value := float64(event.Percent) / 100.0
	ui.topProgress.SetValue(value)
	ui.logProgress.SetValue(value)

	status := fmt.Sprintf("Downloading %d%%", event.Percent)
	if event.Speed != "" {
		status += " at " + event.Speed
	}
	if event.ETA != "" {
		status += " (ETA " + event.ETA + ")"
	}
	ui.statusLabel.SetText(status)
}

func (ui *RootUI) finishRun(outcome model.Outcome) {
	ui.appendLog(outcome.Message)
	ui.toggleControls(false)
	ui.statusLabel.SetText(string(outcome.Kind))

	switch outcome.Kind {
	case model.OutcomeSuccess:
		dialog.ShowInformation("Done", "Download completed successfully.", ui.window)
	case model.OutcomeCanceled:
		dialog.ShowInformation("Canceled", outcome.Message, ui.window)
	default:
		dialog.ShowError(errors.New(outcome.Message), ui.window)
	}
}

// confirmClose refuses to quit while a download runs, otherwise asks.
func (ui *RootUI) confirmClose() {
	if ui.downloader.State().IsActive() {
		dialog.ShowInformation("Download running", "Cancel the active download before closing.", ui.window)
		return
	}
	dialog.ShowConfirm("Quit", "Do you really want to quit?", func(ok bool) {
		if ok {
			ui.app.Quit()
		}
	}, ui.window)
}
