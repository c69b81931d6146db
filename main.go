package main

import (
	"fmt"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"

	"github.com/tubegrab/tubegrab/internal/config"
	"github.com/tubegrab/tubegrab/internal/download"
	"github.com/tubegrab/tubegrab/internal/logging"
	"github.com/tubegrab/tubegrab/internal/ui"
)

// Version is set during build via -ldflags "-X main.version=X.Y.Z"
var version = "dev"

const (
	AppID   = "com.tubegrab.tubegrab"
	AppName = "TubeGrab"

	WindowWidth  = 980
	WindowHeight = 760
)

func main() {
	myApp := app.NewWithID(AppID)
	myApp.Settings().SetTheme(ui.NewDarkTheme())

	windowTitle := fmt.Sprintf("%s v%s", AppName, version)
	myWindow := myApp.NewWindow(windowTitle)
	myWindow.Resize(fyne.NewSize(WindowWidth, WindowHeight))

	// Engine config: tool location and logging. Missing file means defaults.
	cfgPath, err := config.DefaultPath()
	if err != nil {
		fmt.Printf("failed to resolve config path: %v\n", err)
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		fmt.Printf("failed to load config, using defaults: %v\n", err)
		cfg = config.Default()
	}

	logger, closeLog, err := logging.New(cfg.Logging.Level, cfg.Logging.File)
	if err != nil {
		fmt.Printf("failed to open log file: %v\n", err)
		logger, closeLog, _ = logging.New(cfg.Logging.Level, "")
	}
	defer closeLog()
	logger.Info("starting", "app", AppName, "version", version)

	downloadSvc := download.NewService(cfg.Tool.YtDlpPath, logger)
	ui.NewRootUI(myWindow, myApp, downloadSvc)

	myWindow.ShowAndRun()
}
