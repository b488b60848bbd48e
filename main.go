package main

import (
	"fmt"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"go.uber.org/zap"

	"github.com/ytget/browser-shell/internal/config"
	"github.com/ytget/browser-shell/internal/download"
	"github.com/ytget/browser-shell/internal/logging"
	"github.com/ytget/browser-shell/internal/platform"
	"github.com/ytget/browser-shell/internal/storage"
	"github.com/ytget/browser-shell/internal/ui"
)

// Version is set during build via -ldflags "-X main.version=X.Y.Z"
var version = "dev"

const (
	AppID   = "com.ytget.browser-shell"
	AppName = "Browser Shell"

	WindowWidth  = 640
	WindowHeight = 480
)

func main() {
	// Create new Fyne app
	myApp := app.NewWithID(AppID)

	// Apply compact theme
	myApp.Settings().SetTheme(ui.NewCompactTheme())

	dataDir := myApp.Storage().RootURI().Path()
	logger := newLogger(dataDir)
	defer logger.Sync()
	logger.Info("starting", zap.String("app", AppName), zap.String("version", version))

	if icon, err := ui.LoadLogoResource(); err == nil {
		myApp.SetIcon(icon)
	}

	myWindow := myApp.NewWindow(fmt.Sprintf("%s v%s", AppName, version))
	myWindow.Resize(fyne.NewSize(WindowWidth, WindowHeight))

	// Initialize services
	settings := config.NewSettings(myApp)
	downloadsDir := settings.GetDownloadDirectory()
	if err := platform.CreateDirectoryIfNotExists(downloadsDir); err != nil {
		logger.Warn("failed to ensure downloads dir", zap.String("dir", downloadsDir), zap.Error(err))
	}

	managerOpts := []download.ManagerOption{
		download.WithMaxParallel(settings.GetMaxParallelDownloads()),
		download.WithTransferConfig(download.TransferConfig{
			PollInterval: time.Duration(settings.GetPollIntervalMilli()) * time.Millisecond,
			Dispatch:     fyne.Do,
			Logger:       logger,
		}),
		download.WithManagerLogger(logger),
	}

	history, err := storage.OpenHistoryInDir(dataDir)
	if err != nil {
		logger.Warn("download history disabled", zap.Error(err))
	} else {
		defer history.Close()
		managerOpts = append(managerOpts, download.WithRecorder(history))
		if entries, err := history.List(0); err == nil {
			logger.Debug("download history loaded", zap.Int("entries", len(entries)))
		}
	}

	manager := download.NewManager(downloadsDir, managerOpts...)
	defer manager.Close()

	// Create and setup UI
	root := ui.NewRootUI(myWindow, settings, manager, logger)
	defer root.Dispose()

	// Show and run
	myWindow.ShowAndRun()
}

// newLogger builds the logger from the logging section under dataDir
func newLogger(dataDir string) *zap.Logger {
	cfg, err := config.NewStore(dataDir).LoggingConfig()
	if err != nil {
		fmt.Printf("invalid logging config: %v\n", err)
	}
	logger, err := logging.New(cfg)
	if err != nil {
		fmt.Printf("failed to create logger: %v\n", err)
		return logging.NewDefault()
	}
	return logger
}
