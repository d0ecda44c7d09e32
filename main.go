package main

import (
	"fmt"
	"path/filepath"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"

	"github.com/ytget/yt-grabber/internal/config"
	"github.com/ytget/yt-grabber/internal/download"
	"github.com/ytget/yt-grabber/internal/fetch"
	"github.com/ytget/yt-grabber/internal/history"
	"github.com/ytget/yt-grabber/internal/logging"
	"github.com/ytget/yt-grabber/internal/model"
	"github.com/ytget/yt-grabber/internal/platform"
	"github.com/ytget/yt-grabber/internal/ui"
)

// Version is set during build via -ldflags "-X main.version=X.Y.Z"
var version = "dev"

const (
	AppID   = "com.ytget.yt-grabber"
	AppName = "YT Grabber"

	WindowWidth  = 800
	WindowHeight = 600
)

func main() {
	myApp := app.NewWithID(AppID)
	myApp.Settings().SetTheme(ui.NewCompactTheme())

	windowTitle := fmt.Sprintf("%s v%s", AppName, version)
	myWindow := myApp.NewWindow(windowTitle)
	myWindow.Resize(fyne.NewSize(WindowWidth, WindowHeight))

	settings := config.NewSettings(myApp)

	logFile := filepath.Join(myApp.Storage().RootURI().Path(), "logs", "yt-grabber.log")
	logger, err := logging.Init(logging.Options{File: logFile, Level: "info"})
	if err != nil {
		fmt.Printf("failed to initialize logger: %v\n", err)
	}
	logger.Info("starting", "app", AppName, "version", version)

	saveDir := settings.GetSaveDirectory()
	if err := platform.CreateDirectoryIfNotExists(saveDir); err != nil {
		logger.Warn("failed to ensure download directory", "dir", saveDir, "error", err)
	}

	manager := download.NewManager(download.Config{
		MaxConcurrent: settings.GetMaxConcurrentDownloads(),
	}, logger, func(task *model.DownloadTask) fetch.Fetcher {
		return fetch.NewYTDLPFetcher(task.SaveDir, logger)
	})
	defer manager.Shutdown()

	var historyDB *history.Store
	historyDB, err = history.Open(settings.GetHistoryDBPath())
	if err != nil {
		logger.Warn("history unavailable", "error", err)
		historyDB = nil
	} else {
		historyDB.Attach(manager.Events(), manager)
	}

	resolver := fetch.NewYTDLPFetcher(saveDir, logger)
	ui.NewRootUI(myWindow, myApp, settings, manager, resolver, historyDB)

	myWindow.ShowAndRun()
}
