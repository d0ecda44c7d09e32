package ui

import (
	"context"
	"fmt"
	"sync"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"

	"github.com/ytget/yt-grabber/internal/config"
	"github.com/ytget/yt-grabber/internal/download"
	"github.com/ytget/yt-grabber/internal/events"
	"github.com/ytget/yt-grabber/internal/fetch"
	"github.com/ytget/yt-grabber/internal/history"
	"github.com/ytget/yt-grabber/internal/model"
	"github.com/ytget/yt-grabber/internal/platform"
	"github.com/ytget/yt-grabber/internal/remux"
)

const (
	ResolveTimeout = 60 * time.Second

	HistoryDialogWidth  = 600
	HistoryDialogHeight = 400
)

// Resolver enumerates available formats for a URL before download.
type Resolver interface {
	Resolve(ctx context.Context, url string) (*model.MediaInfo, error)
}

// RootUI is the main application window content.
type RootUI struct {
	window   fyne.Window
	app      fyne.App
	settings *config.Settings

	downloader download.Downloader
	resolver   Resolver
	expander   *platform.PlaylistExpander
	remuxer    *remux.Service
	historyDB  *history.Store

	// URL input and format pickers
	urlEntry       *widget.Entry
	resolveBtn     *widget.Button
	downloadBtn    *widget.Button
	videoSelect    *widget.Select
	audioSelect    *widget.Select
	subtitleSelect *widget.Select

	// id lookup behind the select labels
	videoIDs    map[string]string
	audioIDs    map[string]string
	subtitleIDs map[string]string

	// task list
	taskList *fyne.Container
	rowsMu   sync.Mutex
	rows     map[string]*TaskRow

	statusLabel *widget.Label
}

// NewRootUI builds the window content and wires it to the manager's bus.
func NewRootUI(window fyne.Window, app fyne.App, settings *config.Settings,
	downloader download.Downloader, resolver Resolver, historyDB *history.Store) *RootUI {

	ui := &RootUI{
		window:     window,
		app:        app,
		settings:   settings,
		downloader: downloader,
		resolver:   resolver,
		expander:   platform.NewPlaylistExpander(),
		remuxer:    remux.NewService(nil),
		historyDB:  historyDB,
		rows:       make(map[string]*TaskRow),
	}

	ui.setupUI()
	ui.subscribeToEvents()
	return ui
}

func (ui *RootUI) setupUI() {
	ui.urlEntry = widget.NewEntry()
	ui.urlEntry.SetPlaceHolder("Paste a YouTube video or playlist URL")
	ui.urlEntry.OnSubmitted = func(string) { ui.onDownloadClick() }

	ui.resolveBtn = widget.NewButton("Formats", ui.onResolveClick)
	ui.downloadBtn = widget.NewButton("Download", ui.onDownloadClick)
	ui.downloadBtn.Importance = widget.HighImportance

	ui.videoSelect = widget.NewSelect(nil, nil)
	ui.videoSelect.PlaceHolder = "Video: best"
	ui.audioSelect = widget.NewSelect(nil, nil)
	ui.audioSelect.PlaceHolder = "Audio: best"
	ui.subtitleSelect = widget.NewSelect(nil, nil)
	ui.subtitleSelect.PlaceHolder = "Subtitles: none"

	urlRow := container.NewBorder(nil, nil, nil,
		container.NewHBox(ui.resolveBtn, ui.downloadBtn), ui.urlEntry)
	formatRow := container.NewGridWithColumns(3, ui.videoSelect, ui.audioSelect, ui.subtitleSelect)

	startAllBtn := widget.NewButton("Start All", ui.downloader.StartAll)
	pauseAllBtn := widget.NewButton("Pause All", ui.downloader.PauseAll)
	settingsBtn := widget.NewButton("Settings", ui.onShowSettings)
	historyBtn := widget.NewButton("History", ui.onShowHistory)
	toolbar := container.NewHBox(startAllBtn, pauseAllBtn, settingsBtn, historyBtn)

	ui.taskList = container.NewVBox()
	ui.statusLabel = widget.NewLabel("")

	top := container.NewVBox(urlRow, formatRow, toolbar, widget.NewSeparator())
	content := container.NewBorder(top, ui.statusLabel, nil, nil,
		container.NewVScroll(ui.taskList))

	ui.window.SetContent(content)
}

// onResolveClick enumerates formats for the entered URL.
func (ui *RootUI) onResolveClick() {
	url := ui.urlEntry.Text
	if !fetch.ValidateURL(url) {
		dialog.ShowError(fmt.Errorf("not a valid YouTube URL"), ui.window)
		return
	}

	ui.resolveBtn.Disable()
	ui.setStatus("Resolving formats...")

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), ResolveTimeout)
		defer cancel()

		info, err := ui.resolver.Resolve(ctx, url)

		fyne.Do(func() {
			ui.resolveBtn.Enable()
			if err != nil {
				ui.setStatus("")
				dialog.ShowError(err, ui.window)
				return
			}
			ui.populateFormats(info)
			ui.setStatus(fmt.Sprintf("Resolved: %s", info.Title))
		})
	}()
}

// populateFormats fills the pickers from resolved media info
func (ui *RootUI) populateFormats(info *model.MediaInfo) {
	ui.videoIDs = make(map[string]string, len(info.VideoFormats))
	videoOptions := make([]string, 0, len(info.VideoFormats))
	for _, f := range info.VideoFormats {
		ui.videoIDs[f.Description] = f.ID
		videoOptions = append(videoOptions, f.Description)
	}

	ui.audioIDs = make(map[string]string, len(info.AudioFormats))
	audioOptions := make([]string, 0, len(info.AudioFormats))
	for _, f := range info.AudioFormats {
		ui.audioIDs[f.Description] = f.ID
		audioOptions = append(audioOptions, f.Description)
	}

	ui.subtitleIDs = make(map[string]string, len(info.Subtitles))
	subtitleOptions := []string{"none"}
	for _, s := range info.Subtitles {
		ui.subtitleIDs[s.Name] = s.Code
		subtitleOptions = append(subtitleOptions, s.Name)
	}

	ui.videoSelect.Options = videoOptions
	ui.videoSelect.Refresh()
	ui.audioSelect.Options = audioOptions
	ui.audioSelect.Refresh()
	ui.subtitleSelect.Options = subtitleOptions
	ui.subtitleSelect.Refresh()
}

// selectedFormats maps picker labels back to yt-dlp ids
func (ui *RootUI) selectedFormats() (videoFormat, audioFormat, subtitleLang string) {
	videoFormat = ui.videoIDs[ui.videoSelect.Selected]
	audioFormat = ui.audioIDs[ui.audioSelect.Selected]
	if ui.subtitleSelect.Selected != "" && ui.subtitleSelect.Selected != "none" {
		subtitleLang = ui.subtitleIDs[ui.subtitleSelect.Selected]
	} else {
		subtitleLang = ui.settings.GetDefaultSubtitleLanguage()
	}
	return videoFormat, audioFormat, subtitleLang
}

// onDownloadClick enqueues the URL, expanding playlists into one task per
// video.
func (ui *RootUI) onDownloadClick() {
	url := ui.urlEntry.Text
	if !fetch.ValidateURL(url) {
		dialog.ShowError(fmt.Errorf("not a valid YouTube URL"), ui.window)
		return
	}

	videoFormat, audioFormat, subtitleLang := ui.selectedFormats()
	saveDir := ui.settings.GetSaveDirectory()
	if err := platform.CreateDirectoryIfNotExists(saveDir); err != nil {
		dialog.ShowError(fmt.Errorf("cannot create download directory: %w", err), ui.window)
		return
	}

	if platform.IsPlaylistURL(url) {
		ui.enqueuePlaylist(url, videoFormat, audioFormat, subtitleLang, saveDir)
	} else {
		ui.downloader.Add(url, videoFormat, audioFormat, subtitleLang, saveDir)
	}

	ui.urlEntry.SetText("")
}

// enqueuePlaylist expands the playlist in the background and adds each video
// as its own task.
func (ui *RootUI) enqueuePlaylist(url, videoFormat, audioFormat, subtitleLang, saveDir string) {
	ui.setStatus("Expanding playlist...")

	go func() {
		items, err := ui.expander.Expand(context.Background(), url)

		fyne.Do(func() {
			if err != nil {
				ui.setStatus("")
				dialog.ShowError(fmt.Errorf("playlist expansion failed: %w", err), ui.window)
				return
			}
			for _, item := range items {
				ui.downloader.Add(item.URL, videoFormat, audioFormat, subtitleLang, saveDir)
			}
			ui.setStatus(fmt.Sprintf("Queued %d videos from playlist", len(items)))
		})
	}()
}

// subscribeToEvents drives all list updates from the manager's bus.
func (ui *RootUI) subscribeToEvents() {
	ui.downloader.Events().Subscribe(func(ev events.Event) {
		switch ev.Type {
		case events.TaskAdded:
			ui.addRow(ev.TaskID)
		case events.TaskRemoved:
			ui.removeRow(ev.TaskID)
		case events.AllTasksCompleted:
			fyne.Do(func() { ui.setStatus("All downloads finished") })
		case events.TaskCompleted:
			ui.refreshRow(ev.TaskID)
			ui.onTaskCompleted(ev.OutputPath)
		default:
			ui.refreshRow(ev.TaskID)
		}
	})
}

func (ui *RootUI) addRow(taskID string) {
	task, ok := ui.downloader.Get(taskID)
	if !ok {
		return
	}

	fyne.Do(func() {
		ui.rowsMu.Lock()
		defer ui.rowsMu.Unlock()
		if _, exists := ui.rows[taskID]; exists {
			return
		}
		row := NewTaskRow(task)
		row.SetCallbacks(ui.onPauseResumeTask, ui.onCancelTask, ui.onRevealFile, ui.onRemoveTask)
		ui.rows[taskID] = row
		ui.taskList.Add(row)
	})
}

func (ui *RootUI) removeRow(taskID string) {
	fyne.Do(func() {
		ui.rowsMu.Lock()
		defer ui.rowsMu.Unlock()
		if row, exists := ui.rows[taskID]; exists {
			ui.taskList.Remove(row)
			delete(ui.rows, taskID)
		}
	})
}

func (ui *RootUI) refreshRow(taskID string) {
	task, ok := ui.downloader.Get(taskID)
	if !ok {
		return
	}

	fyne.Do(func() {
		ui.rowsMu.Lock()
		row, exists := ui.rows[taskID]
		ui.rowsMu.Unlock()
		if exists {
			row.UpdateTask(task)
		}
	})
}

// onTaskCompleted post-processes a finished download: a non-mp4 container is
// remuxed in the background, then the result is revealed if configured.
func (ui *RootUI) onTaskCompleted(outputPath string) {
	if outputPath == "" {
		return
	}

	go func() {
		finalPath := outputPath
		if remux.NeedsRemux(outputPath) {
			remuxed, err := ui.remuxer.Remux(context.Background(), outputPath)
			if err == nil {
				finalPath = remuxed
			}
		}
		// subtitle sidecars are named after the original download, not any
		// remuxed copy
		if subtitle := remux.FindSubtitleFile(outputPath); subtitle != "" {
			merged, err := ui.remuxer.MergeSubtitles(context.Background(), finalPath, subtitle)
			if err == nil {
				finalPath = merged
			}
		}
		if ui.settings.GetAutoRevealOnComplete() {
			platform.RevealInFolder(finalPath)
		}
	}()
}

// onPauseResumeTask toggles between pause and resume based on current status
func (ui *RootUI) onPauseResumeTask(taskID string) {
	task, ok := ui.downloader.Get(taskID)
	if !ok {
		return
	}

	switch task.Status {
	case model.StatusDownloading:
		ui.downloader.Pause(taskID)
	case model.StatusPaused:
		ui.downloader.Resume(taskID)
	}
}

func (ui *RootUI) onCancelTask(taskID string) {
	ui.downloader.Cancel(taskID)
}

func (ui *RootUI) onRemoveTask(taskID string) {
	ui.downloader.Remove(taskID)
}

func (ui *RootUI) onRevealFile(filePath string) {
	go func() {
		if err := platform.RevealInFolder(filePath); err != nil {
			fyne.Do(func() {
				dialog.ShowError(fmt.Errorf("cannot reveal file: %w", err), ui.window)
			})
		}
	}()
}

func (ui *RootUI) onShowSettings() {
	NewSettingsDialog(ui.settings, ui.window).Show()
}

// onShowHistory lists recent finished downloads.
func (ui *RootUI) onShowHistory() {
	if ui.historyDB == nil {
		return
	}

	entries, err := ui.historyDB.Recent(history.DefaultRecentLimit)
	if err != nil {
		dialog.ShowError(err, ui.window)
		return
	}

	list := container.NewVBox()
	if len(entries) == 0 {
		list.Add(widget.NewLabel("No downloads yet"))
	}
	for _, entry := range entries {
		title := entry.Title
		if title == "" {
			title = entry.URL
		}
		label := widget.NewLabel(fmt.Sprintf("%s  %s  %s",
			entry.FinishedAt.Format("2006-01-02 15:04"), entry.Status, title))
		label.Truncation = fyne.TextTruncateEllipsis
		list.Add(label)
	}

	clearBtn := widget.NewButton("Clear History", func() {
		if err := ui.historyDB.Clear(); err == nil {
			list.Objects = []fyne.CanvasObject{widget.NewLabel("No downloads yet")}
			list.Refresh()
		}
	})

	content := container.NewBorder(nil, clearBtn, nil, nil, container.NewVScroll(list))
	d := dialog.NewCustom("Download History", "Close", content, ui.window)
	d.Resize(fyne.NewSize(HistoryDialogWidth, HistoryDialogHeight))
	d.Show()
}

func (ui *RootUI) setStatus(text string) {
	ui.statusLabel.SetText(text)
}
