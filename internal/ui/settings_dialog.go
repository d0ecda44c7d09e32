package ui

import (
	"strconv"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"

	"github.com/ytget/yt-grabber/internal/config"
)

// SettingsDialog represents the settings configuration dialog
type SettingsDialog struct {
	settings *config.Settings
	window   fyne.Window
	dialog   *dialog.ConfirmDialog

	// UI components
	saveDirEntry       *widget.Entry
	maxConcurrentEntry *widget.Entry
	subtitleLangEntry  *widget.Entry
	autoRevealCheck    *widget.Check
}

// NewSettingsDialog creates a new settings dialog
func NewSettingsDialog(settings *config.Settings, window fyne.Window) *SettingsDialog {
	sd := &SettingsDialog{
		settings: settings,
		window:   window,
	}
	sd.createUI()
	return sd
}

// Show displays the settings dialog
func (sd *SettingsDialog) Show() {
	sd.loadCurrentSettings()
	sd.dialog.Show()
}

// createUI creates the settings dialog UI
func (sd *SettingsDialog) createUI() {
	sd.saveDirEntry = widget.NewEntry()
	sd.saveDirEntry.SetPlaceHolder("Download directory path")

	browseDirBtn := widget.NewButton("Browse", sd.onBrowseDirectory)
	saveDirRow := container.NewBorder(nil, nil, nil, browseDirBtn, sd.saveDirEntry)

	sd.maxConcurrentEntry = widget.NewEntry()
	sd.maxConcurrentEntry.SetPlaceHolder("1-10")

	sd.subtitleLangEntry = widget.NewEntry()
	sd.subtitleLangEntry.SetPlaceHolder("en (empty = no subtitles)")

	sd.autoRevealCheck = widget.NewCheck("Reveal file when download completes", nil)

	form := container.NewVBox(
		widget.NewLabel("Download Settings"),
		widget.NewSeparator(),

		widget.NewLabel("Download Directory:"),
		saveDirRow,

		widget.NewLabel("Max Simultaneous Downloads:"),
		sd.maxConcurrentEntry,

		widget.NewLabel("Default Subtitle Language:"),
		sd.subtitleLangEntry,

		widget.NewSeparator(),
		sd.autoRevealCheck,
	)

	sd.dialog = dialog.NewCustomConfirm(
		"Settings",
		"Save",
		"Cancel",
		form,
		sd.onSave,
		sd.window,
	)

	sd.dialog.Resize(fyne.NewSize(500, 360))
}

// loadCurrentSettings loads current settings into the UI
func (sd *SettingsDialog) loadCurrentSettings() {
	sd.saveDirEntry.SetText(sd.settings.GetSaveDirectory())
	sd.maxConcurrentEntry.SetText(strconv.Itoa(sd.settings.GetMaxConcurrentDownloads()))
	sd.subtitleLangEntry.SetText(sd.settings.GetDefaultSubtitleLanguage())
	sd.autoRevealCheck.SetChecked(sd.settings.GetAutoRevealOnComplete())
}

// onBrowseDirectory handles directory browsing
func (sd *SettingsDialog) onBrowseDirectory() {
	dialog.ShowFolderOpen(func(uri fyne.ListableURI, err error) {
		if err != nil || uri == nil {
			return
		}
		sd.saveDirEntry.SetText(uri.Path())
	}, sd.window)
}

// onSave handles saving the settings
func (sd *SettingsDialog) onSave(confirmed bool) {
	if !confirmed {
		return
	}

	if dir := sd.saveDirEntry.Text; dir != "" {
		sd.settings.SetSaveDirectory(dir)
	}
	if maxStr := sd.maxConcurrentEntry.Text; maxStr != "" {
		if maxConcurrent, err := strconv.Atoi(maxStr); err == nil {
			sd.settings.SetMaxConcurrentDownloads(maxConcurrent)
		}
	}
	sd.settings.SetDefaultSubtitleLanguage(sd.subtitleLangEntry.Text)
	sd.settings.SetAutoRevealOnComplete(sd.autoRevealCheck.Checked)

	// Concurrency changes apply on next launch; the running scheduler keeps
	// its bound.
	dialog.ShowInformation("Settings", "Settings saved. Some changes apply after restart.", sd.window)
}
