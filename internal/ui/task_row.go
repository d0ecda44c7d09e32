package ui

import (
	"fmt"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"github.com/ytget/yt-grabber/internal/model"
)

// TaskRow is a compact single-task row: title, status line, progress bar and
// the action buttons that make sense for the current status.
type TaskRow struct {
	widget.BaseWidget

	task *model.DownloadTask

	titleLabel  *widget.Label
	statusLabel *widget.Label
	progressBar *widget.ProgressBar

	pauseResumeBtn *widget.Button
	cancelBtn      *widget.Button
	revealBtn      *widget.Button
	removeBtn      *widget.Button

	onPauseResume func(taskID string)
	onCancel      func(taskID string)
	onReveal      func(filePath string)
	onRemove      func(taskID string)
}

// NewTaskRow creates a row for the given task snapshot.
func NewTaskRow(task *model.DownloadTask) *TaskRow {
	tr := &TaskRow{task: task}
	tr.ExtendBaseWidget(tr)
	tr.createUI()
	tr.updateFromTask()
	return tr
}

// SetCallbacks sets the action callbacks
func (tr *TaskRow) SetCallbacks(
	onPauseResume func(taskID string),
	onCancel func(taskID string),
	onReveal func(filePath string),
	onRemove func(taskID string),
) {
	tr.onPauseResume = onPauseResume
	tr.onCancel = onCancel
	tr.onReveal = onReveal
	tr.onRemove = onRemove
}

// UpdateTask updates the row with a new task snapshot
func (tr *TaskRow) UpdateTask(task *model.DownloadTask) {
	if task == nil {
		return
	}
	tr.task = task
	tr.updateFromTask()
	tr.Refresh()
}

func (tr *TaskRow) createUI() {
	tr.titleLabel = widget.NewLabel("")
	tr.titleLabel.TextStyle = fyne.TextStyle{Bold: true}
	tr.titleLabel.Truncation = fyne.TextTruncateEllipsis

	tr.statusLabel = widget.NewLabel("")
	tr.statusLabel.TextStyle = fyne.TextStyle{Monospace: true}

	tr.progressBar = widget.NewProgressBar()

	tr.pauseResumeBtn = widget.NewButtonWithIcon("", theme.MediaPauseIcon(), func() {
		if tr.onPauseResume != nil {
			tr.onPauseResume(tr.task.ID)
		}
	})
	tr.cancelBtn = widget.NewButtonWithIcon("", theme.MediaStopIcon(), func() {
		if tr.onCancel != nil {
			tr.onCancel(tr.task.ID)
		}
	})
	tr.revealBtn = widget.NewButtonWithIcon("", theme.FolderOpenIcon(), func() {
		if tr.onReveal != nil && tr.task.OutputPath != "" {
			tr.onReveal(tr.task.OutputPath)
		}
	})
	tr.removeBtn = widget.NewButtonWithIcon("", theme.DeleteIcon(), func() {
		if tr.onRemove != nil {
			tr.onRemove(tr.task.ID)
		}
	})
}

// updateFromTask syncs widgets with the current snapshot
func (tr *TaskRow) updateFromTask() {
	task := tr.task

	tr.titleLabel.SetText(task.GetDisplayTitle())
	tr.statusLabel.SetText(tr.statusLine())
	tr.progressBar.SetValue(task.Progress / 100)

	switch task.Status {
	case model.StatusDownloading:
		tr.pauseResumeBtn.SetIcon(theme.MediaPauseIcon())
		tr.pauseResumeBtn.Enable()
		tr.cancelBtn.Enable()
		tr.revealBtn.Disable()
	case model.StatusPaused:
		tr.pauseResumeBtn.SetIcon(theme.MediaPlayIcon())
		tr.pauseResumeBtn.Enable()
		tr.cancelBtn.Enable()
		tr.revealBtn.Disable()
	case model.StatusWaiting, model.StatusAnalyzing:
		tr.pauseResumeBtn.Disable()
		tr.cancelBtn.Enable()
		tr.revealBtn.Disable()
	case model.StatusCompleted:
		tr.pauseResumeBtn.Disable()
		tr.cancelBtn.Disable()
		if task.OutputPath != "" {
			tr.revealBtn.Enable()
		} else {
			tr.revealBtn.Disable()
		}
	default:
		tr.pauseResumeBtn.Disable()
		tr.cancelBtn.Disable()
		tr.revealBtn.Disable()
	}
}

// statusLine builds the one-line status text under the title
func (tr *TaskRow) statusLine() string {
	task := tr.task
	switch task.Status {
	case model.StatusDownloading:
		return fmt.Sprintf("%s  %.1f%%  %s", task.Status, task.Progress, task.Speed)
	case model.StatusFailed:
		if task.LastError != "" {
			return fmt.Sprintf("%s: %s", task.Status, task.LastError)
		}
		return task.Status.String()
	default:
		return task.Status.String()
	}
}

// CreateRenderer implements fyne.Widget
func (tr *TaskRow) CreateRenderer() fyne.WidgetRenderer {
	buttons := container.NewHBox(tr.pauseResumeBtn, tr.cancelBtn, tr.revealBtn, tr.removeBtn)
	content := container.NewVBox(
		container.NewBorder(nil, nil, nil, buttons, tr.titleLabel),
		tr.statusLabel,
		tr.progressBar,
	)
	return widget.NewSimpleRenderer(content)
}
