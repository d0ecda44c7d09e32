package platform

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"

	"github.com/pkg/browser"
)

// Operating system constants
const (
	OSDarwin  = "darwin"
	OSWindows = "windows"
	OSLinux   = "linux"
)

// File permissions
const (
	DefaultDirPermissions = 0755
)

// Command constants
const (
	OpenCommand     = "open"
	ExplorerCommand = "explorer"
	XDGOpenCommand  = "xdg-open"
)

// Command parameters
const (
	MacOSSelectFlag    = "-R"
	WindowsSelectParam = "/select,"
)

// File manager names tried on Linux when xdg-open is unavailable
var LinuxFileManagers = []string{"nautilus", "dolphin", "thunar", "nemo", "pcmanfm"}

// CreateDirectoryIfNotExists creates directory if it doesn't exist
func CreateDirectoryIfNotExists(dirPath string) error {
	if _, err := os.Stat(dirPath); os.IsNotExist(err) {
		return os.MkdirAll(dirPath, DefaultDirPermissions)
	}
	return nil
}

// GetHomeDownloadsDir returns the standard Downloads directory for the user
func GetHomeDownloadsDir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}
	return filepath.Join(homeDir, "Downloads"), nil
}

// RevealInFolder opens the file in the system file manager and highlights it
// where the platform supports selection. If every platform-specific command
// fails, the containing directory is opened through the default handler.
func RevealInFolder(filePath string) error {
	if filePath == "" {
		return fmt.Errorf("file path is empty")
	}

	absPath, err := filepath.Abs(filePath)
	if err != nil {
		return fmt.Errorf("failed to get absolute path: %w", err)
	}
	if _, err := os.Stat(absPath); err != nil {
		return fmt.Errorf("file does not exist: %w", err)
	}

	switch runtime.GOOS {
	case OSDarwin:
		if err := exec.Command(OpenCommand, MacOSSelectFlag, absPath).Run(); err == nil {
			return nil
		}
	case OSWindows:
		if err := exec.Command(ExplorerCommand, WindowsSelectParam, absPath).Run(); err == nil {
			return nil
		}
	case OSLinux:
		dir := filepath.Dir(absPath)
		if err := exec.Command(XDGOpenCommand, dir).Run(); err == nil {
			return nil
		}
		for _, fm := range LinuxFileManagers {
			if _, err := exec.LookPath(fm); err == nil {
				return exec.Command(fm, dir).Run()
			}
		}
	}

	// Selection is unavailable; opening the directory is still useful.
	return browser.OpenFile(filepath.Dir(absPath))
}

// OpenFileWithDefaultApp opens the file with the default system application
func OpenFileWithDefaultApp(filePath string) error {
	absPath, err := filepath.Abs(filePath)
	if err != nil {
		return fmt.Errorf("failed to get absolute path: %w", err)
	}
	if _, err := os.Stat(absPath); err != nil {
		return fmt.Errorf("file does not exist: %w", err)
	}
	return browser.OpenFile(absPath)
}
