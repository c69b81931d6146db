package platform

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
)

// File permissions
const (
	DefaultDirPermissions = 0o755
)

// Folder-opening commands per OS
const (
	OpenCommand     = "open"
	ExplorerCommand = "explorer"
	XDGOpenCommand  = "xdg-open"
)

// CreateDirectoryIfNotExists creates directory if it doesn't exist
func CreateDirectoryIfNotExists(dirPath string) error {
	if _, err := os.Stat(dirPath); os.IsNotExist(err) {
		return os.MkdirAll(dirPath, DefaultDirPermissions)
	}
	return nil
}

// HomeDownloadsDir returns the standard Downloads directory for the user
func HomeDownloadsDir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}
	return filepath.Join(homeDir, "Downloads"), nil
}

// LookupTool resolves a tool name or path to an executable. A value
// containing a path separator is checked directly; a bare name is resolved
// via PATH.
func LookupTool(nameOrPath string) (string, error) {
	if nameOrPath == "" {
		return "", fmt.Errorf("tool name is empty")
	}
	if filepath.Base(nameOrPath) != nameOrPath {
		info, err := os.Stat(nameOrPath)
		if err != nil {
			return "", fmt.Errorf("tool not found at %s: %w", nameOrPath, err)
		}
		if info.IsDir() {
			return "", fmt.Errorf("tool path is a directory: %s", nameOrPath)
		}
		return nameOrPath, nil
	}
	path, err := exec.LookPath(nameOrPath)
	if err != nil {
		return "", fmt.Errorf("tool %q not found in PATH: %w", nameOrPath, err)
	}
	return path, nil
}

// OpenFolder opens the directory in the system file manager
func OpenFolder(dirPath string) error {
	info, err := os.Stat(dirPath)
	if err != nil {
		return fmt.Errorf("folder does not exist: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("not a directory: %s", dirPath)
	}

	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command(OpenCommand, dirPath)
	case "windows":
		cmd = exec.Command(ExplorerCommand, dirPath)
	default:
		cmd = exec.Command(XDGOpenCommand, dirPath)
	}
	return cmd.Start()
}
