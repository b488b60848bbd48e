package platform

import (
	"fmt"
	"net/url"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"

	"github.com/godbus/dbus/v5"
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
	PrivateDirPermissions = 0700
)

// Command constants
const (
	OpenCommand     = "open"
	ExplorerCommand = "explorer"
	XDGOpenCommand  = "xdg-open"
	CmdCommand      = "cmd"
	StartCommand    = "start"
)

// Command parameters
const (
	MacOSSelectFlag    = "-R"
	WindowsSelectParam = "/select,"
	WindowsCmdFlag     = "/c"
)

// FileManager1 D-Bus names used to reveal a file with selection on Linux desktops
const (
	FileManagerBusName   = "org.freedesktop.FileManager1"
	FileManagerPath      = "/org/freedesktop/FileManager1"
	FileManagerShowItems = "org.freedesktop.FileManager1.ShowItems"
)

// FlatpakInfoPath exists inside every Flatpak sandbox
const FlatpakInfoPath = "/.flatpak-info"

// IsSandboxed reports whether the process runs inside a Flatpak sandbox.
// Sandboxed processes cannot see the host file manager, so downloads are
// opened instead of revealed.
func IsSandboxed() bool {
	if os.Getenv("FLATPAK_ID") != "" {
		return true
	}
	_, err := os.Stat(FlatpakInfoPath)
	return err == nil
}

// Launcher runs the post-download actions
type Launcher interface {
	Open(filePath string) error
	Reveal(filePath string) error
}

// SystemLauncher opens and reveals files through the desktop environment
type SystemLauncher struct{}

// Open opens the file with the default application
func (SystemLauncher) Open(filePath string) error {
	return OpenFileWithDefaultApp(filePath)
}

// Reveal shows the file in the system file manager
func (SystemLauncher) Reveal(filePath string) error {
	return OpenFileInManager(filePath)
}

// OpenFileInManager opens the file in the system file manager and highlights it
func OpenFileInManager(filePath string) error {
	absPath, err := existingAbsPath(filePath)
	if err != nil {
		return err
	}

	switch runtime.GOOS {
	case OSDarwin:
		return exec.Command(OpenCommand, MacOSSelectFlag, absPath).Run()
	case OSWindows:
		return exec.Command(ExplorerCommand, WindowsSelectParam, absPath).Run()
	case OSLinux:
		return openFileInManagerLinux(absPath)
	default:
		return fmt.Errorf("unsupported operating system: %s", runtime.GOOS)
	}
}

// openFileInManagerLinux asks the session file manager to select the file,
// falling back to opening the parent directory.
func openFileInManagerLinux(filePath string) error {
	if err := showItemsDBus(filePath); err == nil {
		return nil
	}

	return exec.Command(XDGOpenCommand, filepath.Dir(filePath)).Run()
}

func showItemsDBus(filePath string) error {
	conn, err := dbus.SessionBus()
	if err != nil {
		return fmt.Errorf("failed to connect to session bus: %w", err)
	}

	uri := (&url.URL{Scheme: "file", Path: filePath}).String()
	obj := conn.Object(FileManagerBusName, dbus.ObjectPath(FileManagerPath))
	call := obj.Call(FileManagerShowItems, 0, []string{uri}, "")
	if call.Err != nil {
		return fmt.Errorf("ShowItems failed: %w", call.Err)
	}
	return nil
}

// OpenFileWithDefaultApp opens the file with the default system application
func OpenFileWithDefaultApp(filePath string) error {
	absPath, err := existingAbsPath(filePath)
	if err != nil {
		return err
	}

	switch runtime.GOOS {
	case OSDarwin:
		return exec.Command(OpenCommand, absPath).Run()
	case OSWindows:
		return exec.Command(CmdCommand, WindowsCmdFlag, StartCommand, "", absPath).Run()
	case OSLinux:
		return exec.Command(XDGOpenCommand, absPath).Run()
	default:
		return fmt.Errorf("unsupported operating system: %s", runtime.GOOS)
	}
}

func existingAbsPath(filePath string) (string, error) {
	if filePath == "" {
		return "", fmt.Errorf("file path is empty")
	}
	if _, err := os.Stat(filePath); err != nil {
		return "", fmt.Errorf("file does not exist: %w", err)
	}
	absPath, err := filepath.Abs(filePath)
	if err != nil {
		return "", fmt.Errorf("failed to get absolute path: %w", err)
	}
	return absPath, nil
}

// CreateDirectoryIfNotExists creates directory if it doesn't exist
func CreateDirectoryIfNotExists(dirPath string) error {
	if _, err := os.Stat(dirPath); os.IsNotExist(err) {
		return os.MkdirAll(dirPath, DefaultDirPermissions)
	}
	return nil
}

// GetHomeDownloadsDir returns the standard Downloads directory for the user
func GetHomeDownloadsDir() (string, error) {
	if dir := os.Getenv("XDG_DOWNLOAD_DIR"); dir != "" {
		return dir, nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}

	return filepath.Join(homeDir, "Downloads"), nil
}

// FileURI converts a filesystem path to a file:// URI
func FileURI(filePath string) string {
	return (&url.URL{Scheme: "file", Path: filePath}).String()
}

// PathFromURI converts a file:// URI (or a plain, possibly escaped, path) back
// to a filesystem path.
func PathFromURI(uri string) string {
	if uri == "" {
		return ""
	}
	if u, err := url.Parse(uri); err == nil && u.Scheme == "file" {
		return u.Path
	}
	if decoded, err := url.PathUnescape(uri); err == nil {
		return decoded
	}
	return uri
}
