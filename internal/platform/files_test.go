package platform

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestCreateDirectoryIfNotExists(t *testing.T) {
	tempDir := t.TempDir()
	testDir := filepath.Join(tempDir, "test_dir")

	if _, err := os.Stat(testDir); !os.IsNotExist(err) {
		t.Fatalf("Test directory already exists: %s", testDir)
	}

	if err := CreateDirectoryIfNotExists(testDir); err != nil {
		t.Fatalf("Failed to create directory: %v", err)
	}

	if _, err := os.Stat(testDir); os.IsNotExist(err) {
		t.Fatalf("Directory was not created: %s", testDir)
	}

	if err := CreateDirectoryIfNotExists(testDir); err != nil {
		t.Fatalf("Failed to handle existing directory: %v", err)
	}
}

func TestGetHomeDownloadsDir(t *testing.T) {
	t.Setenv("XDG_DOWNLOAD_DIR", "")

	downloadsDir, err := GetHomeDownloadsDir()
	if err != nil {
		t.Fatalf("Failed to get downloads directory: %v", err)
	}

	if filepath.Base(downloadsDir) != "Downloads" {
		t.Errorf("Expected directory to end with 'Downloads', got: %s", downloadsDir)
	}
}

func TestGetHomeDownloadsDir_XDGOverride(t *testing.T) {
	t.Setenv("XDG_DOWNLOAD_DIR", "/srv/downloads")

	downloadsDir, err := GetHomeDownloadsDir()
	if err != nil {
		t.Fatalf("Failed to get downloads directory: %v", err)
	}
	if downloadsDir != "/srv/downloads" {
		t.Errorf("Expected XDG override, got: %s", downloadsDir)
	}
}

func TestOpenFileInManager_NonExistentFile(t *testing.T) {
	nonExistentFile := filepath.Join(t.TempDir(), "nonexistent.txt")

	err := OpenFileInManager(nonExistentFile)
	if err == nil {
		t.Fatal("Expected error for non-existent file, got nil")
	}
	if !strings.Contains(err.Error(), "file does not exist") {
		t.Errorf("Error message should contain 'file does not exist', got: %v", err)
	}
}

func TestOpenFileWithDefaultApp_EmptyPath(t *testing.T) {
	if err := OpenFileWithDefaultApp(""); err == nil {
		t.Error("Expected error for empty path, got nil")
	}
}

func TestIsSandboxed_FlatpakEnv(t *testing.T) {
	t.Setenv("FLATPAK_ID", "com.ytget.BrowserShell")
	if !IsSandboxed() {
		t.Error("Expected FLATPAK_ID to mark the process as sandboxed")
	}
}

func TestFileURIRoundTrip(t *testing.T) {
	path := "/home/u/Downloads/report final.pdf"

	uri := FileURI(path)
	if uri != "file:///home/u/Downloads/report%20final.pdf" {
		t.Errorf("FileURI() = %s", uri)
	}
	if got := PathFromURI(uri); got != path {
		t.Errorf("PathFromURI() = %s, expected %s", got, path)
	}
}

func TestPathFromURI(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"", ""},
		{"/plain/path.txt", "/plain/path.txt"},
		{"/escaped/a%20b.txt", "/escaped/a b.txt"},
		{"file:///x/y%C3%A9.zip", "/x/yé.zip"},
	}

	for _, test := range tests {
		if got := PathFromURI(test.input); got != test.expected {
			t.Errorf("PathFromURI(%q) = %q, expected %q", test.input, got, test.expected)
		}
	}
}
