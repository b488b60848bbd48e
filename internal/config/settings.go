package config

import (
	"fyne.io/fyne/v2"

	"github.com/ytget/browser-shell/internal/platform"
)

// Settings keys for Fyne preferences
const (
	KeyDownloadDir       = "download_directory"
	KeyLanguage          = "app_language"
	KeyOpenOnComplete    = "open_on_complete"
	KeyMaxParallel       = "max_parallel_downloads"
	KeyPollIntervalMilli = "progress_poll_interval_ms"
)

// Default values
const (
	DefaultLanguage          = "system"
	DefaultOpenOnComplete    = false
	DefaultMaxParallel       = 3
	DefaultPollIntervalMilli = 250
	FallbackDownloadDir      = "/tmp/downloads"
)

// Settings manages UI process preferences
type Settings struct {
	app fyne.App
}

// NewSettings creates a new settings manager
func NewSettings(app fyne.App) *Settings {
	return &Settings{app: app}
}

// GetDownloadDirectory returns the configured download directory
func (s *Settings) GetDownloadDirectory() string {
	dir := s.app.Preferences().String(KeyDownloadDir)
	if dir == "" {
		defaultDir, err := platform.GetHomeDownloadsDir()
		if err != nil {
			defaultDir = FallbackDownloadDir
		}
		s.SetDownloadDirectory(defaultDir)
		return defaultDir
	}
	return dir
}

// SetDownloadDirectory sets the download directory
func (s *Settings) SetDownloadDirectory(dir string) {
	s.app.Preferences().SetString(KeyDownloadDir, dir)
}

// GetLanguage returns the configured language
func (s *Settings) GetLanguage() string {
	lang := s.app.Preferences().String(KeyLanguage)
	if lang == "" {
		s.SetLanguage(DefaultLanguage)
		return DefaultLanguage
	}
	return lang
}

// SetLanguage sets the application language
func (s *Settings) SetLanguage(lang string) {
	s.app.Preferences().SetString(KeyLanguage, lang)
}

// GetLanguageOptions returns available language options
func (s *Settings) GetLanguageOptions() map[string]string {
	return map[string]string{
		"system": "System Default",
		"en":     "English",
		"ru":     "Русский",
		"pt":     "Português",
	}
}

// GetMaxParallelDownloads returns the maximum number of parallel downloads
func (s *Settings) GetMaxParallelDownloads() int {
	value := s.app.Preferences().Int(KeyMaxParallel)
	if value <= 0 {
		s.SetMaxParallelDownloads(DefaultMaxParallel)
		return DefaultMaxParallel
	}
	return value
}

// SetMaxParallelDownloads sets the maximum number of parallel downloads
func (s *Settings) SetMaxParallelDownloads(count int) {
	if count < 1 {
		count = 1
	}
	if count > 10 {
		count = 10
	}
	s.app.Preferences().SetInt(KeyMaxParallel, count)
}

// GetOpenOnComplete returns whether finished downloads run their default action automatically
func (s *Settings) GetOpenOnComplete() bool {
	return s.app.Preferences().BoolWithFallback(KeyOpenOnComplete, DefaultOpenOnComplete)
}

// SetOpenOnComplete sets whether finished downloads run their default action automatically
func (s *Settings) SetOpenOnComplete(open bool) {
	s.app.Preferences().SetBool(KeyOpenOnComplete, open)
}

// GetPollIntervalMilli returns how often transfers report progress
func (s *Settings) GetPollIntervalMilli() int {
	value := s.app.Preferences().Int(KeyPollIntervalMilli)
	if value <= 0 {
		return DefaultPollIntervalMilli
	}
	return value
}

// SetPollIntervalMilli sets the progress poll interval, clamped to 50..5000 ms
func (s *Settings) SetPollIntervalMilli(ms int) {
	if ms < 50 {
		ms = 50
	}
	if ms > 5000 {
		ms = 5000
	}
	s.app.Preferences().SetInt(KeyPollIntervalMilli, ms)
}
