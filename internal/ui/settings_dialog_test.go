package ui

import (
	"testing"

	"fyne.io/fyne/v2/test"
	"github.com/stretchr/testify/assert"

	"github.com/ytget/browser-shell/internal/config"
)

func newTestSettingsDialog(t *testing.T) (*SettingsDialog, *config.Settings) {
	t.Helper()
	app := test.NewApp()
	settings := config.NewSettings(app)
	window := app.NewWindow("test")
	return NewSettingsDialog(settings, NewLocalization(), window, nil), settings
}

func TestSettingsDialog_LoadsCurrentSettings(t *testing.T) {
	sd, settings := newTestSettingsDialog(t)
	settings.SetDownloadDirectory("/tmp/dl")
	settings.SetMaxParallelDownloads(4)
	settings.SetOpenOnComplete(true)
	settings.SetLanguage("ru")

	sd.loadCurrentSettings()

	assert.Equal(t, "/tmp/dl", sd.downloadDirEntry.Text)
	assert.Equal(t, "4", sd.maxParallelEntry.Text)
	assert.True(t, sd.openOnCompleteCheck.Checked)
	assert.Equal(t, "Русский", sd.languageSelect.Selected)
}

func TestSettingsDialog_Apply(t *testing.T) {
	sd, settings := newTestSettingsDialog(t)

	sd.downloadDirEntry.SetText("/srv/files")
	sd.maxParallelEntry.SetText("20")
	sd.openOnCompleteCheck.SetChecked(true)
	sd.languageSelect.SetSelected("Português")
	sd.apply()

	assert.Equal(t, "/srv/files", settings.GetDownloadDirectory())
	assert.Equal(t, 10, settings.GetMaxParallelDownloads())
	assert.True(t, settings.GetOpenOnComplete())
	assert.Equal(t, "pt", settings.GetLanguage())
}

func TestSettingsDialog_ApplySkipsInvalidNumber(t *testing.T) {
	sd, settings := newTestSettingsDialog(t)
	settings.SetMaxParallelDownloads(2)

	sd.maxParallelEntry.SetText("many")
	sd.apply()

	assert.Equal(t, 2, settings.GetMaxParallelDownloads())
}

func TestSettingsDialog_OnSaveCancelled(t *testing.T) {
	sd, settings := newTestSettingsDialog(t)
	called := false
	sd.onSaved = func() { called = true }
	settings.SetMaxParallelDownloads(2)
	sd.maxParallelEntry.SetText("5")

	sd.onSave(false)

	assert.False(t, called)
	assert.Equal(t, 2, settings.GetMaxParallelDownloads())
}

func TestSettingsDialog_OnSave(t *testing.T) {
	sd, settings := newTestSettingsDialog(t)
	called := false
	sd.onSaved = func() { called = true }
	sd.maxParallelEntry.SetText("5")

	sd.onSave(true)

	assert.True(t, called)
	assert.Equal(t, 5, settings.GetMaxParallelDownloads())
}
