package ui

import (
	"sort"
	"strconv"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"

	"github.com/ytget/browser-shell/internal/config"
)

// SettingsDialog represents the settings configuration dialog
type SettingsDialog struct {
	settings     *config.Settings
	localization *Localization
	window       fyne.Window
	dialog       *dialog.ConfirmDialog
	onSaved      func()

	// UI components
	downloadDirEntry     *widget.Entry
	maxParallelEntry     *widget.Entry
	openOnCompleteCheck  *widget.Check
	languageSelect       *widget.Select
	languageCodesByLabel map[string]string
}

// ShowSettingsDialog builds and shows the settings dialog. onSaved runs after
// the values were written to settings.
func ShowSettingsDialog(window fyne.Window, settings *config.Settings, localization *Localization, onSaved func()) *SettingsDialog {
	sd := NewSettingsDialog(settings, localization, window, onSaved)
	sd.Show()
	return sd
}

// NewSettingsDialog creates a new settings dialog
func NewSettingsDialog(settings *config.Settings, localization *Localization, window fyne.Window, onSaved func()) *SettingsDialog {
	sd := &SettingsDialog{
		settings:     settings,
		localization: localization,
		window:       window,
		onSaved:      onSaved,
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
	t := sd.localization.GetText

	sd.downloadDirEntry = widget.NewEntry()
	browseDirBtn := widget.NewButton(t(KeyBrowse), sd.onBrowseDirectory)
	downloadDirRow := container.NewBorder(nil, nil, nil, browseDirBtn, sd.downloadDirEntry)

	sd.maxParallelEntry = widget.NewEntry()
	sd.maxParallelEntry.SetPlaceHolder("1-10")

	sd.openOnCompleteCheck = widget.NewCheck(t(KeyOpenOnComplete), nil)

	// Language labels are shown, codes are stored
	labels := sd.settings.GetLanguageOptions()
	sd.languageCodesByLabel = make(map[string]string, len(labels))
	options := make([]string, 0, len(labels))
	for code, label := range labels {
		sd.languageCodesByLabel[label] = code
		options = append(options, label)
	}
	sort.Strings(options)
	sd.languageSelect = widget.NewSelect(options, nil)

	form := container.NewVBox(
		widget.NewLabel(t(KeyDownloadDirectory)+":"),
		downloadDirRow,

		widget.NewLabel(t(KeyMaxParallel)+":"),
		sd.maxParallelEntry,

		sd.openOnCompleteCheck,

		widget.NewSeparator(),

		widget.NewLabel(t(KeyLanguage)+":"),
		sd.languageSelect,
	)

	sd.dialog = dialog.NewCustomConfirm(
		t(KeySettings),
		t(KeySave),
		t(KeyCancel),
		form,
		sd.onSave,
		sd.window,
	)

	sd.dialog.Resize(fyne.NewSize(SettingsDialogWidth, SettingsDialogHeight))
}

// loadCurrentSettings loads current settings into the UI
func (sd *SettingsDialog) loadCurrentSettings() {
	sd.downloadDirEntry.SetText(sd.settings.GetDownloadDirectory())
	sd.maxParallelEntry.SetText(strconv.Itoa(sd.settings.GetMaxParallelDownloads()))
	sd.openOnCompleteCheck.SetChecked(sd.settings.GetOpenOnComplete())

	current := sd.settings.GetLanguage()
	for label, code := range sd.languageCodesByLabel {
		if code == current {
			sd.languageSelect.SetSelected(label)
			break
		}
	}
}

// onBrowseDirectory handles directory browsing
func (sd *SettingsDialog) onBrowseDirectory() {
	dialog.ShowFolderOpen(func(uri fyne.ListableURI, err error) {
		if err != nil || uri == nil {
			return
		}
		sd.downloadDirEntry.SetText(uri.Path())
	}, sd.window)
}

// onSave handles saving the settings
func (sd *SettingsDialog) onSave(confirmed bool) {
	if !confirmed {
		return
	}
	sd.apply()

	if sd.onSaved != nil {
		sd.onSaved()
	}
	dialog.ShowInformation(sd.localization.GetText(KeySettings), sd.localization.GetText(KeySettingsSaved), sd.window)
}

// apply writes the form values to settings. Invalid numbers are skipped.
func (sd *SettingsDialog) apply() {
	if dir := sd.downloadDirEntry.Text; dir != "" {
		sd.settings.SetDownloadDirectory(dir)
	}

	if text := sd.maxParallelEntry.Text; text != "" {
		if maxParallel, err := strconv.Atoi(text); err == nil {
			sd.settings.SetMaxParallelDownloads(maxParallel)
		}
	}

	sd.settings.SetOpenOnComplete(sd.openOnCompleteCheck.Checked)

	if code, ok := sd.languageCodesByLabel[sd.languageSelect.Selected]; ok {
		sd.settings.SetLanguage(code)
	}
}
