package ui

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"sync"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
	"go.uber.org/zap"

	"github.com/ytget/browser-shell/internal/config"
	"github.com/ytget/browser-shell/internal/download"
	"github.com/ytget/browser-shell/internal/logging"
)

// DownloadManager is what the main window needs from the download manager
type DownloadManager interface {
	DownloadSource
	AddDownload(url string) (*download.Download, error)
	SetDownloadDir(dir string)
	SetMaxParallel(n int)
}

var _ DownloadManager = (*download.Manager)(nil)

// RootUI represents the main UI structure
type RootUI struct {
	window       fyne.Window
	settings     *config.Settings
	manager      DownloadManager
	localization *Localization
	logger       *zap.Logger

	urlEntry    *widget.Entry
	downloadBtn *widget.Button
	list        *DownloadsList

	// Notification panel
	notificationContainer *fyne.Container
	notificationLabel     *widget.Label
	notificationMu        sync.Mutex
	notificationTimer     *time.Timer

	completionSubs map[string]*download.Subscription
	managerSubs    []*download.Subscription
}

// NewRootUI creates the main window content and starts following manager
func NewRootUI(window fyne.Window, settings *config.Settings, manager DownloadManager, logger *zap.Logger) *RootUI {
	localization := NewLocalization()
	localization.SetLanguage(settings.GetLanguage())

	ui := &RootUI{
		window:         window,
		settings:       settings,
		manager:        manager,
		localization:   localization,
		logger:         logging.OrNop(logger),
		completionSubs: make(map[string]*download.Subscription),
	}

	window.SetTitle(localization.GetText(KeyAppTitle))

	for _, d := range manager.Downloads() {
		ui.watchCompletion(d)
	}
	ui.managerSubs = append(ui.managerSubs,
		manager.OnDownloadAdded(ui.watchCompletion),
		manager.OnDownloadRemoved(ui.forgetCompletion),
	)

	ui.setupUI()
	return ui
}

// setupUI creates and arranges all UI components
func (ui *RootUI) setupUI() {
	ui.createMenu()

	ui.urlEntry = widget.NewEntry()
	ui.urlEntry.SetPlaceHolder(ui.localization.GetText(KeyEnterURL))
	ui.urlEntry.Validator = validateURL
	ui.urlEntry.OnSubmitted = func(string) {
		ui.onDownloadClick()
	}

	ui.downloadBtn = widget.NewButton(ui.localization.GetText(KeyDownload), ui.onDownloadClick)

	settingsBtn := widget.NewButton(IconSettings, ui.onShowSettings)
	settingsBtn.Importance = widget.LowImportance

	left := container.NewHBox(settingsBtn)
	if logo, err := LoadLogoResource(); err == nil {
		logoImage := canvas.NewImageFromResource(logo)
		logoImage.SetMinSize(fyne.NewSize(DownloadIconSize, DownloadIconSize))
		logoImage.FillMode = canvas.ImageFillContain
		left = container.NewHBox(logoImage, settingsBtn)
	} else {
		ui.logger.Debug("logo not available", zap.Error(err))
	}
	topPanel := container.NewBorder(nil, nil, left, ui.downloadBtn, ui.urlEntry)

	// Notification panel under URL input (hidden by default)
	ui.notificationLabel = widget.NewLabel("")
	ui.notificationLabel.Alignment = fyne.TextAlignLeading
	ui.notificationLabel.Truncation = fyne.TextTruncateEllipsis
	ui.notificationContainer = container.NewPadded(ui.notificationLabel)
	ui.notificationContainer.Hide()

	top := container.NewVBox(topPanel, ui.notificationContainer)

	ui.list = NewDownloadsList(ui.manager, ui.localization, ui.logger)

	ui.window.SetContent(container.NewBorder(top, nil, nil, nil, ui.list.Container()))
}

// createMenu creates the main menu
func (ui *RootUI) createMenu() {
	settingsItem := fyne.NewMenuItem(ui.localization.GetText(KeySettings), ui.onShowSettings)

	languageMenu := fyne.NewMenu(ui.localization.GetText(KeyLanguage))
	for code, name := range ui.localization.GetAvailableLanguages() {
		langCode := code
		langItem := fyne.NewMenuItem(name, func() {
			ui.onLanguageChange(langCode)
		})
		langItem.Checked = ui.localization.GetCurrentLanguage() == code
		languageMenu.Items = append(languageMenu.Items, langItem)
	}

	ui.window.SetMainMenu(fyne.NewMainMenu(
		fyne.NewMenu(ui.localization.GetText(KeyFile), settingsItem),
		languageMenu,
	))
}

// onLanguageChange switches the language and stores it
func (ui *RootUI) onLanguageChange(langCode string) {
	ui.localization.SetLanguage(langCode)
	ui.settings.SetLanguage(langCode)
	ui.refreshUITexts()
	ui.createMenu()
}

// refreshUITexts updates all UI texts with current language
func (ui *RootUI) refreshUITexts() {
	ui.window.SetTitle(ui.localization.GetText(KeyAppTitle))
	ui.urlEntry.SetPlaceHolder(ui.localization.GetText(KeyEnterURL))
	ui.downloadBtn.SetText(ui.localization.GetText(KeyDownload))
	ui.list.RefreshTexts()
}

// validateURL accepts empty input and absolute http(s) URLs
func validateURL(input string) error {
	if strings.TrimSpace(input) == "" {
		return nil
	}

	parsedURL, err := url.Parse(strings.TrimSpace(input))
	if err != nil {
		return err
	}
	if parsedURL.Scheme != SchemeHTTP && parsedURL.Scheme != SchemeHTTPS {
		return fmt.Errorf("URL must start with http:// or https://")
	}
	if parsedURL.Host == "" {
		return fmt.Errorf("URL has no host")
	}
	return nil
}

// onDownloadClick handles the download button click
func (ui *RootUI) onDownloadClick() {
	urlText := strings.TrimSpace(ui.urlEntry.Text)
	if urlText == "" {
		ui.showNotification(ui.localization.GetText(KeyPleaseEnterURL))
		return
	}
	if err := validateURL(urlText); err != nil {
		ui.showNotification(ui.localization.GetText(KeyInvalidURL) + ": " + err.Error())
		return
	}

	d, err := ui.manager.AddDownload(urlText)
	switch {
	case errors.Is(err, download.ErrAlreadyActive):
		ui.showNotification(ui.localization.GetText(KeyAlreadyInProgress))
		return
	case err != nil:
		ui.logger.Warn("failed to add download", zap.String("url", urlText), zap.Error(err))
		ui.showNotification(ui.localization.Format(KeyErrorDownloading, map[string]any{"Message": err.Error()}))
		return
	}

	ui.logger.Info("download requested", zap.String("id", d.ID()), zap.String("url", urlText))
	ui.urlEntry.SetText("")
	ui.hideNotification()
}

// showNotification displays a message in the notification panel under the
// URL input and hides it after NotificationAutoHide.
func (ui *RootUI) showNotification(message string) {
	ui.notificationLabel.SetText(message)
	ui.notificationContainer.Show()

	ui.notificationMu.Lock()
	defer ui.notificationMu.Unlock()
	if ui.notificationTimer != nil {
		ui.notificationTimer.Stop()
	}
	ui.notificationTimer = time.AfterFunc(NotificationAutoHide, func() {
		fyne.Do(ui.hideNotification)
	})
}

// hideNotification hides the notification panel
func (ui *RootUI) hideNotification() {
	ui.notificationContainer.Hide()
}

// NotificationText returns the current notification, empty when hidden
func (ui *RootUI) NotificationText() string {
	if !ui.notificationContainer.Visible() {
		return ""
	}
	return ui.notificationLabel.Text
}

// onShowSettings shows the settings dialog
func (ui *RootUI) onShowSettings() {
	ShowSettingsDialog(ui.window, ui.settings, ui.localization, ui.applySettings)
}

// applySettings pushes stored settings into the running manager
func (ui *RootUI) applySettings() {
	ui.manager.SetDownloadDir(ui.settings.GetDownloadDirectory())
	ui.manager.SetMaxParallel(ui.settings.GetMaxParallelDownloads())

	if lang := ui.settings.GetLanguage(); lang != ui.localization.GetCurrentLanguage() {
		ui.localization.SetLanguage(lang)
		ui.refreshUITexts()
		ui.createMenu()
	}
}

func (ui *RootUI) watchCompletion(d *download.Download) {
	if _, ok := ui.completionSubs[d.ID()]; ok {
		return
	}
	ui.completionSubs[d.ID()] = d.OnCompleted(func() { ui.onDownloadCompleted(d) })
}

func (ui *RootUI) forgetCompletion(d *download.Download) {
	ui.completionSubs[d.ID()].Unsubscribe()
	delete(ui.completionSubs, d.ID())
}

// onDownloadCompleted sends a system notification and optionally opens the file
func (ui *RootUI) onDownloadCompleted(d *download.Download) {
	fyne.CurrentApp().SendNotification(&fyne.Notification{
		Title:   ui.localization.GetText(KeyDownloadComplete),
		Content: destinationBasename(d.Transfer().Destination()),
	})

	if !ui.settings.GetOpenOnComplete() {
		return
	}
	if err := d.DoAction(download.ActionOpen); err != nil {
		ui.logger.Warn("failed to open finished download", zap.String("id", d.ID()), zap.Error(err))
		ui.showNotification(ui.localization.GetText(KeyErrorOpeningFile) + ": " + err.Error())
	}
}

// Dispose detaches the window from the manager
func (ui *RootUI) Dispose() {
	for _, sub := range ui.managerSubs {
		sub.Unsubscribe()
	}
	for id, sub := range ui.completionSubs {
		sub.Unsubscribe()
		delete(ui.completionSubs, id)
	}
	ui.list.Dispose()

	ui.notificationMu.Lock()
	if ui.notificationTimer != nil {
		ui.notificationTimer.Stop()
	}
	ui.notificationMu.Unlock()
}
