package ui

import (
	"image/color"
	"path/filepath"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
	"go.uber.org/zap"

	"github.com/ytget/browser-shell/internal/download"
	"github.com/ytget/browser-shell/internal/logging"
	"github.com/ytget/browser-shell/internal/platform"
)

// Record is the download a DownloadWidget shows
type Record interface {
	ID() string
	Transfer() download.Transfer
	ContentType() string
	Err() error
	IsActive() bool
	Succeeded() bool
	Failed() bool
	Cancel()
	DoAction(action download.Action) error

	OnCompleted(fn func()) *download.Subscription
	OnFailed(fn func(error)) *download.Subscription
	OnContentTypeChanged(fn func()) *download.Subscription
}

// Remover drops a download record from its owner
type Remover interface {
	RemoveDownload(id string) error
}

var _ Record = (*download.Download)(nil)

// DownloadWidgetOption configures a DownloadWidget
type DownloadWidgetOption func(*DownloadWidget)

// WithSandboxed overrides sandbox detection. Sandboxed widgets open finished
// files instead of revealing them.
func WithSandboxed(sandboxed bool) DownloadWidgetOption {
	return func(w *DownloadWidget) { w.sandboxed = sandboxed }
}

// WithWidgetLogger sets the logger
func WithWidgetLogger(l *zap.Logger) DownloadWidgetOption {
	return func(w *DownloadWidget) { w.logger = logging.OrNop(l) }
}

// DownloadWidget shows the state of one download: file icon, name, progress,
// status line and an action button that cancels, removes or opens it.
type DownloadWidget struct {
	widget.BaseWidget

	record       Record
	transfer     download.Transfer
	remover      Remover
	localization *Localization
	sandboxed    bool
	logger       *zap.Logger

	// UI components
	icon          *widget.Icon
	filenameLabel *widget.Label
	statusLabel   *widget.Label
	progressBar   *widget.ProgressBar
	pulseBar      *widget.ProgressBarInfinite
	actionButton  *widget.Button

	iconNames      []string
	actionIconName string

	progressSub    *download.Subscription
	destinationSub *download.Subscription
	recordSubs     []*download.Subscription
}

// NewDownloadWidget creates a widget bound to record
func NewDownloadWidget(record Record, remover Remover, localization *Localization, opts ...DownloadWidgetOption) *DownloadWidget {
	w := &DownloadWidget{
		record:       record,
		transfer:     record.Transfer(),
		remover:      remover,
		localization: localization,
		sandboxed:    platform.IsSandboxed(),
		logger:       zap.NewNop(),
	}
	for _, opt := range opts {
		opt(w)
	}

	w.ExtendBaseWidget(w)
	w.createUI()
	w.updateFromRecord()
	w.subscribe()
	return w
}

// createUI creates the UI components
func (w *DownloadWidget) createUI() {
	w.icon = widget.NewIcon(nil)

	w.filenameLabel = widget.NewLabel("")
	w.filenameLabel.Truncation = fyne.TextTruncateEllipsis

	w.statusLabel = widget.NewLabel("")
	w.statusLabel.SizeName = theme.SizeNameCaptionText
	w.statusLabel.Truncation = fyne.TextTruncateEllipsis

	w.progressBar = widget.NewProgressBar()
	w.progressBar.TextFormatter = func() string { return "" }
	w.pulseBar = widget.NewProgressBarInfinite()
	w.pulseBar.Hide()

	w.actionButton = widget.NewButtonWithIcon("", nil, w.onActionClicked)
	w.actionButton.Importance = widget.LowImportance
}

// updateFromRecord renders the state the record is in right now
func (w *DownloadWidget) updateFromRecord() {
	w.updateIcon()
	w.updateFilename()

	switch {
	case w.record.Failed():
		w.setStatus(w.errorText(w.record.Err()))
	case w.record.Succeeded():
		w.setStatus(w.localization.GetText(KeyFinished))
	default:
		w.setStatus(w.localization.GetText(KeyStarting))
	}

	if w.record.IsActive() {
		w.progressBar.Show()
	} else {
		w.hideProgress()
	}

	switch {
	case w.record.Succeeded():
		w.setActionIcon(IconNameOpenFolder)
	case w.record.Failed():
		w.setActionIcon(IconNameRemove)
	default:
		w.setActionIcon(IconNameClose)
	}
}

func (w *DownloadWidget) subscribe() {
	w.progressSub = w.transfer.OnProgress(w.onProgress)
	w.destinationSub = w.transfer.OnDestinationChanged(w.updateFilename)
	w.recordSubs = []*download.Subscription{
		w.record.OnCompleted(w.onCompleted),
		w.record.OnFailed(w.onFailed),
		w.record.OnContentTypeChanged(w.updateIcon),
	}
}

func (w *DownloadWidget) unsubscribeAll() {
	w.progressSub.Unsubscribe()
	w.destinationSub.Unsubscribe()
	for _, sub := range w.recordSubs {
		sub.Unsubscribe()
	}
	w.recordSubs = nil
}

func (w *DownloadWidget) onProgress() {
	if w.transfer.Destination() == "" {
		return
	}

	contentLength := w.transfer.ContentLength()
	received := w.transfer.ReceivedLength()

	switch {
	case contentLength > 0 && received > 0:
		remaining, _ := RemainingTime(contentLength, received, w.transfer.ElapsedTime())
		w.setStatus(ProgressText(w.localization, received, contentLength, remaining))

		fraction := float64(received) / float64(contentLength)
		if fraction > 1 {
			fraction = 1
		}
		w.pulseBar.Hide()
		w.progressBar.Show()
		w.progressBar.SetValue(fraction)
	case received > 0:
		w.setStatus(FormatSize(w.localization, received))
		w.progressBar.Hide()
		w.pulseBar.Show()
	}
}

func (w *DownloadWidget) onCompleted() {
	w.hideProgress()
	w.setStatus(w.localization.GetText(KeyFinished))
	w.setActionIcon(IconNameOpenFolder)
}

func (w *DownloadWidget) onFailed(err error) {
	w.progressSub.Unsubscribe()

	w.hideProgress()
	w.setStatus(w.errorText(err))
	w.setActionIcon(IconNameRemove)
}

func (w *DownloadWidget) onActionClicked() {
	if w.record == nil {
		return
	}

	switch {
	case w.record.IsActive():
		w.unsubscribeAll()
		w.setStatus(w.localization.GetText(KeyCancelling))
		w.actionButton.Disable()
		w.record.Cancel()
	case w.record.Failed():
		if err := w.remover.RemoveDownload(w.record.ID()); err != nil {
			w.logger.Warn("failed to remove download", zap.String("id", w.record.ID()), zap.Error(err))
		}
	default:
		action := download.ActionBrowseTo
		if w.sandboxed {
			action = download.ActionOpen
		}
		if err := w.record.DoAction(action); err != nil {
			w.logger.Warn("download action failed", zap.String("id", w.record.ID()),
				zap.Stringer("action", action), zap.Error(err))
		}
	}
}

// Dispose detaches the widget from its download. The widget shows its last
// state and ignores clicks afterwards.
func (w *DownloadWidget) Dispose() {
	if w.record == nil {
		return
	}
	w.unsubscribeAll()
	w.record = nil
}

func (w *DownloadWidget) updateIcon() {
	w.iconNames = platform.ContentTypeIconNames(w.record.ContentType())
	w.icon.SetResource(ResourceForIconNames(w.iconNames))
}

func (w *DownloadWidget) updateFilename() {
	w.filenameLabel.SetText(destinationBasename(w.transfer.Destination()))
}

func (w *DownloadWidget) setStatus(text string) {
	w.statusLabel.SetText(text)
}

func (w *DownloadWidget) setActionIcon(name string) {
	w.actionIconName = name
	w.actionButton.SetIcon(ResourceForIconName(name))
}

func (w *DownloadWidget) hideProgress() {
	w.progressBar.Hide()
	w.pulseBar.Hide()
}

func (w *DownloadWidget) errorText(err error) string {
	message := ""
	if err != nil {
		message = err.Error()
	}
	return w.localization.Format(KeyErrorDownloading, map[string]any{"Message": message})
}

func destinationBasename(uri string) string {
	path := platform.PathFromURI(uri)
	if path == "" {
		return ""
	}
	return filepath.Base(path)
}

// Record returns the bound download, nil after Dispose
func (w *DownloadWidget) Record() Record { return w.record }

// StatusText returns the status line
func (w *DownloadWidget) StatusText() string { return w.statusLabel.Text }

// Filename returns the displayed file name
func (w *DownloadWidget) Filename() string { return w.filenameLabel.Text }

// IconNames returns the icon fallback chain for the content type
func (w *DownloadWidget) IconNames() []string { return w.iconNames }

// ActionIconName returns the name of the action button icon
func (w *DownloadWidget) ActionIconName() string { return w.actionIconName }

// ActionEnabled reports whether the action button accepts clicks
func (w *DownloadWidget) ActionEnabled() bool { return !w.actionButton.Disabled() }

// ProgressVisible reports whether the determinate progress bar is shown
func (w *DownloadWidget) ProgressVisible() bool { return w.progressBar.Visible() }

// ProgressFraction returns the determinate progress, 0..1
func (w *DownloadWidget) ProgressFraction() float64 { return w.progressBar.Value }

// Pulsing reports whether the indeterminate progress bar is shown
func (w *DownloadWidget) Pulsing() bool { return w.pulseBar.Visible() }

// CreateRenderer creates the widget renderer
func (w *DownloadWidget) CreateRenderer() fyne.WidgetRenderer {
	return &downloadWidgetRenderer{downloadWidget: w}
}

// downloadWidgetRenderer renders the download widget
type downloadWidgetRenderer struct {
	downloadWidget *DownloadWidget
	layout         *fyne.Container
}

// Layout arranges the components
func (r *downloadWidgetRenderer) Layout(size fyne.Size) {
	if r.layout == nil {
		r.createLayout()
	}
	if size.Width < DownloadRowMinWidth {
		size.Width = DownloadRowMinWidth
	}
	r.layout.Resize(size)
}

// MinSize returns the minimum size
func (r *downloadWidgetRenderer) MinSize() fyne.Size {
	if r.layout == nil {
		r.createLayout()
	}
	minSize := r.layout.MinSize()
	if minSize.Width < DownloadRowMinWidth {
		minSize.Width = DownloadRowMinWidth
	}
	return minSize
}

// Refresh refreshes the renderer
func (r *downloadWidgetRenderer) Refresh() {
	if r.layout == nil {
		r.createLayout()
	}
	r.layout.Refresh()
}

// Objects returns the container objects
func (r *downloadWidgetRenderer) Objects() []fyne.CanvasObject {
	if r.layout == nil {
		r.createLayout()
	}
	return []fyne.CanvasObject{r.layout}
}

// Destroy cleans up the renderer
func (r *downloadWidgetRenderer) Destroy() {}

// createLayout builds icon | name, progress, status | action button
func (r *downloadWidgetRenderer) createLayout() {
	w := r.downloadWidget

	fixedWidth := func(width float32, obj fyne.CanvasObject) fyne.CanvasObject {
		spacer := canvas.NewRectangle(color.Transparent)
		spacer.SetMinSize(fyne.NewSize(width, obj.MinSize().Height))
		return container.NewStack(spacer, obj)
	}

	icon := fixedWidth(DownloadIconSize, w.icon)
	progress := container.NewStack(w.progressBar, w.pulseBar)
	details := container.NewVBox(
		w.filenameLabel,
		progress,
		fixedWidth(StatusLabelWidth, w.statusLabel),
	)

	r.layout = container.NewVBox(
		container.NewBorder(nil, nil, icon, container.NewCenter(w.actionButton), details),
		widget.NewSeparator(),
	)
}
