package ui

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
	"go.uber.org/zap"

	"github.com/ytget/browser-shell/internal/download"
	"github.com/ytget/browser-shell/internal/logging"
)

// DownloadSource is the part of the download manager the list watches
type DownloadSource interface {
	Remover
	Downloads() []*download.Download
	OnDownloadAdded(fn func(*download.Download)) *download.Subscription
	OnDownloadRemoved(fn func(*download.Download)) *download.Subscription
}

// DownloadsList shows one DownloadWidget per download, newest on top
type DownloadsList struct {
	source       DownloadSource
	localization *Localization
	widgetOpts   []DownloadWidgetOption
	logger       *zap.Logger

	widgets map[string]*DownloadWidget
	order   []string

	rows       *fyne.Container
	emptyLabel *widget.Label
	scroll     *container.Scroll
	content    *fyne.Container

	subs []*download.Subscription
}

// NewDownloadsList builds the list from the current downloads of source and
// follows additions and removals until Dispose.
func NewDownloadsList(source DownloadSource, localization *Localization, logger *zap.Logger, opts ...DownloadWidgetOption) *DownloadsList {
	l := &DownloadsList{
		source:       source,
		localization: localization,
		widgetOpts:   opts,
		logger:       logging.OrNop(logger),
		widgets:      make(map[string]*DownloadWidget),
	}

	l.rows = container.NewVBox()
	l.emptyLabel = widget.NewLabel(localization.GetText(KeyNoDownloads))
	l.emptyLabel.Alignment = fyne.TextAlignCenter
	l.scroll = container.NewVScroll(l.rows)
	l.content = container.NewStack(l.scroll, container.NewCenter(l.emptyLabel))

	for _, d := range source.Downloads() {
		l.Add(d)
	}
	l.subs = append(l.subs,
		source.OnDownloadAdded(l.Add),
		source.OnDownloadRemoved(l.Remove),
	)
	l.updateEmptyState()
	return l
}

// Container returns the canvas object to place in a window
func (l *DownloadsList) Container() fyne.CanvasObject {
	return l.content
}

// Add creates a widget for d unless one already exists
func (l *DownloadsList) Add(d *download.Download) {
	if _, ok := l.widgets[d.ID()]; ok {
		return
	}

	opts := append([]DownloadWidgetOption{WithWidgetLogger(l.logger)}, l.widgetOpts...)
	w := NewDownloadWidget(d, l.source, l.localization, opts...)
	l.widgets[d.ID()] = w
	l.order = append([]string{d.ID()}, l.order...)

	l.rows.Objects = append([]fyne.CanvasObject{w}, l.rows.Objects...)
	l.rows.Refresh()
	l.updateEmptyState()
}

// Remove drops the widget of d and disposes it
func (l *DownloadsList) Remove(d *download.Download) {
	w, ok := l.widgets[d.ID()]
	if !ok {
		return
	}
	delete(l.widgets, d.ID())
	for i, id := range l.order {
		if id == d.ID() {
			l.order = append(l.order[:i:i], l.order[i+1:]...)
			break
		}
	}

	l.rows.Remove(w)
	w.Dispose()
	l.updateEmptyState()
}

// Len returns the number of shown downloads
func (l *DownloadsList) Len() int {
	return len(l.order)
}

// Widgets returns the widgets in display order
func (l *DownloadsList) Widgets() []*DownloadWidget {
	out := make([]*DownloadWidget, 0, len(l.order))
	for _, id := range l.order {
		out = append(out, l.widgets[id])
	}
	return out
}

// RefreshTexts re-reads localized strings after a language change
func (l *DownloadsList) RefreshTexts() {
	l.emptyLabel.SetText(l.localization.GetText(KeyNoDownloads))
}

// Dispose stops following the source and disposes every widget
func (l *DownloadsList) Dispose() {
	for _, sub := range l.subs {
		sub.Unsubscribe()
	}
	l.subs = nil
	for _, w := range l.widgets {
		w.Dispose()
	}
}

func (l *DownloadsList) updateEmptyState() {
	if len(l.order) == 0 {
		l.emptyLabel.Show()
	} else {
		l.emptyLabel.Hide()
	}
}
