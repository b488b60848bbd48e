package download

import (
	"fmt"
	"sync"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ytget/browser-shell/internal/logging"
	"github.com/ytget/browser-shell/internal/model"
	"github.com/ytget/browser-shell/internal/platform"
)

// IDPrefix starts every download ID
const IDPrefix = "download-"

// OctetStream is the type servers send when they do not know better
const OctetStream = "application/octet-stream"

// Download wraps one Transfer with the metadata the browser shows: content
// type, lifecycle state and failure reason.
type Download struct {
	id       string
	transfer Transfer
	launcher platform.Launcher
	logger   *zap.Logger

	mu          sync.RWMutex
	state       model.DownloadState
	contentType string
	err         error
	startedAt   time.Time
	finishedAt  time.Time

	completed          signal[struct{}]
	failed             signal[error]
	contentTypeChanged signal[struct{}]

	transferSubs []*Subscription
}

// Option configures a Download
type Option func(*Download)

// WithLauncher sets the launcher used by DoAction
func WithLauncher(l platform.Launcher) Option {
	return func(d *Download) { d.launcher = l }
}

// WithLogger sets the logger
func WithLogger(l *zap.Logger) Option {
	return func(d *Download) { d.logger = logging.OrNop(l) }
}

// WithID overrides the generated ID
func WithID(id string) Option {
	return func(d *Download) { d.id = id }
}

// NewDownload wraps transfer and starts listening to it
func NewDownload(transfer Transfer, opts ...Option) *Download {
	d := &Download{
		id:          IDPrefix + uuid.New().String(),
		transfer:    transfer,
		launcher:    platform.SystemLauncher{},
		logger:      zap.NewNop(),
		state:       model.DownloadStateStarting,
		contentType: transfer.ResponseContentType(),
		startedAt:   time.Now(),
	}
	for _, opt := range opts {
		opt(d)
	}

	d.transferSubs = []*Subscription{
		transfer.OnResponse(d.onResponse),
		transfer.OnProgress(d.onProgress),
		transfer.OnFinished(d.onFinished),
		transfer.OnFailed(d.onFailed),
	}
	return d
}

// ID returns the download ID
func (d *Download) ID() string { return d.id }

// Transfer returns the underlying transfer
func (d *Download) Transfer() Transfer { return d.transfer }

// URL returns the source URL
func (d *Download) URL() string { return d.transfer.URL() }

// State returns the lifecycle state
func (d *Download) State() model.DownloadState {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.state
}

// ContentType returns the MIME type, empty when unknown
func (d *Download) ContentType() string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.contentType
}

// SetContentType updates the MIME type and notifies subscribers on change
func (d *Download) SetContentType(contentType string) {
	d.mu.Lock()
	if d.contentType == contentType {
		d.mu.Unlock()
		return
	}
	d.contentType = contentType
	d.mu.Unlock()

	d.contentTypeChanged.emit(struct{}{})
}

// IsActive reports whether the transfer is still running
func (d *Download) IsActive() bool { return d.State().IsActive() }

// Succeeded reports whether the download finished successfully
func (d *Download) Succeeded() bool { return d.State() == model.DownloadStateFinished }

// Failed reports whether the download stopped with an error
func (d *Download) Failed() bool { return d.State() == model.DownloadStateFailed }

// Err returns the failure reason, nil unless Failed
func (d *Download) Err() error {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.err
}

// StartedAt returns when the download was created
func (d *Download) StartedAt() time.Time {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.startedAt
}

// FinishedAt returns when the download reached a terminal state
func (d *Download) FinishedAt() time.Time {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.finishedAt
}

// DestinationPath returns the local file path, empty until known
func (d *Download) DestinationPath() string {
	return platform.PathFromURI(d.transfer.Destination())
}

// Cancel asks the transfer to stop. The transfer reports ErrCancelled through
// OnFailed once it has stopped.
func (d *Download) Cancel() {
	d.mu.Lock()
	if !d.state.IsActive() {
		d.mu.Unlock()
		return
	}
	d.state = model.DownloadStateCancelling
	d.mu.Unlock()

	d.logger.Debug("cancelling download", zap.String("id", d.id))
	d.transfer.Cancel()
}

// DoAction runs the post-download action on the destination file
func (d *Download) DoAction(action Action) error {
	path := d.DestinationPath()
	if path == "" {
		return fmt.Errorf("download %s has no destination yet", d.id)
	}

	d.logger.Debug("running download action", zap.String("id", d.id), zap.Stringer("action", action))

	switch action {
	case ActionOpen:
		return d.launcher.Open(path)
	case ActionBrowseTo:
		return d.launcher.Reveal(path)
	default:
		return nil
	}
}

// OnCompleted subscribes to successful completion
func (d *Download) OnCompleted(fn func()) *Subscription {
	return d.completed.connect(func(struct{}) { fn() })
}

// OnFailed subscribes to failure
func (d *Download) OnFailed(fn func(error)) *Subscription {
	return d.failed.connect(fn)
}

// OnContentTypeChanged subscribes to content type changes
func (d *Download) OnContentTypeChanged(fn func()) *Subscription {
	return d.contentTypeChanged.connect(func(struct{}) { fn() })
}

// Close stops listening to the transfer
func (d *Download) Close() {
	for _, sub := range d.transferSubs {
		sub.Unsubscribe()
	}
}

func (d *Download) onResponse() {
	if contentType := d.transfer.ResponseContentType(); contentType != "" {
		d.SetContentType(contentType)
	}
}

func (d *Download) onProgress() {
	d.mu.Lock()
	if d.state == model.DownloadStateStarting {
		d.state = model.DownloadStateActive
	}
	d.mu.Unlock()
}

func (d *Download) onFinished() {
	d.mu.Lock()
	if d.state.IsFinished() {
		d.mu.Unlock()
		return
	}
	d.state = model.DownloadStateFinished
	d.finishedAt = time.Now()
	contentType := d.contentType
	d.mu.Unlock()

	if contentType == "" || contentType == OctetStream {
		d.sniffContentType()
	}

	d.logger.Info("download finished", zap.String("id", d.id), zap.String("destination", d.DestinationPath()))
	d.completed.emit(struct{}{})
}

func (d *Download) onFailed(err error) {
	d.mu.Lock()
	if d.state.IsFinished() {
		d.mu.Unlock()
		return
	}
	d.state = model.DownloadStateFailed
	d.err = err
	d.finishedAt = time.Now()
	d.mu.Unlock()

	d.logger.Warn("download failed", zap.String("id", d.id), zap.Error(err))
	d.failed.emit(err)
}

func (d *Download) sniffContentType() {
	path := d.DestinationPath()
	if path == "" {
		return
	}
	mt, err := mimetype.DetectFile(path)
	if err != nil {
		d.logger.Debug("content type detection failed", zap.String("path", path), zap.Error(err))
		return
	}
	d.SetContentType(mt.String())
}
