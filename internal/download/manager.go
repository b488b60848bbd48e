package download

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/ytget/browser-shell/internal/logging"
)

// StartableTransfer is a Transfer that waits for Start before moving data
type StartableTransfer interface {
	Transfer
	Start()
}

// TransferFactory creates a transfer of url into dir
type TransferFactory func(url, dir string) StartableTransfer

// Recorder persists downloads that reached a terminal state
type Recorder interface {
	Record(d *Download) error
}

// Manager owns the download records
type Manager struct {
	downloadDir  string
	maxParallel  int
	newTransfer  TransferFactory
	recorder     Recorder
	downloadOpts []Option
	logger       *zap.Logger

	mu        sync.RWMutex
	downloads []*Download
	subs      map[string][]*Subscription
	running   map[string]bool
	queue     []queued

	added   signal[*Download]
	removed signal[*Download]
}

type queued struct {
	download *Download
	transfer StartableTransfer
}

// ManagerOption configures a Manager
type ManagerOption func(*Manager)

// WithMaxParallel limits the number of running transfers. Zero means no limit.
func WithMaxParallel(n int) ManagerOption {
	return func(m *Manager) { m.maxParallel = n }
}

// WithRecorder sets the history recorder
func WithRecorder(r Recorder) ManagerOption {
	return func(m *Manager) { m.recorder = r }
}

// WithTransferFactory replaces the HTTP transfer factory
func WithTransferFactory(f TransferFactory) ManagerOption {
	return func(m *Manager) { m.newTransfer = f }
}

// WithTransferConfig configures the default HTTP transfers
func WithTransferConfig(config TransferConfig) ManagerOption {
	return func(m *Manager) {
		m.newTransfer = func(url, dir string) StartableTransfer {
			return NewHTTPTransfer(url, dir, config)
		}
	}
}

// WithDownloadOptions applies opts to every download the manager creates
func WithDownloadOptions(opts ...Option) ManagerOption {
	return func(m *Manager) { m.downloadOpts = append(m.downloadOpts, opts...) }
}

// WithManagerLogger sets the logger
func WithManagerLogger(l *zap.Logger) ManagerOption {
	return func(m *Manager) { m.logger = logging.OrNop(l) }
}

// NewManager creates a manager saving into downloadDir
func NewManager(downloadDir string, opts ...ManagerOption) *Manager {
	m := &Manager{
		downloadDir: downloadDir,
		logger:      zap.NewNop(),
		subs:        make(map[string][]*Subscription),
		running:     make(map[string]bool),
	}
	m.newTransfer = func(url, dir string) StartableTransfer {
		return NewHTTPTransfer(url, dir, TransferConfig{})
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// DownloadDir returns the directory new downloads are saved to
func (m *Manager) DownloadDir() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.downloadDir
}

// SetDownloadDir changes the directory for downloads added later
func (m *Manager) SetDownloadDir(dir string) {
	m.mu.Lock()
	m.downloadDir = dir
	m.mu.Unlock()
}

// SetMaxParallel changes the running transfer limit and starts queued
// downloads that now fit.
func (m *Manager) SetMaxParallel(n int) {
	m.mu.Lock()
	m.maxParallel = n
	m.mu.Unlock()
	m.startQueued()
}

// AddDownload starts downloading url. A URL that is still being downloaded
// is rejected.
func (m *Manager) AddDownload(url string) (*Download, error) {
	url = strings.TrimSpace(url)
	if url == "" {
		return nil, fmt.Errorf("download URL is empty")
	}

	m.mu.RLock()
	for _, d := range m.downloads {
		if d.URL() == url && !d.State().IsFinished() {
			m.mu.RUnlock()
			return nil, fmt.Errorf("%w: %s", ErrAlreadyActive, url)
		}
	}
	dir := m.downloadDir
	m.mu.RUnlock()

	transfer := m.newTransfer(url, dir)
	opts := append([]Option{WithLogger(m.logger)}, m.downloadOpts...)
	d := NewDownload(transfer, opts...)

	m.Track(d)

	m.mu.Lock()
	m.queue = append(m.queue, queued{download: d, transfer: transfer})
	m.mu.Unlock()
	m.startQueued()

	return d, nil
}

// Track adds a download created elsewhere. Its transfer is assumed to be
// running already.
func (m *Manager) Track(d *Download) {
	m.mu.Lock()
	m.downloads = append(m.downloads, d)
	m.subs[d.ID()] = []*Subscription{
		d.OnCompleted(func() { m.onCompleted(d) }),
		d.OnFailed(func(err error) { m.onFailed(d, err) }),
	}
	m.mu.Unlock()

	m.logger.Info("download added", zap.String("id", d.ID()), zap.String("url", d.URL()))
	m.added.emit(d)
}

// GetDownload returns a download by ID
func (m *Manager) GetDownload(id string) (*Download, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, d := range m.downloads {
		if d.ID() == id {
			return d, true
		}
	}
	return nil, false
}

// Downloads returns all downloads in the order they were added
func (m *Manager) Downloads() []*Download {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*Download, len(m.downloads))
	copy(out, m.downloads)
	return out
}

// RemoveDownload forgets a download, cancelling it first if it is running
func (m *Manager) RemoveDownload(id string) error {
	m.mu.Lock()
	index := -1
	for i, d := range m.downloads {
		if d.ID() == id {
			index = i
			break
		}
	}
	if index < 0 {
		m.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}

	d := m.downloads[index]
	m.downloads = append(m.downloads[:index:index], m.downloads[index+1:]...)
	subs := m.subs[id]
	delete(m.subs, id)
	m.dequeueLocked(id)
	m.mu.Unlock()

	for _, sub := range subs {
		sub.Unsubscribe()
	}
	if d.IsActive() {
		d.Cancel()
	}

	m.logger.Info("download removed", zap.String("id", id))
	m.removed.emit(d)
	d.Close()

	m.release(id)
	return nil
}

// OnDownloadAdded subscribes to new downloads
func (m *Manager) OnDownloadAdded(fn func(*Download)) *Subscription {
	return m.added.connect(fn)
}

// OnDownloadRemoved subscribes to removed downloads
func (m *Manager) OnDownloadRemoved(fn func(*Download)) *Subscription {
	return m.removed.connect(fn)
}

// Close cancels every active download
func (m *Manager) Close() {
	m.mu.Lock()
	m.queue = nil
	m.mu.Unlock()

	for _, d := range m.Downloads() {
		if d.IsActive() {
			d.Cancel()
		}
	}
}

func (m *Manager) onCompleted(d *Download) {
	m.record(d)
	m.release(d.ID())
}

func (m *Manager) onFailed(d *Download, err error) {
	m.record(d)
	m.release(d.ID())

	if errors.Is(err, ErrCancelled) {
		if removeErr := m.RemoveDownload(d.ID()); removeErr != nil && !errors.Is(removeErr, ErrNotFound) {
			m.logger.Warn("failed to remove cancelled download", zap.String("id", d.ID()), zap.Error(removeErr))
		}
	}
}

func (m *Manager) record(d *Download) {
	if m.recorder == nil {
		return
	}
	if err := m.recorder.Record(d); err != nil {
		m.logger.Warn("failed to record download history", zap.String("id", d.ID()), zap.Error(err))
	}
}

// release frees the slot of a stopped transfer and starts queued ones
func (m *Manager) release(id string) {
	m.mu.Lock()
	delete(m.running, id)
	m.dequeueLocked(id)
	m.mu.Unlock()

	m.startQueued()
}

func (m *Manager) dequeueLocked(id string) {
	for i, q := range m.queue {
		if q.download.ID() == id {
			m.queue = append(m.queue[:i:i], m.queue[i+1:]...)
			return
		}
	}
}

func (m *Manager) startQueued() {
	var start []StartableTransfer

	m.mu.Lock()
	for len(m.queue) > 0 && (m.maxParallel <= 0 || len(m.running) < m.maxParallel) {
		next := m.queue[0]
		m.queue = m.queue[1:]
		m.running[next.download.ID()] = true
		start = append(start, next.transfer)
	}
	m.mu.Unlock()

	for _, transfer := range start {
		transfer.Start()
	}
}
