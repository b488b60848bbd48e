package download

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"go.bug.st/downloader/v2"
	"go.uber.org/zap"

	"github.com/ytget/browser-shell/internal/logging"
	"github.com/ytget/browser-shell/internal/platform"
)

// Transfer defaults
const (
	DefaultPollInterval = 250 * time.Millisecond
	DefaultFilename     = "download"
)

// TransferConfig configures HTTP transfers
type TransferConfig struct {
	HTTPClient   *http.Client
	PollInterval time.Duration
	// Dispatch runs a notification on the goroutine that owns the UI. Nil
	// runs it on the transfer goroutine.
	Dispatch func(func())
	Logger   *zap.Logger
}

func (c TransferConfig) withDefaults() TransferConfig {
	if c.HTTPClient == nil {
		c.HTTPClient = http.DefaultClient
	}
	if c.PollInterval <= 0 {
		c.PollInterval = DefaultPollInterval
	}
	if c.Dispatch == nil {
		c.Dispatch = func(fn func()) { fn() }
	}
	c.Logger = logging.OrNop(c.Logger)
	return c
}

// HTTPTransfer downloads one URL into a directory
type HTTPTransfer struct {
	TransferSignals

	url    string
	dir    string
	config TransferConfig

	ctx    context.Context
	cancel context.CancelFunc
	once   sync.Once

	mu            sync.RWMutex
	destination   string
	contentType   string
	contentLength int64
	received      int64
	startedAt     time.Time
	stoppedAt     time.Time
}

var _ Transfer = (*HTTPTransfer)(nil)

// NewHTTPTransfer creates a transfer of rawURL into dir. Call Start to begin.
func NewHTTPTransfer(rawURL, dir string, config TransferConfig) *HTTPTransfer {
	ctx, cancel := context.WithCancel(context.Background())
	return &HTTPTransfer{
		url:    rawURL,
		dir:    dir,
		config: config.withDefaults(),
		ctx:    ctx,
		cancel: cancel,
	}
}

// Start begins the transfer in the background. Later calls are ignored.
func (t *HTTPTransfer) Start() {
	t.once.Do(func() {
		t.mu.Lock()
		t.startedAt = time.Now()
		t.mu.Unlock()
		go t.run()
	})
}

// URL returns the source URL
func (t *HTTPTransfer) URL() string { return t.url }

// Destination returns the file URI being written
func (t *HTTPTransfer) Destination() string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.destination
}

// ResponseContentType returns the Content-Type of the response
func (t *HTTPTransfer) ResponseContentType() string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.contentType
}

// EstimatedProgress returns the completed fraction, 0 when the size is unknown
func (t *HTTPTransfer) EstimatedProgress() float64 {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if t.contentLength <= 0 {
		return 0
	}
	return float64(t.received) / float64(t.contentLength)
}

// ContentLength returns the announced size, 0 when unknown
func (t *HTTPTransfer) ContentLength() int64 {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.contentLength
}

// ReceivedLength returns the bytes written so far
func (t *HTTPTransfer) ReceivedLength() int64 {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.received
}

// ElapsedTime returns the time since Start, frozen once the transfer stops
func (t *HTTPTransfer) ElapsedTime() time.Duration {
	t.mu.RLock()
	defer t.mu.RUnlock()
	switch {
	case t.startedAt.IsZero():
		return 0
	case !t.stoppedAt.IsZero():
		return t.stoppedAt.Sub(t.startedAt)
	default:
		return time.Since(t.startedAt)
	}
}

// Cancel aborts the transfer. It fails with ErrCancelled, even when it was
// never started.
func (t *HTTPTransfer) Cancel() {
	t.cancel()
	t.Start()
}

func (t *HTTPTransfer) run() {
	defer t.cancel()

	logger := t.config.Logger.With(zap.String("url", t.url))

	if err := platform.CreateDirectoryIfNotExists(t.dir); err != nil {
		t.fail(fmt.Errorf("failed to create download directory: %w", err))
		return
	}
	target := uniquePath(t.dir, FilenameFromURL(t.url))

	logger.Debug("starting transfer", zap.String("target", target))

	d, err := downloader.DownloadWithConfigAndContext(t.ctx, target, t.url, downloader.Config{
		HttpClient: *t.config.HTTPClient,
	}, downloader.NoResume)
	if err != nil {
		t.fail(t.stopReason(err))
		return
	}

	if d.Resp.StatusCode < 200 || d.Resp.StatusCode > 299 {
		_ = d.Close()
		_ = os.Remove(target)
		t.fail(fmt.Errorf("server returned %s", d.Resp.Status))
		return
	}

	// Size() reports the HEAD response, which may be an error page
	size := d.Resp.ContentLength
	if size < 0 {
		size = 0
	}
	t.mu.Lock()
	t.contentType = d.Resp.Header.Get("Content-Type")
	t.contentLength = size
	t.destination = platform.FileURI(target)
	t.mu.Unlock()

	t.config.Dispatch(t.EmitResponse)
	t.config.Dispatch(t.EmitDestinationChanged)

	err = d.RunAndPoll(func(current int64) {
		t.mu.Lock()
		changed := current != t.received
		t.received = current
		t.mu.Unlock()
		if changed {
			t.config.Dispatch(t.EmitProgress)
		}
	}, t.config.PollInterval)

	if err != nil || t.ctx.Err() != nil {
		reason := t.stopReason(err)
		if errors.Is(reason, ErrCancelled) {
			_ = os.Remove(target)
		}
		logger.Debug("transfer stopped", zap.Error(reason))
		t.fail(reason)
		return
	}

	t.stop()
	logger.Debug("transfer finished", zap.Int64("bytes", t.ReceivedLength()))
	t.config.Dispatch(t.EmitFinished)
}

func (t *HTTPTransfer) stopReason(err error) error {
	if t.ctx.Err() != nil {
		return ErrCancelled
	}
	return err
}

func (t *HTTPTransfer) stop() {
	t.mu.Lock()
	t.stoppedAt = time.Now()
	t.mu.Unlock()
}

func (t *HTTPTransfer) fail(err error) {
	t.stop()
	t.config.Dispatch(func() { t.EmitFailed(err) })
}

// FilenameFromURL returns the last path segment of rawURL, or DefaultFilename
func FilenameFromURL(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return DefaultFilename
	}
	name := path.Base(u.Path)
	if name == "" || name == "." || name == "/" || name == ".." {
		return DefaultFilename
	}
	return filepath.Base(name)
}

// uniquePath returns dir/name, adding " (N)" before the extension while the
// file already exists.
func uniquePath(dir, name string) string {
	candidate := filepath.Join(dir, name)
	ext := filepath.Ext(name)
	stem := strings.TrimSuffix(name, ext)
	for i := 1; ; i++ {
		if _, err := os.Stat(candidate); os.IsNotExist(err) {
			return candidate
		}
		candidate = filepath.Join(dir, fmt.Sprintf("%s (%d)%s", stem, i, ext))
	}
}
