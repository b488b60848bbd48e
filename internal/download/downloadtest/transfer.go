// Package downloadtest provides an in-memory Transfer for tests.
package downloadtest

import (
	"sync"
	"time"

	"github.com/ytget/browser-shell/internal/download"
)

// Transfer is a scriptable download.Transfer. Every setter raises the matching
// notification synchronously.
type Transfer struct {
	download.TransferSignals

	mu            sync.Mutex
	url           string
	destination   string
	contentType   string
	contentLength int64
	received      int64
	elapsed       time.Duration
	cancelled     bool
	started       bool
}

var _ download.StartableTransfer = (*Transfer)(nil)

// NewTransfer creates a transfer for url with nothing received yet
func NewTransfer(url string) *Transfer {
	return &Transfer{url: url}
}

// URL returns the source URL
func (t *Transfer) URL() string { return t.url }

// Destination returns the destination URI
func (t *Transfer) Destination() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.destination
}

// ResponseContentType returns the response MIME type
func (t *Transfer) ResponseContentType() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.contentType
}

// EstimatedProgress returns received/contentLength, 0 when the length is unknown
func (t *Transfer) EstimatedProgress() float64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.contentLength <= 0 {
		return 0
	}
	return float64(t.received) / float64(t.contentLength)
}

// ContentLength returns the announced size
func (t *Transfer) ContentLength() int64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.contentLength
}

// ReceivedLength returns the bytes received so far
func (t *Transfer) ReceivedLength() int64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.received
}

// ElapsedTime returns the configured elapsed time
func (t *Transfer) ElapsedTime() time.Duration {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.elapsed
}

// Cancel records the request and fails with download.ErrCancelled
func (t *Transfer) Cancel() {
	t.mu.Lock()
	t.cancelled = true
	t.mu.Unlock()
	t.EmitFailed(download.ErrCancelled)
}

// Start records that the transfer was started
func (t *Transfer) Start() {
	t.mu.Lock()
	t.started = true
	t.mu.Unlock()
}

// Started reports whether Start was called
func (t *Transfer) Started() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.started
}

// Cancelled reports whether Cancel was called
func (t *Transfer) Cancelled() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.cancelled
}

// SetDestination sets the destination URI
func (t *Transfer) SetDestination(uri string) {
	t.mu.Lock()
	t.destination = uri
	t.mu.Unlock()
	t.EmitDestinationChanged()
}

// SetResponse sets the response headers
func (t *Transfer) SetResponse(contentType string, contentLength int64) {
	t.mu.Lock()
	t.contentType = contentType
	t.contentLength = contentLength
	t.mu.Unlock()
	t.EmitResponse()
}

// SetProgress sets the received length and elapsed time
func (t *Transfer) SetProgress(received int64, elapsed time.Duration) {
	t.mu.Lock()
	t.received = received
	t.elapsed = elapsed
	t.mu.Unlock()
	t.EmitProgress()
}

// Finish completes the transfer
func (t *Transfer) Finish() { t.EmitFinished() }

// Fail stops the transfer with err
func (t *Transfer) Fail(err error) { t.EmitFailed(err) }
