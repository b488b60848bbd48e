package download

import (
	"errors"
	"time"
)

// ErrCancelled is reported by a transfer stopped through Cancel
var ErrCancelled = errors.New("download cancelled by user")

// ErrNotFound is returned for unknown download IDs
var ErrNotFound = errors.New("download not found")

// ErrAlreadyActive is returned when a URL is added while it is still downloading
var ErrAlreadyActive = errors.New("download already in progress")

// Transfer is one in-flight data transfer. All notifications are delivered
// on the goroutine chosen by the transfer's dispatcher.
type Transfer interface {
	URL() string
	// Destination is the file:// URI being written, empty until known.
	Destination() string
	ResponseContentType() string
	EstimatedProgress() float64
	// ContentLength is the announced response size, 0 when unknown.
	ContentLength() int64
	ReceivedLength() int64
	ElapsedTime() time.Duration
	Cancel()

	OnProgress(fn func()) *Subscription
	OnDestinationChanged(fn func()) *Subscription
	OnResponse(fn func()) *Subscription
	OnFinished(fn func()) *Subscription
	OnFailed(fn func(error)) *Subscription
}

// Action is what happens when the user activates a finished download
type Action int

const (
	// ActionNone does nothing
	ActionNone Action = iota
	// ActionOpen opens the file with its default application
	ActionOpen
	// ActionBrowseTo reveals the file in the file manager
	ActionBrowseTo
)

// String returns a short name for the action
func (a Action) String() string {
	switch a {
	case ActionOpen:
		return "open"
	case ActionBrowseTo:
		return "browse-to"
	default:
		return "none"
	}
}
