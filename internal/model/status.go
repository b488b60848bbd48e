package model

// DownloadState represents the lifecycle state of a single download
type DownloadState string

const (
	// DownloadStateStarting means the transfer was created but no data arrived yet
	DownloadStateStarting DownloadState = "Starting"

	// DownloadStateActive means data is being received
	DownloadStateActive DownloadState = "Active"

	// DownloadStateCancelling means the user asked to cancel and the transfer has not stopped yet
	DownloadStateCancelling DownloadState = "Cancelling"

	// DownloadStateFinished means the download completed successfully
	DownloadStateFinished DownloadState = "Finished"

	// DownloadStateFailed means the download stopped with an error (cancellation included)
	DownloadStateFailed DownloadState = "Failed"
)

// String returns the string representation of DownloadState
func (s DownloadState) String() string {
	return string(s)
}

// IsActive returns true while the download is still transferring data
func (s DownloadState) IsActive() bool {
	return s == DownloadStateStarting || s == DownloadStateActive
}

// IsFinished returns true if the download reached a terminal state
func (s DownloadState) IsFinished() bool {
	return s == DownloadStateFinished || s == DownloadStateFailed
}
