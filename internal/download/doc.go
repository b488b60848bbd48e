package download

// Package download implements download records and their transfers. A
// Transfer moves bytes (HTTPTransfer uses go.bug.st/downloader); a Download
// wraps one transfer with browser metadata and lifecycle notifications; the
// Manager owns every Download the shell knows about.
