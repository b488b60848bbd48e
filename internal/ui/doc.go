package ui

// Package ui contains the Fyne-based desktop user interface of the shell.
// The main window adds downloads by URL and lists them, one DownloadWidget per
// download, showing progress, remaining time and the cancel, remove or open
// action. All UI strings are localized via Localization.
