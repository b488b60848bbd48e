package ui

import "time"

// UI-wide constants to avoid magic numbers/strings scattered across the codebase.

// Icons (emojis/symbols)
const (
	IconSettings = "⚙"
)

// Layout sizing (DownloadWidget / lists)
const (
	DownloadRowMinWidth float32 = 360
	DownloadIconSize    float32 = 32
	StatusLabelWidth    float32 = 260
)

// Settings dialog sizing
const (
	SettingsDialogWidth  float32 = 500
	SettingsDialogHeight float32 = 360
)

// Notification panel behavior
const (
	NotificationAutoHide = 4 * time.Second
)

// Allowed URL schemes for the download entry
const (
	SchemeHTTP  = "http"
	SchemeHTTPS = "https"
)
