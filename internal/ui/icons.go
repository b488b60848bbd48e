package ui

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/theme"

	"github.com/ytget/browser-shell/internal/platform"
)

// Action button icon names
const (
	IconNameOpenFolder = "folder-open-symbolic"
	IconNameRemove     = "list-remove-symbolic"
	IconNameClose      = "window-close-symbolic"
)

var namedIcons = map[string]func() fyne.Resource{
	IconNameOpenFolder:            theme.FolderOpenIcon,
	IconNameRemove:                theme.ContentRemoveIcon,
	IconNameClose:                 theme.CancelIcon,
	"image-x-generic-symbolic":    theme.FileImageIcon,
	"video-x-generic-symbolic":    theme.FileVideoIcon,
	"audio-x-generic-symbolic":    theme.FileAudioIcon,
	"text-x-generic-symbolic":     theme.FileTextIcon,
	"application-x-generic-symbolic": theme.FileApplicationIcon,
	platform.GenericFileIconName:  theme.FileIcon,
}

// ResourceForIconName returns the theme resource for an icon name, or nil
func ResourceForIconName(name string) fyne.Resource {
	if fn, ok := namedIcons[name]; ok {
		return fn()
	}
	return nil
}

// ResourceForIconNames returns the first resolvable icon of a fallback chain
func ResourceForIconNames(names []string) fyne.Resource {
	for _, name := range names {
		if res := ResourceForIconName(name); res != nil {
			return res
		}
	}
	return theme.FileIcon()
}
