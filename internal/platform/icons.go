package platform

import (
	"mime"
	"strings"
)

// GenericFileIconName ends every icon fallback chain
const GenericFileIconName = "package-x-generic-symbolic"

const symbolicSuffix = "-symbolic"

// ContentTypeIconNames returns icon theme names for a MIME type, most specific
// first: "image/png" gives image-png-symbolic, image-x-generic-symbolic and
// finally the generic package icon.
func ContentTypeIconNames(contentType string) []string {
	mediaType := strings.TrimSpace(contentType)
	if parsed, _, err := mime.ParseMediaType(mediaType); err == nil {
		mediaType = parsed
	}

	major, _, ok := strings.Cut(mediaType, "/")
	if !ok || major == "" {
		return []string{GenericFileIconName}
	}

	names := []string{
		strings.ReplaceAll(mediaType, "/", "-") + symbolicSuffix,
		major + "-x-generic" + symbolicSuffix,
	}
	if names[1] != GenericFileIconName {
		names = append(names, GenericFileIconName)
	}
	return names
}
