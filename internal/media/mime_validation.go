package media

import (
	"fmt"
	"mime"
	"strings"

	"github.com/jezzlucena/slatefolio/pkg/enums"
)

var allowedMimeByFolder = map[enums.MediaFolder][]string{
	enums.MediaFolderImages:  {"image/png", "image/jpeg", "image/webp", "image/gif"},
	enums.MediaFolderVideos:  {"video/mp4", "video/webm", "video/quicktime"},
	enums.MediaFolderResumes: {"application/pdf"},
}

var extensionByMime = map[string]string{
	"image/png":       ".png",
	"image/jpeg":      ".jpg",
	"image/webp":      ".webp",
	"image/gif":       ".gif",
	"video/mp4":       ".mp4",
	"video/webm":      ".webm",
	"video/quicktime": ".mov",
	"application/pdf": ".pdf",
}

// SniffMimeType normalizes a declared content type down to its media type.
func SniffMimeType(value string) (string, error) {
	clean := strings.TrimSpace(value)
	if clean == "" {
		return "", fmt.Errorf("mime type required")
	}
	mediaType, _, err := mime.ParseMediaType(clean)
	if err != nil {
		return "", fmt.Errorf("mime type invalid: %w", err)
	}
	if mediaType == "" {
		return "", fmt.Errorf("mime type missing")
	}
	return strings.ToLower(mediaType), nil
}

// FolderForMime maps an allow-listed upload mime type to its disk folder.
// Resume uploads go through their own service, so the resumes folder is
// excluded here.
func FolderForMime(mimeType string) (enums.MediaFolder, bool) {
	for _, folder := range []enums.MediaFolder{enums.MediaFolderImages, enums.MediaFolderVideos} {
		if IsAllowedMime(folder, mimeType) {
			return folder, true
		}
	}
	return "", false
}

// IsAllowedMime reports whether the mime type is on the folder's allow-list.
func IsAllowedMime(folder enums.MediaFolder, mimeType string) bool {
	for _, candidate := range allowedMimeByFolder[folder] {
		if strings.EqualFold(candidate, mimeType) {
			return true
		}
	}
	return false
}

// ExtensionForMime picks the canonical extension for a stored mime type.
func ExtensionForMime(mimeType string) string {
	if ext, ok := extensionByMime[mimeType]; ok {
		return ext
	}
	return ".bin"
}
