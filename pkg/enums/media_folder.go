package enums

import "fmt"

// MediaFolder is the logical bucket a stored file lives under; it maps 1:1 to
// a subdirectory of the uploads root.
type MediaFolder string

const (
	MediaFolderImages  MediaFolder = "images"
	MediaFolderVideos  MediaFolder = "videos"
	MediaFolderResumes MediaFolder = "resumes"
)

var validMediaFolders = []MediaFolder{
	MediaFolderImages,
	MediaFolderVideos,
	MediaFolderResumes,
}

// String returns the literal string for the folder.
func (m MediaFolder) String() string {
	return string(m)
}

// IsValid reports whether the folder is known.
func (m MediaFolder) IsValid() bool {
	for _, candidate := range validMediaFolders {
		if candidate == m {
			return true
		}
	}
	return false
}

// ParseMediaFolder converts raw input into a MediaFolder.
func ParseMediaFolder(value string) (MediaFolder, error) {
	for _, candidate := range validMediaFolders {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid media folder %q", value)
}
