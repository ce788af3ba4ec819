package enums

import "fmt"

// MediaVariant tags one stored rendition of a logical upload. Non-derived
// uploads (videos) carry no variant at all.
type MediaVariant string

const (
	MediaVariantOptimized MediaVariant = "optimized"
	MediaVariantThumb     MediaVariant = "thumb"
	MediaVariantOriginal  MediaVariant = "original"
)

var validMediaVariants = []MediaVariant{
	MediaVariantOptimized,
	MediaVariantThumb,
	MediaVariantOriginal,
}

// String returns the literal string for the variant.
func (m MediaVariant) String() string {
	return string(m)
}

// IsValid reports whether the variant is known.
func (m MediaVariant) IsValid() bool {
	for _, candidate := range validMediaVariants {
		if candidate == m {
			return true
		}
	}
	return false
}

// ParseMediaVariant converts raw input into a MediaVariant.
func ParseMediaVariant(value string) (MediaVariant, error) {
	for _, candidate := range validMediaVariants {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid media variant %q", value)
}
