package assets

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"

	exif "github.com/dsoprea/go-exif/v3"
)

// maxAuditSize skips photos too large to read into memory for the audit.
const maxAuditSize = 32 << 20

// exifFormats are the file types that carry EXIF blocks.
var exifFormats = regexp.MustCompile(`(?i)\.(jpe?g|tiff?|heic)$`)

// PhotoWarning reports metadata in a published photo that identifies a
// person, a place or a device.
type PhotoWarning struct {
	Path  string
	Kind  string
	Tag   string
	Value string
}

func (w PhotoWarning) String() string {
	return fmt.Sprintf("%s: %s %s=%s", w.Path, w.Kind, w.Tag, w.Value)
}

// Warning kinds.
const (
	KindLocation = "location"
	KindDevice   = "device"
	KindAuthor   = "author"
)

var sensitiveTags = map[string]string{
	"GPSLatitude":        KindLocation,
	"GPSLongitude":       KindLocation,
	"GPSLatitudeRef":     KindLocation,
	"GPSLongitudeRef":    KindLocation,
	"SerialNumber":       KindDevice,
	"CameraSerialNumber": KindDevice,
	"BodySerialNumber":   KindDevice,
	"LensSerialNumber":   KindDevice,
	"Artist":             KindAuthor,
	"Author":             KindAuthor,
	"Copyright":          KindAuthor,
	"XPAuthor":           KindAuthor,
}

// AuditPhoto reads the EXIF block of path and returns its sensitive tags.
// Files without EXIF data yield no warnings.
func AuditPhoto(path string) ([]PhotoWarning, error) {
	if !exifFormats.MatchString(filepath.Ext(path)) {
		return nil, nil
	}
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if info.Size() > maxAuditSize {
		return nil, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return auditEXIF(path, data), nil
}

func auditEXIF(path string, data []byte) []PhotoWarning {
	raw, err := exif.SearchAndExtractExif(data)
	if err != nil || raw == nil {
		return nil
	}
	entries, _, err := exif.GetFlatExifData(raw, nil)
	if err != nil {
		return nil
	}

	var warnings []PhotoWarning
	for _, entry := range entries {
		kind, ok := sensitiveTags[entry.TagName]
		if !ok {
			continue
		}
		warnings = append(warnings, PhotoWarning{
			Path:  path,
			Kind:  kind,
			Tag:   entry.TagName,
			Value: entry.Formatted,
		})
	}
	sort.SliceStable(warnings, func(i, j int) bool {
		return warnings[i].Tag < warnings[j].Tag
	})
	return warnings
}
