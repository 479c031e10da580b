// Package native reads capture-date metadata with pure Go parsers so the
// organizer keeps working on hosts without an exiftool install.
package native

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	mp4 "github.com/abema/go-mp4"
	"github.com/rwcarlsen/goexif/exif"

	"pigeonhole/internal/media"
)

// mp4Epoch is the offset in seconds between the ISO base media epoch
// (1904-01-01) and the Unix epoch.
const mp4Epoch = 2082844800

const timestampLayout = "2006:01:02 15:04:05"

// Reader parses EXIF and MP4 container metadata in-process.
type Reader struct{}

// New returns the native metadata reader.
func New() *Reader {
	return &Reader{}
}

// ReadDates extracts the raw date fields for path. Formats without a native
// parser yield zero dates so callers fall back to file times.
func (r *Reader) ReadDates(ctx context.Context, path string) (media.Dates, error) {
	if err := ctx.Err(); err != nil {
		return media.Dates{}, err
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".jpg", ".jpeg", ".png":
		return exifDates(path)
	case ".mp4", ".mov":
		return containerDates(path)
	default:
		return media.Dates{}, nil
	}
}

func exifDates(path string) (media.Dates, error) {
	f, err := os.Open(path)
	if err != nil {
		return media.Dates{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	x, err := exif.Decode(f)
	if err != nil {
		return media.Dates{}, fmt.Errorf("decode exif: %w", err)
	}
	return media.Dates{
		DateTimeOriginal: tagString(x, exif.DateTimeOriginal),
		CreateDate:       tagString(x, exif.DateTimeDigitized),
	}, nil
}

func tagString(x *exif.Exif, field exif.FieldName) string {
	tag, err := x.Get(field)
	if err != nil {
		return ""
	}
	value, err := tag.StringVal()
	if err != nil {
		return ""
	}
	return value
}

func containerDates(path string) (media.Dates, error) {
	f, err := os.Open(path)
	if err != nil {
		return media.Dates{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	boxes, err := mp4.ExtractBoxWithPayload(f, nil, mp4.BoxPath{mp4.BoxTypeMoov(), mp4.BoxTypeMvhd()})
	if err != nil {
		return media.Dates{}, fmt.Errorf("read mvhd: %w", err)
	}
	for _, found := range boxes {
		mvhd, ok := found.Payload.(*mp4.Mvhd)
		if !ok {
			continue
		}
		created := uint64(mvhd.CreationTimeV0)
		if mvhd.GetVersion() != 0 {
			created = mvhd.CreationTimeV1
		}
		// Zero and pre-Unix-epoch stamps mean the muxer never set one.
		if created <= mp4Epoch {
			continue
		}
		when := time.Unix(int64(created-mp4Epoch), 0).UTC()
		return media.Dates{MediaCreateDate: when.Format(timestampLayout)}, nil
	}
	return media.Dates{}, nil
}
