// Package exiftool shells out to exiftool to read capture-date metadata.
package exiftool

import (
	"context"
	"encoding/json"
	"errors"
	"os/exec"
	"strings"
	"time"

	"pigeonhole/internal/media"
	"pigeonhole/internal/services"
)

// Client executes exiftool probes with a configured binary and timeout.
type Client struct {
	binary  string
	timeout time.Duration
}

// New returns a client for the given binary. An empty binary falls back to
// "exiftool" on PATH; a zero timeout disables the per-probe deadline.
func New(binary string, timeout time.Duration) *Client {
	binary = strings.TrimSpace(binary)
	if binary == "" {
		binary = "exiftool"
	}
	return &Client{binary: binary, timeout: timeout}
}

// ReadDates executes exiftool against the provided path and decodes the JSON
// response into the raw date fields. Only string values are kept; numeric
// forms of the tags are unusable for date resolution.
func (c *Client) ReadDates(ctx context.Context, path string) (media.Dates, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return media.Dates{}, errors.New("exiftool read: empty path")
	}
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(ctx, c.binary,
		"-j",
		"-n",
		"-"+media.FieldDateTimeOriginal,
		"-"+media.FieldCreateDate,
		"-"+media.FieldMediaCreateDate,
		path,
	)
	output, err := cmd.Output()
	if err != nil {
		return media.Dates{}, services.Wrap(services.ErrExternalTool, "metadata", "exiftool", probeDetail(err), err)
	}

	var payload []map[string]any
	if err := json.Unmarshal(output, &payload); err != nil {
		return media.Dates{}, services.Wrap(services.ErrExternalTool, "metadata", "exiftool", "parse probe output", err)
	}
	if len(payload) == 0 {
		return media.Dates{}, nil
	}

	entry := payload[0]
	return media.Dates{
		DateTimeOriginal: stringField(entry, media.FieldDateTimeOriginal),
		CreateDate:       stringField(entry, media.FieldCreateDate),
		MediaCreateDate:  stringField(entry, media.FieldMediaCreateDate),
	}, nil
}

func stringField(entry map[string]any, key string) string {
	if value, ok := entry[key].(string); ok {
		return value
	}
	return ""
}

func probeDetail(err error) string {
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		if detail := strings.TrimSpace(string(exitErr.Stderr)); detail != "" {
			return detail
		}
	}
	return "probe failed"
}
