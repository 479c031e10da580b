package organize

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// dayDir maps a resolved date to the output day directory.
func dayDir(output string, when time.Time) string {
	year, month, day := when.Date()
	return filepath.Join(output,
		fmt.Sprintf("%04d", year),
		fmt.Sprintf("%02d", int(month)),
		fmt.Sprintf("%02d", day))
}

// uniquePath returns candidate unchanged when free, otherwise the first
// _NNN-suffixed variant that does not exist yet. The counter is unbounded;
// the zero padding only keeps lexical order for the first thousand.
func uniquePath(candidate string) (string, error) {
	free, err := pathFree(candidate)
	if err != nil {
		return "", err
	}
	if free {
		return candidate, nil
	}

	dir := filepath.Dir(candidate)
	base := filepath.Base(candidate)
	ext := filepath.Ext(base)
	if ext == base {
		// Dotfile names carry no extension; suffix after the whole name.
		ext = ""
	}
	stem := strings.TrimSuffix(base, ext)
	for counter := 1; ; counter++ {
		next := filepath.Join(dir, fmt.Sprintf("%s_%03d%s", stem, counter, ext))
		free, err := pathFree(next)
		if err != nil {
			return "", err
		}
		if free {
			return next, nil
		}
	}
}

func pathFree(path string) (bool, error) {
	_, err := os.Stat(path)
	if err == nil {
		return false, nil
	}
	if errors.Is(err, os.ErrNotExist) {
		return true, nil
	}
	return false, err
}
