// Package deps reports the availability of the external tools the organizer
// can use.
package deps

import (
	"fmt"
	"os/exec"
	"strings"

	"pigeonhole/internal/config"
)

// Requirement defines an external dependency the organizer relies on.
type Requirement struct {
	Name        string
	Command     string
	Description string
	Optional    bool
}

// Status reports the availability of a dependency.
type Status struct {
	Name        string
	Command     string
	Description string
	Optional    bool
	Available   bool
	Detail      string
}

// Requirements derives the external tool set from the configuration. The
// exiftool binary is required only while it is the selected backend; the
// native parser needs nothing from the host.
func Requirements(cfg *config.Config) []Requirement {
	if cfg == nil {
		return nil
	}
	return []Requirement{
		{
			Name:        "exiftool",
			Command:     cfg.Metadata.ExiftoolBinary,
			Description: "reads DateTimeOriginal, CreateDate, and MediaCreateDate tags",
			Optional:    cfg.Metadata.Backend != config.MetadataBackendExiftool,
		},
	}
}

// CheckBinaries evaluates the provided requirements and reports availability.
func CheckBinaries(requirements []Requirement) []Status {
	results := make([]Status, 0, len(requirements))
	for _, req := range requirements {
		cmd := strings.TrimSpace(req.Command)
		status := Status{
			Name:        req.Name,
			Command:     cmd,
			Description: strings.TrimSpace(req.Description),
			Optional:    req.Optional,
		}
		if cmd == "" {
			status.Detail = "command not configured"
			results = append(results, status)
			continue
		}
		if _, err := exec.LookPath(cmd); err != nil {
			status.Detail = fmt.Sprintf("binary %q not found", cmd)
			results = append(results, status)
			continue
		}
		status.Available = true
		results = append(results, status)
	}
	return results
}
