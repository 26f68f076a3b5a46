// Package deps checks the external tools barks shells out to.
package deps

import (
	"fmt"
	"os"
	"os/exec"
	"strings"
)

// Requirement defines an external dependency barks relies on.
type Requirement struct {
	Name        string
	Command     string
	Description string
	Optional    bool
	// Script marks a file that is run by an interpreter and so only needs
	// to exist.
	Script bool
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
		switch {
		case cmd == "":
			status.Detail = "command not configured"
		case req.Script:
			if info, err := os.Stat(cmd); err != nil || info.IsDir() {
				status.Detail = fmt.Sprintf("script %q not found", cmd)
			} else {
				status.Available = true
			}
		default:
			if _, err := exec.LookPath(cmd); err != nil {
				status.Detail = fmt.Sprintf("binary %q not found", cmd)
			} else {
				status.Available = true
			}
		}
		results = append(results, status)
	}
	return results
}

// Missing returns the required dependencies that are unavailable.
func Missing(statuses []Status) []Status {
	var out []Status
	for _, status := range statuses {
		if !status.Available && !status.Optional {
			out = append(out, status)
		}
	}
	return out
}
