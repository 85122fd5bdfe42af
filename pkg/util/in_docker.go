// Package util holds small helpers that don't belong anywhere else
package util

import "os"

// IsRunningInDocker reports whether the process runs inside a container.
// Both docker and podman leave a marker file in the root.
func IsRunningInDocker() bool {
	for _, marker := range []string{"/.dockerenv", "/run/.containerenv"} {
		if _, err := os.Stat(marker); err == nil {
			return true
		}
	}

	return false
}
