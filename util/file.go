package util

import "os"

// PathExist reports whether path can be stat'ed.
func PathExist(path string) bool {
	if _, err := os.Stat(path); err != nil {
		return false
	}
	return true
}
