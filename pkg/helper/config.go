package helper

import (
	"os"
	"path/filepath"
)

// configDirs are searched, relative to the working directory, in order
var configDirs = []string{".", "configs"}

// fallbackDir holds packaged configuration
const fallbackDir = "/etc/toolserver"

// GetCfgPath returns the path to the configuration file.
//
// An absolute filename is returned as is. Otherwise ./{filename} and
// ./configs/{filename} are tried before falling back to /etc/toolserver.
func GetCfgPath(filename string) string {
	if filename == "" {
		panic("filename cannot be empty")
	}

	if filepath.IsAbs(filename) {
		return filename
	}

	if found := findInWorkDir(filename); found != "" {
		return found
	}

	return filepath.Join(fallbackDir, filename)
}

func findInWorkDir(filename string) string {
	currentDir, err := os.Getwd()
	if err != nil || currentDir == "" {
		return ""
	}

	for _, dir := range configDirs {
		candidate := filepath.Join(currentDir, dir, filename)
		if _, err := os.Stat(candidate); err != nil {
			continue
		}
		if abs, err := filepath.Abs(candidate); err == nil {
			return abs
		}
	}
	return ""
}
