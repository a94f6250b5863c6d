package utils

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// PIDFile records the process ID of a running server
type PIDFile struct {
	path string
}

func NewPIDFile(path string) *PIDFile {
	return &PIDFile{path: path}
}

// Write stores the current process ID. It fails when the file already names
// another live process.
func (p *PIDFile) Write() error {
	if pid, err := ReadPID(p.path); err == nil && pid != os.Getpid() && processAlive(pid) {
		return fmt.Errorf("process %d from %s is still running", pid, p.path)
	}

	if err := os.MkdirAll(filepath.Dir(p.path), 0755); err != nil {
		return fmt.Errorf("failed to create PID directory: %w", err)
	}
	return os.WriteFile(p.path, []byte(fmt.Sprintf("%d\n", os.Getpid())), 0644)
}

// Remove deletes the PID file, a missing file is not an error
func (p *PIDFile) Remove() error {
	if err := os.Remove(p.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

func (p *PIDFile) Path() string {
	return p.path
}
