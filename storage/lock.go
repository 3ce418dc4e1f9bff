package storage

import (
	"fmt"
	"os"
	"path/filepath"
)

// InstanceLock guards chat.db against a second running instance.
// Lock file: <data_dir>/poassist.lock, content: PID of the owner.
type InstanceLock struct {
	path string
}

func NewInstanceLock(dataDir string) *InstanceLock {
	return &InstanceLock{path: filepath.Join(dataDir, "poassist.lock")}
}

// Acquire writes our PID to the lock file.
func (l *InstanceLock) Acquire() error {
	return os.WriteFile(l.path, []byte(fmt.Sprintf("%d", os.Getpid())), 0600)
}

// Release removes the lock file. A missing file is not an error.
func (l *InstanceLock) Release() error {
	err := os.Remove(l.path)
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

// Check reports whether another live instance holds the lock.
func (l *InstanceLock) Check() (bool, int, error) {
	data, err := os.ReadFile(l.path)
	if os.IsNotExist(err) {
		return false, 0, nil
	}
	if err != nil {
		return false, 0, fmt.Errorf("failed to read lock file: %w", err)
	}

	var pid int
	if _, err := fmt.Sscanf(string(data), "%d", &pid); err != nil {
		// Invalid lock file, clean it up
		_ = os.Remove(l.path)
		return false, 0, nil
	}

	if pid == os.Getpid() {
		return false, pid, nil
	}

	// os.FindProcess always succeeds on Unix; good enough for a single-user tool
	if _, err := os.FindProcess(pid); err != nil {
		_ = os.Remove(l.path)
		return false, 0, nil
	}

	return true, pid, nil
}
