// pattern: Imperative Shell
package instance

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gofrs/flock"
)

const (
	lockFileName = "devframe.lock"
	portFileName = "devframe.port"
)

// ErrAlreadyRunning is returned by Lock when another preview holds the lock.
var ErrAlreadyRunning = errors.New("another devframe preview is already running")

// Lock acquires an exclusive file lock for single-instance enforcement.
// Returns the flock handle (caller must defer Cleanup) or an error if
// another instance already holds the lock.
func Lock(dataDir string) (*flock.Flock, error) {
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	fl := flock.New(filepath.Join(dataDir, lockFileName))
	locked, err := fl.TryLock()
	if err != nil {
		return nil, fmt.Errorf("failed to acquire lock: %w", err)
	}
	if !locked {
		return nil, ErrAlreadyRunning
	}
	return fl, nil
}

// WritePort writes the inspector's listener address to the port file.
func WritePort(dataDir, addr string) error {
	return os.WriteFile(filepath.Join(dataDir, portFileName), []byte(addr), 0o600)
}

// ReadPort returns the address recorded by WritePort.
func ReadPort(dataDir string) (string, error) {
	data, err := os.ReadFile(filepath.Join(dataDir, portFileName))
	if err != nil {
		return "", err
	}
	addr := strings.TrimSpace(string(data))
	if addr == "" {
		return "", fmt.Errorf("devframe port file is empty (try 'devframe cleanup')")
	}
	return addr, nil
}

// Cleanup removes the port file and releases the file lock.
func Cleanup(dataDir string, fl *flock.Flock) {
	_ = os.Remove(filepath.Join(dataDir, portFileName))
	if fl != nil {
		_ = fl.Unlock()
	}
}

// RemoveStale deletes a port file left by a preview that exited without
// cleaning up. It reports whether a port file was removed.
func RemoveStale(dataDir string) (bool, error) {
	fl := flock.New(filepath.Join(dataDir, lockFileName))
	locked, err := fl.TryLock()
	if err != nil {
		return false, fmt.Errorf("failed to check lock: %w", err)
	}
	if !locked {
		return false, ErrAlreadyRunning
	}
	defer func() { _ = fl.Unlock() }()

	err = os.Remove(filepath.Join(dataDir, portFileName))
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, os.ErrNotExist):
		return false, nil
	default:
		return false, err
	}
}
