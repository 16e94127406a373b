// pattern: Imperative Shell
package instance

import (
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
)

const healthTimeout = 2 * time.Second

// ErrNotRunning is returned by Discover when no preview holds the lock.
var ErrNotRunning = errors.New("no running devframe preview found (start devframe first)")

// Discover checks whether a running preview exists and returns the
// inspector's base URL (e.g. "http://127.0.0.1:12345").
func Discover(dataDir string) (string, error) {
	// If we can take the lock, nobody else has it.
	fl := flock.New(filepath.Join(dataDir, lockFileName))
	locked, err := fl.TryLock()
	if err != nil {
		return "", fmt.Errorf("failed to check lock: %w", err)
	}
	if locked {
		_ = fl.Unlock()
		return "", ErrNotRunning
	}

	addr, err := ReadPort(dataDir)
	if err != nil {
		return "", fmt.Errorf("devframe preview detected but port file unreadable (try 'devframe cleanup'): %w", err)
	}

	baseURL := "http://" + addr

	client := &http.Client{Timeout: healthTimeout}
	resp, err := client.Get(baseURL + "/api/health")
	if err != nil {
		return "", fmt.Errorf("devframe preview not responding (try 'devframe cleanup'): %w", err)
	}
	_ = resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("devframe health check failed (status %d)", resp.StatusCode)
	}

	return baseURL, nil
}
