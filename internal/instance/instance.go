// Package instance keeps a single interactive console running per user.
// The lock is a file holding the owner's pid; a stale file left by a
// crashed process is taken over.
package instance

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/mitchellh/go-ps"

	"github.com/julianstephens/salesops/internal/constants"
)

var (
	findProcessFunc = ps.FindProcess
	getpidFunc      = os.Getpid
)

// ErrAlreadyRunning is returned when another console holds the lock
var ErrAlreadyRunning = errors.New("salesops console is already running")

type Lock struct {
	path string
	pid  int
}

// Acquire takes the lock in dir
func Acquire(dir string) (*Lock, error) {
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create lock directory: %w", err)
	}
	path := filepath.Join(dir, constants.InstanceLockfileName)
	self := getpidFunc()

	if owner, ok := readOwner(path); ok && owner != self && isConsole(owner) {
		return nil, fmt.Errorf("%w (pid %d)", ErrAlreadyRunning, owner)
	}

	if err := os.WriteFile(path, []byte(strconv.Itoa(self)), 0600); err != nil {
		return nil, fmt.Errorf("failed to write lockfile: %w", err)
	}
	return &Lock{path: path, pid: self}, nil
}

// Release removes the lockfile if this process still owns it
func (l *Lock) Release() error {
	if l == nil {
		return nil
	}
	owner, ok := readOwner(l.path)
	if !ok || owner != l.pid {
		return nil
	}
	if err := os.Remove(l.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to remove lockfile: %w", err)
	}
	return nil
}

// Path returns the lockfile location
func (l *Lock) Path() string {
	return l.path
}

func readOwner(path string) (int, bool) {
	content, err := os.ReadFile(path)
	if err != nil {
		return 0, false
	}
	pid, err := strconv.Atoi(strings.TrimSpace(string(content)))
	if err != nil || pid <= 0 {
		return 0, false
	}
	return pid, true
}

// isConsole reports whether pid is a live salesops process. A recycled
// pid belonging to another program does not count.
func isConsole(pid int) bool {
	process, err := findProcessFunc(pid)
	if err != nil || process == nil {
		return false
	}
	return strings.HasPrefix(process.Executable(), constants.AppName)
}
