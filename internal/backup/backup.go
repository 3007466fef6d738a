// Package backup snapshots the local SQLite store before its schema is
// changed, keeping the newest few copies next to the database.
package backup

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/julianstephens/salesops/internal/clock"
	"github.com/julianstephens/salesops/internal/logger"
)

var log = logger.Component("backup")

const (
	// MaxSnapshots is how many snapshots are kept
	MaxSnapshots = 5
	// DirName is the snapshot directory, beside the database
	DirName = "backups"

	filePrefix  = "salesops-"
	fileSuffix  = ".db"
	stampLayout = "20060102-150405"
)

// Snapshot is one copy of the store on disk
type Snapshot struct {
	Path  string
	Taken time.Time
	Size  int64
}

type Manager struct {
	dbPath string
	dir    string
	clock  clock.Clock
}

func NewManager(dbPath string, clk clock.Clock) *Manager {
	if clk == nil {
		clk = clock.Real()
	}
	return &Manager{
		dbPath: dbPath,
		dir:    filepath.Join(filepath.Dir(dbPath), DirName),
		clock:  clk,
	}
}

// Dir returns the snapshot directory
func (m *Manager) Dir() string {
	return m.dir
}

// Create copies the database into a new snapshot and drops the oldest
// ones beyond MaxSnapshots
func (m *Manager) Create() (string, error) {
	if _, err := os.Stat(m.dbPath); err != nil {
		return "", fmt.Errorf("database does not exist: %s", m.dbPath)
	}
	if err := os.MkdirAll(m.dir, 0700); err != nil {
		return "", fmt.Errorf("failed to create backup directory: %w", err)
	}

	path, err := m.freeName()
	if err != nil {
		return "", err
	}
	if err := m.copyDatabase(path); err != nil {
		return "", fmt.Errorf("failed to back up database: %w", err)
	}

	if err := m.rotate(); err != nil {
		log.Warn("Failed to rotate store snapshots", "error", err)
	}
	return path, nil
}

// freeName picks an unused file name for the current time
func (m *Manager) freeName() (string, error) {
	stamp := m.clock.Now().Format(stampLayout)
	path := filepath.Join(m.dir, filePrefix+stamp+fileSuffix)
	for n := 1; ; n++ {
		if _, err := os.Stat(path); os.IsNotExist(err) {
			return path, nil
		}
		if n > 100 {
			return "", fmt.Errorf("failed to generate unique backup filename")
		}
		path = filepath.Join(m.dir, fmt.Sprintf("%s%s-%d%s", filePrefix, stamp, n, fileSuffix))
	}
}

// copyDatabase writes a consistent copy with VACUUM INTO, falling back
// to a plain file copy
func (m *Manager) copyDatabase(dest string) error {
	src, err := sql.Open("sqlite", m.dbPath+"?mode=ro")
	if err != nil {
		return fmt.Errorf("failed to open source database: %w", err)
	}
	defer src.Close()

	var n int
	if err := src.QueryRow("SELECT COUNT(*) FROM sqlite_master").Scan(&n); err != nil {
		return fmt.Errorf("source database appears to be corrupted: %w", err)
	}
	if _, err := src.Exec("VACUUM INTO ?", dest); err != nil {
		src.Close()
		return copyFile(m.dbPath, dest)
	}
	return nil
}

// List returns the snapshots, newest first. Files that do not look like
// snapshots are ignored.
func (m *Manager) List() ([]Snapshot, error) {
	entries, err := os.ReadDir(m.dir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read backup directory: %w", err)
	}

	var out []Snapshot
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasPrefix(name, filePrefix) || !strings.HasSuffix(name, fileSuffix) {
			continue
		}
		stamp := strings.TrimSuffix(strings.TrimPrefix(name, filePrefix), fileSuffix)
		// a "-N" counter may follow the stamp
		if len(stamp) > len(stampLayout) {
			stamp = stamp[:len(stampLayout)]
		}
		taken, err := time.Parse(stampLayout, stamp)
		if err != nil {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		out = append(out, Snapshot{Path: filepath.Join(m.dir, name), Taken: taken, Size: info.Size()})
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Taken.Equal(out[j].Taken) {
			return out[i].Path > out[j].Path
		}
		return out[i].Taken.After(out[j].Taken)
	})
	return out, nil
}

func (m *Manager) rotate() error {
	snaps, err := m.List()
	if err != nil {
		return err
	}
	for i := MaxSnapshots; i < len(snaps); i++ {
		if err := os.Remove(snaps[i].Path); err != nil {
			return fmt.Errorf("failed to remove old backup %s: %w", snaps[i].Path, err)
		}
	}
	return nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err := out.ReadFrom(in); err != nil {
		return err
	}
	return out.Sync()
}
