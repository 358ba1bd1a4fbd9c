package backup

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/natefinch/atomic"
	_ "modernc.org/sqlite"

	"github.com/julianstephens/habitlit/internal/constants"
	"github.com/julianstephens/habitlit/internal/logger"
	"github.com/julianstephens/habitlit/internal/storage"
	"github.com/julianstephens/habitlit/internal/utils"
)

const timestampFormat = "20060102-150405"

// ErrNoStore is returned when there is no store file to back up.
var ErrNoStore = errors.New("habit store does not exist")

// BackupInfo contains information about a backup file
type BackupInfo struct {
	Path      string
	Timestamp time.Time
	Size      int64
}

// Name returns the backup's file name.
func (b BackupInfo) Name() string {
	return filepath.Base(b.Path)
}

// Manager handles backup operations for a single store file. SQLite stores
// are snapshotted with VACUUM INTO; JSON stores are copied after checking
// that they decode.
type Manager struct {
	storePath string
	backupDir string
	suffix    string
	sqlite    bool
	now       func() time.Time
}

// NewManager creates a backup manager for the store at storePath. Backups
// live in a "backups" directory next to it.
func NewManager(storePath string) *Manager {
	suffix := filepath.Ext(storePath)
	if suffix == "" {
		suffix = ".json"
	}
	return &Manager{
		storePath: storePath,
		backupDir: filepath.Join(filepath.Dir(storePath), constants.BackupDirName),
		suffix:    suffix,
		sqlite:    storage.IsSQLitePath(storePath),
		now:       time.Now,
	}
}

// GetBackupDir returns the backup directory path
func (m *Manager) GetBackupDir() string {
	return m.backupDir
}

// CreateBackup snapshots the store and prunes backups beyond the retention limit.
func (m *Manager) CreateBackup() (string, error) {
	return m.createBackup(false)
}

// AutoBackup creates a backup unless one was already taken today. It returns
// the new backup's path, or "" when nothing was done.
func (m *Manager) AutoBackup() (string, error) {
	if _, err := os.Stat(m.storePath); os.IsNotExist(err) {
		return "", nil
	}

	backups, err := m.ListBackups()
	if err != nil {
		return "", err
	}
	if len(backups) > 0 && utils.IsSameDay(backups[0].Timestamp, m.now()) {
		logger.Debug("Skipping automatic backup", "latest", backups[0].Name())
		return "", nil
	}

	path, err := m.CreateBackup()
	if err != nil {
		return "", err
	}
	logger.Info("Automatic backup created", "path", path)
	return path, nil
}

// createBackup skips rotation when called as part of a restore so the
// pre-restore snapshot can't evict the backup being restored.
func (m *Manager) createBackup(skipRotation bool) (string, error) {
	if _, err := os.Stat(m.storePath); os.IsNotExist(err) {
		return "", fmt.Errorf("%w: %s", ErrNoStore, m.storePath)
	}

	if err := os.MkdirAll(m.backupDir, 0700); err != nil {
		return "", fmt.Errorf("failed to create backup directory: %w", err)
	}

	backupPath, err := m.nextBackupPath()
	if err != nil {
		return "", err
	}

	if m.sqlite {
		err = m.backupDatabase(backupPath)
	} else {
		err = m.backupDocument(backupPath)
	}
	if err != nil {
		return "", fmt.Errorf("failed to backup store: %w", err)
	}

	if !skipRotation {
		if err := m.rotateBackups(); err != nil {
			logger.Warn("Failed to rotate old backups", "error", err)
		}
	}

	return backupPath, nil
}

func (m *Manager) nextBackupPath() (string, error) {
	timestamp := m.now().Format(timestampFormat)
	path := filepath.Join(m.backupDir, constants.BackupFilePrefix+timestamp+m.suffix)

	for counter := 1; ; counter++ {
		if _, err := os.Stat(path); os.IsNotExist(err) {
			return path, nil
		}
		if counter > 100 {
			return "", fmt.Errorf("failed to generate unique backup filename")
		}
		path = filepath.Join(m.backupDir, fmt.Sprintf("%s%s-%d%s", constants.BackupFilePrefix, timestamp, counter, m.suffix))
	}
}

// backupDatabase uses VACUUM INTO to write a consistent copy of the database.
func (m *Manager) backupDatabase(destPath string) error {
	srcDB, err := sqlx.Open("sqlite", m.storePath+"?mode=ro")
	if err != nil {
		return fmt.Errorf("failed to open source database: %w", err)
	}
	defer srcDB.Close()

	var count int
	if err := srcDB.Get(&count, "SELECT COUNT(*) FROM sqlite_master"); err != nil {
		return fmt.Errorf("source database appears to be corrupted: %w", err)
	}

	if _, err := srcDB.Exec("VACUUM INTO ?", destPath); err != nil {
		logger.Warn("VACUUM INTO failed, falling back to file copy", "error", err)
		srcDB.Close()
		return copyFile(m.storePath, destPath)
	}
	return nil
}

// backupDocument copies a JSON store, refusing to snapshot content that
// doesn't decode.
func (m *Manager) backupDocument(destPath string) error {
	data, err := os.ReadFile(m.storePath)
	if err != nil {
		return err
	}
	if _, err := storage.Decode(data); err != nil {
		return fmt.Errorf("store content is invalid: %w", err)
	}
	return atomic.WriteFile(destPath, bytes.NewReader(data))
}

// ListBackups returns all backups of this store, newest first.
func (m *Manager) ListBackups() ([]BackupInfo, error) {
	entries, err := os.ReadDir(m.backupDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []BackupInfo{}, nil
		}
		return nil, fmt.Errorf("failed to read backup directory: %w", err)
	}

	backups := []BackupInfo{}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		timestamp, ok := m.parseBackupName(entry.Name())
		if !ok {
			continue
		}

		info, err := entry.Info()
		if err != nil {
			continue
		}

		backups = append(backups, BackupInfo{
			Path:      filepath.Join(m.backupDir, entry.Name()),
			Timestamp: timestamp,
			Size:      info.Size(),
		})
	}

	sort.SliceStable(backups, func(i, j int) bool {
		if backups[i].Timestamp.Equal(backups[j].Timestamp) {
			return backups[i].Path > backups[j].Path
		}
		return backups[i].Timestamp.After(backups[j].Timestamp)
	})

	return backups, nil
}

// parseBackupName extracts the timestamp from "habitlit-YYYYMMDD-HHMMSS[-N].ext".
func (m *Manager) parseBackupName(name string) (time.Time, bool) {
	if !strings.HasPrefix(name, constants.BackupFilePrefix) || !strings.HasSuffix(name, m.suffix) {
		return time.Time{}, false
	}
	stamp := strings.TrimSuffix(strings.TrimPrefix(name, constants.BackupFilePrefix), m.suffix)
	if len(stamp) > len(timestampFormat) && stamp[len(timestampFormat)] == '-' {
		stamp = stamp[:len(timestampFormat)]
	}
	t, err := time.ParseInLocation(timestampFormat, stamp, time.Local)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// rotateBackups removes old backups beyond the retention limit
func (m *Manager) rotateBackups() error {
	backups, err := m.ListBackups()
	if err != nil {
		return err
	}

	for i := constants.MaxBackups; i < len(backups); i++ {
		if err := os.Remove(backups[i].Path); err != nil {
			return fmt.Errorf("failed to remove old backup %s: %w", backups[i].Path, err)
		}
		logger.Debug("Removed old backup", "path", backups[i].Path)
	}

	return nil
}

// RestoreBackup replaces the store with backupPath. The current store, if
// any, is backed up first; its path is returned. The store must not be open.
func (m *Manager) RestoreBackup(backupPath string) (string, error) {
	if _, err := os.Stat(backupPath); os.IsNotExist(err) {
		return "", fmt.Errorf("backup file does not exist: %s", backupPath)
	}

	if err := m.verifyBackup(backupPath); err != nil {
		return "", fmt.Errorf("backup file is corrupted or invalid: %w", err)
	}

	var preRestore string
	if _, err := os.Stat(m.storePath); err == nil {
		preRestore, err = m.createBackup(true)
		if err != nil {
			return "", fmt.Errorf("failed to backup current store before restore: %w", err)
		}
		logger.Info("Created backup of current store", "path", preRestore)
	}

	src, err := os.Open(backupPath)
	if err != nil {
		return preRestore, fmt.Errorf("failed to open backup file: %w", err)
	}
	defer src.Close()

	if err := atomic.WriteFile(m.storePath, src); err != nil {
		return preRestore, fmt.Errorf("failed to restore store: %w", err)
	}

	logger.Info("Restored store from backup", "backup", backupPath, "store", m.storePath)
	return preRestore, nil
}

// Resolve maps a backup name (as shown by ListBackups) or path to a full path.
func (m *Manager) Resolve(nameOrPath string) string {
	if filepath.IsAbs(nameOrPath) || strings.ContainsRune(nameOrPath, os.PathSeparator) {
		return nameOrPath
	}
	return filepath.Join(m.backupDir, nameOrPath)
}

// verifyBackup checks that a backup file holds a readable store
func (m *Manager) verifyBackup(path string) error {
	if !m.sqlite {
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		_, err = storage.Decode(data)
		return err
	}

	db, err := sqlx.Open("sqlite", path+"?mode=ro")
	if err != nil {
		return err
	}
	defer db.Close()

	var count int
	return db.Get(&count, "SELECT COUNT(*) FROM sqlite_master")
}

// copyFile copies a file from src to dst
func copyFile(src, dst string) error {
	sourceFile, err := os.Open(src)
	if err != nil {
		return err
	}
	defer sourceFile.Close()

	destFile, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer destFile.Close()

	if _, err := destFile.ReadFrom(sourceFile); err != nil {
		return err
	}

	return destFile.Sync()
}
