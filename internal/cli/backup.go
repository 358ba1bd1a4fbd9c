package cli

import (
	"fmt"
	"os"

	"github.com/dustin/go-humanize"

	"github.com/julianstephens/habitlit/internal/backup"
	"github.com/julianstephens/habitlit/internal/constants"
)

type BackupCreateCmd struct{}

func (c *BackupCreateCmd) Run(ctx *Context) error {
	mgr := backup.NewManager(ctx.provider().GetConfigPath())
	backupPath, err := mgr.CreateBackup()
	if err != nil {
		return fmt.Errorf("backup failed: %w", err)
	}

	ctx.printf("✓ Backup created: %s\n", backupPath)
	return nil
}

type BackupListCmd struct{}

func (c *BackupListCmd) Run(ctx *Context) error {
	mgr := backup.NewManager(ctx.provider().GetConfigPath())
	backups, err := mgr.ListBackups()
	if err != nil {
		return fmt.Errorf("failed to list backups: %w", err)
	}

	if len(backups) == 0 {
		ctx.println("No backups found.")
		ctx.printf("Backups are stored in: %s\n", mgr.GetBackupDir())
		return nil
	}

	ctx.printf("Available backups (%d total, keeping most recent %d):\n\n", len(backups), constants.MaxBackups)
	now := ctx.now()
	for _, b := range backups {
		ctx.printf("  %s  %-32s  %8s  %s\n",
			b.Timestamp.Format("2006-01-02 15:04:05"),
			b.Name(),
			humanize.Bytes(uint64(b.Size)),
			humanize.RelTime(b.Timestamp, now, "ago", "from now"),
		)
	}
	ctx.printf("\nBackup directory: %s\n", mgr.GetBackupDir())

	return nil
}

type BackupRestoreCmd struct {
	BackupFile string `arg:"" help:"Path or filename of the backup to restore."`
	Yes        bool   `short:"y" help:"Restore without asking for confirmation."`
}

func (c *BackupRestoreCmd) Run(ctx *Context) error {
	if err := ctx.acquireLock(); err != nil {
		return err
	}

	mgr := backup.NewManager(ctx.provider().GetConfigPath())
	backupPath := mgr.Resolve(c.BackupFile)
	if _, err := os.Stat(backupPath); os.IsNotExist(err) {
		return fmt.Errorf("backup file not found: %s", backupPath)
	}

	if !c.Yes {
		ctx.println("⚠️  WARNING: This will replace your current habits with the backup.")
		ctx.println("A backup of your current habits will be created before restoring.")
		ctx.printf("\nRestore from: %s\n", backupPath)
		ok, err := ctx.confirm("Continue?")
		if err != nil {
			return err
		}
		if !ok {
			ctx.println("Restore cancelled.")
			return nil
		}
	}

	// The store file is replaced underneath the open connection.
	if err := ctx.provider().Close(); err != nil {
		fmt.Fprintf(ctx.errOut(), "Warning: failed to close store: %v\n", err)
	}

	preRestore, err := mgr.RestoreBackup(backupPath)
	if err != nil {
		return fmt.Errorf("restore failed: %w", err)
	}

	ctx.println("✓ Habits restored successfully!")
	if preRestore != "" {
		ctx.printf("Previous data saved to: %s\n", preRestore)
	}
	ctx.println("Restart any running habitlit sessions to use the restored data.")
	return nil
}
