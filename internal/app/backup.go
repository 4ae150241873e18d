// ABOUTME: Backup export and import pass-throughs on the facade
// ABOUTME: Imports republish the snapshot so observers see the new dataset at once
package app

import (
	"context"

	"github.com/arjun/studydesk/internal/storage"
)

// ExportBackup captures the whole store as one backup document.
func (a *App) ExportBackup(ctx context.Context) (*storage.BackupData, error) {
	return a.store.ExportBackup(ctx)
}

// ImportBackup applies a backup document. With replace set the current
// dataset is dropped first; otherwise records merge by id, import winning.
// Either way the import is atomic and the snapshot is republished after.
func (a *App) ImportBackup(ctx context.Context, doc *storage.BackupData, replace bool) error {
	var err error
	if replace {
		err = a.store.ImportBackupReplace(ctx, doc)
	} else {
		err = a.store.ImportBackup(ctx, doc)
	}
	if err != nil {
		return err
	}
	_, err = a.Refresh(ctx)
	return err
}
