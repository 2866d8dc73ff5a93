package sync

import "github.com/docelar/docelar/internal/domain/models"

// Merge reconciles a pulled remote document onto the local one. The remote
// business collections win wholesale (last-writer-wins, no field-level merge),
// but the local session identity is always retained: a stale remote copy must
// never evict the locally authenticated user. Missing remote collections are
// defaulted so a partial payload cannot break the application.
func Merge(local, remote models.AppState) models.AppState {
	merged := remote.Normalized()
	merged.User = local.User
	if merged.Settings.DefaultCommissionRate == 0 {
		merged.Settings = local.Settings
	}
	return merged
}
