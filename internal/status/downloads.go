package status

import (
	"time"

	"sync-status-service/internal/store"
)

// downloadFlags computes the download-ledger fields of a Result.
//
// A removal cancels a download by content id alone for has_downloads,
// but must also carry the same reason to cancel a sync-initiated
// download for sync_downloads_in_progress. The two flags can disagree.
func downloadFlags(downloads []store.ContentDownloadRequest, removals []store.ContentRemovalRequest) (hasDownloads bool, lastRemoved *time.Time, syncInProgress bool) {
	if len(downloads) == 0 {
		return false, nil, false
	}

	downloadedIDs := make(map[string]bool, len(downloads))
	for _, d := range downloads {
		downloadedIDs[d.ContentID] = true
	}

	removedIDs := make(map[string]bool, len(removals))
	removedIDReasons := make(map[[2]string]bool, len(removals))
	for _, r := range removals {
		removedIDs[r.ContentID] = true
		removedIDReasons[[2]string{r.ContentID, r.Reason}] = true

		if downloadedIDs[r.ContentID] {
			t := r.RequestedAt
			if lastRemoved == nil || t.After(*lastRemoved) {
				lastRemoved = &t
			}
		}
	}

	for _, d := range downloads {
		if !removedIDs[d.ContentID] {
			hasDownloads = true
		}
		if d.Reason == store.ReasonSyncInitiated && !removedIDReasons[[2]string{d.ContentID, d.Reason}] {
			syncInProgress = true
		}
	}

	return hasDownloads, lastRemoved, syncInProgress
}
