package status

import (
	"time"

	"sync-status-service/internal/store"
)

// Status is the single summarized sync state reported for a user.
type Status string

const (
	Queued              Status = "QUEUED"
	Syncing             Status = "SYNCING"
	RecentlySynced      Status = "RECENTLY_SYNCED"
	NotRecentlySynced   Status = "NOT_RECENTLY_SYNCED"
	UnableToSync        Status = "UNABLE_TO_SYNC"
	InsufficientStorage Status = "INSUFFICIENT_STORAGE"
)

// Result is the per-user record handed to the presentation layer. The
// field names are a contract; callers serialize them as-is.
type Result struct {
	UserID                  string     `json:"user_id"`
	Status                  Status     `json:"status"`
	HasDownloads            bool       `json:"has_downloads"`
	LastDownloadRemoved     *time.Time `json:"last_download_removed"`
	SyncDownloadsInProgress bool       `json:"sync_downloads_in_progress"`
}

// snapshot holds everything one evaluation reads, captured up front so
// resolution never touches a live record. now/threshold travel with
// the snapshot so every rule sees the same clock.
type snapshot struct {
	userStatus   *store.UserSyncStatus
	session      *store.SyncSession
	transfers    []store.TransferSession
	deviceStatus *store.DeviceStatusSignal
	downloads    []store.ContentDownloadRequest
	removals     []store.ContentRemovalRequest

	now       time.Time
	threshold time.Duration
}

// peerInstanceID picks the sync session's peer instance id for device
// status lookup. The client instance is the usual reporter; fall back
// to the server instance for server-initiated sessions.
func peerInstanceID(session *store.SyncSession) string {
	if session == nil {
		return ""
	}
	if session.ClientInstanceID.Valid {
		return session.ClientInstanceID.String
	}
	if session.ServerInstanceID.Valid {
		return session.ServerInstanceID.String
	}
	return ""
}
