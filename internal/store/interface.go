package store

import (
	"context"
	"time"
)

// SignalSource is the read contract the status resolver consumes. All
// lookups are bounded, point-in-time reads; absence is reported as a
// nil record or missing map entry, never as an error.
type SignalSource interface {
	// Per-user lookups
	SyncStatusFor(ctx context.Context, userID string) (*UserSyncStatus, error)
	SyncSessionByID(ctx context.Context, id string) (*SyncSession, error)
	TransferSessionsFor(ctx context.Context, syncSessionID string) ([]TransferSession, error)
	LatestDeviceStatusFor(ctx context.Context, instanceID string) (*DeviceStatusSignal, error)
	DownloadRequestsFor(ctx context.Context, userID string) ([]ContentDownloadRequest, error)
	RemovalRequestsFor(ctx context.Context, userID string) ([]ContentRemovalRequest, error)

	// Batch lookups, keyed by the id the per-user variant takes
	SyncStatusesFor(ctx context.Context, userIDs []string) (map[string]*UserSyncStatus, error)
	SyncSessionsByID(ctx context.Context, ids []string) (map[string]*SyncSession, error)
	TransferSessionsForSessions(ctx context.Context, syncSessionIDs []string) (map[string][]TransferSession, error)
	LatestDeviceStatusesFor(ctx context.Context, instanceIDs []string) (map[string]*DeviceStatusSignal, error)
	DownloadRequestsForUsers(ctx context.Context, userIDs []string) (map[string][]ContentDownloadRequest, error)
	RemovalRequestsForUsers(ctx context.Context, userIDs []string) (map[string][]ContentRemovalRequest, error)
}

// Store is the full datastore surface: the read contract plus the
// maintenance writes owned by the sweeper.
type Store interface {
	SignalSource

	DeactivateTransferSessionsBefore(ctx context.Context, cutoff time.Time) (int64, error)

	Close() error
}
