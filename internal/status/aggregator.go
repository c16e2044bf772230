package status

import (
	"context"
	"fmt"
	"time"

	"sync-status-service/internal/store"
)

// Aggregator reads a user's sync signals and summarizes them into one
// Result. It holds no mutable state; every evaluation re-reads its
// inputs and evaluations may run concurrently.
type Aggregator struct {
	source    store.SignalSource
	threshold time.Duration
	workers   int
	now       func() time.Time
}

func NewAggregator(source store.SignalSource, threshold time.Duration, workers int) *Aggregator {
	if workers < 1 {
		workers = 1
	}
	return &Aggregator{
		source:    source,
		threshold: threshold,
		workers:   workers,
		now:       time.Now,
	}
}

// Evaluate computes the status for one user. A user with no sync
// status record has never synced; that yields (nil, nil), not an
// error.
func (a *Aggregator) Evaluate(ctx context.Context, userID string) (*Result, error) {
	userStatus, err := a.source.SyncStatusFor(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to look up sync status for user %s: %w", userID, err)
	}
	if userStatus == nil {
		return nil, nil
	}

	snap, err := a.collect(ctx, userStatus)
	if err != nil {
		return nil, fmt.Errorf("failed to collect signals for user %s: %w", userID, err)
	}

	result := resolveResult(userStatus.UserID, snap)
	return &result, nil
}

// collect takes the point-in-time snapshot an evaluation works from.
// Missing sub-signals are left nil; a dangling session reference reads
// the same as no session at all.
func (a *Aggregator) collect(ctx context.Context, userStatus *store.UserSyncStatus) (*snapshot, error) {
	snap := &snapshot{
		userStatus: userStatus,
		now:        a.now(),
		threshold:  a.threshold,
	}

	if userStatus.SyncSessionID.Valid {
		session, err := a.source.SyncSessionByID(ctx, userStatus.SyncSessionID.String)
		if err != nil {
			return nil, fmt.Errorf("failed to look up sync session: %w", err)
		}
		snap.session = session
	}

	if snap.session != nil {
		transfers, err := a.source.TransferSessionsFor(ctx, snap.session.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to look up transfer sessions: %w", err)
		}
		snap.transfers = transfers

		if instanceID := peerInstanceID(snap.session); instanceID != "" {
			deviceStatus, err := a.source.LatestDeviceStatusFor(ctx, instanceID)
			if err != nil {
				return nil, fmt.Errorf("failed to look up device status: %w", err)
			}
			snap.deviceStatus = deviceStatus
		}
	}

	downloads, err := a.source.DownloadRequestsFor(ctx, userStatus.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to look up download requests: %w", err)
	}
	snap.downloads = downloads

	removals, err := a.source.RemovalRequestsFor(ctx, userStatus.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to look up removal requests: %w", err)
	}
	snap.removals = removals

	return snap, nil
}

func resolveResult(userID string, snap *snapshot) Result {
	hasDownloads, lastRemoved, syncInProgress := downloadFlags(snap.downloads, snap.removals)

	return Result{
		UserID:                  userID,
		Status:                  resolve(snap),
		HasDownloads:            hasDownloads,
		LastDownloadRemoved:     lastRemoved,
		SyncDownloadsInProgress: syncInProgress,
	}
}
