package status

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"sync-status-service/internal/store"
)

// prefetched holds the read-only signal maps a batch evaluation shares
// across users. It is populated once before resolution begins and
// never written afterwards.
type prefetched struct {
	statuses  map[string]*store.UserSyncStatus
	sessions  map[string]*store.SyncSession
	transfers map[string][]store.TransferSession
	devices   map[string]*store.DeviceStatusSignal
	downloads map[string][]store.ContentDownloadRequest
	removals  map[string][]store.ContentRemovalRequest
}

// EvaluateMany computes statuses for a set of users with one batched
// fetch per signal source. Each user still resolves independently, so
// the result for any user matches what Evaluate would produce. Users
// without a sync status record are omitted. Output is ordered by user
// id.
func (a *Aggregator) EvaluateMany(ctx context.Context, userIDs []string) ([]Result, error) {
	ids := dedupeSorted(userIDs)
	if len(ids) == 0 {
		return nil, nil
	}

	pre, err := a.prefetch(ctx, ids)
	if err != nil {
		return nil, err
	}

	now := a.now()

	// Resolution is pure per user, so fan it out over a bounded pool.
	results := make([]*Result, len(ids))
	jobs := make(chan int)

	var wg sync.WaitGroup
	for w := 0; w < a.workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				userID := ids[i]
				userStatus := pre.statuses[userID]
				if userStatus == nil {
					continue
				}
				snap := pre.snapshotFor(userStatus, now, a.threshold)
				r := resolveResult(userID, snap)
				results[i] = &r
			}
		}()
	}

	for i := range ids {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	out := make([]Result, 0, len(ids))
	for _, r := range results {
		if r != nil {
			out = append(out, *r)
		}
	}
	return out, nil
}

func (a *Aggregator) prefetch(ctx context.Context, userIDs []string) (*prefetched, error) {
	pre := &prefetched{}

	var err error
	pre.statuses, err = a.source.SyncStatusesFor(ctx, userIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to look up sync statuses: %w", err)
	}

	var sessionIDs []string
	for _, us := range pre.statuses {
		if us.SyncSessionID.Valid {
			sessionIDs = append(sessionIDs, us.SyncSessionID.String)
		}
	}
	sessionIDs = dedupeSorted(sessionIDs)

	pre.sessions, err = a.source.SyncSessionsByID(ctx, sessionIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to look up sync sessions: %w", err)
	}

	pre.transfers, err = a.source.TransferSessionsForSessions(ctx, sessionIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to look up transfer sessions: %w", err)
	}

	var instanceIDs []string
	for _, session := range pre.sessions {
		if id := peerInstanceID(session); id != "" {
			instanceIDs = append(instanceIDs, id)
		}
	}
	instanceIDs = dedupeSorted(instanceIDs)

	pre.devices, err = a.source.LatestDeviceStatusesFor(ctx, instanceIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to look up device statuses: %w", err)
	}

	pre.downloads, err = a.source.DownloadRequestsForUsers(ctx, userIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to look up download requests: %w", err)
	}

	pre.removals, err = a.source.RemovalRequestsForUsers(ctx, userIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to look up removal requests: %w", err)
	}

	return pre, nil
}

// snapshotFor assembles one user's snapshot out of the shared maps.
// The snapshot only points into prefetched data, which stays read-only
// for the lifetime of the batch.
func (p *prefetched) snapshotFor(userStatus *store.UserSyncStatus, now time.Time, threshold time.Duration) *snapshot {
	snap := &snapshot{
		userStatus: userStatus,
		now:        now,
		threshold:  threshold,
	}

	if userStatus.SyncSessionID.Valid {
		snap.session = p.sessions[userStatus.SyncSessionID.String]
	}
	if snap.session != nil {
		snap.transfers = p.transfers[snap.session.ID]
		if instanceID := peerInstanceID(snap.session); instanceID != "" {
			snap.deviceStatus = p.devices[instanceID]
		}
	}

	snap.downloads = p.downloads[userStatus.UserID]
	snap.removals = p.removals[userStatus.UserID]

	return snap
}

func dedupeSorted(ids []string) []string {
	seen := make(map[string]bool, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}
